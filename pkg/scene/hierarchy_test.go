package scene

import (
	"testing"

	"github.com/harlow/trestle/pkg/geom"
)

func TestReparentPreservesWorldPosition(t *testing.T) {
	// Object P at local {10,0,0} with no parent (world {10,0,0});
	// object C parented to P with local {2,3,0} (world {12,3,0}).
	// Reparenting C to root must yield local {12,3,0}.
	d := NewDocument()
	p := addObject(t, d, "P", geom.Vec3{X: 10}, ZeroID)
	c := addObject(t, d, "C", geom.Vec3{X: 2, Y: 3}, p.ID)

	before, err := d.WorldTransformOf(c.ID)
	if err != nil {
		t.Fatalf("WorldTransformOf before: %v", err)
	}

	if err := d.Reparent(c.ID, ZeroID); err != nil {
		t.Fatalf("Reparent to root: %v", err)
	}
	if c.LocalPosition != (geom.Vec3{X: 12, Y: 3}) {
		t.Errorf("local after reparent = %v, want {12 3 0}", c.LocalPosition)
	}

	after, err := d.WorldTransformOf(c.ID)
	if err != nil {
		t.Fatalf("WorldTransformOf after: %v", err)
	}
	if before.Position != after.Position {
		t.Errorf("world position changed across reparent: %v -> %v", before.Position, after.Position)
	}
}

func TestReparentIntoAssemblyUpdatesChildIDs(t *testing.T) {
	d := NewDocument()
	from := addAssembly(t, d, "from", ZeroID)
	to := addAssembly(t, d, "to", ZeroID)
	o := addObject(t, d, "slat", geom.Vec3{X: 1}, from.ID)

	if len(from.ChildIDs) != 1 || from.ChildIDs[0] != o.ID {
		t.Fatalf("setup: from.ChildIDs = %v", from.ChildIDs)
	}

	if err := d.Reparent(o.ID, to.ID); err != nil {
		t.Fatalf("Reparent: %v", err)
	}
	if len(from.ChildIDs) != 0 {
		t.Errorf("old parent still lists child: %v", from.ChildIDs)
	}
	if len(to.ChildIDs) != 1 || to.ChildIDs[0] != o.ID {
		t.Errorf("new parent child list = %v, want [%s]", to.ChildIDs, o.ID.Short())
	}
	if o.ParentID != to.ID {
		t.Errorf("ParentID = %s, want %s", o.ParentID.Short(), to.ID.Short())
	}
}

func TestReparentRejectsSelfParent(t *testing.T) {
	d := NewDocument()
	o := addObject(t, d, "solo", geom.Vec3{X: 1}, ZeroID)

	err := d.Reparent(o.ID, o.ID)
	if !IsHierarchyError(err, SelfParent) {
		t.Fatalf("self-parent error = %v, want SelfParent", err)
	}
	if !o.ParentID.IsZero() {
		t.Error("rejected reparent must leave the graph unchanged")
	}
}

func TestReparentRejectsCycle(t *testing.T) {
	d := NewDocument()
	a := addObject(t, d, "a", geom.Vec3{}, ZeroID)
	b := addObject(t, d, "b", geom.Vec3{}, a.ID)
	c := addObject(t, d, "c", geom.Vec3{}, b.ID)

	// a under its own grandchild c: cycle.
	err := d.Reparent(a.ID, c.ID)
	if !IsHierarchyError(err, CycleDetected) {
		t.Fatalf("cycle error = %v, want CycleDetected", err)
	}
	if !a.ParentID.IsZero() {
		t.Error("rejected reparent must leave the graph unchanged")
	}
}

func TestReparentCycleThroughAssemblyChildren(t *testing.T) {
	// The descendant walk must cover both structures: assembly ChildIDs
	// and object ParentID links.
	d := NewDocument()
	asm := addAssembly(t, d, "group", ZeroID)
	o := addObject(t, d, "inner", geom.Vec3{}, asm.ID)
	leaf := addObject(t, d, "leaf", geom.Vec3{}, o.ID)

	err := d.Reparent(asm.ID, leaf.ID)
	if !IsHierarchyError(err, CycleDetected) {
		t.Fatalf("cycle via mixed structures = %v, want CycleDetected", err)
	}
}

func TestReparentRejectsDepthLimit(t *testing.T) {
	d := NewDocument()
	parent := ZeroID
	var last *Object
	for i := 0; i < MaxDepth; i++ {
		last = addObject(t, d, "link", geom.Vec3{}, parent)
		parent = last.ID
	}

	extra := addObject(t, d, "extra", geom.Vec3{}, ZeroID)
	err := d.Reparent(extra.ID, last.ID)
	if !IsHierarchyError(err, DepthLimitExceeded) {
		t.Fatalf("depth error = %v, want DepthLimitExceeded", err)
	}
	if !extra.ParentID.IsZero() {
		t.Error("rejected reparent must leave the graph unchanged")
	}
}

func TestReparentUnknownIDs(t *testing.T) {
	d := NewDocument()
	o := addObject(t, d, "only", geom.Vec3{}, ZeroID)

	if err := d.Reparent("ghost", o.ID); !IsHierarchyError(err, NotFound) {
		t.Errorf("unknown node error = %v, want NotFound", err)
	}
	if err := d.Reparent(o.ID, "ghost"); !IsHierarchyError(err, NotFound) {
		t.Errorf("unknown parent error = %v, want NotFound", err)
	}
}

func TestDeleteCascade(t *testing.T) {
	d := NewDocument()
	root := addAssembly(t, d, "cabinet", ZeroID)
	shelfGroup := addAssembly(t, d, "shelves", root.ID)
	shelf := addObject(t, d, "shelf", geom.Vec3{}, shelfGroup.ID)
	pin := addObject(t, d, "pin", geom.Vec3{}, shelf.ID)
	side := addObject(t, d, "side", geom.Vec3{}, root.ID)

	if err := d.DeleteCascade(shelfGroup.ID); err != nil {
		t.Fatalf("DeleteCascade: %v", err)
	}

	for _, id := range []NodeID{shelfGroup.ID, shelf.ID, pin.ID} {
		if d.Exists(id) {
			t.Errorf("node %s should have been cascade-deleted", id.Short())
		}
	}
	if !d.Exists(side.ID) || !d.Exists(root.ID) {
		t.Error("unrelated nodes must survive cascade delete")
	}
	for _, cid := range root.ChildIDs {
		if cid == shelfGroup.ID {
			t.Error("former parent still lists the deleted child")
		}
	}
	// No dangling ParentID may remain.
	for _, o := range d.Objects {
		if !o.ParentID.IsZero() && !d.Exists(o.ParentID) {
			t.Errorf("object %q has dangling parent %s", o.Name, o.ParentID.Short())
		}
	}
}

func TestDeleteCascadeUnknown(t *testing.T) {
	d := NewDocument()
	if err := d.DeleteCascade("ghost"); !IsHierarchyError(err, NotFound) {
		t.Errorf("error = %v, want NotFound", err)
	}
}

func TestMoveWorldUnderAssemblyChain(t *testing.T) {
	d := NewDocument()
	p := addObject(t, d, "base", geom.Vec3{X: 100}, ZeroID)
	c := addObject(t, d, "top", geom.Vec3{X: 10}, p.ID)

	if err := d.MoveWorld(c.ID, geom.Vec3{X: 5, Y: -2}); err != nil {
		t.Fatalf("MoveWorld: %v", err)
	}
	// Local moves by the delta; world offset from the parent is intact.
	if c.LocalPosition != (geom.Vec3{X: 15, Y: -2}) {
		t.Errorf("local after move = %v, want {15 -2 0}", c.LocalPosition)
	}
	wt, _ := d.WorldTransformOf(c.ID)
	if wt.Position != (geom.Vec3{X: 115, Y: -2}) {
		t.Errorf("world after move = %v, want {115 -2 0}", wt.Position)
	}
}

func TestMoveWorldAssemblyIsNoop(t *testing.T) {
	d := NewDocument()
	asm := addAssembly(t, d, "group", ZeroID)
	if err := d.MoveWorld(asm.ID, geom.Vec3{X: 5}); err != nil {
		t.Errorf("moving a massless assembly should be a silent no-op, got %v", err)
	}
}

func TestSetWorldPosition(t *testing.T) {
	d := NewDocument()
	p := addObject(t, d, "base", geom.Vec3{X: 100}, ZeroID)
	c := addObject(t, d, "top", geom.Vec3{X: 10}, p.ID)

	if err := d.SetWorldPosition(c.ID, geom.Vec3{X: 50, Z: 8}); err != nil {
		t.Fatalf("SetWorldPosition: %v", err)
	}
	if c.LocalPosition != (geom.Vec3{X: -50, Z: 8}) {
		t.Errorf("local = %v, want {-50 0 8}", c.LocalPosition)
	}
}
