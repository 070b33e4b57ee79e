package scene

import (
	"errors"
	"fmt"

	"github.com/harlow/trestle/pkg/geom"
)

// MaxDepth is the maximum ancestor-chain length. A reparent that would
// make a node's ancestor chain reach this length is rejected.
const MaxDepth = 128

// HierarchyErrorKind classifies why a hierarchy mutation was rejected.
type HierarchyErrorKind int

const (
	NotFound           HierarchyErrorKind = iota // referenced id does not exist
	SelfParent                                   // node parented to itself
	CycleDetected                                // new parent is a descendant of the node
	DepthLimitExceeded                           // ancestor chain would reach MaxDepth
)

func (k HierarchyErrorKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case SelfParent:
		return "self parent"
	case CycleDetected:
		return "cycle detected"
	case DepthLimitExceeded:
		return "depth limit exceeded"
	default:
		return fmt.Sprintf("HierarchyErrorKind(%d)", int(k))
	}
}

// HierarchyError is the typed outcome of a rejected hierarchy mutation.
// Rejections are no-ops: the graph is left unchanged.
type HierarchyError struct {
	Kind   HierarchyErrorKind
	NodeID NodeID
}

func (e *HierarchyError) Error() string {
	return fmt.Sprintf("hierarchy: %s (node %s)", e.Kind, e.NodeID.Short())
}

// IsHierarchyError reports whether err is a HierarchyError of the given kind.
func IsHierarchyError(err error, kind HierarchyErrorKind) bool {
	var he *HierarchyError
	return errors.As(err, &he) && he.Kind == kind
}

// depthOf returns the ancestor-chain length of a node: 0 for a root,
// 1 for a child of a root, and so on.
func (d *Document) depthOf(id NodeID) int {
	depth := 0
	current := d.parentOf(id)
	for !current.IsZero() && depth <= MaxDepth {
		depth++
		current = d.parentOf(current)
	}
	return depth
}

// ValidateReparent checks whether nodeID may be moved under newParentID.
// A zero newParentID (move to root) is always structurally valid for an
// existing node. The descendant walk covers both child-tracking
// structures via ChildrenOf.
func (d *Document) ValidateReparent(nodeID, newParentID NodeID) error {
	if !d.Exists(nodeID) {
		return &HierarchyError{Kind: NotFound, NodeID: nodeID}
	}
	if newParentID.IsZero() {
		return nil
	}
	if !d.Exists(newParentID) {
		return &HierarchyError{Kind: NotFound, NodeID: newParentID}
	}
	if newParentID == nodeID {
		return &HierarchyError{Kind: SelfParent, NodeID: nodeID}
	}
	for _, descID := range d.Descendants(nodeID) {
		if descID == newParentID {
			return &HierarchyError{Kind: CycleDetected, NodeID: nodeID}
		}
	}
	if d.depthOf(newParentID)+1 >= MaxDepth {
		return &HierarchyError{Kind: DepthLimitExceeded, NodeID: nodeID}
	}
	return nil
}

// Reparent moves a node under a new parent (or to root for a zero id).
// An object's world position is preserved: its local position is
// recomputed relative to the new parent before the link is updated.
// Assemblies are massless, so only their links change. Child lists on
// both the old and new parent assemblies are repaired.
func (d *Document) Reparent(nodeID, newParentID NodeID) error {
	if err := d.ValidateReparent(nodeID, newParentID); err != nil {
		return err
	}

	oldParentID := d.parentOf(nodeID)

	if obj := d.objIndex[nodeID]; obj != nil {
		world, err := d.WorldTransformOf(nodeID)
		if err != nil {
			return err
		}
		obj.LocalPosition = d.WorldToLocal(world.Position, newParentID)
		obj.ParentID = newParentID
	} else if asm := d.asmIndex[nodeID]; asm != nil {
		asm.ParentID = newParentID
	}

	d.detachFromParent(nodeID, oldParentID)
	d.attachToParent(nodeID, newParentID)
	return nil
}

// DeleteCascade removes a node and every transitive descendant from the
// document, and strips the deleted id from the former parent's child list.
// No dangling ParentID remains afterwards.
func (d *Document) DeleteCascade(nodeID NodeID) error {
	if !d.Exists(nodeID) {
		return &HierarchyError{Kind: NotFound, NodeID: nodeID}
	}

	parentID := d.parentOf(nodeID)
	doomed := append([]NodeID{nodeID}, d.Descendants(nodeID)...)
	for _, id := range doomed {
		d.removeNode(id)
	}
	d.detachFromParent(nodeID, parentID)
	return nil
}

// MoveWorld moves an object by a world-space delta. The delta is applied
// to the resolved world position and converted back to a local position
// relative to the existing parent, so objects under assembly chains with
// accumulated offsets move correctly. Drag interactions must go through
// this path rather than writing LocalPosition directly. Assemblies are
// massless and ignore the move.
func (d *Document) MoveWorld(nodeID NodeID, worldDelta geom.Vec3) error {
	if d.asmIndex[nodeID] != nil {
		return nil
	}
	obj := d.objIndex[nodeID]
	if obj == nil {
		return &HierarchyError{Kind: NotFound, NodeID: nodeID}
	}
	world, err := d.WorldTransformOf(nodeID)
	if err != nil {
		return err
	}
	obj.LocalPosition = d.WorldToLocal(world.Position.Add(worldDelta), obj.ParentID)
	return nil
}

// SetWorldPosition places an object at an absolute world position,
// converting to local space relative to its existing parent.
func (d *Document) SetWorldPosition(nodeID NodeID, world geom.Vec3) error {
	obj := d.objIndex[nodeID]
	if obj == nil {
		return &HierarchyError{Kind: NotFound, NodeID: nodeID}
	}
	obj.LocalPosition = d.WorldToLocal(world, obj.ParentID)
	return nil
}
