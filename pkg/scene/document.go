package scene

import "fmt"

// Document is one open drafting document: the flat id-keyed store of
// objects and assemblies. Each document owns its own store; documents
// never share mutable state. The slices are canonical and keep insertion
// order; the maps are derived indexes maintained by the mutators.
type Document struct {
	Objects    []*Object
	Assemblies []*Assembly

	objIndex map[NodeID]*Object
	asmIndex map[NodeID]*Assembly
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		Objects:    []*Object{},
		Assemblies: []*Assembly{},
		objIndex:   make(map[NodeID]*Object),
		asmIndex:   make(map[NodeID]*Assembly),
	}
}

// AddObject inserts an object into the document. The object's dimensions
// must be positive and its id must be unused.
func (d *Document) AddObject(o *Object) error {
	if !o.Dimensions.Valid() {
		return fmt.Errorf("object %q: dimensions must be positive, got %+v", o.Name, o.Dimensions)
	}
	if d.Exists(o.ID) {
		return fmt.Errorf("node id %s already exists", o.ID.Short())
	}
	if !o.ParentID.IsZero() && !d.Exists(o.ParentID) {
		return fmt.Errorf("object %q: parent %s does not exist", o.Name, o.ParentID.Short())
	}
	d.Objects = append(d.Objects, o)
	d.objIndex[o.ID] = o
	d.attachToParent(o.ID, o.ParentID)
	return nil
}

// AddAssembly inserts an assembly into the document.
func (d *Document) AddAssembly(a *Assembly) error {
	if d.Exists(a.ID) {
		return fmt.Errorf("node id %s already exists", a.ID.Short())
	}
	if !a.ParentID.IsZero() && !d.Exists(a.ParentID) {
		return fmt.Errorf("assembly %q: parent %s does not exist", a.Name, a.ParentID.Short())
	}
	if a.ChildIDs == nil {
		a.ChildIDs = []NodeID{}
	}
	d.Assemblies = append(d.Assemblies, a)
	d.asmIndex[a.ID] = a
	d.attachToParent(a.ID, a.ParentID)
	return nil
}

// Object returns the object with the given id, or nil.
func (d *Document) Object(id NodeID) *Object {
	return d.objIndex[id]
}

// Assembly returns the assembly with the given id, or nil.
func (d *Document) Assembly(id NodeID) *Assembly {
	return d.asmIndex[id]
}

// Exists reports whether any node (object or assembly) has the given id.
func (d *Document) Exists(id NodeID) bool {
	if id.IsZero() {
		return false
	}
	_, obj := d.objIndex[id]
	_, asm := d.asmIndex[id]
	return obj || asm
}

// NodeCount returns the total number of nodes.
func (d *Document) NodeCount() int {
	return len(d.Objects) + len(d.Assemblies)
}

// parentOf returns the ParentID of the given node, or ZeroID.
func (d *Document) parentOf(id NodeID) NodeID {
	if o := d.objIndex[id]; o != nil {
		return o.ParentID
	}
	if a := d.asmIndex[id]; a != nil {
		return a.ParentID
	}
	return ZeroID
}

// ChildrenOf returns the ids of all direct children of the given node,
// in document order. The parent relation is authoritative: this derived
// lookup covers both an assembly's tracked ChildIDs and objects parented
// directly under another object, so ancestor/descendant traversal is a
// single algorithm.
func (d *Document) ChildrenOf(id NodeID) []NodeID {
	var children []NodeID
	for _, o := range d.Objects {
		if o.ParentID == id {
			children = append(children, o.ID)
		}
	}
	for _, a := range d.Assemblies {
		if a.ParentID == id {
			children = append(children, a.ID)
		}
	}
	return children
}

// Descendants returns every transitive descendant of the given node.
func (d *Document) Descendants(id NodeID) []NodeID {
	var all []NodeID
	queue := d.ChildrenOf(id)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		all = append(all, current)
		queue = append(queue, d.ChildrenOf(current)...)
	}
	return all
}

// attachToParent appends id to the parent's ChildIDs when the parent is an
// assembly that does not already list it.
func (d *Document) attachToParent(id, parentID NodeID) {
	if parentID.IsZero() {
		return
	}
	parent := d.asmIndex[parentID]
	if parent == nil {
		return // object parents keep no child list
	}
	for _, cid := range parent.ChildIDs {
		if cid == id {
			return
		}
	}
	parent.ChildIDs = append(parent.ChildIDs, id)
}

// detachFromParent strips id from the parent's ChildIDs when the parent is
// an assembly.
func (d *Document) detachFromParent(id, parentID NodeID) {
	if parentID.IsZero() {
		return
	}
	parent := d.asmIndex[parentID]
	if parent == nil {
		return
	}
	for i, cid := range parent.ChildIDs {
		if cid == id {
			parent.ChildIDs = append(parent.ChildIDs[:i], parent.ChildIDs[i+1:]...)
			return
		}
	}
}

// removeNode deletes a single node from the store without touching its
// relatives. Callers are responsible for hierarchy repair.
func (d *Document) removeNode(id NodeID) {
	if _, ok := d.objIndex[id]; ok {
		delete(d.objIndex, id)
		for i, o := range d.Objects {
			if o.ID == id {
				d.Objects = append(d.Objects[:i], d.Objects[i+1:]...)
				break
			}
		}
	}
	if _, ok := d.asmIndex[id]; ok {
		delete(d.asmIndex, id)
		for i, a := range d.Assemblies {
			if a.ID == id {
				d.Assemblies = append(d.Assemblies[:i], d.Assemblies[i+1:]...)
				break
			}
		}
	}
}

// Snapshot is the serializable document shape consumed on load and
// produced on save by the persistence collaborator, and the unit the
// history manager stores.
type Snapshot struct {
	Objects    []*Object   `json:"objects"`
	Assemblies []*Assembly `json:"assemblies"`
}

// TakeSnapshot deep-clones the current document state.
func (d *Document) TakeSnapshot() *Snapshot {
	s := &Snapshot{
		Objects:    make([]*Object, len(d.Objects)),
		Assemblies: make([]*Assembly, len(d.Assemblies)),
	}
	for i, o := range d.Objects {
		s.Objects[i] = o.Clone()
	}
	for i, a := range d.Assemblies {
		s.Assemblies[i] = a.Clone()
	}
	return s
}

// Restore replaces the document contents with a deep clone of the snapshot.
// The snapshot itself stays untouched so it can be restored again.
func (d *Document) Restore(s *Snapshot) {
	d.Objects = make([]*Object, len(s.Objects))
	d.Assemblies = make([]*Assembly, len(s.Assemblies))
	d.objIndex = make(map[NodeID]*Object, len(s.Objects))
	d.asmIndex = make(map[NodeID]*Assembly, len(s.Assemblies))
	for i, o := range s.Objects {
		c := o.Clone()
		d.Objects[i] = c
		d.objIndex[c.ID] = c
	}
	for i, a := range s.Assemblies {
		c := a.Clone()
		d.Assemblies[i] = c
		d.asmIndex[c.ID] = c
	}
}
