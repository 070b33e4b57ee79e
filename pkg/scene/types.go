package scene

import (
	"github.com/google/uuid"

	"github.com/harlow/trestle/pkg/geom"
)

// NodeID identifies a node (object or assembly) within a document.
// It is always a lookup key, never an owning reference.
type NodeID string

// ZeroID is the empty NodeID. A zero ParentID means the node is a root.
const ZeroID NodeID = ""

// NewNodeID returns a fresh random NodeID.
func NewNodeID() NodeID {
	return NodeID(uuid.NewString())
}

// IsZero reports whether the id is empty.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

// Short returns an abbreviated form of the id for error messages.
func (id NodeID) Short() string {
	s := string(id)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// Default object properties applied by NewObject.
const (
	DefaultMaterial = "pine"
	DefaultCategory = "misc"
)

// Object is a placed, dimensioned solid. Its LocalPosition and LocalRotation
// are relative to its parent (or to world space when ParentID is zero).
type Object struct {
	ID               NodeID    `json:"id"`
	Name             string    `json:"name"`
	ParentID         NodeID    `json:"parentId,omitempty"`
	LocalPosition    geom.Vec3 `json:"localPosition"`
	Dimensions       geom.Dims `json:"dimensions"`
	LocalRotation    geom.Vec3 `json:"rotation"` // Euler angles in degrees
	Material         string    `json:"material"`
	Category         string    `json:"category"`
	Tags             []string  `json:"tags,omitempty"`
	GridSnap         bool      `json:"gridSnap"`
	RotationEnabled  bool      `json:"rotationEnabled"`
	ShowDimensions   bool      `json:"showDimensions"`
	UseAssemblyColor bool      `json:"useAssemblyColor"`
	Notes            string    `json:"notes,omitempty"`
}

// NewObject creates an object with a fresh id and default properties.
func NewObject(name string, dims geom.Dims) *Object {
	return &Object{
		ID:             NewNodeID(),
		Name:           name,
		Dimensions:     dims,
		Material:       DefaultMaterial,
		Category:       DefaultCategory,
		GridSnap:       true,
		ShowDimensions: true,
	}
}

// Clone returns a deep copy.
func (o *Object) Clone() *Object {
	c := *o
	if o.Tags != nil {
		c.Tags = append([]string(nil), o.Tags...)
	}
	return &c
}

// Assembly is a massless grouping node. It has no position of its own;
// its world transform is defined as the identity transform.
type Assembly struct {
	ID       NodeID   `json:"id"`
	Name     string   `json:"name"`
	ParentID NodeID   `json:"parentId,omitempty"`
	Color    string   `json:"color"`
	Visible  bool     `json:"visible"`
	Notes    string   `json:"notes,omitempty"`
	ChildIDs []NodeID `json:"childIds"`
}

// NewAssembly creates a visible assembly with a fresh id.
func NewAssembly(name, color string) *Assembly {
	return &Assembly{
		ID:       NewNodeID(),
		Name:     name,
		Color:    color,
		Visible:  true,
		ChildIDs: []NodeID{},
	}
}

// Clone returns a deep copy.
func (a *Assembly) Clone() *Assembly {
	c := *a
	c.ChildIDs = append([]NodeID(nil), a.ChildIDs...)
	return &c
}

// WorldTransform is a node's absolute position and rotation in the shared
// coordinate space. Rotation composes additively up the parent chain
// (Euler sums, not matrix composition); the model is axis-aligned by
// default, so this simplification holds.
type WorldTransform struct {
	Position geom.Vec3 `json:"position"`
	Rotation geom.Vec3 `json:"rotation"`
}

// IdentityTransform is the transform of assemblies, roots' parents, and
// unknown ids.
var IdentityTransform = WorldTransform{}
