// Package kernel defines the abstract geometry kernel interface used to
// realize placed objects as solids. The abstraction keeps the rest of the
// system independent of the SDF backend.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface. The drafting model
// only places axis-aligned boxes; rotation support exists for objects
// with rotation enabled.
type Kernel interface {
	// Box creates a box with the given dimensions, minimum corner at the
	// origin.
	Box(x, y, z float64) Solid

	// Translate moves a solid by (x, y, z).
	Translate(s Solid, x, y, z float64) Solid

	// Rotate rotates a solid by Euler angles in degrees around X, Y, Z.
	Rotate(s Solid, x, y, z float64) Solid

	// ToMesh converts a solid to a triangle mesh.
	ToMesh(s Solid) (*Mesh, error)
}
