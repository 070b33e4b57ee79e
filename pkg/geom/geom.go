// Package geom provides the small value types shared by the drafting core:
// 3-component vectors, object dimensions, and grid-snap quantization.
package geom

import "math"

// Vec3 is a 3-component vector. Used for positions, rotations (Euler
// degrees), and deltas.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by f.
func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

// IsZero reports whether all components are exactly zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Dims holds the dimensions of a placed object. All components must be
// positive; zero-size objects are rejected at the API boundary.
type Dims struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// Valid reports whether all dimensions are positive.
func (d Dims) Valid() bool {
	return d.Width > 0 && d.Height > 0 && d.Depth > 0
}

// Snap quantizes value to the nearest multiple of increment. A zero or
// negative increment returns the value unchanged. Snap is idempotent:
// Snap(Snap(x, g), g) == Snap(x, g).
func Snap(value, increment float64) float64 {
	if increment <= 0 {
		return value
	}
	return math.Round(value/increment) * increment
}

// SnapVec3 applies Snap per axis.
func SnapVec3(v Vec3, increment float64) Vec3 {
	return Vec3{
		X: Snap(v.X, increment),
		Y: Snap(v.Y, increment),
		Z: Snap(v.Z, increment),
	}
}
