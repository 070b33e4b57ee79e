// Package view maps screen coordinates to world coordinates for the ten
// fixed orthographic camera configurations: six axis-aligned views and
// four isometric corner views. The isometric mapping is a deliberate
// interactive approximation, not an exact inverse of an isometric camera
// matrix.
package view
