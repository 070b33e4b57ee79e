package view

import (
	"fmt"
	"math"

	"github.com/harlow/trestle/pkg/geom"
)

// View tags one of the ten fixed camera configurations.
type View string

const (
	Front  View = "front"
	Back   View = "back"
	Left   View = "left"
	Right  View = "right"
	Top    View = "top"
	Bottom View = "bottom"
	IsoNE  View = "iso-ne"
	IsoNW  View = "iso-nw"
	IsoSE  View = "iso-se"
	IsoSW  View = "iso-sw"
)

// Views lists all ten views in UI order.
var Views = []View{Front, Back, Left, Right, Top, Bottom, IsoNE, IsoNW, IsoSE, IsoSW}

// Parse returns the View for a tag, or an error for an unknown tag.
func Parse(tag string) (View, error) {
	v := View(tag)
	if _, ok := bases[v]; !ok {
		return "", fmt.Errorf("view: unknown view %q", tag)
	}
	return v, nil
}

// IsIsometric reports whether the view is one of the four corner views.
func (v View) IsIsometric() bool {
	switch v {
	case IsoNE, IsoNW, IsoSE, IsoSW:
		return true
	}
	return false
}

// basis defines which world axes map to screen-right and screen-up for a
// view, including sign flips. Both vectors are unit length, so the plane
// coordinates of a world point are plain dot products. The world axis
// missing from both vectors is the view's depth axis.
type basis struct {
	right geom.Vec3
	up    geom.Vec3
}

// invSqrt2 splits screen-right motion equally between two world axes in
// the isometric views.
var invSqrt2 = 1 / math.Sqrt2

var bases = map[View]basis{
	// Axis views. Back mirrors the horizontal axis; bottom mirrors the
	// depth-to-screen-vertical mapping of top.
	Front:  {right: geom.Vec3{X: 1}, up: geom.Vec3{Y: 1}},
	Back:   {right: geom.Vec3{X: -1}, up: geom.Vec3{Y: 1}},
	Left:   {right: geom.Vec3{Z: -1}, up: geom.Vec3{Y: 1}},
	Right:  {right: geom.Vec3{Z: 1}, up: geom.Vec3{Y: 1}},
	Top:    {right: geom.Vec3{X: 1}, up: geom.Vec3{Z: -1}},
	Bottom: {right: geom.Vec3{X: 1}, up: geom.Vec3{Z: 1}},

	// Isometric corner views: screen-up stays the world Y axis, and
	// screen-right splits across X and Z with the 1/sqrt(2) factor.
	IsoNE: {right: geom.Vec3{X: invSqrt2, Z: -invSqrt2}, up: geom.Vec3{Y: 1}},
	IsoNW: {right: geom.Vec3{X: invSqrt2, Z: invSqrt2}, up: geom.Vec3{Y: 1}},
	IsoSE: {right: geom.Vec3{X: -invSqrt2, Z: -invSqrt2}, up: geom.Vec3{Y: 1}},
	IsoSW: {right: geom.Vec3{X: -invSqrt2, Z: invSqrt2}, up: geom.Vec3{Y: 1}},
}

// Pan is the camera pan offset in screen pixels.
type Pan struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point is a position on the canvas in screen pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Camera is the view state consumed by the projection functions.
// Zoom is pixels per world unit and must be positive.
type Camera struct {
	CurrentView View    `json:"currentView"`
	Zoom        float64 `json:"zoom"`
	Pan         Pan     `json:"panOffset"`
}

// NewCamera returns a front-view camera at 1:1 zoom.
func NewCamera() Camera {
	return Camera{CurrentView: Front, Zoom: 1}
}

// ScreenToWorld converts pixel coordinates into a world position on the
// view's zero-depth plane. Objects dropped via this path land exactly on
// that plane: the depth axis of the result is always zero.
func ScreenToWorld(screenX, screenY float64, cam Camera, viewportW, viewportH float64) geom.Vec3 {
	b := bases[cam.CurrentView]
	planeX := (screenX - viewportW/2 - cam.Pan.X) / cam.Zoom
	// Screen Y grows downward; world up is positive.
	planeY := -(screenY - viewportH/2 - cam.Pan.Y) / cam.Zoom
	return b.right.Scale(planeX).Add(b.up.Scale(planeY))
}

// WorldToScreen is the inverse mapping used by hit testing and overlays.
// The depth component of the world position is discarded.
func WorldToScreen(world geom.Vec3, cam Camera, viewportW, viewportH float64) (screenX, screenY float64) {
	b := bases[cam.CurrentView]
	planeX := dot(world, b.right)
	planeY := dot(world, b.up)
	screenX = planeX*cam.Zoom + viewportW/2 + cam.Pan.X
	screenY = -planeY*cam.Zoom + viewportH/2 + cam.Pan.Y
	return screenX, screenY
}

// ScreenDeltaToWorldDelta converts a pixel delta into a world-space delta.
// Unlike ScreenToWorld it never touches the depth axis, so it is the right
// path for dragging objects that already sit at nonzero depth. The scale
// is inversely proportional to zoom.
func ScreenDeltaToWorldDelta(dxPixels, dyPixels float64, cam Camera) geom.Vec3 {
	b := bases[cam.CurrentView]
	return b.right.Scale(dxPixels / cam.Zoom).Add(b.up.Scale(-dyPixels / cam.Zoom))
}

func dot(a, b geom.Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}
