package scene

import (
	"math"
	"testing"

	"github.com/harlow/trestle/pkg/geom"
)

func addSized(t *testing.T, d *Document, name string, pos geom.Vec3, w, h float64) *Object {
	t.Helper()
	o := NewObject(name, geom.Dims{Width: w, Height: h, Depth: 10})
	o.LocalPosition = pos
	if err := d.AddObject(o); err != nil {
		t.Fatalf("AddObject(%q): %v", name, err)
	}
	return o
}

func TestAlignLeft(t *testing.T) {
	d := NewDocument()
	a := addSized(t, d, "a", geom.Vec3{X: 10}, 20, 10)
	b := addSized(t, d, "b", geom.Vec3{X: 50}, 30, 10)

	got, err := d.Align([]NodeID{a.ID, b.ID}, AlignLeft)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if got[a.ID].X != 10 || got[b.ID].X != 10 {
		t.Errorf("left edges = %v / %v, want both 10", got[a.ID].X, got[b.ID].X)
	}
}

func TestAlignRight(t *testing.T) {
	d := NewDocument()
	a := addSized(t, d, "a", geom.Vec3{X: 10}, 20, 10) // right edge 30
	b := addSized(t, d, "b", geom.Vec3{X: 50}, 30, 10) // right edge 80

	got, err := d.Align([]NodeID{a.ID, b.ID}, AlignRight)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if got[a.ID].X+20 != 80 || got[b.ID].X+30 != 80 {
		t.Errorf("right edges = %v / %v, want both 80", got[a.ID].X+20, got[b.ID].X+30)
	}
}

func TestAlignCenterSharesCoordinate(t *testing.T) {
	d := NewDocument()
	a := addSized(t, d, "a", geom.Vec3{X: 0}, 20, 10)
	b := addSized(t, d, "b", geom.Vec3{X: 100}, 40, 10)
	c := addSized(t, d, "c", geom.Vec3{X: 7}, 6, 10)

	got, err := d.Align([]NodeID{a.ID, b.ID, c.ID}, AlignCenter)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	centers := []float64{
		got[a.ID].X + 10,
		got[b.ID].X + 20,
		got[c.ID].X + 3,
	}
	for _, cx := range centers[1:] {
		if math.Abs(cx-centers[0]) > 1e-9 {
			t.Errorf("centers differ after align: %v", centers)
		}
	}
	// Only the aligned axis changes.
	if got[a.ID].Y != a.LocalPosition.Y || got[a.ID].Z != a.LocalPosition.Z {
		t.Error("align center must not touch Y or Z")
	}
}

func TestAlignVerticalModes(t *testing.T) {
	d := NewDocument()
	a := addSized(t, d, "a", geom.Vec3{Y: 0}, 10, 20)  // top 20
	b := addSized(t, d, "b", geom.Vec3{Y: 50}, 10, 40) // top 90

	top, err := d.Align([]NodeID{a.ID, b.ID}, AlignTop)
	if err != nil {
		t.Fatalf("Align top: %v", err)
	}
	if top[a.ID].Y+20 != 90 || top[b.ID].Y+40 != 90 {
		t.Errorf("top edges = %v / %v, want both 90", top[a.ID].Y+20, top[b.ID].Y+40)
	}

	bottom, err := d.Align([]NodeID{a.ID, b.ID}, AlignBottom)
	if err != nil {
		t.Fatalf("Align bottom: %v", err)
	}
	if bottom[a.ID].Y != 0 || bottom[b.ID].Y != 0 {
		t.Errorf("bottom edges = %v / %v, want both 0", bottom[a.ID].Y, bottom[b.ID].Y)
	}
}

func TestAlignMixedParentsRejected(t *testing.T) {
	d := NewDocument()
	asm := addAssembly(t, d, "group", ZeroID)
	a := addSized(t, d, "a", geom.Vec3{}, 10, 10)
	b := NewObject("b", geom.Dims{Width: 10, Height: 10, Depth: 10})
	b.ParentID = asm.ID
	if err := d.AddObject(b); err != nil {
		t.Fatalf("AddObject: %v", err)
	}

	_, err := d.Align([]NodeID{a.ID, b.ID}, AlignLeft)
	if err != ErrMixedParents {
		t.Errorf("cross-parent align error = %v, want ErrMixedParents", err)
	}
}

func TestAlignTooFewIsNoop(t *testing.T) {
	d := NewDocument()
	a := addSized(t, d, "a", geom.Vec3{X: 3}, 10, 10)
	got, err := d.Align([]NodeID{a.ID}, AlignLeft)
	if err != nil || got != nil {
		t.Errorf("single-object align = (%v, %v), want (nil, nil)", got, err)
	}
}

func TestDistributeFiveObjects(t *testing.T) {
	d := NewDocument()
	// Centers at 5, 12, 30, 77, 105 (width 10 -> center = x+5).
	xs := []float64{0, 7, 25, 72, 100}
	ids := make([]NodeID, len(xs))
	for i, x := range xs {
		ids[i] = addSized(t, d, "o", geom.Vec3{X: x}, 10, 10).ID
	}

	got, err := d.Distribute(ids, DistributeHorizontal)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}

	centers := make([]float64, len(ids))
	for i, id := range ids {
		centers[i] = got[id].X + 5
	}
	// First and last unchanged.
	if centers[0] != 5 || centers[4] != 105 {
		t.Errorf("outer centers = %v / %v, want 5 / 105", centers[0], centers[4])
	}
	// Four equal gaps between consecutive centers.
	gap := centers[1] - centers[0]
	for i := 2; i < len(centers); i++ {
		if math.Abs((centers[i]-centers[i-1])-gap) > 1e-9 {
			t.Errorf("uneven gaps: centers = %v", centers)
			break
		}
	}
}

func TestDistributeVertical(t *testing.T) {
	d := NewDocument()
	ys := []float64{0, 1, 90}
	ids := make([]NodeID, len(ys))
	for i, y := range ys {
		ids[i] = addSized(t, d, "o", geom.Vec3{Y: y}, 10, 10).ID
	}

	got, err := d.Distribute(ids, DistributeVertical)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	mid := got[ids[1]].Y + 5
	if math.Abs(mid-50) > 1e-9 {
		t.Errorf("middle center = %v, want 50", mid)
	}
}

func TestDistributeNoops(t *testing.T) {
	d := NewDocument()
	a := addSized(t, d, "a", geom.Vec3{X: 10}, 10, 10)
	b := addSized(t, d, "b", geom.Vec3{X: 20}, 10, 10)

	// Fewer than three objects.
	if got, err := d.Distribute([]NodeID{a.ID, b.ID}, DistributeHorizontal); got != nil || err != nil {
		t.Errorf("two-object distribute = (%v, %v), want (nil, nil)", got, err)
	}

	// Zero span.
	c := addSized(t, d, "c", geom.Vec3{X: 10}, 10, 10)
	d2 := addSized(t, d, "d", geom.Vec3{X: 10}, 10, 10)
	e := addSized(t, d, "e", geom.Vec3{X: 10}, 10, 10)
	if got, err := d.Distribute([]NodeID{c.ID, d2.ID, e.ID}, DistributeHorizontal); got != nil || err != nil {
		t.Errorf("zero-span distribute = (%v, %v), want (nil, nil)", got, err)
	}
}

func TestApplyPositions(t *testing.T) {
	d := NewDocument()
	a := addSized(t, d, "a", geom.Vec3{X: 10}, 20, 10)
	b := addSized(t, d, "b", geom.Vec3{X: 50}, 30, 10)

	got, err := d.Align([]NodeID{a.ID, b.ID}, AlignLeft)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	d.ApplyPositions(got)
	if a.LocalPosition.X != 10 || b.LocalPosition.X != 10 {
		t.Errorf("positions after apply = %v / %v, want both X=10", a.LocalPosition, b.LocalPosition)
	}
}
