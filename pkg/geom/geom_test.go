package geom

import (
	"math"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{10, -2, 0.5}

	sum := a.Add(b)
	if sum != (Vec3{11, 0, 3.5}) {
		t.Errorf("Add = %v, want {11 0 3.5}", sum)
	}

	diff := a.Sub(b)
	if diff != (Vec3{-9, 4, 2.5}) {
		t.Errorf("Sub = %v, want {-9 4 2.5}", diff)
	}

	scaled := a.Scale(2)
	if scaled != (Vec3{2, 4, 6}) {
		t.Errorf("Scale = %v, want {2 4 6}", scaled)
	}

	if !(Vec3{}).IsZero() {
		t.Error("zero vector should report IsZero")
	}
	if a.IsZero() {
		t.Error("non-zero vector should not report IsZero")
	}
}

func TestDimsValid(t *testing.T) {
	if !(Dims{100, 50, 25}).Valid() {
		t.Error("positive dims should be valid")
	}
	for _, d := range []Dims{{0, 50, 25}, {100, 0, 25}, {100, 50, 0}, {-1, 50, 25}} {
		if d.Valid() {
			t.Errorf("dims %v should be invalid", d)
		}
	}
}

func TestSnap(t *testing.T) {
	tests := []struct {
		value, increment, want float64
	}{
		{0, 25, 0},
		{12, 25, 0},
		{13, 25, 25},
		{37, 25, 25},
		{38, 25, 50},
		{-13, 25, -25},
		{100, 25, 100},
		{7.4, 0.5, 7.5},
		// Zero or negative increment disables snapping.
		{33, 0, 33},
		{33, -5, 33},
	}
	for _, tt := range tests {
		got := Snap(tt.value, tt.increment)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Snap(%v, %v) = %v, want %v", tt.value, tt.increment, got, tt.want)
		}
	}
}

func TestSnapIdempotent(t *testing.T) {
	for _, v := range []float64{0, 1, 12.3, -77.7, 1e6 + 0.49} {
		once := Snap(v, 25)
		twice := Snap(once, 25)
		if once != twice {
			t.Errorf("Snap not idempotent for %v: %v != %v", v, once, twice)
		}
	}
}

func TestSnapVec3(t *testing.T) {
	got := SnapVec3(Vec3{12, 13, 38}, 25)
	want := Vec3{0, 25, 50}
	if got != want {
		t.Errorf("SnapVec3 = %v, want %v", got, want)
	}
}
