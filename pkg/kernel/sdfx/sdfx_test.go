package sdfx

import (
	"math"
	"testing"
)

func TestBoxMinCornerAtOrigin(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)

	min, max := box.BoundingBox()
	for i, v := range min {
		if math.Abs(v) > 1e-9 {
			t.Errorf("min[%d] = %v, want 0", i, v)
		}
	}
	want := [3]float64{100, 50, 25}
	for i, v := range max {
		if math.Abs(v-want[i]) > 1e-9 {
			t.Errorf("max[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestTranslateMovesBoundingBox(t *testing.T) {
	k := New()
	box := k.Translate(k.Box(10, 10, 10), 100, -20, 5)

	min, _ := box.BoundingBox()
	want := [3]float64{100, -20, 5}
	for i, v := range min {
		if math.Abs(v-want[i]) > 1e-9 {
			t.Errorf("min[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestRotateNinetyAroundZ(t *testing.T) {
	k := New()
	// A 100x10x10 box rotated 90° around Z swaps its X and Y extents.
	box := k.Rotate(k.Box(100, 10, 10), 0, 0, 90)

	min, max := box.BoundingBox()
	spanX := max[0] - min[0]
	spanY := max[1] - min[1]
	if math.Abs(spanX-10) > 1e-6 || math.Abs(spanY-100) > 1e-6 {
		t.Errorf("rotated spans = (%v, %v), want (10, 100)", spanX, spanY)
	}
}

func TestToMeshProducesConsistentArrays(t *testing.T) {
	k := New()
	mesh, err := k.ToMesh(k.Box(100, 50, 25))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if mesh.VertexCount() == 0 || mesh.TriangleCount() == 0 {
		t.Fatal("expected non-zero geometry")
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != mesh.TriangleCount()*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), mesh.TriangleCount()*3)
	}
}
