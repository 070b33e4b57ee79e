package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/harlow/trestle/pkg/geom"
)

// AlignMode selects the edge or center used by Align. Left/Center/Right
// act on the X axis, Top/Middle/Bottom on the Y axis. Positions are
// min-corner origins, matching the geometry kernel convention.
type AlignMode int

const (
	AlignLeft AlignMode = iota
	AlignCenter
	AlignRight
	AlignTop
	AlignMiddle
	AlignBottom
)

func (m AlignMode) String() string {
	switch m {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignTop:
		return "top"
	case AlignMiddle:
		return "middle"
	case AlignBottom:
		return "bottom"
	default:
		return fmt.Sprintf("AlignMode(%d)", int(m))
	}
}

// DistributeAxis selects the axis used by Distribute.
type DistributeAxis int

const (
	DistributeHorizontal DistributeAxis = iota // X axis
	DistributeVertical                         // Y axis
)

// ErrMixedParents is returned by Align when the selection spans more than
// one parent. Align operates on local positions, which is only meaningful
// when every selected object shares a parent; aligning local coordinates
// across parents would scatter the objects in world space.
var ErrMixedParents = errors.New("align: selection spans multiple parents")

// Align computes new local positions for the selected objects so that
// they share one coordinate on the aligned axis. Only the aligned axis
// changes. Unknown ids and assemblies in the selection are skipped.
// Selections smaller than two objects are a no-op.
func (d *Document) Align(selection []NodeID, mode AlignMode) (map[NodeID]geom.Vec3, error) {
	objs := d.selectedObjects(selection)
	if len(objs) < 2 {
		return nil, nil
	}
	parent := objs[0].ParentID
	for _, o := range objs[1:] {
		if o.ParentID != parent {
			return nil, ErrMixedParents
		}
	}

	var target float64
	switch mode {
	case AlignLeft:
		target = objs[0].LocalPosition.X
		for _, o := range objs[1:] {
			if o.LocalPosition.X < target {
				target = o.LocalPosition.X
			}
		}
	case AlignRight:
		target = objs[0].LocalPosition.X + objs[0].Dimensions.Width
		for _, o := range objs[1:] {
			if edge := o.LocalPosition.X + o.Dimensions.Width; edge > target {
				target = edge
			}
		}
	case AlignCenter:
		for _, o := range objs {
			target += o.LocalPosition.X + o.Dimensions.Width/2
		}
		target /= float64(len(objs))
	case AlignBottom:
		target = objs[0].LocalPosition.Y
		for _, o := range objs[1:] {
			if o.LocalPosition.Y < target {
				target = o.LocalPosition.Y
			}
		}
	case AlignTop:
		target = objs[0].LocalPosition.Y + objs[0].Dimensions.Height
		for _, o := range objs[1:] {
			if edge := o.LocalPosition.Y + o.Dimensions.Height; edge > target {
				target = edge
			}
		}
	case AlignMiddle:
		for _, o := range objs {
			target += o.LocalPosition.Y + o.Dimensions.Height/2
		}
		target /= float64(len(objs))
	default:
		return nil, fmt.Errorf("align: unknown mode %v", mode)
	}

	result := make(map[NodeID]geom.Vec3, len(objs))
	for _, o := range objs {
		pos := o.LocalPosition
		switch mode {
		case AlignLeft:
			pos.X = target
		case AlignRight:
			pos.X = target - o.Dimensions.Width
		case AlignCenter:
			pos.X = target - o.Dimensions.Width/2
		case AlignBottom:
			pos.Y = target
		case AlignTop:
			pos.Y = target - o.Dimensions.Height
		case AlignMiddle:
			pos.Y = target - o.Dimensions.Height/2
		}
		result[o.ID] = pos
	}
	return result, nil
}

// Distribute spaces the selected objects so the gaps between consecutive
// centers are equal along the given axis. The outermost two objects stay
// fixed. Requires at least three objects and a nonzero span; otherwise
// Distribute is a no-op and returns nil.
func (d *Document) Distribute(selection []NodeID, axis DistributeAxis) (map[NodeID]geom.Vec3, error) {
	objs := d.selectedObjects(selection)
	if len(objs) < 3 {
		return nil, nil
	}

	center := func(o *Object) float64 {
		if axis == DistributeHorizontal {
			return o.LocalPosition.X + o.Dimensions.Width/2
		}
		return o.LocalPosition.Y + o.Dimensions.Height/2
	}

	sorted := append([]*Object(nil), objs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return center(sorted[i]) < center(sorted[j])
	})

	first := center(sorted[0])
	last := center(sorted[len(sorted)-1])
	span := last - first
	if span == 0 {
		return nil, nil
	}

	step := span / float64(len(sorted)-1)
	result := make(map[NodeID]geom.Vec3, len(sorted))
	for i, o := range sorted {
		pos := o.LocalPosition
		want := first + step*float64(i)
		if axis == DistributeHorizontal {
			pos.X = want - o.Dimensions.Width/2
		} else {
			pos.Y = want - o.Dimensions.Height/2
		}
		result[o.ID] = pos
	}
	return result, nil
}

// ApplyPositions writes a batch of new local positions produced by Align
// or Distribute back into the document.
func (d *Document) ApplyPositions(positions map[NodeID]geom.Vec3) {
	for id, pos := range positions {
		if o := d.objIndex[id]; o != nil {
			o.LocalPosition = pos
		}
	}
}

// selectedObjects resolves selection ids to objects, skipping unknown ids
// and assemblies.
func (d *Document) selectedObjects(selection []NodeID) []*Object {
	objs := make([]*Object, 0, len(selection))
	for _, id := range selection {
		if o := d.objIndex[id]; o != nil {
			objs = append(objs, o)
		}
	}
	return objs
}
