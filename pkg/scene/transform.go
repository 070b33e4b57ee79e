package scene

import "github.com/harlow/trestle/pkg/geom"

// WorldTransformOf resolves a node's world transform by walking the parent
// chain and summing local positions and rotations. Assemblies are massless
// and resolve to the identity transform. Unknown ids resolve to the
// identity transform as a defensive UI default, with a NotFound error so
// callers that care can tell the cases apart. Cost is O(depth); nothing is
// cached.
func (d *Document) WorldTransformOf(id NodeID) (WorldTransform, error) {
	return d.worldTransform(id, 0)
}

func (d *Document) worldTransform(id NodeID, depth int) (WorldTransform, error) {
	if depth > MaxDepth {
		// Only reachable if the forest invariant has been violated.
		return IdentityTransform, &HierarchyError{Kind: DepthLimitExceeded, NodeID: id}
	}
	if d.asmIndex[id] != nil {
		return IdentityTransform, nil
	}
	obj := d.objIndex[id]
	if obj == nil {
		return IdentityTransform, &HierarchyError{Kind: NotFound, NodeID: id}
	}
	local := WorldTransform{Position: obj.LocalPosition, Rotation: obj.LocalRotation}
	if obj.ParentID.IsZero() {
		return local, nil
	}
	parent, err := d.worldTransform(obj.ParentID, depth+1)
	if err != nil {
		// A dangling parent degrades to identity; the node still resolves.
		if IsHierarchyError(err, NotFound) {
			return local, nil
		}
		return IdentityTransform, err
	}
	return WorldTransform{
		Position: parent.Position.Add(local.Position),
		Rotation: parent.Rotation.Add(local.Rotation),
	}, nil
}

// WorldToLocal converts a world-space position into a position local to
// the given parent. A zero parentID returns the position unchanged; an
// unknown parent resolves to identity, which has the same effect.
func (d *Document) WorldToLocal(world geom.Vec3, parentID NodeID) geom.Vec3 {
	if parentID.IsZero() {
		return world
	}
	parent, _ := d.WorldTransformOf(parentID)
	return world.Sub(parent.Position)
}
