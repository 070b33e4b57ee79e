// Package tessellate realizes a drafting document as triangle meshes
// using a geometry kernel. One mesh is produced per visible object, placed
// at the object's resolved world transform.
package tessellate

import (
	"fmt"

	"github.com/harlow/trestle/pkg/kernel"
	"github.com/harlow/trestle/pkg/scene"
)

// Realize walks the document and produces one triangle mesh per visible
// object using the provided geometry kernel. The realizer is read-only
// and never mutates the document. Objects under an invisible assembly
// (anywhere up the chain) are skipped.
func Realize(doc *scene.Document, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if doc == nil {
		return nil, nil
	}

	var meshes []*kernel.Mesh
	for _, obj := range doc.Objects {
		if !isVisible(doc, obj) {
			continue
		}
		mesh, err := realizeObject(doc, k, obj)
		if err != nil {
			return nil, fmt.Errorf("tessellate: object %s: %w", obj.ID.Short(), err)
		}
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// realizeObject builds a box solid at the object's world transform and
// tessellates it.
func realizeObject(doc *scene.Document, k kernel.Kernel, obj *scene.Object) (*kernel.Mesh, error) {
	solid := k.Box(obj.Dimensions.Width, obj.Dimensions.Height, obj.Dimensions.Depth)

	wt, err := doc.WorldTransformOf(obj.ID)
	if err != nil {
		return nil, err
	}

	// Rotation first, then translation, matching the additive transform
	// model.
	if obj.RotationEnabled && !wt.Rotation.IsZero() {
		solid = k.Rotate(solid, wt.Rotation.X, wt.Rotation.Y, wt.Rotation.Z)
	}
	if !wt.Position.IsZero() {
		solid = k.Translate(solid, wt.Position.X, wt.Position.Y, wt.Position.Z)
	}

	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("ToMesh failed: %w", err)
	}

	if obj.Name != "" {
		mesh.Name = obj.Name
	} else {
		mesh.Name = obj.ID.Short()
	}
	mesh.NodeID = string(obj.ID)
	return mesh, nil
}

// isVisible reports whether no assembly in the object's ancestor chain is
// hidden.
func isVisible(doc *scene.Document, obj *scene.Object) bool {
	current := obj.ParentID
	for depth := 0; !current.IsZero() && depth <= scene.MaxDepth; depth++ {
		if asm := doc.Assembly(current); asm != nil {
			if !asm.Visible {
				return false
			}
			current = asm.ParentID
			continue
		}
		if o := doc.Object(current); o != nil {
			current = o.ParentID
			continue
		}
		break // dangling parent; treat as visible root
	}
	return true
}

// AssemblyColorFor returns the color of the nearest ancestor assembly, or
// empty when the object has none. Used by the UI layer when an object
// opts into UseAssemblyColor.
func AssemblyColorFor(doc *scene.Document, id scene.NodeID) string {
	obj := doc.Object(id)
	if obj == nil {
		return ""
	}
	current := obj.ParentID
	for depth := 0; !current.IsZero() && depth <= scene.MaxDepth; depth++ {
		if asm := doc.Assembly(current); asm != nil {
			return asm.Color
		}
		if o := doc.Object(current); o != nil {
			current = o.ParentID
			continue
		}
		break
	}
	return ""
}
