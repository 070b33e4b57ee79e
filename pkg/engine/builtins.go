package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/harlow/trestle/pkg/geom"
	"github.com/harlow/trestle/pkg/scene"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms trestle script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: grid-snap -> grid_snap
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator).
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when the hyphen sits between identifier characters.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a scene.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   scene.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a geom.Vec3.
type sexpVec3 struct {
	vec geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpDims wraps a geom.Dims.
type sexpDims struct {
	dims geom.Dims
}

func (d *sexpDims) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(dims %.1f %.1f %.1f)", d.dims.Width, d.dims.Height, d.dims.Depth)
}
func (d *sexpDims) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toNodeRef extracts a NodeID from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (scene.NodeID, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.id, nil
	}
	return scene.ZeroID, fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toDims extracts a Dims from a sexpDims.
func toDims(s zygo.Sexp) (geom.Dims, error) {
	if d, ok := s.(*sexpDims); ok {
		return d.dims, nil
	}
	return geom.Dims{}, fmt.Errorf("expected dims, got %T (%s)", s, s.SexpString(nil))
}

// toStringSlice converts a Lisp list or array of strings to a Go slice.
func toStringSlice(s zygo.Sexp) ([]string, error) {
	var items []zygo.Sexp
	switch v := s.(type) {
	case *zygo.SexpPair:
		arr, err := zygo.ListToArray(v)
		if err != nil {
			return nil, err
		}
		items = arr
	case *zygo.SexpArray:
		items = v.Val
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
		return nil, fmt.Errorf("expected list of strings, got %s", s.SexpString(nil))
	default:
		return nil, fmt.Errorf("expected list of strings, got %T", s)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		str, err := toString(item)
		if err != nil {
			return nil, err
		}
		out = append(out, str)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the trestle DSL builtins into a zygomys
// environment. The builtins operate on the provided Document, populating
// and mutating it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable string
// literals.
func registerBuiltins(env *zygo.Zlisp, doc *scene.Document) {

	// -----------------------------------------------------------------------
	// (vec3 x y z)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}
		return &sexpVec3{vec: geom.Vec3{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (dims width height depth)
	// -----------------------------------------------------------------------
	env.AddFunction("dims", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("dims requires exactly 3 arguments, got %d", len(args))
		}
		w, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("dims: width: %w", err)
		}
		h, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("dims: height: %w", err)
		}
		d, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("dims: depth: %w", err)
		}
		return &sexpDims{dims: geom.Dims{Width: w, Height: h, Depth: d}}, nil
	})

	// -----------------------------------------------------------------------
	// (assembly "frame" :color "#4A90D9" :parent other :visible false
	//           :notes "base frame")
	// -----------------------------------------------------------------------
	env.AddFunction("assembly", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("assembly requires a name argument")
		}
		asmName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: name: %w", err)
		}

		asm := scene.NewAssembly(asmName, "")
		if v, ok := pa.kw["color"]; ok {
			c, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("assembly: color: %w", err)
			}
			asm.Color = c
		}
		if v, ok := pa.kw["visible"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("assembly: visible: %w", err)
			}
			asm.Visible = b
		}
		if v, ok := pa.kw["notes"]; ok {
			n, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("assembly: notes: %w", err)
			}
			asm.Notes = n
		}
		if v, ok := pa.kw["parent"]; ok {
			pid, err := toNodeRef(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("assembly: parent: %w", err)
			}
			asm.ParentID = pid
		}

		if err := doc.AddAssembly(asm); err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly %q: %w", asmName, err)
		}
		return &sexpNodeRef{id: asm.ID, name: asmName}, nil
	})

	// -----------------------------------------------------------------------
	// (object "leg" :dims (dims 50 700 50) :at (vec3 0 0 0)
	//         :rotate (vec3 0 90 0) :material "oak" :category "legs"
	//         :tags ["structural"] :parent frame :notes "front left"
	//         :grid-snap false)
	// -----------------------------------------------------------------------
	env.AddFunction("object", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("object requires a name argument")
		}
		objName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("object: name: %w", err)
		}

		dimsVal, ok := pa.kw["dims"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("object %q: :dims is required", objName)
		}
		dims, err := toDims(dimsVal)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("object %q: dims: %w", objName, err)
		}

		obj := scene.NewObject(objName, dims)
		if v, ok := pa.kw["at"]; ok {
			pos, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("object %q: at: %w", objName, err)
			}
			obj.LocalPosition = pos
		}
		if v, ok := pa.kw["rotate"]; ok {
			rot, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("object %q: rotate: %w", objName, err)
			}
			obj.LocalRotation = rot
			obj.RotationEnabled = true
		}
		if v, ok := pa.kw["material"]; ok {
			m, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("object %q: material: %w", objName, err)
			}
			obj.Material = m
		}
		if v, ok := pa.kw["category"]; ok {
			c, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("object %q: category: %w", objName, err)
			}
			obj.Category = c
		}
		if v, ok := pa.kw["tags"]; ok {
			tags, err := toStringSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("object %q: tags: %w", objName, err)
			}
			obj.Tags = tags
		}
		if v, ok := pa.kw["notes"]; ok {
			n, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("object %q: notes: %w", objName, err)
			}
			obj.Notes = n
		}
		if v, ok := pa.kw["grid-snap"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("object %q: grid-snap: %w", objName, err)
			}
			obj.GridSnap = b
		}
		if v, ok := pa.kw["assembly-color"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("object %q: assembly-color: %w", objName, err)
			}
			obj.UseAssemblyColor = b
		}
		if v, ok := pa.kw["parent"]; ok {
			pid, err := toNodeRef(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("object %q: parent: %w", objName, err)
			}
			obj.ParentID = pid
		}

		if err := doc.AddObject(obj); err != nil {
			return zygo.SexpNull, fmt.Errorf("object %q: %w", objName, err)
		}
		return &sexpNodeRef{id: obj.ID, name: objName}, nil
	})

	// -----------------------------------------------------------------------
	// (reparent node new-parent) — world position is preserved.
	// (reparent node) moves the node to the root.
	// -----------------------------------------------------------------------
	env.AddFunction("reparent", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("reparent requires a node reference")
		}
		id, err := toNodeRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("reparent: node: %w", err)
		}
		newParent := scene.ZeroID
		if len(args) > 1 {
			newParent, err = toNodeRef(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("reparent: parent: %w", err)
			}
		}
		if err := doc.Reparent(id, newParent); err != nil {
			return zygo.SexpNull, fmt.Errorf("reparent: %w", err)
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (move node (vec3 dx dy dz)) — world-space move.
	// -----------------------------------------------------------------------
	env.AddFunction("move", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("move requires a node reference and a vec3 delta")
		}
		id, err := toNodeRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move: node: %w", err)
		}
		delta, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move: delta: %w", err)
		}
		if err := doc.MoveWorld(id, delta); err != nil {
			return zygo.SexpNull, fmt.Errorf("move: %w", err)
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (delete node) — cascade delete.
	// -----------------------------------------------------------------------
	env.AddFunction("delete", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("delete requires a node reference")
		}
		id, err := toNodeRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("delete: node: %w", err)
		}
		if err := doc.DeleteCascade(id); err != nil {
			return zygo.SexpNull, fmt.Errorf("delete: %w", err)
		}
		return zygo.SexpNull, nil
	})
}
