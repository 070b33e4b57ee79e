package main

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/harlow/trestle/pkg/engine"
	"github.com/harlow/trestle/pkg/geom"
	"github.com/harlow/trestle/pkg/kernel"
	"github.com/harlow/trestle/pkg/kernel/sdfx"
	"github.com/harlow/trestle/pkg/scene"
	"github.com/harlow/trestle/pkg/tessellate"
	"github.com/harlow/trestle/pkg/view"
)

// colorPalette is a default palette used to assign distinct colors to
// objects that do not inherit an assembly color.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// defaultGridIncrement is the grid cell size, in world units, used when an
// object has grid snapping enabled.
const defaultGridIncrement = 10.0

// dragState tracks one in-flight drag gesture. Pixel deltas reported by
// DragBy are cumulative since BeginDrag, so each update recomputes the
// target from the recorded start position instead of accumulating rounding.
type dragState struct {
	nodeID     scene.NodeID
	startWorld geom.Vec3
}

// session is one open document: the scene itself, its undo history, and the
// camera the frontend is looking through.
type session struct {
	doc       *scene.Document
	history   *scene.History
	camera    view.Camera
	viewportW float64
	viewportH float64
	drag      *dragState
}

// App is the Wails backend. It exposes document, hierarchy, camera, and
// rendering methods to the frontend via bindings. All methods are safe for
// concurrent use; Wails may dispatch bindings from multiple goroutines.
type App struct {
	ctx    context.Context
	engine *engine.Engine
	kernel kernel.Kernel

	mu            sync.Mutex
	sessions      map[string]*session
	gridIncrement float64
}

// NewApp creates a new App with a script engine and the sdfx kernel.
func NewApp() *App {
	return &App{
		engine:        engine.NewEngine(),
		kernel:        sdfx.New(),
		sessions:      make(map[string]*session),
		gridIncrement: defaultGridIncrement,
	}
}

// startup is called by Wails on app startup. The context is saved so we can
// call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// sessionFor resolves a document id. Callers hold a.mu.
func (a *App) sessionFor(docID string) (*session, error) {
	s, ok := a.sessions[docID]
	if !ok {
		return nil, fmt.Errorf("unknown document %q", docID)
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// Document lifecycle
// ---------------------------------------------------------------------------

// NewDocument opens an empty document and returns its id.
func (a *App) NewDocument() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := string(scene.NewNodeID())
	a.sessions[id] = &session{
		doc:       scene.NewDocument(),
		history:   scene.NewHistory(),
		camera:    view.NewCamera(),
		viewportW: 1280,
		viewportH: 800,
	}
	return id
}

// CloseDocument discards a document and its history.
func (a *App) CloseDocument(docID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, docID)
}

// DocumentState returns a deep snapshot of the document for the frontend to
// render its tree and property panels from.
func (a *App) DocumentState(docID string) (*scene.Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return nil, err
	}
	return s.doc.TakeSnapshot(), nil
}

// SetGridIncrement changes the grid cell size used for snapped drags.
// Increments <= 0 disable snapping globally.
func (a *App) SetGridIncrement(increment float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gridIncrement = increment
}

// ---------------------------------------------------------------------------
// Node creation and editing
// ---------------------------------------------------------------------------

// CreateObject adds an object and returns its id. parentID may be empty for
// a root object. The new object is placed at the given local position.
func (a *App) CreateObject(docID, name, parentID string, w, h, d, x, y, z float64) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return "", err
	}

	obj := scene.NewObject(name, geom.Dims{Width: w, Height: h, Depth: d})
	obj.ParentID = scene.NodeID(parentID)
	obj.LocalPosition = geom.Vec3{X: x, Y: y, Z: z}

	pre := s.doc.TakeSnapshot()
	if err := s.doc.AddObject(obj); err != nil {
		return "", err
	}
	s.history.PushSnapshot(pre)
	return string(obj.ID), nil
}

// CreateAssembly adds an assembly and returns its id.
func (a *App) CreateAssembly(docID, name, color, parentID string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return "", err
	}

	asm := scene.NewAssembly(name, color)
	asm.ParentID = scene.NodeID(parentID)

	pre := s.doc.TakeSnapshot()
	if err := s.doc.AddAssembly(asm); err != nil {
		return "", err
	}
	s.history.PushSnapshot(pre)
	return string(asm.ID), nil
}

// RenameNode changes the display name of an object or assembly.
func (a *App) RenameNode(docID, nodeID, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return err
	}
	id := scene.NodeID(nodeID)
	if obj := s.doc.Object(id); obj != nil {
		s.history.Push(s.doc)
		obj.Name = name
		return nil
	}
	if asm := s.doc.Assembly(id); asm != nil {
		s.history.Push(s.doc)
		asm.Name = name
		return nil
	}
	return fmt.Errorf("unknown node %q", nodeID)
}

// SetDimensions resizes an object. Dimensions must be positive.
func (a *App) SetDimensions(docID, nodeID string, w, h, d float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return err
	}
	obj := s.doc.Object(scene.NodeID(nodeID))
	if obj == nil {
		return fmt.Errorf("unknown object %q", nodeID)
	}
	dims := geom.Dims{Width: w, Height: h, Depth: d}
	if !dims.Valid() {
		return fmt.Errorf("dimensions must be positive, got %vx%vx%v", w, h, d)
	}
	s.history.Push(s.doc)
	obj.Dimensions = dims
	return nil
}

// SetLocalPosition places an object relative to its parent.
func (a *App) SetLocalPosition(docID, nodeID string, x, y, z float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return err
	}
	obj := s.doc.Object(scene.NodeID(nodeID))
	if obj == nil {
		return fmt.Errorf("unknown object %q", nodeID)
	}
	s.history.Push(s.doc)
	obj.LocalPosition = geom.Vec3{X: x, Y: y, Z: z}
	return nil
}

// SetAssemblyVisible toggles an assembly. Hidden assemblies exclude their
// whole subtree from rendering.
func (a *App) SetAssemblyVisible(docID, nodeID string, visible bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return err
	}
	asm := s.doc.Assembly(scene.NodeID(nodeID))
	if asm == nil {
		return fmt.Errorf("unknown assembly %q", nodeID)
	}
	s.history.Push(s.doc)
	asm.Visible = visible
	return nil
}

// ---------------------------------------------------------------------------
// Hierarchy operations
// ---------------------------------------------------------------------------

// Reparent moves a node under a new parent, preserving its world position.
// An empty newParentID moves the node to the root.
func (a *App) Reparent(docID, nodeID, newParentID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return err
	}
	// Validate before pushing so rejected reparents leave history alone.
	if err := s.doc.ValidateReparent(scene.NodeID(nodeID), scene.NodeID(newParentID)); err != nil {
		return err
	}
	s.history.Push(s.doc)
	return s.doc.Reparent(scene.NodeID(nodeID), scene.NodeID(newParentID))
}

// DeleteNode removes a node and its entire subtree.
func (a *App) DeleteNode(docID, nodeID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return err
	}
	if !s.doc.Exists(scene.NodeID(nodeID)) {
		return fmt.Errorf("unknown node %q", nodeID)
	}
	s.history.Push(s.doc)
	return s.doc.DeleteCascade(scene.NodeID(nodeID))
}

// MoveBy translates an object by a world-space delta.
func (a *App) MoveBy(docID, nodeID string, dx, dy, dz float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return err
	}
	pre := s.doc.TakeSnapshot()
	if err := s.doc.MoveWorld(scene.NodeID(nodeID), geom.Vec3{X: dx, Y: dy, Z: dz}); err != nil {
		return err
	}
	s.history.PushSnapshot(pre)
	return nil
}

// NodeWorldPosition resolves a node's world position.
func (a *App) NodeWorldPosition(docID, nodeID string) (geom.Vec3, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return geom.Vec3{}, err
	}
	wt, err := s.doc.WorldTransformOf(scene.NodeID(nodeID))
	if err != nil {
		return geom.Vec3{}, err
	}
	return wt.Position, nil
}

// ---------------------------------------------------------------------------
// Alignment
// ---------------------------------------------------------------------------

func parseAlignMode(mode string) (scene.AlignMode, error) {
	switch mode {
	case "left":
		return scene.AlignLeft, nil
	case "center":
		return scene.AlignCenter, nil
	case "right":
		return scene.AlignRight, nil
	case "top":
		return scene.AlignTop, nil
	case "middle":
		return scene.AlignMiddle, nil
	case "bottom":
		return scene.AlignBottom, nil
	}
	return 0, fmt.Errorf("unknown align mode %q", mode)
}

func parseDistributeAxis(axis string) (scene.DistributeAxis, error) {
	switch axis {
	case "horizontal":
		return scene.DistributeHorizontal, nil
	case "vertical":
		return scene.DistributeVertical, nil
	}
	return 0, fmt.Errorf("unknown distribute axis %q", axis)
}

// AlignNodes aligns the selected objects along one edge or center. Modes:
// left, center, right, top, middle, bottom.
func (a *App) AlignNodes(docID string, nodeIDs []string, mode string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return err
	}
	m, err := parseAlignMode(mode)
	if err != nil {
		return err
	}
	positions, err := s.doc.Align(toNodeIDs(nodeIDs), m)
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		return nil
	}
	s.history.Push(s.doc)
	s.doc.ApplyPositions(positions)
	return nil
}

// DistributeNodes spaces the selected objects evenly. Axes: horizontal,
// vertical.
func (a *App) DistributeNodes(docID string, nodeIDs []string, axis string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return err
	}
	ax, err := parseDistributeAxis(axis)
	if err != nil {
		return err
	}
	positions, err := s.doc.Distribute(toNodeIDs(nodeIDs), ax)
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		return nil
	}
	s.history.Push(s.doc)
	s.doc.ApplyPositions(positions)
	return nil
}

func toNodeIDs(ids []string) []scene.NodeID {
	out := make([]scene.NodeID, len(ids))
	for i, id := range ids {
		out[i] = scene.NodeID(id)
	}
	return out
}

// ---------------------------------------------------------------------------
// Undo / redo
// ---------------------------------------------------------------------------

// Undo steps the document back one mutation. Returns false when there is
// nothing to undo.
func (a *App) Undo(docID string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return false, err
	}
	return s.history.Undo(s.doc), nil
}

// Redo reapplies the last undone mutation.
func (a *App) Redo(docID string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return false, err
	}
	return s.history.Redo(s.doc), nil
}

// CanUndo reports whether Undo would do anything; used to gray out the menu.
func (a *App) CanUndo(docID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s, err := a.sessionFor(docID); err == nil {
		return s.history.CanUndo()
	}
	return false
}

// CanRedo reports whether Redo would do anything.
func (a *App) CanRedo(docID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s, err := a.sessionFor(docID); err == nil {
		return s.history.CanRedo()
	}
	return false
}

// ---------------------------------------------------------------------------
// Camera and projection
// ---------------------------------------------------------------------------

// SetView switches the camera to one of the ten fixed views.
func (a *App) SetView(docID, tag string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return err
	}
	v, err := view.Parse(tag)
	if err != nil {
		return err
	}
	s.camera.CurrentView = v
	return nil
}

// SetZoom changes the camera zoom (pixels per world unit, must be positive).
func (a *App) SetZoom(docID string, zoom float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return err
	}
	if zoom <= 0 {
		return fmt.Errorf("zoom must be positive, got %v", zoom)
	}
	s.camera.Zoom = zoom
	return nil
}

// SetPan sets the camera pan offset in screen pixels.
func (a *App) SetPan(docID string, x, y float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return err
	}
	s.camera.Pan = view.Pan{X: x, Y: y}
	return nil
}

// SetViewport records the canvas size so screen/world conversions center
// correctly.
func (a *App) SetViewport(docID string, w, h float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return err
	}
	s.viewportW, s.viewportH = w, h
	return nil
}

// GetCamera returns the current camera state.
func (a *App) GetCamera(docID string) (view.Camera, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return view.Camera{}, err
	}
	return s.camera, nil
}

// ScreenToWorld converts canvas pixel coordinates into a world position on
// the current view's zero-depth plane. This is the drop path for placing
// new objects with the mouse.
func (a *App) ScreenToWorld(docID string, screenX, screenY float64) (geom.Vec3, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return geom.Vec3{}, err
	}
	return view.ScreenToWorld(screenX, screenY, s.camera, s.viewportW, s.viewportH), nil
}

// WorldToScreen projects a world position into canvas pixels; used by the
// frontend for selection handles and dimension overlays.
func (a *App) WorldToScreen(docID string, x, y, z float64) (view.Point, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return view.Point{}, err
	}
	sx, sy := view.WorldToScreen(geom.Vec3{X: x, Y: y, Z: z}, s.camera, s.viewportW, s.viewportH)
	return view.Point{X: sx, Y: sy}, nil
}

// ---------------------------------------------------------------------------
// Drag gestures
// ---------------------------------------------------------------------------

// BeginDrag starts a drag gesture on an object. One history snapshot is
// taken now; the per-frame DragBy updates are not individually undoable.
func (a *App) BeginDrag(docID, nodeID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return err
	}
	id := scene.NodeID(nodeID)
	if s.doc.Object(id) == nil {
		return fmt.Errorf("unknown object %q", nodeID)
	}
	wt, err := s.doc.WorldTransformOf(id)
	if err != nil {
		return err
	}
	s.history.Begin(s.doc)
	s.drag = &dragState{nodeID: id, startWorld: wt.Position}
	return nil
}

// DragBy updates the dragged object. dxPixels/dyPixels are cumulative since
// BeginDrag. The pixel delta is converted through the current camera so
// only the view's two visible axes change, and the target is grid-snapped
// when the object opts in. bypassSnap (the frontend's modifier key) skips
// snapping for fine control.
func (a *App) DragBy(docID string, dxPixels, dyPixels float64, bypassSnap bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return err
	}
	if s.drag == nil {
		return fmt.Errorf("no drag in progress")
	}
	delta := view.ScreenDeltaToWorldDelta(dxPixels, dyPixels, s.camera)
	target := s.drag.startWorld.Add(delta)

	if obj := s.doc.Object(s.drag.nodeID); obj != nil && obj.GridSnap && !bypassSnap {
		target = geom.SnapVec3(target, a.gridIncrement)
	}
	return s.doc.SetWorldPosition(s.drag.nodeID, target)
}

// EndDrag commits the gesture as a single undo step.
func (a *App) EndDrag(docID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return err
	}
	s.history.Commit()
	s.drag = nil
	return nil
}

// CancelDrag aborts the gesture and restores the pre-drag state.
func (a *App) CancelDrag(docID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return err
	}
	s.history.Rollback(s.doc)
	s.drag = nil
	return nil
}

// ---------------------------------------------------------------------------
// Scripting and rendering
// ---------------------------------------------------------------------------

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	NodeID   string    `json:"nodeId"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is returned by EvaluateScript.
type EvalResult struct {
	Errors []EvalErrorData `json:"errors"`
}

// EvaluateScript evaluates trestle script source into a fresh scene. On
// success the session's document is replaced and the previous state becomes
// one undo step. On eval errors the document is left untouched and the
// errors are returned for the editor to annotate.
func (a *App) EvaluateScript(docID, source string) (EvalResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := EvalResult{Errors: []EvalErrorData{}}

	s, err := a.sessionFor(docID)
	if err != nil {
		return result, err
	}

	doc, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("EvaluateScript fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result, nil
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result, nil
	}

	s.history.Push(s.doc)
	s.doc = doc
	return result, nil
}

// RealizeMeshes tessellates every visible object in the document and
// returns colored triangle meshes for the 3D preview. Objects that opt into
// UseAssemblyColor take the nearest ancestor assembly's color; everything
// else cycles through the default palette.
func (a *App) RealizeMeshes(docID string) ([]MeshData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, err := a.sessionFor(docID)
	if err != nil {
		return nil, err
	}

	meshes, err := tessellate.Realize(s.doc, a.kernel)
	if err != nil {
		log.Printf("RealizeMeshes error: %v", err)
		return nil, err
	}

	out := make([]MeshData, 0, len(meshes))
	for i, m := range meshes {
		color := colorPalette[i%len(colorPalette)]
		id := scene.NodeID(m.NodeID)
		if obj := s.doc.Object(id); obj != nil && obj.UseAssemblyColor {
			if c := tessellate.AssemblyColorFor(s.doc, id); c != "" {
				color = c
			}
		}
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			NodeID:   m.NodeID,
			Color:    color,
		})
	}
	return out, nil
}
