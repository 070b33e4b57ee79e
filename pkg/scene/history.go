package scene

// DefaultHistoryLimit caps the undo stack. Oldest snapshots are dropped
// when the cap is exceeded.
const DefaultHistoryLimit = 100

// History holds the per-document undo/redo stacks of deep-cloned
// snapshots. Every mutating operation pushes the pre-mutation state onto
// the undo stack and clears the redo stack. Continuous interactions
// (drags) wrap their writes in Begin/Commit so that exactly one snapshot
// is taken at gesture start.
type History struct {
	undo  []*Snapshot
	redo  []*Snapshot
	limit int

	// open is true between Begin and Commit; pushes are suppressed.
	open bool
}

// NewHistory creates an empty history with the default snapshot cap.
func NewHistory() *History {
	return &History{limit: DefaultHistoryLimit}
}

// SetLimit changes the undo-stack cap. A limit <= 0 means unbounded.
func (h *History) SetLimit(limit int) {
	h.limit = limit
}

// Push records the pre-mutation state of the document and clears the redo
// stack. Inside an open transaction Push is a no-op; the transaction's
// opening snapshot already covers the gesture.
func (h *History) Push(d *Document) {
	if h.open {
		return
	}
	h.push(d)
}

func (h *History) push(d *Document) {
	h.pushSnapshot(d.TakeSnapshot())
}

func (h *History) pushSnapshot(s *Snapshot) {
	h.undo = append(h.undo, s)
	h.redo = h.redo[:0]
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
}

// PushSnapshot records a snapshot taken by the caller before a mutation.
// Useful when the mutation can fail after the snapshot point: the caller
// takes the snapshot up front and pushes it only once the mutation
// succeeds. Suppressed inside an open transaction like Push.
func (h *History) PushSnapshot(s *Snapshot) {
	if h.open {
		return
	}
	h.pushSnapshot(s)
}

// Begin opens a transaction: one snapshot is taken now, and subsequent
// Push calls are suppressed until Commit. Nested Begin calls are folded
// into the outer transaction.
func (h *History) Begin(d *Document) {
	if h.open {
		return
	}
	h.push(d)
	h.open = true
}

// Commit closes the current transaction. Interior writes made since Begin
// are undone as a single step.
func (h *History) Commit() {
	h.open = false
}

// Rollback closes the current transaction and restores the state captured
// at Begin, discarding the interior writes.
func (h *History) Rollback(d *Document) {
	if !h.open {
		return
	}
	h.open = false
	n := len(h.undo)
	if n == 0 {
		return
	}
	snap := h.undo[n-1]
	h.undo = h.undo[:n-1]
	d.Restore(snap)
}

// CanUndo reports whether an undo step is available.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo step is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Undo pops the last undo snapshot, pushes the current state onto the
// redo stack, and installs the popped snapshot. Returns false when there
// is nothing to undo. Refused inside an open transaction: the top undo
// snapshot is the gesture's restore point, and popping it out from under
// the in-flight writes would corrupt the gesture.
func (h *History) Undo(d *Document) bool {
	n := len(h.undo)
	if n == 0 || h.open {
		return false
	}
	snap := h.undo[n-1]
	h.undo = h.undo[:n-1]
	h.redo = append(h.redo, d.TakeSnapshot())
	d.Restore(snap)
	return true
}

// Redo is symmetric to Undo, including the open-transaction refusal.
func (h *History) Redo(d *Document) bool {
	n := len(h.redo)
	if n == 0 || h.open {
		return false
	}
	snap := h.redo[n-1]
	h.redo = h.redo[:n-1]
	h.undo = append(h.undo, d.TakeSnapshot())
	d.Restore(snap)
	return true
}
