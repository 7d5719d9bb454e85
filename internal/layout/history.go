package layout

import "maps"

// HistoryLimit caps each of the undo and redo stacks.
const HistoryLimit = 50

// Snapshot is the full undoable layout state.
type Snapshot struct {
	Positions map[string]Point
	MainBox   *Rect
	UplinkBox *Rect
	Order     OrderMode
	Snap      float64

	// Pinned is session state only. It is restored with the snapshot but is
	// neither persisted nor compared by Equal.
	Pinned map[string]bool
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Positions: maps.Clone(s.Positions),
		MainBox:   cloneRect(s.MainBox),
		UplinkBox: cloneRect(s.UplinkBox),
		Order:     s.Order,
		Snap:      s.Snap,
		Pinned:    maps.Clone(s.Pinned),
	}
}

// Equal compares snapshots by value.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.Order != o.Order || s.Snap != o.Snap {
		return false
	}
	if !rectPtrEqual(s.MainBox, o.MainBox) || !rectPtrEqual(s.UplinkBox, o.UplinkBox) {
		return false
	}
	return maps.Equal(s.Positions, o.Positions)
}

// History is a bounded undo/redo log with a single pending slot that stages
// the state at the start of a gesture.
type History struct {
	undo    []Snapshot
	redo    []Snapshot
	pending *Snapshot
}

// Begin stages current unless a snapshot is already pending.
func (h *History) Begin(current Snapshot) {
	if h.pending != nil {
		return
	}
	c := current.Clone()
	h.pending = &c
}

// Pending reports whether a gesture start is staged.
func (h *History) Pending() bool { return h.pending != nil }

// Commit pushes the staged snapshot if current differs from it, clearing the
// redo stack. The pending slot is cleared either way. It reports whether an
// entry was pushed.
func (h *History) Commit(current Snapshot) bool {
	if h.pending == nil {
		return false
	}
	before := *h.pending
	h.pending = nil
	if before.Equal(current) {
		return false
	}
	h.undo = pushBounded(h.undo, before)
	h.redo = nil
	return true
}

// Discard drops the staged snapshot and returns it.
func (h *History) Discard() (Snapshot, bool) {
	if h.pending == nil {
		return Snapshot{}, false
	}
	s := *h.pending
	h.pending = nil
	return s, true
}

// Undo returns the state to apply, pushing current onto the redo stack.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undo) == 0 {
		return Snapshot{}, false
	}
	s := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = pushBounded(h.redo, current.Clone())
	return s, true
}

// Redo is the inverse of Undo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redo) == 0 {
		return Snapshot{}, false
	}
	s := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = pushBounded(h.undo, current.Clone())
	return s, true
}

// CanUndo reports whether Undo would do anything.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would do anything.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Depth returns the undo and redo stack sizes.
func (h *History) Depth() (int, int) { return len(h.undo), len(h.redo) }

// Reset empties both stacks and the pending slot.
func (h *History) Reset() {
	h.undo, h.redo, h.pending = nil, nil, nil
}

func pushBounded(stack []Snapshot, s Snapshot) []Snapshot {
	stack = append(stack, s)
	if len(stack) > HistoryLimit {
		stack = append(stack[:0:0], stack[len(stack)-HistoryLimit:]...)
	}
	return stack
}
