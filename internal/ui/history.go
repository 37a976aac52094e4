package ui

import "github.com/piwi3910/WMSLabel/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the layout at a point in time.
type Snapshot struct {
	Layout model.LayoutConfig
	Label  string // Human-readable description (e.g. "Move title text")
}

// History manages undo/redo stacks of layout snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// This should be called with the state from before the modification.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent snapshot from the undo stack and pushes
// the current state onto the redo stack. Returns the snapshot to restore
// and true, or an empty snapshot and false if nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo pops the most recent snapshot from the redo stack and pushes
// the current state onto the undo stack.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

// CanUndo returns true if there is at least one snapshot to undo.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if there is at least one snapshot to redo.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoLabel names the change the next Undo reverts, or "" when there is none.
func (h *History) UndoLabel() string {
	if len(h.undoStack) == 0 {
		return ""
	}
	return h.undoStack[len(h.undoStack)-1].Label
}

// RedoLabel names the change the next Redo reapplies.
func (h *History) RedoLabel() string {
	if len(h.redoStack) == 0 {
		return ""
	}
	return h.redoStack[len(h.redoStack)-1].Label
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// MakeSnapshot creates a snapshot of cfg with a label.
func MakeSnapshot(cfg model.LayoutConfig, label string) Snapshot {
	return Snapshot{Layout: cfg.Clone(), Label: label}
}
