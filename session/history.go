package session

import "sync"

// DocumentHistory is a linear undo/redo store of full-document snapshots
// with a movable cursor. The snapshot at the cursor is the current document.
// A new push discards any "future" snapshots beyond the cursor before
// appending (standard undo branch-discard semantics).
type DocumentHistory struct {
	mu        sync.Mutex
	snapshots []string
	cursor    int // index into snapshots, -1 when empty
}

// NewDocumentHistory returns an empty history
func NewDocumentHistory() *DocumentHistory {
	return &DocumentHistory{cursor: -1}
}

// Push appends a snapshot after truncating everything past the cursor.
// The cursor moves to the new last index.
func (h *DocumentHistory) Push(snapshot string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.snapshots = append(h.snapshots[:h.cursor+1], snapshot)
	h.cursor = len(h.snapshots) - 1
}

// Reset discards all snapshots. Used by fresh generation, which replaces
// the session's history with a single entry.
func (h *DocumentHistory) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.snapshots = nil
	h.cursor = -1
}

// Undo moves the cursor back one snapshot and returns it.
// No-op (returns "", false) at the bottom or when empty.
func (h *DocumentHistory) Undo() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor <= 0 {
		return "", false
	}
	h.cursor--
	return h.snapshots[h.cursor], true
}

// Redo moves the cursor forward one snapshot and returns it.
// No-op (returns "", false) at the top.
func (h *DocumentHistory) Redo() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor >= len(h.snapshots)-1 {
		return "", false
	}
	h.cursor++
	return h.snapshots[h.cursor], true
}

// Current returns the snapshot at the cursor, or "" when empty
func (h *DocumentHistory) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor < 0 {
		return ""
	}
	return h.snapshots[h.cursor]
}

// CanUndo reports whether an Undo would change the cursor
func (h *DocumentHistory) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor > 0
}

// CanRedo reports whether a Redo would change the cursor
func (h *DocumentHistory) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor < len(h.snapshots)-1
}

// Len returns the number of snapshots
func (h *DocumentHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.snapshots)
}
