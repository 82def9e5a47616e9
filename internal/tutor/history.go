package tutor

import "sync"

// History is the append-only log of conversation turns: the ground truth
// for what the model has seen. No operation removes or reorders turns.
// The mutex exists because bubbletea commands run off the update
// goroutine; appends are synchronous from the caller's point of view.
type History struct {
	mu    sync.Mutex
	turns []Turn
}

// NewHistory returns an empty history buffer.
func NewHistory() *History {
	return &History{}
}

// Append records a turn at the end of the log.
func (h *History) Append(t Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns, t)
}

// Snapshot returns a read-only projection of the log in insertion order.
// The returned slice is a copy; mutating it cannot affect the buffer.
func (h *History) Snapshot() []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len reports the number of recorded turns.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}
