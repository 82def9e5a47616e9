package tutor

import "sync"

// StatusTracker is the two-state mentor status machine. Initial state is
// Searching. Receive sets the state unconditionally when a signal is
// present; there is no terminal state, so a later Searching signal
// reopens a Satisfied topic.
type StatusTracker struct {
	mu    sync.Mutex
	state MentorStatus
}

// NewStatusTracker returns a tracker in the Searching state.
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{state: StatusSearching}
}

// Receive applies an extracted signal. A nil signal is a no-op, which
// keeps transitions at most one per response cycle.
func (t *StatusTracker) Receive(signal *MentorStatus) {
	if signal == nil {
		return
	}
	t.mu.Lock()
	t.state = *signal
	t.mu.Unlock()
}

// State returns the current mentor status.
func (t *StatusTracker) State() MentorStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
