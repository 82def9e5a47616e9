// Package tutor implements the conversation orchestration layer for
// LogicTutor: directive composition, the append-only history buffer, the
// pre-send gate, response extraction, mentor status tracking, and the
// out-of-band glossary lookup. Presentation (the TUI) sits on top of the
// Session type and never talks to the LLM client directly.
package tutor

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one message in the conversation. Immutable once created; owned
// by the History buffer.
type Turn struct {
	ID        string
	Role      Role
	Text      string
	CreatedAt time.Time
}

// NewTurn creates a turn with a fresh ID and timestamp.
func NewTurn(role Role, text string) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// KnowledgeLevel selects the directive clause that tunes explanations to
// the learner. Mutated only by explicit user selection.
type KnowledgeLevel string

const (
	LevelBeginner     KnowledgeLevel = "beginner"
	LevelIntermediate KnowledgeLevel = "intermediate"
	LevelAdvanced     KnowledgeLevel = "advanced"
)

// ParseKnowledgeLevel maps user input to a level. Returns false for
// anything outside the three known levels.
func ParseKnowledgeLevel(s string) (KnowledgeLevel, bool) {
	switch KnowledgeLevel(s) {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return KnowledgeLevel(s), true
	}
	return "", false
}

// MentorStatus is the session-scoped flag for whether the learner has
// self-derived the logic. Transitions only on an explicit side-channel
// signal; Satisfied is not absorbing.
type MentorStatus string

const (
	StatusSearching MentorStatus = "searching"
	StatusSatisfied MentorStatus = "satisfied"
)

// ParseMentorStatus validates a side-channel value. Anything outside the
// two-element enumeration yields false.
func ParseMentorStatus(s string) (MentorStatus, bool) {
	switch MentorStatus(s) {
	case StatusSearching, StatusSatisfied:
		return MentorStatus(s), true
	}
	return "", false
}

// VisualArtifact is a diagram captured from a model response. The source
// text is preserved verbatim for the external renderer.
type VisualArtifact struct {
	ID        string
	Kind      string // currently always "diagram"
	Source    string
	CreatedAt time.Time
}

// GlossaryEntry is the ephemeral, single-slot glossary state. A new
// lookup supersedes (not merges with) the previous one.
type GlossaryEntry struct {
	Term       string
	Definition string
	Pending    bool
}

// Sentinel errors surfaced to presentation as notices, never as panics.
var (
	// ErrEmptyMessage rejects input that is empty after trimming.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrGateBlocked marks input the pre-send gate refused. Nothing was
	// appended to history and no network call was made.
	ErrGateBlocked = errors.New("direct solution requests are not sent")

	// ErrSendInFlight rejects a send while a previous one is pending.
	ErrSendInFlight = errors.New("a send is already in progress")
)
