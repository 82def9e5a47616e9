package tutor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"logictutor/internal/logging"
	"logictutor/internal/perception"
)

// fallbackReply stands in for an empty model response. Empty text is a
// valid response shape, not an error.
const fallbackReply = "I don't have anything to add there. Try rephrasing, or tell me which step is unclear."

// SendResult is what one successful exchange hands to presentation.
type SendResult struct {
	Reply     string
	Diagrams  []VisualArtifact
	Status    MentorStatus
	UserTurn  Turn
	ModelTurn Turn
}

// Session is the explicit session-state struct the orchestration
// functions operate on: knowledge level, history, mentor status, the
// growing artifact collection, and the single glossary slot. One Session
// per process; no persistence across restarts.
type Session struct {
	client     perception.LLMClient
	directives DirectiveSet
	gate       GatePolicy
	history    *History
	tracker    *StatusTracker

	mu        sync.Mutex
	level     KnowledgeLevel
	artifacts []VisualArtifact
	inFlight  bool

	glossaryMu  sync.Mutex
	glossarySeq uint64
	glossary    *GlossaryEntry
}

// NewSession wires a session from its collaborators. A nil gate disables
// pre-send filtering (useful in tests); callers normally pass
// NewRegexGate().
func NewSession(client perception.LLMClient, directives DirectiveSet, gate GatePolicy) *Session {
	return &Session{
		client:     client,
		directives: directives,
		gate:       gate,
		history:    NewHistory(),
		tracker:    NewStatusTracker(),
		level:      LevelBeginner,
	}
}

// Level returns the session's knowledge level.
func (s *Session) Level() KnowledgeLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// SetLevel updates the knowledge level. Read by the directive composer
// on every send.
func (s *Session) SetLevel(level KnowledgeLevel) {
	s.mu.Lock()
	s.level = level
	s.mu.Unlock()
	logging.Session("knowledge level set to %s", level)
}

// Status returns the current mentor status.
func (s *Session) Status() MentorStatus {
	return s.tracker.State()
}

// History returns the session's history buffer.
func (s *Session) History() *History {
	return s.history
}

// Artifacts returns a copy of the captured diagram artifacts in
// extraction order. The collection only grows; eviction is a
// presentation concern.
func (s *Session) Artifacts() []VisualArtifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]VisualArtifact, len(s.artifacts))
	copy(out, s.artifacts)
	return out
}

// Send runs one full conversation exchange: gate, append the user turn,
// compose the directive, issue exactly one completion call, extract the
// response, and update history, status, and artifacts.
//
// Failure modes:
//   - ErrEmptyMessage / ErrGateBlocked: nothing was appended, no network
//     call was made.
//   - ErrSendInFlight: a previous send has not completed.
//   - transport errors: the user turn stays in history (a retry resends
//     full context without duplicating it), no model turn is appended,
//     and mentor status is unchanged.
func (s *Session) Send(ctx context.Context, text string) (*SendResult, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}

	if s.gate != nil && s.gate.ShouldBlock(trimmed) {
		logging.Session("gate blocked input (len=%d)", len(trimmed))
		return nil, ErrGateBlocked
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrSendInFlight
	}
	s.inFlight = true
	level := s.level
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	// The append must complete before the snapshot so the request
	// carries the entire buffer plus this one trailing user turn.
	userTurn := NewTurn(RoleUser, trimmed)
	s.history.Append(userTurn)

	directive := s.directives.Compose(level)
	turns := conversationTurns(s.history.Snapshot())
	tools := []perception.ToolDefinition{MentorStatusToolDefinition()}

	resp, err := s.client.CompleteConversation(ctx, directive, turns, tools)
	if err != nil {
		logging.SessionError("send failed: %v", err)
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	ex := Extract(resp)

	reply := ex.DisplayText
	if strings.TrimSpace(reply) == "" {
		reply = fallbackReply
	}

	// The model turn keeps the raw response text (diagram fences
	// included) so the model sees its own diagrams next turn.
	modelTurn := NewTurn(RoleModel, resp.Text)
	s.history.Append(modelTurn)

	s.tracker.Receive(ex.Signal)

	produced := make([]VisualArtifact, 0, len(ex.Diagrams))
	for _, source := range ex.Diagrams {
		produced = append(produced, VisualArtifact{
			ID:        uuid.NewString(),
			Kind:      "diagram",
			Source:    source,
			CreatedAt: time.Now(),
		})
	}
	if len(produced) > 0 {
		s.mu.Lock()
		s.artifacts = append(s.artifacts, produced...)
		s.mu.Unlock()
	}

	logging.Session("send completed: turns=%d diagrams=%d status=%s",
		s.history.Len(), len(produced), s.tracker.State())

	return &SendResult{
		Reply:     reply,
		Diagrams:  produced,
		Status:    s.tracker.State(),
		UserTurn:  userTurn,
		ModelTurn: modelTurn,
	}, nil
}

// conversationTurns projects history turns into the provider-neutral
// form the client expects, preserving order.
func conversationTurns(turns []Turn) []perception.ConversationTurn {
	out := make([]perception.ConversationTurn, 0, len(turns))
	for _, t := range turns {
		out = append(out, perception.ConversationTurn{
			Role: string(t.Role),
			Text: t.Text,
		})
	}
	return out
}
