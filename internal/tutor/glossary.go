package tutor

import (
	"context"
	"fmt"
	"strings"

	"logictutor/internal/logging"
)

// glossaryDirective is the fixed instruction for glossary lookups. The
// request is non-conversational: it never reads or writes history.
const glossaryDirective = "You define programming terms for a learner. Reply with a plain-language definition of the given term in at most three sentences. No code, no lists, no follow-up questions."

// Glossary returns a copy of the active glossary entry, or nil when no
// lookup is active.
func (s *Session) Glossary() *GlossaryEntry {
	s.glossaryMu.Lock()
	defer s.glossaryMu.Unlock()
	if s.glossary == nil {
		return nil
	}
	entry := *s.glossary
	return &entry
}

// Define runs an on-demand glossary lookup for a term. Lookups are not
// serialized against each other or against Send; each invocation
// supersedes the previous one, and a superseded lookup's result is
// dropped (the underlying request is not cancelled). Define returns the
// resolved entry, or (nil, nil) when the result arrived stale.
//
// On transport error the active slot is cleared so presentation shows a
// connectivity notice instead of a stuck pending entry.
func (s *Session) Define(ctx context.Context, term string) (*GlossaryEntry, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptyMessage
	}

	s.glossaryMu.Lock()
	s.glossarySeq++
	seq := s.glossarySeq
	s.glossary = &GlossaryEntry{Term: term, Pending: true}
	s.glossaryMu.Unlock()

	logging.Glossary("lookup started: term=%q", term)

	prompt := fmt.Sprintf("Define the term %q.", term)
	definition, err := s.client.CompleteWithSystem(ctx, glossaryDirective, prompt)

	s.glossaryMu.Lock()
	defer s.glossaryMu.Unlock()

	if seq != s.glossarySeq {
		// A newer lookup owns the slot; last write wins.
		logging.Glossary("lookup superseded: term=%q", term)
		return nil, nil
	}

	if err != nil {
		s.glossary = nil
		logging.GlossaryError("lookup failed: term=%q err=%v", term, err)
		return nil, fmt.Errorf("glossary lookup failed: %w", err)
	}

	s.glossary = &GlossaryEntry{Term: term, Definition: strings.TrimSpace(definition)}
	entry := *s.glossary
	return &entry, nil
}
