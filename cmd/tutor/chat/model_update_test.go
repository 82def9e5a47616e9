package chat

import (
	"errors"
	"strings"
	"testing"

	"logictutor/internal/tutor"
)

func TestGlossaryMsgSupersededKeepsSpinner(t *testing.T) {
	m := testModel()
	m.glossaryPending = true

	// A superseded lookup reports (nil, nil); the newer lookup is still
	// in flight, so the spinner must keep going.
	next, _ := m.Update(glossaryMsg{})
	model := next.(Model)
	if !model.glossaryPending {
		t.Fatal("stale lookup result stopped the spinner")
	}
	if len(model.messages) != len(m.messages) {
		t.Fatalf("stale lookup appended a message: %d -> %d", len(m.messages), len(model.messages))
	}
}

func TestGlossaryMsgEntryStopsSpinner(t *testing.T) {
	m := testModel()
	m.glossaryPending = true

	next, _ := m.Update(glossaryMsg{
		entry: &tutor.GlossaryEntry{Term: "closure", Definition: "A function plus its captured scope."},
	})
	model := next.(Model)
	if model.glossaryPending {
		t.Fatal("resolved lookup left the spinner running")
	}
	last := model.messages[len(model.messages)-1]
	if last.Role != "tutor" || !strings.Contains(last.Content, "closure") {
		t.Fatalf("definition message = %+v", last)
	}
}

func TestGlossaryMsgErrorStopsSpinner(t *testing.T) {
	m := testModel()
	m.glossaryPending = true

	next, _ := m.Update(glossaryMsg{err: errors.New("dial timeout")})
	model := next.(Model)
	if model.glossaryPending {
		t.Fatal("failed lookup left the spinner running")
	}
	last := model.messages[len(model.messages)-1]
	if last.Role != "error" {
		t.Fatalf("failure message = %+v", last)
	}
}
