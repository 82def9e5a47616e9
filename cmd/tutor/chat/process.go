// This file contains the tea commands that bridge the TUI to the
// session core: the primary conversation send and glossary lookups.
package chat

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"logictutor/internal/tutor"
)

// Network-bound operations are the only suspension points; each gets a
// bounded context so a hung call cannot wedge the process forever.
const (
	sendTimeout     = 3 * time.Minute
	glossaryTimeout = 30 * time.Second
)

// sendCmd runs one conversation exchange off the update goroutine. The
// session itself enforces single-flight; the isLoading flag in the model
// makes that a UX property rather than an error path.
func (m Model) sendCmd(input string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		result, err := session.Send(ctx, input)
		if err != nil {
			return sendFailedMsg{
				err:     err,
				blocked: errors.Is(err, tutor.ErrGateBlocked),
			}
		}
		return tutorReplyMsg{result: result}
	}
}

// defineCmd runs a glossary lookup. Lookups are never serialized against
// sends or each other; the session drops stale results.
func (m Model) defineCmd(term string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), glossaryTimeout)
		defer cancel()

		entry, err := session.Define(ctx, term)
		return glossaryMsg{entry: entry, err: err}
	}
}
