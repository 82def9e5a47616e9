package chat

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"logictutor/internal/tutor"
)

const helpText = `Available commands:
  /level <beginner|intermediate|advanced>  set how much detail I give you
  /define <term>                           quick definition of a term
  /diagrams                                list captured logic diagrams
  /help                                    this message
  /quit                                    exit`

// handleCommand dispatches slash commands. Commands are presentation
// features; none of them touch the conversation history.
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "/help":
		m.appendNotice(helpText)
		return m, nil

	case "/quit", "/exit":
		return m, tea.Quit

	case "/level":
		if len(args) == 0 {
			m.appendNotice(fmt.Sprintf("Current level: %s. Usage: /level <beginner|intermediate|advanced>", m.session.Level()))
			return m, nil
		}
		level, ok := tutor.ParseKnowledgeLevel(strings.ToLower(args[0]))
		if !ok {
			m.appendNotice(fmt.Sprintf("Unknown level %q. Pick beginner, intermediate, or advanced.", args[0]))
			return m, nil
		}
		m.session.SetLevel(level)
		m.appendNotice(fmt.Sprintf("Knowledge level set to %s.", level))
		return m, nil

	case "/define":
		if len(args) == 0 {
			m.appendNotice("Usage: /define <term>")
			return m, nil
		}
		term := strings.Join(args, " ")
		m.glossaryPending = true
		m.appendNotice(fmt.Sprintf("Looking up %q...", term))
		return m, tea.Batch(m.spinner.Tick, m.defineCmd(term))

	case "/diagrams":
		artifacts := m.session.Artifacts()
		if len(artifacts) == 0 {
			m.appendNotice("No diagrams captured yet.")
			return m, nil
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Captured diagrams (%d):\n", len(artifacts))
		for i, a := range artifacts {
			fmt.Fprintf(&sb, "  %d. %s (%s)\n", i+1, firstLine(a.Source), a.CreatedAt.Format("15:04:05"))
		}
		m.appendNotice(strings.TrimRight(sb.String(), "\n"))
		return m, nil

	default:
		m.appendNotice(fmt.Sprintf("Unknown command %s. Try /help.", cmd))
		return m, nil
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
