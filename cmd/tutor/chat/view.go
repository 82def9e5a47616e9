// This file contains view rendering for the TUI: header with level and
// mentor status badges, the message history with markdown rendering,
// diagram cards, and the input footer.
package chat

import (
	"fmt"
	"strings"

	"logictutor/internal/tutor"
)

// View renders the full interface.
func (m Model) View() string {
	if !m.ready {
		return "Starting LogicTutor..."
	}

	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render("LogicTutor")
	level := m.styles.Muted.Render(fmt.Sprintf("level: %s", m.session.Level()))

	var status string
	if m.session.Status() == tutor.StatusSatisfied {
		status = m.styles.StatusSatisfied.Render("● logic derived")
	} else {
		status = m.styles.StatusSearching.Render("● still exploring")
	}

	return fmt.Sprintf("%s  %s  %s", title, level, status)
}

func (m Model) renderFooter() string {
	if m.isLoading {
		return m.spinner.View() + " thinking...\n" + m.textarea.View()
	}
	return m.textarea.View()
}

// refreshViewport re-renders the message log into the viewport.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
}

func (m Model) renderMessages() string {
	var sb strings.Builder

	for _, msg := range m.messages {
		switch msg.Role {
		case "user":
			sb.WriteString(m.styles.Bold.Foreground(m.styles.Theme.Primary).Render("You") + "\n")
			sb.WriteString(m.styles.UserInput.Render(msg.Content))
			sb.WriteString("\n\n")

		case "notice":
			sb.WriteString(m.styles.Notice.Render(msg.Content))
			sb.WriteString("\n\n")

		case "error":
			sb.WriteString(m.styles.ErrorNotice.Render(msg.Content))
			sb.WriteString("\n\n")

		default: // "tutor"
			sb.WriteString(m.styles.Bold.Foreground(m.styles.Theme.Accent).Render("Tutor") + "\n")
			sb.WriteString(m.safeRenderMarkdown(msg.Content))
			for _, d := range msg.Diagrams {
				sb.WriteString(m.renderDiagramCard(d))
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// renderDiagramCard shows a captured diagram as a bordered card with the
// source preserved verbatim. Actual image rendering happens outside the
// terminal; the source is the hand-off contract.
func (m Model) renderDiagramCard(a tutor.VisualArtifact) string {
	label := m.styles.Muted.Render("logic diagram")
	return label + "\n" + m.styles.DiagramCard.Render(a.Source)
}

// safeRenderMarkdown renders markdown with panic recovery; glamour can
// panic on pathological input, in which case plain text wins.
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			return rendered
		}
	}
	return content
}
