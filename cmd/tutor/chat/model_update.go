package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"logictutor/internal/logging"
)

// Update handles all tea messages: key input, window sizing, spinner
// ticks, and the completion/glossary results coming back from commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		taCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := m.textarea.Height() + 2
		vpHeight := m.height - headerHeight - footerHeight
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(m.width - 2)

		// Rebuild the markdown renderer for the new width. A failed
		// build leaves plain-text rendering in place.
		wrap := m.width - 6
		if wrap < 20 {
			wrap = 20
		}
		if r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		); err == nil {
			m.renderer = r
		}

		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyUp, tea.KeyDown:
			if m.textarea.Value() == "" || m.historyIndex >= 0 {
				m.navigateInputHistory(msg.Type == tea.KeyUp)
				return m, nil
			}

		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			m.textarea.Reset()
			m.inputHistory = append(m.inputHistory, input)
			m.historyIndex = -1

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			if m.isLoading {
				m.appendNotice("Hold on - I'm still working on your last message.")
				return m, nil
			}

			m.isLoading = true
			m.messages = append(m.messages, Message{Role: "user", Content: input, Time: time.Now()})
			m.refreshViewport()
			m.viewport.GotoBottom()
			return m, tea.Batch(m.spinner.Tick, m.sendCmd(input))
		}

	case tutorReplyMsg:
		m.isLoading = false
		m.messages = append(m.messages, Message{
			Role:     "tutor",
			Content:  msg.result.Reply,
			Diagrams: msg.result.Diagrams,
			Time:     time.Now(),
		})
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case sendFailedMsg:
		m.isLoading = false
		if msg.blocked {
			m.appendNotice("I won't hand over the full solution - but let's work out the logic together. Ask me about the approach instead.")
		} else {
			logging.UI("send failed: %v", msg.err)
			m.appendError("I couldn't reach the tutoring service. Your message is kept - just send again.")
		}
		return m, nil

	case glossaryMsg:
		switch {
		case msg.err != nil:
			m.glossaryPending = false
			m.appendError("The glossary is unreachable right now. Try again in a moment.")
		case msg.entry == nil:
			// Superseded lookup; a newer one owns the slot and its own
			// message will stop the spinner.
		default:
			m.glossaryPending = false
			m.messages = append(m.messages, Message{
				Role:    "tutor",
				Content: "**" + msg.entry.Term + "** - " + msg.entry.Definition,
				Time:    time.Now(),
			})
			m.refreshViewport()
			m.viewport.GotoBottom()
		}
		return m, nil

	case spinner.TickMsg:
		if m.isLoading || m.glossaryPending {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}
		return m, nil
	}

	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(taCmd, vpCmd, textarea.Blink)
}

// navigateInputHistory moves through previously sent inputs.
func (m *Model) navigateInputHistory(up bool) {
	if len(m.inputHistory) == 0 {
		return
	}
	if up {
		if m.historyIndex == -1 {
			m.historyIndex = len(m.inputHistory) - 1
		} else if m.historyIndex > 0 {
			m.historyIndex--
		}
	} else {
		if m.historyIndex == -1 {
			return
		}
		m.historyIndex++
		if m.historyIndex >= len(m.inputHistory) {
			m.historyIndex = -1
			m.textarea.Reset()
			return
		}
	}
	m.textarea.SetValue(m.inputHistory[m.historyIndex])
	m.textarea.CursorEnd()
}

func (m *Model) appendNotice(text string) {
	m.messages = append(m.messages, Message{Role: "notice", Content: text, Time: time.Now()})
	m.refreshViewport()
	m.viewport.GotoBottom()
}

func (m *Model) appendError(text string) {
	m.messages = append(m.messages, Message{Role: "error", Content: text, Time: time.Now()})
	m.refreshViewport()
	m.viewport.GotoBottom()
}
