package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"logictutor/cmd/tutor/ui"
	"logictutor/internal/tutor"
)

const welcomeText = `Hi! I'm your logic tutor. Describe the problem you're working on and
we'll break it down together - step by step, no spoilers.

Commands: /level <beginner|intermediate|advanced>, /define <term>, /diagrams, /help`

// InitialModel builds the chat model around an existing session.
func InitialModel(session *tutor.Session) Model {
	styles := ui.NewStyles(ui.DetectTheme())

	ta := textarea.New()
	ta.Placeholder = "Ask about the problem you're solving..."
	ta.Focus()
	ta.Prompt = "┃ "
	ta.CharLimit = 4000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Theme.Accent)

	return Model{
		textarea:     ta,
		spinner:      sp,
		styles:       styles,
		session:      session,
		messages:     []Message{{Role: "tutor", Content: welcomeText}},
		historyIndex: -1,
	}
}

// Init starts the blink cycle.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}
