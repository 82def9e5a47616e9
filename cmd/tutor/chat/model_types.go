// Package chat provides the interactive TUI chat interface for
// LogicTutor. This file contains the model definition and the message
// types exchanged through the bubbletea update loop.
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"logictutor/cmd/tutor/ui"
	"logictutor/internal/tutor"
)

// Message represents a single entry in the presentation log. Notices
// and errors live here too; they are presentation-only and never enter
// the session's history buffer.
type Message struct {
	Role     string // "user", "tutor", "notice", "error"
	Content  string
	Diagrams []tutor.VisualArtifact
	Time     time.Time
}

// Model is the main model for the interactive chat interface.
type Model struct {
	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   ui.Styles
	renderer *glamour.TermRenderer

	// Backend
	session *tutor.Session

	// State
	messages        []Message
	isLoading       bool
	glossaryPending bool
	width           int
	height          int
	ready           bool

	// Input history navigation
	inputHistory []string
	historyIndex int
}

// Messages for tea updates.
type (
	// tutorReplyMsg carries a completed exchange.
	tutorReplyMsg struct {
		result *tutor.SendResult
	}

	// sendFailedMsg carries a failed or refused send. blocked marks the
	// pre-send gate case, which is a notice rather than an error.
	sendFailedMsg struct {
		err     error
		blocked bool
	}

	// glossaryMsg carries a finished glossary lookup. A nil entry with a
	// nil error means the lookup was superseded and its result dropped.
	glossaryMsg struct {
		entry *tutor.GlossaryEntry
		err   error
	}
)
