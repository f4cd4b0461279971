package main

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"

	"hubdeck/internal/viewport"
)

type model struct {
	width          int
	height         int
	mode           Mode
	help           bool
	session        *session
	log            *slog.Logger
	keys           keyMap
	helpView       help.Model
	selectedPort   int
	dragPanel      string
	dragLastX      int
	dragLastY      int
	prompt         textinput.Model
	promptKind     PromptKind
	confirmAction  ConfirmAction
	confirmPanel   string
	errorMessage   string
	successMessage string
}

// frameMsg drives one step of a pan animation.
type frameMsg struct {
	frame viewport.Frame
	at    time.Time
}

// loadMsg fires once the settle delay after startup has elapsed.
type loadMsg struct{}
