package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#bac2de"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorAvailable))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorTitle))
	chipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#1e1e2e")).Padding(0, 1)
)

func (m model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.help {
		return m.helpScreen()
	}

	var result strings.Builder
	canvas := m.scene().Render(m.width, m.canvasHeight())
	result.WriteString(strings.Join(canvas.StyledLines(), "\n"))
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		if m.session.cam.Dragging() {
			return "PAN"
		}
		if m.dragPanel != "" {
			return "MOVE"
		}
		return "NORMAL"
	case ModePrompt:
		return "PROMPT"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

func (m model) statusLine() string {
	switch m.mode {
	case ModePrompt:
		return m.prompt.View()
	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmQuit:
			message = "Quit hubdeck? (y/n)"
		case ConfirmRemovePanel:
			message = fmt.Sprintf("Remove panel %s? (y/n)", m.confirmPanel)
		}
		return statusStyle.Render(fmt.Sprintf("Mode: CONFIRM | %s", message))
	}

	cam := m.session.cam.Camera()
	status := fmt.Sprintf("Mode: %s | Zoom: %d%% | Offset: (%.0f,%.0f)",
		m.modeString(), int(cam.Zoom*100+0.5), cam.OffsetX, cam.OffsetY)
	if id := m.selectedPortID(); id != "" {
		status += " | Port: " + id
	}
	parts := []string{statusStyle.Render(status)}
	if chips := m.deviceChips(); chips != "" {
		parts = append(parts, chips)
	}
	switch {
	case m.errorMessage != "":
		parts = append(parts, errorStyle.Render("ERROR: "+m.errorMessage))
	case m.successMessage != "":
		parts = append(parts, okStyle.Render(m.successMessage))
	default:
		parts = append(parts, statusStyle.Render("? for help | q to quit"))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(parts, " "))
}

// deviceChips renders one coloured chip per connected device, in port order.
func (m model) deviceChips() string {
	state := m.session.ports.State()
	var chips []string
	for _, id := range state.PortIDs() {
		b := state[id]
		chips = append(chips, chipStyle.Background(lipgloss.Color(b.Color)).Render(b.Icon+" "+b.DeviceName))
	}
	return strings.Join(chips, "")
}

func (m model) helpScreen() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("hubdeck help"))
	b.WriteString("\n\n")
	m.helpView.ShowAll = true
	b.WriteString(m.helpView.View(m.keys))
	b.WriteString("\n\n")
	for _, line := range []string{
		"Mouse:",
		"  wheel                      zoom around the pointer",
		"  middle drag / ctrl+drag    pan",
		"  click a hub port           cycle its device",
		"  drag a panel               move it",
		"  right click a panel        remove it",
		"",
		"Press ? or esc to close",
	} {
		b.WriteString(statusStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
