package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handlePan moves the camera with the direction keys. Panning left reveals
// what is to the left, so the content shifts right.
func (m *model) handlePan(msg tea.KeyMsg) bool {
	speed := m.getMoveSpeed(msg.String())
	cam := m.session.cam
	switch {
	case key.Matches(msg, m.keys.Left):
		cam.PanBy(speed, 0)
	case key.Matches(msg, m.keys.Right):
		cam.PanBy(-speed, 0)
	case key.Matches(msg, m.keys.Up):
		cam.PanBy(0, speed)
	case key.Matches(msg, m.keys.Down):
		cam.PanBy(0, -speed)
	default:
		return false
	}
	return true
}

func (m *model) getMoveSpeed(key string) float64 {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return panStepFast
	default:
		return panStep
	}
}

// selectPort moves the port selection by delta, wrapping around.
func (m *model) selectPort(delta int) {
	n := len(m.session.ports.Catalog().Ports)
	if n == 0 {
		return
	}
	m.selectedPort = ((m.selectedPort+delta)%n + n) % n
}

func (m *model) selectedPortID() string {
	ordered := m.session.ports.Catalog().OrderedPorts()
	if m.selectedPort < 0 || m.selectedPort >= len(ordered) {
		return ""
	}
	return ordered[m.selectedPort].ID
}
