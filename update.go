package main

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"hubdeck/internal/viewport"
	"hubdeck/internal/workspace"
)

func initialModel(s *session, log *slog.Logger) model {
	ti := textinput.New()
	ti.CharLimit = 120
	return model{
		mode:     ModeNormal,
		session:  s,
		log:      log,
		keys:     defaultKeyMap(),
		helpView: help.New(),
		prompt:   ti,
	}
}

func (m model) Init() tea.Cmd {
	return m.scheduleLoad()
}

// scheduleLoad asks the persistence adapter whether a load is due and, if
// so, fires loadMsg once the panels have settled.
func (m model) scheduleLoad() tea.Cmd {
	delay, ok := m.session.persist.BeginLoad(len(m.session.ws.Panels))
	if !ok {
		return nil
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return loadMsg{} })
}

func animate(frame viewport.Frame) tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg{frame: frame, at: t}
	})
}

func (m model) canvasHeight() int {
	return max(m.height-1, 1)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.helpView.Width = msg.Width
		m.session.cam.Resize(float64(m.width), float64(m.canvasHeight()))
		return m, nil

	case loadMsg:
		restored := m.session.load()
		if restored.Found {
			m.successMessage = fmt.Sprintf("Restored layout (%d panels)", restored.Applied)
		}
		return m, nil

	case frameMsg:
		if m.session.cam.Tick(msg.frame, msg.at) {
			return m, animate(msg.frame)
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch m.mode {
		case ModePrompt:
			return m.handlePromptKey(msg)
		case ModeConfirm:
			return m.handleConfirmKey(msg)
		default:
			return m.handleNormalKey(msg)
		}
	}
	return m, nil
}

func (m model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.successMessage = ""

	if m.help {
		if key.Matches(msg, m.keys.Help, m.keys.Quit) || msg.Type == tea.KeyEscape {
			m.help = false
		}
		return m, nil
	}

	if m.session.cam.HandleKey(viewport.KeyEvent{Key: msg.String()}) {
		return m, nil
	}
	if m.handlePan(msg) {
		return m, nil
	}

	ports := m.session.ports
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.session.cfg.UI.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			return m, nil
		}
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.help = true

	case key.Matches(msg, m.keys.NextPort):
		m.selectPort(1)

	case key.Matches(msg, m.keys.PrevPort):
		m.selectPort(-1)

	case key.Matches(msg, m.keys.Cycle):
		ports.CyclePort(m.selectedPortID())

	case key.Matches(msg, m.keys.Disconnect):
		ports.Disconnect(m.selectedPortID())

	case key.Matches(msg, m.keys.Goto):
		m.openPrompt(PromptGoto, "go to: ", "panel id or title")

	case key.Matches(msg, m.keys.AddPanel):
		m.openPrompt(PromptAddPanel, "add: ", "Title = utility, utility")

	case key.Matches(msg, m.keys.CenterHub):
		hub, ok := m.session.ws.Hub()
		if !ok {
			m.errorMessage = "No hub panel"
			return m, nil
		}
		return m, m.panTo(hub)

	case key.Matches(msg, m.keys.Arrange):
		m.session.rearrange()
		m.successMessage = "Layout re-arranged"

	case key.Matches(msg, m.keys.Copy):
		raw, err := m.session.snapshot().Encode()
		if err == nil {
			err = writeClipboardText(raw)
		}
		if err != nil {
			m.errorMessage = fmt.Sprintf("Copy failed: %s", err)
			return m, nil
		}
		m.successMessage = "Layout copied to clipboard"

	case key.Matches(msg, m.keys.Paste):
		text, err := readClipboardText()
		if err != nil {
			m.errorMessage = fmt.Sprintf("Paste failed: %s", err)
			return m, nil
		}
		applied, err := m.session.importSnapshot(cleanClipboardText(text))
		if err != nil {
			m.errorMessage = fmt.Sprintf("Paste failed: %s", err)
			return m, nil
		}
		m.session.resync()
		m.successMessage = fmt.Sprintf("Imported layout (%d panels)", applied)

	case key.Matches(msg, m.keys.ExportPNG):
		filename := m.session.cfg.GetSavePath(exportName("png"))
		if err := exportPNG(filename, m.scene()); err != nil {
			m.errorMessage = fmt.Sprintf("Error exporting PNG: %s", err)
			return m, nil
		}
		m.successMessage = "Exported " + filename

	case key.Matches(msg, m.keys.ExportTXT):
		filename := m.session.cfg.GetSavePath(exportName("txt"))
		if err := exportTXT(filename, m.scene(), m.width, m.canvasHeight()); err != nil {
			m.errorMessage = fmt.Sprintf("Error exporting TXT: %s", err)
			return m, nil
		}
		m.successMessage = "Exported " + filename
	}
	return m, nil
}

func exportName(ext string) string {
	return fmt.Sprintf("hubdeck-%s.%s", time.Now().Format("20060102-150405"), ext)
}

func (m model) scene() scene {
	return m.session.scene(m.width, m.canvasHeight(), m.selectedPort, m.dragPanel)
}

func (m *model) openPrompt(kind PromptKind, prefix, placeholder string) {
	m.mode = ModePrompt
	m.promptKind = kind
	m.prompt.Prompt = prefix
	m.prompt.Placeholder = placeholder
	m.prompt.SetValue("")
	m.prompt.Focus()
}

func (m *model) closePrompt() {
	m.prompt.Blur()
	m.mode = ModeNormal
}

func (m model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.prompt.Value())
		m.closePrompt()
		if value == "" {
			return m, nil
		}
		switch m.promptKind {
		case PromptGoto:
			return m.gotoPanel(value)
		case PromptAddPanel:
			return m.addPanel(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmQuit:
			return m.quit()
		case ConfirmRemovePanel:
			m.removePanel(m.confirmPanel)
		}
	case "n", "esc", "q":
		m.mode = ModeNormal
	}
	m.confirmPanel = ""
	return m, nil
}

func (m model) quit() (tea.Model, tea.Cmd) {
	m.session.save()
	return m, tea.Quit
}

// findPanel matches a panel by exact id first, then by case-insensitive
// title substring.
func (m model) findPanel(query string) *workspace.Panel {
	if p := m.session.ws.Find(query); p != nil {
		return p
	}
	q := strings.ToLower(query)
	for i := range m.session.ws.Panels {
		p := &m.session.ws.Panels[i]
		if strings.Contains(strings.ToLower(p.Title), q) {
			return p
		}
	}
	return nil
}

func (m model) gotoPanel(query string) (tea.Model, tea.Cmd) {
	p := m.findPanel(query)
	if p == nil {
		m.errorMessage = fmt.Sprintf("No panel matches %q", query)
		return m, nil
	}
	return m, m.panTo(*p)
}

func (m model) panTo(p workspace.Panel) tea.Cmd {
	x := p.Position.X + float64(p.Width)/2
	y := p.Position.Y + float64(p.Height)/2
	frame := m.session.cam.PanToAnimated(x, y, m.session.cfg.AnimationDuration())
	return animate(frame)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// parsePanelSpec reads "Title = util, util" into a consumer panel.
func parsePanelSpec(value string) (workspace.Panel, error) {
	title, utils, found := strings.Cut(value, "=")
	title = strings.TrimSpace(title)
	if !found || title == "" {
		return workspace.Panel{}, fmt.Errorf("expected \"Title = utility, ...\"")
	}
	var required []string
	for _, u := range strings.Split(utils, ",") {
		if u = strings.TrimSpace(u); u != "" {
			required = append(required, u)
		}
	}
	id := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if id == "" {
		return workspace.Panel{}, fmt.Errorf("title %q has no usable characters", title)
	}
	return workspace.Panel{
		ID:                id,
		Title:             title,
		Kind:              workspace.KindConsumer,
		RequiredUtilities: required,
	}, nil
}

func (m model) addPanel(value string) (tea.Model, tea.Cmd) {
	p, err := parsePanelSpec(value)
	if err != nil {
		m.errorMessage = err.Error()
		return m, nil
	}
	cam := m.session.cam.Camera()
	p.Position = workspace.Position{X: cam.OffsetX, Y: cam.OffsetY}
	if err := m.session.addPanel(p); err != nil {
		m.errorMessage = err.Error()
		return m, nil
	}
	m.successMessage = "Added " + p.Title
	return m, m.scheduleLoad()
}

func (m *model) removePanel(id string) {
	if err := m.session.removePanel(id); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.successMessage = "Removed " + id
}

// world converts a terminal cell to the world point under its centre.
func (m model) world(x, y int) viewport.Point {
	cam := m.session.cam.Camera()
	return cam.ScreenToWorld(
		viewport.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5},
		m.session.cam.Center(),
	)
}

func pointerButton(b tea.MouseButton) viewport.Button {
	switch b {
	case tea.MouseButtonLeft:
		return viewport.ButtonLeft
	case tea.MouseButtonMiddle:
		return viewport.ButtonMiddle
	case tea.MouseButtonRight:
		return viewport.ButtonRight
	default:
		return viewport.ButtonNone
	}
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// A release always ends a drag, wherever it lands and whatever is open.
	if msg.Action == tea.MouseActionRelease {
		return m.handleRelease(msg)
	}
	if m.mode != ModeNormal || m.help {
		return m, nil
	}
	if msg.Y >= m.canvasHeight() {
		return m, nil
	}

	if tea.MouseEvent(msg).IsWheel() {
		var delta float64
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			delta = -wheelDelta
		case tea.MouseButtonWheelDown:
			delta = wheelDelta
		default:
			return m, nil
		}
		m.session.cam.HandleWheel(viewport.WheelEvent{DeltaY: delta, X: float64(msg.X), Y: float64(msg.Y)})
		return m, nil
	}

	ev := viewport.PointerEvent{
		Button: pointerButton(msg.Button),
		X:      float64(msg.X),
		Y:      float64(msg.Y),
		Modifiers: viewport.Modifiers{
			Ctrl:  msg.Ctrl,
			Alt:   msg.Alt,
			Shift: msg.Shift,
		},
	}
	switch msg.Action {
	case tea.MouseActionPress:
		ev.Kind = viewport.PointerDown
	case tea.MouseActionMotion:
		ev.Kind = viewport.PointerMove
	default:
		return m, nil
	}
	if m.session.cam.HandlePointer(ev) {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		return m.handlePress(msg)
	case tea.MouseActionMotion:
		if m.dragPanel != "" {
			zoom := m.session.cam.Camera().Zoom
			dx := float64(msg.X-m.dragLastX) / zoom
			dy := float64(msg.Y-m.dragLastY) / zoom
			if err := m.session.ws.Move(m.dragPanel, dx, dy); err != nil {
				m.dragPanel = ""
				return m, nil
			}
			m.dragLastX, m.dragLastY = msg.X, msg.Y
		}
	}
	return m, nil
}

func (m model) handleRelease(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.session.cam.HandlePointer(viewport.PointerEvent{
		Kind:   viewport.PointerUp,
		Button: pointerButton(msg.Button),
		X:      float64(msg.X),
		Y:      float64(msg.Y),
	})
	if m.dragPanel != "" {
		m.dragPanel = ""
		m.session.save()
	}
	return m, nil
}

func (m model) handlePress(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	w := m.world(msg.X, msg.Y)
	p := m.session.ws.PanelAt(w.X, w.Y)
	if p == nil {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonLeft:
		if p.IsHub() {
			if idx := portAt(*p, m.session.ports.Catalog(), w.X, w.Y); idx >= 0 {
				m.selectedPort = idx
				m.session.ports.CyclePort(m.selectedPortID())
				return m, nil
			}
		}
		m.dragPanel = p.ID
		m.dragLastX, m.dragLastY = msg.X, msg.Y

	case tea.MouseButtonRight:
		if p.IsHub() {
			return m, nil
		}
		if !m.session.cfg.UI.Confirmations {
			m.removePanel(p.ID)
			return m, nil
		}
		m.mode = ModeConfirm
		m.confirmAction = ConfirmRemovePanel
		m.confirmPanel = p.ID
	}
	return m, nil
}
