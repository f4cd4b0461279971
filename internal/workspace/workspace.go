// Package workspace holds the panels placed on the canvas and their layout.
package workspace

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed workspace.yaml
var defaultWorkspaceYAML []byte

const (
	KindHub      = "hub"
	KindConsumer = "consumer"

	minPanelWidth = 16
)

var (
	// ErrDuplicatePanel is returned when two panels share an id.
	ErrDuplicatePanel = errors.New("duplicate panel id")
	// ErrPanelNotFound is returned by lookups and edits of an unknown id.
	ErrPanelNotFound = errors.New("panel not found")
	// ErrNoPanels is returned by Parse for a workspace file without panels.
	ErrNoPanels = errors.New("workspace has no panels")
)

// Position is a world-space coordinate of a panel's top-left corner.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Panel is a node on the canvas. Consumer panels list the utilities they
// need; the hub panel hosts the ports.
type Panel struct {
	ID                string   `yaml:"id"`
	Title             string   `yaml:"title"`
	Kind              string   `yaml:"kind"`
	RequiredUtilities []string `yaml:"requires"`
	Position          Position `yaml:"position"`
	Width             int      `yaml:"-"`
	Height            int      `yaml:"-"`
}

// IsHub reports whether p is the device hub.
func (p Panel) IsHub() bool {
	return p.Kind == KindHub
}

// Requires reports whether p lists utilityID.
func (p Panel) Requires(utilityID string) bool {
	return slices.Contains(p.RequiredUtilities, utilityID)
}

// Contains reports whether the world point (x, y) falls inside p.
func (p Panel) Contains(x, y float64) bool {
	return x >= p.Position.X && x < p.Position.X+float64(p.Width) &&
		y >= p.Position.Y && y < p.Position.Y+float64(p.Height)
}

// updateSize fills in a default footprint for panels without one: a border,
// a title line and one line per required utility.
func (p *Panel) updateSize() {
	if p.Width <= 0 {
		p.Width = max(minPanelWidth, len(p.Title)+4)
		for _, u := range p.RequiredUtilities {
			p.Width = max(p.Width, len(u)+6)
		}
	}
	if p.Height <= 0 {
		p.Height = 3 + len(p.RequiredUtilities)
	}
}

// Workspace is the ordered list of panels on the canvas.
type Workspace struct {
	Panels []Panel `yaml:"panels"`
}

// Default parses the built-in workspace.
func Default() *Workspace {
	w, err := Parse(defaultWorkspaceYAML)
	if err != nil {
		panic(fmt.Sprintf("workspace: built-in layout: %v", err))
	}
	return w
}

// Load reads a workspace from a YAML file.
func Load(path string) (*Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML workspace. Panels without a kind are consumers.
func Parse(data []byte) (*Workspace, error) {
	var w Workspace
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse workspace: %w", err)
	}
	if len(w.Panels) == 0 {
		return nil, ErrNoPanels
	}
	seen := make(map[string]bool, len(w.Panels))
	for i := range w.Panels {
		p := &w.Panels[i]
		if p.ID == "" {
			return nil, fmt.Errorf("panel %d: id is required", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePanel, p.ID)
		}
		seen[p.ID] = true
		if p.Kind == "" {
			p.Kind = KindConsumer
		}
		if p.Title == "" {
			p.Title = p.ID
		}
		p.updateSize()
	}
	return &w, nil
}

// Hub returns the first hub panel.
func (w *Workspace) Hub() (Panel, bool) {
	return Hub(w.Panels)
}

// Hub returns the first hub panel in panels.
func Hub(panels []Panel) (Panel, bool) {
	for _, p := range panels {
		if p.IsHub() {
			return p, true
		}
	}
	return Panel{}, false
}

// Find returns a pointer to the panel with id, or nil.
func (w *Workspace) Find(id string) *Panel {
	for i := range w.Panels {
		if w.Panels[i].ID == id {
			return &w.Panels[i]
		}
	}
	return nil
}

// PanelAt returns the topmost panel containing the world point, or nil.
// Later panels are drawn on top.
func (w *Workspace) PanelAt(x, y float64) *Panel {
	for i := len(w.Panels) - 1; i >= 0; i-- {
		if w.Panels[i].Contains(x, y) {
			return &w.Panels[i]
		}
	}
	return nil
}

// Add appends a panel. Its size is derived when unset.
func (w *Workspace) Add(p Panel) error {
	if p.ID == "" {
		return fmt.Errorf("panel id is required")
	}
	if w.Find(p.ID) != nil {
		return fmt.Errorf("%w: %q", ErrDuplicatePanel, p.ID)
	}
	if p.Kind == "" {
		p.Kind = KindConsumer
	}
	if p.Title == "" {
		p.Title = p.ID
	}
	p.updateSize()
	w.Panels = append(w.Panels, p)
	return nil
}

// Remove deletes the panel with id.
func (w *Workspace) Remove(id string) error {
	for i := range w.Panels {
		if w.Panels[i].ID == id {
			w.Panels = slices.Delete(w.Panels, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrPanelNotFound, id)
}

// Move shifts the panel with id by (dx, dy).
func (w *Workspace) Move(id string, dx, dy float64) error {
	p := w.Find(id)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrPanelNotFound, id)
	}
	p.Position.X += dx
	p.Position.Y += dy
	return nil
}

// SetPosition places the panel with id at pos.
func (w *Workspace) SetPosition(id string, pos Position) error {
	p := w.Find(id)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrPanelNotFound, id)
	}
	p.Position = pos
	return nil
}

// Clone returns a deep copy of the panel list.
func (w *Workspace) Clone() []Panel {
	out := make([]Panel, len(w.Panels))
	for i, p := range w.Panels {
		p.RequiredUtilities = slices.Clone(p.RequiredUtilities)
		out[i] = p
	}
	return out
}
