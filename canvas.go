package main

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hubdeck/internal/cables"
	"hubdeck/internal/ports"
	"hubdeck/internal/viewport"
	"hubdeck/internal/workspace"
)

const (
	colorAvailable = "#a6e3a1"
	colorMissing   = "#6c7086"
	colorTitle     = "#cdd6f4"
)

type cell struct {
	r     rune
	color string
}

// Canvas is a character grid the workspace is rasterised onto.
type Canvas struct {
	width  int
	height int
	cells  [][]cell
}

type styledLine struct {
	text  string
	color string
}

func NewCanvas(width, height int) *Canvas {
	width = max(width, 1)
	height = max(height, 1)
	cells := make([][]cell, height)
	for y := range cells {
		cells[y] = make([]cell, width)
		for x := range cells[y] {
			cells[y][x] = cell{r: ' '}
		}
	}
	return &Canvas{width: width, height: height, cells: cells}
}

func (c *Canvas) isValidPos(x, y int) bool {
	return y >= 0 && y < c.height && x >= 0 && x < c.width
}

func (c *Canvas) set(x, y int, r rune, color string) {
	if c.isValidPos(x, y) {
		c.cells[y][x] = cell{r: r, color: color}
	}
}

// Lines returns the grid as plain text.
func (c *Canvas) Lines() []string {
	lines := make([]string, c.height)
	for y, row := range c.cells {
		var b strings.Builder
		for _, cl := range row {
			b.WriteRune(cl.r)
		}
		lines[y] = b.String()
	}
	return lines
}

// StyledLines returns the grid with colored runs rendered through lipgloss.
func (c *Canvas) StyledLines() []string {
	styles := make(map[string]lipgloss.Style)
	lines := make([]string, c.height)
	for y, row := range c.cells {
		var b, run strings.Builder
		runColor := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				b.WriteString(run.String())
			} else {
				st, ok := styles[runColor]
				if !ok {
					st = lipgloss.NewStyle().Foreground(lipgloss.Color(runColor))
					styles[runColor] = st
				}
				b.WriteString(st.Render(run.String()))
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.color != runColor {
				flush()
				runColor = cl.color
			}
			run.WriteRune(cl.r)
		}
		flush()
		lines[y] = b.String()
	}
	return lines
}

// scene is everything a render needs, captured from the session.
type scene struct {
	cam          viewport.Camera
	center       viewport.Point
	panels       []workspace.Panel
	edges        []cables.Edge
	bindings     ports.State
	catalog      *ports.Catalog
	selectedPort int
	dragPanel    string
}

func (s *session) scene(width, height, selectedPort int, dragPanel string) scene {
	return scene{
		cam:          s.cam.Camera(),
		center:       viewport.Point{X: float64(width) / 2, Y: float64(height) / 2},
		panels:       s.ws.Panels,
		edges:        s.cables.Edges(),
		bindings:     s.ports.State(),
		catalog:      s.ports.Catalog(),
		selectedPort: selectedPort,
		dragPanel:    dragPanel,
	}
}

func (sc scene) project(x, y float64) (int, int) {
	p := sc.cam.WorldToScreen(viewport.Point{X: x, Y: y}, sc.center)
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

// Render rasterises the scene: cables first, panels on top.
func (sc scene) Render(width, height int) *Canvas {
	c := NewCanvas(width, height)
	for _, e := range sc.edges {
		sc.drawCable(c, e)
	}
	for _, p := range sc.panels {
		sc.drawPanel(c, p)
	}
	return c
}

// cableEnds returns the world coordinates a cable runs between: the right
// edge of the hub at the port's row, and the left edge of the panel at the
// utility's row. The row follows the port's live binding, since an edge kept
// across a device swap still carries the utility it was created with.
func cableEnds(e cables.Edge, hub, target workspace.Panel, catalog *ports.Catalog, bindings ports.State) (fromX, fromY, toX, toY float64, ok bool) {
	portIdx := slices.IndexFunc(catalog.OrderedPorts(), func(p ports.PortDefinition) bool {
		return p.ID == e.SourcePortID
	})
	utility := e.UtilityID
	if b, bound := bindings[e.SourcePortID]; bound {
		utility = b.UtilityID
	}
	utilIdx := slices.Index(target.RequiredUtilities, utility)
	if portIdx < 0 || utilIdx < 0 {
		return 0, 0, 0, 0, false
	}
	fromX = hub.Position.X + float64(hub.Width)
	fromY = hub.Position.Y + float64(hubHeaderRows+portIdx)
	toX = target.Position.X - 1
	toY = target.Position.Y + float64(hubHeaderRows+utilIdx)
	return fromX, fromY, toX, toY, true
}

func (sc scene) drawCable(c *Canvas, e cables.Edge) {
	hub, ok := workspace.Hub(sc.panels)
	if !ok {
		return
	}
	idx := slices.IndexFunc(sc.panels, func(p workspace.Panel) bool { return p.ID == e.TargetPanelID })
	if idx < 0 {
		return
	}
	fx, fy, tx, ty, ok := cableEnds(e, hub, sc.panels[idx], sc.catalog, sc.bindings)
	if !ok {
		return
	}
	color := sc.bindings[e.SourcePortID].Color
	x1, y1 := sc.project(fx, fy)
	x2, y2 := sc.project(tx, ty)
	drawOrthogonal(c, x1, y1, x2, y2, color)
	if x2 > x1 {
		c.set(x2, y2, '▸', color)
	} else if x2 < x1 {
		c.set(x2, y2, '◂', color)
	}
}

// drawOrthogonal draws a three-segment path: horizontal to the midpoint,
// vertical, horizontal to the end.
func drawOrthogonal(c *Canvas, x1, y1, x2, y2 int, color string) {
	midX := (x1 + x2) / 2
	hline(c, x1, midX, y1, color)
	hline(c, midX, x2, y2, color)
	if y1 == y2 {
		return
	}
	vline(c, midX, y1, y2, color)

	down := y2 > y1
	c.set(midX, y1, corner(x1 < midX, down), color)
	c.set(midX, y2, corner(x2 < midX, !down), color)
}

func hline(c *Canvas, xa, xb, y int, color string) {
	for x := min(xa, xb); x <= max(xa, xb); x++ {
		c.set(x, y, '─', color)
	}
}

func vline(c *Canvas, x, ya, yb int, color string) {
	for y := min(ya, yb); y <= max(ya, yb); y++ {
		c.set(x, y, '│', color)
	}
}

// corner picks the box-drawing corner joining a horizontal segment on the
// left (or right) side with a vertical segment going down (or up).
func corner(fromLeft, down bool) rune {
	switch {
	case fromLeft && down:
		return '┐'
	case fromLeft && !down:
		return '┘'
	case !fromLeft && down:
		return '┌'
	default:
		return '└'
	}
}

func (sc scene) drawPanel(c *Canvas, p workspace.Panel) {
	x0, y0 := sc.project(p.Position.X, p.Position.Y)
	x1, y1 := sc.project(p.Position.X+float64(p.Width), p.Position.Y+float64(p.Height))
	w := max(x1-x0, 2)
	h := max(y1-y0, 2)

	c.drawBoxAt(x0, y0, w, h, p.ID == sc.dragPanel)

	lines := sc.panelLines(p)
	for i, line := range lines {
		_, ty := sc.project(p.Position.X, p.Position.Y+float64(1+i))
		if ty <= y0 || ty >= y0+h-1 {
			continue
		}
		text := []rune(line.text)
		if len(text) > w-2 {
			text = text[:w-2]
		}
		for j, r := range text {
			c.set(x0+1+j, ty, r, line.color)
		}
	}
}

func (sc scene) panelLines(p workspace.Panel) []styledLine {
	lines := []styledLine{{text: p.Title, color: colorTitle}}
	if p.IsHub() {
		return append(lines, hubLines(sc.catalog, sc.bindings, sc.selectedPort)...)
	}
	for _, u := range p.RequiredUtilities {
		if utilityAvailable(sc.bindings, u) {
			lines = append(lines, styledLine{text: "● " + u, color: colorAvailable})
		} else {
			lines = append(lines, styledLine{text: "○ " + u, color: colorMissing})
		}
	}
	return lines
}

func utilityAvailable(bindings ports.State, utilityID string) bool {
	for _, b := range bindings {
		if b.UtilityID == utilityID {
			return true
		}
	}
	return false
}

// hubLines lists the hub ports in display order, one line each.
func hubLines(catalog *ports.Catalog, bindings ports.State, selected int) []styledLine {
	ordered := catalog.OrderedPorts()
	width := 0
	for _, p := range ordered {
		width = max(width, len(p.ID))
	}
	lines := make([]styledLine, 0, len(ordered))
	for i, p := range ordered {
		marker := " "
		if i == selected {
			marker = ">"
		}
		b, ok := bindings[p.ID]
		if !ok {
			lines = append(lines, styledLine{
				text:  fmt.Sprintf("%s %-*s · empty", marker, width, p.ID),
				color: colorMissing,
			})
			continue
		}
		lines = append(lines, styledLine{
			text:  fmt.Sprintf("%s %-*s %s %s", marker, width, p.ID, b.Icon, b.DeviceName),
			color: b.Color,
		})
	}
	return lines
}

// drawBoxAt draws a bordered, blank-filled rectangle. Selected boxes use a
// heavier border.
func (c *Canvas) drawBoxAt(boxX, boxY, width, height int, isSelected bool) {
	var corner, horizontal, vertical rune
	if isSelected {
		corner = '#'
		horizontal = '#'
		vertical = '#'
	} else {
		corner = '+'
		horizontal = '-'
		vertical = '|'
	}

	for y := boxY; y < boxY+height; y++ {
		for x := boxX; x < boxX+width; x++ {
			top := y == boxY || y == boxY+height-1
			side := x == boxX || x == boxX+width-1
			switch {
			case top && side:
				c.set(x, y, corner, "")
			case top:
				c.set(x, y, horizontal, "")
			case side:
				c.set(x, y, vertical, "")
			default:
				c.set(x, y, ' ', "")
			}
		}
	}
}

// portAt maps a world point inside the hub to a port index, or -1.
func portAt(hub workspace.Panel, catalog *ports.Catalog, wx, wy float64) int {
	if !hub.Contains(wx, wy) {
		return -1
	}
	row := int(math.Floor(wy-hub.Position.Y)) - hubHeaderRows
	if row < 0 || row >= len(catalog.Ports) {
		return -1
	}
	return row
}
