package workspace

const (
	// Arrange places the hub's top-left corner here.
	HubOriginX = 12
	HubOriginY = 4

	columnGap = 10
	rowGap    = 1
	// maxColumnHeight wraps consumers into a further column once a column
	// grows past this many rows.
	maxColumnHeight = 40
)

// Arrange lays the panels out as a tree rooted at the hub: the hub on the
// left and the consumers stacked in columns to its right, each column
// vertically centered on the hub. Without a hub the consumers are stacked
// from HubOrigin.
func (w *Workspace) Arrange() {
	x := float64(HubOriginX)
	centerY := float64(HubOriginY)

	if hub := w.hubPtr(); hub != nil {
		hub.Position = Position{X: HubOriginX, Y: HubOriginY}
		x = hub.Position.X + float64(hub.Width) + columnGap
		centerY = hub.Position.Y + float64(hub.Height)/2
	}

	var column []*Panel
	for i := range w.Panels {
		p := &w.Panels[i]
		if p.IsHub() {
			continue
		}
		if len(column) > 0 && columnHeight(column)+rowGap+p.Height > maxColumnHeight {
			x = layoutColumn(column, x, centerY)
			column = column[:0]
		}
		column = append(column, p)
	}
	if len(column) > 0 {
		layoutColumn(column, x, centerY)
	}
}

func (w *Workspace) hubPtr() *Panel {
	for i := range w.Panels {
		if w.Panels[i].IsHub() {
			return &w.Panels[i]
		}
	}
	return nil
}

func columnHeight(column []*Panel) int {
	total := 0
	for i, p := range column {
		total += p.Height
		if i < len(column)-1 {
			total += rowGap
		}
	}
	return total
}

// layoutColumn stacks column at x centered on centerY and returns the x of
// the next column.
func layoutColumn(column []*Panel, x, centerY float64) float64 {
	y := centerY - float64(columnHeight(column))/2
	if y < 0 {
		y = 0
	}
	width := 0
	for _, p := range column {
		p.Position = Position{X: x, Y: y}
		y += float64(p.Height + rowGap)
		width = max(width, p.Width)
	}
	return x + float64(width) + columnGap
}
