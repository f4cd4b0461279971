package main

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"hubdeck/internal/workspace"
)

// Pixels per character cell in PNG output.
const (
	charWidth  = 8.0
	charHeight = 16.0
)

// exportTXT writes the viewport exactly as it appears, without styling or
// the port selection marker.
func exportTXT(filename string, sc scene, width, height int) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if width < 1 {
		width = 80
	}
	if height < 1 {
		height = 24
	}
	sc.selectedPort = -1
	sc.dragPanel = ""
	for _, line := range sc.Render(width, height).Lines() {
		if _, err := fmt.Fprintln(file, line); err != nil {
			return err
		}
	}
	return nil
}

// exportPNG draws the whole graph in world coordinates, independent of the
// camera.
func exportPNG(filename string, sc scene) error {
	if len(sc.panels) == 0 {
		return fmt.Errorf("nothing to export")
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range sc.panels {
		minX = min(minX, p.Position.X)
		minY = min(minY, p.Position.Y)
		maxX = max(maxX, p.Position.X+float64(p.Width))
		maxY = max(maxY, p.Position.Y+float64(p.Height))
	}

	padding := 2.0
	minX -= padding
	minY -= padding
	maxX += padding
	maxY += padding

	imageWidth := int((maxX - minX) * charWidth)
	imageHeight := int((maxY - minY) * charHeight)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttfFont, &truetype.Options{
		Size:    12,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	toPixel := func(x, y float64) (float64, float64) {
		return (x - minX) * charWidth, (y - minY) * charHeight
	}

	// Cables behind panels.
	if hub, ok := workspace.Hub(sc.panels); ok {
		for _, e := range sc.edges {
			target := -1
			for i, p := range sc.panels {
				if p.ID == e.TargetPanelID {
					target = i
					break
				}
			}
			if target < 0 {
				continue
			}
			fx, fy, tx, ty, ok := cableEnds(e, hub, sc.panels[target], sc.catalog, sc.bindings)
			if !ok {
				continue
			}
			x1, y1 := toPixel(fx, fy+0.5)
			x2, y2 := toPixel(tx+1, ty+0.5)
			drawCablePNG(dc, x1, y1, x2, y2, sc.bindings[e.SourcePortID].Color)
		}
	}

	for _, p := range sc.panels {
		x, y := toPixel(p.Position.X, p.Position.Y)
		dc.SetLineWidth(1.0)
		dc.SetColor(color.Black)
		dc.DrawRectangle(x, y, float64(p.Width)*charWidth, float64(p.Height)*charHeight)
		dc.Stroke()

		for i, line := range sc.panelLines(p) {
			setHexOr(dc, line.color, "#000000")
			dc.DrawString(line.text, x+charWidth, y+float64(i+2)*charHeight-4)
		}
	}

	return dc.SavePNG(filename)
}

func drawCablePNG(dc *gg.Context, x1, y1, x2, y2 float64, hex string) {
	midX := (x1 + x2) / 2
	setHexOr(dc, hex, "#000000")
	dc.SetLineWidth(2.0)
	dc.MoveTo(x1, y1)
	dc.LineTo(midX, y1)
	dc.LineTo(midX, y2)
	dc.LineTo(x2, y2)
	dc.Stroke()

	arrowSize := 6.0
	dir := 1.0
	if x2 < midX {
		dir = -1
	}
	dc.MoveTo(x2, y2)
	dc.LineTo(x2-dir*arrowSize, y2-arrowSize/2)
	dc.LineTo(x2-dir*arrowSize, y2+arrowSize/2)
	dc.ClosePath()
	dc.Fill()
}

// setHexOr sets a "#rrggbb" colour, falling back when hex is empty.
func setHexOr(dc *gg.Context, hex, fallback string) {
	if hex == "" {
		hex = fallback
	}
	dc.SetHexColor(hex)
}
