// Package viewport owns the canvas camera and folds pointer, wheel, touch and
// keyboard input into a single zoom/pan transform.
//
// The transform maps world coordinates to screen coordinates as
//
//	screen = (world - offset) * zoom + center
//
// where center is the middle of the viewport.
package viewport

import "math"

const (
	DefaultMinZoom   = 0.25
	DefaultMaxZoom   = 3.0
	DefaultZoomSpeed = 0.001

	// ZoomStep is the factor applied by ZoomIn, ZoomOut and the zoom keys.
	ZoomStep = 1.2

	// focalFactor scales the focal-point offset correction applied by ZoomTo.
	focalFactor = 0.5
)

// Point is a 2D coordinate, in screen or world space depending on context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Camera is the zoom level and world offset of the viewport.
type Camera struct {
	Zoom    float64 `json:"zoom"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// DefaultCamera is the camera a fresh session starts with.
func DefaultCamera() Camera {
	return Camera{Zoom: 1}
}

// Limits bound the zoom level and scale wheel input.
type Limits struct {
	MinZoom   float64
	MaxZoom   float64
	ZoomSpeed float64
}

// DefaultLimits returns the stock zoom limits.
func DefaultLimits() Limits {
	return Limits{MinZoom: DefaultMinZoom, MaxZoom: DefaultMaxZoom, ZoomSpeed: DefaultZoomSpeed}
}

// Clamp returns z restricted to [MinZoom, MaxZoom]. NaN clamps to MinZoom.
func (l Limits) Clamp(z float64) float64 {
	if math.IsNaN(z) || z < l.MinZoom {
		return l.MinZoom
	}
	if z > l.MaxZoom {
		return l.MaxZoom
	}
	return z
}

func (l Limits) normalized() Limits {
	d := DefaultLimits()
	if l.MinZoom <= 0 {
		l.MinZoom = d.MinZoom
	}
	if l.MaxZoom < l.MinZoom {
		l.MaxZoom = l.MinZoom
	}
	if l.ZoomSpeed <= 0 {
		l.ZoomSpeed = d.ZoomSpeed
	}
	return l
}

// WorldToScreen projects a world point through the camera onto a viewport
// whose center is at center.
func (c Camera) WorldToScreen(p, center Point) Point {
	return Point{
		X: (p.X-c.OffsetX)*c.Zoom + center.X,
		Y: (p.Y-c.OffsetY)*c.Zoom + center.Y,
	}
}

// ScreenToWorld is the inverse of WorldToScreen.
func (c Camera) ScreenToWorld(p, center Point) Point {
	z := c.Zoom
	if z == 0 {
		z = 1
	}
	return Point{
		X: (p.X-center.X)/z + c.OffsetX,
		Y: (p.Y-center.Y)/z + c.OffsetY,
	}
}

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
