package viewport

import (
	"log/slog"
	"time"

	"hubdeck/internal/logging"
)

// Controller is the single authority over the camera. It is not safe for
// concurrent use; the host feeds it events from one goroutine.
type Controller struct {
	limits Limits
	cam    Camera
	width  float64
	height float64
	now    func() time.Time
	log    *slog.Logger

	generation uint64
	anim       *animation

	dragging     bool
	lastPointerX float64
	lastPointerY float64

	touchCount int
	lastTouch  Point
	pinchDist  float64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLimits overrides the zoom limits.
func WithLimits(l Limits) Option {
	return func(c *Controller) {
		c.limits = l.normalized()
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.log = logging.OrNop(l)
	}
}

// NewController creates a controller with the default camera.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		limits: DefaultLimits(),
		cam:    DefaultCamera(),
		now:    time.Now,
		log:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Camera returns the current camera state.
func (c *Controller) Camera() Camera {
	return c.cam
}

// Limits returns the zoom limits in effect.
func (c *Controller) Limits() Limits {
	return c.limits
}

// Center returns the screen-space center of the viewport.
func (c *Controller) Center() Point {
	return Point{X: c.width / 2, Y: c.height / 2}
}

// Resize records the viewport dimensions used for centering.
func (c *Controller) Resize(width, height float64) {
	c.width = width
	c.height = height
}

// SetCamera replaces the camera wholesale, e.g. when a snapshot is restored.
// Zoom is clamped.
func (c *Controller) SetCamera(cam Camera) {
	c.supersede()
	cam.Zoom = c.limits.Clamp(cam.Zoom)
	c.cam = cam
}

// ZoomTo sets the zoom level, clamped to the limits. With a focal point the
// offset shifts toward it so the zoom appears centered there. The shift is
// proportional to the focal distance from the viewport center and to the zoom
// delta; it does not keep the focal point exactly fixed.
func (c *Controller) ZoomTo(target float64, focal *Point) {
	c.supersede()
	old := c.cam.Zoom
	next := c.limits.Clamp(target)
	if focal != nil {
		center := c.Center()
		delta := next - old
		c.cam.OffsetX += (focal.X - center.X) * delta * focalFactor
		c.cam.OffsetY += (focal.Y - center.Y) * delta * focalFactor
	}
	c.cam.Zoom = next
}

// ZoomIn multiplies the zoom by ZoomStep.
func (c *Controller) ZoomIn() {
	c.ZoomTo(c.cam.Zoom*ZoomStep, nil)
}

// ZoomOut divides the zoom by ZoomStep.
func (c *Controller) ZoomOut() {
	c.ZoomTo(c.cam.Zoom/ZoomStep, nil)
}

// PanBy moves the camera by a screen-space delta.
func (c *Controller) PanBy(dx, dy float64) {
	c.supersede()
	c.cam.OffsetX -= dx
	c.cam.OffsetY -= dy
}

// Reset restores zoom 1 at the origin.
func (c *Controller) Reset() {
	c.supersede()
	c.cam = DefaultCamera()
}

// supersede invalidates any in-flight animation so its pending ticks are
// discarded.
func (c *Controller) supersede() {
	c.generation++
	if c.anim != nil {
		c.log.Debug("animation superseded", "generation", c.anim.generation)
		c.anim = nil
	}
}
