package viewport

// PointerKind distinguishes pointer phases.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// Button is the mouse button involved in a pointer event.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// Modifiers are the modifier keys held during an event.
type Modifiers struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
}

func (m Modifiers) panModifier() bool {
	return m.Ctrl || m.Alt || m.Meta
}

// PointerEvent is a mouse press, move or release in screen coordinates.
type PointerEvent struct {
	Kind      PointerKind
	Button    Button
	X, Y      float64
	Modifiers Modifiers
}

// WheelEvent is a scroll at a screen position. Positive DeltaY scrolls down.
type WheelEvent struct {
	DeltaY float64
	X, Y   float64
}

// TouchKind distinguishes touch phases.
type TouchKind int

const (
	TouchStart TouchKind = iota
	TouchMove
	TouchEnd
)

// TouchEvent carries every contact still active after the event.
type TouchEvent struct {
	Kind    TouchKind
	Touches []Point
}

// KeyEvent is a key press. InTextInput is set while focus is inside a text
// field, in which case the controller ignores the key.
type KeyEvent struct {
	Key         string
	InTextInput bool
}

// HandleWheel zooms around the pointer. Wheel events are always consumed.
func (c *Controller) HandleWheel(ev WheelEvent) bool {
	target := c.cam.Zoom + (-ev.DeltaY * c.limits.ZoomSpeed)
	c.ZoomTo(target, &Point{X: ev.X, Y: ev.Y})
	return true
}

// HandlePointer pans on middle-button drags and on left-button drags with a
// modifier held. It reports whether the event was consumed; unconsumed events
// are left to the host (e.g. for dragging panels).
func (c *Controller) HandlePointer(ev PointerEvent) bool {
	switch ev.Kind {
	case PointerDown:
		if ev.Button == ButtonMiddle || (ev.Button == ButtonLeft && ev.Modifiers.panModifier()) {
			c.dragging = true
			c.lastPointerX = ev.X
			c.lastPointerY = ev.Y
			return true
		}
		return false
	case PointerMove:
		if !c.dragging {
			return false
		}
		dx := ev.X - c.lastPointerX
		dy := ev.Y - c.lastPointerY
		c.lastPointerX = ev.X
		c.lastPointerY = ev.Y
		if dx != 0 || dy != 0 {
			c.PanBy(dx, dy)
		}
		return true
	case PointerUp:
		if !c.dragging {
			return false
		}
		c.dragging = false
		return true
	}
	return false
}

// Dragging reports whether a pan drag is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// HandleTouch pans with one contact and pinch-zooms with two. Any change in
// the number of contacts restarts tracking without moving the camera.
func (c *Controller) HandleTouch(ev TouchEvent) bool {
	n := len(ev.Touches)
	if n != c.touchCount {
		c.touchCount = n
		c.pinchDist = 0
		switch n {
		case 1:
			c.lastTouch = ev.Touches[0]
		case 2:
			c.pinchDist = distance(ev.Touches[0], ev.Touches[1])
		}
		return true
	}

	switch n {
	case 1:
		p := ev.Touches[0]
		dx, dy := p.X-c.lastTouch.X, p.Y-c.lastTouch.Y
		c.lastTouch = p
		if dx != 0 || dy != 0 {
			c.PanBy(dx, dy)
		}
		return true
	case 2:
		d := distance(ev.Touches[0], ev.Touches[1])
		if c.pinchDist <= 0 {
			c.pinchDist = d
			return true
		}
		mid := midpoint(ev.Touches[0], ev.Touches[1])
		c.ZoomTo(c.cam.Zoom*(d/c.pinchDist), &mid)
		c.pinchDist = d
		return true
	}
	return false
}

// HandleKey applies the zoom shortcuts: "+"/"=" zoom in, "-"/"_" zoom out and
// "0" resets.
func (c *Controller) HandleKey(ev KeyEvent) bool {
	if ev.InTextInput {
		return false
	}
	switch ev.Key {
	case "+", "=":
		c.ZoomIn()
	case "-", "_":
		c.ZoomOut()
	case "0":
		c.Reset()
	default:
		return false
	}
	return true
}
