package viewport

import "time"

// Frame identifies the animation run a scheduled tick belongs to. Hosts pass
// it back to Tick on every display refresh.
type Frame struct {
	Generation uint64
}

type animation struct {
	start      Camera
	target     Camera
	startTime  time.Time
	duration   time.Duration
	generation uint64
}

// PanToAnimated starts an eased pan that centers the world point (x, y).
// The returned frame must be handed to Tick until Tick reports false.
// Starting another animation or mutating the camera directly supersedes it.
func (c *Controller) PanToAnimated(x, y float64, duration time.Duration) Frame {
	c.supersede()
	target := c.cam
	target.OffsetX = x
	target.OffsetY = y
	c.anim = &animation{
		start:      c.cam,
		target:     target,
		startTime:  c.now(),
		duration:   duration,
		generation: c.generation,
	}
	return Frame{Generation: c.generation}
}

// Animating reports whether a pan animation is in flight.
func (c *Controller) Animating() bool {
	return c.anim != nil
}

// Tick advances the animation for frame to time now. It reports whether the
// host should schedule another tick. Ticks from superseded runs are ignored.
func (c *Controller) Tick(frame Frame, now time.Time) bool {
	a := c.anim
	if a == nil || frame.Generation != a.generation {
		return false
	}

	t := 1.0
	if a.duration > 0 {
		t = float64(now.Sub(a.startTime)) / float64(a.duration)
	}
	if t < 0 {
		t = 0
	}
	if t >= 1 {
		c.cam.OffsetX = a.target.OffsetX
		c.cam.OffsetY = a.target.OffsetY
		c.anim = nil
		return false
	}

	e := easeOutCubic(t)
	c.cam.OffsetX = a.start.OffsetX + (a.target.OffsetX-a.start.OffsetX)*e
	c.cam.OffsetY = a.start.OffsetY + (a.target.OffsetY-a.start.OffsetY)*e
	return true
}

func easeOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}
