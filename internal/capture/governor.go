package capture

import (
	"time"

	"gocv.io/x/gocv"
)

// Governor picks the capture rate: the active rate while the scene is
// moving, dropping to the idle rate after IdleTimeout without motion.
type Governor struct {
	motion      *MotionDetector
	idleFPS     int
	activeFPS   int
	idleTimeout time.Duration

	active     bool
	lastMotion time.Time
}

// NewGovernor creates a governor that starts in the active state so the
// first hand is never missed.
func NewGovernor(motion *MotionDetector, idleFPS, activeFPS int, idleTimeout time.Duration, now time.Time) *Governor {
	return &Governor{
		motion:      motion,
		idleFPS:     idleFPS,
		activeFPS:   activeFPS,
		idleTimeout: idleTimeout,
		active:      true,
		lastMotion:  now,
	}
}

// Observe feeds one frame and returns the desired FPS and whether it
// changed since the previous call.
func (g *Governor) Observe(frame *gocv.Mat, now time.Time) (fps int, changed bool) {
	moving, _ := g.motion.Detect(frame)
	return g.update(moving, now)
}

func (g *Governor) update(moving bool, now time.Time) (int, bool) {
	was := g.active
	if moving {
		g.lastMotion = now
		g.active = true
	} else if g.active && now.Sub(g.lastMotion) > g.idleTimeout {
		g.active = false
	}
	return g.FPS(), was != g.active
}

// Active reports whether the governor is at the active rate.
func (g *Governor) Active() bool { return g.active }

// FPS returns the current target rate.
func (g *Governor) FPS() int {
	if g.active {
		return g.activeFPS
	}
	return g.idleFPS
}

// Close releases the motion detector.
func (g *Governor) Close() {
	g.motion.Close()
}
