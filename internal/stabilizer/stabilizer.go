// Package stabilizer turns jittery fingertip coordinates into steady
// screen positions.
//
// Each axis runs through the same chain: map the active rectangle of the
// frame onto the screen, a short moving average and a scalar Kalman filter.
// The filtered point is held while it stays inside a pixel deadzone around
// the last output; otherwise the step is velocity limited and applied with
// velocity-adaptive exponential smoothing. A Stabilizer is owned by a
// single goroutine.
package stabilizer

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/gesture"
)

// Position is a stabilized pointer position in screen pixels.
type Position struct {
	X, Y     float64
	Velocity float64 // px per frame, before limiting
}

// Stabilizer holds the filter state for both axes.
type Stabilizer struct {
	cfg     config.StabilizerConfig
	screenW float64
	screenH float64

	avgX, avgY *movingAverage
	kx, ky     kalman1D

	prev        Position
	initialized bool
}

// New creates a stabilizer targeting a screen of the given size.
func New(cfg config.StabilizerConfig, screenW, screenH int) *Stabilizer {
	return &Stabilizer{
		cfg:     cfg,
		screenW: float64(screenW),
		screenH: float64(screenH),
		avgX:    newMovingAverage(cfg.BufferSize),
		avgY:    newMovingAverage(cfg.BufferSize),
		kx:      kalman1D{process: cfg.ProcessVariance, measurement: cfg.MeasurementVariance},
		ky:      kalman1D{process: cfg.ProcessVariance, measurement: cfg.MeasurementVariance},
	}
}

// MapToScreen maps a frame pixel onto the screen. Only the active rectangle
// (the frame inset by FrameReduction on every side) is used; points outside
// it clamp to the screen edge.
func (s *Stabilizer) MapToScreen(raw gesture.Point, frameW, frameH int) gesture.Point {
	return gesture.Point{
		X: mapAxis(raw.X, float64(frameW), s.cfg.FrameReduction, s.screenW),
		Y: mapAxis(raw.Y, float64(frameH), s.cfg.FrameReduction, s.screenH),
	}
}

func mapAxis(v, frame, reduction, screen float64) float64 {
	lo := frame * reduction
	span := frame - 2*lo
	if span <= 0 {
		return 0
	}
	out := (v - lo) / span * screen
	return math.Max(0, math.Min(screen-1, out))
}

// Update feeds one raw fingertip position and returns the new output.
// The first call after New or Reset starts the filters at that point.
func (s *Stabilizer) Update(raw gesture.Point, frameW, frameH int) Position {
	if !s.initialized {
		return s.Recalibrate(raw, frameW, frameH)
	}
	m := s.MapToScreen(raw, frameW, frameH)

	fx := s.avgX.add(m.X)
	fy := s.avgY.add(m.Y)
	if s.cfg.UseKalman {
		fx = s.kx.update(fx)
		fy = s.ky.update(fy)
	}

	velocity := floats.Distance([]float64{fx, fy}, []float64{s.prev.X, s.prev.Y}, 2)

	// Hold still while the filtered point stays inside the deadzone.
	if math.Abs(fx-s.prev.X) < s.cfg.DeadzonePixels && math.Abs(fy-s.prev.Y) < s.cfg.DeadzonePixels {
		s.prev.Velocity = velocity
		return s.prev
	}

	if s.cfg.LimitVelocity && velocity > s.cfg.MaxVelocity {
		scale := s.cfg.MaxVelocity / velocity
		fx = s.prev.X + (fx-s.prev.X)*scale
		fy = s.prev.Y + (fy-s.prev.Y)*scale
	}

	gain := s.smoothingGain(velocity)
	s.prev = Position{
		X:        s.prev.X + gain*(fx-s.prev.X),
		Y:        s.prev.Y + gain*(fy-s.prev.Y),
		Velocity: velocity,
	}
	return s.prev
}

func (s *Stabilizer) smoothingGain(velocity float64) float64 {
	base := s.cfg.SmoothingFactor
	if s.cfg.AdaptiveSmoothing && velocity < s.cfg.VelocityThreshold {
		return math.Max(0.1, base*0.5)
	}
	return base
}

// Recalibrate discards all history and pins every filter to raw, so the
// next output continues from there without a corrective jump.
func (s *Stabilizer) Recalibrate(raw gesture.Point, frameW, frameH int) Position {
	m := s.MapToScreen(raw, frameW, frameH)

	s.avgX.reset()
	s.avgY.reset()
	s.avgX.add(m.X)
	s.avgY.add(m.Y)
	s.kx.reset(m.X)
	s.ky.reset(m.Y)

	s.prev = Position{X: m.X, Y: m.Y}
	s.initialized = true
	return s.prev
}

// Reset forgets all state; the next Update recalibrates.
func (s *Stabilizer) Reset() {
	s.avgX.reset()
	s.avgY.reset()
	s.initialized = false
}

// Last returns the most recent output and whether there is one.
func (s *Stabilizer) Last() (Position, bool) {
	return s.prev, s.initialized
}
