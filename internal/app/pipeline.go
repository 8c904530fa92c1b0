package app

import (
	"context"
	"errors"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/gesture"
)

// runCapture reads frames at the governed rate and offers them to the
// recognition stage. Frames that do not fit are closed by the queue.
func (a *App) runCapture(ctx context.Context) {
	cam := a.cfg.Camera

	var gov *capture.Governor
	if cam.AdaptiveFPS {
		gov = capture.NewGovernor(capture.NewMotionDetector(cam.MotionThreshold),
			cam.IdleFPS, cam.ActiveFPS, cam.IdleTimeout, time.Now())
		defer gov.Close()
	}

	fps := cam.ActiveFPS
	a.camera.SetFPS(fps)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !a.IsEnabled() {
			continue
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			if errors.Is(err, capture.ErrNoFrames) {
				a.logger.Info("camera stream ended")
				return
			}
			a.logger.Debug("frame read failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(cam.ReadBackoff):
			}
			continue
		}

		if gov != nil {
			if next, changed := gov.Observe(frame, time.Now()); changed {
				fps = next
				a.camera.SetFPS(fps)
				ticker.Reset(time.Second / time.Duration(fps))
				a.logger.Info("capture rate changed", "fps", fps, "active", gov.Active())
			}
		}

		a.frames.Offer(frame)
	}
}

// runRecognition turns frames into gesture samples.
func (a *App) runRecognition(ctx context.Context) {
	rec := gesture.NewRecognizer(a.cfg.Classifier)

	for {
		frame, ok := a.frames.Receive(ctx, a.cfg.Pipeline.ReceiveTimeout)
		if !ok {
			if ctx.Err() != nil {
				return
			}
			continue
		}

		w, h := frame.Cols(), frame.Rows()
		hands, err := a.detector.Detect(frame)
		frame.Close()
		if err != nil {
			a.logger.Warn("hand detection failed", "error", err)
			continue
		}

		a.samples.Offer(rec.Recognize(hands, w, h, time.Now()))
	}
}

// runActions is the action stage. It owns the machine.
func (a *App) runActions(ctx context.Context, m *action.Machine) {
	ticker := time.NewTicker(a.cfg.Pipeline.ActionInterval)
	defer ticker.Stop()

	var last Status
	published := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		now := time.Now()
		enabled := a.IsEnabled()

		if !enabled {
			a.apply(m, m.Lock())
			a.samples.Drain()
		} else {
			failsafe := a.corner.Load()
			stepped := false
			for {
				s, ok := a.samples.TryReceive()
				if !ok {
					break
				}
				a.apply(m, m.Step(action.Input{Sample: &s, Failsafe: failsafe, Now: now}))
				stepped = true
			}
			if !stepped {
				a.apply(m, m.Step(action.Input{Failsafe: failsafe, Now: now}))
			}
		}

		st := Status{Enabled: enabled, Mode: m.Mode(), Label: m.LastLabel()}
		if !published || st != last {
			a.status.Offer(st)
			last, published = st, true
		}
	}
}

// target is a pointer move tagged with the mode generation it was issued in.
type target struct {
	cmd action.Command
	gen uint64
}

// apply updates the mode gate and executes cmds. Discrete commands run
// here; pointer targets go to the mover.
func (a *App) apply(m *action.Machine, cmds []action.Command) {
	a.setMode(m.Mode())

	for _, c := range cmds {
		if c.Continuous() {
			a.motion.Offer(target{cmd: c, gen: a.gen})
			continue
		}
		a.dispatcher.Execute(c)
	}
}

// setMode publishes mode to the mover. A change waits for an in-flight
// move, then invalidates every target issued before it.
func (a *App) setMode(mode action.Mode) {
	if a.Mode() == mode {
		return
	}

	a.moveMu.Lock()
	defer a.moveMu.Unlock()

	prev := action.Mode(a.mode.Swap(int32(mode)))
	a.gen++
	a.motion.Drain()
	a.logger.Info("mode changed", "from", prev, "to", mode)
}

// moveTo executes t unless the mode changed since it was issued or the
// current mode keeps the mover still.
func (a *App) moveTo(t target) bool {
	a.moveMu.Lock()
	defer a.moveMu.Unlock()

	if t.gen != a.gen || !a.Mode().MoverEnabled() {
		return false
	}
	a.dispatcher.Execute(t.cmd)
	return true
}

// runCursorWatch polls the cursor for the failsafe corner at its own rate
// so a slow driver query never holds up the action stage.
func (a *App) runCursorWatch(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.Pipeline.CursorPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !a.IsEnabled() {
			a.corner.Store(false)
			continue
		}
		a.corner.Store(a.inCorner())
	}
}

func (a *App) inCorner() bool {
	x, y, err := a.dispatcher.Driver().CursorPosition()
	if err != nil {
		a.logger.Debug("cursor position unavailable", "error", err)
		return false
	}
	return action.InCorner(x, y, a.screenW, a.screenH, a.cfg.Actions.FailsafeMargin)
}

// runMover applies pointer targets while the gate allows motion.
func (a *App) runMover(ctx context.Context) {
	for {
		t, ok := a.motion.Receive(ctx, a.cfg.Pipeline.MoverTimeout)
		if !ok {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		a.moveTo(t)
	}
}
