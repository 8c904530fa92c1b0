package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for values the pipeline cannot run with.
func Validate(cfg *Config) error {
	if cfg.Camera.ActiveFPS <= 0 {
		return fmt.Errorf("camera.active_fps must be > 0")
	}
	if cfg.Camera.IdleFPS <= 0 {
		cfg.Camera.IdleFPS = cfg.Camera.ActiveFPS
	}

	c := cfg.Classifier
	if c.PinchThreshold <= 0 {
		return fmt.Errorf("classifier.pinch_threshold must be > 0")
	}
	if c.Window <= 0 {
		return fmt.Errorf("classifier.window must be > 0")
	}
	if c.MajorityShare <= 0 || c.MajorityShare >= 1 {
		return fmt.Errorf("classifier.majority_share must be in (0, 1), got %v", c.MajorityShare)
	}
	switch strings.ToLower(c.DominantHand) {
	case "left", "right":
	default:
		return fmt.Errorf("classifier.dominant_hand must be 'left' or 'right', got %q", c.DominantHand)
	}

	s := cfg.Stabilizer
	if s.FrameReduction < 0 || s.FrameReduction >= 0.5 {
		return fmt.Errorf("stabilizer.frame_reduction must be in [0, 0.5), got %v", s.FrameReduction)
	}
	if s.BufferSize <= 0 {
		return fmt.Errorf("stabilizer.buffer_size must be > 0")
	}
	if s.SmoothingFactor <= 0 || s.SmoothingFactor > 1 {
		return fmt.Errorf("stabilizer.smoothing_factor must be in (0, 1], got %v", s.SmoothingFactor)
	}
	if s.UseKalman && (s.ProcessVariance < 0 || s.MeasurementVariance <= 0) {
		return fmt.Errorf("stabilizer kalman variances must be positive")
	}
	if s.LimitVelocity && s.MaxVelocity <= 0 {
		return fmt.Errorf("stabilizer.max_velocity must be > 0 when limit_velocity is set")
	}

	a := cfg.Actions
	if a.DoubleClickWindow > a.SingleClickDelay {
		return fmt.Errorf("actions.double_click_window (%v) must not exceed single_click_delay (%v)",
			a.DoubleClickWindow, a.SingleClickDelay)
	}
	if a.ScrollSensitivity <= 0 {
		return fmt.Errorf("actions.scroll_sensitivity must be > 0")
	}

	p := cfg.Pipeline
	if p.QueueCapacity <= 0 {
		p.QueueCapacity = 2
	}
	if p.ReceiveTimeout <= 0 || p.MoverTimeout <= 0 || p.ActionInterval <= 0 {
		return fmt.Errorf("pipeline timeouts must be > 0")
	}
	if p.CursorPollInterval <= 0 || p.CursorPollInterval >= cfg.Actions.FailsafeGrace {
		return fmt.Errorf("pipeline.cursor_poll_interval must be > 0 and below actions.failsafe_grace")
	}
	cfg.Pipeline = p

	switch cfg.Driver.Backend {
	case "robotgo", "exec", "dry-run":
	default:
		return fmt.Errorf("driver.backend must be 'robotgo', 'exec' or 'dry-run', got %q", cfg.Driver.Backend)
	}
	if cfg.Driver.Backend == "exec" && cfg.Driver.Command == "" {
		return fmt.Errorf("driver.command is required for the exec backend")
	}

	return nil
}
