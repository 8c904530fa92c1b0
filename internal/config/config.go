// Package config holds every tunable threshold used by the mudra pipeline.
//
// A Config is built once at startup (DefaultConfig, optionally overlaid with a
// YAML file by Load) and then passed by value to each component. Nothing
// mutates it afterwards.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete process configuration.
type Config struct {
	LogLevel   string           `yaml:"log_level"`
	Camera     CameraConfig     `yaml:"camera"`
	Tracker    TrackerConfig    `yaml:"tracker"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Stabilizer StabilizerConfig `yaml:"stabilizer"`
	Actions    ActionConfig     `yaml:"actions"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Driver     DriverConfig     `yaml:"driver"`
}

// CameraConfig contains frame acquisition settings.
type CameraConfig struct {
	DeviceID        int           `yaml:"device_id"`
	Width           int           `yaml:"width"`
	Height          int           `yaml:"height"`
	ActiveFPS       int           `yaml:"active_fps"`
	IdleFPS         int           `yaml:"idle_fps"`
	Mirror          bool          `yaml:"mirror"`           // flip horizontally so the pointer follows the hand
	AdaptiveFPS     bool          `yaml:"adaptive_fps"`     // drop to IdleFPS when nothing moves
	MotionThreshold float64       `yaml:"motion_threshold"` // % of pixels that must change
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ReadBackoff     time.Duration `yaml:"read_backoff"` // sleep after a failed read
}

// TrackerConfig configures the hand landmark service.
type TrackerConfig struct {
	Script          string        `yaml:"script"` // empty = search default locations
	Python          string        `yaml:"python"` // empty = venv or python3
	MaxHands        int           `yaml:"max_hands"`
	MinConfidence   float64       `yaml:"min_confidence"`
	MinTrackingConf float64       `yaml:"min_tracking_confidence"`
	IdleShutdown    time.Duration `yaml:"idle_shutdown"`
}

// ClassifierConfig contains gesture classification thresholds.
type ClassifierConfig struct {
	PinchThreshold     float64 `yaml:"pinch_threshold"`      // normalized thumb-index distance
	FingerAngle        float64 `yaml:"finger_angle"`         // degrees at the PIP joint
	ThumbAngle         float64 `yaml:"thumb_angle"`          // degrees at the IP joint
	ThumbDistanceRatio float64 `yaml:"thumb_distance_ratio"` // tip vs IP distance to index MCP
	Window             int     `yaml:"window"`               // stable-label ring buffer size
	MajorityShare      float64 `yaml:"majority_share"`       // share required to change label
	DominantHand       string  `yaml:"dominant_hand"`        // "right" or "left"
}

// StabilizerConfig contains the pointer filter chain parameters.
type StabilizerConfig struct {
	FrameReduction      float64 `yaml:"frame_reduction"` // inset of the active rectangle per side
	BufferSize          int     `yaml:"buffer_size"`     // moving-average window
	UseKalman           bool    `yaml:"use_kalman"`
	ProcessVariance     float64 `yaml:"process_variance"`
	MeasurementVariance float64 `yaml:"measurement_variance"`
	SmoothingFactor     float64 `yaml:"smoothing_factor"` // base exponential gain
	AdaptiveSmoothing   bool    `yaml:"adaptive_smoothing"`
	VelocityThreshold   float64 `yaml:"velocity_threshold"` // px/frame
	DeadzonePixels      float64 `yaml:"deadzone_pixels"`
	LimitVelocity       bool    `yaml:"limit_velocity"`
	MaxVelocity         float64 `yaml:"max_velocity"` // px/frame
}

// ActionConfig contains the state machine timing windows and thresholds.
type ActionConfig struct {
	ClickConfidence   float64       `yaml:"click_confidence"`
	UnlockConfidence  float64       `yaml:"unlock_confidence"`
	ClickCooldown     time.Duration `yaml:"click_cooldown"`
	DoubleClickWindow time.Duration `yaml:"double_click_window"`
	SingleClickDelay  time.Duration `yaml:"single_click_delay"`
	ScrollSensitivity float64       `yaml:"scroll_sensitivity"`
	ScrollDeadzone    float64       `yaml:"scroll_deadzone"` // normalized y
	ScrollInterval    time.Duration `yaml:"scroll_interval"`
	FailsafeMargin    int           `yaml:"failsafe_margin"` // px from a screen corner
	FailsafeGrace     time.Duration `yaml:"failsafe_grace"`
	SwipeThreshold    float64       `yaml:"swipe_threshold"` // normalized x
	WindowCloseKey    string        `yaml:"window_close_key"`
	SlideshowStartKey string        `yaml:"slideshow_start_key"`
	SlideshowEndKey   string        `yaml:"slideshow_end_key"`
	NextSlideKey      string        `yaml:"next_slide_key"`
	PrevSlideKey      string        `yaml:"prev_slide_key"`
}

// PipelineConfig contains the stage scheduling parameters.
type PipelineConfig struct {
	QueueCapacity  int           `yaml:"queue_capacity"`
	ReceiveTimeout time.Duration `yaml:"receive_timeout"` // recognition stage
	MoverTimeout   time.Duration `yaml:"mover_timeout"`
	ActionInterval time.Duration `yaml:"action_interval"`
	JoinTimeout    time.Duration `yaml:"join_timeout"`

	CursorPollInterval time.Duration `yaml:"cursor_poll_interval"` // failsafe corner check
}

// DriverConfig selects and configures the input injection backend.
type DriverConfig struct {
	Backend string        `yaml:"backend"` // "robotgo", "exec" or "dry-run"
	Command string        `yaml:"command"` // helper binary for the exec backend
	Timeout time.Duration `yaml:"timeout"` // per-command timeout for the exec backend
}

// DefaultConfig returns the tuned configuration.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Camera: CameraConfig{
			DeviceID:        0,
			Width:           640,
			Height:          480,
			ActiveFPS:       30,
			IdleFPS:         5,
			Mirror:          true,
			AdaptiveFPS:     true,
			MotionThreshold: 1.0,
			IdleTimeout:     2 * time.Second,
			ReadBackoff:     20 * time.Millisecond,
		},
		Tracker: TrackerConfig{
			MaxHands:        2,
			MinConfidence:   0.5,
			MinTrackingConf: 0.5,
			IdleShutdown:    30 * time.Second,
		},
		Classifier: ClassifierConfig{
			PinchThreshold:     0.045,
			FingerAngle:        140,
			ThumbAngle:         120,
			ThumbDistanceRatio: 1.1,
			Window:             7,
			MajorityShare:      0.6,
			DominantHand:       "right",
		},
		Stabilizer: StabilizerConfig{
			FrameReduction:      0.2,
			BufferSize:          5,
			UseKalman:           true,
			ProcessVariance:     0.01,
			MeasurementVariance: 0.1,
			SmoothingFactor:     0.3,
			AdaptiveSmoothing:   true,
			VelocityThreshold:   20,
			DeadzonePixels:      3,
			LimitVelocity:       true,
			MaxVelocity:         80,
		},
		Actions: ActionConfig{
			ClickConfidence:   0.7,
			UnlockConfidence:  0.8,
			ClickCooldown:     300 * time.Millisecond,
			DoubleClickWindow: 600 * time.Millisecond,
			SingleClickDelay:  700 * time.Millisecond,
			ScrollSensitivity: 550,
			ScrollDeadzone:    0.01,
			ScrollInterval:    50 * time.Millisecond,
			FailsafeMargin:    50,
			FailsafeGrace:     500 * time.Millisecond,
			SwipeThreshold:    0.12,
			WindowCloseKey:    "alt+f4",
			SlideshowStartKey: "f5",
			SlideshowEndKey:   "escape",
			NextSlideKey:      "right",
			PrevSlideKey:      "left",
		},
		Pipeline: PipelineConfig{
			QueueCapacity:  2,
			ReceiveTimeout: 50 * time.Millisecond,
			MoverTimeout:   100 * time.Millisecond,
			ActionInterval: 10 * time.Millisecond,
			JoinTimeout:    time.Second,

			CursorPollInterval: 50 * time.Millisecond,
		},
		Driver: DriverConfig{
			Backend: "robotgo",
			Command: "xdotool",
			Timeout: 500 * time.Millisecond,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
