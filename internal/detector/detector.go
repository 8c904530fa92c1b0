package detector

import (
	"time"

	"gocv.io/x/gocv"
)

// Detector defines the interface for hand tracking implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand tracking.
type Config struct {
	Script          string // tracker script; empty searches default locations
	Python          string // interpreter; empty prefers a venv, then python3
	MaxHands        int
	MinConfidence   float64
	MinTrackingConf float64
	IdleShutdown    time.Duration // stop the subprocess after this long unused
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		IdleShutdown:    30 * time.Second,
	}
}
