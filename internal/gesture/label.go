// Package gesture classifies hand landmark sets into a fixed vocabulary of
// poses and smooths the per-frame labels into a stable stream.
package gesture

import (
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// Label is a discrete hand pose.
type Label int

const (
	Idle Label = iota
	Pointing
	Open
	Close
	Pinch
	Scroll
	Colaps // thumb and pinky out, closes the focused window
	PresentToggle
	Unknown
)

var labelNames = [...]string{
	Idle:          "IDLE",
	Pointing:      "POINTING",
	Open:          "OPEN",
	Close:         "CLOSE",
	Pinch:         "PINCH",
	Scroll:        "SCROLL",
	Colaps:        "COLAPS",
	PresentToggle: "PRESENT_TOGGLE",
	Unknown:       "UNKNOWN",
}

func (l Label) String() string {
	if l < 0 || int(l) >= len(labelNames) {
		return "UNKNOWN"
	}
	return labelNames[l]
}

// Hand identifies which hand produced a sample.
type Hand int

const (
	HandNone Hand = iota
	HandLeft
	HandRight
)

func (h Hand) String() string {
	switch h {
	case HandLeft:
		return "LEFT"
	case HandRight:
		return "RIGHT"
	default:
		return "NONE"
	}
}

// ParseHand converts a tracker handedness label.
func ParseHand(s string) Hand {
	switch s {
	case detector.HandLeft:
		return HandLeft
	case detector.HandRight:
		return HandRight
	default:
		return HandNone
	}
}

// Point is a 2-D position.
type Point struct {
	X, Y float64
}

// Sample is the recognition result for one processed frame.
type Sample struct {
	Label      Label
	Confidence float64 // raw, unsmoothed confidence of this frame
	Hand       Hand

	// RawPoint is the index fingertip in frame pixels. It is nil when no
	// dominant hand was seen.
	RawPoint *Point

	// Anchor is the index fingertip in normalized frame coordinates,
	// the reference for scroll and swipe displacement.
	Anchor Point

	FrameWidth  int
	FrameHeight int
	Seq         uint64
	At          time.Time
}

// HasPoint reports whether the sample can drive the pointer.
func (s *Sample) HasPoint() bool {
	return s != nil && s.RawPoint != nil
}
