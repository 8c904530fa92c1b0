package gesture

import (
	"errors"
	"math"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
)

// ErrDegenerateHand is returned when the landmarks have no usable scale,
// such as a wrist coinciding with the middle-finger base.
var ErrDegenerateHand = errors.New("degenerate hand geometry")

// Finger indexes into the Extended result.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
)

// Classifier maps one landmark set to a raw label and confidence.
type Classifier struct {
	pinchThreshold float64
	fingerAngle    float64
	thumbAngle     float64
	thumbRatio     float64
}

// NewClassifier creates a classifier from the configured thresholds.
func NewClassifier(cfg config.ClassifierConfig) *Classifier {
	return &Classifier{
		pinchThreshold: cfg.PinchThreshold,
		fingerAngle:    cfg.FingerAngle,
		thumbAngle:     cfg.ThumbAngle,
		thumbRatio:     cfg.ThumbDistanceRatio,
	}
}

// Classify returns the raw label for hand. Pinch is checked first; the
// remaining labels depend on which fingers are extended. A nil hand is
// Idle with zero confidence and a degenerate one is Unknown.
func (c *Classifier) Classify(hand *detector.HandLandmarks) (Label, float64) {
	if hand == nil {
		return Idle, 0
	}

	ext, err := c.Extended(hand)
	if err != nil {
		return Unknown, 0
	}

	p := hand.Points
	if d := p[detector.ThumbTip].Distance(p[detector.IndexTip]); d < c.pinchThreshold &&
		!ext[Middle] && !ext[Ring] && !ext[Pinky] {
		return Pinch, math.Max(0, 1-d/c.pinchThreshold)
	}

	count := 0
	for _, e := range ext {
		if e {
			count++
		}
	}

	switch {
	case count == 0:
		return Close, 1.0
	case count == 1 && ext[Index]:
		return Pointing, 1.0
	case count == 2 && ext[Index] && ext[Middle]:
		return Scroll, 0.9
	case count == 2 && ext[Thumb] && ext[Pinky]:
		return Colaps, 0.9
	case count >= 4:
		return Open, float64(count) / 5
	default:
		return Idle, 0.4
	}
}

// Extended runs the per-finger extension test. Fingers are extended when
// the tip is farther from the wrist than the PIP joint and the finger is
// nearly straight at the PIP. The thumb instead compares tip and IP
// distances to the index base and checks the angle at the IP joint.
func (c *Classifier) Extended(hand *detector.HandLandmarks) ([5]bool, error) {
	var ext [5]bool
	if hand.Scale() < 1e-6 {
		return ext, ErrDegenerateHand
	}

	p := hand.Points

	thumbAngle, err := jointAngle(p[detector.ThumbMCP], p[detector.ThumbIP], p[detector.ThumbTip])
	if err != nil {
		return ext, err
	}
	indexBase := p[detector.IndexMCP]
	ext[Thumb] = p[detector.ThumbTip].Distance(indexBase) > c.thumbRatio*p[detector.ThumbIP].Distance(indexBase) &&
		thumbAngle > c.thumbAngle

	wrist := p[detector.Wrist]
	for f := Index; f <= Pinky; f++ {
		mcp := detector.IndexMCP + (f-Index)*4
		pip, tip := mcp+1, mcp+3

		angle, err := jointAngle(p[mcp], p[pip], p[tip])
		if err != nil {
			return ext, err
		}
		ext[f] = p[tip].Distance(wrist) > p[pip].Distance(wrist) && angle > c.fingerAngle
	}

	return ext, nil
}

// jointAngle returns the interior angle at b, in degrees, between the
// segments to a and c.
func jointAngle(a, b, c detector.Point3D) (float64, error) {
	u, v := a.Sub(b), c.Sub(b)
	nu, nv := u.Norm(), v.Norm()
	if nu < 1e-9 || nv < 1e-9 {
		return 0, ErrDegenerateHand
	}
	cos := u.Dot(v) / (nu * nv)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, nil
}
