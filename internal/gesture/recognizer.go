package gesture

import (
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
)

// Recognizer turns tracker output for one frame into a Sample. It is not
// safe for concurrent use; the recognition stage owns it.
type Recognizer struct {
	classifier *Classifier
	smoother   *Smoother
	dominant   string
	seq        uint64
}

// NewRecognizer creates a recognizer for the configured dominant hand.
func NewRecognizer(cfg config.ClassifierConfig) *Recognizer {
	dominant := detector.HandRight
	if strings.EqualFold(cfg.DominantHand, "left") {
		dominant = detector.HandLeft
	}
	return &Recognizer{
		classifier: NewClassifier(cfg),
		smoother:   NewSmoother(cfg.Window, cfg.MajorityShare),
		dominant:   dominant,
	}
}

// Recognize classifies the hands seen in one frame.
//
// The dominant hand drives the pointer. The off-hand only signals: an open
// off-hand becomes PresentToggle, anything else it shows is Idle. Neither
// off-hand case carries a pointer position.
func (r *Recognizer) Recognize(hands []detector.HandLandmarks, frameW, frameH int, at time.Time) Sample {
	r.seq++
	s := Sample{
		FrameWidth:  frameW,
		FrameHeight: frameH,
		Seq:         r.seq,
		At:          at,
	}

	primary, off := detector.SplitHands(hands, r.dominant)

	raw := Idle
	switch {
	case off != nil && r.offHandOpen(off, &s):
		raw = PresentToggle

	case primary != nil:
		raw, s.Confidence = r.classifier.Classify(primary)
		s.Hand = ParseHand(primary.Handedness)
		if s.Hand == HandNone {
			s.Hand = ParseHand(r.dominant)
		}

		tip := primary.Points[detector.IndexTip]
		s.Anchor = Point{X: tip.X, Y: tip.Y}
		if raw != Unknown {
			s.RawPoint = &Point{X: tip.X * float64(frameW), Y: tip.Y * float64(frameH)}
		}

	case off != nil:
		s.Confidence = 0.4
		s.Hand = ParseHand(off.Handedness)

	default:
		s.Hand = HandNone
	}

	s.Label = r.smoother.Push(raw)
	return s
}

func (r *Recognizer) offHandOpen(off *detector.HandLandmarks, s *Sample) bool {
	label, conf := r.classifier.Classify(off)
	if label != Open {
		return false
	}
	s.Confidence = conf
	s.Hand = ParseHand(off.Handedness)
	return true
}

// Reset clears the smoothing window.
func (r *Recognizer) Reset() {
	r.smoother.Reset()
}
