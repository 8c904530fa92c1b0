package gesture

import (
	"math"
	"math/rand"
	"testing"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
)

func newTestClassifier() *Classifier {
	return NewClassifier(config.DefaultConfig().Classifier)
}

// withThumb moves the thumb tip to wrist + (dx, dy), mirrored for left hands.
func withThumb(h detector.HandLandmarks, dx, dy float64) detector.HandLandmarks {
	if h.Handedness == detector.HandLeft {
		dx = -dx
	}
	w := h.Points[detector.Wrist]
	h.Points[detector.ThumbTip] = detector.Point3D{X: w.X + dx, Y: w.Y + dy}
	return h
}

func TestClassify(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name     string
		hand     detector.HandLandmarks
		want     Label
		wantConf float64
	}{
		{"fist", detector.SyntheticHand(detector.PoseFist, detector.HandRight, 0.5, 0.6), Close, 1.0},
		{"pointing", detector.SyntheticHand(detector.PosePointing, detector.HandRight, 0.5, 0.6), Pointing, 1.0},
		{"scroll", detector.SyntheticHand(detector.PoseScroll, detector.HandRight, 0.5, 0.6), Scroll, 0.9},
		{"call me", detector.SyntheticHand(detector.PoseCallMe, detector.HandRight, 0.5, 0.6), Colaps, 0.9},
		{"open palm", detector.SyntheticHand(detector.PoseOpen, detector.HandRight, 0.5, 0.6), Open, 1.0},
		{"open palm left", detector.SyntheticHand(detector.PoseOpen, detector.HandLeft, 0.3, 0.6), Open, 1.0},
		{"four fingers", withThumb(detector.SyntheticHand(detector.PoseOpen, detector.HandRight, 0.5, 0.6), -0.02, -0.05), Open, 0.8},
		{"thumb only", withThumb(detector.SyntheticHand(detector.PoseFist, detector.HandRight, 0.5, 0.6), -0.13, -0.10), Idle, 0.4},
		{"degenerate", detector.DegenerateHand(), Unknown, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, conf := c.Classify(&tt.hand)
			if got != tt.want {
				t.Errorf("Classify() label = %v, want %v", got, tt.want)
			}
			if math.Abs(conf-tt.wantConf) > 1e-9 {
				t.Errorf("Classify() confidence = %f, want %f", conf, tt.wantConf)
			}
		})
	}
}

func TestClassifyNilHand(t *testing.T) {
	c := newTestClassifier()
	if got, conf := c.Classify(nil); got != Idle || conf != 0 {
		t.Errorf("Classify(nil) = (%v, %f), want (IDLE, 0)", got, conf)
	}
}

func TestClassifyPinch(t *testing.T) {
	c := newTestClassifier()

	hand := detector.SyntheticHand(detector.PosePinch, detector.HandRight, 0.5, 0.6)
	got, conf := c.Classify(&hand)
	if got != Pinch {
		t.Fatalf("Classify() = %v, want PINCH", got)
	}

	d := hand.Points[detector.ThumbTip].Distance(hand.Points[detector.IndexTip])
	want := 1 - d/0.045
	if math.Abs(conf-want) > 1e-9 {
		t.Errorf("confidence = %f, want %f", conf, want)
	}
}

func TestPinchTakesPriority(t *testing.T) {
	c := newTestClassifier()

	bases := []struct {
		name string
		pose detector.Pose
	}{
		{"from fist", detector.PoseFist},
		{"from pointing", detector.PosePointing},
		{"from thumb out", detector.PosePinch},
	}

	for _, b := range bases {
		for _, side := range []string{detector.HandRight, detector.HandLeft} {
			t.Run(b.name+" "+side, func(t *testing.T) {
				hand := detector.SyntheticHand(b.pose, side, 0.5, 0.6)
				tip := hand.Points[detector.IndexTip]
				hand.Points[detector.ThumbTip] = detector.Point3D{X: tip.X + 0.01, Y: tip.Y, Z: tip.Z}

				if got, _ := c.Classify(&hand); got != Pinch {
					t.Errorf("Classify() = %v, want PINCH", got)
				}
			})
		}
	}
}

func TestPinchNeedsOtherFingersCurled(t *testing.T) {
	c := newTestClassifier()

	// Open palm with thumb and index tips touching: the other three are
	// still extended, so this is not a pinch.
	hand := detector.SyntheticHand(detector.PoseOpen, detector.HandRight, 0.5, 0.6)
	tip := hand.Points[detector.IndexTip]
	hand.Points[detector.ThumbTip] = detector.Point3D{X: tip.X - 0.01, Y: tip.Y}

	if got, _ := c.Classify(&hand); got == Pinch {
		t.Error("Classify() = PINCH with middle, ring and pinky extended")
	}
}

func TestZeroExtendedIsClose(t *testing.T) {
	c := newTestClassifier()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		side := detector.HandRight
		if i%2 == 1 {
			side = detector.HandLeft
		}
		hand := detector.SyntheticHand(detector.PoseFist, side, 0.25+rng.Float64()*0.5, 0.4+rng.Float64()*0.4)
		for j := range hand.Points {
			hand.Points[j].X += (rng.Float64() - 0.5) * 0.006
			hand.Points[j].Y += (rng.Float64() - 0.5) * 0.006
		}

		ext, err := c.Extended(&hand)
		if err != nil {
			t.Fatalf("sample %d: Extended() error = %v", i, err)
		}
		if ext != [5]bool{} {
			t.Fatalf("sample %d: fixture has extended fingers %v", i, ext)
		}

		got, conf := c.Classify(&hand)
		if got != Close || conf != 1.0 {
			t.Fatalf("sample %d: Classify() = (%v, %f), want (CLOSE, 1.0)", i, got, conf)
		}
	}
}

func TestExtendedDegenerate(t *testing.T) {
	c := newTestClassifier()

	hand := detector.DegenerateHand()
	if _, err := c.Extended(&hand); err != ErrDegenerateHand {
		t.Errorf("Extended() error = %v, want ErrDegenerateHand", err)
	}

	// Valid scale, but a finger collapsed onto its PIP joint.
	hand = detector.SyntheticHand(detector.PoseOpen, detector.HandRight, 0.5, 0.6)
	hand.Points[detector.RingTip] = hand.Points[detector.RingPIP]
	if _, err := c.Extended(&hand); err != ErrDegenerateHand {
		t.Errorf("Extended() error = %v, want ErrDegenerateHand", err)
	}
	if got, conf := c.Classify(&hand); got != Unknown || conf != 0 {
		t.Errorf("Classify() = (%v, %f), want (UNKNOWN, 0)", got, conf)
	}
}

func TestConfidenceInRange(t *testing.T) {
	c := newTestClassifier()
	poses := []detector.Pose{
		detector.PoseFist, detector.PosePointing, detector.PosePinch,
		detector.PoseScroll, detector.PoseCallMe, detector.PoseOpen,
	}
	for _, p := range poses {
		hand := detector.SyntheticHand(p, detector.HandRight, 0.5, 0.6)
		if _, conf := c.Classify(&hand); conf < 0 || conf > 1 {
			t.Errorf("pose %d: confidence %f out of [0,1]", p, conf)
		}
	}
}

func TestLabelString(t *testing.T) {
	tests := []struct {
		label Label
		want  string
	}{
		{Idle, "IDLE"},
		{Colaps, "COLAPS"},
		{PresentToggle, "PRESENT_TOGGLE"},
		{Label(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.label.String(); got != tt.want {
			t.Errorf("Label(%d).String() = %q, want %q", tt.label, got, tt.want)
		}
	}
}
