// Package detector turns camera frames into hand landmark sets.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Handedness labels as reported by the tracker.
const (
	HandLeft  = "Left"
	HandRight = "Right"
)

// Point3D is a landmark position. X and Y are normalized to the frame
// (0..1, origin top-left); Z is relative depth at roughly the same scale.
type Point3D struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
	Z float64 `msgpack:"z"`
}

// Sub returns p - q.
func (p Point3D) Sub(q Point3D) Point3D {
	return Point3D{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Dot returns the dot product of p and q.
func (p Point3D) Dot(q Point3D) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

// Norm returns the Euclidean length of p.
func (p Point3D) Norm() float64 {
	return math.Sqrt(p.Dot(p))
}

// Distance returns the Euclidean distance between p and q.
func (p Point3D) Distance(q Point3D) float64 {
	return p.Sub(q).Norm()
}

// HandLandmarks is one tracked hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D
	Handedness string // HandLeft or HandRight
	Score      float64
}

// Scale returns the wrist to middle-MCP distance, the reference hand size.
func (h *HandLandmarks) Scale() float64 {
	return h.Points[Wrist].Distance(h.Points[MiddleMCP])
}

// Translate returns a copy shifted by dx, dy in normalized frame units.
func (h HandLandmarks) Translate(dx, dy float64) HandLandmarks {
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}

// SplitHands picks the first hand matching dominant (HandLeft or HandRight)
// as primary and the first hand of the opposite side as off. Hands with
// no handedness label count as dominant. Either result may be nil.
func SplitHands(hands []HandLandmarks, dominant string) (primary, off *HandLandmarks) {
	for i := range hands {
		h := &hands[i]
		if h.Handedness == dominant || h.Handedness == "" {
			if primary == nil {
				primary = h
			}
			continue
		}
		if off == nil {
			off = h
		}
	}
	return primary, off
}
