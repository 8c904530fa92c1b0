package detector

// Pose names a synthetic hand shape used by tests and the mock pipeline.
type Pose int

const (
	PoseFist     Pose = iota // all fingers curled
	PosePointing             // index only
	PosePinch                // thumb and index tips touching, others curled
	PoseScroll               // index and middle
	PoseCallMe               // thumb and pinky
	PoseOpen                 // all five
)

var poseFingers = map[Pose][5]bool{
	PoseFist:     {false, false, false, false, false},
	PosePointing: {false, true, false, false, false},
	PosePinch:    {true, false, false, false, false},
	PoseScroll:   {false, true, true, false, false},
	PoseCallMe:   {true, false, false, false, true},
	PoseOpen:     {true, true, true, true, true},
}

// offsets from the wrist for a right hand, image y pointing down
var mcpOffset = [4]Point3D{
	{X: -0.04, Y: -0.12},
	{X: 0.00, Y: -0.13},
	{X: 0.04, Y: -0.12},
	{X: 0.075, Y: -0.10},
}

// SyntheticHand builds a 21-point hand with its wrist at (x, y).
// Left hands are mirrored around the wrist.
func SyntheticHand(pose Pose, handedness string, x, y float64) HandLandmarks {
	fingers := poseFingers[pose]
	h := HandLandmarks{Handedness: handedness, Score: 0.95}

	set := func(i int, p Point3D) { h.Points[i] = p }

	set(ThumbCMC, Point3D{X: -0.04, Y: -0.03})
	set(ThumbMCP, Point3D{X: -0.07, Y: -0.06})
	set(ThumbIP, Point3D{X: -0.10, Y: -0.08})
	if fingers[0] {
		set(ThumbTip, Point3D{X: -0.13, Y: -0.10})
	} else {
		set(ThumbTip, Point3D{X: -0.02, Y: -0.05})
	}

	for f := 0; f < 4; f++ {
		base := IndexMCP + f*4
		m := mcpOffset[f]
		set(base, m)
		if fingers[f+1] {
			set(base+1, Point3D{X: m.X, Y: m.Y - 0.05})
			set(base+2, Point3D{X: m.X, Y: m.Y - 0.085})
			set(base+3, Point3D{X: m.X, Y: m.Y - 0.11})
		} else {
			set(base+1, Point3D{X: m.X, Y: m.Y - 0.04})
			set(base+2, Point3D{X: m.X, Y: m.Y - 0.01, Z: -0.03})
			set(base+3, Point3D{X: m.X, Y: m.Y + 0.01, Z: -0.01})
		}
	}

	if pose == PosePinch {
		// index hooks over so its tip meets the thumb tip
		set(IndexPIP, Point3D{X: -0.07, Y: -0.16})
		set(IndexDIP, Point3D{X: -0.11, Y: -0.14})
		set(IndexTip, Point3D{X: -0.125, Y: -0.105})
	}

	sign := 1.0
	if handedness == HandLeft {
		sign = -1
	}
	for i := range h.Points {
		h.Points[i].X = x + sign*h.Points[i].X
		h.Points[i].Y = y + h.Points[i].Y
	}
	return h
}

// DegenerateHand returns a hand whose landmarks all coincide.
func DegenerateHand() HandLandmarks {
	h := HandLandmarks{Handedness: HandRight, Score: 0.5}
	for i := range h.Points {
		h.Points[i] = Point3D{X: 0.5, Y: 0.5}
	}
	return h
}
