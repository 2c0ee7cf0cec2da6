package detector

import "github.com/ayusman/airsketch/internal/gesture"

// Pose landmark indices following the MediaPipe pose model.
const (
	PoseNose          = 0
	PoseLeftShoulder  = 11
	PoseRightShoulder = 12
	PoseLeftWrist     = 15
	PoseRightWrist    = 16
	PoseLeftIndex     = 19
	PoseRightIndex    = 20
	NumPoseLandmarks  = 33
)

// Hand landmark indices following the MediaPipe hand model.
const (
	HandWrist        = 0
	HandThumbTip     = 4
	HandIndexTip     = 8
	HandMiddleTip    = 12
	NumHandLandmarks = 21
)

// Point3D is a landmark in normalized image coordinates: x and y in
// [0, 1] with y growing downward, z relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Landmarks is one detected subject.
type Landmarks struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness,omitempty"` // "Left" or "Right" for hands
	Score      float64   `json:"score"`
}

// Keypoint returns landmark index of the highest scoring subject.
func Keypoint(subjects []Landmarks, index int) (Point3D, bool) {
	best := -1
	for i, s := range subjects {
		if index < 0 || index >= len(s.Points) {
			continue
		}
		if best < 0 || s.Score > subjects[best].Score {
			best = i
		}
	}
	if best < 0 {
		return Point3D{}, false
	}
	return subjects[best].Points[index], true
}

// Projection maps normalized landmarks to screen coordinates.
type Projection struct {
	Width, Height float64
	// FlipY makes y grow upward.
	FlipY bool
	// Mirror flips x so a selfie camera reads like a mirror.
	Mirror bool
}

// Project maps p to screen space.
func (pr Projection) Project(p Point3D) gesture.Point {
	x, y := p.X, p.Y
	if pr.Mirror {
		x = 1 - x
	}
	if pr.FlipY {
		y = 1 - y
	}
	return gesture.Point{X: x * pr.Width, Y: y * pr.Height}
}
