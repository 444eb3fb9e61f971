package pose

import "fmt"

// Landmark indices follow the MediaPipe Pose topology. The scheme is
// exercise-agnostic; only the joints below are consumed.
const (
	idxNose = 0

	idxLeftShoulder = 11
	idxLeftElbow    = 13
	idxLeftWrist    = 15
	idxLeftHip      = 23
	idxLeftKnee     = 25
	idxLeftAnkle    = 27
	idxLeftFoot     = 31

	idxRightShoulder = 12
	idxRightElbow    = 14
	idxRightWrist    = 16
	idxRightHip      = 24
	idxRightKnee     = 26
	idxRightAnkle    = 28
	idxRightFoot     = 32

	// LandmarkCount is the minimum landmark array length accepted.
	LandmarkCount = 33
)

// Side identifies which body side a JointSet was derived from.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Frame is one incoming observation from the external pose-estimation layer:
// a normalised landmark array plus the pixel dimensions needed to convert
// coordinates. A nil or empty Landmarks slice means no person was detected.
type Frame struct {
	// Landmarks holds normalised [0,1] coordinates indexed by the MediaPipe
	// landmark scheme. Nil when detection found nobody.
	Landmarks []Point `json:"landmarks"`

	Width  int `json:"width"`
	Height int `json:"height"`
}

// Detected reports whether the frame carries landmarks for a person.
func (f Frame) Detected() bool { return len(f.Landmarks) > 0 }

// JointSet is the named joint mapping for one body side, in pixel
// coordinates. Recomputed every frame, never persisted.
type JointSet struct {
	Side     Side
	Shoulder Point
	Elbow    Point
	Wrist    Point
	Hip      Point
	Knee     Point
	Ankle    Point
	Foot     Point
}

// sideIndices maps a side to its joint landmark indices, in JointSet field
// order.
var sideIndices = map[Side][7]int{
	SideLeft:  {idxLeftShoulder, idxLeftElbow, idxLeftWrist, idxLeftHip, idxLeftKnee, idxLeftAnkle, idxLeftFoot},
	SideRight: {idxRightShoulder, idxRightElbow, idxRightWrist, idxRightHip, idxRightKnee, idxRightAnkle, idxRightFoot},
}

// ExtractJoints converts the frame's normalised landmarks into pixel-space
// joint sets for both sides plus the nose point.
func ExtractJoints(f Frame) (left, right JointSet, nose Point, err error) {
	if len(f.Landmarks) < LandmarkCount {
		return JointSet{}, JointSet{}, Point{}, fmt.Errorf("pose: expected %d landmarks, got %d", LandmarkCount, len(f.Landmarks))
	}
	px := func(i int) Point {
		lm := f.Landmarks[i]
		return Point{X: lm.X * float64(f.Width), Y: lm.Y * float64(f.Height)}
	}
	build := func(side Side) JointSet {
		ix := sideIndices[side]
		return JointSet{
			Side:     side,
			Shoulder: px(ix[0]),
			Elbow:    px(ix[1]),
			Wrist:    px(ix[2]),
			Hip:      px(ix[3]),
			Knee:     px(ix[4]),
			Ankle:    px(ix[5]),
			Foot:     px(ix[6]),
		}
	}
	return build(SideLeft), build(SideRight), px(idxNose), nil
}

// SideSelector chooses which body side to classify on for a frame.
// Injectable so synthetic test data can bypass the visibility heuristic.
type SideSelector interface {
	Select(left, right JointSet) JointSet
}

// SpanSelector is the default heuristic: the side with the larger vertical
// shoulder-to-foot span is assumed better visible. Ties go left.
type SpanSelector struct{}

func (SpanSelector) Select(left, right JointSet) JointSet {
	spanL := abs(left.Foot.Y - left.Shoulder.Y)
	spanR := abs(right.Foot.Y - right.Shoulder.Y)
	if spanL >= spanR {
		return left
	}
	return right
}

// FixedSelector always returns the configured side.
type FixedSelector struct{ Side Side }

func (s FixedSelector) Select(left, right JointSet) JointSet {
	if s.Side == SideRight {
		return right
	}
	return left
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
