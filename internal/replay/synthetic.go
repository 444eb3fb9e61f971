// Package replay generates deterministic landmark sequences and runs them
// through a frame processor, for tests, demos and the repsim tool.
package replay

import (
	"math"

	"github.com/formsense/repcoach/internal/exercise"
	"github.com/formsense/repcoach/internal/pose"
)

// Generator synthesises landmark frames whose driving angle is exactly the
// requested value, with straight knees, an upright torso and an aligned
// camera, so tests exercise one variable at a time. Both body sides are
// emitted identically.
type Generator struct {
	Exercise exercise.Exercise
	Width    int
	Height   int
}

// NewGenerator returns a generator at the default 640x480 frame size.
func NewGenerator(ex exercise.Exercise) Generator {
	return Generator{Exercise: ex, Width: 640, Height: 480}
}

// Empty returns a frame with no detected person.
func (g Generator) Empty() pose.Frame {
	return pose.Frame{Width: g.Width, Height: g.Height}
}

// Frame returns a detected frame realising the given driving angle.
func (g Generator) Frame(angle float64) pose.Frame {
	var body bodyPose
	switch g.Exercise {
	case exercise.Squat:
		body = squatPose(angle)
	default:
		body = legRaisePose(angle)
	}
	return g.compose(body)
}

// Misaligned returns a frontal-view frame that fails the alignment guard:
// the nose sits between widely separated shoulders.
func (g Generator) Misaligned() pose.Frame {
	body := legRaisePose(0)
	body.nose = pose.Point{X: 320, Y: 140}
	lm := g.landmarks(body)
	set := func(i int, p pose.Point) {
		lm[i] = pose.Point{X: p.X / float64(g.Width), Y: p.Y / float64(g.Height)}
	}
	set(11, pose.Point{X: 250, Y: 150}) // left shoulder
	set(12, pose.Point{X: 390, Y: 150}) // right shoulder
	return pose.Frame{Landmarks: lm, Width: g.Width, Height: g.Height}
}

// bodyPose is a side-view stick figure in pixel coordinates.
type bodyPose struct {
	nose     pose.Point
	shoulder pose.Point
	elbow    pose.Point
	wrist    pose.Point
	hip      pose.Point
	knee     pose.Point
	ankle    pose.Point
	foot     pose.Point
}

// legRaisePose builds a body whose hip-flexion driving angle equals angle:
// vertical torso, straight raised leg rotated about the hip.
func legRaisePose(angle float64) bodyPose {
	hip := pose.Point{X: 320, Y: 300}
	shoulder := pose.Point{X: 320, Y: 140}

	dir := (90 - angle) * math.Pi / 180
	leg := pose.Point{X: 140 * math.Cos(dir), Y: 140 * math.Sin(dir)}
	knee := pose.Point{X: hip.X + leg.X, Y: hip.Y + leg.Y}
	ankle := pose.Point{X: knee.X + 0.8*leg.X, Y: knee.Y + 0.8*leg.Y}
	foot := pose.Point{X: ankle.X + 0.25*leg.X, Y: ankle.Y + 0.25*leg.Y}

	return bodyPose{
		nose:     pose.Point{X: shoulder.X + 4, Y: shoulder.Y - 30},
		shoulder: shoulder,
		elbow:    pose.Point{X: shoulder.X + 10, Y: shoulder.Y + 60},
		wrist:    pose.Point{X: shoulder.X + 15, Y: shoulder.Y + 120},
		hip:      hip,
		knee:     knee,
		ankle:    ankle,
		foot:     foot,
	}
}

// squatPose builds a body whose knee-vertical driving angle equals angle:
// the thigh rotates about the knee while the torso stays upright.
func squatPose(angle float64) bodyPose {
	knee := pose.Point{X: 320, Y: 320}

	dir := (angle - 90) * math.Pi / 180
	hip := pose.Point{X: knee.X + 150*math.Cos(dir), Y: knee.Y + 150*math.Sin(dir)}
	shoulder := pose.Point{X: hip.X, Y: hip.Y - 150}
	ankle := pose.Point{X: knee.X, Y: knee.Y + 120}
	foot := pose.Point{X: ankle.X + 40, Y: ankle.Y + 10}

	return bodyPose{
		nose:     pose.Point{X: shoulder.X + 4, Y: shoulder.Y - 30},
		shoulder: shoulder,
		elbow:    pose.Point{X: shoulder.X + 10, Y: shoulder.Y + 60},
		wrist:    pose.Point{X: shoulder.X + 15, Y: shoulder.Y + 120},
		hip:      hip,
		knee:     knee,
		ankle:    ankle,
		foot:     foot,
	}
}

// landmarks lays the body out on the full MediaPipe index scheme, both sides
// identical.
func (g Generator) landmarks(b bodyPose) []pose.Point {
	lm := make([]pose.Point, pose.LandmarkCount)
	norm := func(p pose.Point) pose.Point {
		return pose.Point{X: p.X / float64(g.Width), Y: p.Y / float64(g.Height)}
	}
	for i := range lm {
		lm[i] = norm(b.nose) // unused indices collapse onto the head
	}
	lm[0] = norm(b.nose)
	for _, pair := range [][2]int{{11, 12}, {13, 14}, {15, 16}, {23, 24}, {25, 26}, {27, 28}, {31, 32}} {
		var p pose.Point
		switch pair[0] {
		case 11:
			p = b.shoulder
		case 13:
			p = b.elbow
		case 15:
			p = b.wrist
		case 23:
			p = b.hip
		case 25:
			p = b.knee
		case 27:
			p = b.ankle
		case 31:
			p = b.foot
		}
		lm[pair[0]] = norm(p)
		lm[pair[1]] = norm(p)
	}
	return lm
}

func (g Generator) compose(b bodyPose) pose.Frame {
	return pose.Frame{Landmarks: g.landmarks(b), Width: g.Width, Height: g.Height}
}
