package rep

import (
	"fmt"

	"github.com/formsense/repcoach/internal/exercise"
	"github.com/formsense/repcoach/internal/pose"
)

// AngleFunc derives one joint angle from a frame's joint set.
type AngleFunc func(pose.JointSet) (float64, error)

// LegRaiseDrivingAngle is the hip-flexion angle for leg raises: the thigh
// measured against the torso, inverted so it grows with flexion.
func LegRaiseDrivingAngle(j pose.JointSet) (float64, error) {
	a, err := pose.AngleAt(j.Hip, j.Knee, j.Shoulder)
	if err != nil {
		return 0, err
	}
	return 180 - a, nil
}

// SquatDrivingAngle is the knee-vertical angle for squats: the thigh
// measured against the vertical through the knee.
func SquatDrivingAngle(j pose.JointSet) (float64, error) {
	return pose.AngleAt(j.Knee, j.Hip, pose.VerticalAbove(j.Knee))
}

// KneeFlexionAngle is how far the knee is bent: 0 when the leg is straight.
func KneeFlexionAngle(j pose.JointSet) (float64, error) {
	a, err := pose.AngleAt(j.Knee, j.Hip, j.Ankle)
	if err != nil {
		return 0, err
	}
	flex := 180 - a
	if flex < 0 {
		flex = 0
	}
	return flex, nil
}

// TorsoTiltAngle is the torso's deviation from the vertical through the hip.
func TorsoTiltAngle(j pose.JointSet) (float64, error) {
	return pose.AngleAt(j.Hip, j.Shoulder, pose.VerticalAbove(j.Hip))
}

// drivingAngleFor returns the state-driving angle function for an exercise.
func drivingAngleFor(ex exercise.Exercise) (AngleFunc, error) {
	switch ex {
	case exercise.LegRaise:
		return LegRaiseDrivingAngle, nil
	case exercise.Squat:
		return SquatDrivingAngle, nil
	default:
		return nil, fmt.Errorf("rep: no driving angle for exercise %q", ex)
	}
}
