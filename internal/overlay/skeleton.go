package overlay

import "github.com/formsense/repcoach/internal/pose"

// Skeleton appends the side-view skeleton for the selected joint set:
// shoulder→hip→knee→ankle→foot segments, joint markers, and vertical dotted
// guides at the hip and knee.
func (a *Annotations) Skeleton(j pose.JointSet) {
	segments := [][2]pose.Point{
		{j.Shoulder, j.Hip},
		{j.Hip, j.Knee},
		{j.Knee, j.Ankle},
		{j.Ankle, j.Foot},
	}
	for _, s := range segments {
		a.Lines = append(a.Lines, Line{From: s[0], To: s[1], Color: LightBlue, Width: 4})
	}

	a.DottedLines = append(a.DottedLines,
		DottedLine{X: j.Hip.X, StartY: j.Hip.Y - 80, EndY: j.Hip.Y + 20, Color: Blue},
		DottedLine{X: j.Knee.X, StartY: j.Knee.Y - 50, EndY: j.Knee.Y + 20, Color: Blue},
	)

	for _, p := range []pose.Point{j.Shoulder, j.Hip, j.Knee, j.Ankle, j.Foot} {
		a.Circles = append(a.Circles, Circle{Center: p, Radius: 7, Color: Yellow})
	}
}

// AlignmentMarkers appends the nose/shoulder markers shown while the camera
// view is rejected as misaligned.
func (a *Annotations) AlignmentMarkers(nose, leftShoulder, rightShoulder pose.Point) {
	a.Circles = append(a.Circles,
		Circle{Center: nose, Radius: 7, Color: White},
		Circle{Center: leftShoulder, Radius: 7, Color: Yellow},
		Circle{Center: rightShoulder, Radius: 7, Color: Magenta},
	)
}
