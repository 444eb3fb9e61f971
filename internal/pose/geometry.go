// Package pose holds the 2D landmark geometry shared by the rep-counting
// pipeline: pixel points, joint extraction from a pose-estimation landmark
// array, and the angle math that drives state classification.
package pose

import (
	"errors"
	"math"
)

// ErrDegenerate is returned by AngleAt when a ray endpoint coincides with the
// vertex and no angle is defined. Callers treat it as "angle unavailable for
// this frame" and skip the dependent check.
var ErrDegenerate = errors.New("pose: degenerate angle (coincident points)")

// Point is a 2D pixel coordinate. Image convention: origin top-left, Y grows
// downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q as a direction vector.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// AngleAt returns the angle in degrees at vertex between the rays vertex→a
// and vertex→b, in [0, 180]. It is computed from the arctangent of each ray
// direction, so it is stable for near-vertical rays.
func AngleAt(vertex, a, b Point) (float64, error) {
	ra := a.Sub(vertex)
	rb := b.Sub(vertex)
	if (ra.X == 0 && ra.Y == 0) || (rb.X == 0 && rb.Y == 0) {
		return 0, ErrDegenerate
	}

	theta := math.Atan2(ra.Y, ra.X) - math.Atan2(rb.Y, rb.X)
	deg := math.Abs(theta * 180 / math.Pi)
	if deg > 180 {
		deg = 360 - deg
	}
	return deg, nil
}

// VerticalAbove returns the point directly above p (toward the top of the
// image), used as the reference ray for vertical-deviation angles.
func VerticalAbove(p Point) Point {
	return Point{X: p.X, Y: 0}
}
