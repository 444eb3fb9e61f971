package rep

import "time"

// The two inactivity watchdogs each sum wall-clock time since their own
// anchor and reset the moment their trigger condition stops holding. The
// side-view accumulator grows while no landmarks are detected or the
// classified state repeats across frames; the front-view accumulator grows
// while the camera alignment check rejects frames. Reaching the profile's
// inactivity threshold on either fires a hard reset, which prevents phantom
// reps during tracking loss and keeps a frozen state from leaving a
// half-built sequence open indefinitely.

// accumulateSide adds the elapsed time since the side anchor and returns the
// running total.
func (s *SessionState) accumulateSide(now time.Time) time.Duration {
	s.SideInactive += now.Sub(s.sideAnchor)
	s.sideAnchor = now
	return s.SideInactive
}

// resetSide zeroes the side-view accumulator and re-anchors it.
func (s *SessionState) resetSide(now time.Time) {
	s.SideInactive = 0
	s.sideAnchor = now
}

// accumulateFront adds the elapsed time since the front anchor and returns
// the running total.
func (s *SessionState) accumulateFront(now time.Time) time.Duration {
	s.FrontInactive += now.Sub(s.frontAnchor)
	s.frontAnchor = now
	return s.FrontInactive
}

// resetFront zeroes the front-view accumulator and re-anchors it.
func (s *SessionState) resetFront(now time.Time) {
	s.FrontInactive = 0
	s.frontAnchor = now
}
