// Package rep implements the per-frame repetition classifier: the s1/s2/s3
// state machine, sequence legality, hold and range validation, form-cue
// management, inactivity watchdogs and the frame processor that orchestrates
// them.
package rep

import "time"

// State is the classified position within a rep.
type State string

const (
	// StateNone means the driving angle fell in no band this frame (or was
	// unavailable). No sequence mutation or resolution happens on such frames.
	StateNone State = ""
	// StateRest (s1) is the starting position; reaching it resolves any open
	// rep attempt.
	StateRest State = "s1"
	// StateTrans (s2) is the transition band on the way out and back.
	StateTrans State = "s2"
	// StatePeak (s3) is full depth/flexion where the hold timer runs.
	StatePeak State = "s3"
)

// Cue identifies one feedback category. Each has a flag plus an active-frame
// counter, replacing positional index coupling between parallel arrays.
type Cue string

const (
	CueKneeLock        Cue = "knee_lock"
	CueTorsoTilt       Cue = "torso_tilt"
	CueDepth           Cue = "depth"
	CueControlLowering Cue = "control_lowering"
)

// allCues fixes iteration order for deterministic output.
var allCues = []Cue{CueKneeLock, CueTorsoTilt, CueDepth, CueControlLowering}

// CueState pairs a feedback flag with its active-frame counter. The counter
// is zero whenever the flag is false.
type CueState struct {
	Active bool
	Frames int
}

// RepResult records one resolved rep attempt for session aggregates.
type RepResult struct {
	Correct bool
	Range   float64
	Hold    time.Duration
}

// SessionState is the mutable per-session tracker. It is exclusively owned by
// one session, mutated once per frame by the processor, and carries no
// internal synchronisation.
type SessionState struct {
	CorrectCount   int
	IncorrectCount int

	// StateSeq holds entered transition states, at most [s2, s3, s2].
	StateSeq  []State
	PrevState State
	CurrState State

	// Per-rep range tracking; unset until the first s2 of the attempt.
	RepMinAngle float64
	RepMaxAngle float64
	RangeSet    bool

	// Hold tracking. S3EnterAt is zero while the timer is not running;
	// S3HoldOK latches for the remainder of the open rep.
	S3EnterAt time.Time
	S3HoldOK  bool
	lastHold  time.Duration

	// IncorrectPosture latches on any form violation until resolution.
	IncorrectPosture bool

	Cues map[Cue]*CueState

	// Inactivity accumulators with their own anchor instants.
	SideInactive  time.Duration
	sideAnchor    time.Time
	FrontInactive time.Duration
	frontAnchor   time.Time

	// Resolved attempts, for the session summary.
	Reps []RepResult
}

// NewSessionState returns a zeroed state with accumulator anchors at now.
func NewSessionState(now time.Time) *SessionState {
	s := &SessionState{
		Cues:        make(map[Cue]*CueState, len(allCues)),
		sideAnchor:  now,
		frontAnchor: now,
	}
	for _, c := range allCues {
		s.Cues[c] = &CueState{}
	}
	return s
}

// HardReset zeroes the whole session: counters, sequence, per-rep fields,
// cues, accumulators and anchors. Idempotent.
func (s *SessionState) HardReset(now time.Time) {
	s.CorrectCount = 0
	s.IncorrectCount = 0
	s.StateSeq = s.StateSeq[:0]
	s.PrevState = StateNone
	s.CurrState = StateNone
	s.Reps = nil
	s.clearPerRep()
	s.resetSide(now)
	s.resetFront(now)
}

// clearPerRep clears everything scoped to one rep attempt: range, hold timer
// and flag, posture latch, and all cue flags with their counters.
func (s *SessionState) clearPerRep() {
	s.RangeSet = false
	s.RepMinAngle = 0
	s.RepMaxAngle = 0
	s.S3EnterAt = time.Time{}
	s.S3HoldOK = false
	s.lastHold = 0
	s.IncorrectPosture = false
	for _, c := range allCues {
		s.clearCue(c)
	}
}

func (s *SessionState) setCue(c Cue) {
	s.Cues[c].Active = true
}

func (s *SessionState) clearCue(c Cue) {
	cs := s.Cues[c]
	cs.Active = false
	cs.Frames = 0
}

// ActiveCues returns the currently raised feedback categories in fixed order.
func (s *SessionState) ActiveCues() []Cue {
	var out []Cue
	for _, c := range allCues {
		if s.Cues[c].Active {
			out = append(out, c)
		}
	}
	return out
}

// trackRange folds the frame's driving angle into the per-rep min/max once
// the attempt has (re)entered s2.
func (s *SessionState) trackRange(angle float64) {
	if !s.RangeSet {
		s.RepMinAngle = angle
		s.RepMaxAngle = angle
		s.RangeSet = true
		return
	}
	if angle < s.RepMinAngle {
		s.RepMinAngle = angle
	}
	if angle > s.RepMaxAngle {
		s.RepMaxAngle = angle
	}
}

func (s *SessionState) seqContains(st State) bool {
	for _, v := range s.StateSeq {
		if v == st {
			return true
		}
	}
	return false
}

func (s *SessionState) seqCount(st State) int {
	n := 0
	for _, v := range s.StateSeq {
		if v == st {
			n++
		}
	}
	return n
}
