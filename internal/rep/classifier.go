package rep

import (
	"github.com/formsense/repcoach/internal/exercise"
)

// classifyState maps a driving angle onto the profile's bands. Angles in a
// gap between bands classify to StateNone.
func classifyState(p exercise.Profile, angle float64) State {
	switch {
	case p.Normal.Contains(angle):
		return StateRest
	case p.Trans.Contains(angle):
		return StateTrans
	case p.Pass.Contains(angle):
		return StatePeak
	default:
		return StateNone
	}
}

// advanceSequence appends the classified state to the sequence when legal and
// silently drops it otherwise. Legality admits exactly one outbound s2, one
// s3, and one inbound s2: any other shape stays short and fails the full-
// sequence test at resolution, which is the sole anti-double-counting
// mechanism.
func (s *SessionState) advanceSequence(st State) {
	switch st {
	case StateTrans:
		outbound := !s.seqContains(StatePeak) && s.seqCount(StateTrans) == 0
		inbound := s.seqContains(StatePeak) && s.seqCount(StateTrans) == 1
		if outbound || inbound {
			s.StateSeq = append(s.StateSeq, StateTrans)
		}
	case StatePeak:
		if !s.seqContains(StatePeak) && s.seqContains(StateTrans) {
			s.StateSeq = append(s.StateSeq, StatePeak)
		}
	}
}

// fullSequence reports whether the attempt traversed exactly [s2, s3, s2].
func (s *SessionState) fullSequence() bool {
	return len(s.StateSeq) == 3 &&
		s.StateSeq[0] == StateTrans &&
		s.StateSeq[1] == StatePeak &&
		s.StateSeq[2] == StateTrans
}

// attemptOpen reports whether there is a rep attempt to resolve: either the
// sequence started, or a form violation latched on the way. Rest frames with
// nothing open resolve to nothing rather than an incorrect count.
func (s *SessionState) attemptOpen() bool {
	return len(s.StateSeq) > 0 || s.IncorrectPosture
}
