package replay

import (
	"time"

	"github.com/formsense/repcoach/internal/exercise"
)

// Script is a named driving-angle trajectory replayed at a fixed frame
// interval.
type Script struct {
	Name          string
	Angles        []float64
	FrameInterval time.Duration
}

func bandMid(b exercise.Band) float64 { return (b.Low + b.High) / 2 }

// CorrectRep scripts one rep that satisfies sequence, hold and range: rest,
// outbound transition, a peak dwell long enough for the profile's hold
// target, inbound transition, rest. Transition sits low in its band and the
// peak high in its band so the swept range clears every profile's minimum.
func CorrectRep(p exercise.Profile, interval time.Duration) Script {
	rest := bandMid(p.Normal)
	trans := p.Trans.Low + 1
	peak := p.Pass.High - 1

	holdFrames := int(p.HoldTarget/interval) + 2
	angles := []float64{rest, rest, trans}
	for i := 0; i < holdFrames; i++ {
		angles = append(angles, peak)
	}
	angles = append(angles, trans, rest)

	return Script{Name: "correct-rep", Angles: angles, FrameInterval: interval}
}

// ShallowRep scripts an attempt that enters the transition band but never
// reaches the pass band, so it resolves incorrect with a depth cue.
func ShallowRep(p exercise.Profile, interval time.Duration) Script {
	rest := bandMid(p.Normal)
	trans := bandMid(p.Trans)
	return Script{
		Name:          "shallow-rep",
		Angles:        []float64{rest, trans, trans, trans, rest},
		FrameInterval: interval,
	}
}

// ShortHold scripts a full-range rep whose peak dwell stays below the hold
// target, so it resolves incorrect despite a legal sequence.
func ShortHold(p exercise.Profile, interval time.Duration) Script {
	rest := bandMid(p.Normal)
	trans := bandMid(p.Trans)
	peak := bandMid(p.Pass)
	return Script{
		Name:          "short-hold",
		Angles:        []float64{rest, trans, peak, trans, rest},
		FrameInterval: interval,
	}
}

// Scripts returns the canonical demo scripts for a profile.
func Scripts(p exercise.Profile, interval time.Duration) []Script {
	out := []Script{CorrectRep(p, interval), ShallowRep(p, interval)}
	if p.HoldTarget > 0 {
		out = append(out, ShortHold(p, interval))
	}
	return out
}
