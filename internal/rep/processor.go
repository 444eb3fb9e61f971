package rep

import (
	"fmt"
	"strconv"
	"time"

	"github.com/formsense/repcoach/internal/exercise"
	"github.com/formsense/repcoach/internal/overlay"
	"github.com/formsense/repcoach/internal/pose"
)

// FormCheck is an advisory posture predicate: the angle must stay at or below
// Max. Violations latch IncorrectPosture for the open rep. The check is not
// evaluated while the classified state equals SuppressIn, which avoids false
// positives from sensor noise at the peak hold.
type FormCheck struct {
	Cue        Cue
	Angle      AngleFunc
	Max        float64
	SuppressIn State
}

// Processor runs the full per-frame pipeline for one session: alignment
// guard, geometry, rep classification, inactivity watchdogs and the banner
// sweep. It is single-threaded; the caller must serialise Process calls.
type Processor struct {
	Profile exercise.Profile
	Driving AngleFunc
	Checks  []FormCheck

	// Selector picks the body side to classify. Defaults to the visibility
	// heuristic; injectable for deterministic synthetic data.
	Selector pose.SideSelector

	// Clock supplies the monotonic now for hold and inactivity timing.
	// Injectable so simulated time can drive the timers in tests.
	Clock func() time.Time

	State *SessionState
}

// NewProcessor builds a processor for a validated profile, wiring the
// exercise's driving angle and the standard knee-lock and torso-tilt checks.
func NewProcessor(p exercise.Profile) (*Processor, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("rep: %w", err)
	}
	driving, err := drivingAngleFor(p.Exercise)
	if err != nil {
		return nil, err
	}
	clock := time.Now
	return &Processor{
		Profile: p,
		Driving: driving,
		Checks: []FormCheck{
			{Cue: CueKneeLock, Angle: KneeFlexionAngle, Max: p.KneeLockMax, SuppressIn: StatePeak},
			{Cue: CueTorsoTilt, Angle: TorsoTiltAngle, Max: p.TorsoTiltMax, SuppressIn: StatePeak},
		},
		Selector: pose.SpanSelector{},
		Clock:    clock,
		State:    NewSessionState(clock()),
	}, nil
}

// Reset is the on-demand "start over" operation: a hard reset invocable
// between frames.
func (pr *Processor) Reset() {
	pr.State.HardReset(pr.Clock())
}

// Process runs one frame through the pipeline and returns the annotations to
// draw plus at most one discrete event.
func (pr *Processor) Process(f pose.Frame) (overlay.Annotations, *Event) {
	now := pr.Clock()
	st := pr.State
	var ann overlay.Annotations

	// No person in frame: only the side-view watchdog advances.
	if !f.Detected() {
		if st.accumulateSide(now) >= pr.Profile.InactiveThresh {
			st.HardReset(now)
			return ann, &Event{Kind: EventHardReset}
		}
		return ann, nil
	}

	left, right, nose, err := pose.ExtractJoints(f)
	if err != nil {
		// Short or malformed landmark arrays behave like an undetected
		// person: they feed the watchdog rather than surfacing an error.
		if st.accumulateSide(now) >= pr.Profile.InactiveThresh {
			st.HardReset(now)
			return ann, &Event{Kind: EventHardReset}
		}
		return ann, nil
	}

	if handled, ev := pr.checkAlignment(&ann, f, nose, left.Shoulder, right.Shoulder, now); handled {
		return ann, ev
	}

	j := pr.Selector.Select(left, right)
	ann.Skeleton(j)

	driving, derr := pr.Driving(j)
	current := StateNone
	if derr == nil {
		current = classifyState(pr.Profile, driving)
		ann.Labels = append(ann.Labels, overlay.Label{
			Text: strconv.Itoa(int(driving)), At: pose.Point{X: j.Hip.X + 10, Y: j.Hip.Y}, Color: overlay.LightGreen,
		})
	}
	if flex, ferr := KneeFlexionAngle(j); ferr == nil {
		ann.Labels = append(ann.Labels, overlay.Label{
			Text: strconv.Itoa(int(flex)), At: pose.Point{X: j.Knee.X + 15, Y: j.Knee.Y + 10}, Color: overlay.LightGreen,
		})
	}

	st.CurrState = current
	st.advanceSequence(current)

	if derr == nil && st.seqContains(StateTrans) {
		st.trackRange(driving)
	}

	pr.updateHold(current, now)

	if current == StatePeak {
		// Knee and torso cues are suppressed while holding the peak.
		st.clearCue(CueKneeLock)
		st.clearCue(CueTorsoTilt)
	}

	var ev *Event
	if current == StateRest {
		ev = pr.resolveAttempt()
	} else {
		pr.liveFeedback(j, current, driving, derr)
	}

	// Side-view watchdog: a repeated classification counts as inactivity.
	if st.CurrState == st.PrevState {
		if st.accumulateSide(now) >= pr.Profile.InactiveThresh {
			st.HardReset(now)
			ev = &Event{Kind: EventHardReset}
		}
	} else {
		st.resetSide(now)
	}

	hardReset := ev != nil && ev.Kind == EventHardReset
	if !hardReset {
		pr.holdBanner(&ann, current, now)
		pr.sweepCues(&ann)
		st.PrevState = current
	}

	return ann, ev
}

// updateHold runs the s3 dwell timer. Leaving the peak clears only the
// running anchor; an already-earned hold flag stays latched for the rep.
func (pr *Processor) updateHold(current State, now time.Time) {
	st := pr.State
	if current != StatePeak {
		st.S3EnterAt = time.Time{}
		return
	}
	if st.S3EnterAt.IsZero() {
		st.S3EnterAt = now
		if pr.Profile.HoldTarget <= 0 {
			st.S3HoldOK = true
		}
		return
	}
	st.lastHold = now.Sub(st.S3EnterAt)
	if st.lastHold >= pr.Profile.HoldTarget {
		st.S3HoldOK = true
	}
}

// resolveAttempt decides the outcome of the open rep attempt on returning to
// rest. Frames at rest with nothing open resolve to no event.
func (pr *Processor) resolveAttempt() *Event {
	st := pr.State

	// A drop from peak straight to rest skipped the inbound transition.
	if st.PrevState == StatePeak {
		st.setCue(CueControlLowering)
		st.IncorrectPosture = true
	}

	if !st.attemptOpen() {
		return nil
	}

	rangeOK := st.RangeSet && st.RepMaxAngle-st.RepMinAngle >= pr.Profile.RepMinRange

	var ev *Event
	correct := st.fullSequence() && !st.IncorrectPosture && st.S3HoldOK && rangeOK
	if correct {
		st.CorrectCount++
		ev = &Event{Kind: EventCorrect, Count: st.CorrectCount}
	} else {
		if st.seqContains(StateTrans) && !st.seqContains(StatePeak) {
			st.setCue(CueDepth)
		}
		st.IncorrectCount++
		ev = &Event{Kind: EventIncorrect}
	}

	res := RepResult{Correct: correct, Hold: st.lastHold}
	if st.RangeSet {
		res.Range = st.RepMaxAngle - st.RepMinAngle
	}
	st.Reps = append(st.Reps, res)

	st.StateSeq = st.StateSeq[:0]
	st.clearPerRep()
	return ev
}

// liveFeedback applies the advisory form checks and the depth nudge on every
// frame away from rest.
func (pr *Processor) liveFeedback(j pose.JointSet, current State, driving float64, derr error) {
	st := pr.State
	for _, c := range pr.Checks {
		if current == c.SuppressIn {
			continue
		}
		angle, err := c.Angle(j)
		if err != nil {
			continue
		}
		if angle > c.Max {
			st.setCue(c.Cue)
			st.IncorrectPosture = true
		}
	}

	// Mid-transition but still short of the pass band: nudge, without
	// latching the posture flag.
	if current == StateTrans && derr == nil && driving < pr.Profile.Pass.Low {
		st.setCue(CueDepth)
	}
}

// holdBanner surfaces the dwell progress while holding the peak.
func (pr *Processor) holdBanner(ann *overlay.Annotations, current State, now time.Time) {
	st := pr.State
	target := pr.Profile.HoldTarget
	if current != StatePeak || st.S3EnterAt.IsZero() || target <= 0 {
		return
	}
	held := now.Sub(st.S3EnterAt)
	if held > target {
		held = target
	}
	bg := overlay.Color{R: 0, G: 102, B: 204}
	if held >= target {
		bg = overlay.Color{R: 18, G: 185, B: 0}
	}
	ann.AddBanner(
		fmt.Sprintf("HOLD: %.1f/%.1fs", held.Seconds(), target.Seconds()),
		pose.Point{X: 30, Y: 40}, bg,
	)
}
