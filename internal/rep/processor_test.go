package rep

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formsense/repcoach/internal/exercise"
	"github.com/formsense/repcoach/internal/overlay"
	"github.com/formsense/repcoach/internal/pose"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// testRig drives a processor with a scripted driving angle and simulated
// time, bypassing real geometry.
type testRig struct {
	proc  *Processor
	clock *fakeClock
	angle float64
}

func newTestRig(t *testing.T, ex exercise.Exercise, lvl exercise.Level, mutate func(*exercise.Profile)) *testRig {
	t.Helper()
	p, err := exercise.Lookup(ex, lvl)
	require.NoError(t, err)
	if mutate != nil {
		mutate(&p)
	}

	proc, err := NewProcessor(p)
	require.NoError(t, err)

	clk := &fakeClock{now: time.Unix(1000, 0)}
	proc.Clock = clk.Now
	proc.State = NewSessionState(clk.now)

	r := &testRig{proc: proc, clock: clk}
	proc.Driving = func(pose.JointSet) (float64, error) { return r.angle, nil }
	proc.Checks = nil
	return r
}

func (r *testRig) step(a float64, dt time.Duration) (overlay.Annotations, *Event) {
	r.clock.Advance(dt)
	r.angle = a
	return r.proc.Process(alignedFrame())
}

// alignedFrame is a profile-view body: coincident shoulders keep the
// alignment score at zero.
func alignedFrame() pose.Frame {
	lm := make([]pose.Point, pose.LandmarkCount)
	for i := range lm {
		lm[i] = pose.Point{X: 0.5, Y: 0.5}
	}
	// Nose, shoulders, hips, knees, ankles, feet down the same vertical line.
	lm[0] = pose.Point{X: 0.5, Y: 0.1}
	lm[11], lm[12] = pose.Point{X: 0.5, Y: 0.25}, pose.Point{X: 0.5, Y: 0.25}
	lm[23], lm[24] = pose.Point{X: 0.5, Y: 0.55}, pose.Point{X: 0.5, Y: 0.55}
	lm[25], lm[26] = pose.Point{X: 0.5, Y: 0.7}, pose.Point{X: 0.5, Y: 0.7}
	lm[27], lm[28] = pose.Point{X: 0.5, Y: 0.85}, pose.Point{X: 0.5, Y: 0.85}
	lm[31], lm[32] = pose.Point{X: 0.55, Y: 0.95}, pose.Point{X: 0.55, Y: 0.95}
	return pose.Frame{Landmarks: lm, Width: 640, Height: 480}
}

// misalignedFrame is a frontal view: the nose sits between wide shoulders,
// pushing the alignment score far over threshold.
func misalignedFrame() pose.Frame {
	f := alignedFrame()
	f.Landmarks[11] = pose.Point{X: 0.3, Y: 0.24}
	f.Landmarks[12] = pose.Point{X: 0.7, Y: 0.24}
	f.Landmarks[0] = pose.Point{X: 0.5, Y: 0.23}
	return f
}

func emptyFrame() pose.Frame { return pose.Frame{Width: 640, Height: 480} }

func TestCorrectRep(t *testing.T) {
	t.Parallel()

	// Leg-raise beginner, hold target 1s. Peak dwell of 1.2s satisfies it.
	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)

	angles := []float64{5, 5, 30, 70, 70, 70, 70, 30}
	for _, a := range angles {
		_, ev := r.step(a, 400*time.Millisecond)
		assert.Nil(t, ev, "no event expected at angle %v", a)
	}

	_, ev := r.step(5, 400*time.Millisecond)
	require.NotNil(t, ev)
	assert.Equal(t, EventCorrect, ev.Kind)
	assert.Equal(t, 1, ev.Count)
	assert.Equal(t, 1, r.proc.State.CorrectCount)
	assert.Equal(t, 0, r.proc.State.IncorrectCount)
}

func TestShortHoldIsIncorrect(t *testing.T) {
	t.Parallel()

	// Single-frame peak dwell: legal sequence and range, hold unmet.
	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)

	for _, a := range []float64{5, 30, 70, 30} {
		_, ev := r.step(a, 300*time.Millisecond)
		assert.Nil(t, ev)
	}
	_, ev := r.step(5, 300*time.Millisecond)
	require.NotNil(t, ev)
	assert.Equal(t, EventIncorrect, ev.Kind)
	assert.Equal(t, 0, r.proc.State.CorrectCount)
	assert.Equal(t, 1, r.proc.State.IncorrectCount)
}

func TestShallowAttemptRaisesDepthCue(t *testing.T) {
	t.Parallel()

	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)

	_, ev := r.step(5, 100*time.Millisecond)
	assert.Nil(t, ev)

	// Mid-transition, below the pass band: the nudge fires immediately.
	_, ev = r.step(30, 100*time.Millisecond)
	assert.Nil(t, ev)
	assert.True(t, r.proc.State.Cues[CueDepth].Active)

	_, ev = r.step(5, 100*time.Millisecond)
	require.NotNil(t, ev)
	assert.Equal(t, EventIncorrect, ev.Kind)
	assert.Equal(t, 1, r.proc.State.IncorrectCount)
}

func TestRestFramesResolveNothing(t *testing.T) {
	t.Parallel()

	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)
	for i := 0; i < 5; i++ {
		_, ev := r.step(5, 100*time.Millisecond)
		assert.Nil(t, ev)
	}
	assert.Zero(t, r.proc.State.CorrectCount)
	assert.Zero(t, r.proc.State.IncorrectCount)
}

func TestPeakWithoutTransitionNeverCounts(t *testing.T) {
	t.Parallel()

	// Jumping straight into the pass band never appends s3, so resolution
	// classifies incorrect.
	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)

	r.step(5, 100*time.Millisecond)
	r.step(70, 100*time.Millisecond)
	assert.Empty(t, r.proc.State.StateSeq)
	r.step(70, 100*time.Millisecond)

	_, ev := r.step(5, 100*time.Millisecond)
	require.NotNil(t, ev)
	assert.Equal(t, EventIncorrect, ev.Kind)
	assert.Equal(t, 1, r.proc.State.IncorrectCount)
}

func TestDropFromPeakLatchesControlLowering(t *testing.T) {
	t.Parallel()

	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)

	// Full outbound path, long hold, then a straight drop s3 -> s1.
	for _, a := range []float64{5, 30, 70, 70, 70, 70} {
		r.step(a, 400*time.Millisecond)
	}
	_, ev := r.step(5, 400*time.Millisecond)
	require.NotNil(t, ev)
	assert.Equal(t, EventIncorrect, ev.Kind)
}

func TestFormViolationLatchesForTheRep(t *testing.T) {
	t.Parallel()

	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)
	form := 0.0
	r.proc.Checks = []FormCheck{{
		Cue:        CueKneeLock,
		Angle:      func(pose.JointSet) (float64, error) { return form, nil },
		Max:        20,
		SuppressIn: StatePeak,
	}}

	r.step(5, 400*time.Millisecond)
	form = 50 // bent knee on the way up
	r.step(30, 400*time.Millisecond)
	assert.True(t, r.proc.State.IncorrectPosture)
	assert.True(t, r.proc.State.Cues[CueKneeLock].Active)

	form = 0
	for _, a := range []float64{70, 70, 70, 70, 30} {
		r.step(a, 400*time.Millisecond)
	}
	_, ev := r.step(5, 400*time.Millisecond)
	require.NotNil(t, ev)
	assert.Equal(t, EventIncorrect, ev.Kind, "latched posture flag must fail the rep")
}

func TestFormCheckSuppressedAtPeak(t *testing.T) {
	t.Parallel()

	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)
	form := 0.0
	r.proc.Checks = []FormCheck{{
		Cue:        CueKneeLock,
		Angle:      func(pose.JointSet) (float64, error) { return form, nil },
		Max:        20,
		SuppressIn: StatePeak,
	}}

	r.step(5, 400*time.Millisecond)
	r.step(30, 400*time.Millisecond)
	form = 80 // noisy at the peak only
	for _, a := range []float64{70, 70, 70, 70} {
		r.step(a, 400*time.Millisecond)
	}
	form = 0
	r.step(30, 400*time.Millisecond)

	_, ev := r.step(5, 400*time.Millisecond)
	require.NotNil(t, ev)
	assert.Equal(t, EventCorrect, ev.Kind, "peak noise must not latch a violation")
}

func TestBannerTTLBound(t *testing.T) {
	t.Parallel()

	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, func(p *exercise.Profile) {
		p.BannerTTLFrames = 3
	})

	r.step(5, 100*time.Millisecond)
	r.step(30, 100*time.Millisecond) // raises the depth cue
	require.True(t, r.proc.State.Cues[CueDepth].Active)

	// Park in the band gap so the trigger stops re-firing; the sweep must
	// clear the cue within TTL frames.
	active := 1
	for i := 0; i < 10; i++ {
		r.step(60.5, 100*time.Millisecond)
		if r.proc.State.Cues[CueDepth].Active {
			active++
			assert.LessOrEqual(t, r.proc.State.Cues[CueDepth].Frames, 3+1)
		}
	}
	assert.False(t, r.proc.State.Cues[CueDepth].Active)
	assert.Zero(t, r.proc.State.Cues[CueDepth].Frames)
	assert.LessOrEqual(t, active, 4)
}

func TestUnclassifiedFrameIsInert(t *testing.T) {
	t.Parallel()

	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)

	r.step(5, 100*time.Millisecond)
	r.step(30, 100*time.Millisecond)
	require.Equal(t, []State{StateTrans}, r.proc.State.StateSeq)

	_, ev := r.step(15.5, 100*time.Millisecond) // band gap
	assert.Nil(t, ev)
	assert.Equal(t, StateNone, r.proc.State.CurrState)
	assert.Equal(t, []State{StateTrans}, r.proc.State.StateSeq)
	assert.Zero(t, r.proc.State.IncorrectCount)
}

func TestMinMaxRangeInvariant(t *testing.T) {
	t.Parallel()

	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)

	r.step(5, 100*time.Millisecond)
	for _, a := range []float64{30, 20, 55, 40, 70, 65, 30} {
		r.step(a, 100*time.Millisecond)
		if r.proc.State.RangeSet {
			assert.LessOrEqual(t, r.proc.State.RepMinAngle, r.proc.State.RepMaxAngle)
		}
	}
	assert.Equal(t, 20.0, r.proc.State.RepMinAngle)
	assert.Equal(t, 70.0, r.proc.State.RepMaxAngle)
}

func TestBelowMinimumRangeIsIncorrect(t *testing.T) {
	t.Parallel()

	// Narrow the pass band down so a micro-movement can make a legal
	// sequence with a range under the minimum.
	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, func(p *exercise.Profile) {
		p.Normal = exercise.Band{Low: 0, High: 32}
		p.Trans = exercise.Band{Low: 35, High: 40}
		p.Pass = exercise.Band{Low: 45, High: 95}
		p.HoldTarget = 0
	})

	for _, a := range []float64{30, 38, 46, 38} {
		r.step(a, 400*time.Millisecond)
	}
	_, ev := r.step(30, 400*time.Millisecond)
	require.NotNil(t, ev)
	assert.Equal(t, EventIncorrect, ev.Kind, "range 16 is under the 35 degree minimum")
}

func TestHoldBannerShownAtPeak(t *testing.T) {
	t.Parallel()

	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)
	r.step(5, 100*time.Millisecond)
	r.step(30, 100*time.Millisecond)
	ann, _ := r.step(70, 100*time.Millisecond)

	found := false
	for _, b := range ann.Banners {
		if strings.HasPrefix(b.Text, "HOLD:") {
			found = true
		}
	}
	assert.True(t, found, "expected a hold progress banner while at peak")
}

func TestResolutionClearsPerRepState(t *testing.T) {
	t.Parallel()

	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)
	for _, a := range []float64{5, 30, 70, 70, 70, 70, 30, 5} {
		r.step(a, 400*time.Millisecond)
	}

	st := r.proc.State
	assert.Empty(t, st.StateSeq)
	assert.False(t, st.RangeSet)
	assert.False(t, st.S3HoldOK)
	assert.True(t, st.S3EnterAt.IsZero())
	assert.False(t, st.IncorrectPosture)
	for cue, cs := range st.Cues {
		assert.False(t, cs.Active, "cue %s", cue)
		assert.Zero(t, cs.Frames, "cue %s", cue)
	}
}

func TestSquatRepWithoutHold(t *testing.T) {
	t.Parallel()

	r := newTestRig(t, exercise.Squat, exercise.Beginner, nil)
	for _, a := range []float64{10, 50, 80, 50} {
		_, ev := r.step(a, 100*time.Millisecond)
		assert.Nil(t, ev)
	}
	_, ev := r.step(10, 100*time.Millisecond)
	require.NotNil(t, ev)
	assert.Equal(t, EventCorrect, ev.Kind)
	assert.Equal(t, 1, ev.Count)
}

func TestInactivityOnMissingLandmarks(t *testing.T) {
	t.Parallel()

	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)

	// Bank an incorrect attempt so the reset has something to zero.
	for _, a := range []float64{5, 30, 5} {
		r.step(a, 100*time.Millisecond)
	}
	require.Equal(t, 1, r.proc.State.IncorrectCount)

	var ev *Event
	for i := 0; i < 3; i++ {
		r.clock.Advance(5 * time.Second)
		_, ev = r.proc.Process(emptyFrame())
	}
	require.NotNil(t, ev)
	assert.Equal(t, EventHardReset, ev.Kind)
	assert.Zero(t, r.proc.State.IncorrectCount)
	assert.Zero(t, r.proc.State.SideInactive)
}

func TestInactivityOnFrozenState(t *testing.T) {
	t.Parallel()

	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)

	_, ev := r.step(5, 8*time.Second)
	assert.Nil(t, ev)
	_, ev = r.step(5, 8*time.Second)
	assert.Nil(t, ev, "8s of repeats is under threshold")
	_, ev = r.step(5, 8*time.Second)
	require.NotNil(t, ev)
	assert.Equal(t, EventHardReset, ev.Kind)
	assert.Equal(t, StateNone, r.proc.State.PrevState)
}

func TestSideAccumulatorResetsOnStateChange(t *testing.T) {
	t.Parallel()

	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)
	r.step(5, 8*time.Second)
	r.step(5, 8*time.Second)
	assert.Equal(t, 8*time.Second, r.proc.State.SideInactive)

	r.step(30, 8*time.Second)
	assert.Zero(t, r.proc.State.SideInactive, "state change must clear the accumulator immediately")
}

func TestMisalignedFramesGateClassification(t *testing.T) {
	t.Parallel()

	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)
	r.step(5, 100*time.Millisecond)
	r.step(30, 100*time.Millisecond)
	require.Equal(t, []State{StateTrans}, r.proc.State.StateSeq)

	r.clock.Advance(100 * time.Millisecond)
	ann, ev := r.proc.Process(misalignedFrame())
	assert.Nil(t, ev)
	assert.NotEmpty(t, ann.Banners, "misalignment warning expected")
	assert.Equal(t, []State{StateTrans}, r.proc.State.StateSeq, "classifier must not advance while misaligned")
	assert.Zero(t, r.proc.State.SideInactive)
	assert.Positive(t, r.proc.State.FrontInactive)

	// Realignment clears the front accumulator; the open attempt survives.
	for _, a := range []float64{70, 70, 70, 70, 30} {
		r.step(a, 400*time.Millisecond)
	}
	assert.Zero(t, r.proc.State.FrontInactive)

	_, ev = r.step(5, 400*time.Millisecond)
	require.NotNil(t, ev)
	assert.Equal(t, EventCorrect, ev.Kind)
}

func TestProlongedMisalignmentHardResets(t *testing.T) {
	t.Parallel()

	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)

	var ev *Event
	for i := 0; i < 2; i++ {
		r.clock.Advance(8 * time.Second)
		_, ev = r.proc.Process(misalignedFrame())
	}
	require.NotNil(t, ev)
	assert.Equal(t, EventHardReset, ev.Kind)
	assert.Zero(t, r.proc.State.FrontInactive)
}

func TestHardResetIdempotent(t *testing.T) {
	t.Parallel()

	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)
	for _, a := range []float64{5, 30, 70, 30, 5, 30} {
		r.step(a, 300*time.Millisecond)
	}

	r.proc.State.HardReset(r.clock.Now())
	once := *r.proc.State
	r.proc.State.HardReset(r.clock.Now())
	twice := *r.proc.State

	opts := []cmp.Option{
		cmp.AllowUnexported(SessionState{}),
		cmpopts.EquateEmpty(),
	}
	if diff := cmp.Diff(once, twice, opts...); diff != "" {
		t.Errorf("double hard reset diverged (-once +twice):\n%s", diff)
	}
	assert.Zero(t, twice.CorrectCount)
	assert.Zero(t, twice.IncorrectCount)
	assert.Empty(t, twice.StateSeq)
}

func TestExternalResetBetweenFrames(t *testing.T) {
	t.Parallel()

	r := newTestRig(t, exercise.LegRaise, exercise.Beginner, nil)
	for _, a := range []float64{5, 30, 5} {
		r.step(a, 100*time.Millisecond)
	}
	require.Equal(t, 1, r.proc.State.IncorrectCount)

	r.proc.Reset()
	assert.Zero(t, r.proc.State.IncorrectCount)
	assert.Equal(t, StateNone, r.proc.State.CurrState)

	// The session keeps working after a start-over.
	for _, a := range []float64{5, 30, 70, 70, 70, 70, 30} {
		r.step(a, 400*time.Millisecond)
	}
	_, ev := r.step(5, 400*time.Millisecond)
	require.NotNil(t, ev)
	assert.Equal(t, EventCorrect, ev.Kind)
}
