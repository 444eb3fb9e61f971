// Package exercise defines the immutable per-exercise threshold profiles that
// parameterise the rep classifier, plus JSON override loading for tuning.
package exercise

import (
	"fmt"
	"time"
)

// Exercise selects which movement family a session tracks.
type Exercise string

const (
	Squat    Exercise = "squat"
	LegRaise Exercise = "leg-raise"
)

// Level selects how strict the thresholds are.
type Level string

const (
	Beginner Level = "beginner"
	Pro      Level = "pro"
)

// Band is an inclusive [Low, High] driving-angle range in degrees. Gaps
// between consecutive bands are legal: angles falling in a gap classify to no
// state at all.
type Band struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether angle falls inside the band, inclusive.
func (b Band) Contains(angle float64) bool {
	return angle >= b.Low && angle <= b.High
}

// Profile is the immutable threshold set for one exercise/level pair. It is
// read-only after construction and may be shared across sessions.
type Profile struct {
	Exercise Exercise `json:"exercise"`
	Level    Level    `json:"level"`

	// Driving-angle bands for the s1/s2/s3 state machine.
	Normal Band `json:"normal"`
	Trans  Band `json:"trans"`
	Pass   Band `json:"pass"`

	// OffsetThresh is the maximum frontal-alignment score (degrees) before
	// the frame is rejected as camera-misaligned.
	OffsetThresh float64 `json:"offset_thresh"`

	// InactiveThresh is how long an inactivity accumulator may grow before a
	// hard reset fires.
	InactiveThresh time.Duration `json:"inactive_thresh"`

	// Form limits, in degrees.
	KneeLockMax  float64 `json:"knee_lock_max"`
	TorsoTiltMax float64 `json:"torso_tilt_max"`

	// RepMinRange is the minimum driving-angle travel (degrees) for a rep to
	// count as correct.
	RepMinRange float64 `json:"rep_min_range"`

	// HoldTarget is the continuous dwell required in s3. Zero disables the
	// hold requirement.
	HoldTarget time.Duration `json:"hold_target"`

	// BannerTTLFrames bounds how many consecutive frames a feedback banner
	// may stay active.
	BannerTTLFrames int `json:"banner_ttl_frames"`
}

// Validate checks the structural invariants the classifier assumes: bands
// non-decreasing in NORMAL→TRANS→PASS order and scalar limits sane. Called
// once at setup; the core does not re-validate per frame.
func (p Profile) Validate() error {
	for _, b := range []struct {
		name string
		band Band
	}{{"normal", p.Normal}, {"trans", p.Trans}, {"pass", p.Pass}} {
		if b.band.Low > b.band.High {
			return fmt.Errorf("exercise: %s band inverted: [%v, %v]", b.name, b.band.Low, b.band.High)
		}
	}
	if p.Normal.High > p.Trans.Low {
		return fmt.Errorf("exercise: normal band overlaps trans: %v > %v", p.Normal.High, p.Trans.Low)
	}
	if p.Trans.High > p.Pass.Low {
		return fmt.Errorf("exercise: trans band overlaps pass: %v > %v", p.Trans.High, p.Pass.Low)
	}
	if p.OffsetThresh <= 0 {
		return fmt.Errorf("exercise: offset threshold must be positive, got %v", p.OffsetThresh)
	}
	if p.InactiveThresh <= 0 {
		return fmt.Errorf("exercise: inactivity threshold must be positive, got %v", p.InactiveThresh)
	}
	if p.RepMinRange < 0 {
		return fmt.Errorf("exercise: rep min range must be non-negative, got %v", p.RepMinRange)
	}
	if p.HoldTarget < 0 {
		return fmt.Errorf("exercise: hold target must be non-negative, got %v", p.HoldTarget)
	}
	if p.BannerTTLFrames <= 0 {
		return fmt.Errorf("exercise: banner TTL must be positive, got %d", p.BannerTTLFrames)
	}
	return nil
}

// Canonical profiles. Band values follow the tuned defaults for each
// exercise/level pair; squat has no hold requirement.
var profiles = map[Exercise]map[Level]Profile{
	Squat: {
		Beginner: {
			Exercise: Squat, Level: Beginner,
			Normal: Band{0, 32}, Trans: Band{35, 65}, Pass: Band{70, 95},
			OffsetThresh:   35,
			InactiveThresh: 15 * time.Second,
			KneeLockMax:    95, TorsoTiltMax: 50,
			RepMinRange: 30, HoldTarget: 0,
			BannerTTLFrames: 50,
		},
		Pro: {
			Exercise: Squat, Level: Pro,
			Normal: Band{0, 32}, Trans: Band{35, 65}, Pass: Band{80, 95},
			OffsetThresh:   35,
			InactiveThresh: 15 * time.Second,
			KneeLockMax:    95, TorsoTiltMax: 45,
			RepMinRange: 35, HoldTarget: 0,
			BannerTTLFrames: 50,
		},
	},
	LegRaise: {
		Beginner: {
			Exercise: LegRaise, Level: Beginner,
			Normal: Band{0, 15}, Trans: Band{16, 60}, Pass: Band{61, 95},
			OffsetThresh:   35,
			InactiveThresh: 15 * time.Second,
			KneeLockMax:    20, TorsoTiltMax: 25,
			RepMinRange: 35, HoldTarget: 1 * time.Second,
			BannerTTLFrames: 50,
		},
		Pro: {
			Exercise: LegRaise, Level: Pro,
			Normal: Band{0, 20}, Trans: Band{21, 75}, Pass: Band{76, 95},
			OffsetThresh:   35,
			InactiveThresh: 15 * time.Second,
			KneeLockMax:    15, TorsoTiltMax: 20,
			RepMinRange: 40, HoldTarget: 1500 * time.Millisecond,
			BannerTTLFrames: 50,
		},
	},
}

// Lookup returns the canonical profile for an exercise/level pair.
func Lookup(ex Exercise, lvl Level) (Profile, error) {
	byLevel, ok := profiles[ex]
	if !ok {
		return Profile{}, fmt.Errorf("exercise: unknown exercise %q", ex)
	}
	p, ok := byLevel[lvl]
	if !ok {
		return Profile{}, fmt.Errorf("exercise: unknown level %q for %s", lvl, ex)
	}
	return p, nil
}

// All returns every canonical profile, for listing endpoints and tools.
func All() []Profile {
	out := make([]Profile, 0, 4)
	for _, ex := range []Exercise{Squat, LegRaise} {
		for _, lvl := range []Level{Beginner, Pro} {
			out = append(out, profiles[ex][lvl])
		}
	}
	return out
}
