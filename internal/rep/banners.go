package rep

import (
	"github.com/formsense/repcoach/internal/exercise"
	"github.com/formsense/repcoach/internal/overlay"
	"github.com/formsense/repcoach/internal/pose"
)

// cuePresentation fixes each feedback category's banner text, vertical
// anchor and background fill.
type cuePresentation struct {
	text string
	y    float64
	bg   overlay.Color
}

func cueBannerFor(c Cue, ex exercise.Exercise) cuePresentation {
	legRaise := ex == exercise.LegRaise
	switch c {
	case CueKneeLock:
		text := "KNEE FALLING OVER TOE"
		if legRaise {
			text = "LOCK YOUR KNEE"
		}
		return cuePresentation{text, 215, overlay.Color{R: 255, G: 80, B: 80}}
	case CueTorsoTilt:
		text := "BEND BACKWARDS"
		if legRaise {
			text = "DON'T ARCH YOUR BACK"
		}
		return cuePresentation{text, 170, overlay.Color{R: 0, G: 153, B: 255}}
	case CueDepth:
		text := "LOWER YOUR HIPS"
		if legRaise {
			text = "RAISE HIGHER"
		}
		return cuePresentation{text, 125, overlay.Color{R: 255, G: 255, B: 0}}
	case CueControlLowering:
		return cuePresentation{"CONTROL LOWERING", 90, overlay.Color{R: 255, G: 80, B: 80}}
	}
	return cuePresentation{}
}

// sweepCues ages every active cue by one frame, emits its banner, and
// force-clears any cue that has outlived the TTL. The TTL bounds how long a
// stale cue can persist when its trigger stops being re-evaluated.
func (pr *Processor) sweepCues(ann *overlay.Annotations) {
	ttl := pr.Profile.BannerTTLFrames
	for _, c := range allCues {
		cs := pr.State.Cues[c]
		if !cs.Active {
			continue
		}
		cs.Frames++
		pres := cueBannerFor(c, pr.Profile.Exercise)
		ann.AddBanner(pres.text, pose.Point{X: 30, Y: pres.y}, pres.bg)
		if cs.Frames > ttl {
			pr.State.clearCue(c)
		}
	}
}
