package rep

import (
	"fmt"
	"time"

	"github.com/formsense/repcoach/internal/overlay"
	"github.com/formsense/repcoach/internal/pose"
)

// alignmentBanner is the background fill for the misalignment warning.
var alignmentBanner = overlay.Color{R: 255, G: 153, B: 0}

// OffsetAngle is the frontal-alignment score: the angle at the nose between
// the rays to the two shoulders. Seen from the side the shoulders nearly
// coincide and the score is small; it grows as the view turns frontal. Only
// the threshold comparison is contractual.
func OffsetAngle(nose, leftShoulder, rightShoulder pose.Point) (float64, error) {
	return pose.AngleAt(nose, leftShoulder, rightShoulder)
}

// checkAlignment gates the frame on the camera-alignment score. When the view
// is misaligned it accumulates front-view inactivity (possibly firing a hard
// reset), zeroes the side-view accumulator, annotates the warning, and
// reports handled=true so the caller skips classification for this frame.
// A degenerate offset computation counts as aligned: the check is skipped for
// the frame rather than propagated.
func (pr *Processor) checkAlignment(ann *overlay.Annotations, f pose.Frame, nose, lsh, rsh pose.Point, now time.Time) (handled bool, ev *Event) {
	offset, err := OffsetAngle(nose, lsh, rsh)
	if err != nil || offset <= pr.Profile.OffsetThresh {
		pr.State.resetFront(now)
		return false, nil
	}

	total := pr.State.accumulateFront(now)

	ann.AlignmentMarkers(nose, lsh, rsh)
	ann.AddBanner("CAMERA NOT ALIGNED PROPERLY!!!", pose.Point{X: 30, Y: float64(f.Height - 60)}, alignmentBanner)
	ann.AddBanner(fmt.Sprintf("OFFSET ANGLE: %d", int(offset)), pose.Point{X: 30, Y: float64(f.Height - 30)}, alignmentBanner)

	if total >= pr.Profile.InactiveThresh {
		pr.State.HardReset(now)
		ev = &Event{Kind: EventHardReset}
	}
	pr.State.resetSide(now)
	return true, ev
}
