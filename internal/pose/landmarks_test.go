package pose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLandmarks() []Point {
	lm := make([]Point, LandmarkCount)
	for i := range lm {
		lm[i] = Point{X: 0.5, Y: 0.5}
	}
	lm[idxNose] = Point{X: 0.5, Y: 0.1}
	lm[idxLeftShoulder] = Point{X: 0.4, Y: 0.2}
	lm[idxRightShoulder] = Point{X: 0.6, Y: 0.2}
	lm[idxLeftHip] = Point{X: 0.4, Y: 0.5}
	lm[idxLeftKnee] = Point{X: 0.4, Y: 0.7}
	lm[idxLeftAnkle] = Point{X: 0.4, Y: 0.9}
	lm[idxLeftFoot] = Point{X: 0.45, Y: 0.95}
	lm[idxRightFoot] = Point{X: 0.6, Y: 0.4}
	return lm
}

func TestExtractJoints(t *testing.T) {
	t.Parallel()

	t.Run("converts normalised coordinates to pixels", func(t *testing.T) {
		t.Parallel()
		f := Frame{Landmarks: testLandmarks(), Width: 1000, Height: 500}

		left, right, nose, err := ExtractJoints(f)
		require.NoError(t, err)

		assert.Equal(t, Point{X: 500, Y: 50}, nose)
		assert.Equal(t, Point{X: 400, Y: 100}, left.Shoulder)
		assert.Equal(t, Point{X: 600, Y: 100}, right.Shoulder)
		assert.Equal(t, Point{X: 400, Y: 350}, left.Knee)
		assert.Equal(t, SideLeft, left.Side)
		assert.Equal(t, SideRight, right.Side)
	})

	t.Run("rejects short landmark arrays", func(t *testing.T) {
		t.Parallel()
		f := Frame{Landmarks: make([]Point, 10), Width: 640, Height: 480}
		_, _, _, err := ExtractJoints(f)
		assert.Error(t, err)
	})
}

func TestDetected(t *testing.T) {
	t.Parallel()
	assert.False(t, Frame{Width: 640, Height: 480}.Detected())
	assert.True(t, Frame{Landmarks: testLandmarks(), Width: 640, Height: 480}.Detected())
}

func TestSpanSelector(t *testing.T) {
	t.Parallel()

	f := Frame{Landmarks: testLandmarks(), Width: 1000, Height: 500}
	left, right, _, err := ExtractJoints(f)
	require.NoError(t, err)

	// Left shoulder-to-foot span is 0.75 of the frame height; right is 0.2.
	picked := SpanSelector{}.Select(left, right)
	assert.Equal(t, SideLeft, picked.Side)

	// Ties go left.
	same := SpanSelector{}.Select(left, left)
	assert.Equal(t, SideLeft, same.Side)
}

func TestFixedSelector(t *testing.T) {
	t.Parallel()

	f := Frame{Landmarks: testLandmarks(), Width: 1000, Height: 500}
	left, right, _, err := ExtractJoints(f)
	require.NoError(t, err)

	assert.Equal(t, SideRight, FixedSelector{Side: SideRight}.Select(left, right).Side)
	assert.Equal(t, SideLeft, FixedSelector{Side: SideLeft}.Select(left, right).Side)
}
