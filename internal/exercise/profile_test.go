package exercise

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	cases := []struct {
		ex     Exercise
		lvl    Level
		normal Band
		trans  Band
		pass   Band
	}{
		{Squat, Beginner, Band{0, 32}, Band{35, 65}, Band{70, 95}},
		{Squat, Pro, Band{0, 32}, Band{35, 65}, Band{80, 95}},
		{LegRaise, Beginner, Band{0, 15}, Band{16, 60}, Band{61, 95}},
		{LegRaise, Pro, Band{0, 20}, Band{21, 75}, Band{76, 95}},
	}
	for _, tc := range cases {
		p, err := Lookup(tc.ex, tc.lvl)
		require.NoError(t, err)
		assert.Equal(t, tc.normal, p.Normal)
		assert.Equal(t, tc.trans, p.Trans)
		assert.Equal(t, tc.pass, p.Pass)
		assert.NoError(t, p.Validate())
	}

	_, err := Lookup("deadlift", Beginner)
	assert.Error(t, err)
	_, err = Lookup(Squat, "expert")
	assert.Error(t, err)
}

func TestHoldTargets(t *testing.T) {
	t.Parallel()

	lb, err := Lookup(LegRaise, Beginner)
	require.NoError(t, err)
	assert.Equal(t, time.Second, lb.HoldTarget)

	lp, err := Lookup(LegRaise, Pro)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, lp.HoldTarget)

	sb, err := Lookup(Squat, Beginner)
	require.NoError(t, err)
	assert.Zero(t, sb.HoldTarget)
}

func TestBandContains(t *testing.T) {
	t.Parallel()

	b := Band{Low: 16, High: 60}
	assert.True(t, b.Contains(16))
	assert.True(t, b.Contains(60))
	assert.True(t, b.Contains(38.5))
	assert.False(t, b.Contains(15.9))
	assert.False(t, b.Contains(60.1))
}

func TestProfileValidate(t *testing.T) {
	t.Parallel()

	base, err := Lookup(LegRaise, Beginner)
	require.NoError(t, err)

	t.Run("inverted band", func(t *testing.T) {
		t.Parallel()
		p := base
		p.Trans = Band{Low: 60, High: 16}
		assert.Error(t, p.Validate())
	})

	t.Run("overlapping bands", func(t *testing.T) {
		t.Parallel()
		p := base
		p.Normal = Band{Low: 0, High: 40}
		assert.Error(t, p.Validate())

		p = base
		p.Pass = Band{Low: 50, High: 95}
		assert.Error(t, p.Validate())
	})

	t.Run("gaps between bands are legal", func(t *testing.T) {
		t.Parallel()
		p := base
		p.Normal = Band{Low: 0, High: 10}
		p.Trans = Band{Low: 20, High: 50}
		p.Pass = Band{Low: 70, High: 95}
		assert.NoError(t, p.Validate())
	})

	t.Run("scalar limits", func(t *testing.T) {
		t.Parallel()
		p := base
		p.OffsetThresh = 0
		assert.Error(t, p.Validate())

		p = base
		p.InactiveThresh = 0
		assert.Error(t, p.Validate())

		p = base
		p.RepMinRange = -1
		assert.Error(t, p.Validate())

		p = base
		p.HoldTarget = -time.Second
		assert.Error(t, p.Validate())

		p = base
		p.BannerTTLFrames = 0
		assert.Error(t, p.Validate())
	})
}

func TestAll(t *testing.T) {
	t.Parallel()
	all := All()
	require.Len(t, all, 4)
	for _, p := range all {
		assert.NoError(t, p.Validate())
	}
}
