package race

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zucenko/marblerace/model"
	"github.com/zucenko/marblerace/track"
)

// ten minutes of race clock
const tickCap = 60 * 60 * 10

func runToFinish(t *testing.T, r *Race) int {
	t.Helper()
	ticks := 0
	for !r.IsFinished() && ticks < tickCap {
		r.Tick()
		ticks++
	}
	require.True(t, r.IsFinished(), "race still %s after %d ticks", r.Status(), ticks)
	return ticks
}

func TestRaceCountdown(t *testing.T) {
	r := New(track.Generate(42), roster(3), DefaultSettings())
	defer r.Destroy()

	start := r.State()
	assert.Equal(t, model.RaceCountdown, start.Status)
	assert.Equal(t, 3.0, start.Countdown)
	assert.Zero(t, start.ElapsedTime)
	assert.Empty(t, start.Results)

	for i := 0; i < 170; i++ {
		r.Tick()
	}
	held := r.State()
	assert.Equal(t, model.RaceCountdown, held.Status)
	assert.InDelta(t, 3-170.0/60, held.Countdown, 1e-6)
	assert.Equal(t, start.Marbles, held.Marbles, "physics must not run during the countdown")

	for i := 0; i < 10 && r.Status() == model.RaceCountdown; i++ {
		r.Tick()
	}
	flipped := r.State()
	require.Equal(t, model.RaceRacing, flipped.Status)
	assert.Zero(t, flipped.Countdown)
	assert.Zero(t, flipped.ElapsedTime)
	assert.Equal(t, start.Marbles, flipped.Marbles)

	r.Tick()
	moving := r.State()
	assert.InDelta(t, 1000.0/60, moving.ElapsedTime, 1e-9)
	assert.NotEqual(t, start.Marbles, moving.Marbles)
}

func TestRaceSeed42(t *testing.T) {
	r := New(track.Generate(42), []model.MarbleConfig{
		{Id: "A", Name: "A", Color: "#FF4136"},
		{Id: "B", Name: "B", Color: "#0074D9"},
		{Id: "C", Name: "C", Color: "#2ECC40"},
	}, DefaultSettings())
	defer r.Destroy()

	runToFinish(t, r)
	state := r.State()
	assert.Equal(t, model.RaceFinished, state.Status)
	require.Len(t, state.Results, 3)

	seen := map[string]bool{}
	for i, res := range state.Results {
		assert.Equal(t, i+1, res.Position)
		assert.False(t, seen[res.MarbleId])
		seen[res.MarbleId] = true
		if res.FinishTime != model.DisqualifiedTime {
			assert.GreaterOrEqual(t, res.FinishTime, 0.0)
			assert.LessOrEqual(t, res.FinishTime, state.ElapsedTime)
		}
	}
	for _, m := range state.Marbles {
		assert.True(t, m.Finished || m.Disqualified, m.Id)
	}

	// finished is terminal
	before := r.State()
	r.Tick()
	assert.Equal(t, before, r.State())
}

func TestRaceReproducible(t *testing.T) {
	run := func() []model.RaceResult {
		r := New(track.Generate(42), roster(1), DefaultSettings())
		defer r.Destroy()
		runToFinish(t, r)
		return r.Results()
	}
	first := run()
	require.Len(t, first, 1)
	assert.Equal(t, first, run())
}

func TestRaceTerminates(t *testing.T) {
	if testing.Short() {
		t.Skip("full races")
	}
	for _, tc := range []struct {
		seed    int32
		marbles int
	}{
		{1, 2},
		{7, 20},
		{424242, 8},
		{-5, 5},
	} {
		r := New(track.Generate(tc.seed), roster(tc.marbles), DefaultSettings())
		runToFinish(t, r)
		assert.Len(t, r.Results(), tc.marbles, "seed %d", tc.seed)
		r.Destroy()
	}
}

func TestRaceGravityOverride(t *testing.T) {
	heavy, err := DefaultSettings().WithGravity(0.002)
	require.NoError(t, err)
	heavy.Countdown = 0

	light := DefaultSettings()
	light.Countdown = 0

	fall := func(s Settings) float64 {
		r := New(openTrack(), roster(1), s)
		defer r.Destroy()
		for i := 0; i < 20; i++ {
			r.Tick()
		}
		return r.State().Marbles[0].Y
	}
	assert.Greater(t, fall(heavy), 3*fall(light))
}

func TestRaceDestroy(t *testing.T) {
	r := New(track.Generate(11), roster(2), DefaultSettings())
	r.Advance(4 * time.Second)
	for i := 0; i < 30; i++ {
		r.Tick()
	}
	last := r.State()
	r.Destroy()
	r.Destroy()
	r.Tick()
	assert.Equal(t, last, r.State())
	assert.Equal(t, model.RaceRacing, r.Status())
}

func TestClampGravity(t *testing.T) {
	for _, tc := range []struct {
		in   float64
		want float64
	}{
		{0.0004, 0.0004},
		{0.00001, model.MinGravityScale},
		{1, model.MaxGravityScale},
		{0.002, 0.002},
	} {
		got, err := ClampGravity(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
	for _, bad := range []float64{0, -0.001, math.NaN(), math.Inf(1)} {
		_, err := ClampGravity(bad)
		assert.ErrorIs(t, err, ErrInvalidGravity)
	}
}

func TestSettingsTick(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, time.Second/60, s.Tick())
	s.TickRate = 30
	assert.Equal(t, time.Second/30, s.Tick())
	s.TickRate = 0
	assert.Equal(t, time.Second/60, s.Tick())
	assert.Equal(t, 1000.0/60, s.TickMillis())
	s.TickRate = 30
	assert.Equal(t, 1000.0/30, s.TickMillis())
}

func TestRaceClockCountsWholeTicks(t *testing.T) {
	r := New(track.Generate(42), roster(1), DefaultSettings())
	defer r.Destroy()

	// a three second countdown is exactly 180 ticks at 60Hz
	for i := 0; i < 180; i++ {
		r.Tick()
	}
	require.Equal(t, model.RaceRacing, r.Status())

	racing := 0
	for ; racing < 600 && !r.IsFinished(); racing++ {
		r.Tick()
	}
	require.Greater(t, racing, 60)
	assert.InDelta(t, float64(racing)*1000/60, r.State().ElapsedTime, 1e-6)
}
