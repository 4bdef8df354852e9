package race

import (
	"errors"
	"math"
	"time"

	"github.com/zucenko/marblerace/model"
)

var ErrInvalidGravity = errors.New("gravity scale must be a positive number")

// Settings tunes one race. The zero value is not usable, start from
// DefaultSettings.
type Settings struct {
	TickRate       int
	Countdown      time.Duration
	GravityScale   float64
	OOBMargin      float64
	StuckInterval  time.Duration
	StuckThreshold float64
}

func DefaultSettings() Settings {
	return Settings{
		TickRate:       model.TickRate,
		Countdown:      model.CountdownSeconds * time.Second,
		GravityScale:   model.DefaultGravityScale,
		OOBMargin:      500,
		StuckInterval:  800 * time.Millisecond,
		StuckThreshold: 6,
	}
}

// Tick is the simulated time covered by one tick.
func (s Settings) Tick() time.Duration {
	if s.TickRate <= 0 {
		return time.Second / model.TickRate
	}
	return time.Second / time.Duration(s.TickRate)
}

// TickMillis is one tick of race clock in milliseconds. The race clock
// advances by it exactly, so it never drifts from tick count.
func (s Settings) TickMillis() float64 {
	if s.TickRate <= 0 {
		return 1000.0 / model.TickRate
	}
	return 1000 / float64(s.TickRate)
}

// WithGravity returns a copy using the requested gravity scale clamped into
// the supported range.
func (s Settings) WithGravity(g float64) (Settings, error) {
	g, err := ClampGravity(g)
	if err != nil {
		return s, err
	}
	s.GravityScale = g
	return s, nil
}

func ClampGravity(g float64) (float64, error) {
	if math.IsNaN(g) || math.IsInf(g, 0) || g <= 0 {
		return 0, ErrInvalidGravity
	}
	return math.Max(model.MinGravityScale, math.Min(model.MaxGravityScale, g)), nil
}
