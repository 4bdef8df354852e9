package server

import (
	"math"
	"time"

	"github.com/zucenko/marblerace/config"
	"github.com/zucenko/marblerace/model"
	"github.com/zucenko/marblerace/race"
)

type Settings struct {
	Race       race.Settings
	SyncRate   int
	MaxPlayers int
	// wall clock time between two ticks, zero means one race tick
	TickInterval time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		Race:       race.DefaultSettings(),
		SyncRate:   model.SyncRate,
		MaxPlayers: model.MaxMarbles,
	}
}

func NewSettings(c *config.Config) Settings {
	return Settings{
		Race:       c.RaceSettings(),
		SyncRate:   c.SyncRate,
		MaxPlayers: c.MaxPlayers,
	}
}

func (s Settings) ticksPerSync() int {
	if s.SyncRate <= 0 {
		return 1
	}
	n := int(math.Round(float64(s.Race.TickRate) / float64(s.SyncRate)))
	if n < 1 {
		return 1
	}
	return n
}

func (s Settings) tickInterval(rs race.Settings) time.Duration {
	if s.TickInterval > 0 {
		return s.TickInterval
	}
	return rs.Tick()
}
