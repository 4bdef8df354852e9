package config

import (
	"errors"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/marblerace/model"
	"github.com/zucenko/marblerace/race"
)

type Config struct {
	Port           string
	LogLevel       log.Level
	DBPath         string
	TickRate       int
	SyncRate       int
	Countdown      time.Duration
	GravityScale   float64
	OOBMargin      float64
	StuckInterval  time.Duration
	StuckThreshold float64
	MaxPlayers     int
}

// Load reads an optional .env file into the environment and builds the
// configuration from it.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("config: cant read .env: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from getenv. Unparsable or out of range
// values fall back to their defaults.
func FromEnv(getenv func(string) string) *Config {
	e := env(getenv)
	c := &Config{
		Port:           e.str("PORT", "3001"),
		DBPath:         e.str("DB_PATH", ""),
		TickRate:       e.positiveInt("TICK_RATE", model.TickRate),
		SyncRate:       e.positiveInt("SYNC_RATE", model.SyncRate),
		Countdown:      time.Duration(e.float("COUNTDOWN_SECONDS", model.CountdownSeconds, 0) * float64(time.Second)),
		GravityScale:   e.float("GRAVITY_SCALE", model.DefaultGravityScale, model.MinGravityScale),
		OOBMargin:      e.float("OOB_MARGIN", 500, 1),
		StuckInterval:  time.Duration(e.positiveInt("STUCK_CHECK_MS", 800)) * time.Millisecond,
		StuckThreshold: e.float("STUCK_THRESHOLD", 6, 0),
		MaxPlayers:     e.positiveInt("MAX_PLAYERS", model.MaxMarbles),
	}
	c.GravityScale = math.Min(c.GravityScale, model.MaxGravityScale)
	if c.SyncRate > c.TickRate {
		c.SyncRate = c.TickRate
	}
	if c.MaxPlayers > model.MaxMarbles {
		c.MaxPlayers = model.MaxMarbles
	}

	c.LogLevel = log.InfoLevel
	if lvl := getenv("LOG_LEVEL"); lvl != "" {
		parsed, err := log.ParseLevel(lvl)
		if err != nil {
			log.Warnf("config: LOG_LEVEL %q: %v", lvl, err)
		} else {
			c.LogLevel = parsed
		}
	}
	return c
}

func (c *Config) RaceSettings() race.Settings {
	return race.Settings{
		TickRate:       c.TickRate,
		Countdown:      c.Countdown,
		GravityScale:   c.GravityScale,
		OOBMargin:      c.OOBMargin,
		StuckInterval:  c.StuckInterval,
		StuckThreshold: c.StuckThreshold,
	}
}

type env func(string) string

func (e env) str(key, def string) string {
	if v := e(key); v != "" {
		return v
	}
	return def
}

func (e env) positiveInt(key string, def int) int {
	v := e(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warnf("config: %s=%q is not a positive integer, using %d", key, v, def)
		return def
	}
	return n
}

func (e env) float(key string, def, min float64) float64 {
	v := e(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < min {
		log.Warnf("config: %s=%q is not a number >= %v, using %v", key, v, min, def)
		return def
	}
	return f
}
