package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/marblerace/model"
)

// maxFrame bounds how much wall time one frame may feed into the simulation.
const maxFrame = 50 * time.Millisecond

type ClientConfig struct {
	ServerURL string
	Practice  bool
	Name      string
	Color     string
	Bots      int
	Seed      int64
	Gravity   float64
	FrameRate int
	LogLevel  log.Level
}

// Load reads flags, falling back to MARBLE_* variables from the
// environment or an optional .env file.
func Load(args []string) (*ClientConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("reading .env: %v", err)
	}
	level, err := log.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		level = log.InfoLevel
	}

	c := &ClientConfig{LogLevel: level}
	fs := flag.NewFlagSet("marblerace", flag.ContinueOnError)
	fs.StringVar(&c.ServerURL, "server", envOr("MARBLE_SERVER", "ws://localhost:3001/play"), "game server websocket URL")
	fs.BoolVar(&c.Practice, "practice", false, "race locally against bots without a server")
	fs.StringVar(&c.Name, "name", envOr("MARBLE_NAME", "Player"), "player and marble name")
	fs.StringVar(&c.Color, "color", model.MarbleColors[0], "marble color")
	fs.IntVar(&c.Bots, "bots", 3, "number of bots to race against")
	fs.Int64Var(&c.Seed, "seed", -1, "practice track seed, negative picks one")
	fs.Float64Var(&c.Gravity, "gravity", model.DefaultGravityScale, "gravity scale")
	fs.IntVar(&c.FrameRate, "fps", 60, "frames per second")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if c.Bots < 0 || c.Bots >= model.MaxMarbles {
		return nil, fmt.Errorf("bots must be in [0, %d)", model.MaxMarbles)
	}
	if c.Seed > 1<<31-1 {
		return nil, fmt.Errorf("seed %d does not fit in 32 bits", c.Seed)
	}
	if c.FrameRate <= 0 {
		c.FrameRate = 60
	}
	return c, nil
}

func (c *ClientConfig) Frame() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
