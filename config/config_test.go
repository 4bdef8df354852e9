package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zucenko/marblerace/race"
)

func fakeEnv(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestDefaults(t *testing.T) {
	c := FromEnv(fakeEnv(nil))

	assert.Equal(t, "3001", c.Port)
	assert.Equal(t, log.InfoLevel, c.LogLevel)
	assert.Empty(t, c.DBPath)
	assert.Equal(t, 20, c.MaxPlayers)
	assert.Equal(t, 60, c.TickRate)
	assert.Equal(t, 30, c.SyncRate)
	assert.Equal(t, race.DefaultSettings(), c.RaceSettings())
}

func TestOverrides(t *testing.T) {
	c := FromEnv(fakeEnv(map[string]string{
		"PORT":              "9000",
		"LOG_LEVEL":         "debug",
		"DB_PATH":           "/tmp/races.db",
		"TICK_RATE":         "120",
		"SYNC_RATE":         "20",
		"COUNTDOWN_SECONDS": "1.5",
		"GRAVITY_SCALE":     "0.001",
		"OOB_MARGIN":        "250",
		"STUCK_CHECK_MS":    "400",
		"STUCK_THRESHOLD":   "3",
		"MAX_PLAYERS":       "8",
	}))

	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, log.DebugLevel, c.LogLevel)
	assert.Equal(t, "/tmp/races.db", c.DBPath)
	assert.Equal(t, 20, c.SyncRate)
	assert.Equal(t, 8, c.MaxPlayers)

	s := c.RaceSettings()
	assert.Equal(t, 120, s.TickRate)
	assert.Equal(t, 1500*time.Millisecond, s.Countdown)
	assert.Equal(t, 0.001, s.GravityScale)
	assert.Equal(t, 250.0, s.OOBMargin)
	assert.Equal(t, 400*time.Millisecond, s.StuckInterval)
	assert.Equal(t, 3.0, s.StuckThreshold)
}

func TestInvalidValuesFallBack(t *testing.T) {
	c := FromEnv(fakeEnv(map[string]string{
		"LOG_LEVEL":     "chatty",
		"TICK_RATE":     "-4",
		"SYNC_RATE":     "fast",
		"GRAVITY_SCALE": "NaN",
		"OOB_MARGIN":    "0",
		"MAX_PLAYERS":   "500",
	}))

	assert.Equal(t, log.InfoLevel, c.LogLevel)
	assert.Equal(t, 60, c.TickRate)
	assert.Equal(t, 30, c.SyncRate)
	assert.Equal(t, 0.0004, c.GravityScale)
	assert.Equal(t, 500.0, c.OOBMargin)
	assert.Equal(t, 20, c.MaxPlayers)
}

func TestClamps(t *testing.T) {
	c := FromEnv(fakeEnv(map[string]string{
		"TICK_RATE":     "30",
		"SYNC_RATE":     "60",
		"GRAVITY_SCALE": "0.5",
	}))
	assert.Equal(t, 30, c.SyncRate)
	assert.Equal(t, 0.002, c.GravityScale)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MAX_PLAYERS=4\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(wd)
		os.Unsetenv("MAX_PLAYERS")
	})

	assert.Equal(t, 4, Load().MaxPlayers)
}

func TestLoadWithoutDotEnv(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("PORT", "4242")

	assert.Equal(t, "4242", Load().Port)
}
