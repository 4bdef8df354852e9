package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zucenko/marblerace/model"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MARBLE_SERVER", "")
	t.Setenv("MARBLE_NAME", "")
	c, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:3001/play", c.ServerURL)
	assert.Equal(t, "Player", c.Name)
	assert.False(t, c.Practice)
	assert.Equal(t, 3, c.Bots)
	assert.Equal(t, int64(-1), c.Seed)
	assert.Equal(t, model.DefaultGravityScale, c.Gravity)
	assert.Equal(t, time.Second/60, c.Frame())
}

func TestLoadFlagsAndEnv(t *testing.T) {
	t.Setenv("MARBLE_NAME", "Rollo")
	c, err := Load([]string{"-practice", "-bots", "5", "-seed", "7", "-fps", "0"})
	require.NoError(t, err)
	assert.True(t, c.Practice)
	assert.Equal(t, "Rollo", c.Name)
	assert.Equal(t, 5, c.Bots)
	assert.Equal(t, int64(7), c.Seed)
	assert.Equal(t, 60, c.FrameRate)
}

func TestLoadRejects(t *testing.T) {
	for _, args := range [][]string{
		{"-bots", "20"},
		{"-bots", "-1"},
		{"-seed", "4294967296"},
		{"-nope"},
	} {
		_, err := Load(args)
		assert.Error(t, err, args)
	}
}
