package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zucenko/marblerace/model"
	"github.com/zucenko/marblerace/track"
)

func TestRunPrintsTrackJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-seed", "42"}, &out))

	var got model.Track
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, *track.Generate(42), got)
}

func TestRunSummary(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-seed", "7", "-summary"}, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	tr := track.Generate(7)
	require.Len(t, lines, len(tr.Segments)+2)
	assert.Equal(t, "seed 7", lines[0])
	assert.Contains(t, lines[1], string(model.SegmentFunnel))
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "finish y="))
}

func TestRunRejectsWideSeed(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run([]string{"-seed", "4294967296"}, &out))
	assert.Error(t, run([]string{"-bogus"}, &out))
}
