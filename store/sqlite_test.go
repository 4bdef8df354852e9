package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zucenko/marblerace/model"
)

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "races.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())
	return db
}

func sampleRace(code string, finished time.Time) *Race {
	return &Race{
		LobbyCode:    code,
		Seed:         424242,
		GravityScale: 0.0004,
		StartedAt:    finished.Add(-45 * time.Second),
		FinishedAt:   finished,
		Results: []model.RaceResult{
			{MarbleId: "a", MarbleName: "Comet", MarbleColor: "#FF4136", Position: 1, FinishTime: 31250.5},
			{MarbleId: "b", MarbleName: "Onyx", MarbleColor: "#0074D9", Position: 2, FinishTime: 33000},
			{MarbleId: "c", MarbleName: "Jade", MarbleColor: "#2ECC40", Position: 3, FinishTime: model.DisqualifiedTime},
		},
	}
}

func TestSaveAndGetRace(t *testing.T) {
	db := newTestDB(t)
	finished := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	race := sampleRace("ABC234", finished)

	require.NoError(t, db.SaveRace(race))
	require.NotEmpty(t, race.ID)

	got, err := db.GetRace(race.ID)
	require.NoError(t, err)
	assert.Equal(t, race, got)
}

func TestSaveRaceKeepsID(t *testing.T) {
	db := newTestDB(t)
	race := sampleRace("XYZ789", time.Now().UTC().Truncate(time.Millisecond))
	race.ID = "fixed-id"
	require.NoError(t, db.SaveRace(race))

	got, err := db.GetRace("fixed-id")
	require.NoError(t, err)
	assert.Equal(t, "XYZ789", got.LobbyCode)

	// same id twice is rejected and leaves no partial rows
	assert.Error(t, db.SaveRace(race))
	list, err := db.ListRaces(0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGetRaceNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetRace("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRaces(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, db.SaveRace(sampleRace(fmt.Sprintf("LOBBY%d", i), base.Add(time.Duration(i)*time.Minute))))
	}

	all, err := db.ListRaces(0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "LOBBY4", all[0].LobbyCode)
	assert.Equal(t, "LOBBY0", all[4].LobbyCode)
	for _, r := range all {
		assert.Len(t, r.Results, 3)
	}

	two, err := db.ListRaces(2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
	assert.Equal(t, "LOBBY3", two[1].LobbyCode)
}

func TestListRacesEmpty(t *testing.T) {
	db := newTestDB(t)
	list, err := db.ListRaces(10)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestMigrateTwice(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, db.Migrate())
}

func TestInMemory(t *testing.T) {
	db, err := NewSQLiteDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())
	require.NoError(t, db.SaveRace(sampleRace("MEMORY", time.Now())))

	list, err := db.ListRaces(1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
