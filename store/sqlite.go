package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/zucenko/marblerace/model"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one writer, and ":memory:" must stay a single database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteDB{db: db}, nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS races (
			id TEXT PRIMARY KEY,
			lobby_code TEXT NOT NULL,
			seed INTEGER NOT NULL,
			gravity_scale REAL NOT NULL,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS race_results (
			race_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			marble_id TEXT NOT NULL,
			marble_name TEXT NOT NULL,
			marble_color TEXT NOT NULL,
			finish_time REAL NOT NULL,
			PRIMARY KEY (race_id, position),
			FOREIGN KEY (race_id) REFERENCES races(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_races_finished_at ON races(finished_at DESC)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveRace stores a race and its results in one transaction, assigning an
// id when the race has none.
func (s *SQLiteDB) SaveRace(race *Race) error {
	if race.ID == "" {
		race.ID = uuid.New().String()
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO races (id, lobby_code, seed, gravity_scale, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		race.ID, race.LobbyCode, race.Seed, race.GravityScale,
		race.StartedAt.UnixMilli(), race.FinishedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert race %s: %w", race.ID, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO race_results
		(race_id, position, marble_id, marble_name, marble_color, finish_time)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range race.Results {
		if _, err := stmt.Exec(race.ID, r.Position, r.MarbleId, r.MarbleName, r.MarbleColor, r.FinishTime); err != nil {
			return fmt.Errorf("insert result %d of race %s: %w", r.Position, race.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteDB) GetRace(id string) (*Race, error) {
	var race Race
	var started, finished int64
	err := s.db.QueryRow(`SELECT id, lobby_code, seed, gravity_scale, started_at, finished_at
		FROM races WHERE id = ?`, id).Scan(
		&race.ID, &race.LobbyCode, &race.Seed, &race.GravityScale, &started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	race.StartedAt = time.UnixMilli(started).UTC()
	race.FinishedAt = time.UnixMilli(finished).UTC()

	if race.Results, err = s.results(race.ID); err != nil {
		return nil, err
	}
	return &race, nil
}

// ListRaces returns the most recently finished races first, with results.
func (s *SQLiteDB) ListRaces(limit int) ([]Race, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	rows, err := s.db.Query(`SELECT id, lobby_code, seed, gravity_scale, started_at, finished_at
		FROM races ORDER BY finished_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}

	races := make([]Race, 0)
	for rows.Next() {
		var race Race
		var started, finished int64
		if err := rows.Scan(&race.ID, &race.LobbyCode, &race.Seed, &race.GravityScale, &started, &finished); err != nil {
			rows.Close()
			return nil, err
		}
		race.StartedAt = time.UnixMilli(started).UTC()
		race.FinishedAt = time.UnixMilli(finished).UTC()
		races = append(races, race)
	}
	// the single connection has to be free before the result queries
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range races {
		if races[i].Results, err = s.results(races[i].ID); err != nil {
			return nil, err
		}
	}
	return races, nil
}

func (s *SQLiteDB) results(raceID string) ([]model.RaceResult, error) {
	rows, err := s.db.Query(`SELECT position, marble_id, marble_name, marble_color, finish_time
		FROM race_results WHERE race_id = ? ORDER BY position`, raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]model.RaceResult, 0)
	for rows.Next() {
		var r model.RaceResult
		if err := rows.Scan(&r.Position, &r.MarbleId, &r.MarbleName, &r.MarbleColor, &r.FinishTime); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
