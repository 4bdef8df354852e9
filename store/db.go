package store

import (
	"errors"
	"time"

	"github.com/zucenko/marblerace/model"
)

var ErrNotFound = errors.New("race not found")

// DB is the race history. A nil DB in the server disables recording.
type DB interface {
	Close() error
	Migrate() error
	SaveRace(race *Race) error
	GetRace(id string) (*Race, error)
	ListRaces(limit int) ([]Race, error)
}

// Race is one finished networked race.
type Race struct {
	ID           string             `json:"id"`
	LobbyCode    string             `json:"lobbyCode"`
	Seed         int32              `json:"seed"`
	GravityScale float64            `json:"gravityScale"`
	StartedAt    time.Time          `json:"startedAt"`
	FinishedAt   time.Time          `json:"finishedAt"`
	Results      []model.RaceResult `json:"results"`
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)
