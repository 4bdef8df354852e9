package server

import (
	"errors"
	"fmt"

	"github.com/zucenko/marblerace/model"
	"github.com/zucenko/marblerace/store"
)

const HTTP_SUCCESS = 200
const HTTP_BAD_REQUEST = 400
const HTTP_NOT_FOUND = 404
const HTTP_SERVER_ERR = 503

var (
	ErrLobbyNotFound    = errors.New("lobby not found")
	ErrLobbyFull        = errors.New("lobby full")
	ErrLobbyNotWaiting  = errors.New("lobby not waiting")
	ErrNotInLobby       = errors.New("player not in a lobby")
	ErrNotHost          = errors.New("player is not the host")
	ErrNotEnoughMarbles = errors.New("not enough marbles")
	ErrRaceRunning      = errors.New("race already running")
)

const (
	MsgInvalidFormat  = "Invalid message format"
	MsgCannotJoin     = "Lobby not found, full, or already racing."
	MsgHostAddBot     = "Only the host can add bots."
	MsgHostRemoveBot  = "Only the host can remove bots."
	MsgHostStartRace  = "Only the host can start the race."
	MsgNotEnough      = "Need at least 2 marbles to race."
	MsgLobbyFull      = "Lobby is full."
	MsgRaceRunning    = "A race is already running."
	MsgInvalidGravity = "Invalid gravity scale."
)

// Recorder keeps finished races. store.SQLiteDB is one.
type Recorder interface {
	SaveRace(race *store.Race) error
}

func (ps PlayerSessionState) Name() string {
	switch ps {
	case PS_NEW:
		return "NEW"
	case PS_LOBBY:
		return "LOBBY"
	case PS_RACE:
		return "RACE"
	case PS_OVER:
		return "OVER"
	default:
		return fmt.Sprintf("n/a:%d", ps)
	}
}

// PlayerEvent is what a read pump hands to the game server: a decoded
// message, a decode failure, or the end of the connection.
type PlayerEvent struct {
	PlayerId     string
	Message      model.ClientMessage
	Err          error
	Disconnected bool
}

// RaceEvent is one state sync of a running race. The last one of a race
// has Finished set.
type RaceEvent struct {
	Code     string
	State    model.RaceState
	Finished bool
}
