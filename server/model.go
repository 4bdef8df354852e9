package server

import (
	"math/rand/v2"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zucenko/marblerace/model"
	"github.com/zucenko/marblerace/race"
)

// GameServer owns every lobby, player session and running race. All of it
// is mutated only from Loop.
type GameServer struct {
	Lobbies  *Lobbies
	Sessions map[string]*PlayerSession
	Races    map[string]*RaceSession

	Connects   chan *PlayerSession
	Events     chan PlayerEvent
	RaceEvents chan RaceEvent

	Upgrader *websocket.Upgrader
	Settings Settings
	Recorder Recorder

	rand *rand.Rand
	done chan struct{}
}

type PlayerSessionState int

const (
	PS_NEW PlayerSessionState = iota + 1
	PS_LOBBY
	PS_RACE
	PS_OVER
)

type PlayerSession struct {
	State PlayerSessionState
	Id    string
	Conn  *websocket.Conn

	MessagesToSend chan model.ServerMessage

	DebugInMessages  int
	DebugOutMessages int
	DebugLastMessage time.Time
	DebugLastPing    time.Time
	DebugPings       int
}

// RaceSession drives one race on its own goroutine and reports every sync
// to the game server.
type RaceSession struct {
	Code         string
	Seed         int32
	GravityScale float64
	StartedAt    time.Time

	race         *race.Race
	tickInterval time.Duration
	ticksPerSync int
	out          chan<- RaceEvent
	stop         chan struct{}
	done         <-chan struct{}
}
