package model

type LobbyState string

const (
	LobbyWaiting   LobbyState = "waiting"
	LobbyCountdown LobbyState = "countdown"
	LobbyRacing    LobbyState = "racing"
	LobbyResults   LobbyState = "results"
)

type LobbyPlayer struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	MarbleName  string `json:"marbleName"`
	MarbleColor string `json:"marbleColor"`
	IsHost      bool   `json:"isHost"`
	IsBot       bool   `json:"isBot"`
}

type Lobby struct {
	Code         string        `json:"code"`
	HostId       string        `json:"hostId"`
	State        LobbyState    `json:"state"`
	Players      []LobbyPlayer `json:"players"`
	TrackSeed    *int32        `json:"trackSeed,omitempty"`
	GravityScale *float64      `json:"gravityScale,omitempty"`
	MaxPlayers   int           `json:"maxPlayers"`
}

// Roster turns the lobby membership into the ordered marble list of a race.
func (l *Lobby) Roster() []MarbleConfig {
	marbles := make([]MarbleConfig, 0, len(l.Players))
	for _, p := range l.Players {
		mc := MarbleConfig{
			Id:    p.Id,
			Name:  p.MarbleName,
			Color: p.MarbleColor,
			IsBot: p.IsBot,
		}
		if !p.IsBot {
			mc.OwnerId = p.Id
		}
		marbles = append(marbles, mc)
	}
	return marbles
}

// Clone returns a deep copy safe to hand to another goroutine.
func (l *Lobby) Clone() *Lobby {
	c := *l
	c.Players = append([]LobbyPlayer(nil), l.Players...)
	if l.TrackSeed != nil {
		s := *l.TrackSeed
		c.TrackSeed = &s
	}
	if l.GravityScale != nil {
		g := *l.GravityScale
		c.GravityScale = &g
	}
	return &c
}

func (l *Lobby) Player(id string) (LobbyPlayer, bool) {
	for _, p := range l.Players {
		if p.Id == id {
			return p, true
		}
	}
	return LobbyPlayer{}, false
}
