package model

const (
	MsgLobbyCreated = "lobby_created"
	MsgLobbyJoined  = "lobby_joined"
	MsgLobbyUpdated = "lobby_updated"
	MsgRaceStart    = "race_start"
	MsgRaceState    = "race_state"
	MsgRaceFinished = "race_finished"
	MsgError        = "error"
	MsgPlayerLeft   = "player_left"
)

type ServerMessage struct {
	Type         string         `json:"type"`
	Lobby        *Lobby         `json:"lobby,omitempty"`
	PlayerId     string         `json:"playerId,omitempty"`
	TrackSeed    *int32         `json:"trackSeed,omitempty"`
	Marbles      []MarbleConfig `json:"marbles,omitempty"`
	GravityScale float64        `json:"gravityScale,omitempty"`
	State        *RaceState     `json:"state,omitempty"`
	Results      []RaceResult   `json:"results,omitempty"`
	Message      string         `json:"message,omitempty"`
}

func LobbyCreated(l *Lobby, playerId string) ServerMessage {
	return ServerMessage{Type: MsgLobbyCreated, Lobby: l, PlayerId: playerId}
}

func LobbyJoined(l *Lobby, playerId string) ServerMessage {
	return ServerMessage{Type: MsgLobbyJoined, Lobby: l, PlayerId: playerId}
}

func LobbyUpdated(l *Lobby) ServerMessage {
	return ServerMessage{Type: MsgLobbyUpdated, Lobby: l}
}

func PlayerLeft(playerId string, l *Lobby) ServerMessage {
	return ServerMessage{Type: MsgPlayerLeft, PlayerId: playerId, Lobby: l}
}

func RaceStart(seed int32, marbles []MarbleConfig, gravityScale float64) ServerMessage {
	return ServerMessage{Type: MsgRaceStart, TrackSeed: &seed, Marbles: marbles, GravityScale: gravityScale}
}

func RaceStateUpdate(s RaceState) ServerMessage {
	return ServerMessage{Type: MsgRaceState, State: &s}
}

func RaceFinishedMessage(results []RaceResult) ServerMessage {
	return ServerMessage{Type: MsgRaceFinished, Results: results}
}

func Error(message string) ServerMessage {
	return ServerMessage{Type: MsgError, Message: message}
}
