package model

const (
	MsgCreateLobby = "create_lobby"
	MsgJoinLobby   = "join_lobby"
	MsgAddBot      = "add_bot"
	MsgRemoveBot   = "remove_bot"
	MsgStartRace   = "start_race"
	MsgLeaveLobby  = "leave_lobby"
)

// ClientMessage is the flat union of everything a client may send. Which
// fields are meaningful depends on Type.
type ClientMessage struct {
	Type         string   `json:"type"`
	PlayerName   string   `json:"playerName,omitempty"`
	MarbleName   string   `json:"marbleName,omitempty"`
	MarbleColor  string   `json:"marbleColor,omitempty"`
	Code         string   `json:"code,omitempty"`
	BotName      string   `json:"botName,omitempty"`
	BotColor     string   `json:"botColor,omitempty"`
	BotId        string   `json:"botId,omitempty"`
	GravityScale *float64 `json:"gravityScale,omitempty"`
}

func knownClientType(t string) bool {
	switch t {
	case MsgCreateLobby, MsgJoinLobby, MsgAddBot, MsgRemoveBot, MsgStartRace, MsgLeaveLobby:
		return true
	}
	return false
}
