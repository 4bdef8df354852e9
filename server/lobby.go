package server

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/zucenko/marblerace/model"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Lobbies is the lobby table plus the player -> lobby index.
type Lobbies struct {
	byCode     map[string]*model.Lobby
	byPlayer   map[string]string
	maxPlayers int
	rand       *rand.Rand
}

func NewLobbies(maxPlayers int, r *rand.Rand) *Lobbies {
	if maxPlayers <= 0 || maxPlayers > model.MaxMarbles {
		maxPlayers = model.MaxMarbles
	}
	return &Lobbies{
		byCode:     make(map[string]*model.Lobby),
		byPlayer:   make(map[string]string),
		maxPlayers: maxPlayers,
		rand:       r,
	}
}

func NewPlayerId() string {
	return "player_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (l *Lobbies) newCode() string {
	var b strings.Builder
	for {
		b.Reset()
		for i := 0; i < model.LobbyCodeLength; i++ {
			b.WriteByte(codeAlphabet[l.rand.IntN(len(codeAlphabet))])
		}
		if _, taken := l.byCode[b.String()]; !taken {
			return b.String()
		}
	}
}

func (l *Lobbies) Len() int { return len(l.byCode) }

func (l *Lobbies) Get(code string) (*model.Lobby, bool) {
	lobby, ok := l.byCode[normalizeCode(code)]
	return lobby, ok
}

func (l *Lobbies) OfPlayer(playerId string) (*model.Lobby, bool) {
	code, ok := l.byPlayer[playerId]
	if !ok {
		return nil, false
	}
	return l.Get(code)
}

// HostedBy returns the lobby of playerId if the player hosts it.
func (l *Lobbies) HostedBy(playerId string) (*model.Lobby, error) {
	lobby, ok := l.OfPlayer(playerId)
	if !ok {
		return nil, ErrNotInLobby
	}
	if lobby.HostId != playerId {
		return nil, ErrNotHost
	}
	return lobby, nil
}

func (l *Lobbies) Create(playerId, playerName, marbleName, marbleColor string) *model.Lobby {
	lobby := &model.Lobby{
		Code:   l.newCode(),
		HostId: playerId,
		State:  model.LobbyWaiting,
		Players: []model.LobbyPlayer{{
			Id:          playerId,
			Name:        playerName,
			MarbleName:  marbleName,
			MarbleColor: marbleColor,
			IsHost:      true,
		}},
		MaxPlayers: l.maxPlayers,
	}
	l.byCode[lobby.Code] = lobby
	l.byPlayer[playerId] = lobby.Code
	return lobby
}

// Join adds a human to a waiting lobby that has room. Codes are case
// insensitive.
func (l *Lobbies) Join(code, playerId, playerName, marbleName, marbleColor string) (*model.Lobby, error) {
	lobby, ok := l.Get(code)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLobbyNotFound, code)
	}
	if lobby.State != model.LobbyWaiting {
		return nil, fmt.Errorf("%w: %s is %s", ErrLobbyNotWaiting, lobby.Code, lobby.State)
	}
	if len(lobby.Players) >= lobby.MaxPlayers {
		return nil, fmt.Errorf("%w: %s", ErrLobbyFull, lobby.Code)
	}
	lobby.Players = append(lobby.Players, model.LobbyPlayer{
		Id:          playerId,
		Name:        playerName,
		MarbleName:  marbleName,
		MarbleColor: marbleColor,
	})
	l.byPlayer[playerId] = lobby.Code
	return lobby, nil
}

// Leave removes a player from its lobby. When the host leaves, the first
// remaining human becomes host. The lobby is dropped, and nil returned, when
// no human is left in it. ok is false if the player was in no lobby.
func (l *Lobbies) Leave(playerId string) (lobby *model.Lobby, ok bool) {
	lobby, ok = l.OfPlayer(playerId)
	delete(l.byPlayer, playerId)
	if !ok {
		return nil, false
	}

	kept := lobby.Players[:0]
	for _, p := range lobby.Players {
		if p.Id != playerId {
			kept = append(kept, p)
		}
	}
	lobby.Players = kept

	host := -1
	for i, p := range lobby.Players {
		if !p.IsBot {
			host = i
			break
		}
	}
	if host < 0 {
		delete(l.byCode, lobby.Code)
		return nil, true
	}
	if lobby.HostId == playerId {
		lobby.HostId = lobby.Players[host].Id
		lobby.Players[host].IsHost = true
	}
	return lobby, true
}

// AddBot appends a bot. Empty name or colour picks the first one nobody in
// the lobby uses yet.
func (l *Lobbies) AddBot(lobby *model.Lobby, name, color string) error {
	if len(lobby.Players) >= lobby.MaxPlayers {
		return fmt.Errorf("%w: %s", ErrLobbyFull, lobby.Code)
	}
	if name == "" {
		name = unusedName(lobby)
	}
	if color == "" {
		color = l.unusedColor(lobby)
	}
	lobby.Players = append(lobby.Players, model.LobbyPlayer{
		Id:          NewPlayerId(),
		Name:        name,
		MarbleName:  name,
		MarbleColor: color,
		IsBot:       true,
	})
	return nil
}

// RemoveBot drops the bot with botId. Humans are never removed this way.
func (l *Lobbies) RemoveBot(lobby *model.Lobby, botId string) bool {
	for i, p := range lobby.Players {
		if p.Id == botId && p.IsBot {
			lobby.Players = append(lobby.Players[:i], lobby.Players[i+1:]...)
			return true
		}
	}
	return false
}

func unusedName(lobby *model.Lobby) string {
	used := make(map[string]bool, len(lobby.Players))
	for _, p := range lobby.Players {
		used[p.MarbleName] = true
	}
	for _, n := range model.PlayerNames {
		if !used[n] {
			return n
		}
	}
	return fmt.Sprintf("Player %d", len(lobby.Players))
}

func (l *Lobbies) unusedColor(lobby *model.Lobby) string {
	used := make(map[string]bool, len(lobby.Players))
	for _, p := range lobby.Players {
		used[p.MarbleColor] = true
	}
	for _, c := range model.MarbleColors {
		if !used[c] {
			return c
		}
	}
	return fmt.Sprintf("hsl(%d, 70%%, 55%%)", l.rand.IntN(360))
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
