package server

import (
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/marblerace/model"
	"github.com/zucenko/marblerace/store"
	"github.com/zucenko/marblerace/track"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendBuffer     = 64
	maxSeed        = 999999
)

func NewGameServer(settings Settings, recorder Recorder) *GameServer {
	r := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	return &GameServer{
		Lobbies:    NewLobbies(settings.MaxPlayers, r),
		Sessions:   make(map[string]*PlayerSession),
		Races:      make(map[string]*RaceSession),
		Connects:   make(chan *PlayerSession),
		Events:     make(chan PlayerEvent, sendBuffer),
		RaceEvents: make(chan RaceEvent, sendBuffer),
		Upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		Settings: settings,
		Recorder: recorder,
		rand:     r,
		done:     make(chan struct{}),
	}
}

func NewPlayerSession(id string, conn *websocket.Conn) *PlayerSession {
	return &PlayerSession{
		State:          PS_NEW,
		Id:             id,
		Conn:           conn,
		MessagesToSend: make(chan model.ServerMessage, sendBuffer),
	}
}

func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	timeout := 200 * time.Millisecond
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("HandleHttpCall - connection received")
		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("HandleHttpCall websocket upgrade err %v", err)
			return
		}

		ps := NewPlayerSession(NewPlayerId(), con)
		select {
		case s.Connects <- ps:
		case <-time.After(timeout):
			log.Warn("HandleHttpCall Connects TIMEOUTED")
			con.Close()
			return
		case <-s.done:
			con.Close()
			return
		}

		go ps.LoopChannelWrite()
		ps.LoopChannelRead(s.Events, s.done)
	}
}

func (s *GameServer) Loop() {
	log.Printf("GameServer.Loop starting")
	for {
		select {
		case ps := <-s.Connects:
			log.WithField("player", ps.Id).Info("GameServer.Loop player connected")
			s.Sessions[ps.Id] = ps
		case pe := <-s.Events:
			s.handle(pe)
		case re := <-s.RaceEvents:
			s.handleRace(re)
		case <-s.done:
			for code, rs := range s.Races {
				rs.Stop()
				delete(s.Races, code)
			}
			for id, ps := range s.Sessions {
				close(ps.MessagesToSend)
				delete(s.Sessions, id)
			}
			log.Printf("GameServer.Loop ENDED")
			return
		}
	}
}

// Close stops Loop, every race and every write pump.
func (s *GameServer) Close() {
	close(s.done)
}

func (s *GameServer) handle(pe PlayerEvent) {
	logger := log.WithField("player", pe.PlayerId)
	if pe.Disconnected {
		if ps, ok := s.Sessions[pe.PlayerId]; ok {
			// the marble of a racing player keeps running without an owner
			logger.WithFields(log.Fields{"state": ps.State.Name(), "orphaned": ps.State == PS_RACE}).Info("player disconnected")
			ps.State = PS_OVER
			close(ps.MessagesToSend)
			delete(s.Sessions, pe.PlayerId)
		}
		s.leave(pe.PlayerId)
		return
	}
	if pe.Err != nil {
		logger.Warnf("bad client message: %v", pe.Err)
		s.send(pe.PlayerId, model.Error(MsgInvalidFormat))
		return
	}

	cm := pe.Message
	logger.WithField("type", cm.Type).Debug("client message")
	switch cm.Type {
	case model.MsgCreateLobby:
		s.leave(pe.PlayerId)
		lobby := s.Lobbies.Create(pe.PlayerId, cm.PlayerName, cm.MarbleName, cm.MarbleColor)
		s.setState(pe.PlayerId, PS_LOBBY)
		logger.WithField("lobby", lobby.Code).Info("lobby created")
		s.send(pe.PlayerId, model.LobbyCreated(lobby.Clone(), pe.PlayerId))

	case model.MsgJoinLobby:
		if current, ok := s.Lobbies.OfPlayer(pe.PlayerId); ok && current.Code == normalizeCode(cm.Code) {
			s.send(pe.PlayerId, model.LobbyJoined(current.Clone(), pe.PlayerId))
			return
		}
		s.leave(pe.PlayerId)
		lobby, err := s.Lobbies.Join(cm.Code, pe.PlayerId, cm.PlayerName, cm.MarbleName, cm.MarbleColor)
		if err != nil {
			logger.Warnf("join: %v", err)
			s.send(pe.PlayerId, model.Error(MsgCannotJoin))
			return
		}
		s.setState(pe.PlayerId, PS_LOBBY)
		s.send(pe.PlayerId, model.LobbyJoined(lobby.Clone(), pe.PlayerId))
		s.broadcast(lobby, model.LobbyUpdated(lobby.Clone()), pe.PlayerId)

	case model.MsgAddBot:
		lobby, err := s.Lobbies.HostedBy(pe.PlayerId)
		if err != nil {
			s.send(pe.PlayerId, model.Error(MsgHostAddBot))
			return
		}
		if err := s.Lobbies.AddBot(lobby, cm.BotName, cm.BotColor); err != nil {
			s.send(pe.PlayerId, model.Error(MsgLobbyFull))
			return
		}
		s.broadcast(lobby, model.LobbyUpdated(lobby.Clone()), "")

	case model.MsgRemoveBot:
		lobby, err := s.Lobbies.HostedBy(pe.PlayerId)
		if err != nil {
			s.send(pe.PlayerId, model.Error(MsgHostRemoveBot))
			return
		}
		s.Lobbies.RemoveBot(lobby, cm.BotId)
		s.broadcast(lobby, model.LobbyUpdated(lobby.Clone()), "")

	case model.MsgStartRace:
		if err := s.startRace(pe.PlayerId, cm.GravityScale); err != nil {
			logger.Warnf("start race: %v", err)
		}

	case model.MsgLeaveLobby:
		s.leave(pe.PlayerId)
		s.setState(pe.PlayerId, PS_NEW)
	}
}

func (s *GameServer) startRace(playerId string, gravity *float64) error {
	lobby, err := s.Lobbies.HostedBy(playerId)
	if err != nil {
		s.send(playerId, model.Error(MsgHostStartRace))
		return err
	}
	if _, running := s.Races[lobby.Code]; running {
		s.send(playerId, model.Error(MsgRaceRunning))
		return ErrRaceRunning
	}
	if len(lobby.Players) < 2 {
		s.send(playerId, model.Error(MsgNotEnough))
		return ErrNotEnoughMarbles
	}
	settings := s.Settings.Race
	if gravity != nil {
		if settings, err = settings.WithGravity(*gravity); err != nil {
			s.send(playerId, model.Error(MsgInvalidGravity))
			return err
		}
	}

	seed := int32(s.rand.IntN(maxSeed))
	g := settings.GravityScale
	lobby.TrackSeed = &seed
	lobby.GravityScale = &g
	lobby.State = model.LobbyCountdown
	roster := lobby.Roster()

	log.WithFields(log.Fields{"lobby": lobby.Code, "seed": seed, "marbles": len(roster)}).Info("race start")
	s.broadcast(lobby, model.RaceStart(seed, roster, g), "")

	rs := NewRaceSession(lobby.Code, track.Generate(seed), roster, settings, s.Settings, s.RaceEvents, s.done)
	s.Races[lobby.Code] = rs
	for _, p := range lobby.Players {
		s.setState(p.Id, PS_RACE)
	}
	go rs.Loop()
	return nil
}

func (s *GameServer) handleRace(re RaceEvent) {
	lobby, ok := s.Lobbies.Get(re.Code)
	if ok && lobby.State == model.LobbyCountdown && re.State.Status != model.RaceCountdown {
		lobby.State = model.LobbyRacing
	}
	if ok {
		s.broadcast(lobby, model.RaceStateUpdate(re.State), "")
	}
	if !re.Finished {
		return
	}

	rs := s.Races[re.Code]
	delete(s.Races, re.Code)
	logger := log.WithField("lobby", re.Code)
	logger.Infof("race finished after %.0fms", re.State.ElapsedTime)
	if ok {
		lobby.State = model.LobbyResults
		s.broadcast(lobby, model.RaceFinishedMessage(re.State.Results), "")
		for _, p := range lobby.Players {
			s.setState(p.Id, PS_LOBBY)
		}
	}
	if s.Recorder != nil && rs != nil {
		rec := &store.Race{
			LobbyCode:    re.Code,
			Seed:         rs.Seed,
			GravityScale: rs.GravityScale,
			StartedAt:    rs.StartedAt,
			FinishedAt:   time.Now(),
			Results:      re.State.Results,
		}
		go func() {
			if err := s.Recorder.SaveRace(rec); err != nil {
				logger.Errorf("recording race: %v", err)
			}
		}()
	}
}

// leave takes the player out of its lobby and tells whoever remains.
func (s *GameServer) leave(playerId string) {
	code := ""
	if lobby, ok := s.Lobbies.OfPlayer(playerId); ok {
		code = lobby.Code
	}
	lobby, ok := s.Lobbies.Leave(playerId)
	if !ok {
		return
	}
	logger := log.WithFields(log.Fields{"player": playerId, "lobby": code})
	if lobby == nil {
		logger.Info("lobby closed, no players left")
		return
	}
	logger.Info("player left lobby")
	s.broadcast(lobby, model.PlayerLeft(playerId, lobby.Clone()), playerId)
}

func (s *GameServer) setState(playerId string, state PlayerSessionState) {
	if ps, ok := s.Sessions[playerId]; ok {
		ps.State = state
	}
}

// send never blocks the loop. When a client can't keep up a race_state is
// dropped, anything else evicts the oldest queued message.
func (s *GameServer) send(playerId string, m model.ServerMessage) {
	ps, ok := s.Sessions[playerId]
	if !ok || ps.State == PS_OVER {
		return
	}
	select {
	case ps.MessagesToSend <- m:
		return
	default:
	}
	if m.Type == model.MsgRaceState {
		log.Debugf("dropping %s for %s, send buffer full", m.Type, playerId)
		return
	}
	select {
	case old := <-ps.MessagesToSend:
		log.Warnf("dropping %s for %s, send buffer full", old.Type, playerId)
	default:
	}
	select {
	case ps.MessagesToSend <- m:
	default:
		log.Warnf("dropping %s for %s, send buffer full", m.Type, playerId)
	}
}

func (s *GameServer) broadcast(lobby *model.Lobby, m model.ServerMessage, except string) {
	for _, p := range lobby.Players {
		if p.IsBot || p.Id == except {
			continue
		}
		s.send(p.Id, m)
	}
}

func (ps *PlayerSession) LoopChannelRead(events chan<- PlayerEvent, done <-chan struct{}) {
	log.Printf("LoopChannelRead STARTED %s", ps.Id)
	ps.Conn.SetReadLimit(maxMessageSize)
	ps.Conn.SetReadDeadline(time.Now().Add(pongWait))
	ps.Conn.SetPongHandler(func(string) error {
		return ps.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	ps.Conn.SetPingHandler(func(message string) error {
		ps.Conn.SetReadDeadline(time.Now().Add(pongWait))
		err := ps.Conn.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
		if err == websocket.ErrCloseSent {
			return nil
		} else if e, ok := err.(net.Error); ok && e.Timeout() {
			return nil
		}
		return err
	})

	for {
		_, data, err := ps.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("LoopChannelRead err reading message from Conn %v", err)
			}
			break
		}
		ps.Conn.SetReadDeadline(time.Now().Add(pongWait))
		ps.DebugInMessages++
		ps.DebugLastMessage = time.Now()

		cm, err := model.DecodeClientMessage(data)
		select {
		case events <- PlayerEvent{PlayerId: ps.Id, Message: cm, Err: err}:
		case <-done:
			return
		}
	}

	log.WithFields(log.Fields{
		"player":      ps.Id,
		"in":          ps.DebugInMessages,
		"lastMessage": ps.DebugLastMessage,
	}).Debug("LoopChannelRead ENDED")
	select {
	case events <- PlayerEvent{PlayerId: ps.Id, Disconnected: true}:
	case <-done:
	}
}

// LoopChannelWrite drains MessagesToSend until the game server closes it,
// pinging the client in between.
func (ps *PlayerSession) LoopChannelWrite() {
	log.Printf("PlayerSession.LoopChannelWrite STARTED %s", ps.Id)
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ps.Conn.Close()
		log.WithFields(log.Fields{
			"player":   ps.Id,
			"out":      ps.DebugOutMessages,
			"pings":    ps.DebugPings,
			"lastPing": ps.DebugLastPing,
		}).Debug("LoopChannelWrite ENDED")
	}()
	for {
		select {
		case mes, ok := <-ps.MessagesToSend:
			ps.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				ps.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			b, err := model.EncodeServerMessage(mes)
			if err != nil {
				log.Errorf("PlayerSession.LoopChannelWrite cant encode %s: %v", mes.Type, err)
				continue
			}
			if err := ps.Conn.WriteMessage(websocket.TextMessage, b); err != nil {
				log.Warnf("PlayerSession.LoopChannelWrite write failed: %v", err)
				return
			}
			ps.DebugOutMessages++
		case <-ticker.C:
			ps.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ps.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			ps.DebugPings++
			ps.DebugLastPing = time.Now()
		}
	}
}
