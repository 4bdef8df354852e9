package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tanema/gween"

	"github.com/zucenko/marblerace/model"
	"github.com/zucenko/marblerace/race"
	"github.com/zucenko/marblerace/track"
)

type Game struct {
	State     GameState
	PlayerId  string
	Lobby     *model.Lobby
	Track     *model.Track
	Marbles   map[string]*MarbleView
	Order     []string
	Tweens    map[*gween.Tween]Action
	Status    model.RaceStatus
	Countdown float64
	Elapsed   float64
	Results   []model.RaceResult
	LastError string

	settings     race.Settings
	syncInterval float32
	local        *race.Race
	acc          time.Duration
}

func NewGame(settings race.Settings, syncRate int) *Game {
	if syncRate <= 0 {
		syncRate = model.SyncRate
	}
	return &Game{
		State:        IDLE,
		Marbles:      make(map[string]*MarbleView),
		Tweens:       make(map[*gween.Tween]Action),
		settings:     settings,
		syncInterval: 1 / float32(syncRate),
	}
}

// Practice starts a local race on the given seed. The local simulation is
// the only authority, so views follow it directly.
func (g *Game) Practice(seed int32, roster []model.MarbleConfig) {
	g.startLocal(track.Generate(seed), roster, g.settings)
	g.State = PRACTICE
}

func (g *Game) startLocal(t *model.Track, roster []model.MarbleConfig, settings race.Settings) {
	g.stopLocal()
	g.Track = t
	g.Results = nil
	g.acc = 0
	g.Marbles = make(map[string]*MarbleView, len(roster))
	g.Order = g.Order[:0]
	for tw := range g.Tweens {
		delete(g.Tweens, tw)
	}
	for _, mc := range roster {
		g.Marbles[mc.Id] = &MarbleView{MarbleConfig: mc}
		g.Order = append(g.Order, mc.Id)
	}
	g.local = race.New(t, roster, settings)
	g.follow(g.local.State())
}

func (g *Game) stopLocal() {
	if g.local != nil {
		g.local.Destroy()
		g.local = nil
	}
}

// Update advances the client by one display frame. A frame longer than
// maxFrame is treated as maxFrame, so a stalled client resumes where it
// was instead of integrating the pause.
func (g *Game) Update(frame time.Duration) {
	if frame > maxFrame {
		frame = maxFrame
	}
	if frame < 0 {
		frame = 0
	}

	if g.local != nil {
		tick := g.settings.Tick()
		g.acc += frame
		for g.acc >= tick && !g.local.IsFinished() {
			g.local.Tick()
			g.acc -= tick
		}
		s := g.local.State()
		g.follow(s)
		if s.Status == model.RaceFinished && g.State == PRACTICE {
			g.Results = s.Results
			g.State = GAME_OVER
			g.stopLocal()
		}
	}

	g.updateTweens(float32(frame.Seconds()))
}

func (g *Game) follow(s model.RaceState) {
	g.Status, g.Countdown, g.Elapsed = s.Status, s.Countdown, s.ElapsedTime
	for _, ms := range s.Marbles {
		if v, ok := g.Marbles[ms.Id]; ok {
			v.snap(ms)
		}
	}
}

// Apply folds one server message into the client state.
func (g *Game) Apply(m model.ServerMessage) {
	switch m.Type {
	case model.MsgLobbyCreated, model.MsgLobbyJoined:
		g.PlayerId = m.PlayerId
		g.Lobby = m.Lobby
		g.State = LOBBY
	case model.MsgLobbyUpdated, model.MsgPlayerLeft:
		if m.Lobby != nil {
			g.Lobby = m.Lobby
		}
	case model.MsgRaceStart:
		if m.TrackSeed == nil {
			g.LastError = "race_start without trackSeed"
			return
		}
		settings, err := g.settings.WithGravity(m.GravityScale)
		if err != nil {
			settings = g.settings
		}
		g.startLocal(track.Generate(*m.TrackSeed), m.Marbles, settings)
		g.State = SPECTATING
	case model.MsgRaceState:
		if m.State == nil || g.State != SPECTATING {
			return
		}
		// Once the server reports live positions the local prediction
		// is dropped and views only follow authoritative state.
		if m.State.Status != model.RaceCountdown {
			g.stopLocal()
		}
		g.Status, g.Countdown, g.Elapsed = m.State.Status, m.State.Countdown, m.State.ElapsedTime
		if g.local == nil {
			g.interpolate(m.State.Marbles)
		}
	case model.MsgRaceFinished:
		g.stopLocal()
		g.Results = m.Results
		g.Status = model.RaceFinished
		g.State = GAME_OVER
	case model.MsgError:
		g.LastError = m.Message
		log.Warnf("server: %s", m.Message)
	}
}

// Leader returns the marble currently ranked first, if any.
func (g *Game) Leader() (*MarbleView, bool) {
	for _, id := range g.Order {
		if v := g.Marbles[id]; v.Position == 1 {
			return v, true
		}
	}
	return nil, false
}

func practiceRoster(name, color string, bots int) []model.MarbleConfig {
	roster := []model.MarbleConfig{{Id: "local", Name: name, Color: color, OwnerId: "local"}}
	for i := 0; i < bots; i++ {
		roster = append(roster, model.MarbleConfig{
			Id:    fmt.Sprintf("bot_%d", i),
			Name:  model.PlayerNames[i%len(model.PlayerNames)],
			Color: model.MarbleColors[(i+1)%len(model.MarbleColors)],
			IsBot: true,
		})
	}
	return roster
}

func (g *Game) report() {
	l, ok := g.Leader()
	fields := log.Fields{"state": g.State.Name(), "status": g.Status, "elapsed": fmt.Sprintf("%.0fms", g.Elapsed)}
	if ok {
		fields["leader"] = l.Name
		fields["y"] = fmt.Sprintf("%.0f", l.Y)
	}
	log.WithFields(fields).Info("race")
}

func printResults(results []model.RaceResult) {
	for _, r := range results {
		if r.FinishTime == model.DisqualifiedTime {
			log.Printf("%2d. %-16s DQ", r.Position, r.MarbleName)
			continue
		}
		log.Printf("%2d. %-16s %7.2fs", r.Position, r.MarbleName, r.FinishTime/1000)
	}
}

func runPractice(ctx context.Context, cfg *ClientConfig, g *Game) error {
	seed := int32(cfg.Seed)
	if cfg.Seed < 0 {
		seed = rand.Int32N(999999)
	}
	log.Printf("Practice on track %d", seed)
	g.Practice(seed, practiceRoster(cfg.Name, cfg.Color, cfg.Bots))
	return runFrames(ctx, cfg, g, nil)
}

func runOnline(ctx context.Context, cfg *ClientConfig, g *Game) error {
	conn, err := Dial(ctx, cfg.ServerURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Send(model.ClientMessage{Type: model.MsgCreateLobby, PlayerName: cfg.Name, MarbleName: cfg.Name, MarbleColor: cfg.Color}); err != nil {
		return err
	}
	started := false
	onMessage := func(m model.ServerMessage) error {
		g.Apply(m)
		if m.Type != model.MsgLobbyCreated || started {
			return nil
		}
		log.Printf("Lobby %s", m.Lobby.Code)
		// a race needs two marbles
		for i := 0; i < max(cfg.Bots, 1); i++ {
			if err := conn.Send(model.ClientMessage{Type: model.MsgAddBot}); err != nil {
				return err
			}
		}
		gravity := cfg.Gravity
		started = true
		return conn.Send(model.ClientMessage{Type: model.MsgStartRace, GravityScale: &gravity})
	}
	return runFrames(ctx, cfg, g, &session{conn: conn, onMessage: onMessage})
}

type session struct {
	conn      *Conn
	onMessage func(model.ServerMessage) error
}

func runFrames(ctx context.Context, cfg *ClientConfig, g *Game, s *session) error {
	frames := time.NewTicker(cfg.Frame())
	defer frames.Stop()
	reports := time.NewTicker(time.Second)
	defer reports.Stop()

	var messages <-chan model.ServerMessage
	if s != nil {
		messages = s.conn.Messages
	}
	last := time.Now()
	for g.State != GAME_OVER {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-frames.C:
			g.Update(now.Sub(last))
			last = now
		case <-reports.C:
			g.report()
		case m, ok := <-messages:
			if !ok {
				return fmt.Errorf("server closed the connection")
			}
			if err := s.onMessage(m); err != nil {
				return err
			}
		}
	}
	printResults(g.Results)
	return nil
}

func main() {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		log.Fatalln(err)
	}
	log.SetLevel(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	settings := race.DefaultSettings()
	if s, err := settings.WithGravity(cfg.Gravity); err == nil {
		settings = s
	}
	g := NewGame(settings, model.SyncRate)
	run := runOnline
	if cfg.Practice {
		run = runPractice
	}
	if err := run(ctx, cfg, g); err != nil {
		log.Fatalln(err)
	}
}
