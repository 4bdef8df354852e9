package server

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/zucenko/marblerace/model"
	"github.com/zucenko/marblerace/race"
)

func NewRaceSession(code string, track *model.Track, roster []model.MarbleConfig,
	rs race.Settings, settings Settings, out chan<- RaceEvent, done <-chan struct{}) *RaceSession {
	return &RaceSession{
		Code:         code,
		Seed:         track.Seed,
		GravityScale: rs.GravityScale,
		StartedAt:    time.Now(),
		race:         race.New(track, roster, rs),
		tickInterval: settings.tickInterval(rs),
		ticksPerSync: settings.ticksPerSync(),
		out:          out,
		stop:         make(chan struct{}),
		done:         done,
	}
}

// Loop ticks the race until it finishes or is stopped. Every ticksPerSync
// ticks the state goes out; the finishing tick always does.
func (rs *RaceSession) Loop() {
	logger := log.WithFields(log.Fields{"lobby": rs.Code, "seed": rs.Seed})
	logger.Info("RaceSession.Loop start")
	defer rs.race.Destroy()

	ticker := time.NewTicker(rs.tickInterval)
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case <-rs.stop:
			logger.Info("RaceSession.Loop stopped")
			return
		case <-rs.done:
			return
		case <-ticker.C:
			rs.race.Tick()
			ticks++
			finished := rs.race.IsFinished()
			if !finished && ticks%rs.ticksPerSync != 0 {
				continue
			}
			ev := RaceEvent{Code: rs.Code, State: rs.race.State(), Finished: finished}
			select {
			case rs.out <- ev:
			case <-rs.stop:
				return
			case <-rs.done:
				return
			}
			if finished {
				logger.WithField("ticks", ticks).Info("RaceSession.Loop finished")
				return
			}
		}
	}
}

// Stop ends the loop without a final event. Only the game server calls it,
// once.
func (rs *RaceSession) Stop() {
	close(rs.stop)
}
