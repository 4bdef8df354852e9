package race

import (
	"time"

	"github.com/zucenko/marblerace/model"
)

// Race runs the countdown -> racing -> finished lifecycle around a
// Simulation. One goroutine owns a Race.
type Race struct {
	sim       *Simulation
	settings  Settings
	status    model.RaceStatus
	// remaining countdown in milliseconds
	countdown float64
	last      model.RaceState
	destroyed bool
}

// New sets up a race in countdown on track for the roster, in entry order.
func New(track *model.Track, roster []model.MarbleConfig, settings Settings) *Race {
	return &Race{
		sim:       NewSimulation(track, roster, settings),
		settings:  settings,
		status:    model.RaceCountdown,
		countdown: millis(settings.Countdown),
	}
}

// Tick advances the race by one tick of the configured tick rate.
func (r *Race) Tick() {
	r.advance(r.settings.TickMillis())
}

// Advance advances the race by dt. The tick that ends the countdown does not
// step physics.
func (r *Race) Advance(dt time.Duration) {
	r.advance(millis(dt))
}

func (r *Race) advance(ms float64) {
	if r.destroyed {
		return
	}
	switch r.status {
	case model.RaceCountdown:
		r.countdown -= ms
		if r.countdown <= clockEpsilon {
			r.countdown = 0
			r.status = model.RaceRacing
		}
	case model.RaceRacing:
		r.sim.Update(ms)
		if r.sim.Done() {
			r.status = model.RaceFinished
		}
	}
}

func (r *Race) Status() model.RaceStatus { return r.status }

func (r *Race) IsFinished() bool { return r.status == model.RaceFinished }

// State is the serializable snapshot clients receive. After Destroy it keeps
// returning the last snapshot.
func (r *Race) State() model.RaceState {
	if r.destroyed {
		return r.last
	}
	marbles := r.sim.Marbles()
	r.last = model.RaceState{
		Status:      r.status,
		Countdown:   r.countdown / 1000,
		ElapsedTime: r.sim.Elapsed(),
		Marbles:     marbles,
		Results:     Results(marbles, r.sim.Roster()),
	}
	return r.last
}

// Results is the final (or, mid race, partial) result list.
func (r *Race) Results() []model.RaceResult {
	return r.State().Results
}

// Destroy releases the physics world. It is safe to call more than once.
func (r *Race) Destroy() {
	if r.destroyed {
		return
	}
	r.State()
	r.sim.Destroy()
	r.destroyed = true
}
