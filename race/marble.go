package race

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"

	"github.com/zucenko/marblerace/model"
)

// marble is one arena entry. Entries keep roster order for the lifetime of
// the simulation; body and shape are nil once the marble left the world.
type marble struct {
	config model.MarbleConfig
	body   *cp.Body
	shape  *cp.Shape

	finished    bool
	finishTime  float64
	finishOrder int

	disqualified bool
	// snapshot taken when the body left the world
	frozen model.MarbleState

	stuck stuckSample
}

type stuckSample struct {
	taken bool
	x, y  float64
	at    float64
	count int
}

func (m *marble) active() bool {
	return !m.finished && !m.disqualified
}

func (m *marble) state() model.MarbleState {
	if m.body == nil {
		return m.frozen
	}
	p, v := m.body.Position(), m.body.Velocity()
	s := model.MarbleState{
		Id:       m.config.Id,
		X:        p.X,
		Y:        p.Y,
		Angle:    m.body.Angle(),
		Vx:       v.X / stepsPerSecond,
		Vy:       v.Y / stepsPerSecond,
		Finished: m.finished,
	}
	if m.finished {
		ms := m.finishTime
		s.FinishTime = &ms
	}
	return s
}

// speed in pixels per legacy step
func (m *marble) speed() float64 {
	v := m.body.Velocity()
	return math.Hypot(v.X, v.Y) / stepsPerSecond
}

// freeze snapshots the body and detaches it from the arena entry. The
// caller removes it from the space.
func (m *marble) freeze(disqualify bool) {
	m.frozen = m.state()
	if disqualify {
		m.disqualified = true
		m.frozen.Disqualified = true
		m.frozen.Vx, m.frozen.Vy = 0, 0
	}
	m.body, m.shape = nil, nil
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
