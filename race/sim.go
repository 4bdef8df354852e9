package race

import (
	"math"
	"math/rand/v2"

	"github.com/jakecoffman/cp"

	"github.com/zucenko/marblerace/model"
)

// Simulation is the physics side of one race. It is not safe for
// concurrent use; the owning race session drives it from one goroutine.
type Simulation struct {
	track    *model.Track
	settings Settings
	finishY  float64

	space   *cp.Space
	marbles []*marble
	index   map[string]int
	walls   int
	jitter  *rand.Rand

	// race clock in milliseconds
	clock       float64
	finishOrder int
	destroyed   bool
}

// NewSimulation builds the world for track with one body per roster entry,
// placed on the spawn grid in roster order.
func NewSimulation(track *model.Track, roster []model.MarbleConfig, settings Settings) *Simulation {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: 0, Y: settings.GravityScale * gravityUnit})
	space.SetDamping(airDamping)

	s := &Simulation{
		track:    track,
		settings: settings,
		finishY:  track.FinishLineY(),
		space:    space,
		index:    make(map[string]int, len(roster)),
		jitter:   rand.New(rand.NewPCG(uint64(uint32(track.Seed)), uint64(len(roster)))),
	}
	s.walls = addWalls(space, track)

	spots := spawnGrid(track, len(roster))
	for i, cfg := range roster {
		m := &marble{config: cfg}
		m.body, m.shape = s.addMarble(spots[i])
		m.body.SetVelocity((s.jitter.Float64()-0.5)*spawnVelocity*stepsPerSecond, 0)
		s.index[cfg.Id] = len(s.marbles)
		s.marbles = append(s.marbles, m)
	}
	return s
}

func (s *Simulation) addMarble(at cp.Vector) (*cp.Body, *cp.Shape) {
	const r = model.MarbleRadius
	mass := marbleDensity * math.Pi * r * r
	body := s.space.AddBody(cp.NewBody(mass, cp.MomentForCircle(mass, 0, r, cp.Vector{})))
	body.SetPosition(at)

	shape := cp.NewCircle(body, r, cp.Vector{})
	shape.SetElasticity(marbleElasticity)
	shape.SetFriction(marbleFriction)
	s.space.AddShape(shape)
	return body, shape
}

// Update advances the world by ms milliseconds of race clock, then settles
// finishes, disqualifications and stuck marbles in roster order.
func (s *Simulation) Update(ms float64) {
	if s.destroyed || ms <= 0 {
		return
	}
	step := ms / 1000 / substeps
	for i := 0; i < substeps; i++ {
		s.space.Step(step)
	}
	s.clock += ms

	for _, m := range s.marbles {
		if !m.active() {
			continue
		}
		p := m.body.Position()
		switch {
		case p.Y >= s.finishY:
			s.finishOrder++
			m.finished = true
			m.finishTime = s.clock
			m.finishOrder = s.finishOrder
		case s.outOfBounds(p):
			s.space.RemoveShape(m.shape)
			s.space.RemoveBody(m.body)
			m.freeze(true)
		}
	}
	for _, m := range s.marbles {
		if m.active() {
			s.unstick(m)
		}
	}
}

func (s *Simulation) outOfBounds(p cp.Vector) bool {
	t, margin := s.track, s.settings.OOBMargin
	return p.X < t.BoundsMinX-margin || p.X > t.BoundsMaxX+margin ||
		p.Y < t.BoundsMinY-margin || p.Y > t.BoundsMaxY+margin
}

// Done reports whether every marble finished or was disqualified.
func (s *Simulation) Done() bool {
	for _, m := range s.marbles {
		if m.active() {
			return false
		}
	}
	return true
}

// Elapsed is the race clock in milliseconds.
func (s *Simulation) Elapsed() float64 { return s.clock }

// Marbles returns every marble's state ranked, with Position filled in.
func (s *Simulation) Marbles() []model.MarbleState {
	standings := make([]Standing, len(s.marbles))
	for i, m := range s.marbles {
		standings[i] = Standing{MarbleState: m.state(), FinishOrder: m.finishOrder}
	}
	return Rank(standings)
}

func (s *Simulation) Roster() []model.MarbleConfig {
	out := make([]model.MarbleConfig, len(s.marbles))
	for i, m := range s.marbles {
		out[i] = m.config
	}
	return out
}

// Marble returns the current state of one marble.
func (s *Simulation) Marble(id string) (model.MarbleState, bool) {
	i, ok := s.index[id]
	if !ok {
		return model.MarbleState{}, false
	}
	return s.marbles[i].state(), true
}

// Destroy drops the physics world. Later calls to Update are ignored and
// states report the last known positions.
func (s *Simulation) Destroy() {
	if s.destroyed {
		return
	}
	for _, m := range s.marbles {
		if m.body != nil {
			m.freeze(false)
		}
	}
	s.space = nil
	s.destroyed = true
}
