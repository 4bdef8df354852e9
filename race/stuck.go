package race

import (
	"math"

	"github.com/jakecoffman/cp"
)

// unstick samples an active marble once per stuck interval. A marble that
// barely dropped and is nearly still since the previous sample counts as
// stuck, and each consecutive stuck sample pushes it harder.
func (s *Simulation) unstick(m *marble) {
	sample := &m.stuck
	if sample.taken && s.clock-sample.at < millis(s.settings.StuckInterval) {
		return
	}
	p := m.body.Position()
	count := 0
	if sample.taken && p.Y-sample.y < s.settings.StuckThreshold && m.speed() < stuckSpeed {
		count = sample.count + 1
		s.kick(m, count)
		p = m.body.Position()
	}
	*sample = stuckSample{taken: true, x: p.X, y: p.Y, at: s.clock, count: count}
}

// kick applies the escalating correction for the count-th stuck sample.
// Velocities are in pixels per legacy step.
func (s *Simulation) kick(m *marble, count int) {
	body := m.body
	p, v := body.Position(), body.Velocity().Mult(1/stepsPerSecond)
	c := float64(count)
	var vx, vy float64
	switch {
	case count >= 5:
		body.SetPosition(cp.Vector{X: p.X + s.jiggle(40), Y: p.Y + 25 + c*5})
		vx, vy = s.jiggle(12), 8+s.jitter.Float64()*6+c*2
	case count >= 3:
		body.SetPosition(cp.Vector{X: p.X + s.jiggle(25), Y: p.Y + 15})
		vx, vy = s.jiggle(8), 6+s.jitter.Float64()*4
	default:
		force := math.Min(c, maxStuckForce)
		vx = v.X + s.jiggle(6*force)
		vy = v.Y + (3+s.jitter.Float64()*3)*force
	}
	body.SetVelocity(vx*stepsPerSecond, vy*stepsPerSecond)
}

// jiggle is a uniform offset in [-span/2, span/2).
func (s *Simulation) jiggle(span float64) float64 {
	return (s.jitter.Float64() - 0.5) * span
}
