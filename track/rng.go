package track

import "math"

// RNG is mulberry32. The arithmetic is uint32 with wrap around so that a
// given seed yields the same stream as the browser client.
type RNG struct {
	s uint32
}

func NewRNG(seed int32) *RNG {
	return &RNG{s: uint32(seed)}
}

// Float returns the next value in [0,1).
func (r *RNG) Float() float64 {
	r.s += 0x6d2b79f5
	t := (r.s ^ r.s>>15) * (1 | r.s)
	t = (t + (t^t>>7)*(61|t)) ^ t
	return float64(t^t>>14) / 4294967296
}

func (r *RNG) Range(min, max float64) float64 {
	return min + r.Float()*(max-min)
}

// Int is inclusive on both ends.
func (r *RNG) Int(min, max int) int {
	return int(math.Floor(r.Range(float64(min), float64(max+1))))
}

// Sign is +1 or -1 with equal odds.
func (r *RNG) Sign() float64 {
	if r.Float() > 0.5 {
		return 1
	}
	return -1
}

func Pick[T any](r *RNG, items []T) T {
	return items[int(math.Floor(r.Float()*float64(len(items))))]
}
