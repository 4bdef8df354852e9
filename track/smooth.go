package track

import (
	"math"

	"github.com/zucenko/marblerace/model"
)

const (
	MinAngleDeg    = 130
	minAnglePasses = 5
	// edges shorter than this have no meaningful angle
	degenerateEdge = 1
	subdivisions   = 3
)

// Smooth runs a Catmull-Rom spline through points, inserting n points
// between every consecutive pair, then enforces the minimum bend angle.
// Sequence ends reuse the endpoint as the missing neighbour.
func Smooth(points []model.TrackPoint, n int) []model.TrackPoint {
	if len(points) < 3 {
		return EnforceMinAngle(points)
	}
	result := make([]model.TrackPoint, 0, len(points)+(len(points)-1)*n)
	result = append(result, points[0])
	last := len(points) - 1
	for i := 0; i < last; i++ {
		p0 := points[max(0, i-1)]
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[min(last, i+2)]
		for s := 1; s <= n; s++ {
			t := float64(s) / float64(n+1)
			result = append(result, model.TrackPoint{
				X: catmullRom(p0.X, p1.X, p2.X, p3.X, t),
				Y: catmullRom(p0.Y, p1.Y, p2.Y, p3.Y, t),
			})
		}
		result = append(result, p2)
	}
	return EnforceMinAngle(result)
}

func catmullRom(p0, p1, p2, p3, t float64) float64 {
	tt := t * t
	ttt := tt * t
	return 0.5 * ((2 * p1) +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*tt +
		(-p0+3*p1-3*p2+p3)*ttt)
}

// EnforceMinAngle cuts every corner sharper than MinAngleDeg, replacing the
// vertex with the midpoints of its two edges, for at most minAnglePasses
// passes. Endpoints never move and the result is never shorter than the input.
func EnforceMinAngle(points []model.TrackPoint) []model.TrackPoint {
	result := append([]model.TrackPoint(nil), points...)
	if len(points) < 3 {
		return result
	}
	minAngle := MinAngleDeg * math.Pi / 180
	for pass := 0; pass < minAnglePasses; pass++ {
		changed := false
		next := make([]model.TrackPoint, 0, len(result)*2)
		next = append(next, result[0])
		for i := 1; i < len(result)-1; i++ {
			a, b, c := result[i-1], result[i], result[i+1]
			angle, ok := InteriorAngle(a, b, c)
			if !ok || angle >= minAngle {
				next = append(next, b)
				continue
			}
			changed = true
			m1 := midpoint(a, b)
			// the previous vertex was cut as well and already emitted m1
			if next[len(next)-1] != m1 {
				next = append(next, m1)
			}
			next = append(next, midpoint(b, c))
		}
		next = append(next, result[len(result)-1])
		result = next
		if !changed {
			break
		}
	}
	return result
}

// InteriorAngle returns the angle at b in radians. ok is false when either
// edge is degenerate.
func InteriorAngle(a, b, c model.TrackPoint) (angle float64, ok bool) {
	abx, aby := a.X-b.X, a.Y-b.Y
	cbx, cby := c.X-b.X, c.Y-b.Y
	magA := math.Sqrt(abx*abx + aby*aby)
	magC := math.Sqrt(cbx*cbx + cby*cby)
	if magA < degenerateEdge || magC < degenerateEdge {
		return 0, false
	}
	cos := (abx*cbx + aby*cby) / (magA * magC)
	return math.Acos(math.Max(-1, math.Min(1, cos))), true
}

func midpoint(a, b model.TrackPoint) model.TrackPoint {
	return model.TrackPoint{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
