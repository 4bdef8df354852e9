package race

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/zucenko/marblerace/model"
)

// addWalls turns every wall edge of the track into a thin static box
// centred on the edge and returns how many were added.
func addWalls(space *cp.Space, track *model.Track) int {
	n := 0
	track.EachWall(func(a, b model.TrackPoint) {
		dx, dy := b.X-a.X, b.Y-a.Y
		body := cp.NewStaticBody()
		body.SetPosition(cp.Vector{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2})
		body.SetAngle(math.Atan2(dy, dx))
		space.AddBody(body)

		shape := cp.NewBox(body, math.Hypot(dx, dy)+wallOverlap, wallThickness, 0)
		shape.SetElasticity(wallElasticity)
		shape.SetFriction(wallFriction)
		space.AddShape(shape)
		n++
	})
	return n
}
