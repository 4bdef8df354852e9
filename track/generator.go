package track

import (
	"math"

	"github.com/zucenko/marblerace/model"
)

const (
	// MinPassageWidth fits three marbles side by side plus a margin.
	MinPassageWidth = model.MarbleRadius*2*3 + 20
	// smoothingAllowance is added to passage floors that the spline
	// undershoots between control points.
	smoothingAllowance = 30

	minBodySegments = 12
	maxBodySegments = 18
	minTrackWidth   = 250
	maxTrackWidth   = 450
	widthJitter     = 20

	startFunnelHeight = 250
	spawnDrop         = 20
	boundsPadding     = 200
)

// palette is drawn uniformly; lattice is listed twice on purpose.
var palette = []model.SegmentType{
	model.SegmentSlope, model.SegmentSteepSlope, model.SegmentFlat, model.SegmentFunnel,
	model.SegmentWideCurve, model.SegmentZigzag, model.SegmentDrop, model.SegmentNarrow,
	model.SegmentGentleBend, model.SegmentSplit, model.SegmentQuarterPipe, model.SegmentMiniRamp,
	model.SegmentHalfPipe, model.SegmentLattice, model.SegmentLattice,
}

type segmentEnd struct {
	X, Y           float64
	LeftX, LeftY   float64
	RightX, RightY float64
}

func endOf(s model.TrackSegment) segmentEnd {
	l := s.Points[len(s.Points)-1]
	r := s.RightPoints[len(s.RightPoints)-1]
	return segmentEnd{
		X:      (l.X + r.X) / 2,
		Y:      math.Max(l.Y, r.Y),
		LeftX:  l.X,
		LeftY:  l.Y,
		RightX: r.X,
		RightY: r.Y,
	}
}

// Generate builds the track for seed. The same seed always yields the same
// track, point for point.
func Generate(seed int32) *model.Track {
	rng := NewRNG(seed)
	width := float64(model.TrackWidth)

	segments := []model.TrackSegment{startSegment(0, 0, width)}
	prev := endOf(segments[0])

	maze := mazeSegment(prev, width, rng)
	segments = append(segments, maze)
	prev = endOf(maze)

	n := rng.Int(minBodySegments, maxBodySegments)
	for i := 0; i < n; i++ {
		kind := Pick(rng, palette)
		seg := build(kind, prev, width, rng)
		segments = append(segments, seg)
		prev = endOf(seg)
		width = math.Max(minTrackWidth, math.Min(maxTrackWidth, width+rng.Range(-widthJitter, widthJitter)))
	}

	segments = append(segments, finishSegment(prev, width))
	return assemble(seed, segments)
}

func build(kind model.SegmentType, prev segmentEnd, width float64, rng *RNG) model.TrackSegment {
	r, ok := recipes[kind]
	if !ok {
		kind, r = model.SegmentSlope, recipes[model.SegmentSlope]
	}
	seg := r(prev, width, rng)
	seg.Type = kind
	return seg
}

func assemble(seed int32, segments []model.TrackSegment) *model.Track {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(pts []model.TrackPoint) {
		for _, p := range pts {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	for _, s := range segments {
		grow(s.Points)
		grow(s.RightPoints)
		for _, d := range s.Dividers {
			grow(d)
		}
	}

	topLeft := segments[0].Points[0]
	topRight := segments[0].RightPoints[0]
	return &model.Track{
		Seed:        seed,
		Segments:    segments,
		StartX:      (topLeft.X + topRight.X) / 2,
		StartY:      topLeft.Y + spawnDrop,
		Width:       maxX - minX + boundsPadding,
		Height:      maxY - minY + boundsPadding,
		FunnelLeft:  topLeft.X,
		FunnelRight: topRight.X,
		BoundsMinX:  minX,
		BoundsMaxX:  maxX,
		BoundsMinY:  minY,
		BoundsMaxY:  maxY,
	}
}

// side is -1 for the left wall and +1 for the right wall.
type wallFunc func(x0, y0, side float64) []model.TrackPoint

func walls(kind model.SegmentType, prev segmentEnd, wall wallFunc) model.TrackSegment {
	return model.TrackSegment{
		Type:        kind,
		Points:      Smooth(wall(prev.LeftX, prev.LeftY, -1), subdivisions),
		RightPoints: Smooth(wall(prev.RightX, prev.RightY, 1), subdivisions),
	}
}

func startSegment(x, y, width float64) model.TrackSegment {
	funnelWidth := width * 1.5
	h := float64(startFunnelHeight)
	wall := func(s float64) []model.TrackPoint {
		return []model.TrackPoint{
			{X: x + s*funnelWidth/2, Y: y},
			{X: x + s*funnelWidth/2 - s*20, Y: y + h*0.3},
			{X: x + s*width/2 + s*15, Y: y + h*0.7},
			{X: x + s*width/2, Y: y + h},
		}
	}
	return model.TrackSegment{
		Type:        model.SegmentFunnel,
		Points:      Smooth(wall(-1), subdivisions),
		RightPoints: Smooth(wall(1), subdivisions),
	}
}

// finishSegment flares outward below the last body segment. Its first
// point pair is the finish line.
func finishSegment(prev segmentEnd, width float64) model.TrackSegment {
	return walls(model.SegmentFinish, prev, func(x0, y0, s float64) []model.TrackPoint {
		return []model.TrackPoint{
			{X: x0, Y: y0},
			{X: prev.X + s*width/2, Y: prev.Y + 140},
			{X: prev.X + s*width/2, Y: prev.Y + 350},
			{X: prev.X + s*width*0.7, Y: prev.Y + 500},
		}
	})
}

// mazeSegment is the fixed opener: a wide box with tilted shelves that
// alternate their gap side, forcing switchbacks.
func mazeSegment(prev segmentEnd, width float64, rng *RNG) model.TrackSegment {
	corridors := rng.Int(3, 5)
	corridorH := rng.Range(120, 180)
	turnH := rng.Range(100, 140)
	mazeHW := width * 1.4 / 2
	gap := width * 0.6
	tilt := 21 * math.Pi / 180

	x, y := prev.X, prev.Y
	top := y + 30
	bodyH := float64(corridors)*corridorH + float64(corridors-1)*turnH
	exitY := top + bodyH + turnH

	seg := walls(model.SegmentMaze, prev, func(x0, y0, s float64) []model.TrackPoint {
		return []model.TrackPoint{
			{X: x0, Y: y0},
			{X: x + s*mazeHW, Y: top},
			{X: x + s*mazeHW, Y: top + bodyH},
			{X: x + s*width/2, Y: exitY},
		}
	})

	shelfLeft := x - mazeHW + 10
	shelfRight := x + mazeHW - 10
	shelfY := top
	for i := 0; i < corridors; i++ {
		shelfY += corridorH
		if i == corridors-1 {
			break
		}
		gapOnRight := i%2 == 0
		startX, endX := shelfLeft+gap, shelfRight
		if gapOnRight {
			startX, endX = shelfLeft, shelfRight-gap
		}
		drop := math.Tan(tilt) * math.Abs(endX-startX)
		// shelves tilt down toward their gap
		if gapOnRight {
			seg.Dividers = append(seg.Dividers, []model.TrackPoint{{X: startX, Y: shelfY}, {X: endX, Y: shelfY + drop}})
		} else {
			seg.Dividers = append(seg.Dividers, []model.TrackPoint{{X: startX, Y: shelfY + drop}, {X: endX, Y: shelfY}})
		}
		shelfY += turnH
	}
	return seg
}
