package track

import (
	"math"

	"github.com/zucenko/marblerace/model"
)

// A recipe synthesizes one body segment starting exactly at prev. Random
// draws happen in a fixed order per recipe; changing that order changes
// every track generated after it.
type recipe func(prev segmentEnd, width float64, rng *RNG) model.TrackSegment

var recipes = map[model.SegmentType]recipe{
	model.SegmentSlope:       slope,
	model.SegmentSteepSlope:  steepSlope,
	model.SegmentFlat:        flat,
	model.SegmentFunnel:      funnel,
	model.SegmentWideCurve:   wideCurve,
	model.SegmentZigzag:      zigzag,
	model.SegmentDrop:        drop,
	model.SegmentNarrow:      narrow,
	model.SegmentGentleBend:  gentleBend,
	model.SegmentSplit:       split,
	model.SegmentQuarterPipe: quarterPipe,
	model.SegmentMiniRamp:    miniRamp,
	model.SegmentLattice:     lattice,
	model.SegmentHalfPipe:    halfPipe,
}

func slope(p segmentEnd, width float64, rng *RNG) model.TrackSegment {
	hw := width / 2
	h := rng.Range(400, 700)
	drift := rng.Range(-60, 60)
	mid := drift * 0.5
	return walls(model.SegmentSlope, p, func(x0, y0, s float64) []model.TrackPoint {
		return []model.TrackPoint{
			{X: x0, Y: y0},
			{X: x0 + mid*0.3, Y: p.Y + h*0.25},
			{X: x0 + mid, Y: p.Y + h*0.5},
			{X: x0 + mid + (drift-mid)*0.5, Y: p.Y + h*0.75},
			{X: p.X + s*hw + drift, Y: p.Y + h},
		}
	})
}

func steepSlope(p segmentEnd, width float64, rng *RNG) model.TrackSegment {
	hw := width / 2
	h := rng.Range(500, 800)
	drift := rng.Range(-30, 30)
	return walls(model.SegmentSteepSlope, p, func(x0, y0, s float64) []model.TrackPoint {
		return []model.TrackPoint{
			{X: x0, Y: y0},
			{X: x0 + drift*0.2, Y: p.Y + h*0.25},
			{X: x0 + drift*0.3, Y: p.Y + h*0.5},
			{X: p.X + s*hw*0.9 + drift, Y: p.Y + h},
		}
	})
}

func flat(p segmentEnd, _ float64, rng *RNG) model.TrackSegment {
	drift := rng.Range(-80, 80)
	dy := rng.Range(60, 140)
	return walls(model.SegmentFlat, p, func(x0, y0, s float64) []model.TrackPoint {
		return []model.TrackPoint{
			{X: x0, Y: y0},
			{X: x0 + drift*0.3, Y: p.Y + dy*0.3},
			{X: x0 + drift*0.5, Y: p.Y + dy*0.5},
			{X: x0 + drift, Y: p.Y + dy},
		}
	})
}

func funnel(p segmentEnd, width float64, rng *RNG) model.TrackSegment {
	hw := width / 2
	h := rng.Range(400, 600)
	narrowFactor := rng.Range(0.6, 0.8)
	drift := rng.Range(-40, 40)
	funnelHW := math.Max(MinPassageWidth/2, hw*narrowFactor)
	return walls(model.SegmentFunnel, p, func(x0, y0, s float64) []model.TrackPoint {
		return []model.TrackPoint{
			{X: x0, Y: y0},
			{X: (x0*2 + p.X + s*funnelHW + drift) / 3, Y: p.Y + h*0.33},
			{X: (x0 + p.X + s*funnelHW + drift) / 2, Y: p.Y + h*0.66},
			{X: p.X + s*funnelHW + drift, Y: p.Y + h},
		}
	})
}

func wideCurve(p segmentEnd, _ float64, rng *RNG) model.TrackSegment {
	h := rng.Range(450, 700)
	dir := rng.Sign()
	amount := rng.Range(60, 100) * dir
	return walls(model.SegmentWideCurve, p, func(x0, y0, s float64) []model.TrackPoint {
		return []model.TrackPoint{
			{X: x0, Y: y0},
			{X: x0 + amount*0.2, Y: p.Y + h*0.2},
			{X: x0 + amount*0.6, Y: p.Y + h*0.4},
			{X: x0 + amount, Y: p.Y + h*0.5},
			{X: x0 + amount*0.8, Y: p.Y + h*0.65},
			{X: x0 + amount*0.4, Y: p.Y + h*0.85},
			{X: x0 + amount*0.2, Y: p.Y + h},
		}
	})
}

func zigzag(p segmentEnd, width float64, rng *RNG) model.TrackSegment {
	hw := width / 2
	h := rng.Range(600, 900)
	zigs := rng.Int(2, 3)
	segH := h / float64(zigs)
	offsets := make([]float64, zigs)
	for i := range offsets {
		dir := 1.0
		if i%2 == 1 {
			dir = -1
		}
		offsets[i] = dir * rng.Range(40, 80)
	}
	return walls(model.SegmentZigzag, p, func(x0, y0, s float64) []model.TrackPoint {
		pts := []model.TrackPoint{{X: x0, Y: y0}}
		for i, off := range offsets {
			pts = append(pts,
				model.TrackPoint{X: p.X + s*hw + off, Y: p.Y + segH*(float64(i)+0.5)},
				model.TrackPoint{X: p.X + s*hw + off*0.3, Y: p.Y + segH*float64(i+1)},
			)
		}
		return pts
	})
}

// neck is shared by drop and narrow: ease in to a throat of half width
// throat, hold it, then ease out to the full corridor.
func neck(kind model.SegmentType, p segmentEnd, hw, throat, h, drift float64, fracs [5]float64) model.TrackSegment {
	return walls(kind, p, func(x0, y0, s float64) []model.TrackPoint {
		in := p.X + s*throat + drift
		return []model.TrackPoint{
			{X: x0, Y: y0},
			{X: (x0*2 + p.X + s*throat + drift) / 3, Y: p.Y + h*fracs[0]},
			{X: in, Y: p.Y + h*fracs[1]},
			{X: in, Y: p.Y + h*fracs[2]},
			{X: (p.X + s*hw + drift + p.X + s*throat + drift) / 2, Y: p.Y + h*fracs[3]},
			{X: p.X + s*hw + drift, Y: p.Y + h*fracs[4]},
		}
	})
}

func drop(p segmentEnd, width float64, rng *RNG) model.TrackSegment {
	hw := width / 2
	h := rng.Range(400, 600)
	drift := rng.Range(-25, 25)
	throat := math.Max((MinPassageWidth+smoothingAllowance)/2, hw*0.5)
	return neck(model.SegmentDrop, p, hw, throat, h, drift, [5]float64{0.15, 0.3, 0.7, 0.85, 1})
}

func narrow(p segmentEnd, width float64, rng *RNG) model.TrackSegment {
	hw := width / 2
	h := rng.Range(400, 600)
	throat := math.Max(MinPassageWidth+smoothingAllowance, rng.Range(140, 200))
	drift := rng.Range(-30, 30)
	return neck(model.SegmentNarrow, p, hw, throat/2, h, drift, [5]float64{0.2, 0.35, 0.65, 0.8, 1})
}

func gentleBend(p segmentEnd, _ float64, rng *RNG) model.TrackSegment {
	h := rng.Range(400, 600)
	dir := rng.Sign()
	amount := rng.Range(40, 70) * dir
	return walls(model.SegmentGentleBend, p, func(x0, y0, s float64) []model.TrackPoint {
		return []model.TrackPoint{
			{X: x0, Y: y0},
			{X: x0 + amount*0.3, Y: p.Y + h*0.25},
			{X: x0 + amount*0.5, Y: p.Y + h*0.33},
			{X: x0 + amount, Y: p.Y + h*0.55},
			{X: x0 + amount*0.8, Y: p.Y + h*0.75},
			{X: x0 + amount*0.5, Y: p.Y + h},
		}
	})
}

var (
	splitWallFracs    = []float64{0, 0.08, 0.2, 0.35, 0.5, 0.65, 0.8, 0.92, 1.0}
	splitDividerFracs = []float64{0.12, 0.25, 0.4, 0.5, 0.6, 0.75, 0.88}
)

// split widens into 2-4 parallel channels separated by curving dividers.
// The width is drawn first and only then raised so that every channel
// keeps a minimum passage plus wobble room.
func split(p segmentEnd, width float64, rng *RNG) model.TrackSegment {
	hw := width / 2
	dividers := rng.Int(1, 3)
	h := rng.Range(700, 1000)
	drift := rng.Range(-25, 25)
	mult := 1.3 + float64(dividers)*0.25
	splitWidth := math.Max(width*rng.Range(mult-0.1, mult+0.1), float64(dividers+1)*(MinPassageWidth+40))
	splitHW := splitWidth / 2
	centerX := p.X + drift
	dir := rng.Sign()
	amount := rng.Range(30, 90) * dir
	curveAt := func(f float64) float64 { return amount * math.Sin(f*math.Pi) }

	last := len(splitWallFracs) - 1
	seg := walls(model.SegmentSplit, p, func(x0, y0, s float64) []model.TrackPoint {
		pts := make([]model.TrackPoint, len(splitWallFracs))
		for i, f := range splitWallFracs {
			switch i {
			case 0:
				pts[i] = model.TrackPoint{X: x0, Y: y0}
			case last:
				pts[i] = model.TrackPoint{X: p.X + s*hw + drift, Y: p.Y + h}
			default:
				pts[i] = model.TrackPoint{X: centerX + s*splitHW + curveAt(f), Y: p.Y + h*f}
			}
		}
		return pts
	})

	for d := 0; d < dividers; d++ {
		baseX := centerX - splitHW + splitWidth*(float64(d+1)/float64(dividers+1))
		wobble := rng.Range(-15, 15)
		raw := make([]model.TrackPoint, len(splitDividerFracs))
		for i, f := range splitDividerFracs {
			raw[i] = model.TrackPoint{X: baseX + curveAt(f) + wobble*math.Sin(f*math.Pi*2), Y: p.Y + h*f}
		}
		seg.Dividers = append(seg.Dividers, Smooth(raw, subdivisions))
	}
	return seg
}

func quarterPipe(p segmentEnd, _ float64, rng *RNG) model.TrackSegment {
	h := rng.Range(500, 750)
	dir := rng.Sign()
	reach := rng.Range(80, 140) * dir
	const steps = 8
	return walls(model.SegmentQuarterPipe, p, func(x0, y0, s float64) []model.TrackPoint {
		pts := []model.TrackPoint{{X: x0, Y: y0}}
		for i := 1; i <= steps; i++ {
			t := float64(i) / steps
			pts = append(pts, model.TrackPoint{X: x0 + reach*math.Sin(t*math.Pi), Y: p.Y + h*t})
		}
		return pts
	})
}

func miniRamp(p segmentEnd, width float64, rng *RNG) model.TrackSegment {
	hw := width / 2
	h := rng.Range(500, 700)
	drift := rng.Range(-30, 30)
	dip := rng.Range(40, 80)
	dir := rng.Sign()
	return walls(model.SegmentMiniRamp, p, func(x0, y0, s float64) []model.TrackPoint {
		return []model.TrackPoint{
			{X: x0, Y: y0},
			{X: x0 + drift*0.2 + dir*dip*0.3, Y: p.Y + h*0.15},
			{X: x0 + drift*0.3 + dir*dip, Y: p.Y + h*0.3},
			{X: x0 + drift*0.4 + dir*dip*0.8, Y: p.Y + h*0.45},
			{X: x0 + drift*0.5, Y: p.Y + h*0.55},
			{X: x0 + drift*0.6 - dir*dip*0.3, Y: p.Y + h*0.7},
			{X: x0 + drift*0.8, Y: p.Y + h*0.85},
			{X: p.X + s*hw + drift, Y: p.Y + h},
		}
	})
}

// latticeJitter is the horizontal jitter of each deflector.
const latticeJitter = 12

// lattice is a Galton board: staggered rows of short angled deflectors.
func lattice(p segmentEnd, width float64, rng *RNG) model.TrackSegment {
	hw := width / 2
	rows := rng.Int(3, 5)
	h := rng.Range(1000, 1500)
	drift := rng.Range(-20, 20)
	latticeWidth := width * rng.Range(1.6, 2.0)
	centerX := p.X + drift
	entry := h * 0.10
	exit := h * 0.10
	rowSpacing := (h - entry - exit) / float64(rows+1)
	perRow := rng.Int(2, 4)
	wallLen := rng.Range(40, 65)
	angle := rng.Range(30, 45) * math.Pi / 180
	wallDx := math.Cos(angle) * wallLen / 2
	wallDy := math.Sin(angle) * wallLen / 2

	inset := float64(model.MarbleRadius * 4)
	// widest row holds perRow deflectors and perRow+1 gaps
	latticeWidth = math.Max(latticeWidth, 2*inset+float64(perRow+1)*(MinPassageWidth+2*wallDx+2*latticeJitter))
	latticeHW := latticeWidth / 2

	seg := walls(model.SegmentLattice, p, func(x0, y0, s float64) []model.TrackPoint {
		return []model.TrackPoint{
			{X: x0, Y: y0},
			{X: centerX + s*latticeHW, Y: p.Y + entry*0.5},
			{X: centerX + s*latticeHW, Y: p.Y + h - exit*0.5},
			{X: p.X + s*hw + drift, Y: p.Y + h},
		}
	})

	usable := latticeWidth - inset*2
	rowStartX := centerX - latticeHW + inset
	for row := 0; row < rows; row++ {
		rowY := p.Y + entry + rowSpacing*float64(row+1)
		offset := row%2 == 1
		n, slots := perRow, perRow+1
		if offset {
			n, slots = perRow-1, perRow
		}
		if n <= 0 {
			continue
		}
		spacing := usable / float64(slots)
		for w := 0; w < n; w++ {
			wx := rowStartX + spacing*(float64(w)+0.5)
			if offset {
				wx = rowStartX + spacing*float64(w+1)
			}
			wx += rng.Range(-latticeJitter, latticeJitter)
			wy := rowY + rng.Range(-8, 8)
			dir := 1.0
			if (row+w)%2 != 0 {
				dir = -1
			}
			seg.Dividers = append(seg.Dividers, []model.TrackPoint{
				{X: wx - wallDx, Y: wy - wallDy*dir},
				{X: wx + wallDx, Y: wy + wallDy*dir},
			})
		}
	}
	return seg
}

func halfPipe(p segmentEnd, width float64, rng *RNG) model.TrackSegment {
	hw := width / 2
	h := rng.Range(600, 900)
	swing := rng.Range(80, 130)
	dir := rng.Sign()
	swing = halfPipeSwing(swing, h, math.Min(p.RightX-p.LeftX, width))
	return walls(model.SegmentHalfPipe, p, func(x0, y0, s float64) []model.TrackPoint {
		return []model.TrackPoint{
			{X: x0, Y: y0},
			{X: x0 + dir*swing*0.4, Y: p.Y + h*0.1},
			{X: x0 + dir*swing, Y: p.Y + h*0.2},
			{X: x0 + dir*swing*0.8, Y: p.Y + h*0.3},
			{X: x0, Y: p.Y + h*0.4},
			{X: x0 - dir*swing*0.8, Y: p.Y + h*0.5},
			{X: x0 - dir*swing, Y: p.Y + h*0.6},
			{X: x0 - dir*swing*0.8, Y: p.Y + h*0.7},
			{X: x0, Y: p.Y + h*0.8},
			{X: x0 + dir*swing*0.3, Y: p.Y + h*0.9},
			{X: p.X + s*hw, Y: p.Y + h},
		}
	})
}

// halfPipeSwing limits the sideways swing so the steepest leg, which climbs
// less than swing over a tenth of h, still leaves a perpendicular passage of
// MinPassageWidth after smoothing.
func halfPipeSwing(swing, h, width float64) float64 {
	floor := float64(MinPassageWidth + smoothingAllowance)
	if width <= floor {
		return 0
	}
	return math.Min(swing, 0.1*h*math.Sqrt(width*width/(floor*floor)-1))
}
