package track

import (
	"encoding/json"
	"math"
	"os"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zucenko/marblerace/model"
)

const coordTolerance = 1e-6

var propertySeeds = func() []int32 {
	seeds := []int32{-2147483648, -5, 2147483647, 424242, 777777, 999998}
	for s := int32(0); s < 120; s++ {
		seeds = append(seeds, s)
	}
	return seeds
}()

type referenceLayout struct {
	Seed         int32    `json:"seed"`
	Types        []string `json:"types"`
	Dividers     []int    `json:"dividers"`
	FinishY      float64  `json:"finishY"`
	FinishLeftX  float64  `json:"finishLeftX"`
	FinishRightX float64  `json:"finishRightX"`
	BoundsMaxY   float64  `json:"boundsMaxY"`
}

func loadJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

// reference_layouts.json comes from the JavaScript server generator: the
// segment sequence, divider counts and finish line do not depend on the
// width and angle corrections and must match it.
func TestGenerateMatchesReferenceLayouts(t *testing.T) {
	var refs []referenceLayout
	loadJSON(t, "testdata/reference_layouts.json", &refs)
	require.NotEmpty(t, refs)

	for _, ref := range refs {
		tr := Generate(ref.Seed)
		types := make([]string, len(tr.Segments))
		dividers := make([]int, len(tr.Segments))
		for i, s := range tr.Segments {
			types[i] = string(s.Type)
			dividers[i] = len(s.Dividers)
		}
		assert.Equal(t, ref.Types, types, "seed %d", ref.Seed)
		assert.Equal(t, ref.Dividers, dividers, "seed %d", ref.Seed)

		finish := tr.Segments[len(tr.Segments)-1]
		assert.InDelta(t, ref.FinishY, tr.FinishLineY(), coordTolerance, "seed %d", ref.Seed)
		assert.InDelta(t, ref.FinishLeftX, finish.Points[0].X, coordTolerance, "seed %d", ref.Seed)
		assert.InDelta(t, ref.FinishRightX, finish.RightPoints[0].X, coordTolerance, "seed %d", ref.Seed)
		assert.InDelta(t, ref.BoundsMaxY, tr.BoundsMaxY, coordTolerance, "seed %d", ref.Seed)
	}
}

func assertPointsClose(t *testing.T, want, got []model.TrackPoint, msg string) {
	t.Helper()
	if !assert.Len(t, got, len(want), msg) {
		return
	}
	for i := range want {
		assert.InDelta(t, want[i].X, got[i].X, coordTolerance, "%s x[%d]", msg, i)
		assert.InDelta(t, want[i].Y, got[i].Y, coordTolerance, "%s y[%d]", msg, i)
	}
}

// golden_tracks.json is a snapshot of this generator's geometry for two
// seeds. It pins every coordinate so recipe changes show up as diffs.
func TestGenerateMatchesGoldenTracks(t *testing.T) {
	var golden []model.Track
	loadJSON(t, "testdata/golden_tracks.json", &golden)
	require.NotEmpty(t, golden)

	for _, want := range golden {
		got := Generate(want.Seed)
		require.Len(t, got.Segments, len(want.Segments), "seed %d", want.Seed)
		for i, ws := range want.Segments {
			gs := got.Segments[i]
			assert.Equal(t, ws.Type, gs.Type)
			assertPointsClose(t, ws.Points, gs.Points, string(ws.Type)+" left")
			assertPointsClose(t, ws.RightPoints, gs.RightPoints, string(ws.Type)+" right")
			require.Len(t, gs.Dividers, len(ws.Dividers))
			for d := range ws.Dividers {
				assertPointsClose(t, ws.Dividers[d], gs.Dividers[d], string(ws.Type)+" divider")
			}
		}
		assert.InDelta(t, want.StartX, got.StartX, coordTolerance)
		assert.InDelta(t, want.StartY, got.StartY, coordTolerance)
		assert.InDelta(t, want.FunnelLeft, got.FunnelLeft, coordTolerance)
		assert.InDelta(t, want.FunnelRight, got.FunnelRight, coordTolerance)
		assert.InDelta(t, want.BoundsMinX, got.BoundsMinX, coordTolerance)
		assert.InDelta(t, want.BoundsMaxX, got.BoundsMaxX, coordTolerance)
		assert.InDelta(t, want.BoundsMinY, got.BoundsMinY, coordTolerance)
		assert.InDelta(t, want.BoundsMaxY, got.BoundsMaxY, coordTolerance)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	for _, seed := range []int32{0, 1, 42, -77, 999999} {
		assert.Equal(t, Generate(seed), Generate(seed), "seed %d", seed)
	}
	assert.NotEqual(t, Generate(1).Segments, Generate(2).Segments)
}

func TestGenerateStructure(t *testing.T) {
	for _, seed := range propertySeeds {
		tr := Generate(seed)
		n := len(tr.Segments)
		require.GreaterOrEqual(t, n, 2+minBodySegments+1)
		require.LessOrEqual(t, n, 2+maxBodySegments+1)
		assert.Equal(t, model.SegmentFunnel, tr.Segments[0].Type)
		assert.Equal(t, model.SegmentMaze, tr.Segments[1].Type)
		assert.Equal(t, model.SegmentFinish, tr.Segments[n-1].Type)
		maze := tr.Segments[1]
		assert.True(t, len(maze.Dividers) >= 2 && len(maze.Dividers) <= 4, "maze shelves %d", len(maze.Dividers))
		for _, s := range tr.Segments[2 : n-1] {
			assert.Contains(t, palette, s.Type)
		}
		assert.Equal(t, seed, tr.Seed)
	}
}

func TestGenerateContinuity(t *testing.T) {
	for _, seed := range propertySeeds {
		tr := Generate(seed)
		for i := 1; i < len(tr.Segments); i++ {
			prev, next := tr.Segments[i-1], tr.Segments[i]
			assert.Equal(t, prev.Points[len(prev.Points)-1], next.Points[0], "seed %d left %d", seed, i)
			assert.Equal(t, prev.RightPoints[len(prev.RightPoints)-1], next.RightPoints[0], "seed %d right %d", seed, i)
		}
	}
}

func TestGenerateMinimumBendAngle(t *testing.T) {
	limit := MinAngleDeg * math.Pi / 180
	for _, seed := range propertySeeds {
		tr := Generate(seed)
		for i, s := range tr.Segments {
			polylines := append([][]model.TrackPoint{s.Points, s.RightPoints}, s.Dividers...)
			for _, pl := range polylines {
				assert.GreaterOrEqual(t, minAngle(pl), limit, "seed %d segment %d %s", seed, i, s.Type)
			}
		}
	}
}

func TestGenerateBoundsCoverEveryWall(t *testing.T) {
	for _, seed := range propertySeeds {
		tr := Generate(seed)
		tr.EachWall(func(a, b model.TrackPoint) {
			for _, p := range []model.TrackPoint{a, b} {
				assert.True(t, p.X >= tr.BoundsMinX && p.X <= tr.BoundsMaxX, "seed %d x %f", seed, p.X)
				assert.True(t, p.Y >= tr.BoundsMinY && p.Y <= tr.BoundsMaxY, "seed %d y %f", seed, p.Y)
			}
		})
		assert.InDelta(t, tr.BoundsMaxX-tr.BoundsMinX+boundsPadding, tr.Width, 1e-9)
		assert.InDelta(t, tr.BoundsMaxY-tr.BoundsMinY+boundsPadding, tr.Height, 1e-9)
		assert.Greater(t, tr.FinishLineY(), tr.StartY)
	}
}

func TestGenerateSpawnInsideFunnel(t *testing.T) {
	tr := Generate(42)
	assert.Equal(t, tr.Segments[0].Points[0].X, tr.FunnelLeft)
	assert.Equal(t, tr.Segments[0].RightPoints[0].X, tr.FunnelRight)
	assert.Equal(t, (tr.FunnelLeft+tr.FunnelRight)/2, tr.StartX)
	assert.Equal(t, tr.Segments[0].Points[0].Y+spawnDrop, tr.StartY)
	assert.Equal(t, float64(model.TrackWidth)*1.5, tr.FunnelRight-tr.FunnelLeft)
}

// xAtY intersects a polyline with the horizontal line at y.
func xAtY(pl []model.TrackPoint, y float64) (float64, bool) {
	for i := 0; i+1 < len(pl); i++ {
		a, b := pl[i], pl[i+1]
		lo, hi := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
		if hi > lo && y >= lo && y <= hi {
			return a.X + (b.X-a.X)*(y-a.Y)/(b.Y-a.Y), true
		}
	}
	return 0, false
}

func TestGenerateMinimumPassageBetweenWalls(t *testing.T) {
	for _, seed := range propertySeeds {
		tr := Generate(seed)
		for i, s := range tr.Segments {
			l, r := s.Points, s.RightPoints
			assert.GreaterOrEqual(t, r[0].X-l[0].X, float64(MinPassageWidth), "seed %d segment %d entry", seed, i)
			assert.GreaterOrEqual(t, r[len(r)-1].X-l[len(l)-1].X, float64(MinPassageWidth), "seed %d segment %d exit", seed, i)
		}
	}
}

// distToPolyline is the shortest distance from p to any edge of pl.
func distToPolyline(p model.TrackPoint, pl []model.TrackPoint) float64 {
	best := math.Inf(1)
	for i := 0; i+1 < len(pl); i++ {
		a, b := pl[i], pl[i+1]
		dx, dy := b.X-a.X, b.Y-a.Y
		u := 0.0
		if l2 := dx*dx + dy*dy; l2 > 0 {
			u = math.Max(0, math.Min(1, ((p.X-a.X)*dx+(p.Y-a.Y)*dy)/l2))
		}
		best = math.Min(best, math.Hypot(p.X-a.X-u*dx, p.Y-a.Y-u*dy))
	}
	return best
}

func TestGeneratePerpendicularPassage(t *testing.T) {
	halfPipes := 0
	for seed := int32(0); seed < 400; seed++ {
		tr := Generate(seed)
		for i, s := range tr.Segments {
			if len(s.Dividers) > 0 {
				continue
			}
			if s.Type == model.SegmentHalfPipe {
				halfPipes++
			}
			for j, p := range s.Points {
				w := distToPolyline(p, s.RightPoints)
				assert.GreaterOrEqual(t, w, float64(MinPassageWidth), "seed %d segment %d %s point %d", seed, i, s.Type, j)
			}
		}
	}
	assert.NotZero(t, halfPipes)
}

func TestHalfPipeSwing(t *testing.T) {
	// wide corridors keep the drawn swing
	assert.Equal(t, 100.0, halfPipeSwing(100, 800, 450))
	// narrow ones are limited so the steepest leg stays passable
	limited := halfPipeSwing(130, 600, 250)
	assert.Less(t, limited, 130.0)
	floor := float64(MinPassageWidth + smoothingAllowance)
	assert.InDelta(t, floor, 250*math.Cos(math.Atan(limited/60)), 1e-9)
	assert.Equal(t, 0.0, halfPipeSwing(120, 700, floor))
}

func TestGenerateSplitChannelsKeepMinimumPassage(t *testing.T) {
	checked := 0
	for _, seed := range propertySeeds {
		for _, s := range Generate(seed).Segments {
			if s.Type != model.SegmentSplit {
				continue
			}
			checked++
			first := s.Dividers[0]
			y0, y1 := first[0].Y, first[len(first)-1].Y
			for k := 0; k <= 40; k++ {
				y := y0 + (y1-y0)*float64(k)/40
				lines := append([][]model.TrackPoint{s.Points}, s.Dividers...)
				lines = append(lines, s.RightPoints)
				xs := make([]float64, 0, len(lines))
				for _, pl := range lines {
					if x, ok := xAtY(pl, y); ok {
						xs = append(xs, x)
					}
				}
				if len(xs) != len(lines) {
					continue
				}
				for j := 0; j+1 < len(xs); j++ {
					assert.GreaterOrEqual(t, xs[j+1]-xs[j], float64(MinPassageWidth), "seed %d channel %d at y %.1f", seed, j, y)
				}
			}
		}
	}
	assert.Greater(t, checked, 0)
}

type span struct{ lo, hi float64 }

func TestGenerateLatticeGapsKeepMinimumPassage(t *testing.T) {
	checked := 0
	for _, seed := range propertySeeds {
		for _, s := range Generate(seed).Segments {
			if s.Type != model.SegmentLattice {
				continue
			}
			checked++
			// deflectors whose vertical extents overlap belong to one row
			type row struct {
				y  span
				xs []span
			}
			var rows []*row
			for _, d := range s.Dividers {
				y := span{math.Min(d[0].Y, d[1].Y), math.Max(d[0].Y, d[1].Y)}
				x := span{math.Min(d[0].X, d[1].X), math.Max(d[0].X, d[1].X)}
				var hit *row
				for _, r := range rows {
					if y.lo <= r.y.hi && y.hi >= r.y.lo {
						hit = r
						break
					}
				}
				if hit == nil {
					hit = &row{y: y}
					rows = append(rows, hit)
				}
				hit.y = span{math.Min(hit.y.lo, y.lo), math.Max(hit.y.hi, y.hi)}
				hit.xs = append(hit.xs, x)
			}
			for _, r := range rows {
				sort.Slice(r.xs, func(i, j int) bool { return r.xs[i].lo < r.xs[j].lo })
				left, right := math.Inf(-1), math.Inf(1)
				for _, y := range []float64{r.y.lo, r.y.hi} {
					if x, ok := xAtY(s.Points, y); ok {
						left = math.Max(left, x)
					}
					if x, ok := xAtY(s.RightPoints, y); ok {
						right = math.Min(right, x)
					}
				}
				assert.GreaterOrEqual(t, r.xs[0].lo-left, float64(MinPassageWidth), "seed %d left gap", seed)
				assert.GreaterOrEqual(t, right-r.xs[len(r.xs)-1].hi, float64(MinPassageWidth), "seed %d right gap", seed)
				for j := 0; j+1 < len(r.xs); j++ {
					assert.GreaterOrEqual(t, r.xs[j+1].lo-r.xs[j].hi, float64(MinPassageWidth), "seed %d inner gap", seed)
				}
			}
		}
	}
	assert.Greater(t, checked, 0)
}

func TestGenerateMazeShelfGaps(t *testing.T) {
	for _, seed := range propertySeeds {
		maze := Generate(seed).Segments[1]
		for _, shelf := range maze.Dividers {
			gap := 0.0
			for _, p := range shelf {
				l, okL := xAtY(maze.Points, p.Y)
				r, okR := xAtY(maze.RightPoints, p.Y)
				require.True(t, okL && okR)
				gap = math.Max(gap, math.Min(p.X-l, r-p.X))
			}
			assert.GreaterOrEqual(t, gap, float64(MinPassageWidth), "seed %d", seed)
		}
	}
}

func TestUnknownSegmentTypeFallsBackToSlope(t *testing.T) {
	prev := segmentEnd{X: 0, Y: 250, LeftX: -175, LeftY: 250, RightX: 175, RightY: 250}
	got := build("loop_the_loop", prev, model.TrackWidth, NewRNG(5))
	want := build(model.SegmentSlope, prev, model.TrackWidth, NewRNG(5))
	assert.Equal(t, want, got)
	assert.Equal(t, model.SegmentSlope, got.Type)
}
