package race

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/zucenko/marblerace/model"
)

// spawnGrid lays n marbles out in centred rows that fit inside the start
// funnel opening, first row at the track's spawn point.
func spawnGrid(track *model.Track, n int) []cp.Vector {
	if n <= 0 {
		return nil
	}
	const r = model.MarbleRadius
	left := track.FunnelLeft + r + spawnMargin
	right := track.FunnelRight - r - spawnMargin
	avail := right - left

	maxCols := int(math.Max(1, math.Floor(avail/(2*r+spawnColGap))))
	cols := n
	if maxCols < cols {
		cols = maxCols
	}
	spacing := math.Min(2*r+spawnSpacing, avail/float64(cols))

	out := make([]cp.Vector, n)
	for i := range out {
		row, col := i/cols, i%cols
		rowCols := cols
		if remaining := n - row*cols; remaining < rowCols {
			rowCols = remaining
		}
		out[i] = cp.Vector{
			X: track.StartX + (float64(col)-float64(rowCols-1)/2)*spacing,
			Y: track.StartY + float64(row)*(2*r+spawnRowGap),
		}
	}
	return out
}
