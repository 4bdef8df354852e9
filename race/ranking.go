package race

import (
	"sort"

	"github.com/zucenko/marblerace/model"
)

// Standing is a marble state with the bookkeeping ranking needs but
// clients don't see.
type Standing struct {
	model.MarbleState
	FinishOrder int
}

// Rank orders standings and assigns 1-based positions. Finished marbles
// come first by finish time then finish order, active marbles follow by
// progress down the track, disqualified marbles go last in the order given.
func Rank(standings []Standing) []model.MarbleState {
	sort.SliceStable(standings, func(i, j int) bool {
		return ahead(&standings[i], &standings[j])
	})
	out := make([]model.MarbleState, len(standings))
	for i := range standings {
		out[i] = standings[i].MarbleState
		out[i].Position = i + 1
	}
	return out
}

func ahead(a, b *Standing) bool {
	if a.Disqualified || b.Disqualified {
		return !a.Disqualified && b.Disqualified
	}
	if a.Finished && b.Finished {
		ta, tb := finishTime(a.MarbleState), finishTime(b.MarbleState)
		if ta != tb {
			return ta < tb
		}
		return a.FinishOrder < b.FinishOrder
	}
	if a.Finished != b.Finished {
		return a.Finished
	}
	return a.Y > b.Y
}

func finishTime(s model.MarbleState) float64 {
	if s.FinishTime == nil {
		return 0
	}
	return *s.FinishTime
}

// Results lists the finished marbles of a ranked state slice followed by
// the disqualified ones, numbered consecutively. Marbles still racing are
// left out.
func Results(ranked []model.MarbleState, roster []model.MarbleConfig) []model.RaceResult {
	configs := make(map[string]model.MarbleConfig, len(roster))
	for _, c := range roster {
		configs[c.Id] = c
	}
	out := make([]model.RaceResult, 0, len(ranked))
	add := func(s model.MarbleState, t float64) {
		c := configs[s.Id]
		out = append(out, model.RaceResult{
			MarbleId:    s.Id,
			MarbleName:  c.Name,
			MarbleColor: c.Color,
			Position:    len(out) + 1,
			FinishTime:  t,
		})
	}
	for _, s := range ranked {
		if s.Finished && !s.Disqualified {
			add(s, finishTime(s))
		}
	}
	for _, s := range ranked {
		if s.Disqualified {
			add(s, model.DisqualifiedTime)
		}
	}
	return out
}
