package main

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/zucenko/marblerace/model"
)

type Action struct {
	onChange func(float32)
	onFinish []func()
}

func (a *Action) addOnFinish(f func()) {
	if a.onFinish == nil {
		a.onFinish = make([]func(), 0)
	}
	a.onFinish = append(a.onFinish, f)
}

// updateTweens advances every running tween by dt seconds.
func (g *Game) updateTweens(dt float32) {
	for t, a := range g.Tweens {
		curr, finished := t.Update(dt)
		if a.onChange != nil {
			a.onChange(curr)
		}
		if finished {
			for _, onFinish := range a.onFinish {
				onFinish()
			}
			delete(g.Tweens, t)
		}
	}
}

// interpolate moves every marble view from its drawn position to the
// authoritative one over one sync interval. A newer sync replaces the
// running leg.
func (g *Game) interpolate(states []model.MarbleState) {
	for t := range g.Tweens {
		delete(g.Tweens, t)
	}
	for _, s := range states {
		v, ok := g.Marbles[s.Id]
		if !ok {
			continue
		}
		v.target(s)
	}
	t := gween.New(0, 1, g.syncInterval, ease.Linear)
	action := Action{onChange: func(p float32) {
		for _, v := range g.Marbles {
			v.lerp(float64(p))
		}
	}}
	action.addOnFinish(func() {
		for _, v := range g.Marbles {
			v.arrive()
		}
	})
	g.Tweens[t] = action
}
