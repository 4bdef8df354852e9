package main

import (
	"fmt"

	"github.com/zucenko/marblerace/model"
)

type GameState int

const (
	IDLE GameState = iota + 1
	LOBBY
	PRACTICE
	SPECTATING
	GAME_OVER
)

func (s GameState) Name() string {
	switch s {
	case IDLE:
		return "IDLE"
	case LOBBY:
		return "LOBBY"
	case PRACTICE:
		return "PRACTICE"
	case SPECTATING:
		return "SPECTATING"
	case GAME_OVER:
		return "GAME_OVER"
	default:
		return fmt.Sprintf("N/A(%d)", s)
	}
}

// MarbleView is what the client shows for one marble. During a networked
// race it trails the authoritative position by at most one sync interval.
type MarbleView struct {
	model.MarbleConfig
	X, Y, Angle  float64
	Finished     bool
	Disqualified bool
	Position     int

	fromX, fromY, fromAngle float64
	toX, toY, toAngle       float64
}

func (v *MarbleView) snap(s model.MarbleState) {
	v.X, v.Y, v.Angle = s.X, s.Y, s.Angle
	v.fromX, v.fromY, v.fromAngle = s.X, s.Y, s.Angle
	v.toX, v.toY, v.toAngle = s.X, s.Y, s.Angle
	v.status(s)
}

// target starts a new interpolation leg from wherever the marble is drawn now.
func (v *MarbleView) target(s model.MarbleState) {
	v.fromX, v.fromY, v.fromAngle = v.X, v.Y, v.Angle
	v.toX, v.toY, v.toAngle = s.X, s.Y, s.Angle
	v.status(s)
}

func (v *MarbleView) lerp(p float64) {
	v.X = v.fromX + (v.toX-v.fromX)*p
	v.Y = v.fromY + (v.toY-v.fromY)*p
	v.Angle = v.fromAngle + (v.toAngle-v.fromAngle)*p
}

func (v *MarbleView) arrive() {
	v.X, v.Y, v.Angle = v.toX, v.toY, v.toAngle
}

func (v *MarbleView) status(s model.MarbleState) {
	v.Finished = s.Finished
	v.Disqualified = s.Disqualified
	v.Position = s.Position
}
