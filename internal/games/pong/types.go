// Package pong implements the two-paddle ball-bounce simulation.
// One Engine serves both deployments: in local mode it owns both paddles and
// scores goals itself; in networked mode it owns one paddle and simulates the
// ball only while it holds authority.
package pong

import (
	"fmt"

	"github.com/shouta0715/ping-pong-game/internal/core"
)

// Side identifies which physical edge a networked client guards.
// Side one plays the left paddle, side two the right paddle.
type Side string

const (
	SideOne Side = "1"
	SideTwo Side = "2"
)

// ParseSide validates a side label.
func ParseSide(s string) (Side, error) {
	side := Side(s)
	if !side.Valid() {
		return "", fmt.Errorf("pong: invalid side %q (want \"1\" or \"2\")", s)
	}
	return side, nil
}

// Valid reports whether s is one of the two side labels.
func (s Side) Valid() bool {
	return s == SideOne || s == SideTwo
}

// Index returns the score/paddle index for the side (0 = left).
func (s Side) Index() int {
	if s == SideTwo {
		return 1
	}
	return 0
}

// Peer returns the opposite side.
func (s Side) Peer() Side {
	if s == SideOne {
		return SideTwo
	}
	return SideOne
}

// Winner returns the winner label credited when this side scores.
func (s Side) Winner() Winner {
	if s == SideTwo {
		return WinnerRight
	}
	return WinnerLeft
}

// Winner is the wire label of the side credited with a goal.
type Winner string

const (
	WinnerLeft  Winner = "left"
	WinnerRight Winner = "right"
)

// Valid reports whether w is a known winner label.
func (w Winner) Valid() bool {
	return w == WinnerLeft || w == WinnerRight
}

// Index returns the score index (0 = left/player 1).
func (w Winner) Index() int {
	if w == WinnerRight {
		return 1
	}
	return 0
}

// Ball is the simulated circle and its per-tick velocity.
type Ball struct {
	X, Y   float64
	Radius float64
	DX, DY float64
}

// Circle returns the collision shape.
func (b Ball) Circle() core.Circle {
	return core.Circle{X: b.X, Y: b.Y, R: b.Radius}
}

// SpeedSquared returns dx² + dy², which reflections preserve.
func (b Ball) SpeedSquared() float64 {
	return b.DX*b.DX + b.DY*b.DY
}

// Paddle is a vertical bar; X is fixed after creation.
type Paddle struct {
	X, Y          float64
	Width, Height float64
}

// Rect returns the collision shape.
func (p Paddle) Rect() core.Rect {
	return core.NewRect(p.X, p.Y, p.Width, p.Height)
}

// Settings holds the playfield geometry and the canonical values the
// engine resets to.
type Settings struct {
	Width  float64 // Playfield width in logical units
	Height float64 // Playfield height in logical units

	BallRadius float64
	BallSpeed  float64 // Initial |dx| and |dy|

	PaddleWidth  float64
	PaddleHeight float64
	PaddleInset  float64 // Distance from the paddle's own edge
	PaddleStep   float64 // Distance moved per key press
}

// DefaultSettings returns the classic 800x600 configuration.
func DefaultSettings() Settings {
	return Settings{
		Width:        800,
		Height:       600,
		BallRadius:   10,
		BallSpeed:    4,
		PaddleWidth:  20,
		PaddleHeight: 100,
		PaddleInset:  10,
		PaddleStep:   100,
	}
}

// CanonicalBall returns the ball at the center, moving down and right.
func (s Settings) CanonicalBall() Ball {
	return Ball{
		X:      s.Width / 2,
		Y:      s.Height / 2,
		Radius: s.BallRadius,
		DX:     s.BallSpeed,
		DY:     s.BallSpeed,
	}
}

// CanonicalPaddle returns the starting paddle for index 0 (left) or 1 (right).
func (s Settings) CanonicalPaddle(index int) Paddle {
	x := s.PaddleInset
	if index == 1 {
		x = s.Width - s.PaddleInset - s.PaddleWidth
	}
	return Paddle{
		X:      x,
		Y:      (s.Height - s.PaddleHeight) / 2,
		Width:  s.PaddleWidth,
		Height: s.PaddleHeight,
	}
}

// MaxPaddleY is the lowest top edge a paddle may reach.
func (s Settings) MaxPaddleY() float64 {
	return s.Height - s.PaddleHeight
}
