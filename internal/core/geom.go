// Package core provides fundamental types and utilities for the ping-pong game.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

// Rect represents an axis-aligned rectangle in playfield units (paddles).
type Rect struct {
	X, Y float64 // Top-left corner position
	W, H float64 // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// SpansY reports whether y lies strictly inside the vertical extent.
func (r Rect) SpansY(y float64) bool {
	return y > r.Y && y < r.Bottom()
}

// Circle represents the ball: a center and a radius.
type Circle struct {
	X, Y float64
	R    float64
}

// Left returns the x-coordinate of the leftmost point.
func (c Circle) Left() float64 {
	return c.X - c.R
}

// Right returns the x-coordinate of the rightmost point.
func (c Circle) Right() float64 {
	return c.X + c.R
}

// Top returns the y-coordinate of the topmost point.
func (c Circle) Top() float64 {
	return c.Y - c.R
}

// Bottom returns the y-coordinate of the bottommost point.
func (c Circle) Bottom() float64 {
	return c.Y + c.R
}

// HitsFromRight reports whether a circle approaching from the right touches
// the rectangle's right face. The test is two half-planes: the circle's left
// edge is past the face and its center lies within the vertical extent.
// Corners are not considered.
func HitsFromRight(c Circle, r Rect) bool {
	return c.Left() < r.Right() && r.SpansY(c.Y)
}

// HitsFromLeft is the mirror of HitsFromRight for the rectangle's left face.
func HitsFromLeft(c Circle, r Rect) bool {
	return c.Right() > r.X && r.SpansY(c.Y)
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
