// Package core provides fundamental types and utilities shared by the runner
// engine and the terminal platform. It contains no external dependencies
// (especially no Bubble Tea) to keep game logic pure and testable.
package core

// Rect represents an integer cell rectangle on a Screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the cell (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// PointF is a point in world space.
type PointF struct {
	X, Y float64
}

// Pt is shorthand for PointF{X: x, Y: y}.
func Pt(x, y float64) PointF {
	return PointF{X: x, Y: y}
}

// RectF is an axis-aligned world-space rectangle given by its bounds.
// Unlike Rect, containment is inclusive on every edge.
type RectF struct {
	XMin, YMin float64
	XMax, YMax float64
}

// Contains reports whether (x, y) lies inside the rectangle, edges included.
func (r RectF) Contains(x, y float64) bool {
	return r.XMin <= x && x <= r.XMax && r.YMin <= y && y <= r.YMax
}

// ContainsPoint is Contains for a PointF.
func (r RectF) ContainsPoint(p PointF) bool {
	return r.Contains(p.X, p.Y)
}

// Width returns XMax - XMin.
func (r RectF) Width() float64 {
	return r.XMax - r.XMin
}

// Height returns YMax - YMin.
func (r RectF) Height() float64 {
	return r.YMax - r.YMin
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
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

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
