// Package engine implements the tile runner simulation: road geometry,
// procedural tile generation, motion, collision, the attempt budget and the
// per-tick runtime that ties them together.
//
// World coordinates have their origin at the bottom-left of the surface with
// y growing away from the player. The ship stays at the horizontal centre and
// lateral movement is expressed by shifting the road (GameState.OffsetX).
package engine

import "math"

// Perspective projects world coordinates toward a focal point.
type Perspective struct {
	PointX float64
	PointY float64
}

// SetPoint moves the focal point. Callers keep PointY positive.
func (p *Perspective) SetPoint(x, y float64) {
	p.PointX = x
	p.PointY = y
}

// Transform projects (x, y) into screen space for a surface of the given
// height. Rows compress toward the focal point with a quartic falloff.
func (p Perspective) Transform(x, y, height float64) (int, int) {
	sx, sy := p.TransformF(x, y, height)
	return int(sx), int(sy)
}

// TransformF is Transform without truncation to integers.
func (p Perspective) TransformF(x, y, height float64) (float64, float64) {
	if p.PointY <= 0 || height <= 0 {
		return x, y
	}

	linY := math.Min(y*p.PointY/height, p.PointY)
	diffX := x - p.PointX
	diffY := p.PointY - linY
	factor := math.Pow(diffY/p.PointY, 4)

	return p.PointX + diffX*factor, p.PointY - factor*p.PointY
}
