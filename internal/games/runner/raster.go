package runner

import (
	"image"
	"math"

	"github.com/vovakirdan/tile-runner/internal/core"
	"github.com/vovakirdan/tile-runner/internal/games/runner/engine"
)

// Virtual pixels per terminal cell. The engine surface is sized in these
// units so that a cell keeps the usual 1:2 aspect ratio.
const (
	cellW = 8
	cellH = 16
)

// Scene glyphs
const (
	VLineChar = '·'
	HLineChar = '-'
	TileChar  = '▓'
	ShipChar  = '▲'
)

// raster maps frame coordinates (origin bottom-left) onto screen cells
// (origin top-left), scaling the frame to the screen size.
type raster struct {
	dst    *core.Screen
	sx, sy float64
	rows   int
}

// rasterize draws a projected frame: grid lines first, then tiles, then the ship.
func rasterize(dst *core.Screen, f *engine.Frame) {
	if f.Width <= 0 || f.Height <= 0 || dst.Width() == 0 || dst.Height() == 0 {
		return
	}
	r := raster{
		dst:  dst,
		sx:   float64(dst.Width()) / f.Width,
		sy:   float64(dst.Height()) / f.Height,
		rows: dst.Height(),
	}

	for _, s := range f.VerticalLines {
		r.line(s.A, s.B, VLineChar, core.ColorGrid)
	}
	for _, s := range f.HorizontalLines {
		r.line(s.A, s.B, HLineChar, core.ColorGrid)
	}
	for _, q := range f.Tiles {
		r.polygon(q[:], TileChar, core.ColorTile)
	}
	if f.HasShip {
		r.polygon(f.Ship[:], ShipChar, core.ColorShip)
	}
}

// cell returns the screen cell containing p.
func (r raster) cell(p image.Point) (int, int) {
	x := int(math.Floor(float64(p.X) * r.sx))
	y := r.rows - 1 - int(math.Floor(float64(p.Y)*r.sy))
	return x, y
}

// point returns p in continuous screen coordinates.
func (r raster) point(p image.Point) core.PointF {
	return core.Pt(float64(p.X)*r.sx, float64(r.rows)-float64(p.Y)*r.sy)
}

func (r raster) line(a, b image.Point, ch rune, c core.Color) {
	x0, y0 := r.cell(a)
	x1, y1 := r.cell(b)
	r.dst.DrawLine(x0, y0, x1, y1, ch, c)
}

// polygon fills the shape and traces its outline, so shapes thinner
// than a cell stay visible.
func (r raster) polygon(pts []image.Point, ch rune, c core.Color) {
	poly := make([]core.PointF, len(pts))
	for i, p := range pts {
		poly[i] = r.point(p)
	}
	r.dst.FillPolygon(poly, ch, c)
	for i := range pts {
		r.line(pts[i], pts[(i+1)%len(pts)], ch, c)
	}
}
