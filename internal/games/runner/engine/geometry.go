package engine

import (
	"github.com/vovakirdan/tile-runner/internal/config"
	"github.com/vovakirdan/tile-runner/internal/core"
)

// Viewport is the surface size and focal point used for one frame.
type Viewport struct {
	Width  float64
	Height float64
	PPX    float64
	PPY    float64
}

// Valid reports whether the viewport has a drawable area.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

// RoadGeometry maps grid indices to world-space lines and tile rectangles.
type RoadGeometry struct {
	grid config.RunnerGrid
}

// NewRoadGeometry creates the geometry for a grid configuration.
func NewRoadGeometry(grid config.RunnerGrid) RoadGeometry {
	return RoadGeometry{grid: grid}
}

// VerticalLineRange returns the inclusive range of vertical line indices.
func (g RoadGeometry) VerticalLineRange() (start, end int) {
	return g.grid.VerticalLineRange()
}

// LaneWidth returns the world width of one lane.
func (g RoadGeometry) LaneWidth(width float64) float64 {
	return g.grid.VLinesSpacing * width
}

// RowDepth returns the world depth of one row.
func (g RoadGeometry) RowDepth(height float64) float64 {
	return g.grid.HLinesSpacing * height
}

// LineX returns the world x of a vertical line. The half-lane shift puts
// lane 0 under the focal point.
func (g RoadGeometry) LineX(index int, width, ppx, offsetX float64) float64 {
	return ppx + (float64(index)-0.5)*g.LaneWidth(width) + offsetX
}

// LineY returns the world y of a horizontal line.
func (g RoadGeometry) LineY(index int, height, offsetY float64) float64 {
	return float64(index)*g.RowDepth(height) - offsetY
}

// TileRect returns the world rectangle of a tile. Rows are taken relative to
// the current loop so row 0 is always the one under the ship.
func (g RoadGeometry) TileRect(t Tile, st *GameState, vp Viewport) core.RectF {
	adjY := t.Y - st.YLoop
	return core.RectF{
		XMin: g.LineX(t.X, vp.Width, vp.PPX, st.OffsetX),
		YMin: g.LineY(adjY, vp.Height, st.OffsetY),
		XMax: g.LineX(t.X+1, vp.Width, vp.PPX, st.OffsetX),
		YMax: g.LineY(adjY+1, vp.Height, st.OffsetY),
	}
}
