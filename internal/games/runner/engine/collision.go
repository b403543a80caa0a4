package engine

import "github.com/vovakirdan/tile-runner/internal/core"

// CollisionEngine tests ship vertices against the tiles near the ship.
type CollisionEngine struct {
	geo RoadGeometry
}

// NewCollisionEngine creates a collision engine over the given geometry.
func NewCollisionEngine(geo RoadGeometry) CollisionEngine {
	return CollisionEngine{geo: geo}
}

// SelectCandidateTiles returns the leading tiles up to the row after the
// current loop. Tiles are ordered by row, so the scan stops at the first
// tile beyond that window.
func SelectCandidateTiles(tiles []Tile, yLoop int) []Tile {
	for i, t := range tiles {
		if t.Y > yLoop+1 {
			return tiles[:i]
		}
	}
	return tiles
}

// PointsOnTiles reports, per ship point, whether it lies on any candidate
// tile. Tile edges count as on the tile.
func (c CollisionEngine) PointsOnTiles(points []core.PointF, tiles []Tile, st *GameState, vp Viewport) []bool {
	candidates := SelectCandidateTiles(tiles, st.YLoop)
	rects := make([]core.RectF, len(candidates))
	for i, t := range candidates {
		rects[i] = c.geo.TileRect(t, st, vp)
	}

	on := make([]bool, len(points))
	for i, p := range points {
		for _, r := range rects {
			if r.ContainsPoint(p) {
				on[i] = true
				break
			}
		}
	}
	return on
}

// ShipOnTiles reports whether every ship point is on some tile. An empty
// point set is never on the path.
func (c CollisionEngine) ShipOnTiles(points []core.PointF, tiles []Tile, st *GameState, vp Viewport) bool {
	return AllOnTiles(c.PointsOnTiles(points, tiles, st, vp))
}

// ShipOnAnyTile reports whether at least one ship point is on a tile.
func (c CollisionEngine) ShipOnAnyTile(points []core.PointF, tiles []Tile, st *GameState, vp Viewport) bool {
	for _, on := range c.PointsOnTiles(points, tiles, st, vp) {
		if on {
			return true
		}
	}
	return false
}

// AllOnTiles reports whether a non-empty mask is entirely true.
func AllOnTiles(on []bool) bool {
	if len(on) == 0 {
		return false
	}
	for _, v := range on {
		if !v {
			return false
		}
	}
	return true
}

// ClassifyLoss names the part of the ship that left the path.
func ClassifyLoss(on []bool) LossReason {
	if len(on) != 3 {
		return ReasonOutOfTileGeneric
	}
	if !on[ShipRearLeft] || !on[ShipRearRight] {
		return ReasonOutOfTileX
	}
	if !on[ShipApex] {
		return ReasonOutOfTileTip
	}
	return ReasonOutOfTileGeneric
}
