package engine

import (
	"math/rand"

	"github.com/vovakirdan/tile-runner/internal/config"
	"github.com/vovakirdan/tile-runner/internal/core"
)

// Tile identifies one road cell by lane and absolute row.
type Tile struct {
	X int // Lane index relative to the centre lane
	Y int // Absolute row, only ever increases along the path
}

// Branch codes picked for each generation step.
const (
	branchStraight = 0
	branchRight    = 1
	branchLeft     = 2
)

// TilesModel keeps the ordered window of path tiles ahead of the player.
// Tiles are appended in non-decreasing row order.
type TilesModel struct {
	tiles   []Tile
	rng     *rand.Rand
	grid    config.RunnerGrid
	limit   int
	prefill int
}

// NewTilesModel creates an empty model. The random source drives path
// generation and must not be shared across goroutines.
func NewTilesModel(cfg config.RunnerConfig, rng *rand.Rand) *TilesModel {
	return &TilesModel{
		tiles:   make([]Tile, 0, cfg.Tiles.Count+cfg.Tiles.Prefill+2),
		rng:     rng,
		grid:    cfg.Grid,
		limit:   cfg.Tiles.Count,
		prefill: cfg.Tiles.Prefill,
	}
}

// Tiles returns the live tiles in generation order. The slice is owned by
// the model and is only valid until the next mutation.
func (m *TilesModel) Tiles() []Tile {
	return m.tiles
}

// Len returns the number of live tiles.
func (m *TilesModel) Len() int {
	return len(m.tiles)
}

// Reset rebuilds the path for a fresh run starting at row 0.
func (m *TilesModel) Reset() {
	m.ResetAtLoop(0)
}

// ResetAtLoop rebuilds the path with a straight centre-lane run-up starting
// at baseY, then extends it to the window size.
func (m *TilesModel) ResetAtLoop(baseY int) {
	m.tiles = m.tiles[:0]
	for i := 0; i < m.prefill; i++ {
		m.tiles = append(m.tiles, Tile{X: 0, Y: baseY + i})
	}
	m.ExtendToLimit()
}

// ExtendToLimit grows the path to exactly the window size, continuing one
// row past the last tile. Each step either runs straight or jogs one lane
// sideways over two rows. Lanes at the grid edge always jog inward.
func (m *TilesModel) ExtendToLimit() {
	lastX, lastY := 0, 0
	if n := len(m.tiles); n > 0 {
		lastX = m.tiles[n-1].X
		lastY = m.tiles[n-1].Y + 1
	}

	minX, maxX := m.grid.MinLaneX(), m.grid.MaxLaneX()

	for len(m.tiles) < m.limit {
		r := m.rng.Intn(3)
		lastX = core.Clamp(lastX, minX, maxX)
		if lastX <= minX {
			r = branchRight
		}
		if lastX >= maxX {
			r = branchLeft
		}

		if !m.push(lastX, lastY) {
			return
		}
		if r != branchStraight {
			if r == branchRight {
				lastX = core.Clamp(lastX+1, minX, maxX)
			} else {
				lastX = core.Clamp(lastX-1, minX, maxX)
			}
			if !m.push(lastX, lastY) {
				return
			}
			lastY++
			if !m.push(lastX, lastY) {
				return
			}
		}
		lastY++
	}
}

// push appends a tile unless the window is already full.
func (m *TilesModel) push(x, y int) bool {
	if len(m.tiles) >= m.limit {
		return false
	}
	m.tiles = append(m.tiles, Tile{X: x, Y: y})
	return true
}

// PrunePassedTiles drops every tile in a row behind the current loop.
func (m *TilesModel) PrunePassedTiles(st *GameState) {
	kept := m.tiles[:0]
	for _, t := range m.tiles {
		if t.Y >= st.YLoop {
			kept = append(kept, t)
		}
	}
	m.tiles = kept
}

// EnsureRespawnTiles guarantees centre-lane tiles in the current and next
// row. Existing tiles are left alone.
func (m *TilesModel) EnsureRespawnTiles(st *GameState) {
	for _, want := range [2]Tile{{X: 0, Y: st.YLoop}, {X: 0, Y: st.YLoop + 1}} {
		if !m.contains(want) {
			m.tiles = append(m.tiles, want)
		}
	}
}

func (m *TilesModel) contains(t Tile) bool {
	for _, have := range m.tiles {
		if have == t {
			return true
		}
	}
	return false
}

// RowLanes returns the lanes occupied in the given rows, in tile order.
func (m *TilesModel) RowLanes(rows ...int) []int {
	var lanes []int
	for _, t := range m.tiles {
		for _, r := range rows {
			if t.Y == r {
				lanes = append(lanes, t.X)
				break
			}
		}
	}
	return lanes
}
