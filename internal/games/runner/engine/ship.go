package engine

import (
	"github.com/vovakirdan/tile-runner/internal/config"
	"github.com/vovakirdan/tile-runner/internal/core"
)

// Ship vertex order in ShipModel results.
const (
	ShipRearLeft = iota
	ShipApex
	ShipRearRight
)

// ShipModel computes the ship triangle in world space. The ship is always
// centred horizontally; the road moves beneath it.
type ShipModel struct {
	cfg  config.RunnerShip
	last []core.PointF
}

// NewShipModel creates a ship model for the given dimensions.
func NewShipModel(cfg config.RunnerShip) *ShipModel {
	return &ShipModel{cfg: cfg}
}

// ComputeWorldPoints returns the rear-left, apex and rear-right vertices and
// caches them for LastWorldPoints.
func (m *ShipModel) ComputeWorldPoints(width, height float64) []core.PointF {
	centerX := width / 2
	baseY := m.cfg.BaseY * height
	halfWidth := m.cfg.Width * width / 2
	shipHeight := m.cfg.Height * height

	m.last = []core.PointF{
		ShipRearLeft:  core.Pt(centerX-halfWidth, baseY),
		ShipApex:      core.Pt(centerX, baseY+shipHeight),
		ShipRearRight: core.Pt(centerX+halfWidth, baseY),
	}
	return m.last
}

// LastWorldPoints returns the points from the latest computation, or nil
// if none has happened yet.
func (m *ShipModel) LastWorldPoints() []core.PointF {
	return m.last
}

// HalfWidth returns half the ship width in world units.
func (m *ShipModel) HalfWidth(width float64) float64 {
	return m.cfg.Width * width / 2
}
