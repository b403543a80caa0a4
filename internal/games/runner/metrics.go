package runner

import "github.com/vovakirdan/tile-runner/internal/games/runner/engine"

// Metrics counts session events across runs. It implements engine.Recorder.
type Metrics struct {
	Rows       int
	SoftResets int
	GameOvers  int
	Continues  int
	ByReason   [3]int // Indexed by engine.LossReason
}

// NewMetrics returns zeroed counters.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordRows implements engine.Recorder.
func (m *Metrics) RecordRows(n int) {
	m.Rows += n
}

// RecordLoss implements engine.Recorder.
func (m *Metrics) RecordLoss(ev engine.LossEvent) {
	switch ev.Outcome {
	case engine.LossSoftReset:
		m.SoftResets++
	case engine.LossGameOver:
		m.GameOvers++
	}
	if r := int(ev.Reason); r >= 0 && r < len(m.ByReason) {
		m.ByReason[r]++
	}
}

// RecordContinue implements engine.Recorder.
func (m *Metrics) RecordContinue() {
	m.Continues++
}

// Losses returns the total number of registered losses.
func (m *Metrics) Losses() int {
	return m.SoftResets + m.GameOvers
}

// KeyVals returns the counters as logger key/value pairs.
func (m *Metrics) KeyVals() []any {
	return []any{
		"rows", m.Rows,
		"soft_resets", m.SoftResets,
		"game_overs", m.GameOvers,
		"continues", m.Continues,
		engine.ReasonOutOfTileX.String(), m.ByReason[engine.ReasonOutOfTileX],
		engine.ReasonOutOfTileTip.String(), m.ByReason[engine.ReasonOutOfTileTip],
		engine.ReasonOutOfTileGeneric.String(), m.ByReason[engine.ReasonOutOfTileGeneric],
	}
}

var _ engine.Recorder = (*Metrics)(nil)
