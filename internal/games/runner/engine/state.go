package engine

// GameState is the mutable per-run scalar state.
type GameState struct {
	OffsetX      float64 // Lateral road shift in world units
	OffsetY      float64 // Sub-row forward scroll in world units
	YLoop        int     // Fully advanced rows, also the score
	SpeedX       float64 // Signed lateral speed, percent of width per 60Hz frame
	SpeedYFactor float64 // Forward speed multiplier, 1 when not braking
	GameOver     bool
	Started      bool
}

// NewGameState returns a state ready for a new run.
func NewGameState() *GameState {
	st := &GameState{}
	st.Reset()
	return st
}

// Reset zeroes all motion fields and the score.
func (s *GameState) Reset() {
	*s = GameState{SpeedYFactor: 1.0}
}

// Respawn clears motion and the game-over flag but keeps the score.
func (s *GameState) Respawn() {
	s.OffsetX = 0
	s.SpeedX = 0
	s.OffsetY = 0
	s.GameOver = false
}

// MarkStarted flags the run as in progress.
func (s *GameState) MarkStarted() {
	s.Started = true
	s.GameOver = false
}

// MarkGameOver flags the run as finished.
func (s *GameState) MarkGameOver() {
	s.GameOver = true
}

// Running reports whether motion and collision should be applied.
func (s *GameState) Running() bool {
	return s.Started && !s.GameOver
}
