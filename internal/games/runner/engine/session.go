package engine

// LossOutcome is the result of registering a loss.
type LossOutcome int

const (
	// LossSoftReset means attempts remain and the ship respawns in place.
	LossSoftReset LossOutcome = iota + 1
	// LossGameOver means the attempt budget is exhausted.
	LossGameOver
)

// String returns a human-readable name for the outcome.
func (o LossOutcome) String() string {
	switch o {
	case LossSoftReset:
		return "soft_reset"
	case LossGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// LossReason classifies why the ship was considered off the path.
type LossReason int

const (
	// ReasonOutOfTileGeneric covers an empty tile window and unclassified losses.
	ReasonOutOfTileGeneric LossReason = iota
	// ReasonOutOfTileX means a rear corner left the path sideways.
	ReasonOutOfTileX
	// ReasonOutOfTileTip means only the apex left the path.
	ReasonOutOfTileTip
)

// String returns a human-readable name for the reason.
func (r LossReason) String() string {
	switch r {
	case ReasonOutOfTileX:
		return "out_of_tile_x"
	case ReasonOutOfTileTip:
		return "out_of_tile_tip"
	default:
		return "out_of_tile_generic"
	}
}

// LossEvent is delivered to the loss hook on every loss.
type LossEvent struct {
	Outcome      LossOutcome
	Reason       LossReason
	Score        int
	AttemptsLeft int
}

// Session tracks the attempt budget of a run.
type Session struct {
	maxAttempts  int
	attemptsLeft int
}

// NewSession creates a session with a full budget. Budgets below one are
// raised to one.
func NewSession(maxAttempts int) *Session {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Session{maxAttempts: maxAttempts, attemptsLeft: maxAttempts}
}

// Reset restores the full attempt budget.
func (s *Session) Reset() {
	s.attemptsLeft = s.maxAttempts
}

// RegisterLoss spends one attempt and reports whether the run continues.
func (s *Session) RegisterLoss() LossOutcome {
	if s.attemptsLeft > 0 {
		s.attemptsLeft--
	}
	if s.attemptsLeft > 0 {
		return LossSoftReset
	}
	return LossGameOver
}

// AttemptsLeft returns the remaining attempts.
func (s *Session) AttemptsLeft() int {
	return s.attemptsLeft
}

// MaxAttempts returns the full attempt budget.
func (s *Session) MaxAttempts() int {
	return s.maxAttempts
}
