package runner

import "math"

// Rating reference values.
const (
	ratingLifeRef   = 120.0 // Score of one life that saturates its component
	ratingGameRef   = 300.0 // Run score that saturates its component
	ratingTimeRef   = 60.0  // Gameplay seconds that saturate the time component
	ratingStartsK   = 0.35
	ratingStartsMax = 30
	validRunSeconds = 9.0 // A start counts once its run lasts this long
)

// RatingSession collects the statistics the rating is computed from.
// Times are seconds on the caller's clock.
type RatingSession struct {
	StartsTotal     int
	ValidStarts     int
	BestLifeScore   int
	BestGameScore   int
	GameplaySeconds float64

	currentLife     int
	runStartedAt    float64
	runActive       bool
	runValidated    bool
	gameplayStarted bool
	gameplayFrom    float64
}

// PressStart registers a new run starting at score.
func (r *RatingSession) PressStart(now float64, score int) {
	r.StartsTotal++
	r.runStartedAt = now
	r.runActive = true
	r.runValidated = false
	r.currentLife = score
	r.BestGameScore = max(r.BestGameScore, score)
	if !r.gameplayStarted {
		r.gameplayStarted = true
		r.gameplayFrom = now
	}
}

// ScoreChanged tracks the running score.
func (r *RatingSession) ScoreChanged(score int) {
	r.currentLife = max(r.currentLife, score)
	r.BestGameScore = max(r.BestGameScore, score)
}

// LifeLost closes the current life.
func (r *RatingSession) LifeLost() {
	r.BestLifeScore = max(r.BestLifeScore, r.currentLife)
	r.currentLife = 0
}

// GameOver closes the life and the run and fixes the gameplay duration.
func (r *RatingSession) GameOver(now float64) {
	r.LifeLost()
	if r.gameplayStarted {
		r.GameplaySeconds = math.Max(0, now-r.gameplayFrom)
	}
	r.validate(now)
}

// ExitBack validates the current run when the player leaves the game.
func (r *RatingSession) ExitBack(now float64) {
	r.validate(now)
}

func (r *RatingSession) validate(now float64) {
	if !r.runActive || r.runValidated {
		return
	}
	if now-r.runStartedAt >= validRunSeconds {
		r.ValidStarts++
		r.runValidated = true
	}
}

// Points returns the rating for the collected statistics.
func (r *RatingSession) Points() int {
	return RatingPoints(r.BestLifeScore, r.BestGameScore, r.ValidStarts, r.GameplaySeconds)
}

// RatingPoints maps session statistics to [0, 1000]. A non-positive
// gameplay duration is treated as unknown and drops the time component.
func RatingPoints(bestLife, bestGame, validStarts int, gameplaySeconds float64) int {
	f1 := normLog(float64(bestLife), ratingLifeRef)
	f2 := normLog(float64(bestGame), ratingGameRef)
	f3 := normSatStarts(validStarts)

	var r float64
	if gameplaySeconds <= 0 {
		r = 0.45*f1 + 0.40*f2 + 0.15*f3
	} else {
		f4 := normLog(gameplaySeconds, ratingTimeRef)
		r = 0.40*f1 + 0.35*f2 + 0.10*f3 + 0.15*f4
	}
	return int(math.Round(1000 * clamp01(r)))
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// normLog is log1p(x) / log1p(ref), clamped to [0, 1].
func normLog(x, ref float64) float64 {
	if ref <= 0 {
		return 0
	}
	return clamp01(math.Log1p(math.Max(0, x)) / math.Log1p(ref))
}

// normSatStarts saturates towards 1 with the number of valid starts
// beyond the first.
func normSatStarts(n int) float64 {
	n = min(max(n, 0), ratingStartsMax)
	if n <= 1 {
		return 0
	}
	return clamp01(1 - math.Exp(-ratingStartsK*float64(n-1)))
}
