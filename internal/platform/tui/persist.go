package tui

import (
	"errors"

	"github.com/vovakirdan/tile-runner/internal/games/runner"
	"github.com/vovakirdan/tile-runner/internal/storage"
)

// runReporter is implemented by games that summarize runs for storage.
type runReporter interface {
	Report() runner.Report
	Finish() runner.Report
	SetBest(best int)
}

// persistRun stores a run: history row, best score and rating, plus the
// game-over counter when the run ended by losing. All writes are
// attempted; errors are joined.
func persistRun(store *storage.Store, gameID string, rep runner.Report, gameOver bool) error {
	var errs []error
	if rep.Score > 0 {
		if _, err := store.SaveScore(gameID, rep.Score, rep.Losses, rep.Duration); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := store.CommitIfHigher(gameID, storage.CounterBestScore, rep.Score); err != nil {
		errs = append(errs, err)
	}
	if err := store.Set(gameID, storage.CounterRating, rep.Rating); err != nil {
		errs = append(errs, err)
	}
	if gameOver {
		if _, err := store.Add(gameID, storage.CounterGameOvers, 1); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// loadBest returns the stored best score, 0 when unknown.
func loadBest(store *storage.Store, gameID string) int {
	best, err := store.Get(gameID, storage.CounterBestScore)
	if err != nil {
		return 0
	}
	return best
}
