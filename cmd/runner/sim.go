package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tile-runner/internal/games/runner"
	"github.com/vovakirdan/tile-runner/internal/games/runner/engine"
	"github.com/vovakirdan/tile-runner/internal/storage"
)

var (
	flagSimSeconds  float64
	flagSimRealtime bool
	flagSimSave     bool
	flagSimVerbose  bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the autopilot headless",
	Long: `Play one run with the built-in autopilot and no terminal UI.

By default the clock is simulated and the run finishes as fast as the CPU
allows; --realtime paces it by the wall clock. The run ends at the time
limit, on game over or on Ctrl+C.

Examples:
  runner sim
  runner sim --seconds 300 --seed 42
  runner sim --realtime --seconds 10 --verbose
  runner sim --difficulty hard --save`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().Float64Var(&flagSimSeconds, "seconds", 60, "Simulated time limit in seconds")
	simCmd.Flags().BoolVar(&flagSimRealtime, "realtime", false, "Pace the run by the wall clock")
	simCmd.Flags().BoolVar(&flagSimSave, "save", false, "Store the run in the scores database")
	simCmd.Flags().BoolVar(&flagSimVerbose, "verbose", false, "Log engine events")
	simCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom runner config YAML")
	simCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runSim(cmd *cobra.Command, _ []string) {
	level := log.InfoLevel
	if flagSimVerbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "sim",
		Level:           level,
	})

	runner.SetConfigPath(flagConfig)
	runner.SetDifficultyPreset(flagDifficulty)
	runner.SetLogger(logger)

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := runner.Simulate(ctx, runner.SimOptions{
		Seconds:  flagSimSeconds,
		FPS:      flagFPS,
		Seed:     seed,
		Realtime: flagSimRealtime,
	})
	if err != nil {
		logger.Warn("simulation interrupted", "err", err)
	}

	fmt.Printf("Seed:     %d\n", seed)
	fmt.Printf("Time:     %.1fs (%d ticks)\n", res.Seconds, res.Ticks)
	fmt.Printf("Score:    %d\n", res.Score)
	fmt.Printf("Losses:   %d (game over: %v)\n", res.Losses, res.GameOver)
	fmt.Printf("Rating:   %d\n", res.Rating)
	fmt.Printf("Off edge: %d  Nose off: %d  Other: %d\n",
		res.Metrics.ByReason[engine.ReasonOutOfTileX],
		res.Metrics.ByReason[engine.ReasonOutOfTileTip],
		res.Metrics.ByReason[engine.ReasonOutOfTileGeneric])

	if !flagSimSave {
		return
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Error("could not open scores database", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := saveSim(store, res); err != nil {
		logger.Error("could not save run", "err", err)
		return
	}
	logger.Info("run saved", "db", flagDBPath)
}

// saveSim stores an autopilot run under the stepped mode.
func saveSim(store *storage.Store, res runner.SimResult) error {
	const gameID = "runner"
	if res.Score > 0 {
		if _, err := store.SaveScore(gameID, res.Score, res.Losses, res.Seconds); err != nil {
			return err
		}
	}
	if _, err := store.CommitIfHigher(gameID, storage.CounterBestScore, res.Score); err != nil {
		return err
	}
	if _, err := store.Add(gameID, storage.CounterRows, res.Metrics.Rows); err != nil {
		return err
	}
	if res.GameOver {
		if _, err := store.Add(gameID, storage.CounterGameOvers, 1); err != nil {
			return err
		}
	}
	return nil
}
