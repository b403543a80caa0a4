// runner is a terminal tile runner: steer a ship along a generated path of
// tiles rushing toward you in perspective.
//
// Usage:
//
//	runner list              - List available modes
//	runner play [mode]       - Play a mode (default: runner)
//	runner menu              - Pick modes and view scores interactively
//	runner scores <mode>     - Show run history and counters for a mode
//	runner sim               - Run the autopilot headless
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible paths
//	--db <path>     - Set database path (default: ~/.tilerunner/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import modes to register them
	_ "github.com/vovakirdan/tile-runner/internal/games/runner"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string

	// Shared by play, menu and sim
	flagConfig     string
	flagDifficulty string
	flagLogPath    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runner",
	Short: "Tile Runner - a perspective path runner in your terminal",
	Long: `Tile Runner draws a path of tiles rushing toward you in perspective.
Steer the ship left and right to stay on the path; falling off costs an
attempt, and losing the last one ends the run.

Available commands:
  list     - Show available modes
  play     - Play a mode directly
  menu     - Interactive mode picker and scoreboard
  scores   - View run history
  sim      - Run the autopilot without a terminal UI

Examples:
  runner play
  runner play runner_linear --difficulty hard
  runner menu
  runner scores runner
  runner sim --seconds 120 --seed 42`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tilerunner/scores.db", "Path to scores database")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
}

// openLog returns a logger writing to path, or a discarding logger when
// path is empty. The TUI owns the terminal, so logs never go to stderr
// while playing.
func openLog(path string, level log.Level) (*log.Logger, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, func() {}, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "runner",
		Level:           level,
	})
	return logger, func() { f.Close() }, nil
}
