package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tile-runner/internal/registry"
	"github.com/vovakirdan/tile-runner/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show run history for a mode",
	Long: `Display the best runs and the stored counters for the specified mode.
Without a mode, print a summary of every mode played so far.

Examples:
  runner scores
  runner scores runner
  runner scores runner_linear --limit 25
  runner scores runner --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete run history and counters for the mode")
}

func runScores(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		runSummary()
		return
	}
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'runner list' to see available modes.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			return
		}
		fmt.Printf("Cleared run history for %s.\n", title)
		return
	}

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}
	counters, err := store.Counters(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving counters: %v\n", err)
		return
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'runner play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %s\n", "Rank", "Score", "Losses", "Time", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %s\n", "----", "-----", "------", "----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-8d  %-6d  %-6s  %s\n", i+1, entry.Score, entry.Attempts,
			fmt.Sprintf("%.0fs", entry.Duration), entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Printf("Best: %d\n", counters[storage.CounterBestScore])
	fmt.Printf("Rating: %d\n", counters[storage.CounterRating])
	fmt.Printf("Game overs: %d  Continues: %d\n", counters[storage.CounterGameOvers], counters[storage.CounterContinues])
}

// runSummary prints aggregate stats for every mode with stored runs.
func runSummary() {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	stats, err := store.GetAllGamesStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		return
	}
	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-14s  %-5s  %-6s  %-7s  %-8s  %s\n", "Mode", "Runs", "Best", "Average", "Time", "Last played")
	fmt.Printf("  %-14s  %-5s  %-6s  %-7s  %-8s  %s\n", "----", "----", "----", "-------", "----", "-----------")
	for _, id := range ids {
		st := stats[id]
		played := time.Duration(st.TotalTime * float64(time.Second)).Round(time.Second)
		fmt.Printf("  %-14s  %-5d  %-6d  %-7.1f  %-8s  %s\n", id, st.GamesCount, st.HighScore, st.AvgScore,
			played, st.LastPlayed.Format("2006-01-02 15:04"))
	}
}
