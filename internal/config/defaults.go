package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the built-in tile runner configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Grid: RunnerGrid{
			VNbLines:      8,
			VLinesSpacing: 0.4,
			HNbLines:      15,
			HLinesSpacing: 0.1,
			FocalY:        0.75,
		},
		Motion: RunnerMotion{
			Speed:          0.8,
			SpeedX:         3.0,
			SlowdownFactor: 0.35,
			BrakeFactor:    0.1,
		},
		Tiles: RunnerTiles{
			Count:   16,
			Prefill: 10,
		},
		Input: RunnerInput{
			StepsToEdge:  3,
			HoldDelay:    0.20,
			BoostFrom:    0.80,
			HoldTick:     0.06,
			ReleaseAfter: 0.12,
		},
		Ship: RunnerShip{
			Width:  0.1,
			Height: 0.035,
			BaseY:  0.04,
		},
		Session: RunnerSession{
			MaxAttempts: 3,
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 500,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "runner", "runner_linear":
		return defaultRunnerYAML
	default:
		return nil
	}
}
