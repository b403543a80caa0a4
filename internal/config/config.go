// Package config provides YAML-based game configuration loading and
// difficulty management for the tile runner.
package config

import (
	"errors"
	"fmt"
)

// RunnerConfig contains all tuning values for the tile runner.
// Screen-relative values are fractions of the surface width or height.
// A loaded config is treated as immutable and passed by value.
type RunnerConfig struct {
	Grid       RunnerGrid       `yaml:"grid"`
	Motion     RunnerMotion     `yaml:"motion"`
	Tiles      RunnerTiles      `yaml:"tiles"`
	Input      RunnerInput      `yaml:"input"`
	Ship       RunnerShip       `yaml:"ship"`
	Session    RunnerSession    `yaml:"session"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// RunnerGrid defines the road grid and the perspective focal point.
type RunnerGrid struct {
	VNbLines      int     `yaml:"v_nb_lines"`      // Vertical grid lines (lane borders)
	VLinesSpacing float64 `yaml:"v_lines_spacing"` // Lane width as a fraction of screen width
	HNbLines      int     `yaml:"h_nb_lines"`      // Horizontal grid lines drawn
	HLinesSpacing float64 `yaml:"h_lines_spacing"` // Row depth as a fraction of screen height
	FocalY        float64 `yaml:"focal_y"`         // Focal point height as a fraction of screen height
}

// RunnerMotion defines forward and lateral speeds.
type RunnerMotion struct {
	Speed          float64 `yaml:"speed"`           // Forward speed, percent of height per 60Hz frame
	SpeedX         float64 `yaml:"speed_x"`         // Lateral speed, percent of width per 60Hz frame
	SlowdownFactor float64 `yaml:"slowdown_factor"` // Forward multiplier while slowing down
	BrakeFactor    float64 `yaml:"brake_factor"`    // Forward multiplier while braking
}

// RunnerTiles defines the procedural path window.
type RunnerTiles struct {
	Count   int `yaml:"count"`   // Live tiles kept ahead of the player
	Prefill int `yaml:"prefill"` // Straight centre-lane run-up rows
}

// RunnerInput defines stepped input granularity and hold timings (seconds).
type RunnerInput struct {
	StepsToEdge  int     `yaml:"steps_to_edge"`
	HoldDelay    float64 `yaml:"hold_delay"`    // Hold time before repeat steps begin
	BoostFrom    float64 `yaml:"boost_from"`    // Hold time after which repeats step 3x
	HoldTick     float64 `yaml:"hold_tick"`     // Interval between repeat steps
	ReleaseAfter float64 `yaml:"release_after"` // Silence that counts as key release
}

// RunnerShip defines the ship triangle.
type RunnerShip struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	BaseY  float64 `yaml:"base_y"`
}

// RunnerSession defines the attempt budget.
type RunnerSession struct {
	MaxAttempts int `yaml:"max_attempts"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI string to a preset. Unknown strings map to "".
func ParsePreset(s string) DifficultyPreset {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// MinLaneX and MaxLaneX bound the lane index of generated tiles.
// Tiles span [line x, line x+1], so the last line index is excluded.
func (g RunnerGrid) MinLaneX() int {
	start, _ := g.VerticalLineRange()
	return start
}

// MaxLaneX returns the right-most lane a tile may occupy.
func (g RunnerGrid) MaxLaneX() int {
	_, end := g.VerticalLineRange()
	return end - 1
}

// VerticalLineRange returns the inclusive index range of vertical lines,
// symmetric around zero: start = -(n/2) + 1, end = start + n - 1.
func (g RunnerGrid) VerticalLineRange() (start, end int) {
	start = -(g.VNbLines / 2) + 1
	end = start + g.VNbLines - 1
	return start, end
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid runner config")

// Validate rejects values that would make geometry degenerate.
func (c RunnerConfig) Validate() error {
	switch {
	case c.Grid.VNbLines < 2:
		return fmt.Errorf("%w: grid.v_nb_lines must be >= 2, got %d", ErrInvalidConfig, c.Grid.VNbLines)
	case c.Grid.HNbLines < 1:
		return fmt.Errorf("%w: grid.h_nb_lines must be >= 1, got %d", ErrInvalidConfig, c.Grid.HNbLines)
	case c.Grid.VLinesSpacing <= 0 || c.Grid.HLinesSpacing <= 0:
		return fmt.Errorf("%w: grid spacings must be positive", ErrInvalidConfig)
	case c.Grid.FocalY <= 0:
		return fmt.Errorf("%w: grid.focal_y must be positive, got %v", ErrInvalidConfig, c.Grid.FocalY)
	case c.Motion.Speed < 0:
		return fmt.Errorf("%w: motion.speed must not be negative", ErrInvalidConfig)
	case c.Tiles.Count < 1:
		return fmt.Errorf("%w: tiles.count must be >= 1, got %d", ErrInvalidConfig, c.Tiles.Count)
	case c.Tiles.Prefill < 2:
		return fmt.Errorf("%w: tiles.prefill must be >= 2, got %d", ErrInvalidConfig, c.Tiles.Prefill)
	case c.Tiles.Count < c.Tiles.Prefill:
		return fmt.Errorf("%w: tiles.count (%d) must cover tiles.prefill (%d)", ErrInvalidConfig, c.Tiles.Count, c.Tiles.Prefill)
	case c.Input.StepsToEdge < 1:
		return fmt.Errorf("%w: input.steps_to_edge must be >= 1", ErrInvalidConfig)
	case c.Ship.Width <= 0 || c.Ship.Height <= 0:
		return fmt.Errorf("%w: ship dimensions must be positive", ErrInvalidConfig)
	case c.Session.MaxAttempts < 1:
		return fmt.Errorf("%w: session.max_attempts must be >= 1, got %d", ErrInvalidConfig, c.Session.MaxAttempts)
	}
	return nil
}
