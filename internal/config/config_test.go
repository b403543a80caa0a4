package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var embedded RunnerConfig
	if err := yaml.Unmarshal(GetDefaultYAML("runner"), &embedded); err != nil {
		t.Fatalf("embedded yaml does not parse: %v", err)
	}
	if embedded != DefaultRunnerConfig() {
		t.Errorf("embedded defaults = %+v, expected %+v", embedded, DefaultRunnerConfig())
	}
}

func TestDefaultRunnerConfigValid(t *testing.T) {
	if err := DefaultRunnerConfig().Validate(); err != nil {
		t.Errorf("Validate() = %v, expected nil", err)
	}
}

func TestVerticalLineRange(t *testing.T) {
	tests := []struct {
		lines      int
		start, end int
	}{
		{8, -3, 4},
		{4, -1, 2},
		{2, 0, 1},
		{7, -2, 4},
	}

	for _, tc := range tests {
		g := RunnerGrid{VNbLines: tc.lines}
		start, end := g.VerticalLineRange()
		if start != tc.start || end != tc.end {
			t.Errorf("VerticalLineRange(%d) = (%d, %d), expected (%d, %d)", tc.lines, start, end, tc.start, tc.end)
		}
		if g.MinLaneX() != tc.start || g.MaxLaneX() != tc.end-1 {
			t.Errorf("lanes(%d) = [%d, %d], expected [%d, %d]", tc.lines, g.MinLaneX(), g.MaxLaneX(), tc.start, tc.end-1)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RunnerConfig)
	}{
		{"one vertical line", func(c *RunnerConfig) { c.Grid.VNbLines = 1 }},
		{"zero rows", func(c *RunnerConfig) { c.Grid.HNbLines = 0 }},
		{"zero lane width", func(c *RunnerConfig) { c.Grid.VLinesSpacing = 0 }},
		{"negative focal", func(c *RunnerConfig) { c.Grid.FocalY = -1 }},
		{"negative speed", func(c *RunnerConfig) { c.Motion.Speed = -0.1 }},
		{"no tiles", func(c *RunnerConfig) { c.Tiles.Count = 0 }},
		{"short prefill", func(c *RunnerConfig) { c.Tiles.Prefill = 1 }},
		{"window shorter than run-up", func(c *RunnerConfig) { c.Tiles.Count = 4 }},
		{"zero steps", func(c *RunnerConfig) { c.Input.StepsToEdge = 0 }},
		{"flat ship", func(c *RunnerConfig) { c.Ship.Height = 0 }},
		{"no attempts", func(c *RunnerConfig) { c.Session.MaxAttempts = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultRunnerConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadRunnerCustomPathOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runner.yaml")
	data := []byte("motion:\n  speed: 1.6\nsession:\n  max_attempts: 7\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRunner(path)
	if err != nil {
		t.Fatalf("LoadRunner() error = %v", err)
	}
	if cfg.Motion.Speed != 1.6 {
		t.Errorf("Motion.Speed = %v, expected 1.6", cfg.Motion.Speed)
	}
	if cfg.Session.MaxAttempts != 7 {
		t.Errorf("Session.MaxAttempts = %d, expected 7", cfg.Session.MaxAttempts)
	}
	if cfg.Grid != DefaultRunnerConfig().Grid {
		t.Errorf("Grid = %+v, expected defaults to be kept", cfg.Grid)
	}
}

func TestLoadRunnerCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadRunner(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("grid: [not, a, map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRunner(bad); err == nil {
		t.Error("expected error for malformed custom config")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("tiles:\n  count: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRunner(invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadRunner(invalid) = %v, expected ErrInvalidConfig", err)
	}
}

func TestApplyRunnerPreset(t *testing.T) {
	tests := []struct {
		preset   DifficultyPreset
		enabled  bool
		level    float64
		attempts int
	}{
		{DifficultyEasy, true, 0.0, 5},
		{DifficultyNormal, true, 0.3, 3},
		{DifficultyHard, true, 0.7, 2},
		{DifficultyFixed, false, 0.0, 3},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultRunnerConfig()
			ApplyRunnerPreset(&cfg, tc.preset)
			if cfg.Difficulty.Enabled != tc.enabled {
				t.Errorf("Enabled = %v, expected %v", cfg.Difficulty.Enabled, tc.enabled)
			}
			if cfg.Difficulty.InitialLevel != tc.level {
				t.Errorf("InitialLevel = %v, expected %v", cfg.Difficulty.InitialLevel, tc.level)
			}
			if cfg.Session.MaxAttempts != tc.attempts {
				t.Errorf("MaxAttempts = %d, expected %d", cfg.Session.MaxAttempts, tc.attempts)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	if ParsePreset("hard") != DifficultyHard {
		t.Error("ParsePreset(hard) should return DifficultyHard")
	}
	if ParsePreset("insane") != "" {
		t.Error("ParsePreset should reject unknown presets")
	}
}
