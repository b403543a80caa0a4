package engine

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tile-runner/internal/config"
)

func TestAutopilotFollowsPath(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		sched := NewManualScheduler()
		rt := NewRuntime(config.DefaultRunnerConfig(), NewHeadlessSurface(1000, 1000), sched, RuntimeOptions{
			Rand: rand.New(rand.NewSource(seed)),
		})
		losses := 0
		rt.OnLoss = func(LossEvent) { losses++ }

		rt.Start()
		ap := NewAutopilot(rt, sched)
		ap.Engage()
		for i := 0; i < 3000; i++ {
			sched.Advance(frameDT)
		}

		if losses != 0 {
			t.Errorf("seed %d: losses = %d, expected the autopilot to stay on the path", seed, losses)
		}
		if rt.Score() < 50 {
			t.Errorf("seed %d: Score() = %d, expected steady progress", seed, rt.Score())
		}

		ap.Disengage()
		if rt.State().SpeedYFactor != 1 {
			t.Errorf("seed %d: Disengage should release the brake", seed)
		}
		if sched.Pending() != 1 {
			t.Errorf("seed %d: Pending() = %d, expected only the game tick", seed, sched.Pending())
		}
	}
}

func TestAutopilotTargetLane(t *testing.T) {
	sched := NewManualScheduler()
	rt := NewRuntime(config.DefaultRunnerConfig(), NewHeadlessSurface(1000, 1000), sched, RuntimeOptions{})
	rt.PrepareScene()
	ap := NewAutopilot(rt, sched)

	tests := []struct {
		name  string
		tiles []Tile
		want  int
	}{
		{"straight", []Tile{{0, 0}, {0, 1}}, 0},
		{"jog row keeps shared lane", []Tile{{0, 0}, {0, 1}, {1, 1}}, 0},
		{"leave jog row", []Tile{{0, 0}, {1, 0}, {1, 1}}, 1},
		{"closest of next row", []Tile{{-1, 1}, {2, 1}}, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rt.tiles.tiles = tc.tiles
			if got := ap.TargetLane(); got != tc.want {
				t.Errorf("TargetLane() = %d, expected %d", got, tc.want)
			}
		})
	}
}
