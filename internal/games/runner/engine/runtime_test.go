package engine

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tile-runner/internal/config"
)

const frameDT = 1.0 / 60

type fakeRecorder struct {
	rows      int
	continues int
	losses    []LossEvent
}

func (f *fakeRecorder) RecordRows(n int)        { f.rows += n }
func (f *fakeRecorder) RecordLoss(ev LossEvent) { f.losses = append(f.losses, ev) }
func (f *fakeRecorder) RecordContinue()         { f.continues++ }

type runtimeFixture struct {
	rt       *Runtime
	sched    *ManualScheduler
	surface  *HeadlessSurface
	rec      *fakeRecorder
	losses   []LossEvent
	gameOver int
}

func newFixture(t *testing.T, cfg config.RunnerConfig, w, h float64) *runtimeFixture {
	t.Helper()
	f := &runtimeFixture{
		sched:   NewManualScheduler(),
		surface: NewHeadlessSurface(w, h),
		rec:     &fakeRecorder{},
	}
	f.rt = NewRuntime(cfg, f.surface, f.sched, RuntimeOptions{
		Rand:     rand.New(rand.NewSource(42)),
		Recorder: f.rec,
	})
	f.rt.OnLoss = func(ev LossEvent) { f.losses = append(f.losses, ev) }
	f.rt.OnGameOver = func() { f.gameOver++ }
	return f
}

func (f *runtimeFixture) advance(ticks int) {
	for i := 0; i < ticks; i++ {
		f.sched.Advance(frameDT)
	}
}

// pushOffPath moves the road far enough that the next tick registers a loss.
func (f *runtimeFixture) pushOffPath() {
	f.rt.state.OffsetX = 10000
}

func TestRuntimeEndToEndCentredShip(t *testing.T) {
	f := newFixture(t, config.DefaultRunnerConfig(), 1000, 1000)
	f.rt.Start()

	// 8 units per tick against 100-unit rows: 63 ticks cover 5 rows.
	f.advance(63)

	if len(f.losses) != 0 {
		t.Fatalf("losses = %+v, expected none with a centred ship", f.losses)
	}
	if f.rt.Score() != 5 {
		t.Errorf("Score() = %d, expected 5", f.rt.Score())
	}
	if f.rt.AttemptsLeft() != 3 {
		t.Errorf("AttemptsLeft() = %d, expected 3", f.rt.AttemptsLeft())
	}
	if f.rt.tiles.Len() != 16 {
		t.Errorf("tile window = %d, expected 16", f.rt.tiles.Len())
	}
	for _, tile := range f.rt.Tiles() {
		if tile.Y < f.rt.Score() {
			t.Errorf("tile %+v is behind the current row", tile)
		}
	}
	if f.rec.rows != 5 {
		t.Errorf("recorded rows = %d, expected 5", f.rec.rows)
	}
	if f.rt.Ticks() != 63 {
		t.Errorf("Ticks() = %d, expected 63", f.rt.Ticks())
	}
}

func TestRuntimeRespawnPreservesScore(t *testing.T) {
	f := newFixture(t, config.DefaultRunnerConfig(), 1000, 1000)
	f.rt.Start()
	f.advance(30)
	if f.rt.Score() != 2 {
		t.Fatalf("Score() = %d, expected 2 before the loss", f.rt.Score())
	}

	f.pushOffPath()
	f.advance(1)

	if len(f.losses) != 1 {
		t.Fatalf("losses = %d, expected 1", len(f.losses))
	}
	ev := f.losses[0]
	if ev.Outcome != LossSoftReset || ev.Reason != ReasonOutOfTileX || ev.Score != 2 || ev.AttemptsLeft != 2 {
		t.Errorf("loss event = %+v, expected soft reset out_of_tile_x at score 2 with 2 attempts", ev)
	}

	st := f.rt.State()
	if st.YLoop != 2 {
		t.Errorf("YLoop = %d, expected 2", st.YLoop)
	}
	if st.OffsetX != 0 || st.OffsetY != 0 || st.SpeedX != 0 || st.GameOver {
		t.Errorf("state after respawn = %+v, expected cleared motion", st)
	}
	if first := f.rt.Tiles()[0]; first != (Tile{X: 0, Y: 2}) {
		t.Errorf("first tile = %+v, expected respawn run-up at (0, 2)", first)
	}
	if f.gameOver != 0 {
		t.Error("OnGameOver should not fire on a soft reset")
	}

	// The respawned ship keeps going.
	f.advance(30)
	if len(f.losses) != 1 {
		t.Errorf("losses = %d after respawn, expected 1", len(f.losses))
	}
}

func TestRuntimeGameOverAndReward(t *testing.T) {
	f := newFixture(t, config.DefaultRunnerConfig(), 1000, 1000)
	f.rt.Start()
	f.advance(20)

	for i := 0; i < 3; i++ {
		f.pushOffPath()
		f.advance(1)
	}

	if f.gameOver != 1 {
		t.Fatalf("OnGameOver calls = %d, expected 1", f.gameOver)
	}
	if len(f.losses) != 3 || f.losses[2].Outcome != LossGameOver {
		t.Fatalf("losses = %+v, expected the third to end the game", f.losses)
	}
	if !f.rt.State().GameOver || f.rt.AttemptsLeft() != 0 {
		t.Errorf("state = %+v attempts = %d, expected game over with 0 attempts", f.rt.State(), f.rt.AttemptsLeft())
	}

	score := f.rt.Score()
	frames := f.surface.Frames
	f.advance(10)
	if f.rt.Score() != score {
		t.Errorf("score moved after game over: %d -> %d", score, f.rt.Score())
	}
	if f.surface.Frames != frames+10 {
		t.Errorf("frames = %d, expected the static scene to keep rendering", f.surface.Frames)
	}
	if !f.surface.Last.GameOver {
		t.Error("frame should report game over")
	}

	f.rt.ReceiveReward()
	st := f.rt.State()
	if st.GameOver || !st.Running() || st.YLoop != score {
		t.Errorf("state after reward = %+v, expected a running run at score %d", st, score)
	}
	if f.rt.AttemptsLeft() != 3 || f.rec.continues != 1 {
		t.Errorf("attempts = %d continues = %d, expected 3 and 1", f.rt.AttemptsLeft(), f.rec.continues)
	}
	if f.sched.Pending() != 1 {
		t.Errorf("Pending() = %d, expected the loop to keep a single tick", f.sched.Pending())
	}

	f.advance(13)
	if f.rt.Score() <= score {
		t.Errorf("Score() = %d, expected progress after continuing from %d", f.rt.Score(), score)
	}
}

func TestRuntimeStartStopCancelTick(t *testing.T) {
	f := newFixture(t, config.DefaultRunnerConfig(), 1000, 1000)

	f.rt.Start()
	f.advance(20)
	f.rt.Start()
	if f.sched.Pending() != 1 {
		t.Fatalf("Pending() = %d, expected restart to replace the tick", f.sched.Pending())
	}
	if f.rt.Score() != 0 {
		t.Errorf("Score() = %d after restart, expected 0", f.rt.Score())
	}

	f.rt.Stop()
	f.rt.Stop()
	if f.sched.Pending() != 0 || f.rt.Running() {
		t.Error("Stop should cancel the tick")
	}

	before := f.rt.State()
	f.advance(10)
	if f.rt.State() != before {
		t.Error("state changed after Stop")
	}
}

func TestRuntimeDegenerateSurface(t *testing.T) {
	f := newFixture(t, config.DefaultRunnerConfig(), 0, 0)
	f.rt.Start()
	f.advance(10)

	if f.surface.Frames != 0 || f.rt.Score() != 0 || len(f.losses) != 0 {
		t.Errorf("zero-size surface should no-op, frames = %d score = %d", f.surface.Frames, f.rt.Score())
	}

	tiny := newFixture(t, config.DefaultRunnerConfig(), 1.5, 1000)
	tiny.rt.PrepareScene()
	if tiny.surface.Frames != 0 {
		t.Errorf("frames = %d, expected no render below 2 units", tiny.surface.Frames)
	}
}

func TestRuntimePrepareScene(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	f := newFixture(t, cfg, 1000, 1000)
	f.rt.PrepareScene()

	if f.surface.Frames != 1 {
		t.Fatalf("frames = %d, expected 1", f.surface.Frames)
	}
	frame := f.surface.Last
	if len(frame.VerticalLines) != cfg.Grid.VNbLines {
		t.Errorf("vertical lines = %d, expected %d", len(frame.VerticalLines), cfg.Grid.VNbLines)
	}
	if len(frame.HorizontalLines) != cfg.Grid.HNbLines {
		t.Errorf("horizontal lines = %d, expected %d", len(frame.HorizontalLines), cfg.Grid.HNbLines)
	}
	if len(frame.Tiles) != cfg.Tiles.Count {
		t.Errorf("tiles = %d, expected %d", len(frame.Tiles), cfg.Tiles.Count)
	}
	if !frame.HasShip {
		t.Error("frame should carry the ship")
	}
	if frame.Ship[ShipApex].X != 500 {
		t.Errorf("apex x = %d, expected the focal column 500", frame.Ship[ShipApex].X)
	}
	if frame.Started || f.sched.Pending() != 0 {
		t.Error("PrepareScene should not start the run")
	}
	if frame.AttemptsLeft != 3 || frame.MaxAttempts != 3 {
		t.Errorf("frame attempts = %d/%d, expected 3/3", frame.AttemptsLeft, frame.MaxAttempts)
	}
}

func TestRuntimeSteppedInputBounds(t *testing.T) {
	f := newFixture(t, config.DefaultRunnerConfig(), 1000, 1000)
	f.rt.PrepareScene()

	lo, hi := f.rt.OffsetBounds(1000)
	if !near(lo, -150) || !near(hi, 150) {
		t.Fatalf("OffsetBounds = [%v, %v], expected [-150, 150]", lo, hi)
	}
	if !near(f.rt.StepSize(), 100) {
		t.Fatalf("StepSize() = %v, expected 100", f.rt.StepSize())
	}

	steps := []struct {
		left bool
		want float64
	}{
		{true, 100},
		{true, 150},
		{false, 50},
		{false, -50},
		{false, -150},
		{false, -150},
	}
	for i, s := range steps {
		if s.left {
			f.rt.StepLeft()
		} else {
			f.rt.StepRight()
		}
		if got := f.rt.State().OffsetX; !near(got, s.want) {
			t.Errorf("step %d: OffsetX = %v, expected %v", i, got, s.want)
		}
		if f.rt.State().SpeedX != 0 {
			t.Errorf("step %d: SpeedX = %v, expected 0", i, f.rt.State().SpeedX)
		}
	}
}

func TestRuntimeSteppedDriftIsNotClampedBeforeCollision(t *testing.T) {
	f := newFixture(t, config.DefaultRunnerConfig(), 1000, 1000)
	f.rt.Start()
	f.advance(1)
	if len(f.losses) != 0 {
		t.Fatalf("losses = %d, expected none on the run-up", len(f.losses))
	}

	// Outside the envelope with no input: the clamp only runs on steps, so
	// the tick must see the off-path ship and register the loss.
	_, hi := f.rt.OffsetBounds(1000)
	f.rt.state.OffsetX = hi + 250
	f.advance(1)

	if len(f.losses) != 1 {
		t.Fatalf("losses = %d, expected the drift to cost an attempt", len(f.losses))
	}
	if ev := f.losses[0]; ev.Outcome != LossSoftReset || ev.Reason != ReasonOutOfTileX {
		t.Errorf("loss event = %+v, expected soft reset out_of_tile_x", ev)
	}

	// A step after the drift is clamped back into the envelope.
	f.rt.state.OffsetX = hi + 250
	f.rt.StepLeft()
	if got := f.rt.State().OffsetX; got > hi+1e-9 {
		t.Errorf("OffsetX = %v after a step, expected at most %v", got, hi)
	}
}

func TestRuntimeBoundsFollowOccupiedLanes(t *testing.T) {
	f := newFixture(t, config.DefaultRunnerConfig(), 1000, 1000)
	f.rt.PrepareScene()

	// Lanes 0..2 in the current row let the road shift toward the right-hand lanes.
	f.rt.tiles.tiles = []Tile{{0, 0}, {1, 0}, {2, 0}, {2, 1}}
	lo, hi := f.rt.OffsetBounds(1000)
	if !near(lo, 50-2.5*400) || !near(hi, 150) {
		t.Errorf("OffsetBounds = [%v, %v], expected [%v, 150]", lo, hi, 50-2.5*400)
	}
}

func TestRuntimeLinearInput(t *testing.T) {
	f := newFixture(t, config.DefaultRunnerConfig(), 1000, 1000)
	f.rt.PrepareScene()

	f.rt.SetDirection(1)
	if !f.rt.LinearActive() || f.rt.State().SpeedX != 3 {
		t.Fatalf("SetDirection(1): active = %v SpeedX = %v", f.rt.LinearActive(), f.rt.State().SpeedX)
	}

	f.rt.ApplyLinearX(frameDT)
	if got := f.rt.State().OffsetX; math.Abs(got-30) > 1e-6 {
		t.Errorf("OffsetX = %v, expected 30", got)
	}
	f.rt.ApplyLinearX(1)
	if got := f.rt.State().OffsetX; !near(got, 150) {
		t.Errorf("OffsetX = %v, expected clamp at 150", got)
	}

	f.rt.SetDirection(-1)
	f.rt.ApplyLinearX(1)
	if got := f.rt.State().OffsetX; !near(got, -150) {
		t.Errorf("OffsetX = %v, expected clamp at -150", got)
	}

	f.rt.SetDirection(0)
	if f.rt.LinearActive() || f.rt.State().SpeedX != 0 {
		t.Error("SetDirection(0) should clear linear motion")
	}
}

func TestRuntimeLinearModeSkipsMotionLateral(t *testing.T) {
	f := newFixture(t, config.DefaultRunnerConfig(), 1000, 1000)
	f.rt.Start()

	f.rt.SetDirection(1)
	f.advance(1)
	if st := f.rt.State(); st.OffsetX != 0 || st.SpeedX != 3 {
		t.Errorf("linear mode: OffsetX = %v SpeedX = %v, expected 0 and 3", st.OffsetX, st.SpeedX)
	}

	f.rt.SetDirection(0)
	f.rt.state.SpeedX = 3
	f.advance(1)
	if got := f.rt.State().OffsetX; math.Abs(got-30) > 1e-6 {
		t.Errorf("speed mode: OffsetX = %v, expected 30", got)
	}
}

func TestRuntimeBrakeAndSlowdown(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	f := newFixture(t, cfg, 1000, 1000)

	f.rt.BrakeOn()
	if f.rt.State().SpeedYFactor != cfg.Motion.BrakeFactor {
		t.Errorf("SpeedYFactor = %v, expected %v", f.rt.State().SpeedYFactor, cfg.Motion.BrakeFactor)
	}
	f.rt.BrakeOff()
	if f.rt.State().SpeedYFactor != 1 {
		t.Errorf("SpeedYFactor = %v, expected 1", f.rt.State().SpeedYFactor)
	}
	f.rt.SlowdownOn()
	if f.rt.State().SpeedYFactor != cfg.Motion.SlowdownFactor {
		t.Errorf("SpeedYFactor = %v, expected %v", f.rt.State().SpeedYFactor, cfg.Motion.SlowdownFactor)
	}
	f.rt.SlowdownOff()
	if f.rt.State().SpeedYFactor != 1 {
		t.Errorf("SpeedYFactor = %v, expected 1", f.rt.State().SpeedYFactor)
	}
}

func TestRuntimeDifficultySpeed(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	diff := config.NewDifficultyManager(config.DifficultyConfig{
		Enabled:     true,
		Progression: config.ProgressionConfig{Type: "time", MaxAt: 1},
		Scaling:     config.ScalingConfig{SpeedMultiplier: 1},
	})
	sched := NewManualScheduler()
	rt := NewRuntime(cfg, NewHeadlessSurface(1000, 1000), sched, RuntimeOptions{Difficulty: diff})

	rt.Start()
	sched.Advance(frameDT)

	if got := rt.State().OffsetY; math.Abs(got-16) > 1e-6 {
		t.Errorf("OffsetY = %v, expected doubled speed 16", got)
	}
}
