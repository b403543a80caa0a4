package engine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestManualSchedulerFiresWithElapsed(t *testing.T) {
	s := NewManualScheduler()
	var got []float64
	s.ScheduleInterval(func(dt float64) { got = append(got, dt) }, 100*time.Millisecond)

	s.Advance(0.04)
	s.Advance(0.04)
	if len(got) != 0 {
		t.Fatalf("fired after 0.08s with period 0.1s: %v", got)
	}
	s.Advance(0.04)
	if len(got) != 1 || math.Abs(got[0]-0.12) > 1e-9 {
		t.Fatalf("calls = %v, expected one call with dt 0.12", got)
	}

	// A long gap fires once with the whole elapsed time.
	s.Advance(0.5)
	if len(got) != 2 || math.Abs(got[1]-0.5) > 1e-9 {
		t.Errorf("calls = %v, expected second call with dt 0.5", got)
	}
	if math.Abs(s.Now()-0.62) > 1e-9 {
		t.Errorf("Now() = %v, expected 0.62", s.Now())
	}
}

func TestManualSchedulerSixtyHertz(t *testing.T) {
	s := NewManualScheduler()
	calls := 0
	s.ScheduleInterval(func(float64) { calls++ }, time.Second/60)

	for i := 0; i < 600; i++ {
		s.Advance(1.0 / 60)
	}
	if calls != 600 {
		t.Errorf("calls = %d, expected 600", calls)
	}
}

func TestManualSchedulerCancel(t *testing.T) {
	s := NewManualScheduler()
	calls := 0
	h := s.ScheduleInterval(func(float64) { calls++ }, 0)

	s.Advance(0.01)
	h.Cancel()
	h.Cancel()
	s.Advance(0.01)

	if calls != 1 {
		t.Errorf("calls = %d, expected 1", calls)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, expected 0", s.Pending())
	}
}

func TestManualSchedulerScheduleDuringAdvance(t *testing.T) {
	s := NewManualScheduler()
	inner := 0
	var outer Handle
	outer = s.ScheduleInterval(func(float64) {
		outer.Cancel()
		s.ScheduleInterval(func(float64) { inner++ }, 0)
	}, 0)

	s.Advance(0.01)
	if inner != 0 {
		t.Errorf("callback scheduled during Advance fired in the same pass")
	}
	s.Advance(0.01)
	if inner != 1 {
		t.Errorf("inner calls = %d, expected 1", inner)
	}
	if s.Pending() != 1 {
		t.Errorf("Pending() = %d, expected 1", s.Pending())
	}
}

func TestGameLoopStartStop(t *testing.T) {
	s := NewManualScheduler()
	loop := NewGameLoop(s)
	calls := 0
	fn := func(float64) { calls++ }

	loop.Start(fn, 60)
	loop.Start(fn, 60)
	if s.Pending() != 1 {
		t.Fatalf("Pending() = %d, expected a single scheduled tick", s.Pending())
	}
	if !loop.Running() {
		t.Error("loop should be running")
	}

	s.Advance(1.0 / 60)
	loop.Stop()
	loop.Stop()
	s.Advance(1.0 / 60)

	if calls != 1 {
		t.Errorf("calls = %d, expected 1", calls)
	}
	if loop.Running() || s.Pending() != 0 {
		t.Error("loop should be stopped with nothing pending")
	}
}

func TestLoopSchedulerRun(t *testing.T) {
	s := NewLoopScheduler(time.Millisecond)
	calls := 0
	total := 0.0
	s.ScheduleInterval(func(dt float64) {
		calls++
		total += dt
	}, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() = %v, expected context.DeadlineExceeded", err)
	}
	if calls == 0 || total <= 0 {
		t.Errorf("calls = %d, total = %v, expected real time to be delivered", calls, total)
	}
}
