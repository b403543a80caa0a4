package engine

import (
	"context"
	"time"
)

// Handle cancels a scheduled callback. Cancel is idempotent.
type Handle interface {
	Cancel()
}

// Scheduler delivers periodic callbacks with the elapsed time in seconds.
// Callbacks run on the scheduler's goroutine and may schedule or cancel
// other callbacks.
type Scheduler interface {
	ScheduleInterval(fn func(dt float64), period time.Duration) Handle
}

// schedEpsilon absorbs float drift when comparing accumulated time.
const schedEpsilon = 1e-9

type interval struct {
	fn        func(dt float64)
	period    float64
	elapsed   float64
	cancelled bool
}

func (iv *interval) Cancel() {
	iv.cancelled = true
}

// ManualScheduler fires callbacks only when Advance is called. A callback
// whose period has elapsed fires once with the time accumulated since its
// previous call. A zero period fires on every Advance.
type ManualScheduler struct {
	intervals []*interval
	now       float64
}

// NewManualScheduler creates an idle scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// ScheduleInterval registers fn. The first call happens after one period.
func (s *ManualScheduler) ScheduleInterval(fn func(dt float64), period time.Duration) Handle {
	iv := &interval{fn: fn, period: period.Seconds()}
	s.intervals = append(s.intervals, iv)
	return iv
}

// Advance moves time forward by dt seconds and fires due callbacks in
// registration order. Callbacks registered during Advance wait for the
// next call.
func (s *ManualScheduler) Advance(dt float64) {
	if dt < 0 {
		return
	}
	s.now += dt

	due := make([]*interval, len(s.intervals))
	copy(due, s.intervals)
	for _, iv := range due {
		if iv.cancelled {
			continue
		}
		iv.elapsed += dt
		if iv.elapsed+schedEpsilon < iv.period {
			continue
		}
		elapsed := iv.elapsed
		iv.elapsed = 0
		iv.fn(elapsed)
	}

	s.compact()
}

// Now returns the total time advanced so far, in seconds.
func (s *ManualScheduler) Now() float64 {
	return s.now
}

// Pending returns the number of live callbacks.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, iv := range s.intervals {
		if !iv.cancelled {
			n++
		}
	}
	return n
}

func (s *ManualScheduler) compact() {
	live := s.intervals[:0]
	for _, iv := range s.intervals {
		if !iv.cancelled {
			live = append(live, iv)
		}
	}
	for i := len(live); i < len(s.intervals); i++ {
		s.intervals[i] = nil
	}
	s.intervals = live
}

// LoopScheduler drives a ManualScheduler from the wall clock. It is used
// for headless runs where no UI framework owns the clock.
type LoopScheduler struct {
	*ManualScheduler
	resolution time.Duration
}

// NewLoopScheduler creates a scheduler that wakes every resolution.
func NewLoopScheduler(resolution time.Duration) *LoopScheduler {
	if resolution <= 0 {
		resolution = time.Second / 120
	}
	return &LoopScheduler{
		ManualScheduler: NewManualScheduler(),
		resolution:      resolution,
	}
}

// Run fires callbacks with real elapsed time until ctx is done, then
// returns the context error.
func (s *LoopScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.resolution)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.Advance(now.Sub(last).Seconds())
			last = now
		}
	}
}

// GameLoop owns at most one scheduled tick callback.
type GameLoop struct {
	sched  Scheduler
	handle Handle
}

// NewGameLoop creates a stopped loop on the given scheduler.
func NewGameLoop(sched Scheduler) *GameLoop {
	return &GameLoop{sched: sched}
}

// Start schedules fn at fps ticks per second. It does nothing if the loop
// is already running.
func (l *GameLoop) Start(fn func(dt float64), fps int) {
	if l.handle != nil {
		return
	}
	if fps <= 0 {
		fps = 60
	}
	l.handle = l.sched.ScheduleInterval(fn, time.Second/time.Duration(fps))
}

// Stop cancels the scheduled tick. Stopping a stopped loop is a no-op.
func (l *GameLoop) Stop() {
	if l.handle == nil {
		return
	}
	l.handle.Cancel()
	l.handle = nil
}

// Running reports whether a tick is scheduled.
func (l *GameLoop) Running() bool {
	return l.handle != nil
}
