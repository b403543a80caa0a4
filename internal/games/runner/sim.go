package runner

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/vovakirdan/tile-runner/internal/config"
	"github.com/vovakirdan/tile-runner/internal/games/runner/engine"
)

// SimOptions configures a headless autopilot run.
type SimOptions struct {
	Seconds  float64 // Simulated time limit
	FPS      int
	Seed     int64
	Width    float64 // Surface size in virtual pixels
	Height   float64
	Realtime bool // Drive the clock from the wall clock
}

// SimResult summarizes a headless run.
type SimResult struct {
	Score    int
	Losses   int
	GameOver bool
	Seconds  float64
	Ticks    int
	Rating   int
	Metrics  Metrics
}

// Simulate plays one run with the autopilot until the time limit, game
// over or ctx cancellation. Cancelling ctx returns its error with the
// partial result.
func Simulate(ctx context.Context, opts SimOptions) (SimResult, error) {
	if opts.Seconds <= 0 {
		opts.Seconds = 60
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1000, 1000
	}

	cfg, err := config.LoadRunner(configPath)
	if err != nil {
		logger.Warn("config load failed, using defaults", "err", err)
		cfg = config.DefaultRunnerConfig()
	}
	config.ApplyRunnerPreset(&cfg, difficultyPreset)

	var (
		sched *engine.ManualScheduler
		loop  *engine.LoopScheduler
	)
	if opts.Realtime {
		loop = engine.NewLoopScheduler(0)
		sched = loop.ManualScheduler
	} else {
		sched = engine.NewManualScheduler()
	}

	metrics := NewMetrics()
	rating := &RatingSession{}
	rt := engine.NewRuntime(cfg, engine.NewHeadlessSurface(opts.Width, opts.Height), sched, engine.RuntimeOptions{
		FPS:        opts.FPS,
		Rand:       rand.New(rand.NewSource(opts.Seed)),
		Logger:     logger,
		Recorder:   metrics,
		Difficulty: config.NewDifficultyManager(cfg.Difficulty),
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	rt.OnLoss = func(ev engine.LossEvent) {
		rating.ScoreChanged(ev.Score)
		if ev.Outcome == engine.LossGameOver {
			rating.GameOver(sched.Now())
			cancel()
			return
		}
		rating.LifeLost()
	}

	rt.Start()
	rating.PressStart(sched.Now(), 0)
	ap := engine.NewAutopilot(rt, sched)
	ap.Engage()
	logger.Info("simulation started", "seconds", opts.Seconds, "seed", opts.Seed, "realtime", opts.Realtime)

	if opts.Realtime {
		timeout := time.Duration(opts.Seconds * float64(time.Second))
		timed, stop := context.WithTimeout(runCtx, timeout)
		err = loop.Run(timed)
		stop()
	} else {
		dt := 1 / float64(opts.FPS)
		for sched.Now()+dt/2 < opts.Seconds && !rt.State().GameOver {
			if err = runCtx.Err(); err != nil {
				break
			}
			sched.Advance(dt)
		}
	}

	ap.Disengage()
	rt.Stop()
	rating.ScoreChanged(rt.Score())
	if !rt.State().GameOver {
		rating.ExitBack(sched.Now())
	}

	res := SimResult{
		Score:    rt.Score(),
		Losses:   metrics.Losses(),
		GameOver: rt.State().GameOver,
		Seconds:  sched.Now(),
		Ticks:    rt.Ticks(),
		Rating:   rating.Points(),
		Metrics:  *metrics,
	}
	logger.Info("simulation finished", append([]any{"score", res.Score, "rating", res.Rating}, metrics.KeyVals()...)...)

	// Game over and the time limit end the run normally.
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return res, err
	}
	return res, nil
}
