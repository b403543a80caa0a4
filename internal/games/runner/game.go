// Package runner adapts the tile runner engine to the platform's Game
// interface. It turns key events into steering, drives the engine clock
// one tick per Step and rasterizes the projected frame into the screen.
package runner

import (
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tile-runner/internal/config"
	"github.com/vovakirdan/tile-runner/internal/core"
	"github.com/vovakirdan/tile-runner/internal/games/runner/engine"
	"github.com/vovakirdan/tile-runner/internal/registry"
)

// Mode selects how lateral input moves the road.
type Mode int

const (
	ModeStepped Mode = iota // Discrete steps with hold acceleration
	ModeLinear              // Constant lateral speed while held
)

// ContinuesPerRun is how many reward continues one run may use.
const ContinuesPerRun = 1

// lossBannerSeconds is how long the soft-reset banner stays up.
const lossBannerSeconds = 1.5

var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	logger           = log.New(io.Discard)
)

// SetConfigPath sets a custom config file path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names select
// the config file's own difficulty.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// SetLogger routes engine and adapter logs to l.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Report summarizes the current run for persistence.
type Report struct {
	Score    int
	Losses   int     // Losses registered in this run
	Duration float64 // Seconds from start to game over, continues included
	Rating   int
	Metrics  Metrics
}

// Game is the tile runner.
type Game struct {
	mode    Mode
	runtime core.RuntimeConfig
	cfg     config.RunnerConfig

	sched   *engine.ManualScheduler
	surface *engine.HeadlessSurface
	rt      *engine.Runtime
	diff    *config.DifficultyManager
	ctrl    engine.Controller
	metrics *Metrics
	rating  *RatingSession

	// Terminals report key presses only, so a key counts as held until
	// it stays silent for Input.ReleaseAfter.
	held       engine.Direction
	heldQuiet  float64
	braking    bool
	brakeQuiet float64

	clock         float64
	runStart      float64
	runEnd        float64
	runLosses     int
	continuesLeft int
	lastScore     int
	best          int
	paused        bool
	lostThisStep  bool

	banner     string
	bannerLeft float64
}

// New creates a runner in the given input mode.
func New(mode Mode) *Game {
	return &Game{mode: mode}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.mode == ModeLinear {
		return "runner_linear"
	}
	return "runner"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModeLinear {
		return "Tile Runner (linear)"
	}
	return "Tile Runner"
}

// Reset builds a fresh session and renders the ready scene.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	cfg, err := config.LoadRunner(configPath)
	if err != nil {
		logger.Warn("config load failed, using defaults", "err", err)
		cfg = config.DefaultRunnerConfig()
	}
	config.ApplyRunnerPreset(&cfg, difficultyPreset)
	g.cfg = cfg

	cols := max(runtime.ScreenW, 1)
	rows := max(runtime.ScreenH, 1)
	g.sched = engine.NewManualScheduler()
	g.surface = engine.NewHeadlessSurface(float64(cols*cellW), float64(rows*cellH))
	g.diff = config.NewDifficultyManager(cfg.Difficulty)
	g.metrics = NewMetrics()
	g.rating = &RatingSession{}

	g.rt = engine.NewRuntime(cfg, g.surface, g.sched, engine.RuntimeOptions{
		FPS:        runtime.TickRate,
		Rand:       rand.New(rand.NewSource(runtime.Seed)),
		Logger:     logger,
		Recorder:   g.metrics,
		Difficulty: g.diff,
	})
	g.rt.OnLoss = g.onLoss

	switch g.mode {
	case ModeLinear:
		g.ctrl = engine.NewLinearController(g.rt, g.sched)
	default:
		g.ctrl = engine.NewStepController(engine.NewSteppedRouter(g.rt), g.sched, cfg.Input)
	}

	g.held = engine.DirNone
	g.heldQuiet = 0
	g.braking = false
	g.brakeQuiet = 0
	g.clock = 0
	g.runStart = 0
	g.runEnd = 0
	g.runLosses = 0
	g.continuesLeft = 0
	g.lastScore = 0
	g.paused = false
	g.banner = ""
	g.bannerLeft = 0

	g.rt.PrepareScene()
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	dt := g.runtime.TickSeconds()
	g.lostThisStep = false
	st := g.rt.State()

	if in.Has(core.ActionPause) && st.Started && !st.GameOver {
		g.paused = !g.paused
		if g.paused {
			g.releaseAll()
		}
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	switch {
	case !st.Started:
		if in.Has(core.ActionStart) || in.Has(core.ActionRestart) {
			g.begin()
		}
	case st.GameOver:
		if in.Has(core.ActionRestart) || in.Has(core.ActionStart) {
			g.begin()
		} else if in.Has(core.ActionContinue) && g.continuesLeft > 0 {
			g.resume()
		}
	}

	if st = g.rt.State(); st.Running() {
		g.steer(in, dt)
	}

	g.clock += dt
	g.sched.Advance(dt)
	g.trackScore()

	if g.bannerLeft > 0 {
		g.bannerLeft -= dt
	}
	if g.rt.State().GameOver {
		g.releaseAll()
	}

	return core.StepResult{State: g.State(), Lost: g.lostThisStep}
}

// begin starts a new run.
func (g *Game) begin() {
	g.releaseAll()
	g.rt.Start()
	g.continuesLeft = ContinuesPerRun
	g.runStart = g.clock
	g.runEnd = 0
	g.runLosses = 0
	g.lastScore = 0
	g.bannerLeft = 0
	g.rating.PressStart(g.clock, 0)
}

// resume spends a continue on a finished run.
func (g *Game) resume() {
	g.releaseAll()
	g.continuesLeft--
	g.runEnd = 0
	g.bannerLeft = 0
	g.rt.ReceiveReward()
}

// steer feeds held directions and the brake into the engine.
func (g *Game) steer(in core.InputFrame, dt float64) {
	dir := engine.DirNone
	left, right := in.Has(core.ActionLeft), in.Has(core.ActionRight)
	switch {
	case left && !right:
		dir = engine.DirLeft
	case right && !left:
		dir = engine.DirRight
	}

	if dir != engine.DirNone {
		g.heldQuiet = 0
		if dir != g.held {
			g.ctrl.Press(dir)
			g.held = dir
		}
	} else if g.held != engine.DirNone {
		g.heldQuiet += dt
		if g.heldQuiet >= g.cfg.Input.ReleaseAfter {
			g.ctrl.Release()
			g.held = engine.DirNone
		}
	}

	if in.Has(core.ActionBrake) {
		g.brakeQuiet = 0
		if !g.braking {
			g.rt.BrakeOn()
			g.braking = true
		}
	} else if g.braking {
		g.brakeQuiet += dt
		if g.brakeQuiet >= g.cfg.Input.ReleaseAfter {
			g.rt.BrakeOff()
			g.braking = false
		}
	}
}

func (g *Game) releaseAll() {
	if g.held != engine.DirNone {
		g.ctrl.Release()
		g.held = engine.DirNone
	}
	if g.braking {
		g.rt.BrakeOff()
		g.braking = false
	}
	g.heldQuiet = 0
	g.brakeQuiet = 0
}

func (g *Game) trackScore() {
	if !g.rt.State().Started {
		return
	}
	if s := g.rt.Score(); s != g.lastScore {
		g.lastScore = s
		g.rating.ScoreChanged(s)
		g.best = max(g.best, s)
	}
}

func (g *Game) onLoss(ev engine.LossEvent) {
	g.trackScore()
	g.lostThisStep = true
	g.runLosses++

	if ev.Outcome == engine.LossGameOver {
		g.runEnd = g.clock
		g.rating.GameOver(g.clock)
		return
	}
	g.rating.LifeLost()
	g.banner = fmt.Sprintf(" %s  %d left ", lossLabel(ev.Reason), ev.AttemptsLeft)
	g.bannerLeft = lossBannerSeconds
}

func lossLabel(r engine.LossReason) string {
	switch r {
	case engine.ReasonOutOfTileX:
		return "Slipped off the edge"
	case engine.ReasonOutOfTileTip:
		return "Nose off the path"
	default:
		return "Off the path"
	}
}

// SetBest seeds the best score shown in the HUD.
func (g *Game) SetBest(best int) {
	g.best = max(g.best, best)
}

// ContinuesLeft returns how many continues the current run still has.
func (g *Game) ContinuesLeft() int {
	return g.continuesLeft
}

// Metrics returns the session counters.
func (g *Game) Metrics() *Metrics {
	return g.metrics
}

// Report summarizes the current run.
func (g *Game) Report() Report {
	end := g.runEnd
	if end == 0 {
		end = g.clock
	}
	return Report{
		Score:    g.rt.Score(),
		Losses:   g.runLosses,
		Duration: end - g.runStart,
		Rating:   g.rating.Points(),
		Metrics:  *g.metrics,
	}
}

// Finish closes the rating session as if the player left the screen and
// returns the final report.
func (g *Game) Finish() Report {
	g.rating.ExitBack(g.clock)
	return g.Report()
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.surface.Frames > 0 {
		rasterize(dst, &g.surface.Last)
	}
	g.drawHUD(dst)

	st := g.rt.State()
	switch {
	case !st.Started:
		g.drawCenteredMessage(dst, strings.ToUpper(g.Title()), "SPACE start | A/D steer | S brake")
	case g.paused:
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	case st.GameOver:
		sub := fmt.Sprintf("Score: %d  |  R restart", g.rt.Score())
		if g.continuesLeft > 0 {
			sub += "  |  C continue"
		}
		g.drawCenteredMessage(dst, "GAME OVER", sub)
	case g.bannerLeft > 0:
		dst.DrawTextCentered(2, g.banner)
	}
}

func (g *Game) drawHUD(dst *core.Screen) {
	hud := fmt.Sprintf(" Score: %d ", g.rt.Score())
	if g.best > 0 {
		hud += fmt.Sprintf(" Best: %d ", g.best)
	}
	dst.DrawTextColored(1, 0, hud, core.ColorHUD)

	left, total := g.rt.AttemptsLeft(), g.rt.MaxAttempts()
	hearts := strings.Repeat("♥", left) + strings.Repeat("♡", max(total-left, 0))
	dst.DrawTextColored(dst.Width()-total-2, 0, hearts, core.ColorHeart)

	if g.diff.IsEnabled() {
		speed := g.diff.Speed(g.cfg.Motion.Speed, g.rt.Score(), g.rt.Ticks())
		spd := fmt.Sprintf(" Spd: %.2f ", speed)
		dst.DrawTextColored(dst.Width()-total-len(spd)-3, 0, spd, core.ColorHUD)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	dst.DrawText(boxX+(boxW-len(title))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := g.rt.State()
	return core.GameState{
		Score:        g.rt.Score(),
		GameOver:     st.GameOver,
		Paused:       g.paused,
		Started:      st.Started,
		AttemptsLeft: g.rt.AttemptsLeft(),
		MaxAttempts:  g.rt.MaxAttempts(),
	}
}

func init() {
	registry.Register("runner", func() registry.Game {
		return New(ModeStepped)
	})
	registry.Register("runner_linear", func() registry.Game {
		return New(ModeLinear)
	})
}
