package engine

import (
	"image"
	"io"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tile-runner/internal/config"
)

// Recorder receives session counters from the runtime.
type Recorder interface {
	RecordRows(n int)
	RecordLoss(ev LossEvent)
	RecordContinue()
}

type nopRecorder struct{}

func (nopRecorder) RecordRows(int)       {}
func (nopRecorder) RecordLoss(LossEvent) {}
func (nopRecorder) RecordContinue()      {}

// RuntimeOptions configures optional Runtime collaborators. Zero values
// select defaults.
type RuntimeOptions struct {
	FPS        int                       // Tick rate, 60 if unset
	Rand       *rand.Rand                // Path generator source, seeded from 1 if unset
	Logger     *log.Logger               // Discarded if unset
	Recorder   Recorder                  // Session counters, ignored if unset
	Difficulty *config.DifficultyManager // Forward speed progression, off if unset
}

// Runtime owns the simulation components and runs the per-tick sequence:
// render, move, maintain tiles, collide, apply the loss outcome.
type Runtime struct {
	cfg     config.RunnerConfig
	surface Surface
	loop    *GameLoop
	fps     int
	log     *log.Logger
	rec     Recorder
	diff    *config.DifficultyManager

	state     *GameState
	session   *Session
	persp     Perspective
	geo       RoadGeometry
	motion    MotionEngine
	collision CollisionEngine
	tiles     *TilesModel
	ship      *ShipModel
	frame     Frame

	linearSpeedX float64
	linearActive bool
	ticks        int

	// OnGameOver runs inside the tick that exhausts the attempt budget.
	OnGameOver func()
	// OnLoss runs inside the tick of every loss, after the outcome is applied.
	OnLoss func(LossEvent)
}

// NewRuntime wires a runtime for the given surface and scheduler.
func NewRuntime(cfg config.RunnerConfig, surface Surface, sched Scheduler, opts RuntimeOptions) *Runtime {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}

	geo := NewRoadGeometry(cfg.Grid)
	return &Runtime{
		cfg:       cfg,
		surface:   surface,
		loop:      NewGameLoop(sched),
		fps:       opts.FPS,
		log:       opts.Logger,
		rec:       opts.Recorder,
		diff:      opts.Difficulty,
		state:     NewGameState(),
		session:   NewSession(cfg.Session.MaxAttempts),
		geo:       geo,
		collision: NewCollisionEngine(geo),
		tiles:     NewTilesModel(cfg, opts.Rand),
		ship:      NewShipModel(cfg.Ship),
	}
}

// PrepareScene resets the run and renders it once without starting motion.
func (r *Runtime) PrepareScene() {
	r.state.Reset()
	r.tiles.Reset()
	r.session.Reset()
	r.RequestRedraw()
}

// Start begins a new run. Any pending tick is cancelled before the reset.
func (r *Runtime) Start() {
	r.loop.Stop()
	r.clearLinear()
	r.state.Reset()
	r.tiles.Reset()
	r.session.Reset()
	r.ticks = 0
	r.state.MarkStarted()
	r.loop.Start(r.tick, r.fps)
	r.log.Debug("run started", "attempts", r.session.MaxAttempts(), "tiles", r.tiles.Len())
}

// ReceiveReward continues a finished run with a full attempt budget. The
// score is kept and the ship respawns at the current row.
func (r *Runtime) ReceiveReward() {
	if !r.state.Started {
		return
	}
	r.session.Reset()
	r.respawn()
	r.state.SpeedYFactor = 1.0
	r.state.MarkStarted()
	r.loop.Start(r.tick, r.fps)
	r.rec.RecordContinue()
	r.log.Debug("run continued", "score", r.state.YLoop, "attempts", r.session.AttemptsLeft())
}

// Stop cancels the tick loop and any lateral motion. It is idempotent.
func (r *Runtime) Stop() {
	r.loop.Stop()
	r.clearLinear()
}

// Running reports whether the tick loop is scheduled.
func (r *Runtime) Running() bool {
	return r.loop.Running()
}

// RequestRedraw renders the current scene without advancing it.
func (r *Runtime) RequestRedraw() {
	w, h := r.surface.Size()
	if w <= 0 || h <= 0 {
		return
	}
	r.updatePerspective(w, h)
	r.render(w, h)
}

// BrakeOn slows forward motion to the brake factor.
func (r *Runtime) BrakeOn() {
	r.state.SpeedYFactor = r.cfg.Motion.BrakeFactor
}

// BrakeOff restores normal forward speed.
func (r *Runtime) BrakeOff() {
	r.state.SpeedYFactor = 1.0
}

// SlowdownOn slows forward motion to the slowdown factor.
func (r *Runtime) SlowdownOn() {
	r.state.SpeedYFactor = r.cfg.Motion.SlowdownFactor
}

// SlowdownOff restores normal forward speed.
func (r *Runtime) SlowdownOff() {
	r.state.SpeedYFactor = 1.0
}

// State returns a copy of the run state.
func (r *Runtime) State() GameState {
	return *r.state
}

// Score returns the number of rows advanced in this run.
func (r *Runtime) Score() int {
	return r.state.YLoop
}

// AttemptsLeft returns the remaining attempts.
func (r *Runtime) AttemptsLeft() int {
	return r.session.AttemptsLeft()
}

// MaxAttempts returns the attempt budget.
func (r *Runtime) MaxAttempts() int {
	return r.session.MaxAttempts()
}

// Tiles returns the live tiles. See TilesModel.Tiles.
func (r *Runtime) Tiles() []Tile {
	return r.tiles.Tiles()
}

// Ticks returns the number of ticks that applied motion in this run.
func (r *Runtime) Ticks() int {
	return r.ticks
}

// Config returns the runtime configuration.
func (r *Runtime) Config() config.RunnerConfig {
	return r.cfg
}

func (r *Runtime) tick(dt float64) {
	w, h := r.surface.Size()
	if w <= 0 || h <= 0 {
		return
	}

	r.updatePerspective(w, h)
	r.render(w, h)

	if !r.state.Running() {
		return
	}
	r.ticks++

	saved := r.state.SpeedX
	if r.linearActive {
		r.state.SpeedX = 0
	}
	res := r.motion.Step(dt, r.state, w, h, r.motionConfig())
	if r.linearActive {
		r.state.SpeedX = saved
	}

	for i := 0; i < res.AdvancedRows; i++ {
		r.tiles.PrunePassedTiles(r.state)
		r.tiles.ExtendToLimit()
	}
	if res.AdvancedRows > 0 {
		r.rec.RecordRows(res.AdvancedRows)
	}

	points := r.ship.ComputeWorldPoints(w, h)
	on := r.collision.PointsOnTiles(points, r.tiles.Tiles(), r.state, r.viewport(w, h))
	if AllOnTiles(on) {
		return
	}
	r.handleLoss(ClassifyLoss(on))
}

func (r *Runtime) handleLoss(reason LossReason) {
	outcome := r.session.RegisterLoss()
	ev := LossEvent{
		Outcome:      outcome,
		Reason:       reason,
		Score:        r.state.YLoop,
		AttemptsLeft: r.session.AttemptsLeft(),
	}

	switch outcome {
	case LossSoftReset:
		r.respawn()
		r.log.Debug("respawn", "reason", reason, "score", ev.Score, "attempts", ev.AttemptsLeft)
	case LossGameOver:
		r.state.MarkGameOver()
		r.log.Info("game over", "reason", reason, "score", ev.Score)
		if r.OnGameOver != nil {
			r.OnGameOver()
		}
	}

	r.rec.RecordLoss(ev)
	if r.OnLoss != nil {
		r.OnLoss(ev)
	}
}

// respawn restores the start-of-run layout at the current row.
func (r *Runtime) respawn() {
	r.state.Respawn()
	r.tiles.ResetAtLoop(r.state.YLoop)
	r.tiles.EnsureRespawnTiles(r.state)
}

// motionConfig applies difficulty progression to the forward speed.
func (r *Runtime) motionConfig() config.RunnerConfig {
	cfg := r.cfg
	if r.diff != nil && r.diff.IsEnabled() {
		cfg.Motion.Speed = r.diff.Speed(r.cfg.Motion.Speed, r.state.YLoop, r.ticks)
	}
	return cfg
}

func (r *Runtime) updatePerspective(w, h float64) {
	r.persp.SetPoint(w/2, h*r.cfg.Grid.FocalY)
}

func (r *Runtime) viewport(w, h float64) Viewport {
	return Viewport{Width: w, Height: h, PPX: r.persp.PointX, PPY: r.persp.PointY}
}

// Geometry returns the road geometry in use.
func (r *Runtime) Geometry() RoadGeometry {
	return r.geo
}

// render projects the scene into the frame and hands it to the surface.
func (r *Runtime) render(w, h float64) {
	if w < 2 || h < 2 || r.tiles.Len() == 0 {
		return
	}

	f := &r.frame
	f.reset(w, h)
	st := r.state
	ppx := r.persp.PointX

	start, end := r.geo.VerticalLineRange()
	for idx := start; idx <= end; idx++ {
		x := r.geo.LineX(idx, w, ppx, st.OffsetX)
		f.VerticalLines = append(f.VerticalLines, Segment{
			A: r.project(x, 0, h),
			B: r.project(x, h, h),
		})
	}

	xmin := r.geo.LineX(start, w, ppx, st.OffsetX)
	xmax := r.geo.LineX(end, w, ppx, st.OffsetX)
	for i := 0; i < r.cfg.Grid.HNbLines; i++ {
		y := r.geo.LineY(i, h, st.OffsetY)
		f.HorizontalLines = append(f.HorizontalLines, Segment{
			A: r.project(xmin, y, h),
			B: r.project(xmax, y, h),
		})
	}

	vp := r.viewport(w, h)
	tiles := r.tiles.Tiles()
	if len(tiles) > r.cfg.Tiles.Count {
		tiles = tiles[:r.cfg.Tiles.Count]
	}
	for _, t := range tiles {
		rect := r.geo.TileRect(t, st, vp)
		f.Tiles = append(f.Tiles, Quad{
			r.project(rect.XMin, rect.YMin, h),
			r.project(rect.XMin, rect.YMax, h),
			r.project(rect.XMax, rect.YMax, h),
			r.project(rect.XMax, rect.YMin, h),
		})
	}

	for i, p := range r.ship.ComputeWorldPoints(w, h) {
		f.Ship[i] = r.project(p.X, p.Y, h)
	}
	f.HasShip = true

	f.Score = st.YLoop
	f.AttemptsLeft = r.session.AttemptsLeft()
	f.MaxAttempts = r.session.MaxAttempts()
	f.Started = st.Started
	f.GameOver = st.GameOver

	r.surface.Render(f)
}

func (r *Runtime) project(x, y, h float64) image.Point {
	sx, sy := r.persp.Transform(x, y, h)
	return image.Pt(sx, sy)
}

// Lateral input. Moving left shifts the road right, so OffsetX grows.

// maxXOffset is how far the road can shift before the ship reaches the
// edge of a single lane.
func (r *Runtime) maxXOffset(width float64) float64 {
	laneHalf := r.geo.LaneWidth(width) / 2
	return math.Max(laneHalf-r.ship.HalfWidth(width), 0)
}

func (r *Runtime) stepX(width float64) float64 {
	steps := r.cfg.Input.StepsToEdge
	if steps < 1 {
		steps = 1
	}
	return r.maxXOffset(width) / float64(steps) * 2
}

// StepSize returns the stepped input offset for the current surface.
func (r *Runtime) StepSize() float64 {
	w, _ := r.surface.Size()
	if w <= 0 {
		return 0
	}
	return r.stepX(w)
}

// OffsetBounds returns the OffsetX range that keeps the ship inside the
// lanes occupied in the current and next row.
func (r *Runtime) OffsetBounds(width float64) (float64, float64) {
	spacing := r.geo.LaneWidth(width)
	ppx := width / 2
	half := r.ship.HalfWidth(width)
	shipLeft := ppx - half
	shipRight := ppx + half

	lanes := r.tiles.RowLanes(r.state.YLoop, r.state.YLoop+1)
	if len(lanes) == 0 {
		lanes = []int{0}
	}
	minLane, maxLane := lanes[0], lanes[0]
	for _, x := range lanes[1:] {
		minLane = min(minLane, x)
		maxLane = max(maxLane, x)
	}

	lo := shipRight - ppx - (float64(maxLane+1)-0.5)*spacing
	hi := shipLeft - ppx - (float64(minLane)-0.5)*spacing
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// StepLeft shifts the road one step right, within the occupied lanes.
func (r *Runtime) StepLeft() {
	w, _ := r.surface.Size()
	if w <= 0 {
		return
	}
	lo, hi := r.OffsetBounds(w)
	off := math.Min(hi, r.state.OffsetX+r.stepX(w))
	r.state.OffsetX = math.Max(lo, off)
	r.state.SpeedX = 0
}

// StepRight shifts the road one step left, within the occupied lanes.
func (r *Runtime) StepRight() {
	w, _ := r.surface.Size()
	if w <= 0 {
		return
	}
	lo, hi := r.OffsetBounds(w)
	off := math.Max(lo, r.state.OffsetX-r.stepX(w))
	r.state.OffsetX = math.Min(hi, off)
	r.state.SpeedX = 0
}

// StopX clears the lateral speed.
func (r *Runtime) StopX() {
	r.state.SpeedX = 0
}

// SetDirection sets the linear movement direction: +1 shifts the road
// right (player moves left), -1 shifts it left, 0 stops.
func (r *Runtime) SetDirection(dir int) {
	if dir == 0 {
		r.clearLinear()
		return
	}
	r.linearActive = true
	r.linearSpeedX = r.cfg.Motion.SpeedX * float64(dir)
	r.state.SpeedX = r.linearSpeedX
}

// LinearActive reports whether a linear direction is held.
func (r *Runtime) LinearActive() bool {
	return r.linearActive
}

// ApplyLinearX integrates linear lateral motion for dt seconds and clamps
// the offset to the occupied lanes.
func (r *Runtime) ApplyLinearX(dt float64) {
	w, _ := r.surface.Size()
	if w <= 0 {
		return
	}
	timeFactor := dt * 60
	speedX := r.linearSpeedX * w / 100
	r.state.OffsetX += speedX * timeFactor

	lo, hi := r.OffsetBounds(w)
	if r.state.OffsetX < lo {
		r.state.OffsetX = lo
	} else if r.state.OffsetX > hi {
		r.state.OffsetX = hi
	}
}

func (r *Runtime) clearLinear() {
	r.linearSpeedX = 0
	r.linearActive = false
	r.state.SpeedX = 0
}

var _ Steering = (*Runtime)(nil)
