package engine

import (
	"time"

	"github.com/vovakirdan/tile-runner/internal/config"
)

// Direction is a lateral input direction as seen by the player.
type Direction int

const (
	DirLeft  Direction = -1
	DirNone  Direction = 0
	DirRight Direction = 1
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Steering is the set of lateral commands the runtime accepts.
type Steering interface {
	StepLeft()
	StepRight()
	StopX()
	SetDirection(dir int)
	ApplyLinearX(dt float64)
}

// Controller turns direction presses and releases into steering commands.
type Controller interface {
	Press(dir Direction)
	Release()
}

// ControlsRouter dispatches left/right/stop commands to callbacks.
// Nil callbacks are skipped.
type ControlsRouter struct {
	onLeft  func()
	onRight func()
	onStop  func()
}

// NewControlsRouter creates a router over the given callbacks.
func NewControlsRouter(onLeft, onRight, onStop func()) *ControlsRouter {
	return &ControlsRouter{onLeft: onLeft, onRight: onRight, onStop: onStop}
}

// NewSteppedRouter routes commands to the stepped steering methods.
func NewSteppedRouter(s Steering) *ControlsRouter {
	return NewControlsRouter(s.StepLeft, s.StepRight, s.StopX)
}

// Left dispatches the left command.
func (r *ControlsRouter) Left() {
	if r.onLeft != nil {
		r.onLeft()
	}
}

// Right dispatches the right command.
func (r *ControlsRouter) Right() {
	if r.onRight != nil {
		r.onRight()
	}
}

// Stop dispatches the stop command.
func (r *ControlsRouter) Stop() {
	if r.onStop != nil {
		r.onStop()
	}
}

// ApplySteps repeats a left or right command.
func (r *ControlsRouter) ApplySteps(dir Direction, steps int) {
	for i := 0; i < steps; i++ {
		switch dir {
		case DirLeft:
			r.Left()
		case DirRight:
			r.Right()
		default:
			return
		}
	}
}

// StepController moves one step per press. Holding a direction repeats
// steps after a delay, and repeats grow from two to three steps per
// interval the longer the key is held.
type StepController struct {
	router  *ControlsRouter
	sched   Scheduler
	cfg     config.RunnerInput
	held    Direction
	heldFor float64
	handle  Handle
}

// NewStepController creates a stepped controller.
func NewStepController(router *ControlsRouter, sched Scheduler, cfg config.RunnerInput) *StepController {
	return &StepController{router: router, sched: sched, cfg: cfg}
}

// Press steps once toward dir and starts the hold timer. Pressing the
// direction that is already held does nothing.
func (c *StepController) Press(dir Direction) {
	if dir == DirNone {
		c.Release()
		return
	}
	if dir == c.held {
		return
	}
	c.held = dir
	c.heldFor = 0
	c.router.ApplySteps(dir, 1)

	if c.handle == nil {
		period := time.Duration(c.cfg.HoldTick * float64(time.Second))
		c.handle = c.sched.ScheduleInterval(c.holdTick, period)
	}
}

// Release stops movement and the hold timer.
func (c *StepController) Release() {
	if c.held == DirNone && c.handle == nil {
		return
	}
	c.held = DirNone
	c.router.Stop()
	if c.handle != nil {
		c.handle.Cancel()
		c.handle = nil
	}
}

// Held returns the direction currently held.
func (c *StepController) Held() Direction {
	return c.held
}

func (c *StepController) holdTick(dt float64) {
	if c.held == DirNone {
		return
	}
	c.heldFor += dt
	if c.heldFor < c.cfg.HoldDelay {
		return
	}
	steps := 2
	if c.heldFor >= c.cfg.BoostFrom {
		steps = 3
	}
	c.router.ApplySteps(c.held, steps)
}

// LinearController moves the road at a constant lateral speed while a
// direction is held, integrating on every scheduler pass.
type LinearController struct {
	steer  Steering
	sched  Scheduler
	dir    Direction
	handle Handle
}

// NewLinearController creates a linear controller.
func NewLinearController(steer Steering, sched Scheduler) *LinearController {
	return &LinearController{steer: steer, sched: sched}
}

// StartLeft starts moving left. The road shifts right, hence the positive
// speed direction.
func (c *LinearController) StartLeft() {
	c.dir = DirLeft
	c.steer.SetDirection(1)
	c.ensure()
}

// StartRight starts moving right.
func (c *LinearController) StartRight() {
	c.dir = DirRight
	c.steer.SetDirection(-1)
	c.ensure()
}

// Stop halts lateral movement.
func (c *LinearController) Stop() {
	c.dir = DirNone
	c.steer.SetDirection(0)
	if c.handle != nil {
		c.handle.Cancel()
		c.handle = nil
	}
}

// Press implements Controller.
func (c *LinearController) Press(dir Direction) {
	switch dir {
	case DirLeft:
		c.StartLeft()
	case DirRight:
		c.StartRight()
	default:
		c.Stop()
	}
}

// Release implements Controller.
func (c *LinearController) Release() {
	c.Stop()
}

// Held returns the direction currently held.
func (c *LinearController) Held() Direction {
	return c.dir
}

func (c *LinearController) ensure() {
	if c.handle == nil {
		c.handle = c.sched.ScheduleInterval(c.tick, 0)
	}
}

func (c *LinearController) tick(dt float64) {
	if c.dir == DirNone {
		return
	}
	c.steer.ApplyLinearX(dt)
}
