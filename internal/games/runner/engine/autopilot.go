package engine

import (
	"math"

	"github.com/vovakirdan/tile-runner/internal/core"
)

// Autopilot steers a runtime with stepped input, following the path one
// row ahead. It brakes while the ship is off the target lane.
type Autopilot struct {
	rt      *Runtime
	sched   Scheduler
	handle  Handle
	braking bool
	// MaxSteps caps the steps applied per tick.
	MaxSteps int
}

// NewAutopilot creates a disengaged autopilot.
func NewAutopilot(rt *Runtime, sched Scheduler) *Autopilot {
	return &Autopilot{rt: rt, sched: sched, MaxSteps: 2}
}

// Engage starts steering on every scheduler pass.
func (a *Autopilot) Engage() {
	if a.handle == nil {
		a.handle = a.sched.ScheduleInterval(a.tick, 0)
	}
}

// Disengage stops steering and releases the brake.
func (a *Autopilot) Disengage() {
	if a.handle != nil {
		a.handle.Cancel()
		a.handle = nil
	}
	if a.braking {
		a.rt.BrakeOff()
		a.braking = false
	}
}

// TargetLane picks the lane to steer to: a lane shared by the current and
// next row if there is one, otherwise a lane of the next row. Among the
// choices the one closest to the ship wins.
func (a *Autopilot) TargetLane() int {
	st := a.rt.State()
	current := a.currentLane()

	now := a.rt.tiles.RowLanes(st.YLoop)
	next := a.rt.tiles.RowLanes(st.YLoop + 1)

	var shared []int
	for _, x := range next {
		for _, y := range now {
			if x == y {
				shared = append(shared, x)
				break
			}
		}
	}

	choices := shared
	if len(choices) == 0 {
		choices = next
	}
	if len(choices) == 0 {
		choices = now
	}
	if len(choices) == 0 {
		return current
	}

	best := choices[0]
	for _, x := range choices[1:] {
		if core.Abs(x-current) < core.Abs(best-current) {
			best = x
		}
	}
	return best
}

// currentLane is the lane under the ship's centre.
func (a *Autopilot) currentLane() int {
	w, _ := a.rt.surface.Size()
	spacing := a.rt.geo.LaneWidth(w)
	if spacing <= 0 {
		return 0
	}
	return int(math.Round(-a.rt.State().OffsetX / spacing))
}

func (a *Autopilot) tick(float64) {
	st := a.rt.State()
	if !st.Running() {
		return
	}
	w, _ := a.rt.surface.Size()
	step := a.rt.StepSize()
	if w <= 0 || step <= 0 {
		return
	}

	// Lane t sits under the ship when OffsetX == -t * laneWidth.
	want := -float64(a.TargetLane()) * a.rt.geo.LaneWidth(w)

	aligned := true
	for i := 0; i < a.MaxSteps; i++ {
		diff := want - a.rt.State().OffsetX
		if math.Abs(diff) < step/2 {
			break
		}
		aligned = false
		before := a.rt.State().OffsetX
		if diff > 0 {
			a.rt.StepLeft()
		} else {
			a.rt.StepRight()
		}
		if a.rt.State().OffsetX == before {
			break
		}
	}

	if !aligned {
		a.rt.BrakeOn()
	} else if a.braking {
		a.rt.BrakeOff()
	}
	a.braking = !aligned
}
