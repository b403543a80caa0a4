package engine

import "github.com/vovakirdan/tile-runner/internal/config"

// MotionResult reports what a motion step did.
type MotionResult struct {
	AdvancedRows int
}

// MotionEngine integrates forward and lateral motion.
type MotionEngine struct{}

// Step advances st by dt seconds. Speeds are expressed per 60Hz frame, so
// dt is scaled by 60. Every full row of forward travel increments YLoop;
// several rows may advance in a single call. OffsetX is not clamped here.
func (MotionEngine) Step(dt float64, st *GameState, width, height float64, cfg config.RunnerConfig) MotionResult {
	var res MotionResult
	if width <= 0 || height <= 0 || dt <= 0 {
		return res
	}

	timeFactor := dt * 60

	speedY := cfg.Motion.Speed * height / 100 * st.SpeedYFactor
	st.OffsetY += speedY * timeFactor

	spacingY := cfg.Grid.HLinesSpacing * height
	if spacingY > 0 {
		for st.OffsetY >= spacingY {
			st.OffsetY -= spacingY
			st.YLoop++
			res.AdvancedRows++
		}
	}

	speedX := st.SpeedX * width / 100
	st.OffsetX += speedX * timeFactor

	return res
}
