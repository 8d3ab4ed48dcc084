package session

import "github.com/vmarchenko/brickwave/internal/core"

// Momentum tracks the short-term pressure of a rally. It is recomputed on
// every brick break and decayed every fixed step.
type Momentum struct {
	VolleyLength  int     // Consecutive brick hits without a life loss
	SpeedPressure float64 // [0,1], normalized impact speed of recent hits
	BrickDensity  float64 // [0,1], remaining/total bricks
	ComboHeat     float64 // [0,1]
	ComboTimer    float64 // Seconds until the combo resets
}

// heatStep is how much one brick break raises combo heat.
const heatStep = 0.12

// onBreak folds one brick break into the momentum model.
func (m *Momentum) onBreak(speedNorm float64, window float64) {
	m.VolleyLength++
	m.ComboTimer = window
	m.ComboHeat = core.ClampF(m.ComboHeat+heatStep, 0, 1)
	// Speed pressure follows the most recent impacts with a slow blend.
	m.SpeedPressure = core.ClampF(m.SpeedPressure*0.7+speedNorm*0.3, 0, 1)
}

// decay advances the combo timer and cools the heat. Returns true when the
// volley expired this step.
func (m *Momentum) decay(dt, window float64) bool {
	if window <= 0 {
		window = 1
	}
	m.ComboHeat = core.ClampF(m.ComboHeat-dt/window, 0, 1)

	if m.ComboTimer > 0 {
		m.ComboTimer -= dt
		if m.ComboTimer <= 0 {
			m.ComboTimer = 0
			m.VolleyLength = 0
			return true
		}
	}
	return false
}

// reset zeroes the rally, keeping density (a board property, not a rally
// property).
func (m *Momentum) reset() {
	m.VolleyLength = 0
	m.SpeedPressure = 0
	m.ComboHeat = 0
	m.ComboTimer = 0
}
