package session

import "github.com/vmarchenko/brickwave/internal/core"

// Trend labels the recent direction of the entropy charge.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// Entropy is the secondary charge/trend resource. Charge reacts to events;
// overflow above 100 partially banks into Stored. Both values are always
// clamped to [0,100].
type Entropy struct {
	Charge    float64
	Stored    float64
	Trend     Trend
	LastEvent string
}

const entropyMax = 100

// gain adds charge from an event, banking a fraction of any overflow.
func (e *Entropy) gain(amount float64, event string, bankFraction float64) {
	if amount <= 0 {
		return
	}
	e.Charge += amount
	if e.Charge > entropyMax {
		overflow := e.Charge - entropyMax
		e.Charge = entropyMax
		e.Stored = core.ClampF(e.Stored+overflow*bankFraction, 0, entropyMax)
	}
	e.Trend = TrendRising
	e.LastEvent = event
}

// drop removes charge sharply (life loss, combo reset).
func (e *Entropy) drop(amount float64, event string) {
	if amount <= 0 {
		return
	}
	e.Charge = core.ClampF(e.Charge-amount, 0, entropyMax)
	e.Trend = TrendFalling
	e.LastEvent = event
}

// decay bleeds charge passively. Small decay flips the trend to stable
// rather than falling so the HUD doesn't flicker.
func (e *Entropy) decay(dt, rate float64) {
	if rate <= 0 || dt <= 0 {
		return
	}
	before := e.Charge
	e.Charge = core.ClampF(e.Charge-rate*dt, 0, entropyMax)
	if e.Charge == before {
		e.Trend = TrendStable
	} else if e.Trend == TrendRising {
		e.Trend = TrendStable
	}
}

// bankOnRoundEnd moves a fraction of the remaining charge into Stored and
// leaves the residual. Returns the banked amount.
func (e *Entropy) bankOnRoundEnd(fraction float64) float64 {
	fraction = core.ClampF(fraction, 0, 1)
	banked := e.Charge * fraction
	e.Stored = core.ClampF(e.Stored+banked, 0, entropyMax)
	e.Charge = core.ClampF(e.Charge-banked, 0, entropyMax)
	e.LastEvent = "round-complete"
	e.Trend = TrendStable
	return banked
}
