// Package foreshadow predicts the next brick each live ball will strike and
// schedules an audio cue to land just ahead of the impact. Prediction is
// pure read-then-schedule logic over post-step physics state; it never
// mutates brick or ball state.
package foreshadow

import (
	"github.com/vmarchenko/brickwave/internal/arena"
	"github.com/vmarchenko/brickwave/internal/config"
	"github.com/vmarchenko/brickwave/internal/core"
	"github.com/vmarchenko/brickwave/internal/physics"
)

// Cue is one scheduled impact hint handed to the sink.
type Cue struct {
	ID        int
	Ball      physics.BodyID
	Target    arena.BrickID
	ImpactAt  float64 // Predicted impact, simulation clock seconds
	PlayAt    float64 // ImpactAt minus lead
	Lead      float64
	Pitch     float64 // Hz
	Intensity float64 // [0,1] from ball speed
}

// Sink receives cues when their scheduled time arrives. Cancel must be
// idempotent; handles may be cancelled after firing or twice.
type Sink interface {
	Play(cue Cue)
	Cancel(id int)
}

type prediction struct {
	cue    Cue
	handle int // scheduler handle
}

// Predictor holds at most one scheduled cue per live ball.
type Predictor struct {
	cfg      config.ForeshadowConfig
	sink     Sink
	sched    *Scheduler
	scale    []float64
	maxSpeed float64

	active map[physics.BodyID]*prediction
	nextID int
}

// NewPredictor builds a predictor whose note scale is derived from rng.
// maxSpeed normalizes cue intensity.
func NewPredictor(cfg config.ForeshadowConfig, sink Sink, rng *core.RNG, maxSpeed float64) *Predictor {
	return &Predictor{
		cfg:      cfg,
		sink:     sink,
		sched:    NewScheduler(),
		scale:    buildScale(rng),
		maxSpeed: maxSpeed,
		active:   make(map[physics.BodyID]*prediction),
	}
}

// Refresh recomputes the prediction for one ball against the current brick
// field. Run once per ball per fixed step, after physics.
func (p *Predictor) Refresh(now float64, ball physics.Body, ar *arena.Arena, w physics.World) {
	if ball.Speed() < p.cfg.MinBallSpeed {
		return
	}

	radius := ball.Radius
	if radius <= 0 {
		radius = p.cfg.DefaultRadius
	}

	target, impactIn, found := p.scan(ball, radius, ar, w)
	existing := p.active[ball.ID]

	if !found {
		if existing != nil {
			p.cancel(ball.ID)
		}
		return
	}

	impactAt := now + impactIn
	if existing != nil {
		drift := impactAt - existing.cue.ImpactAt
		if drift < 0 {
			drift = -drift
		}
		// Debounce: same brick within tolerance keeps the old schedule.
		if existing.cue.Target == target && drift <= p.cfg.RetargetEpsilon {
			return
		}
		p.cancel(ball.ID)
	}

	p.schedule(now, ball, target, impactIn, ar)
}

// scan ray-casts the ball against every live, non-sensor, breakable or
// gamble brick expanded by the ball radius and returns the earliest hit
// inside the prediction window.
func (p *Predictor) scan(ball physics.Body, radius float64, ar *arena.Arena, w physics.World) (arena.BrickID, float64, bool) {
	var (
		best  arena.BrickID
		bestT float64
		found bool
	)
	ar.ForEach(func(b *arena.Brick) {
		if !b.Breakable && !b.Gamble {
			return
		}
		body, ok := w.Get(b.Body)
		if !ok || body.Sensor {
			return
		}
		t, hit := body.Bounds().Expanded(radius).RayIntersect(ball.Pos, ball.Vel)
		if !hit || t <= 0 {
			return
		}
		if t < p.cfg.WindowMin || t > p.cfg.WindowMax {
			return
		}
		if !found || t < bestT {
			best, bestT, found = b.ID, t, true
		}
	})
	return best, bestT, found
}

func (p *Predictor) schedule(now float64, ball physics.Body, target arena.BrickID, impactIn float64, ar *arena.Arena) {
	lead := core.ClampF(impactIn*0.8, p.cfg.LeadMin, p.cfg.LeadMax)
	if lead >= impactIn {
		lead = impactIn * 0.9
	}

	var row, col int
	if b, ok := ar.Get(target); ok {
		row, col = b.Row, b.Col
	}

	p.nextID++
	cue := Cue{
		ID:        p.nextID,
		Ball:      ball.ID,
		Target:    target,
		ImpactAt:  now + impactIn,
		PlayAt:    now + impactIn - lead,
		Lead:      lead,
		Pitch:     pitchFor(p.scale, row, col),
		Intensity: core.ClampF(ball.Speed()/p.maxSpeed, 0, 1),
	}
	handle := p.sched.After(cue.PlayAt, func() { p.sink.Play(cue) })
	p.active[ball.ID] = &prediction{cue: cue, handle: handle}
}

// Release resolves the prediction for a ball that actually struck a brick.
// A cue whose predicted time drifted too far from the real impact is
// cancelled rather than played late.
func (p *Predictor) Release(now float64, ball physics.BodyID) {
	pred, ok := p.active[ball]
	if !ok {
		return
	}
	delete(p.active, ball)

	drift := now - pred.cue.ImpactAt
	if drift < 0 {
		drift = -drift
	}
	if drift > p.cfg.ReleaseDrift {
		p.sched.Cancel(pred.handle)
		p.sink.Cancel(pred.cue.ID)
	}
}

// CancelBall drops any outstanding prediction for a ball, idempotently.
// Called on ball removal and reattachment.
func (p *Predictor) CancelBall(ball physics.BodyID) {
	pred, ok := p.active[ball]
	if !ok {
		return
	}
	delete(p.active, ball)
	p.sched.Cancel(pred.handle)
	p.sink.Cancel(pred.cue.ID)
}

// CancelAll drops every prediction. Called on round reset.
func (p *Predictor) CancelAll() {
	for ball := range p.active {
		pred := p.active[ball]
		delete(p.active, ball)
		p.sched.Cancel(pred.handle)
		p.sink.Cancel(pred.cue.ID)
	}
	p.sched.Clear()
}

// Drain fires all cues whose play time has arrived. Run once per fixed step
// against the simulation clock.
func (p *Predictor) Drain(now float64) {
	p.sched.Drain(now)
}

// Scheduled returns the live cue for a ball, if any.
func (p *Predictor) Scheduled(ball physics.BodyID) (Cue, bool) {
	if pred, ok := p.active[ball]; ok {
		return pred.cue, true
	}
	return Cue{}, false
}

func (p *Predictor) cancel(ball physics.BodyID) {
	pred := p.active[ball]
	delete(p.active, ball)
	p.sched.Cancel(pred.handle)
	p.sink.Cancel(pred.cue.ID)
}
