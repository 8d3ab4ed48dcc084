// Package rewards governs the single-active-reward rule: activation,
// extension, replacement and per-tick expiry of the time-boxed effects.
package rewards

import (
	"github.com/vmarchenko/brickwave/internal/balls"
	"github.com/vmarchenko/brickwave/internal/config"
	"github.com/vmarchenko/brickwave/internal/core"
	"github.com/vmarchenko/brickwave/internal/physics"
)

// Kind names a reward effect.
type Kind string

const (
	KindNone         Kind = ""
	KindStickyPaddle Kind = "sticky-paddle"
	KindDoublePoints Kind = "double-points"
	KindGhostBrick   Kind = "ghost-brick"
	KindMultiBall    Kind = "multi-ball"
	KindSlowTime     Kind = "slow-time"
	KindWidePaddle   Kind = "wide-paddle"
)

// Kinds lists every activatable reward in drop-table order.
var Kinds = []Kind{
	KindStickyPaddle,
	KindDoublePoints,
	KindGhostBrick,
	KindMultiBall,
	KindSlowTime,
	KindWidePaddle,
}

// Resolver tracks which reward is active and for how long. Exactly one
// reward (or none) is active at a time; slow-time extends instead of
// replacing itself.
type Resolver struct {
	cfg    config.RewardsConfig
	active Kind

	timers timers // wide/sticky delegate duration tracking here

	doubleTimer float64
	ghostTimer  float64
	multiTimer  float64

	slowRemaining float64
	slowScale     float64
}

// NewResolver creates an idle resolver.
func NewResolver(cfg config.RewardsConfig) *Resolver {
	return &Resolver{cfg: cfg, timers: newTimers()}
}

// Active returns the currently active reward kind, or KindNone.
func (r *Resolver) Active() Kind { return r.active }

// TimeScale returns the simulation time multiplier, 1 unless slow-time runs.
func (r *Resolver) TimeScale() float64 {
	if r.slowRemaining > 0 {
		return r.slowScale
	}
	return 1
}

// DoublePoints reports whether break scores are doubled.
func (r *Resolver) DoublePoints() bool { return r.doubleTimer > 0 }

// GhostBricks reports whether balls pass through bricks.
func (r *Resolver) GhostBricks() bool { return r.ghostTimer > 0 }

// WidePaddle reports whether the paddle is widened.
func (r *Resolver) WidePaddle() bool { return r.timers.active(KindWidePaddle) }

// StickyPaddle reports whether balls snap-attach on paddle contact.
func (r *Resolver) StickyPaddle() bool { return r.timers.active(KindStickyPaddle) }

// Activate applies kind, displacing any previous reward. For multi-ball the
// pool and world are consulted to spawn extras; the spawned count is
// returned (zero for every other kind).
func (r *Resolver) Activate(kind Kind, w physics.World, pool *balls.Pool, launchSpeed float64) int {
	// Slow-time stacks: the new duration is added, the running scale wins.
	if kind == KindSlowTime && r.slowRemaining > 0 {
		add := core.Sanitize(r.cfg.SlowTimeDuration, 0)
		r.slowRemaining = core.ClampF(r.slowRemaining+add, 0, r.cfg.SlowTimeMaxDuration)
		r.active = KindSlowTime
		return 0
	}

	r.reset()
	r.active = kind

	switch kind {
	case KindStickyPaddle:
		r.timers.start(KindStickyPaddle, core.Sanitize(r.cfg.StickyDuration, 0))
	case KindWidePaddle:
		r.timers.start(KindWidePaddle, core.Sanitize(r.cfg.WidePaddleDuration, 0))
	case KindDoublePoints:
		r.doubleTimer = core.Sanitize(r.cfg.DoublePointsDuration, 0)
	case KindGhostBrick:
		r.ghostTimer = core.Sanitize(r.cfg.GhostBrickDuration, 0)
	case KindSlowTime:
		r.slowRemaining = core.ClampF(core.Sanitize(r.cfg.SlowTimeDuration, 0), 0, r.cfg.SlowTimeMaxDuration)
		r.slowScale = r.cfg.SlowTimeScale
	case KindMultiBall:
		r.multiTimer = core.ClampF(core.Sanitize(r.cfg.MultiBallDuration, 0), 0, r.cfg.MultiBallMaxDuration)
		if pool == nil {
			return 0
		}
		desired := r.cfg.MultiBallCount
		if desired > pool.Capacity() {
			desired = pool.Capacity()
		}
		n := desired - pool.ExtrasAlive()
		if n <= 0 {
			return 0
		}
		return len(pool.SpawnExtras(w, n, launchSpeed))
	default:
		r.active = KindNone
	}
	return 0
}

// Tick advances every running timer by dt and clears the active pointer
// once its effect has expired. extrasAlive lets multi-ball end early when
// the pool drains.
func (r *Resolver) Tick(dt float64, extrasAlive int) {
	if dt <= 0 {
		return
	}
	r.timers.tick(dt)
	r.doubleTimer = core.MaxF(0, r.doubleTimer-dt)
	r.ghostTimer = core.MaxF(0, r.ghostTimer-dt)
	r.multiTimer = core.MaxF(0, r.multiTimer-dt)
	r.slowRemaining = core.MaxF(0, r.slowRemaining-dt)

	switch r.active {
	case KindDoublePoints:
		if r.doubleTimer == 0 {
			r.active = KindNone
		}
	case KindGhostBrick:
		if r.ghostTimer == 0 {
			r.active = KindNone
		}
	case KindSlowTime:
		if r.slowRemaining == 0 {
			r.active = KindNone
		}
	case KindWidePaddle:
		if !r.timers.active(KindWidePaddle) {
			r.active = KindNone
		}
	case KindStickyPaddle:
		if !r.timers.active(KindStickyPaddle) {
			r.active = KindNone
		}
	case KindMultiBall:
		if r.multiTimer == 0 || extrasAlive == 0 {
			r.active = KindNone
		}
	}
}

// Clear cancels every effect. Called on round reset.
func (r *Resolver) Clear() {
	r.reset()
	r.active = KindNone
}

func (r *Resolver) reset() {
	r.timers = newTimers()
	r.doubleTimer = 0
	r.ghostTimer = 0
	r.multiTimer = 0
	r.slowRemaining = 0
	r.slowScale = 1
}

// timers is the shared countdown table wide-paddle and sticky-paddle
// delegate to.
type timers map[Kind]float64

func newTimers() timers { return make(timers) }

func (t timers) start(kind Kind, dur float64) {
	if dur > 0 {
		t[kind] = dur
	}
}

func (t timers) active(kind Kind) bool { return t[kind] > 0 }

func (t timers) tick(dt float64) {
	for k, left := range t {
		left -= dt
		if left <= 0 {
			delete(t, k)
			continue
		}
		t[k] = left
	}
}
