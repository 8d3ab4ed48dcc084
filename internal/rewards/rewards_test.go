package rewards

import (
	"testing"

	"github.com/vmarchenko/brickwave/internal/balls"
	"github.com/vmarchenko/brickwave/internal/config"
	"github.com/vmarchenko/brickwave/internal/core"
	"github.com/vmarchenko/brickwave/internal/physics"
)

func resolver() *Resolver {
	return NewResolver(config.Default().Rewards)
}

func TestSingleActiveReward(t *testing.T) {
	r := resolver()
	r.Activate(KindDoublePoints, nil, nil, 0)
	if r.Active() != KindDoublePoints || !r.DoublePoints() {
		t.Fatal("double points not active")
	}

	// Activating another reward displaces the first entirely.
	r.Activate(KindGhostBrick, nil, nil, 0)
	if r.Active() != KindGhostBrick {
		t.Fatalf("active = %s", r.Active())
	}
	if r.DoublePoints() {
		t.Fatal("displaced reward still in effect")
	}
	if !r.GhostBricks() {
		t.Fatal("ghost not in effect")
	}
}

func TestSlowTimeExtendsAndPreservesScale(t *testing.T) {
	cfg := config.Default().Rewards
	r := NewResolver(cfg)

	r.Activate(KindSlowTime, nil, nil, 0)
	if r.TimeScale() != cfg.SlowTimeScale {
		t.Fatalf("scale = %f, want %f", r.TimeScale(), cfg.SlowTimeScale)
	}

	r.Tick(cfg.SlowTimeDuration/2, 0)
	before := r.slowRemaining
	scale := r.TimeScale()

	r.Activate(KindSlowTime, nil, nil, 0)
	if r.slowRemaining < before {
		t.Fatalf("extension shrank duration: %f < %f", r.slowRemaining, before)
	}
	if r.TimeScale() != scale {
		t.Fatal("extension changed the running scale")
	}
	if r.slowRemaining > cfg.SlowTimeMaxDuration {
		t.Fatalf("duration %f above cap %f", r.slowRemaining, cfg.SlowTimeMaxDuration)
	}
}

func TestExpiryClearsActivePointer(t *testing.T) {
	cfg := config.Default().Rewards
	for _, kind := range []Kind{KindDoublePoints, KindGhostBrick, KindSlowTime, KindWidePaddle, KindStickyPaddle} {
		r := NewResolver(cfg)
		r.Activate(kind, nil, nil, 0)
		r.Tick(cfg.SlowTimeMaxDuration+cfg.WidePaddleDuration+cfg.StickyDuration+60, 0)
		if r.Active() != KindNone {
			t.Fatalf("%s still active after expiry", kind)
		}
		if r.TimeScale() != 1 {
			t.Fatalf("%s left time scale at %f", kind, r.TimeScale())
		}
	}
}

func TestMultiBallSpawnMath(t *testing.T) {
	cfg := config.Default().Rewards
	w := physics.NewArcadeWorld()
	ball := w.Add(physics.Body{Tag: physics.TagBall, Pos: core.Vec2{X: 40, Y: 30}, Vel: core.Vec2{Y: -20}, Radius: 0.5})
	pool := balls.NewPool(cfg.MultiBallCapacity)
	pool.SetPrimary(ball, false)

	r := NewResolver(cfg)
	spawned := r.Activate(KindMultiBall, w, pool, 26)
	if spawned != cfg.MultiBallCount {
		t.Fatalf("spawned %d, want %d", spawned, cfg.MultiBallCount)
	}

	// Re-activating with extras already alive only tops up the deficit.
	again := r.Activate(KindMultiBall, w, pool, 26)
	if again != 0 {
		t.Fatalf("re-activation spawned %d with pool already at desired", again)
	}
	if pool.ExtrasAlive() > cfg.MultiBallCapacity {
		t.Fatalf("pool over capacity: %d", pool.ExtrasAlive())
	}
}

func TestMultiBallEndsWhenPoolDrains(t *testing.T) {
	cfg := config.Default().Rewards
	r := NewResolver(cfg)
	w := physics.NewArcadeWorld()
	ball := w.Add(physics.Body{Tag: physics.TagBall, Pos: core.Vec2{X: 40, Y: 30}, Vel: core.Vec2{Y: -20}, Radius: 0.5})
	pool := balls.NewPool(cfg.MultiBallCapacity)
	pool.SetPrimary(ball, false)

	r.Activate(KindMultiBall, w, pool, 26)
	r.Tick(0.1, 0) // Every extra already lost.
	if r.Active() != KindNone {
		t.Fatal("multi-ball stayed active with no extras alive")
	}
}

func TestClearCancelsEverything(t *testing.T) {
	r := resolver()
	r.Activate(KindSlowTime, nil, nil, 0)
	r.Clear()
	if r.Active() != KindNone || r.TimeScale() != 1 {
		t.Fatal("clear left an effect running")
	}
}
