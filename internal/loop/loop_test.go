package loop

import (
	"testing"
	"time"
)

func TestAdvanceRunsWholeSteps(t *testing.T) {
	var steps int
	var dts []float64
	l := New(Options{StepHz: 100, MaxFrameDelta: 1, MaxStepsPerFrame: 50},
		func(dt float64) {
			steps++
			dts = append(dts, dt)
		}, nil)

	l.Advance(0.035) // 3 whole steps of 0.01, 0.005 left over

	if steps != 3 {
		t.Fatalf("expected 3 steps, got %d", steps)
	}
	for _, dt := range dts {
		if dt != 0.01 {
			t.Errorf("step size should be constant 0.01, got %f", dt)
		}
	}
	alpha := l.Alpha()
	if alpha < 0.49 || alpha > 0.51 {
		t.Errorf("alpha should be ~0.5, got %f", alpha)
	}
}

func TestAdvanceClampsFrameDelta(t *testing.T) {
	var steps int
	l := New(Options{StepHz: 100, MaxFrameDelta: 0.05, MaxStepsPerFrame: 100},
		func(dt float64) { steps++ }, nil)

	// A 10-second stall (suspended host) must not replay 10 seconds.
	l.Advance(10)

	if steps != 5 {
		t.Errorf("clamped delta of 0.05 should run 5 steps, got %d", steps)
	}
}

func TestAdvanceDoesNotLoseStepsToFloatResidue(t *testing.T) {
	var steps int
	l := New(Options{StepHz: 100, MaxFrameDelta: 1, MaxStepsPerFrame: 100},
		func(dt float64) { steps++ }, nil)

	// Each frame is worth exactly two steps. The residue of repeated
	// subtraction must never swallow the last one.
	for i := 0; i < 50; i++ {
		l.Advance(0.02)
	}

	if steps != 100 {
		t.Errorf("100 steps worth of frames should run 100 steps, got %d", steps)
	}
	if a := l.Alpha(); a < 0 || a > 0.001 {
		t.Errorf("accumulator should be drained, alpha %f", a)
	}
}

func TestAdvanceBoundsStepsPerFrame(t *testing.T) {
	var steps int
	l := New(Options{StepHz: 100, MaxFrameDelta: 1, MaxStepsPerFrame: 4},
		func(dt float64) { steps++ }, nil)

	l.Advance(0.5) // 50 steps worth, budget 4

	if steps != 4 {
		t.Errorf("step budget of 4 should cap catch-up, got %d", steps)
	}
	// The remainder is dropped, so the next small frame runs normally.
	l.Advance(0.01)
	if steps != 5 {
		t.Errorf("accumulator should have been drained, got %d total steps", steps)
	}
}

func TestAlphaPassedToRender(t *testing.T) {
	var got float64 = -1
	l := New(Options{StepHz: 100, MaxFrameDelta: 1, MaxStepsPerFrame: 10},
		func(dt float64) {}, func(alpha float64) { got = alpha })

	l.Advance(0.012)

	if got < 0.19 || got > 0.21 {
		t.Errorf("render alpha should be ~0.2, got %f", got)
	}
	if got < 0 || got >= 1 {
		t.Errorf("alpha must stay in [0,1), got %f", got)
	}
}

func TestNegativeDeltaIgnored(t *testing.T) {
	var steps int
	l := New(Options{StepHz: 100}, func(dt float64) { steps++ }, nil)
	l.Advance(-1)
	if steps != 0 {
		t.Errorf("negative delta should run no steps, got %d", steps)
	}
}

func TestStartStopIdempotent(t *testing.T) {
	l := New(Options{StepHz: 200}, func(dt float64) {}, nil)

	if l.Running() {
		t.Fatal("loop should not run before Start")
	}

	l.Start()
	l.Start() // No-op
	if !l.Running() {
		t.Fatal("loop should be running after Start")
	}

	l.Stop()
	l.Stop() // No-op
	if l.Running() {
		t.Fatal("loop should not run after Stop")
	}
}

func TestFallbackSchedulerTicks(t *testing.T) {
	done := make(chan struct{})
	var once bool
	l := New(Options{StepHz: 200}, func(dt float64) {
		if !once {
			once = true
			close(done)
		}
	}, nil)

	l.Start()
	defer l.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fallback scheduler should have produced at least one step")
	}
}

func TestTickCounter(t *testing.T) {
	l := New(Options{StepHz: 100, MaxFrameDelta: 1, MaxStepsPerFrame: 100},
		func(dt float64) {}, nil)
	l.Advance(0.1)
	if l.Ticks() != 10 {
		t.Errorf("expected 10 ticks, got %d", l.Ticks())
	}
}
