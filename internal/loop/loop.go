// Package loop implements the fixed-step simulation loop. It decouples
// variable-rate frame callbacks from a constant-size simulation step; every
// game-rule system assumes the step size never varies.
package loop

import (
	"sync"
	"sync/atomic"
	"time"
)

// UpdateFunc runs one fixed simulation step. dt is always the configured
// step size.
type UpdateFunc func(dt float64)

// RenderFunc receives the leftover accumulator as an interpolation factor in
// [0,1). It has no gameplay effect.
type RenderFunc func(alpha float64)

// stepEpsilon absorbs the float drift of repeated accumulator subtraction, so
// a frame worth exactly N steps runs N steps instead of N-1.
const stepEpsilon = 1e-9

// Options bound the loop's behavior per frame.
type Options struct {
	StepHz           int     // Fixed steps per second
	MaxFrameDelta    float64 // Clamp on the wall-clock delta of a single frame
	MaxStepsPerFrame int     // Upper bound on catch-up steps per frame
}

// Loop accumulates frame deltas and drains them in whole fixed steps.
//
// Frames arrive either from a host scheduler calling Advance directly, or
// from the internal timer fallback started by Start when no host drives the
// loop.
type Loop struct {
	step     float64
	maxDelta float64
	maxSteps int

	update UpdateFunc
	render RenderFunc

	mu    sync.Mutex
	acc   float64
	alpha float64
	ticks uint64

	running  atomic.Bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a loop. Zero or negative option fields fall back to safe
// values (120 Hz, 0.25 s clamp, 8 steps).
func New(opts Options, update UpdateFunc, render RenderFunc) *Loop {
	if opts.StepHz <= 0 {
		opts.StepHz = 120
	}
	if opts.MaxFrameDelta <= 0 {
		opts.MaxFrameDelta = 0.25
	}
	if opts.MaxStepsPerFrame <= 0 {
		opts.MaxStepsPerFrame = 8
	}
	return &Loop{
		step:     1.0 / float64(opts.StepHz),
		maxDelta: opts.MaxFrameDelta,
		maxSteps: opts.MaxStepsPerFrame,
		update:   update,
		render:   render,
	}
}

// StepSize returns the fixed step in seconds.
func (l *Loop) StepSize() float64 {
	return l.step
}

// Ticks returns the number of fixed steps run so far.
func (l *Loop) Ticks() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ticks
}

// Alpha returns the interpolation factor left after the last Advance.
func (l *Loop) Alpha() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.alpha
}

// Advance feeds one frame's wall-clock delta into the accumulator and runs
// as many fixed steps as fit, bounded by MaxStepsPerFrame. The delta clamp
// prevents a spiral of death after the host was suspended (tab resume,
// debugger pause). The leftover fraction goes to the render callback.
func (l *Loop) Advance(delta float64) {
	if delta < 0 {
		delta = 0
	}
	if delta > l.maxDelta {
		delta = l.maxDelta
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.acc += delta
	steps := 0
	for l.acc >= l.step-stepEpsilon && steps < l.maxSteps {
		if l.update != nil {
			l.update(l.step)
		}
		l.acc -= l.step
		l.ticks++
		steps++
	}
	if l.acc < 0 {
		l.acc = 0
	}
	if steps == l.maxSteps && l.acc >= l.step-stepEpsilon {
		// Still behind after the step budget: drop the remainder rather
		// than letting the accumulator grow without bound.
		l.acc = 0
	}

	l.alpha = l.acc / l.step
	if l.render != nil {
		l.render(l.alpha)
	}
}

// Start launches the timer-based fallback scheduler. It substitutes for a
// host frame source when none exists (headless runs, the automation
// harness). Starting twice is a no-op.
func (l *Loop) Start() {
	if !l.running.CompareAndSwap(false, true) {
		return
	}
	l.stopChan = make(chan struct{})
	l.wg.Add(1)

	go func() {
		defer l.wg.Done()
		// Drive frames at half the step rate; Advance catches up in whole
		// steps regardless of the frame cadence.
		interval := time.Duration(float64(time.Second) * l.step * 2)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		last := time.Now()
		for {
			select {
			case <-l.stopChan:
				return
			case now := <-ticker.C:
				l.Advance(now.Sub(last).Seconds())
				last = now
			}
		}
	}()
}

// Stop halts the fallback scheduler and waits for it to exit. Stopping a
// loop that is not running is a no-op.
func (l *Loop) Stop() {
	if !l.running.CompareAndSwap(true, false) {
		return
	}
	close(l.stopChan)
	l.wg.Wait()
}

// Running reports whether the fallback scheduler is active.
func (l *Loop) Running() bool {
	return l.running.Load()
}
