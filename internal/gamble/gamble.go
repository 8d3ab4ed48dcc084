// Package gamble tracks the per-brick armed/primed cycle for gamble bricks.
// A gamble brick primes on its first non-breaking strike and starts a
// countdown; breaking it while primed is a success worth a score multiplier,
// letting the countdown expire is a fail that restores the brick's hp.
package gamble

import (
	"sort"

	"github.com/vmarchenko/brickwave/internal/arena"
)

// State is a gamble brick's position in the cycle.
type State string

const (
	StateArmed   State = "armed"
	StatePrimed  State = "primed"
	StateSuccess State = "success"
	StateFail    State = "fail"
)

// DefaultPrimeWindow is the seconds a primed brick stays winnable.
const DefaultPrimeWindow = 4.0

type entry struct {
	state State
	timer float64
}

// Tracker owns the state of every gamble brick in the current level.
// Timers run only while primed.
type Tracker struct {
	window  float64
	entries map[arena.BrickID]*entry
}

// NewTracker creates a tracker with the given prime window. Non-positive
// windows fall back to the default.
func NewTracker(window float64) *Tracker {
	if window <= 0 {
		window = DefaultPrimeWindow
	}
	return &Tracker{window: window, entries: make(map[arena.BrickID]*entry)}
}

// Register arms a brick at level load. Re-registering resets it to armed.
func (t *Tracker) Register(id arena.BrickID) {
	t.entries[id] = &entry{state: StateArmed}
}

// State reports a brick's current state, or armed for unknown ids.
func (t *Tracker) State(id arena.BrickID) State {
	if e, ok := t.entries[id]; ok {
		return e.state
	}
	return StateArmed
}

// OnHit records a non-breaking strike. An armed brick becomes primed and
// starts its countdown; a primed brick has its countdown restarted.
// Returns true when the brick is primed after the hit.
func (t *Tracker) OnHit(id arena.BrickID) bool {
	e, ok := t.entries[id]
	if !ok {
		return false
	}
	switch e.state {
	case StateArmed, StateFail:
		e.state = StatePrimed
		e.timer = t.window
		return true
	case StatePrimed:
		e.timer = t.window
		return true
	}
	return false
}

// OnBreak resolves a destroyed brick. Returns true when the break landed
// while primed (the gamble paid off). The entry is removed either way.
func (t *Tracker) OnBreak(id arena.BrickID) bool {
	e, ok := t.entries[id]
	if !ok {
		return false
	}
	won := e.state == StatePrimed
	if won {
		e.state = StateSuccess
	}
	delete(t.entries, id)
	return won
}

// Tick advances every primed countdown and returns the ids whose timers
// expired this step, in ascending id order. Expired bricks loop back to
// armed; the caller restores their hp as the penalty.
func (t *Tracker) Tick(dt float64) []arena.BrickID {
	if dt <= 0 {
		return nil
	}
	var expired []arena.BrickID
	for id, e := range t.entries {
		if e.state != StatePrimed {
			continue
		}
		e.timer -= dt
		if e.timer <= 0 {
			e.state = StateArmed
			e.timer = 0
			expired = append(expired, id)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i] < expired[j] })
	return expired
}

// Remaining reports the countdown left on a primed brick, zero otherwise.
func (t *Tracker) Remaining(id arena.BrickID) float64 {
	if e, ok := t.entries[id]; ok && e.state == StatePrimed {
		return e.timer
	}
	return 0
}

// Remove forgets a brick without resolving it.
func (t *Tracker) Remove(id arena.BrickID) {
	delete(t.entries, id)
}

// Clear cancels every tracked brick. Called on level load and reset.
func (t *Tracker) Clear() {
	t.entries = make(map[arena.BrickID]*entry)
}

// Count reports how many bricks are tracked.
func (t *Tracker) Count() int { return len(t.entries) }
