package core

// RNG is a deterministic pseudo-random number generator (64-bit LCG).
// Each subsystem that needs randomness owns its own RNG, derived from the
// session seed, so streams stay independent and replayable. State is exposed
// for snapshots.
type RNG struct {
	state uint64
}

// NewRNG creates a generator from a seed. A zero seed is remapped so the
// stream never degenerates.
func NewRNG(seed uint64) *RNG {
	if seed == 0 {
		seed = 1
	}
	return &RNG{state: seed}
}

// Derive returns a new independent generator whose seed mixes this
// generator's seed with a stream tag. Deriving does not advance the parent.
func (r *RNG) Derive(stream uint64) *RNG {
	s := r.state ^ (stream * 0x9e3779b97f4a7c15)
	if s == 0 {
		s = 1
	}
	return &RNG{state: s}
}

// Next advances the generator and returns the next raw value.
func (r *RNG) Next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// Intn returns a value in [0, n).
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n)) //#nosec G115 -- n is always positive
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 {
	return float64(r.Next()>>11) / float64(1<<53)
}

// Range returns a value in [lo, hi).
func (r *RNG) Range(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Float64()*(hi-lo)
}

// State returns the internal state for snapshotting.
func (r *RNG) State() uint64 {
	return r.state
}

// SetState restores a previously captured state.
func (r *RNG) SetState(s uint64) {
	if s == 0 {
		s = 1
	}
	r.state = s
}
