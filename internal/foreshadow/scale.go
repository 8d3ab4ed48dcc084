package foreshadow

import (
	"math"

	"github.com/vmarchenko/brickwave/internal/core"
)

// pentatonic holds the semitone offsets of two octaves of a minor
// pentatonic scale. Impact cues stay consonant no matter which bricks the
// layout pairs up.
var pentatonic = []int{0, 3, 5, 7, 10, 12, 15, 17, 19, 22}

const rootHzBase = 220.0 // A3

// buildScale derives the round's note table from the session seed. The root
// lands somewhere in the octave above A3 so each round sounds different
// while replays of the same seed sound identical.
func buildScale(rng *core.RNG) []float64 {
	rootStep := rng.Intn(12)
	root := rootHzBase * math.Pow(2, float64(rootStep)/12)

	out := make([]float64, len(pentatonic))
	for i, semis := range pentatonic {
		out[i] = root * math.Pow(2, float64(semis)/12)
	}
	return out
}

// pitchFor maps a brick's grid cell into the scale. Rows walk the scale
// downward so high bricks ring high.
func pitchFor(scale []float64, row, col int) float64 {
	if len(scale) == 0 {
		return rootHzBase
	}
	idx := (row*3 + col) % len(scale)
	if idx < 0 {
		idx += len(scale)
	}
	return scale[len(scale)-1-idx]
}
