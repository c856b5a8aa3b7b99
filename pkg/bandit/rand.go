package bandit

import (
	"math/rand/v2"
	"time"
)

// NewSource returns a PCG source for the given seed. A zero seed is
// replaced by the current time so that unseeded runs diverge.
func NewSource(seed uint64) rand.Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// When src is nil, the helpers below delegate to the global math/rand/v2
// generator.

func float64From(src rand.Source) float64 {
	if src == nil {
		return rand.Float64()
	}
	return rand.New(src).Float64()
}

func intnFrom(src rand.Source, n int) int {
	if src == nil {
		return rand.IntN(n)
	}
	return rand.New(src).IntN(n)
}
