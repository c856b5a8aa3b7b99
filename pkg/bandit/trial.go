package bandit

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// SimulateTrial draws one Bernoulli(p) outcome from a single fresh
// Uniform(0,1) value u and reports u < p.
func SimulateTrial(src rand.Source, p float64) bool {
	return distuv.Bernoulli{P: p, Src: src}.Rand() == 1
}
