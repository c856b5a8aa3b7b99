package bandit

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// SampleBeta draws one value from Beta(alpha, beta) as X/(X+Y) with
// X ~ Gamma(alpha, 1) and Y ~ Gamma(beta, 1). alpha and beta must be
// positive.
func SampleBeta(src rand.Source, alpha, beta float64) float64 {
	x := distuv.Gamma{Alpha: alpha, Beta: 1, Src: src}.Rand()
	y := distuv.Gamma{Alpha: beta, Beta: 1, Src: src}.Rand()
	if x+y == 0 {
		return alpha / (alpha + beta)
	}
	return x / (x + y)
}
