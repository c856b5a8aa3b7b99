package bandit

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// EffectivenessGenerator produces the hidden success probability of every
// region in a new run. Values must lie in (0,1).
type EffectivenessGenerator interface {
	Generate(src rand.Source, total int) []float64
}

// TieredGenerator guarantees one clearly best region and one clearly worst
// region, with every other region drawn from the wide middle span. The best
// and worst indices are drawn once per run, uniformly and distinct.
type TieredGenerator struct {
	BestMin, BestMax   float64
	WorstMin, WorstMax float64
	MidMin, MidMax     float64
}

// DefaultGenerator returns a TieredGenerator with best in [0.70,0.90),
// worst in [0.10,0.25) and the rest in [0.10,0.90).
func DefaultGenerator() TieredGenerator {
	return TieredGenerator{
		BestMin: 0.70, BestMax: 0.90,
		WorstMin: 0.10, WorstMax: 0.25,
		MidMin: 0.10, MidMax: 0.90,
	}
}

// Generate implements EffectivenessGenerator.
func (g TieredGenerator) Generate(src rand.Source, total int) []float64 {
	if total <= 0 {
		return nil
	}
	best := intnFrom(src, total)
	worst := best
	for total > 1 && worst == best {
		worst = intnFrom(src, total)
	}

	out := make([]float64, total)
	for i := range out {
		switch i {
		case best:
			out[i] = g.draw(src, g.BestMin, g.BestMax)
		case worst:
			out[i] = g.draw(src, g.WorstMin, g.WorstMax)
		default:
			out[i] = g.draw(src, g.MidMin, g.MidMax)
		}
	}
	return out
}

func (g TieredGenerator) draw(src rand.Source, lo, hi float64) float64 {
	return distuv.Uniform{Min: lo, Max: hi, Src: src}.Rand()
}

// FixedGenerator hands out preset values in order, cycling when a run has
// more regions than values.
type FixedGenerator []float64

// Generate implements EffectivenessGenerator.
func (g FixedGenerator) Generate(_ rand.Source, total int) []float64 {
	if len(g) == 0 || total <= 0 {
		return nil
	}
	out := make([]float64, total)
	for i := range out {
		out[i] = g[i%len(g)]
	}
	return out
}
