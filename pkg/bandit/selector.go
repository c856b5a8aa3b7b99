package bandit

import "math/rand/v2"

// Select draws one posterior sample per region and returns the index of the
// largest. On an exact tie the earlier region wins. Regions are not
// modified and HiddenEffectiveness is never read.
func Select(src rand.Source, regions []Region) (int, error) {
	return selectWith(func(r Region) float64 {
		return SampleBeta(src, r.Alpha, r.Beta)
	}, regions)
}

// selectWith is Select with the posterior draw supplied by the caller.
func selectWith(sample func(Region) float64, regions []Region) (int, error) {
	if len(regions) == 0 {
		return -1, ErrNoRegions
	}
	best := 0
	bestValue := sample(regions[0])
	for i := 1; i < len(regions); i++ {
		if v := sample(regions[i]); v > bestValue {
			best, bestValue = i, v
		}
	}
	return best, nil
}
