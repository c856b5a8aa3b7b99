package bandit

import "math/rand/v2"

// UniformAttemptsPerRegion returns floor(totalBudget/numRegions). The
// remainder of the budget is discarded, not redistributed.
func UniformAttemptsPerRegion(numRegions, totalBudget int) int {
	if numRegions <= 0 {
		return 0
	}
	return totalBudget / numRegions
}

// SimulateUniform runs the equal-split baseline against the regions' hidden
// effectiveness and returns the total number of successes. It never touches
// the posterior state.
func SimulateUniform(src rand.Source, regions []Region, totalBudget int) int {
	attempts := UniformAttemptsPerRegion(len(regions), totalBudget)
	successes := 0
	for _, r := range regions {
		for i := 0; i < attempts; i++ {
			if SimulateTrial(src, r.HiddenEffectiveness) {
				successes++
			}
		}
	}
	return successes
}
