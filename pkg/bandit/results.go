package bandit

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// Results compares the adaptive run against the uniform baseline. It is
// computed once, when the budget runs out.
type Results struct {
	ThompsonSamplingSuccesses  int     `json:"thompson_sampling_successes"`
	UniformAllocationSuccesses int     `json:"uniform_allocation_successes"`
	TotalAttempts              int     `json:"total_attempts"`
	ImprovementPct             float64 `json:"improvement_pct"`
	BestRegionID               int     `json:"best_region_id"`
	BestRegionShare            float64 `json:"best_region_share"`
	ExpectedRegret             float64 `json:"expected_regret"`
}

// ThompsonWon reports whether the adaptive strategy strictly beat uniform.
func (r Results) ThompsonWon() bool {
	return r.ThompsonSamplingSuccesses > r.UniformAllocationSuccesses
}

func computeResults(src rand.Source, regions []Region, totalBudget int) Results {
	res := Results{
		UniformAllocationSuccesses: SimulateUniform(src, regions, totalBudget),
		TotalAttempts:              totalBudget,
	}

	effs := make([]float64, len(regions))
	attempts := make([]float64, len(regions))
	for i, r := range regions {
		res.ThompsonSamplingSuccesses += r.SuccessCount
		effs[i] = r.HiddenEffectiveness
		attempts[i] = float64(r.TotalAttempts)
	}

	if res.UniformAllocationSuccesses > 0 {
		res.ImprovementPct = float64(res.ThompsonSamplingSuccesses-res.UniformAllocationSuccesses) /
			float64(res.UniformAllocationSuccesses) * 100
	}

	if len(regions) > 0 {
		best := floats.MaxIdx(effs)
		res.BestRegionID = regions[best].ID
		if totalBudget > 0 {
			res.BestRegionShare = attempts[best] / float64(totalBudget)
		}
		res.ExpectedRegret = float64(totalBudget)*effs[best] - floats.Dot(attempts, effs)
	}
	return res
}
