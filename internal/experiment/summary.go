package experiment

import (
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a batch of results.
type Summary struct {
	Runs            int     `json:"runs"`
	ThompsonWins    int     `json:"thompson_wins"`
	UniformWins     int     `json:"uniform_wins"`
	Ties            int     `json:"ties"`
	WinRate         float64 `json:"win_rate"`
	MeanThompson    float64 `json:"mean_thompson"`
	StdDevThompson  float64 `json:"stddev_thompson"`
	MeanUniform     float64 `json:"mean_uniform"`
	StdDevUniform   float64 `json:"stddev_uniform"`
	MeanImprovement float64 `json:"mean_improvement_pct"`
	MeanBestShare   float64 `json:"mean_best_share"`
	MeanRegret      float64 `json:"mean_regret"`
}

// Summarize computes win counts and per-strategy moments. Nil entries are
// skipped.
func Summarize(results []*Result) Summary {
	var ts, uni, imp, share, regret []float64
	var s Summary
	for _, r := range results {
		if r == nil {
			continue
		}
		res := r.Results
		switch {
		case res.ThompsonSamplingSuccesses > res.UniformAllocationSuccesses:
			s.ThompsonWins++
		case res.ThompsonSamplingSuccesses < res.UniformAllocationSuccesses:
			s.UniformWins++
		default:
			s.Ties++
		}
		ts = append(ts, float64(res.ThompsonSamplingSuccesses))
		uni = append(uni, float64(res.UniformAllocationSuccesses))
		imp = append(imp, res.ImprovementPct)
		share = append(share, res.BestRegionShare)
		regret = append(regret, res.ExpectedRegret)
	}

	s.Runs = len(ts)
	if s.Runs == 0 {
		return s
	}
	s.WinRate = float64(s.ThompsonWins) / float64(s.Runs)
	s.MeanThompson, s.StdDevThompson = meanStdDev(ts)
	s.MeanUniform, s.StdDevUniform = meanStdDev(uni)
	s.MeanImprovement = stat.Mean(imp, nil)
	s.MeanBestShare = stat.Mean(share, nil)
	s.MeanRegret = stat.Mean(regret, nil)
	return s
}

// meanStdDev returns a zero deviation for a single sample instead of NaN.
func meanStdDev(x []float64) (float64, float64) {
	if len(x) < 2 {
		return stat.Mean(x, nil), 0
	}
	return stat.MeanStdDev(x, nil)
}
