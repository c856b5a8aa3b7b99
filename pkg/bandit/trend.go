package bandit

import "gonum.org/v1/gonum/floats"

// TrendWindow is the moving-average window used for learning curves.
const TrendWindow = 10

// MovingAverage returns, for every step i, the mean reward over the last
// window steps ending at i. The first window-1 entries average over the
// shorter prefix. A window below 1 is treated as 1.
func MovingAverage(history []int, window int) []float64 {
	if window < 1 {
		window = 1
	}
	sums := cumulativeSums(history)
	out := make([]float64, len(history))
	for i := range out {
		start := max(0, i-window+1)
		total := sums[i]
		if start > 0 {
			total -= sums[start-1]
		}
		out[i] = total / float64(i-start+1)
	}
	return out
}

// CumulativeRate returns, for every step i, the success rate over steps
// 0..i.
func CumulativeRate(history []int) []float64 {
	out := cumulativeSums(history)
	for i := range out {
		out[i] /= float64(i + 1)
	}
	return out
}

func cumulativeSums(history []int) []float64 {
	vals := make([]float64, len(history))
	for i, r := range history {
		vals[i] = float64(r)
	}
	if len(vals) == 0 {
		return vals
	}
	return floats.CumSum(make([]float64, len(vals)), vals)
}
