package bandit

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// Region is one arm of the bandit. Alpha and Beta are derived from the
// counts: Alpha == 1+SuccessCount, Beta == 1+TotalAttempts-SuccessCount.
type Region struct {
	ID                  int     `json:"id"`
	Name                string  `json:"name"`
	Alpha               float64 `json:"alpha"`
	Beta                float64 `json:"beta"`
	HiddenEffectiveness float64 `json:"hidden_effectiveness"`
	SuccessCount        int     `json:"success_count"`
	TotalAttempts       int     `json:"total_attempts"`
}

// NewRegion returns a region at the uniform Beta(1,1) prior. index is the
// zero-based creation position; the ID is index+1.
func NewRegion(index int, effectiveness float64) Region {
	return Region{
		ID:                  index + 1,
		Name:                RegionName(index),
		Alpha:               1,
		Beta:                1,
		HiddenEffectiveness: effectiveness,
	}
}

// RegionName returns the display label for the region at index:
// "Region A", "Region B", and so on.
func RegionName(index int) string {
	if index < 26 {
		return fmt.Sprintf("Region %c", 'A'+index)
	}
	return fmt.Sprintf("Region %d", index+1)
}

// Update returns a copy of r with one observed outcome folded into the
// posterior and the counts.
func (r Region) Update(success bool) Region {
	if success {
		r.Alpha++
		r.SuccessCount++
	} else {
		r.Beta++
	}
	r.TotalAttempts++
	return r
}

// Failures returns the number of unsuccessful attempts.
func (r Region) Failures() int {
	return r.TotalAttempts - r.SuccessCount
}

// Consistent reports whether the posterior matches the counts.
func (r Region) Consistent() bool {
	return r.Alpha == float64(1+r.SuccessCount) &&
		r.Beta == float64(1+r.Failures()) &&
		r.SuccessCount >= 0 && r.SuccessCount <= r.TotalAttempts
}

func (r Region) posterior() distuv.Beta {
	return distuv.Beta{Alpha: r.Alpha, Beta: r.Beta}
}

// PosteriorMean returns alpha/(alpha+beta).
func (r Region) PosteriorMean() float64 {
	return r.posterior().Mean()
}

// PosteriorVariance returns the variance of the Beta posterior.
func (r Region) PosteriorVariance() float64 {
	return r.posterior().Variance()
}

// CredibleInterval returns the equal-tailed interval holding mass of the
// posterior probability, e.g. 0.95.
func (r Region) CredibleInterval(mass float64) (lo, hi float64) {
	tail := (1 - mass) / 2
	b := r.posterior()
	return b.Quantile(tail), b.Quantile(1 - tail)
}
