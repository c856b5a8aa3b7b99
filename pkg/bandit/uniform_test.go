package bandit

import (
	"math"
	"testing"
)

func TestUniformAttemptsPerRegion(t *testing.T) {
	tests := []struct {
		regions, budget, want int
	}{
		{3, 9, 3},
		{3, 10, 3},
		{3, 11, 3},
		{4, 100, 25},
		{7, 300, 42},
		{0, 10, 0},
	}
	for _, tt := range tests {
		if got := UniformAttemptsPerRegion(tt.regions, tt.budget); got != tt.want {
			t.Errorf("UniformAttemptsPerRegion(%d,%d) = %d, want %d", tt.regions, tt.budget, got, tt.want)
		}
	}
}

func TestSimulateUniform_CountsExactlyFloorTrials(t *testing.T) {
	// With certain success every trial counts, so the total equals the
	// number of trials run.
	regions := []Region{NewRegion(0, 1), NewRegion(1, 1), NewRegion(2, 1)}
	if got := SimulateUniform(NewSource(1), regions, 9); got != 9 {
		t.Errorf("budget 9 over 3 regions ran %d trials, want 9", got)
	}
	if got := SimulateUniform(NewSource(1), regions, 11); got != 9 {
		t.Errorf("budget 11 over 3 regions ran %d trials, want 9 (remainder discarded)", got)
	}
}

func TestSimulateUniform_PerRegionSplit(t *testing.T) {
	// Only the second region can succeed; it gets exactly floor(9/3) trials.
	regions := []Region{NewRegion(0, 0), NewRegion(1, 1), NewRegion(2, 0)}
	if got := SimulateUniform(NewSource(2), regions, 9); got != 3 {
		t.Errorf("got %d successes, want 3", got)
	}
}

func TestSimulateUniform_DoesNotTouchPosterior(t *testing.T) {
	regions := []Region{NewRegion(0, 0.7), NewRegion(1, 0.2)}
	before := append([]Region(nil), regions...)
	SimulateUniform(NewSource(3), regions, 100)
	for i := range regions {
		if regions[i] != before[i] {
			t.Errorf("region %d mutated by baseline", i)
		}
	}
}

func TestSimulateUniform_ExpectedValue(t *testing.T) {
	regions := []Region{NewRegion(0, 0.8), NewRegion(1, 0.2)}
	src := NewSource(4)
	total := 0
	const runs = 200
	for i := 0; i < runs; i++ {
		total += SimulateUniform(src, regions, 1000)
	}
	mean := float64(total) / runs
	if math.Abs(mean-500) > 10 {
		t.Errorf("mean uniform successes = %.1f, want about 500", mean)
	}
}
