package bandit

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"
)

func TestSampleBeta_MeanAndRange(t *testing.T) {
	src := NewSource(42)
	const n = 10000
	draws := make([]float64, n)
	for i := range draws {
		v := SampleBeta(src, 2, 2)
		if v < 0 || v > 1 {
			t.Fatalf("draw %d out of [0,1]: %f", i, v)
		}
		draws[i] = v
	}
	if mean := stat.Mean(draws, nil); math.Abs(mean-0.5) > 0.02 {
		t.Errorf("Beta(2,2) empirical mean = %.4f, want 0.5 +/- 0.02", mean)
	}
}

func TestSampleBeta_SkewedMeans(t *testing.T) {
	tests := []struct {
		alpha, beta float64
	}{
		{1, 1},
		{5, 1},
		{1, 9},
		{30, 10},
	}
	for _, tt := range tests {
		src := NewSource(7)
		draws := make([]float64, 20000)
		for i := range draws {
			draws[i] = SampleBeta(src, tt.alpha, tt.beta)
		}
		want := tt.alpha / (tt.alpha + tt.beta)
		if got := stat.Mean(draws, nil); math.Abs(got-want) > 0.02 {
			t.Errorf("Beta(%g,%g) mean = %.4f, want %.4f", tt.alpha, tt.beta, got, want)
		}
	}
}

func TestSampleBeta_VarianceMatchesPosterior(t *testing.T) {
	// Sharp posteriors must keep the analytic spread, not just the mean.
	r := Region{Alpha: 40, Beta: 20}
	src := NewSource(11)
	draws := make([]float64, 20000)
	for i := range draws {
		draws[i] = SampleBeta(src, r.Alpha, r.Beta)
	}
	got := stat.Variance(draws, nil)
	want := r.PosteriorVariance()
	if math.Abs(got-want)/want > 0.1 {
		t.Errorf("variance = %.6f, want %.6f within 10%%", got, want)
	}
}

func TestSimulateTrial_Frequency(t *testing.T) {
	src := NewSource(3)
	const n = 20000
	hits := 0
	for i := 0; i < n; i++ {
		if SimulateTrial(src, 0.3) {
			hits++
		}
	}
	if freq := float64(hits) / n; math.Abs(freq-0.3) > 0.02 {
		t.Errorf("success frequency = %.4f, want 0.3 +/- 0.02", freq)
	}
}

func TestSimulateTrial_Extremes(t *testing.T) {
	src := NewSource(5)
	for i := 0; i < 100; i++ {
		if SimulateTrial(src, 0) {
			t.Fatal("p=0 produced a success")
		}
		if !SimulateTrial(src, 1) {
			t.Fatal("p=1 produced a failure")
		}
	}
}
