package bandit

import (
	"testing"
)

func TestTieredGenerator_GuaranteesBestAndWorst(t *testing.T) {
	g := DefaultGenerator()
	src := NewSource(9)
	for total := 2; total <= MaxRegions; total++ {
		for trial := 0; trial < 200; trial++ {
			effs := g.Generate(src, total)
			if len(effs) != total {
				t.Fatalf("got %d values, want %d", len(effs), total)
			}
			hasBest, hasWorst := false, false
			for _, p := range effs {
				if p <= 0 || p >= 1 {
					t.Fatalf("effectiveness %f outside (0,1)", p)
				}
				if p < g.MidMin || p >= g.MidMax {
					t.Fatalf("effectiveness %f outside the full span", p)
				}
				if p >= g.BestMin {
					hasBest = true
				}
				if p < g.WorstMax {
					hasWorst = true
				}
			}
			if !hasBest || !hasWorst {
				t.Fatalf("total=%d missing a tier: %v", total, effs)
			}
		}
	}
}

func TestTieredGenerator_TwoRegionsAreSeparated(t *testing.T) {
	g := DefaultGenerator()
	src := NewSource(10)
	for i := 0; i < 500; i++ {
		effs := g.Generate(src, 2)
		hi, lo := effs[0], effs[1]
		if lo > hi {
			hi, lo = lo, hi
		}
		if hi < g.BestMin || lo >= g.WorstMax {
			t.Fatalf("two-region run not split into best/worst: %v", effs)
		}
	}
}

func TestTieredGenerator_BestPositionVaries(t *testing.T) {
	g := DefaultGenerator()
	src := NewSource(12)
	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		effs := g.Generate(src, 4)
		for j, p := range effs {
			if p >= g.BestMin && p < g.BestMax {
				seen[j] = true
			}
		}
	}
	if len(seen) != 4 {
		t.Errorf("best region only ever landed on %v", seen)
	}
}

func TestFixedGenerator(t *testing.T) {
	g := FixedGenerator{0.9, 0.1}
	got := g.Generate(nil, 3)
	want := []float64{0.9, 0.1, 0.9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if FixedGenerator(nil).Generate(nil, 2) != nil {
		t.Error("empty generator should return nil")
	}
}
