package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/Tina-Mai/storm/pkg/bandit"
)

func TestRunExperimentExhaustsBudget(t *testing.T) {
	res, err := RunExperiment(context.Background(), Config{Name: "basic", Regions: 3, Budget: 120, Seed: 11})
	if err != nil {
		t.Fatalf("RunExperiment: %v", err)
	}
	if res.Results.TotalAttempts != 120 {
		t.Errorf("total attempts = %d, want 120", res.Results.TotalAttempts)
	}
	attempts := 0
	for _, r := range res.Regions {
		attempts += r.TotalAttempts
	}
	if attempts != 120 {
		t.Errorf("region attempts sum = %d, want 120", attempts)
	}
	if res.RunID == "" {
		t.Error("expected run ID")
	}
}

func TestRunExperimentDeterministicWithSeed(t *testing.T) {
	cfg := Config{Name: "seeded", Regions: 4, Budget: 200, Seed: 99}
	a, err := RunExperiment(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunExperiment(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if a.Results.ThompsonSamplingSuccesses != b.Results.ThompsonSamplingSuccesses ||
		a.Results.UniformAllocationSuccesses != b.Results.UniformAllocationSuccesses {
		t.Errorf("same seed gave different results: %+v vs %+v", a.Results, b.Results)
	}
}

func TestRunExperimentFixedEffectiveness(t *testing.T) {
	res, err := RunExperiment(context.Background(), Config{
		Name: "fixed", Regions: 2, Budget: 400, Seed: 3,
		Effectiveness: []float64{0.9, 0.1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Regions[0].HiddenEffectiveness != 0.9 || res.Regions[1].HiddenEffectiveness != 0.1 {
		t.Fatalf("effectiveness not applied: %+v", res.Regions)
	}
	if res.Results.BestRegionID != 1 {
		t.Errorf("best region = %d, want 1", res.Results.BestRegionID)
	}
	if res.Results.BestRegionShare < 0.8 {
		t.Errorf("best region share = %f, expected the bulk of the budget", res.Results.BestRegionShare)
	}
}

func TestRunExperimentRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"one region", Config{Regions: 1, Budget: 10}},
		{"no budget", Config{Regions: 3, Budget: 0}},
		{"effectiveness out of range", Config{Regions: 2, Budget: 10, Effectiveness: []float64{0.5, 1.0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RunExperiment(context.Background(), tt.cfg)
			if !errors.Is(err, bandit.ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestRunExperimentCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunExperiment(ctx, Config{Regions: 3, Budget: 50, Seed: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunBatchKeepsOrder(t *testing.T) {
	cfgs := Replicate(Config{Name: "batch", Regions: 3, Budget: 60, Seed: 100}, 8)
	results, err := RunBatch(context.Background(), cfgs, 3)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if len(results) != 8 {
		t.Fatalf("got %d results, want 8", len(results))
	}
	for i, r := range results {
		if r == nil {
			t.Fatalf("result %d missing", i)
		}
		if r.Name != cfgs[i].Name || r.Seed != cfgs[i].Seed {
			t.Errorf("result %d = %s/%d, want %s/%d", i, r.Name, r.Seed, cfgs[i].Name, cfgs[i].Seed)
		}
	}
}

func TestRunBatchPropagatesError(t *testing.T) {
	cfgs := []Config{
		{Name: "ok", Regions: 3, Budget: 30, Seed: 1},
		{Name: "bad", Regions: 12, Budget: 30, Seed: 2},
	}
	if _, err := RunBatch(context.Background(), cfgs, 2); !errors.Is(err, bandit.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestReplicate(t *testing.T) {
	cfgs := Replicate(Config{Name: "x", Regions: 2, Budget: 10, Seed: 5}, 3)
	want := []uint64{5, 6, 7}
	for i, c := range cfgs {
		if c.Seed != want[i] {
			t.Errorf("cfg %d seed = %d, want %d", i, c.Seed, want[i])
		}
	}
	if cfgs[2].Name != "x-3" || cfgs[2].Scenario != "x" {
		t.Errorf("name = %s, want x-3", cfgs[2].Name)
	}

	random := Replicate(Config{Name: "r"}, 2)
	if random[0].Seed != 0 || random[1].Seed != 0 {
		t.Error("zero base seed should stay random")
	}
}
