// Package experiment runs complete allocation runs headlessly, for batch
// comparisons of the adaptive strategy against the uniform baseline.
package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Tina-Mai/storm/pkg/bandit"
)

// Config describes one run.
type Config struct {
	Name          string    `yaml:"name" json:"name"`
	Regions       int       `yaml:"regions" json:"regions"`
	Budget        int       `yaml:"budget" json:"budget"`
	Seed          uint64    `yaml:"seed" json:"seed"`                                       // 0 = random
	Effectiveness []float64 `yaml:"effectiveness,omitempty" json:"effectiveness,omitempty"` // fixed hidden rates; empty = tiered draw

	// Scenario names the base config a replica was expanded from.
	Scenario string `yaml:"-" json:"scenario,omitempty"`
}

// Result describes the outcome of a finished run.
type Result struct {
	Name     string          `json:"name"`
	Scenario string          `json:"scenario,omitempty"`
	RunID    string          `json:"run_id"`
	Seed     uint64          `json:"seed"`
	Results  bandit.Results  `json:"results"`
	Regions  []bandit.Region `json:"regions"`
	Duration time.Duration   `json:"duration_ns"`
}

// RunExperiment drives a fresh engine from initialization to exhaustion.
func RunExperiment(ctx context.Context, cfg Config) (*Result, error) {
	opts := []bandit.Option{bandit.WithSource(bandit.NewSource(cfg.Seed))}
	if len(cfg.Effectiveness) > 0 {
		for i, p := range cfg.Effectiveness {
			if p <= 0 || p >= 1 {
				return nil, fmt.Errorf("%w: effectiveness[%d]=%g must lie strictly between 0 and 1",
					bandit.ErrConfiguration, i, p)
			}
		}
		opts = append(opts, bandit.WithGenerator(bandit.FixedGenerator(cfg.Effectiveness)))
	}

	start := time.Now()
	engine := bandit.New(opts...)
	snap, err := engine.Initialize(cfg.Regions, cfg.Budget)
	if err != nil {
		return nil, fmt.Errorf("initialize %s: %w", cfg.Name, err)
	}

	for !snap.Exhausted() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run %s canceled after %d steps: %w", cfg.Name, snap.StepsTaken(), err)
		}
		snap, err = engine.Step()
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", cfg.Name, err)
		}
	}

	return &Result{
		Name:     cfg.Name,
		Scenario: cfg.Scenario,
		RunID:    snap.RunID,
		Seed:     cfg.Seed,
		Results:  *snap.Results,
		Regions:  snap.Regions,
		Duration: time.Since(start),
	}, nil
}

// RunBatch runs every config with at most workers runs in flight. Results
// keep the order of cfgs. The first failure cancels the remaining runs.
func RunBatch(ctx context.Context, cfgs []Config, workers int) ([]*Result, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]*Result, len(cfgs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, cfg := range cfgs {
		g.Go(func() error {
			res, err := RunExperiment(gctx, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			log.Debug().
				Str("name", res.Name).
				Int("thompson", res.Results.ThompsonSamplingSuccesses).
				Int("uniform", res.Results.UniformAllocationSuccesses).
				Msg("Run completed")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Replicate expands a base config into n runs with consecutive seeds. A
// zero base seed leaves every run randomly seeded.
func Replicate(base Config, n int) []Config {
	out := make([]Config, n)
	for i := range out {
		cfg := base
		cfg.Name = fmt.Sprintf("%s-%d", base.Name, i+1)
		cfg.Scenario = base.Name
		if base.Seed != 0 {
			cfg.Seed = base.Seed + uint64(i)
		}
		out[i] = cfg
	}
	return out
}
