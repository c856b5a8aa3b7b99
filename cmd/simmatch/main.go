package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/Tina-Mai/storm/internal/experiment"
	"github.com/Tina-Mai/storm/internal/logger"
)

func main() {
	var (
		regions  int
		budget   int
		numRuns  int
		workers  int
		seed     uint64
		file     string
		jsonOut  bool
		debugLog bool
	)

	flag.IntVar(&regions, "regions", 3, "Number of regions per run")
	flag.IntVar(&budget, "budget", 300, "Resource units per run")
	flag.IntVar(&numRuns, "n", 1, "Number of runs (per scenario with -f)")
	flag.IntVar(&workers, "workers", 1, "Concurrency (parallel runs)")
	flag.Uint64Var(&seed, "seed", 0, "Base seed (0 = random)")
	flag.StringVar(&file, "f", "", "YAML scenario file (overrides -regions/-budget/-seed)")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.BoolVar(&debugLog, "debug", false, "Enable debug logging")

	flag.Parse()
	logger.InitCLI(debugLog)

	var cfgs []experiment.Config
	if file != "" {
		sf, err := experiment.LoadScenarios(file)
		if err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("Failed to load scenarios")
		}
		runs := 0
		if isFlagSet("n") {
			runs = numRuns
		}
		cfgs = sf.Expand(runs)
	} else {
		base := experiment.Config{
			Name:    fmt.Sprintf("%d-regions-%d", regions, budget),
			Regions: regions,
			Budget:  budget,
			Seed:    seed,
		}
		cfgs = experiment.Replicate(base, numRuns)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	log.Info().Int("runs", len(cfgs)).Int("workers", workers).Msg("Starting simulations")
	results, err := experiment.RunBatch(ctx, cfgs, workers)
	if err != nil {
		log.Fatal().Err(err).Msg("Batch failed")
	}

	if jsonOut {
		printJSON(results)
	} else {
		printSummary(results)
	}
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func groupByScenario(results []*experiment.Result) map[string][]*experiment.Result {
	groups := make(map[string][]*experiment.Result)
	for _, r := range results {
		groups[r.Scenario] = append(groups[r.Scenario], r)
	}
	return groups
}

func printSummary(results []*experiment.Result) {
	groups := groupByScenario(results)
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		s := experiment.Summarize(groups[k])
		fmt.Printf("\n%s (%d runs):\n", k, s.Runs)
		fmt.Printf("  Thompson wins %d, uniform wins %d, ties %d  -- win rate %.1f%%\n",
			s.ThompsonWins, s.UniformWins, s.Ties, s.WinRate*100)
		fmt.Printf("  Thompson successes:  %.1f ± %.1f\n", s.MeanThompson, s.StdDevThompson)
		fmt.Printf("  Uniform successes:   %.1f ± %.1f\n", s.MeanUniform, s.StdDevUniform)
		fmt.Printf("  Improvement %.1f%%, best-region share %.1f%%, regret %.1f\n",
			s.MeanImprovement, s.MeanBestShare*100, s.MeanRegret)
	}
}

func printJSON(results []*experiment.Result) {
	out := struct {
		Total   int                  `json:"total"`
		Summary experiment.Summary   `json:"summary"`
		Results []*experiment.Result `json:"results"`
	}{
		Total:   len(results),
		Summary: experiment.Summarize(results),
		Results: results,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}
