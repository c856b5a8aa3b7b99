package experiment

import (
	"strings"
	"testing"
)

const sampleScenarios = `
runs: 3
scenarios:
  - name: wide
    regions: 5
    budget: 500
  - regions: 3
    budget: 300
    seed: 42
    effectiveness: [0.8, 0.2, 0.5]
`

func TestParseScenarios(t *testing.T) {
	sf, err := ParseScenarios(strings.NewReader(sampleScenarios))
	if err != nil {
		t.Fatalf("ParseScenarios: %v", err)
	}
	if sf.Runs != 3 || len(sf.Scenarios) != 2 {
		t.Fatalf("unexpected file: %+v", sf)
	}
	if sf.Scenarios[1].Name != "scenario-2" {
		t.Errorf("default name = %q", sf.Scenarios[1].Name)
	}
	if got := sf.Scenarios[1].Effectiveness; len(got) != 3 || got[0] != 0.8 {
		t.Errorf("effectiveness = %v", got)
	}

	cfgs := sf.Expand(0)
	if len(cfgs) != 6 {
		t.Fatalf("expanded %d configs, want 6", len(cfgs))
	}
	if cfgs[3].Name != "scenario-2-1" || cfgs[5].Seed != 44 {
		t.Errorf("unexpected expansion: %+v", cfgs[3:])
	}
	if len(sf.Expand(1)) != 2 {
		t.Error("flag override should replace the file's run count")
	}
}

func TestParseScenariosErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", "runs: 2\n"},
		{"unknown field", "scenarios:\n  - regions: 3\n    budgett: 10\n"},
		{"malformed", "scenarios: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScenarios(strings.NewReader(tt.in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
