package experiment

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ScenarioFile is the YAML layout read by the simmatch command:
//
//	runs: 50
//	scenarios:
//	  - name: wide
//	    regions: 5
//	    budget: 500
//	  - name: fixed
//	    regions: 3
//	    budget: 300
//	    seed: 42
//	    effectiveness: [0.8, 0.2, 0.5]
type ScenarioFile struct {
	Runs      int      `yaml:"runs"`
	Scenarios []Config `yaml:"scenarios"`
}

// ParseScenarios decodes a scenario file and fills in missing names.
func ParseScenarios(r io.Reader) (*ScenarioFile, error) {
	var sf ScenarioFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil {
		return nil, fmt.Errorf("decode scenarios: %w", err)
	}
	if len(sf.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario file lists no scenarios")
	}
	for i := range sf.Scenarios {
		if sf.Scenarios[i].Name == "" {
			sf.Scenarios[i].Name = fmt.Sprintf("scenario-%d", i+1)
		}
	}
	return &sf, nil
}

// LoadScenarios reads a scenario file from disk.
func LoadScenarios(path string) (*ScenarioFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseScenarios(f)
}

// Expand replicates every scenario runs times. runs overrides the file's
// own count when positive.
func (sf *ScenarioFile) Expand(runs int) []Config {
	if runs <= 0 {
		runs = sf.Runs
	}
	if runs <= 0 {
		runs = 1
	}
	var out []Config
	for _, sc := range sf.Scenarios {
		out = append(out, Replicate(sc, runs)...)
	}
	return out
}
