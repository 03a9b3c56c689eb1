// Package tuning holds the solver's search parameters. They are read from an
// optional YAML file; absent fields keep their defaults, an absent file means
// all defaults.
package tuning

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config are the knobs of the placement and routing searches. All searches
// stay deterministic for a fixed Config; the knobs shape cost comparisons
// and bounds, never introduce randomness.
type Config struct {
	// Weighted-score coefficients for placement candidate comparison.
	Alpha float64 `yaml:"alpha"` // pair-distance routing cost term
	Beta  float64 `yaml:"beta"`  // calibration-weight penalty term
	Gamma float64 `yaml:"gamma"` // criticality decay applied to pair weights
	Delta float64 `yaml:"delta"` // worst-pair distance term

	// ExhaustiveSearchThreshold caps the logical qubit count exact placement
	// will attempt before failing with SearchExhausted.
	ExhaustiveSearchThreshold int `yaml:"exhaustive_search_threshold"`

	// LocalSearchPasses bounds the heuristic placement improvement loop.
	LocalSearchPasses int `yaml:"local_search_passes"`

	// SabreIterations is the number of forward/backward refinement rounds
	// in sabre mode.
	SabreIterations int `yaml:"sabre_iterations"`

	// ParallelSearches is the worker count for exact placement branches.
	ParallelSearches int `yaml:"parallel_searches"`
}

// Default returns the built-in parameter set.
func Default() Config {
	return Config{
		Alpha:                     1.0,
		Beta:                      1.0,
		Gamma:                     1.0,
		Delta:                     1.0,
		ExhaustiveSearchThreshold: 8,
		LocalSearchPasses:         64,
		SabreIterations:           3,
		ParallelSearches:          8,
	}
}

// Load reads a YAML tuning file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading tuning file %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "decoding tuning file %s", path)
	}
	if cfg.ExhaustiveSearchThreshold < 1 || cfg.LocalSearchPasses < 1 ||
		cfg.SabreIterations < 1 || cfg.ParallelSearches < 1 {
		return cfg, errors.Errorf("tuning file %s: bounds must be >= 1", path)
	}
	return cfg, nil
}
