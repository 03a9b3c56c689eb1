package app

import (
	"fmt"
	"time"
)

// Command names accepted by the CLI.
const (
	CommandSpecialize = "specialize"
	CommandRun        = "run"
)

// Config holds everything one invocation needs, populated by the CLI parser.
type Config struct {
	Command string

	// specialize
	SpecPath string
	OutDir   string
	Debug    bool

	// run
	ArtifactPath string
	CircuitPath  string
	GraphPath    string
	ModeToken    string
	TuningPath   string
	Deadline     time.Duration

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config assembled from parsed flags.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandSpecialize:
		if cfg.SpecPath == "" {
			return nil, fmt.Errorf("specialize: -spec is required")
		}
	case CommandRun:
		if cfg.ArtifactPath == "" {
			return nil, fmt.Errorf("run: -artifact is required")
		}
		if cfg.CircuitPath == "" {
			return nil, fmt.Errorf("run: -circuit is required")
		}
		if cfg.Deadline < 0 {
			return nil, fmt.Errorf("run: -deadline must not be negative")
		}
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	if cfg.ModeToken == "" {
		cfg.ModeToken = "heuristic"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return &cfg, nil
}
