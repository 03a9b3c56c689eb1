package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_DefaultsApplied(t *testing.T) {
	cfg, err := NewConfig(Config{Command: CommandRun, ArtifactPath: "a.solver.json", CircuitPath: "c.qasm"})
	require.NoError(t, err)

	assert.Equal(t, "heuristic", cfg.ModeToken)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestNewConfig_Rejections(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"unknown command", Config{Command: "compile"}},
		{"specialize without spec", Config{Command: CommandSpecialize}},
		{"run without artifact", Config{Command: CommandRun, CircuitPath: "c.qasm"}},
		{"run without circuit", Config{Command: CommandRun, ArtifactPath: "a.solver.json"}},
		{"negative deadline", Config{Command: CommandRun, ArtifactPath: "a", CircuitPath: "c", Deadline: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(tc.cfg)
			require.Error(t, err)
		})
	}
}
