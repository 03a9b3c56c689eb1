package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/qmrc/internal/arch"
	"github.com/vk/qmrc/internal/faults"
)

func testModel(t *testing.T) *arch.Model {
	t.Helper()
	nodes := []arch.Node{
		{ID: "q0", Operations: []string{"cx", "t"}, Weight: 1},
		{ID: "q1", Operations: []string{"cx", "t", "tdg"}, Weight: 0.8},
		{ID: "q2", Operations: []string{"cx"}, Weight: 1},
	}
	edges := []arch.Edge{
		arch.NormalizeEdge("q0", "q1", 1),
		arch.NormalizeEdge("q1", "q2", 0.5),
	}
	m, err := arch.New("triple", false, nodes, edges)
	require.NoError(t, err)
	return m
}

func TestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("specs", "ring.solver.json"), Path(filepath.Join("specs", "ring.hcl"), ""))
	assert.Equal(t, filepath.Join("out", "ring.solver.json"), Path(filepath.Join("specs", "ring.hcl"), "out"))
}

func TestSpecializeLoadRoundTrip(t *testing.T) {
	m := testModel(t)
	path := filepath.Join(t.TempDir(), "triple.solver.json")
	require.NoError(t, Specialize(m, path, false))

	art, err := Load(path)
	require.NoError(t, err)
	assert.False(t, art.Debug)

	assert.Equal(t, m.Name(), art.Model.Name())
	if diff := cmp.Diff(m.Nodes(), art.Model.Nodes()); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(m.Edges(), art.Model.Edges()); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestSpecialize_DebugWritesDump(t *testing.T) {
	m := testModel(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "triple.solver.json")
	require.NoError(t, Specialize(m, path, true))

	art, err := Load(path)
	require.NoError(t, err)
	assert.True(t, art.Debug)

	dump, err := os.ReadFile(filepath.Join(dir, "triple.solver.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(dump), `architecture "triple"`)
	assert.Contains(t, string(dump), "qubit q1")
}

func TestLoad_VersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.solver.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"format_version": 99}`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	f, ok := err.(*faults.Fault)
	require.True(t, ok)
	assert.Equal(t, faults.ConfigurationMismatch, f.Kind)
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.solver.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	f, ok := err.(*faults.Fault)
	require.True(t, ok)
	assert.Equal(t, faults.ParseError, f.Kind)
}

func TestLoad_RevalidatesStructure(t *testing.T) {
	// A hand-edited artifact with a self-loop must be rejected at load time.
	doc := map[string]any{
		"format_version": FormatVersion,
		"architecture": map[string]any{
			"name":  "broken",
			"nodes": []map[string]any{{"id": "a", "operations": []string{"cx"}, "weight": 1}},
			"edges": []map[string]any{{"a": "a", "b": "a", "weight": 1}},
		},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "broken.solver.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Load(path)
	require.Error(t, err)
	f, ok := err.(*faults.Fault)
	require.True(t, ok)
	assert.Equal(t, faults.ConfigurationMismatch, f.Kind)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.solver.json"))
	require.Error(t, err)
}
