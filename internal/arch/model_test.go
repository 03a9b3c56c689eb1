package arch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineNodes(ids ...string) []Node {
	nodes := make([]Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, Node{ID: id, Operations: []string{"cx", "t", "tdg"}, Weight: 1})
	}
	return nodes
}

func lineEdges(ids ...string) []Edge {
	var edges []Edge
	for i := 1; i < len(ids); i++ {
		edges = append(edges, NormalizeEdge(ids[i-1], ids[i], 1))
	}
	return edges
}

func TestNew_ValidLine(t *testing.T) {
	m, err := New("line", false, lineNodes("q0", "q1", "q2", "q3"), lineEdges("q0", "q1", "q2", "q3"))
	require.NoError(t, err)

	assert.Equal(t, "line", m.Name())
	assert.Equal(t, 4, m.NodeCount())
	assert.Len(t, m.Components(), 1)

	i0, ok := m.Index("q0")
	require.True(t, ok)
	i3, ok := m.Index("q3")
	require.True(t, ok)
	assert.Equal(t, 3, m.Distance(i0, i3))
	assert.Equal(t, m.Distance(i0, i3), m.Distance(i3, i0), "distances must be symmetric")
}

func TestNew_AdjacencySymmetry(t *testing.T) {
	m, err := New("line", false, lineNodes("a", "b", "c"), lineEdges("a", "b", "c"))
	require.NoError(t, err)

	for i := 0; i < m.NodeCount(); i++ {
		for j := 0; j < m.NodeCount(); j++ {
			assert.Equal(t, m.Adjacent(i, j), m.Adjacent(j, i))
		}
		assert.False(t, m.Adjacent(i, i), "no self-adjacency")
	}
}

func TestNew_Errors(t *testing.T) {
	t.Run("duplicate node id", func(t *testing.T) {
		_, err := New("bad", false, append(lineNodes("a", "b"), Node{ID: "a", Weight: 1}), lineEdges("a", "b"))
		require.Error(t, err)
	})

	t.Run("self loop", func(t *testing.T) {
		_, err := New("bad", false, lineNodes("a", "b"), []Edge{NormalizeEdge("a", "a", 1)})
		require.Error(t, err)
	})

	t.Run("unknown endpoint", func(t *testing.T) {
		_, err := New("bad", false, lineNodes("a", "b"), []Edge{NormalizeEdge("a", "zz", 1)})
		require.Error(t, err)
	})

	t.Run("duplicate edge", func(t *testing.T) {
		edges := []Edge{NormalizeEdge("a", "b", 1), NormalizeEdge("b", "a", 2)}
		_, err := New("bad", false, lineNodes("a", "b"), edges)
		require.Error(t, err)
	})

	t.Run("disconnected without multi_component", func(t *testing.T) {
		_, err := New("bad", false, lineNodes("a", "b", "c"), lineEdges("a", "b"))
		require.Error(t, err)
	})
}

func TestNew_MultiComponent(t *testing.T) {
	m, err := New("split", true, lineNodes("a", "b", "c", "d"),
		[]Edge{NormalizeEdge("a", "b", 1), NormalizeEdge("c", "d", 1)})
	require.NoError(t, err)

	assert.Len(t, m.Components(), 2)
	ia, _ := m.Index("a")
	ic, _ := m.Index("c")
	assert.Equal(t, -1, m.Distance(ia, ic), "cross-component distance is unreachable")
}

func TestModel_Supports(t *testing.T) {
	nodes := []Node{
		{ID: "a", Operations: []string{"cx", "t"}, Weight: 1},
		{ID: "b", Operations: []string{"cx"}, Weight: 1},
	}
	m, err := New("ops", false, nodes, lineEdges("a", "b"))
	require.NoError(t, err)

	ia, _ := m.Index("a")
	ib, _ := m.Index("b")
	assert.True(t, m.Supports(ia, "t"))
	assert.False(t, m.Supports(ib, "t"))
	assert.True(t, m.Supports(ib, "cx"))
}

func TestNormalizeEdge(t *testing.T) {
	e := NormalizeEdge("q9", "q10", 0.5)
	assert.Equal(t, "q10", e.A, "lexically smaller endpoint comes first")
	assert.Equal(t, "q9", e.B)
	assert.Equal(t, 0.5, e.Weight)
}
