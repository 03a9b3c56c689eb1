package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/qmrc/internal/arch"
	"github.com/vk/qmrc/internal/circuit"
	"github.com/vk/qmrc/internal/device"
	"github.com/vk/qmrc/internal/faults"
)

func lineGraph(t *testing.T, ops []string, ids ...string) *device.Graph {
	t.Helper()
	nodes := make([]arch.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, arch.Node{ID: id, Operations: ops, Weight: 1})
	}
	var edges []arch.Edge
	for i := 1; i < len(ids); i++ {
		edges = append(edges, arch.NormalizeEdge(ids[i-1], ids[i], 1))
	}
	m, err := arch.New("line", false, nodes, edges)
	require.NoError(t, err)
	return device.Full(m)
}

func TestRouter_AdjacentGateNeedsNoSwap(t *testing.T) {
	g := lineGraph(t, []string{"cx", "t", "tdg"}, "q0", "q1", "q2")
	r := newRouter(g, NopTrace(), map[int]int{0: 0, 1: 1})

	c := circuit.FromGates([]circuit.Gate{{Type: circuit.CX, Qubits: []int{0, 1}, Index: 0}})
	schedule, swaps, _, err := r.route(c)
	require.NoError(t, err)

	assert.Equal(t, 0, swaps)
	require.Len(t, schedule, 1)
	assert.Equal(t, KindGate, schedule[0].Kind)
	assert.Equal(t, []string{"q0", "q1"}, schedule[0].Operands)
	require.NotNil(t, schedule[0].SourceIndex)
	assert.Equal(t, 0, *schedule[0].SourceIndex)
}

func TestRouter_PinnedLongRangeGate(t *testing.T) {
	// With logicals pinned to the line ends, a distance-2 gate costs one swap.
	g := lineGraph(t, []string{"cx", "t", "tdg"}, "q0", "q1", "q2")
	r := newRouter(g, NopTrace(), map[int]int{0: 0, 1: 1, 2: 2})

	c := circuit.FromGates([]circuit.Gate{{Type: circuit.CX, Qubits: []int{0, 2}, Index: 0}})
	schedule, swaps, final, err := r.route(c)
	require.NoError(t, err)

	assert.Equal(t, 1, swaps)
	require.Len(t, schedule, 2)
	assert.Equal(t, KindSwap, schedule[0].Kind)
	assert.Equal(t, []string{"q0", "q1"}, schedule[0].Operands)
	assert.Nil(t, schedule[0].SourceIndex)
	assert.Equal(t, KindGate, schedule[1].Kind)
	assert.Equal(t, []string{"q1", "q2"}, schedule[1].Operands)

	// The swap moved logical 0 onto q1 and logical 1 onto q0.
	assert.Equal(t, 1, final[0])
	assert.Equal(t, 0, final[1])
}

func TestRouter_SwapsThroughFreeNodes(t *testing.T) {
	g := lineGraph(t, []string{"cx", "t", "tdg"}, "q0", "q1", "q2", "q3")
	r := newRouter(g, NopTrace(), map[int]int{0: 0, 1: 3})

	c := circuit.FromGates([]circuit.Gate{{Type: circuit.CX, Qubits: []int{0, 1}, Index: 0}})
	schedule, swaps, final, err := r.route(c)
	require.NoError(t, err)

	assert.Equal(t, 2, swaps)
	assert.Equal(t, KindGate, schedule[len(schedule)-1].Kind)
	assert.Equal(t, 2, final[0], "logical 0 walked two hops towards its partner")
	assert.Equal(t, 3, final[1])
}

func TestRouter_SingleQubitRelocation(t *testing.T) {
	nodes := []arch.Node{
		{ID: "q0", Operations: []string{"cx"}, Weight: 1},
		{ID: "q1", Operations: []string{"cx", "t"}, Weight: 1},
	}
	m, err := arch.New("pair", false, nodes, []arch.Edge{arch.NormalizeEdge("q0", "q1", 1)})
	require.NoError(t, err)
	g := device.Full(m)

	r := newRouter(g, NopTrace(), map[int]int{0: 0})
	c := circuit.FromGates([]circuit.Gate{{Type: circuit.T, Qubits: []int{0}, Index: 0}})
	schedule, swaps, final, err := r.route(c)
	require.NoError(t, err)

	assert.Equal(t, 1, swaps, "logical 0 moves to the node that supports t")
	require.Len(t, schedule, 2)
	assert.Equal(t, KindSwap, schedule[0].Kind)
	assert.Equal(t, []string{"q1"}, schedule[1].Operands)
	assert.Equal(t, 1, final[0])
}

func TestRouter_UnsupportedOperationAnywhere(t *testing.T) {
	g := lineGraph(t, []string{"cx"}, "q0", "q1")
	r := newRouter(g, NopTrace(), map[int]int{0: 0})

	c := circuit.FromGates([]circuit.Gate{{Type: circuit.T, Qubits: []int{0}, Index: 0}})
	_, _, _, err := r.route(c)
	require.Error(t, err)
	f, ok := err.(*faults.Fault)
	require.True(t, ok)
	assert.Equal(t, faults.UnroutableCircuit, f.Kind)
}
