// Package device builds the per-invocation runtime connectivity graph: the
// active subset of an architecture a circuit will actually run on. A runtime
// graph must be a subgraph of the embedded Architecture Model; anything else
// is a ConfigurationMismatch.
package device

import (
	"encoding/json"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/vk/qmrc/internal/arch"
	"github.com/vk/qmrc/internal/faults"
)

// Graph is a validated runtime connectivity instance over a bound model.
// Node identity is the model's stable index space; inactive nodes simply
// never appear.
type Graph struct {
	model  *arch.Model
	active []int  // sorted model indices
	isOn   []bool // len == model.NodeCount()
	adj    [][]int
	dist   [][]int
}

// Full returns the runtime graph equal to the whole embedded model.
func Full(m *arch.Model) *Graph {
	var pairs [][2]string
	for _, e := range m.Edges() {
		pairs = append(pairs, [2]string{e.A, e.B})
	}
	g, err := FromEdges(m, pairs)
	if err != nil {
		// The model's own edge list is a subgraph of itself.
		panic(err)
	}
	return g
}

// FromEdgeFile reads a JSON edge-list file ([[0,1],[1,2]] or
// [["q0","q1"],...]) and validates it against the model.
func FromEdgeFile(m *arch.Model, path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading runtime graph %s", path)
	}
	var raw [][]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "decoding runtime graph %s", path)
	}
	pairs := make([][2]string, 0, len(raw))
	for i, entry := range raw {
		if len(entry) != 2 {
			return nil, faults.New(faults.ConfigurationMismatch,
				"runtime graph edge %d must have exactly 2 endpoints, got %d", i, len(entry))
		}
		var pair [2]string
		for j, v := range entry {
			id, err := endpointID(v)
			if err != nil {
				return nil, faults.New(faults.ConfigurationMismatch,
					"runtime graph edge %d endpoint %d: %v", i, j, err)
			}
			pair[j] = id
		}
		pairs = append(pairs, pair)
	}
	return FromEdges(m, pairs)
}

// endpointID canonicalizes a JSON endpoint (number or string) to a node ID.
func endpointID(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		if t != float64(int64(t)) || t < 0 {
			return "", errors.Errorf("%v is not a non-negative integer", t)
		}
		return strconv.FormatInt(int64(t), 10), nil
	default:
		return "", errors.Errorf("unsupported endpoint type %T", v)
	}
}

// FromEdges validates an edge list against the model and builds the runtime
// graph. Duplicate edges in the input are tolerated and collapsed.
func FromEdges(m *arch.Model, pairs [][2]string) (*Graph, error) {
	g := &Graph{
		model: m,
		isOn:  make([]bool, m.NodeCount()),
		adj:   make([][]int, m.NodeCount()),
	}
	seen := make(map[[2]int]struct{})
	for _, p := range pairs {
		ia, ok := m.Index(p[0])
		if !ok {
			return nil, faults.New(faults.ConfigurationMismatch,
				"runtime graph references qubit %q absent from architecture %q", p[0], m.Name())
		}
		ib, ok := m.Index(p[1])
		if !ok {
			return nil, faults.New(faults.ConfigurationMismatch,
				"runtime graph references qubit %q absent from architecture %q", p[1], m.Name())
		}
		if !m.Adjacent(ia, ib) {
			return nil, faults.New(faults.ConfigurationMismatch,
				"runtime graph edge (%s,%s) is not a coupling of architecture %q", p[0], p[1], m.Name())
		}
		key := [2]int{min(ia, ib), max(ia, ib)}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		g.isOn[ia], g.isOn[ib] = true, true
		g.adj[ia] = append(g.adj[ia], ib)
		g.adj[ib] = append(g.adj[ib], ia)
	}
	if len(seen) == 0 {
		return nil, faults.New(faults.ConfigurationMismatch, "runtime graph has no edges")
	}
	for i := range g.adj {
		sort.Ints(g.adj[i])
	}
	for i, on := range g.isOn {
		if on {
			g.active = append(g.active, i)
		}
	}
	g.computeDistances()
	return g, nil
}

// computeDistances runs BFS from every active node over active edges only.
func (g *Graph) computeDistances() {
	n := g.model.NodeCount()
	g.dist = make([][]int, n)
	for _, s := range g.active {
		row := make([]int, n)
		for i := range row {
			row[i] = -1
		}
		row[s] = 0
		queue := []int{s}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, v := range g.adj[u] {
				if row[v] == -1 {
					row[v] = row[u] + 1
					queue = append(queue, v)
				}
			}
		}
		g.dist[s] = row
	}
}

// Model returns the architecture this runtime graph was validated against.
func (g *Graph) Model() *arch.Model { return g.model }

// ActiveNodes returns the sorted model indices present at runtime.
func (g *Graph) ActiveNodes() []int { return g.active }

// NodeCount returns the number of active physical nodes.
func (g *Graph) NodeCount() int { return len(g.active) }

// Neighbors returns the sorted active neighbors of an active node.
func (g *Graph) Neighbors(i int) []int { return g.adj[i] }

// Adjacent reports runtime adjacency.
func (g *Graph) Adjacent(i, j int) bool {
	for _, v := range g.adj[i] {
		if v == j {
			return true
		}
	}
	return false
}

// Distance returns the runtime hop distance, or -1 when unreachable (which
// includes inactive endpoints).
func (g *Graph) Distance(i, j int) int {
	if g.dist[i] == nil {
		return -1
	}
	return g.dist[i][j]
}

// EdgeWeight returns the model's coupling weight for an active edge.
func (g *Graph) EdgeWeight(i, j int) float64 {
	w, _ := g.model.EdgeWeight(i, j)
	return w
}

// Supports reports whether the node natively implements op.
func (g *Graph) Supports(i int, op string) bool { return g.model.Supports(i, op) }

// ID resolves a model index to its node ID.
func (g *Graph) ID(i int) string { return g.model.ID(i) }
