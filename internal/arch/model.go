// Package arch holds the Architecture Model: the validated connectivity
// graph of a quantum device plus its global constraints. A Model is built
// once, either by the specification loader or when an artifact is opened,
// and is read-only afterwards. All derived data (node indices, adjacency,
// all-pairs distances, component partition) is computed at construction
// and scoped to the instance, so independent solver invocations can share
// one Model without synchronization.
package arch

import (
	"fmt"
	"sort"
)

// KnownOperations is the set of native operation tokens a specification may
// declare on a qubit.
var KnownOperations = map[string]struct{}{
	"cx":  {},
	"t":   {},
	"tdg": {},
	"h":   {},
	"x":   {},
	"z":   {},
	"s":   {},
	"sdg": {},
}

// Node is one physical qubit of the device.
type Node struct {
	ID         string
	Operations []string // sorted, lower-case tokens
	Weight     float64  // calibration weight, 1.0 when unspecified
}

// Edge is one undirected coupling between two physical qubits. A is always
// the lexically smaller endpoint.
type Edge struct {
	A      string
	B      string
	Weight float64
}

// Model is the immutable architecture bound into a solver artifact.
type Model struct {
	name           string
	multiComponent bool

	nodes []Node         // sorted by ID
	index map[string]int // ID -> position in nodes

	edges      []Edge
	adj        [][]int // sorted neighbor indices per node
	edgeWeight map[[2]int]float64

	dist       [][]int    // all-pairs hop distances, -1 when unreachable
	components [][]string // partition of node IDs by connected component
}

// NormalizeEdge orders an endpoint pair so the lexically smaller ID comes first.
func NormalizeEdge(a, b string, weight float64) Edge {
	if b < a {
		a, b = b, a
	}
	return Edge{A: a, B: b, Weight: weight}
}

// New validates nodes and edges and builds a Model. The returned errors are
// structural (duplicate id, unknown reference, self-loop, duplicate edge,
// disconnection); the specification loader decorates them with source
// locations before they reach a user.
func New(name string, multiComponent bool, nodes []Node, edges []Edge) (*Model, error) {
	m := &Model{
		name:           name,
		multiComponent: multiComponent,
		index:          make(map[string]int, len(nodes)),
		edgeWeight:     make(map[[2]int]float64, len(edges)),
	}

	if len(nodes) == 0 {
		return nil, fmt.Errorf("architecture %q declares no qubits", name)
	}

	m.nodes = make([]Node, len(nodes))
	copy(m.nodes, nodes)
	sort.Slice(m.nodes, func(i, j int) bool { return m.nodes[i].ID < m.nodes[j].ID })
	for i, n := range m.nodes {
		if _, dup := m.index[n.ID]; dup {
			return nil, fmt.Errorf("duplicate qubit id %q", n.ID)
		}
		m.index[n.ID] = i
	}

	m.adj = make([][]int, len(m.nodes))
	for _, e := range edges {
		e = NormalizeEdge(e.A, e.B, e.Weight)
		if e.A == e.B {
			return nil, fmt.Errorf("self-loop coupling on qubit %q", e.A)
		}
		ia, ok := m.index[e.A]
		if !ok {
			return nil, fmt.Errorf("coupling references unknown qubit %q", e.A)
		}
		ib, ok := m.index[e.B]
		if !ok {
			return nil, fmt.Errorf("coupling references unknown qubit %q", e.B)
		}
		key := [2]int{ia, ib}
		if _, dup := m.edgeWeight[key]; dup {
			return nil, fmt.Errorf("duplicate coupling between %q and %q", e.A, e.B)
		}
		m.edgeWeight[key] = e.Weight
		m.edges = append(m.edges, e)
		m.adj[ia] = append(m.adj[ia], ib)
		m.adj[ib] = append(m.adj[ib], ia)
	}
	sort.Slice(m.edges, func(i, j int) bool {
		if m.edges[i].A != m.edges[j].A {
			return m.edges[i].A < m.edges[j].A
		}
		return m.edges[i].B < m.edges[j].B
	})
	for i := range m.adj {
		sort.Ints(m.adj[i])
	}

	m.computeDistances()
	m.computeComponents()
	if len(m.components) > 1 && !m.multiComponent {
		return nil, fmt.Errorf("connectivity graph is disconnected (%d components) and not marked multi_component", len(m.components))
	}

	return m, nil
}

// computeDistances runs a BFS from every node. Neighbor lists are sorted, so
// the traversal order, and with it every derived tie-break, is deterministic.
func (m *Model) computeDistances() {
	n := len(m.nodes)
	m.dist = make([][]int, n)
	for s := 0; s < n; s++ {
		row := make([]int, n)
		for i := range row {
			row[i] = -1
		}
		row[s] = 0
		queue := []int{s}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, v := range m.adj[u] {
				if row[v] == -1 {
					row[v] = row[u] + 1
					queue = append(queue, v)
				}
			}
		}
		m.dist[s] = row
	}
}

// computeComponents records the connected-component partition, each component
// listed in node order and components ordered by their first node.
func (m *Model) computeComponents() {
	seen := make([]bool, len(m.nodes))
	for i := range m.nodes {
		if seen[i] {
			continue
		}
		var comp []string
		for j := range m.nodes {
			if m.dist[i][j] >= 0 {
				seen[j] = true
				comp = append(comp, m.nodes[j].ID)
			}
		}
		m.components = append(m.components, comp)
	}
}

// Name returns the architecture name from the specification.
func (m *Model) Name() string { return m.name }

// MultiComponent reports whether the specification allowed a disconnected graph.
func (m *Model) MultiComponent() bool { return m.multiComponent }

// Components returns the recorded component partition.
func (m *Model) Components() [][]string { return m.components }

// NodeCount returns the number of physical qubits.
func (m *Model) NodeCount() int { return len(m.nodes) }

// Nodes returns the node table in stable (sorted-by-ID) order.
func (m *Model) Nodes() []Node { return m.nodes }

// Edges returns the normalized, sorted edge list.
func (m *Model) Edges() []Edge { return m.edges }

// Index resolves a node ID to its stable index.
func (m *Model) Index(id string) (int, bool) {
	i, ok := m.index[id]
	return i, ok
}

// ID returns the node ID at a stable index.
func (m *Model) ID(i int) string { return m.nodes[i].ID }

// Neighbors returns the sorted neighbor indices of a node.
func (m *Model) Neighbors(i int) []int { return m.adj[i] }

// Adjacent reports whether two nodes share a coupling.
func (m *Model) Adjacent(i, j int) bool {
	if j < i {
		i, j = j, i
	}
	_, ok := m.edgeWeight[[2]int{i, j}]
	return ok
}

// EdgeWeight returns the coupling weight between two adjacent nodes.
func (m *Model) EdgeWeight(i, j int) (float64, bool) {
	if j < i {
		i, j = j, i
	}
	w, ok := m.edgeWeight[[2]int{i, j}]
	return w, ok
}

// Distance returns the hop distance between two nodes, or -1 when they are
// in different components.
func (m *Model) Distance(i, j int) int { return m.dist[i][j] }

// Supports reports whether the node at index i natively implements op.
func (m *Model) Supports(i int, op string) bool {
	for _, o := range m.nodes[i].Operations {
		if o == op {
			return true
		}
	}
	return false
}
