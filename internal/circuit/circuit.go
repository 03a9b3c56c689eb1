// Package circuit models the logical input circuit: an ordered sequence of
// gate operations over abstract logical qubits. Instances are per-invocation
// and discarded after a solve.
package circuit

import "sort"

// GateType is the operation token of a gate, matching the native operation
// tokens an architecture may declare.
type GateType string

const (
	CX  GateType = "cx"
	T   GateType = "t"
	Tdg GateType = "tdg"
)

// Gate is one logical operation with its program-order index.
type Gate struct {
	Type   GateType
	Qubits []int // 1 or 2 logical qubit ids
	Index  int
}

// Circuit is an ordered gate sequence plus the set of logical qubits it uses.
type Circuit struct {
	Gates  []Gate
	Qubits []int // sorted, distinct
}

// FromGates builds a Circuit, collecting and sorting the logical qubit set.
func FromGates(gates []Gate) *Circuit {
	seen := make(map[int]struct{})
	for _, g := range gates {
		for _, q := range g.Qubits {
			seen[q] = struct{}{}
		}
	}
	qubits := make([]int, 0, len(seen))
	for q := range seen {
		qubits = append(qubits, q)
	}
	sort.Ints(qubits)
	return &Circuit{Gates: gates, Qubits: qubits}
}

// QubitCount returns the number of distinct logical qubits.
func (c *Circuit) QubitCount() int { return len(c.Qubits) }

// FrontLayer returns the gates with no unfinished predecessor on any of
// their qubits, in program order.
func (c *Circuit) FrontLayer() []Gate {
	blocked := make(map[int]struct{})
	var front []Gate
	for _, g := range c.Gates {
		free := true
		for _, q := range g.Qubits {
			if _, b := blocked[q]; b {
				free = false
			}
		}
		if free {
			front = append(front, g)
		}
		for _, q := range g.Qubits {
			blocked[q] = struct{}{}
		}
	}
	return front
}

// Reversed returns a copy with the gate order inverted. Used by the
// forward/backward refinement passes of the sabre mode.
func (c *Circuit) Reversed() *Circuit {
	gates := make([]Gate, len(c.Gates))
	for i, g := range c.Gates {
		gates[len(c.Gates)-1-i] = g
	}
	return FromGates(gates)
}

// PairKey normalizes a logical qubit pair for map keys.
func PairKey(a, b int) [2]int {
	if b < a {
		a, b = b, a
	}
	return [2]int{a, b}
}

// InteractionWeights returns, per unordered logical pair, the co-occurrence
// count of two-qubit gates acting on that pair.
func (c *Circuit) InteractionWeights() map[[2]int]float64 {
	w := make(map[[2]int]float64)
	for _, g := range c.Gates {
		if len(g.Qubits) == 2 {
			w[PairKey(g.Qubits[0], g.Qubits[1])]++
		}
	}
	return w
}

// Criticality returns the dependency depth of every gate: 1 plus the maximum
// depth among earlier gates sharing a qubit. Shallower gates are more urgent
// to keep cheap during placement.
func (c *Circuit) Criticality() map[int]int {
	qubitDepth := make(map[int]int)
	depth := make(map[int]int, len(c.Gates))
	for _, g := range c.Gates {
		d := 0
		for _, q := range g.Qubits {
			if qd := qubitDepth[q]; qd > d {
				d = qd
			}
		}
		depth[g.Index] = d + 1
		for _, q := range g.Qubits {
			qubitDepth[q] = d + 1
		}
	}
	return depth
}
