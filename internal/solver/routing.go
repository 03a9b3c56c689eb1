package solver

import (
	"math"

	"github.com/vk/qmrc/internal/circuit"
	"github.com/vk/qmrc/internal/device"
	"github.com/vk/qmrc/internal/faults"
)

// router threads a circuit through the runtime graph, inserting swap
// primitives whenever a gate's operands are not where the gate needs them.
// pos maps logical qubits to physical node indices, occ the reverse.
type router struct {
	g     *device.Graph
	trace Trace
	pos   map[int]int
	occ   map[int]int

	schedule []ScheduledOp
	swaps    int
}

func newRouter(g *device.Graph, trace Trace, initial map[int]int) *router {
	r := &router{
		g:     g,
		trace: trace,
		pos:   make(map[int]int, len(initial)),
		occ:   make(map[int]int, len(initial)),
	}
	for l, p := range initial {
		r.pos[l] = p
		r.occ[p] = l
	}
	return r
}

// route processes the circuit in program order and returns the schedule, the
// number of inserted swaps, and the mapping the circuit ends in.
func (r *router) route(c *circuit.Circuit) ([]ScheduledOp, int, map[int]int, error) {
	for _, gate := range c.Gates {
		var err error
		if len(gate.Qubits) == 2 {
			err = r.routeTwoQubit(gate)
		} else {
			err = r.routeSingleQubit(gate)
		}
		if err != nil {
			return nil, 0, nil, err
		}
	}
	final := make(map[int]int, len(r.pos))
	for l, p := range r.pos {
		final[l] = p
	}
	return r.schedule, r.swaps, final, nil
}

func (r *router) routeTwoQubit(gate circuit.Gate) error {
	a, b := gate.Qubits[0], gate.Qubits[1]
	pa, pb := r.pos[a], r.pos[b]
	if r.g.Distance(pa, pb) < 0 {
		return faults.New(faults.UnroutableCircuit,
			"operation %d (%s q%d,q%d): operands mapped to disconnected regions",
			gate.Index, gate.Type, a, b)
	}
	// Walk the first operand along the lexicographically smallest shortest
	// path until the pair shares a coupling.
	for !r.g.Adjacent(pa, pb) {
		next := r.stepTowards(pa, pb)
		r.swap(gate.Index, pa, next)
		pa = next
	}
	if !r.g.Supports(pa, string(gate.Type)) || !r.g.Supports(pb, string(gate.Type)) {
		return faults.New(faults.UnroutableCircuit,
			"operation %d: nodes %s and %s do not both support %s",
			gate.Index, r.g.ID(pa), r.g.ID(pb), gate.Type)
	}
	r.emitGate(gate, pa, pb)
	return nil
}

func (r *router) routeSingleQubit(gate circuit.Gate) error {
	q := gate.Qubits[0]
	p := r.pos[q]
	if !r.g.Supports(p, string(gate.Type)) {
		target := r.nearestSupporting(p, string(gate.Type))
		if target < 0 {
			return faults.New(faults.UnroutableCircuit,
				"operation %d: no reachable node supports %s", gate.Index, gate.Type)
		}
		for p != target {
			next := r.stepTowards(p, target)
			r.swap(gate.Index, p, next)
			p = next
		}
	}
	r.emitGate(gate, p)
	return nil
}

// stepTowards picks the next hop from cur on a shortest path to target: the
// lowest-index neighbor that strictly closes the distance.
func (r *router) stepTowards(cur, target int) int {
	d := r.g.Distance(cur, target)
	for _, n := range r.g.Neighbors(cur) {
		if r.g.Distance(n, target) == d-1 {
			return n
		}
	}
	// Unreachable given the distance precondition checked by callers.
	panic("solver: no descending neighbor on shortest path")
}

// nearestSupporting finds the reachable node supporting op closest to from,
// ties resolved to the lowest node index.
func (r *router) nearestSupporting(from int, op string) int {
	best := -1
	bestD := math.MaxInt
	for _, n := range r.g.ActiveNodes() {
		if !r.g.Supports(n, op) {
			continue
		}
		d := r.g.Distance(from, n)
		if d < 0 {
			continue
		}
		if d < bestD {
			best, bestD = n, d
		}
	}
	return best
}

// swap exchanges the occupants of two coupled nodes and records the
// primitive in the schedule.
func (r *router) swap(sourceIndex, x, y int) {
	lx, okx := r.occ[x]
	ly, oky := r.occ[y]
	if okx {
		r.pos[lx] = y
		r.occ[y] = lx
	} else {
		delete(r.occ, y)
	}
	if oky {
		r.pos[ly] = x
		r.occ[x] = ly
	} else {
		delete(r.occ, x)
	}
	r.schedule = append(r.schedule, ScheduledOp{
		Kind:     KindSwap,
		Operands: []string{r.g.ID(x), r.g.ID(y)},
	})
	r.swaps++
	r.trace.SwapChain(sourceIndex, []string{r.g.ID(x), r.g.ID(y)})
}

func (r *router) emitGate(gate circuit.Gate, phys ...int) {
	ops := make([]string, len(phys))
	for i, p := range phys {
		ops[i] = r.g.ID(p)
	}
	idx := gate.Index
	r.schedule = append(r.schedule, ScheduledOp{
		Kind:        KindGate,
		Operands:    ops,
		SourceIndex: &idx,
	})
	r.trace.Event("operation scheduled", "type", string(gate.Type), "operands", ops)
}
