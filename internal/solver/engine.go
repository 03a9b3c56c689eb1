package solver

import (
	"context"

	"github.com/vk/qmrc/internal/circuit"
	"github.com/vk/qmrc/internal/device"
	"github.com/vk/qmrc/internal/faults"
	"github.com/vk/qmrc/internal/tuning"
)

// Engine solves the mapping and routing problem for one runtime graph. It is
// safe to reuse across circuits; every Solve call is independent.
type Engine struct {
	graph *device.Graph
	cfg   tuning.Config
	trace Trace
}

func New(graph *device.Graph, cfg tuning.Config) *Engine {
	return &Engine{graph: graph, cfg: cfg, trace: NopTrace()}
}

// WithTrace routes search milestones into t. Tracing never influences the
// solution.
func (e *Engine) WithTrace(t Trace) *Engine {
	e.trace = t
	return e
}

// Solve places the circuit's logical qubits onto the runtime graph and
// routes every operation, returning the mapping, schedule and cost summary.
// The context deadline bounds the search: heuristic and sabre searches
// return their best result so far, the exact search fails with a
// SearchExhausted fault.
func (e *Engine) Solve(ctx context.Context, c *circuit.Circuit, mode Mode) (*Result, error) {
	if _, ok := modes[mode]; !ok {
		return nil, faults.New(faults.UnknownSolveMode, "unknown solve mode %q", mode)
	}
	if c.QubitCount() > e.graph.NodeCount() {
		return nil, faults.New(faults.CapacityExceeded,
			"circuit uses %d logical qubits but the runtime graph has %d active nodes",
			c.QubitCount(), e.graph.NodeCount())
	}
	if idx, bad := e.unroutableAt(c); bad {
		return nil, faults.New(faults.UnroutableCircuit,
			"operation %d entangles more qubits than any connected region can hold", idx)
	}

	p := newPlacer(e.graph, e.cfg, c)
	var vec []int
	var err error
	switch mode {
	case ModeExact:
		vec, err = p.exactPlacement(ctx)
	default:
		vec = p.heuristicPlacement(ctx)
	}
	if err != nil {
		return nil, err
	}
	if vec == nil {
		return nil, faults.New(faults.UnroutableCircuit,
			"no placement connects every interacting qubit group")
	}

	initial := make(map[int]int, len(p.logicals))
	for i, l := range p.logicals {
		initial[l] = vec[i]
	}
	e.trace.Placement(mode, e.mapping(c, initial), p.cost(vec))

	if mode == ModeSabre {
		if initial, err = e.refine(ctx, c, initial); err != nil {
			return nil, err
		}
	}

	schedule, swaps, _, err := newRouter(e.graph, e.trace, initial).route(c)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		schedule = []ScheduledOp{}
	}
	return &Result{
		Mapping:  e.mapping(c, initial),
		Schedule: schedule,
		Cost:     Cost{ScheduleLength: len(schedule), InsertedPrimitives: swaps},
	}, nil
}

// refine runs forward/backward routing passes over the circuit, feeding the
// mapping each pass ends in back as the next initial mapping. The backward
// pass pulls the placement towards where the late gates need it.
func (e *Engine) refine(ctx context.Context, c *circuit.Circuit, initial map[int]int) (map[int]int, error) {
	rev := c.Reversed()
	for i := 0; i < e.cfg.SabreIterations; i++ {
		if ctx.Err() != nil {
			break
		}
		_, _, after, err := newRouter(e.graph, NopTrace(), initial).route(c)
		if err != nil {
			return nil, err
		}
		_, _, back, err := newRouter(e.graph, NopTrace(), after).route(rev)
		if err != nil {
			return nil, err
		}
		initial = back
		e.trace.Event("refinement pass complete", "pass", i+1)
	}
	return initial, nil
}

// mapping renders an initial mapping in canonical order, lowest logical
// qubit first.
func (e *Engine) mapping(c *circuit.Circuit, initial map[int]int) []MappingEntry {
	entries := make([]MappingEntry, 0, len(c.Qubits))
	for _, q := range c.Qubits {
		entries = append(entries, MappingEntry{Logical: q, Physical: e.graph.ID(initial[q])})
	}
	return entries
}

// unroutableAt reports the program index of the first operation that forces
// an interacting qubit group past the size of the largest connected region.
func (e *Engine) unroutableAt(c *circuit.Circuit) (int, bool) {
	maxRegion := 0
	claimed := make(map[int]bool)
	for _, n := range e.graph.ActiveNodes() {
		if claimed[n] {
			continue
		}
		size := 0
		for _, m := range e.graph.ActiveNodes() {
			if e.graph.Distance(n, m) >= 0 {
				claimed[m] = true
				size++
			}
		}
		if size > maxRegion {
			maxRegion = size
		}
	}

	parent := make(map[int]int, len(c.Qubits))
	size := make(map[int]int, len(c.Qubits))
	for _, q := range c.Qubits {
		parent[q] = q
		size[q] = 1
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for _, g := range c.Gates {
		if len(g.Qubits) != 2 {
			continue
		}
		a, b := find(g.Qubits[0]), find(g.Qubits[1])
		if a == b {
			continue
		}
		parent[a] = b
		size[b] += size[a]
		if size[b] > maxRegion {
			return g.Index, true
		}
	}
	return 0, false
}
