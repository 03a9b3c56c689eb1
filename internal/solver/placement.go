package solver

import (
	"context"
	"math"
	"sort"

	"github.com/vk/qmrc/internal/circuit"
	"github.com/vk/qmrc/internal/device"
	"github.com/vk/qmrc/internal/tuning"
)

// placer carries the data shared by every placement strategy: the runtime
// graph, the sorted logical qubit list, and the interaction weights of the
// circuit. A placement is a vector vec where vec[i] is the physical node
// index assigned to the i-th logical qubit.
type placer struct {
	g        *device.Graph
	cfg      tuning.Config
	logicals []int
	pairs    []pairWeight // sorted by (i, j) position
	penalty  []float64    // per model node index: beta * (1 - calibration weight)
	groups   [][]int      // interaction groups, positions into logicals
}

// pairWeight is the placement weight of one interacting logical pair,
// co-occurrence count decayed by gate criticality.
type pairWeight struct {
	i, j int // positions into placer.logicals, i < j
	w    float64
}

func newPlacer(g *device.Graph, cfg tuning.Config, c *circuit.Circuit) *placer {
	p := &placer{g: g, cfg: cfg, logicals: c.Qubits}

	pos := make(map[int]int, len(c.Qubits))
	for i, q := range c.Qubits {
		pos[q] = i
	}

	depth := c.Criticality()
	acc := make(map[[2]int]float64)
	parent := make([]int, len(c.Qubits))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for _, gate := range c.Gates {
		if len(gate.Qubits) != 2 {
			continue
		}
		i, j := pos[gate.Qubits[0]], pos[gate.Qubits[1]]
		if j < i {
			i, j = j, i
		}
		acc[[2]int{i, j}] += 1 + cfg.Gamma/float64(depth[gate.Index])
		parent[find(i)] = find(j)
	}
	for key, w := range acc {
		p.pairs = append(p.pairs, pairWeight{i: key[0], j: key[1], w: w})
	}
	sort.Slice(p.pairs, func(a, b int) bool {
		if p.pairs[a].i != p.pairs[b].i {
			return p.pairs[a].i < p.pairs[b].i
		}
		return p.pairs[a].j < p.pairs[b].j
	})

	byRoot := make(map[int][]int)
	for i := range c.Qubits {
		r := find(i)
		byRoot[r] = append(byRoot[r], i)
	}
	var roots []int
	for r := range byRoot {
		roots = append(roots, r)
	}
	sort.Ints(roots)
	for _, r := range roots {
		p.groups = append(p.groups, byRoot[r])
	}
	// Larger groups claim components first; ties by first member.
	sort.SliceStable(p.groups, func(a, b int) bool {
		if len(p.groups[a]) != len(p.groups[b]) {
			return len(p.groups[a]) > len(p.groups[b])
		}
		return p.groups[a][0] < p.groups[b][0]
	})

	nodes := g.Model().Nodes()
	p.penalty = make([]float64, len(nodes))
	for i, n := range nodes {
		p.penalty[i] = cfg.Beta * (1 - n.Weight)
	}
	return p
}

// cost evaluates a complete placement. Pairs are visited in a fixed order so
// the floating-point sum is reproducible. Returns +Inf when an interacting
// pair is unreachable.
func (p *placer) cost(vec []int) float64 {
	sum := 0.0
	maxD := 0
	for _, pw := range p.pairs {
		d := p.g.Distance(vec[pw.i], vec[pw.j])
		if d < 0 {
			return math.Inf(1)
		}
		sum += pw.w * float64(d)
		if d > maxD {
			maxD = d
		}
	}
	pen := 0.0
	for _, n := range vec {
		pen += p.penalty[n]
	}
	return p.cfg.Alpha*sum + pen + p.cfg.Delta*float64(maxD)
}

// lexLess orders placement vectors for deterministic tie-breaking.
func lexLess(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// betterThan reports whether candidate (cost ca, vector a) beats (cb, b):
// lower cost first, then lexically lower assignment.
func betterThan(ca float64, a []int, cb float64, b []int) bool {
	if ca != cb {
		return ca < cb
	}
	return lexLess(a, b)
}

// heuristicPlacement builds a placement greedily and improves it with a
// bounded, deterministic local search. On deadline expiry it returns the
// best vector found so far.
func (p *placer) heuristicPlacement(ctx context.Context) []int {
	vec := p.greedy()
	if vec == nil {
		return nil
	}

	for pass := 0; pass < p.cfg.LocalSearchPasses; pass++ {
		if ctx.Err() != nil {
			break
		}
		cur := p.cost(vec)
		bestVec := vec
		bestCost := cur
		improved := false

		// Pairwise exchanges of two placed qubits.
		for i := 0; i < len(vec); i++ {
			for j := i + 1; j < len(vec); j++ {
				cand := append([]int(nil), vec...)
				cand[i], cand[j] = cand[j], cand[i]
				if c := p.cost(cand); betterThan(c, cand, bestCost, bestVec) {
					bestVec, bestCost, improved = cand, c, true
				}
			}
		}
		// Relocations onto free nodes.
		used := make(map[int]bool, len(vec))
		for _, n := range vec {
			used[n] = true
		}
		for i := 0; i < len(vec); i++ {
			for _, n := range p.g.ActiveNodes() {
				if used[n] {
					continue
				}
				cand := append([]int(nil), vec...)
				cand[i] = n
				if c := p.cost(cand); betterThan(c, cand, bestCost, bestVec) {
					bestVec, bestCost, improved = cand, c, true
				}
			}
		}

		if !improved {
			break
		}
		vec = bestVec
	}
	return vec
}

// greedy assigns interaction groups to connectivity components best-fit, then
// places each group's qubits by descending interaction weight, each onto the
// free node minimizing the partial cost. Entirely deterministic: every
// candidate scan runs in sorted node order.
func (p *placer) greedy() []int {
	comps := p.components()
	free := make([]map[int]bool, len(comps))
	capacity := make([]int, len(comps))
	for ci, comp := range comps {
		free[ci] = make(map[int]bool, len(comp))
		for _, n := range comp {
			free[ci][n] = true
		}
		capacity[ci] = len(comp)
	}

	totalW := make([]float64, len(p.logicals))
	partners := make([][]pairWeight, len(p.logicals))
	for _, pw := range p.pairs {
		totalW[pw.i] += pw.w
		totalW[pw.j] += pw.w
		partners[pw.i] = append(partners[pw.i], pw)
		partners[pw.j] = append(partners[pw.j], pw)
	}

	vec := make([]int, len(p.logicals))
	for i := range vec {
		vec[i] = -1
	}

	for _, group := range p.groups {
		ci := bestFitComponent(capacity, len(group))
		if ci < 0 {
			return nil
		}
		capacity[ci] -= len(group)

		order := append([]int(nil), group...)
		sort.SliceStable(order, func(a, b int) bool {
			if totalW[order[a]] != totalW[order[b]] {
				return totalW[order[a]] > totalW[order[b]]
			}
			return order[a] < order[b]
		})

		for _, li := range order {
			best := -1
			bestScore := math.Inf(1)
			for _, n := range comps[ci] {
				if !free[ci][n] {
					continue
				}
				score := p.penalty[n]
				anchored := false
				for _, pw := range partners[li] {
					other := pw.i
					if other == li {
						other = pw.j
					}
					if vec[other] < 0 {
						continue
					}
					d := p.g.Distance(n, vec[other])
					if d < 0 {
						score = math.Inf(1)
						break
					}
					score += pw.w * float64(d)
					anchored = true
				}
				if !anchored {
					// Nothing placed to pull towards: prefer central nodes.
					for _, m := range comps[ci] {
						score += float64(p.g.Distance(n, m))
					}
				}
				if score < bestScore {
					best, bestScore = n, score
				}
			}
			if best < 0 {
				return nil
			}
			vec[li] = best
			free[ci][best] = false
		}
	}
	return vec
}

// bestFitComponent picks the smallest component that still fits the group;
// ties resolve to the lower component index (which is ordered by first node).
func bestFitComponent(capacity []int, need int) int {
	best := -1
	for ci, room := range capacity {
		if room < need {
			continue
		}
		if best == -1 || room < capacity[best] {
			best = ci
		}
	}
	return best
}

// components partitions the active nodes of the runtime graph, each
// component sorted, components ordered by first node.
func (p *placer) components() [][]int {
	var comps [][]int
	claimed := make(map[int]bool)
	for _, n := range p.g.ActiveNodes() {
		if claimed[n] {
			continue
		}
		var comp []int
		for _, m := range p.g.ActiveNodes() {
			if p.g.Distance(n, m) >= 0 {
				claimed[m] = true
				comp = append(comp, m)
			}
		}
		comps = append(comps, comp)
	}
	return comps
}
