package solver

import (
	"context"
	"math"
	"sync"

	"github.com/vk/qmrc/internal/faults"
)

// sharedBest aggregates candidate placements from parallel branches. The
// comparison is explicit on (cost, lexical order), so the winner does not
// depend on worker arrival order.
type sharedBest struct {
	mu   sync.Mutex
	cost float64
	vec  []int
}

func (b *sharedBest) offer(cost float64, vec []int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.vec == nil || betterThan(cost, vec, b.cost, b.vec) {
		b.cost = cost
		b.vec = append([]int(nil), vec...)
	}
}

func (b *sharedBest) bound() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.vec == nil {
		return math.Inf(1)
	}
	return b.cost
}

// exactPlacement enumerates every assignment of logical qubits onto active
// nodes, pruned by a monotone partial cost. Branches on the first qubit run
// on a bounded worker pool. Circuits above the exhaustive search threshold,
// or searches cut short by the deadline, fail with a SearchExhausted fault.
func (p *placer) exactPlacement(ctx context.Context) ([]int, error) {
	n := len(p.logicals)
	if n > p.cfg.ExhaustiveSearchThreshold {
		return nil, faults.New(faults.SearchExhausted,
			"exact search over %d qubits exceeds the exhaustive search threshold of %d",
			n, p.cfg.ExhaustiveSearchThreshold)
	}
	if n == 0 {
		return []int{}, nil
	}

	// Pairs that close at position k, for incremental cost updates.
	closing := make([][]pairWeight, n)
	for _, pw := range p.pairs {
		closing[pw.j] = append(closing[pw.j], pw)
	}

	best := &sharedBest{}
	branches := p.g.ActiveNodes()
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := p.cfg.ParallelSearches
	if workers > len(branches) {
		workers = len(branches)
	}
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := &exactState{
				p:       p,
				closing: closing,
				best:    best,
				vec:     make([]int, n),
				used:    make([]bool, p.g.Model().NodeCount()),
			}
			for first := range jobs {
				s.vec[0] = first
				s.used[first] = true
				s.descend(ctx, 1, p.penalty[first], 0)
				s.used[first] = false
			}
		}()
	}
	for _, first := range branches {
		jobs <- first
	}
	close(jobs)
	wg.Wait()

	if ctx.Err() != nil {
		return nil, faults.New(faults.SearchExhausted,
			"exact search deadline expired before the assignment space was covered")
	}
	if best.vec == nil {
		return nil, nil
	}
	return best.vec, nil
}

type exactState struct {
	p       *placer
	closing [][]pairWeight
	best    *sharedBest
	vec     []int
	used    []bool
}

// descend extends the assignment at position k. sum carries the accumulated
// alpha-weighted distance plus calibration penalty; maxD the widest pair
// distance so far. Both only grow, so pruning against the shared bound is
// sound; the comparison is strict to keep equal-cost, lexically lower
// assignments alive.
func (s *exactState) descend(ctx context.Context, k int, sum float64, maxD int) {
	if ctx.Err() != nil {
		return
	}
	if k == len(s.vec) {
		s.best.offer(sum+s.p.cfg.Delta*float64(maxD), s.vec)
		return
	}
	for _, n := range s.p.g.ActiveNodes() {
		if s.used[n] {
			continue
		}
		extra := s.p.penalty[n]
		maxHere := maxD
		feasible := true
		for _, pw := range s.closing[k] {
			d := s.p.g.Distance(s.vec[pw.i], n)
			if d < 0 {
				feasible = false
				break
			}
			extra += s.p.cfg.Alpha * pw.w * float64(d)
			if d > maxHere {
				maxHere = d
			}
		}
		if !feasible {
			continue
		}
		partial := sum + extra + s.p.cfg.Delta*float64(maxHere)
		if partial > s.best.bound() {
			continue
		}
		s.vec[k] = n
		s.used[n] = true
		s.descend(ctx, k+1, sum+extra, maxHere)
		s.used[n] = false
	}
}
