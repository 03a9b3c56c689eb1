package solver

import (
	"sort"
	"strings"

	"github.com/vk/qmrc/internal/faults"
)

// Mode selects the search strategy. It changes how placement and refinement
// search, never the data model or the adjacency invariant.
type Mode string

const (
	// ModeExact explores the constrained placement search exhaustively.
	ModeExact Mode = "exact"
	// ModeHeuristic uses greedy construction plus bounded local search.
	ModeHeuristic Mode = "heuristic"
	// ModeSabre refines a heuristic placement with deterministic
	// forward/backward routing passes.
	ModeSabre Mode = "sabre"
)

// modes is the registry of recognized mode tokens.
var modes = map[Mode]struct{}{
	ModeExact:     {},
	ModeHeuristic: {},
	ModeSabre:     {},
}

// ParseMode resolves a mode token, case-insensitively.
func ParseMode(token string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(token)))
	if _, ok := modes[m]; !ok {
		return "", faults.New(faults.UnknownSolveMode,
			"unknown solve mode %q (known: %s)", token, strings.Join(ModeNames(), ", "))
	}
	return m, nil
}

// ModeNames lists the registered mode tokens in sorted order.
func ModeNames() []string {
	names := make([]string, 0, len(modes))
	for m := range modes {
		names = append(names, string(m))
	}
	sort.Strings(names)
	return names
}
