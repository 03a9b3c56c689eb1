// Package hclspec implements the specification loader: HCL text in,
// validated arch.Model out. Loading is purely functional; every rejection
// is a faults.ParseError naming the violated constraint and its source
// location.
package hclspec

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/qmrc/internal/arch"
	"github.com/vk/qmrc/internal/ctxlog"
	"github.com/vk/qmrc/internal/faults"
	"github.com/vk/qmrc/internal/schema"
)

// Loader parses architecture specification files.
type Loader struct{}

// NewLoader creates a new specification loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile reads and parses a specification file into an Architecture Model.
func (l *Loader) LoadFile(ctx context.Context, path string) (*arch.Model, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading specification %s", path)
	}
	return l.Parse(ctx, path, src)
}

// Parse builds a validated Architecture Model from specification text.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) (*arch.Model, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagFault(diags)
	}

	content, diags := file.Body.Content(schema.RootSchema)
	if diags.HasErrors() {
		return nil, diagFault(diags)
	}
	if len(content.Blocks) != 1 {
		return nil, faults.NewAt(faults.ParseError, filename,
			"specification must contain exactly one architecture block, found %d", len(content.Blocks))
	}
	block := content.Blocks[0]
	name := block.Labels[0]
	logger.Debug("Parsing architecture specification.", "name", name, "file", filename)

	body, diags := block.Body.Content(schema.ArchitectureSchema)
	if diags.HasErrors() {
		return nil, diagFault(diags)
	}

	multiComponent := false
	if attr, ok := body.Attributes["multi_component"]; ok {
		val, valDiags := attr.Expr.Value(nil)
		if valDiags.HasErrors() {
			return nil, diagFault(valDiags)
		}
		if val.Type() != cty.Bool {
			return nil, faults.NewAt(faults.ParseError, rangeStr(attr.Range),
				"multi_component must be a boolean")
		}
		multiComponent = val.True()
	}

	var nodes []arch.Node
	var edges []arch.Edge
	seenNodes := make(map[string]hcl.Range)
	seenEdges := make(map[[2]string]struct{})

	// Qubits first so couplings may reference declarations in any file order.
	for _, b := range body.Blocks {
		if b.Type != "qubit" {
			continue
		}
		n, err := decodeQubit(b, seenNodes)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	for _, b := range body.Blocks {
		if b.Type != "coupling" {
			continue
		}
		e, err := decodeCoupling(b, seenNodes, seenEdges)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}

	model, err := arch.New(name, multiComponent, nodes, edges)
	if err != nil {
		// Structural errors arch.New can still detect at this point, such as
		// a disconnected graph, have no single block to blame.
		return nil, faults.NewAt(faults.ParseError, filename, "%s", err.Error())
	}
	logger.Debug("Specification loaded.",
		"qubits", model.NodeCount(), "couplings", len(model.Edges()), "components", len(model.Components()))
	return model, nil
}

func decodeQubit(b *hcl.Block, seen map[string]hcl.Range) (arch.Node, error) {
	id := b.Labels[0]
	if prev, dup := seen[id]; dup {
		return arch.Node{}, faults.NewAt(faults.ParseError, rangeStr(b.DefRange),
			"duplicate qubit id %q (first declared at %s)", id, rangeStr(prev))
	}
	seen[id] = b.DefRange

	var qb schema.QubitBody
	if diags := gohcl.DecodeBody(b.Body, nil, &qb); diags.HasErrors() {
		return arch.Node{}, diagFault(diags)
	}
	for _, op := range qb.Operations {
		if _, known := arch.KnownOperations[op]; !known {
			return arch.Node{}, faults.NewAt(faults.ParseError, rangeStr(b.DefRange),
				"unsupported operation %q on qubit %q", op, id)
		}
	}
	weight := 1.0
	if qb.Weight != nil {
		weight = *qb.Weight
	}
	return arch.Node{ID: id, Operations: qb.Operations, Weight: weight}, nil
}

func decodeCoupling(b *hcl.Block, nodes map[string]hcl.Range, seen map[[2]string]struct{}) (arch.Edge, error) {
	var cb schema.CouplingBody
	if diags := gohcl.DecodeBody(b.Body, nil, &cb); diags.HasErrors() {
		return arch.Edge{}, diagFault(diags)
	}
	if len(cb.Between) != 2 {
		return arch.Edge{}, faults.NewAt(faults.ParseError, rangeStr(b.DefRange),
			"coupling must join exactly two qubits, got %d", len(cb.Between))
	}
	for _, id := range cb.Between {
		if _, known := nodes[id]; !known {
			return arch.Edge{}, faults.NewAt(faults.ParseError, rangeStr(b.DefRange),
				"coupling references unknown qubit %q", id)
		}
	}
	if cb.Between[0] == cb.Between[1] {
		return arch.Edge{}, faults.NewAt(faults.ParseError, rangeStr(b.DefRange),
			"self-loop coupling on qubit %q", cb.Between[0])
	}
	weight := 1.0
	if cb.Weight != nil {
		weight = *cb.Weight
	}
	e := arch.NormalizeEdge(cb.Between[0], cb.Between[1], weight)
	key := [2]string{e.A, e.B}
	if _, dup := seen[key]; dup {
		return arch.Edge{}, faults.NewAt(faults.ParseError, rangeStr(b.DefRange),
			"duplicate coupling between %q and %q", e.A, e.B)
	}
	seen[key] = struct{}{}
	return e, nil
}

// diagFault converts HCL diagnostics into a ParseError carrying the first
// diagnostic's location.
func diagFault(diags hcl.Diagnostics) error {
	first := diags[0]
	loc := ""
	if first.Subject != nil {
		loc = rangeStr(*first.Subject)
	}
	return faults.NewAt(faults.ParseError, loc, "%s", first.Error())
}

func rangeStr(r hcl.Range) string {
	return fmt.Sprintf("%s:%d,%d", r.Filename, r.Start.Line, r.Start.Column)
}
