// Package schema declares the HCL shapes of the architecture specification
// language. It is the only package that knows the surface syntax; the loader
// translates these structures into the format-agnostic arch.Model.
package schema

import "github.com/hashicorp/hcl/v2"

// RootSchema matches the top level of a specification file: exactly one
// architecture block with a name label.
var RootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "architecture", LabelNames: []string{"name"}},
	},
}

// ArchitectureSchema matches the content of an architecture block.
var ArchitectureSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "multi_component", Required: false},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "qubit", LabelNames: []string{"id"}},
		{Type: "coupling"},
	},
}

// QubitBody is the decoded attribute set of a `qubit "<id>"` block.
type QubitBody struct {
	Operations []string `hcl:"operations"`
	Weight     *float64 `hcl:"weight,optional"`
}

// CouplingBody is the decoded attribute set of a `coupling` block.
type CouplingBody struct {
	Between []string `hcl:"between"`
	Weight  *float64 `hcl:"weight,optional"`
}
