// Package faults defines the failure taxonomy shared by the loader, the
// emitter and the solver engine. Every fatal condition surfaces as a *Fault
// so callers can map it onto the structured error payload and a process
// exit code without string matching.
package faults

import "fmt"

// Kind identifies a failure class. The string values are part of the
// output contract and must stay stable.
type Kind string

const (
	// ParseError covers malformed or semantically invalid specification text.
	ParseError Kind = "ParseError"

	// ConfigurationMismatch is returned when a runtime connectivity graph is
	// not a subgraph of the architecture bound into the artifact.
	ConfigurationMismatch Kind = "ConfigurationMismatch"

	// CapacityExceeded is returned when a circuit uses more logical qubits
	// than the runtime graph has physical nodes.
	CapacityExceeded Kind = "CapacityExceeded"

	// UnroutableCircuit is returned when connectivity makes an operation
	// impossible to schedule.
	UnroutableCircuit Kind = "UnroutableCircuit"

	// UnknownSolveMode is returned for an unrecognized mode token.
	UnknownSolveMode Kind = "UnknownSolveMode"

	// SearchExhausted is returned when exact search exceeds its bound or
	// deadline without a complete result.
	SearchExhausted Kind = "SearchExhausted"
)

// Fault is a classified, user-facing failure.
type Fault struct {
	Kind     Kind
	Message  string
	Location string // optional source location, e.g. "arch.hcl:12,3"
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.Location != "" {
		return fmt.Sprintf("%s: %s: %s", f.Kind, f.Location, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// New creates a Fault of the given kind.
func New(kind Kind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewAt creates a Fault carrying a source location.
func NewAt(kind Kind, location, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, args...), Location: location}
}
