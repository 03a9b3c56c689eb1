// Package solver implements the QMR solving engine: initial placement of
// logical qubits onto a runtime connectivity graph followed by incremental
// routing of the circuit, under a selectable search mode. Identical inputs
// always produce identical output; every search and every tie-break is
// deterministic.
package solver

// MappingEntry binds one logical qubit to a physical node ID.
type MappingEntry struct {
	Logical  int    `json:"logical"`
	Physical string `json:"physical"`
}

// ScheduledOp is one entry of the routing schedule: either an original gate
// bound to physical operands, or an inserted routing primitive.
type ScheduledOp struct {
	Kind        string   `json:"kind"` // "gate" or "swap"
	Operands    []string `json:"operands"`
	SourceIndex *int     `json:"source_index,omitempty"` // program index, gates only
}

// Cost summarizes a schedule.
type Cost struct {
	ScheduleLength     int `json:"schedule_length"`
	InsertedPrimitives int `json:"inserted_primitives"`
}

// Result is the solver output: the initial mapping, the schedule, and the
// cost summary. Field order here fixes the canonical JSON order.
type Result struct {
	Mapping  []MappingEntry `json:"mapping"`
	Schedule []ScheduledOp  `json:"schedule"`
	Cost     Cost           `json:"cost"`
}

const (
	// KindGate marks an original circuit gate in the schedule.
	KindGate = "gate"
	// KindSwap marks an inserted routing primitive.
	KindSwap = "swap"
)
