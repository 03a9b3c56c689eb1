package circuit

import (
	"bufio"
	"os"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// The reader recognizes the routed gate subset: two-qubit cx plus the
// single-qubit t family. Everything else in the file is ignored.
var (
	cxRe = regexp.MustCompile(`cx\s+q\[(\d+)\],\s*q\[(\d+)\];`)
	tRe  = regexp.MustCompile(`\b(t|tdg)\s+q\[(\d+)\];`)
)

// ReadQASM extracts the routed gates from an OpenQASM file in program order.
func ReadQASM(path string) (*Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening circuit %s", path)
	}
	defer f.Close()

	var gates []Gate
	index := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if caps := cxRe.FindStringSubmatch(line); caps != nil {
			q1, _ := strconv.Atoi(caps[1])
			q2, _ := strconv.Atoi(caps[2])
			gates = append(gates, Gate{Type: CX, Qubits: []int{q1, q2}, Index: index})
			index++
			continue
		}
		if caps := tRe.FindStringSubmatch(line); caps != nil {
			q, _ := strconv.Atoi(caps[2])
			gates = append(gates, Gate{Type: GateType(caps[1]), Qubits: []int{q}, Index: index})
			index++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading circuit %s", path)
	}
	return FromGates(gates), nil
}
