// Package result owns the output contract of the run command: the canonical
// result document on success and the structured error payload on failure.
package result

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/vk/qmrc/internal/faults"
	"github.com/vk/qmrc/internal/solver"
)

// Serialize renders a solver result as its canonical byte form: compact
// JSON with the fixed mapping/schedule/cost key order, one trailing newline.
// Identical results always serialize to identical bytes.
func Serialize(r *solver.Result) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "encoding result")
	}
	return append(data, '\n'), nil
}

// Parse is the inverse of Serialize.
func Parse(data []byte) (*solver.Result, error) {
	var r solver.Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(err, "decoding result")
	}
	return &r, nil
}

// Write serializes r to w.
func Write(w io.Writer, r *solver.Result) error {
	data, err := Serialize(r)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "writing result")
}

type errorDoc struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

// WriteError renders a failure as a structured payload. Faults keep their
// kind and location; anything else is reported as an internal error.
func WriteError(w io.Writer, err error) error {
	body := errorBody{Kind: "InternalError", Message: err.Error()}
	var f *faults.Fault
	if errors.As(err, &f) {
		body = errorBody{Kind: string(f.Kind), Message: f.Message, Location: f.Location}
	}
	data, mErr := json.Marshal(errorDoc{Error: body})
	if mErr != nil {
		return errors.Wrap(mErr, "encoding error payload")
	}
	_, wErr := w.Write(append(data, '\n'))
	return errors.Wrap(wErr, "writing error payload")
}
