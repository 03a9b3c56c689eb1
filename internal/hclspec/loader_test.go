package hclspec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/qmrc/internal/faults"
)

const validSpec = `
architecture "ring4" {
  qubit "q0" { operations = ["cx", "t", "tdg"] }
  qubit "q1" { operations = ["cx", "t", "tdg"] }
  qubit "q2" { operations = ["cx", "t", "tdg"] }
  qubit "q3" {
    operations = ["cx", "t", "tdg"]
    weight     = 0.9
  }

  coupling { between = ["q0", "q1"] }
  coupling { between = ["q1", "q2"] }
  coupling {
    between = ["q2", "q3"]
    weight  = 0.5
  }
  coupling { between = ["q3", "q0"] }
}
`

func parse(t *testing.T, src string) error {
	t.Helper()
	_, err := NewLoader().Parse(context.Background(), "test.hcl", []byte(src))
	return err
}

func requireParseFault(t *testing.T, err error) *faults.Fault {
	t.Helper()
	require.Error(t, err)
	f, ok := err.(*faults.Fault)
	require.True(t, ok, "expected a *faults.Fault, got %T", err)
	assert.Equal(t, faults.ParseError, f.Kind)
	return f
}

func TestParse_ValidSpec(t *testing.T) {
	m, err := NewLoader().Parse(context.Background(), "ring.hcl", []byte(validSpec))
	require.NoError(t, err)

	assert.Equal(t, "ring4", m.Name())
	assert.Equal(t, 4, m.NodeCount())
	assert.Len(t, m.Edges(), 4)

	i3, ok := m.Index("q3")
	require.True(t, ok)
	assert.Equal(t, 0.9, m.Nodes()[i3].Weight)

	i2, _ := m.Index("q2")
	w, ok := m.EdgeWeight(i2, i3)
	require.True(t, ok)
	assert.Equal(t, 0.5, w)
}

func TestParse_CouplingBeforeQubitDeclarations(t *testing.T) {
	// Declaration order must not matter.
	src := `
architecture "pair" {
  coupling { between = ["a", "b"] }
  qubit "a" { operations = ["cx"] }
  qubit "b" { operations = ["cx"] }
}
`
	require.NoError(t, parse(t, src))
}

func TestParse_Errors(t *testing.T) {
	t.Run("syntax error", func(t *testing.T) {
		f := requireParseFault(t, parse(t, `architecture "x" {`))
		assert.NotEmpty(t, f.Location)
	})

	t.Run("no architecture block", func(t *testing.T) {
		requireParseFault(t, parse(t, ``))
	})

	t.Run("duplicate qubit", func(t *testing.T) {
		src := `
architecture "x" {
  qubit "a" { operations = ["cx"] }
  qubit "a" { operations = ["cx"] }
  coupling { between = ["a", "a"] }
}
`
		f := requireParseFault(t, parse(t, src))
		assert.Contains(t, f.Message, "duplicate qubit")
	})

	t.Run("unknown operation", func(t *testing.T) {
		src := `
architecture "x" {
  qubit "a" { operations = ["teleport"] }
}
`
		f := requireParseFault(t, parse(t, src))
		assert.Contains(t, f.Message, "unsupported operation")
	})

	t.Run("coupling to unknown qubit", func(t *testing.T) {
		src := `
architecture "x" {
  qubit "a" { operations = ["cx"] }
  qubit "b" { operations = ["cx"] }
  coupling { between = ["a", "b"] }
  coupling { between = ["a", "ghost"] }
}
`
		f := requireParseFault(t, parse(t, src))
		assert.Contains(t, f.Message, "unknown qubit")
	})

	t.Run("self loop", func(t *testing.T) {
		src := `
architecture "x" {
  qubit "a" { operations = ["cx"] }
  coupling { between = ["a", "a"] }
}
`
		f := requireParseFault(t, parse(t, src))
		assert.Contains(t, f.Message, "self-loop")
	})

	t.Run("duplicate coupling across orientations", func(t *testing.T) {
		src := `
architecture "x" {
  qubit "a" { operations = ["cx"] }
  qubit "b" { operations = ["cx"] }
  coupling { between = ["a", "b"] }
  coupling { between = ["b", "a"] }
}
`
		f := requireParseFault(t, parse(t, src))
		assert.Contains(t, f.Message, "duplicate coupling")
	})

	t.Run("disconnected without multi_component", func(t *testing.T) {
		src := `
architecture "x" {
  qubit "a" { operations = ["cx"] }
  qubit "b" { operations = ["cx"] }
  qubit "c" { operations = ["cx"] }
  coupling { between = ["a", "b"] }
}
`
		requireParseFault(t, parse(t, src))
	})

	t.Run("non-boolean multi_component", func(t *testing.T) {
		src := `
architecture "x" {
  multi_component = "yes"
  qubit "a" { operations = ["cx"] }
}
`
		f := requireParseFault(t, parse(t, src))
		assert.Contains(t, f.Message, "multi_component")
	})
}

func TestParse_MultiComponent(t *testing.T) {
	src := `
architecture "split" {
  multi_component = true
  qubit "a" { operations = ["cx"] }
  qubit "b" { operations = ["cx"] }
  qubit "c" { operations = ["cx"] }
  qubit "d" { operations = ["cx"] }
  coupling { between = ["a", "b"] }
  coupling { between = ["c", "d"] }
}
`
	m, err := NewLoader().Parse(context.Background(), "split.hcl", []byte(src))
	require.NoError(t, err)
	assert.Len(t, m.Components(), 2)
}
