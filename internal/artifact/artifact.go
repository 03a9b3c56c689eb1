// Package artifact produces and loads specialized solver artifacts. An
// artifact freezes one validated architecture into a versioned JSON document
// that the run command reopens without re-reading the source specification.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/vk/qmrc/internal/arch"
	"github.com/vk/qmrc/internal/faults"
)

// FormatVersion is bumped whenever the artifact document layout changes.
const FormatVersion = 1

// document is the on-disk artifact layout.
type document struct {
	FormatVersion int          `json:"format_version"`
	Architecture  architecture `json:"architecture"`
	Debug         bool         `json:"debug"`
}

type architecture struct {
	Name           string `json:"name"`
	MultiComponent bool   `json:"multi_component"`
	Nodes          []node `json:"nodes"`
	Edges          []edge `json:"edges"`
}

type node struct {
	ID         string   `json:"id"`
	Operations []string `json:"operations"`
	Weight     float64  `json:"weight"`
}

type edge struct {
	A      string  `json:"a"`
	B      string  `json:"b"`
	Weight float64 `json:"weight"`
}

// Artifact is a loaded solver artifact: the architecture model plus the
// debug flag it was specialized with.
type Artifact struct {
	Model *arch.Model
	Debug bool
}

// Path derives the artifact file name from the specification path: the base
// name with the extension replaced by ".solver.json", placed under outDir
// (or next to the spec when outDir is empty).
func Path(specPath, outDir string) string {
	base := filepath.Base(specPath)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ".solver.json"
	if outDir == "" {
		outDir = filepath.Dir(specPath)
	}
	return filepath.Join(outDir, base)
}

// Specialize writes the artifact for m at path. With debug set, the loaded
// artifact will also emit solver trace output, and a human-readable model
// dump is written next to the artifact.
func Specialize(m *arch.Model, path string, debug bool) error {
	doc := document{
		FormatVersion: FormatVersion,
		Architecture: architecture{
			Name:           m.Name(),
			MultiComponent: m.MultiComponent(),
			Nodes:          make([]node, 0, m.NodeCount()),
			Edges:          make([]edge, 0, len(m.Edges())),
		},
		Debug: debug,
	}
	for _, n := range m.Nodes() {
		doc.Architecture.Nodes = append(doc.Architecture.Nodes, node(n))
	}
	for _, e := range m.Edges() {
		doc.Architecture.Edges = append(doc.Architecture.Edges, edge(e))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding artifact")
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing artifact")
	}

	if debug {
		dump := strings.TrimSuffix(path, ".json") + ".txt"
		if err := os.WriteFile(dump, []byte(Dump(m)), 0o644); err != nil {
			return errors.Wrap(err, "writing debug dump")
		}
	}
	return nil
}

// Load reads an artifact and rebuilds the architecture model, revalidating
// every structural invariant the specialize step enforced.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, faults.New(faults.ConfigurationMismatch, "reading artifact: %v", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, faults.NewAt(faults.ParseError, path, "malformed artifact: %v", err)
	}
	if doc.FormatVersion != FormatVersion {
		return nil, faults.NewAt(faults.ConfigurationMismatch, path,
			"artifact format version %d, this build reads version %d",
			doc.FormatVersion, FormatVersion)
	}

	nodes := make([]arch.Node, 0, len(doc.Architecture.Nodes))
	for _, n := range doc.Architecture.Nodes {
		nodes = append(nodes, arch.Node(n))
	}
	edges := make([]arch.Edge, 0, len(doc.Architecture.Edges))
	for _, e := range doc.Architecture.Edges {
		edges = append(edges, arch.Edge(e))
	}
	m, err := arch.New(doc.Architecture.Name, doc.Architecture.MultiComponent, nodes, edges)
	if err != nil {
		return nil, faults.NewAt(faults.ConfigurationMismatch, path,
			"artifact fails architecture validation: %v", err)
	}
	return &Artifact{Model: m, Debug: doc.Debug}, nil
}

// Dump renders the model for humans, one node and one coupling per line.
func Dump(m *arch.Model) string {
	var b strings.Builder
	fmt.Fprintf(&b, "architecture %q", m.Name())
	if m.MultiComponent() {
		b.WriteString(" (multi_component)")
	}
	fmt.Fprintf(&b, "\n%d qubits, %d couplings, %d components\n",
		m.NodeCount(), len(m.Edges()), len(m.Components()))
	for _, n := range m.Nodes() {
		fmt.Fprintf(&b, "  qubit %s weight=%g ops=%s\n",
			n.ID, n.Weight, strings.Join(n.Operations, ","))
	}
	for _, e := range m.Edges() {
		fmt.Fprintf(&b, "  coupling %s--%s weight=%g\n", e.A, e.B, e.Weight)
	}
	return b.String()
}
