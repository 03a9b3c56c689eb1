// Package testutil provides the shared harness for integration tests: a
// temp-dir file fixture writer plus a full pipeline runner driving the app
// the way the binary does.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/qmrc/internal/app"
	"github.com/vk/qmrc/internal/cli"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of one CLI invocation.
type HarnessResult struct {
	Stdout    string
	LogOutput string
	Err       error
	Dir       string
}

// WriteFiles materializes the named fixtures under a fresh temp directory
// and returns its path. Relative paths with subdirectories are honored.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// RunCLI drives the full pipeline exactly as the binary does: argument
// parsing, app construction, command execution. Paths in args that start
// with "@/" are rebased onto the fixture directory.
func RunCLI(t *testing.T, files map[string]string, args ...string) *HarnessResult {
	t.Helper()
	dir := WriteFiles(t, files)

	rebased := make([]string, len(args))
	for i, a := range args {
		if len(a) > 1 && a[0] == '@' {
			a = filepath.Join(dir, a[1:])
		}
		rebased[i] = a
	}

	var stdout bytes.Buffer
	logs := &SafeBuffer{}
	res := &HarnessResult{Dir: dir}

	cfg, exit, err := cli.Parse(rebased, logs)
	if err != nil || exit {
		res.Err = err
		res.LogOutput = logs.String()
		return res
	}
	res.Err = app.NewApp(&stdout, logs, cfg).Run(context.Background())
	res.Stdout = stdout.String()
	res.LogOutput = logs.String()
	return res
}
