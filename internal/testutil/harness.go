// Package testutil provides a harness for end-to-end tests that drive zpdev
// through its command line against a throwaway project directory.
package testutil

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/specialistvlad/zpdev/internal/cli"
	"github.com/stretchr/testify/require"
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

// HarnessResult holds the outcomes of one command-line invocation.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
}

// ExitCode is the code the process would exit with.
func (r *HarnessResult) ExitCode() int {
	if r.Err == nil {
		return 0
	}
	return r.Err.(*cli.ExitError).Code
}

// RequireShell skips the test when no POSIX shell is available for the
// fake tools.
func RequireShell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

// WriteProject creates a project directory holding files, keyed by path
// relative to the project root. Files ending in .sh are made executable.
func WriteProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		mode := os.FileMode(0o644)
		if filepath.Ext(name) == ".sh" {
			mode = 0o755
		}
		require.NoError(t, os.WriteFile(path, []byte(content), mode))
	}
	return dir
}

// WriteJar writes a minimal plugin archive to path.
func WriteJar(t *testing.T, path string) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("com/example/ExamplePlugin.class")
	require.NoError(t, err)
	_, err = f.Write([]byte{0xCA, 0xFE, 0xBA, 0xBE})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// RunCLI runs zpdev with args against projectDir.
func RunCLI(t *testing.T, projectDir string, args ...string) *HarnessResult {
	t.Helper()
	out, logs := &SafeBuffer{}, &SafeBuffer{}
	args = append(args, "--project-dir", projectDir, "--log-level", "debug")
	err := cli.Execute(context.Background(), args, out, logs)

	t.Cleanup(func() {
		if os.Getenv("ZPDEV_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return &HarnessResult{Output: out.String(), LogOutput: logs.String(), Err: err}
}
