// Package launcher starts ZenithProxy in the run directory and waits for it
// to exit.
package launcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/zpdev/internal/config"
	"github.com/specialistvlad/zpdev/internal/ctxlog"
	"github.com/specialistvlad/zpdev/internal/failure"
)

// DevEnv is set in the child's environment so ZenithProxy enables its
// development behaviour.
const DevEnv = "ZENITH_DEV"

// JVM options passed to every launch.
var jvmOptions = []string{"-Xmx300m", "-XX:+UseG1GC"}

// ExitStatus reports a non-zero exit of the launched process.
type ExitStatus struct {
	Code int
}

func (e *ExitStatus) Error() string {
	return fmt.Sprintf("process exited with status %d", e.Code)
}

// Descriptor is a fully resolved process launch.
type Descriptor struct {
	Executable string
	Args       []string
	Dir        string
	Env        []string
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

// NewDescriptor derives the launch for p. classpath is the resolved runtime
// classpath; the configured extra entries are appended to it. The result
// only depends on its inputs and the parent environment.
func NewDescriptor(p *config.Project, classpath []string) (*Descriptor, error) {
	cp := append(append([]string{}, classpath...), p.Launch.Classpath...)
	if len(cp) == 0 {
		return nil, failure.Newf(failure.Launch, "resolve classpath", "runtime classpath is empty; run the build first")
	}

	args := append([]string{}, jvmOptions...)
	args = append(args, "-cp", strings.Join(cp, string(os.PathListSeparator)), p.Launch.MainClass)

	return &Descriptor{
		Executable: p.Launch.Java,
		Args:       args,
		Dir:        p.RunDirectory,
		Env:        append(os.Environ(), DevEnv+"=true"),
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}, nil
}

// ReadClasspath reads one classpath entry per line from path. Blank lines
// are ignored. A missing file yields no entries.
func ReadClasspath(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, failure.New(failure.IO, "read classpath", err)
	}
	defer f.Close()

	var entries []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			entries = append(entries, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, failure.New(failure.IO, "read classpath", err)
	}
	return entries, nil
}

// Launch runs d and blocks until the process exits. The process is not tied
// to ctx and runs until it exits by itself. A zero exit returns nil, a
// non-zero exit returns *ExitStatus and a failed start returns a launch
// failure.
func Launch(ctx context.Context, d *Descriptor) error {
	logger := ctxlog.FromContext(ctx)

	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return failure.New(failure.IO, "create run directory", err)
	}

	cmd := exec.Command(d.Executable, d.Args...)
	cmd.Dir = d.Dir
	cmd.Env = d.Env
	cmd.Stdin = d.Stdin
	cmd.Stdout = d.Stdout
	cmd.Stderr = d.Stderr

	logger.Info("Launching ZenithProxy.", "java", d.Executable, "dir", d.Dir)
	logger.Debug("Launch arguments.", "args", d.Args)

	if err := cmd.Start(); err != nil {
		return failure.New(failure.Launch, "start "+filepath.Base(d.Executable), err)
	}
	err := cmd.Wait()
	if err == nil {
		logger.Info("ZenithProxy exited.", "code", 0)
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		logger.Info("ZenithProxy exited.", "code", code)
		if code < 0 {
			// Killed by a signal.
			return failure.New(failure.Launch, "wait", err)
		}
		return &ExitStatus{Code: code}
	}
	return failure.New(failure.Launch, "wait", err)
}
