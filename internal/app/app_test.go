package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/specialistvlad/zpdev/internal/failure"
	"github.com/specialistvlad/zpdev/internal/launcher"
	"github.com/specialistvlad/zpdev/internal/registry"
	"github.com/specialistvlad/zpdev/internal/runlock"
	"github.com/specialistvlad/zpdev/modules/build"
	"github.com/specialistvlad/zpdev/modules/copyplugin"
	"github.com/specialistvlad/zpdev/modules/repositories"
	"github.com/specialistvlad/zpdev/modules/run"
	"github.com/specialistvlad/zpdev/modules/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectFile = `
project {
  name    = "example-plugin"
  version = "1.0.0"
}

zenith_proxy {
  mc = "1.21.4"
}

build {
  command = []
}
`

// newProjectDir lays out a project whose archive already exists, so no host
// build is needed.
func newProjectDir(t *testing.T, hcl string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(hcl), 0o644))

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	_, err := w.Create("com/example/Plugin.class")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	libs := filepath.Join(dir, "build", "libs")
	require.NoError(t, os.MkdirAll(libs, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(libs, "example-plugin-1.0.0.jar"), buf.Bytes(), 0o644))
	return dir
}

// stripTimes drops the elapsed time from the result line.
func stripTimes(s string) string {
	return regexp.MustCompile(` in [0-9.]+[a-zµ]+\n`).ReplaceAllString(s, "\n")
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{ProjectDir: "/tmp/p"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/p/zenith.hcl", cfg.ConfigFile)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)

	_, err = NewConfig(Config{LogFormat: "xml"})
	assert.ErrorContains(t, err, "invalid log-format")
	_, err = NewConfig(Config{LogLevel: "loud"})
	assert.ErrorContains(t, err, "invalid log-level")
}

func TestNewApp_RegistersCoreModules(t *testing.T) {
	a, _, _ := SetupAppTest(t, Config{ProjectDir: t.TempDir()})
	var names []string
	for _, task := range a.Registry().Tasks() {
		names = append(names, task.Name)
	}
	assert.ElementsMatch(t, []string{"configureRepositories", "generateTemplates", "build", "copyPlugin", "run"}, names)
}

func TestNewApp_InvalidRegistry(t *testing.T) {
	cfg, err := NewConfig(Config{ProjectDir: t.TempDir()})
	require.NoError(t, err)
	_, err = NewApp(io.Discard, io.Discard, cfg, nil, &copyplugin.Module{})
	assert.ErrorContains(t, err, "depends on unknown task 'build'")
}

func TestRun_CopyPlugin(t *testing.T) {
	dir := newProjectDir(t, projectFile)
	a, out, _ := SetupAppTest(t, Config{ProjectDir: dir})

	require.NoError(t, a.Run(context.Background(), copyplugin.TaskName))

	assert.Equal(t,
		"> Task :configureRepositories\n"+
			"> Task :generateTemplates\n"+
			"> Task :build\n"+
			"> Task :copyPlugin\n"+
			"\nSUCCESSFUL\n",
		stripTimes(out.String()))
	assert.FileExists(t, filepath.Join(dir, "run", "plugins", "plugin.jar"))
	assert.FileExists(t, filepath.Join(dir, "build", "zpdev", "zpdev.init.gradle"))
}

func TestRun_TemplatesDisabledStillBuilds(t *testing.T) {
	dir := newProjectDir(t, projectFile)
	a, out, _ := SetupAppTest(t, Config{ProjectDir: dir, NoTemplates: true})

	require.NoError(t, a.Run(context.Background(), build.TaskName))

	assert.Contains(t, out.String(), "> Task :generateTemplates SKIPPED\n> Task :build\n")
	assert.NoFileExists(t, filepath.Join(dir, "run", "plugins", "plugin.jar"), "build alone does not stage")
}

func TestRun_UnknownTask(t *testing.T) {
	a, _, _ := SetupAppTest(t, Config{ProjectDir: t.TempDir()})
	err := a.Run(context.Background(), "deploy")
	assert.True(t, failure.Is(err, failure.Configuration))
	assert.ErrorContains(t, err, "task 'deploy' not found")
}

func TestRun_MissingMCVersion(t *testing.T) {
	a, _, _ := SetupAppTest(t, Config{ProjectDir: t.TempDir()})
	err := a.Run(context.Background(), repositories.TaskName)
	assert.True(t, failure.Is(err, failure.Configuration))
	assert.ErrorContains(t, err, "mc version is not set")
}

func TestRun_FlagOverridesProjectFile(t *testing.T) {
	dir := newProjectDir(t, projectFile)
	a, _, _ := SetupAppTest(t, Config{ProjectDir: dir, MCVersion: "1.20.6", NoAutoDependency: true})

	p, err := a.Project(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.20.6", p.MCVersion)
	assert.False(t, p.AutoAddDependency)
	assert.Equal(t, "example-plugin", p.Name)
}

func TestRun_RunDirectoryInUse(t *testing.T) {
	dir := newProjectDir(t, projectFile)
	release, err := runlock.Acquire(filepath.Join(dir, "run"))
	require.NoError(t, err)
	defer release()

	a, out, _ := SetupAppTest(t, Config{ProjectDir: dir})
	err = a.Run(context.Background(), copyplugin.TaskName)
	require.Error(t, err)
	assert.True(t, errors.Is(err, runlock.ErrInUse))
	assert.Empty(t, out.String(), "no task runs without the lock")

	// Tasks that leave the run directory alone do not need the lock.
	require.NoError(t, a.Run(context.Background(), build.TaskName))
}

func TestRun_FailureStopsSequence(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	dir := newProjectDir(t, projectFile+`
launch {
  classpath = ["extra.jar"]
}
`)
	modules := []registry.Module{
		&repositories.Module{},
		&templates.Module{},
		&build.Module{},
		&copyplugin.Module{},
		&run.Module{Configure: func(d *launcher.Descriptor) {
			d.Executable = sh
			d.Args = []string{"-c", "exit 5"}
			d.Stdin, d.Stdout, d.Stderr = nil, io.Discard, io.Discard
		}},
	}
	a, out, _ := SetupAppTest(t, Config{ProjectDir: dir}, modules...)

	err = a.Run(context.Background(), run.TaskName)
	var status *launcher.ExitStatus
	require.True(t, errors.As(err, &status), "got %v", err)
	assert.Equal(t, 5, status.Code)
	assert.Contains(t, out.String(), "> Task :run\n> Task :run FAILED\n")
	assert.Contains(t, out.String(), "FAILED")
	assert.FileExists(t, filepath.Join(dir, "run", "plugins", "plugin.jar"), "staging happens before launch")
}
