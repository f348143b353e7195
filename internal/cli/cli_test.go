package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/zpdev/internal/failure"
	"github.com/specialistvlad/zpdev/internal/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), args, &out, &errOut)
	return out.String(), err
}

func writeProject(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zenith.hcl"), []byte(body), 0o644))
	return dir
}

func TestExecute_NoArgsPrintsHelp(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "zpdev [task...]")
}

func TestExecute_UnknownFlag(t *testing.T) {
	_, err := execute(t, "--not-a-flag")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, ExitUsage, exitErr.Code)
	assert.Contains(t, exitErr.Message, "unknown flag")
}

func TestExecute_InvalidLogFormat(t *testing.T) {
	_, err := execute(t, "tasks", "--log-format", "xml")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, ExitUsage, exitErr.Code)
}

func TestExecute_UnknownTask(t *testing.T) {
	dir := writeProject(t, `zenith_proxy { mc = "1.21.4" }`)
	_, err := execute(t, "--project-dir", dir, "deploy")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, ExitUsage, exitErr.Code)
	assert.Contains(t, exitErr.Message, "task 'deploy' not found")
}

func TestExecute_Tasks(t *testing.T) {
	out, err := execute(t, "tasks", "--project-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "Build tasks\n-----------\nbuild - ")
	assert.Contains(t, out, "Setup tasks\n")
	assert.Contains(t, out, "generateTemplates - Renders source templates")
	assert.Contains(t, out, "\n    depends on: configureRepositories, generateTemplates\n")
	assert.Contains(t, out, "\n    depends on: copyPlugin\n")
}

func TestExecute_Properties(t *testing.T) {
	dir := writeProject(t, `
project {
  name = "example-plugin"
}
zenith_proxy {
  mc                  = "1.21.4"
  template_properties = { plugin_id = "example", port = 25565 }
}
`)
	out, err := execute(t, "properties", "--project-dir", dir, "--no-auto-dependency")
	require.NoError(t, err)
	assert.Contains(t, out, "name: example-plugin\n")
	assert.Contains(t, out, "mc: 1.21.4\n")
	assert.Contains(t, out, "auto_add_dependency: false\n")
	assert.Contains(t, out, "  plugin_id: example\n")
	assert.Contains(t, out, `  port: "25565"`)
}

func TestExecute_PropertiesWithoutMC(t *testing.T) {
	_, err := execute(t, "properties", "--project-dir", t.TempDir())
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, ExitUsage, exitErr.Code)
	assert.Contains(t, exitErr.Message, "mc version is not set")
}

func TestExecute_Repositories(t *testing.T) {
	out, err := execute(t, "repositories")
	require.NoError(t, err)
	assert.Contains(t, out, "https://libraries.minecraft.net")
	assert.Contains(t, out, "com.mojang")
	assert.Contains(t, out, "/org.cloudburstmc.*/")
}

func TestExecute_RepositoriesForGroup(t *testing.T) {
	out, err := execute(t, "repositories", "com.mojang")
	require.NoError(t, err)
	assert.Contains(t, out, "https://libraries.minecraft.net")
	assert.Contains(t, out, "mavenCentral")
	assert.NotContains(t, out, "repo.viaversion.com")
	assert.NotContains(t, out, "repo.opencollab.dev")

	_, err = execute(t, "repositories", "com.mojang", "extra")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
}

func TestToExitError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{"child exit status", fmt.Errorf("wrapped: %w", &launcher.ExitStatus{Code: 42}), 42},
		{"configuration", failure.Newf(failure.Configuration, "", "bad"), ExitUsage},
		{"io", failure.Newf(failure.IO, "stage plugin", "missing"), ExitFailure},
		{"launch", failure.Newf(failure.Launch, "start java", "not found"), ExitFailure},
		{"plain", errors.New("boom"), ExitFailure},
		{"already mapped", &ExitError{Code: 9, Message: "x"}, 9},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, toExitError(tc.err).Code)
		})
	}
}
