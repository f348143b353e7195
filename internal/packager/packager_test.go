package packager

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zip"
	"github.com/specialistvlad/zpdev/internal/config"
	"github.com/specialistvlad/zpdev/internal/ctxlog"
	"github.com/specialistvlad/zpdev/internal/failure"
	"github.com/specialistvlad/zpdev/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newProject(t *testing.T, command []string) *config.Project {
	t.Helper()
	ext := config.NewExtension(t.TempDir())
	require.NoError(t, ext.SetMCVersion("1.21.4"))
	require.NoError(t, ext.SetBuildCommand(command))
	p, err := ext.Finalize()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(p.Build.LibsDir, 0o755))
	return p
}

func writeJar(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("com/example/Plugin.class")
	require.NoError(t, err)
	_, err = f.Write([]byte("class"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestBuildCommand(t *testing.T) {
	p := newProject(t, []string{"./gradlew", "build", "--offline"})
	got := BuildCommand(p, "/tmp/x/zpdev.init.gradle")
	want := []string{"./gradlew", "build", "--offline", "--init-script", "/tmp/x/zpdev.init.gradle", "zpdevWriteClasspath"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildCommand() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"./gradlew", "build", "--offline"}, p.Build.Command, "configured command is not modified")

	assert.Nil(t, BuildCommand(newProject(t, []string{}), "x"))
}

func TestFindArtifact(t *testing.T) {
	p := newProject(t, []string{})
	base := time.Now().Add(-time.Hour)
	libs := p.Build.LibsDir

	writeJar(t, filepath.Join(libs, "plugin-1.0.0.jar"), base)
	writeJar(t, filepath.Join(libs, "plugin-1.0.1.jar"), base.Add(time.Minute))
	writeJar(t, filepath.Join(libs, "plugin-1.0.1-sources.jar"), base.Add(2*time.Minute))
	writeJar(t, filepath.Join(libs, "plugin-1.0.1-javadoc.jar"), base.Add(3*time.Minute))
	require.NoError(t, os.WriteFile(filepath.Join(libs, "notes.txt"), []byte("x"), 0o644))

	info, err := FindArtifact(libs)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(libs, "plugin-1.0.1.jar"), info.Path)
}

func TestFindArtifact_Missing(t *testing.T) {
	p := newProject(t, []string{})

	_, err := FindArtifact(p.Build.LibsDir)
	assert.True(t, failure.Is(err, failure.IO))
	assert.ErrorContains(t, err, "no plugin archive found")

	_, err = FindArtifact(filepath.Join(p.Dir, "nope"))
	assert.True(t, failure.Is(err, failure.IO))
	assert.ErrorContains(t, err, "does not exist")
}

func TestPackage_ExistingArchive(t *testing.T) {
	p := newProject(t, []string{})
	jar := filepath.Join(p.Build.LibsDir, "plugin-1.0.0.jar")
	writeJar(t, jar, time.Now().Add(-time.Minute))

	now := time.Date(2024, 5, 1, 12, 30, 0, 123, time.FixedZone("X", 3600))
	pk := &Packager{Now: func() time.Time { return now }}

	art, err := pk.Package(testContext(), p, "unused")
	require.NoError(t, err)
	assert.Equal(t, jar, art.Path)
	assert.Positive(t, art.Size)

	m, err := manifest.Read(jar)
	require.NoError(t, err)
	date, ok := m.Get(manifest.DateAttr)
	require.True(t, ok)
	assert.Equal(t, "2024-05-01T11:30:00.000000123Z", date)
	mc, _ := m.Get(manifest.MCVersionAttr)
	assert.Equal(t, "1.21.4", mc)
}

func TestPackage_HostBuildFails(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	p := newProject(t, []string{sh, "-c", "exit 4"})
	var out bytes.Buffer
	pk := &Packager{Stdout: &out, Stderr: &out}

	_, err = pk.Package(testContext(), p, "init.gradle")
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.Resolution))
	assert.ErrorContains(t, err, "exited with status 4")
}

func TestPackage_HostBuildProducesArchive(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	p := newProject(t, []string{sh, "-c", `echo "building $2" && touch marker`})
	writeJar(t, filepath.Join(p.Build.LibsDir, "plugin.jar"), time.Now())
	var out bytes.Buffer
	pk := &Packager{Stdout: &out, Stderr: &out}

	_, err = pk.Package(testContext(), p, "init.gradle")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "building zpdevWriteClasspath")
	assert.FileExists(t, filepath.Join(p.Dir, "marker"), "build runs in the project directory")
}

func TestPackage_StartFailure(t *testing.T) {
	p := newProject(t, []string{filepath.Join(t.TempDir(), "no-such-gradlew")})
	_, err := (&Packager{}).Package(testContext(), p, "init.gradle")
	assert.True(t, failure.Is(err, failure.Resolution))
}
