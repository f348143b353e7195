// Package packager drives the host build tool and prepares the archive it
// produces for staging.
package packager

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/specialistvlad/zpdev/internal/config"
	"github.com/specialistvlad/zpdev/internal/ctxlog"
	"github.com/specialistvlad/zpdev/internal/failure"
	"github.com/specialistvlad/zpdev/internal/fsutil"
	"github.com/specialistvlad/zpdev/internal/manifest"
	"github.com/specialistvlad/zpdev/internal/repository"
)

// Artifact is the archive produced by a build.
type Artifact struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// Packager runs builds. The zero value streams the host tool's output to
// the process's own stdout and stderr.
type Packager struct {
	Stdout io.Writer
	Stderr io.Writer
	// Now stamps the manifest date; time.Now when nil.
	Now func() time.Time
}

// BuildCommand returns the host build invocation with the init script and
// the classpath task appended. An empty configured command yields nil.
func BuildCommand(p *config.Project, initScript string) []string {
	if len(p.Build.Command) == 0 {
		return nil
	}
	argv := append([]string{}, p.Build.Command...)
	return append(argv, "--init-script", initScript, repository.ClasspathTask)
}

// Package builds the project, picks the archive it produced and stamps the
// archive's manifest.
func (pk *Packager) Package(ctx context.Context, p *config.Project, initScript string) (*Artifact, error) {
	logger := ctxlog.FromContext(ctx)

	if argv := BuildCommand(p, initScript); argv != nil {
		if err := pk.runBuild(ctx, p.Dir, argv); err != nil {
			return nil, err
		}
	} else {
		logger.Info("No build command configured, using existing archive.", "libs_dir", p.Build.LibsDir)
	}

	info, err := FindArtifact(p.Build.LibsDir)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if pk.Now != nil {
		now = pk.Now
	}
	t := now()
	if err := manifest.Stamp(info.Path, manifest.BuildAttributes(t, p.MCVersion), t); err != nil {
		return nil, failure.New(failure.IO, "stamp manifest", err)
	}

	// Stamping rewrites the file, so stat it again.
	st, err := os.Stat(info.Path)
	if err != nil {
		return nil, failure.New(failure.IO, "stamp manifest", err)
	}
	logger.Info("Archive packaged.", "path", info.Path, "bytes", st.Size(), "mc", p.MCVersion)
	return &Artifact{Path: info.Path, ModTime: st.ModTime(), Size: st.Size()}, nil
}

func (pk *Packager) runBuild(ctx context.Context, dir string, argv []string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Running host build.", "command", strings.Join(argv, " "), "dir", dir)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = pk.Stdout
	cmd.Stderr = pk.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	start := time.Now()
	err := cmd.Run()
	if err == nil {
		logger.Debug("Host build finished.", "duration", time.Since(start))
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return failure.Newf(failure.Resolution, "host build", "%s exited with status %d", argv[0], exitErr.ExitCode())
	}
	return failure.New(failure.Resolution, "start host build", err)
}

// FindArtifact returns the newest plugin archive under libsDir. Sources and
// javadoc archives are ignored.
func FindArtifact(libsDir string) (fsutil.FileInfo, error) {
	jars, err := fsutil.FindFilesByExtension(libsDir, ".jar")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fsutil.FileInfo{}, failure.Newf(failure.IO, "locate archive", "libs directory %s does not exist", libsDir)
		}
		return fsutil.FileInfo{}, failure.New(failure.IO, "locate archive", err)
	}

	var candidates []string
	for _, path := range jars {
		base := strings.TrimSuffix(filepath.Base(path), ".jar")
		if strings.HasSuffix(base, "-sources") || strings.HasSuffix(base, "-javadoc") {
			continue
		}
		candidates = append(candidates, path)
	}
	if len(candidates) == 0 {
		return fsutil.FileInfo{}, failure.Newf(failure.IO, "locate archive", "no plugin archive found in %s", libsDir)
	}

	info, err := fsutil.Newest(candidates)
	if err != nil {
		return fsutil.FileInfo{}, failure.New(failure.IO, "locate archive", err)
	}
	return info, nil
}
