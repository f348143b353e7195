// Package stager copies a built plugin archive into the run directory under
// the fixed name ZenithProxy loads it from.
package stager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/specialistvlad/zpdev/internal/ctxlog"
	"github.com/specialistvlad/zpdev/internal/failure"
	"github.com/specialistvlad/zpdev/internal/fsutil"
)

// PluginFileName is the name every staged archive gets, whatever the source
// archive was called.
const PluginFileName = "plugin.jar"

// Path returns where Stage places the plugin inside pluginsDir.
func Path(pluginsDir string) string {
	return filepath.Join(pluginsDir, PluginFileName)
}

// Stage copies src to <pluginsDir>/plugin.jar, replacing any previous copy
// in one rename. It returns the destination path.
func Stage(ctx context.Context, src, pluginsDir string) (string, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", failure.Newf(failure.IO, "stage plugin", "artifact %s does not exist", src)
		}
		return "", failure.New(failure.IO, "stage plugin", err)
	}
	if info.IsDir() {
		return "", failure.Newf(failure.IO, "stage plugin", "artifact %s is a directory", src)
	}

	dest := Path(pluginsDir)
	if err := os.MkdirAll(pluginsDir, 0o755); err != nil {
		return "", failure.New(failure.IO, "create plugins directory", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", failure.New(failure.IO, "stage plugin", err)
	}
	defer in.Close()

	err = fsutil.WriteFileAtomic(dest, 0o644, func(w io.Writer) error {
		n, err := io.Copy(w, in)
		if err != nil {
			return err
		}
		if n != info.Size() {
			return fmt.Errorf("short copy of %s: %d of %d bytes", src, n, info.Size())
		}
		return nil
	})
	if err != nil {
		return "", failure.New(failure.IO, "stage plugin", err)
	}

	logger.Info("Plugin staged.", "source", src, "destination", dest, "bytes", info.Size())
	return dest, nil
}
