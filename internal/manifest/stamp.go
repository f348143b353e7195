package manifest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/specialistvlad/zpdev/internal/fsutil"
)

// Manifest attribute names stamped into every packaged plugin.
const (
	DateAttr      = "Date"
	MCVersionAttr = "MC-Version"
)

// BuildAttributes returns the metadata stamped at packaging time: the build
// timestamp in UTC (RFC 3339, a profile of ISO-8601) and the MC version.
func BuildAttributes(now time.Time, mcVersion string) []Attribute {
	return []Attribute{
		{Name: DateAttr, Value: now.UTC().Format(time.RFC3339Nano)},
		{Name: MCVersionAttr, Value: mcVersion},
	}
}

// Read returns the manifest of the JAR at path, or an empty manifest if the
// archive has none.
func Read(path string) (*Manifest, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if !isManifest(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, err
		}
		return Parse(data)
	}
	return New(), nil
}

// Stamp sets attrs in the main section of the JAR's manifest and rewrites
// the archive in place. Every other entry is copied unchanged and in order.
// An archive without a manifest gets one as its first entry.
func Stamp(path string, attrs []Attribute, now time.Time) error {
	// The archive is read into memory so the original can be replaced while
	// it is still being copied from.
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	hasManifest := false
	for _, f := range r.File {
		if isManifest(f.Name) {
			hasManifest = true
			break
		}
	}

	return fsutil.WriteFileAtomic(path, 0o644, func(out io.Writer) error {
		w := zip.NewWriter(out)
		if !hasManifest {
			if err := writeManifest(w, New(), attrs, now); err != nil {
				return err
			}
		}
		for _, f := range r.File {
			if isManifest(f.Name) {
				m, err := readEntry(f)
				if err != nil {
					return fmt.Errorf("read %s: %w", f.Name, err)
				}
				if err := writeManifest(w, m, attrs, now); err != nil {
					return err
				}
				continue
			}
			// Raw copy keeps the compressed bytes and the header's extra
			// fields as they are.
			if err := w.Copy(f); err != nil {
				return fmt.Errorf("copy %s: %w", f.Name, err)
			}
		}
		if err := w.SetComment(r.Comment); err != nil {
			return err
		}
		return w.Close()
	})
}

func isManifest(name string) bool {
	return strings.EqualFold(name, Path)
}

func readEntry(f *zip.File) (*Manifest, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func writeManifest(w *zip.Writer, m *Manifest, attrs []Attribute, now time.Time) error {
	for _, a := range attrs {
		m.Set(a.Name, a.Value)
	}
	fh := &zip.FileHeader{Name: Path, Method: zip.Deflate}
	fh.Modified = now
	entry, err := w.CreateHeader(fh)
	if err != nil {
		return err
	}
	_, err = entry.Write(m.Bytes())
	return err
}
