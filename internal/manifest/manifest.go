// Package manifest reads and rewrites the main section of a JAR manifest
// (META-INF/MANIFEST.MF) and stamps build metadata into packaged archives.
package manifest

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Path is the location of the manifest inside a JAR.
const Path = "META-INF/MANIFEST.MF"

const (
	versionAttr = "Manifest-Version"
	// maxLine is the longest manifest line in bytes, excluding the newline.
	maxLine = 72
)

// Attribute is one "Name: Value" pair of the main section.
type Attribute struct {
	Name  string
	Value string
}

// Manifest is a parsed manifest. The main section is kept in order; the
// per-entry sections that follow it are preserved verbatim.
type Manifest struct {
	Main    []Attribute
	entries []byte
}

// New returns a manifest holding only Manifest-Version: 1.0.
func New() *Manifest {
	return &Manifest{Main: []Attribute{{Name: versionAttr, Value: "1.0"}}}
}

// Parse reads a manifest. Continuation lines (starting with a single space)
// are joined to the line before them.
func Parse(data []byte) (*Manifest, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	main, rest, _ := strings.Cut(text, "\n\n")
	m := &Manifest{}
	if rest = strings.TrimLeft(rest, "\n"); rest != "" {
		m.entries = []byte(rest)
	}

	var lines []string
	for _, line := range strings.Split(main, "\n") {
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, " "):
			if len(lines) == 0 {
				return nil, fmt.Errorf("manifest: continuation line without a preceding attribute")
			}
			lines[len(lines)-1] += line[1:]
		default:
			lines = append(lines, line)
		}
	}

	for _, line := range lines {
		name, value, ok := strings.Cut(line, ": ")
		if !ok {
			// "Name:" with an empty value is legal.
			if n, found := strings.CutSuffix(line, ":"); found {
				name, value, ok = n, "", true
			}
		}
		if !ok || name == "" || strings.ContainsAny(name, " :") {
			return nil, fmt.Errorf("manifest: invalid attribute line %q", line)
		}
		m.Main = append(m.Main, Attribute{Name: name, Value: value})
	}

	if _, ok := m.Get(versionAttr); !ok {
		m.Main = append([]Attribute{{Name: versionAttr, Value: "1.0"}}, m.Main...)
	}
	return m, nil
}

// Get returns the value of a main attribute. Names compare case-insensitively.
func (m *Manifest) Get(name string) (string, bool) {
	for _, a := range m.Main {
		if strings.EqualFold(a.Name, name) {
			return a.Value, true
		}
	}
	return "", false
}

// Set replaces an existing attribute in place or appends a new one.
func (m *Manifest) Set(name, value string) {
	for i, a := range m.Main {
		if strings.EqualFold(a.Name, name) {
			m.Main[i].Value = value
			return
		}
	}
	m.Main = append(m.Main, Attribute{Name: name, Value: value})
}

// Bytes renders the manifest with CRLF line endings and 72-byte lines.
// Manifest-Version is always written first.
func (m *Manifest) Bytes() []byte {
	var buf bytes.Buffer
	if v, ok := m.Get(versionAttr); ok {
		writeAttribute(&buf, versionAttr, v)
	}
	for _, a := range m.Main {
		if strings.EqualFold(a.Name, versionAttr) {
			continue
		}
		writeAttribute(&buf, a.Name, a.Value)
	}
	buf.WriteString("\r\n")
	if len(m.entries) > 0 {
		entries := strings.ReplaceAll(string(m.entries), "\n", "\r\n")
		buf.WriteString(entries)
		if !strings.HasSuffix(entries, "\r\n") {
			buf.WriteString("\r\n")
		}
	}
	return buf.Bytes()
}

// writeAttribute wraps a line at maxLine bytes without splitting a UTF-8
// sequence. Continuation lines start with one space.
func writeAttribute(buf *bytes.Buffer, name, value string) {
	line := name + ": " + value
	limit := maxLine
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		buf.WriteString(line[:cut])
		buf.WriteString("\r\n ")
		line = line[cut:]
		limit = maxLine - 1
	}
	buf.WriteString(line)
	buf.WriteString("\r\n")
}
