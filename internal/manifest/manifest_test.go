package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	raw := "Manifest-Version: 1.0\r\n" +
		"Created-By: Gradle 8.10\r\n" +
		"Class-Path: libs/a.jar libs/b.jar libs/c.jar libs/d.jar libs/e.jar libs/f\r\n" +
		" .jar\r\n" +
		"Empty:\r\n" +
		"\r\n" +
		"Name: com/example/\r\n" +
		"Sealed: true\r\n"

	m, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, []Attribute{
		{Name: "Manifest-Version", Value: "1.0"},
		{Name: "Created-By", Value: "Gradle 8.10"},
		{Name: "Class-Path", Value: "libs/a.jar libs/b.jar libs/c.jar libs/d.jar libs/e.jar libs/f.jar"},
		{Name: "Empty", Value: ""},
	}, m.Main)

	v, ok := m.Get("created-by")
	require.True(t, ok)
	assert.Equal(t, "Gradle 8.10", v)

	out := string(m.Bytes())
	assert.Contains(t, out, "\r\n\r\nName: com/example/\r\nSealed: true\r\n")
}

func TestParse_AddsVersionAndRejectsGarbage(t *testing.T) {
	m, err := Parse([]byte("Created-By: hand\n"))
	require.NoError(t, err)
	assert.Equal(t, "Manifest-Version", m.Main[0].Name)

	_, err = Parse([]byte(" orphan continuation\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("no separator here\n"))
	assert.Error(t, err)
}

func TestSet(t *testing.T) {
	m := New()
	m.Set("Date", "2024-01-01T00:00:00Z")
	m.Set("MC-Version", "1.21.4")
	m.Set("date", "2025-01-01T00:00:00Z")

	assert.Equal(t, []Attribute{
		{Name: "Manifest-Version", Value: "1.0"},
		{Name: "Date", Value: "2025-01-01T00:00:00Z"},
		{Name: "MC-Version", Value: "1.21.4"},
	}, m.Main)
}

func TestBytes_WrapsLongLines(t *testing.T) {
	m := New()
	long := strings.Repeat("x", 200)
	m.Set("Long-Value", long)

	out := string(m.Bytes())
	for _, line := range strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 72, "line %q too long", line)
	}

	back, err := Parse([]byte(out))
	require.NoError(t, err)
	v, _ := back.Get("Long-Value")
	assert.Equal(t, long, v)
}

func TestBytes_DoesNotSplitRunes(t *testing.T) {
	m := New()
	value := strings.Repeat("é", 60)
	m.Set("Vendor", value)

	out := m.Bytes()
	for _, line := range strings.Split(string(out), "\r\n") {
		assert.True(t, strings.ToValidUTF8(line, "?") == line, "line %q has a split rune", line)
	}
	back, err := Parse(out)
	require.NoError(t, err)
	v, _ := back.Get("Vendor")
	assert.Equal(t, value, v)
}
