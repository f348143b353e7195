package failure

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	err := New(IO, "stage plugin", fs.ErrNotExist)
	assert.Equal(t, "io error: stage plugin: file does not exist", err.Error())

	err = Newf(Configuration, "", "mc version is not set")
	assert.Equal(t, "configuration error: mc version is not set", err.Error())
}

func TestKindOf(t *testing.T) {
	base := New(Launch, "start", errors.New("exec: not found"))
	wrapped := fmt.Errorf("task run: %w", base)

	assert.Equal(t, Launch, KindOf(base))
	assert.Equal(t, Launch, KindOf(wrapped))
	assert.True(t, Is(wrapped, Launch))
	assert.False(t, Is(wrapped, IO))
	assert.Equal(t, Unknown, KindOf(errors.New("plain")))
	assert.Equal(t, Unknown, KindOf(nil))
}

func TestUnwrap(t *testing.T) {
	err := New(IO, "copy", fs.ErrPermission)
	require.ErrorIs(t, err, fs.ErrPermission)
}
