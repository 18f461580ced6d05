package scratch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiskStore(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "scratch")
		st, err := NewDiskStore(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, st.Dir())

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("empty dir rejected", func(t *testing.T) {
		_, err := NewDiskStore("")
		assert.Error(t, err)
	})
}

func TestDiskStore_Save(t *testing.T) {
	st, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	path, err := st.Save("doc.png", strings.NewReader("first"))
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(b))

	// Same name overwrites the prior file.
	path2, err := st.Save("doc.png", strings.NewReader("second"))
	require.NoError(t, err)
	assert.Equal(t, path, path2)

	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))
}

// failingReader errors on the first read, simulating a client that drops the
// connection mid-upload.
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestDiskStore_Save_FailedCopyLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	st, err := NewDiskStore(dir)
	require.NoError(t, err)

	_, err = st.Save("doc.png", failingReader{})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "doc.png"))
	assert.True(t, os.IsNotExist(statErr), "partial scratch file must be removed on a failed save")
}

func TestDiskStore_Remove(t *testing.T) {
	st, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	path, err := st.Save("doc.png", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, st.Remove(path))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Removing again is not an error.
	assert.NoError(t, st.Remove(path))
}
