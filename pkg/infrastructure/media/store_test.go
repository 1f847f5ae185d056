package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	path := filepath.Join(dir, "gown.jpg")
	require.NoError(t, os.WriteFile(path, []byte("img"), 0o644))

	require.NoError(t, store.Remove("uploads/gown.jpg"))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveMissingFileIsNotAnError(t *testing.T) {
	store := NewStore(t.TempDir())
	assert.NoError(t, store.Remove("never-existed.jpg"))
}

func TestRemoveStripsDirectoryComponents(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(t.TempDir(), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))

	store := NewStore(dir)
	require.NoError(t, store.Remove("../"+outside))

	_, err := os.Stat(outside)
	assert.NoError(t, err, "file outside the base directory must not be touched")
}
