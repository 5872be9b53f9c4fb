package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalUploadAndRemove(t *testing.T) {
	dir := t.TempDir()
	local := NewLocal(dir, "http://localhost:8080/files/")

	path := "presentations/abc/deck.pdf"
	require.NoError(t, local.Upload(path, []byte("content")))

	data, err := os.ReadFile(filepath.Join(dir, "presentations", "abc", "deck.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)

	assert.Equal(t, "http://localhost:8080/files/presentations/abc/deck.pdf", local.GetPublicURL(path))

	require.NoError(t, local.Remove([]string{path}))
	_, err = os.ReadFile(filepath.Join(dir, "presentations", "abc", "deck.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalRemove_MissingFileIsNoop(t *testing.T) {
	local := NewLocal(t.TempDir(), "http://localhost:8080/files")

	assert.NoError(t, local.Remove([]string{"presentations/none/missing.pdf"}))
}

func TestLocalUpload_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	local := NewLocal(dir, "http://localhost:8080/files")

	require.NoError(t, local.Upload("deck.pdf", []byte("v1")))
	require.NoError(t, local.Upload("deck.pdf", []byte("v2")))

	data, err := os.ReadFile(filepath.Join(dir, "deck.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)
}

func TestLocalUpload_TraversalStaysInsideRoot(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "store")
	require.NoError(t, os.Mkdir(dir, 0o755))
	local := NewLocal(dir, "http://localhost:8080/files")

	// Leading .. segments are clamped at the storage root.
	require.NoError(t, local.Upload("../escape.txt", []byte("nope")))

	_, err := os.ReadFile(filepath.Join(parent, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(filepath.Join(dir, "escape.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("nope"), data)
}
