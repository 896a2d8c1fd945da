package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	assert.Equal(t, path, store.Path())
	assert.False(t, store.IsModified())

	data, err := store.GetSection("browser")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.SetSection("browser", map[string]any{"headless": true, "viewport_width": 800}))
	assert.True(t, store.IsModified())
	require.NoError(t, store.Save())
	assert.False(t, store.IsModified())

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	data, err := reloaded.GetSection("browser")
	require.NoError(t, err)
	assert.Equal(t, true, data["headless"])
	assert.Equal(t, 800.0, data["viewport_width"])

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreSectionsAreCopies(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	in := map[string]any{"show_source": true}
	require.NoError(t, store.SetSection("console", in))
	in["show_source"] = false

	out, err := store.GetSection("console")
	require.NoError(t, err)
	assert.Equal(t, true, out["show_source"])

	out["show_source"] = false
	again, _ := store.GetSection("console")
	assert.Equal(t, true, again["show_source"])
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}
