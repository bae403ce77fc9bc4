package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileInitializesEmpty(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	var records []map[string]any
	err = store.Load("scores.json", &records)
	require.NoError(t, err)
	assert.Empty(t, records)

	// The file now exists with an empty collection.
	raw, err := os.ReadFile(filepath.Join(store.Dir(), "scores.json"))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	type row struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	in := []row{{Name: "alice", Count: 3}, {Name: "bob", Count: 1}}
	require.NoError(t, store.Save("rows.json", in))

	var out []row
	require.NoError(t, store.Load("rows.json", &out))
	assert.Equal(t, in, out)
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("rows.json", []int{1, 2, 3}))

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "rows.json", entries[0].Name())
}

func TestLoadCorruptFileFailsLoudly(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "questions.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var out []int
	err = store.Load("questions.json", &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorrupt))

	var corrupt *CorruptError
	require.True(t, errors.As(err, &corrupt))
	assert.Equal(t, path, corrupt.Path)

	// The corrupt file must not be replaced with an empty default.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(raw))
}
