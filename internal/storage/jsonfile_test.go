package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")

	require.NoError(t, SaveJSON(path, record{Name: "alpha", Count: 3}))

	var got record
	loaded, err := LoadJSON(path, &got)
	require.NoError(t, err)
	require.True(t, loaded)
	require.Equal(t, record{Name: "alpha", Count: 3}, got)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	var got record
	loaded, err := LoadJSON(filepath.Join(t.TempDir(), "absent.json"), &got)
	require.NoError(t, err)
	require.False(t, loaded)
	require.Zero(t, got)
}

func TestSaveKeepsPreviousAsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	require.NoError(t, SaveJSON(path, record{Name: "first"}))
	require.NoError(t, SaveJSON(path, record{Name: "second"}))

	var backup record
	loaded, err := LoadJSON(path+".backup", &backup)
	require.NoError(t, err)
	require.True(t, loaded)
	require.Equal(t, "first", backup.Name)

	var current record
	_, err = LoadJSON(path, &current)
	require.NoError(t, err)
	require.Equal(t, "second", current.Name)
}

func TestLoadCorruptFilePreservesBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	var got record
	loaded, err := LoadJSON(path, &got)
	require.Error(t, err)
	require.False(t, loaded)

	preserved, readErr := os.ReadFile(path + ".backup")
	require.NoError(t, readErr)
	require.Equal(t, "{not json", string(preserved))
}
