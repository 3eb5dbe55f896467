package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NoSnapshotYetReturnsNotOK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	_, ok, err := Load(path)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	want := State{
		Visited:     []string{"http://h/", "http://h/a"},
		Frontier:    []FrontierEntry{{URL: "http://h/b", Depth: 1}},
		Fingerprint: map[string][]byte{"http://h/": []byte("body")},
	}

	require.NoError(t, Save(path, want))

	got, ok, err := Load(path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestSave_OverwritesPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	require.NoError(t, Save(path, State{Visited: []string{"http://h/old"}}))
	require.NoError(t, Save(path, State{Visited: []string{"http://h/new"}}))

	got, ok, err := Load(path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"http://h/new"}, got.Visited)
}
