package fileio

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitChange(t *testing.T, changes <-chan Change) Change {
	t.Helper()
	select {
	case c, ok := <-changes:
		require.True(t, ok, "channel closed")
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
		return Change{}
	}
}

func TestWatchFileReportsSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.parquet")
	require.NoError(t, WriteParquet(context.Background(), path, sampleTable(t), DefaultOptions()))

	changes, closer, err := WatchFile(path)
	require.NoError(t, err)
	defer closer.Close()

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	require.NoError(t, WriteParquet(context.Background(), path, sampleTable(t), DefaultOptions()))
	c := waitChange(t, changes)
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	assert.Equal(t, abs, c.Path)
	assert.False(t, c.Removed)
}

func TestWatchFileReportsRemoval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.parquet")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	changes, closer, err := WatchFile(path)
	require.NoError(t, err)
	defer closer.Close()

	require.NoError(t, os.Remove(path))
	assert.True(t, waitChange(t, changes).Removed)
}

func TestWatchFileCloseEndsChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.parquet")
	changes, closer, err := WatchFile(path)
	require.NoError(t, err)
	require.NoError(t, closer.Close())

	select {
	case _, ok := <-changes:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed")
	}
}

func TestWatchFileMissingDirectory(t *testing.T) {
	_, _, err := WatchFile(filepath.Join(t.TempDir(), "missing", "f.parquet"))
	assert.Error(t, err)
}
