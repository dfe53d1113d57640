package sinkfs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-places-export/export"
)

func TestPut_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "restaurants.csv")

	size, err := New().Put(context.Background(), path, strings.NewReader("name\nJoe's Diner\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(17), size)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name\nJoe's Diner\n", string(content))
}

func TestPut_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restaurants.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	_, err := New().Put(context.Background(), path, strings.NewReader("fresh"))
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(content))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("source exploded")
}

func TestPut_FailedReadLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "restaurants.csv")

	_, err := New().Put(context.Background(), path, failingReader{})
	require.Error(t, err)
	assert.Equal(t, export.KindWrite, export.KindFromError(err))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "destination should not exist")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files should be cleaned up")
}

func TestPut_EmptyPath(t *testing.T) {
	_, err := New().Put(context.Background(), "", strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, export.KindValidation, export.KindFromError(err))
}
