// Package sinkfs publishes export output files atomically. The rendered
// bytes land in a temp file next to the destination and are renamed into
// place only once fully written, so a failed run never leaves a partial
// output file behind.
package sinkfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goliatone/go-places-export/export"
)

// Sink writes export output to the local filesystem.
type Sink struct{}

// New creates a filesystem sink.
func New() *Sink {
	return &Sink{}
}

// Put writes the reader's content to path, creating parent directories as
// needed. The temp file is always cleaned up; the destination only appears
// on success.
func (s *Sink) Put(ctx context.Context, path string, r io.Reader) (int64, error) {
	if path == "" {
		return 0, export.NewError(export.KindValidation, "output path is required", nil)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, export.NewError(export.KindWrite,
			fmt.Sprintf("create output directory %q", dir), err)
	}

	tmp, err := os.CreateTemp(dir, ".places-export-*")
	if err != nil {
		return 0, export.NewError(export.KindWrite, "create temp output file", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, r)
	if err != nil {
		return 0, export.NewError(export.KindWrite,
			fmt.Sprintf("write output file %q", path), err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, export.NewError(export.KindWrite,
			fmt.Sprintf("sync output file %q", path), err)
	}
	if err := tmp.Close(); err != nil {
		return 0, export.NewError(export.KindWrite,
			fmt.Sprintf("close output file %q", path), err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, export.NewError(export.KindWrite,
			fmt.Sprintf("publish output file %q", path), err)
	}
	return size, nil
}
