// Package asset reads a dictionary file and writes its replacement in one
// atomic step, so readers never observe a half-written file.
package asset

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

const tempPattern = ".locpatch-*"

// Read loads the whole asset.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read asset: %w", err)
	}
	return data, nil
}

// WriteAtomic replaces path with data through a temporary file in the same
// directory. The original file mode is kept. It reports false and leaves the
// file alone when data equals the current content.
func WriteAtomic(path string, data []byte) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat asset: %w", err)
	}
	current, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read asset: %w", err)
	}
	if bytes.Equal(current, data) {
		return false, nil
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return false, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	fail := func(err error) (bool, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return false, err
	}

	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return fail(fmt.Errorf("chmod temp file: %w", err))
	}
	if _, err := tmp.Write(data); err != nil {
		return fail(fmt.Errorf("write temp file: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("sync temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return false, fmt.Errorf("close temp file: %w", err)
	}
	if err := osReplace(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return false, fmt.Errorf("replace asset: %w", err)
	}
	_ = syncDir(dir)
	return true, nil
}

// Transform computes the new content of an asset from its current bytes.
type Transform func(raw []byte) ([]byte, error)

// Edit reads path, runs fn and atomically writes the result back. When fn
// fails nothing is written. dryRun runs fn without writing.
func Edit(ctx context.Context, path string, dryRun bool, fn Transform) (before, after []byte, written bool, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, false, err
	}
	before, err = Read(path)
	if err != nil {
		return nil, nil, false, err
	}
	after, err = fn(before)
	if err != nil {
		return before, nil, false, err
	}
	if dryRun {
		return before, after, false, nil
	}
	// last chance to back out before the file is replaced
	if err := ctx.Err(); err != nil {
		return before, after, false, err
	}
	written, err = WriteAtomic(path, after)
	return before, after, written, err
}
