package asset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locpatch/internal/merge"
)

const doc = "export const translations = {\n  en: {\n    a: \"1\",\n  },\n};\n"

func writeAsset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "translations.ts")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
	return path
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".locpatch-"), "temp file left behind: %s", e.Name())
	}
}

func TestWriteAtomicReplacesContentAndKeepsMode(t *testing.T) {
	path := writeAsset(t, doc)

	written, err := WriteAtomic(path, []byte("v2"))
	require.NoError(t, err)
	assert.True(t, written)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	}
	assertNoTempFiles(t, filepath.Dir(path))
}

func TestWriteAtomicSkipsUnchangedContent(t *testing.T) {
	path := writeAsset(t, doc)
	before, err := os.Stat(path)
	require.NoError(t, err)

	written, err := WriteAtomic(path, []byte(doc))
	require.NoError(t, err)
	assert.False(t, written)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestWriteAtomicMissingFile(t *testing.T) {
	_, err := WriteAtomic(filepath.Join(t.TempDir(), "nope.ts"), []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestEditLeavesAssetUntouchedOnFailure(t *testing.T) {
	path := writeAsset(t, doc)

	_, _, written, err := Edit(context.Background(), path, false, func(raw []byte) ([]byte, error) {
		res, err := merge.Apply(raw, []merge.Request{{
			Section: "de",
			Entries: []merge.Upsert{{Name: "a", Value: `"eins"`}},
		}}, merge.Options{})
		if err != nil {
			return nil, err
		}
		return res.Output, nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, merge.ErrUnknownSection))
	assert.False(t, written)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc, string(got))
	assertNoTempFiles(t, filepath.Dir(path))
}

func TestEditDryRunDoesNotWrite(t *testing.T) {
	path := writeAsset(t, doc)

	before, after, written, err := Edit(context.Background(), path, true, func(raw []byte) ([]byte, error) {
		return append(raw, "// touched\n"...), nil
	})
	require.NoError(t, err)
	assert.False(t, written)
	assert.Equal(t, doc, string(before))
	assert.Equal(t, doc+"// touched\n", string(after))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc, string(got))
}

func TestEditHonoursCancelledContext(t *testing.T) {
	path := writeAsset(t, doc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, _, err := Edit(ctx, path, false, func(raw []byte) ([]byte, error) { return raw, nil })
	assert.ErrorIs(t, err, context.Canceled)
}
