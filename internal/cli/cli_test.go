package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locpatch/internal/config"
	"locpatch/internal/merge"
)

const sampleAsset = `export const translations = {
  en: {
    a: "1",
    b: "2",
  },
  fr: {
    x: "old",
    x: "new",
  },
};
`

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:         "error",
		LogFormat:        "console",
		WorkerCount:      2,
		IndentWidth:      2,
		AssetPattern:     "*translations*",
		ReferenceSection: "en",
		Policy:           "fail-closed",
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(testConfig())
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestApplyWritesAsset(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "translations.ts", sampleAsset)
	patch := writeFile(t, dir, "patch.yaml", "en:\n  c:\n    value: \"3\"\n    after: a\n  b: two\n")

	out, err := run(t, "apply", target, patch)
	require.NoError(t, err)
	assert.Contains(t, out, "1 inserted, 1 updated, 0 unchanged, 0 duplicates removed")

	got := readFile(t, target)
	assert.Contains(t, got, "    a: \"1\",\n    c: \"3\",\n    b: \"two\",\n")
	assert.Contains(t, got, "x: \"new\"", "untouched sections keep their duplicates")

	out, err = run(t, "apply", target, patch)
	require.NoError(t, err)
	assert.Contains(t, out, "0 inserted, 0 updated, 2 unchanged")
	assert.Equal(t, got, readFile(t, target))
}

func TestApplyUnknownSectionLeavesAssetUntouched(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "translations.ts", sampleAsset)
	patch := writeFile(t, dir, "patch.json", `{"de": {"a": "eins"}, "en": {"c": "3"}}`)

	_, err := run(t, "apply", target, patch)
	require.Error(t, err)
	assert.True(t, errors.Is(err, merge.ErrUnknownSection))
	assert.Equal(t, sampleAsset, readFile(t, target))
}

func TestApplySkipMissingAppliesTheRest(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "translations.ts", sampleAsset)
	patch := writeFile(t, dir, "patch.ini", "[de]\na = eins\n\n[en]\nc = 3\n")

	out, err := run(t, "apply", "--skip-missing", target, patch)
	require.NoError(t, err)
	assert.Contains(t, out, "1 requests skipped")
	assert.Contains(t, readFile(t, target), "    c: \"3\",\n")
}

func TestApplyDryRunPrintsDiff(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "translations.ts", sampleAsset)
	patch := writeFile(t, dir, "patch.yml", "fr:\n  y: nouveau\n")

	out, err := run(t, "apply", "--dry-run", target, patch)
	require.NoError(t, err)
	assert.Contains(t, out, "+    y: \"nouveau\",")
	assert.Contains(t, out, "-    x: \"new\",")
	assert.Equal(t, sampleAsset, readFile(t, target))
}

func TestRepairPrintsRemovedCount(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "translations.ts", sampleAsset)

	out, err := run(t, "repair", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 duplicate entries from")
	assert.NotContains(t, readFile(t, target), `x: "new"`)

	out, err = run(t, "repair", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 duplicate entries from")
}

func TestRepairDirectoryReportsFailuresAndKeepsGoing(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "web/translations.ts", sampleAsset)
	broken := "export const translations = {\n  en: {\n    a: \"1\"\n    b: \"2\",\n  },\n};\n"
	bad := writeFile(t, dir, "admin/translations.ts", broken)
	writeFile(t, dir, "web/other.ts", sampleAsset)

	out, err := run(t, "repair", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed document")
	assert.Contains(t, out, "Removed 1 duplicate entries in total")

	assert.NotContains(t, readFile(t, good), `x: "new"`)
	assert.Equal(t, broken, readFile(t, bad))
	assert.Equal(t, sampleAsset, readFile(t, filepath.Join(dir, "web/other.ts")))
}

func TestInspectPrintsYAML(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "translations.ts", sampleAsset)

	out, err := run(t, "inspect", target)
	require.NoError(t, err)
	assert.Contains(t, out, "reference: en")
	assert.Contains(t, out, "- x")

	_, err = run(t, "inspect", "--strict", target)
	assert.ErrorIs(t, err, errIssuesFound)
}

func TestBadLogLevelIsRejected(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "translations.ts", sampleAsset)
	_, err := run(t, "--log-level", "loud", "inspect", target)
	assert.Error(t, err)
}

func TestInspectPrintsJSON(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "translations.ts", sampleAsset)

	out, err := run(t, "inspect", "--format", "json", "--reference", "fr", target)
	require.NoError(t, err)
	assert.Contains(t, out, `"reference":"fr"`)
	assert.Contains(t, out, `"duplicates":["x"]`)

	_, err = run(t, "inspect", "--format", "toml", target)
	assert.Error(t, err)
}
