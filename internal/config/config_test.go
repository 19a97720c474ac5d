package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{
		"LOCPATCH_LOG_LEVEL", "LOCPATCH_LOG_FORMAT", "LOCPATCH_WORKERS", "LOCPATCH_INDENT",
		"LOCPATCH_ASSET_PATTERN", "LOCPATCH_REFERENCE_SECTION", "LOCPATCH_POLICY",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, &Config{
		LogLevel:         "info",
		LogFormat:        "console",
		WorkerCount:      4,
		IndentWidth:      2,
		AssetPattern:     "*translations*",
		ReferenceSection: "en",
		Policy:           "fail-closed",
	}, cfg)
}

func TestLoadReadsDotEnvWithoutOverridingEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("LOCPATCH_REFERENCE_SECTION=fr\nLOCPATCH_WORKERS=9\n"), 0o644))
	t.Setenv("LOCPATCH_WORKERS", "2")
	t.Setenv("LOCPATCH_REFERENCE_SECTION", "")
	os.Unsetenv("LOCPATCH_REFERENCE_SECTION")

	cfg := Load()
	assert.Equal(t, "fr", cfg.ReferenceSection)
	assert.Equal(t, 2, cfg.WorkerCount)
}

func TestGetEnvIntFallsBackOnBadValues(t *testing.T) {
	t.Setenv("LOCPATCH_TEST_INT", "many")
	assert.Equal(t, 3, getEnvInt("LOCPATCH_TEST_INT", 3))
	t.Setenv("LOCPATCH_TEST_INT", "0")
	assert.Equal(t, 3, getEnvInt("LOCPATCH_TEST_INT", 3))
	t.Setenv("LOCPATCH_TEST_INT", "7")
	assert.Equal(t, 7, getEnvInt("LOCPATCH_TEST_INT", 3))
}
