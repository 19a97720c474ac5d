package diffview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnified(t *testing.T) {
	before := "en: {\n  a: \"1\",\n  b: \"2\",\n},\n"
	after := "en: {\n  a: \"1\",\n  c: \"3\",\n  b: \"2\",\n},\n"

	diff, err := Unified("translations.ts", []byte(before), []byte(after))
	require.NoError(t, err)
	assert.Contains(t, diff, "--- a/translations.ts")
	assert.Contains(t, diff, "+++ b/translations.ts")
	assert.Contains(t, diff, "+  c: \"3\",\n")

	adds, removes := Stats(diff)
	assert.Equal(t, 1, adds)
	assert.Equal(t, 0, removes)
}

func TestUnifiedEqualInputs(t *testing.T) {
	diff, err := Unified("x", []byte("same\n"), []byte("same\n"))
	require.NoError(t, err)
	assert.Empty(t, diff)
}
