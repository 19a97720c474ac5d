package dedup

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locpatch/internal/dict"
)

const dirty = "export const translations = {\n" +
	"  en: {\n" +
	"    a: \"1\",\n" +
	"    a: \"1\",\n" +
	"    b: \"2\",\n" +
	"  },\n" +
	"  fr: {\n" +
	"    x: \"old\",\n" +
	"    y: \"y\",\n" +
	"    // the later copy\n" +
	"    x: \"new\",\n" +
	"  },\n" +
	"};\n"

func TestRepairKeepsFirstOccurrence(t *testing.T) {
	res, err := Repair([]byte(dirty), Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total())
	assert.Equal(t, map[string]int{"en": 1, "fr": 1}, res.PerSection)

	doc, err := dict.Parse(res.Output)
	require.NoError(t, err)
	fr, ok := doc.Section("fr")
	require.True(t, ok)
	assert.Len(t, fr.Entries(), 2)
	v, _ := fr.Get("x")
	assert.Equal(t, `"old"`, v)

	want := strings.Replace(dirty, "    a: \"1\",\n    a: \"1\",\n", "    a: \"1\",\n", 1)
	want = strings.Replace(want, "    x: \"new\",\n", "", 1)
	assert.Equal(t, want, string(res.Output))
}

func TestRepairIsIdempotent(t *testing.T) {
	once, err := Repair([]byte(dirty), Options{})
	require.NoError(t, err)
	twice, err := Repair(once.Output, Options{})
	require.NoError(t, err)

	assert.Zero(t, twice.Total())
	assert.Empty(t, twice.PerSection)
	assert.Equal(t, once.Output, twice.Output)
}

func TestRepairCleanDocumentIsByteIdentical(t *testing.T) {
	clean := "const t = {\n\ten: {\n\t\ta: \"1\", // keep\n\n\t\tb: `two ${n}`\n\t},\n};"
	res, err := Repair([]byte(clean), Options{})
	require.NoError(t, err)
	assert.Zero(t, res.Total())
	assert.Equal(t, clean, string(res.Output))
}

func TestRepairKeepsFollowingLineOfMidLineDuplicate(t *testing.T) {
	src := "const t = {\n  fr: {\n    x: \"old\", x: \"new\",\n    y: 2,\n  },\n};\n"
	res, err := Repair([]byte(src), Options{})
	require.NoError(t, err)

	assert.Equal(t, "const t = {\n  fr: {\n    x: \"old\",\n    y: 2,\n  },\n};\n", string(res.Output))
	assert.Equal(t, 1, res.Total())
}

func TestRepairMalformedDocument(t *testing.T) {
	_, err := Repair([]byte("const t = {\n  en: {\n    a: \"1\n"), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, dict.ErrMalformedDocument))
}
