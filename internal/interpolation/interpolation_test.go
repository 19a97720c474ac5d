package interpolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNames(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{`"Hello {{ user }}, you have {0} items"`, []string{"{{ user }}", "{0}"}},
		{"`Total: ${amount.value} (${pct}%)`", []string{"${amount.value}", "${pct}"}},
		{`"Paid %s of %.2f, 100%% done"`, []string{"%s", "%.2f"}},
		{`"Welcome {name}!"`, []string{"{name}"}},
		{`"50% off"`, nil},
		{`"no placeholders"`, nil},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Names(tc.in), tc.in)
	}
}

func TestFindPositions(t *testing.T) {
	got := Find(`"a {{x}} b"`)
	assert.Equal(t, []Placeholder{{Text: "{{x}}", Start: 3, End: 8}}, got)
}

func TestCompare(t *testing.T) {
	m := Compare(`"Hi {name}, {count} new"`, `"Salut {name}, {nombre} nouveaux"`)
	assert.Equal(t, []string{"{count}"}, m.Missing)
	assert.Equal(t, []string{"{nombre}"}, m.Extra)
	assert.False(t, m.Empty())

	m = Compare(`"{n} of {n}"`, `"{n}"`)
	assert.Equal(t, []string{"{n}"}, m.Missing)
	assert.Empty(t, m.Extra)

	assert.True(t, Compare(`"%d files"`, `"%d fichiers"`).Empty())
}
