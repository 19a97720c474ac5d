package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsIdentifier(t *testing.T) {
	cases := map[string]bool{
		"donate_here": true,
		"$ref":        true,
		"_x1":         true,
		"1abc":        false,
		"zh-CN":       false,
		"":            false,
		"with space":  false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsIdentifier(in), in)
	}
}

func TestQuoteLiteralKeepsUnicode(t *testing.T) {
	assert.Equal(t, `"Faire un don ici"`, QuoteLiteral("Faire un don ici"))
	assert.Equal(t, `"在此捐赠"`, QuoteLiteral("在此捐赠"))
	assert.Equal(t, `"say \"hi\"\n"`, QuoteLiteral("say \"hi\"\n"))
	assert.Equal(t, `"<b>&</b>"`, QuoteLiteral("<b>&</b>"))
}

func TestTruncateIsRuneSafe(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
	assert.Equal(t, "यहाँ...", Truncate("यहाँ दान करें", 4))
}
