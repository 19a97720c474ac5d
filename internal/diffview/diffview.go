// Package diffview renders the change an edit would make to an asset.
package diffview

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const contextLines = 2

// Unified returns a unified diff of before and after, labelled with path.
// It returns "" when the two are equal.
func Unified(path string, before, after []byte) (string, error) {
	if string(before) == string(after) {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  contextLines,
	})
}

// Stats counts added and removed lines in a unified diff.
func Stats(diff string) (adds, removes int) {
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			adds++
		case strings.HasPrefix(line, "-"):
			removes++
		}
	}
	return adds, removes
}
