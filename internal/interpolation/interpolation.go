// Package interpolation finds the placeholders embedded in translated
// strings so that languages can be checked against each other.
package interpolation

import (
	"regexp"
)

// Placeholder is one interpolation variable found in a value.
type Placeholder struct {
	Text  string
	Start int
	End   int
}

// patterns to detect interpolation variables in UI strings.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\{\{\s*[a-zA-Z_][a-zA-Z0-9_.]*\s*\}\}`), // {{name}}
	regexp.MustCompile(`\$\{[a-zA-Z_][a-zA-Z0-9_.]*\}`),         // ${value}
	regexp.MustCompile(`\{[0-9]+\}`),                            // {0}, {1}
	regexp.MustCompile(`\{[a-zA-Z_][a-zA-Z0-9_]*\}`),            // {name}
	regexp.MustCompile(`%[-+0-9]*\.?[0-9]*[dsfieEgGxXoubcpq]`),  // %d, %s, %f, %2d, etc.
	regexp.MustCompile(`%%`),                                    // escaped percent literal
}

// Find returns the placeholders of text in order of appearance. Overlapping
// matches keep the earliest, longest one; an escaped %% is not reported.
func Find(text string) []Placeholder {
	var all []Placeholder
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			all = append(all, Placeholder{Text: text[loc[0]:loc[1]], Start: loc[0], End: loc[1]})
		}
	}
	if len(all) == 0 {
		return nil
	}

	sortMatches(all)

	var out []Placeholder
	lastEnd := -1
	for _, m := range all {
		if m.Start < lastEnd {
			continue
		}
		lastEnd = m.End
		if m.Text != "%%" {
			out = append(out, m)
		}
	}
	return out
}

// Names returns just the placeholder texts of Find.
func Names(text string) []string {
	found := Find(text)
	if len(found) == 0 {
		return nil
	}
	out := make([]string, len(found))
	for i, p := range found {
		out[i] = p.Text
	}
	return out
}

// Mismatch lists placeholders present on one side only. Repeated
// placeholders are counted, so "{n} {n}" against "{n}" misses one "{n}".
type Mismatch struct {
	Missing []string // in the reference, not in the candidate
	Extra   []string // in the candidate, not in the reference
}

// Empty reports whether both sides carry the same placeholders.
func (m Mismatch) Empty() bool { return len(m.Missing) == 0 && len(m.Extra) == 0 }

// Compare checks the placeholders of candidate against reference.
func Compare(reference, candidate string) Mismatch {
	ref := Names(reference)
	cand := Names(candidate)

	count := make(map[string]int, len(cand))
	for _, c := range cand {
		count[c]++
	}
	var m Mismatch
	for _, r := range ref {
		if count[r] > 0 {
			count[r]--
			continue
		}
		m.Missing = append(m.Missing, r)
	}
	for _, c := range cand {
		if count[c] > 0 {
			count[c]--
			m.Extra = append(m.Extra, c)
		}
	}
	return m
}

// sortMatches sorts by start position, then by length (descending) for overlaps.
func sortMatches(matches []Placeholder) {
	for i := 1; i < len(matches); i++ {
		key := matches[i]
		j := i - 1
		for j >= 0 && (matches[j].Start > key.Start ||
			(matches[j].Start == key.Start && (matches[j].End-matches[j].Start) < (key.End-key.Start))) {
			matches[j+1] = matches[j]
			j--
		}
		matches[j+1] = key
	}
}
