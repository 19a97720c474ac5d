// Package dedup is the standalone repair pass: it drops every repeated entry
// name from every section of a dictionary document.
package dedup

import "locpatch/internal/dict"

// Options tune Repair.
type Options struct {
	IndentWidth int
}

// Result is the outcome of Repair.
type Result struct {
	Output  []byte
	Removed []dict.Removal
	// PerSection counts removals by section key; sections without
	// duplicates are absent.
	PerSection map[string]int
}

// Total is the number of entries removed across all sections.
func (r *Result) Total() int { return len(r.Removed) }

// Repair keeps the first occurrence of every name in every section. A clean
// document comes back byte-identical with a zero total.
func Repair(raw []byte, opts Options) (*Result, error) {
	var parseOpts []dict.Option
	if opts.IndentWidth > 0 {
		parseOpts = append(parseOpts, dict.WithIndentWidth(opts.IndentWidth))
	}
	doc, err := dict.Parse(raw, parseOpts...)
	if err != nil {
		return nil, err
	}

	res := &Result{PerSection: make(map[string]int)}
	for _, sec := range doc.Sections() {
		if n := sec.RemoveDuplicates(); n > 0 {
			res.PerSection[sec.Key] = n
			res.Removed = append(res.Removed, sec.Removed()...)
		}
	}
	res.Output = doc.Bytes()
	return res, nil
}
