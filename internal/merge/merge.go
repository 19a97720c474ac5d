// Package merge applies batches of entry upserts to the sections of a
// dictionary document.
package merge

import (
	"fmt"
	"strings"

	"locpatch/internal/dict"
)

// Upsert inserts or updates one entry. Value is written verbatim and must be
// a complete literal, quotes included.
type Upsert struct {
	Name   string
	Value  string
	Anchor string // optional; a new entry goes right after it
}

// Request is a batch of upserts aimed at one section.
type Request struct {
	Section string
	Entries []Upsert
}

// Policy decides what happens to a request that cannot be applied.
type Policy int

const (
	// FailClosed aborts the whole run on the first failing request.
	FailClosed Policy = iota
	// SkipAndReport leaves a failing request's section untouched, records
	// the failure in Result.Skipped and carries on with the next request.
	SkipAndReport
)

func (p Policy) String() string {
	if p == SkipAndReport {
		return "skip"
	}
	return "fail-closed"
}

// ParsePolicy accepts "fail-closed" or "skip".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail-closed", "fail":
		return FailClosed, nil
	case "skip", "skip-and-report":
		return SkipAndReport, nil
	}
	return FailClosed, fmt.Errorf("unknown policy %q (want fail-closed or skip)", s)
}

// Options tune Apply.
type Options struct {
	Policy      Policy
	IndentWidth int
}

// SectionReport summarises one applied request.
type SectionReport struct {
	Section   string
	Inserted  []string
	Updated   []string
	Unchanged []string
	Removed   []dict.Removal
}

// Skip records a request left out under SkipAndReport.
type Skip struct {
	Request int // index into the request slice
	Section string
	Err     error
}

// Result is the outcome of Apply.
type Result struct {
	Output   []byte
	Changed  bool
	Sections []SectionReport
	Skipped  []Skip
}

// Apply runs every request against raw in order. Each request is checked in
// full before any of its upserts touch the document, so a request is either
// applied completely or not at all. After a request's upserts its section is
// deduplicated, keeping the first entry of every name.
func Apply(raw []byte, reqs []Request, opts Options) (*Result, error) {
	var parseOpts []dict.Option
	if opts.IndentWidth > 0 {
		parseOpts = append(parseOpts, dict.WithIndentWidth(opts.IndentWidth))
	}
	doc, err := dict.Parse(raw, parseOpts...)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for i, req := range reqs {
		sec, err := check(doc, req)
		if err != nil {
			if opts.Policy == SkipAndReport {
				res.Skipped = append(res.Skipped, Skip{Request: i, Section: req.Section, Err: err})
				continue
			}
			return nil, err
		}
		res.Sections = append(res.Sections, apply(sec, req))
	}

	res.Output = doc.Bytes()
	res.Changed = doc.Dirty()
	return res, nil
}

// check validates a request against the current state of the document
// without modifying it.
func check(doc *dict.Document, req Request) (*dict.Section, error) {
	sec, ok := doc.Section(req.Section)
	if !ok {
		return nil, &RequestError{Section: req.Section, Err: ErrUnknownSection}
	}
	materialized := make(map[string]struct{}, len(req.Entries))
	has := func(name string) bool {
		if _, ok := materialized[name]; ok {
			return true
		}
		return sec.Has(name)
	}
	for _, u := range req.Entries {
		if u.Name == "" || strings.TrimSpace(u.Name) != u.Name || strings.ContainsAny(u.Name, "\r\n") {
			return nil, &RequestError{Section: req.Section, Name: u.Name, Err: ErrInvalidName}
		}
		if err := dict.ValidateValue(u.Value); err != nil {
			return nil, &RequestError{Section: req.Section, Name: u.Name, Err: ErrInvalidValue, Cause: err}
		}
		if has(u.Name) {
			continue
		}
		if u.Anchor != "" && !has(u.Anchor) {
			return nil, &RequestError{Section: req.Section, Name: u.Name, Anchor: u.Anchor, Err: ErrUnknownAnchor}
		}
		materialized[u.Name] = struct{}{}
	}
	return sec, nil
}

func apply(sec *dict.Section, req Request) SectionReport {
	rep := SectionReport{Section: req.Section}
	before := len(sec.Removed())
	for _, u := range req.Entries {
		switch sec.Upsert(u.Name, u.Value, u.Anchor) {
		case dict.Inserted:
			rep.Inserted = append(rep.Inserted, u.Name)
		case dict.Updated:
			rep.Updated = append(rep.Updated, u.Name)
		default:
			rep.Unchanged = append(rep.Unchanged, u.Name)
		}
	}
	sec.RemoveDuplicates()
	rep.Removed = sec.Removed()[before:]
	return rep
}
