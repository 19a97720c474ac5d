package merge

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownSection means a request targets a section key absent from the document.
	ErrUnknownSection = errors.New("unknown section")
	// ErrUnknownAnchor means an anchor names an entry that is neither present
	// nor inserted earlier in the same call.
	ErrUnknownAnchor = errors.New("unknown anchor")
	// ErrInvalidValue means a value text cannot stand as a single entry value.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidName means an entry name is empty or spans several lines.
	ErrInvalidName = errors.New("invalid name")
)

// RequestError ties a failure to the request and entry that caused it.
type RequestError struct {
	Section string
	Name    string
	Anchor  string
	Err     error // one of the sentinels above
	Cause   error // optional detail, e.g. a *dict.SyntaxError for a bad value
}

func (e *RequestError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: section %q", e.Err, e.Section)
	if e.Name != "" {
		fmt.Fprintf(&b, ", entry %q", e.Name)
	}
	if e.Anchor != "" {
		fmt.Fprintf(&b, ", anchor %q", e.Anchor)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap exposes only the sentinel; Cause stays a detail so that a bad value
// is never mistaken for a malformed document.
func (e *RequestError) Unwrap() error { return e.Err }
