package dict

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrMalformedDocument is the sentinel matched by every SyntaxError.
var ErrMalformedDocument = errors.New("malformed document")

// SyntaxError reports where scanning a document failed.
type SyntaxError struct {
	// Offset is the 0-based byte offset of the faulty region.
	Offset int
	// Line and Column are 1-based and derived from Offset.
	Line   int
	Column int
	// Section is the key of the enclosing section, empty when outside one.
	Section string
	Msg     string
}

func (e *SyntaxError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("malformed document: line %d col %d (offset %d) in section %q: %s",
			e.Line, e.Column, e.Offset, e.Section, e.Msg)
	}
	return fmt.Sprintf("malformed document: line %d col %d (offset %d): %s", e.Line, e.Column, e.Offset, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrMalformedDocument }

func syntaxErrorf(src []byte, off int, section, format string, args ...any) *SyntaxError {
	line, col := position(src, off)
	return &SyntaxError{
		Offset:  off,
		Line:    line,
		Column:  col,
		Section: section,
		Msg:     fmt.Sprintf(format, args...),
	}
}

// position converts a byte offset into a 1-based line and column.
func position(src []byte, off int) (int, int) {
	if off > len(src) {
		off = len(src)
	}
	if off < 0 {
		off = 0
	}
	before := src[:off]
	line := bytes.Count(before, []byte("\n")) + 1
	col := off - (bytes.LastIndexByte(before, '\n') + 1) + 1
	return line, col
}
