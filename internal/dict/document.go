// Package dict locates the per-language sections of a dictionary source file
// and edits their entries without disturbing the bytes around them.
package dict

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const defaultIndentWidth = 2

// Document is a parsed dictionary asset. It keeps the original bytes and an
// index of every section found in them.
type Document struct {
	raw         []byte
	sections    []*Section
	index       map[string]*Section
	newline     string
	indentWidth int
}

// Option customises how a Document renders newly inserted entries.
type Option func(*Document)

// WithIndentWidth sets the number of spaces used to indent inserted entries
// when a section has no existing entry to copy the indentation from.
func WithIndentWidth(n int) Option {
	return func(d *Document) {
		if n > 0 {
			d.indentWidth = n
		}
	}
}

// Sections returns the sections in document order.
func (d *Document) Sections() []*Section {
	out := make([]*Section, len(d.sections))
	copy(out, d.sections)
	return out
}

// Section looks up a section by key.
func (d *Document) Section(key string) (*Section, bool) {
	s, ok := d.index[key]
	return s, ok
}

// Raw returns the bytes the document was parsed from.
func (d *Document) Raw() []byte { return d.raw }

// Dirty reports whether any section has been modified.
func (d *Document) Dirty() bool {
	for _, s := range d.sections {
		if s.dirty {
			return true
		}
	}
	return false
}

// Bytes renders the document. Bytes outside modified sections are copied
// from the original verbatim.
func (d *Document) Bytes() []byte {
	if !d.Dirty() {
		return append([]byte(nil), d.raw...)
	}
	var buf bytes.Buffer
	buf.Grow(len(d.raw) + 256)
	prev := 0
	for _, s := range d.sections {
		buf.Write(d.raw[prev:s.Start])
		if s.dirty {
			s.render(&buf)
		} else {
			buf.Write(d.raw[s.Start:s.End])
		}
		prev = s.End
	}
	buf.Write(d.raw[prev:])
	return buf.Bytes()
}

func detectNewline(raw []byte) string {
	if bytes.Contains(raw, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

func lineStart(src []byte, off int) int {
	return bytes.LastIndexByte(src[:off], '\n') + 1
}

// firstOnLine reports whether only blanks precede off on its line.
func firstOnLine(src []byte, off int) bool {
	return strings.TrimLeft(string(src[lineStart(src, off):off]), " \t") == ""
}

// keyText returns the name a key token spells: quotes removed and, for
// '...' and "..." keys, escape sequences decoded, so `"it\u0027s"` and
// `'it\'s'` both name it's.
func keyText(src []byte, t token) string {
	if t.kind == tokString && t.end-t.start >= 2 {
		inner := string(src[t.start+1 : t.end-1])
		if src[t.start] == '`' {
			return inner
		}
		return unescape(inner)
	}
	return string(src[t.start:t.end])
}

// unescape decodes the escape sequences of a quoted literal body. An escape
// that is not recognised stands for the escaped character itself.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'b':
			b.WriteByte('\b')
			i++
		case 'f':
			b.WriteByte('\f')
			i++
		case 'v':
			b.WriteByte('\v')
			i++
		case '0':
			b.WriteByte(0)
			i++
		case '\r':
			// line continuation
			i++
			if i < len(s) && s[i] == '\n' {
				i++
			}
		case '\n':
			i++
		case 'x':
			if i+3 <= len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
					b.WriteRune(rune(v))
					i += 3
					continue
				}
			}
			b.WriteByte('x')
			i++
		case 'u':
			r, n := hexEscape(s[i+1:])
			if n == 0 {
				b.WriteByte('u')
				i++
				continue
			}
			i += 1 + n
			if utf16.IsSurrogate(r) && strings.HasPrefix(s[i:], `\u`) {
				if low, m := hexEscape(s[i+2:]); m > 0 {
					if d := utf16.DecodeRune(r, low); d != utf8.RuneError {
						r = d
						i += 2 + m
					}
				}
			}
			b.WriteRune(r)
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size
		}
	}
	return b.String()
}

// hexEscape reads the digits of a \u escape, either XXXX or {X...}. It
// returns the code point and the number of bytes consumed, 0 when s does not
// start with a valid escape.
func hexEscape(s string) (rune, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || v > utf8.MaxRune {
			return 0, 0
		}
		return rune(v), end + 1
	}
	if len(s) < 4 {
		return 0, 0
	}
	v, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, 0
	}
	return rune(v), 4
}
