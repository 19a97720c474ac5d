package dict

import (
	"bytes"
	"strings"
)

// render writes a modified section. Untouched children and the gaps between
// them are copied from the original bytes; inserted entries use the form
// `<indent><name>: <value>,`.
func (s *Section) render(buf *bytes.Buffer) {
	src := s.doc.raw
	buf.Write(src[s.Start:s.openEnd])

	lastChild := -1
	for i, it := range s.items {
		if it.kind != itemGap {
			lastChild = i
		}
	}

	// Once an insert has put a line break into an inline run of children,
	// the children after it move onto lines of their own.
	afterInsert, broken := false, false
	for i, it := range s.items {
		switch {
		case it.kind == itemGap:
			text := src[it.start:it.end]
			if afterInsert || broken {
				var split bool
				text, split = s.gapAfterInsert(buf, it, text, afterInsert)
				broken = broken || split
			}
			buf.Write(text)
			afterInsert = false
		case it.inserted:
			s.writeInserted(buf, it)
			afterInsert = true
		default:
			s.writeChild(buf, it, !it.comma && (i < lastChild || broken))
			afterInsert = false
		}
	}
	buf.Write(src[s.closeStart:s.End])
}

func (s *Section) writeChild(buf *bytes.Buffer, it *item, needComma bool) {
	src := s.doc.raw
	if !it.updated && !needComma {
		buf.Write(src[it.start:it.end])
		return
	}
	buf.Write(src[it.start:it.valueStart])
	if it.kind == itemEntry {
		buf.WriteString(it.value)
	} else {
		buf.Write(src[it.valueStart:it.valueEnd])
	}
	if needComma {
		buf.WriteByte(',')
	}
	buf.Write(src[it.valueEnd:it.end])
}

func (s *Section) writeInserted(buf *bytes.Buffer, it *item) {
	nl := s.doc.newline
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] != '\n' {
		buf.WriteString(nl)
	}
	buf.WriteString(s.entryIndent())
	buf.WriteString(renderName(it.name))
	buf.WriteString(": ")
	buf.WriteString(it.value)
	buf.WriteByte(',')
	buf.WriteString(nl)
}

// gapAfterInsert adjusts a gap that follows an inserted line, or any gap
// after an inline run was split, so the next line keeps its shape. When the
// gap starts mid-line right after an insert, its blank remainder of that
// line is dropped. A blank mid-line gap without a line break becomes a line
// break and the entry indent, or the section indent before the closing
// brace; split reports that case.
func (s *Section) gapAfterInsert(buf *bytes.Buffer, g *item, text []byte, afterInsert bool) (out []byte, split bool) {
	src := s.doc.raw
	midLine := g.start > 0 && src[g.start-1] != '\n'
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		if afterInsert && midLine && len(bytes.TrimSpace(text[:i])) == 0 {
			return text[i+1:], false
		}
		return text, false
	}
	if !midLine || len(bytes.TrimSpace(text)) > 0 {
		return text, false
	}
	indent := s.entryIndent()
	if g.tail {
		indent = s.indent
	}
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] == '\n' {
		return []byte(indent), true
	}
	return []byte(s.doc.newline + indent), true
}

// entryIndent copies the indentation of the first child that starts its own
// line, falling back to the section indent plus one indent step.
func (s *Section) entryIndent() string {
	src := s.doc.raw
	for _, it := range s.items {
		if it.kind == itemGap || it.inserted {
			continue
		}
		if it.start == lineStart(src, it.nameStart) && it.start < it.nameStart {
			return string(src[it.start:it.nameStart])
		}
	}
	if strings.Contains(s.indent, "\t") {
		return s.indent + "\t"
	}
	return s.indent + strings.Repeat(" ", s.doc.indentWidth)
}
