package dict

// Parse scans raw and returns a Document indexing every section and its
// entries. It fails with a *SyntaxError (matching ErrMalformedDocument) when
// nesting is unbalanced, a section or entry is never closed, or an entry is
// missing its value or terminator.
func Parse(raw []byte, opts ...Option) (*Document, error) {
	toks, err := lex(raw)
	if err != nil {
		return nil, err
	}
	doc := &Document{
		raw:         raw,
		index:       make(map[string]*Section),
		newline:     detectNewline(raw),
		indentWidth: defaultIndentWidth,
	}
	for _, opt := range opts {
		opt(doc)
	}
	p := &locator{src: raw, toks: toks, doc: doc}
	if err := p.run(); err != nil {
		return nil, err
	}
	return doc, nil
}

type locator struct {
	src  []byte
	toks []token
	doc  *Document
}

// run walks the top level of the document, tracking nesting with a stack of
// opening delimiters, and hands every section header to section.
func (p *locator) run() error {
	var stack []token
	for i := 0; i < len(p.toks); {
		if p.sectionStartsAt(i) {
			sec, next, err := p.section(i)
			if err != nil {
				return err
			}
			if first, dup := p.doc.index[sec.Key]; dup {
				line, _ := position(p.src, first.Start)
				return syntaxErrorf(p.src, sec.Start, sec.Key, "duplicate section %q (first defined on line %d)", sec.Key, line)
			}
			p.doc.sections = append(p.doc.sections, sec)
			p.doc.index[sec.Key] = sec
			i = next
			continue
		}
		t := p.toks[i]
		if t.kind == tokPunct {
			switch t.punct {
			case '{', '[', '(':
				stack = append(stack, t)
			case '}', ']', ')':
				if len(stack) == 0 {
					return syntaxErrorf(p.src, t.start, "", "unexpected %q: nesting depth below zero", t.punct)
				}
				open := stack[len(stack)-1]
				if closerFor(open.punct) != t.punct {
					return syntaxErrorf(p.src, t.start, "", "%q does not close %q opened at offset %d", t.punct, open.punct, open.start)
				}
				stack = stack[:len(stack)-1]
			}
		}
		i++
	}
	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return syntaxErrorf(p.src, open.start, "", "%q is never closed", open.punct)
	}
	return nil
}

// sectionStartsAt matches `<key> : {` where the key is the first token on
// its line.
func (p *locator) sectionStartsAt(i int) bool {
	if i+2 >= len(p.toks) {
		return false
	}
	k := p.toks[i]
	return k.isKey() && k.kind != tokNumber &&
		p.toks[i+1].is(':') && p.toks[i+2].is('{') &&
		firstOnLine(p.src, k.start)
}

// section reads the body of the section whose key token is at i. It returns
// the index of the first token after the section's closing brace.
func (p *locator) section(i int) (*Section, int, error) {
	keyTok := p.toks[i]
	open := p.toks[i+2]
	start := lineStart(p.src, keyTok.start)
	sec := &Section{
		Key:     keyText(p.src, keyTok),
		Start:   start,
		openEnd: open.end,
		indent:  string(p.src[start:keyTok.start]),
		doc:     p.doc,
	}

	gapStart := open.end
	j := i + 3
	for {
		if j >= len(p.toks) {
			return nil, 0, syntaxErrorf(p.src, open.start, sec.Key, "section %q is never closed", sec.Key)
		}
		t := p.toks[j]
		if t.is('}') {
			sec.closeStart = t.start
			sec.End = t.end
			sec.items = append(sec.items, &item{kind: itemGap, start: gapStart, end: t.start, tail: true})
			return sec, j + 1, nil
		}
		if t.is(',') {
			// stray separator; it stays inside the surrounding gap
			j++
			continue
		}

		it := &item{kind: itemOther, start: t.start, nameStart: t.start, valueStart: t.start}
		valueAt := j
		if t.isKey() && j+1 < len(p.toks) && p.toks[j+1].is(':') {
			it.kind = itemEntry
			it.name = keyText(p.src, t)
			it.start = p.itemStart(t.start)
			valueAt = j + 2
			if valueAt >= len(p.toks) {
				return nil, 0, syntaxErrorf(p.src, open.start, sec.Key, "section %q is never closed", sec.Key)
			}
			if v := p.toks[valueAt]; v.is(',') || v.is('}') {
				return nil, 0, syntaxErrorf(p.src, t.start, sec.Key, "entry %q has no value", it.name)
			}
			it.valueStart = p.toks[valueAt].start
		} else if firstOnLine(p.src, t.start) {
			it.start = p.itemStart(t.start)
		}

		term, err := p.skipValue(valueAt, sec, it.name)
		if err != nil {
			return nil, 0, err
		}
		it.valueEnd = p.toks[term-1].end
		it.termEnd = it.valueEnd
		if p.toks[term].is(',') {
			it.comma = true
			it.termEnd = p.toks[term].end
			j = term + 1
		} else {
			j = term
		}
		it.end = p.extendEnd(it.termEnd)
		it.value = string(p.src[it.valueStart:it.valueEnd])

		sec.items = append(sec.items, &item{kind: itemGap, start: gapStart, end: it.start}, it)
		gapStart = it.end
	}
}

// skipValue advances from the first token of a value to the token that
// terminates it: a ',' or the section's '}' at the value's own depth.
func (p *locator) skipValue(j int, sec *Section, name string) (int, error) {
	var stack []token
	ternary := 0
	for k := j; k < len(p.toks); k++ {
		t := p.toks[k]
		if t.kind != tokPunct {
			continue
		}
		switch t.punct {
		case '{', '[', '(':
			stack = append(stack, t)
		case '}', ']', ')':
			if len(stack) == 0 {
				if t.punct == '}' {
					return k, nil
				}
				return 0, syntaxErrorf(p.src, t.start, sec.Key, "unexpected %q: nesting depth below zero", t.punct)
			}
			open := stack[len(stack)-1]
			if closerFor(open.punct) != t.punct {
				return 0, syntaxErrorf(p.src, t.start, sec.Key, "%q does not close %q opened at offset %d", t.punct, open.punct, open.start)
			}
			stack = stack[:len(stack)-1]
		case ',':
			if len(stack) == 0 {
				return k, nil
			}
		case '?':
			if len(stack) == 0 {
				ternary++
			}
		case ':':
			if len(stack) > 0 {
				continue
			}
			if ternary > 0 {
				ternary--
				continue
			}
			if name != "" {
				return 0, syntaxErrorf(p.src, p.toks[j].start, sec.Key, "entry %q has no terminator before offset %d", name, t.start)
			}
			return 0, syntaxErrorf(p.src, t.start, sec.Key, "unexpected ':' outside an entry")
		}
	}
	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return 0, syntaxErrorf(p.src, open.start, sec.Key, "%q is never closed", open.punct)
	}
	if name != "" {
		return 0, syntaxErrorf(p.src, p.toks[j].start, sec.Key, "entry %q is never terminated", name)
	}
	return 0, syntaxErrorf(p.src, p.toks[j].start, sec.Key, "section %q is never closed", sec.Key)
}

// itemStart widens an item to the start of its line when nothing but
// indentation precedes it.
func (p *locator) itemStart(off int) int {
	if firstOnLine(p.src, off) {
		return lineStart(p.src, off)
	}
	return off
}

// extendEnd grows an item's span over trailing blanks, a trailing line
// comment and the newline, when they follow it on the same line.
func (p *locator) extendEnd(off int) int {
	k := off
	for k < len(p.src) && (p.src[k] == ' ' || p.src[k] == '\t') {
		k++
	}
	if k+1 < len(p.src) && p.src[k] == '/' && p.src[k+1] == '/' {
		for k < len(p.src) && p.src[k] != '\n' {
			k++
		}
		if k == len(p.src) {
			return k
		}
	}
	switch {
	case k < len(p.src) && p.src[k] == '\n':
		return k + 1
	case k+1 < len(p.src) && p.src[k] == '\r' && p.src[k+1] == '\n':
		return k + 2
	}
	return off
}
