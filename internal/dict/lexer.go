package dict

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokNumber
	tokPunct
	tokOther
)

// token is a lexical unit of the host document. Comments and whitespace are
// skipped; their bytes stay reachable through the offsets of the tokens
// around them.
type token struct {
	kind  tokenKind
	start int
	end   int
	punct byte
}

func (t token) is(p byte) bool { return t.kind == tokPunct && t.punct == p }

// isKey reports whether the token may name a section or an entry.
func (t token) isKey() bool {
	return t.kind == tokIdent || t.kind == tokString || t.kind == tokNumber
}

type lexer struct {
	src  []byte
	pos  int
	toks []token
}

// lex splits src into tokens. Quoted text, template literals (including
// nested ${...} expressions) and comments are consumed whole, so delimiters
// inside them never reach the parser.
func lex(src []byte) ([]token, error) {
	l := &lexer{src: src, toks: make([]token, 0, len(src)/4)}
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case c == '/' && l.peek(1) == '/':
			l.skipLineComment()
		case c == '/' && l.peek(1) == '*':
			if err := l.skipBlockComment(); err != nil {
				return nil, err
			}
		case c == '"' || c == '\'' || c == '`':
			start := l.pos
			if err := l.skipString(c); err != nil {
				return nil, err
			}
			l.emit(tokString, start, 0)
		case isIdentStart(c):
			start := l.pos
			for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
				l.pos++
			}
			l.emit(tokIdent, start, 0)
		case c >= '0' && c <= '9':
			start := l.pos
			for l.pos < len(l.src) && (isIdentPart(l.src[l.pos]) || l.src[l.pos] == '.') {
				l.pos++
			}
			l.emit(tokNumber, start, 0)
		case c == '.' && l.peek(1) == '.' && l.peek(2) == '.':
			l.pos += 3
			l.emit(tokOther, l.pos-3, 0)
		case isPunct(c):
			l.pos++
			l.emit(tokPunct, l.pos-1, c)
		default:
			l.pos++
			l.emit(tokOther, l.pos-1, 0)
		}
	}
	return l.toks, nil
}

func (l *lexer) emit(kind tokenKind, start int, punct byte) {
	l.toks = append(l.toks, token{kind: kind, start: start, end: l.pos, punct: punct})
}

func (l *lexer) peek(n int) byte {
	if l.pos+n < len(l.src) {
		return l.src[l.pos+n]
	}
	return 0
}

func (l *lexer) skipLineComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
}

func (l *lexer) skipBlockComment() error {
	start := l.pos
	l.pos += 2
	for l.pos+1 < len(l.src) {
		if l.src[l.pos] == '*' && l.src[l.pos+1] == '/' {
			l.pos += 2
			return nil
		}
		l.pos++
	}
	return syntaxErrorf(l.src, start, "", "unterminated block comment")
}

// skipString consumes a quoted literal starting at l.pos. A backslash always
// escapes the following byte.
func (l *lexer) skipString(quote byte) error {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\\':
			l.pos += 2
		case c == quote:
			l.pos++
			return nil
		case quote == '`' && c == '$' && l.peek(1) == '{':
			l.pos += 2
			if err := l.skipTemplateExpr(); err != nil {
				return err
			}
		default:
			l.pos++
		}
	}
	return syntaxErrorf(l.src, start, "", "unterminated string literal")
}

// skipTemplateExpr consumes the body of a ${...} substitution, up to and
// including its closing brace.
func (l *lexer) skipTemplateExpr() error {
	start := l.pos - 2
	depth := 1
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '"' || c == '\'' || c == '`':
			if err := l.skipString(c); err != nil {
				return err
			}
		case c == '/' && l.peek(1) == '/':
			l.skipLineComment()
		case c == '/' && l.peek(1) == '*':
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		case c == '{':
			depth++
			l.pos++
		case c == '}':
			depth--
			l.pos++
			if depth == 0 {
				return nil
			}
		default:
			l.pos++
		}
	}
	return syntaxErrorf(l.src, start, "", "unterminated template substitution")
}

func isPunct(c byte) bool {
	switch c {
	case '{', '}', '[', ']', '(', ')', ',', ':', '?':
		return true
	}
	return false
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func closerFor(open byte) byte {
	switch open {
	case '{':
		return '}'
	case '[':
		return ']'
	case '(':
		return ')'
	}
	return 0
}
