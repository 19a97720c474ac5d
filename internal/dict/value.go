package dict

// ValidateValue checks that text can stand, byte for byte, as the value of a
// single entry: it must lex cleanly, keep its delimiters balanced and contain
// no top-level ',' or ':' that would split it into several children. Leading
// or trailing blanks and comments are rejected because they would swallow the
// separator written after the value.
func ValidateValue(text string) error {
	src := []byte(text)
	toks, err := lex(src)
	if err != nil {
		return err
	}
	if len(toks) == 0 {
		return syntaxErrorf(src, 0, "", "empty value")
	}
	if toks[0].start != 0 || toks[len(toks)-1].end != len(src) {
		return syntaxErrorf(src, 0, "", "value has leading or trailing blanks or comments")
	}
	var stack []token
	ternary := 0
	for _, t := range toks {
		if t.kind != tokPunct {
			continue
		}
		switch t.punct {
		case '{', '[', '(':
			stack = append(stack, t)
		case '}', ']', ')':
			if len(stack) == 0 {
				return syntaxErrorf(src, t.start, "", "unexpected %q: nesting depth below zero", t.punct)
			}
			if open := stack[len(stack)-1]; closerFor(open.punct) != t.punct {
				return syntaxErrorf(src, t.start, "", "%q does not close %q", t.punct, open.punct)
			}
			stack = stack[:len(stack)-1]
		case ',':
			if len(stack) == 0 {
				return syntaxErrorf(src, t.start, "", "top-level ',' would split the entry")
			}
		case '?':
			if len(stack) == 0 {
				ternary++
			}
		case ':':
			if len(stack) == 0 {
				if ternary == 0 {
					return syntaxErrorf(src, t.start, "", "top-level ':' would start another entry")
				}
				ternary--
			}
		}
	}
	if len(stack) > 0 {
		return syntaxErrorf(src, stack[len(stack)-1].start, "", "%q is never closed", stack[len(stack)-1].punct)
	}
	return nil
}
