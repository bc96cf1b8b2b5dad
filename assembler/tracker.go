package assembler

// tracker strips nested comments and checks bracket balance. It is fed the
// virtual token stream, i.e. tokens in the order pass 1 walks them after
// macro expansion, so a bracket opened inside a macro body may legally close
// outside of it.
type tracker struct {
	openComments []Token // spans of currently open ( tokens
	openBrackets []Token
}

// feed reports whether the token survives filtering. Comment and bracket
// delimiters never survive; ordinary tokens survive unless a comment is
// open.
func (t *tracker) feed(tok Token) (bool, *AssemblyError) {
	switch tok.Kind {
	case TokenOpenComment:
		t.openComments = append(t.openComments, tok)
		return false, nil
	case TokenCloseComment:
		if len(t.openComments) == 0 {
			return false, Errors.UnmatchedCloseComment(tok)
		}
		t.openComments = t.openComments[:len(t.openComments)-1]
		return false, nil
	}
	if len(t.openComments) > 0 {
		return false, nil
	}
	switch tok.Kind {
	case TokenOpenBracket:
		t.openBrackets = append(t.openBrackets, tok)
		return false, nil
	case TokenCloseBracket:
		if len(t.openBrackets) == 0 {
			return false, Errors.UnmatchedCloseBracket(tok)
		}
		t.openBrackets = t.openBrackets[:len(t.openBrackets)-1]
		return false, nil
	}
	return true, nil
}

// finish validates that nothing is left open at end of input. The reported
// span is the earliest unclosed delimiter.
func (t *tracker) finish() *AssemblyError {
	if len(t.openComments) > 0 {
		return Errors.UnclosedComment(t.openComments[0])
	}
	if len(t.openBrackets) > 0 {
		return Errors.UnclosedBracket(t.openBrackets[0])
	}
	return nil
}
