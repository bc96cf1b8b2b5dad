package assembler

// Tokenizer converts raw source text into a positioned token stream. It is a
// pure function of the input: malformed lexemes are classified, never
// rejected, and later stages attach the errors.
//
// Splitting rule: whitespace always separates tokens, and the six delimiter
// characters ()[]{}  are token boundaries on their own, so "(2)" is three
// tokens even with no whitespace around the parentheses.
type Tokenizer struct {
	file string
	src  string
	pos  int
	line int
	char int
}

func NewTokenizer(file, source string) *Tokenizer {
	return &Tokenizer{file: file, src: source}
}

func delimiterKind(c byte) (TokenKind, bool) {
	switch c {
	case '(':
		return TokenOpenComment, true
	case ')':
		return TokenCloseComment, true
	case '[':
		return TokenOpenBracket, true
	case ']':
		return TokenCloseBracket, true
	case '{':
		return TokenOpenBrace, true
	case '}':
		return TokenCloseBrace, true
	}
	return 0, false
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Next returns the next token, or ok == false at end of input.
func (t *Tokenizer) Next() (Token, bool) {
	for t.pos < len(t.src) && isWhitespace(t.src[t.pos]) {
		t.advance()
	}
	if t.pos >= len(t.src) {
		return Token{}, false
	}

	startLine, startChar := t.line, t.char
	if kind, ok := delimiterKind(t.src[t.pos]); ok {
		text := t.src[t.pos : t.pos+1]
		t.advance()
		return Token{
			Kind: kind,
			Text: text,
			Body: text,
			File: t.file,
			Range: TextRange{
				Start: TextPosition{Line: startLine, Char: startChar},
				End:   TextPosition{Line: startLine, Char: startChar + 1},
			},
		}, true
	}

	start := t.pos
	for t.pos < len(t.src) && !isWhitespace(t.src[t.pos]) {
		if _, ok := delimiterKind(t.src[t.pos]); ok {
			break
		}
		t.advance()
	}
	word := t.src[start:t.pos]
	tok := classify(word)
	tok.File = t.file
	tok.Range = TextRange{
		Start: TextPosition{Line: startLine, Char: startChar},
		End:   TextPosition{Line: t.line, Char: t.char},
	}
	return tok, true
}

func (t *Tokenizer) advance() {
	if t.src[t.pos] == '\n' {
		t.line++
		t.char = 0
	} else {
		t.char++
	}
	t.pos++
}

// classify assigns a kind from the word's lead rune. Bare words are checked
// against the opcode table first, then against raw hex (exactly two or four
// lowercase hex digits), and anything left is a macro invocation.
func classify(word string) Token {
	tok := Token{Kind: TokenWord, Text: word, Body: word}
	switch word[0] {
	case '%':
		tok.Kind = TokenMacroDefine
	case '|':
		tok.Kind = TokenPadAbsolute
	case '$':
		tok.Kind = TokenPadRelative
	case '@':
		tok.Kind = TokenLabelDefine
	case '&':
		tok.Kind = TokenSublabelDefine
	case '.':
		tok.Kind = TokenLiteralZeroPage
	case ',':
		tok.Kind = TokenLiteralRelative
	case ';':
		tok.Kind = TokenLiteralAbsolute
	case ':':
		tok.Kind = TokenRawAddress
	case '#':
		tok.Kind = TokenLiteralHex
	case '\'':
		tok.Kind = TokenRawChar
	case '"':
		tok.Kind = TokenRawWord
	default:
		if opcode, ok := parseOpcode(word); ok {
			tok.Kind = TokenInstruction
			tok.Opcode = opcode
		} else if len(word) == 2 && isHexDigits(word) {
			tok.Kind = TokenRawHexByte
		} else if len(word) == 4 && isHexDigits(word) {
			tok.Kind = TokenRawHexShort
		}
		return tok
	}
	tok.Body = word[1:]
	return tok
}

// Tokenize runs the tokenizer over a whole source unit.
func Tokenize(file, source string) []Token {
	t := NewTokenizer(file, source)
	var tokens []Token
	for {
		tok, ok := t.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}
