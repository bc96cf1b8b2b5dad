package assembler

import "strings"

// statementKind enumerates every byte-emitting token shape that survives to
// pass 2 and code generation. Pads and definitions are consumed by pass 1.
type statementKind int

const (
	stmtInstruction statementKind = iota
	stmtLiteralHexByte
	stmtLiteralHexShort
	stmtRawHexByte
	stmtRawHexShort
	stmtLiteralZeroPage
	stmtLiteralRelative
	stmtLiteralAbsolute
	stmtRawAddress
	stmtRawChar
	stmtRawWord
)

// statement is one emitting token with its assigned output address. value is
// filled in by pass 2.
type statement struct {
	kind  statementKind
	addr  uint16
	value uint16
	ident string // scoped identifier, for the address kinds
	token Token
}

func (k statementKind) width(tok Token) int {
	switch k {
	case stmtInstruction, stmtRawHexByte, stmtRawChar:
		return 1
	case stmtRawHexShort, stmtLiteralZeroPage, stmtLiteralRelative, stmtRawAddress:
		return 2
	case stmtLiteralAbsolute, stmtLiteralHexShort:
		return 3
	case stmtLiteralHexByte:
		return 2
	case stmtRawWord:
		return len(tok.Body)
	}
	return 0
}

// walker is pass 1: it expands macros while assigning an address to every
// emitting token and every label. Macro expansion and address assignment are
// fused because label addresses depend on which macro bodies get inlined
// where.
type walker struct {
	macros  *MacroTable
	symbols *SymbolTable
	track   tracker
	stack   *expansionStack
	cursor  uint16
	current *Label
	stmts   []statement
}

func newWalker() *walker {
	return &walker{
		macros:  NewMacroTable(),
		symbols: NewSymbolTable(),
		stack:   newExpansionStack(),
		cursor:  imageOrigin,
	}
}

func (w *walker) run(tokens []Token) *AssemblyError {
	if err := w.walk(tokens); err != nil {
		return err
	}
	return w.track.finish()
}

func (w *walker) walk(tokens []Token) *AssemblyError {
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		keep, err := w.track.feed(tok)
		if err != nil {
			return err
		}
		if !keep {
			continue
		}

		switch tok.Kind {
		case TokenMacroDefine:
			if tok.Body == "" {
				return Errors.MissingMacroName(tok)
			}
			body, next, err := captureMacroBody(tokens, i+1, tok)
			if err != nil {
				return err
			}
			def := &MacroDefinition{Name: tok.Body, Body: body, File: tok.File, Range: tok.Range}
			if err := w.macros.Define(def, tok); err != nil {
				return err
			}
			i = next - 1

		case TokenOpenBrace, TokenCloseBrace:
			return Errors.BraceOutsideMacroDefinition(tok)

		case TokenWord:
			def, ok := w.macros.Get(tok.Body)
			if !ok {
				return Errors.UndefinedIdentifier(tok, tok.Body)
			}
			if err := w.stack.push(def.Name, tok); err != nil {
				return err
			}
			if err := w.walk(def.Body); err != nil {
				return err
			}
			w.stack.pop()

		case TokenLabelDefine:
			name := tok.Body
			if name == "" {
				return Errors.MissingLabelName(tok)
			}
			if name[0] == '&' {
				return Errors.LabelStartsWithAmpersand(tok, name)
			}
			if strings.Contains(name, "/") {
				return Errors.SlashInIdentifierName(tok, name)
			}
			label, err := w.symbols.DefineLabel(name, tok, w.cursor)
			if err != nil {
				return err
			}
			w.current = label

		case TokenSublabelDefine:
			name := tok.Body
			if name == "" {
				return Errors.MissingSublabelName(tok)
			}
			if strings.Contains(name, "/") {
				return Errors.SlashInIdentifierName(tok, name)
			}
			if w.current == nil {
				return Errors.NoCurrentLabel(tok)
			}
			if err := w.symbols.DefineSublabel(w.current, name, tok, w.cursor); err != nil {
				return err
			}

		case TokenPadAbsolute:
			value, err := padValue(tok)
			if err != nil {
				return err
			}
			w.cursor = value

		case TokenPadRelative:
			value, err := padValue(tok)
			if err != nil {
				return err
			}
			w.cursor += value

		case TokenLiteralZeroPage:
			if err := w.emitReference(stmtLiteralZeroPage, tok); err != nil {
				return err
			}
		case TokenLiteralRelative:
			if err := w.emitReference(stmtLiteralRelative, tok); err != nil {
				return err
			}
		case TokenLiteralAbsolute:
			if err := w.emitReference(stmtLiteralAbsolute, tok); err != nil {
				return err
			}
		case TokenRawAddress:
			if err := w.emitReference(stmtRawAddress, tok); err != nil {
				return err
			}

		case TokenLiteralHex:
			// width only; the digits themselves are validated in pass 2
			if len(tok.Body) > 2 {
				w.emit(stmtLiteralHexShort, tok)
			} else {
				w.emit(stmtLiteralHexByte, tok)
			}
		case TokenRawHexByte:
			w.emit(stmtRawHexByte, tok)
		case TokenRawHexShort:
			w.emit(stmtRawHexShort, tok)
		case TokenRawChar:
			w.emit(stmtRawChar, tok)
		case TokenRawWord:
			w.emit(stmtRawWord, tok)
		case TokenInstruction:
			w.emit(stmtInstruction, tok)
		}
	}
	return nil
}

func (w *walker) emit(kind statementKind, tok Token) {
	w.stmts = append(w.stmts, statement{kind: kind, addr: w.cursor, token: tok})
	w.cursor += uint16(kind.width(tok))
}

// emitReference resolves the reference's scope now (the current label is
// pass-1 state) and defers the address lookup to pass 2.
func (w *walker) emitReference(kind statementKind, tok Token) *AssemblyError {
	body := tok.Body
	if body == "" {
		return Errors.MissingIdentifier(tok)
	}
	if strings.Count(body, "/") > 1 {
		return Errors.InvalidSublabelPath(tok, body)
	}
	ident := body
	if body[0] == '&' {
		sub := body[1:]
		if sub == "" {
			return Errors.MissingIdentifier(tok)
		}
		if strings.Contains(sub, "/") {
			return Errors.InvalidSublabelPath(tok, body)
		}
		if w.current == nil {
			return Errors.NoCurrentLabel(tok)
		}
		ident = w.current.Name + "/" + sub
	}
	w.stmts = append(w.stmts, statement{kind: kind, addr: w.cursor, ident: ident, token: tok})
	w.cursor += uint16(kind.width(tok))
	return nil
}

// captureMacroBody collects the body tokens following a macro definition.
// When the definition rune is not immediately followed by an opening brace
// the macro simply has an empty body. Braces nest so bodies can hold further
// macro definitions; braces inside comments are stored but do not nest.
func captureMacroBody(tokens []Token, start int, defTok Token) ([]Token, int, *AssemblyError) {
	if start >= len(tokens) || tokens[start].Kind != TokenOpenBrace {
		return nil, start, nil
	}
	braceDepth := 1
	commentDepth := 0
	var body []Token
	for i := start + 1; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Kind {
		case TokenOpenComment:
			commentDepth++
		case TokenCloseComment:
			if commentDepth > 0 {
				commentDepth--
			}
		case TokenOpenBrace:
			if commentDepth == 0 {
				braceDepth++
			}
		case TokenCloseBrace:
			if commentDepth == 0 {
				braceDepth--
				if braceDepth == 0 {
					return body, i + 1, nil
				}
			}
		}
		body = append(body, tok)
	}
	return nil, len(tokens), Errors.UnclosedMacroDefinition(defTok, defTok.Body)
}

func padValue(tok Token) (uint16, *AssemblyError) {
	if tok.Body == "" {
		return 0, Errors.MissingPadValue(tok)
	}
	if len(tok.Body) > 4 || !isHexDigits(tok.Body) {
		return 0, Errors.InvalidHexDigits(tok, tok.Body)
	}
	return parseHex(tok.Body), nil
}

// resolveReferences is pass 2: every reference is looked up in the frozen
// symbol table and every deferred literal payload is validated.
func resolveReferences(stmts []statement, symbols *SymbolTable) *AssemblyError {
	for i := range stmts {
		st := &stmts[i]
		switch st.kind {
		case stmtLiteralHexByte, stmtLiteralHexShort:
			digits := st.token.Body
			if digits == "" {
				return Errors.MissingHexValue(st.token)
			}
			if !isHexDigits(digits) {
				return Errors.InvalidHexDigits(st.token, digits)
			}
			if len(digits) > 4 {
				return Errors.HexTooLong(st.token, digits)
			}
			if len(digits)%2 != 0 {
				return Errors.OddHexLength(st.token, digits)
			}
			st.value = parseHex(digits)

		case stmtRawHexByte, stmtRawHexShort:
			st.value = parseHex(st.token.Text)

		case stmtRawChar:
			body := st.token.Body
			if len(body) == 0 {
				return Errors.MissingRawCharacter(st.token)
			}
			if len(body) > 1 {
				return Errors.TooManyRawCharacters(st.token, body)
			}
			st.value = uint16(body[0])

		case stmtLiteralZeroPage, stmtLiteralRelative, stmtLiteralAbsolute, stmtRawAddress:
			address, ok := symbols.Resolve(st.ident)
			if !ok {
				return Errors.UndefinedIdentifier(st.token, st.ident)
			}
			switch st.kind {
			case stmtLiteralZeroPage:
				if address > 0xff {
					return Errors.AddressNotZeroPage(st.token, st.ident, address)
				}
				st.value = address
			case stmtLiteralRelative:
				offset := int(address) - int(st.addr) - 3
				if offset < -126 || offset > 126 {
					distance := offset
					if distance < 0 {
						distance = -distance
					}
					return Errors.AddressTooFar(st.token, st.ident, distance)
				}
				st.value = uint16(offset) & 0xff
			default:
				st.value = address
			}
		}
	}
	return nil
}
