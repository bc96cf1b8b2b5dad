package assembler

import (
	"fmt"
	"strings"
)

// EvaluateHover returns markdown for the token under the given position in a
// single-unit assembly (the common language-server case), or false when
// there is nothing to show.
func (r *Result) EvaluateHover(position TextPosition) (string, bool) {
	return r.EvaluateHoverIn("", position)
}

// EvaluateHoverIn is EvaluateHover for a named file of a multi-file result.
func (r *Result) EvaluateHoverIn(file string, position TextPosition) (string, bool) {
	lines, ok := r.fileContents[file]
	if !ok || position.Line < 0 || position.Line >= len(lines) {
		return "", false
	}

	// tokens never span lines, so tokenizing just the hovered line is enough
	tok, ok := tokenAt(lines[position.Line], position.Char)
	if !ok {
		return "", false
	}

	switch tok.Kind {
	case TokenInstruction:
		name := OpcodeName(tok.Opcode)
		doc, ok := opcodeDocs[mnemonicBase(name)]
		if !ok {
			return "", false
		}
		if len(name) > 3 {
			doc += hoverInfoFormats.instructionModes
		}
		return doc, true

	case TokenLabelDefine:
		if address, ok := r.Symbols.Lookup(tok.Body); ok {
			return fmt.Sprintf(hoverInfoFormats.labelDefinition, tok.Body, address), true
		}

	case TokenSublabelDefine:
		// without pass-1 context the parent is unknown; scan for a match
		for _, label := range r.Symbols.Labels() {
			if sub, ok := label.Sublabels[tok.Body]; ok {
				return fmt.Sprintf(hoverInfoFormats.sublabelDefinition, label.Name+"/"+tok.Body, sub.Address), true
			}
		}

	case TokenLiteralZeroPage, TokenLiteralRelative, TokenLiteralAbsolute, TokenRawAddress:
		ident := tok.Body
		if strings.HasPrefix(ident, "&") {
			return "", false // parent scope is pass-1 state; nothing stable to show
		}
		if address, ok := r.Symbols.Lookup(ident); ok {
			return fmt.Sprintf(hoverInfoFormats.labelReference, ident, address), true
		}

	case TokenLiteralHex:
		if isHexDigits(tok.Body) && len(tok.Body) <= 4 {
			value := parseHex(tok.Body)
			return fmt.Sprintf(hoverInfoFormats.literalHex, value, value), true
		}

	case TokenRawHexByte, TokenRawHexShort:
		value := parseHex(tok.Text)
		return fmt.Sprintf(hoverInfoFormats.rawHex, value, value), true

	case TokenRawChar:
		if len(tok.Body) == 1 {
			return fmt.Sprintf(hoverInfoFormats.rawChar, tok.Body, tok.Body[0]), true
		}

	case TokenPadAbsolute:
		if isHexDigits(tok.Body) && len(tok.Body) <= 4 {
			return fmt.Sprintf(hoverInfoFormats.padAbsolute, parseHex(tok.Body)), true
		}

	case TokenPadRelative:
		if isHexDigits(tok.Body) && len(tok.Body) <= 4 {
			return fmt.Sprintf(hoverInfoFormats.padRelative, parseHex(tok.Body)), true
		}

	case TokenMacroDefine:
		if tok.Body != "" {
			return fmt.Sprintf(hoverInfoFormats.macroDefinition, tok.Body), true
		}
	}

	return "", false
}

func mnemonicBase(name string) string {
	if name == "BRK" {
		return "BRK"
	}
	return name[:3]
}

func tokenAt(line string, char int) (Token, bool) {
	t := NewTokenizer("", line)
	for {
		tok, ok := t.Next()
		if !ok {
			return Token{}, false
		}
		if char >= tok.Range.Start.Char && char < tok.Range.End.Char {
			return tok, true
		}
	}
}
