package assembler

import (
	"fmt"
	"strings"
)

// ErrorCode is the stable identity of an error kind. Tooling switches on the
// code; the message is free to change.
type ErrorCode string

const (
	CodeUnmatchedCloseComment       ErrorCode = "UnmatchedCloseComment"
	CodeUnclosedComment             ErrorCode = "UnclosedComment"
	CodeUnmatchedCloseBracket       ErrorCode = "UnmatchedCloseBracket"
	CodeUnclosedBracket             ErrorCode = "UnclosedBracket"
	CodeMissingLabelName            ErrorCode = "MissingLabelName"
	CodeMissingSublabelName         ErrorCode = "MissingSublabelName"
	CodeMissingPadValue             ErrorCode = "MissingPadValue"
	CodeInvalidHexDigits            ErrorCode = "InvalidHexDigits"
	CodeMissingHexValue             ErrorCode = "MissingHexValue"
	CodeOddHexLength                ErrorCode = "OddHexLength"
	CodeHexTooLong                  ErrorCode = "HexTooLong"
	CodeMissingIdentifier           ErrorCode = "MissingIdentifier"
	CodeMissingRawCharacter         ErrorCode = "MissingRawCharacter"
	CodeTooManyRawCharacters        ErrorCode = "TooManyRawCharacters"
	CodeBraceOutsideMacroDefinition ErrorCode = "BraceOutsideMacroDefinition"
	CodeUnclosedMacroDefinition     ErrorCode = "UnclosedMacroDefinition"
	CodeDuplicateMacroDefinition    ErrorCode = "DuplicateMacroDefinition"
	CodeDuplicateLabelDefinition    ErrorCode = "DuplicateLabelDefinition"
	CodeRecursiveMacroExpansion     ErrorCode = "RecursiveMacroExpansion"
	CodeInvalidSublabelPath         ErrorCode = "InvalidSublabelPath"
	CodeNoCurrentLabel              ErrorCode = "NoCurrentLabel"
	CodeUndefinedIdentifier         ErrorCode = "UndefinedIdentifier"
	CodeMissingMacroName            ErrorCode = "MissingMacroName"
	CodeLabelStartsWithAmpersand    ErrorCode = "LabelStartsWithAmpersand"
	CodeSlashInIdentifierName       ErrorCode = "SlashInIdentifierName"
	CodeAddressNotZeroPage          ErrorCode = "AddressNotZeroPage"
	CodeAddressTooFar               ErrorCode = "AddressTooFar"
)

// AssemblyError is the single structured diagnostic an assembly run produces
// on failure: a stable code, the span of the offending token, and any
// kind-specific context.
type AssemblyError struct {
	Code    ErrorCode
	Message string
	File    string
	Range   TextRange
	Token   string   // lexeme of the offending token, if any
	Cycle   []string // macro chain for RecursiveMacroExpansion
}

func (e *AssemblyError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%d:%d: %s", e.Range.Start.Line+1, e.Range.Start.Char+1, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Range.Start.Line+1, e.Range.Start.Char+1, e.Message)
}

// Diagnostic converts the error to its LSP representation.
func (e *AssemblyError) Diagnostic() Diagnostic {
	return Diagnostic{
		Range:    e.Range,
		Message:  e.Message,
		Code:     string(e.Code),
		Source:   "Assembler",
		Severity: Error,
	}
}

// Errors constructs every error kind of the pipeline. Constructors take the
// offending token so every error carries a usable span.
type assemblyErrors struct{}

var Errors assemblyErrors

func newError(code ErrorCode, tok Token, message string) *AssemblyError {
	return &AssemblyError{
		Code:    code,
		Message: message,
		File:    tok.File,
		Range:   tok.Range,
		Token:   tok.Text,
	}
}

func (assemblyErrors) UnmatchedCloseComment(tok Token) *AssemblyError {
	return newError(CodeUnmatchedCloseComment, tok, "closing parenthesis with no comment open")
}

func (assemblyErrors) UnclosedComment(tok Token) *AssemblyError {
	return newError(CodeUnclosedComment, tok, "comment is never closed")
}

func (assemblyErrors) UnmatchedCloseBracket(tok Token) *AssemblyError {
	return newError(CodeUnmatchedCloseBracket, tok, "closing bracket with no bracket open")
}

func (assemblyErrors) UnclosedBracket(tok Token) *AssemblyError {
	return newError(CodeUnclosedBracket, tok, "bracket is never closed")
}

func (assemblyErrors) MissingLabelName(tok Token) *AssemblyError {
	return newError(CodeMissingLabelName, tok, "label definition has no name")
}

func (assemblyErrors) MissingSublabelName(tok Token) *AssemblyError {
	return newError(CodeMissingSublabelName, tok, "sublabel definition has no name")
}

func (assemblyErrors) MissingPadValue(tok Token) *AssemblyError {
	return newError(CodeMissingPadValue, tok, "pad has no value")
}

func (assemblyErrors) InvalidHexDigits(tok Token, digits string) *AssemblyError {
	return newError(CodeInvalidHexDigits, tok, "invalid hexadecimal digits \""+digits+"\"")
}

func (assemblyErrors) MissingHexValue(tok Token) *AssemblyError {
	return newError(CodeMissingHexValue, tok, "hexadecimal literal has no value")
}

func (assemblyErrors) OddHexLength(tok Token, digits string) *AssemblyError {
	return newError(CodeOddHexLength, tok, fmt.Sprintf("hexadecimal literal \"%s\" has an odd number of digits", digits))
}

func (assemblyErrors) HexTooLong(tok Token, digits string) *AssemblyError {
	return newError(CodeHexTooLong, tok, fmt.Sprintf("hexadecimal literal \"%s\" is longer than four digits", digits))
}

func (assemblyErrors) MissingIdentifier(tok Token) *AssemblyError {
	return newError(CodeMissingIdentifier, tok, "address has no identifier")
}

func (assemblyErrors) MissingRawCharacter(tok Token) *AssemblyError {
	return newError(CodeMissingRawCharacter, tok, "raw character literal is empty")
}

func (assemblyErrors) TooManyRawCharacters(tok Token, chars string) *AssemblyError {
	return newError(CodeTooManyRawCharacters, tok, "raw character literal \""+chars+"\" is more than one byte")
}

func (assemblyErrors) BraceOutsideMacroDefinition(tok Token) *AssemblyError {
	return newError(CodeBraceOutsideMacroDefinition, tok, "brace outside of a macro definition")
}

func (assemblyErrors) UnclosedMacroDefinition(tok Token, name string) *AssemblyError {
	return newError(CodeUnclosedMacroDefinition, tok, "macro \""+name+"\" is never closed")
}

func (assemblyErrors) DuplicateMacroDefinition(tok Token, name string) *AssemblyError {
	return newError(CodeDuplicateMacroDefinition, tok, "macro \""+name+"\" is already defined")
}

func (assemblyErrors) DuplicateLabelDefinition(tok Token, name string) *AssemblyError {
	return newError(CodeDuplicateLabelDefinition, tok, "label \""+name+"\" is already defined")
}

func (assemblyErrors) RecursiveMacroExpansion(tok Token, cycle []string) *AssemblyError {
	err := newError(CodeRecursiveMacroExpansion, tok, "macro expansion cycle: "+strings.Join(cycle, " -> "))
	err.Cycle = cycle
	return err
}

func (assemblyErrors) InvalidSublabelPath(tok Token, path string) *AssemblyError {
	return newError(CodeInvalidSublabelPath, tok, "sublabel path \""+path+"\" has more than one slash")
}

func (assemblyErrors) NoCurrentLabel(tok Token) *AssemblyError {
	return newError(CodeNoCurrentLabel, tok, "no label is open at this point")
}

func (assemblyErrors) UndefinedIdentifier(tok Token, name string) *AssemblyError {
	return newError(CodeUndefinedIdentifier, tok, "identifier \""+name+"\" is not defined")
}

func (assemblyErrors) MissingMacroName(tok Token) *AssemblyError {
	return newError(CodeMissingMacroName, tok, "macro definition has no name")
}

func (assemblyErrors) LabelStartsWithAmpersand(tok Token, name string) *AssemblyError {
	return newError(CodeLabelStartsWithAmpersand, tok, "label \""+name+"\" must not start with an ampersand")
}

func (assemblyErrors) SlashInIdentifierName(tok Token, name string) *AssemblyError {
	return newError(CodeSlashInIdentifierName, tok, "name \""+name+"\" must not contain a slash")
}

func (assemblyErrors) AddressNotZeroPage(tok Token, name string, address uint16) *AssemblyError {
	return newError(CodeAddressNotZeroPage, tok, fmt.Sprintf("address 0x%04x of \"%s\" is outside the zero page", address, name))
}

func (assemblyErrors) AddressTooFar(tok Token, name string, distance int) *AssemblyError {
	return newError(CodeAddressTooFar, tok, fmt.Sprintf("address of \"%s\" is too far for a relative reference (%d bytes away)", name, distance))
}

// Warnings never abort assembly; they are collected on the Result.
type assemblyWarnings struct{}

var Warnings assemblyWarnings

func (assemblyWarnings) LabelUnused(label *Label) Diagnostic {
	return Diagnostic{
		Range:    label.Range,
		Message:  "Unused label: \"" + label.Name + "\"",
		Code:     "LabelUnused",
		Source:   "Assembler",
		Severity: Warning,
	}
}

func (assemblyWarnings) SublabelUnused(parent *Label, sub *Sublabel) Diagnostic {
	return Diagnostic{
		Range:    sub.Range,
		Message:  "Unused sublabel: \"" + parent.Name + "/" + sub.Name + "\"",
		Code:     "LabelUnused",
		Source:   "Assembler",
		Severity: Warning,
	}
}
