package assembler

// TextPosition and TextRange use LSP numbering: zero-based lines and
// zero-based character offsets.
type TextPosition struct {
	Line int `json:"line"`
	Char int `json:"character"`
}

type TextRange struct {
	Start TextPosition `json:"start"`
	End   TextPosition `json:"end"`
}

type DiagnosticSeverity int

const (
	Error       DiagnosticSeverity = 1
	Warning     DiagnosticSeverity = 2
	Information DiagnosticSeverity = 3
	Hint        DiagnosticSeverity = 4
)

type Diagnostic struct {
	Range    TextRange          `json:"range"`
	Message  string             `json:"message"`
	Code     string             `json:"code,omitempty"`
	Source   string             `json:"source,omitempty"`
	Severity DiagnosticSeverity `json:"severity,omitempty"`
}

// TokenKind classifies a lexeme. The set is closed: every pipeline stage
// switches exhaustively over it.
type TokenKind int

const (
	TokenWord TokenKind = iota // a macro invocation once it survives classification
	TokenInstruction
	TokenRawHexByte
	TokenRawHexShort

	TokenOpenComment  // (
	TokenCloseComment // )
	TokenOpenBracket  // [
	TokenCloseBracket // ]
	TokenOpenBrace    // {
	TokenCloseBrace   // }

	TokenMacroDefine     // %name
	TokenPadAbsolute     // |hhhh
	TokenPadRelative     // $hhhh
	TokenLabelDefine     // @name
	TokenSublabelDefine  // &name
	TokenLiteralZeroPage // .ref
	TokenLiteralRelative // ,ref
	TokenLiteralAbsolute // ;ref
	TokenRawAddress      // :ref
	TokenLiteralHex      // #hh or #hhhh
	TokenRawChar         // 'c
	TokenRawWord         // "text
)

// Token is immutable once produced by the tokenizer. Text is the lexeme as
// written; Body is the lexeme without its rune prefix (equal to Text for
// words, instructions and delimiters).
type Token struct {
	Kind   TokenKind
	Text   string
	Body   string
	Opcode byte // valid when Kind == TokenInstruction
	File   string
	Range  TextRange
}

// SourceFile is one unit of an ordered multi-file assembly.
type SourceFile struct {
	Name string
	Text string
}

// MacroDefinition stores its body tokens verbatim: nested definitions,
// labels, pads, comments and brackets are all recorded as written and only
// take effect when the macro is expanded.
type MacroDefinition struct {
	Name  string
	Body  []Token
	File  string
	Range TextRange
}

// Sublabel is a named address scoped under a label.
type Sublabel struct {
	Name       string
	Address    uint16
	File       string
	Range      TextRange
	Referenced bool
}

// Label owns its sublabels. Address is assigned during pass 1.
type Label struct {
	Name       string
	Address    uint16
	File       string
	Range      TextRange
	Sublabels  map[string]*Sublabel
	Referenced bool
}

// Result is what a successful assembly produces. ROM holds the bytes from
// Origin up to the last written address; collaborators write it to disk.
type Result struct {
	ROM      []byte
	Origin   uint16
	Symbols  *SymbolTable
	Warnings []Diagnostic

	fileContents map[string][]string // per file, for hover lookups
}
