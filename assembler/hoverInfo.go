package assembler

type hoverInfoFormatsType struct {
	labelDefinition    string
	sublabelDefinition string
	labelReference     string
	literalHex         string
	rawHex             string
	rawChar            string
	padAbsolute        string
	padRelative        string
	macroDefinition    string
	instructionModes   string
}

var hoverInfoFormats = hoverInfoFormatsType{
	labelDefinition:    "Definition of label `%s`.\n\nAddress `0x%04x`",
	sublabelDefinition: "Definition of sublabel `%s`.\n\nAddress `0x%04x`",
	labelReference:     "Reference to `%s`\n\nResolves to address `0x%04x`",
	literalHex:         "Literal `0x%x` (`%d`)\n\nPushed onto the working stack behind a LIT opcode",
	rawHex:             "Raw value `0x%x` (`%d`)\n\nWritten into the ROM without a LIT prefix",
	rawChar:            "Raw character `%s` (byte `0x%02x`)",
	padAbsolute:        "Absolute pad.\n\nMoves the write cursor to address `0x%04x`",
	padRelative:        "Relative pad.\n\nAdvances the write cursor by `0x%x` bytes",
	macroDefinition:    "Definition of macro `%s`",
	instructionModes:   "\n\nModes: `2` operate on shorts, `k` keep operands, `r` use the return stack",
}

// opcodeDocs is keyed by the three-letter base mnemonic; mode suffixes are
// described generically.
var opcodeDocs = map[string]string{
	"BRK": "Break.\n\nEnds the evaluation of the current vector.",
	"LIT": "Literal.\n\nPushes the next value in memory onto the stack.",
	"INC": "Increment.\n\n`a -- a+1`",
	"POP": "Pop.\n\nRemoves the value at the top of the stack. `a --`",
	"NIP": "Nip.\n\nRemoves the second value from the stack. `a b -- b`",
	"SWP": "Swap.\n\nExchanges the top two stack values. `a b -- b a`",
	"ROT": "Rotate.\n\nRotates three values at the top of the stack. `a b c -- b c a`",
	"DUP": "Duplicate.\n\nDuplicates the value at the top of the stack. `a -- a a`",
	"OVR": "Over.\n\nDuplicates the second value at the top of the stack. `a b -- a b a`",
	"EQU": "Equal.\n\nPushes `01` if the two top values are equal, `00` otherwise. `a b -- a==b`",
	"NEQ": "Not Equal.\n\n`a b -- a!=b`",
	"GTH": "Greater Than.\n\n`a b -- a>b`",
	"LTH": "Lesser Than.\n\n`a b -- a<b`",
	"JMP": "Jump.\n\nMoves the program counter by a relative distance, or to an absolute address in short mode. `addr --`",
	"JCN": "Jump Conditional.\n\nJumps if the byte below the address is not `00`. `cond addr --`",
	"JSR": "Jump Stash Return.\n\nJumps like JMP and pushes the return address onto the return stack. `addr --`",
	"STH": "Stash.\n\nMoves the top value to the return stack. `a --`",
	"LDZ": "Load Zero-Page.\n\nPushes the value at a zero-page address. `addr -- value`",
	"STZ": "Store Zero-Page.\n\nWrites a value to a zero-page address. `value addr --`",
	"LDR": "Load Relative.\n\nPushes the value at a relative address. `addr -- value`",
	"STR": "Store Relative.\n\nWrites a value to a relative address. `value addr --`",
	"LDA": "Load Absolute.\n\nPushes the value at an absolute address. `addr* -- value`",
	"STA": "Store Absolute.\n\nWrites a value to an absolute address. `value addr* --`",
	"DEI": "Device In.\n\nReads a value from a device port. `port -- value`",
	"DEO": "Device Out.\n\nWrites a value to a device port. `value port --`",
	"ADD": "Add.\n\n`a b -- a+b`",
	"SUB": "Subtract.\n\n`a b -- a-b`",
	"MUL": "Multiply.\n\n`a b -- a*b`",
	"DIV": "Divide.\n\n`a b -- a/b` (division by zero yields zero)",
	"AND": "And.\n\n`a b -- a&b`",
	"ORA": "Or.\n\n`a b -- a|b`",
	"EOR": "Exclusive Or.\n\n`a b -- a^b`",
	"SFT": "Shift.\n\nShifts the second value right by the low nibble of the top value, then left by the high nibble. `a shift -- c`",
}
