package assembler

// The 32 base mnemonics, indexed by the low five bits of the opcode byte.
// LIT shares slot 0 with BRK and is distinguished by the keep bit.
var opcodeNames = [32]string{
	"LIT", "INC", "POP", "NIP", "SWP", "ROT", "DUP", "OVR",
	"EQU", "NEQ", "GTH", "LTH", "JMP", "JCN", "JSR", "STH",
	"LDZ", "STZ", "LDR", "STR", "LDA", "STA", "DEI", "DEO",
	"ADD", "SUB", "MUL", "DIV", "AND", "ORA", "EOR", "SFT",
}

const (
	modeShort  = 0x20
	modeReturn = 0x40
	modeKeep   = 0x80

	opLIT  = 0x80
	opLIT2 = opLIT | modeShort
)

// parseOpcode turns a mnemonic with optional 2/r/k mode suffixes into an
// opcode byte. BRK is the bare zero byte; LIT always carries the keep bit.
// Any unrecognized character makes the word not an instruction, so it can
// still name a macro.
func parseOpcode(word string) (byte, bool) {
	if word == "BRK" {
		return 0x00, true
	}
	if len(word) < 3 {
		return 0, false
	}
	base := -1
	for i, name := range opcodeNames {
		if word[:3] == name {
			base = i
			break
		}
	}
	if base < 0 {
		return 0, false
	}
	opcode := byte(base)
	if base == 0 {
		opcode |= modeKeep
	}
	for _, c := range word[3:] {
		switch c {
		case '2':
			opcode |= modeShort
		case 'r':
			opcode |= modeReturn
		case 'k':
			opcode |= modeKeep
		default:
			return 0, false
		}
	}
	return opcode, true
}

// OpcodeName renders an opcode byte back to its mnemonic with mode suffixes.
func OpcodeName(opcode byte) string {
	if opcode == 0x00 {
		return "BRK"
	}
	name := opcodeNames[opcode&0x1f]
	if opcode&0x1f == 0 {
		// the keep bit is implicit in LIT
		opcode &^= modeKeep
	}
	if opcode&modeShort != 0 {
		name += "2"
	}
	if opcode&modeReturn != 0 {
		name += "r"
	}
	if opcode&modeKeep != 0 {
		name += "k"
	}
	return name
}

func isHexDigits(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

// parseHex converts up to four lowercase hex digits. The caller validates
// length and digit set first.
func parseHex(s string) uint16 {
	value := uint16(0)
	for i := 0; i < len(s); i++ {
		c := s[i]
		value <<= 4
		if c >= '0' && c <= '9' {
			value |= uint16(c - '0')
		} else {
			value |= uint16(c-'a') + 10
		}
	}
	return value
}
