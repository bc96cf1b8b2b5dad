package assembler_test

import (
	"testing"

	"github.com/uxnkit/taltools/assembler"
)

func assembleROM(t *testing.T, source string) *assembler.Result {
	t.Helper()
	result, err := assembler.Assemble(source)
	if err != nil {
		t.Fatalf("Expected assembly to succeed, got %v", err)
	}
	return result
}

func validateROM(t *testing.T, source string, expected []byte) *assembler.Result {
	t.Helper()
	result := assembleROM(t, source)
	if len(result.ROM) != len(expected) {
		t.Fatalf("Expected ROM of %d bytes, got %d (% x)", len(expected), len(result.ROM), result.ROM)
	}
	for i, b := range result.ROM {
		if b != expected[i] {
			t.Errorf("Expected ROM byte %d to be 0x%02x, got 0x%02x", i, expected[i], b)
		}
	}
	return result
}

func validateError(t *testing.T, source string, code assembler.ErrorCode) *assembler.AssemblyError {
	t.Helper()
	_, err := assembler.Assemble(source)
	if err == nil {
		t.Fatalf("Expected assembly to fail with %s, got success", code)
	}
	if err.Code != code {
		t.Fatalf("Expected error code %s, got %s (%s)", code, err.Code, err.Message)
	}
	return err
}

func TestInstructionsAndLiterals(t *testing.T) {
	validateROM(t, "|0100 #02 #03 ADD", []byte{0x80, 0x02, 0x80, 0x03, 0x18})
	validateROM(t, "|0100 #1234 #0001 ADD2", []byte{0xa0, 0x12, 0x34, 0xa0, 0x00, 0x01, 0x38})
	validateROM(t, "|0100 BRK", []byte{0x00})
}

func TestRawValues(t *testing.T) {
	validateROM(t, "|0100 ab cdef", []byte{0xab, 0xcd, 0xef})
	validateROM(t, "|0100 'a 'z", []byte{0x61, 0x7a})
	validateROM(t, "|0100 \"Hello", []byte{0x48, 0x65, 0x6c, 0x6c, 0x6f})
}

func TestCommentsAreDropped(t *testing.T) {
	validateROM(t, "01 ( 02 ) 03", []byte{0x01, 0x03})
	validateROM(t, "01 ( outer ( inner ) outer again ) 02", []byte{0x01, 0x02})
	// rune tokens inside comments stay inert
	validateROM(t, "( @label #99 %m ) 01", []byte{0x01})
}

func TestCommentErrors(t *testing.T) {
	validateError(t, "01 ( never closed", assembler.CodeUnclosedComment)
	validateError(t, "01 ) 02", assembler.CodeUnmatchedCloseComment)
}

func TestBracketBalance(t *testing.T) {
	validateROM(t, "[ 01 [ 02 ] 03 ]", []byte{0x01, 0x02, 0x03})
	validateError(t, "[ 01", assembler.CodeUnclosedBracket)
	validateError(t, "] 01", assembler.CodeUnmatchedCloseBracket)
}

func TestBracketsBalanceAcrossMacros(t *testing.T) {
	// a macro body may open a bracket that the call site closes
	validateROM(t, "%open { [ } open 01 ]", []byte{0x01})
	validateError(t, "%open { [ } open 01", assembler.CodeUnclosedBracket)
}

func TestMacroExpansion(t *testing.T) {
	validateROM(t, "%m { ADD } m m", []byte{0x18, 0x18})
	validateROM(t, "%emit2 { #01 #02 } emit2", []byte{0x80, 0x01, 0x80, 0x02})
	// nested invocation
	validateROM(t, "%inner { 0a } %outer { inner inner } outer", []byte{0x0a, 0x0a})
}

func TestMacroWithoutBracesHasEmptyBody(t *testing.T) {
	validateROM(t, "%empty BRK empty", []byte{0x00})
}

func TestMacroErrors(t *testing.T) {
	validateError(t, "%", assembler.CodeMissingMacroName)
	validateError(t, "%m { ADD } %m { SUB }", assembler.CodeDuplicateMacroDefinition)
	validateError(t, "%m { ADD", assembler.CodeUnclosedMacroDefinition)
	validateError(t, "{ ADD }", assembler.CodeBraceOutsideMacroDefinition)
	validateError(t, "%m ( body elsewhere ) { ADD }", assembler.CodeBraceOutsideMacroDefinition)
	validateError(t, "undefined-word", assembler.CodeUndefinedIdentifier)
}

func TestMacroCycleDetection(t *testing.T) {
	err := validateError(t, "%a { a } a", assembler.CodeRecursiveMacroExpansion)
	if len(err.Cycle) == 0 {
		t.Errorf("Expected the error to carry the expansion chain, got none")
	}

	validateError(t, "%a { b } %b { a } a", assembler.CodeRecursiveMacroExpansion)
	validateError(t, "%a { b } %b { c } %c { a } a", assembler.CodeRecursiveMacroExpansion)
}

func TestRecursiveMacroIsFineWhenUnused(t *testing.T) {
	// the cycle only matters if the macro is actually expanded
	validateROM(t, "%a { a } BRK", []byte{0x00})
}

func TestMacroExpandedTwiceDuplicatesItsLabels(t *testing.T) {
	validateError(t, "%def { @here } def def", assembler.CodeDuplicateLabelDefinition)
}

func TestForwardReference(t *testing.T) {
	validateROM(t, "|0100 ;end BRK @end 01", []byte{0xa0, 0x01, 0x04, 0x00, 0x01})
}

func TestSublabelScoping(t *testing.T) {
	source := "|0000 @Label1 &one $1 @Label2 &one |0100 .Label1/one .Label2/one"
	validateROM(t, source, []byte{0x80, 0x00, 0x80, 0x01})
}

func TestAmpersandReferenceUsesCurrentLabel(t *testing.T) {
	source := "|0000 @Device &vector $2 |0100 @Main ( vector of Device? no: of Main ) &loop BRK ;&loop"
	result := assembleROM(t, source)
	// &loop resolves against Main, the label in scope at the reference
	expected := []byte{0x00, 0xa0, 0x01, 0x00}
	if len(result.ROM) != len(expected) {
		t.Fatalf("Expected ROM of %d bytes, got %d (% x)", len(expected), len(result.ROM), result.ROM)
	}
	for i, b := range expected {
		if result.ROM[i] != b {
			t.Errorf("Expected ROM byte %d to be 0x%02x, got 0x%02x", i, b, result.ROM[i])
		}
	}
}

func TestLiteralAddressKinds(t *testing.T) {
	validateROM(t, "|0000 @zp $1 |0100 .zp LDZ", []byte{0x80, 0x00, 0x10})
	validateROM(t, "|0100 @loop ,loop JMP", []byte{0x80, 0xfd, 0x0c})
	validateROM(t, "|0100 ;target BRK @target", []byte{0xa0, 0x01, 0x04, 0x00})
	validateROM(t, "|0100 :target BRK @target", []byte{0x01, 0x03, 0x00})
}

func TestZeroPageReferenceMustBeZeroPage(t *testing.T) {
	validateError(t, "|0100 @high .high", assembler.CodeAddressNotZeroPage)
}

func TestRelativeReferenceRange(t *testing.T) {
	validateError(t, "|0100 @far $90 ,far", assembler.CodeAddressTooFar)
	// +126 is the farthest reachable offset
	validateROM(t, "|0100 ,edge $7f @edge", []byte{0x80, 0x7e})
	validateError(t, "|0100 ,beyond $80 @beyond", assembler.CodeAddressTooFar)
}

func TestPads(t *testing.T) {
	validateROM(t, "|0102 01 $2 02", []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x02})
	validateError(t, "|", assembler.CodeMissingPadValue)
	validateError(t, "$", assembler.CodeMissingPadValue)
	validateError(t, "|xyz", assembler.CodeInvalidHexDigits)
	validateError(t, "$12345", assembler.CodeInvalidHexDigits)
}

func TestZeroPageWritesAreAddressableButNotStored(t *testing.T) {
	// bytes placed below the origin advance the cursor without reaching the ROM
	result := validateROM(t, "|0000 01 02 |0100 .pad LDZ |0000 $2 @pad $1", []byte{0x80, 0x02, 0x10})
	if _, ok := result.Symbols.Lookup("pad"); !ok {
		t.Errorf("Expected zero-page label to be defined")
	}
}

func TestLiteralHexErrors(t *testing.T) {
	validateError(t, "#", assembler.CodeMissingHexValue)
	validateError(t, "#zz", assembler.CodeInvalidHexDigits)
	validateError(t, "#abc", assembler.CodeOddHexLength)
	validateError(t, "#abcde", assembler.CodeHexTooLong)
	// length is checked before parity
	validateError(t, "#abcdeff", assembler.CodeHexTooLong)
}

func TestRawCharErrors(t *testing.T) {
	validateError(t, "'", assembler.CodeMissingRawCharacter)
	validateError(t, "'ab", assembler.CodeTooManyRawCharacters)
	validateError(t, "'é", assembler.CodeTooManyRawCharacters) // two bytes in UTF-8
}

func TestLabelErrors(t *testing.T) {
	validateError(t, "@", assembler.CodeMissingLabelName)
	validateError(t, "@&name", assembler.CodeLabelStartsWithAmpersand)
	validateError(t, "@a/b", assembler.CodeSlashInIdentifierName)
	validateError(t, "@dup @dup", assembler.CodeDuplicateLabelDefinition)
	validateError(t, "&", assembler.CodeMissingSublabelName)
	validateError(t, "&orphan", assembler.CodeNoCurrentLabel)
	validateError(t, "@l &a/b", assembler.CodeSlashInIdentifierName)
	validateError(t, "@l &dup &dup", assembler.CodeDuplicateLabelDefinition)
}

func TestReferenceErrors(t *testing.T) {
	validateError(t, ".", assembler.CodeMissingIdentifier)
	validateError(t, ".&vec", assembler.CodeNoCurrentLabel)
	validateError(t, ";nowhere", assembler.CodeUndefinedIdentifier)
	validateError(t, "@l .l/missing", assembler.CodeUndefinedIdentifier)
	validateError(t, "@l .a/b/c", assembler.CodeInvalidSublabelPath)
}

func TestErrorPositions(t *testing.T) {
	_, err := assembler.Assemble("|0100 BRK\n  #zz")
	if err == nil {
		t.Fatalf("Expected assembly to fail")
	}
	if err.Range.Start.Line != 1 || err.Range.Start.Char != 2 {
		t.Errorf("Expected error at 1:2, got %d:%d", err.Range.Start.Line, err.Range.Start.Char)
	}
	if err.Error() == "" {
		t.Errorf("Expected a formatted error message")
	}
}

func TestUnusedLabelWarnings(t *testing.T) {
	result := assembleROM(t, "|0100 @used ;used @unused BRK")
	if len(result.Warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(result.Warnings))
	}
	if result.Warnings[0].Severity != assembler.Warning {
		t.Errorf("Expected a warning severity, got %d", result.Warnings[0].Severity)
	}

	// capitalized labels are exempt, the convention for device layouts
	result = assembleROM(t, "|0100 @Console &vector $2 BRK")
	if len(result.Warnings) != 0 {
		t.Fatalf("Expected no warnings for capitalized label, got %d", len(result.Warnings))
	}

	result = assembleROM(t, "|0100 @main &loop BRK ;main")
	if len(result.Warnings) != 1 {
		t.Fatalf("Expected 1 warning for unused sublabel, got %d", len(result.Warnings))
	}
}

func TestAssembleFiles(t *testing.T) {
	files := []assembler.SourceFile{
		{Name: "macros.tal", Text: "%emit { #2a }"},
		{Name: "main.tal", Text: "|0100 emit ;data BRK @data 01"},
	}
	result, err := assembler.AssembleFiles(files)
	if err != nil {
		t.Fatalf("Expected multi-file assembly to succeed, got %v", err)
	}
	expected := []byte{0x80, 0x2a, 0xa0, 0x01, 0x06, 0x00, 0x01}
	if len(result.ROM) != len(expected) {
		t.Fatalf("Expected ROM of %d bytes, got %d (% x)", len(expected), len(result.ROM), result.ROM)
	}
	for i, b := range expected {
		if result.ROM[i] != b {
			t.Errorf("Expected ROM byte %d to be 0x%02x, got 0x%02x", i, b, result.ROM[i])
		}
	}
}

func TestErrorCarriesFileName(t *testing.T) {
	files := []assembler.SourceFile{
		{Name: "ok.tal", Text: "|0100 BRK"},
		{Name: "bad.tal", Text: "#zz"},
	}
	_, err := assembler.AssembleFiles(files)
	if err == nil {
		t.Fatalf("Expected assembly to fail")
	}
	if err.File != "bad.tal" {
		t.Errorf("Expected error in bad.tal, got %q", err.File)
	}
}

func TestOriginAndSymbols(t *testing.T) {
	result := assembleROM(t, "|0100 @main BRK &sub 01")
	if result.Origin != 0x100 {
		t.Errorf("Expected origin 0x100, got 0x%x", result.Origin)
	}
	if addr, ok := result.Symbols.Lookup("main"); !ok || addr != 0x100 {
		t.Errorf("Expected main at 0x100, got 0x%x (found: %v)", addr, ok)
	}
	if addr, ok := result.Symbols.Lookup("main/sub"); !ok || addr != 0x101 {
		t.Errorf("Expected main/sub at 0x101, got 0x%x (found: %v)", addr, ok)
	}
}
