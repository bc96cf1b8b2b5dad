package assembler_test

import (
	"strings"
	"testing"

	"github.com/uxnkit/taltools/assembler"
)

func hoverAt(t *testing.T, source string, line, char int) (string, bool) {
	t.Helper()
	result, err := assembler.Assemble(source)
	if err != nil {
		t.Fatalf("Expected assembly to succeed, got %v", err)
	}
	return result.EvaluateHover(assembler.TextPosition{Line: line, Char: char})
}

func TestHoverInstruction(t *testing.T) {
	markdown, ok := hoverAt(t, "|0100 ADD", 0, 6)
	if !ok {
		t.Fatalf("Expected hover info for ADD")
	}
	if !strings.Contains(markdown, "Add") {
		t.Errorf("Expected the ADD doc, got %q", markdown)
	}

	markdown, ok = hoverAt(t, "|0100 ADD2k", 0, 6)
	if !ok {
		t.Fatalf("Expected hover info for ADD2k")
	}
	if !strings.Contains(markdown, "Modes") {
		t.Errorf("Expected the mode note for a suffixed instruction, got %q", markdown)
	}
}

func TestHoverLabel(t *testing.T) {
	source := "|0100 @main BRK ;main"
	markdown, ok := hoverAt(t, source, 0, 7)
	if !ok {
		t.Fatalf("Expected hover info for the label definition")
	}
	if !strings.Contains(markdown, "0x0100") {
		t.Errorf("Expected the label address, got %q", markdown)
	}

	markdown, ok = hoverAt(t, source, 0, 17)
	if !ok {
		t.Fatalf("Expected hover info for the label reference")
	}
	if !strings.Contains(markdown, "0x0100") {
		t.Errorf("Expected the resolved address, got %q", markdown)
	}
}

func TestHoverLiteral(t *testing.T) {
	markdown, ok := hoverAt(t, "|0100 #002a", 0, 7)
	if !ok {
		t.Fatalf("Expected hover info for the literal")
	}
	if !strings.Contains(markdown, "42") {
		t.Errorf("Expected the decimal value, got %q", markdown)
	}
}

func TestHoverNothing(t *testing.T) {
	if _, ok := hoverAt(t, "|0100 ADD", 0, 20); ok {
		t.Errorf("Expected no hover info past the end of the line")
	}
}
