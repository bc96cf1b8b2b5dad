package emulator_test

import (
	"bytes"
	"testing"

	"github.com/uxnkit/taltools/assembler"
	"github.com/uxnkit/taltools/emulator"
)

func runSource(t *testing.T, source string, config emulator.EmulatorConfig) *emulator.EmulatorInstance {
	t.Helper()
	result, err := assembler.Assemble(source)
	if err != nil {
		t.Fatalf("Expected assembly to succeed, got %v", err)
	}
	em := emulator.NewEmulator(config)
	em.LoadROM(result.ROM)
	em.Emulate(emulator.CodeOrigin)
	return em
}

func validateWorkingStack(t *testing.T, em *emulator.EmulatorInstance, expected []byte) {
	t.Helper()
	stack := em.WorkingStack()
	if len(stack) != len(expected) {
		t.Fatalf("Expected working stack of %d bytes, got %d (% x)", len(expected), len(stack), stack)
	}
	for i, b := range expected {
		if stack[i] != b {
			t.Errorf("Expected stack byte %d to be 0x%02x, got 0x%02x", i, b, stack[i])
		}
	}
}

func TestArithmetic(t *testing.T) {
	cases := []struct {
		source   string
		expected []byte
	}{
		{"|0100 #02 #03 ADD BRK", []byte{0x05}},
		{"|0100 #07 #03 SUB BRK", []byte{0x04}},
		{"|0100 #06 #07 MUL BRK", []byte{0x2a}},
		{"|0100 #2a #07 DIV BRK", []byte{0x06}},
		{"|0100 #2a #00 DIV BRK", []byte{0x00}},
		{"|0100 #0f #35 AND BRK", []byte{0x05}},
		{"|0100 #0f #35 ORA BRK", []byte{0x3f}},
		{"|0100 #0f #35 EOR BRK", []byte{0x3a}},
		{"|0100 #ff INC BRK", []byte{0x00}},
		{"|0100 #f0 #04 SFT BRK", []byte{0x0f}},
		{"|0100 #0f #40 SFT BRK", []byte{0xf0}},
	}
	for _, c := range cases {
		em := runSource(t, c.source, emulator.EmulatorConfig{})
		validateWorkingStack(t, em, c.expected)
	}
}

func TestShortMode(t *testing.T) {
	em := runSource(t, "|0100 #1234 #0001 ADD2 BRK", emulator.EmulatorConfig{})
	validateWorkingStack(t, em, []byte{0x12, 0x35})

	em = runSource(t, "|0100 #00ff INC2 BRK", emulator.EmulatorConfig{})
	validateWorkingStack(t, em, []byte{0x01, 0x00})
}

func TestStackOperations(t *testing.T) {
	cases := []struct {
		source   string
		expected []byte
	}{
		{"|0100 #01 #02 SWP BRK", []byte{0x02, 0x01}},
		{"|0100 #01 #02 #03 ROT BRK", []byte{0x02, 0x03, 0x01}},
		{"|0100 #05 DUP BRK", []byte{0x05, 0x05}},
		{"|0100 #01 #02 OVR BRK", []byte{0x01, 0x02, 0x01}},
		{"|0100 #01 #02 NIP BRK", []byte{0x02}},
		{"|0100 #01 #02 POP BRK", []byte{0x01}},
	}
	for _, c := range cases {
		em := runSource(t, c.source, emulator.EmulatorConfig{})
		validateWorkingStack(t, em, c.expected)
	}
}

func TestKeepMode(t *testing.T) {
	em := runSource(t, "|0100 #02 #03 ADDk BRK", emulator.EmulatorConfig{})
	validateWorkingStack(t, em, []byte{0x02, 0x03, 0x05})
}

func TestReturnMode(t *testing.T) {
	em := runSource(t, "|0100 #05 STH BRK", emulator.EmulatorConfig{})
	validateWorkingStack(t, em, []byte{})
	ret := em.ReturnStack()
	if len(ret) != 1 || ret[0] != 0x05 {
		t.Errorf("Expected return stack [05], got % x", ret)
	}
}

func TestComparisons(t *testing.T) {
	cases := []struct {
		source   string
		expected []byte
	}{
		{"|0100 #05 #05 EQU BRK", []byte{0x01}},
		{"|0100 #05 #06 EQU BRK", []byte{0x00}},
		{"|0100 #05 #06 NEQ BRK", []byte{0x01}},
		{"|0100 #06 #05 GTH BRK", []byte{0x01}},
		{"|0100 #05 #06 LTH BRK", []byte{0x01}},
		// flags are single bytes even in short mode
		{"|0100 #1234 #1234 EQU2 BRK", []byte{0x01}},
	}
	for _, c := range cases {
		em := runSource(t, c.source, emulator.EmulatorConfig{})
		validateWorkingStack(t, em, c.expected)
	}
}

func TestConditionalLoop(t *testing.T) {
	source := "|0100 #00 @loop INC DUP #05 NEQ ,loop JCN BRK"
	em := runSource(t, source, emulator.EmulatorConfig{})
	validateWorkingStack(t, em, []byte{0x05})
}

func TestSubroutine(t *testing.T) {
	source := "|0100 #02 ;double JSR2 BRK @double DUP ADD JMP2r"
	em := runSource(t, source, emulator.EmulatorConfig{})
	validateWorkingStack(t, em, []byte{0x04})
	if len(em.ReturnStack()) != 0 {
		t.Errorf("Expected an empty return stack after the subroutine returned")
	}
}

func TestZeroPageMemory(t *testing.T) {
	em := runSource(t, "|0100 #2a #10 STZ #10 LDZ BRK", emulator.EmulatorConfig{})
	validateWorkingStack(t, em, []byte{0x2a})
	if em.ReadMemory(0x10) != 0x2a {
		t.Errorf("Expected memory[0x10] to be 0x2a, got 0x%02x", em.ReadMemory(0x10))
	}
}

func TestAbsoluteMemory(t *testing.T) {
	source := "|0100 #2a ;cell STAk POP2 POP ;cell LDA BRK @cell $1"
	result, err := assembler.Assemble(source)
	if err != nil {
		t.Fatalf("Expected assembly to succeed, got %v", err)
	}
	em := emulator.NewEmulator(emulator.EmulatorConfig{})
	em.LoadROM(result.ROM)
	em.Emulate(emulator.CodeOrigin)
	validateWorkingStack(t, em, []byte{0x2a})
}

func TestConsoleOutput(t *testing.T) {
	var out bytes.Buffer
	source := "|0100 ;text @loop LDAk DUP ,print JCN POP2 POP BRK @print #18 DEO INC2 ,loop JMP @text \"Hi 00"
	runSource(t, source, emulator.EmulatorConfig{
		StdOutCallback: func(b byte) { out.WriteByte(b) },
	})
	if out.String() != "Hi" {
		t.Errorf("Expected console output %q, got %q", "Hi", out.String())
	}
}

func TestSystemHalt(t *testing.T) {
	em := runSource(t, "|0100 #01 #0f DEO #ff #18 DEO BRK", emulator.EmulatorConfig{})
	if em.GetExitCode() != 1 {
		t.Errorf("Expected exit code 1, got %d", em.GetExitCode())
	}
}

func TestRuntimeLimit(t *testing.T) {
	var caught *emulator.RuntimeException
	runSource(t, "|0100 @loop ,loop JMP", emulator.EmulatorConfig{
		RuntimeLimit: 1000,
		RuntimeErrorCallback: func(e emulator.RuntimeException) {
			caught = &e
		},
	})
	if caught == nil {
		t.Fatalf("Expected the runtime limit to trip")
	}
}

func TestInvalidOpcode(t *testing.T) {
	var caught *emulator.RuntimeException
	em := emulator.NewEmulator(emulator.EmulatorConfig{
		RuntimeErrorCallback: func(e emulator.RuntimeException) {
			caught = &e
		},
	})
	em.LoadROM([]byte{0x20})
	em.Emulate(emulator.CodeOrigin)
	if caught == nil {
		t.Fatalf("Expected a fault for an undefined opcode")
	}
}
