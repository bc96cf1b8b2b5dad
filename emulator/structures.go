package emulator

// Stack is one of the two 256-byte circular stacks. The pointer is a byte, so
// pushes and pops wrap instead of faulting.
type Stack struct {
	Data    [256]byte
	Pointer byte
}

func (s *Stack) pushByte(v byte) {
	s.Data[s.Pointer] = v
	s.Pointer++
}

func (s *Stack) pushShort(v uint16) {
	s.pushByte(byte(v >> 8))
	s.pushByte(byte(v))
}

// Bytes returns the live region of the stack, bottom first.
func (s *Stack) Bytes() []byte {
	out := make([]byte, s.Pointer)
	copy(out, s.Data[:s.Pointer])
	return out
}

// Device is a peripheral occupying one of the sixteen device slots. Ports are
// slot-relative (0x0 through 0xf).
type Device interface {
	DeviceIn(port byte) byte
	DeviceOut(port byte, value byte)
}

type EmulatorConfig struct {
	// StdOutCallback receives every byte the program writes to the console
	// device.
	StdOutCallback func(byte)

	// RuntimeErrorCallback is invoked on faults such as an invalid opcode or
	// an exceeded runtime limit. The instance halts after the callback.
	RuntimeErrorCallback func(RuntimeException)

	// RuntimeLimit caps the number of executed instructions per vector.
	// Zero means unlimited.
	RuntimeLimit uint64
}

type RuntimeException struct {
	pc      uint16
	message string
}

func (e RuntimeException) PC() uint16      { return e.pc }
func (e RuntimeException) Message() string { return e.message }

type EmulatorInstance struct {
	memory       [65536]byte
	working      Stack
	ret          Stack
	pc           uint16
	devices      [16]Device
	deviceMemory [256]byte

	runtimeLimit         uint64
	executedInstructions uint64
	stdOutCallback       func(byte)
	runtimeErrorCallback func(RuntimeException)

	halted     bool
	exitCode   int
	terminated int32
}
