package emulator

import (
	"fmt"
	"sync/atomic"
)

// CodeOrigin is where ROMs are loaded and where the reset vector starts.
const CodeOrigin = 0x100

func NewEmulator(config EmulatorConfig) *EmulatorInstance {
	em := &EmulatorInstance{
		runtimeLimit:         config.RuntimeLimit,
		stdOutCallback:       config.StdOutCallback,
		runtimeErrorCallback: config.RuntimeErrorCallback,
	}
	em.devices[0] = &systemDevice{em: em}
	em.devices[1] = &consoleDevice{em: em}
	return em
}

// LoadROM copies a ROM image to the code origin. Everything below the origin
// is the zero page and starts cleared.
func (em *EmulatorInstance) LoadROM(rom []byte) {
	copy(em.memory[CodeOrigin:], rom)
}

// AttachDevice installs a peripheral in the given slot (0-15), replacing any
// built-in occupying it.
func (em *EmulatorInstance) AttachDevice(slot byte, dev Device) {
	em.devices[slot&0x0f] = dev
}

// Emulate runs the vector at the given address until BRK, a fault, or
// termination.
func (em *EmulatorInstance) Emulate(vector uint16) {
	em.pc = vector
	em.halted = false
	for !em.halted {
		if atomic.LoadInt32(&em.terminated) != 0 {
			return
		}
		if em.runtimeLimit != 0 && em.executedInstructions >= em.runtimeLimit {
			em.fault("runtime limit of %d instructions exceeded", em.runtimeLimit)
			return
		}
		em.executedInstructions++
		em.executeInstruction()
	}
}

// Terminate stops the instance from another goroutine.
func (em *EmulatorInstance) Terminate() {
	atomic.StoreInt32(&em.terminated, 1)
}

func (em *EmulatorInstance) GetTotalInstructionsExecuted() uint64 { return em.executedInstructions }
func (em *EmulatorInstance) GetExitCode() int                     { return em.exitCode }

// WorkingStack and ReturnStack expose stack snapshots for tests and tooling.
func (em *EmulatorInstance) WorkingStack() []byte { return em.working.Bytes() }
func (em *EmulatorInstance) ReturnStack() []byte  { return em.ret.Bytes() }

// ReadMemory reads a byte of main memory.
func (em *EmulatorInstance) ReadMemory(addr uint16) byte { return em.memory[addr] }

func (em *EmulatorInstance) fault(format string, args ...interface{}) {
	em.halted = true
	if em.runtimeErrorCallback != nil {
		em.runtimeErrorCallback(RuntimeException{pc: em.pc, message: fmt.Sprintf(format, args...)})
	}
}

func (em *EmulatorInstance) deviceIn(port byte) byte {
	if dev := em.devices[port>>4]; dev != nil {
		return dev.DeviceIn(port & 0x0f)
	}
	return em.deviceMemory[port]
}

func (em *EmulatorInstance) deviceOut(port byte, value byte) {
	em.deviceMemory[port] = value
	if dev := em.devices[port>>4]; dev != nil {
		dev.DeviceOut(port&0x0f, value)
	}
}

func (em *EmulatorInstance) executeInstruction() {
	op := em.memory[em.pc]
	em.pc++

	shortMode := op&0x20 != 0
	returnMode := op&0x40 != 0
	keepMode := op&0x80 != 0

	src, dst := &em.working, &em.ret
	if returnMode {
		src, dst = &em.ret, &em.working
	}

	if op&0x1f == 0x00 {
		switch {
		case op == 0x00: // BRK
			em.halted = true
		case keepMode: // LIT always carries the keep bit
			src.pushByte(em.memory[em.pc])
			em.pc++
			if shortMode {
				src.pushByte(em.memory[em.pc])
				em.pc++
			}
		default:
			em.fault("invalid opcode 0x%02x", op)
		}
		return
	}

	// pops walk a shadow pointer so keep mode can leave operands in place
	popPtr := src.Pointer
	popByte := func() byte {
		popPtr--
		return src.Data[popPtr]
	}
	popShort := func() uint16 {
		lo := popByte()
		hi := popByte()
		return uint16(hi)<<8 | uint16(lo)
	}
	pop := func() uint16 {
		if shortMode {
			return popShort()
		}
		return uint16(popByte())
	}
	commit := func() {
		if !keepMode {
			src.Pointer = popPtr
		}
	}
	push := func(v uint16) {
		if shortMode {
			src.pushShort(v)
		} else {
			src.pushByte(byte(v))
		}
	}
	pushFlag := func(cond bool) {
		if cond {
			src.pushByte(0x01)
		} else {
			src.pushByte(0x00)
		}
	}
	// jump targets are absolute shorts in short mode, signed relative bytes
	// otherwise
	jumpAddr := func() uint16 {
		if shortMode {
			return popShort()
		}
		return em.pc + uint16(int16(int8(popByte())))
	}

	switch op & 0x1f {
	case 0x01: // INC
		a := pop()
		commit()
		push(a + 1)
	case 0x02: // POP
		pop()
		commit()
	case 0x03: // NIP
		b := pop()
		pop()
		commit()
		push(b)
	case 0x04: // SWP
		b, a := pop(), pop()
		commit()
		push(b)
		push(a)
	case 0x05: // ROT
		c, b, a := pop(), pop(), pop()
		commit()
		push(b)
		push(c)
		push(a)
	case 0x06: // DUP
		a := pop()
		commit()
		push(a)
		push(a)
	case 0x07: // OVR
		b, a := pop(), pop()
		commit()
		push(a)
		push(b)
		push(a)
	case 0x08: // EQU
		b, a := pop(), pop()
		commit()
		pushFlag(a == b)
	case 0x09: // NEQ
		b, a := pop(), pop()
		commit()
		pushFlag(a != b)
	case 0x0a: // GTH
		b, a := pop(), pop()
		commit()
		pushFlag(a > b)
	case 0x0b: // LTH
		b, a := pop(), pop()
		commit()
		pushFlag(a < b)
	case 0x0c: // JMP
		addr := jumpAddr()
		commit()
		em.pc = addr
	case 0x0d: // JCN
		addr := jumpAddr()
		cond := popByte()
		commit()
		if cond != 0 {
			em.pc = addr
		}
	case 0x0e: // JSR
		addr := jumpAddr()
		commit()
		dst.pushShort(em.pc)
		em.pc = addr
	case 0x0f: // STH
		a := pop()
		commit()
		if shortMode {
			dst.pushShort(a)
		} else {
			dst.pushByte(byte(a))
		}
	case 0x10: // LDZ
		addr := popByte()
		commit()
		if shortMode {
			src.pushShort(uint16(em.memory[addr])<<8 | uint16(em.memory[addr+1]))
		} else {
			src.pushByte(em.memory[addr])
		}
	case 0x11: // STZ
		addr := popByte()
		value := pop()
		commit()
		if shortMode {
			em.memory[addr] = byte(value >> 8)
			em.memory[addr+1] = byte(value)
		} else {
			em.memory[addr] = byte(value)
		}
	case 0x12: // LDR
		addr := em.pc + uint16(int16(int8(popByte())))
		commit()
		if shortMode {
			src.pushShort(uint16(em.memory[addr])<<8 | uint16(em.memory[addr+1]))
		} else {
			src.pushByte(em.memory[addr])
		}
	case 0x13: // STR
		addr := em.pc + uint16(int16(int8(popByte())))
		value := pop()
		commit()
		if shortMode {
			em.memory[addr] = byte(value >> 8)
			em.memory[addr+1] = byte(value)
		} else {
			em.memory[addr] = byte(value)
		}
	case 0x14: // LDA
		addr := popShort()
		commit()
		if shortMode {
			src.pushShort(uint16(em.memory[addr])<<8 | uint16(em.memory[addr+1]))
		} else {
			src.pushByte(em.memory[addr])
		}
	case 0x15: // STA
		addr := popShort()
		value := pop()
		commit()
		if shortMode {
			em.memory[addr] = byte(value >> 8)
			em.memory[addr+1] = byte(value)
		} else {
			em.memory[addr] = byte(value)
		}
	case 0x16: // DEI
		port := popByte()
		commit()
		if shortMode {
			src.pushByte(em.deviceIn(port))
			src.pushByte(em.deviceIn(port + 1))
		} else {
			src.pushByte(em.deviceIn(port))
		}
	case 0x17: // DEO
		port := popByte()
		value := pop()
		commit()
		if shortMode {
			em.deviceOut(port, byte(value>>8))
			em.deviceOut(port+1, byte(value))
		} else {
			em.deviceOut(port, byte(value))
		}
	case 0x18: // ADD
		b, a := pop(), pop()
		commit()
		push(a + b)
	case 0x19: // SUB
		b, a := pop(), pop()
		commit()
		push(a - b)
	case 0x1a: // MUL
		b, a := pop(), pop()
		commit()
		push(a * b)
	case 0x1b: // DIV
		b, a := pop(), pop()
		commit()
		if b == 0 {
			push(0)
		} else {
			push(a / b)
		}
	case 0x1c: // AND
		b, a := pop(), pop()
		commit()
		push(a & b)
	case 0x1d: // ORA
		b, a := pop(), pop()
		commit()
		push(a | b)
	case 0x1e: // EOR
		b, a := pop(), pop()
		commit()
		push(a ^ b)
	case 0x1f: // SFT
		shift := popByte()
		a := pop()
		commit()
		push((a >> (shift & 0x0f)) << (shift >> 4))
	}
}
