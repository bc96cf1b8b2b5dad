package emulator

// systemDevice occupies slot 0. Writing a non-zero value to the state port
// (0x0f) halts the machine; the low bits become the exit code.
type systemDevice struct {
	em *EmulatorInstance
}

func (d *systemDevice) DeviceIn(port byte) byte {
	switch port {
	case 0x02:
		return d.em.working.Pointer
	case 0x03:
		return d.em.ret.Pointer
	}
	return d.em.deviceMemory[port]
}

func (d *systemDevice) DeviceOut(port byte, value byte) {
	if port == 0x0f && value != 0 {
		d.em.halted = true
		d.em.exitCode = int(value & 0x7f)
	}
}

// consoleDevice occupies slot 1. Bytes written to the write (0x08) or error
// (0x09) ports go to the configured stdout callback.
type consoleDevice struct {
	em *EmulatorInstance
}

func (d *consoleDevice) DeviceIn(port byte) byte {
	return d.em.deviceMemory[0x10|port]
}

func (d *consoleDevice) DeviceOut(port byte, value byte) {
	if (port == 0x08 || port == 0x09) && d.em.stdOutCallback != nil {
		d.em.stdOutCallback(value)
	}
}
