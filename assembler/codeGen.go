package assembler

// imageOrigin is the VM's code origin; assembly starts there and the bytes
// below it (the zero page) are addressable but never stored in the ROM.
const imageOrigin = 0x100

// Image is the output byte buffer. The write pointer follows the statement
// addresses assigned in pass 1; length tracks the highest stored byte so the
// ROM ends at the last thing actually written.
type Image struct {
	data    [0x10000]byte
	pointer int
	length  int
}

func newImage() *Image {
	return &Image{pointer: imageOrigin, length: imageOrigin}
}

func (img *Image) seek(address uint16) {
	img.pointer = int(address)
}

func (img *Image) pushByte(b byte) {
	if img.pointer >= imageOrigin && img.pointer < len(img.data) {
		img.data[img.pointer] = b
		if img.pointer+1 > img.length {
			img.length = img.pointer + 1
		}
	}
	img.pointer++
}

func (img *Image) pushShort(s uint16) {
	img.pushByte(byte(s >> 8))
	img.pushByte(byte(s))
}

// ROM returns the written range starting at the origin.
func (img *Image) ROM() []byte {
	rom := make([]byte, img.length-imageOrigin)
	copy(rom, img.data[imageOrigin:img.length])
	return rom
}

// generate emits concrete bytes for a fully resolved statement list. It is
// purely mechanical: pass 2 has already validated everything, so this stage
// cannot fail.
func generate(stmts []statement) *Image {
	img := newImage()
	for _, st := range stmts {
		img.seek(st.addr)
		switch st.kind {
		case stmtInstruction:
			img.pushByte(st.token.Opcode)
		case stmtLiteralHexByte:
			img.pushByte(opLIT)
			img.pushByte(byte(st.value))
		case stmtLiteralHexShort:
			img.pushByte(opLIT2)
			img.pushShort(st.value)
		case stmtRawHexByte:
			img.pushByte(byte(st.value))
		case stmtRawHexShort:
			img.pushShort(st.value)
		case stmtLiteralZeroPage, stmtLiteralRelative:
			img.pushByte(opLIT)
			img.pushByte(byte(st.value))
		case stmtLiteralAbsolute:
			img.pushByte(opLIT2)
			img.pushShort(st.value)
		case stmtRawAddress:
			img.pushShort(st.value)
		case stmtRawChar:
			img.pushByte(byte(st.value))
		case stmtRawWord:
			for i := 0; i < len(st.token.Body); i++ {
				img.pushByte(st.token.Body[i])
			}
		}
	}
	return img
}
