package vm

// DecodedFields holds the raw bit-field extraction of an instruction word,
// before any immediate has been assembled or sign-extended.
type DecodedFields struct {
	Opcode Opcode
	Rd     int
	Funct3 uint32
	Rs1    int
	Rs2    int
	Funct7 uint32
	Raw    uint32
}

// Decode extracts the fixed bit fields of a 32-bit instruction word. It
// never fails: an unrecognised opcode is reported to the caller via the
// Opcode field and rejected later during dispatch.
func Decode(word uint32) DecodedFields {
	return DecodedFields{
		Opcode: Opcode(word & 0x7F),
		Rd:     int((word >> 7) & 0x1F),
		Funct3: (word >> 12) & 0x7,
		Rs1:    int((word >> 15) & 0x1F),
		Rs2:    int((word >> 20) & 0x1F),
		Funct7: (word >> 25) & 0x7F,
		Raw:    word,
	}
}

// ImmI extracts and sign-extends the I-type immediate (bits [31:20]).
func ImmI(word uint32) int32 {
	return signExtend(word>>20, 12)
}

// ImmS extracts and sign-extends the S-type immediate.
func ImmS(word uint32) int32 {
	imm := ((word >> 25) << 5) | ((word >> 7) & 0x1F)
	return signExtend(imm, 12)
}

// ImmB extracts and sign-extends the B-type immediate. Bit 0 is always zero.
func ImmB(word uint32) int32 {
	imm := (((word >> 31) & 0x1) << 12) |
		(((word >> 7) & 0x1) << 11) |
		(((word >> 25) & 0x3F) << 5) |
		(((word >> 8) & 0xF) << 1)
	return signExtend(imm, 13)
}

// ImmU extracts the U-type immediate. The low 12 bits are always zero and
// the value is already sign-aligned in its upper bits, so it needs no
// further sign-extension.
func ImmU(word uint32) int32 {
	return int32(word & 0xFFFFF000)
}

// ImmJ extracts and sign-extends the J-type immediate. Bit 0 is always zero.
func ImmJ(word uint32) int32 {
	imm := (((word >> 31) & 0x1) << 20) |
		(((word >> 12) & 0xFF) << 12) |
		(((word >> 20) & 0x1) << 11) |
		(((word >> 21) & 0x3FF) << 1)
	return signExtend(imm, 21)
}

// signExtend treats the low bits-width bits of value as a two's-complement
// signed integer and sign-extends it to a full int32.
func signExtend(value uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(value<<shift) >> shift
}
