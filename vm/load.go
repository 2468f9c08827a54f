package vm

// ExecuteLoad executes a LOAD (opcode 0x03) instruction: ea <- rs1 +
// i_imm, then reads 1/2/4 bytes from memory with the width and
// sign/zero-extension the funct3 selects.
func ExecuteLoad(v *VM, f DecodedFields) error {
	ea := uint32(int64(v.CPU.GetRegister(f.Rs1)) + int64(ImmI(f.Raw)))

	switch f.Funct3 {
	case Funct3Lb:
		b, err := v.Memory.ReadByte(ea)
		if err != nil {
			return v.trapMemoryAccess(err)
		}
		v.CPU.SetRegister(f.Rd, uint32(int32(int8(b))))
		v.traceMemoryRead(ea, uint32(b), "BYTE")
	case Funct3Lh:
		h, err := v.Memory.ReadHalfword(ea)
		if err != nil {
			return v.trapMemoryAccess(err)
		}
		v.CPU.SetRegister(f.Rd, uint32(int32(int16(h))))
		v.traceMemoryRead(ea, uint32(h), "HALF")
	case Funct3Lw:
		w, err := v.Memory.ReadWord(ea)
		if err != nil {
			return v.trapMemoryAccess(err)
		}
		v.CPU.SetRegister(f.Rd, w)
		v.traceMemoryRead(ea, w, "WORD")
	case Funct3Lbu:
		b, err := v.Memory.ReadByte(ea)
		if err != nil {
			return v.trapMemoryAccess(err)
		}
		v.CPU.SetRegister(f.Rd, uint32(b))
		v.traceMemoryRead(ea, uint32(b), "BYTE")
	case Funct3Lhu:
		h, err := v.Memory.ReadHalfword(ea)
		if err != nil {
			return v.trapMemoryAccess(err)
		}
		v.CPU.SetRegister(f.Rd, uint32(h))
		v.traceMemoryRead(ea, uint32(h), "HALF")
	default:
		return v.trapIllegalOpcode(f, "unknown LOAD funct3")
	}
	return nil
}
