package vm

// ExecuteStore executes a STORE (opcode 0x23) instruction: ea <- rs1 +
// s_imm, then writes the low 1/2/4 bytes of rs2 to memory.
func ExecuteStore(v *VM, f DecodedFields) error {
	ea := uint32(int64(v.CPU.GetRegister(f.Rs1)) + int64(ImmS(f.Raw)))
	rs2 := v.CPU.GetRegister(f.Rs2)

	switch f.Funct3 {
	case Funct3Sb:
		if err := v.Memory.WriteByte(ea, uint8(rs2)); err != nil {
			return v.trapMemoryAccess(err)
		}
		v.traceMemoryWrite(ea, rs2&0xFF, "BYTE")
	case Funct3Sh:
		if err := v.Memory.WriteHalfword(ea, uint16(rs2)); err != nil {
			return v.trapMemoryAccess(err)
		}
		v.traceMemoryWrite(ea, rs2&0xFFFF, "HALF")
	case Funct3Sw:
		if err := v.Memory.WriteWord(ea, rs2); err != nil {
			return v.trapMemoryAccess(err)
		}
		v.traceMemoryWrite(ea, rs2, "WORD")
	default:
		return v.trapIllegalOpcode(f, "unknown STORE funct3")
	}
	return nil
}
