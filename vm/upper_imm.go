package vm

// ExecuteLui executes LUI (opcode 0x37): rd <- the U-immediate, whose low
// 12 bits are already zero.
func ExecuteLui(v *VM, f DecodedFields) error {
	v.CPU.SetRegister(f.Rd, uint32(ImmU(f.Raw)))
	return nil
}

// ExecuteAuipc executes AUIPC (opcode 0x17): rd <- PC + the U-immediate.
func ExecuteAuipc(v *VM, f DecodedFields) error {
	v.CPU.SetRegister(f.Rd, v.CPU.PC+uint32(ImmU(f.Raw)))
	return nil
}
