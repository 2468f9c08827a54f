package encoder

import "github.com/lookbusy1344/rv32i-emulator/vm"

// JAL rd, imm: imm is the signed byte offset from the instruction's own
// address, with a mandatory zero low bit.
func JAL(rd int, imm int32) (uint32, error) {
	if err := validateRegister("JAL", "rd", rd); err != nil {
		return 0, err
	}
	if err := validateJumpOffset("JAL", imm); err != nil {
		return 0, err
	}
	return packJ(rd, imm), nil
}

// JALR rd, rs1, imm: imm is a signed 12-bit byte offset added to rs1
// before the result's low bit is cleared.
func JALR(rd, rs1 int, imm int32) (uint32, error) {
	if err := validateRegister("JALR", "rd", rd); err != nil {
		return 0, err
	}
	if err := validateRegister("JALR", "rs1", rs1); err != nil {
		return 0, err
	}
	if err := validateSigned12("JALR", imm); err != nil {
		return 0, err
	}
	return packI(vm.OpJalr, rd, 0, rs1, imm), nil
}
