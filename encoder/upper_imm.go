package encoder

import "github.com/lookbusy1344/rv32i-emulator/vm"

// LUI rd, imm (imm's low 12 bits must be zero)
func LUI(rd int, imm uint32) (uint32, error) {
	if err := validateRegister("LUI", "rd", rd); err != nil {
		return 0, err
	}
	if err := validateUpperImm("LUI", imm); err != nil {
		return 0, err
	}
	return packU(vm.OpLui, rd, imm), nil
}

// AUIPC rd, imm (imm's low 12 bits must be zero)
func AUIPC(rd int, imm uint32) (uint32, error) {
	if err := validateRegister("AUIPC", "rd", rd); err != nil {
		return 0, err
	}
	if err := validateUpperImm("AUIPC", imm); err != nil {
		return 0, err
	}
	return packU(vm.OpAuipc, rd, imm), nil
}
