package encoder

import "github.com/lookbusy1344/rv32i-emulator/vm"

func branch(mnemonic string, funct3 uint32, rs1, rs2 int, imm int32) (uint32, error) {
	if err := validateRegister(mnemonic, "rs1", rs1); err != nil {
		return 0, err
	}
	if err := validateRegister(mnemonic, "rs2", rs2); err != nil {
		return 0, err
	}
	if err := validateBranchOffset(mnemonic, imm); err != nil {
		return 0, err
	}
	return packB(vm.OpBranch, funct3, rs1, rs2, imm), nil
}

// BEQ rs1, rs2, imm
func BEQ(rs1, rs2 int, imm int32) (uint32, error) { return branch("BEQ", vm.Funct3Beq, rs1, rs2, imm) }

// BNE rs1, rs2, imm
func BNE(rs1, rs2 int, imm int32) (uint32, error) { return branch("BNE", vm.Funct3Bne, rs1, rs2, imm) }

// BLT rs1, rs2, imm
func BLT(rs1, rs2 int, imm int32) (uint32, error) { return branch("BLT", vm.Funct3Blt, rs1, rs2, imm) }

// BGE rs1, rs2, imm
func BGE(rs1, rs2 int, imm int32) (uint32, error) { return branch("BGE", vm.Funct3Bge, rs1, rs2, imm) }

// BLTU rs1, rs2, imm
func BLTU(rs1, rs2 int, imm int32) (uint32, error) {
	return branch("BLTU", vm.Funct3Bltu, rs1, rs2, imm)
}

// BGEU rs1, rs2, imm
func BGEU(rs1, rs2 int, imm int32) (uint32, error) {
	return branch("BGEU", vm.Funct3Bgeu, rs1, rs2, imm)
}
