package encoder

import "github.com/lookbusy1344/rv32i-emulator/vm"

func load(mnemonic string, funct3 uint32, rd, rs1 int, imm int32) (uint32, error) {
	if err := validateRegister(mnemonic, "rd", rd); err != nil {
		return 0, err
	}
	if err := validateRegister(mnemonic, "rs1", rs1); err != nil {
		return 0, err
	}
	if err := validateSigned12(mnemonic, imm); err != nil {
		return 0, err
	}
	return packI(vm.OpLoad, rd, funct3, rs1, imm), nil
}

// LB rd, imm(rs1)
func LB(rd, rs1 int, imm int32) (uint32, error) { return load("LB", vm.Funct3Lb, rd, rs1, imm) }

// LH rd, imm(rs1)
func LH(rd, rs1 int, imm int32) (uint32, error) { return load("LH", vm.Funct3Lh, rd, rs1, imm) }

// LW rd, imm(rs1)
func LW(rd, rs1 int, imm int32) (uint32, error) { return load("LW", vm.Funct3Lw, rd, rs1, imm) }

// LBU rd, imm(rs1)
func LBU(rd, rs1 int, imm int32) (uint32, error) { return load("LBU", vm.Funct3Lbu, rd, rs1, imm) }

// LHU rd, imm(rs1)
func LHU(rd, rs1 int, imm int32) (uint32, error) { return load("LHU", vm.Funct3Lhu, rd, rs1, imm) }

func store(mnemonic string, funct3 uint32, rs1, rs2 int, imm int32) (uint32, error) {
	if err := validateRegister(mnemonic, "rs1", rs1); err != nil {
		return 0, err
	}
	if err := validateRegister(mnemonic, "rs2", rs2); err != nil {
		return 0, err
	}
	if err := validateSigned12(mnemonic, imm); err != nil {
		return 0, err
	}
	return packS(vm.OpStore, funct3, rs1, rs2, imm), nil
}

// SB imm(rs1), rs2
func SB(rs1, rs2 int, imm int32) (uint32, error) { return store("SB", vm.Funct3Sb, rs1, rs2, imm) }

// SH imm(rs1), rs2
func SH(rs1, rs2 int, imm int32) (uint32, error) { return store("SH", vm.Funct3Sh, rs1, rs2, imm) }

// SW imm(rs1), rs2
func SW(rs1, rs2 int, imm int32) (uint32, error) { return store("SW", vm.Funct3Sw, rs1, rs2, imm) }
