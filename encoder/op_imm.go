package encoder

import "github.com/lookbusy1344/rv32i-emulator/vm"

func opImm(mnemonic string, funct3 uint32, rd, rs1 int, imm int32) (uint32, error) {
	if err := validateRegister(mnemonic, "rd", rd); err != nil {
		return 0, err
	}
	if err := validateRegister(mnemonic, "rs1", rs1); err != nil {
		return 0, err
	}
	if err := validateSigned12(mnemonic, imm); err != nil {
		return 0, err
	}
	return packI(vm.OpImm, rd, funct3, rs1, imm), nil
}

// ADDI rd, rs1, imm
func ADDI(rd, rs1 int, imm int32) (uint32, error) { return opImm("ADDI", vm.Funct3Add, rd, rs1, imm) }

// SLTI rd, rs1, imm
func SLTI(rd, rs1 int, imm int32) (uint32, error) { return opImm("SLTI", vm.Funct3Slt, rd, rs1, imm) }

// SLTIU rd, rs1, imm
func SLTIU(rd, rs1 int, imm int32) (uint32, error) {
	return opImm("SLTIU", vm.Funct3Sltu, rd, rs1, imm)
}

// XORI rd, rs1, imm
func XORI(rd, rs1 int, imm int32) (uint32, error) { return opImm("XORI", vm.Funct3Xor, rd, rs1, imm) }

// ORI rd, rs1, imm
func ORI(rd, rs1 int, imm int32) (uint32, error) { return opImm("ORI", vm.Funct3Or, rd, rs1, imm) }

// ANDI rd, rs1, imm
func ANDI(rd, rs1 int, imm int32) (uint32, error) { return opImm("ANDI", vm.Funct3And, rd, rs1, imm) }

func shiftImm(mnemonic string, funct7, funct3 uint32, rd, rs1 int, shamt uint32) (uint32, error) {
	if err := validateRegister(mnemonic, "rd", rd); err != nil {
		return 0, err
	}
	if err := validateRegister(mnemonic, "rs1", rs1); err != nil {
		return 0, err
	}
	if err := validateShamt(mnemonic, shamt); err != nil {
		return 0, err
	}
	imm := int32(funct7<<5 | shamt)
	return packI(vm.OpImm, rd, funct3, rs1, imm), nil
}

// SLLI rd, rs1, shamt
func SLLI(rd, rs1 int, shamt uint32) (uint32, error) {
	return shiftImm("SLLI", vm.Funct7Base, vm.Funct3Sll, rd, rs1, shamt)
}

// SRLI rd, rs1, shamt
func SRLI(rd, rs1 int, shamt uint32) (uint32, error) {
	return shiftImm("SRLI", vm.Funct7Base, vm.Funct3Srl, rd, rs1, shamt)
}

// SRAI rd, rs1, shamt
func SRAI(rd, rs1 int, shamt uint32) (uint32, error) {
	return shiftImm("SRAI", vm.Funct7Alt, vm.Funct3Srl, rd, rs1, shamt)
}
