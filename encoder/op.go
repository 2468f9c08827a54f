package encoder

import "github.com/lookbusy1344/rv32i-emulator/vm"

func op(mnemonic string, funct3, funct7 uint32, rd, rs1, rs2 int) (uint32, error) {
	if err := validateRegister(mnemonic, "rd", rd); err != nil {
		return 0, err
	}
	if err := validateRegister(mnemonic, "rs1", rs1); err != nil {
		return 0, err
	}
	if err := validateRegister(mnemonic, "rs2", rs2); err != nil {
		return 0, err
	}
	return packR(vm.OpOp, rd, funct3, rs1, rs2, funct7), nil
}

// ADD rd, rs1, rs2
func ADD(rd, rs1, rs2 int) (uint32, error) { return op("ADD", vm.Funct3Add, vm.Funct7Base, rd, rs1, rs2) }

// SUB rd, rs1, rs2
func SUB(rd, rs1, rs2 int) (uint32, error) { return op("SUB", vm.Funct3Add, vm.Funct7Alt, rd, rs1, rs2) }

// SLL rd, rs1, rs2
func SLL(rd, rs1, rs2 int) (uint32, error) { return op("SLL", vm.Funct3Sll, vm.Funct7Base, rd, rs1, rs2) }

// SLT rd, rs1, rs2
func SLT(rd, rs1, rs2 int) (uint32, error) { return op("SLT", vm.Funct3Slt, vm.Funct7Base, rd, rs1, rs2) }

// SLTU rd, rs1, rs2
func SLTU(rd, rs1, rs2 int) (uint32, error) {
	return op("SLTU", vm.Funct3Sltu, vm.Funct7Base, rd, rs1, rs2)
}

// XOR rd, rs1, rs2
func XOR(rd, rs1, rs2 int) (uint32, error) { return op("XOR", vm.Funct3Xor, vm.Funct7Base, rd, rs1, rs2) }

// SRL rd, rs1, rs2
func SRL(rd, rs1, rs2 int) (uint32, error) { return op("SRL", vm.Funct3Srl, vm.Funct7Base, rd, rs1, rs2) }

// SRA rd, rs1, rs2
func SRA(rd, rs1, rs2 int) (uint32, error) { return op("SRA", vm.Funct3Srl, vm.Funct7Alt, rd, rs1, rs2) }

// OR rd, rs1, rs2
func OR(rd, rs1, rs2 int) (uint32, error) { return op("OR", vm.Funct3Or, vm.Funct7Base, rd, rs1, rs2) }

// AND rd, rs1, rs2
func AND(rd, rs1, rs2 int) (uint32, error) { return op("AND", vm.Funct3And, vm.Funct7Base, rd, rs1, rs2) }
