package encoder

import "github.com/lookbusy1344/rv32i-emulator/vm"

// ECALL makes an environment call: SYSTEM with funct3=0, imm=0, rd=rs1=0.
func ECALL() (uint32, error) {
	return packI(vm.OpSystem, 0, vm.Funct3Priv, 0, 0), nil
}

// EBREAK raises a debug breakpoint: SYSTEM with funct3=0, imm=1, rd=rs1=0.
func EBREAK() (uint32, error) {
	return packI(vm.OpSystem, 0, vm.Funct3Priv, 0, 1), nil
}

func csr(mnemonic string, funct3, address uint32, rd, rs1 int) (uint32, error) {
	if err := validateRegister(mnemonic, "rd", rd); err != nil {
		return 0, err
	}
	if err := validateRegister(mnemonic, "rs1", rs1); err != nil {
		return 0, err
	}
	if err := validateCSRAddress(mnemonic, address); err != nil {
		return 0, err
	}
	return packI(vm.OpSystem, rd, funct3, rs1, int32(address)), nil
}

// CSRRW rd, csr, rs1: read the old CSR value into rd (unless rd=x0) and
// unconditionally write rs1's value.
func CSRRW(rd int, address uint32, rs1 int) (uint32, error) {
	return csr("CSRRW", vm.Funct3Csrrw, address, rd, rs1)
}

// CSRRS rd, csr, rs1: read the CSR into rd, then set the bits rs1
// encodes. The write is skipped when rs1=x0, per the Zicsr probe rule.
func CSRRS(rd int, address uint32, rs1 int) (uint32, error) {
	return csr("CSRRS", vm.Funct3Csrrs, address, rd, rs1)
}

// CSRRC rd, csr, rs1: read the CSR into rd, then clear the bits rs1
// encodes. The write is skipped when rs1=x0.
func CSRRC(rd int, address uint32, rs1 int) (uint32, error) {
	return csr("CSRRC", vm.Funct3Csrrc, address, rd, rs1)
}

func csrImm(mnemonic string, funct3, address uint32, rd int, uimm uint32) (uint32, error) {
	if err := validateRegister(mnemonic, "rd", rd); err != nil {
		return 0, err
	}
	if err := validateCSRAddress(mnemonic, address); err != nil {
		return 0, err
	}
	if err := validateUimm5(mnemonic, uimm); err != nil {
		return 0, err
	}
	// The rs1 field carries the zero-extended 5-bit immediate, not a
	// register index, for the CSR immediate forms.
	return packI(vm.OpSystem, rd, funct3, int(uimm), int32(address)), nil
}

// CSRRWI rd, csr, uimm: unconditionally writes the zero-extended 5-bit
// immediate.
func CSRRWI(rd int, address, uimm uint32) (uint32, error) {
	return csrImm("CSRRWI", vm.Funct3Csrrwi, address, rd, uimm)
}

// CSRRSI rd, csr, uimm: sets the bits uimm encodes; skipped if uimm=0.
func CSRRSI(rd int, address, uimm uint32) (uint32, error) {
	return csrImm("CSRRSI", vm.Funct3Csrrsi, address, rd, uimm)
}

// CSRRCI rd, csr, uimm: clears the bits uimm encodes; skipped if uimm=0.
func CSRRCI(rd int, address, uimm uint32) (uint32, error) {
	return csrImm("CSRRCI", vm.Funct3Csrrci, address, rd, uimm)
}
