package encoder

import "github.com/lookbusy1344/rv32i-emulator/vm"

// packR assembles an R-type word: funct7 | rs2 | rs1 | funct3 | rd | opcode.
func packR(opcode vm.Opcode, rd int, funct3 uint32, rs1, rs2 int, funct7 uint32) uint32 {
	return funct7<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | uint32(opcode)
}

// packI assembles an I-type word from a signed 12-bit immediate.
func packI(opcode vm.Opcode, rd int, funct3 uint32, rs1 int, imm int32) uint32 {
	return (uint32(imm)&0xFFF)<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | uint32(opcode)
}

// packS assembles an S-type word from a signed 12-bit immediate.
func packS(opcode vm.Opcode, funct3 uint32, rs1, rs2 int, imm int32) uint32 {
	u := uint32(imm)
	return (u>>5)<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | funct3<<12 | (u&0x1F)<<7 | uint32(opcode)
}

// packB assembles a B-type word from a signed offset with a zero low bit.
func packB(opcode vm.Opcode, funct3 uint32, rs1, rs2 int, imm int32) uint32 {
	u := uint32(imm)
	var word uint32
	word |= ((u >> 12) & 0x1) << 31
	word |= ((u >> 5) & 0x3F) << 25
	word |= uint32(rs2) << 20
	word |= uint32(rs1) << 15
	word |= funct3 << 12
	word |= ((u >> 1) & 0xF) << 8
	word |= ((u >> 11) & 0x1) << 7
	word |= uint32(opcode)
	return word
}

// packU assembles a U-type word; imm must already have zero low 12 bits.
func packU(opcode vm.Opcode, rd int, imm uint32) uint32 {
	return (imm & 0xFFFFF000) | uint32(rd)<<7 | uint32(opcode)
}

// packJ assembles a J-type word from a signed offset with a zero low bit.
func packJ(rd int, imm int32) uint32 {
	u := uint32(imm)
	var word uint32
	word |= ((u >> 20) & 0x1) << 31
	word |= ((u >> 12) & 0xFF) << 12
	word |= ((u >> 11) & 0x1) << 20
	word |= ((u >> 1) & 0x3FF) << 21
	word |= uint32(rd) << 7
	word |= uint32(vm.OpJal)
	return word
}
