package encoder

import (
	"testing"

	"github.com/lookbusy1344/rv32i-emulator/vm"
)

// rFields checks that decoding word yields the given register and
// function fields.
func rFields(t *testing.T, word uint32, opcode vm.Opcode, rd int, funct3 uint32, rs1, rs2 int, funct7 uint32) {
	t.Helper()
	f := vm.Decode(word)
	if f.Opcode != opcode {
		t.Errorf("opcode = 0x%02X, want 0x%02X", uint32(f.Opcode), uint32(opcode))
	}
	if f.Rd != rd {
		t.Errorf("rd = %d, want %d", f.Rd, rd)
	}
	if f.Funct3 != funct3 {
		t.Errorf("funct3 = %d, want %d", f.Funct3, funct3)
	}
	if f.Rs1 != rs1 {
		t.Errorf("rs1 = %d, want %d", f.Rs1, rs1)
	}
	if f.Rs2 != rs2 {
		t.Errorf("rs2 = %d, want %d", f.Rs2, rs2)
	}
	if f.Funct7 != funct7 {
		t.Errorf("funct7 = 0x%02X, want 0x%02X", f.Funct7, funct7)
	}
}

func TestOpImmRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		enc    func(rd, rs1 int, imm int32) (uint32, error)
		funct3 uint32
	}{
		{"ADDI", ADDI, vm.Funct3Add},
		{"SLTI", SLTI, vm.Funct3Slt},
		{"SLTIU", SLTIU, vm.Funct3Sltu},
		{"XORI", XORI, vm.Funct3Xor},
		{"ORI", ORI, vm.Funct3Or},
		{"ANDI", ANDI, vm.Funct3And},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, imm := range []int32{-2048, -5, 0, 1, 2047} {
				word, err := tt.enc(3, 17, imm)
				if err != nil {
					t.Fatalf("imm %d: %v", imm, err)
				}
				f := vm.Decode(word)
				if f.Opcode != vm.OpImm || f.Rd != 3 || f.Rs1 != 17 || f.Funct3 != tt.funct3 {
					t.Errorf("imm %d: fields %+v", imm, f)
				}
				if got := vm.ImmI(word); got != imm {
					t.Errorf("ImmI = %d, want %d", got, imm)
				}
			}
		})
	}
}

func TestShiftImmRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		enc    func(rd, rs1 int, shamt uint32) (uint32, error)
		funct3 uint32
		funct7 uint32
	}{
		{"SLLI", SLLI, vm.Funct3Sll, vm.Funct7Base},
		{"SRLI", SRLI, vm.Funct3Srl, vm.Funct7Base},
		{"SRAI", SRAI, vm.Funct3Srl, vm.Funct7Alt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, shamt := range []uint32{0, 1, 15, 31} {
				word, err := tt.enc(5, 6, shamt)
				if err != nil {
					t.Fatalf("shamt %d: %v", shamt, err)
				}
				f := vm.Decode(word)
				if f.Opcode != vm.OpImm || f.Rd != 5 || f.Rs1 != 6 || f.Funct3 != tt.funct3 || f.Funct7 != tt.funct7 {
					t.Errorf("shamt %d: fields %+v", shamt, f)
				}
				if got := uint32(vm.ImmI(word)) & 0x1F; got != shamt {
					t.Errorf("decoded shamt = %d, want %d", got, shamt)
				}
			}
		})
	}
}

func TestOpRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		enc    func(rd, rs1, rs2 int) (uint32, error)
		funct3 uint32
		funct7 uint32
	}{
		{"ADD", ADD, vm.Funct3Add, vm.Funct7Base},
		{"SUB", SUB, vm.Funct3Add, vm.Funct7Alt},
		{"SLL", SLL, vm.Funct3Sll, vm.Funct7Base},
		{"SLT", SLT, vm.Funct3Slt, vm.Funct7Base},
		{"SLTU", SLTU, vm.Funct3Sltu, vm.Funct7Base},
		{"XOR", XOR, vm.Funct3Xor, vm.Funct7Base},
		{"SRL", SRL, vm.Funct3Srl, vm.Funct7Base},
		{"SRA", SRA, vm.Funct3Srl, vm.Funct7Alt},
		{"OR", OR, vm.Funct3Or, vm.Funct7Base},
		{"AND", AND, vm.Funct3And, vm.Funct7Base},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, err := tt.enc(1, 2, 31)
			if err != nil {
				t.Fatal(err)
			}
			rFields(t, word, vm.OpOp, 1, tt.funct3, 2, 31, tt.funct7)
		})
	}
}

func TestBranchRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		enc    func(rs1, rs2 int, imm int32) (uint32, error)
		funct3 uint32
	}{
		{"BEQ", BEQ, vm.Funct3Beq},
		{"BNE", BNE, vm.Funct3Bne},
		{"BLT", BLT, vm.Funct3Blt},
		{"BGE", BGE, vm.Funct3Bge},
		{"BLTU", BLTU, vm.Funct3Bltu},
		{"BGEU", BGEU, vm.Funct3Bgeu},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, imm := range []int32{-4096, -500, 0, 500, 4094} {
				word, err := tt.enc(8, 9, imm)
				if err != nil {
					t.Fatalf("imm %d: %v", imm, err)
				}
				f := vm.Decode(word)
				if f.Opcode != vm.OpBranch || f.Rs1 != 8 || f.Rs2 != 9 || f.Funct3 != tt.funct3 {
					t.Errorf("imm %d: fields %+v", imm, f)
				}
				if got := vm.ImmB(word); got != imm {
					t.Errorf("ImmB = %d, want %d", got, imm)
				}
			}
		})
	}
}

func TestJumpRoundTrip(t *testing.T) {
	for _, imm := range []int32{-1048576, -2, 0, 2, 500, 1048574} {
		word, err := JAL(1, imm)
		if err != nil {
			t.Fatalf("JAL imm %d: %v", imm, err)
		}
		f := vm.Decode(word)
		if f.Opcode != vm.OpJal || f.Rd != 1 {
			t.Errorf("JAL imm %d: fields %+v", imm, f)
		}
		if got := vm.ImmJ(word); got != imm {
			t.Errorf("ImmJ = %d, want %d", got, imm)
		}
	}

	for _, imm := range []int32{-2048, -1, 0, 1, 2047} {
		word, err := JALR(1, 2, imm)
		if err != nil {
			t.Fatalf("JALR imm %d: %v", imm, err)
		}
		f := vm.Decode(word)
		if f.Opcode != vm.OpJalr || f.Rd != 1 || f.Rs1 != 2 || f.Funct3 != 0 {
			t.Errorf("JALR imm %d: fields %+v", imm, f)
		}
		if got := vm.ImmI(word); got != imm {
			t.Errorf("ImmI = %d, want %d", got, imm)
		}
	}
}

func TestLoadStoreRoundTrip(t *testing.T) {
	loads := []struct {
		name   string
		enc    func(rd, rs1 int, imm int32) (uint32, error)
		funct3 uint32
	}{
		{"LB", LB, vm.Funct3Lb},
		{"LH", LH, vm.Funct3Lh},
		{"LW", LW, vm.Funct3Lw},
		{"LBU", LBU, vm.Funct3Lbu},
		{"LHU", LHU, vm.Funct3Lhu},
	}
	for _, tt := range loads {
		t.Run(tt.name, func(t *testing.T) {
			word, err := tt.enc(4, 5, -100)
			if err != nil {
				t.Fatal(err)
			}
			f := vm.Decode(word)
			if f.Opcode != vm.OpLoad || f.Rd != 4 || f.Rs1 != 5 || f.Funct3 != tt.funct3 {
				t.Errorf("fields %+v", f)
			}
			if got := vm.ImmI(word); got != -100 {
				t.Errorf("ImmI = %d, want -100", got)
			}
		})
	}

	stores := []struct {
		name   string
		enc    func(rs1, rs2 int, imm int32) (uint32, error)
		funct3 uint32
	}{
		{"SB", SB, vm.Funct3Sb},
		{"SH", SH, vm.Funct3Sh},
		{"SW", SW, vm.Funct3Sw},
	}
	for _, tt := range stores {
		t.Run(tt.name, func(t *testing.T) {
			word, err := tt.enc(6, 7, -100)
			if err != nil {
				t.Fatal(err)
			}
			f := vm.Decode(word)
			if f.Opcode != vm.OpStore || f.Rs1 != 6 || f.Rs2 != 7 || f.Funct3 != tt.funct3 {
				t.Errorf("fields %+v", f)
			}
			if got := vm.ImmS(word); got != -100 {
				t.Errorf("ImmS = %d, want -100", got)
			}
		})
	}
}

func TestUpperImmRoundTrip(t *testing.T) {
	for _, imm := range []uint32{0, 0x1000, 0xDF5A5000, 0xFFFFF000} {
		lui, err := LUI(1, imm)
		if err != nil {
			t.Fatalf("LUI 0x%X: %v", imm, err)
		}
		if f := vm.Decode(lui); f.Opcode != vm.OpLui || f.Rd != 1 {
			t.Errorf("LUI 0x%X: fields %+v", imm, f)
		}
		if got := uint32(vm.ImmU(lui)); got != imm {
			t.Errorf("ImmU(LUI 0x%X) = 0x%X", imm, got)
		}

		auipc, err := AUIPC(2, imm)
		if err != nil {
			t.Fatalf("AUIPC 0x%X: %v", imm, err)
		}
		if f := vm.Decode(auipc); f.Opcode != vm.OpAuipc || f.Rd != 2 {
			t.Errorf("AUIPC 0x%X: fields %+v", imm, f)
		}
		if got := uint32(vm.ImmU(auipc)); got != imm {
			t.Errorf("ImmU(AUIPC 0x%X) = 0x%X", imm, got)
		}
	}
}

func TestFenceRoundTrip(t *testing.T) {
	word, err := FENCE(0xF, 0xF)
	if err != nil {
		t.Fatal(err)
	}
	f := vm.Decode(word)
	if f.Opcode != vm.OpFence || f.Funct3 != vm.Funct3Fence {
		t.Errorf("FENCE fields %+v", f)
	}
	if got := uint32(vm.ImmI(word)); got != 0xFF {
		t.Errorf("FENCE imm = 0x%X, want 0xFF", got)
	}

	word, err = FENCEI()
	if err != nil {
		t.Fatal(err)
	}
	f = vm.Decode(word)
	if f.Opcode != vm.OpFence || f.Funct3 != vm.Funct3FenceI {
		t.Errorf("FENCE.I fields %+v", f)
	}
}

func TestSystemRoundTrip(t *testing.T) {
	ecall, err := ECALL()
	if err != nil {
		t.Fatal(err)
	}
	if ecall != 0x00000073 {
		t.Errorf("ECALL = 0x%08X, want 0x00000073", ecall)
	}

	ebreak, err := EBREAK()
	if err != nil {
		t.Fatal(err)
	}
	if ebreak != 0x00100073 {
		t.Errorf("EBREAK = 0x%08X, want 0x00100073", ebreak)
	}

	regForms := []struct {
		name   string
		enc    func(rd int, address uint32, rs1 int) (uint32, error)
		funct3 uint32
	}{
		{"CSRRW", CSRRW, vm.Funct3Csrrw},
		{"CSRRS", CSRRS, vm.Funct3Csrrs},
		{"CSRRC", CSRRC, vm.Funct3Csrrc},
	}
	for _, tt := range regForms {
		t.Run(tt.name, func(t *testing.T) {
			word, err := tt.enc(1, 0xC00, 2)
			if err != nil {
				t.Fatal(err)
			}
			f := vm.Decode(word)
			if f.Opcode != vm.OpSystem || f.Rd != 1 || f.Rs1 != 2 || f.Funct3 != tt.funct3 {
				t.Errorf("fields %+v", f)
			}
			if addr := (word >> 20) & 0xFFF; addr != 0xC00 {
				t.Errorf("CSR address = 0x%X, want 0xC00", addr)
			}
		})
	}

	immForms := []struct {
		name   string
		enc    func(rd int, address, uimm uint32) (uint32, error)
		funct3 uint32
	}{
		{"CSRRWI", CSRRWI, vm.Funct3Csrrwi},
		{"CSRRSI", CSRRSI, vm.Funct3Csrrsi},
		{"CSRRCI", CSRRCI, vm.Funct3Csrrci},
	}
	for _, tt := range immForms {
		t.Run(tt.name, func(t *testing.T) {
			word, err := tt.enc(1, 0xC01, 19)
			if err != nil {
				t.Fatal(err)
			}
			f := vm.Decode(word)
			if f.Opcode != vm.OpSystem || f.Rd != 1 || f.Funct3 != tt.funct3 {
				t.Errorf("fields %+v", f)
			}
			if f.Rs1 != 19 {
				t.Errorf("uimm field = %d, want 19", f.Rs1)
			}
			if addr := (word >> 20) & 0xFFF; addr != 0xC01 {
				t.Errorf("CSR address = 0x%X, want 0xC01", addr)
			}
		})
	}
}
