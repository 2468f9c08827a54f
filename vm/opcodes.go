package vm

// Opcode is the 7-bit opcode field (instruction bits [0:6]).
type Opcode uint32

// The eleven RV32I/Zicsr/Zifencei opcodes. Any other 7-bit value traps as
// an illegal opcode.
const (
	OpLoad   Opcode = 0x03
	OpFence  Opcode = 0x0F
	OpImm    Opcode = 0x13
	OpAuipc  Opcode = 0x17
	OpStore  Opcode = 0x23
	OpOp     Opcode = 0x33
	OpLui    Opcode = 0x37
	OpBranch Opcode = 0x63
	OpJalr   Opcode = 0x67
	OpJal    Opcode = 0x6F
	OpSystem Opcode = 0x73
)

func (o Opcode) String() string {
	switch o {
	case OpLoad:
		return "LOAD"
	case OpFence:
		return "FENCE"
	case OpImm:
		return "OP-IMM"
	case OpAuipc:
		return "AUIPC"
	case OpStore:
		return "STORE"
	case OpOp:
		return "OP"
	case OpLui:
		return "LUI"
	case OpBranch:
		return "BRANCH"
	case OpJalr:
		return "JALR"
	case OpJal:
		return "JAL"
	case OpSystem:
		return "SYSTEM"
	default:
		return "UNKNOWN"
	}
}

// funct3 values used by OP-IMM and OP.
const (
	Funct3Add    = 0b000
	Funct3Sll    = 0b001
	Funct3Slt    = 0b010
	Funct3Sltu   = 0b011
	Funct3Xor    = 0b100
	Funct3Srl    = 0b101
	Funct3Or     = 0b110
	Funct3And    = 0b111
)

// funct3 values used by BRANCH.
const (
	Funct3Beq  = 0b000
	Funct3Bne  = 0b001
	Funct3Blt  = 0b100
	Funct3Bge  = 0b101
	Funct3Bltu = 0b110
	Funct3Bgeu = 0b111
)

// funct3 values used by LOAD.
const (
	Funct3Lb  = 0b000
	Funct3Lh  = 0b001
	Funct3Lw  = 0b010
	Funct3Lbu = 0b100
	Funct3Lhu = 0b101
)

// funct3 values used by STORE.
const (
	Funct3Sb = 0b000
	Funct3Sh = 0b001
	Funct3Sw = 0b010
)

// funct3 values used by SYSTEM.
const (
	Funct3Priv   = 0b000 // ECALL/EBREAK, distinguished by the immediate
	Funct3Csrrw  = 0b001
	Funct3Csrrs  = 0b010
	Funct3Csrrc  = 0b011
	Funct3Csrrwi = 0b101
	Funct3Csrrsi = 0b110
	Funct3Csrrci = 0b111
)

// funct7 values that distinguish ADD/SUB and SRL/SRA.
const (
	Funct7Base = 0x00
	Funct7Alt  = 0x20
)

// funct3 values used by FENCE: FENCE itself and the Zifencei FENCE.I.
const (
	Funct3Fence  = 0b000
	Funct3FenceI = 0b001
)
