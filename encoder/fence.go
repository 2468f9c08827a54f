package encoder

import "github.com/lookbusy1344/rv32i-emulator/vm"

// FENCE pred, succ: pred/succ are 4-bit I/O-R-W membership masks. Both
// fields are accepted for bit-exact encoding even though the engine
// executes every FENCE as a no-op (single hart, no instruction cache).
func FENCE(pred, succ uint32) (uint32, error) {
	if pred > 0xF {
		return 0, &EncodingError{Mnemonic: "FENCE", Message: "pred mask exceeds 4 bits"}
	}
	if succ > 0xF {
		return 0, &EncodingError{Mnemonic: "FENCE", Message: "succ mask exceeds 4 bits"}
	}
	imm := int32(pred<<4 | succ)
	return packI(vm.OpFence, 0, vm.Funct3Fence, 0, imm), nil
}

// FENCEI encodes FENCE.I, the Zifencei instruction-fetch synchronisation
// fence. rd, rs1, and imm are reserved as zero.
func FENCEI() (uint32, error) {
	return packI(vm.OpFence, 0, vm.Funct3FenceI, 0, 0), nil
}
