package vm

// ExecuteFence executes FENCE (opcode 0x0F). Both FENCE and FENCE.I are
// no-ops on a single in-order hart with no modelled instruction cache;
// the only observable effect is PC advancing by 4.
func ExecuteFence(v *VM, f DecodedFields) error {
	return nil
}
