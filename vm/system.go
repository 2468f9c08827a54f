package vm

// ECALLHook is invoked when an ECALL instruction executes. It receives
// the VM so it can inspect or mutate architectural state and memory; the
// reference convention (register a0 as a call number) lives outside this
// package, in the loader's default hook.
type ECALLHook func(v *VM) error

// ExecuteSystem executes a SYSTEM (opcode 0x73) instruction: ECALL,
// EBREAK, or one of the six Zicsr CSR instructions, selected by funct3
// and, for ECALL/EBREAK, the I-immediate.
func ExecuteSystem(v *VM, f DecodedFields) error {
	switch f.Funct3 {
	case Funct3Priv:
		imm := uint32(ImmI(f.Raw)) & 0xFFF
		switch imm {
		case 0: // ECALL
			hook := v.ECALLHook
			if hook == nil {
				return v.trap(TrapIllegalEnvironmentCall, "no environment-call hook installed")
			}
			if err := hook(v); err != nil {
				return v.trap(TrapIllegalEnvironmentCall, err.Error())
			}
			return nil
		case 1: // EBREAK
			return v.trap(TrapDebugBreakpoint, "")
		default:
			return v.trapIllegalOpcode(f, "SYSTEM funct3=0 requires imm 0 (ECALL) or 1 (EBREAK)")
		}
	case Funct3Csrrw:
		return v.executeCSR(f, v.CPU.GetRegister(f.Rs1), f.Rd != 0, true)
	case Funct3Csrrs:
		return v.executeCSR(f, v.CPU.GetRegister(f.Rs1), f.Rd != 0, f.Rs1 != 0)
	case Funct3Csrrc:
		return v.executeCSR(f, v.CPU.GetRegister(f.Rs1), f.Rd != 0, f.Rs1 != 0)
	case Funct3Csrrwi:
		uimm := uint32(f.Rs1)
		return v.executeCSR(f, uimm, f.Rd != 0, true)
	case Funct3Csrrsi:
		uimm := uint32(f.Rs1)
		return v.executeCSR(f, uimm, f.Rd != 0, uimm != 0)
	case Funct3Csrrci:
		uimm := uint32(f.Rs1)
		return v.executeCSR(f, uimm, f.Rd != 0, uimm != 0)
	default:
		return v.trapIllegalOpcode(f, "unknown SYSTEM funct3")
	}
}

// executeCSR implements the shared CSRRW/CSRRS/CSRRC(I) read-modify-write
// sequence. operand is the value read from rs1 (register form) or the
// zero-extended 5-bit immediate (immediate form). wantResult controls
// whether the old CSR value is written back to rd: false when rd is x0,
// since the result has no observable effect. doWrite controls whether the
// CSR write side effect happens at all: always true for CSRRW/CSRRWI
// (which always write), and true for CSRRS/CSRRC(I) only when the
// effective write mask is non-zero, per the Zicsr rule that probing a
// read-only counter with rs1=x0 or uimm=0 must not trap.
//
// The underlying CSR.Read is issued whenever wantResult is set OR the
// write side needs the prior value to compute its result (CSRRS/CSRRC
// OR/AND-NOT the operand against it); CSRRW/CSRRWI overwrite unconditionally
// and never need it. A rd=x0, rs1=x0 (or uimm=0) CSRRS/CSRRC is therefore a
// true no-op against a reserved CSR address: no read is attempted, so no
// trap fires.
func (v *VM) executeCSR(f DecodedFields, operand uint32, wantResult, doWrite bool) error {
	address := uint16(f.Raw>>20) & 0xFFF

	readModifiesWrite := doWrite && (f.Funct3 == Funct3Csrrs || f.Funct3 == Funct3Csrrsi ||
		f.Funct3 == Funct3Csrrc || f.Funct3 == Funct3Csrrci)

	var oldValue uint32
	if wantResult || readModifiesWrite {
		val, ok := v.CPU.CSR.Read(address)
		if !ok {
			return v.trap(TrapIllegalCSRAccess, "reserved CSR address")
		}
		oldValue = val
	}

	if doWrite {
		var newValue uint32
		switch f.Funct3 {
		case Funct3Csrrw, Funct3Csrrwi:
			newValue = operand
		case Funct3Csrrs, Funct3Csrrsi:
			newValue = oldValue | operand
		case Funct3Csrrc, Funct3Csrrci:
			newValue = oldValue &^ operand
		}
		if ok := v.CPU.CSR.Write(address, newValue); !ok {
			return v.trap(TrapIllegalCSRAccess, "write to read-only CSR")
		}
	}

	if wantResult {
		v.CPU.SetRegister(f.Rd, oldValue)
	}
	return nil
}
