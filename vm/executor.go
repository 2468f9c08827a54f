package vm

import (
	"io"
	"time"
)

// execFunc executes one decoded instruction. Control-transfer instructions
// (JAL, JALR, BRANCH) set CPU.PC themselves; every other handler leaves PC
// untouched and Step advances it by 4 on success.
type execFunc func(v *VM, f DecodedFields) error

var dispatchTable = map[Opcode]execFunc{
	OpLoad:   ExecuteLoad,
	OpFence:  ExecuteFence,
	OpImm:    ExecuteOpImm,
	OpAuipc:  ExecuteAuipc,
	OpStore:  ExecuteStore,
	OpOp:     ExecuteOp,
	OpLui:    ExecuteLui,
	OpBranch: ExecuteBranch,
	OpJalr:   ExecuteJalr,
	OpJal:    ExecuteJal,
	OpSystem: ExecuteSystem,
}

// controlsOwnPC is the set of opcodes whose handler fully owns the PC
// update, so Step must not also add 4 after a successful dispatch.
var controlsOwnPC = map[Opcode]bool{
	OpJal:    true,
	OpJalr:   true,
	OpBranch: true,
}

// VM owns the architectural state of a single hart (CPU and Memory) and
// drives the fetch-decode-execute loop. It holds no hidden state beyond
// that plus an immutable dispatch table and optional diagnostic hooks.
type VM struct {
	CPU    *CPU
	Memory *Memory

	// MaxCycles caps the number of steps Run will execute; 0 means
	// unlimited.
	MaxCycles uint64

	// ECALLHook is invoked whenever an ECALL instruction executes. If
	// nil, ECALL always traps as an illegal environment call.
	ECALLHook ECALLHook

	// OutputWriter is where the reference ECALL hook convention (a0=1,
	// write a1 as a character) sends its output. Defaults to nil, in
	// which case callers wiring a hook should supply their own sink.
	OutputWriter io.Writer

	// Diagnostic hooks, all optional; each is a no-op when nil.
	ExecutionTrace *ExecutionTrace
	MemoryTrace    *MemoryTrace
	Statistics     *PerformanceStatistics
	CodeCoverage   *CodeCoverage
	RegisterTrace  *RegisterTrace

	// Halted is set once a trap or the ECALL a0=0 convention stops
	// execution; Run checks it every iteration.
	Halted   bool
	LastTrap *Trap
	ExitCode int

	// currentWord is the instruction word Step is currently dispatching,
	// kept so trap()/trapMemoryAccess() can attach it without every
	// handler needing to thread the raw word through.
	currentWord uint32
}

// NewVM creates a VM over the given memory with a fresh, zeroed CPU.
func NewVM(memory *Memory) *VM {
	return &VM{
		CPU:    NewCPU(),
		Memory: memory,
	}
}

// Reset zeroes the CPU and clears the halted/trap state; memory contents
// are left untouched (the caller reloads a program if it wants to rerun).
func (v *VM) Reset() {
	v.CPU.Reset()
	v.Halted = false
	v.LastTrap = nil
	v.ExitCode = 0
}

// Stop halts the VM with exit code 0, for use by an ECALL hook
// implementing the a0=0 terminate convention.
func (v *VM) Stop() {
	v.Halted = true
}

// Fetch reads the 32-bit little-endian instruction word at PC. A fetch
// outside memory bounds traps as a memory access violation.
func (v *VM) Fetch() (uint32, error) {
	word, err := v.Memory.ReadWord(v.CPU.PC)
	if err != nil {
		return 0, NewTrap(TrapMemoryAccessViolation, v.CPU.PC, 0, "instruction fetch out of bounds", err)
	}
	return word, nil
}

// Step fetches, decodes, and executes exactly one instruction. On success
// it advances PC (unless the instruction already did), samples the time
// CSR, and increments the cycle and retired-instruction counters. A trap
// leaves PC at the faulting instruction and skips the counter updates.
func (v *VM) Step() error {
	pc := v.CPU.PC
	word, err := v.Fetch()
	if err != nil {
		return v.fail(err)
	}

	fields := Decode(word)

	// Sampled now (at fetch, before dispatch) per the time CSR's
	// wall-clock semantics, but only committed below on success: a
	// trapping instruction skips every counter update, time included.
	sampledTime := uint64(time.Now().Unix())

	handler, ok := dispatchTable[fields.Opcode]
	if !ok {
		return v.fail(NewTrap(TrapIllegalOpcode, pc, word, "unrecognised opcode", nil))
	}

	v.CPU.trace = v.RegisterTrace
	v.CPU.tracePC = pc
	v.currentWord = word

	if err := handler(v, fields); err != nil {
		return v.fail(err)
	}

	if !controlsOwnPC[fields.Opcode] {
		v.CPU.IncrementPC()
	}

	v.CPU.Cycles++
	v.CPU.CSR.Cycle++
	v.CPU.CSR.Instret++
	v.CPU.CSR.Time = sampledTime

	if v.CodeCoverage != nil {
		v.CodeCoverage.RecordExecution(pc, v.CPU.Cycles, word)
	}
	if v.ExecutionTrace != nil {
		v.ExecutionTrace.RecordInstruction(v, pc, fields.Opcode.String())
	}
	if v.Statistics != nil {
		v.Statistics.RecordInstruction(fields.Opcode.String(), pc, v.CPU.Cycles)
	}

	return nil
}

// fail records the given error as the VM's terminal trap, halting
// execution, and returns it (wrapped as a *Trap if it is not one already).
func (v *VM) fail(err error) error {
	trap, ok := err.(*Trap)
	if !ok {
		trap = NewTrap(TrapMemoryAccessViolation, v.CPU.PC, 0, err.Error(), err)
	}
	v.Halted = true
	v.LastTrap = trap
	v.ExitCode = 1
	return trap
}

func (v *VM) trap(kind TrapKind, message string) error {
	return NewTrap(kind, v.CPU.PC, v.currentWord, message, nil)
}

func (v *VM) trapIllegalOpcode(f DecodedFields, message string) error {
	return NewTrap(TrapIllegalOpcode, v.CPU.PC, f.Raw, message, nil)
}

func (v *VM) trapMemoryAccess(cause error) error {
	return NewTrap(TrapMemoryAccessViolation, v.CPU.PC, v.currentWord, "", cause)
}

// traceMemoryRead and traceMemoryWrite feed the optional MemoryTrace hook
// from the load/store handlers; both are no-ops when tracing is off.
func (v *VM) traceMemoryRead(address, value uint32, size string) {
	if v.MemoryTrace == nil {
		return
	}
	v.MemoryTrace.RecordRead(v.CPU.Cycles, v.CPU.PC, address, value, size)
}

func (v *VM) traceMemoryWrite(address, value uint32, size string) {
	if v.MemoryTrace == nil {
		return
	}
	v.MemoryTrace.RecordWrite(v.CPU.Cycles, v.CPU.PC, address, value, size)
}

// Run executes Step repeatedly until a trap halts the VM or MaxCycles is
// reached. It returns the trap that stopped execution, or nil if
// MaxCycles was reached while still running.
func (v *VM) Run() error {
	for !v.Halted {
		if v.MaxCycles > 0 && v.CPU.Cycles >= v.MaxCycles {
			return nil
		}
		if err := v.Step(); err != nil {
			return err
		}
	}
	return v.LastTrap
}
