package service

import "github.com/lookbusy1344/rv32i-emulator/vm"

// RegisterState represents a snapshot of CPU registers.
type RegisterState struct {
	Registers [32]uint32
	PC        uint32
	Cycles    uint64
	Instret   uint64
}

// BreakpointInfo represents a breakpoint for UI display.
type BreakpointInfo struct {
	Address   uint32 `json:"address"`
	Enabled   bool   `json:"enabled"`
	Condition string `json:"condition"` // Expression that must evaluate to true
}

// WatchpointInfo represents a watchpoint for UI display.
type WatchpointInfo struct {
	ID      int    `json:"id"`
	Address uint32 `json:"address"`
	Type    string `json:"type"` // "read", "write", "readwrite"
	Enabled bool   `json:"enabled"`
}

// MemoryRegion represents a contiguous memory region.
type MemoryRegion struct {
	Address uint32
	Data    []byte
	Size    uint32
}

// ExecutionState represents the current state of execution. There is no
// breakpoint-specific VM state here: the debugger tracks "stopped at a
// breakpoint" itself via Debugger.Running, so this type only mirrors
// what the VM itself knows about.
type ExecutionState string

const (
	StateRunning ExecutionState = "running"
	StateHalted  ExecutionState = "halted"
	StateError   ExecutionState = "error"
)

// VMStateToExecution derives a service.ExecutionState from a VM's Halted
// and LastTrap fields, the only execution-state signals the engine exposes.
func VMStateToExecution(machine *vm.VM) ExecutionState {
	if !machine.Halted {
		return StateRunning
	}
	if machine.LastTrap != nil {
		return StateError
	}
	return StateHalted
}

// DisassemblyLine represents a single decoded instruction. Flat binaries
// carry no symbol table, so there is no Symbol field here; Mnemonic names
// only the opcode group (vm.Decode doesn't reconstruct full assembly
// syntax, just the dispatch fields).
type DisassemblyLine struct {
	Address  uint32 `json:"address"`
	Opcode   uint32 `json:"opcode"`
	Mnemonic string `json:"mnemonic"`
}

// NewDisassemblyLine decodes the opcode group at addr for display.
func NewDisassemblyLine(addr, opcode uint32) DisassemblyLine {
	return DisassemblyLine{
		Address:  addr,
		Opcode:   opcode,
		Mnemonic: vm.Decode(opcode).Opcode.String(),
	}
}

// StackEntry represents a single stack location.
type StackEntry struct {
	Address uint32 `json:"address"`
	Value   uint32 `json:"value"`
}
