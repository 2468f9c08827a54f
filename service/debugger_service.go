package service

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/lookbusy1344/rv32i-emulator/debugger"
	"github.com/lookbusy1344/rv32i-emulator/loader"
	"github.com/lookbusy1344/rv32i-emulator/vm"
)

const (
	maxDisassemblyCount = 1000 // Maximum number of instructions to disassemble
	maxStackCount       = 1000 // Maximum number of stack entries to return
)

var serviceLog *log.Logger

func init() {
	if os.Getenv("RV32I_SIM_DEBUG") != "" {
		logPath := filepath.Join(os.TempDir(), "rv32i-sim-service-debug.log")
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
		if err != nil {
			serviceLog = log.New(os.Stderr, "SERVICE: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		} else {
			serviceLog = log.New(f, "SERVICE: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		}
	} else {
		serviceLog = log.New(io.Discard, "", 0)
	}
}

// DebuggerService provides a thread-safe interface to debugger functionality.
// It is shared by the CLI, the TUI, and the remote API server, which is why
// every accessor takes s.mu itself rather than relying on callers to lock.
//
// Lock ordering: s.mu is always acquired before any Debugger method that
// takes d's own internal locks (Breakpoints, Watchpoints). Do not acquire
// in the reverse order.
type DebuggerService struct {
	mu           sync.RWMutex
	vm           *vm.VM
	debugger     *debugger.Debugger
	outputWriter io.Writer

	stateChangedCallback func()
}

// NewDebuggerService creates a service wrapping machine. Output defaults to
// os.Stdout with the reference ECALL hook convention wired in; callers that
// want to capture output (the API server, tests) should call
// SetOutputWriter before loading a program.
func NewDebuggerService(machine *vm.VM) *DebuggerService {
	s := &DebuggerService{
		vm:       machine,
		debugger: debugger.NewDebugger(machine),
	}
	s.SetOutputWriter(os.Stdout)
	return s
}

// VM returns the underlying VM.
func (s *DebuggerService) VM() *vm.VM {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vm
}

// Debugger returns the underlying Debugger, for callers (the TUI, the CLI
// REPL) that drive it directly rather than through this service.
func (s *DebuggerService) Debugger() *debugger.Debugger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.debugger
}

// SetOutputWriter redirects both the VM's ECALL-driven character output and
// the hook that interprets a0/a1 on ECALL.
func (s *DebuggerService) SetOutputWriter(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputWriter = w
	s.vm.OutputWriter = w
	s.vm.ECALLHook = loader.DefaultECALLHook(w)
}

// SetStateChangedCallback installs a callback invoked after every step
// during RunUntilHalt, so a frontend can poll state changes during a run.
func (s *DebuggerService) SetStateChangedCallback(callback func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stateChangedCallback = callback
}

// LoadProgram loads a flat RV32I program image at address 0 and resets
// execution state, leaving breakpoints and watchpoints in place.
func (s *DebuggerService) LoadProgram(program []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := loader.LoadBytes(s.vm, program); err != nil {
		return err
	}
	s.vm.Halted = false
	s.vm.LastTrap = nil
	s.vm.ExitCode = 0
	s.debugger.Running = false
	s.debugger.StepMode = debugger.StepNone
	return nil
}

// GetRegisterState returns a snapshot of the register file.
func (s *DebuggerService) GetRegisterState() RegisterState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return RegisterState{
		Registers: s.vm.CPU.X,
		PC:        s.vm.CPU.PC,
		Cycles:    s.vm.CPU.CSR.Cycle,
		Instret:   s.vm.CPU.CSR.Instret,
	}
}

// GetExecutionState reports whether the VM is running, halted cleanly, or
// halted on a trap.
func (s *DebuggerService) GetExecutionState() ExecutionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return VMStateToExecution(s.vm)
}

// LastTrap returns the trap that halted the VM, or nil if it has not
// trapped (either still running, or halted cleanly via ECALL a0=0).
func (s *DebuggerService) LastTrap() *vm.Trap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vm.LastTrap
}

// Step executes a single instruction.
func (s *DebuggerService) Step() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vm.Step()
}

// SetRunning sets the running flag synchronously, before RunUntilHalt is
// launched in a goroutine by an async frontend.
func (s *DebuggerService) SetRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debugger.Running = running
}

// IsRunning reports whether execution is in progress.
func (s *DebuggerService) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.debugger.Running
}

// Pause stops a RunUntilHalt loop before its next step.
func (s *DebuggerService) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debugger.Running = false
}

// RunUntilHalt steps the VM until it halts, a breakpoint or watchpoint
// fires, or Pause clears Running. If Running is already false when called
// (the caller raced with Pause), it returns immediately.
func (s *DebuggerService) RunUntilHalt() error {
	s.mu.Lock()
	if !s.debugger.Running {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if !s.debugger.Running || s.vm.Halted {
			s.debugger.Running = false
			s.mu.Unlock()
			return nil
		}
		if shouldBreak, reason := s.debugger.ShouldBreak(); shouldBreak {
			serviceLog.Printf("RunUntilHalt: stopping, %s", reason)
			s.debugger.Running = false
			s.mu.Unlock()
			return nil
		}
		s.mu.Unlock()

		err := s.vm.Step()

		s.mu.RLock()
		cb := s.stateChangedCallback
		s.mu.RUnlock()
		if cb != nil {
			cb()
		}

		if err != nil {
			s.mu.Lock()
			s.debugger.Running = false
			halted := s.vm.Halted
			s.mu.Unlock()
			if halted {
				// A trap halts the VM and is reported via LastTrap, not
				// returned as an error here: RunUntilHalt's contract is
				// "stopped", not "ran cleanly".
				return nil
			}
			return err
		}
	}
}

// Reset clears registers, PC, CSRs, and all breakpoints/watchpoints.
// Memory contents (the loaded program) are untouched.
func (s *DebuggerService) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vm.Reset()
	s.debugger.Breakpoints.Clear()
	s.debugger.Watchpoints.Clear()
	s.debugger.Running = false
	s.debugger.StepMode = debugger.StepNone
	return nil
}

// AddBreakpoint adds a breakpoint at address, which must be 4-byte aligned.
func (s *DebuggerService) AddBreakpoint(address uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if address%4 != 0 {
		return fmt.Errorf("invalid breakpoint address: 0x%08X is not 4-byte aligned", address)
	}
	s.debugger.Breakpoints.AddBreakpoint(address, false, "")
	return nil
}

// RemoveBreakpoint removes the breakpoint at address.
func (s *DebuggerService) RemoveBreakpoint(address uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debugger.Breakpoints.DeleteBreakpointAt(address)
}

// GetBreakpoints returns all breakpoints.
func (s *DebuggerService) GetBreakpoints() []BreakpointInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bps := s.debugger.Breakpoints.GetAllBreakpoints()
	result := make([]BreakpointInfo, len(bps))
	for i, bp := range bps {
		result[i] = BreakpointInfo{
			Address:   bp.Address,
			Enabled:   bp.Enabled,
			Condition: bp.Condition,
		}
	}
	return result
}

// ClearAllBreakpoints removes every breakpoint.
func (s *DebuggerService) ClearAllBreakpoints() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debugger.Breakpoints.Clear()
}

// AddWatchpoint adds a watchpoint over the word at address.
func (s *DebuggerService) AddWatchpoint(address uint32, watchType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var wpType debugger.WatchType
	switch watchType {
	case "read":
		wpType = debugger.WatchRead
	case "write":
		wpType = debugger.WatchWrite
	case "readwrite":
		wpType = debugger.WatchReadWrite
	default:
		return fmt.Errorf("invalid watchpoint type: %s", watchType)
	}

	expression := fmt.Sprintf("[0x%08X]", address)
	s.debugger.Watchpoints.AddWatchpoint(wpType, expression, address, false, 0)
	return nil
}

// RemoveWatchpoint removes a watchpoint by ID.
func (s *DebuggerService) RemoveWatchpoint(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debugger.Watchpoints.DeleteWatchpoint(id)
}

// GetWatchpoints returns all watchpoints.
func (s *DebuggerService) GetWatchpoints() []WatchpointInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wps := s.debugger.Watchpoints.GetAllWatchpoints()
	result := make([]WatchpointInfo, len(wps))
	for i, wp := range wps {
		var wpType string
		switch wp.Type {
		case debugger.WatchRead:
			wpType = "read"
		case debugger.WatchWrite:
			wpType = "write"
		case debugger.WatchReadWrite:
			wpType = "readwrite"
		}
		result[i] = WatchpointInfo{
			ID:      wp.ID,
			Address: wp.Address,
			Type:    wpType,
			Enabled: wp.Enabled,
		}
	}
	return result
}

// GetMemory reads size bytes starting at address. Unmapped or out-of-range
// bytes are returned as zero rather than failing the whole request, so a
// memory view can still render a partial region at a segment boundary.
func (s *DebuggerService) GetMemory(address uint32, size uint32) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.vm.Memory.GetBytes(address, int(size))
	if err == nil {
		return data, nil
	}

	serviceLog.Printf("GetMemory: GetBytes(0x%08X, %d) failed: %v, falling back to per-byte read", address, size, err)
	data = make([]byte, size)
	for i := uint32(0); i < size; i++ {
		b, err := s.vm.Memory.ReadByte(address + i)
		if err != nil {
			continue
		}
		data[i] = b
	}
	return data, nil
}

// GetDisassembly returns count decoded instructions starting at startAddr,
// which must be 4-byte aligned. The result is truncated if a memory read
// fails before count is reached.
func (s *DebuggerService) GetDisassembly(startAddr uint32, count int) []DisassemblyLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if count <= 0 || count > maxDisassemblyCount || startAddr%4 != 0 {
		return []DisassemblyLine{}
	}

	lines := make([]DisassemblyLine, 0, count)
	addr := startAddr
	for i := 0; i < count; i++ {
		word, err := s.vm.Memory.ReadWord(addr)
		if err != nil {
			break
		}
		lines = append(lines, NewDisassemblyLine(addr, word))
		addr += 4
	}
	return lines
}

// GetStack returns count words starting at SP (x2) + offset words. It
// returns no entries when that start lies outside the 32-bit address space,
// and stops early at the first word that cannot be read.
func (s *DebuggerService) GetStack(offset int, count int) []StackEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if count <= 0 || count > maxStackCount {
		return []StackEntry{}
	}

	sp := s.vm.CPU.GetRegister(2)
	base := int64(sp) + int64(offset)*4
	if base < 0 || base > 0xFFFFFFFF {
		return []StackEntry{}
	}

	entries := make([]StackEntry, 0, count)
	addr := uint32(base)
	for i := 0; i < count; i++ {
		next := int64(addr) + int64(i)*4
		if next < 0 || next > 0xFFFFFFFF {
			break
		}
		value, err := s.vm.Memory.ReadWord(uint32(next))
		if err != nil {
			break
		}
		entries = append(entries, StackEntry{Address: uint32(next), Value: value})
	}
	return entries
}

// ExecuteCommand runs a single debugger REPL command and returns its
// output.
func (s *DebuggerService) ExecuteCommand(command string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.debugger.ExecuteCommand(command)
	return s.debugger.GetOutput(), err
}

// EvaluateExpression evaluates a debugger expression against the current
// VM state. There is no symbol table in a flat-binary image, so names
// other than registers and $-history values are always undefined.
func (s *DebuggerService) EvaluateExpression(expr string) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debugger.Evaluator.EvaluateExpression(expr, s.vm, nil)
}

// EnableExecutionTrace turns on per-instruction execution tracing.
func (s *DebuggerService) EnableExecutionTrace() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vm.ExecutionTrace == nil {
		var buf bytes.Buffer
		s.vm.ExecutionTrace = vm.NewExecutionTrace(&buf)
	}
	s.vm.ExecutionTrace.Enabled = true
	s.vm.ExecutionTrace.Start()
	return nil
}

// DisableExecutionTrace turns off execution tracing without discarding
// entries already recorded.
func (s *DebuggerService) DisableExecutionTrace() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vm.ExecutionTrace != nil {
		s.vm.ExecutionTrace.Enabled = false
	}
}

// GetExecutionTraceData returns recorded execution trace entries.
func (s *DebuggerService) GetExecutionTraceData() ([]vm.TraceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.vm.ExecutionTrace == nil {
		return []vm.TraceEntry{}, nil
	}
	return s.vm.ExecutionTrace.GetEntries(), nil
}

// ClearExecutionTrace discards recorded execution trace entries.
func (s *DebuggerService) ClearExecutionTrace() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vm.ExecutionTrace != nil {
		s.vm.ExecutionTrace.Clear()
	}
}

// EnableMemoryTrace turns on per-access memory tracing.
func (s *DebuggerService) EnableMemoryTrace() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vm.MemoryTrace == nil {
		var buf bytes.Buffer
		s.vm.MemoryTrace = vm.NewMemoryTrace(&buf)
	}
	s.vm.MemoryTrace.Enabled = true
	s.vm.MemoryTrace.Start()
	return nil
}

// DisableMemoryTrace turns off memory tracing without discarding entries
// already recorded.
func (s *DebuggerService) DisableMemoryTrace() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vm.MemoryTrace != nil {
		s.vm.MemoryTrace.Enabled = false
	}
}

// GetMemoryTraceData returns recorded memory access entries.
func (s *DebuggerService) GetMemoryTraceData() ([]vm.MemoryAccessEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.vm.MemoryTrace == nil {
		return []vm.MemoryAccessEntry{}, nil
	}
	return s.vm.MemoryTrace.GetEntries(), nil
}

// EnableStatistics turns on performance statistics collection.
func (s *DebuggerService) EnableStatistics() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vm.Statistics == nil {
		s.vm.Statistics = vm.NewPerformanceStatistics()
	}
	s.vm.Statistics.Enabled = true
	s.vm.Statistics.Start()
	return nil
}

// DisableStatistics turns off performance statistics collection.
func (s *DebuggerService) DisableStatistics() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vm.Statistics != nil {
		s.vm.Statistics.Enabled = false
	}
}

// GetStatistics returns a finalized snapshot of performance statistics.
func (s *DebuggerService) GetStatistics() (*vm.PerformanceStatistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.vm.Statistics == nil {
		return nil, fmt.Errorf("statistics not enabled")
	}
	s.vm.Statistics.Finalize()
	return s.vm.Statistics, nil
}

// EnableCodeCoverage turns on code coverage tracking over [start, end).
func (s *DebuggerService) EnableCodeCoverage(start, end uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vm.CodeCoverage == nil {
		var buf bytes.Buffer
		s.vm.CodeCoverage = vm.NewCodeCoverage(&buf)
	}
	s.vm.CodeCoverage.SetCodeRange(start, end)
	s.vm.CodeCoverage.Enabled = true
	s.vm.CodeCoverage.Start()
	return nil
}

// GetCodeCoverage returns the percentage (0-100) of the tracked range executed so
// far, or 0 if coverage tracking was never enabled.
func (s *DebuggerService) GetCodeCoverage() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.vm.CodeCoverage == nil {
		return 0
	}
	return s.vm.CodeCoverage.GetCoverage()
}
