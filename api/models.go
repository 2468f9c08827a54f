package api

import (
	"time"

	"github.com/lookbusy1344/rv32i-emulator/service"
)

// SessionCreateRequest represents a request to create a new session.
type SessionCreateRequest struct {
	MemorySize uint32 `json:"memorySize,omitempty"` // Memory size in bytes (default: 131072)
}

// SessionCreateResponse represents the response from creating a session.
type SessionCreateResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionStatusResponse represents the current status of a session.
type SessionStatusResponse struct {
	SessionID string `json:"sessionId"`
	State     string `json:"state"`
	PC        uint32 `json:"pc"`
	Cycles    uint64 `json:"cycles"`
	Instret   uint64 `json:"instret"`
	Trap      string `json:"trap,omitempty"`
}

// LoadProgramRequest represents a request to load a flat RV32I program
// image. Program is the raw instruction bytes, base64-encoded by the JSON
// layer (the flat-binary format has no assembler source or symbol table to
// carry).
type LoadProgramRequest struct {
	Program []byte `json:"program"`
}

// LoadProgramResponse represents the response from loading a program.
type LoadProgramResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RegistersResponse represents the current register state.
type RegistersResponse struct {
	Registers [32]uint32 `json:"registers"`
	PC        uint32     `json:"pc"`
	Cycles    uint64     `json:"cycles"`
	Instret   uint64     `json:"instret"`
}

// MemoryRequest represents a request for memory data.
type MemoryRequest struct {
	Address uint32 `json:"address"`
	Length  uint32 `json:"length"`
}

// MemoryResponse represents memory data.
type MemoryResponse struct {
	Address uint32 `json:"address"`
	Data    []byte `json:"data"`
	Length  uint32 `json:"length"`
}

// DisassemblyRequest represents a request for disassembly.
type DisassemblyRequest struct {
	Address uint32 `json:"address"`
	Count   uint32 `json:"count"`
}

// DisassemblyResponse represents disassembled instructions.
type DisassemblyResponse struct {
	Instructions []InstructionInfo `json:"instructions"`
}

// InstructionInfo represents a single decoded instruction. There is no
// Symbol field: a flat-binary image carries no symbol table.
type InstructionInfo struct {
	Address  uint32 `json:"address"`
	Opcode   uint32 `json:"opcode"`
	Mnemonic string `json:"mnemonic"`
}

// BreakpointRequest represents a request to add/remove a breakpoint.
type BreakpointRequest struct {
	Address   uint32 `json:"address"`
	Condition string `json:"condition,omitempty"`
}

// BreakpointsResponse represents a list of breakpoints.
type BreakpointsResponse struct {
	Breakpoints []service.BreakpointInfo `json:"breakpoints"`
}

// WatchpointRequest represents a request to add a watchpoint.
type WatchpointRequest struct {
	Address uint32 `json:"address"`
	Type    string `json:"type"` // "read", "write", "readwrite"
}

// WatchpointResponse represents a newly created watchpoint.
type WatchpointResponse struct {
	ID      int    `json:"id"`
	Address uint32 `json:"address"`
	Type    string `json:"type"`
}

// WatchpointsResponse represents a list of watchpoints.
type WatchpointsResponse struct {
	Watchpoints []service.WatchpointInfo `json:"watchpoints"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// SuccessResponse represents a simple success response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Event represents a WebSocket event envelope.
type Event struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// StateEvent represents a state change event.
type StateEvent struct {
	State     string     `json:"state"`
	PC        uint32     `json:"pc"`
	Registers [32]uint32 `json:"registers"`
	Cycles    uint64     `json:"cycles"`
}

// OutputEvent represents console output.
type OutputEvent struct {
	Stream  string `json:"stream"` // "stdout" or "stderr"
	Content string `json:"content"`
}

// ExecutionEvent represents execution events like breakpoints.
type ExecutionEvent struct {
	Event   string `json:"event"` // "breakpoint_hit", "watchpoint_hit", "halted", "trap"
	Address uint32 `json:"address,omitempty"`
	Message string `json:"message,omitempty"`
}

// TraceEntryInfo represents a single execution trace entry.
type TraceEntryInfo struct {
	Sequence        uint64            `json:"sequence"`
	Address         uint32            `json:"address"`
	Opcode          uint32            `json:"opcode"`
	Disassembly     string            `json:"disassembly"`
	RegisterChanges map[string]uint32 `json:"registerChanges"`
	DurationNs      int64             `json:"durationNs"`
}

// TraceDataResponse represents a batch of execution trace entries.
type TraceDataResponse struct {
	Entries []TraceEntryInfo `json:"entries"`
	Count   int              `json:"count"`
}

// MemoryTraceEntryInfo represents a single memory access trace entry.
type MemoryTraceEntryInfo struct {
	Sequence  uint64 `json:"sequence"`
	Address   uint32 `json:"address"`
	PC        uint32 `json:"pc"`
	Type      string `json:"type"` // "READ" or "WRITE"
	Size      string `json:"size"` // "BYTE", "HALF", "WORD"
	Value     uint32 `json:"value"`
	DurationNs int64 `json:"durationNs"`
}

// MemoryTraceDataResponse represents a batch of memory trace entries.
type MemoryTraceDataResponse struct {
	Entries []MemoryTraceEntryInfo `json:"entries"`
	Count   int                    `json:"count"`
}

// StatisticsResponse represents collected performance statistics.
type StatisticsResponse struct {
	TotalInstructions  uint64            `json:"totalInstructions"`
	TotalCycles        uint64            `json:"totalCycles"`
	ExecutionTimeMs    int64             `json:"executionTimeMs"`
	InstructionsPerSec float64           `json:"instructionsPerSec"`
	InstructionCounts  map[string]uint64 `json:"instructionCounts"`
	BranchCount        uint64            `json:"branchCount"`
	BranchTakenCount   uint64            `json:"branchTakenCount"`
	BranchMissedCount  uint64            `json:"branchMissedCount"`
	MemoryReads        uint64            `json:"memoryReads"`
	MemoryWrites       uint64            `json:"memoryWrites"`
	BytesRead          uint64            `json:"bytesRead"`
	BytesWritten       uint64            `json:"bytesWritten"`
}

// ExecutionConfig mirrors config.Config's execution section.
type ExecutionConfig struct {
	MemorySize   uint32 `json:"memorySize"`
	MaxCycles    uint64 `json:"maxCycles"`
	DefaultEntry string `json:"defaultEntry"`
	EnableTrace  bool   `json:"enableTrace"`
	EnableStats  bool   `json:"enableStats"`
}

// DebuggerConfig mirrors config.Config's debugger section.
type DebuggerConfig struct {
	HistorySize    int  `json:"historySize"`
	AutoSaveBreaks bool `json:"autoSaveBreakpoints"`
	ShowRegisters  bool `json:"showRegisters"`
	ShowCSRs       bool `json:"showCSRs"`
	DisasmContext  int  `json:"disasmContext"`
}

// DisplayConfig mirrors config.Config's display section.
type DisplayConfig struct {
	ColorOutput  bool   `json:"colorOutput"`
	BytesPerLine int    `json:"bytesPerLine"`
	NumberFormat string `json:"numberFormat"`
}

// TraceConfig mirrors config.Config's trace section.
type TraceConfig struct {
	OutputFile    string `json:"outputFile"`
	FilterRegs    string `json:"filterRegisters"`
	IncludeTiming bool   `json:"includeTiming"`
	MaxEntries    int    `json:"maxEntries"`
}

// StatisticsConfig mirrors config.Config's statistics section.
type StatisticsConfig struct {
	OutputFile     string `json:"outputFile"`
	Format         string `json:"format"`
	CollectHotPath bool   `json:"collectHotPath"`
}

// ConfigResponse represents the simulator configuration exposed over the
// API, mirroring config.Config.
type ConfigResponse struct {
	Execution  ExecutionConfig  `json:"execution"`
	Debugger   DebuggerConfig   `json:"debugger"`
	Display    DisplayConfig    `json:"display"`
	Trace      TraceConfig      `json:"trace"`
	Statistics StatisticsConfig `json:"statistics"`
}

// ExampleInfo describes a bundled example program.
type ExampleInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// ExamplesResponse represents a list of bundled example programs.
type ExamplesResponse struct {
	Examples []ExampleInfo `json:"examples"`
	Count    int           `json:"count"`
}

// ExampleContentResponse represents the raw bytes of a bundled example
// program, base64-encoded by the JSON layer.
type ExampleContentResponse struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
	Size    int64  `json:"size"`
}

// ToRegisterResponse converts service.RegisterState to an API response.
func ToRegisterResponse(regs *service.RegisterState) *RegistersResponse {
	return &RegistersResponse{
		Registers: regs.Registers,
		PC:        regs.PC,
		Cycles:    regs.Cycles,
		Instret:   regs.Instret,
	}
}

// ToInstructionInfo converts service.DisassemblyLine to an API response.
func ToInstructionInfo(line *service.DisassemblyLine) InstructionInfo {
	return InstructionInfo{
		Address:  line.Address,
		Opcode:   line.Opcode,
		Mnemonic: line.Mnemonic,
	}
}
