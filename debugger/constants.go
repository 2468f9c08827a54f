package debugger

// TUI continuous-execution constants.
const (
	// DisplayUpdateFrequency is how many VM cycles TUI.runUntilStopped
	// executes between screen redraws, so "continue" over a tight loop
	// doesn't spend all its time repainting tview widgets.
	DisplayUpdateFrequency = 100
)

// Disassembly/source view window, centered on PC.
const (
	// DisassemblyLinesBefore is the number of instructions shown before
	// PC in the disassembly panel.
	DisassemblyLinesBefore = 8

	// DisassemblyLinesTotal is the total number of instructions shown in
	// the disassembly panel (before PC plus PC plus after).
	DisassemblyLinesTotal = 16

	// SourceWindowBytes bounds how far past PC the source view scans the
	// debugger's source map for matching lines.
	SourceWindowBytes = 40
)

// Memory hex-dump view: MemoryDisplayRows rows of MemoryDisplayColumns
// bytes each, 16x16 to fill a standard 80-column terminal pane alongside
// the register and stack panels.
const (
	MemoryDisplayRows    = 16
	MemoryDisplayColumns = 16
)

// StackDisplayWords is the number of 32-bit words shown in the stack
// view below the current sp.
const StackDisplayWords = 16

// Register view: x0-x31 laid out RegisterColumns wide so all 32 fit in
// RegisterRows rows without scrolling.
const (
	RegisterColumns = 4
	RegisterRows    = 32 / RegisterColumns
)
