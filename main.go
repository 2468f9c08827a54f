package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/lookbusy1344/rv32i-emulator/api"
	"github.com/lookbusy1344/rv32i-emulator/config"
	"github.com/lookbusy1344/rv32i-emulator/debugger"
	"github.com/lookbusy1344/rv32i-emulator/loader"
	"github.com/lookbusy1344/rv32i-emulator/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		debugMode   = flag.Bool("debug", false, "Start in debugger mode")
		tuiMode     = flag.Bool("tui", false, "Use TUI (Text User Interface) debugger")
		apiServer   = flag.Bool("api-server", false, "Start HTTP API server mode")
		apiPort     = flag.Int("port", 8080, "API server port (used with -api-server)")
		memSize     = flag.Uint("mem-size", 131072, "Memory size in bytes")
		maxCycles   = flag.Uint64("max-cycles", 1000000, "Maximum CPU cycles before halt (0 = unlimited)")
		verboseMode = flag.Bool("verbose", false, "Verbose output")

		enableTrace    = flag.Bool("trace", false, "Enable execution trace")
		traceFile      = flag.String("trace-file", "", "Trace output file (default: trace.log in log dir)")
		traceFilter    = flag.String("trace-filter", "", "Filter trace by registers (comma-separated, e.g., x1,x2,pc)")
		enableMemTrace = flag.Bool("mem-trace", false, "Enable memory access trace")
		memTraceFile   = flag.String("mem-trace-file", "", "Memory trace output file (default: memtrace.log)")
		enableStats    = flag.Bool("stats", false, "Enable performance statistics")
		statsFile      = flag.String("stats-file", "", "Statistics output file (default: stats.json)")
		statsFormat    = flag.String("stats-format", "json", "Statistics format (json, csv, html)")

		enableCoverage      = flag.Bool("coverage", false, "Enable code coverage tracking")
		coverageFile        = flag.String("coverage-file", "", "Coverage output file (default: coverage.txt)")
		coverageFormat      = flag.String("coverage-format", "text", "Coverage format (text, json)")
		enableRegisterTrace = flag.Bool("register-trace", false, "Enable register access pattern tracing")
		registerTraceFile   = flag.String("register-trace-file", "", "Register trace output file (default: register_trace.txt)")
		registerTraceFormat = flag.String("register-trace-format", "text", "Register trace format (text, json)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("rv32i-sim %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if *apiServer {
		runAPIServer(*apiPort)
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	// The program image is a flat binary: a concatenation of
	// little-endian 32-bit instruction words, loaded at address 0.
	imageFile := flag.Arg(0)
	if _, err := os.Stat(imageFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", imageFile)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Printf("Loading program image: %s\n", imageFile)
	}

	memory := vm.NewMemory(uint32(*memSize))
	machine := vm.NewVM(memory)
	machine.MaxCycles = *maxCycles
	machine.OutputWriter = os.Stdout
	machine.ECALLHook = loader.DefaultECALLHook(os.Stdout)

	if err := loader.LoadFile(machine, imageFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Printf("Memory: %d bytes, PC: 0x%08X\n", memory.Size(), machine.CPU.PC)
	}

	setupDiagnostics(machine, diagnosticFlags{
		enableTrace:         *enableTrace,
		traceFile:           *traceFile,
		traceFilter:         *traceFilter,
		enableMemTrace:      *enableMemTrace,
		memTraceFile:        *memTraceFile,
		enableStats:         *enableStats,
		enableCoverage:      *enableCoverage,
		coverageFile:        *coverageFile,
		coverageFormat:      *coverageFormat,
		enableRegisterTrace: *enableRegisterTrace,
		registerTraceFile:   *registerTraceFile,
		registerTraceFormat: *registerTraceFormat,
		verbose:             *verboseMode,
	})

	if *debugMode || *tuiMode {
		dbg := debugger.NewDebugger(machine)

		if *tuiMode {
			if err := debugger.RunTUI(dbg); err != nil {
				fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Println("rv32i debugger - type 'help' for commands")
			fmt.Printf("Program loaded: %s\n", imageFile)
			fmt.Println()

			if err := debugger.RunCLI(dbg); err != nil {
				fmt.Fprintf(os.Stderr, "Debugger error: %v\n", err)
				os.Exit(1)
			}
		}
		flushDiagnostics(machine, *verboseMode, *statsFile, *statsFormat)
		return
	}

	if *verboseMode {
		fmt.Println("\nStarting execution...")
		fmt.Println("----------------------------------------")
	}

	runErr := machine.Run()

	if *verboseMode {
		fmt.Println("\n----------------------------------------")
		fmt.Println("Execution complete")
		fmt.Printf("Exit code: %d\n", machine.ExitCode)
		fmt.Printf("CPU cycles: %d\n", machine.CPU.Cycles)
	}

	flushDiagnostics(machine, *verboseMode, *statsFile, *statsFormat)

	if runErr != nil && machine.LastTrap != nil {
		printTrapDiagnostic(machine)
	}

	os.Exit(machine.ExitCode)
}

// printTrapDiagnostic prints the instruction word in binary, the program
// counter, and the full register file, in that order.
func printTrapDiagnostic(machine *vm.VM) {
	trap := machine.LastTrap
	fmt.Fprintf(os.Stderr, "\nTrap: %v\n", trap)
	fmt.Fprintf(os.Stderr, "Instruction: %032s\n", strconv.FormatUint(uint64(trap.Instruction), 2))
	fmt.Fprintf(os.Stderr, "PC: 0x%08X\n", trap.PC)
	fmt.Fprintln(os.Stderr, "Registers:")
	for i := 0; i < 32; i += 4 {
		fmt.Fprintf(os.Stderr, "  x%-2d=0x%08X  x%-2d=0x%08X  x%-2d=0x%08X  x%-2d=0x%08X\n",
			i, machine.CPU.X[i], i+1, machine.CPU.X[i+1], i+2, machine.CPU.X[i+2], i+3, machine.CPU.X[i+3])
	}
}

func runAPIServer(port int) {
	server := api.NewServer(port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nShutting down API server...")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
				os.Exit(1)
			}

			fmt.Println("API server stopped")
			os.Exit(0)
		})
	}

	// Process monitor detects the parent process dying (e.g. a GUI
	// frontend crashing or being force-quit) so this backend never
	// lingers as an orphan.
	monitor := api.NewProcessMonitor(performShutdown)
	monitor.Start()

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

type diagnosticFlags struct {
	enableTrace         bool
	traceFile           string
	traceFilter         string
	enableMemTrace      bool
	memTraceFile        string
	enableStats         bool
	enableCoverage      bool
	coverageFile        string
	coverageFormat      string
	enableRegisterTrace bool
	registerTraceFile   string
	registerTraceFormat string
	verbose             bool
}

// setupDiagnostics wires the optional diagnostic hooks (execution trace,
// memory trace, performance statistics, code coverage, register access
// trace) onto a freshly loaded VM, one writer-backed recorder per
// diagnostic mode.
func setupDiagnostics(machine *vm.VM, f diagnosticFlags) {
	if f.enableTrace {
		tracePath := f.traceFile
		if tracePath == "" {
			tracePath = filepath.Join(config.GetLogPath(), "trace.log")
		}
		w, err := os.Create(tracePath) // #nosec G304 -- user-specified trace output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating trace file: %v\n", err)
		} else {
			machine.ExecutionTrace = vm.NewExecutionTrace(w)
			machine.ExecutionTrace.Start()
			if f.traceFilter != "" {
				machine.ExecutionTrace.SetFilterRegisters(strings.Split(f.traceFilter, ","))
			}
			if f.verbose {
				fmt.Printf("Execution trace enabled: %s\n", tracePath)
			}
		}
	}

	if f.enableMemTrace {
		memTracePath := f.memTraceFile
		if memTracePath == "" {
			memTracePath = filepath.Join(config.GetLogPath(), "memtrace.log")
		}
		w, err := os.Create(memTracePath) // #nosec G304 -- user-specified memory trace output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory trace file: %v\n", err)
		} else {
			machine.MemoryTrace = vm.NewMemoryTrace(w)
			machine.MemoryTrace.Start()
			if f.verbose {
				fmt.Printf("Memory trace enabled: %s\n", memTracePath)
			}
		}
	}

	if f.enableStats {
		machine.Statistics = vm.NewPerformanceStatistics()
		machine.Statistics.Start()
		if f.verbose {
			fmt.Println("Performance statistics enabled")
		}
	}

	if f.enableCoverage {
		covPath := f.coverageFile
		if covPath == "" {
			ext := "txt"
			if f.coverageFormat == "json" {
				ext = "json"
			}
			covPath = filepath.Join(config.GetLogPath(), "coverage."+ext)
		}
		w, err := os.Create(covPath) // #nosec G304 -- user-specified coverage output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating coverage file: %v\n", err)
		} else {
			machine.CodeCoverage = vm.NewCodeCoverage(w)
			machine.CodeCoverage.SetCodeRange(machine.CPU.PC, machine.Memory.Size())
			machine.CodeCoverage.Start()
			if f.verbose {
				fmt.Printf("Code coverage enabled: %s\n", covPath)
			}
		}
	}

	if f.enableRegisterTrace {
		rtPath := f.registerTraceFile
		if rtPath == "" {
			ext := "txt"
			if f.registerTraceFormat == "json" {
				ext = "json"
			}
			rtPath = filepath.Join(config.GetLogPath(), "register_trace."+ext)
		}
		w, err := os.Create(rtPath) // #nosec G304 -- user-specified register trace output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating register trace file: %v\n", err)
		} else {
			machine.RegisterTrace = vm.NewRegisterTrace(w)
			machine.RegisterTrace.Start()
			if f.verbose {
				fmt.Printf("Register trace enabled: %s\n", rtPath)
			}
		}
	}
}

// flushDiagnostics writes out whichever diagnostic recorders were enabled,
// after the run (or debugger session) has finished.
func flushDiagnostics(machine *vm.VM, verbose bool, statsFile, statsFormat string) {
	if machine.ExecutionTrace != nil {
		if err := machine.ExecutionTrace.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Error flushing execution trace: %v\n", err)
		} else if verbose {
			fmt.Printf("Execution trace written (%d entries)\n", len(machine.ExecutionTrace.GetEntries()))
		}
	}

	if machine.MemoryTrace != nil {
		if err := machine.MemoryTrace.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Error flushing memory trace: %v\n", err)
		} else if verbose {
			fmt.Printf("Memory trace written (%d entries)\n", len(machine.MemoryTrace.GetEntries()))
		}
	}

	if machine.Statistics != nil {
		statPath := statsFile
		if statPath == "" {
			ext := "json"
			switch statsFormat {
			case "csv":
				ext = "csv"
			case "html":
				ext = "html"
			}
			statPath = filepath.Join(config.GetLogPath(), "stats."+ext)
		}

		w, err := os.Create(statPath) // #nosec G304 -- user-specified stats output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating statistics file: %v\n", err)
		} else {
			switch statsFormat {
			case "csv":
				err = machine.Statistics.ExportCSV(w)
			case "html":
				err = machine.Statistics.ExportHTML(w)
			default:
				err = machine.Statistics.ExportJSON(w)
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error exporting statistics: %v\n", err)
			} else if verbose {
				fmt.Printf("Statistics exported: %s\n", statPath)
			}
			if cerr := w.Close(); cerr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close statistics file: %v\n", cerr)
			}
		}

		if verbose {
			fmt.Println()
			fmt.Println(machine.Statistics.String())
		}
	}

	if machine.CodeCoverage != nil {
		if err := machine.CodeCoverage.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Error flushing coverage: %v\n", err)
		}
		if verbose {
			fmt.Println()
			fmt.Println(machine.CodeCoverage.String())
		}
	}

	if machine.RegisterTrace != nil {
		if err := machine.RegisterTrace.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Error flushing register trace: %v\n", err)
		}
		if verbose {
			fmt.Println()
			fmt.Println(machine.RegisterTrace.String())
		}
	}
}

func printHelp() {
	fmt.Printf(`rv32i-sim %s

Usage: rv32isim [options] <program-image>
       rv32isim -api-server [-port N]

A single-hart RV32I instruction-set simulator (RV32I base ISA, Zicsr,
Zifencei). The program image is a flat binary: a concatenation of
little-endian 32-bit instruction words, loaded at address 0.

Options:
  -help              Show this help message
  -version           Show version information
  -api-server        Start HTTP API server mode (no program image required)
  -port N            API server port (default: 8080, used with -api-server)
  -debug             Start in debugger mode (CLI)
  -tui               Start in TUI debugger mode
  -mem-size N        Memory size in bytes (default: 131072)
  -max-cycles N      Maximum CPU cycles before halt, 0 = unlimited (default: 1000000)
  -verbose           Enable verbose output

Tracing & Performance Options:
  -trace             Enable execution trace
  -trace-file FILE   Trace output file (default: trace.log in log dir)
  -trace-filter REGS Filter trace by registers (e.g., x1,x2,pc)
  -mem-trace         Enable memory access trace
  -mem-trace-file F  Memory trace file (default: memtrace.log)
  -stats             Enable performance statistics
  -stats-file FILE   Statistics output file (default: stats.json)
  -stats-format FMT  Statistics format: json, csv, html (default: json)
  -coverage          Enable code coverage tracking
  -coverage-file F   Coverage output file (default: coverage.txt)
  -coverage-format   Coverage format: text, json (default: text)
  -register-trace    Enable register access pattern tracing
  -register-trace-file F    Register trace file (default: register_trace.txt)
  -register-trace-format F  Register trace format: text, json (default: text)

Examples:
  # Run a flat binary image directly
  rv32isim program.bin

  # Run with the interactive CLI debugger
  rv32isim -debug program.bin

  # Run with the TUI debugger
  rv32isim -tui program.bin

  # Start the HTTP/websocket API server for remote control
  rv32isim -api-server -port 3000

  # Run with execution and memory tracing plus statistics
  rv32isim -trace -mem-trace -stats -verbose program.bin

Debugger Commands (when in -debug mode):
  run, r             Start/restart program execution
  continue, c        Continue execution
  step, s            Execute single instruction
  break ADDR         Set breakpoint at address
  info registers     Show all registers
  print EXPR         Evaluate and print expression
  help               Show debugger help
`, Version)
}
