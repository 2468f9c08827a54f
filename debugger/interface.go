package debugger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// historyFilePath returns the path the CLI front end loads/saves command
// history from: $HOME/.rv32i_dbg_history, or "" if $HOME can't be resolved,
// in which case history is kept in memory only for this session.
func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rv32i_dbg_history")
}

// RunCLI runs the command-line debugger interface
func RunCLI(dbg *Debugger) error {
	scanner := bufio.NewScanner(os.Stdin)

	histPath := historyFilePath()
	if histPath != "" {
		_ = dbg.History.LoadFromFile(histPath)
	}
	defer func() {
		if histPath != "" {
			_ = dbg.History.SaveToFile(histPath)
		}
	}()

	for {
		// Print prompt
		fmt.Print("(rv32i-dbg) ")

		// Read command
		if !scanner.Scan() {
			break
		}

		cmdLine := strings.TrimSpace(scanner.Text())

		// Exit commands
		if cmdLine == "quit" || cmdLine == "q" || cmdLine == "exit" {
			fmt.Println("Exiting debugger...")
			break
		}

		// Execute command
		if err := dbg.ExecuteCommand(cmdLine); err != nil {
			fmt.Printf("Error: %v\n", err)
		}

		// Print any output from the debugger
		output := dbg.GetOutput()
		if output != "" {
			fmt.Print(output)
		}

		// If running, execute until breakpoint or halt
		if dbg.Running {
			for dbg.Running {
				// Check for breakpoint before execution
				if shouldBreak, reason := dbg.ShouldBreak(); shouldBreak {
					dbg.Running = false
					fmt.Printf("Stopped: %s at PC=0x%08X\n", reason, dbg.VM.CPU.PC)
					break
				}

				// Execute one step
				err := dbg.VM.Step()
				if dbg.VM.Halted {
					dbg.Running = false
					if err != nil {
						fmt.Printf("Trap: %v\n", err)
					} else {
						fmt.Printf("Program exited with code %d\n", dbg.VM.ExitCode)
					}
					break
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}

	return nil
}

// RunTUI runs the TUI (Text User Interface) debugger
func RunTUI(dbg *Debugger) error {
	tui := NewTUI(dbg)
	return tui.Run()
}
