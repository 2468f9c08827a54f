// Package loader loads a flat RV32I program image into a VM and supplies
// the reference ECALL hook convention used by the CLI and tests.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/lookbusy1344/rv32i-emulator/vm"
)

// LoadFile reads the file at path as raw bytes and loads it into the VM's
// memory starting at address 0, per the flat-binary image format: a plain
// concatenation of little-endian 32-bit instruction words, no headers, no
// relocation, no symbols.
func LoadFile(machine *vm.VM, path string) error {
	program, err := os.ReadFile(path) // #nosec G304 -- path is an operator-supplied CLI argument
	if err != nil {
		return fmt.Errorf("failed to read program image %q: %w", path, err)
	}
	return LoadBytes(machine, program)
}

// LoadBytes loads a raw program image into memory at address 0 and resets
// the CPU's program counter to the load address.
func LoadBytes(machine *vm.VM, program []byte) error {
	if err := machine.Memory.LoadBytes(0, program); err != nil {
		return fmt.Errorf("failed to load program image: %w", err)
	}
	machine.CPU.PC = 0
	return nil
}

// DefaultECALLHook implements the reference a0 convention described in the
// environment-call hook section of the design: a0=0 halts the simulator,
// a0=1 writes the low 8 bits of a1 to w as a single byte, and any other a0
// is left for the caller (ExecuteSystem traps it as an illegal
// environment call once the hook returns a non-nil error).
func DefaultECALLHook(w io.Writer) vm.ECALLHook {
	return func(v *vm.VM) error {
		a0 := v.CPU.GetRegister(10)
		switch a0 {
		case 0:
			v.Stop()
			return nil
		case 1:
			a1 := v.CPU.GetRegister(11)
			if w == nil {
				return nil
			}
			_, err := w.Write([]byte{byte(a1)})
			return err
		default:
			return fmt.Errorf("unrecognised ECALL a0=%d", a0)
		}
	}
}
