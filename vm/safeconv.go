package vm

import (
	"fmt"
	"math"
)

// SafeIntToUint32 converts a byte offset or count to uint32, rejecting
// negative values and anything wider than 32 bits. The debugger's memory
// view (debugger/tui.go) and the coverage report use this at
// their int-to-address boundary instead of a bare cast, since a negative
// row/column index there is a caller bug rather than an address to wrap.
func SafeIntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("cannot convert negative value %d to uint32 address", v)
	}
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("value %d exceeds uint32 range", v)
	}
	return uint32(v), nil
}

// AsInt32 reinterprets a register's bit pattern as a two's-complement
// signed value, for GetRegisterSigned and the debugger's signed-decimal
// register display. The bit pattern is preserved; this is display
// interpretation, not a range check.
func AsInt32(v uint32) int32 {
	//nolint:gosec // G115: intentional reinterpretation, not a narrowing conversion
	return int32(v)
}
