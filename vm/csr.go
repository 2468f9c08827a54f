package vm

// CSR addresses for the three read-only counters this simulator
// recognises. Each 64-bit counter is split across a low and a high
// 32-bit address, following the RV32 convention for wide counters.
const (
	CSRCycleLow    = 0xC00
	CSRCycleHigh   = 0xC80
	CSRTimeLow     = 0xC01
	CSRTimeHigh    = 0xC81
	CSRInstretLow  = 0xC02
	CSRInstretHigh = 0xC82
)

// CSRFile holds the control and status registers this simulator models:
// the cycle, time, and retired-instruction counters. All three only ever
// advance.
type CSRFile struct {
	Cycle   uint64
	Time    uint64
	Instret uint64
}

// Read returns the 32-bit value at the given 12-bit CSR address. ok is
// false for any address outside the recognised counter table; the caller
// converts that into a TrapIllegalCSRAccess trap.
func (c *CSRFile) Read(address uint16) (value uint32, ok bool) {
	switch address {
	case CSRCycleLow:
		return uint32(c.Cycle), true
	case CSRCycleHigh:
		return uint32(c.Cycle >> 32), true
	case CSRTimeLow:
		return uint32(c.Time), true
	case CSRTimeHigh:
		return uint32(c.Time >> 32), true
	case CSRInstretLow:
		return uint32(c.Instret), true
	case CSRInstretHigh:
		return uint32(c.Instret >> 32), true
	default:
		return 0, false
	}
}

// Write stores value at the given CSR address. Every recognised address in
// this file is a read-only counter, so Write always reports ok = false;
// callers must only invoke it when the Zicsr "skip write if source is
// zero" rule does not apply, in which case the caller raises
// TrapIllegalCSRAccess itself. Write exists so CSRFile presents a symmetric
// read/write surface and so a future scratch CSR could be added here
// without touching callers.
func (c *CSRFile) Write(address uint16, value uint32) (ok bool) {
	switch address {
	case CSRCycleLow, CSRCycleHigh, CSRTimeLow, CSRTimeHigh, CSRInstretLow, CSRInstretHigh:
		return false
	default:
		return false
	}
}

// IsRecognised reports whether address names one of the counters in this
// file, independent of whether a write to it would be permitted.
func (c *CSRFile) IsRecognised(address uint16) bool {
	_, ok := c.Read(address)
	return ok
}
