package vm

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// CoverageEntry records how many times one instruction address retired,
// and the cycle numbers of its first and most recent retirement.
type CoverageEntry struct {
	Address   uint32 // instruction address
	Hits      uint64 // number of times retired
	FirstHit  uint64 // cycle of first retirement
	LastHit   uint64 // cycle of most recent retirement
	Mnemonic  string // opcode name at first observation, e.g. "OP-IMM"
}

// CodeCoverage tracks which instruction addresses a run has retired, over
// an optional [rangeStart, rangeEnd) code window. With no range set it
// tracks every address the VM fetches and reports counts only, since a
// percentage needs a denominator.
type CodeCoverage struct {
	Enabled bool
	Writer  io.Writer

	hits       map[uint32]*CoverageEntry
	rangeStart uint32
	rangeEnd   uint32

	symbols    map[string]uint32
	atAddress  map[uint32]string
}

// NewCodeCoverage creates a tracker that writes its report to w on Flush.
func NewCodeCoverage(w io.Writer) *CodeCoverage {
	return &CodeCoverage{
		Enabled:   true,
		Writer:    w,
		hits:      make(map[uint32]*CoverageEntry),
		symbols:   make(map[string]uint32),
		atAddress: make(map[uint32]string),
	}
}

// SetCodeRange bounds the [start, end) window coverage percentage is
// computed over; instructions outside it are not recorded.
func (c *CodeCoverage) SetCodeRange(start, end uint32) {
	c.rangeStart = start
	c.rangeEnd = end
}

// LoadSymbols attaches a label table so the report can annotate addresses.
func (c *CodeCoverage) LoadSymbols(symbols map[string]uint32) {
	c.symbols = symbols
	for name, addr := range symbols {
		c.atAddress[addr] = name
	}
}

// Start clears accumulated hits without touching Enabled or the range.
func (c *CodeCoverage) Start() {
	c.hits = make(map[uint32]*CoverageEntry)
}

// RecordExecution is called by Step after an instruction retires. word is
// the raw instruction fetched at address, used only to label the entry
// with its opcode mnemonic the first time the address is seen.
func (c *CodeCoverage) RecordExecution(address uint32, cycle uint64, word uint32) {
	if !c.Enabled {
		return
	}
	if c.rangeStart != 0 || c.rangeEnd != 0 {
		if address < c.rangeStart || address >= c.rangeEnd {
			return
		}
	}

	if entry, ok := c.hits[address]; ok {
		entry.Hits++
		entry.LastHit = cycle
		return
	}
	c.hits[address] = &CoverageEntry{
		Address:  address,
		Hits:     1,
		FirstHit: cycle,
		LastHit:  cycle,
		Mnemonic: Decode(word).Opcode.String(),
	}
}

// GetCoverage returns the percentage of the tracked range retired, or 0
// when no range has been set.
func (c *CodeCoverage) GetCoverage() float64 {
	if c.rangeStart == 0 && c.rangeEnd == 0 {
		return 0.0
	}
	total := (c.rangeEnd - c.rangeStart) / 4
	if total == 0 {
		return 0.0
	}
	seen, err := SafeIntToUint32(len(c.hits))
	if err != nil {
		return 0.0
	}
	return float64(seen) / float64(total) * 100.0
}

// GetExecutedAddresses returns every retired address, ascending.
func (c *CodeCoverage) GetExecutedAddresses() []uint32 {
	addrs := make([]uint32, 0, len(c.hits))
	for addr := range c.hits {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

// GetUnexecutedAddresses returns every word-aligned address in the
// tracked range that never retired.
func (c *CodeCoverage) GetUnexecutedAddresses() []uint32 {
	if c.rangeStart == 0 && c.rangeEnd == 0 {
		return nil
	}
	var cold []uint32
	for addr := c.rangeStart; addr < c.rangeEnd; addr += 4 {
		if _, ok := c.hits[addr]; !ok {
			cold = append(cold, addr)
		}
	}
	return cold
}

// GetEntry returns the coverage entry for address, or nil if it never
// retired.
func (c *CodeCoverage) GetEntry(address uint32) *CoverageEntry {
	return c.hits[address]
}

// HotInstructions returns up to n entries with the highest hit counts,
// descending, useful for spotting the loop bodies a run spent its time in.
func (c *CodeCoverage) HotInstructions(n int) []*CoverageEntry {
	all := make([]*CoverageEntry, 0, len(c.hits))
	for _, e := range c.hits {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Hits != all[j].Hits {
			return all[i].Hits > all[j].Hits
		}
		return all[i].Address < all[j].Address
	})
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// Flush writes a human-readable coverage report to Writer; a nil Writer
// makes Flush a no-op.
func (c *CodeCoverage) Flush() error {
	if c.Writer == nil {
		return nil
	}

	var b strings.Builder
	b.WriteString("Instruction Coverage Report\n")
	b.WriteString("===========================\n\n")

	if c.rangeStart != 0 || c.rangeEnd != 0 {
		total := (c.rangeEnd - c.rangeStart) / 4
		seen := len(c.hits)
		fmt.Fprintf(&b, "Code range:   0x%08X - 0x%08X\n", c.rangeStart, c.rangeEnd)
		fmt.Fprintf(&b, "Instructions: %d\n", total)
		fmt.Fprintf(&b, "Retired:      %d\n", seen)
		notRetired, err := SafeIntToUint32(seen)
		if err == nil {
			fmt.Fprintf(&b, "Not retired:  %d\n", total-notRetired)
		}
		fmt.Fprintf(&b, "Coverage:     %.2f%%\n\n", c.GetCoverage())
	} else {
		fmt.Fprintf(&b, "Retired: %d unique addresses\n\n", len(c.hits))
	}

	b.WriteString("Retired addresses:\n")
	b.WriteString("-------------------\n")
	for _, addr := range c.GetExecutedAddresses() {
		e := c.hits[addr]
		fmt.Fprintf(&b, "0x%08X %-7s hit %6d (first cycle %6d, last cycle %6d)",
			addr, e.Mnemonic, e.Hits, e.FirstHit, e.LastHit)
		if sym, ok := c.atAddress[addr]; ok {
			fmt.Fprintf(&b, " [%s]", sym)
		}
		b.WriteByte('\n')
	}

	if cold := c.GetUnexecutedAddresses(); len(cold) > 0 {
		b.WriteString("\nNever retired:\n")
		b.WriteString("--------------\n")
		for _, addr := range cold {
			fmt.Fprintf(&b, "0x%08X", addr)
			if sym, ok := c.atAddress[addr]; ok {
				fmt.Fprintf(&b, " [%s]", sym)
			}
			b.WriteByte('\n')
		}
	}

	_, err := c.Writer.Write([]byte(b.String()))
	return err
}

// ExportJSON writes the coverage data as JSON.
func (c *CodeCoverage) ExportJSON(w io.Writer) error {
	data := map[string]any{
		"range_start":         c.rangeStart,
		"range_end":           c.rangeEnd,
		"coverage_percent":    c.GetCoverage(),
		"retired_count":       len(c.hits),
		"never_retired_count": len(c.GetUnexecutedAddresses()),
		"retired":             c.hits,
		"never_retired":       c.GetUnexecutedAddresses(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// String returns a short summary, which main.go prints after a -coverage
// run in verbose mode, in addition to the report file.
func (c *CodeCoverage) String() string {
	var b strings.Builder
	b.WriteString("Instruction Coverage Summary\n")
	b.WriteString("=============================\n\n")

	if c.rangeStart != 0 || c.rangeEnd != 0 {
		total := (c.rangeEnd - c.rangeStart) / 4
		seen := len(c.hits)
		fmt.Fprintf(&b, "Code range:   0x%08X - 0x%08X\n", c.rangeStart, c.rangeEnd)
		fmt.Fprintf(&b, "Instructions: %d\n", total)
		fmt.Fprintf(&b, "Retired:      %d\n", seen)
		notRetired, err := SafeIntToUint32(seen)
		if err == nil {
			fmt.Fprintf(&b, "Not retired:  %d\n", total-notRetired)
		}
		fmt.Fprintf(&b, "Coverage:     %.2f%%\n", c.GetCoverage())
	} else {
		fmt.Fprintf(&b, "Retired: %d unique addresses\n", len(c.hits))
	}

	return b.String()
}
