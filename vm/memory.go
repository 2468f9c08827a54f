package vm

import "fmt"

// ErrOutOfBounds is wrapped by every accessor that touches an address, or
// any byte of a multi-byte access, outside [0, len(bytes)).
type ErrOutOfBounds struct {
	Address uint32
	Size    int
	Length  int
}

func (e *ErrOutOfBounds) Error() string {
	return fmt.Sprintf("memory access out of bounds: address 0x%08X size %d exceeds length %d",
		e.Address, e.Size, e.Length)
}

// Memory is a flat byte-addressable memory of fixed size. Multi-byte
// accesses are little-endian and unaligned access is permitted at this
// layer; the engine is responsible for any alignment policy it wants to
// enforce (instruction fetch, in this design).
//
// A multi-byte write that would straddle the end of memory is rejected
// before any byte is touched: Memory checks the full access range up
// front and only mutates bytes once the whole range is known valid, so a
// failing WriteHalfword/WriteWord never leaves a partial write behind.
type Memory struct {
	bytes []byte
}

// NewMemory allocates a zeroed memory of the given size in bytes.
func NewMemory(size uint32) *Memory {
	return &Memory{bytes: make([]byte, size)}
}

// Size returns the memory's length in bytes.
func (m *Memory) Size() uint32 {
	return uint32(len(m.bytes))
}

func (m *Memory) checkRange(address uint32, size int) error {
	length := len(m.bytes)
	if int64(address)+int64(size) > int64(length) {
		return &ErrOutOfBounds{Address: address, Size: size, Length: length}
	}
	return nil
}

// ReadByte reads one byte at address.
func (m *Memory) ReadByte(address uint32) (uint8, error) {
	if err := m.checkRange(address, 1); err != nil {
		return 0, err
	}
	return m.bytes[address], nil
}

// WriteByte writes one byte at address.
func (m *Memory) WriteByte(address uint32, value uint8) error {
	if err := m.checkRange(address, 1); err != nil {
		return err
	}
	m.bytes[address] = value
	return nil
}

// ReadHalfword reads a little-endian 16-bit value at address.
func (m *Memory) ReadHalfword(address uint32) (uint16, error) {
	if err := m.checkRange(address, 2); err != nil {
		return 0, err
	}
	return uint16(m.bytes[address]) | uint16(m.bytes[address+1])<<8, nil
}

// WriteHalfword writes a little-endian 16-bit value at address.
func (m *Memory) WriteHalfword(address uint32, value uint16) error {
	if err := m.checkRange(address, 2); err != nil {
		return err
	}
	m.bytes[address] = byte(value)
	m.bytes[address+1] = byte(value >> 8)
	return nil
}

// ReadWord reads a little-endian 32-bit value at address.
func (m *Memory) ReadWord(address uint32) (uint32, error) {
	if err := m.checkRange(address, 4); err != nil {
		return 0, err
	}
	return uint32(m.bytes[address]) |
		uint32(m.bytes[address+1])<<8 |
		uint32(m.bytes[address+2])<<16 |
		uint32(m.bytes[address+3])<<24, nil
}

// WriteWord writes a little-endian 32-bit value at address.
func (m *Memory) WriteWord(address uint32, value uint32) error {
	if err := m.checkRange(address, 4); err != nil {
		return err
	}
	m.bytes[address] = byte(value)
	m.bytes[address+1] = byte(value >> 8)
	m.bytes[address+2] = byte(value >> 16)
	m.bytes[address+3] = byte(value >> 24)
	return nil
}

// LoadBytes copies program into memory starting at address, e.g. to load a
// flat binary image at address 0. It fails if the image does not fit.
func (m *Memory) LoadBytes(address uint32, program []byte) error {
	if err := m.checkRange(address, len(program)); err != nil {
		return err
	}
	copy(m.bytes[address:], program)
	return nil
}

// GetBytes returns a copy of length bytes starting at address, for
// diagnostics and debugger memory views.
func (m *Memory) GetBytes(address uint32, length int) ([]byte, error) {
	if err := m.checkRange(address, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, m.bytes[address:int(address)+length])
	return out, nil
}

// Reset zeroes every byte of memory without changing its size.
func (m *Memory) Reset() {
	for i := range m.bytes {
		m.bytes[i] = 0
	}
}
