package vm

import "testing"

func TestMemoryByteRoundTrip(t *testing.T) {
	m := NewMemory(16)
	if err := m.WriteByte(5, 0x42); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	got, err := m.ReadByte(5)
	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if got != 0x42 {
		t.Errorf("ReadByte(5) = 0x%X, want 0x42", got)
	}
}

func TestMemoryHalfwordLittleEndian(t *testing.T) {
	m := NewMemory(16)
	if err := m.WriteHalfword(0, 0xABCD); err != nil {
		t.Fatalf("WriteHalfword: %v", err)
	}
	lo, _ := m.ReadByte(0)
	hi, _ := m.ReadByte(1)
	if lo != 0xCD || hi != 0xAB {
		t.Errorf("little-endian halfword layout wrong: lo=0x%X hi=0x%X", lo, hi)
	}
	got, err := m.ReadHalfword(0)
	if err != nil || got != 0xABCD {
		t.Errorf("ReadHalfword(0) = 0x%X, err %v, want 0xABCD", got, err)
	}
}

func TestMemoryWordRoundTripWidths(t *testing.T) {
	m := NewMemory(16)
	if err := m.WriteWord(4, 0x11223344); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	got, err := m.ReadWord(4)
	if err != nil || got != 0x11223344 {
		t.Errorf("ReadWord(4) = 0x%X, err %v, want 0x11223344", got, err)
	}
}

func TestMemoryOutOfBoundsByte(t *testing.T) {
	m := NewMemory(4)
	if _, err := m.ReadByte(4); err == nil {
		t.Error("ReadByte(4) on 4-byte memory expected error, got nil")
	}
	if err := m.WriteByte(10, 1); err == nil {
		t.Error("WriteByte(10) on 4-byte memory expected error, got nil")
	}
}

func TestMemoryStraddlingWriteLeavesMemoryUnchanged(t *testing.T) {
	m := NewMemory(4)
	if err := m.WriteByte(3, 0xFF); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	// A word write starting at 2 straddles past the end; it must fail and
	// leave existing memory untouched rather than partially writing.
	if err := m.WriteWord(2, 0x11223344); err == nil {
		t.Fatal("WriteWord straddling end of memory expected error, got nil")
	}
	got, _ := m.ReadByte(3)
	if got != 0xFF {
		t.Errorf("byte at 3 changed after failed straddling write: got 0x%X, want 0xFF", got)
	}
}

func TestMemoryLoadBytes(t *testing.T) {
	m := NewMemory(8)
	if err := m.LoadBytes(0, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	b, err := m.GetBytes(0, 4)
	if err != nil {
		t.Fatalf("GetBytes: %v", err)
	}
	want := []byte{1, 2, 3, 4}
	for i := range want {
		if b[i] != want[i] {
			t.Errorf("byte %d = %d, want %d", i, b[i], want[i])
		}
	}
}
