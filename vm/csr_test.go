package vm

import "testing"

func TestCSRReadRecognisedAddresses(t *testing.T) {
	c := &CSRFile{Cycle: 0x1_0000_0002, Time: 7, Instret: 9}

	tests := []struct {
		addr uint16
		want uint32
	}{
		{CSRCycleLow, 2},
		{CSRCycleHigh, 1},
		{CSRTimeLow, 7},
		{CSRTimeHigh, 0},
		{CSRInstretLow, 9},
		{CSRInstretHigh, 0},
	}
	for _, tt := range tests {
		got, ok := c.Read(tt.addr)
		if !ok {
			t.Errorf("Read(0x%X) not ok, want recognised", tt.addr)
		}
		if got != tt.want {
			t.Errorf("Read(0x%X) = %d, want %d", tt.addr, got, tt.want)
		}
	}
}

func TestCSRReadUnrecognisedAddress(t *testing.T) {
	c := &CSRFile{}
	if _, ok := c.Read(0x000); ok {
		t.Error("Read(0x000) ok, want unrecognised")
	}
}

func TestCSRWriteAlwaysFails(t *testing.T) {
	c := &CSRFile{}
	if ok := c.Write(CSRCycleLow, 5); ok {
		t.Error("Write to read-only counter succeeded, want failure")
	}
}
