package vm

import "testing"

func TestRegisterZeroIsHardWired(t *testing.T) {
	c := NewCPU()
	c.SetRegister(0, 0xDEADBEEF)
	if got := c.GetRegister(0); got != 0 {
		t.Errorf("GetRegister(0) = 0x%X after write, want 0", got)
	}

	c.SetRegister(5, 42)
	c.SetRegister(0, 0xFFFFFFFF)
	if got := c.GetRegister(0); got != 0 {
		t.Errorf("GetRegister(0) = 0x%X after unrelated write, want 0", got)
	}
	if got := c.GetRegister(5); got != 42 {
		t.Errorf("GetRegister(5) = %d, want 42", got)
	}
}

func TestRegisterReadWrite(t *testing.T) {
	c := NewCPU()
	for i := 1; i < 32; i++ {
		c.SetRegister(i, uint32(i*1000))
	}
	for i := 1; i < 32; i++ {
		if got := c.GetRegister(i); got != uint32(i*1000) {
			t.Errorf("GetRegister(%d) = %d, want %d", i, got, i*1000)
		}
	}
}

func TestGetRegisterSigned(t *testing.T) {
	c := NewCPU()
	c.SetRegister(1, 0xFFFFFFFF)
	if got := c.GetRegisterSigned(1); got != -1 {
		t.Errorf("GetRegisterSigned(1) = %d, want -1", got)
	}
}

func TestCPUReset(t *testing.T) {
	c := NewCPU()
	c.SetRegister(3, 99)
	c.PC = 400
	c.CSR.Cycle = 10
	c.Reset()

	if got := c.GetRegister(3); got != 0 {
		t.Errorf("GetRegister(3) after reset = %d, want 0", got)
	}
	if c.PC != 0 {
		t.Errorf("PC after reset = %d, want 0", c.PC)
	}
	if c.CSR.Cycle != 0 {
		t.Errorf("CSR.Cycle after reset = %d, want 0", c.CSR.Cycle)
	}
}
