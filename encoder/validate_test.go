package encoder

import (
	"errors"
	"testing"
)

func TestRegisterOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		call func() (uint32, error)
	}{
		{"ADDI rd=32", func() (uint32, error) { return ADDI(32, 0, 0) }},
		{"ADDI rs1=-1", func() (uint32, error) { return ADDI(0, -1, 0) }},
		{"ADD rs2=32", func() (uint32, error) { return ADD(0, 0, 32) }},
		{"BEQ rs1=40", func() (uint32, error) { return BEQ(40, 0, 0) }},
		{"JAL rd=99", func() (uint32, error) { return JAL(99, 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.call()
			var encErr *EncodingError
			if !errors.As(err, &encErr) {
				t.Fatalf("error = %v, want *EncodingError", err)
			}
		})
	}
}

func TestImmediateOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		call func() (uint32, error)
	}{
		{"ADDI imm=2048", func() (uint32, error) { return ADDI(1, 1, 2048) }},
		{"ADDI imm=-2049", func() (uint32, error) { return ADDI(1, 1, -2049) }},
		{"LW imm=4000", func() (uint32, error) { return LW(1, 1, 4000) }},
		{"SW imm=-3000", func() (uint32, error) { return SW(1, 1, -3000) }},
		{"BEQ imm=4096", func() (uint32, error) { return BEQ(1, 2, 4096) }},
		{"BEQ imm=-4098", func() (uint32, error) { return BEQ(1, 2, -4098) }},
		{"JAL imm=1048576", func() (uint32, error) { return JAL(1, 1048576) }},
		{"JAL imm=-1048578", func() (uint32, error) { return JAL(1, -1048578) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.call(); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestMisalignedOffsets(t *testing.T) {
	if _, err := BEQ(1, 2, 501); err == nil {
		t.Error("BEQ with odd offset should fail")
	}
	if _, err := JAL(1, 333); err == nil {
		t.Error("JAL with odd offset should fail")
	}
}

func TestShiftAmountTooLarge(t *testing.T) {
	for _, call := range []func() (uint32, error){
		func() (uint32, error) { return SLLI(1, 1, 32) },
		func() (uint32, error) { return SRLI(1, 1, 32) },
		func() (uint32, error) { return SRAI(1, 1, 100) },
	} {
		if _, err := call(); err == nil {
			t.Error("shift amount > 31 should fail")
		}
	}
}

func TestUpperImmLowBitsMustBeZero(t *testing.T) {
	if _, err := LUI(1, 0x12345); err == nil {
		t.Error("LUI with non-zero low 12 bits should fail")
	}
	if _, err := AUIPC(1, 0x1001); err == nil {
		t.Error("AUIPC with non-zero low 12 bits should fail")
	}
}

func TestCSRConstructorPreconditions(t *testing.T) {
	if _, err := CSRRW(1, 0x1000, 2); err == nil {
		t.Error("CSR address wider than 12 bits should fail")
	}
	if _, err := CSRRWI(1, 0xC00, 32); err == nil {
		t.Error("CSR immediate wider than 5 bits should fail")
	}
}

func TestFencePreconditions(t *testing.T) {
	if _, err := FENCE(0x10, 0); err == nil {
		t.Error("FENCE pred mask wider than 4 bits should fail")
	}
	if _, err := FENCE(0, 0x10); err == nil {
		t.Error("FENCE succ mask wider than 4 bits should fail")
	}
}

func TestEncodingErrorMessageNamesMnemonic(t *testing.T) {
	_, err := ADDI(1, 1, 5000)
	if err == nil {
		t.Fatal("expected error")
	}
	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("error = %T, want *EncodingError", err)
	}
	if encErr.Mnemonic != "ADDI" {
		t.Errorf("Mnemonic = %q, want ADDI", encErr.Mnemonic)
	}
}
