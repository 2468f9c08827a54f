package vm

import "testing"

func TestDecodeFields(t *testing.T) {
	// ADDI x1, x2, -5: opcode=OP_IMM, rd=1, funct3=0, rs1=2, imm=-5
	negFive := int32(-5)
	imm := uint32(negFive) & 0xFFF
	word := (imm << 20) | (2 << 15) | (0 << 12) | (1 << 7) | uint32(OpImm)

	f := Decode(word)
	if f.Opcode != OpImm {
		t.Errorf("Opcode = 0x%X, want 0x%X", f.Opcode, OpImm)
	}
	if f.Rd != 1 {
		t.Errorf("Rd = %d, want 1", f.Rd)
	}
	if f.Rs1 != 2 {
		t.Errorf("Rs1 = %d, want 2", f.Rs1)
	}
	if f.Funct3 != 0 {
		t.Errorf("Funct3 = %d, want 0", f.Funct3)
	}
	if got := ImmI(word); got != -5 {
		t.Errorf("ImmI = %d, want -5", got)
	}
}

func TestImmISignExtension(t *testing.T) {
	tests := []struct {
		bits uint32
		want int32
	}{
		{0x7FF, 2047},
		{0x800, -2048},
		{0xFFF, -1},
		{0x000, 0},
	}
	for _, tt := range tests {
		word := tt.bits << 20
		if got := ImmI(word); got != tt.want {
			t.Errorf("ImmI(bits=0x%X) = %d, want %d", tt.bits, got, tt.want)
		}
	}
}

func TestImmBSignExtensionAndLSBZero(t *testing.T) {
	// Encode a B-immediate of +500 and -500 and check round-trip via ImmB.
	for _, want := range []int32{500, -500, 4094, -4096} {
		word := encodeBImmForTest(want)
		got := ImmB(word)
		if got != want {
			t.Errorf("ImmB round-trip for %d = %d", want, got)
		}
		if got&1 != 0 {
			t.Errorf("ImmB(%d) has non-zero LSB", want)
		}
	}
}

func TestImmJSignExtensionAndLSBZero(t *testing.T) {
	for _, want := range []int32{1000, -1000, 1048574, -1048576} {
		word := encodeJImmForTest(want)
		got := ImmJ(word)
		if got != want {
			t.Errorf("ImmJ round-trip for %d = %d", want, got)
		}
		if got&1 != 0 {
			t.Errorf("ImmJ(%d) has non-zero LSB", want)
		}
	}
}

// encodeBImmForTest scatters a B-type immediate into instruction bit
// positions the way a real encoder would, for exercising the decoder.
func encodeBImmForTest(imm int32) uint32 {
	u := uint32(imm)
	var word uint32
	word |= ((u >> 12) & 0x1) << 31
	word |= ((u >> 11) & 0x1) << 7
	word |= ((u >> 5) & 0x3F) << 25
	word |= ((u >> 1) & 0xF) << 8
	return word
}

// encodeJImmForTest scatters a J-type immediate into instruction bit
// positions the way a real encoder would, for exercising the decoder.
func encodeJImmForTest(imm int32) uint32 {
	u := uint32(imm)
	var word uint32
	word |= ((u >> 20) & 0x1) << 31
	word |= ((u >> 12) & 0xFF) << 12
	word |= ((u >> 11) & 0x1) << 20
	word |= ((u >> 1) & 0x3FF) << 21
	return word
}
