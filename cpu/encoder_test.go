package cpu

import "testing"

func TestEncodeDecodeRRoundTrip(t *testing.T) {
	cases := []Mnemonic{MAdd, MSub, MAnd, MOr, MXor, MSlt, MSltu, MSll, MSrl, MSra}
	for _, m := range cases {
		word, err := EncodeR(m, 5, 6, 7)
		if err != nil {
			t.Fatalf("encode %v: %v", m, err)
		}
		instr, err := Decoder{}.Decode(word, 0)
		if err != nil {
			t.Fatalf("decode %v: %v", m, err)
		}
		if instr.Dst != 5 || instr.Src1 != 6 || instr.Src2 != 7 {
			t.Errorf("%v: got dst=%d src1=%d src2=%d, want 5/6/7", m, instr.Dst, instr.Src1, instr.Src2)
		}
	}
}

func TestEncodeDecodeBRoundTrip(t *testing.T) {
	word, err := EncodeB(MBlt, 3, 4, 0x100)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	instr, err := Decoder{}.Decode(word, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if instr.Type != IBr || instr.BrFunc != BrLt || instr.Imm != 0x100 {
		t.Errorf("got type=%v func=%v imm=0x%x, want Br/Lt/0x100", instr.Type, instr.BrFunc, instr.Imm)
	}
	if instr.Src1 != 3 || instr.Src2 != 4 {
		t.Errorf("got src1=%d src2=%d, want 3/4", instr.Src1, instr.Src2)
	}
}

func TestEncodeDecodeJRoundTrip(t *testing.T) {
	word := EncodeJ(2, 0x1000)
	instr, err := Decoder{}.Decode(word, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if instr.Type != IJ || instr.Imm != 0x1000 || instr.Dst != 2 {
		t.Errorf("got type=%v imm=0x%x dst=%d, want J/0x1000/2", instr.Type, instr.Imm, instr.Dst)
	}
}

func TestEncodeDecodeJNegativeOffset(t *testing.T) {
	off := int32(-16)
	word := EncodeJ(1, Word(off))
	instr, err := Decoder{}.Decode(word, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if int32(instr.Imm) != -16 {
		t.Errorf("got imm=%d, want -16", int32(instr.Imm))
	}
}
