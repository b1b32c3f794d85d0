package cpu

import "testing"

func encodeR(opcode, funct3, funct7 Word, rd, rs1, rs2 int) Word {
	return funct7<<25 | Word(rs2)<<20 | Word(rs1)<<15 | funct3<<12 | Word(rd)<<7 | opcode
}

func TestDecodeSub(t *testing.T) {
	word := encodeR(opOP, 0x0, 0x20, 12, 10, 11)
	instr, err := Decoder{}.Decode(word, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if instr.Type != IAlu || instr.AluFunc != Sub {
		t.Errorf("got type=%v func=%v, want Alu/Sub", instr.Type, instr.AluFunc)
	}
	if instr.Dst != 12 || instr.Src1 != 10 || instr.Src2 != 11 {
		t.Errorf("got dst=%d src1=%d src2=%d, want 12/10/11", instr.Dst, instr.Src1, instr.Src2)
	}
}

func TestDecodeAddVsSub(t *testing.T) {
	add, err := Decoder{}.Decode(encodeR(opOP, 0x0, 0x00, 1, 2, 3), 0)
	if err != nil {
		t.Fatalf("decode add: %v", err)
	}
	if add.AluFunc != Add {
		t.Errorf("funct7=0 should decode as Add, got %v", add.AluFunc)
	}
}

func TestDecodeSltVsSltu(t *testing.T) {
	slt, err := Decoder{}.Decode(encodeR(opOP, 0x2, 0x00, 1, 2, 3), 0)
	if err != nil {
		t.Fatalf("decode slt: %v", err)
	}
	if slt.AluFunc != Slt {
		t.Errorf("funct3=2 should decode as Slt, got %v", slt.AluFunc)
	}

	sltu, err := Decoder{}.Decode(encodeR(opOP, 0x3, 0x00, 1, 2, 3), 0)
	if err != nil {
		t.Fatalf("decode sltu: %v", err)
	}
	if sltu.AluFunc != Sltu {
		t.Errorf("funct3=3 should decode as Sltu, got %v", sltu.AluFunc)
	}
}

func TestDecodeBranchFuncts(t *testing.T) {
	cases := []struct {
		funct3 Word
		want   BrFunc
	}{
		{0x0, BrEq}, {0x1, BrNeq}, {0x4, BrLt}, {0x5, BrGe}, {0x6, BrLtu}, {0x7, BrGeu},
	}
	for _, c := range cases {
		word := c.funct3<<12 | opBRANCH
		instr, err := Decoder{}.Decode(word, 0)
		if err != nil {
			t.Fatalf("decode funct3=%d: %v", c.funct3, err)
		}
		if instr.Type != IBr || instr.BrFunc != c.want {
			t.Errorf("funct3=%d: got type=%v func=%v, want Br/%v", c.funct3, instr.Type, instr.BrFunc, c.want)
		}
	}
}

func TestDecodeJIsAlwaysTaken(t *testing.T) {
	word := EncodeJ(1, 0x100)
	instr, err := Decoder{}.Decode(word, 0x1000)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if instr.Type != IJ || instr.BrFunc != BrAlwaysTaken {
		t.Errorf("got type=%v func=%v, want J/AlwaysTaken", instr.Type, instr.BrFunc)
	}
}

func TestDecodeUndefinedOpcodeFaults(t *testing.T) {
	_, err := Decoder{}.Decode(0x7F, 0x40)
	if err == nil {
		t.Fatal("expected a fault for an undefined opcode")
	}
	var f *Fault
	if fe, ok := err.(*Fault); !ok {
		t.Fatalf("expected *Fault, got %T", err)
	} else {
		f = fe
	}
	if f.IP != 0x40 {
		t.Errorf("fault IP=%d, want 0x40", f.IP)
	}
}

func TestDecodeCsrrwAndCsrrs(t *testing.T) {
	w, err := Decoder{}.Decode(EncodeCsrrw(0, 5, CsrMToHost), 0)
	if err != nil {
		t.Fatalf("decode csrrw: %v", err)
	}
	if w.Type != ICsrw || w.Csr != CsrMToHost || w.Src1 != 5 {
		t.Errorf("got type=%v csr=%x src1=%d, want Csrw/0x7c0/5", w.Type, w.Csr, w.Src1)
	}

	r, err := Decoder{}.Decode(EncodeCsrrs(7, 0, CsrMCycle), 0)
	if err != nil {
		t.Fatalf("decode csrrs: %v", err)
	}
	if r.Type != ICsrr || r.Csr != CsrMCycle || r.Dst != 7 {
		t.Errorf("got type=%v csr=%x dst=%d, want Csrr/0xb00/7", r.Type, r.Csr, r.Dst)
	}
}

func TestDecodeUnsupportedCsrFunct3Faults(t *testing.T) {
	word := (CsrMToHost&0xFFF)<<20 | 0x3<<12 | opSYSTEM // csrrc
	_, err := Decoder{}.Decode(word, 0)
	if err == nil {
		t.Fatal("expected a fault for csrrc (unsupported CSR funct3)")
	}
}
