package disasm

import (
	"testing"

	"github.com/rv32sim/rv32sim/cpu"
)

func TestFormatSub(t *testing.T) {
	instr := &cpu.Instruction{Type: cpu.IAlu, AluFunc: cpu.Sub, HasDst: true, Dst: 12, HasSrc1: true, Src1: 10, HasSrc2: true, Src2: 11}
	got := Format(instr, 0)
	want := "sub x12, x10, x11"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatBranch(t *testing.T) {
	instr := &cpu.Instruction{Type: cpu.IBr, BrFunc: cpu.BrEq, HasSrc1: true, Src1: 5, HasSrc2: true, Src2: 6, HasImm: true, Imm: 0x10}
	got := Format(instr, 0x1000)
	want := "beq x5, x6, 0x00001010"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
