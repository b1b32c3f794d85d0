/*
 * rv32sim - RV32I disassembler
 *
 * Copyright 2026, rv32sim contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package disasm renders decoded instructions as text, for the monitor
// and for --trace logging. It never feeds back into execution.
package disasm

import (
	"fmt"

	"github.com/rv32sim/rv32sim/cpu"
)

const (
	opShapeR = 1 + iota
	opShapeI
	opShapeS
	opShapeB
	opShapeJ
	opShapeU
	opShapeCsr
)

type shape struct {
	mnemonic string
	kind     int
}

func aluMnemonic(instr *cpu.Instruction) string {
	if instr.HasSrc2 {
		return instr.AluFunc.String()
	}
	if instr.AluFunc == cpu.Sltu {
		return "sltiu"
	}
	return instr.AluFunc.String() + "i"
}

var branchMnemonics = map[cpu.BrFunc]string{
	cpu.BrEq:  "beq",
	cpu.BrNeq: "bne",
	cpu.BrLt:  "blt",
	cpu.BrGe:  "bge",
	cpu.BrLtu: "bltu",
	cpu.BrGeu: "bgeu",
}

func shapeFor(instr *cpu.Instruction) shape {
	switch instr.Type {
	case cpu.IAlu:
		if instr.HasSrc2 {
			return shape{aluMnemonic(instr), opShapeR}
		}
		if !instr.HasSrc1 {
			return shape{"lui", opShapeU}
		}
		return shape{aluMnemonic(instr), opShapeI}
	case cpu.ILd:
		return shape{"lw", opShapeI}
	case cpu.ISt:
		return shape{"sw", opShapeS}
	case cpu.IBr:
		return shape{branchMnemonics[instr.BrFunc], opShapeB}
	case cpu.IJ:
		return shape{"jal", opShapeJ}
	case cpu.IJr:
		return shape{"jalr", opShapeI}
	case cpu.IAuipc:
		return shape{"auipc", opShapeU}
	case cpu.ICsrr:
		return shape{"csrrs", opShapeCsr}
	case cpu.ICsrw:
		return shape{"csrrw", opShapeCsr}
	}
	return shape{"???", 0}
}

// Format renders one decoded instruction as "mnemonic operands" text,
// e.g. "sub x12, x10, x11" or "beq x5, x6, 0x00001010". ip is used to
// resolve branch/jump targets to absolute addresses.
func Format(instr *cpu.Instruction, ip cpu.Word) string {
	s := shapeFor(instr)
	switch s.kind {
	case opShapeR:
		return fmt.Sprintf("%s x%d, x%d, x%d", s.mnemonic, instr.Dst, instr.Src1, instr.Src2)
	case opShapeI:
		return fmt.Sprintf("%s x%d, x%d, %d", s.mnemonic, instr.Dst, instr.Src1, int32(instr.Imm))
	case opShapeS:
		return fmt.Sprintf("%s x%d, %d(x%d)", s.mnemonic, instr.Src2, int32(instr.Imm), instr.Src1)
	case opShapeB:
		return fmt.Sprintf("%s x%d, x%d, 0x%08x", s.mnemonic, instr.Src1, instr.Src2, ip+instr.Imm)
	case opShapeJ:
		return fmt.Sprintf("%s x%d, 0x%08x", s.mnemonic, instr.Dst, ip+instr.Imm)
	case opShapeU:
		return fmt.Sprintf("%s x%d, 0x%x", s.mnemonic, instr.Dst, instr.Imm>>12)
	case opShapeCsr:
		if instr.Type == cpu.ICsrw {
			return fmt.Sprintf("%s 0x%03x, x%d", s.mnemonic, instr.Csr, instr.Src1)
		}
		return fmt.Sprintf("%s x%d, 0x%03x", s.mnemonic, instr.Dst, instr.Csr)
	}
	return s.mnemonic
}
