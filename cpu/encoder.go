/*
 * rv32sim - RV32I encoder, the inverse of Decoder.
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

package cpu

import "fmt"

// Mnemonic identifies one assembler-visible RV32I instruction. The
// Encode functions consume these directly; a text assembler could map
// mnemonic strings onto the same tables, but tests only need the enum.
type Mnemonic int

const (
	MAdd Mnemonic = iota
	MSub
	MAnd
	MOr
	MXor
	MSlt
	MSltu
	MSll
	MSrl
	MSra
	MAddi
	MAndi
	MOri
	MXori
	MSlti
	MSltiu
	MSlli
	MSrli
	MSrai
	MLw
	MSw
	MBeq
	MBne
	MBlt
	MBge
	MBltu
	MBgeu
	MJal
	MJalr
	MLui
	MAuipc
	MCsrrw
	MCsrrs
)

type encOp struct {
	opcode Word
	funct3 Word
	funct7 Word
}

var rTable = map[Mnemonic]encOp{
	MAdd:  {opOP, 0x0, 0x00},
	MSub:  {opOP, 0x0, 0x20},
	MSll:  {opOP, 0x1, 0x00},
	MSlt:  {opOP, 0x2, 0x00},
	MSltu: {opOP, 0x3, 0x00},
	MXor:  {opOP, 0x4, 0x00},
	MSrl:  {opOP, 0x5, 0x00},
	MSra:  {opOP, 0x5, 0x20},
	MOr:   {opOP, 0x6, 0x00},
	MAnd:  {opOP, 0x7, 0x00},
}

var iTable = map[Mnemonic]encOp{
	MAddi:  {opOPIMM, 0x0, 0},
	MSlli:  {opOPIMM, 0x1, 0x00},
	MSlti:  {opOPIMM, 0x2, 0},
	MSltiu: {opOPIMM, 0x3, 0},
	MXori:  {opOPIMM, 0x4, 0},
	MSrli:  {opOPIMM, 0x5, 0x00},
	MSrai:  {opOPIMM, 0x5, 0x20},
	MOri:   {opOPIMM, 0x6, 0},
	MAndi:  {opOPIMM, 0x7, 0},
	MLw:    {opLOAD, 0x2, 0},
	MJalr:  {opJALR, 0x0, 0},
}

var bTable = map[Mnemonic]Word{
	MBeq:  0x0,
	MBne:  0x1,
	MBlt:  0x4,
	MBge:  0x5,
	MBltu: 0x6,
	MBgeu: 0x7,
}

func encReg(v int) Word { return Word(v) & 0x1F }

// EncodeR builds an R-type (register-register ALU) instruction.
func EncodeR(m Mnemonic, rd, rs1, rs2 int) (Word, error) {
	e, ok := rTable[m]
	if !ok {
		return 0, fmt.Errorf("%v is not an R-type mnemonic", m)
	}
	return e.funct7<<25 | encReg(rs2)<<20 | encReg(rs1)<<15 | e.funct3<<12 | encReg(rd)<<7 | e.opcode, nil
}

// EncodeI builds an I-type instruction (OP-IMM, LOAD, JALR). For the
// shift-immediate forms imm carries only the 5 bit shift amount.
func EncodeI(m Mnemonic, rd, rs1 int, imm Word) (Word, error) {
	e, ok := iTable[m]
	if !ok {
		return 0, fmt.Errorf("%v is not an I-type mnemonic", m)
	}
	immField := imm & 0xFFF
	if m == MSlli || m == MSrli || m == MSrai {
		immField = (e.funct7 << 5) | (imm & 0x1F)
	}
	return immField<<20 | encReg(rs1)<<15 | e.funct3<<12 | encReg(rd)<<7 | e.opcode, nil
}

// EncodeS builds an S-type store instruction.
func EncodeS(rs1, rs2 int, imm Word) Word {
	lo := imm & 0x1F
	hi := (imm >> 5) & 0x7F
	return hi<<25 | encReg(rs2)<<20 | encReg(rs1)<<15 | 0x2<<12 | lo<<7 | opSTORE
}

// EncodeB builds a B-type branch instruction. imm is the byte offset
// from the branch's own address; bit 0 is always zero.
func EncodeB(m Mnemonic, rs1, rs2 int, imm Word) (Word, error) {
	funct3, ok := bTable[m]
	if !ok {
		return 0, fmt.Errorf("%v is not a B-type mnemonic", m)
	}
	b12 := (imm >> 12) & 0x1
	b11 := (imm >> 11) & 0x1
	b105 := (imm >> 5) & 0x3F
	b41 := (imm >> 1) & 0xF
	return b12<<31 | b105<<25 | encReg(rs2)<<20 | encReg(rs1)<<15 | funct3<<12 | b41<<8 | b11<<7 | opBRANCH, nil
}

// EncodeU builds a U-type instruction (LUI/AUIPC). imm holds the
// already-shifted upper-20-bits value.
func EncodeU(isAuipc bool, rd int, imm Word) Word {
	op := opLUI
	if isAuipc {
		op = opAUIPC
	}
	return (imm &^ 0xFFF) | encReg(rd)<<7 | op
}

// EncodeJ builds a J-type JAL instruction. imm is the byte offset from
// the jump's own address; bit 0 is always zero.
func EncodeJ(rd int, imm Word) Word {
	b20 := (imm >> 20) & 0x1
	b101 := (imm >> 1) & 0x3FF
	b11 := (imm >> 11) & 0x1
	b1912 := (imm >> 12) & 0xFF
	return b20<<31 | b101<<21 | b11<<20 | b1912<<12 | encReg(rd)<<7 | opJAL
}

// EncodeCsrrw builds a csrrw instruction.
func EncodeCsrrw(rd, rs1 int, csr Word) Word {
	return (csr&0xFFF)<<20 | encReg(rs1)<<15 | 0x1<<12 | encReg(rd)<<7 | opSYSTEM
}

// EncodeCsrrs builds a csrrs instruction.
func EncodeCsrrs(rd, rs1 int, csr Word) Word {
	return (csr&0xFFF)<<20 | encReg(rs1)<<15 | 0x2<<12 | encReg(rd)<<7 | opSYSTEM
}
