/*
 * rv32sim - RV32I decoder.
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

// Opcode field values (bits [6:0]).
const (
	opOP     Word = 0x33
	opOPIMM  Word = 0x13
	opLOAD   Word = 0x03
	opSTORE  Word = 0x23
	opBRANCH Word = 0x63
	opJAL    Word = 0x6F
	opJALR   Word = 0x67
	opLUI    Word = 0x37
	opAUIPC  Word = 0x17
	opSYSTEM Word = 0x73
)

// CSR addresses recognized by the minimal SYSTEM decode (see CsrFile).
const (
	CsrMCycle   Word = 0xB00
	CsrMInstret Word = 0xB02
	CsrMToHost  Word = 0x7C0
)

// Fault reports a condition the pipeline has no architectural way to
// trap: an undefined opcode or an unsupported CSR operation.
type Fault struct {
	IP      Word
	Message string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault at ip=0x%08x: %s", f.IP, f.Message)
}

// Decoder maps a fetched 32 bit word into a decoded Instruction.
type Decoder struct{}

func bits(w Word, hi, lo uint) Word {
	mask := Word(1)<<(hi-lo+1) - 1
	return (w >> lo) & mask
}

func signExtend(value Word, bitWidth uint) Word {
	shift := 32 - bitWidth
	return Word(int32(value<<shift) >> shift)
}

func immI(w Word) Word {
	return signExtend(bits(w, 31, 20), 12)
}

func immS(w Word) Word {
	v := (bits(w, 31, 25) << 5) | bits(w, 11, 7)
	return signExtend(v, 12)
}

func immB(w Word) Word {
	v := (bits(w, 31, 31) << 12) | (bits(w, 7, 7) << 11) |
		(bits(w, 30, 25) << 5) | (bits(w, 11, 8) << 1)
	return signExtend(v, 13)
}

func immU(w Word) Word {
	return bits(w, 31, 12) << 12
}

func immJ(w Word) Word {
	v := (bits(w, 31, 31) << 20) | (bits(w, 19, 12) << 12) |
		(bits(w, 20, 20) << 11) | (bits(w, 30, 21) << 1)
	return signExtend(v, 21)
}

// Decode maps a fetched instruction word into its decoded form, or returns
// a Fault for an opcode/funct combination this simulator does not model.
func (Decoder) Decode(word Word, ip Word) (*Instruction, error) {
	opcode := bits(word, 6, 0)
	rd := int(bits(word, 11, 7))
	funct3 := bits(word, 14, 12)
	rs1 := int(bits(word, 19, 15))
	rs2 := int(bits(word, 24, 20))
	funct7 := bits(word, 31, 25)

	switch opcode {
	case opOP:
		fn, err := aluFuncForR(funct3, funct7)
		if err != nil {
			return nil, &Fault{IP: ip, Message: err.Error()}
		}
		return &Instruction{
			Type: IAlu, AluFunc: fn,
			HasDst: true, Dst: rd,
			HasSrc1: true, Src1: rs1,
			HasSrc2: true, Src2: rs2,
		}, nil

	case opOPIMM:
		fn, err := aluFuncForI(funct3, funct7)
		if err != nil {
			return nil, &Fault{IP: ip, Message: err.Error()}
		}
		imm := immI(word)
		if funct3 == 0x1 || funct3 == 0x5 {
			// SLLI/SRLI/SRAI: shift amount is the low 5 bits of rs2's field.
			imm = Word(rs2) & 0x1F
		}
		return &Instruction{
			Type: IAlu, AluFunc: fn,
			HasDst: true, Dst: rd,
			HasSrc1: true, Src1: rs1,
			HasImm: true, Imm: imm,
		}, nil

	case opLOAD:
		return &Instruction{
			Type: ILd,
			HasDst: true, Dst: rd,
			HasSrc1: true, Src1: rs1,
			HasImm: true, Imm: immI(word),
			AluFunc: Add,
		}, nil

	case opSTORE:
		return &Instruction{
			Type: ISt,
			HasSrc1: true, Src1: rs1,
			HasSrc2: true, Src2: rs2,
			HasImm: true, Imm: immS(word),
			AluFunc: Add,
		}, nil

	case opBRANCH:
		fn, err := brFuncFor(funct3)
		if err != nil {
			return nil, &Fault{IP: ip, Message: err.Error()}
		}
		return &Instruction{
			Type: IBr, BrFunc: fn,
			HasSrc1: true, Src1: rs1,
			HasSrc2: true, Src2: rs2,
			HasImm: true, Imm: immB(word),
		}, nil

	case opJAL:
		return &Instruction{
			Type: IJ, BrFunc: BrAlwaysTaken,
			HasDst: true, Dst: rd,
			HasImm: true, Imm: immJ(word),
		}, nil

	case opJALR:
		return &Instruction{
			Type: IJr, BrFunc: BrAlwaysTaken,
			HasDst: true, Dst: rd,
			HasSrc1: true, Src1: rs1,
			HasImm: true, Imm: immI(word),
		}, nil

	case opLUI:
		return &Instruction{
			Type: IAlu, AluFunc: Add,
			HasDst: true, Dst: rd,
			HasImm: true, Imm: immU(word),
		}, nil

	case opAUIPC:
		return &Instruction{
			Type: IAuipc,
			HasDst: true, Dst: rd,
			HasImm: true, Imm: immU(word),
		}, nil

	case opSYSTEM:
		return decodeSystem(ip, rd, funct3, rs1, word)

	default:
		return nil, &Fault{IP: ip, Message: fmt.Sprintf("undefined opcode 0x%02x", opcode)}
	}
}

func aluFuncForR(funct3, funct7 Word) (AluFunc, error) {
	switch funct3 {
	case 0x0:
		if funct7 == 0x20 {
			return Sub, nil
		}
		return Add, nil
	case 0x1:
		return Sll, nil
	case 0x2:
		return Slt, nil
	case 0x3:
		return Sltu, nil
	case 0x4:
		return Xor, nil
	case 0x5:
		if funct7 == 0x20 {
			return Sra, nil
		}
		return Srl, nil
	case 0x6:
		return Or, nil
	case 0x7:
		return And, nil
	}
	return 0, fmt.Errorf("undefined OP funct3 0x%x", funct3)
}

func aluFuncForI(funct3, funct7 Word) (AluFunc, error) {
	switch funct3 {
	case 0x0:
		return Add, nil
	case 0x1:
		return Sll, nil
	case 0x2:
		return Slt, nil
	case 0x3:
		return Sltu, nil
	case 0x4:
		return Xor, nil
	case 0x5:
		if funct7 == 0x20 {
			return Sra, nil
		}
		return Srl, nil
	case 0x6:
		return Or, nil
	case 0x7:
		return And, nil
	}
	return 0, fmt.Errorf("undefined OP-IMM funct3 0x%x", funct3)
}

func brFuncFor(funct3 Word) (BrFunc, error) {
	switch funct3 {
	case 0x0:
		return BrEq, nil
	case 0x1:
		return BrNeq, nil
	case 0x4:
		return BrLt, nil
	case 0x5:
		return BrGe, nil
	case 0x6:
		return BrLtu, nil
	case 0x7:
		return BrGeu, nil
	}
	return 0, fmt.Errorf("undefined BRANCH funct3 0x%x", funct3)
}

// decodeSystem implements the minimal CSR subset: csrrw is a pure write
// (the csr's prior value is not modeled as being returned to rd), csrrs is
// a pure read (rs1's bit-set side effect is not modeled). Anything else is
// an unsupported CSR operation, which is a fatal Fault per the simulator's
// no-trap error model.
func decodeSystem(ip Word, rd int, funct3 Word, rs1 int, word Word) (*Instruction, error) {
	csr := bits(word, 31, 20)
	switch funct3 {
	case 0x1: // csrrw
		return &Instruction{
			Type: ICsrw,
			HasSrc1: true, Src1: rs1,
			HasCsr: true, Csr: csr,
		}, nil
	case 0x2: // csrrs
		return &Instruction{
			Type: ICsrr,
			HasDst: true, Dst: rd,
			HasCsr: true, Csr: csr,
		}, nil
	}
	return nil, &Fault{IP: ip, Message: fmt.Sprintf("unsupported SYSTEM funct3 0x%x", funct3)}
}
