/*
 * rv32sim - RV32I instruction record.
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

// Package cpu implements the RV32I decoder, executor, register/CSR files
// and the clocked fetch/execute/memory pipeline.
package cpu

// Word is the native 32 bit value: registers, addresses and immediates.
type Word = uint32

// IType is the family a decoded instruction belongs to.
type IType int

const (
	IAlu IType = iota
	ILd
	ISt
	ICsrr
	ICsrw
	IJ
	IJr
	IBr
	IAuipc
)

func (t IType) String() string {
	switch t {
	case IAlu:
		return "Alu"
	case ILd:
		return "Ld"
	case ISt:
		return "St"
	case ICsrr:
		return "Csrr"
	case ICsrw:
		return "Csrw"
	case IJ:
		return "J"
	case IJr:
		return "Jr"
	case IBr:
		return "Br"
	case IAuipc:
		return "Auipc"
	default:
		return "???"
	}
}

// AluFunc selects the ALU operation for Alu/Ld/St address-computation.
type AluFunc int

const (
	Add AluFunc = iota
	Sub
	And
	Or
	Xor
	Slt
	Sltu
	Sll
	Srl
	Sra
)

func (f AluFunc) String() string {
	switch f {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case And:
		return "and"
	case Or:
		return "or"
	case Xor:
		return "xor"
	case Slt:
		return "slt"
	case Sltu:
		return "sltu"
	case Sll:
		return "sll"
	case Srl:
		return "srl"
	case Sra:
		return "sra"
	default:
		return "?"
	}
}

// BrFunc selects the branch predicate for Br instructions (and the
// always/never-taken predicates used by J/Jr).
type BrFunc int

const (
	BrEq BrFunc = iota
	BrNeq
	BrLt
	BrLtu
	BrGe
	BrGeu
	BrAlwaysTaken
	BrNeverTaken
)

func (f BrFunc) String() string {
	switch f {
	case BrEq:
		return "eq"
	case BrNeq:
		return "neq"
	case BrLt:
		return "lt"
	case BrLtu:
		return "ltu"
	case BrGe:
		return "ge"
	case BrGeu:
		return "geu"
	case BrAlwaysTaken:
		return "at"
	case BrNeverTaken:
		return "nt"
	default:
		return "?"
	}
}

// Instruction is a decoded record, created by Decode, augmented by
// RegisterFile.Read/CsrFile.Read, computed by Executor.Execute, possibly
// consumed by the data cache, then committed by RegisterFile.Write/
// CsrFile.Write. It never outlives one fetch-commit pass through the Cpu,
// except that an instruction waiting on a data access is held across ticks.
type Instruction struct {
	Type    IType
	AluFunc AluFunc
	BrFunc  BrFunc

	HasDst bool
	Dst    int

	HasSrc1 bool
	Src1    int

	HasSrc2 bool
	Src2    int

	HasImm bool
	Imm    Word

	HasCsr bool
	Csr    Word

	// Filled by RegisterFile.Read / CsrFile.Read.
	Src1Val Word
	Src2Val Word
	CsrVal  Word

	// Filled by Executor.Execute, and for loads, by the data cache.
	Data   Word
	Addr   Word
	NextIP Word
}
