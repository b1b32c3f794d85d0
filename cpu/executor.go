/*
 * rv32sim - RV32I ALU, branch and jump execution.
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

// Executor computes the result, memory address and next program counter
// for a decoded Instruction. It never touches the register file, CSR
// file or memory directly; Cpu wires those in around it.
type Executor struct{}

func alu(fn AluFunc, a, b Word) Word {
	switch fn {
	case Add:
		return a + b
	case Sub:
		return a - b
	case And:
		return a & b
	case Or:
		return a | b
	case Xor:
		return a ^ b
	case Slt:
		if int32(a) < int32(b) {
			return 1
		}
		return 0
	case Sltu:
		if a < b {
			return 1
		}
		return 0
	case Sll:
		return a << (b & 0x1F)
	case Srl:
		return a >> (b & 0x1F)
	case Sra:
		return Word(int32(a) >> (b & 0x1F))
	}
	return 0
}

func branchTaken(fn BrFunc, a, b Word) bool {
	switch fn {
	case BrEq:
		return a == b
	case BrNeq:
		return a != b
	case BrLt:
		return int32(a) < int32(b)
	case BrLtu:
		return a < b
	case BrGe:
		return int32(a) >= int32(b)
	case BrGeu:
		return a >= b
	case BrAlwaysTaken:
		return true
	case BrNeverTaken:
		return false
	}
	return false
}

// Execute fills Data, Addr and NextIP on instr for the instruction
// fetched at ip. Loads leave Data unset; the data cache fills it once
// the access completes.
func (Executor) Execute(instr *Instruction, ip Word) {
	fallthroughIP := ip + 4

	switch instr.Type {
	case IAlu:
		operand2 := instr.Src2Val
		if instr.HasImm {
			operand2 = instr.Imm
		}
		instr.Data = alu(instr.AluFunc, instr.Src1Val, operand2)
		instr.NextIP = fallthroughIP

	case ILd:
		instr.Addr = instr.Src1Val + instr.Imm
		instr.NextIP = fallthroughIP

	case ISt:
		instr.Addr = instr.Src1Val + instr.Imm
		instr.Data = instr.Src2Val
		instr.NextIP = fallthroughIP

	case ICsrr:
		instr.Data = instr.CsrVal
		instr.NextIP = fallthroughIP

	case ICsrw:
		instr.Data = instr.Src1Val
		instr.NextIP = fallthroughIP

	case IJ:
		// Unconditional: JAL always links and jumps, it never falls
		// through to the branch comparator.
		instr.Data = fallthroughIP
		instr.NextIP = ip + instr.Imm

	case IJr:
		instr.Data = fallthroughIP
		instr.NextIP = (instr.Src1Val + instr.Imm) &^ 1

	case IBr:
		if branchTaken(instr.BrFunc, instr.Src1Val, instr.Src2Val) {
			instr.NextIP = ip + instr.Imm
		} else {
			instr.NextIP = fallthroughIP
		}

	case IAuipc:
		instr.Data = ip + instr.Imm
		instr.NextIP = fallthroughIP
	}
}
