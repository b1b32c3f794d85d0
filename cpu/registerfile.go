/*
 * rv32sim - RV32I integer register file.
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

// RegisterFile holds the 32 architectural integer registers. x0 always
// reads as zero and writes to it are discarded.
type RegisterFile struct {
	x [32]Word
}

// Reset clears every register to zero.
func (r *RegisterFile) Reset() {
	for i := range r.x {
		r.x[i] = 0
	}
}

// Get returns the raw value of register idx.
func (r *RegisterFile) Get(idx int) Word {
	if idx == 0 {
		return 0
	}
	return r.x[idx]
}

// Set writes value to register idx, silently dropping writes to x0.
func (r *RegisterFile) Set(idx int, value Word) {
	if idx == 0 {
		return
	}
	r.x[idx] = value
}

// Read fills Src1Val/Src2Val on instr from the register file.
func (r *RegisterFile) Read(instr *Instruction) {
	if instr.HasSrc1 {
		instr.Src1Val = r.Get(instr.Src1)
	}
	if instr.HasSrc2 {
		instr.Src2Val = r.Get(instr.Src2)
	}
}

// Write commits instr.Data to its destination register, if it has one.
func (r *RegisterFile) Write(instr *Instruction) {
	if instr.HasDst {
		r.Set(instr.Dst, instr.Data)
	}
}
