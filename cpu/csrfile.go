/*
 * rv32sim - CSR file and host communication mailbox.
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

// MsgType identifies the kind of message the guest posted to the host
// mailbox via a write to CsrMToHost.
type MsgType int

const (
	MsgExitCode MsgType = iota
	MsgPrintChar
	MsgPrintIntLow
	MsgPrintIntHigh
)

func (t MsgType) String() string {
	switch t {
	case MsgExitCode:
		return "ExitCode"
	case MsgPrintChar:
		return "PrintChar"
	case MsgPrintIntLow:
		return "PrintIntLow"
	case MsgPrintIntHigh:
		return "PrintIntHigh"
	default:
		return "???"
	}
}

// HostMessage is one mailbox entry: the CSR write's high 16 bits select
// Type, the low 16 bits carry Data.
type HostMessage struct {
	Type MsgType
	Data int16
}

// CsrFile models the small set of CSRs the simulator supports: the
// read-only mcycle/minstret counters, and the write-only host mailbox.
// The decoder accepts any CSR address; Read and Write return an error
// for every address other than these.
type CsrFile struct {
	cycle   uint64
	instret uint64
	mailbox []HostMessage
}

// Reset clears the counters and drops any pending mailbox entries.
func (c *CsrFile) Reset() {
	c.cycle = 0
	c.instret = 0
	c.mailbox = nil
}

// Clock advances the free-running cycle counter. Called once per tick
// regardless of whether an instruction retires that tick.
func (c *CsrFile) Clock() {
	c.cycle++
}

// InstructionExecuted advances the retired-instruction counter. Called
// once per instruction that successfully commits.
func (c *CsrFile) InstructionExecuted() {
	c.instret++
}

// Cycles returns the free-running cycle count since reset.
func (c *CsrFile) Cycles() uint64 {
	return c.cycle
}

// Retired returns the number of instructions committed since reset.
func (c *CsrFile) Retired() uint64 {
	return c.instret
}

// Read fills instr.CsrVal for an ICsrr instruction.
func (c *CsrFile) Read(instr *Instruction) error {
	switch instr.Csr {
	case CsrMCycle:
		instr.CsrVal = Word(c.cycle)
	case CsrMInstret:
		instr.CsrVal = Word(c.instret)
	default:
		return fmt.Errorf("unsupported CSR read 0x%03x", instr.Csr)
	}
	return nil
}

// Write handles an ICsrw instruction. Only CsrMToHost accepts writes;
// the write is decoded into a HostMessage and queued for draining.
func (c *CsrFile) Write(instr *Instruction) error {
	if instr.Csr != CsrMToHost {
		return fmt.Errorf("unsupported CSR write 0x%03x", instr.Csr)
	}
	value := instr.Data
	msg := HostMessage{
		Type: MsgType(value >> 16),
		Data: int16(value & 0xFFFF),
	}
	c.mailbox = append(c.mailbox, msg)
	return nil
}

// GetMessage pops the oldest pending host message, if any.
func (c *CsrFile) GetMessage() (HostMessage, bool) {
	if len(c.mailbox) == 0 {
		return HostMessage{}, false
	}
	msg := c.mailbox[0]
	c.mailbox = c.mailbox[1:]
	return msg, true
}
