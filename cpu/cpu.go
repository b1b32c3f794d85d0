/*
 * rv32sim - fetch/execute/memory pipeline state machine.
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

// MemoryPort is the interface the cache subsystem presents to Cpu. It is
// implemented by cache.CachedMem; declaring it here (rather than having
// cpu import cache) keeps cache the one side of the dependency.
type MemoryPort interface {
	// Busy reports whether a request is still outstanding; the Cpu may
	// not issue a new request or consume a response while true.
	Busy() bool

	// RequestFetch issues (or silently dedups, for code) a request for
	// the instruction word at addr.
	RequestFetch(addr Word)

	// ResponseFetch returns the fetched word once the request completes.
	// cycle is the current CSR cycle count, used for LRU bookkeeping.
	ResponseFetch(cycle uint64) (Word, bool, error)

	// RequestData issues a load/store request for instr.Addr. A no-op
	// for instruction types that do not access data memory.
	RequestData(instr *Instruction)

	// ResponseData completes a pending load/store, filling instr.Data
	// for loads. Returns false while the request is still outstanding.
	// Always true for instruction types with no data access.
	ResponseData(instr *Instruction, cycle uint64) (bool, error)

	// Clock decrements the shared wait-cycle counter.
	Clock()
}

// Cpu drives one instruction at a time through fetch, decode, execute
// and commit, yielding to outstanding memory latency between ticks.
type Cpu struct {
	IP           Word
	waitingInstr *Instruction
	pendingIP    Word
	mem          MemoryPort
	decoder      Decoder
	executor     Executor
	regs         RegisterFile
	csr          CsrFile

	retiredInstr *Instruction
	retiredIP    Word
}

// NewCpu wires a Cpu to the memory port it will drive fetch/load/store
// requests against.
func NewCpu(mem MemoryPort) *Cpu {
	return &Cpu{mem: mem}
}

// Reset clears the CSR file and sets the instruction pointer to entryIP.
func (c *Cpu) Reset(entryIP Word) {
	c.csr.Reset()
	c.regs.Reset()
	c.IP = entryIP
	c.waitingInstr = nil
}

// Csr exposes the CSR file so the host loop can drain mailbox messages.
func (c *Cpu) Csr() *CsrFile {
	return &c.csr
}

// Registers exposes the register file, chiefly for the monitor and tests.
func (c *Cpu) Registers() *RegisterFile {
	return &c.regs
}

// LastRetired returns the instruction committed by the most recent Clock
// call, and the IP it was fetched from, for --trace logging. ok is false
// on ticks where nothing retired (a stall, or a tick spent waiting on
// memory).
func (c *Cpu) LastRetired() (instr *Instruction, ip Word, ok bool) {
	return c.retiredInstr, c.retiredIP, c.retiredInstr != nil
}

// Clock advances the pipeline by exactly one tick, per the ordering:
// CSR cycle bump, then fetch/decode/execute/memory, then (inside mem)
// the wait-cycle decrement happens via the caller's own Clock() call on
// the cache. Returns a Fault if the tick hit an unrecoverable condition.
func (c *Cpu) Clock(cycle uint64) error {
	c.csr.Clock()
	c.retiredInstr = nil

	if c.mem.Busy() {
		return nil
	}

	var instr *Instruction
	var ip Word

	if c.waitingInstr == nil {
		c.mem.RequestFetch(c.IP)
		word, ok, err := c.mem.ResponseFetch(cycle)
		if err != nil {
			return &Fault{IP: c.IP, Message: err.Error()}
		}
		if !ok {
			return nil
		}

		ip = c.IP
		decoded, err := c.decoder.Decode(word, ip)
		if err != nil {
			return err
		}
		instr = decoded

		c.regs.Read(instr)
		if instr.HasCsr && instr.Type == ICsrr {
			if err := c.csr.Read(instr); err != nil {
				return &Fault{IP: ip, Message: err.Error()}
			}
		}
		c.executor.Execute(instr, ip)

		c.mem.RequestData(instr)
		ready, err := c.mem.ResponseData(instr, cycle)
		if err != nil {
			return &Fault{IP: ip, Message: err.Error()}
		}
		if !ready {
			c.waitingInstr = instr
			c.pendingIP = ip
			return nil
		}
	} else {
		instr = c.waitingInstr
		ip = c.pendingIP
		c.waitingInstr = nil
		ready, err := c.mem.ResponseData(instr, cycle)
		if err != nil {
			return &Fault{IP: ip, Message: err.Error()}
		}
		if !ready {
			// mem.Busy() being false guarantees this completes.
			return &Fault{IP: ip, Message: "memory response not ready after wait_cycles reached zero"}
		}
	}

	c.regs.Write(instr)
	if instr.Type == ICsrw {
		if err := c.csr.Write(instr); err != nil {
			return &Fault{IP: ip, Message: err.Error()}
		}
	}
	c.csr.InstructionExecuted()
	c.IP = instr.NextIP
	c.retiredInstr = instr
	c.retiredIP = ip
	return nil
}
