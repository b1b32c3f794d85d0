/*
 * rv32sim - fixed-latency backing store.
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

// Package cache implements the two-level memory hierarchy: a fixed
// latency backing store (UncachedMem) and the code/data caches layered
// over it (CachedMem), where any line can hold any address and the least
// recently used line is replaced.
package cache

import (
	"github.com/rv32sim/rv32sim/cpu"
	"github.com/rv32sim/rv32sim/memory"
)

// UncachedMem wraps a flat memory.Storage with a single-outstanding-
// request latency model. A request for the same address as the previous
// request is a no-op, whether or not that request has completed;
// everything else pays lMain cycles.
type UncachedMem struct {
	storage       *memory.Storage
	lMain         int
	requestedAddr cpu.Word
	haveRequest   bool
	waitCycles    int
}

// NewUncachedMem wraps storage with the given main-memory latency.
func NewUncachedMem(storage *memory.Storage, lMain int) *UncachedMem {
	return &UncachedMem{storage: storage, lMain: lMain}
}

// Request starts (or continues) a fetch for addr.
func (u *UncachedMem) Request(addr cpu.Word) {
	if u.haveRequest && addr == u.requestedAddr {
		return
	}
	u.requestedAddr = addr
	u.haveRequest = true
	u.waitCycles = u.lMain
}

// Response returns the requested word once the latency has elapsed.
func (u *UncachedMem) Response() (cpu.Word, bool, error) {
	if u.waitCycles > 0 {
		return 0, false, nil
	}
	word, err := u.storage.Read(u.requestedAddr)
	if err != nil {
		return 0, false, err
	}
	return word, true, nil
}

// RawRead bypasses the latency counter; used by CachedMem for line fills.
func (u *UncachedMem) RawRead(addr cpu.Word) (cpu.Word, error) {
	return u.storage.Read(addr)
}

// RawWrite bypasses the latency counter; used by CachedMem for
// write-back and store-through.
func (u *UncachedMem) RawWrite(addr cpu.Word, value cpu.Word) error {
	return u.storage.Write(addr, value)
}

// Clock decrements the outstanding-request counter.
func (u *UncachedMem) Clock() {
	if u.waitCycles > 0 {
		u.waitCycles--
	}
}

// Busy reports whether a request is still in flight.
func (u *UncachedMem) Busy() bool {
	return u.waitCycles > 0
}

// RequestFetch issues a fetch for the instruction word at addr. With
// the data-side methods below this makes UncachedMem a complete
// cpu.MemoryPort, so a machine can run straight against main memory
// with no caches in between.
func (u *UncachedMem) RequestFetch(addr cpu.Word) {
	u.Request(addr)
}

// ResponseFetch returns the fetched word once the latency has elapsed.
// Main memory keeps no usage bookkeeping, so cycle is ignored.
func (u *UncachedMem) ResponseFetch(_ uint64) (cpu.Word, bool, error) {
	return u.Response()
}

// RequestData issues a load/store request for instr.Addr. A no-op for
// instruction types that do not access data memory.
func (u *UncachedMem) RequestData(instr *cpu.Instruction) {
	if instr.Type == cpu.ILd || instr.Type == cpu.ISt {
		u.Request(instr.Addr)
	}
}

// ResponseData completes a pending load/store once the latency has
// elapsed: a load fills instr.Data, a store writes instr.Data through
// to storage. Always true for non-memory instruction types.
func (u *UncachedMem) ResponseData(instr *cpu.Instruction, _ uint64) (bool, error) {
	switch instr.Type {
	case cpu.ILd:
		word, ok, err := u.Response()
		if err != nil || !ok {
			return ok, err
		}
		instr.Data = word
		return true, nil
	case cpu.ISt:
		if u.waitCycles > 0 {
			return false, nil
		}
		if err := u.storage.Write(instr.Addr, instr.Data); err != nil {
			return false, err
		}
		return true, nil
	}
	return true, nil
}
