/*
 * rv32sim - top level machine: wires memory, caches and the Cpu together
 * and drives the per-tick host loop.
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

// Package sim owns the assembled machine (memory, caches, Cpu) and
// drives its tick loop. The loop is a plain synchronous function: the
// CSR mailbox already serializes host communication to at most one
// message per retire, so there is nothing for a second goroutine to do.
package sim

import (
	"context"
	"io"
	"log/slog"

	"github.com/rv32sim/rv32sim/cache"
	"github.com/rv32sim/rv32sim/config"
	"github.com/rv32sim/rv32sim/cpu"
	"github.com/rv32sim/rv32sim/disasm"
	"github.com/rv32sim/rv32sim/hostio"
	"github.com/rv32sim/rv32sim/memory"
)

// Machine assembles the memory hierarchy and Cpu described by a
// config.Tuning, and drains the CSR mailbox to an io.Writer.
type Machine struct {
	Storage *memory.Storage
	Backing *cache.UncachedMem
	Cache   *cache.CachedMem
	Cpu     *cpu.Cpu

	port  cpu.MemoryPort
	cycle uint64
	out   io.Writer
	latch hostio.IntLatch
	trace bool
}

// NewMachine wires a fresh machine from tuning, with host output (print
// char/int/PASSED/FAILED text) directed to out. When tuning.Trace is set,
// every retired instruction is logged via slog using disasm.Format. With
// tuning.NoCache the Cpu runs straight against the backing store, paying
// LMain on every access; Cache is nil in that configuration.
func NewMachine(tuning config.Tuning, out io.Writer) *Machine {
	storage := memory.NewStorage(tuning.MemWords)
	backing := cache.NewUncachedMem(storage, tuning.LMain)
	m := &Machine{
		Storage: storage,
		Backing: backing,
		out:     out,
		trace:   tuning.Trace,
	}
	if tuning.NoCache {
		m.port = backing
	} else {
		m.Cache = cache.NewCachedMem(backing, tuning.LHitCode, tuning.LHitData, tuning.LMiss)
		m.port = m.Cache
	}
	m.Cpu = cpu.NewCpu(m.port)
	return m
}

// Reset resets the Cpu to entryIP and clears the tick counter.
func (m *Machine) Reset(entryIP cpu.Word) {
	m.Cpu.Reset(entryIP)
	m.cycle = 0
	m.latch = hostio.IntLatch{}
}

// Step performs exactly one tick: cpu.Clock() then the memory port's
// Clock(), then drains at most one host message. Returns the exit code
// and true once a host ExitCode message has been drained.
func (m *Machine) Step() (exitCode int, done bool, err error) {
	m.cycle++
	if err := m.Cpu.Clock(m.cycle); err != nil {
		return 0, false, err
	}
	m.port.Clock()

	if m.trace {
		if instr, ip, ok := m.Cpu.LastRetired(); ok {
			slog.Debug(disasm.Format(instr, ip))
		}
	}

	if msg, ok := m.Cpu.Csr().GetMessage(); ok {
		code, exited := hostio.Drain(msg, m.out, &m.latch)
		if exited {
			return code, true, nil
		}
	}
	return 0, false, nil
}

// Stats reports the cycle count, retired instruction count and the
// resulting instructions-per-cycle figure for the run so far.
func (m *Machine) Stats() (cycles, instructions uint64, ipc float64) {
	csr := m.Cpu.Csr()
	cycles = csr.Cycles()
	instructions = csr.Retired()
	if cycles > 0 {
		ipc = float64(instructions) / float64(cycles)
	}
	return cycles, instructions, ipc
}

// Run ticks the machine until a host ExitCode message arrives or ctx is
// canceled.
func (m *Machine) Run(ctx context.Context) (exitCode int, err error) {
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		code, done, err := m.Step()
		if err != nil {
			return 0, err
		}
		if done {
			return code, nil
		}
	}
}
