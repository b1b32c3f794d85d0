/*
 * rv32sim - interactive monitor.
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

// Package monitor implements an interactive single-step debugger over a
// sim.Machine, built on peterh/liner for line editing and history. The
// monitor drives the machine in-process; with a single hart there is no
// core goroutine to post commands to.
package monitor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/rv32sim/rv32sim/cpu"
	"github.com/rv32sim/rv32sim/disasm"
	"github.com/rv32sim/rv32sim/sim"
	"github.com/rv32sim/rv32sim/util/hex"
)

type cmd struct {
	name    string
	min     int
	process func(m *Monitor, args []string) (quit bool, err error)
}

var cmdList = []cmd{
	{"step", 1, (*Monitor).cmdStep},
	{"run", 1, (*Monitor).cmdRun},
	{"regs", 1, (*Monitor).cmdRegs},
	{"mem", 1, (*Monitor).cmdMem},
	{"break", 1, (*Monitor).cmdBreak},
	{"disas", 1, (*Monitor).cmdDisas},
	{"stats", 2, (*Monitor).cmdStats},
	{"quit", 1, (*Monitor).cmdQuit},
}

// Monitor is the interactive front end for one sim.Machine.
type Monitor struct {
	machine    *sim.Machine
	breakpoint cpu.Word
	hasBreak   bool
}

// New wraps machine for interactive stepping.
func New(machine *sim.Machine) *Monitor {
	return &Monitor{machine: machine}
}

// Run drives the REPL until the user quits or the guest exits.
func (mon *Monitor) Run() error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(partial string) []string {
		return completeCmd(partial)
	})

	for {
		input, err := line.Prompt("rv32sim> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return err
		}
		line.AppendHistory(input)

		quit, err := mon.dispatch(input)
		if err != nil {
			fmt.Println("error: " + err.Error())
			continue
		}
		if quit {
			return nil
		}
	}
}

func completeCmd(partial string) []string {
	var out []string
	for _, c := range cmdList {
		if strings.HasPrefix(c.name, partial) {
			out = append(out, c.name)
		}
	}
	return out
}

func (mon *Monitor) dispatch(input string) (bool, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return false, nil
	}
	verb, args := fields[0], fields[1:]

	var match *cmd
	for i := range cmdList {
		c := &cmdList[i]
		if len(verb) >= c.min && strings.HasPrefix(c.name, verb) {
			if match != nil {
				return false, fmt.Errorf("ambiguous command %q", verb)
			}
			match = c
		}
	}
	if match == nil {
		return false, fmt.Errorf("unknown command %q", verb)
	}
	return match.process(mon, args)
}

func (mon *Monitor) cmdStep(args []string) (bool, error) {
	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("bad step count %q", args[0])
		}
		count = n
	}
	for i := 0; i < count; i++ {
		code, done, err := mon.machine.Step()
		if err != nil {
			return false, err
		}
		if done {
			fmt.Printf("guest exited with code %d\n", code)
			return true, nil
		}
	}
	return false, nil
}

func (mon *Monitor) cmdRun(_ []string) (bool, error) {
	for {
		code, done, err := mon.machine.Step()
		if err != nil {
			return false, err
		}
		if done {
			fmt.Printf("guest exited with code %d\n", code)
			return true, nil
		}
		if mon.hasBreak && mon.machine.Cpu.IP == mon.breakpoint {
			fmt.Printf("breakpoint hit at 0x%08x\n", mon.machine.Cpu.IP)
			return false, nil
		}
	}
}

func (mon *Monitor) cmdRegs(_ []string) (bool, error) {
	regs := mon.machine.Cpu.Registers()
	for i := 0; i < 32; i += 4 {
		fmt.Printf("x%-2d=%08x  x%-2d=%08x  x%-2d=%08x  x%-2d=%08x\n",
			i, regs.Get(i), i+1, regs.Get(i+1), i+2, regs.Get(i+2), i+3, regs.Get(i+3))
	}
	fmt.Printf("ip=%08x\n", mon.machine.Cpu.IP)
	return false, nil
}

func (mon *Monitor) cmdMem(args []string) (bool, error) {
	if len(args) == 0 {
		return false, errors.New("usage: mem <addr> [count]")
	}
	addr, err := parseAddr(args[0])
	if err != nil {
		return false, err
	}
	count := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return false, fmt.Errorf("bad count %q", args[1])
		}
		count = n
	}
	const perLine = 4
	for i := 0; i < count; i += perLine {
		var line strings.Builder
		var words []uint32
		var raw []byte
		a := addr + cpu.Word(i*4)
		fmt.Fprintf(&line, "%08x: ", a)
		for j := i; j < count && j < i+perLine; j++ {
			word, err := mon.machine.Storage.Read(addr + cpu.Word(j*4))
			if err != nil {
				return false, err
			}
			words = append(words, word)
			raw = append(raw, byte(word), byte(word>>8), byte(word>>16), byte(word>>24))
		}
		hex.FormatWord(&line, words)
		line.WriteString(" |")
		hex.FormatBytes(&line, true, raw)
		line.WriteString("|")
		fmt.Println(line.String())
	}
	return false, nil
}

func (mon *Monitor) cmdBreak(args []string) (bool, error) {
	if len(args) == 0 {
		mon.hasBreak = false
		fmt.Println("breakpoint cleared")
		return false, nil
	}
	addr, err := parseAddr(args[0])
	if err != nil {
		return false, err
	}
	mon.breakpoint = addr
	mon.hasBreak = true
	return false, nil
}

func (mon *Monitor) cmdDisas(args []string) (bool, error) {
	addr := mon.machine.Cpu.IP
	if len(args) > 0 {
		a, err := parseAddr(args[0])
		if err != nil {
			return false, err
		}
		addr = a
	}
	count := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return false, fmt.Errorf("bad count %q", args[1])
		}
		count = n
	}

	decoder := cpu.Decoder{}
	for i := 0; i < count; i++ {
		a := addr + cpu.Word(i*4)
		word, err := mon.machine.Storage.Read(a)
		if err != nil {
			return false, err
		}
		var raw strings.Builder
		for shift := 0; shift < 32; shift += 8 {
			hex.FormatByte(&raw, byte(word>>shift))
			raw.WriteByte(' ')
		}

		instr, err := decoder.Decode(word, a)
		if err != nil {
			fmt.Printf("%08x: %s(undecodable: %s)\n", a, raw.String(), err.Error())
			continue
		}
		fmt.Printf("%08x: %s%s\n", a, raw.String(), disasm.Format(instr, a))
	}
	return false, nil
}

func (mon *Monitor) cmdStats(_ []string) (bool, error) {
	cycles, instructions, ipc := mon.machine.Stats()
	fmt.Printf("cycles=%d instructions=%d ipc=%.4f\n", cycles, instructions, ipc)
	return false, nil
}

func (mon *Monitor) cmdQuit(_ []string) (bool, error) {
	return true, nil
}

func parseAddr(s string) (cpu.Word, error) {
	s = strings.TrimPrefix(s, "0x")
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad address %q", s)
	}
	return cpu.Word(n), nil
}
