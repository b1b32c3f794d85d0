/*
 * rv32sim - ELF program loader.
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

// Package elfloader copies PT_LOAD segments of an ELF32/ELF64 RV32I
// binary into a memory.Storage image, using debug/elf for the parsing.
package elfloader

import (
	"debug/elf"
	"fmt"
	"io"

	"github.com/rv32sim/rv32sim/cpu"
	"github.com/rv32sim/rv32sim/memory"
)

// DefaultEntry is the fallback instruction pointer used when the ELF's
// own entry point is zero and no override was configured.
const DefaultEntry cpu.Word = 0x200

// Load reads path and fills storage from every loadable segment,
// returning the entry point to reset the Cpu to. An explicit
// entryOverride (nonzero) wins over both the ELF header and
// DefaultEntry.
func Load(path string, storage *memory.Storage, entryOverride cpu.Word) (cpu.Word, error) {
	f, err := elf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("elfloader: open %s: %w", path, err)
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS32 && f.Class != elf.ELFCLASS64 {
		return 0, fmt.Errorf("elfloader: unsupported ELF class %v", f.Class)
	}

	loaded := 0
	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD || prog.Memsz == 0 {
			continue
		}
		if err := loadSegment(storage, prog); err != nil {
			return 0, err
		}
		loaded++
	}
	if loaded == 0 {
		return 0, fmt.Errorf("elfloader: %s has no PT_LOAD segments", path)
	}

	entry := entryOverride
	if entry == 0 {
		entry = cpu.Word(f.Entry)
	}
	if entry == 0 {
		entry = DefaultEntry
	}
	return entry, nil
}

func loadSegment(storage *memory.Storage, prog *elf.Prog) error {
	base := cpu.Word(prog.Paddr)
	if uint64(base)+prog.Memsz > uint64(storage.Size())*4 {
		return fmt.Errorf("elfloader: segment at 0x%08x (size %d) overflows memory image", base, prog.Memsz)
	}

	data := make([]byte, prog.Filesz)
	if _, err := io.ReadFull(prog.Open(), data); err != nil {
		return fmt.Errorf("elfloader: reading segment at 0x%08x: %w", base, err)
	}
	if prog.Memsz > prog.Filesz {
		data = append(data, make([]byte, prog.Memsz-prog.Filesz)...)
	}
	// Memory is word-addressed; pad so a segment whose size is not a
	// word multiple does not lose its trailing bytes.
	if rem := len(data) % 4; rem != 0 {
		data = append(data, make([]byte, 4-rem)...)
	}

	return storage.LoadBytes(base, data)
}
