/*
 * rv32sim - flat word-addressed memory image.
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

// Package memory implements the simulator's flat guest memory image: a
// linear array of words, addressed by byte address, filled either by the
// ELF loader or directly by test fixtures.
package memory

import (
	"fmt"

	"github.com/rv32sim/rv32sim/cpu"
)

// DefaultWords is the default word count for the memory image (1 Mi
// words = 4 MiB of guest address space).
const DefaultWords = 1 << 20

// Storage is the flat memory image. All accesses are word-aligned; there
// is no sub-word addressing.
type Storage struct {
	words []cpu.Word
}

// NewStorage allocates a zeroed image of the given word count.
func NewStorage(wordCount int) *Storage {
	return &Storage{words: make([]cpu.Word, wordCount)}
}

func (s *Storage) index(addr cpu.Word) (int, error) {
	idx := addr >> 2
	if int(idx) >= len(s.words) {
		return 0, fmt.Errorf("memory access out of range: addr=0x%08x (size=%d words)", addr, len(s.words))
	}
	return int(idx), nil
}

// Read returns the word at byte address addr.
func (s *Storage) Read(addr cpu.Word) (cpu.Word, error) {
	idx, err := s.index(addr)
	if err != nil {
		return 0, err
	}
	return s.words[idx], nil
}

// Write stores value at byte address addr.
func (s *Storage) Write(addr cpu.Word, value cpu.Word) error {
	idx, err := s.index(addr)
	if err != nil {
		return err
	}
	s.words[idx] = value
	return nil
}

// Size returns the number of addressable words.
func (s *Storage) Size() int {
	return len(s.words)
}

// LoadBytes copies a raw byte image (as produced by the ELF loader) into
// the memory starting at byte address base, four little-endian bytes per
// word; a trailing partial word is not copied.
func (s *Storage) LoadBytes(base cpu.Word, data []byte) error {
	for off := 0; off+4 <= len(data); off += 4 {
		word := cpu.Word(data[off]) | cpu.Word(data[off+1])<<8 |
			cpu.Word(data[off+2])<<16 | cpu.Word(data[off+3])<<24
		if err := s.Write(base+cpu.Word(off), word); err != nil {
			return err
		}
	}
	return nil
}
