/*
 * rv32sim - Configuration file parser
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

// Package config loads the tunable simulation constants (cache/memory
// latencies, memory size, entry point override) from an optional file,
// layered under CLI flag overrides.
//
// File format:
//
//	'#' indicates comment, rest of line is ignored.
//	<line> := <key> <whitespace> <value>
//	<key>  := 'lmain' | 'lhitcode' | 'lhitdata' | 'lmiss' |
//	          'memwords' | 'entry' | 'logfile' | 'trace' | 'nocache'
//	<value> := <number> | <string>
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rv32sim/rv32sim/cpu"
)

// Tuning carries every constant the cache/memory subsystem and the
// loader need, overridable by a config file and then by CLI flags.
type Tuning struct {
	LMain    int
	LHitCode int
	LHitData int
	LMiss    int
	MemWords int
	Entry    cpu.Word
	LogFile  string
	Trace    bool
	NoCache  bool
}

// DefaultTuning returns the stock latencies: LMain models a ~120 cycle
// main-memory round trip, LMiss folds in the write-back on top of it.
func DefaultTuning() Tuning {
	return Tuning{
		LMain:    120,
		LHitCode: 1,
		LHitData: 3,
		LMiss:    152,
		MemWords: 1 << 20,
	}
}

var keyHandlers = map[string]func(*Tuning, string, int) error{
	"lmain":    func(t *Tuning, v string, ln int) error { return setInt(&t.LMain, v, ln) },
	"lhitcode": func(t *Tuning, v string, ln int) error { return setInt(&t.LHitCode, v, ln) },
	"lhitdata": func(t *Tuning, v string, ln int) error { return setInt(&t.LHitData, v, ln) },
	"lmiss":    func(t *Tuning, v string, ln int) error { return setInt(&t.LMiss, v, ln) },
	"memwords": func(t *Tuning, v string, ln int) error { return setInt(&t.MemWords, v, ln) },
	"entry": func(t *Tuning, v string, ln int) error {
		n, err := strconv.ParseUint(strings.TrimPrefix(v, "0x"), 16, 32)
		if err != nil {
			return fmt.Errorf("line %d: bad entry address %q: %w", ln, v, err)
		}
		t.Entry = cpu.Word(n)
		return nil
	},
	"logfile": func(t *Tuning, v string, ln int) error { t.LogFile = v; return nil },
	"trace": func(t *Tuning, v string, ln int) error {
		t.Trace = parseBool(v)
		return nil
	},
	"nocache": func(t *Tuning, v string, ln int) error {
		t.NoCache = parseBool(v)
		return nil
	},
}

func parseBool(v string) bool {
	return v == "1" || v == "true" || v == "on"
}

func setInt(dst *int, v string, lineNumber int) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("line %d: not a number: %q", lineNumber, v)
	}
	*dst = n
	return nil
}

// LoadFile parses path, applying recognized keys onto t. Unknown keys
// are a parse error.
func LoadFile(path string, t *Tuning) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sep := strings.IndexAny(line, " \t")
		if sep < 0 {
			return fmt.Errorf("config: line %d: expected \"key value\", got %q", lineNumber, line)
		}
		key := strings.ToLower(line[:sep])
		value := strings.TrimSpace(line[sep+1:])

		handler, ok := keyHandlers[key]
		if !ok {
			return fmt.Errorf("config: line %d: unknown key %q", lineNumber, key)
		}
		if err := handler(t, value, lineNumber); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return scanner.Err()
}
