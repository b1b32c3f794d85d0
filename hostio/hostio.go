/*
 * rv32sim - host side of the CPU-to-host communication channel.
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

// Package hostio drains cpu.HostMessage mailbox entries to an io.Writer:
// characters and integers are printed as they arrive, an ExitCode entry
// ends the run.
package hostio

import (
	"fmt"
	"io"

	"github.com/rv32sim/rv32sim/cpu"
)

// IntLatch holds the low half of a pending PrintIntHigh/PrintIntLow
// pair across two consecutive mailbox messages.
type IntLatch struct {
	low   int32
	valid bool
}

// Drain applies one mailbox message to w. It returns (exitCode, true)
// when msg is an ExitCode message; otherwise done is false and exitCode
// is meaningless.
func Drain(msg cpu.HostMessage, w io.Writer, latch *IntLatch) (exitCode int, done bool) {
	switch msg.Type {
	case cpu.MsgExitCode:
		code := int(msg.Data)
		if code == 0 {
			fmt.Fprintln(w, "PASSED")
		} else {
			fmt.Fprintf(w, "FAILED: exit code = %d\n", code)
		}
		return code, true

	case cpu.MsgPrintChar:
		w.Write([]byte{byte(msg.Data)})

	case cpu.MsgPrintIntLow:
		latch.low = int32(uint16(msg.Data))
		latch.valid = true

	case cpu.MsgPrintIntHigh:
		var value int32
		if latch.valid {
			value = latch.low | int32(uint16(msg.Data))<<16
		} else {
			value = int32(uint16(msg.Data)) << 16
		}
		latch.valid = false
		fmt.Fprintf(w, "%d", value)
	}
	return 0, false
}
