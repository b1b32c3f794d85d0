package hostio

import (
	"bytes"
	"testing"

	"github.com/rv32sim/rv32sim/cpu"
)

func TestDrainPrintChar(t *testing.T) {
	var buf bytes.Buffer
	var latch IntLatch
	Drain(cpu.HostMessage{Type: cpu.MsgPrintChar, Data: 'X'}, &buf, &latch)
	if buf.String() != "X" {
		t.Errorf("got %q, want %q", buf.String(), "X")
	}
}

func TestDrainPrintIntSequencing(t *testing.T) {
	var buf bytes.Buffer
	var latch IntLatch
	// 0x0002BEEF: the guest posts the low half first, then the high
	// half completes the value and triggers the print.
	low := uint16(0xBEEF)
	high := uint16(0x0002)
	Drain(cpu.HostMessage{Type: cpu.MsgPrintIntLow, Data: int16(low)}, &buf, &latch)
	Drain(cpu.HostMessage{Type: cpu.MsgPrintIntHigh, Data: int16(high)}, &buf, &latch)
	if buf.String() != "179951" {
		t.Errorf("got %q, want %q", buf.String(), "179951")
	}
}

func TestDrainExitCodeZeroPrintsPassed(t *testing.T) {
	var buf bytes.Buffer
	var latch IntLatch
	code, done := Drain(cpu.HostMessage{Type: cpu.MsgExitCode, Data: 0}, &buf, &latch)
	if !done || code != 0 {
		t.Fatalf("got code=%d done=%v, want 0/true", code, done)
	}
	if buf.String() != "PASSED\n" {
		t.Errorf("got %q, want %q", buf.String(), "PASSED\n")
	}
}

func TestDrainExitCodeNonzeroPrintsFailed(t *testing.T) {
	var buf bytes.Buffer
	var latch IntLatch
	code, done := Drain(cpu.HostMessage{Type: cpu.MsgExitCode, Data: 7}, &buf, &latch)
	if !done || code != 7 {
		t.Fatalf("got code=%d done=%v, want 7/true", code, done)
	}
	if buf.String() != "FAILED: exit code = 7\n" {
		t.Errorf("got %q, want %q", buf.String(), "FAILED: exit code = 7\n")
	}
}
