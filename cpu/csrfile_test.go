package cpu

import "testing"

func TestCsrFileReadMCycle(t *testing.T) {
	var csr CsrFile
	csr.Clock()
	csr.Clock()
	csr.Clock()
	instr := &Instruction{HasCsr: true, Csr: CsrMCycle}
	if err := csr.Read(instr); err != nil {
		t.Fatalf("read mcycle: %v", err)
	}
	if instr.CsrVal != 3 {
		t.Errorf("mcycle: got %d, want 3", instr.CsrVal)
	}
}

func TestCsrFileReadUnsupportedErrors(t *testing.T) {
	var csr CsrFile
	instr := &Instruction{HasCsr: true, Csr: 0xFFF}
	if err := csr.Read(instr); err == nil {
		t.Fatal("expected an error reading an unsupported CSR")
	}
}

func TestCsrFileWriteQueuesHostMessage(t *testing.T) {
	var csr CsrFile
	instr := &Instruction{Type: ICsrw, HasCsr: true, Csr: CsrMToHost, Data: Word(MsgPrintChar)<<16 | 'A'}
	if err := csr.Write(instr); err != nil {
		t.Fatalf("write mtohost: %v", err)
	}
	msg, ok := csr.GetMessage()
	if !ok {
		t.Fatal("expected a queued message")
	}
	if msg.Type != MsgPrintChar || msg.Data != 'A' {
		t.Errorf("got type=%v data=%d, want PrintChar/'A'", msg.Type, msg.Data)
	}
	if _, ok := csr.GetMessage(); ok {
		t.Error("expected mailbox to be empty after one GetMessage")
	}
}

func TestCsrFileWriteOtherCsrErrors(t *testing.T) {
	var csr CsrFile
	instr := &Instruction{Type: ICsrw, HasCsr: true, Csr: CsrMCycle, Data: 1}
	if err := csr.Write(instr); err == nil {
		t.Fatal("expected an error writing a read-only CSR")
	}
}

func TestCsrFileResetClearsMailboxAndCounters(t *testing.T) {
	var csr CsrFile
	csr.Clock()
	csr.Write(&Instruction{Type: ICsrw, HasCsr: true, Csr: CsrMToHost, Data: Word(MsgExitCode) << 16})
	csr.Reset()

	if _, ok := csr.GetMessage(); ok {
		t.Error("expected mailbox empty after reset")
	}
	instr := &Instruction{HasCsr: true, Csr: CsrMCycle}
	csr.Read(instr)
	if instr.CsrVal != 0 {
		t.Errorf("mcycle after reset: got %d, want 0", instr.CsrVal)
	}
}
