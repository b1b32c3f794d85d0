package elfloader

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/rv32sim/rv32sim/memory"
)

// buildELF32 hand-assembles a minimal ELF32 RV32I executable with a single
// PT_LOAD segment, since no toolchain is available to produce a real one.
func buildELF32(t *testing.T, vaddr, entry uint32, payload []byte) string {
	t.Helper()

	const ehsize = 52
	const phentsize = 32

	var buf bytes.Buffer

	ident := [16]byte{0x7f, 'E', 'L', 'F', 1 /* ELFCLASS32 */, 1 /* ELFDATA2LSB */, 1 /* EV_CURRENT */, 0}
	buf.Write(ident[:])
	binary.Write(&buf, binary.LittleEndian, uint16(2))   // e_type = ET_EXEC
	binary.Write(&buf, binary.LittleEndian, uint16(243)) // e_machine = EM_RISCV
	binary.Write(&buf, binary.LittleEndian, uint32(1))   // e_version
	binary.Write(&buf, binary.LittleEndian, entry)       // e_entry
	binary.Write(&buf, binary.LittleEndian, uint32(ehsize)) // e_phoff
	binary.Write(&buf, binary.LittleEndian, uint32(0))   // e_shoff
	binary.Write(&buf, binary.LittleEndian, uint32(0))   // e_flags
	binary.Write(&buf, binary.LittleEndian, uint16(ehsize))
	binary.Write(&buf, binary.LittleEndian, uint16(phentsize))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // e_phnum
	binary.Write(&buf, binary.LittleEndian, uint16(0)) // e_shentsize
	binary.Write(&buf, binary.LittleEndian, uint16(0)) // e_shnum
	binary.Write(&buf, binary.LittleEndian, uint16(0)) // e_shstrndx

	dataOffset := uint32(ehsize + phentsize)
	binary.Write(&buf, binary.LittleEndian, uint32(1)) // p_type = PT_LOAD
	binary.Write(&buf, binary.LittleEndian, dataOffset)
	binary.Write(&buf, binary.LittleEndian, vaddr)
	binary.Write(&buf, binary.LittleEndian, vaddr) // p_paddr
	binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	binary.Write(&buf, binary.LittleEndian, uint32(len(payload)+16)) // p_memsz, larger for zero-fill check
	binary.Write(&buf, binary.LittleEndian, uint32(5))               // p_flags = R+X
	binary.Write(&buf, binary.LittleEndian, uint32(4))               // p_align

	buf.Write(payload)

	path := filepath.Join(t.TempDir(), "program.elf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write elf: %v", err)
	}
	return path
}

func TestLoadCopiesSegmentAndZeroFills(t *testing.T) {
	payload := []byte{0x93, 0x00, 0x50, 0x00} // addi x1, x0, 5
	path := buildELF32(t, 0x1000, 0x1000, payload)

	storage := memory.NewStorage(1 << 12)
	entry, err := Load(path, storage, 0)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if entry != 0x1000 {
		t.Errorf("entry: got 0x%x, want 0x1000", entry)
	}

	word, err := storage.Read(0x1000)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if word != 0x00500093 {
		t.Errorf("loaded word: got 0x%08x, want 0x00500093", word)
	}

	zeroed, err := storage.Read(0x1004)
	if err != nil {
		t.Fatalf("read zero-filled word: %v", err)
	}
	if zeroed != 0 {
		t.Errorf("zero-fill region: got 0x%08x, want 0", zeroed)
	}
}

func TestLoadEntryOverrideWins(t *testing.T) {
	path := buildELF32(t, 0x2000, 0x2000, []byte{0, 0, 0, 0})

	storage := memory.NewStorage(1 << 12)
	entry, err := Load(path, storage, 0x3000)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if entry != 0x3000 {
		t.Errorf("entry: got 0x%x, want 0x3000 (override)", entry)
	}
}

func TestLoadNoLoadableSegmentsErrors(t *testing.T) {
	path := buildELF32(t, 0, 0, nil)
	// Force p_memsz to zero so the loader sees no loadable segments.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	binary.LittleEndian.PutUint32(data[52+20:52+24], 0) // p_memsz offset within Phdr
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	storage := memory.NewStorage(1 << 12)
	if _, err := Load(path, storage, 0); err == nil {
		t.Fatal("expected an error for an ELF with no loadable segments")
	}
}
