package cache

import (
	"testing"

	"github.com/rv32sim/rv32sim/cpu"
	"github.com/rv32sim/rv32sim/memory"
)

const testCycleBudget = 10000

func driveData(t *testing.T, cm *CachedMem, instr *cpu.Instruction, cycle *uint64) {
	t.Helper()
	cm.RequestData(instr)
	for i := 0; i < testCycleBudget; i++ {
		*cycle++
		ok, err := cm.ResponseData(instr, *cycle)
		if err != nil {
			t.Fatalf("ResponseData: %v", err)
		}
		if ok {
			return
		}
		cm.Clock()
	}
	t.Fatal("data access never completed")
}

func driveFetch(t *testing.T, cm *CachedMem, addr cpu.Word, cycle *uint64) cpu.Word {
	t.Helper()
	cm.RequestFetch(addr)
	for i := 0; i < testCycleBudget; i++ {
		*cycle++
		word, ok, err := cm.ResponseFetch(*cycle)
		if err != nil {
			t.Fatalf("ResponseFetch: %v", err)
		}
		if ok {
			return word
		}
		cm.Clock()
	}
	t.Fatal("fetch never completed")
	return 0
}

func TestCacheMissWritebackRefill(t *testing.T) {
	storage := memory.NewStorage(1 << 16)
	backing := NewUncachedMem(storage, 1)
	cm := NewCachedMem(backing, 1, 1, 3)

	var cycle uint64

	const addrA cpu.Word = 0x0000
	const addrAPlus4 cpu.Word = addrA + 4
	// Any line can hold any address and the victim is the least recently
	// used line, so A's line is only evicted once the data cache is full.
	// addrB is the line address just past the DataLines-1 filler lines.
	const addrB cpu.Word = 0x1000

	// 1. Load address A: miss.
	loadA := &cpu.Instruction{Type: cpu.ILd, Addr: addrA}
	driveData(t, cm, loadA, &cycle)

	// 2. Store to A+4: hit (same cached line).
	const storedValue cpu.Word = 0xCAFEF00D
	storeA4 := &cpu.Instruction{Type: cpu.ISt, Addr: addrAPlus4, Data: storedValue}
	driveData(t, cm, storeA4, &cycle)

	// 3. Fill the other DataLines-1 lines, so the cache is full and A's
	// line is the least recently used one.
	for i := 1; i < DataLines; i++ {
		fill := &cpu.Instruction{Type: cpu.ILd, Addr: cpu.Word(i * lineWords * 4)}
		driveData(t, cm, fill, &cycle)
	}

	// 4. Load from B: a miss in a full cache, evicts A's now-dirty line.
	loadB := &cpu.Instruction{Type: cpu.ILd, Addr: addrB}
	driveData(t, cm, loadB, &cycle)

	// 5. The evicted line must have been written back, so backing
	// storage at A+4 now holds the value stored in step 2.
	got, err := backing.RawRead(addrAPlus4)
	if err != nil {
		t.Fatalf("raw read: %v", err)
	}
	if got != storedValue {
		t.Errorf("backing storage at A+4: got 0x%08x, want 0x%08x", got, storedValue)
	}
}

func TestCacheFetchHitAfterMiss(t *testing.T) {
	storage := memory.NewStorage(1 << 12)
	if err := storage.Write(0x40, 0x12345678); err != nil {
		t.Fatalf("seed: %v", err)
	}
	backing := NewUncachedMem(storage, 1)
	cm := NewCachedMem(backing, 1, 1, 5)

	var cycle uint64
	first := driveFetch(t, cm, 0x40, &cycle)
	if first != 0x12345678 {
		t.Errorf("first fetch: got 0x%x, want 0x12345678", first)
	}

	second := driveFetch(t, cm, 0x44, &cycle)
	want := cpu.Word(0) // untouched word, zero-initialized storage
	if second != want {
		t.Errorf("second fetch (same line, now a hit): got 0x%x, want 0x%x", second, want)
	}
}

func TestFetchElidesReissueOfSameAddress(t *testing.T) {
	storage := memory.NewStorage(1 << 12)
	backing := NewUncachedMem(storage, 1)
	cm := NewCachedMem(backing, 1, 1, 5)

	cm.RequestFetch(0x80)
	if !cm.Busy() {
		t.Fatal("expected a miss to leave the cache busy")
	}
	waitBefore := cm.waitCycles

	// Re-requesting the same address before the miss resolves must not
	// re-arm the wait-cycle counter, or the fetch would never resolve.
	cm.RequestFetch(0x80)
	if cm.waitCycles != waitBefore {
		t.Errorf("wait cycles changed on elided re-request: got %d, want %d", cm.waitCycles, waitBefore)
	}
}
