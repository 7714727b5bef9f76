package gs

import "testing"

func TestPaletteRingLookupMissThenHitAfterInsert(t *testing.T) {
	var ring PaletteRing
	if _, ok := ring.lookup(7); ok {
		t.Fatal("empty ring should miss any lookup")
	}
	inst := NewPaletteInstance(42)
	ring.insert(7, inst)
	got, ok := ring.lookup(7)
	if !ok || got.ID() != 42 {
		t.Fatalf("lookup(7) = (%v, %v), want (42, true)", got, ok)
	}
}

func TestPaletteRingEvictsOldestAfterCapacity(t *testing.T) {
	var ring PaletteRing
	for i := 0; i < paletteRingCapacity; i++ {
		ring.insert(uint64(i), NewPaletteInstance(uint64(i)))
	}
	// one more insert should evict key 0, the oldest entry.
	ring.insert(uint64(paletteRingCapacity), NewPaletteInstance(999))
	if _, ok := ring.lookup(0); ok {
		t.Fatal("expected the oldest entry to be evicted once the ring wrapped")
	}
	if _, ok := ring.lookup(uint64(paletteRingCapacity)); !ok {
		t.Fatal("expected the newly inserted entry to be present")
	}
}

func TestPaletteRingResetClearsEntries(t *testing.T) {
	var ring PaletteRing
	ring.insert(1, NewPaletteInstance(1))
	ring.reset()
	if _, ok := ring.lookup(1); ok {
		t.Fatal("reset() should drop every ring entry")
	}
}

func TestPaletteKeyDistinguishesCSAAndCBP(t *testing.T) {
	a := TEX0(100<<37 | 1<<56) // CBP=100, CSA=1
	b := TEX0(100<<37 | 2<<56) // CBP=100, CSA=2
	c := TEX0(200<<37 | 1<<56) // CBP=200, CSA=1
	if paletteKey(a) == paletteKey(b) {
		t.Fatal("paletteKey must distinguish different CSA banks")
	}
	if paletteKey(a) == paletteKey(c) {
		t.Fatal("paletteKey must distinguish different CBP pointers")
	}
}

func TestClutBankSizeByColorMode(t *testing.T) {
	if clutBankSize(PSMCT32) != 256*4 {
		t.Errorf("PSMCT32 CLUT size = %d, want %d", clutBankSize(PSMCT32), 256*4)
	}
	if clutBankSize(PSMCT16) != 256*2 {
		t.Errorf("PSMCT16 CLUT size = %d, want %d", clutBankSize(PSMCT16), 256*2)
	}
}

func TestCSAMaskFullBankFor8Bit(t *testing.T) {
	tex0 := TEX0(uint64(PSMT8) << 20)
	if m := csaMask(tex0); m != 0xFFFF {
		t.Errorf("csaMask for PSMT8 = %#x, want 0xFFFF", m)
	}
}

func TestCSAMaskHalfBankFor4Bit(t *testing.T) {
	// CPSM=PSMCT16 (not PSMCT32): a single CSA half-bank, not doubled.
	tex0 := TEX0(uint64(PSMT4)<<20 | 3<<56 | uint64(PSMCT16)<<51)
	if m := csaMask(tex0); m != 1<<3 {
		t.Errorf("csaMask for PSMT4 CSA=3 = %#x, want %#x", m, uint32(1<<3))
	}
}

func TestCSAMaskDoublesForCPSM32(t *testing.T) {
	tex0 := TEX0(uint64(PSMT4)<<20 | 3<<56 | uint64(PSMCT32)<<51)
	if m := csaMask(tex0); m != (1<<3 | 1<<4) {
		t.Errorf("csaMask for 32-bit palette CSA=3 = %#x, want %#x", m, uint32(1<<3|1<<4))
	}
}

// Invariant 3 (spec.md §8): writing the same TEX0+CSA repeatedly must
// not trigger repeated backend palette uploads.
func TestHandleTEX0WriteMemoizesIdenticalPalette(t *testing.T) {
	tl, be := newTestTranslator()

	tex0 := uint64(PSMT8)<<20 | 1<<61 // CLD=1, PSMT8, CSA=0, CBP=0
	tl.WriteRegister(RegTEX0_1, tex0)
	tl.WriteRegister(RegTEX0_1, tex0)
	tl.WriteRegister(RegTEX0_1, tex0)

	if be.paletteUploads != 1 {
		t.Fatalf("paletteUploads = %d, want exactly 1 after three identical TEX0 writes", be.paletteUploads)
	}
}

func TestHandleTEX0WriteCLDZeroNeverUploads(t *testing.T) {
	tl, be := newTestTranslator()
	tex0 := uint64(PSMT8) << 20 // CLD=0
	tl.WriteRegister(RegTEX0_1, tex0)
	if be.paletteUploads != 0 {
		t.Fatalf("CLD=0 must never trigger a palette upload, got %d", be.paletteUploads)
	}
}

func TestHandleTEX0WriteDifferentBankUploadsAgain(t *testing.T) {
	tl, be := newTestTranslator()
	tl.WriteRegister(RegTEX0_1, uint64(PSMT8)<<20|1<<61|uint64(10)<<37)
	tl.WriteRegister(RegTEX0_1, uint64(PSMT8)<<20|1<<61|uint64(20)<<37)
	if be.paletteUploads != 2 {
		t.Fatalf("paletteUploads = %d, want 2 for two distinct CLUT banks", be.paletteUploads)
	}
}
