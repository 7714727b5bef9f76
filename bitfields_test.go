package gs

import "testing"

func TestPRIMFields(t *testing.T) {
	// PrimitiveType=Sprite(6), TME=1, ABE=1, CTXT=1
	v := uint64(PrimSprite) | 1<<4 | 1<<6 | 1<<9
	p := PRIM(v)
	if p.PrimitiveType() != PrimSprite {
		t.Errorf("PrimitiveType() = %v, want PrimSprite", p.PrimitiveType())
	}
	if !p.TME() {
		t.Error("TME() = false, want true")
	}
	if !p.ABE() {
		t.Error("ABE() = false, want true")
	}
	if p.CTXT() != 1 {
		t.Errorf("CTXT() = %d, want 1", p.CTXT())
	}
}

func TestTEX0Fields(t *testing.T) {
	var v uint64
	v |= 5 << 0          // TBP0
	v |= 3 << 14         // TBW
	v |= uint64(PSMT8) << 20 // PSM
	v |= 4 << 26         // TW log2 -> 16
	v |= 5 << 30         // TH log2 -> 32
	v |= 100 << 37       // CBP
	v |= uint64(PSMCT32) << 51 // CPSM
	v |= 2 << 56         // CSA
	v |= 1 << 61         // CLD

	tex0 := TEX0(v)
	if tex0.TBP0() != 5 {
		t.Errorf("TBP0() = %d, want 5", tex0.TBP0())
	}
	if tex0.TBW() != 3 {
		t.Errorf("TBW() = %d, want 3", tex0.TBW())
	}
	if tex0.PSM() != PSMT8 {
		t.Errorf("PSM() = %#x, want PSMT8", tex0.PSM())
	}
	if tex0.TW() != 16 {
		t.Errorf("TW() = %d, want 16", tex0.TW())
	}
	if tex0.TH() != 32 {
		t.Errorf("TH() = %d, want 32", tex0.TH())
	}
	if tex0.CBP() != 100 {
		t.Errorf("CBP() = %d, want 100", tex0.CBP())
	}
	if tex0.CSA() != 2 {
		t.Errorf("CSA() = %d, want 2", tex0.CSA())
	}
	if tex0.CLD() != 1 {
		t.Errorf("CLD() = %d, want 1", tex0.CLD())
	}
}

func TestTEX0MaskedCacheKeyNormalizesCLDAndCSA(t *testing.T) {
	base := uint64(7) // TBP0=7
	a := TEX0(base | 1<<56 | 2<<61)  // CSA=1, CLD=2
	b := TEX0(base | 9<<56 | 5<<61) // different CSA/CLD, same everything else
	if a.maskedCacheKey() != b.maskedCacheKey() {
		t.Error("maskedCacheKey must normalize away CSA and CLD (upload-only fields)")
	}
}

func TestCLAMPNormalizedCacheKeyIgnoresRegionWhenInactive(t *testing.T) {
	// WMS=WMT=0 (repeat/clamp, not region) with different region fields.
	a := CLAMP(0 | 123<<4)
	b := CLAMP(0 | 999<<4)
	if a.normalizedCacheKey() != b.normalizedCacheKey() {
		t.Error("region fields must be normalized away when region clamp mode is inactive")
	}

	// WMS=2 (region clamp): region fields now matter.
	ra := CLAMP(2 | 123<<4)
	rb := CLAMP(2 | 999<<4)
	if ra.normalizedCacheKey() == rb.normalizedCacheKey() {
		t.Error("region fields must participate in the cache key when region clamp mode is active")
	}
}

func TestSCISSOREmpty(t *testing.T) {
	// SCAX1 < SCAX0
	s := SCISSOR(5<<16 | 10)
	if !s.Empty() {
		t.Error("SCISSOR with SCAX1 < SCAX0 should be Empty")
	}
	valid := SCISSOR(0 | 100<<16)
	if valid.Empty() {
		t.Error("valid non-degenerate scissor should not be Empty")
	}
}

func TestXYZFields(t *testing.T) {
	v := uint64(100) | uint64(200)<<16 | uint64(0xABCD)<<32
	xyz := XYZ(v)
	if xyz.X() != 100 || xyz.Y() != 200 {
		t.Errorf("XYZ X/Y = (%d,%d), want (100,200)", xyz.X(), xyz.Y())
	}
	if xyz.Z() != 0xABCD {
		t.Errorf("XYZ Z = %#x, want 0xABCD", xyz.Z())
	}
}

func TestSignExtend(t *testing.T) {
	// 12-bit value 0xFFF (-1 in 12-bit two's complement)
	if got := signExtend(0xFFF, 12); got != -1 {
		t.Errorf("signExtend(0xFFF, 12) = %d, want -1", got)
	}
	if got := signExtend(0x001, 12); got != 1 {
		t.Errorf("signExtend(0x001, 12) = %d, want 1", got)
	}
}
