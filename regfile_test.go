package gs

import "testing"

func TestEffectivePrimUsesPRIMWhenACSet(t *testing.T) {
	rf := NewRegisterFile()
	rf.Write(RegPRMODECONT, 1) // AC=1
	rf.Write(RegPRIM, uint64(PrimSprite)|1<<9) // CTXT=1

	if rf.activeContext() != 1 {
		t.Fatalf("activeContext() = %d, want 1 when AC=1 selects PRIM directly", rf.activeContext())
	}
	if rf.effectivePrim().PrimitiveType() != PrimSprite {
		t.Fatalf("PrimitiveType() = %v, want PrimSprite", rf.effectivePrim().PrimitiveType())
	}
}

// Scenario 6 (spec.md §8): with PRMODECONT.AC=0, the active context
// must keep tracking PRMODE's CTXT bit regardless of what CTXT value a
// subsequent PRIM write carries.
func TestPRMODECONTACGatesContextSelection(t *testing.T) {
	rf := NewRegisterFile()
	rf.Write(RegPRMODECONT, 0) // AC=0: PRMODE supplies the active CTXT
	rf.Write(RegPRMODE, 0)     // PRMODE.CTXT = 0

	if rf.activeContext() != 0 {
		t.Fatalf("activeContext() = %d, want 0 before the PRIM write", rf.activeContext())
	}

	rf.Write(RegPRIM, uint64(PrimSprite)|1<<9) // CTXT=1 in the raw PRIM write

	if rf.PRIM&(1<<9) == 0 {
		t.Fatal("the raw PRIM register must still store the CTXT bit that was written")
	}
	if rf.activeContext() != 0 {
		t.Fatalf("activeContext() = %d, want 0: AC=0 must keep sourcing CTXT from PRMODE, not the new PRIM write", rf.activeContext())
	}
}

func TestPRIMWriteMarksExpectedDirtyBits(t *testing.T) {
	rf := NewRegisterFile()
	rf.dirty.getAndClear(DirtyAll)
	rf.Write(RegPRIM, uint64(PrimTriangle))
	if !rf.dirty.getAndClear(DirtyPrimTemplate | DirtyState) {
		t.Fatal("writing PRIM should mark DirtyPrimTemplate and DirtyState")
	}
}

func TestFRAMEWriteMarksDirtyFB(t *testing.T) {
	rf := NewRegisterFile()
	rf.dirty.getAndClear(DirtyAll)
	rf.Write(RegFRAME_1, 10<<16)
	if !rf.dirty.getAndClear(DirtyFB) {
		t.Fatal("writing FRAME should mark DirtyFB")
	}
}

func TestTEX2RewritesOnlyPaletteRelatedFieldsOfTEX0(t *testing.T) {
	rf := NewRegisterFile()
	// TBP0=5, TBW=3, TW log2=4, TH log2=4 - none of these are in
	// tex2MaskBits and must survive a TEX2 write untouched.
	base := uint64(5) | uint64(3)<<14 | uint64(4)<<26 | uint64(4)<<30
	rf.Write(RegTEX0_1, base)

	rf.Write(RegTEX2_1, uint64(PSMT8)<<20|2<<56) // PSM, CSA

	got := TEX0(rf.tex0[0])
	if got.TBP0() != 5 || got.TBW() != 3 {
		t.Fatalf("TEX2 write must not touch TBP0/TBW, got TBP0=%d TBW=%d", got.TBP0(), got.TBW())
	}
	if got.PSM() != PSMT8 {
		t.Fatalf("TEX2 write should update PSM, got %#x", got.PSM())
	}
	if got.CSA() != 2 {
		t.Fatalf("TEX2 write should update CSA, got %d", got.CSA())
	}
}
