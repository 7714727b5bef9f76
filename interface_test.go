package gs

import "testing"

func primSpriteReg() uint64 { return uint64(PrimSprite) } // TME=0, ABE=0

func writeSprite(tl *Translator, x0, y0, x1, y1 int32) {
	tl.WriteRegister(RegXYZ2, uint64(uint16(x0))|uint64(uint16(y0))<<16)
	tl.WriteRegister(RegXYZ2, uint64(uint16(x1))|uint64(uint16(y1))<<16)
}

// Scenario 1 (spec.md §8): an untextured sprite at subpixel (100,100)-
// (500,500) produces one pass, one primitive, one state vector, no
// textures or palettes, and a pixel-aligned bounding box of (6,6,31,31).
func TestTrivialSpriteProducesOneFlushOneStateVectorNoTextures(t *testing.T) {
	tl, be := newTestTranslator()

	tl.WriteRegister(RegFRAME_1, 10<<16|uint64(PSMCT32)<<24)
	tl.WriteRegister(RegPRIM, primSpriteReg())

	writeSprite(tl, 100, 100, 500, 500)

	if tl.pass == nil || len(tl.pass.primitives) != 1 {
		t.Fatalf("expected exactly one accumulated primitive before flush")
	}

	tl.Flush(FlushReasonSubmission)

	if be.flushCount != 1 {
		t.Fatalf("flushCount = %d, want 1", be.flushCount)
	}
	pass := be.lastPass
	if len(pass.Primitives) != 1 {
		t.Fatalf("len(Primitives) = %d, want 1", len(pass.Primitives))
	}
	if len(pass.States) != 1 {
		t.Fatalf("len(States) = %d, want 1", len(pass.States))
	}
	if len(pass.Textures) != 0 {
		t.Fatalf("len(Textures) = %d, want 0 for an untextured sprite", len(pass.Textures))
	}
	if len(pass.Palettes) != 0 {
		t.Fatalf("len(Palettes) = %d, want 0 for an untextured sprite", len(pass.Palettes))
	}
	want := [4]int32{6, 6, 31, 31}
	if pass.BoundingBox != want {
		t.Fatalf("BoundingBox = %v, want %v", pass.BoundingBox, want)
	}
}

// Scenario 2 (spec.md §8): a quad sampling the very framebuffer page it
// writes, with matching PSM and UVs equal to its XY coordinates,
// classifies as Pixel feedback and carries a sentinel texture index
// instead of a real cached-texture reference.
func TestTexturedQuadAliasingFramebufferClassifiesAsColorFeedback(t *testing.T) {
	tl, be := newTestTranslator()

	tl.WriteRegister(RegFRAME_1, 10<<16|uint64(PSMCT32)<<24)
	tl.WriteRegister(RegTEX0_1, 10<<14|uint64(PSMCT32)<<20)
	tl.WriteRegister(RegPRIM, uint64(PrimSprite)|1<<4|1<<8) // TME=1, FST=1

	tl.WriteRegister(RegUV, uint64(uint16(10*16))|uint64(uint16(10*16))<<16)
	tl.WriteRegister(RegXYZ2, uint64(uint16(10*16))|uint64(uint16(10*16))<<16)
	tl.WriteRegister(RegUV, uint64(uint16(20*16))|uint64(uint16(20*16))<<16)
	tl.WriteRegister(RegXYZ2, uint64(uint16(20*16))|uint64(uint16(20*16))<<16)

	tl.Flush(FlushReasonSubmission)

	if be.flushCount != 1 {
		t.Fatalf("flushCount = %d, want 1", be.flushCount)
	}
	pass := be.lastPass
	if !pass.HasColorFeedback {
		t.Fatal("HasColorFeedback = false, want true for a TBP0==FBP, PSM-matching draw")
	}
	if !pass.IsColorFeedback {
		t.Fatal("IsColorFeedback = false, want true")
	}
	if len(pass.Primitives) != 1 {
		t.Fatalf("len(Primitives) = %d, want 1", len(pass.Primitives))
	}
	if pass.Primitives[0].TextureIndex&feedbackSentinelBit == 0 {
		t.Fatal("feedback draw's TextureIndex should carry the sentinel bit")
	}
}

// Scenario 5 (spec.md §8): emitting MaxPrimitivesPerFlush+1 identical
// sprites must flush exactly once, with reason Overflow, between
// primitive N and N+1.
func TestRenderPassOverflowFlushesExactlyOnce(t *testing.T) {
	const limit = 4
	opts := DefaultOptions()
	opts.MaxRenderPassPrimitives = limit
	tl := NewTranslator(opts)
	be := newFakeBackend()
	tl.AttachBackend(be)

	tl.WriteRegister(RegFRAME_1, 10<<16|uint64(PSMCT32)<<24)
	tl.WriteRegister(RegPRIM, primSpriteReg())

	for i := 0; i < limit+1; i++ {
		writeSprite(tl, 10*16, 10*16, 20*16, 20*16)
	}

	if be.flushCount != 1 {
		t.Fatalf("flushCount = %d, want exactly 1 after limit+1 primitives", be.flushCount)
	}
	if be.flushReasons[0] != FlushReasonOverflow {
		t.Fatalf("flush reason = %v, want FlushReasonOverflow", be.flushReasons[0])
	}
	if len(be.lastPass.Primitives) != limit {
		t.Fatalf("flushed pass held %d primitives, want %d (the (limit+1)th starts a fresh pass)", len(be.lastPass.Primitives), limit)
	}
	if tl.pass == nil || len(tl.pass.primitives) != 1 {
		t.Fatalf("expected the overflowing primitive to start a fresh pass with 1 primitive")
	}
}

// Scenario 3 (spec.md §8): a host-to-local transfer into a page
// immediately followed by a textured draw sampling that page must
// reach the backend's host-copy path before the draw's texture is
// resolved, and the stale cached texture must not survive.
func TestHostTransferThenTexturedDrawInvalidatesStaleCache(t *testing.T) {
	tl, be := newTestTranslator()

	// Bind a texture at TBP0=2 (distinct from FRAME's FBP=0, so the draw
	// below doesn't classify as reading its own render target) and draw
	// once to populate the cache. The 32x32 sprite stays on framebuffer
	// pages 0 and 10, so the draw never writes the texture's page 2.
	tl.WriteRegister(RegFRAME_1, 10<<16|uint64(PSMCT32)<<24)
	tl.WriteRegister(RegTEX0_1, 2|uint64(8)<<14|uint64(PSMCT32)<<20|uint64(4)<<26|uint64(4)<<30)
	tl.WriteRegister(RegPRIM, uint64(PrimSprite)|1<<4) // TME=1
	writeSprite(tl, 0, 0, 32*16, 32*16)

	tl.Flush(FlushReasonSubmission)
	texturesAfterFirstPass := len(be.lastPass.Textures)
	if texturesAfterFirstPass != 1 {
		t.Fatalf("expected exactly one cached texture to be created, got %d", texturesAfterFirstPass)
	}

	// Host transfer overwriting the same texture's source page: TRXDIR
	// HOST->LOCAL to BITBLTBUF.DBP=2 (the texture's page), DPSM=PSMCT32.
	tl.WriteRegister(RegBITBLTBUF, uint64(2)<<32|uint64(8)<<48|uint64(PSMCT32)<<56) // DBP=2, DBW=8, DPSM=PSMCT32
	tl.WriteRegister(RegTRXREG, 8|8<<32)                              // RRW=8, RRH=8
	tl.WriteRegister(RegTRXPOS, 0)
	tl.WriteRegister(RegTRXDIR, uint64(TransferHostToLocal))

	bytesNeeded := transferByteCount(TRXREG(tl.rf.TRXREG), PSMCT32)
	for fed := 0; fed < bytesNeeded; fed += 8 {
		tl.WriteRegister(RegHWREG, 0)
	}

	if be.hostCopyCalls != 1 {
		t.Fatalf("hostCopyCalls = %d, want 1 after the transfer completed", be.hostCopyCalls)
	}

	// Sampling the same texture again must not find the stale cached
	// handle (it was invalidated by the transfer write).
	writeSprite(tl, 0, 0, 32*16, 32*16)
	tl.Flush(FlushReasonSubmission)

	if len(be.lastPass.Textures) != 1 {
		t.Fatalf("expected the re-sampled texture to be rebuilt (not reused) after the transfer, got %d textures", len(be.lastPass.Textures))
	}
	if be.nextTexID < 2 {
		t.Fatalf("expected CreateCachedTexture to be called a second time after invalidation, nextTexID=%d", be.nextTexID)
	}
}

func TestVSyncFlushesOutstandingPassAndInvalidatesSuperSampling(t *testing.T) {
	tl, be := newTestTranslator()
	tl.WriteRegister(RegFRAME_1, 10<<16|uint64(PSMCT32)<<24)
	tl.WriteRegister(RegPRIM, primSpriteReg())
	writeSprite(tl, 10*16, 10*16, 20*16, 20*16)

	if _, err := tl.VSync(VSyncInfo{}); err != nil {
		t.Fatalf("VSync returned error: %v", err)
	}
	if be.flushCount != 1 {
		t.Fatalf("flushCount = %d, want 1 after VSync with an outstanding pass", be.flushCount)
	}
	if tl.pass != nil {
		t.Fatal("VSync should clear the in-flight render pass")
	}
}
