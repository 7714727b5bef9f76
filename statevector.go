// statevector.go - compact blend/test/combiner state (spec.md §3, §4.6 step 6)
//
// Grounded on VoodooEngine's fbzMode/alphaMode fields plus pipelineDirty
// flag in video_voodoo.go: the teacher already compares a new mode
// register against the previous one before telling the backend to
// rebuild pipeline state. StateVector generalizes that single
// before/after comparison into a de-duplicated table shared by an
// entire render pass.

package gs

// StateVector is the cacheable, comparable portion of draw state: blend
// mode, test mode, combiner mode and dither matrix. Two state vectors
// are equal iff every field matches bit-for-bit (spec.md §3).
type StateVector struct {
	// blend-mode bitfield
	DitherEnable    bool
	AlphaTestMode   AlphaTestMethod
	AlphaTestRef    uint8
	AlphaTestFail   AlphaFailMethod
	DestAlphaTest   bool
	DestAlphaMode   int
	BlendA, BlendB  int
	BlendC, BlendD  int
	BlendFix        uint8
	PerPixelAlpha   bool
	ColorClamp      bool
	FramebufferAlpha bool

	// combiner bitfield
	TextureEnable bool
	TCC           int
	TextureFunc   int
	FogEnable     bool

	// dither matrix (4 packed 16-bit rows)
	DitherMatrix [4]uint16
}

func buildStateVector(rf *RegisterFile) StateVector {
	ctx := rf.activeContext()
	test := TEST(rf.testReg(ctx))
	alpha := ALPHA(rf.alphaReg(ctx))
	prim := rf.effectivePrim()

	return StateVector{
		DitherEnable:     DTHE(rf.DTHE).Enabled(),
		AlphaTestMode:    test.ATST(),
		AlphaTestRef:     test.AREF(),
		AlphaTestFail:    test.AFAIL(),
		DestAlphaTest:    test.DATE(),
		DestAlphaMode:    test.DATM(),
		BlendA:           alpha.A(),
		BlendB:           alpha.B(),
		BlendC:           alpha.C(),
		BlendD:           alpha.D(),
		BlendFix:         alpha.FIX(),
		PerPixelAlpha:    PABE(rf.PABE).Enabled(),
		ColorClamp:       COLCLAMP(rf.COLCLAMP).Enabled(),
		FramebufferAlpha: FBA(rf.fbaReg(ctx)).Enabled(),
		TextureEnable:    prim.TME(),
		TCC:              rf.texReg(ctx).TCC(),
		TextureFunc:      rf.texReg(ctx).TFX(),
		FogEnable:        prim.FGE(),
		DitherMatrix:     rf.ditherMatrix(),
	}
}
