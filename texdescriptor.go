// texdescriptor.go - cacheable texture identity (spec.md §3, §4.6 step 7)

package gs

// TextureDescriptor is the cacheable portion of texture state: enough
// to decide whether two draws can share one backend texture image.
type TextureDescriptor struct {
	TEX0Key   uint64 // TEX0 with shading-only/upload-only fields normalized
	TEX1Key   uint64 // TEX1 with shading-only fields normalized
	ClampKey  uint64 // CLAMP with region fields normalized when inactive
	MIPTBP    [6]int // base pointers for mip levels 1..6
	TEXA      uint64 // only meaningful for formats without a native alpha channel
	PaletteBank int
	LatestPaletteBank int
	RectX, RectY, RectW, RectH int
	Levels int
}

func buildTextureDescriptor(rf *RegisterFile) TextureDescriptor {
	ctx := rf.activeContext()
	tex0 := rf.texReg(ctx)
	tex1 := rf.tex1Reg(ctx)
	clamp := rf.clampReg(ctx)

	needsTEXA := tex0.PSM() == PSMCT16 || tex0.PSM() == PSMCT16S
	texaKey := uint64(0)
	if needsTEXA {
		texaKey = rf.TEXA
	}

	levels := tex1.MXL() + 1
	var mip [6]int
	for i := 0; i < levels-1 && i < 6; i++ {
		mip[i] = rf.miptbpLevel(ctx, i+1)
	}

	return TextureDescriptor{
		TEX0Key:           tex0.maskedCacheKey(),
		TEX1Key:           tex1.normalizedCacheKey(),
		ClampKey:          clamp.normalizedCacheKey(),
		MIPTBP:            mip,
		TEXA:              texaKey,
		PaletteBank:       rf.currentPaletteBank,
		LatestPaletteBank: rf.latestPaletteBank,
		RectX:             0,
		RectY:             0,
		RectW:             tex0.TW(),
		RectH:             tex0.TH(),
		Levels:            levels,
	}
}

// feedbackSentinelBit marks a texture-index slot as a Pixel-feedback
// sample rather than a real cached-texture table index, per spec.md
// §4.6 step 7 ("emit a sentinel index encoding {feedback bit, palette
// instance × 32 + CSA}").
const feedbackSentinelBit = 1 << 30

func feedbackSentinel(paletteInstance, csa int) int {
	return feedbackSentinelBit | (paletteInstance*32 + csa)
}

func isFeedbackSentinel(texIndex int) bool {
	return texIndex&feedbackSentinelBit != 0
}
