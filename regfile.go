// regfile.go - GS register storage, write dispatch and dirty-flag marking
// (spec.md §4.3/§4.4)
//
// Grounded on video_voodoo.go's VoodooEngine register-write switch: one
// case per MMIO offset that stores the value and flips a dirty bit.
// Generalized here into one Write switch over RegAddr covering the GS's
// roughly sixty independent registers (the teacher's switch covered
// under a dozen), several of them duplicated per rendering context.

package gs

// RegisterFile holds every GS privileged/context register plus the
// handful of cross-register derived values (active context, effective
// PRIM) a client needs to build a StateVector or TextureDescriptor.
type RegisterFile struct {
	// global registers
	PRIM       uint64
	PRMODE     uint64
	PRMODECONT uint64
	RGBAQ      uint64
	ST         uint64
	UV         uint64
	FOG        uint64
	FOGCOL     uint64
	DIMX       uint64
	DTHE       uint64
	PABE       uint64
	COLCLAMP   uint64
	TEXA       uint64
	TEXCLUT    uint64
	SCANMSK    uint64
	BITBLTBUF  uint64
	TRXPOS     uint64
	TRXREG     uint64
	TRXDIR     uint64

	// per-context registers (index 0 = CTXT 0, index 1 = CTXT 1)
	tex0     [2]uint64
	tex1     [2]uint64
	clamp    [2]uint64
	test     [2]uint64
	alpha    [2]uint64
	fba      [2]uint64
	scissor  [2]uint64
	frame    [2]uint64
	zbuf     [2]uint64
	xyoffset [2]uint64
	miptbp1  [2]uint64
	miptbp2  [2]uint64

	// palette pipeline state, updated by the CLUT-upload path (palette.go)
	currentPaletteBank int
	latestPaletteBank  int

	dirty dirtyTracker

	// tl receives vertex kicks and HWREG transfer payloads once attached
	// by the owning Translator (interface.go). Writes arriving before
	// attachment (tl == nil) are silently dropped, matching reset state.
	tl *Translator
}

// NewRegisterFile returns a register file with every field zeroed, the
// same reset state the GS presents at power-on.
func NewRegisterFile() *RegisterFile {
	return &RegisterFile{}
}

// activeContext returns which of CTXT 0/CTXT 1's register bank is
// selected by the currently effective PRIM (spec.md §4.3).
func (rf *RegisterFile) activeContext() int {
	return rf.effectivePrim().CTXT()
}

// effectivePrim resolves the PRMODECONT.AC duality (spec.md §4.3,
// "PRIM/PRMODE duality"): AC=1 returns PRIM as written; AC=0 returns
// PRIM with its CTXT bit replaced by PRMODE's. The primitive type and
// the other mode bits (TME, FGE, ABE, ...) come from PRIM in both
// cases; PRMODE's own mode bits are not used.
func (rf *RegisterFile) effectivePrim() PRIM {
	if PRMODECONT(rf.PRMODECONT).AC() {
		return PRIM(rf.PRIM)
	}
	mode := PRMODE(rf.PRMODE)
	// PRMODE carries no primitive-type field, so splice its CTXT bit
	// into a PRIM-shaped value.
	return PRIM(uint64(rf.PRIM)&^(1<<9) | uint64(mode.CTXT())<<9)
}

func (rf *RegisterFile) testReg(ctx int) uint64     { return rf.test[ctx] }
func (rf *RegisterFile) alphaReg(ctx int) uint64     { return rf.alpha[ctx] }
func (rf *RegisterFile) fbaReg(ctx int) uint64       { return rf.fba[ctx] }
func (rf *RegisterFile) texReg(ctx int) TEX0          { return TEX0(rf.tex0[ctx]) }
func (rf *RegisterFile) tex1Reg(ctx int) TEX1         { return TEX1(rf.tex1[ctx]) }
func (rf *RegisterFile) clampReg(ctx int) CLAMP       { return CLAMP(rf.clamp[ctx]) }
func (rf *RegisterFile) frameReg(ctx int) FRAME        { return FRAME(rf.frame[ctx]) }
func (rf *RegisterFile) zbufReg(ctx int) ZBUF          { return ZBUF(rf.zbuf[ctx]) }
func (rf *RegisterFile) scissorReg(ctx int) SCISSOR    { return SCISSOR(rf.scissor[ctx]) }
func (rf *RegisterFile) xyoffsetReg(ctx int) XYOFFSET  { return XYOFFSET(rf.xyoffset[ctx]) }

// miptbpLevel returns the buffer base pointer for mip level 1..6,
// packed 3 levels per MIPTBP1/MIPTBP2 register (spec.md §4.6).
func (rf *RegisterFile) miptbpLevel(ctx, level int) int {
	if level <= 3 {
		return MIPTBP(rf.miptbp1[ctx]).TBP(level - 1)
	}
	return MIPTBP(rf.miptbp2[ctx]).TBP(level - 4)
}

// ditherMatrix decodes DIMX's four packed 16-bit rows into the form
// StateVector compares bit-for-bit.
func (rf *RegisterFile) ditherMatrix() [4]uint16 {
	d := rf.DIMX
	return [4]uint16{
		uint16(bits(d, 0, 16)),
		uint16(bits(d, 16, 16)),
		uint16(bits(d, 32, 16)),
		uint16(bits(d, 48, 16)),
	}
}

// Write dispatches one A+D register write, storing the payload and
// marking the dirty bits the downstream render-pass builder consults
// before the next drawing kick (spec.md §4.4, DIRTY_STATE/DIRTY_TEX/...).
func (rf *RegisterFile) Write(addr RegAddr, value uint64) {
	switch addr {
	case RegPRIM:
		rf.PRIM = value
		rf.dirty.mark(DirtyPrimTemplate | DirtyState)
	case RegRGBAQ:
		rf.RGBAQ = value
	case RegST:
		rf.ST = value
	case RegUV:
		rf.UV = value
	case RegXYZF2:
		rf.vertexKick(XYZF(value).X(), XYZF(value).Y(), uint32(XYZF(value).Z()), XYZF(value).F(), false)
	case RegXYZ2:
		rf.vertexKick(XYZ(value).X(), XYZ(value).Y(), XYZ(value).Z(), 0, false)
	case RegXYZF3:
		rf.vertexKick(XYZF(value).X(), XYZF(value).Y(), uint32(XYZF(value).Z()), XYZF(value).F(), true)
	case RegXYZ3:
		rf.vertexKick(XYZ(value).X(), XYZ(value).Y(), XYZ(value).Z(), 0, true)
	case RegTEX0_1:
		rf.tex0[0] = value
		rf.dirty.mark(DirtyTex)
		if rf.tl != nil {
			rf.tl.handleTEX0Write(0, TEX0(value))
		}
	case RegTEX0_2:
		rf.tex0[1] = value
		rf.dirty.mark(DirtyTex)
		if rf.tl != nil {
			rf.tl.handleTEX0Write(1, TEX0(value))
		}
	case RegCLAMP_1:
		rf.clamp[0] = value
		rf.dirty.mark(DirtyTex)
	case RegCLAMP_2:
		rf.clamp[1] = value
		rf.dirty.mark(DirtyTex)
	case RegFOG:
		rf.FOG = value
	case RegTEX1_1:
		rf.tex1[0] = value
		rf.dirty.mark(DirtyTex)
	case RegTEX1_2:
		rf.tex1[1] = value
		rf.dirty.mark(DirtyTex)
	case RegTEX2_1:
		// TEX2 rewrites only TEX0's PSM/CBP/CPSM/CSM/CSA/CLD fields, leaving
		// TBP0/TBW/TW/TH untouched (GS quirk used by CLUT-swap sequences).
		rf.tex0[0] = (rf.tex0[0] &^ tex2MaskBits) | (value & tex2MaskBits)
		rf.dirty.mark(DirtyTex)
		if rf.tl != nil {
			rf.tl.handleTEX0Write(0, TEX0(rf.tex0[0]))
		}
	case RegTEX2_2:
		rf.tex0[1] = (rf.tex0[1] &^ tex2MaskBits) | (value & tex2MaskBits)
		rf.dirty.mark(DirtyTex)
		if rf.tl != nil {
			rf.tl.handleTEX0Write(1, TEX0(rf.tex0[1]))
		}
	case RegXYOFFSET_1:
		rf.xyoffset[0] = value
	case RegXYOFFSET_2:
		rf.xyoffset[1] = value
	case RegPRMODECONT:
		rf.PRMODECONT = value
		rf.dirty.mark(DirtyState | DirtyPrimTemplate)
	case RegPRMODE:
		rf.PRMODE = value
		rf.dirty.mark(DirtyState | DirtyPrimTemplate)
	case RegTEXCLUT:
		rf.TEXCLUT = value
	case RegSCANMSK:
		rf.SCANMSK = value
	case RegMIPTBP1_1:
		rf.miptbp1[0] = value
		rf.dirty.mark(DirtyTex)
	case RegMIPTBP1_2:
		rf.miptbp1[1] = value
		rf.dirty.mark(DirtyTex)
	case RegMIPTBP2_1:
		rf.miptbp2[0] = value
		rf.dirty.mark(DirtyTex)
	case RegMIPTBP2_2:
		rf.miptbp2[1] = value
		rf.dirty.mark(DirtyTex)
	case RegTEXA:
		rf.TEXA = value
		rf.dirty.mark(DirtyState)
	case RegFOGCOL:
		rf.FOGCOL = value
	case RegTEXFLUSH:
		// no storage: signals the texture cache is coherent with VRAM as
		// of this point (spec.md §4.6's "TEXFLUSH" edge case).
	case RegSCISSOR_1:
		rf.scissor[0] = value
		rf.dirty.mark(DirtyState)
	case RegSCISSOR_2:
		rf.scissor[1] = value
		rf.dirty.mark(DirtyState)
	case RegALPHA_1:
		rf.alpha[0] = value
		rf.dirty.mark(DirtyState)
	case RegALPHA_2:
		rf.alpha[1] = value
		rf.dirty.mark(DirtyState)
	case RegDIMX:
		rf.DIMX = value
		rf.dirty.mark(DirtyState)
	case RegDTHE:
		rf.DTHE = value
		rf.dirty.mark(DirtyState)
	case RegCOLCLAMP:
		rf.COLCLAMP = value
		rf.dirty.mark(DirtyState)
	case RegTEST_1:
		rf.test[0] = value
		rf.dirty.mark(DirtyState)
	case RegTEST_2:
		rf.test[1] = value
		rf.dirty.mark(DirtyState)
	case RegPABE:
		rf.PABE = value
		rf.dirty.mark(DirtyState)
	case RegFBA_1:
		rf.fba[0] = value
		rf.dirty.mark(DirtyState)
	case RegFBA_2:
		rf.fba[1] = value
		rf.dirty.mark(DirtyState)
	case RegFRAME_1:
		rf.frame[0] = value
		rf.dirty.mark(DirtyFB)
	case RegFRAME_2:
		rf.frame[1] = value
		rf.dirty.mark(DirtyFB)
	case RegZBUF_1:
		rf.zbuf[0] = value
		rf.dirty.mark(DirtyFB)
	case RegZBUF_2:
		rf.zbuf[1] = value
		rf.dirty.mark(DirtyFB)
	case RegBITBLTBUF:
		rf.BITBLTBUF = value
	case RegTRXPOS:
		rf.TRXPOS = value
	case RegTRXREG:
		rf.TRXREG = value
	case RegTRXDIR:
		rf.TRXDIR = value
		if rf.tl != nil {
			rf.tl.activateTransfer()
		}
	case RegHWREG:
		rf.hwregWrite(value)
	case RegSIGNAL, RegFINISH, RegLABEL:
		// event registers: consumed by the host interrupt path, not by
		// the command-stream translator (spec.md Non-goals).
	default:
		logger().Warnw("gs: write to unknown register", "addr", addr, "value", value)
	}
}

// tex2MaskBits is the subset of TEX0's bit layout that RegTEX2_x is
// permitted to rewrite: PSM, CBP, CPSM, CSM, CSA, CLD.
const tex2MaskBits = (uint64(0x3F) << 20) | (uint64(0x3FFF) << 37) | (uint64(0xF) << 51) |
	(uint64(0x1) << 55) | (uint64(0x1F) << 56) | (uint64(0x7) << 61)
