// bitfields.go - typed sub-field views over the 64-bit GS registers
// (spec.md §4.3's register-file & bitfield-decoder component)
//
// Grounded on video_voodoo.go's fixed12_4ToFloat/fixed12_12ToFloat family:
// that file decodes one hardware sub-format per accessor function; here
// each GS register gets a named type with one accessor method per
// sub-field instead, since GS registers pack many independent fields
// per 64-bit word rather than one fixed-point value per register.

package gs

import "math"

// PRIM - primitive type and per-primitive mode bits.
type PRIM uint64

type PrimType uint8

const (
	PrimPoint PrimType = iota
	PrimLine
	PrimLineStrip
	PrimTriangle
	PrimTriangleStrip
	PrimTriangleFan
	PrimSprite
	PrimInvalid
)

func (p PRIM) PrimitiveType() PrimType { return PrimType(bits(uint64(p), 0, 3)) }
func (p PRIM) IQC() bool               { return bits(uint64(p), 3, 1) != 0 } // gouraud (IIP)
func (p PRIM) TME() bool               { return bits(uint64(p), 4, 1) != 0 }
func (p PRIM) FGE() bool               { return bits(uint64(p), 5, 1) != 0 }
func (p PRIM) ABE() bool               { return bits(uint64(p), 6, 1) != 0 }
func (p PRIM) AA1() bool               { return bits(uint64(p), 7, 1) != 0 }
func (p PRIM) FST() bool               { return bits(uint64(p), 8, 1) != 0 } // UV vs ST
func (p PRIM) CTXT() int               { return int(bits(uint64(p), 9, 1)) }
func (p PRIM) FIX() bool               { return bits(uint64(p), 10, 1) != 0 }

// PRMODECONT - AC bit selects PRIM vs PRMODE as the active mode source.
type PRMODECONT uint64

func (p PRMODECONT) AC() bool { return bits(uint64(p), 0, 1) != 0 }

// PRMODE mirrors PRIM's mode bits (without the primitive-type field).
type PRMODE uint64

func (p PRMODE) IQC() bool { return bits(uint64(p), 3, 1) != 0 }
func (p PRMODE) TME() bool { return bits(uint64(p), 4, 1) != 0 }
func (p PRMODE) FGE() bool { return bits(uint64(p), 5, 1) != 0 }
func (p PRMODE) ABE() bool { return bits(uint64(p), 6, 1) != 0 }
func (p PRMODE) AA1() bool { return bits(uint64(p), 7, 1) != 0 }
func (p PRMODE) FST() bool { return bits(uint64(p), 8, 1) != 0 }
func (p PRMODE) CTXT() int { return int(bits(uint64(p), 9, 1)) }
func (p PRMODE) FIX() bool { return bits(uint64(p), 10, 1) != 0 }

// TEX0 - texture buffer pointer, format, size, CLUT control.
type TEX0 uint64

func (t TEX0) TBP0() int      { return int(bits(uint64(t), 0, 14)) }
func (t TEX0) TBW() int       { return int(bits(uint64(t), 14, 6)) }
func (t TEX0) PSM() PSM       { return PSM(bits(uint64(t), 20, 6)) }
func (t TEX0) TW() int        { return 1 << bits(uint64(t), 26, 4) }
func (t TEX0) TH() int        { return 1 << bits(uint64(t), 30, 4) }
func (t TEX0) TCC() int       { return int(bits(uint64(t), 34, 1)) }
func (t TEX0) TFX() int       { return int(bits(uint64(t), 35, 2)) }
func (t TEX0) CBP() int       { return int(bits(uint64(t), 37, 14)) }
func (t TEX0) CPSM() PSM      { return PSM(bits(uint64(t), 51, 4)) }
func (t TEX0) CSM() int       { return int(bits(uint64(t), 55, 1)) }
func (t TEX0) CSA() int       { return int(bits(uint64(t), 56, 5)) }
func (t TEX0) CLD() int       { return int(bits(uint64(t), 61, 3)) }
func (t TEX0) maskedCacheKey() uint64 {
	// shading-only / upload-only fields normalized to 0 for the cacheable
	// TextureDescriptor per spec.md §3: CLD and CSA participate in the
	// palette pipeline, not the texture descriptor identity.
	return uint64(t) &^ (uint64(0x7) << 61) &^ (uint64(0x1F) << 56)
}

// TEX1 - LOD/mip sampler control.
type TEX1 uint64

func (t TEX1) LCM() int      { return int(bits(uint64(t), 0, 1)) }
func (t TEX1) MXL() int      { return int(bits(uint64(t), 2, 3)) }
func (t TEX1) MMAG() bool    { return bits(uint64(t), 5, 1) != 0 }
func (t TEX1) MMIN() int     { return int(bits(uint64(t), 6, 3)) }
func (t TEX1) MTBA() bool    { return bits(uint64(t), 9, 1) != 0 }
func (t TEX1) L() int        { return int(bits(uint64(t), 19, 2)) }
func (t TEX1) K() int32      { return int32(signExtend(bits(uint64(t), 32, 12), 12)) }
func (t TEX1) normalizedCacheKey() uint64 {
	// L/K only affect per-primitive LOD bias, not the cached texture
	// identity (spec.md §3, TextureDescriptor).
	return uint64(t) &^ (uint64(0xFFF) << 32) &^ (uint64(0x3) << 19)
}

// CLAMP - wrap/region-clamp control.
type CLAMP uint64

func (c CLAMP) WMS() int    { return int(bits(uint64(c), 0, 2)) }
func (c CLAMP) WMT() int    { return int(bits(uint64(c), 2, 2)) }
func (c CLAMP) MINU() int   { return int(bits(uint64(c), 4, 10)) }
func (c CLAMP) MAXU() int   { return int(bits(uint64(c), 14, 10)) }
func (c CLAMP) MINV() int   { return int(bits(uint64(c), 24, 10)) }
func (c CLAMP) MAXV() int   { return int(bits(uint64(c), 34, 10)) }
func (c CLAMP) regionActive() bool {
	return c.WMS() >= 2 || c.WMT() >= 2
}
func (c CLAMP) normalizedCacheKey() uint64 {
	if c.regionActive() {
		return uint64(c)
	}
	// region fields are don't-care when region clamp mode isn't selected.
	mask := ^uint64(0)
	return uint64(c) &^ (mask << 4)
}

// FRAME - framebuffer binding.
type FRAME uint64

func (f FRAME) FBP() int   { return int(bits(uint64(f), 0, 9)) }
func (f FRAME) FBW() int   { return int(bits(uint64(f), 16, 6)) }
func (f FRAME) PSM() PSM   { return PSM(bits(uint64(f), 24, 6)) }
func (f FRAME) FBMSK() uint32 { return uint32(bits(uint64(f), 32, 32)) }

// ZBUF - depth-buffer binding.
type ZBUF uint64

func (z ZBUF) ZBP() int  { return int(bits(uint64(z), 0, 9)) }
func (z ZBUF) PSM() PSM  { return PSM(bits(uint64(z), 24, 4)) }
func (z ZBUF) ZMSK() bool { return bits(uint64(z), 32, 1) != 0 }

// TEST - pixel test control (alpha test, destination alpha, depth test).
type TEST uint64

type AlphaTestMethod uint8

const (
	AlphaTestNever AlphaTestMethod = iota
	AlphaTestAlways
	AlphaTestLess
	AlphaTestLEqual
	AlphaTestEqual
	AlphaTestGEqual
	AlphaTestGreater
	AlphaTestNotEqual
)

type AlphaFailMethod uint8

const (
	AlphaFailKeep AlphaFailMethod = iota
	AlphaFailFBOnly
	AlphaFailZBOnly
	AlphaFailRGBOnly
)

type DepthTestMethod uint8

const (
	DepthTestNever DepthTestMethod = iota
	DepthTestAlways
	DepthTestGEqual
	DepthTestGreater
)

func (t TEST) ATE() bool             { return bits(uint64(t), 0, 1) != 0 }
func (t TEST) ATST() AlphaTestMethod { return AlphaTestMethod(bits(uint64(t), 1, 3)) }
func (t TEST) AREF() uint8           { return uint8(bits(uint64(t), 4, 8)) }
func (t TEST) AFAIL() AlphaFailMethod { return AlphaFailMethod(bits(uint64(t), 12, 2)) }
func (t TEST) DATE() bool            { return bits(uint64(t), 14, 1) != 0 }
func (t TEST) DATM() int             { return int(bits(uint64(t), 15, 1)) }
func (t TEST) ZTE() bool             { return bits(uint64(t), 16, 1) != 0 }
func (t TEST) ZTST() DepthTestMethod { return DepthTestMethod(bits(uint64(t), 17, 2)) }

// ALPHA - blend-equation coefficient selects.
type ALPHA uint64

func (a ALPHA) A() int   { return int(bits(uint64(a), 0, 2)) }
func (a ALPHA) B() int   { return int(bits(uint64(a), 2, 2)) }
func (a ALPHA) C() int   { return int(bits(uint64(a), 4, 2)) }
func (a ALPHA) D() int   { return int(bits(uint64(a), 6, 2)) }
func (a ALPHA) FIX() uint8 { return uint8(bits(uint64(a), 32, 8)) }

// SCISSOR - clip rectangle in framebuffer pixels (inclusive).
type SCISSOR uint64

func (s SCISSOR) SCAX0() int { return int(bits(uint64(s), 0, 11)) }
func (s SCISSOR) SCAX1() int { return int(bits(uint64(s), 16, 11)) }
func (s SCISSOR) SCAY0() int { return int(bits(uint64(s), 32, 11)) }
func (s SCISSOR) SCAY1() int { return int(bits(uint64(s), 48, 11)) }
func (s SCISSOR) empty() bool {
	return s.SCAX1() < s.SCAX0() || s.SCAY1() < s.SCAY0()
}

// Empty reports whether the scissor rectangle describes zero pixels,
// exported for backend packages that clip against it directly.
func (s SCISSOR) Empty() bool { return s.empty() }

// XYOFFSET - per-context XY origin (subpixel units).
type XYOFFSET uint64

func (x XYOFFSET) OFX() int32 { return int32(bits(uint64(x), 0, 16)) }
func (x XYOFFSET) OFY() int32 { return int32(bits(uint64(x), 32, 16)) }

// MIPTBP1/2 - mip-level base pointers and buffer widths, packed 3 per register.
type MIPTBP uint64

func (m MIPTBP) TBP(level int) int {
	return int(bits(uint64(m), uint(level)*20, 14))
}
func (m MIPTBP) TBW(level int) int {
	return int(bits(uint64(m), 14+uint(level)*20, 6))
}

// TEXA - alpha expansion for 16-bit/non-alpha formats.
type TEXA uint64

func (t TEXA) TA0() uint8 { return uint8(bits(uint64(t), 0, 8)) }
func (t TEXA) AEM() bool  { return bits(uint64(t), 15, 1) != 0 }
func (t TEXA) TA1() uint8 { return uint8(bits(uint64(t), 32, 8)) }

// FOG / FOGCOL
type FOG uint64

func (f FOG) F() uint8 { return uint8(bits(uint64(f), 56, 8)) }

type FOGCOL uint64

func (f FOGCOL) R() uint8 { return uint8(bits(uint64(f), 0, 8)) }
func (f FOGCOL) G() uint8 { return uint8(bits(uint64(f), 8, 8)) }
func (f FOGCOL) B() uint8 { return uint8(bits(uint64(f), 16, 8)) }

// DIMX - dither matrix, four 16-bit words of 4x4 signed 3-bit entries.
type DIMX uint64

// DTHE - dither enable.
type DTHE uint64

func (d DTHE) Enabled() bool { return bits(uint64(d), 0, 1) != 0 }

// PABE - per-pixel alpha blend enable.
type PABE uint64

func (p PABE) Enabled() bool { return bits(uint64(p), 0, 1) != 0 }

// COLCLAMP - color clamp enable.
type COLCLAMP uint64

func (c COLCLAMP) Enabled() bool { return bits(uint64(c), 0, 1) != 0 }

// FBA - framebuffer-alpha correction.
type FBA uint64

func (f FBA) Enabled() bool { return bits(uint64(f), 0, 1) != 0 }

// TRXPOS/TRXREG/TRXDIR - transfer engine registers.
type TRXPOS uint64

func (t TRXPOS) SSAX() int { return int(bits(uint64(t), 0, 11)) }
func (t TRXPOS) SSAY() int { return int(bits(uint64(t), 16, 11)) }
func (t TRXPOS) DSAX() int { return int(bits(uint64(t), 32, 11)) }
func (t TRXPOS) DSAY() int { return int(bits(uint64(t), 48, 11)) }
func (t TRXPOS) DIR() int  { return int(bits(uint64(t), 59, 2)) }

type TRXREG uint64

func (t TRXREG) RRW() int { return int(bits(uint64(t), 0, 12)) }
func (t TRXREG) RRH() int { return int(bits(uint64(t), 32, 12)) }

type TransferDir uint8

const (
	TransferHostToLocal TransferDir = iota
	TransferLocalToHost
	TransferLocalToLocal
	TransferDeactivated
)

type TRXDIR uint64

func (t TRXDIR) XDIR() TransferDir { return TransferDir(bits(uint64(t), 0, 2)) }

// BITBLTBUF - src/dst buffer pointers/widths/formats for the transfer engine.
type BITBLTBUF uint64

func (b BITBLTBUF) SBP() int  { return int(bits(uint64(b), 0, 14)) }
func (b BITBLTBUF) SBW() int  { return int(bits(uint64(b), 16, 6)) }
func (b BITBLTBUF) SPSM() PSM { return PSM(bits(uint64(b), 24, 6)) }
func (b BITBLTBUF) DBP() int  { return int(bits(uint64(b), 32, 14)) }
func (b BITBLTBUF) DBW() int  { return int(bits(uint64(b), 48, 6)) }
func (b BITBLTBUF) DPSM() PSM { return PSM(bits(uint64(b), 56, 6)) }

// TEXCLUT - additional CLUT addressing for CSM1 line-layout mode.
type TEXCLUT uint64

func (t TEXCLUT) CBW() int { return int(bits(uint64(t), 0, 6)) }
func (t TEXCLUT) COU() int { return int(bits(uint64(t), 6, 6)) }
func (t TEXCLUT) COV() int { return int(bits(uint64(t), 12, 10)) }

// SCANMSK - even/odd scanline mask mode.
type SCANMSK uint64

func (s SCANMSK) MSK() int { return int(bits(uint64(s), 0, 2)) }

// RGBAQ - vertex color plus the Q perspective coefficient.
type RGBAQ uint64

func (r RGBAQ) R() uint8   { return uint8(bits(uint64(r), 0, 8)) }
func (r RGBAQ) G() uint8   { return uint8(bits(uint64(r), 8, 8)) }
func (r RGBAQ) B() uint8   { return uint8(bits(uint64(r), 16, 8)) }
func (r RGBAQ) A() uint8   { return uint8(bits(uint64(r), 24, 8)) }
func (r RGBAQ) Q() float32 { return float32FromBits(uint32(bits(uint64(r), 32, 32))) }

// ST - texture coordinates (floats) prior to perspective divide.
type ST uint64

func (s ST) S() float32 { return float32FromBits(uint32(bits(uint64(s), 0, 32))) }
func (s ST) T() float32 { return float32FromBits(uint32(bits(uint64(s), 32, 32))) }

// UV - texture coordinates as 10.4 fixed point in 14-bit fields (FST mode).
type UV uint64

func (u UV) U() int32 { return int32(bits(uint64(u), 0, 14)) }
func (u UV) V() int32 { return int32(bits(uint64(u), 16, 14)) }

// XYZ2/XYZ3/XYZF2/XYZF3 - vertex-kick position payloads.
type XYZ uint64

func (x XYZ) X() int32 { return int32(bits(uint64(x), 0, 16)) }
func (x XYZ) Y() int32 { return int32(bits(uint64(x), 16, 16)) }
func (x XYZ) Z() uint32 { return uint32(bits(uint64(x), 32, 32)) }

type XYZF uint64

func (x XYZF) X() int32  { return int32(bits(uint64(x), 0, 16)) }
func (x XYZF) Y() int32  { return int32(bits(uint64(x), 16, 16)) }
func (x XYZF) Z() uint32 { return uint32(bits(uint64(x), 32, 24)) }
func (x XYZF) F() uint8  { return uint8(bits(uint64(x), 56, 8)) }

func float32FromBits(b uint32) float32 {
	return math.Float32frombits(b)
}
