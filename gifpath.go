// gifpath.go - GIF tag decode and PACKED/REGLIST/IMAGE dispatch
// (spec.md §4.4)
//
// Grounded on memory_bus.go's DMA-tag chain walker (a small fixed
// header decoded once per packet, then a dispatch based on a mode
// field); generalized here to the GIF's three payload formats and its
// four independent paths, each carrying its own register-loop cursor.

package gs

import "encoding/binary"

// GIFFlag selects how a GIF packet's data qqwords are interpreted.
type GIFFlag uint8

const (
	GIFFlagPacked GIFFlag = iota
	GIFFlagREGLIST
	GIFFlagIMAGE
	GIFFlagDisable
)

// GIFTag is the 128-bit header prefixing every GIF packet.
type GIFTag struct {
	NLoop uint16
	EOP   bool
	PRE   bool
	PRIM  uint16
	Flag  GIFFlag
	NREG  uint8
	Regs  [16]uint8 // register selectors, low nibble first per REGS field
}

func decodeGIFTag(b []byte) GIFTag {
	lo := binary.LittleEndian.Uint64(b[0:8])
	hi := binary.LittleEndian.Uint64(b[8:16])

	t := GIFTag{
		NLoop: uint16(bits(lo, 0, 15)),
		EOP:   bits(lo, 15, 1) != 0,
		PRE:   bits(lo, 46, 1) != 0,
		PRIM:  uint16(bits(lo, 47, 11)),
		Flag:  GIFFlag(bits(lo, 58, 2)),
		NREG:  uint8(bits(lo, 60, 4)),
	}
	if t.NREG == 0 {
		t.NREG = 16
	}
	for i := 0; i < 16; i++ {
		t.Regs[i] = uint8(bits(hi, uint(i)*4, 4))
	}
	return t
}

// gifPathCursor tracks one GIF path's progress through a multi-loop
// packet: which loop iteration and which register within NREG.
type gifPathCursor struct {
	tag      GIFTag
	loop     int
	regIndex int
	active   bool
}

// GIFPathState holds the four independent GIF paths' cursors. Only
// path 1-3 carry register-format payloads in practice; path 4 is the
// VIF1-direct image path, modeled here for completeness.
type GIFPathState struct {
	paths [4]gifPathCursor
}

// feedPacket decodes one packet's tag and primes the path's cursor.
// The translator then calls nextQuadword repeatedly as data arrives.
func (g *GIFPathState) feedPacket(path int, b []byte) GIFTag {
	tag := decodeGIFTag(b)
	g.paths[path] = gifPathCursor{tag: tag, active: true}
	return tag
}

// registerSelector returns which GS register the next PACKED/REGLIST
// quadword targets, advancing the path's loop/register cursor. ok is
// false once the packet's NLOOP*NREG quadwords are exhausted.
func (g *GIFPathState) registerSelector(path int) (RegAddr, bool) {
	c := &g.paths[path]
	if !c.active || c.loop >= int(c.tag.NLoop) {
		return 0, false
	}
	reg := c.tag.Regs[c.regIndex]
	c.regIndex++
	if c.regIndex >= int(c.tag.NREG) {
		c.regIndex = 0
		c.loop++
		if c.loop >= int(c.tag.NLoop) {
			c.active = false
		}
	}
	return regSelectorToAddr(reg), true
}

// regSelectorToAddr maps a GIFTag REGS nibble to the GS register
// address it designates, per the PS2 GIF's fixed A+D selector table.
func regSelectorToAddr(sel uint8) RegAddr {
	switch sel {
	case 0x00:
		return RegPRIM
	case 0x01:
		return RegRGBAQ
	case 0x02:
		return RegST
	case 0x03:
		return RegUV
	case 0x04:
		return RegXYZF2
	case 0x05:
		return RegXYZ2
	case 0x06:
		return RegTEX0_1
	case 0x07:
		return RegTEX0_2
	case 0x08:
		return RegCLAMP_1
	case 0x09:
		return RegCLAMP_2
	case 0x0A:
		return RegFOG
	case 0x0C:
		return RegXYZF3
	case 0x0D:
		return RegXYZ3
	case 0x0E:
		// A+D: the quadword's upper 64 bits carry the real address;
		// the translator's GIFTransfer loop special-cases this selector.
		return 0xFF
	case 0x0F:
		// NOP.
		return 0xFE
	default:
		return 0xFE
	}
}

const (
	regSelectorAD  RegAddr = 0xFF
	regSelectorNOP RegAddr = 0xFE
)
