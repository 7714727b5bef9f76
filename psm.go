// psm.go - pixel-storage-mode geometry table
//
// Grounded on voodoo_constants.go's style of grouping related hardware
// constants into one table-shaped const block, generalized here from a
// flat register map into a per-format lookup table since PSM behavior
// (block/page shape, plane mask) is genuinely data, not control flow.

package gs

// PSM identifies a GS pixel-storage mode (format + swizzle).
type PSM uint8

const (
	PSMCT32  PSM = 0x00
	PSMCT24  PSM = 0x01
	PSMCT16  PSM = 0x02
	PSMCT16S PSM = 0x0A
	PSMT8    PSM = 0x13
	PSMT4    PSM = 0x14
	PSMT8H   PSM = 0x1B
	PSMT4HL  PSM = 0x24
	PSMT4HH  PSM = 0x2C
	PSMZ32   PSM = 0x30
	PSMZ24   PSM = 0x31
	PSMZ16   PSM = 0x32
	PSMZ16S  PSM = 0x3A
)

// psmGeometry describes the block/page shape and write-plane mask for
// one pixel-storage mode. Block/page dimensions are in pixels; GS blocks
// are always 256 bytes and pages are always 32 blocks (8 KiB), but how
// many pixels that covers varies by format.
type psmGeometry struct {
	blockW, blockH int
	pageW, pageH   int
	bitsPerPixel   int
	writeMask      uint32 // bits touched within a 32-bit word-plane
}

var psmTable = map[PSM]psmGeometry{
	PSMCT32:  {blockW: 8, blockH: 8, pageW: 64, pageH: 32, bitsPerPixel: 32, writeMask: 0xFFFFFFFF},
	PSMCT24:  {blockW: 8, blockH: 8, pageW: 64, pageH: 32, bitsPerPixel: 32, writeMask: 0x00FFFFFF},
	PSMCT16:  {blockW: 16, blockH: 8, pageW: 64, pageH: 64, bitsPerPixel: 16, writeMask: 0x0000FFFF},
	PSMCT16S: {blockW: 16, blockH: 8, pageW: 64, pageH: 64, bitsPerPixel: 16, writeMask: 0x0000FFFF},
	PSMT8:    {blockW: 16, blockH: 16, pageW: 128, pageH: 64, bitsPerPixel: 8, writeMask: 0x000000FF},
	PSMT4:    {blockW: 32, blockH: 16, pageW: 128, pageH: 128, bitsPerPixel: 4, writeMask: 0x0000000F},
	PSMT8H:   {blockW: 8, blockH: 8, pageW: 64, pageH: 32, bitsPerPixel: 32, writeMask: 0xFF000000},
	PSMT4HL:  {blockW: 8, blockH: 8, pageW: 64, pageH: 32, bitsPerPixel: 32, writeMask: 0x0F000000},
	PSMT4HH:  {blockW: 8, blockH: 8, pageW: 64, pageH: 32, bitsPerPixel: 32, writeMask: 0xF0000000},
	PSMZ32:   {blockW: 8, blockH: 8, pageW: 64, pageH: 32, bitsPerPixel: 32, writeMask: 0xFFFFFFFF},
	PSMZ24:   {blockW: 8, blockH: 8, pageW: 64, pageH: 32, bitsPerPixel: 32, writeMask: 0x00FFFFFF},
	PSMZ16:   {blockW: 16, blockH: 8, pageW: 64, pageH: 64, bitsPerPixel: 16, writeMask: 0x0000FFFF},
	PSMZ16S:  {blockW: 16, blockH: 8, pageW: 64, pageH: 64, bitsPerPixel: 16, writeMask: 0x0000FFFF},
}

func geometryFor(psm PSM) psmGeometry {
	if g, ok := psmTable[psm]; ok {
		return g
	}
	// Unknown PSM: fall back to 32-bit color geometry and log a warning on each call so a
	// programming violation (§7) doesn't panic the translator.
	logger().Warnw("unknown PSM, assuming PSMCT32 geometry", "psm", psm)
	return psmTable[PSMCT32]
}

func bitsPerPixel(psm PSM) int { return geometryFor(psm).bitsPerPixel }

// blocksPerPageDim returns how many blocks tile a page along X and Y.
func blocksPerPageDim(psm PSM) (bx, by int) {
	g := geometryFor(psm)
	return g.pageW / g.blockW, g.pageH / g.blockH
}
