package gs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeometryForKnownFormats(t *testing.T) {
	cases := []struct {
		psm            PSM
		blockW, blockH int
		bpp            int
		writeMask      uint32
	}{
		{PSMCT32, 8, 8, 32, 0xFFFFFFFF},
		{PSMCT24, 8, 8, 32, 0x00FFFFFF},
		{PSMCT16, 16, 8, 16, 0x0000FFFF},
		{PSMT8, 16, 16, 8, 0x000000FF},
		{PSMT4, 32, 16, 4, 0x0000000F},
	}
	for _, c := range cases {
		g := geometryFor(c.psm)
		assert.Equalf(t, c.blockW, g.blockW, "psm %#x blockW", c.psm)
		assert.Equalf(t, c.blockH, g.blockH, "psm %#x blockH", c.psm)
		assert.Equalf(t, c.bpp, g.bitsPerPixel, "psm %#x bpp", c.psm)
		assert.Equalf(t, c.writeMask, g.writeMask, "psm %#x writeMask", c.psm)
	}
}

func TestGeometryForUnknownFallsBackToCT32(t *testing.T) {
	g := geometryFor(PSM(0x7F))
	assert.Equal(t, psmTable[PSMCT32], g, "unknown PSM should fall back to PSMCT32 geometry")
}

func TestBlocksPerPageDim(t *testing.T) {
	bx, by := blocksPerPageDim(PSMCT32)
	assert.Equal(t, 8, bx)
	assert.Equal(t, 4, by)
}
