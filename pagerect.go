// pagerect.go - page-rectangle geometry (spec.md §4.1)
//
// Grounded on memory_bus.go's PAGE_SIZE/PAGE_MASK region model: that file
// reasons about a flat 16 MiB bus in 256-byte "pages" for MMIO routing;
// here the same page-masking idea is generalized to the GS's two-level
// page(8KiB)/block(256B) hierarchy and to 2-D rectangles instead of a
// linear address range.

package gs

const (
	blockSizeBytes = 256
	pageSizeBytes  = 8192
	blocksPerPage  = pageSizeBytes / blockSizeBytes // 32
)

// PageRect describes which VRAM pages/blocks a 2-D rectangle touches in
// a given pixel-storage mode.
type PageRect struct {
	BasePage   int
	PageWidth  int // pages touched horizontally
	PageHeight int // pages touched vertically
	PageStride int // pages per row of the destination buffer
	BlockMask  uint32
	WriteMask  uint32
}

// PageRectCLUT additionally carries which CSA half-banks a CLUT upload
// touches.
type PageRectCLUT struct {
	PageRect
	CSAMask uint32
}

// computePageRect implements spec.md §4.1. baseBlock is a pointer in
// 256-byte blocks, (x,y,w,h) is a texel rectangle, strideBlocks64 is the
// buffer stride in units of 64 pixels (as GS BITBLTBUF/FRAME/ZBUF encode
// it), and psm selects the storage format.
func computePageRect(baseBlock, x, y, w, h, strideBlocks64 int, psm PSM) PageRect {
	if w <= 0 || h <= 0 {
		return PageRect{WriteMask: geometryFor(psm).writeMask}
	}
	g := geometryFor(psm)
	blocksPerPageX := g.pageW / g.blockW
	blocksPerPageY := g.pageH / g.blockH

	strideTexels := strideBlocks64 * 64
	pageStride := ceilDiv(strideTexels, g.pageW)
	if pageStride < 1 {
		pageStride = 1
	}

	basePage := baseBlock / blocksPerPage
	baseBlockInPage := baseBlock % blocksPerPage
	// Base block offset folds into an extra column/row of blocks before
	// (x,y); approximate it as an X offset in block units (sufficient for
	// hazard-width purposes per spec.md's non-goal on swizzle accuracy).
	baseBlockX := (baseBlockInPage % blocksPerPageX) * g.blockW
	baseBlockY := (baseBlockInPage / blocksPerPageX) * g.blockH

	bx0 := (baseBlockX + x) / g.blockW
	bx1 := (baseBlockX + x + w - 1) / g.blockW
	by0 := (baseBlockY + y) / g.blockH
	by1 := (baseBlockY + y + h - 1) / g.blockH

	px0 := bx0 / blocksPerPageX
	px1 := bx1 / blocksPerPageX
	py0 := by0 / blocksPerPageY
	py1 := by1 / blocksPerPageY

	var blockMask uint32
	for by := by0; by <= by1; by++ {
		localBy := by % blocksPerPageY
		for bx := bx0; bx <= bx1; bx++ {
			localBx := bx % blocksPerPageX
			idx := (localBy*blocksPerPageX + localBx) % blocksPerPage
			blockMask |= 1 << uint(idx)
		}
	}

	return PageRect{
		BasePage:   basePage + py0*pageStride + px0,
		PageWidth:  px1 - px0 + 1,
		PageHeight: py1 - py0 + 1,
		PageStride: pageStride,
		BlockMask:  blockMask,
		WriteMask:  g.writeMask,
	}
}

// pages returns every page index covered by the rectangle, row-major.
func (r PageRect) pages() []int {
	out := make([]int, 0, r.PageWidth*r.PageHeight)
	for row := 0; row < r.PageHeight; row++ {
		rowBase := r.BasePage + row*r.PageStride
		for col := 0; col < r.PageWidth; col++ {
			out = append(out, rowBase+col)
		}
	}
	return out
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
