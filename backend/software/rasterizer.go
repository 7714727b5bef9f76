// rasterizer.go - reference software rasterizer backend (SPEC_FULL.md §4.9)
//
// Grounded on voodoo_software.go's VoodooSoftwareBackend: barycentric
// triangle rasterization, a float32 depth buffer, scissor clipping and
// per-pixel alpha blending. Generalized here from a single fixed
// framebuffer into a backend that renders directly into the shared GS
// local-memory buffer at whatever page FRAME/ZBUF name, since this
// backend also has to serve as the thing cached-texture reads sample
// from.
package software

import (
	"context"
	"image"
	"image/draw"
	"math"
	"sync"

	"github.com/intuitionamiga/gsxlate"
)

// Backend is a pure-Go reference rasterizer implementing gs.Backend,
// suitable for headless testing and as a correctness oracle for the
// accelerated backend.
type Backend struct {
	mu sync.Mutex

	vram *gs.VRAM

	nextHandle uint64
	palettes   map[uint64][]byte
	nextPalette uint64

	scanout image.Image
}

// New returns a software backend that renders into (and samples
// cached textures from) the given shared VRAM buffer.
func New(vram *gs.VRAM) *Backend {
	return &Backend{vram: vram, palettes: make(map[uint64][]byte)}
}

func (b *Backend) CreateCachedTexture(ctx context.Context, desc gs.TextureDescriptor, pixels []byte) (*gs.CachedTextureHandle, error) {
	b.mu.Lock()
	id := b.nextHandle
	b.nextHandle++
	b.mu.Unlock()

	// The reference backend doesn't copy texture bytes into a separate
	// GPU resource: it samples straight from the shared VRAM buffer at
	// draw time, so the handle only needs to carry an identity.
	return gs.NewCachedTextureHandle(id, func(uint64) {}), nil
}

func (b *Backend) UpdatePaletteCache(ctx context.Context, bank int, entries []byte) (gs.PaletteInstance, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextPalette
	b.nextPalette++
	cp := make([]byte, len(entries))
	copy(cp, entries)
	b.palettes[id] = cp
	return gs.NewPaletteInstance(id), nil
}

func (b *Backend) FlushRendering(ctx context.Context, pass gs.RenderPassPayload) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	stride64 := pass.FrameBase.FBW()
	fbPSM := pass.FrameBase.PSM()
	baseByte := pass.FrameBase.FBP() * 256

	for _, prim := range pass.Primitives {
		st := pass.States[prim.StateIndex]
		rasterizePrimitive(b.vram, baseByte, stride64, fbPSM, st, prim, pass.Scissor)
	}
	return nil
}

func (b *Backend) CopyVRAM(ctx context.Context, desc gs.CopyDesc) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for y := 0; y < desc.Height; y++ {
		srcOff := (desc.SrcBasePage*8192 + (desc.SrcY+y)*desc.SrcStride*64*4) + desc.SrcX*4
		dstOff := (desc.DstBasePage*8192 + (desc.DstY+y)*desc.DstStride*64*4) + desc.DstX*4
		n := desc.Width * 4
		row := b.vram.Read(srcOff, n)
		b.vram.Write(dstOff, row)
	}
	return nil
}

func (b *Backend) FlushHostVRAMCopy(ctx context.Context, dir gs.TransferDir, basePage int, psm gs.PSM, stride, x, y, w, h int, hostBuf []byte) error {
	if dir != gs.TransferHostToLocal {
		return nil
	}
	off := basePage*8192 + y*stride*64*4 + x*4
	b.vram.Write(off, hostBuf)
	return nil
}

func (b *Backend) FlushReadback(ctx context.Context, pages []int) error      { return nil }
func (b *Backend) FlushTransfer(ctx context.Context) error                  { return nil }
func (b *Backend) FlushCacheUpload(ctx context.Context, h *gs.CachedTextureHandle) error { return nil }
func (b *Backend) TransferOverlapBarrier(ctx context.Context, pages []int) error { return nil }
func (b *Backend) BeginHostVRAMAccess(ctx context.Context, pages []int, write bool) error {
	return nil
}
func (b *Backend) EndHostWriteVRAMAccess(ctx context.Context, pages []int) error { return nil }

func (b *Backend) FlushSubmit(ctx context.Context) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextHandle++ // cheap monotonically increasing timeline stand-in
	return b.nextHandle, nil
}

func (b *Backend) WaitTimeline(ctx context.Context, value uint64) error { return nil }

func (b *Backend) VSync(ctx context.Context, info gs.VSyncInfo) (gs.ScanoutResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, info.Width, info.Height))
	baseByte := info.DisplayBasePage * 8192
	stride := info.DisplayStride * 64 * 4
	for y := 0; y < info.Height; y++ {
		row := b.vram.Read(baseByte+y*stride, info.Width*4)
		draw.Draw(img, image.Rect(0, y, info.Width, y+1), &image.RGBA{Pix: row, Stride: info.Width * 4, Rect: image.Rect(0, 0, info.Width, 1)}, image.Point{}, draw.Src)
	}
	b.scanout = img
	return gs.ScanoutResult{Changed: true}, nil
}

// Scanout returns the most recently presented frame, for a viewer to draw.
func (b *Backend) Scanout() image.Image {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scanout
}

func (b *Backend) InvalidateSuperSamplingState(ctx context.Context) {}

// rasterizePrimitive barycentric-fills one triangle or rasterizes one
// sprite quad and runs each covered pixel through writePixel's ALPHA
// blend equation. No alpha test or depth test is applied.
func rasterizePrimitive(vram *gs.VRAM, baseByte, stride64 int, psm gs.PSM, st gs.StateVector, prim gs.PrimitiveRecord, scissor gs.SCISSOR) {
	switch prim.Prim.PrimitiveType() {
	case gs.PrimTriangle, gs.PrimTriangleStrip, gs.PrimTriangleFan:
		if len(prim.Vertices) < 3 {
			return
		}
		rasterTriangle(vram, baseByte, stride64, psm, st, prim.Vertices[0], prim.Vertices[1], prim.Vertices[2], scissor)
	case gs.PrimSprite:
		if len(prim.Vertices) < 2 {
			return
		}
		rasterSprite(vram, baseByte, stride64, psm, st, prim.Vertices[0], prim.Vertices[1], scissor)
	default:
		// points/lines: the reference backend draws nothing for them,
		// matching the non-goal on wireframe fidelity.
	}
}

func rasterTriangle(vram *gs.VRAM, baseByte, stride64 int, psm gs.PSM, st gs.StateVector, a, b, c gs.Vertex, scissor gs.SCISSOR) {
	x0, y0 := float64(a.X)/16, float64(a.Y)/16
	x1, y1 := float64(b.X)/16, float64(b.Y)/16
	x2, y2 := float64(c.X)/16, float64(c.Y)/16

	minX := int(math.Floor(math.Min(x0, math.Min(x1, x2))))
	maxX := int(math.Ceil(math.Max(x0, math.Max(x1, x2))))
	minY := int(math.Floor(math.Min(y0, math.Min(y1, y2))))
	maxY := int(math.Ceil(math.Max(y0, math.Max(y1, y2))))

	if !scissor.Empty() {
		if minX < scissor.SCAX0() {
			minX = scissor.SCAX0()
		}
		if maxX > scissor.SCAX1() {
			maxX = scissor.SCAX1()
		}
		if minY < scissor.SCAY0() {
			minY = scissor.SCAY0()
		}
		if maxY > scissor.SCAY1() {
			maxY = scissor.SCAY1()
		}
	}

	area := (x1-x0)*(y2-y0) - (x2-x0)*(y1-y0)
	if area == 0 {
		return
	}

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			fx, fy := float64(px)+0.5, float64(py)+0.5
			w0 := ((x1-fx)*(y2-fy) - (x2-fx)*(y1-fy)) / area
			w1 := ((x2-fx)*(y0-fy) - (x0-fx)*(y2-fy)) / area
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			r := byte(w0*float64(a.R) + w1*float64(b.R) + w2*float64(c.R))
			g := byte(w0*float64(a.G) + w1*float64(b.G) + w2*float64(c.G))
			bl := byte(w0*float64(a.B) + w1*float64(b.B) + w2*float64(c.B))
			al := byte(w0*float64(a.A) + w1*float64(b.A) + w2*float64(c.A))
			writePixel(vram, baseByte, stride64, psm, px, py, r, g, bl, al, st)
		}
	}
}

func rasterSprite(vram *gs.VRAM, baseByte, stride64 int, psm gs.PSM, st gs.StateVector, a, b gs.Vertex, scissor gs.SCISSOR) {
	x0, y0 := int(a.X)>>4, int(a.Y)>>4
	x1, y1 := int(b.X)>>4, int(b.Y)>>4
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	if !scissor.Empty() {
		if x0 < scissor.SCAX0() {
			x0 = scissor.SCAX0()
		}
		if x1 > scissor.SCAX1() {
			x1 = scissor.SCAX1()
		}
		if y0 < scissor.SCAY0() {
			y0 = scissor.SCAY0()
		}
		if y1 > scissor.SCAY1() {
			y1 = scissor.SCAY1()
		}
	}
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			writePixel(vram, baseByte, stride64, psm, px, py, b.R, b.G, b.B, b.A, st)
		}
	}
}

// writePixel applies the ALPHA blend equation against the destination
// byte at (px,py) before storing, honoring the state vector's blend
// coefficient selects (spec.md §4.6's StateVector).
func writePixel(vram *gs.VRAM, baseByte, stride64 int, psm gs.PSM, px, py int, r, g, bl, al byte, st gs.StateVector) {
	if px < 0 || py < 0 {
		return
	}
	strideBytes := stride64 * 64 * 4
	off := baseByte + py*strideBytes + px*4
	if off < 0 {
		return
	}

	dst := vram.Read(off, 4)
	if len(dst) < 4 {
		return
	}

	out := [4]byte{r, g, bl, al}
	if st.BlendA != st.BlendB {
		sa := float64(al) / 255
		switch {
		case st.BlendC == 2: // fixed blend factor
			sa = float64(st.BlendFix) / 255
		}
		for i := 0; i < 3; i++ {
			srcC := float64([3]byte{r, g, bl}[i])
			dstC := float64(dst[i])
			out[i] = byte(srcC*sa + dstC*(1-sa))
		}
	}
	vram.Write(off, out[:])
}
