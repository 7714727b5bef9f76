// renderpass.go - render-pass accumulation and flush triggers
// (spec.md §3/§4.7/§4.8)
//
// Grounded on video_voodoo.go's single "batch" abstraction (primitives
// accumulate until a state change or an explicit swap forces a flush);
// generalized here into deduplicated state/texture/palette tables so a
// pass holds an index per primitive instead of a full copy of its draw
// state, per spec.md §3's render-pass definition.

package gs

// renderPassPrimitiveLimit bounds how many primitives one pass holds
// before an overflow flush, keeping backend command buffers bounded
// (spec.md §4.8, FlushReasonOverflow).
const renderPassPrimitiveLimit = 4096

// coarseTileDim is the fixed coarse tile edge tileCost measures its
// cost against (spec.md §6).
const coarseTileDim = 8

// RenderPass accumulates drawing kicks sharing a framebuffer binding,
// deduplicating state vectors, texture descriptors and palette
// instances so the backend receives each unique combination once.
type RenderPass struct {
	frame   FRAME
	zbuf    ZBUF
	scissor SCISSOR

	label             uint64
	samplingRateXLog2 int
	samplingRateYLog2 int

	states      []StateVector
	stateIndex  map[StateVector]int
	textures    []TextureDescriptor
	textureKey  map[uint64]int
	heldHandles []*CachedTextureHandle
	palettes    []PaletteInstance

	primitives []PrimitiveRecord

	colorMask uint32
	bbox      [4]int32
	bboxSet   bool
	limit     int

	// §3 accumulator flags, OR'd in across every primitive the pass holds.
	zSensitive               bool
	zWrite                   bool
	hasColorFeedback         bool
	hasAA1                   bool
	hasScanmsk               bool
	isPotentialColorFeedback bool
	isPotentialDepthFeedback bool
	isColorFeedback          bool
	feedbackPSM              PSM
	feedbackCPSM             PSM
}

func newRenderPass(frame FRAME, zbuf ZBUF, scissor SCISSOR, limit int, label uint64, ssXLog2, ssYLog2 int) *RenderPass {
	if limit <= 0 {
		limit = renderPassPrimitiveLimit
	}
	return &RenderPass{
		frame: frame, zbuf: zbuf, scissor: scissor,
		label:             label,
		samplingRateXLog2: ssXLog2,
		samplingRateYLog2: ssYLog2,
		stateIndex:        make(map[StateVector]int),
		textureKey:        make(map[uint64]int),
		bbox:              [4]int32{0, 0, 0, 0},
		limit:             limit,
	}
}

func (p *RenderPass) internState(sv StateVector) int {
	if i, ok := p.stateIndex[sv]; ok {
		return i
	}
	i := len(p.states)
	p.states = append(p.states, sv)
	p.stateIndex[sv] = i
	return i
}

// internTexture returns the pass-local index for desc, acquiring an
// extra reference on handle the first time this pass sees it (released
// when the pass flushes).
func (p *RenderPass) internTexture(desc TextureDescriptor, key uint64, handle *CachedTextureHandle) int {
	if i, ok := p.textureKey[key]; ok {
		return i
	}
	i := len(p.textures)
	p.textures = append(p.textures, desc)
	p.textureKey[key] = i
	if handle != nil {
		p.heldHandles = append(p.heldHandles, handle.acquire())
	}
	return i
}

func (p *RenderPass) internFeedback(sentinel int) int {
	// feedback sentinels never dedup against real textures; they're
	// already a compact encoding (see texdescriptor.go).
	return sentinel
}

// noteFlags folds one primitive's sensitivity and feedback state into
// the pass's §3 accumulator flags.
func (p *RenderPass) noteFlags(test TEST, zbuf ZBUF, prim PRIM, scanmsk SCANMSK, feedback FeedbackKind, texPSM, texCPSM PSM) {
	if test.ZTE() {
		p.zSensitive = true
	}
	if !zbuf.ZMSK() {
		p.zWrite = true
	}
	if prim.AA1() {
		p.hasAA1 = true
	}
	if scanmsk.MSK() != 0 {
		p.hasScanmsk = true
	}
	switch feedback {
	case FeedbackPixel:
		p.isPotentialColorFeedback = true
		p.isColorFeedback = true
		p.hasColorFeedback = true
		p.feedbackPSM = texPSM
		p.feedbackCPSM = texCPSM
	case FeedbackSliced:
		p.isPotentialColorFeedback = true
		p.feedbackPSM = texPSM
		p.feedbackCPSM = texCPSM
	}
}

func (p *RenderPass) addPrimitive(rec PrimitiveRecord) {
	p.primitives = append(p.primitives, rec)
	p.growBBox(rec.Vertices)
}

// growBBox folds one primitive's vertices into the pass's accumulated
// bounding box, kept in subpixel (12.4) units until payload() converts
// it per spec.md §4.6 step 3. Line padding is applied later in
// pixelBBox, once the whole pass's primitive mix is known; no
// raster-rule tightening is applied.
func (p *RenderPass) growBBox(vs []Vertex) {
	for _, v := range vs {
		if !p.bboxSet {
			p.bbox = [4]int32{v.X, v.Y, v.X, v.Y}
			p.bboxSet = true
			continue
		}
		if v.X < p.bbox[0] {
			p.bbox[0] = v.X
		}
		if v.Y < p.bbox[1] {
			p.bbox[1] = v.Y
		}
		if v.X > p.bbox[2] {
			p.bbox[2] = v.X
		}
		if v.Y > p.bbox[3] {
			p.bbox[3] = v.Y
		}
	}
}

func (p *RenderPass) overflowing() bool {
	return len(p.primitives) >= p.limit
}

// pixelBBox converts the accumulated subpixel bounding box to integer,
// pixel-aligned coordinates per spec.md §4.6 step 3: fold to whole
// pixels with a plain >>4 floor (no top-left raster-rule tightening of
// the lower bounds), pad line primitives by one pixel
// on each side, clamp to the scissor and to the framebuffer width. The
// vertex pipeline (vertex.go's vertexKick) has already subtracted
// XYOFFSET before the vertex ever reached this accumulator.
func (p *RenderPass) pixelBBox() [4]int32 {
	if !p.bboxSet {
		return [4]int32{}
	}

	minX, minY := int(p.bbox[0])>>4, int(p.bbox[1])>>4
	maxX, maxY := int(p.bbox[2])>>4, int(p.bbox[3])>>4

	if p.anyLinePrimitive() {
		minX--
		minY--
		maxX++
		maxY++
	}

	// SCISSOR(0) is the register file's power-on value, meaning no
	// scissor window has been programmed yet; clamping against it would
	// crush every bbox to a single pixel, so it is treated as "no
	// scissor" rather than a real 1x1 window.
	if p.scissor != SCISSOR(0) && !p.scissor.empty() {
		if minX < p.scissor.SCAX0() {
			minX = p.scissor.SCAX0()
		}
		if maxX > p.scissor.SCAX1() {
			maxX = p.scissor.SCAX1()
		}
		if minY < p.scissor.SCAY0() {
			minY = p.scissor.SCAY0()
		}
		if maxY > p.scissor.SCAY1() {
			maxY = p.scissor.SCAY1()
		}
	}

	if fbMaxX := p.frame.FBW()*64 - 1; maxX > fbMaxX {
		maxX = fbMaxX
	}
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}

	return [4]int32{int32(minX), int32(minY), int32(maxX), int32(maxY)}
}

func (p *RenderPass) anyLinePrimitive() bool {
	for _, rec := range p.primitives {
		switch rec.Prim.PrimitiveType() {
		case PrimLine, PrimLineStrip:
			return true
		}
	}
	return false
}

// tileCost implements spec.md §6's coarse tile-size cost function:
// cost = tile_width × tile_height × num_primitives over 8x8 coarse
// tiles, picking a tile-size log2 from that cost and subtracting one
// (down to a floor of 3) when vertical super-sampling is active.
func tileCost(numPrimitives int, verticalSamplingActive bool) int {
	cost := coarseTileDim * coarseTileDim * numPrimitives

	var log2 int
	switch {
	case cost < 10000:
		log2 = 3
	case cost < 10000000:
		log2 = 4
	case cost < 100000000:
		log2 = 5
	default:
		log2 = 6
	}

	if verticalSamplingActive && log2 > 3 {
		log2--
	}
	return log2
}

func (p *RenderPass) payload(reason FlushReason) RenderPassPayload {
	verticalSamplingActive := p.samplingRateYLog2 > p.samplingRateXLog2
	return RenderPassPayload{
		States:                   p.states,
		Textures:                 p.textures,
		Palettes:                 p.palettes,
		Primitives:               p.primitives,
		FrameBase:                p.frame,
		DepthBase:                p.zbuf,
		Scissor:                  p.scissor,
		ColorMask:                p.colorMask,
		BoundingBox:              p.pixelBBox(),
		Reason:                   reason,
		Label:                    p.label,
		TileSizeLog2:             tileCost(len(p.primitives), verticalSamplingActive),
		SamplingRateXLog2:        p.samplingRateXLog2,
		SamplingRateYLog2:        p.samplingRateYLog2,
		ZSensitive:               p.zSensitive,
		ZWrite:                   p.zWrite,
		HasColorFeedback:         p.hasColorFeedback,
		HasAA1:                   p.hasAA1,
		HasScanmsk:               p.hasScanmsk,
		IsPotentialColorFeedback: p.isPotentialColorFeedback,
		IsPotentialDepthFeedback: p.isPotentialDepthFeedback,
		IsColorFeedback:          p.isColorFeedback,
		FeedbackPSM:              p.feedbackPSM,
		FeedbackCPSM:             p.feedbackCPSM,
	}
}

func (p *RenderPass) releaseHandles() {
	for _, h := range p.heldHandles {
		h.Release()
	}
	p.heldHandles = nil
}

// touchedFBPages returns the page set the pass's framebuffer target
// occupies, given the pass's accumulated bounding box. Depth-buffer
// pages are not included.
func (p *RenderPass) touchedFBPages() []int {
	// bbox is accumulated from vertex positions in 12.4 subpixel units
	// (vertex.go); compute_page_rect wants whole texels, matching
	// kickPageRect's >>4 conversion in drawkick.go.
	x0, y0 := int(p.bbox[0])>>4, int(p.bbox[1])>>4
	x1, y1 := int(p.bbox[2])>>4, int(p.bbox[3])>>4
	w := x1 - x0 + 1
	h := y1 - y0 + 1
	if w <= 0 || h <= 0 {
		return nil
	}
	rect := computePageRect(p.frame.FBP()*blocksPerPage, x0, y0, w, h, p.frame.FBW(), p.frame.PSM())
	return rect.pages()
}
