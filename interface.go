// interface.go - top-level command-stream translator (spec.md §5)
//
// Grounded on video_voodoo.go's VoodooEngine: the single struct that
// owns register state, a backend reference and the engine/backend
// split the whole module is built around. Generalized here into the
// wider component set spec.md §4 enumerates (page tracker, vertex
// queue, render pass, palette ring, transfer engine, GIF path state).

package gs

import "context"

// FlushStats accumulates counters a host can sample between frames to
// understand why flushes happened (spec.md §7's observability surface).
type FlushStats struct {
	ByReason  map[FlushReason]int
	Passes    int
	Primitives int
}

func newFlushStats() FlushStats {
	return FlushStats{ByReason: make(map[FlushReason]int)}
}

// Translator is the command-stream translator and VRAM hazard tracker:
// the library's single entry point, consuming register writes and GIF
// packets and handing accumulated render passes to a Backend.
type Translator struct {
	rf      *RegisterFile
	backend Backend
	tracker *PageTracker
	vram    *VRAM
	gif     GIFPathState

	vq          VertexQueue
	pass        *RenderPass
	paletteRing PaletteRing
	transfer    *pendingTransfer

	opts Options

	background context.Context
	stats      FlushStats
	timelines  []uint64

	nextLabel uint64 // monotonic render-pass label (spec.md §6)
}

// NewTranslator allocates a RegisterFile, PageTracker and VRAM buffer,
// ready for a backend to be attached with AttachBackend. Splitting
// construction from backend attachment lets a backend constructor
// that itself needs the shared VRAM buffer (software.New, vkgs.New)
// receive it via VRAM() before the Translator is usable.
func NewTranslator(opts Options) *Translator {
	if err := opts.validate(); err != nil {
		logger().Warnw("gs: invalid options, using defaults", "err", err)
		opts = DefaultOptions()
	}
	if opts.Logger != nil {
		SetLogger(opts.Logger)
	}
	tl := &Translator{
		rf:         NewRegisterFile(),
		tracker:    NewPageTracker(),
		vram:       NewVRAM(opts.VRAMSize),
		opts:       opts,
		background: context.Background(),
		stats:      newFlushStats(),
	}
	tl.rf.tl = tl
	return tl
}

// VRAM returns the translator's shared local-memory buffer, for
// backend constructors that render directly into it.
func (tl *Translator) VRAM() *VRAM { return tl.vram }

// AttachBackend wires the external GPU collaborator the translator
// will hand render passes, copies and transfers to.
func (tl *Translator) AttachBackend(backend Backend) { tl.backend = backend }

func (tl *Translator) ctx() context.Context { return tl.background }

// newPass allocates the next render pass, stamping it with a fresh
// monotonic label and the configured super-sampling rates so every
// pass the backend sees can be ordered and sized independently of
// frame boundaries (spec.md §6).
func (tl *Translator) newPass(frame FRAME, zbuf ZBUF, scissor SCISSOR) *RenderPass {
	xLog2, yLog2, _ := tl.opts.SuperSampling.rates()
	tl.nextLabel++
	return newRenderPass(frame, zbuf, scissor, tl.opts.MaxRenderPassPrimitives, tl.nextLabel, xLog2, yLog2)
}

// Init resets every component to its power-on state. The VRAM buffer
// itself is cleared in place rather than reallocated, since a backend
// attached via AttachBackend holds a reference to this same instance.
func (tl *Translator) Init() {
	tl.rf = NewRegisterFile()
	tl.rf.tl = tl
	tl.tracker = NewPageTracker()
	tl.vram.Clear()
	tl.vq.reset()
	tl.gif = GIFPathState{}
	tl.pass = nil
	tl.paletteRing.reset()
	tl.transfer = nil
	tl.stats = newFlushStats()
	tl.nextLabel = 0
}

// WriteRegister dispatches one A+D register write.
func (tl *Translator) WriteRegister(addr RegAddr, value uint64) {
	tl.rf.Write(addr, value)
}

// GIFTransfer decodes and dispatches one GIF packet on the given path
// (0-3). data must contain the 16-byte GIFTag followed by its payload
// quadwords.
func (tl *Translator) GIFTransfer(path int, data []byte) {
	if len(data) < 16 || path < 0 || path > 3 {
		return
	}
	tag := tl.gif.feedPacket(path, data)
	body := data[16:]

	switch tag.Flag {
	case GIFFlagPacked:
		tl.dispatchPacked(path, tag, body)
	case GIFFlagREGLIST:
		tl.dispatchREGLIST(path, tag, body)
	case GIFFlagIMAGE:
		tl.dispatchIMAGE(path, tag, body)
	case GIFFlagDisable:
		// path disabled until re-enabled by a privileged register; no
		// payload to consume.
	}
}

func (tl *Translator) dispatchPacked(path int, tag GIFTag, body []byte) {
	qw := 0
	for {
		addr, ok := tl.gif.registerSelector(path)
		if !ok {
			return
		}
		if qw*16+16 > len(body) {
			return
		}
		chunk := body[qw*16 : qw*16+16]
		qw++
		tl.dispatchADQuadword(addr, chunk)
	}
}

func (tl *Translator) dispatchADQuadword(addr RegAddr, chunk []byte) {
	if addr == regSelectorAD {
		// A+D: low 64 bits are the value, high 64 bits carry the real
		// register address in their low byte.
		value := leUint64(chunk[0:8])
		realAddr := RegAddr(chunk[8])
		tl.rf.Write(realAddr, value)
		return
	}
	if addr == regSelectorNOP {
		return
	}
	tl.rf.Write(addr, leUint64(chunk[0:8]))
}

func (tl *Translator) dispatchREGLIST(path int, tag GIFTag, body []byte) {
	qw := 0
	for {
		addr, ok := tl.gif.registerSelector(path)
		if !ok {
			return
		}
		// REGLIST packs two 64-bit register values per 128-bit qword.
		bit := qw % 2
		byteOff := (qw / 2) * 16
		if byteOff+16 > len(body) {
			return
		}
		var value uint64
		if bit == 0 {
			value = leUint64(body[byteOff : byteOff+8])
		} else {
			value = leUint64(body[byteOff+8 : byteOff+16])
		}
		qw++
		if addr == regSelectorNOP {
			continue
		}
		tl.rf.Write(addr, value)
	}
}

func (tl *Translator) dispatchIMAGE(path int, tag GIFTag, body []byte) {
	// IMAGE mode streams raw HWREG payload qwords; each maps to one
	// HWREG register write consumed by the transfer engine.
	for off := 0; off+8 <= len(body); off += 8 {
		tl.rf.hwregWrite(leUint64(body[off : off+8]))
	}
}

func leUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8 && i < len(b); i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// MapVRAMRead exposes a read-only view of the given pages to the host,
// waiting on the backend's readback timeline first so the host sees a
// coherent snapshot (spec.md §5).
func (tl *Translator) MapVRAMRead(pages []int) ([]byte, func(), error) {
	if err := tl.tracker.awaitReadback(tl.ctx(), tl.backend, pages); err != nil {
		return nil, nil, err
	}
	data, release := tl.vram.MapVRAMRead(pages)
	return data, release, nil
}

// MapVRAMWrite exposes a mutable view of the given pages to the host.
// Callers must call EndVRAMWrite after writing so cached textures
// overlapping those pages are invalidated.
func (tl *Translator) MapVRAMWrite(pages []int) ([]byte, func(), error) {
	if err := tl.backend.BeginHostVRAMAccess(tl.ctx(), pages, true); err != nil {
		return nil, nil, err
	}
	data, release := tl.vram.MapVRAMWrite(pages)
	return data, release, nil
}

// EndVRAMWrite completes a host write begun with MapVRAMWrite.
func (tl *Translator) EndVRAMWrite(pages []int) error {
	for _, p := range pages {
		tl.tracker.invalidateTextureCache(PageRect{BasePage: p, PageWidth: 1, PageHeight: 1, PageStride: 1, BlockMask: ^uint32(0)})
	}
	return tl.backend.EndHostWriteVRAMAccess(tl.ctx(), pages)
}

// Flush forces the current render pass (if any) to the backend and
// starts the next primitive, if any, in a fresh pass.
func (tl *Translator) Flush(reason FlushReason) {
	tl.flush(reason)
	tl.pass = nil
}

func (tl *Translator) flush(reason FlushReason) {
	if tl.pass == nil || len(tl.pass.primitives) == 0 {
		return
	}
	payload := tl.pass.payload(reason)
	if err := tl.backend.FlushRendering(tl.ctx(), payload); err != nil {
		logger().Errorw("gs: render pass flush failed", "reason", reason, "err", err)
	}
	pages := tl.pass.touchedFBPages()
	tl.tracker.flushRenderPass(pages)
	tl.pass.releaseHandles()

	tl.stats.Passes++
	tl.stats.Primitives += len(payload.Primitives)
	tl.stats.ByReason[reason]++

	if v, err := tl.backend.FlushSubmit(tl.ctx()); err != nil {
		logger().Errorw("gs: submit failed", "err", err)
	} else {
		tl.timelines = append(tl.timelines, v)
	}
}

// VSync flushes any outstanding work then advances presentation.
func (tl *Translator) VSync(info VSyncInfo) (ScanoutResult, error) {
	if reason := FlushReasonSubmission; tl.pass != nil {
		tl.flush(reason)
		tl.pass = nil
	}
	tl.backend.InvalidateSuperSamplingState(tl.ctx())
	return tl.backend.VSync(tl.ctx(), info)
}

// ConsumeFlushStats returns the accumulated flush counters and resets
// them, so a host can sample per-frame statistics (spec.md §7).
func (tl *Translator) ConsumeFlushStats() FlushStats {
	s := tl.stats
	tl.stats = newFlushStats()
	return s
}

// GetAccumulatedTimestamps returns every backend submission timeline
// value recorded since the last call, for host-side frame pacing.
func (tl *Translator) GetAccumulatedTimestamps() []uint64 {
	out := tl.timelines
	tl.timelines = nil
	return out
}
