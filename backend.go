// backend.go - the external GPU collaborator contract (spec.md §6)
//
// Grounded on video_voodoo.go's VoodooBackend interface: the teacher
// already draws a hard line between "engine decides what to draw" and
// "backend decides how to draw it", with the engine holding a
// VoodooBackend and calling a handful of verbs (Flush, UploadTexture,
// Swap). Generalized here to the larger verb set spec.md §6 demands:
// cached-texture lifetime, palette memoization, VRAM copy/readback
// barriers and an explicit flush-reason taxonomy.

package gs

import "context"

// FlushReason explains why the translator is handing a render pass (or
// a narrower barrier) to the backend, so the backend can choose a cheap
// path for the common cases (spec.md §4.8's flush lattice).
type FlushReason uint8

const (
	FlushReasonFBPointer FlushReason = iota
	FlushReasonOverflow
	FlushReasonTextureHazard
	FlushReasonCopyHazard
	FlushReasonSubmission
)

func (r FlushReason) String() string {
	switch r {
	case FlushReasonFBPointer:
		return "fb-pointer"
	case FlushReasonOverflow:
		return "overflow"
	case FlushReasonTextureHazard:
		return "texture-hazard"
	case FlushReasonCopyHazard:
		return "copy-hazard"
	case FlushReasonSubmission:
		return "submission"
	default:
		return "unknown"
	}
}

// CopyDesc describes a local-to-local VRAM copy the backend must
// perform directly (GPU-to-GPU blit) rather than through a host
// round-trip (spec.md §4.5).
type CopyDesc struct {
	SrcBasePage, DstBasePage int
	SrcPSM, DstPSM           PSM
	SrcStride, DstStride     int
	SrcX, SrcY               int
	DstX, DstY               int
	Width, Height            int
}

// RenderPassPayload is everything a backend needs to execute one
// accumulated render pass: the deduplicated state/texture tables plus
// the primitive stream referencing them by index (spec.md §3/§4.7).
type RenderPassPayload struct {
	States      []StateVector
	Textures    []TextureDescriptor
	Palettes    []PaletteInstance
	Primitives  []PrimitiveRecord
	FrameBase   FRAME
	DepthBase   ZBUF
	Scissor     SCISSOR
	ColorMask   uint32
	BoundingBox [4]int32 // minX, minY, maxX, maxY, integer pixel-aligned
	Reason      FlushReason

	// Label is a per-translator monotonic counter stamped on every pass
	// at creation, letting a backend order or correlate passes across
	// flushes independent of wall-clock time (spec.md §6).
	Label uint64

	// TileSizeLog2 is the coarse tile-size exponent tileCost chose for
	// this pass; SamplingRateXLog2/YLog2 are the super-sampling rates
	// configured via Options.SuperSampling (spec.md §6).
	TileSizeLog2      int
	SamplingRateXLog2 int
	SamplingRateYLog2 int

	// §3 accumulator flags, true if any primitive in the pass set them.
	ZSensitive               bool
	ZWrite                   bool
	HasColorFeedback         bool
	HasAA1                   bool
	HasScanmsk               bool
	IsPotentialColorFeedback bool
	IsPotentialDepthFeedback bool
	IsColorFeedback          bool
	FeedbackPSM              PSM
	FeedbackCPSM             PSM
}

// PrimitiveRecord is one drawing kick within a render pass: indices
// into the pass's deduped state/texture/palette tables plus the
// vertices the kick consumed.
type PrimitiveRecord struct {
	StateIndex   int
	TextureIndex int // may carry feedbackSentinelBit, see texdescriptor.go
	Prim         PRIM
	Vertices     []Vertex
}

// VSyncInfo carries the presentation-relevant state a backend needs to
// pick a scanout source at vsync (spec.md §4.9).
type VSyncInfo struct {
	DisplayBasePage int
	DisplayPSM      PSM
	DisplayStride   int
	Width, Height   int
	Interlaced      bool
	FieldIsOdd      bool
}

// ScanoutResult is returned from a vsync request: either a backend
// handle to present, or an indication that nothing changed.
type ScanoutResult struct {
	Handle  *CachedTextureHandle
	Changed bool
}

// Backend is the external GPU collaborator the translator hands
// command-stream results to. Every method may block; callers pass a
// context so long operations (submission, readback) remain cancellable.
type Backend interface {
	// CreateCachedTexture uploads VRAM pixels matching desc into a
	// backend-resident image and returns a refcounted handle.
	CreateCachedTexture(ctx context.Context, desc TextureDescriptor, pixels []byte) (*CachedTextureHandle, error)

	// UpdatePaletteCache uploads a CLUT bank and returns a memoization
	// token the render-pass builder can compare cheaply.
	UpdatePaletteCache(ctx context.Context, bank int, entries []byte) (PaletteInstance, error)

	// FlushRendering executes one accumulated render pass.
	FlushRendering(ctx context.Context, pass RenderPassPayload) error

	// CopyVRAM performs a GPU-side local-to-local copy.
	CopyVRAM(ctx context.Context, desc CopyDesc) error

	// FlushHostVRAMCopy executes a host-to-local or local-to-host
	// transfer queued by the transfer engine.
	FlushHostVRAMCopy(ctx context.Context, dir TransferDir, basePage int, psm PSM, stride, x, y, w, h int, hostBuf []byte) error

	// FlushReadback blocks until prior writes to the given page range
	// are visible to a subsequent host read (spec.md §4.1's host
	// timeline).
	FlushReadback(ctx context.Context, pages []int) error

	// FlushTransfer blocks until a previously queued transfer has
	// landed in local VRAM before a dependent draw or copy proceeds.
	FlushTransfer(ctx context.Context) error

	// FlushCacheUpload blocks until a cached-texture upload is visible
	// before the texture is sampled by a queued render pass.
	FlushCacheUpload(ctx context.Context, handle *CachedTextureHandle) error

	// TransferOverlapBarrier serializes a transfer against an
	// in-flight render pass that reads or writes the same pages.
	TransferOverlapBarrier(ctx context.Context, pages []int) error

	// BeginHostVRAMAccess / EndHostWriteVRAMAccess bracket a direct
	// host read or write of the VRAM buffer (spec.md §5's MapVRAMRead/
	// MapVRAMWrite), letting the backend flush or invalidate caches.
	BeginHostVRAMAccess(ctx context.Context, pages []int, write bool) error
	EndHostWriteVRAMAccess(ctx context.Context, pages []int) error

	// FlushSubmit hands accumulated work to the GPU's command queue and
	// returns a timeline value callers can wait on.
	FlushSubmit(ctx context.Context) (uint64, error)

	// WaitTimeline blocks until the given timeline value has retired.
	WaitTimeline(ctx context.Context, value uint64) error

	// VSync advances presentation by one field/frame.
	VSync(ctx context.Context, info VSyncInfo) (ScanoutResult, error)

	// InvalidateSuperSamplingState drops any backend-side supersampling
	// cache keyed on the previous frame's tile layout (spec.md §6's
	// tile-size cost function, REDESIGN FLAGS).
	InvalidateSuperSamplingState(ctx context.Context)
}
