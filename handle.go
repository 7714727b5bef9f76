// handle.go - refcounted backend resource handles (SPEC_FULL.md §3a)
//
// Grounded on the teacher's pattern of VoodooBackend returning plain
// handles/batches the engine owns until the next swap; generalized here
// into an explicit refcount since cached textures in this spec are held
// by three independent parties at once (tracker, render pass, backend)
// per spec.md §5 / §9.

package gs

import "sync/atomic"

// CachedTextureHandle is an opaque reference to a backend-resident
// texture image built from VRAM. It is released automatically once the
// tracker invalidates it and every render pass holding it has flushed.
type CachedTextureHandle struct {
	id       uint64
	refcount atomic.Int32
	release  func(id uint64)
}

func newCachedTextureHandle(id uint64, release func(uint64)) *CachedTextureHandle {
	h := &CachedTextureHandle{id: id, release: release}
	h.refcount.Store(1)
	return h
}

// NewCachedTextureHandle is the exported constructor backends use to
// mint handles for textures they manage outside the tracker's own
// registry (spec.md §6's Backend contract).
func NewCachedTextureHandle(id uint64, release func(uint64)) *CachedTextureHandle {
	return newCachedTextureHandle(id, release)
}

func (h *CachedTextureHandle) acquire() *CachedTextureHandle {
	h.refcount.Add(1)
	return h
}

func (h *CachedTextureHandle) Release() {
	if h.refcount.Add(-1) == 0 && h.release != nil {
		h.release(h.id)
	}
}

// ID returns the backend-assigned identifier for this cached texture,
// suitable for logging or equality comparisons.
func (h *CachedTextureHandle) ID() uint64 { return h.id }

// PaletteInstance is an opaque reference to a backend-resident CLUT
// upload, memoized by the render pass's palette ring (spec.md §4.7).
type PaletteInstance struct {
	id uint64
}

func (p PaletteInstance) ID() uint64 { return p.id }

// NewPaletteInstance is the exported constructor backends use to mint
// a memoization token for a freshly uploaded CLUT bank.
func NewPaletteInstance(id uint64) PaletteInstance {
	return PaletteInstance{id: id}
}
