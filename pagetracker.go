// pagetracker.go - VRAM hazard tracking and the flush lattice
// (spec.md §4.1/§4.2/§4.8)
//
// Grounded on memory_bus.go's dirty-region bitmap (one bit per bus
// page, set on write and consulted before a DMA read); generalized here
// from a single read/write bit per page into PageState's richer set of
// pending flags plus cached-texture back-references, since the GS must
// also know WHO is holding a stale view of a page (a cached texture, a
// host timeline waiter) and not just whether it is dirty.

package gs

import "context"

// PageState is the per-page hazard record spec.md §4.1 describes.
type PageState struct {
	pendingFBWrite   bool
	pendingFBRead    bool
	pendingCopySrc   bool
	pendingCopyDst   bool
	writeBlockMask   uint32
	readBlockMask    uint32
	cachedTextures   []*CachedTextureHandle
	hostReadTimeline uint64
	hostWriteTimeline uint64
}

// PageTracker owns one PageState per VRAM page (there are 512 8 KiB
// pages in the GS's 4 MiB local memory) plus the cached-texture and
// CLUT registries a drawing kick consults before sampling.
type PageTracker struct {
	pages [512]PageState

	texturesByKey map[uint64]*cachedTextureEntry
	clutClobbered map[int]bool // palette bank -> dirty since last upload
}

type cachedTextureEntry struct {
	desc   TextureDescriptor
	handle *CachedTextureHandle
	pages  []int
}

func NewPageTracker() *PageTracker {
	return &PageTracker{
		texturesByKey: make(map[uint64]*cachedTextureEntry),
		clutClobbered: make(map[int]bool),
	}
}

func (pt *PageTracker) pageAt(i int) *PageState {
	if i < 0 || i >= len(pt.pages) {
		return &PageState{}
	}
	return &pt.pages[i]
}

// markFBWrite records that a drawing kick is about to touch the
// framebuffer/z-buffer pages in rect, and reports whether any of those
// pages previously held a cached texture or pending copy (i.e. whether
// this write needs a hazard flush first).
func (pt *PageTracker) markFBWrite(rect PageRect) (hazard bool) {
	for _, p := range rect.pages() {
		st := pt.pageAt(p)
		if len(st.cachedTextures) > 0 || st.pendingCopySrc || st.pendingCopyDst {
			hazard = true
		}
		st.pendingFBWrite = true
		st.writeBlockMask |= rect.BlockMask
	}
	return hazard
}

func (pt *PageTracker) markFBRead(rect PageRect) {
	for _, p := range rect.pages() {
		pt.pageAt(p).pendingFBRead = true
	}
}

func (pt *PageTracker) markTransferWrite(rect PageRect) (hazard bool) {
	for _, p := range rect.pages() {
		st := pt.pageAt(p)
		if len(st.cachedTextures) > 0 {
			hazard = true
		}
		st.pendingFBWrite = true
		st.writeBlockMask |= rect.BlockMask
	}
	return hazard
}

func (pt *PageTracker) markTransferCopy(src, dst PageRect) (hazard bool) {
	for _, p := range src.pages() {
		pt.pageAt(p).pendingCopySrc = true
	}
	for _, p := range dst.pages() {
		st := pt.pageAt(p)
		if len(st.cachedTextures) > 0 {
			hazard = true
		}
		st.pendingCopyDst = true
	}
	return hazard
}

// markTextureRead reports whether any page in rect has a pending write
// that hasn't yet been flushed (spec.md §4.2's texture-read hazard:
// sampling a page the current pass already wrote this frame).
func (pt *PageTracker) markTextureRead(rect PageRect) (hazard bool) {
	for _, p := range rect.pages() {
		if pt.pageAt(p).pendingFBWrite {
			hazard = true
		}
	}
	return hazard
}

func (pt *PageTracker) registerCachedTexture(key uint64, desc TextureDescriptor, handle *CachedTextureHandle, rect PageRect) {
	pages := rect.pages()
	pt.texturesByKey[key] = &cachedTextureEntry{desc: desc, handle: handle, pages: pages}
	for _, p := range pages {
		pt.pageAt(p).cachedTextures = append(pt.pageAt(p).cachedTextures, handle)
	}
}

func (pt *PageTracker) findCachedTexture(key uint64) (*CachedTextureHandle, bool) {
	e, ok := pt.texturesByKey[key]
	if !ok {
		return nil, false
	}
	return e.handle, true
}

func (pt *PageTracker) registerCachedCLUTClobber(bank int) {
	pt.clutClobbered[bank] = true
}

func (pt *PageTracker) clutDirty(bank int) bool {
	return pt.clutClobbered[bank]
}

func (pt *PageTracker) clearCLUTClobber(bank int) {
	delete(pt.clutClobbered, bank)
}

// invalidateTextureCache drops every cached texture overlapping rect,
// releasing its refcount and clearing the page back-references (spec.md
// §4.2, invoked when a write hazard is detected against a cached
// texture's backing pages).
func (pt *PageTracker) invalidateTextureCache(rect PageRect) {
	seen := make(map[uint64]struct{})
	for _, p := range rect.pages() {
		st := pt.pageAt(p)
		for _, h := range st.cachedTextures {
			seen[h.ID()] = struct{}{}
		}
		st.cachedTextures = nil
	}
	for key, e := range pt.texturesByKey {
		if _, hit := seen[e.handle.ID()]; hit {
			e.handle.Release()
			delete(pt.texturesByKey, key)
		}
	}
}

// flushRenderPass clears the pending write/read/copy flags for every
// page a just-submitted render pass touched, the last step of the
// flush lattice (spec.md §4.8 phase 5).
func (pt *PageTracker) flushRenderPass(pages []int) {
	for _, p := range pages {
		st := pt.pageAt(p)
		st.pendingFBWrite = false
		st.pendingFBRead = false
		st.pendingCopySrc = false
		st.pendingCopyDst = false
		st.writeBlockMask = 0
		st.readBlockMask = 0
	}
}

// hostReadTimelineFor reports the highest host-read timeline recorded
// for the given pages, and recordHostWriteTimeline stamps a host-write
// timeline onto them (spec.md §5). MapVRAMRead and MapVRAMWrite do not
// consult either: MapVRAMRead waits through awaitReadback instead.
func (pt *PageTracker) hostReadTimelineFor(pages []int) uint64 {
	var max uint64
	for _, p := range pages {
		if v := pt.pageAt(p).hostReadTimeline; v > max {
			max = v
		}
	}
	return max
}

func (pt *PageTracker) recordHostWriteTimeline(pages []int, v uint64) {
	for _, p := range pages {
		pt.pageAt(p).hostWriteTimeline = v
	}
}

// awaitReadback is a thin convenience wrapper: block on the backend
// until every page's last-recorded write timeline has retired.
func (pt *PageTracker) awaitReadback(ctx context.Context, b Backend, pages []int) error {
	return b.FlushReadback(ctx, pages)
}
