package gs

import "testing"

func rectFor(page int) PageRect {
	return PageRect{BasePage: page, PageWidth: 1, PageHeight: 1, PageStride: 1, BlockMask: ^uint32(0)}
}

// Invariant 2 (spec.md §8): a page recorded as FB-write must report a
// hazard on a later overlapping texture read.
func TestPageTrackerTextureReadAfterFBWriteIsHazard(t *testing.T) {
	pt := NewPageTracker()
	r := rectFor(5)

	pt.markFBWrite(r)
	if !pt.markTextureRead(r) {
		t.Fatal("texture read overlapping a pending FB write must report a hazard")
	}
}

func TestPageTrackerTextureReadWithoutPriorWriteIsClean(t *testing.T) {
	pt := NewPageTracker()
	r := rectFor(5)
	if pt.markTextureRead(r) {
		t.Fatal("texture read on an untouched page should not report a hazard")
	}
}

func TestPageTrackerFlushRenderPassClearsHazard(t *testing.T) {
	pt := NewPageTracker()
	r := rectFor(5)
	pt.markFBWrite(r)
	pt.flushRenderPass(r.pages())
	if pt.markTextureRead(r) {
		t.Fatal("a flushed page should no longer report a pending-write hazard")
	}
}

func TestPageTrackerFBWriteOverCachedTextureIsHazard(t *testing.T) {
	pt := NewPageTracker()
	r := rectFor(5)
	handle := NewCachedTextureHandle(1, func(uint64) {})
	pt.registerCachedTexture(42, TextureDescriptor{}, handle, r)

	if !pt.markFBWrite(r) {
		t.Fatal("writing a page backing a cached texture must report a hazard")
	}
}

func TestPageTrackerInvalidateTextureCacheReleasesAndClearsLookup(t *testing.T) {
	pt := NewPageTracker()
	r := rectFor(5)
	released := false
	handle := NewCachedTextureHandle(1, func(uint64) { released = true })
	pt.registerCachedTexture(42, TextureDescriptor{}, handle, r)

	if _, ok := pt.findCachedTexture(42); !ok {
		t.Fatal("expected the texture to be findable immediately after registration")
	}

	pt.invalidateTextureCache(r)

	if _, ok := pt.findCachedTexture(42); ok {
		t.Fatal("invalidateTextureCache should drop the texture from the lookup table")
	}
	if !released {
		t.Fatal("invalidateTextureCache should release the handle's initial reference")
	}
}

func TestPageTrackerCopyHazardsOnCachedTextureDestination(t *testing.T) {
	pt := NewPageTracker()
	dst := rectFor(7)
	handle := NewCachedTextureHandle(1, func(uint64) {})
	pt.registerCachedTexture(1, TextureDescriptor{}, handle, dst)

	src := rectFor(99)
	if !pt.markTransferCopy(src, dst) {
		t.Fatal("copy writing into a page backing a cached texture must report a hazard")
	}
}

func TestPageTrackerCLUTClobberTracking(t *testing.T) {
	pt := NewPageTracker()
	if pt.clutDirty(3) {
		t.Fatal("a fresh tracker should report no CLUT banks dirty")
	}
	pt.registerCachedCLUTClobber(3)
	if !pt.clutDirty(3) {
		t.Fatal("expected bank 3 to be dirty after registerCachedCLUTClobber")
	}
	pt.clearCLUTClobber(3)
	if pt.clutDirty(3) {
		t.Fatal("clearCLUTClobber should clear the dirty flag")
	}
}

func TestPageTrackerHostWriteTimeline(t *testing.T) {
	pt := NewPageTracker()
	pages := []int{1, 2, 3}
	pt.recordHostWriteTimeline(pages, 7)
	if got := pt.hostReadTimelineFor(pages); got != 0 {
		t.Fatalf("recordHostWriteTimeline must not affect the read timeline, got %d", got)
	}
}
