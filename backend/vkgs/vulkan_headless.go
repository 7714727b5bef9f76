//go:build headless

// vulkan_headless.go - headless stand-in with no GPU dependencies
//
// Grounded on voodoo_vulkan_headless.go: the headless build tag swaps
// in a backend with zero Vulkan (or other GPU) imports, for CI and
// containers with no display/GPU present. It still renders correctly
// by delegating to the same software rasterizer the non-headless
// build falls back to; only the Vulkan probe is removed.
package vkgs

import (
	"context"
	"image"

	gs "github.com/intuitionamiga/gsxlate"
	"github.com/intuitionamiga/gsxlate/backend/software"
)

// Backend is the headless vkgs backend: software rendering only.
type Backend struct {
	software *software.Backend
}

// New returns a headless backend rendering into vram.
func New(vram *gs.VRAM) *Backend {
	return &Backend{software: software.New(vram)}
}

// Available always reports false in the headless build.
func (b *Backend) Available() bool { return false }

func (b *Backend) CreateCachedTexture(ctx context.Context, desc gs.TextureDescriptor, pixels []byte) (*gs.CachedTextureHandle, error) {
	return b.software.CreateCachedTexture(ctx, desc, pixels)
}

func (b *Backend) UpdatePaletteCache(ctx context.Context, bank int, entries []byte) (gs.PaletteInstance, error) {
	return b.software.UpdatePaletteCache(ctx, bank, entries)
}

func (b *Backend) FlushRendering(ctx context.Context, pass gs.RenderPassPayload) error {
	return b.software.FlushRendering(ctx, pass)
}

func (b *Backend) CopyVRAM(ctx context.Context, desc gs.CopyDesc) error {
	return b.software.CopyVRAM(ctx, desc)
}

func (b *Backend) FlushHostVRAMCopy(ctx context.Context, dir gs.TransferDir, basePage int, psm gs.PSM, stride, x, y, w, h int, hostBuf []byte) error {
	return b.software.FlushHostVRAMCopy(ctx, dir, basePage, psm, stride, x, y, w, h, hostBuf)
}

func (b *Backend) FlushReadback(ctx context.Context, pages []int) error {
	return b.software.FlushReadback(ctx, pages)
}

func (b *Backend) FlushTransfer(ctx context.Context) error {
	return b.software.FlushTransfer(ctx)
}

func (b *Backend) FlushCacheUpload(ctx context.Context, h *gs.CachedTextureHandle) error {
	return b.software.FlushCacheUpload(ctx, h)
}

func (b *Backend) TransferOverlapBarrier(ctx context.Context, pages []int) error {
	return b.software.TransferOverlapBarrier(ctx, pages)
}

func (b *Backend) BeginHostVRAMAccess(ctx context.Context, pages []int, write bool) error {
	return b.software.BeginHostVRAMAccess(ctx, pages, write)
}

func (b *Backend) EndHostWriteVRAMAccess(ctx context.Context, pages []int) error {
	return b.software.EndHostWriteVRAMAccess(ctx, pages)
}

func (b *Backend) FlushSubmit(ctx context.Context) (uint64, error) {
	return b.software.FlushSubmit(ctx)
}

func (b *Backend) WaitTimeline(ctx context.Context, value uint64) error {
	return b.software.WaitTimeline(ctx, value)
}

func (b *Backend) VSync(ctx context.Context, info gs.VSyncInfo) (gs.ScanoutResult, error) {
	return b.software.VSync(ctx, info)
}

func (b *Backend) InvalidateSuperSamplingState(ctx context.Context) {
	b.software.InvalidateSuperSamplingState(ctx)
}

// Scanout returns the most recently presented frame.
func (b *Backend) Scanout() image.Image { return b.software.Scanout() }

// Destroy is a no-op in the headless build.
func (b *Backend) Destroy() {}
