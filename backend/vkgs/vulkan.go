//go:build !headless

// vulkan.go - Vulkan-accelerated backend (SPEC_FULL.md §4.9)
//
// Grounded on voodoo_vulkan.go's VulkanBackend: a struct with commented
// -out Vulkan handle fields and every method delegating to a software
// backend underneath, since the teacher's own Vulkan pipeline was never
// finished past device probing. This backend follows the same shape:
// it genuinely probes for a usable Vulkan loader via goki/vulkan at
// construction time (Available reports the outcome), then renders every frame
// through the same reference rasterizer backend.software uses, since
// building a full graphics pipeline is out of scope here too.
package vkgs

import (
	"context"
	"image"

	vk "github.com/goki/vulkan"

	gs "github.com/intuitionamiga/gsxlate"
	"github.com/intuitionamiga/gsxlate/backend/software"
)

// Backend implements gs.Backend, delegating rendering to a software
// rasterizer while tracking whether a Vulkan loader is present on the
// host for a future accelerated path.
//
// Vulkan handles a real pipeline would need (not yet implemented):
//   instance       vk.Instance
//   physicalDevice vk.PhysicalDevice
//   device         vk.Device
//   queue          vk.Queue
//   renderPass     vk.RenderPass
//   pipeline       vk.Pipeline
type Backend struct {
	software  *software.Backend
	available bool
	instance  vk.Instance
}

// New returns a vkgs backend rendering into vram, probing for a usable
// Vulkan loader but always rasterizing through the software path.
func New(vram *gs.VRAM) *Backend {
	b := &Backend{software: software.New(vram)}
	b.available = probeVulkan(&b.instance)
	return b
}

// probeVulkan attempts to load the Vulkan library and create a bare
// instance, returning false (and leaving instance zeroed) on any
// failure rather than propagating an error: the caller always has the
// software path to fall back to.
func probeVulkan(instance *vk.Instance) bool {
	if err := vk.Init(); err != nil {
		return false
	}
	appInfo := &vk.ApplicationInfo{
		SType:         vk.StructureTypeApplicationInfo,
		PApplicationName: "gsxlate\x00",
		ApiVersion:        vk.ApiVersion10,
	}
	createInfo := &vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}
	var inst vk.Instance
	if res := vk.CreateInstance(createInfo, nil, &inst); res != vk.Success {
		return false
	}
	*instance = inst
	return true
}

// Available reports whether a Vulkan instance was successfully created.
// Exposed so a host can log which path is actually rendering.
func (b *Backend) Available() bool { return b.available }

func (b *Backend) CreateCachedTexture(ctx context.Context, desc gs.TextureDescriptor, pixels []byte) (*gs.CachedTextureHandle, error) {
	// TODO: upload to a VkImage when the accelerated pipeline exists.
	return b.software.CreateCachedTexture(ctx, desc, pixels)
}

func (b *Backend) UpdatePaletteCache(ctx context.Context, bank int, entries []byte) (gs.PaletteInstance, error) {
	return b.software.UpdatePaletteCache(ctx, bank, entries)
}

func (b *Backend) FlushRendering(ctx context.Context, pass gs.RenderPassPayload) error {
	// TODO: record into a command buffer and submit to the graphics
	// queue instead of rasterizing directly.
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
	// TODO: vkQueueSubmit with a timeline semaphore.
	return b.software.FlushSubmit(ctx)
}

func (b *Backend) WaitTimeline(ctx context.Context, value uint64) error {
	return b.software.WaitTimeline(ctx, value)
}

func (b *Backend) VSync(ctx context.Context, info gs.VSyncInfo) (gs.ScanoutResult, error) {
	// TODO: vkQueuePresent against a swapchain image.
	return b.software.VSync(ctx, info)
}

func (b *Backend) InvalidateSuperSamplingState(ctx context.Context) {
	b.software.InvalidateSuperSamplingState(ctx)
}

// Scanout returns the most recently presented frame.
func (b *Backend) Scanout() image.Image { return b.software.Scanout() }

// Destroy releases the probed Vulkan instance, if one was created.
func (b *Backend) Destroy() {
	if b.available {
		vk.DestroyInstance(b.instance, nil)
		b.available = false
	}
}
