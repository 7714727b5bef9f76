// gs_test.go - shared test fixtures: a fake Backend recording every
// call a Translator makes, used across the package's _test.go files to
// drive end-to-end scenarios without a real GPU backend.

package gs

import "context"

type fakeBackend struct {
	nextTexID    uint64
	nextPaletteID uint64

	flushCount      int
	flushReasons    []FlushReason
	lastPass        RenderPassPayload
	paletteUploads  int
	copyCalls       int
	hostCopyCalls   int
	readbackCalls   int
	submitCount     int
}

func newFakeBackend() *fakeBackend { return &fakeBackend{} }

func (b *fakeBackend) CreateCachedTexture(ctx context.Context, desc TextureDescriptor, pixels []byte) (*CachedTextureHandle, error) {
	b.nextTexID++
	id := b.nextTexID
	return NewCachedTextureHandle(id, func(uint64) {}), nil
}

func (b *fakeBackend) UpdatePaletteCache(ctx context.Context, bank int, entries []byte) (PaletteInstance, error) {
	b.paletteUploads++
	b.nextPaletteID++
	return NewPaletteInstance(b.nextPaletteID), nil
}

func (b *fakeBackend) FlushRendering(ctx context.Context, pass RenderPassPayload) error {
	b.flushCount++
	b.flushReasons = append(b.flushReasons, pass.Reason)
	b.lastPass = pass
	return nil
}

func (b *fakeBackend) CopyVRAM(ctx context.Context, desc CopyDesc) error {
	b.copyCalls++
	return nil
}

func (b *fakeBackend) FlushHostVRAMCopy(ctx context.Context, dir TransferDir, basePage int, psm PSM, stride, x, y, w, h int, hostBuf []byte) error {
	b.hostCopyCalls++
	return nil
}

func (b *fakeBackend) FlushReadback(ctx context.Context, pages []int) error {
	b.readbackCalls++
	return nil
}

func (b *fakeBackend) FlushTransfer(ctx context.Context) error { return nil }

func (b *fakeBackend) FlushCacheUpload(ctx context.Context, handle *CachedTextureHandle) error {
	return nil
}

func (b *fakeBackend) TransferOverlapBarrier(ctx context.Context, pages []int) error { return nil }

func (b *fakeBackend) BeginHostVRAMAccess(ctx context.Context, pages []int, write bool) error {
	return nil
}

func (b *fakeBackend) EndHostWriteVRAMAccess(ctx context.Context, pages []int) error { return nil }

func (b *fakeBackend) FlushSubmit(ctx context.Context) (uint64, error) {
	b.submitCount++
	return uint64(b.submitCount), nil
}

func (b *fakeBackend) WaitTimeline(ctx context.Context, value uint64) error { return nil }

func (b *fakeBackend) VSync(ctx context.Context, info VSyncInfo) (ScanoutResult, error) {
	return ScanoutResult{}, nil
}

func (b *fakeBackend) InvalidateSuperSamplingState(ctx context.Context) {}

// newTestTranslator wires a fresh Translator to a fakeBackend, ready
// for register writes.
func newTestTranslator() (*Translator, *fakeBackend) {
	tl := NewTranslator(DefaultOptions())
	be := newFakeBackend()
	tl.AttachBackend(be)
	return tl, be
}

// adQuadword packs a register write in the A+D quadword encoding
// GIFTransfer's PACKED dispatcher expects: low 64 bits the payload,
// next byte the real register address.
func adQuadword(addr RegAddr, value uint64) []byte {
	buf := make([]byte, 16)
	for i := 0; i < 8; i++ {
		buf[i] = byte(value >> (8 * i))
	}
	buf[8] = byte(addr)
	return buf
}
