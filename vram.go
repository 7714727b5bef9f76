// vram.go - local VRAM buffer and host map/unmap (spec.md §4.1/§5)
//
// Grounded on memory_bus.go's flat byte-slice memory model with a
// RWMutex guarding concurrent CPU/DMA access; the GS's local memory
// plays the same role here, guarded the same way since MapVRAMRead can
// be called from a different goroutine than WriteRegister (spec.md §5).

package gs

import "sync"

// VRAM is the GS's local memory buffer plus the RWMutex that arbitrates
// between register-stream writers and host map/unmap callers. Its size
// is fixed at construction (Options.VRAMSize) since a backend attached
// via AttachBackend holds a reference to this same instance.
type VRAM struct {
	mu  sync.RWMutex
	buf []byte
}

// NewVRAM allocates a zeroed local memory buffer of the given size,
// which must be a power of two (validated by Options.validate before
// this is called).
func NewVRAM(size int) *VRAM {
	return &VRAM{buf: make([]byte, size)}
}

// pageBytes returns the byte range [start,end) a page index spans.
func pageBytes(page int) (start, end int) {
	start = page * pageSizeBytes
	return start, start + pageSizeBytes
}

// MapVRAMRead locks the buffer for reading and returns a read-only
// view of the requested pages. Callers must call the returned release
// func when done.
func (v *VRAM) MapVRAMRead(pages []int) (data []byte, release func()) {
	v.mu.RLock()
	if len(pages) == 0 {
		return nil, func() { v.mu.RUnlock() }
	}
	min, max := pages[0], pages[0]
	for _, p := range pages {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	start, _ := pageBytes(min)
	_, end := pageBytes(max)
	return v.buf[start:end], func() { v.mu.RUnlock() }
}

// MapVRAMWrite locks the buffer for writing and returns a mutable view
// of the requested pages.
func (v *VRAM) MapVRAMWrite(pages []int) (data []byte, release func()) {
	v.mu.Lock()
	if len(pages) == 0 {
		return nil, func() { v.mu.Unlock() }
	}
	min, max := pages[0], pages[0]
	for _, p := range pages {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	start, _ := pageBytes(min)
	_, end := pageBytes(max)
	return v.buf[start:end], func() { v.mu.Unlock() }
}

// Read copies n bytes starting at byte offset off without taking the
// long-lived map/unmap path, used by the texture read in drawkick.go,
// the CLUT read in palette.go and the software backend.
func (v *VRAM) Read(off, n int) []byte {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]byte, n)
	copy(out, v.buf[off:off+n])
	return out
}

func (v *VRAM) Write(off int, data []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	copy(v.buf[off:], data)
}

// Clear zeroes the buffer in place, used by Translator.Init so a reset
// doesn't orphan a backend's reference to this VRAM instance.
func (v *VRAM) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.buf {
		v.buf[i] = 0
	}
}
