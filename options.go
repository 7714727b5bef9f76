// options.go - translator configuration (SPEC_FULL.md §2b)
//
// Grounded on the teacher's flag-parsed startup options (machine model,
// video standard, fullscreen) in main.go; generalized here to the
// translator's own small knob set since there is no longer a single
// binary entry point to own flag parsing (package gs is a library).

package gs

import "flag"

// SuperSampling selects the render pass's super-sampling factor,
// mapping to an (X, Y) sampling-rate exponent pair per spec.md §6.
type SuperSampling uint8

const (
	SuperSampling1x SuperSampling = iota
	SuperSampling2x
	SuperSampling4x
	SuperSampling8x
	SuperSampling16x
)

// rates returns the (sampling_rate_x_log2, sampling_rate_y_log2) pair
// spec.md §6 assigns to each super-sampling level, and whether s is a
// recognized level at all.
func (s SuperSampling) rates() (xLog2, yLog2 int, ok bool) {
	switch s {
	case SuperSampling1x:
		return 0, 0, true
	case SuperSampling2x:
		return 0, 1, true
	case SuperSampling4x:
		return 1, 1, true
	case SuperSampling8x:
		return 1, 2, true
	case SuperSampling16x:
		return 2, 2, true
	default:
		return 0, 0, false
	}
}

func (s SuperSampling) String() string {
	switch s {
	case SuperSampling1x:
		return "x1"
	case SuperSampling2x:
		return "x2"
	case SuperSampling4x:
		return "x4"
	case SuperSampling8x:
		return "x8"
	case SuperSampling16x:
		return "x16"
	default:
		return "invalid"
	}
}

// defaultVRAMSize is the GS's fixed 4 MiB local memory.
const defaultVRAMSize = 4 * 1024 * 1024

// Options configures a Translator at construction time.
type Options struct {
	// VRAMSize is the size, in bytes, of the translator's local memory
	// buffer. Must be a power of two (spec.md §6 init).
	VRAMSize int

	// SuperSampling selects the pass's super-sampling factor, biasing
	// tileCost's chosen tile size and reported to the backend so it can
	// size its own sampling buffers (spec.md §6).
	SuperSampling SuperSampling

	// MaxRenderPassPrimitives overrides renderPassPrimitiveLimit when
	// nonzero, letting a host trade backend command-buffer size against
	// flush frequency.
	MaxRenderPassPrimitives int

	// Logger receives structured log events; nil keeps the package's
	// default no-op logger.
	Logger Logger
}

// DefaultOptions returns the translator's default configuration.
func DefaultOptions() Options {
	return Options{VRAMSize: defaultVRAMSize, SuperSampling: SuperSampling1x}
}

func (o Options) validate() error {
	if o.MaxRenderPassPrimitives < 0 {
		return ErrInvalidOptions
	}
	if o.VRAMSize <= 0 || !isPowerOfTwo(o.VRAMSize) {
		return ErrInvalidOptions
	}
	if _, _, ok := o.SuperSampling.rates(); !ok {
		return ErrInvalidOptions
	}
	return nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// OptionsFromFlags registers Options fields on fs and returns a
// pointer the caller should read after fs.Parse, mirroring the
// teacher's flag-based startup configuration style.
func OptionsFromFlags(fs *flag.FlagSet) *Options {
	o := &Options{}
	fs.IntVar(&o.VRAMSize, "gs-vram-size", defaultVRAMSize,
		"size in bytes of the GS local memory buffer (must be a power of two)")
	fs.Func("gs-super-sampling", "super-sampling factor: x1, x2, x4, x8 or x16", func(v string) error {
		switch v {
		case "x1":
			o.SuperSampling = SuperSampling1x
		case "x2":
			o.SuperSampling = SuperSampling2x
		case "x4":
			o.SuperSampling = SuperSampling4x
		case "x8":
			o.SuperSampling = SuperSampling8x
		case "x16":
			o.SuperSampling = SuperSampling16x
		default:
			return ErrInvalidOptions
		}
		return nil
	})
	fs.IntVar(&o.MaxRenderPassPrimitives, "gs-max-pass-primitives", 0,
		"override the render pass primitive limit before an overflow flush (0 = default)")
	return o
}
