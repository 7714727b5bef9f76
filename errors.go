// errors.go - error categories per SPEC_FULL.md §6a / §7

package gs

import "errors"

// ErrBackendInit names the backend-initialization failure category. No
// function in this package returns it: AttachBackend takes an already
// constructed backend and cannot fail, and Init returns nothing.
// Everything else (programming violations, hazards, invariant
// violations) is handled internally.
var ErrBackendInit = errors.New("gs: backend init failed")

// ErrInvalidOptions is returned by Options.validate and OptionsFromFlags
// when Options fail validation (non-power-of-two VRAM size, unrecognized
// super-sampling level). NewTranslator does not return it: it logs a
// warning and falls back to DefaultOptions.
var ErrInvalidOptions = errors.New("gs: invalid options")
