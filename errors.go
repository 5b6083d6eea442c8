package watermark

import "errors"

// Error categories surfaced by the engine. Callers match them with
// errors.Is; the wrapped message carries the detail.
var (
	// ErrInitialization marks a failed engine construction: the embedded
	// alpha-map asset is missing or malformed. A handle that failed to
	// construct must not be used.
	ErrInitialization = errors.New("watermark: engine initialization failed")

	// ErrInvalidDimensions marks a geometry query with non-positive width
	// or height. This is a caller bug, never retried internally.
	ErrInvalidDimensions = errors.New("watermark: invalid image dimensions")

	// ErrProcessing marks an unprocessable removal input, such as a nil or
	// zero-area image. The call fails atomically; no partial output is
	// returned.
	ErrProcessing = errors.New("watermark: image cannot be processed")
)
