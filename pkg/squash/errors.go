// pkg/squash/errors.go
package squash

import "errors"

var (
	// ErrPayloadTooLarge is returned when an input exceeds the configured
	// byte ceiling. This is an item-level failure: no codec is attempted.
	ErrPayloadTooLarge = errors.New("input exceeds configured size ceiling")

	// ErrCodecUnavailable is returned when a configured codec is not registered
	ErrCodecUnavailable = errors.New("codec not available")

	// ErrCompressionFailed is returned when a codec invocation fails
	ErrCompressionFailed = errors.New("compression failed")

	// ErrVerifyMismatch is returned when round-trip verification does not
	// reproduce the original payload
	ErrVerifyMismatch = errors.New("round-trip verification mismatch")

	// ErrNoAlgorithms is returned when an ItemConfig is built with zero codecs
	ErrNoAlgorithms = errors.New("at least one algorithm is required")

	// ErrInvalidLevel is returned when a compression level is outside the
	// codec's valid range
	ErrInvalidLevel = errors.New("compression level out of range")

	// ErrInvalidMaxBytes is returned for a negative size ceiling
	ErrInvalidMaxBytes = errors.New("max bytes must not be negative")

	// ErrNoInputs is returned when a batch run is given nothing to compress
	ErrNoInputs = errors.New("no inputs to compress")
)
