package sampling

import "errors"

// Sentinel errors returned by samplers and constructors. Callers match them
// with errors.Is; the wrapped messages add the offending values.
var (
	// ErrInvalidVideoDuration reports a video duration that is not a
	// positive finite number.
	ErrInvalidVideoDuration = errors.New("video duration must be a positive finite number")

	// ErrInvalidLastClipTime reports a last clip time that is not a
	// non-negative finite number.
	ErrInvalidLastClipTime = errors.New("last clip time must be a non-negative finite number")

	// ErrInvalidClipDuration reports a clip duration that is not a
	// positive finite number.
	ErrInvalidClipDuration = errors.New("clip duration must be a positive finite number")
)
