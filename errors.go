package matfree

import "errors"

var (
	// ErrConfig is returned for configuration values out of range or
	// unparsable configuration files.
	ErrConfig = errors.New("matfree: invalid configuration")

	// ErrUnknownDim is returned when the operator's dimension is neither
	// declared nor inferred yet.
	ErrUnknownDim = errors.New("matfree: operator dimension unknown")
)
