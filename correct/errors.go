package correct

import "errors"

var (
	// ErrIndexRequired is returned when an index is not provided.
	ErrIndexRequired = errors.New("index required")

	// ErrInvalidThreshold is returned for thresholds outside (0, 1].
	ErrInvalidThreshold = errors.New("invalid threshold")
)
