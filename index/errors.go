package index

import "errors"

var (
	// ErrRegistryRequired is returned when no registry is provided.
	ErrRegistryRequired = errors.New("registry is required")

	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrNotBuilt is returned by Query before the first rebuild.
	ErrNotBuilt = errors.New("index has not been built")

	// ErrUnknownMode is returned for an unrecognized query mode.
	ErrUnknownMode = errors.New("unknown query mode")

	// ErrInvalidWeights is returned when fusion weights are negative or
	// sum to zero.
	ErrInvalidWeights = errors.New("invalid fusion weights")
)
