package storage

import (
	"context"

	"github.com/poiesic/termdex/core"
)

// TermStore persists custom-origin terms across process restarts.
// Built-in terms are supplied by the fixed seed set and are never stored.
// Implementations must be thread-safe and support concurrent access.
type TermStore interface {
	// LoadTerms retrieves all persisted custom terms.
	// Called once at process start to rehydrate the registry.
	// Returns an empty slice when the store holds no terms.
	LoadTerms(ctx context.Context) ([]*core.Term, error)

	// SaveTerms replaces the persisted custom term set with the given terms.
	// The replacement is atomic: on error, the previously persisted set is
	// left intact. Terms with built-in origin are rejected.
	SaveTerms(ctx context.Context, terms []*core.Term) error

	// Close closes the storage backend and releases resources.
	Close() error
}
