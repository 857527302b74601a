package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated from the normalized term name via content-based hashing,
// so the same name always maps to the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Origin identifies how a term entered the registry.
type Origin int

const (
	// OriginBuiltin marks a term from the fixed seed dictionary.
	// Built-in terms are immutable: they cannot be deleted, only enriched
	// with additional aliases.
	OriginBuiltin Origin = iota + 1
	// OriginCustom marks a term added by ingestion or a direct add request.
	OriginCustom
)

// DefaultCategory is assigned when neither extraction nor upload resolves
// a category for a term.
const DefaultCategory = "General"

// Term is the canonical representation of a domain vocabulary entry.
// Name is the unique key after normalization (see NormalizeKey); every
// alias resolves to exactly one Term across the whole registry.
type Term struct {
	Id         ID
	Name       string
	Category   string
	Aliases    []string
	Frequency  int64 // Observed mentions across ingested sources, used as a ranking signal
	Origin     Origin
	Vector     []float32 // Embedding vector for semantic search (populated during index rebuild)
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Clone returns a deep copy of the term. Snapshots hand out clones so
// index consumers can never mutate registry state.
func (t *Term) Clone() *Term {
	c := *t
	c.Aliases = append([]string(nil), t.Aliases...)
	c.Vector = append([]float32(nil), t.Vector...)
	return &c
}

// HasAlias reports whether the term carries the given alias.
func (t *Term) HasAlias(alias string) bool {
	for _, a := range t.Aliases {
		if a == alias {
			return true
		}
	}
	return false
}

// Candidate is a provisional term mention proposed by the extractor.
// It has not yet been merged into the registry.
type Candidate struct {
	Surface      string
	CategoryHint string
	AliasHints   []string
	Frequency    int64
}
