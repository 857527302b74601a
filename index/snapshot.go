package index

import (
	"context"
	"fmt"

	"github.com/poiesic/termdex/core"
	"github.com/poiesic/termdex/registry"
)

// embedBatchSize bounds the surface count per embedder call.
const embedBatchSize = 32

// snapshot is the immutable servable form of one registry snapshot. Once
// built it is never mutated; queries read it lock-free.
type snapshot struct {
	version uint64
	terms   []*core.Term

	// exact maps every normalized name and alias to its canonical term.
	exact map[string]*core.Term

	// entries lists one record per distinct surface (name or alias);
	// grams maps each rune n-gram to the entries containing it.
	entries []surfaceEntry
	grams   map[string][]int
}

// surfaceEntry is one searchable surface with its embedding.
type surfaceEntry struct {
	key    string
	term   *core.Term
	vector []float32
}

// build constructs a servable snapshot. Embeddings are pulled from the
// cache where possible; only unseen surfaces hit the embedder.
func (x *Index) build(ctx context.Context, regSnap *registry.Snapshot) (*snapshot, error) {
	snap := &snapshot{
		version: regSnap.Version,
		terms:   regSnap.Terms,
		exact:   make(map[string]*core.Term, len(regSnap.Terms)+len(regSnap.Aliases)),
		grams:   make(map[string][]int),
	}

	for _, term := range regSnap.Terms {
		snap.exact[term.Name] = term
		snap.entries = append(snap.entries, surfaceEntry{key: term.Name, term: term})
		for _, alias := range term.Aliases {
			snap.exact[alias] = term
			snap.entries = append(snap.entries, surfaceEntry{key: alias, term: term})
		}
	}

	if err := x.embedEntries(ctx, snap.entries); err != nil {
		return nil, err
	}

	for i := range snap.entries {
		entry := &snap.entries[i]
		if entry.key == entry.term.Name {
			entry.term.Vector = entry.vector
		}
		for _, gram := range grams(entry.key) {
			snap.grams[gram] = append(snap.grams[gram], i)
		}
	}

	return snap, nil
}

// embedEntries fills each entry's vector, batching cache misses through
// the embedder and caching the results for future rebuilds.
func (x *Index) embedEntries(ctx context.Context, entries []surfaceEntry) error {
	x.cacheMu.Lock()
	defer x.cacheMu.Unlock()

	missing := make([]string, 0)
	seen := make(map[string]bool)
	for i := range entries {
		key := entries[i].key
		if _, ok := x.embedCache[key]; !ok && !seen[key] {
			seen[key] = true
			missing = append(missing, key)
		}
	}

	for start := 0; start < len(missing); start += embedBatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+embedBatchSize, len(missing))
		batch := missing[start:end]

		vectors, err := x.embedder.EmbedTexts(ctx, batch)
		if err != nil {
			return fmt.Errorf("embedding %d surfaces: %w", len(batch), err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedder returned %d vectors for %d surfaces", len(vectors), len(batch))
		}
		for i, key := range batch {
			x.embedCache[key] = vectors[i]
		}
	}

	for i := range entries {
		entries[i].vector = x.embedCache[entries[i].key]
	}
	return nil
}
