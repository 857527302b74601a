// Package index serves ranked terminology lookups over an immutable
// registry snapshot.
//
// Three sub-indexes cover the same snapshot: a hash map for exact
// name/alias lookup, an n-gram index feeding edit-distance-bounded fuzzy
// matching, and a flat cosine scan over term embeddings. Hybrid queries
// fuse the lexical and semantic scores with configurable weights; an
// exact hit short-circuits at score 1.0.
//
// The index changes only by full rebuild: Rebuild constructs a new
// snapshot off the serving path and atomically swaps it in, so in-flight
// queries keep the snapshot they started with. Query results carry a
// Stale flag when the registry has advanced past the serving snapshot.
package index
