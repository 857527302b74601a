package index

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/poiesic/termdex/ai"
	"github.com/poiesic/termdex/core"
	"github.com/poiesic/termdex/registry"
)

// Mode selects which sub-indexes answer a query.
type Mode string

const (
	ModeExact    Mode = "exact"
	ModeFuzzy    Mode = "fuzzy"
	ModeSemantic Mode = "semantic"
	ModeHybrid   Mode = "hybrid"
)

// ParseMode converts a mode string, defaulting to hybrid when empty.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeExact, ModeFuzzy, ModeSemantic, ModeHybrid:
		return Mode(s), nil
	case "":
		return ModeHybrid, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// DefaultLimit is the result count when the caller passes k <= 0.
const DefaultLimit = 10

// Match is one ranked query hit.
type Match struct {
	Term  *core.Term
	Score float64
}

// Result is a ranked query response. Stale is observability metadata: it
// reports that the registry has advanced past the snapshot that served
// the query, never an error.
type Result struct {
	Matches []Match
	Stale   bool
	Version uint64
}

// Weights control hybrid score fusion.
type Weights struct {
	Lexical  float64
	Semantic float64
}

// Index answers exact, fuzzy, semantic, and hybrid queries over the most
// recently committed registry snapshot. Queries and rebuilds may run
// concurrently; a rebuild never blocks the serving path.
type Index struct {
	registry          *registry.Registry
	embedder          ai.Embedder
	weights           Weights
	semanticThreshold float32
	logger            *slog.Logger

	current   atomic.Pointer[snapshot]
	rebuildMu sync.Mutex

	// Embedding cache, keyed by normalized surface. Survives rebuilds so
	// only new surfaces hit the embedder.
	cacheMu    sync.Mutex
	embedCache map[string][]float32
}

// Option configures an Index.
type Option func(*Index) error

// WithWeights sets the hybrid fusion weights.
// Default is 0.5 lexical, 0.5 semantic.
func WithWeights(weights Weights) Option {
	return func(x *Index) error {
		if weights.Lexical < 0 || weights.Semantic < 0 || weights.Lexical+weights.Semantic == 0 {
			return fmt.Errorf("%w: lexical=%v semantic=%v", ErrInvalidWeights, weights.Lexical, weights.Semantic)
		}
		x.weights = weights
		return nil
	}
}

// WithSemanticThreshold sets the minimum cosine similarity for semantic
// candidates. Default is 0.25.
func WithSemanticThreshold(threshold float32) Option {
	return func(x *Index) error {
		x.semanticThreshold = threshold
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(x *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		x.logger = logger
		return nil
	}
}

// New creates an index over the given registry. The index serves nothing
// until the first Rebuild.
func New(reg *registry.Registry, embedder ai.Embedder, opts ...Option) (*Index, error) {
	if reg == nil {
		return nil, ErrRegistryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	x := &Index{
		registry:          reg,
		embedder:          embedder,
		weights:           Weights{Lexical: 0.5, Semantic: 0.5},
		semanticThreshold: 0.25,
		logger:            slog.Default(),
		embedCache:        make(map[string][]float32),
	}
	for _, opt := range opts {
		if err := opt(x); err != nil {
			return nil, err
		}
	}
	return x, nil
}

// Rebuild constructs a fresh snapshot from the current registry state and
// atomically replaces the serving snapshot. In-flight queries continue
// against the snapshot they started with. Rebuilds are serialized with
// each other but never block queries.
func (x *Index) Rebuild(ctx context.Context) error {
	x.rebuildMu.Lock()
	defer x.rebuildMu.Unlock()

	snap := x.registry.Snapshot()
	built, err := x.build(ctx, snap)
	if err != nil {
		x.logger.Error("index rebuild failed", "version", snap.Version, "err", err)
		return err
	}

	x.current.Store(built)
	x.logger.Info("index rebuilt",
		"version", built.version,
		"terms", len(built.terms),
		"surfaces", len(built.entries))
	return nil
}

// Stale reports whether the registry has advanced past the serving
// snapshot.
func (x *Index) Stale() bool {
	snap := x.current.Load()
	return snap == nil || x.registry.Version() > snap.version
}

// Query returns up to k terms ranked for the query text. A k <= 0 falls
// back to DefaultLimit.
func (x *Index) Query(ctx context.Context, text string, k int, mode Mode) (*Result, error) {
	snap := x.current.Load()
	if snap == nil {
		return nil, ErrNotBuilt
	}
	if k <= 0 {
		k = DefaultLimit
	}

	result := &Result{
		Stale:   x.registry.Version() > snap.version,
		Version: snap.version,
	}

	key := core.NormalizeKey(text)
	if key == "" {
		return result, nil
	}

	switch mode {
	case ModeExact:
		if term, ok := snap.exact[key]; ok {
			result.Matches = []Match{{Term: term, Score: 1.0}}
		}

	case ModeFuzzy:
		result.Matches = rank(snap.fuzzy(key), k)

	case ModeSemantic:
		scores, err := x.semanticScores(ctx, snap, key)
		if err != nil {
			return nil, err
		}
		result.Matches = rank(scores, k)

	case ModeHybrid:
		if term, ok := snap.exact[key]; ok {
			result.Matches = []Match{{Term: term, Score: 1.0}}
			break
		}
		lexical := snap.fuzzy(key)
		semantic, err := x.semanticScores(ctx, snap, key)
		if err != nil {
			return nil, err
		}
		result.Matches = rank(x.fuse(lexical, semantic), k)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	return result, nil
}

// semanticScores embeds the query and scans the snapshot's vectors.
func (x *Index) semanticScores(ctx context.Context, snap *snapshot, key string) (map[string]scored, error) {
	vector, err := x.embedder.EmbedText(ctx, key)
	if err != nil {
		x.logger.Error("error embedding query", "query", key, "err", err)
		return nil, err
	}
	return snap.semantic(vector, x.semanticThreshold), nil
}

// fuse combines lexical and semantic candidate sets by weighted sum. A
// term present in only one set contributes zero for the missing signal.
func (x *Index) fuse(lexical, semantic map[string]scored) map[string]scored {
	fused := make(map[string]scored, len(lexical)+len(semantic))
	for name, hit := range lexical {
		fused[name] = scored{term: hit.term, score: x.weights.Lexical * hit.score}
	}
	for name, hit := range semantic {
		combined := fused[name]
		combined.term = hit.term
		combined.score += x.weights.Semantic * hit.score
		fused[name] = combined
	}
	return fused
}

// scored is a per-term candidate score keyed by canonical name.
type scored struct {
	term  *core.Term
	score float64
}

// rank orders candidates by score descending, breaking ties by higher
// frequency then lexicographic name, and truncates to k.
func rank(candidates map[string]scored, k int) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, hit := range candidates {
		matches = append(matches, Match{Term: hit.term, Score: hit.score})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].Term.Frequency != matches[j].Term.Frequency {
			return matches[i].Term.Frequency > matches[j].Term.Frequency
		}
		return matches[i].Term.Name < matches[j].Term.Name
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}
