package index

import (
	"context"
	"testing"

	"github.com/poiesic/termdex/ai/mock"
	"github.com/poiesic/termdex/core"
	"github.com/poiesic/termdex/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T, custom ...*core.Term) *registry.Registry {
	t.Helper()
	reg, err := registry.New()
	require.NoError(t, err)
	require.NoError(t, reg.Restore(nil, custom))
	return reg
}

func builtIndex(t *testing.T, reg *registry.Registry, opts ...Option) *Index {
	t.Helper()
	idx, err := New(reg, mock.NewEmbedder(), opts...)
	require.NoError(t, err)
	require.NoError(t, idx.Rebuild(context.Background()))
	return idx
}

func TestNew_Validation(t *testing.T) {
	reg := testRegistry(t)

	_, err := New(nil, mock.NewEmbedder())
	assert.ErrorIs(t, err, ErrRegistryRequired)

	_, err = New(reg, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = New(reg, mock.NewEmbedder(), WithWeights(Weights{Lexical: -1, Semantic: 1}))
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestQuery_BeforeRebuild(t *testing.T) {
	idx, err := New(testRegistry(t), mock.NewEmbedder())
	require.NoError(t, err)

	_, err = idx.Query(context.Background(), "RC", 5, ModeExact)
	assert.ErrorIs(t, err, ErrNotBuilt)
}

func TestQuery_ExactAlias(t *testing.T) {
	reg := testRegistry(t, &core.Term{
		Name:    "鉄筋コンクリート",
		Aliases: []string{"RC"},
		Origin:  core.OriginCustom,
	})
	idx := builtIndex(t, reg)

	for _, query := range []string{"RC", "rc", "ＲＣ"} {
		result, err := idx.Query(context.Background(), query, 5, ModeExact)
		require.NoError(t, err)
		require.Len(t, result.Matches, 1, "query %q", query)
		assert.Equal(t, "鉄筋コンクリート", result.Matches[0].Term.Name)
		assert.Equal(t, 1.0, result.Matches[0].Score)
	}
}

func TestQuery_ExactMiss(t *testing.T) {
	idx := builtIndex(t, testRegistry(t, &core.Term{Name: "防水工事", Origin: core.OriginCustom}))

	result, err := idx.Query(context.Background(), "存在しない", 5, ModeExact)
	require.NoError(t, err)
	assert.Empty(t, result.Matches)
}

func TestQuery_HybridShortCircuit(t *testing.T) {
	reg := testRegistry(t,
		&core.Term{Name: "鉄筋コンクリート", Aliases: []string{"RC"}, Origin: core.OriginCustom},
		&core.Term{Name: "プレストレストコンクリート", Aliases: []string{"PC"}, Origin: core.OriginCustom},
	)
	idx := builtIndex(t, reg)

	result, err := idx.Query(context.Background(), "RC", 5, ModeHybrid)
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "鉄筋コンクリート", result.Matches[0].Term.Name)
	assert.Equal(t, 1.0, result.Matches[0].Score)
}

func TestQuery_FuzzyWithinBound(t *testing.T) {
	idx := builtIndex(t, testRegistry(t, &core.Term{Name: "防水工事", Origin: core.OriginCustom}))

	// One substituted rune within the proportional bound.
	result, err := idx.Query(context.Background(), "防水公事", 5, ModeFuzzy)
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "防水工事", result.Matches[0].Term.Name)
	assert.InDelta(t, 0.75, result.Matches[0].Score, 0.001)
}

func TestQuery_FuzzyBeyondBoundRejected(t *testing.T) {
	idx := builtIndex(t, testRegistry(t, &core.Term{Name: "防水工事", Origin: core.OriginCustom}))

	// Two missing runes exceed the bound for a two-rune query.
	result, err := idx.Query(context.Background(), "防水", 5, ModeFuzzy)
	require.NoError(t, err)
	assert.Empty(t, result.Matches)
}

func TestQuery_FuzzyTieBreaks(t *testing.T) {
	idx := builtIndex(t, testRegistry(t,
		&core.Term{Name: "防水塗装", Frequency: 5, Origin: core.OriginCustom},
		&core.Term{Name: "防水塗布", Frequency: 1, Origin: core.OriginCustom},
	))

	// Equidistant from both; higher frequency ranks first.
	result, err := idx.Query(context.Background(), "防水塗工", 5, ModeFuzzy)
	require.NoError(t, err)
	require.Len(t, result.Matches, 2)
	assert.Equal(t, "防水塗装", result.Matches[0].Term.Name)
	assert.Equal(t, "防水塗布", result.Matches[1].Term.Name)
}

// orthogonalEmbedder maps known surfaces to fixed orthogonal unit
// vectors so semantic similarities are exact.
func orthogonalEmbedder(vocab map[string][]float32) *mock.Embedder {
	lookup := func(text string) []float32 {
		if v, ok := vocab[text]; ok {
			return v
		}
		return []float32{0, 0, 0, 1}
	}
	m := mock.NewEmbedder()
	m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return lookup(text), nil
	}
	m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, text := range texts {
			out[i] = lookup(text)
		}
		return out, nil
	}
	return m
}

func TestQuery_HybridFusion(t *testing.T) {
	reg := testRegistry(t,
		&core.Term{Name: "タイル張り", Origin: core.OriginCustom},
		&core.Term{Name: "モルタル", Origin: core.OriginCustom},
	)

	embedder := orthogonalEmbedder(map[string][]float32{
		"タイル張り": {1, 0, 0, 0},
		"モルタル":  {0, 1, 0, 0},
		"タイル貼り": {0, 1, 0, 0}, // query: semantically モルタル, lexically タイル張り
	})
	idx, err := New(reg, embedder)
	require.NoError(t, err)
	require.NoError(t, idx.Rebuild(context.Background()))

	result, err := idx.Query(context.Background(), "タイル貼り", 5, ModeHybrid)
	require.NoError(t, err)
	require.Len(t, result.Matches, 2)

	// モルタル: 0.5*0 lexical + 0.5*1.0 semantic = 0.5
	assert.Equal(t, "モルタル", result.Matches[0].Term.Name)
	assert.InDelta(t, 0.5, result.Matches[0].Score, 0.001)

	// タイル張り: 0.5*0.8 lexical + 0.5*0 semantic = 0.4
	assert.Equal(t, "タイル張り", result.Matches[1].Term.Name)
	assert.InDelta(t, 0.4, result.Matches[1].Score, 0.001)
}

func TestQuery_SemanticThreshold(t *testing.T) {
	reg := testRegistry(t, &core.Term{Name: "モルタル", Origin: core.OriginCustom})
	embedder := orthogonalEmbedder(map[string][]float32{
		"モルタル": {1, 0, 0, 0},
		"検索語":  {0.2, 0, 0, 0.98},
	})
	idx, err := New(reg, embedder)
	require.NoError(t, err)
	require.NoError(t, idx.Rebuild(context.Background()))

	result, err := idx.Query(context.Background(), "検索語", 5, ModeSemantic)
	require.NoError(t, err)
	assert.Empty(t, result.Matches, "similarity 0.2 sits below the 0.25 threshold")
}

func TestQuery_StaleMetadata(t *testing.T) {
	reg := testRegistry(t, &core.Term{Name: "防水工事", Origin: core.OriginCustom})
	idx := builtIndex(t, reg)

	result, err := idx.Query(context.Background(), "防水工事", 5, ModeExact)
	require.NoError(t, err)
	assert.False(t, result.Stale)

	reg.Merge([]*core.Candidate{{Surface: "タイル張り", Frequency: 1}})
	assert.True(t, idx.Stale())

	result, err = idx.Query(context.Background(), "防水工事", 5, ModeExact)
	require.NoError(t, err)
	assert.True(t, result.Stale)
	// Still served, and still correct, from the older snapshot.
	require.Len(t, result.Matches, 1)

	require.NoError(t, idx.Rebuild(context.Background()))
	result, err = idx.Query(context.Background(), "防水工事", 5, ModeExact)
	require.NoError(t, err)
	assert.False(t, result.Stale)
}

func TestRebuild_Deterministic(t *testing.T) {
	reg := testRegistry(t,
		&core.Term{Name: "鉄筋コンクリート", Aliases: []string{"RC"}, Frequency: 3, Origin: core.OriginCustom},
		&core.Term{Name: "防水工事", Frequency: 1, Origin: core.OriginCustom},
	)
	idx := builtIndex(t, reg)

	queries := []string{"RC", "防水公事", "コンクリート"}
	modes := []Mode{ModeExact, ModeFuzzy, ModeSemantic, ModeHybrid}

	before := make(map[string][]Match)
	for _, q := range queries {
		for _, m := range modes {
			result, err := idx.Query(context.Background(), q, 5, m)
			require.NoError(t, err)
			before[q+"/"+string(m)] = result.Matches
		}
	}

	require.NoError(t, idx.Rebuild(context.Background()))

	for _, q := range queries {
		for _, m := range modes {
			result, err := idx.Query(context.Background(), q, 5, m)
			require.NoError(t, err)
			prior := before[q+"/"+string(m)]
			require.Len(t, result.Matches, len(prior))
			for i := range prior {
				assert.Equal(t, prior[i].Term.Name, result.Matches[i].Term.Name)
				assert.Equal(t, prior[i].Score, result.Matches[i].Score)
			}
		}
	}
}

func TestRebuild_EmbeddingCache(t *testing.T) {
	reg := testRegistry(t, &core.Term{Name: "防水工事", Origin: core.OriginCustom})
	embedder := mock.NewEmbedder()
	idx, err := New(reg, embedder)
	require.NoError(t, err)

	require.NoError(t, idx.Rebuild(context.Background()))
	calls := embedder.CallCount()
	require.Greater(t, calls, 0)

	// No new surfaces, no new embedder calls.
	require.NoError(t, idx.Rebuild(context.Background()))
	assert.Equal(t, calls, embedder.CallCount())
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeHybrid, mode)

	mode, err = ParseMode("fuzzy")
	require.NoError(t, err)
	assert.Equal(t, ModeFuzzy, mode)

	_, err = ParseMode("phonetic")
	assert.ErrorIs(t, err, ErrUnknownMode)
}
