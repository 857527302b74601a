package registry

import (
	"testing"

	"github.com/poiesic/termdex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	require.NoError(t, r.Restore(core.BuiltinTerms(), nil))
	return r
}

func TestRestore(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	custom := []*core.Term{{
		Name:      "防水工事",
		Category:  "施工",
		Aliases:   []string{"防水"},
		Frequency: 2,
		Origin:    core.OriginCustom,
	}}
	require.NoError(t, r.Restore(core.BuiltinTerms(), custom))

	stats := r.Stats()
	assert.Equal(t, len(core.BuiltinTerms()), stats.BuiltinTerms)
	assert.Equal(t, 1, stats.CustomTerms)
	assert.Equal(t, stats.BuiltinTerms+stats.CustomTerms, stats.TotalTerms)

	term, ok := r.Get("防水")
	require.True(t, ok)
	assert.Equal(t, "防水工事", term.Name)
}

func TestMerge_NewCandidate(t *testing.T) {
	r := seededRegistry(t)

	report := r.Merge([]*core.Candidate{
		{Surface: "防水工事", CategoryHint: "施工", AliasHints: []string{"防水"}, Frequency: 1},
	})

	assert.Equal(t, []string{"防水工事"}, report.Added)
	assert.Empty(t, report.Skipped)

	term, ok := r.Get("防水工事")
	require.True(t, ok)
	assert.Equal(t, core.OriginCustom, term.Origin)
	assert.Equal(t, "施工", term.Category)
	assert.Equal(t, []string{"防水"}, term.Aliases)
	assert.Equal(t, int64(1), term.Frequency)
}

func TestMerge_Idempotent(t *testing.T) {
	r := seededRegistry(t)
	candidates := []*core.Candidate{
		{Surface: "防水工事", CategoryHint: "施工", Frequency: 1},
		{Surface: "タイル張り", Frequency: 1},
	}

	first := r.Merge(candidates)
	require.Len(t, first.Added, 2)
	before := r.Stats().TotalTerms

	second := r.Merge(candidates)
	assert.Empty(t, second.Added)
	require.Len(t, second.Skipped, 2)
	for _, skipped := range second.Skipped {
		assert.Equal(t, SkipAlreadyKnown, skipped.Reason)
	}
	assert.Equal(t, before, r.Stats().TotalTerms)

	// Frequency still accumulates across re-ingestion.
	term, ok := r.Get("防水工事")
	require.True(t, ok)
	assert.Equal(t, int64(2), term.Frequency)
}

func TestMerge_BuiltinCollision(t *testing.T) {
	r := seededRegistry(t)

	builtinBefore, ok := r.Get("鉄筋コンクリート")
	require.True(t, ok)

	report := r.Merge([]*core.Candidate{
		{Surface: "鉄筋コンクリート", CategoryHint: "材料", AliasHints: []string{"テッコン"}, Frequency: 5},
	})

	assert.Empty(t, report.Added)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, SkipDuplicateOfBuiltin, report.Skipped[0].Reason)

	after, ok := r.Get("鉄筋コンクリート")
	require.True(t, ok)
	// Category and frequency untouched, alias folded in.
	assert.Equal(t, builtinBefore.Category, after.Category)
	assert.Equal(t, builtinBefore.Frequency, after.Frequency)
	assert.True(t, after.HasAlias("テッコン"))
}

func TestMerge_AliasMatchIncrementsFrequency(t *testing.T) {
	r := seededRegistry(t)

	// "rc" is an alias of the built-in 鉄筋コンクリート.
	report := r.Merge([]*core.Candidate{{Surface: "RC", Frequency: 3}})

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, SkipDuplicateOfBuiltin, report.Skipped[0].Reason)
	assert.Equal(t, "鉄筋コンクリート", report.Skipped[0].Name)

	term, ok := r.Get("rc")
	require.True(t, ok)
	assert.Equal(t, int64(3), term.Frequency)
}

func TestMerge_FirstCategoryWins(t *testing.T) {
	r := seededRegistry(t)

	r.Merge([]*core.Candidate{{Surface: "シーリング", Frequency: 1}})
	term, _ := r.Get("シーリング")
	assert.Equal(t, core.DefaultCategory, term.Category)

	// Default category is fillable.
	r.Merge([]*core.Candidate{{Surface: "シーリング", CategoryHint: "仕上げ", Frequency: 1}})
	term, _ = r.Get("シーリング")
	assert.Equal(t, "仕上げ", term.Category)

	// A real category is not overwritten.
	r.Merge([]*core.Candidate{{Surface: "シーリング", CategoryHint: "材料", Frequency: 1}})
	term, _ = r.Get("シーリング")
	assert.Equal(t, "仕上げ", term.Category)
}

func TestMerge_AliasConflictFirstWins(t *testing.T) {
	r := seededRegistry(t)

	r.Merge([]*core.Candidate{{Surface: "防水工事", AliasHints: []string{"防水"}, Frequency: 1}})
	r.Merge([]*core.Candidate{{Surface: "防水塗装", AliasHints: []string{"防水"}, Frequency: 1}})

	first, ok := r.Get("防水")
	require.True(t, ok)
	assert.Equal(t, "防水工事", first.Name)

	second, ok := r.Get("防水塗装")
	require.True(t, ok)
	assert.Empty(t, second.Aliases)
}

func TestAliasUniqueness(t *testing.T) {
	r := seededRegistry(t)
	r.Merge([]*core.Candidate{
		{Surface: "防水工事", AliasHints: []string{"防水"}, Frequency: 1},
		{Surface: "防水塗装", AliasHints: []string{"防水", "塗膜"}, Frequency: 1},
	})

	seen := make(map[string]string)
	for _, term := range r.Terms() {
		for _, alias := range term.Aliases {
			owner, dup := seen[alias]
			assert.False(t, dup, "alias %q owned by both %q and %q", alias, owner, term.Name)
			seen[alias] = term.Name
		}
	}
}

func TestAdd(t *testing.T) {
	r := seededRegistry(t)

	t.Run("creates custom term", func(t *testing.T) {
		err := r.Add(&core.Term{Name: "左官工事", Category: "施工", Aliases: []string{"左官"}, Origin: core.OriginCustom})
		require.NoError(t, err)

		term, ok := r.Get("左官")
		require.True(t, ok)
		assert.Equal(t, "左官工事", term.Name)
	})

	t.Run("duplicate name", func(t *testing.T) {
		err := r.Add(&core.Term{Name: "左官工事", Origin: core.OriginCustom})
		assert.ErrorIs(t, err, ErrTermExists)
	})

	t.Run("name taken as alias", func(t *testing.T) {
		err := r.Add(&core.Term{Name: "左官", Origin: core.OriginCustom})
		assert.ErrorIs(t, err, ErrTermExists)
	})

	t.Run("invalid term", func(t *testing.T) {
		err := r.Add(&core.Term{Name: "  ", Origin: core.OriginCustom})
		assert.ErrorIs(t, err, core.ErrInvalidTerm)
	})
}

func TestUpdate(t *testing.T) {
	r := seededRegistry(t)
	require.NoError(t, r.Add(&core.Term{Name: "左官工事", Category: "施工", Origin: core.OriginCustom}))

	t.Run("updates custom term", func(t *testing.T) {
		err := r.Update(&core.Term{Name: "左官工事", Category: "仕上げ", Aliases: []string{"左官"}, Origin: core.OriginCustom})
		require.NoError(t, err)

		term, ok := r.Get("左官工事")
		require.True(t, ok)
		assert.Equal(t, "仕上げ", term.Category)
		assert.True(t, term.HasAlias("左官"))
	})

	t.Run("built-in is immutable", func(t *testing.T) {
		err := r.Update(&core.Term{Name: "鉄筋コンクリート", Category: "材料", Origin: core.OriginCustom})
		assert.ErrorIs(t, err, ErrBuiltinImmutable)
	})

	t.Run("unknown term", func(t *testing.T) {
		err := r.Update(&core.Term{Name: "存在しない", Origin: core.OriginCustom})
		assert.ErrorIs(t, err, ErrTermNotFound)
	})
}

func TestDelete(t *testing.T) {
	r := seededRegistry(t)
	require.NoError(t, r.Add(&core.Term{Name: "左官工事", Aliases: []string{"左官"}, Origin: core.OriginCustom}))

	t.Run("removes custom term and aliases", func(t *testing.T) {
		require.NoError(t, r.Delete("左官工事"))

		_, ok := r.Get("左官工事")
		assert.False(t, ok)
		_, ok = r.Get("左官")
		assert.False(t, ok)
	})

	t.Run("built-in is immutable", func(t *testing.T) {
		before := r.Stats()
		err := r.Delete("コンクリート")
		assert.ErrorIs(t, err, ErrBuiltinImmutable)

		after := r.Stats()
		assert.Equal(t, before, after)
	})

	t.Run("unknown term", func(t *testing.T) {
		err := r.Delete("存在しない")
		assert.ErrorIs(t, err, ErrTermNotFound)
	})
}

func TestStatsConsistency(t *testing.T) {
	r := seededRegistry(t)
	r.Merge([]*core.Candidate{
		{Surface: "防水工事", CategoryHint: "施工", Frequency: 1},
		{Surface: "タイル張り", CategoryHint: "仕上げ", Frequency: 1},
	})

	stats := r.Stats()
	assert.Equal(t, stats.BuiltinTerms+stats.CustomTerms, stats.TotalTerms)

	sum := 0
	for _, count := range stats.Categories {
		sum += count
	}
	assert.Equal(t, stats.TotalTerms, sum)
}

func TestVersionAdvancesOnMutation(t *testing.T) {
	r := seededRegistry(t)
	v0 := r.Version()

	r.Merge([]*core.Candidate{{Surface: "防水工事", Frequency: 1}})
	v1 := r.Version()
	assert.Greater(t, v1, v0)

	require.NoError(t, r.Delete("防水工事"))
	assert.Greater(t, r.Version(), v1)
}

func TestSnapshotIsolation(t *testing.T) {
	r := seededRegistry(t)
	r.Merge([]*core.Candidate{{Surface: "防水工事", AliasHints: []string{"防水"}, Frequency: 1}})

	snap := r.Snapshot()
	require.NoError(t, r.Delete("防水工事"))

	// The snapshot still resolves the deleted term.
	term, ok := snap.Resolve("防水")
	require.True(t, ok)
	assert.Equal(t, "防水工事", term.Name)

	// The live registry does not.
	_, ok = r.Get("防水")
	assert.False(t, ok)
}
