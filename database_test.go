package termdex

import (
	"context"
	"testing"

	"github.com/poiesic/termdex/ai/mock"
	"github.com/poiesic/termdex/core"
	"github.com/poiesic/termdex/ingestion"
	"github.com/poiesic/termdex/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase("", WithInMemoryStorage(), WithEmbedder(mock.NewEmbedder()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabase_RestoresBuiltins(t *testing.T) {
	db := newTestDatabase(t)

	stats := db.Stats()
	assert.Equal(t, len(core.BuiltinTerms()), stats.BuiltinTerms)
	assert.Equal(t, 0, stats.CustomTerms)
	assert.Equal(t, stats.BuiltinTerms+stats.CustomTerms, stats.TotalTerms)
}

func TestSearch_ExactBuiltinAlias(t *testing.T) {
	db := newTestDatabase(t)

	result, err := db.Search(context.Background(), "RC", "exact", 5)
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "鉄筋コンクリート", result.Matches[0].Term.Name)
	assert.Equal(t, 1.0, result.Matches[0].Score)
	assert.False(t, result.Stale)
}

func TestSearch_UnknownMode(t *testing.T) {
	db := newTestDatabase(t)

	_, err := db.Search(context.Background(), "RC", "phonetic", 5)
	assert.Error(t, err)
}

func TestExtractTerms(t *testing.T) {
	db := newTestDatabase(t)

	terms, err := db.ExtractTerms(context.Background(), "鉄筋コンクリート造の基礎工事")
	require.NoError(t, err)

	names := make([]string, 0, len(terms))
	for _, term := range terms {
		names = append(names, term.Name)
	}
	assert.Contains(t, names, "鉄筋コンクリート")
	assert.Contains(t, names, "基礎工事")
}

func TestExtractTerms_KeywordFreeCustomTerm(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, db.AddTerm(ctx, &core.Term{
		Name:   "左官",
		Origin: core.OriginCustom,
	}))

	// A registry-known term is returned even when its surface carries no
	// construction keyword.
	terms, err := db.ExtractTerms(ctx, "左官の作業を確認した。")
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "左官", terms[0].Name)
}

func TestExtractTerms_InvalidEncoding(t *testing.T) {
	db := newTestDatabase(t)

	_, err := db.ExtractTerms(context.Background(), string([]byte{0xff, 0xfe}))
	assert.ErrorIs(t, err, core.ErrEncoding)
}

func TestDeleteTerm_BuiltinForbidden(t *testing.T) {
	db := newTestDatabase(t)
	before := db.Stats()

	err := db.DeleteTerm(context.Background(), "コンクリート")
	assert.ErrorIs(t, err, registry.ErrBuiltinImmutable)
	assert.Equal(t, before, db.Stats())
}

func TestAddAndDeleteTerm(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, db.AddTerm(ctx, &core.Term{
		Name:    "左官工事",
		Aliases: []string{"左官"},
		Origin:  core.OriginCustom,
	}))

	result, err := db.Search(ctx, "左官", "exact", 5)
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)

	require.NoError(t, db.DeleteTerm(ctx, "左官工事"))
	result, err = db.Search(ctx, "左官", "exact", 5)
	require.NoError(t, err)
	assert.Empty(t, result.Matches)
}

func TestIngestRecords_Idempotent(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	records := []ingestion.Record{{Name: "防水工事", Category: "施工", Aliases: []string{"防水"}}}

	first, err := db.IngestRecords(ctx, records, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"防水工事"}, first.AddedTerms)
	total := db.Stats().TotalTerms

	second, err := db.IngestRecords(ctx, records, nil)
	require.NoError(t, err)
	assert.Empty(t, second.AddedTerms)
	assert.Equal(t, []string{"防水工事"}, second.SkippedTerms)
	assert.Equal(t, total, db.Stats().TotalTerms)
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := NewDatabase(dir, WithEmbedder(mock.NewEmbedder()))
	require.NoError(t, err)

	_, err = db.IngestRecords(ctx, []ingestion.Record{
		{Name: "防水工事", Category: "施工", Aliases: []string{"防水"}},
	}, nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	reopened, err := NewDatabase(dir, WithEmbedder(mock.NewEmbedder()))
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 1, reopened.Stats().CustomTerms)

	term, ok := reopened.Registry().Get("防水")
	require.True(t, ok)
	assert.Equal(t, "防水工事", term.Name)
	assert.Equal(t, "施工", term.Category)

	result, err := reopened.Search(ctx, "防水", "exact", 5)
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, 1.0, result.Matches[0].Score)
}

func TestCorrect_EndToEnd(t *testing.T) {
	db := newTestDatabase(t)

	// Exact matches pass through untouched regardless of scores.
	corrected, audit, err := db.Correct(context.Background(), []string{"鉄筋コンクリート", "RC"})
	require.NoError(t, err)
	assert.Equal(t, []string{"鉄筋コンクリート", "RC"}, corrected)
	assert.Empty(t, audit)
}
