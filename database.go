// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package termdex

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/poiesic/termdex/ai"
	"github.com/poiesic/termdex/ai/openai"
	"github.com/poiesic/termdex/core"
	"github.com/poiesic/termdex/correct"
	"github.com/poiesic/termdex/extract"
	"github.com/poiesic/termdex/index"
	"github.com/poiesic/termdex/ingestion"
	"github.com/poiesic/termdex/registry"
	"github.com/poiesic/termdex/storage"
	badgerstore "github.com/poiesic/termdex/storage/badger"
)

// Database is the owned state object for one terminology registry: it
// loads built-ins and persisted custom terms at startup, wires the
// registry, index, ingestion pipeline, and corrector together, and
// flushes custom terms back to storage on mutation and on Close.
type Database struct {
	store     storage.TermStore
	registry  *registry.Registry
	index     *index.Index
	pipeline  *ingestion.Pipeline
	corrector *correct.Corrector
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	embedder ai.Embedder
	inMemory bool
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithEmbedder injects an embedder directly, bypassing the configured
// embedding service. Intended for tests and offline use.
func WithEmbedder(embedder ai.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedder = embedder
	}
}

// WithInMemoryStorage keeps custom terms in a non-persistent store.
func WithInMemoryStorage() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the custom-term store at filePath, restores the
// registry from the built-in seed set plus persisted custom terms, and
// builds the first index snapshot.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	embedder := options.embedder
	if embedder == nil {
		var err error
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	var store storage.TermStore
	var err error
	if options.inMemory {
		store, _, err = badgerstore.NewMemoryTermStore()
	} else {
		store, err = badgerstore.NewTermStore(filePath)
	}
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	custom, err := store.LoadTerms(ctx)
	if err != nil {
		store.Close()
		return nil, err
	}

	reg, err := registry.New()
	if err != nil {
		store.Close()
		return nil, err
	}
	if err := reg.Restore(core.BuiltinTerms(), custom); err != nil {
		store.Close()
		return nil, err
	}

	idx, err := index.New(reg, embedder)
	if err != nil {
		store.Close()
		return nil, err
	}
	if err := idx.Rebuild(ctx); err != nil {
		store.Close()
		return nil, err
	}

	extractor, err := extract.New()
	if err != nil {
		store.Close()
		return nil, err
	}

	pipeline, err := ingestion.NewPipeline(reg, idx, extractor)
	if err != nil {
		store.Close()
		return nil, err
	}

	corrector, err := correct.New(idx)
	if err != nil {
		pipeline.Release()
		store.Close()
		return nil, err
	}

	return &Database{
		store:     store,
		registry:  reg,
		index:     idx,
		pipeline:  pipeline,
		corrector: corrector,
		logger:    slog.Default(),
	}, nil
}

// Close flushes custom terms to storage and releases all resources.
func (db *Database) Close() error {
	flushErr := db.saveCustomTerms(context.Background())
	if flushErr != nil {
		db.logger.Error("error flushing custom terms", "err", flushErr)
	}

	db.pipeline.Release()

	if err := db.store.Close(); err != nil {
		db.logger.Error("error closing term store", "err", err)
		return err
	}
	return flushErr
}

// Registry returns the live term registry.
func (db *Database) Registry() *registry.Registry {
	return db.registry
}

// Index returns the hybrid index.
func (db *Database) Index() *index.Index {
	return db.index
}

// Search runs a ranked lookup. An empty mode defaults to hybrid.
func (db *Database) Search(ctx context.Context, query, mode string, limit int) (*index.Result, error) {
	m, err := index.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	return db.index.Query(ctx, query, limit, m)
}

// ExtractTerms returns the registry terms found in a free-text block.
// Candidate surfaces (and alias hits) resolve to their canonical terms;
// each term appears once regardless of mention count.
func (db *Database) ExtractTerms(ctx context.Context, text string) ([]*core.Term, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("extract: %w", core.ErrEncoding)
	}

	lexicon := make([]string, 0)
	for _, term := range db.registry.Terms() {
		lexicon = append(lexicon, term.Name)
		lexicon = append(lexicon, term.Aliases...)
	}

	extractor, err := extract.New(
		extract.WithSegmenter(extract.NewLexiconSegmenter(lexicon)),
		extract.WithLogger(db.logger),
	)
	if err != nil {
		return nil, err
	}

	var found []*core.Term
	seen := make(map[string]bool)
	for _, candidate := range extractor.Extract(text) {
		term, ok := db.registry.Get(candidate.Surface)
		if !ok || seen[term.Name] {
			continue
		}
		seen[term.Name] = true
		found = append(found, term)
	}
	return found, nil
}

// IngestRecords merges a parsed term upload and persists the result.
func (db *Database) IngestRecords(ctx context.Context, records []ingestion.Record, opts *ingestion.IngestOptions) (*ingestion.IngestReport, error) {
	report, err := db.pipeline.IngestRecords(ctx, records, opts)
	if err != nil {
		return nil, err
	}
	if err := db.saveCustomTerms(ctx); err != nil {
		return nil, err
	}
	return report, nil
}

// IngestDocuments extracts and merges a document batch and persists the
// result.
func (db *Database) IngestDocuments(ctx context.Context, documents []ingestion.Document, opts *ingestion.IngestOptions) (*ingestion.IngestReport, error) {
	report, err := db.pipeline.IngestDocuments(ctx, documents, opts)
	if err != nil {
		return nil, err
	}
	if err := db.saveCustomTerms(ctx); err != nil {
		return nil, err
	}
	return report, nil
}

// AddTerm creates a custom term, persists it, and rebuilds the index.
func (db *Database) AddTerm(ctx context.Context, term *core.Term) error {
	if err := db.registry.Add(term); err != nil {
		return err
	}
	if err := db.saveCustomTerms(ctx); err != nil {
		return err
	}
	return db.index.Rebuild(ctx)
}

// UpdateTerm updates a custom term, persists it, and rebuilds the index.
func (db *Database) UpdateTerm(ctx context.Context, term *core.Term) error {
	if err := db.registry.Update(term); err != nil {
		return err
	}
	if err := db.saveCustomTerms(ctx); err != nil {
		return err
	}
	return db.index.Rebuild(ctx)
}

// DeleteTerm removes a custom term, persists the change, and rebuilds
// the index. Deleting a built-in fails without mutating anything.
func (db *Database) DeleteTerm(ctx context.Context, name string) error {
	if err := db.registry.Delete(name); err != nil {
		return err
	}
	if err := db.saveCustomTerms(ctx); err != nil {
		return err
	}
	return db.index.Rebuild(ctx)
}

// Stats aggregates counts over the live registry.
func (db *Database) Stats() registry.Stats {
	return db.registry.Stats()
}

// Correct proposes term corrections for one transcript window.
func (db *Database) Correct(ctx context.Context, window []string) ([]string, []correct.Correction, error) {
	return db.corrector.Correct(ctx, window)
}

func (db *Database) saveCustomTerms(ctx context.Context) error {
	return db.store.SaveTerms(ctx, db.registry.CustomTerms())
}
