package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"unicode/utf8"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/termdex/core"
	"github.com/poiesic/termdex/extract"
	"github.com/poiesic/termdex/index"
	"github.com/poiesic/termdex/registry"
)

// Record is the normalized upload schema: one term per record, parsed
// from whatever file syntax the external collaborator handles.
type Record struct {
	Name     string
	Category string
	Aliases  []string
}

// Document is one text block routed through the extractor, typically a
// converted source document.
type Document struct {
	Name string
	Text string
}

// RecordError pairs a malformed record with its validation failure.
// Malformed records are reported, never raised, and are counted
// separately from skipped terms.
type RecordError struct {
	Name string
	Err  error
}

// IngestReport summarizes one ingestion call.
type IngestReport struct {
	ProcessedCount int
	AddedTerms     []string
	SkippedTerms   []string
	Malformed      []RecordError
}

// IngestOptions holds optional parameters for ingestion.
type IngestOptions struct {
	// DeferRebuild skips the index rebuild after the registry merge, so
	// many ingestions can be batched before a single rebuild.
	DeferRebuild bool
}

// Pipeline orchestrates extraction, registry merge, and index rebuild.
// Document extraction runs concurrently on a worker pool; merging stays
// serialized through the registry's writer lock.
type Pipeline struct {
	registry  *registry.Registry
	index     *index.Index
	extractor *extract.Extractor
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent extraction.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	reg *registry.Registry,
	idx *index.Index,
	extractor *extract.Extractor,
	opts ...Option,
) (*Pipeline, error) {
	if reg == nil {
		return nil, ErrRegistryRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		registry:  reg,
		index:     idx,
		extractor: extractor,
		pool:      pool,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.Release()
			return nil, err
		}
	}
	return p, nil
}

// IngestRecords merges a parsed upload into the registry. A record with
// invalid UTF-8 in any field fails the whole call before any mutation.
// Malformed records are collected in the report and do not abort the
// batch. Re-ingesting an identical batch reports the same names as
// skipped instead of growing the registry.
func (p *Pipeline) IngestRecords(ctx context.Context, records []Record, opts *IngestOptions) (*IngestReport, error) {
	if opts == nil {
		opts = &IngestOptions{}
	}

	for _, record := range records {
		if !recordValidUTF8(record) {
			return nil, fmt.Errorf("record %q: %w", record.Name, core.ErrEncoding)
		}
	}

	report := &IngestReport{}
	candidates := make([]*core.Candidate, 0, len(records))
	for _, record := range records {
		if core.NormalizeKey(record.Name) == "" {
			report.Malformed = append(report.Malformed, RecordError{
				Name: record.Name,
				Err:  fmt.Errorf("%w: %w", core.ErrInvalidCandidate, core.ErrEmptyName),
			})
			continue
		}
		candidates = append(candidates, &core.Candidate{
			Surface:      record.Name,
			CategoryHint: record.Category,
			AliasHints:   record.Aliases,
			Frequency:    1,
		})
	}

	p.mergeInto(report, candidates)
	if err := p.finish(ctx, report, opts); err != nil {
		return nil, err
	}
	return report, nil
}

// IngestDocuments extracts candidates from each document concurrently
// and merges them into the registry. A document that is not valid UTF-8
// fails the whole call before any mutation.
func (p *Pipeline) IngestDocuments(ctx context.Context, documents []Document, opts *IngestOptions) (*IngestReport, error) {
	if opts == nil {
		opts = &IngestOptions{}
	}

	for _, doc := range documents {
		if !utf8.ValidString(doc.Text) {
			return nil, fmt.Errorf("document %q: %w", doc.Name, core.ErrEncoding)
		}
	}

	extracted := make([][]*core.Candidate, len(documents))
	var wg sync.WaitGroup
	for i, doc := range documents {
		i, doc := i, doc
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			extracted[i] = p.extractor.Extract(doc.Text)
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return nil, submitErr
		}
	}
	wg.Wait()

	report := &IngestReport{}
	for i, candidates := range extracted {
		p.logger.Debug("document extracted", "document", documents[i].Name, "candidates", len(candidates))
		p.mergeInto(report, candidates)
	}

	if err := p.finish(ctx, report, opts); err != nil {
		return nil, err
	}
	return report, nil
}

func recordValidUTF8(record Record) bool {
	if !utf8.ValidString(record.Name) || !utf8.ValidString(record.Category) {
		return false
	}
	for _, alias := range record.Aliases {
		if !utf8.ValidString(alias) {
			return false
		}
	}
	return true
}

// mergeInto merges candidates and folds the merge outcome into the report.
func (p *Pipeline) mergeInto(report *IngestReport, candidates []*core.Candidate) {
	if len(candidates) == 0 {
		return
	}
	merged := p.registry.Merge(candidates)
	report.ProcessedCount += len(candidates)
	report.AddedTerms = append(report.AddedTerms, merged.Added...)
	for _, skipped := range merged.Skipped {
		report.SkippedTerms = append(report.SkippedTerms, skipped.Name)
	}
}

// finish triggers the index rebuild unless deferred.
func (p *Pipeline) finish(ctx context.Context, report *IngestReport, opts *IngestOptions) error {
	p.logger.Info("ingestion merged",
		"processed", report.ProcessedCount,
		"added", len(report.AddedTerms),
		"skipped", len(report.SkippedTerms),
		"malformed", len(report.Malformed),
		"deferRebuild", opts.DeferRebuild)

	if opts.DeferRebuild {
		return nil
	}
	return p.index.Rebuild(ctx)
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
