// Package ingestion orchestrates the write path: parsed upload records
// or extracted documents are merged into the term registry, then the
// hybrid index is rebuilt.
//
// Per-record validation failures are collected into the IngestReport
// rather than raised; an undecodable source fails the whole call before
// any mutation. Re-ingesting an identical source is idempotent: the
// second run reports the same names as skipped instead of creating
// duplicates. Callers batching many sources can defer the rebuild and
// trigger a single one at the end.
package ingestion
