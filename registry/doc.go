// Package registry holds the deduplicated, mutable collection of
// canonical terms and the alias map that resolves every alias to exactly
// one term.
//
// All mutations serialize through a single writer lock because merge
// decisions read the alias map before writing it. Readers always observe
// a consistent point-in-time view, and Snapshot exports an immutable
// copy for index builds. Built-in terms can be enriched with aliases but
// never updated or deleted.
package registry
