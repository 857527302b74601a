package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/poiesic/termdex/core"
)

// SkipReason explains why a merged candidate did not create a new term.
type SkipReason string

const (
	// SkipAlreadyKnown marks a candidate that resolved to an existing
	// custom term (by name or alias).
	SkipAlreadyKnown SkipReason = "already-known"
	// SkipDuplicateOfBuiltin marks a candidate folded into a built-in term.
	SkipDuplicateOfBuiltin SkipReason = "duplicate-of-built-in"
)

// Skipped pairs a candidate's canonical name with the reason it was skipped.
type Skipped struct {
	Name   string
	Reason SkipReason
}

// MergeReport summarizes the outcome of a candidate merge.
type MergeReport struct {
	Added   []string
	Skipped []Skipped
}

// Stats is a pure aggregation over the live term collection.
type Stats struct {
	TotalTerms   int
	BuiltinTerms int
	CustomTerms  int
	Categories   map[string]int
}

// Registry is the deduplicated, mutable store of canonical terms and the
// single source of truth for the process. All mutations are serialized
// through one writer lock because merge decisions read the alias map
// before writing it. Readers get a consistent point-in-time view.
type Registry struct {
	mu      sync.RWMutex
	terms   map[string]*core.Term // normalized name -> term
	aliases map[string]string     // normalized alias -> canonical name
	version uint64
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// New creates an empty registry.
func New(opts ...Option) (*Registry, error) {
	r := &Registry{
		terms:   make(map[string]*core.Term),
		aliases: make(map[string]string),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Restore seeds the registry with the built-in dictionary followed by
// previously persisted custom terms. Intended to run once at startup,
// before the registry is shared. Custom terms whose name collides with a
// built-in are folded into it instead of being dropped.
func (r *Registry) Restore(builtin, custom []*core.Term) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, batch := range [][]*core.Term{builtin, custom} {
		for _, term := range batch {
			if err := core.ValidateTerm(term); err != nil {
				return fmt.Errorf("restore %q: %w", term.Name, err)
			}
			r.insertLocked(term.Clone())
		}
	}
	r.version++
	r.logger.Info("registry restored", "builtin", len(builtin), "custom", len(custom), "total", len(r.terms))
	return nil
}

// insertLocked adds a term, folding it into an existing entry when the
// normalized name already exists (aliases union, frequency summed).
func (r *Registry) insertLocked(term *core.Term) {
	key := core.NormalizeKey(term.Name)
	term.Name = key
	if term.Id == 0 {
		term.Id = core.IDFromContent(key)
	}
	if term.Category == "" {
		term.Category = core.DefaultCategory
	}

	if existing, ok := r.terms[key]; ok {
		existing.Frequency += term.Frequency
		r.unionAliasesLocked(existing, term.Aliases)
		return
	}

	term.Aliases = r.claimAliasesLocked(key, term.Aliases)
	r.terms[key] = term
}

// claimAliasesLocked filters the given aliases down to those not already
// owned by a different canonical term, records ownership for the rest,
// and returns them. An alias owned elsewhere is silently dropped: the
// first assignment wins.
func (r *Registry) claimAliasesLocked(name string, aliases []string) []string {
	claimed := make([]string, 0, len(aliases))
	for _, alias := range core.NormalizeKeys(aliases) {
		if alias == name {
			continue
		}
		if _, isName := r.terms[alias]; isName {
			continue
		}
		if owner, ok := r.aliases[alias]; ok && owner != name {
			continue
		}
		r.aliases[alias] = name
		claimed = append(claimed, alias)
	}
	return claimed
}

func (r *Registry) unionAliasesLocked(term *core.Term, aliases []string) {
	for _, alias := range r.claimAliasesLocked(term.Name, aliases) {
		if !term.HasAlias(alias) {
			term.Aliases = append(term.Aliases, alias)
		}
	}
}

// resolveLocked maps a normalized key to its canonical term, via name or alias.
func (r *Registry) resolveLocked(key string) (*core.Term, bool) {
	if term, ok := r.terms[key]; ok {
		return term, true
	}
	if name, ok := r.aliases[key]; ok {
		return r.terms[name], true
	}
	return nil, false
}

// Merge folds extracted candidates into the registry.
//
// For each candidate: the surface is normalized; a match on an existing
// custom term increments its frequency and unions in new alias hints; a
// match on a built-in name folds the aliases in without touching
// frequency or category; no match creates a new custom term. Category
// hints only fill a category that is still the default; the first
// assigned category wins. Invalid candidates are ignored; the pipeline
// validates and reports them before merging.
func (r *Registry) Merge(candidates []*core.Candidate) *MergeReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	report := &MergeReport{}
	for _, candidate := range candidates {
		if core.ValidateCandidate(candidate) != nil {
			continue
		}
		key := core.NormalizeKey(candidate.Surface)

		if existing, ok := r.resolveLocked(key); ok {
			if existing.Origin == core.OriginBuiltin && key == existing.Name {
				// Fold into the built-in: aliases only, frequency and
				// category untouched.
				r.unionAliasesLocked(existing, candidate.AliasHints)
				report.Skipped = append(report.Skipped, Skipped{Name: existing.Name, Reason: SkipDuplicateOfBuiltin})
				continue
			}

			existing.Frequency += candidate.Frequency
			r.unionAliasesLocked(existing, candidate.AliasHints)
			if existing.Origin == core.OriginCustom {
				if existing.Category == core.DefaultCategory && candidate.CategoryHint != "" {
					existing.Category = candidate.CategoryHint
				}
				existing.UpdatedAt = time.Now().UTC()
				report.Skipped = append(report.Skipped, Skipped{Name: existing.Name, Reason: SkipAlreadyKnown})
			} else {
				report.Skipped = append(report.Skipped, Skipped{Name: existing.Name, Reason: SkipDuplicateOfBuiltin})
			}
			continue
		}

		category := candidate.CategoryHint
		if category == "" {
			category = core.DefaultCategory
		}
		now := time.Now().UTC()
		term := &core.Term{
			Id:         core.IDFromContent(key),
			Name:       key,
			Category:   category,
			Frequency:  candidate.Frequency,
			Origin:     core.OriginCustom,
			InsertedAt: now,
			UpdatedAt:  now,
		}
		term.Aliases = r.claimAliasesLocked(key, candidate.AliasHints)
		r.terms[key] = term
		report.Added = append(report.Added, key)
	}

	if len(report.Added) > 0 || len(report.Skipped) > 0 {
		r.version++
	}
	return report
}

// Add creates a new custom term. It fails with ErrTermExists when the
// normalized name is already taken as a name or alias.
func (r *Registry) Add(term *core.Term) error {
	if err := core.ValidateTerm(term); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := core.NormalizeKey(term.Name)
	if _, ok := r.resolveLocked(key); ok {
		return fmt.Errorf("%w: %s", ErrTermExists, key)
	}

	now := time.Now().UTC()
	added := term.Clone()
	added.Name = key
	added.Id = core.IDFromContent(key)
	added.Origin = core.OriginCustom
	if added.Category == "" {
		added.Category = core.DefaultCategory
	}
	added.InsertedAt = now
	added.UpdatedAt = now
	added.Aliases = r.claimAliasesLocked(key, term.Aliases)
	r.terms[key] = added
	r.version++
	return nil
}

// Update replaces the category and aliases of an existing custom term.
// Updating a built-in term fails with ErrBuiltinImmutable; no state is
// mutated on failure.
func (r *Registry) Update(term *core.Term) error {
	if err := core.ValidateTerm(term); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := core.NormalizeKey(term.Name)
	existing, ok := r.terms[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTermNotFound, key)
	}
	if existing.Origin == core.OriginBuiltin {
		return fmt.Errorf("%w: %s", ErrBuiltinImmutable, key)
	}

	if term.Category != "" {
		existing.Category = term.Category
	}
	r.unionAliasesLocked(existing, term.Aliases)
	existing.UpdatedAt = time.Now().UTC()
	r.version++
	return nil
}

// Delete removes a custom term and all its aliases from the alias map.
// Deleting a built-in term fails with ErrBuiltinImmutable; no state is
// mutated on failure.
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := core.NormalizeKey(name)
	term, ok := r.terms[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTermNotFound, key)
	}
	if term.Origin == core.OriginBuiltin {
		return fmt.Errorf("%w: %s", ErrBuiltinImmutable, key)
	}

	for _, alias := range term.Aliases {
		delete(r.aliases, alias)
	}
	delete(r.terms, key)
	r.version++
	return nil
}

// Get returns a copy of the canonical term the key resolves to, via name
// or alias.
func (r *Registry) Get(key string) (*core.Term, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	term, ok := r.resolveLocked(core.NormalizeKey(key))
	if !ok {
		return nil, false
	}
	return term.Clone(), true
}

// Terms returns copies of all terms, sorted by name.
func (r *Registry) Terms() []*core.Term {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.termsLocked(func(*core.Term) bool { return true })
}

// CustomTerms returns copies of all custom-origin terms, sorted by name.
// This is the set handed to the persistence collaborator.
func (r *Registry) CustomTerms() []*core.Term {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.termsLocked(func(t *core.Term) bool { return t.Origin == core.OriginCustom })
}

func (r *Registry) termsLocked(keep func(*core.Term) bool) []*core.Term {
	terms := make([]*core.Term, 0, len(r.terms))
	for _, term := range r.terms {
		if keep(term) {
			terms = append(terms, term.Clone())
		}
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Name < terms[j].Name })
	return terms
}

// Stats aggregates counts over the live collection.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{
		TotalTerms: len(r.terms),
		Categories: make(map[string]int),
	}
	for _, term := range r.terms {
		if term.Origin == core.OriginBuiltin {
			stats.BuiltinTerms++
		} else {
			stats.CustomTerms++
		}
		stats.Categories[term.Category]++
	}
	return stats
}

// Version returns the registry's mutation counter. The index records the
// version it was built from, so stale snapshots are detectable.
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Snapshot produces an immutable point-in-time copy of the term
// collection and alias map for index builds.
func (r *Registry) Snapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	terms := r.termsLocked(func(*core.Term) bool { return true })
	aliases := make(map[string]string, len(r.aliases))
	for alias, name := range r.aliases {
		aliases[alias] = name
	}
	return &Snapshot{
		Version: r.version,
		Terms:   terms,
		Aliases: aliases,
	}
}
