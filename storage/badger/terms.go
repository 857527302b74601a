package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/termdex/core"
	"github.com/poiesic/termdex/storage"
)

// TermStore implements storage.TermStore for BadgerDB.
// Only custom-origin terms are persisted; built-ins come from the seed set.
type TermStore struct {
	backend     *Backend
	ownsBackend bool
}

var _ storage.TermStore = (*TermStore)(nil)

// NewTermStore opens a BadgerDB database at the given path and returns a
// term store backed by it. The store owns the backend and closes it on Close.
//
// Returns storage.TermStore interface to enforce abstraction.
func NewTermStore(filePath string) (storage.TermStore, error) {
	backend, err := OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}
	return &TermStore{backend: backend, ownsBackend: true}, nil
}

// NewTermStoreWithBackend wraps an existing backend. The caller remains
// responsible for closing the backend.
func NewTermStoreWithBackend(backend *Backend) storage.TermStore {
	return &TermStore{backend: backend}
}

// Close releases the underlying backend when the store owns it.
func (s *TermStore) Close() error {
	if s.ownsBackend {
		return s.backend.Close()
	}
	return nil
}

// LoadTerms retrieves all persisted custom terms.
func (s *TermStore) LoadTerms(ctx context.Context) ([]*core.Term, error) {
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var terms []*core.Term
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = termKeyPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var term *core.Term
			err := iter.Item().Value(func(val []byte) error {
				var err error
				term, err = storage.UnmarshalTerm(val)
				return err
			})
			if err != nil {
				return err
			}
			terms = append(terms, term)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	if terms == nil {
		terms = []*core.Term{}
	}
	return terms, nil
}

// SaveTerms replaces the persisted custom term set with the given terms.
// The whole replacement happens in one transaction: either every term is
// written and every stale record removed, or nothing changes.
func (s *TermStore) SaveTerms(ctx context.Context, terms []*core.Term) error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	for _, term := range terms {
		if term.Origin == core.OriginBuiltin {
			return storage.ErrBuiltinNotPersistable
		}
		if err := core.ValidateTerm(term); err != nil {
			return err
		}
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Collect keys of records that are no longer in the set.
		keep := make(map[core.ID]bool, len(terms))
		for _, term := range terms {
			keep[term.Id] = true
		}

		var stale [][]byte
		opts := badger.DefaultIteratorOptions
		opts.Prefix = termKeyPrefix()
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().KeyCopy(nil)
			id, err := parseTermKey(key)
			if err != nil || !keep[id] {
				stale = append(stale, key)
			}
		}
		iter.Close()

		for _, key := range stale {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		for _, term := range terms {
			if term.Id == 0 {
				term.Id = core.IDFromContent(term.Name)
			}
			if term.InsertedAt.IsZero() {
				term.InsertedAt = now
			}
			term.UpdatedAt = now

			if err := tx.Set(makeTermKey(term.Id), storage.MarshalTerm(term)); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)
}
