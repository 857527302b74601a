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


// Package storage provides the persistence abstraction layer for termdex.
//
// This package defines the TermStore interface that decouples durable
// custom-term storage from the in-memory registry. The registry is the
// source of truth while the process runs; the store is loaded once at
// startup and rewritten after mutating operations.
//
// # Constructor Return Type Pattern
//
// Public constructors return the TermStore interface to enforce
// abstraction and enable multiple storage backend implementations:
//
//	store, err := badger.NewTermStore(path)  // returns storage.TermStore interface
//
// # Usage
//
// Create a store instance:
//
//	store, err := badger.NewTermStore("/path/to/db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
// Use in tests with in-memory storage:
//
//	store, err := badger.NewMemoryTermStore()
//
// # Thread Safety
//
// All store implementations must be thread-safe and support concurrent
// access from multiple goroutines.
package storage
