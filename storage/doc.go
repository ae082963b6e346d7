// Copyright 2026 Fieldside Labs
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


// Package storage provides the storage abstraction layer for playvault.
//
// This package defines the interfaces that decouple storage implementations
// from pipeline logic, plus the serializers for ledger values. Two stores
// exist with very different contracts:
//
//   - CollectionStore: the canonical play collection, one human-diffable
//     JSON document rewritten in full on every save. Implemented by
//     storage/playsjson.
//   - AssetLedger: bookkeeping for completed media transfers and refresh
//     fingerprints, binary-encoded in an embedded key-value store.
//     Implemented by storage/badger.
//
// # Load Semantics
//
// CollectionStore.Load distinguishes two failure shapes deliberately:
// a missing document is an empty collection (a fresh deployment), while a
// malformed document is fatal. Treating parse failures as empty would make
// the next save silently erase the entire collection.
//
// # Incremental Save Discipline
//
// The pipeline calls Load immediately before each Save to pick up records
// written by a concurrent run, re-verifies identity novelty, then appends
// and saves. The store itself stays dumb: it has no notion of a merge. See
// the ingest package for the reload-then-write sequence.
//
// # Usage
//
// Open the collection store:
//
//	store := playsjson.NewStore("plays.json")
//	records, err := store.Load(ctx)
//
// Open the ledger (on-disk, or in-memory for tests):
//
//	ledger, err := badger.OpenLedger("ledger", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ledger.Close()
//
// # Thread Safety
//
// All implementations must be safe for concurrent use from multiple
// goroutines within one process. Cross-process safety for the collection
// document comes from atomic rewrites plus the reload-before-write
// discipline, not from locking.
package storage
