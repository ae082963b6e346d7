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


package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fieldside/playvault/core"
	"github.com/fieldside/playvault/storage"
)

// Ledger implements storage.AssetLedger for BadgerDB.
type Ledger struct {
	backend *Backend
}

var _ storage.AssetLedger = (*Ledger)(nil)

// NewLedger creates a Ledger over an already-open backend. The ledger
// takes ownership: Close closes the backend.
func NewLedger(backend *Backend) *Ledger {
	return &Ledger{
		backend: backend,
	}
}

// OpenLedger opens a ledger backed by a BadgerDB database at the given
// path, or in memory when inMemory is true.
func OpenLedger(filePath string, inMemory bool) (*Ledger, error) {
	backend, err := OpenBackend(filePath, inMemory)
	if err != nil {
		return nil, err
	}
	return NewLedger(backend), nil
}

// Close closes the underlying backend.
func (l *Ledger) Close() error {
	return l.backend.Close()
}

// LookupTransfer retrieves the transfer state for a source URL.
// Returns storage.ErrNotFound if the URL has never been transferred.
func (l *Ledger) LookupTransfer(ctx context.Context, sourceURL string) (*storage.TransferState, error) {
	var state *storage.TransferState
	err := l.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTransferKey(sourceURL))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			state, unmarshalErr = storage.UnmarshalTransferState(val)
			return unmarshalErr
		})
	}, false)

	return state, err
}

// RecordTransfer persists the state for a completed transfer, overwriting
// any previous state for the same source URL. A zero TransferredAt is
// stamped with the current time.
func (l *Ledger) RecordTransfer(ctx context.Context, state *storage.TransferState) error {
	return l.backend.WithTx(func(tx *badger.Txn) error {
		if state.TransferredAt.IsZero() {
			state.TransferredAt = time.Now().UTC()
		}
		key := makeTransferKey(state.SourceURL)
		value := storage.MarshalTransferState(state)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LookupFingerprint retrieves the markup fingerprint recorded for an
// identity. Returns storage.ErrNotFound if none was recorded.
func (l *Ledger) LookupFingerprint(ctx context.Context, identity core.Identity) (*storage.FingerprintState, error) {
	var state *storage.FingerprintState
	err := l.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeFingerprintKey(identity))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			state, unmarshalErr = storage.UnmarshalFingerprintState(val)
			return unmarshalErr
		})
	}, false)

	return state, err
}

// RecordFingerprint persists the markup fingerprint for an identity,
// stamping the current time.
func (l *Ledger) RecordFingerprint(ctx context.Context, identity core.Identity, sum []byte) error {
	return l.backend.WithTx(func(tx *badger.Txn) error {
		state := &storage.FingerprintState{
			Sum:        sum,
			RecordedAt: time.Now().UTC(),
		}
		key := makeFingerprintKey(identity)
		value := storage.MarshalFingerprintState(state)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
