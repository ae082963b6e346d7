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


package storage

import (
	"context"
	"time"

	"github.com/fieldside/playvault/core"
)

// CollectionStore persists the canonical play collection as one ordered
// document, rewritten in full on every save.
type CollectionStore interface {
	// Load reads the full collection. A missing backing document yields an
	// empty collection; an unreadable or malformed one yields an error
	// wrapping ErrMalformedCollection, which callers must treat as fatal:
	// silently starting from empty would destroy the collection on the
	// next save.
	Load(ctx context.Context) ([]*core.Record, error)

	// Save rewrites the full collection in canonical order. The write is
	// atomic from the perspective of a concurrent reader: it observes
	// either the previous document or the new one, never a partial write.
	Save(ctx context.Context, records []*core.Record) error

	// Path returns the backing document location, for logs.
	Path() string
}

// CollectionLocker is an optional store capability: stores that can be
// shared by concurrent writers expose a lock for the whole
// load-modify-save cycle. A Load/Save pair is not atomic on its own, so
// writers that skip the lock can overwrite each other's appends.
type CollectionLocker interface {
	Lock()
	Unlock()
}

// TransferState records one completed media transfer.
type TransferState struct {
	SourceURL     string
	LocalPath     string
	DurableURL    string
	ContentHash   []byte
	TransferredAt time.Time
}

// FingerprintState records the markup fingerprint last seen for an
// identity, so a refresh pass can skip unchanged sources.
type FingerprintState struct {
	Sum        []byte
	RecordedAt time.Time
}

// AssetLedger tracks completed media transfers and per-record markup
// fingerprints. The ledger is advisory: losing it costs repeated work,
// never correctness.
type AssetLedger interface {
	// LookupTransfer returns the recorded state for a source URL.
	// Returns ErrNotFound when the URL has never been transferred.
	LookupTransfer(ctx context.Context, sourceURL string) (*TransferState, error)

	// RecordTransfer stores the state for a completed transfer,
	// overwriting any previous state for the same source URL.
	RecordTransfer(ctx context.Context, state *TransferState) error

	// LookupFingerprint returns the fingerprint recorded for an identity.
	// Returns ErrNotFound when none was recorded.
	LookupFingerprint(ctx context.Context, identity core.Identity) (*FingerprintState, error)

	// RecordFingerprint stores the markup fingerprint for an identity,
	// stamping the current time.
	RecordFingerprint(ctx context.Context, identity core.Identity, sum []byte) error

	// Close releases ledger resources.
	Close() error
}
