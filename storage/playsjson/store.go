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


// Package playsjson implements the collection store as a pretty-printed
// JSON array document, rewritten in full and renamed into place on every
// save.
package playsjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fieldside/playvault/core"
	"github.com/fieldside/playvault/storage"
)

// Store implements storage.CollectionStore over a single JSON document.
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

var _ storage.CollectionStore = (*Store)(nil)
var _ storage.CollectionLocker = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Nil falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a store backed by the document at path. The document
// does not need to exist yet.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing document location.
func (s *Store) Path() string {
	return s.path
}

// Lock serializes writers sharing this store. Hold it across the whole
// load-modify-save cycle, not just the Save call.
func (s *Store) Lock() {
	s.mu.Lock()
}

// Unlock releases the writer lock.
func (s *Store) Unlock() {
	s.mu.Unlock()
}

// Load reads the full collection. A missing document is an empty
// collection; any other read or parse failure wraps
// storage.ErrMalformedCollection and must stop the run.
func (s *Store) Load(ctx context.Context) ([]*core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("collection document absent, starting empty", "path", s.path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", storage.ErrMalformedCollection, s.path, err)
	}

	var records []*core.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", storage.ErrMalformedCollection, s.path, err)
	}

	for _, record := range records {
		record.Attributes = core.NormalizeAttributes(record.Attributes)
	}

	s.logger.Debug("collection loaded", "path", s.path, "records", len(records))
	return records, nil
}

// Save rewrites the collection in canonical order. The document is written
// to a temp file in the same directory, synced, and renamed over the old
// one, so a concurrent reader never observes a partial write.
func (s *Store) Save(ctx context.Context, records []*core.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sorted := make([]*core.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return core.CompareRecords(sorted[i], sorted[j]) < 0
	})
	for _, record := range sorted {
		record.Attributes = core.NormalizeAttributes(record.Attributes)
	}

	data := []byte("[]")
	if len(sorted) > 0 {
		var err error
		data, err = json.MarshalIndent(sorted, "", "  ")
		if err != nil {
			return fmt.Errorf("encode collection: %w", err)
		}
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create collection directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace collection document: %w", err)
	}

	s.logger.Debug("collection saved", "path", s.path, "records", len(sorted))
	return nil
}
