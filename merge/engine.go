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


// Package merge decides whether candidate records enter the collection.
//
// Decisions are data, not errors: a duplicate is a normal outcome of
// re-running ingestion over an overlapping source window.
package merge

import (
	"log/slog"

	"github.com/fieldside/playvault/core"
)

// Decision is the outcome of offering a candidate to the engine.
type Decision int

const (
	// Accept means the candidate is complete and its identity is novel.
	Accept Decision = iota + 1
	// SkipDuplicate means an equivalent identity already exists.
	SkipDuplicate
	// RejectIncomplete means the candidate has no sequence media. Fires
	// regardless of identity novelty.
	RejectIncomplete
)

// String returns the decision name for logs and summaries.
func (d Decision) String() string {
	switch d {
	case Accept:
		return "accept"
	case SkipDuplicate:
		return "skip-duplicate"
	case RejectIncomplete:
		return "reject-incomplete"
	default:
		return "unknown"
	}
}

// Index is the set of identity key forms present in a collection. Lookup
// must go through identity keys rather than canonical strings so that
// prefixed and legacy unprefixed forms collide.
type Index struct {
	keys map[string]struct{}
}

// NewIndex builds an index over the given records.
func NewIndex(records []*core.Record) *Index {
	ix := &Index{keys: make(map[string]struct{}, len(records)*2)}
	for _, record := range records {
		ix.Add(record.Identity)
	}
	return ix
}

// Add registers every key form of an identity.
func (ix *Index) Add(id core.Identity) {
	for _, key := range id.Keys() {
		ix.keys[key] = struct{}{}
	}
}

// Contains reports whether any key form of id is present.
func (ix *Index) Contains(id core.Identity) bool {
	for _, key := range id.Keys() {
		if _, ok := ix.keys[key]; ok {
			return true
		}
	}
	return false
}

// Len returns the number of registered key forms.
func (ix *Index) Len() int {
	return len(ix.keys)
}

// Engine applies the merge policy.
type Engine struct {
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Nil falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a merge engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide judges a resolved candidate against the current identity index.
//
// The completeness gate runs first: a candidate with no sequence media is
// rejected even when its identity is also a duplicate. Callers must
// re-Decide against a freshly reloaded index immediately before writing;
// a concurrent run may have accepted the same identity in the meantime.
func (e *Engine) Decide(candidate *core.Record, index *Index) Decision {
	if !candidate.Complete() {
		e.logger.Debug("merge rejected incomplete candidate",
			"identity", candidate.Identity.String())
		return RejectIncomplete
	}

	if index.Contains(candidate.Identity) {
		e.logger.Debug("merge skipped duplicate candidate",
			"identity", candidate.Identity.String())
		return SkipDuplicate
	}

	e.logger.Debug("merge accepted candidate",
		"identity", candidate.Identity.String(),
		"sequence", len(candidate.MediaSequence))
	return Accept
}
