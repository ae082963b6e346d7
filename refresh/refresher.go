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


package refresh

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fieldside/playvault/core"
	"github.com/fieldside/playvault/extract"
	"github.com/fieldside/playvault/source"
	"github.com/fieldside/playvault/storage"
)

// Config holds configuration for a refresh pass.
type Config struct {
	// BatchSize is the number of rewritten records between incremental saves.
	BatchSize int

	// ReportInterval is how often to report progress (number of records).
	ReportInterval int

	// MaxRetries is the maximum number of attempts for source calls.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration

	// Family restricts the pass to records of one source family.
	// Empty falls back to the adapter's family.
	Family core.SourceFamily
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      25,
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Summary reports what one refresh pass did.
type Summary struct {
	Refreshed int
	Unchanged int
	Missing   int
	Failed    int
	Elapsed   time.Duration
}

// Refresher re-extracts the display fields of already-persisted records
// from their current source markup. Identity, media, and provenance are
// never rewritten: refresh improves presentation, it does not re-ingest.
//
// Fingerprints of previously seen markup are kept in the asset ledger so
// an unchanged source costs one fetch and nothing else.
type Refresher struct {
	store    storage.CollectionStore
	ledger   storage.AssetLedger
	adapter  source.Adapter
	config   *Config
	progress io.Writer
	dirty    map[string]*core.Record
}

// NewRefresher creates a refresher.
// progress: where to write progress output (typically os.Stderr)
func NewRefresher(store storage.CollectionStore, ledger storage.AssetLedger, adapter source.Adapter, config *Config, progress io.Writer) (*Refresher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if ledger == nil {
		return nil, ErrLedgerRequired
	}
	if adapter == nil {
		return nil, ErrAdapterRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Refresher{
		store:    store,
		ledger:   ledger,
		adapter:  adapter,
		config:   config,
		progress: progress,
		dirty:    make(map[string]*core.Record),
	}, nil
}

// Run executes one refresh pass over every eligible record. Per-record
// failures are counted; store errors abort the pass.
func (r *Refresher) Run(ctx context.Context) (*Summary, error) {
	started := time.Now()
	summary := &Summary{}
	defer func() { summary.Elapsed = time.Since(started) }()

	records, err := r.store.Load(ctx)
	if err != nil {
		return summary, err
	}

	var targets []*core.Record
	for _, record := range records {
		if r.eligible(record) {
			targets = append(targets, record)
		}
	}
	if len(targets) == 0 {
		fmt.Fprintf(r.progress, "No records to refresh (0 of %d eligible)\n", len(records))
		return summary, nil
	}

	fmt.Fprintf(r.progress, "Refreshing %d of %d records (batch size: %d)\n",
		len(targets), len(records), r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, len(targets), r.config.ReportInterval)
	tracker.Start()

	for _, record := range targets {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		r.refreshRecord(ctx, record, summary)
		tracker.Increment(1)

		if len(r.dirty) >= r.config.BatchSize {
			if err := r.flush(ctx); err != nil {
				return summary, err
			}
		}
	}

	if err := r.flush(ctx); err != nil {
		return summary, err
	}
	tracker.Finish()

	fmt.Fprintf(r.progress, "Refresh complete. %d refreshed, %d unchanged, %d missing, %d failed in %v\n",
		summary.Refreshed, summary.Unchanged, summary.Missing, summary.Failed,
		tracker.Elapsed().Round(time.Second))

	return summary, nil
}

// eligible reports whether a record belongs to the family this pass
// serves. Records without provenance predate it and came from mail.
func (r *Refresher) eligible(record *core.Record) bool {
	family := r.config.Family
	if family == "" {
		family = r.adapter.Family()
	}

	recordFamily := record.Provenance.Source
	if recordFamily == "" {
		recordFamily = core.SourceMail
	}
	return recordFamily == family
}

// refreshRecord drives one record to a summary bucket.
func (r *Refresher) refreshRecord(ctx context.Context, record *core.Record, summary *Summary) {
	body, found, err := r.locate(ctx, record)
	if err != nil {
		slog.Warn("refresh failed", "identity", record.Identity.String(), "error", err)
		summary.Failed++
		return
	}
	if !found {
		summary.Missing++
		return
	}

	sum := core.Fingerprint([]byte(body))
	if state, err := r.ledger.LookupFingerprint(ctx, record.Identity); err == nil && bytes.Equal(state.Sum, sum) {
		summary.Unchanged++
		return
	}

	r.rewrite(record, body)
	r.dirty[record.Identity.String()] = record
	summary.Refreshed++

	// The ledger is advisory; a write failure costs a repeat extraction on
	// the next pass.
	if err := r.ledger.RecordFingerprint(ctx, record.Identity, sum); err != nil {
		slog.Warn("recording refresh fingerprint",
			"identity", record.Identity.String(), "error", err)
	}
}

// locate finds the current source body for a record: by provenance
// reference when one exists, by identity-derived search otherwise.
func (r *Refresher) locate(ctx context.Context, record *core.Record) (string, bool, error) {
	id := fetchID(record.Provenance.Reference)
	if id == "" {
		items, err := r.search(ctx, "#"+record.Identity.String())
		if err != nil {
			return "", false, err
		}
		if len(items) == 0 {
			return "", false, nil
		}
		id = items[0].ID
	}

	item, err := r.fetch(ctx, id)
	if err != nil {
		return "", false, err
	}
	if item == nil || strings.TrimSpace(item.Body) == "" {
		return "", false, nil
	}
	return item.Body, true, nil
}

// rewrite re-extracts the display fields from the current body. A field
// the extractor misses keeps its stored value.
func (r *Refresher) rewrite(record *core.Record, body string) {
	if record.Provenance.Source == core.SourceSocial {
		record.Title = extract.SocialTitle(body)
		return
	}

	if title, ok := extract.Title(body); ok {
		record.Title = title
	}
	if date, ok := extract.ParseDateHeader(extract.DateHeader(body)); ok {
		record.CapturedDate = date
	}
	record.Attributes = mergeAttributes(record.Attributes, extract.Attributes(body))
}

// mergeAttributes overlays freshly extracted values onto the existing map.
func mergeAttributes(existing, extracted map[string]string) map[string]string {
	merged := core.NormalizeAttributes(existing)
	for key, value := range extracted {
		if value != "" {
			merged[key] = value
		}
	}
	return merged
}

// flush reloads the collection, applies the pending rewrites by identity,
// and saves. Records added or removed by a concurrent writer pass through
// untouched; a rewrite whose record disappeared is dropped.
func (r *Refresher) flush(ctx context.Context) error {
	if len(r.dirty) == 0 {
		return nil
	}

	if locker, ok := r.store.(storage.CollectionLocker); ok {
		locker.Lock()
		defer locker.Unlock()
	}

	records, err := r.store.Load(ctx)
	if err != nil {
		return err
	}
	for _, record := range records {
		updated, ok := r.dirty[record.Identity.String()]
		if !ok {
			continue
		}
		record.Title = updated.Title
		record.CapturedDate = updated.CapturedDate
		record.Attributes = updated.Attributes
	}
	if err := r.store.Save(ctx, records); err != nil {
		return err
	}

	r.dirty = make(map[string]*core.Record)
	return nil
}

func (r *Refresher) fetch(ctx context.Context, id string) (*source.Item, error) {
	var item *source.Item
	err := RetryWithBackoff(ctx, func() error {
		var err error
		item, err = r.adapter.Fetch(ctx, id)
		return err
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("fetching %s after %d attempts: %w", id, r.config.MaxRetries, err)
	}
	return item, nil
}

func (r *Refresher) search(ctx context.Context, query string) ([]*source.Item, error) {
	var items []*source.Item
	err := RetryWithBackoff(ctx, func() error {
		var err error
		items, err = r.adapter.Search(ctx, query, 1)
		return err
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("searching for %q after %d attempts: %w", query, r.config.MaxRetries, err)
	}
	return items, nil
}

// fetchID reduces a provenance reference to an adapter fetch id. Social
// references are permalinks; the post id is the final path segment.
func fetchID(reference string) string {
	reference = strings.TrimRight(reference, "/")
	if i := strings.LastIndexByte(reference, '/'); i >= 0 {
		return reference[i+1:]
	}
	return reference
}
