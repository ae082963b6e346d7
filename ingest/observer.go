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


package ingest

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fieldside/playvault/core"
)

// SkipReason explains why an item was not persisted.
type SkipReason string

const (
	// SkipReasonDuplicate means an equivalent identity already exists.
	SkipReasonDuplicate SkipReason = "duplicate"
	// SkipReasonIrrelevant means the item failed the play screen.
	SkipReasonIrrelevant SkipReason = "irrelevant"
	// SkipReasonIncomplete means no sequence media survived resolution.
	SkipReasonIncomplete SkipReason = "incomplete"
)

// Summary aggregates one run's outcomes.
type Summary struct {
	RunID      string
	Family     core.SourceFamily
	Processed  int
	Accepted   int
	Duplicates int
	Incomplete int
	Irrelevant int
	Failed     int
	Elapsed    time.Duration
}

// Observer receives run lifecycle callbacks. Callbacks run inline on the
// single-writer loop, so implementations must be fast.
type Observer interface {
	RunStarted(runID string, family core.SourceFamily)
	ItemStarted(itemID string)
	ItemPersisted(itemID string, identity core.Identity)
	ItemSkipped(itemID string, reason SkipReason)
	ItemFailed(itemID string, err error)
	RunFinished(summary *Summary)
}

// NoopObserver implements Observer with no-ops. Embed it to implement
// only the callbacks you care about.
type NoopObserver struct{}

var _ Observer = NoopObserver{}

func (NoopObserver) RunStarted(string, core.SourceFamily) {}
func (NoopObserver) ItemStarted(string)                   {}
func (NoopObserver) ItemPersisted(string, core.Identity)  {}
func (NoopObserver) ItemSkipped(string, SkipReason)       {}
func (NoopObserver) ItemFailed(string, error)             {}
func (NoopObserver) RunFinished(*Summary)                 {}

// LoggingObserver logs run progress through slog.
type LoggingObserver struct {
	logger *slog.Logger
}

var _ Observer = (*LoggingObserver)(nil)

// NewLoggingObserver creates a logging observer.
// A nil logger falls back to slog.Default().
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{logger: logger}
}

func (o *LoggingObserver) RunStarted(runID string, family core.SourceFamily) {
	o.logger.Info("ingest run started", "run", runID, "family", string(family))
}

func (o *LoggingObserver) ItemStarted(itemID string) {
	o.logger.Debug("processing item", "item", itemID)
}

func (o *LoggingObserver) ItemPersisted(itemID string, identity core.Identity) {
	o.logger.Info("persisted play", "item", itemID, "identity", identity.String())
}

func (o *LoggingObserver) ItemSkipped(itemID string, reason SkipReason) {
	o.logger.Info("skipped item", "item", itemID, "reason", string(reason))
}

func (o *LoggingObserver) ItemFailed(itemID string, err error) {
	o.logger.Warn("item failed", "item", itemID, "err", err)
}

func (o *LoggingObserver) RunFinished(summary *Summary) {
	o.logger.Info("ingest run finished",
		"run", summary.RunID,
		"processed", summary.Processed,
		"accepted", summary.Accepted,
		"duplicates", summary.Duplicates,
		"incomplete", summary.Incomplete,
		"irrelevant", summary.Irrelevant,
		"failed", summary.Failed,
		"elapsed", summary.Elapsed,
	)
}

// SummaryObserver counts outcomes as they happen. RunStarted resets the
// counters, so one observer can watch sequential runs.
type SummaryObserver struct {
	mu      sync.Mutex
	summary Summary
	started time.Time
}

var _ Observer = (*SummaryObserver)(nil)

func (o *SummaryObserver) RunStarted(runID string, family core.SourceFamily) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.summary = Summary{RunID: runID, Family: family}
	o.started = time.Now()
}

func (o *SummaryObserver) ItemStarted(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.summary.Processed++
}

func (o *SummaryObserver) ItemPersisted(string, core.Identity) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.summary.Accepted++
}

func (o *SummaryObserver) ItemSkipped(_ string, reason SkipReason) {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch reason {
	case SkipReasonDuplicate:
		o.summary.Duplicates++
	case SkipReasonIrrelevant:
		o.summary.Irrelevant++
	case SkipReasonIncomplete:
		o.summary.Incomplete++
	}
}

func (o *SummaryObserver) ItemFailed(string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.summary.Failed++
}

func (o *SummaryObserver) RunFinished(*Summary) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.summary.Elapsed = time.Since(o.started)
}

// Summary returns a snapshot of the current counters.
func (o *SummaryObserver) Summary() Summary {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.summary
}
