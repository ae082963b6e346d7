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


package source

import (
	"context"
	"time"

	"github.com/fieldside/playvault/core"
)

// Item is one retrievable item from an external source. Mail search results
// carry only ID and Subject; Fetch fills in the Body. Social items arrive
// complete from the timeline listing.
type Item struct {
	// ID is the source-local item identifier (mail thread id, post id).
	ID string

	// Subject is the mail subject line. Empty for social items.
	Subject string

	// Body is the full markup or text of the item.
	Body string

	// MediaRefs holds structured media URLs supplied by the source itself.
	// When non-empty, downstream extraction skips markup scanning.
	MediaRefs []string

	// Permalink is a stable public URL for the item, when the source has one.
	Permalink string

	// Posted is the source-reported publication time. Zero when unknown.
	Posted time.Time
}

// Adapter retrieves items from one source family.
// Implementations must be safe for concurrent use.
type Adapter interface {
	// Family identifies which source family this adapter serves.
	Family() core.SourceFamily

	// Search lists up to limit items matching the query. The query format is
	// adapter-specific: a mail search expression, a social account handle.
	// Returns an error wrapping ErrUnavailable when the source cannot be
	// reached or returns an unparseable response.
	Search(ctx context.Context, query string, limit int) ([]*Item, error)

	// Fetch retrieves one item in full by its source-local id.
	Fetch(ctx context.Context, id string) (*Item, error)
}

// ProcessedMarker is an optional adapter capability: sources with a pending
// queue (the mail label workflow) expose it so the pipeline can mark items
// handled at the source regardless of ingestion outcome.
type ProcessedMarker interface {
	MarkProcessed(ctx context.Context, id string) error
}
