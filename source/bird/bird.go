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


// Package bird adapts the bird timeline CLI to the source.Adapter
// interface. Search lists an account's recent posts; items arrive
// complete, with structured media refs preferring video variants over
// their preview stills.
package bird

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fieldside/playvault/core"
	"github.com/fieldside/playvault/source"
)

const (
	defaultBinary  = "bird"
	defaultTimeout = 30 * time.Second
)

var statusPattern = regexp.MustCompile(`/status/(\d+)`)

// Adapter retrieves social posts through the bird CLI.
type Adapter struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
	run     func(ctx context.Context, binary string, args ...string) ([]byte, error)
}

var _ source.Adapter = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithBinary overrides the bird binary name or path.
func WithBinary(binary string) Option {
	return func(a *Adapter) {
		if binary != "" {
			a.binary = binary
		}
	}
}

// WithTimeout sets the per-invocation timeout.
// Default is 30 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(a *Adapter) {
		if timeout > 0 {
			a.timeout = timeout
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAdapter creates a social adapter shelling out to the bird CLI.
func NewAdapter(opts ...Option) *Adapter {
	a := &Adapter{
		binary:  defaultBinary,
		timeout: defaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.run = a.runCommand
	return a
}

// Family identifies this adapter as the social source.
func (a *Adapter) Family() core.SourceFamily {
	return core.SourceSocial
}

// tweetPayload tolerates the id living under different field names and
// being emitted as either a JSON number or a numeric string.
type tweetPayload struct {
	ID        json.Number    `json:"id"`
	RestID    json.Number    `json:"rest_id"`
	IDStr     json.Number    `json:"id_str"`
	Text      string         `json:"text"`
	Date      string         `json:"date"`
	CreatedAt string         `json:"created_at"`
	URL       string         `json:"url"`
	Media     []mediaPayload `json:"media"`
}

type mediaPayload struct {
	Type       string `json:"type"`
	URL        string `json:"url"`
	VideoURL   string `json:"videoUrl"`
	PreviewURL string `json:"previewUrl"`
}

func (t *tweetPayload) id() string {
	for _, candidate := range []json.Number{t.ID, t.RestID, t.IDStr} {
		if candidate.String() != "" {
			return candidate.String()
		}
	}
	if m := statusPattern.FindStringSubmatch(t.URL); m != nil {
		return m[1]
	}
	return ""
}

// mediaRefs keeps the source order, taking the video variant when one
// exists and falling back to the still otherwise.
func (t *tweetPayload) mediaRefs() []string {
	refs := make([]string, 0, len(t.Media))
	for _, m := range t.Media {
		switch {
		case m.VideoURL != "":
			refs = append(refs, m.VideoURL)
		case m.URL != "":
			refs = append(refs, m.URL)
		case m.PreviewURL != "":
			refs = append(refs, m.PreviewURL)
		}
	}
	return refs
}

func (t *tweetPayload) posted() time.Time {
	for _, raw := range []string{t.Date, t.CreatedAt} {
		if raw == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339, time.RubyDate} {
			if ts, err := time.Parse(layout, raw); err == nil {
				return ts
			}
		}
	}
	return time.Time{}
}

func (t *tweetPayload) permalink(id string) string {
	if t.URL != "" {
		return t.URL
	}
	return "https://x.com/i/status/" + id
}

func (t *tweetPayload) toItem() *source.Item {
	id := t.id()
	if id == "" {
		return nil
	}
	return &source.Item{
		ID:        id,
		Body:      t.Text,
		MediaRefs: t.mediaRefs(),
		Permalink: t.permalink(id),
		Posted:    t.posted(),
	}
}

// Search lists up to limit recent posts from an account. The query is the
// account handle, with or without a leading @.
func (a *Adapter) Search(ctx context.Context, query string, limit int) ([]*source.Item, error) {
	handle := strings.TrimSpace(query)
	if handle != "" && !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}

	out, err := a.run(ctx, a.binary, "user-tweets", handle, "-n", strconv.Itoa(limit), "--json")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", source.ErrUnavailable, err)
	}

	var tweets []tweetPayload
	if err := json.Unmarshal(out, &tweets); err != nil {
		return nil, fmt.Errorf("%w: parsing timeline output: %w", source.ErrUnavailable, err)
	}

	items := make([]*source.Item, 0, len(tweets))
	for i := range tweets {
		item := tweets[i].toItem()
		if item == nil {
			a.logger.Warn("skipping post with no recoverable id")
			continue
		}
		items = append(items, item)
	}

	a.logger.Debug("timeline listing complete", "handle", handle, "posts", len(items))
	return items, nil
}

// Fetch retrieves a single post by id. Accepts both a bare object and a
// one-element array from the CLI.
func (a *Adapter) Fetch(ctx context.Context, id string) (*source.Item, error) {
	out, err := a.run(ctx, a.binary, "tweet", id, "--json")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", source.ErrUnavailable, err)
	}

	var tweet tweetPayload
	if err := json.Unmarshal(out, &tweet); err != nil {
		var list []tweetPayload
		if listErr := json.Unmarshal(out, &list); listErr != nil || len(list) == 0 {
			return nil, fmt.Errorf("%w: parsing tweet output: %w", source.ErrUnavailable, err)
		}
		tweet = list[0]
	}

	item := tweet.toItem()
	if item == nil {
		// The caller's id still identifies the post even when the
		// payload carries none.
		tweet.ID = json.Number(id)
		item = tweet.toItem()
	}
	return item, nil
}

func (a *Adapter) runCommand(ctx context.Context, binary string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s %s: %w: %s", binary, args[0], err, msg)
		}
		return nil, fmt.Errorf("%s %s: %w", binary, args[0], err)
	}
	return stdout.Bytes(), nil
}
