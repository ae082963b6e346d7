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


// Package gog adapts the gog mail CLI to the source.Adapter interface.
//
// Search runs a mail search expression, Fetch retrieves a thread's full
// markup, and MarkProcessed removes the UNREAD label so the label-queue
// workflow does not offer the thread again. Every invocation runs under a
// per-call timeout.
package gog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/fieldside/playvault/core"
	"github.com/fieldside/playvault/source"
)

const (
	defaultBinary  = "gog"
	defaultTimeout = 30 * time.Second
)

// Adapter retrieves mail digests through the gog CLI.
type Adapter struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
	run     func(ctx context.Context, binary string, args ...string) ([]byte, error)
}

var _ source.Adapter = (*Adapter)(nil)
var _ source.ProcessedMarker = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithBinary overrides the gog binary name or path.
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

// NewAdapter creates a mail adapter shelling out to the gog CLI.
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

// Family identifies this adapter as the mail source.
func (a *Adapter) Family() core.SourceFamily {
	return core.SourceMail
}

type searchHit struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
}

// gog emits "threads" for thread searches and "messages" otherwise.
type searchResponse struct {
	Threads  []searchHit `json:"threads"`
	Messages []searchHit `json:"messages"`
}

// Search lists up to limit threads matching the mail search expression.
// Results carry only the thread id and subject; Fetch retrieves bodies.
func (a *Adapter) Search(ctx context.Context, query string, limit int) ([]*source.Item, error) {
	out, err := a.run(ctx, a.binary, "gmail", "search", query, "--max", strconv.Itoa(limit), "--json")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", source.ErrUnavailable, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing search output: %w", source.ErrUnavailable, err)
	}

	hits := resp.Threads
	if len(hits) == 0 {
		hits = resp.Messages
	}

	items := make([]*source.Item, 0, len(hits))
	for _, hit := range hits {
		if hit.ID == "" {
			continue
		}
		items = append(items, &source.Item{
			ID:      hit.ID,
			Subject: hit.Subject,
		})
	}

	a.logger.Debug("mail search complete", "query", query, "hits", len(items))
	return items, nil
}

// Fetch retrieves the full markup of one thread.
func (a *Adapter) Fetch(ctx context.Context, id string) (*source.Item, error) {
	out, err := a.run(ctx, a.binary, "gmail", "get", id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", source.ErrUnavailable, err)
	}

	return &source.Item{
		ID:   id,
		Body: string(out),
	}, nil
}

// MarkProcessed removes the UNREAD label from a thread so the label
// workflow does not offer it again.
func (a *Adapter) MarkProcessed(ctx context.Context, id string) error {
	if _, err := a.run(ctx, a.binary, "gmail", "thread", "modify", id, "--remove", "UNREAD"); err != nil {
		return fmt.Errorf("%w: %w", source.ErrUnavailable, err)
	}
	return nil
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
