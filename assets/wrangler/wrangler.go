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


// Package wrangler uploads assets to Cloudflare R2 by shelling out to
// the wrangler CLI. Credentials come from the process environment
// (CLOUDFLARE_API_TOKEN, CLOUDFLARE_ACCOUNT_ID), which wrangler reads
// itself.
package wrangler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/fieldside/playvault/assets"
)

const (
	defaultBinary  = "wrangler"
	defaultTimeout = 5 * time.Minute
)

var (
	// ErrBucketRequired is returned by New when no bucket is given.
	ErrBucketRequired = errors.New("bucket is required")

	// ErrBaseURLRequired is returned by New when no public base URL is
	// given. Without one there is no durable URL to hand back.
	ErrBaseURLRequired = errors.New("public base URL is required")
)

// BlobStore uploads objects to an R2 bucket and returns their public
// URLs.
type BlobStore struct {
	binary        string
	bucket        string
	publicBaseURL string
	timeout       time.Duration
	logger        *slog.Logger

	run func(ctx context.Context, binary string, args ...string) error
}

var _ assets.BlobStore = (*BlobStore)(nil)

// Option configures a BlobStore.
type Option func(*BlobStore)

// WithBinary sets the wrangler binary path.
// Default is "wrangler" resolved from PATH.
func WithBinary(binary string) Option {
	return func(s *BlobStore) {
		if binary != "" {
			s.binary = binary
		}
	}
}

// WithTimeout sets the per-upload timeout.
// Default is 5 minutes.
func WithTimeout(timeout time.Duration) Option {
	return func(s *BlobStore) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *BlobStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an R2 blob store for the given bucket. Uploaded objects
// become reachable under publicBaseURL.
func New(bucket, publicBaseURL string, opts ...Option) (*BlobStore, error) {
	if bucket == "" {
		return nil, ErrBucketRequired
	}
	if publicBaseURL == "" {
		return nil, ErrBaseURLRequired
	}

	s := &BlobStore{
		binary:        defaultBinary,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		timeout:       defaultTimeout,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.run = s.runCommand
	return s, nil
}

// Upload stores the file at localPath under key and returns its public
// URL.
func (s *BlobStore) Upload(ctx context.Context, localPath, key string) (string, error) {
	s.logger.Debug("uploading", "bucket", s.bucket, "key", key)

	err := s.run(ctx, s.binary,
		"r2", "object", "put", s.bucket+"/"+key,
		"--file", localPath,
		"--remote",
	)
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}
	return s.publicBaseURL + "/" + key, nil
}

func (s *BlobStore) runCommand(ctx context.Context, binary string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
