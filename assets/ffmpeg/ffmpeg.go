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


// Package ffmpeg transcodes animated media to web-ready MP4 by shelling
// out to the ffmpeg binary.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fieldside/playvault/assets"
)

const (
	defaultBinary  = "ffmpeg"
	defaultTimeout = 2 * time.Minute

	// yuv420p requires even dimensions; the filter rounds both down.
	evenScaleFilter = "scale=trunc(iw/2)*2:trunc(ih/2)*2"
)

// Transcoder converts animated sources to MP4 via the ffmpeg binary.
type Transcoder struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger

	run func(ctx context.Context, binary string, args ...string) error
}

var _ assets.Transcoder = (*Transcoder)(nil)

// Option configures a Transcoder.
type Option func(*Transcoder)

// WithBinary sets the ffmpeg binary path.
// Default is "ffmpeg" resolved from PATH.
func WithBinary(binary string) Option {
	return func(t *Transcoder) {
		if binary != "" {
			t.binary = binary
		}
	}
}

// WithTimeout sets the per-conversion timeout.
// Default is 2 minutes.
func WithTimeout(timeout time.Duration) Option {
	return func(t *Transcoder) {
		if timeout > 0 {
			t.timeout = timeout
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transcoder) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTranscoder creates an ffmpeg-backed transcoder.
func NewTranscoder(opts ...Option) *Transcoder {
	t := &Transcoder{
		binary:  defaultBinary,
		timeout: defaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.run = t.runCommand
	return t
}

// Transcode converts srcPath to an MP4 at destPath, overwriting any
// existing file there.
func (t *Transcoder) Transcode(ctx context.Context, srcPath, destPath string) error {
	t.logger.Debug("transcoding", "src", srcPath, "dest", destPath)

	err := t.run(ctx, t.binary,
		"-i", srcPath,
		"-movflags", "faststart",
		"-pix_fmt", "yuv420p",
		"-vf", evenScaleFilter,
		destPath,
		"-y",
	)
	if err != nil {
		return fmt.Errorf("transcoding %s: %w", filepath.Base(srcPath), err)
	}
	return nil
}

func (t *Transcoder) runCommand(ctx context.Context, binary string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// ffmpeg writes pages of progress to stderr; keep only the tail.
		if msg := lastLine(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
