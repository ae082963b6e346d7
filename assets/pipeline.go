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


package assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fieldside/playvault/core"
	"github.com/fieldside/playvault/media"
	"github.com/fieldside/playvault/storage"
	"github.com/panjf2000/ants/v2"
)

const (
	defaultPoolSize = 3

	// originalsSubdir keeps pre-transcode downloads out of the served tree.
	originalsSubdir = "originals"

	// blobPrefix is both the object-key namespace and the local relative
	// path prefix recorded in the collection when upload is unavailable.
	blobPrefix = "media/"
)

// Resolved is the outcome of transferring one item's media references.
// References that could not be transferred are absent: a dropped sequence
// entry leaves the remaining order intact, a failed auxiliary stays empty.
type Resolved struct {
	Sequence  []string
	Auxiliary string
}

// Pipeline turns media references into durable assets: download,
// transcode animated sources, normalize stills, upload, and record every
// completed transfer in the asset ledger so re-runs skip finished work.
type Pipeline struct {
	ledger     storage.AssetLedger
	fetcher    Fetcher
	transcoder Transcoder
	blobs      BlobStore
	normalizer Normalizer
	pool       *ants.Pool
	mediaDir   string
	workDir    string
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the per-item transfer concurrency.
// Default is 3.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithWorkDir redirects pre-transcode downloads to dir.
// Default is the originals subdirectory under the media dir.
func WithWorkDir(dir string) Option {
	return func(p *Pipeline) error {
		if dir != "" {
			p.workDir = dir
		}
		return nil
	}
}

// WithTranscoder wires a transcoder for animated sources. Without one,
// animated assets are served in their original format.
func WithTranscoder(transcoder Transcoder) Option {
	return func(p *Pipeline) error {
		p.transcoder = transcoder
		return nil
	}
}

// WithBlobStore wires durable upload. Without one, assets keep their
// local relative paths.
func WithBlobStore(blobs BlobStore) Option {
	return func(p *Pipeline) error {
		p.blobs = blobs
		return nil
	}
}

// WithNormalizer wires bounded re-encoding for static images.
func WithNormalizer(normalizer Normalizer) Option {
	return func(p *Pipeline) error {
		p.normalizer = normalizer
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a transfer pipeline writing local assets under
// mediaDir. The ledger and fetcher are required; transcoder, blob store,
// and normalizer degrade gracefully when absent.
func NewPipeline(ledger storage.AssetLedger, fetcher Fetcher, mediaDir string, opts ...Option) (*Pipeline, error) {
	if ledger == nil {
		return nil, ErrLedgerRequired
	}
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if mediaDir == "" {
		mediaDir = "media"
	}

	pool, err := ants.NewPool(defaultPoolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		ledger:   ledger,
		fetcher:  fetcher,
		pool:     pool,
		mediaDir: mediaDir,
		workDir:  filepath.Join(mediaDir, originalsSubdir),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	if err := os.MkdirAll(p.mediaDir, 0755); err != nil {
		p.Release()
		return nil, err
	}
	if err := os.MkdirAll(p.workDir, 0755); err != nil {
		p.Release()
		return nil, err
	}

	return p, nil
}

// Release releases the transfer pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// ResolveItem transfers one item's references. Sequence transfers run
// concurrently on the pool but keep source-list order in the result.
func (p *Pipeline) ResolveItem(ctx context.Context, identity core.Identity, refs media.Refs) (Resolved, error) {
	resolved := Resolved{}
	if err := ctx.Err(); err != nil {
		return resolved, err
	}

	results := make([]string, len(refs.Sequence))
	var wg sync.WaitGroup
	for i, sourceURL := range refs.Sequence {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			durable, err := p.transferSequenceAsset(ctx, identity, i, sourceURL)
			if err != nil {
				p.logger.Warn("dropping sequence asset",
					"identity", identity.String(), "url", sourceURL, "err", err)
				return
			}
			results[i] = durable
		})
		if submitErr != nil {
			wg.Done()
			p.logger.Warn("submitting transfer", "url", sourceURL, "err", submitErr)
		}
	}
	wg.Wait()

	for _, durable := range results {
		if durable != "" {
			resolved.Sequence = append(resolved.Sequence, durable)
		}
	}

	if refs.Auxiliary != "" {
		durable, err := p.transferAuxiliaryAsset(ctx, identity, refs.Auxiliary)
		if err != nil {
			p.logger.Warn("clearing auxiliary asset",
				"identity", identity.String(), "url", refs.Auxiliary, "err", err)
		} else {
			resolved.Auxiliary = durable
		}
	}

	return resolved, ctx.Err()
}

func (p *Pipeline) transferSequenceAsset(ctx context.Context, identity core.Identity, index int, sourceURL string) (string, error) {
	if durable, ok := p.lookupCompleted(ctx, sourceURL); ok {
		return durable, nil
	}

	srcExt := extOf(sourceURL)
	name := angleFileName(identity, index+1, srcExt)
	finalName := name
	downloadPath := filepath.Join(p.mediaDir, name)

	transcode := needsTranscode(srcExt) && p.transcoder != nil
	if transcode {
		downloadPath = filepath.Join(p.workDir, name)
		finalName = angleFileName(identity, index+1, ".mp4")
	}

	if err := p.fetcher.Download(ctx, sourceURL, downloadPath); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	finalPath := filepath.Join(p.mediaDir, finalName)
	if transcode {
		if err := p.transcoder.Transcode(ctx, downloadPath, finalPath); err != nil {
			return "", fmt.Errorf("%w: %w", ErrTransferFailed, err)
		}
	}

	if !isAnimated(srcExt) {
		p.normalizeInPlace(finalPath)
	}

	return p.publish(ctx, sourceURL, finalName, finalPath)
}

func (p *Pipeline) transferAuxiliaryAsset(ctx context.Context, identity core.Identity, sourceURL string) (string, error) {
	if durable, ok := p.lookupCompleted(ctx, sourceURL); ok {
		return durable, nil
	}

	name := diagramFileName(identity, extOf(sourceURL))
	localPath := filepath.Join(p.mediaDir, name)

	if err := p.fetcher.Download(ctx, sourceURL, localPath); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	p.normalizeInPlace(localPath)

	return p.publish(ctx, sourceURL, name, localPath)
}

// lookupCompleted consults the ledger for a finished transfer. Lookup
// errors degrade to a fresh transfer; the ledger is advisory.
func (p *Pipeline) lookupCompleted(ctx context.Context, sourceURL string) (string, bool) {
	state, err := p.ledger.LookupTransfer(ctx, sourceURL)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			p.logger.Warn("ledger lookup failed", "url", sourceURL, "err", err)
		}
		return "", false
	}
	p.logger.Debug("reusing completed transfer", "url", sourceURL)
	return state.DurableURL, true
}

func (p *Pipeline) normalizeInPlace(path string) {
	if p.normalizer == nil {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	normalized, err := p.normalizer.Normalize(data)
	if err != nil || len(normalized) == 0 {
		return
	}
	if err := os.WriteFile(path, normalized, 0644); err != nil {
		p.logger.Debug("rewriting normalized image", "path", path, "err", err)
	}
}

// publish uploads the finished asset and records the transfer. Upload
// failure falls back to the local relative path; ledger write failure is
// logged and ignored.
func (p *Pipeline) publish(ctx context.Context, sourceURL, name, localPath string) (string, error) {
	durable := blobPrefix + name
	if p.blobs != nil {
		url, err := p.blobs.Upload(ctx, localPath, blobPrefix+name)
		if err != nil {
			p.logger.Warn("upload failed, keeping local path", "asset", name, "err", err)
		} else {
			durable = url
		}
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	state := &storage.TransferState{
		SourceURL:   sourceURL,
		LocalPath:   blobPrefix + name,
		DurableURL:  durable,
		ContentHash: core.Fingerprint(data),
	}
	if err := p.ledger.RecordTransfer(ctx, state); err != nil {
		p.logger.Warn("recording transfer", "url", sourceURL, "err", err)
	}

	return durable, nil
}
