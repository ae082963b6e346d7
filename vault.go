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


package playvault

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/fieldside/playvault/assets"
	"github.com/fieldside/playvault/assets/ffmpeg"
	"github.com/fieldside/playvault/assets/wrangler"
	"github.com/fieldside/playvault/config"
	"github.com/fieldside/playvault/ingest"
	"github.com/fieldside/playvault/media"
	"github.com/fieldside/playvault/refresh"
	"github.com/fieldside/playvault/source"
	"github.com/fieldside/playvault/storage"
	"github.com/fieldside/playvault/storage/badger"
	"github.com/fieldside/playvault/storage/playsjson"
)

// Vault bundles the play collection, the asset ledger, and the settings
// they were opened with. It is the single entry point the commands use:
// open once, build ingest or refresh runs from it, close at the end.
type Vault struct {
	settings *config.Settings
	store    *playsjson.Store
	ledger   *badger.Ledger
	logger   *slog.Logger

	mu        sync.Mutex
	transfers []*assets.Pipeline
}

// VaultOption configures a Vault.
type VaultOption func(*vaultOptions)

type vaultOptions struct {
	inMemoryLedger bool
	logger         *slog.Logger
}

// WithInMemoryLedger keeps the asset ledger in memory instead of on disk.
// Transfers recorded during the run are forgotten on Close.
func WithInMemoryLedger() VaultOption {
	return func(o *vaultOptions) {
		o.inMemoryLedger = true
	}
}

// WithVaultLogger sets the logger used by the Vault and the runs it builds.
func WithVaultLogger(logger *slog.Logger) VaultOption {
	return func(o *vaultOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewVault opens the collection and the asset ledger named by settings.
// A nil settings opens everything with defaults.
func NewVault(settings *config.Settings, opts ...VaultOption) (*Vault, error) {
	options := &vaultOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	if settings == nil {
		settings = config.DefaultSettings()
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	store := playsjson.NewStore(settings.Collection)

	ledger, err := badger.OpenLedger(settings.LedgerDir, options.inMemoryLedger)
	if err != nil {
		return nil, err
	}

	return &Vault{
		settings: settings,
		store:    store,
		ledger:   ledger,
		logger:   options.logger,
	}, nil
}

// Close releases the transfer pools and closes the asset ledger.
// The collection store writes through on every save and needs no close.
func (v *Vault) Close() error {
	v.mu.Lock()
	transfers := v.transfers
	v.transfers = nil
	v.mu.Unlock()
	for _, t := range transfers {
		t.Release()
	}

	if err := v.ledger.Close(); err != nil {
		v.logger.Error("error closing asset ledger", "err", err)
		return err
	}
	return nil
}

// Collection returns the play collection store.
func (v *Vault) Collection() storage.CollectionStore {
	return v.store
}

// Ledger returns the asset transfer ledger.
func (v *Vault) Ledger() storage.AssetLedger {
	return v.ledger
}

// Settings returns the settings the vault was opened with.
func (v *Vault) Settings() *config.Settings {
	return v.settings
}

// NewIngestRun builds an ingest pipeline for the given source adapter.
// The transfer stage, the markup resolver, and the pacing options come
// from the settings; opts are applied after them, so callers can override
// any of it per run.
func (v *Vault) NewIngestRun(adapter source.Adapter, opts ...ingest.Option) (*ingest.Pipeline, error) {
	blobs, err := v.blobStore()
	if err != nil {
		return nil, err
	}

	transferOpts := []assets.Option{
		assets.WithPoolSize(v.settings.Transfer.Concurrency),
		assets.WithWorkDir(v.settings.WorkDir),
		assets.WithTranscoder(ffmpeg.NewTranscoder(ffmpeg.WithLogger(v.logger))),
		assets.WithNormalizer(assets.NewImageNormalizer(0, 0)),
		assets.WithLogger(v.logger),
	}
	if blobs != nil {
		transferOpts = append(transferOpts, assets.WithBlobStore(blobs))
	}

	fetcher := assets.NewHTTPFetcher(assets.WithFetchTimeout(v.settings.Transfer.FetchTimeoutDuration()))
	transfers, err := assets.NewPipeline(v.ledger, fetcher, v.settings.MediaDir, transferOpts...)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	v.transfers = append(v.transfers, transfers)
	v.mu.Unlock()

	resolver := media.NewResolver(
		media.WithDenylist(v.settings.Markup.Denylist),
		media.WithDivider(v.settings.Markup.Divider),
	)

	runOpts := append([]ingest.Option{
		ingest.WithResolver(resolver),
		ingest.WithDelay(v.settings.Mail.DelayDuration()),
		ingest.WithMaxNew(v.settings.Mail.MaxNew),
		ingest.WithLogger(v.logger),
	}, opts...)

	return ingest.NewPipeline(v.store, adapter, transfers, runOpts...)
}

// NewRefreshRun builds a refresher for the given source adapter. A nil
// config uses the batch size and report interval from the settings.
// Progress lines are written to progress; nil discards them.
func (v *Vault) NewRefreshRun(adapter source.Adapter, cfg *refresh.Config, progress io.Writer) (*refresh.Refresher, error) {
	if cfg == nil {
		cfg = v.RefreshConfig()
	}
	return refresh.NewRefresher(v.store, v.ledger, adapter, cfg, progress)
}

// RefreshConfig returns a refresh configuration with the batch size and
// report interval taken from the settings.
func (v *Vault) RefreshConfig() *refresh.Config {
	cfg := refresh.DefaultConfig()
	cfg.BatchSize = v.settings.Refresh.BatchSize
	cfg.ReportInterval = v.settings.Refresh.ReportInterval
	return cfg
}

// blobStore builds the remote blob store when one is configured. Uploads
// need both a public base URL in the settings and the R2_BUCKET variable
// in the environment; with either missing the vault stays local-only.
func (v *Vault) blobStore() (assets.BlobStore, error) {
	baseURL := v.settings.Blob.PublicBaseURL
	if baseURL == "" {
		return nil, nil
	}
	bucket := os.Getenv("R2_BUCKET")
	if bucket == "" {
		v.logger.Warn("blob uploads disabled", "reason", "R2_BUCKET not set")
		return nil, nil
	}
	return wrangler.New(bucket, baseURL)
}
