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


package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fieldside/playvault"
	"github.com/fieldside/playvault/ai"
	"github.com/fieldside/playvault/ai/openai"
	"github.com/fieldside/playvault/config"
	"github.com/fieldside/playvault/core"
	"github.com/fieldside/playvault/extract"
	"github.com/fieldside/playvault/ingest"
	"github.com/fieldside/playvault/merge"
	"github.com/fieldside/playvault/source"
	"github.com/fieldside/playvault/source/bird"
	"github.com/fieldside/playvault/source/gog"
	"github.com/fieldside/playvault/tags"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const (
	// suggestLimit caps how many untagged titles one tags --suggest pass
	// sends to the model.
	suggestLimit = 10

	// refreshCacheSize bounds the fetch cache wrapped around the source
	// adapter during a refresh pass.
	refreshCacheSize = 512
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "playvault",
		Usage: "Football play collection: extraction, ingestion, and analysis",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the settings file",
				Value:   "playvault.yaml",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "collection",
				Usage: "Override the collection document path",
			},
			&cli.StringFlag{
				Name:  "media-dir",
				Usage: "Override the durable media directory",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:  "ingest",
				Usage: "Pull plays from a source into the collection",
				Subcommands: []*cli.Command{
					{
						Name:   "mail",
						Usage:  "Ingest mail digests through the gog CLI",
						Action: ingestMailCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "query",
								Aliases: []string{"q"},
								Usage:   "Mail search query (defaults to the settings value)",
							},
							&cli.StringFlag{
								Name:  "label",
								Usage: "Label workflow: search label:<name> is:unread and mark threads read",
							},
							&cli.IntFlag{
								Name:  "max",
								Usage: "Maximum search results to consider (defaults to the settings value)",
							},
							&cli.IntFlag{
								Name:  "max-new",
								Usage: "Stop after this many newly accepted plays (0 is unlimited)",
							},
							&cli.DurationFlag{
								Name:  "delay",
								Usage: "Pause between items (defaults to the settings value)",
							},
						},
					},
					{
						Name:   "social",
						Usage:  "Ingest timeline posts through the bird CLI",
						Action: ingestSocialCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "user",
								Aliases: []string{"u"},
								Usage:   "Timeline handle to scan (defaults to the settings value)",
							},
							&cli.IntFlag{
								Name:    "count",
								Aliases: []string{"n"},
								Usage:   "Number of posts to scan (defaults to the settings value)",
							},
						},
					},
					{
						Name:   "all",
						Usage:  "Ingest mail and social concurrently with settings defaults",
						Action: ingestAllCommand,
					},
				},
			},
			{
				Name:   "refresh",
				Usage:  "Re-extract display fields for already-persisted plays",
				Action: refreshCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "family",
						Usage: "Source family to refresh (mail or social)",
						Value: "mail",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Records between incremental saves (defaults to the settings value)",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records (defaults to the settings value)",
					},
				},
			},
			{
				Name:   "tags",
				Usage:  "Analyze play-type coverage across the collection",
				Action: tagsCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "suggest",
						Usage: "Ask the configured model to propose tags for untagged titles",
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "Write a small sample collection for development",
				Action: seedCommand,
			},
		},
	}
}

func ingestMailCommand(c *cli.Context) error {
	ctx := context.Background()

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	vault, err := playvault.NewVault(settings)
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer vault.Close()

	query := mailQuery(c.String("query"), c.String("label"), settings.Mail.Query)
	max := settings.Mail.Max
	if c.IsSet("max") {
		max = c.Int("max")
	}

	var opts []ingest.Option
	if c.IsSet("max-new") {
		opts = append(opts, ingest.WithMaxNew(c.Int("max-new")))
	}
	if c.IsSet("delay") {
		opts = append(opts, ingest.WithDelay(c.Duration("delay")))
	}

	run, err := vault.NewIngestRun(gog.NewAdapter(), opts...)
	if err != nil {
		return fmt.Errorf("failed to build ingest pipeline: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Collection: %s\n", vault.Collection().Path())
	fmt.Fprintf(os.Stderr, "Query: %s\n\n", query)

	summary, err := run.Run(ctx, query, max)
	if err != nil {
		return fmt.Errorf("mail ingest failed: %w", err)
	}
	printIngestSummary(summary)
	return nil
}

// mailQuery resolves the search query: an explicit query wins, then the
// label workflow, then the settings default.
func mailQuery(explicit, label, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if label != "" {
		return fmt.Sprintf("label:%s is:unread", label)
	}
	return fallback
}

func ingestSocialCommand(c *cli.Context) error {
	ctx := context.Background()

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	vault, err := playvault.NewVault(settings)
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer vault.Close()

	user := settings.Social.User
	if c.String("user") != "" {
		user = c.String("user")
	}
	count := settings.Social.Count
	if c.IsSet("count") {
		count = c.Int("count")
	}

	run, err := vault.NewIngestRun(bird.NewAdapter())
	if err != nil {
		return fmt.Errorf("failed to build ingest pipeline: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Collection: %s\n", vault.Collection().Path())
	fmt.Fprintf(os.Stderr, "Timeline: @%s\n\n", strings.TrimPrefix(user, "@"))

	summary, err := run.Run(ctx, user, count)
	if err != nil {
		return fmt.Errorf("social ingest failed: %w", err)
	}
	printIngestSummary(summary)
	return nil
}

func ingestAllCommand(c *cli.Context) error {
	ctx := context.Background()

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	vault, err := playvault.NewVault(settings)
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer vault.Close()

	mailRun, err := vault.NewIngestRun(gog.NewAdapter())
	if err != nil {
		return fmt.Errorf("failed to build mail pipeline: %w", err)
	}
	socialRun, err := vault.NewIngestRun(bird.NewAdapter())
	if err != nil {
		return fmt.Errorf("failed to build social pipeline: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Collection: %s\n\n", vault.Collection().Path())

	// Both families write to the same collection; the store serializes
	// the appends.
	var mailSummary, socialSummary *ingest.Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := mailRun.Run(gctx, settings.Mail.Query, settings.Mail.Max)
		if err != nil {
			return fmt.Errorf("mail ingest failed: %w", err)
		}
		mailSummary = s
		return nil
	})
	g.Go(func() error {
		s, err := socialRun.Run(gctx, settings.Social.User, settings.Social.Count)
		if err != nil {
			return fmt.Errorf("social ingest failed: %w", err)
		}
		socialSummary = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	printIngestSummary(mailSummary)
	printIngestSummary(socialSummary)
	return nil
}

func refreshCommand(c *cli.Context) error {
	ctx := context.Background()

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	vault, err := playvault.NewVault(settings)
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer vault.Close()

	family := c.String("family")
	var adapter source.Adapter
	switch family {
	case "mail":
		adapter = gog.NewAdapter()
	case "social":
		adapter = bird.NewAdapter()
	default:
		return fmt.Errorf("unknown source family %q (use mail or social)", family)
	}

	// Refresh revisits the same items across batches; the cache keeps
	// that from re-invoking the source command.
	cached, err := source.NewCachingAdapter(adapter, refreshCacheSize)
	if err != nil {
		return fmt.Errorf("failed to build fetch cache: %w", err)
	}

	cfg := vault.RefreshConfig()
	cfg.Family = core.SourceFamily(family)
	if c.IsSet("batch-size") {
		cfg.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("report-interval") {
		cfg.ReportInterval = c.Int("report-interval")
	}

	refresher, err := vault.NewRefreshRun(cached, cfg, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to build refresher: %w", err)
	}

	summary, err := refresher.Run(ctx)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "\n%s refresh: %d refreshed, %d unchanged, %d missing, %d failed (%s)\n",
		family, summary.Refreshed, summary.Unchanged, summary.Missing, summary.Failed,
		summary.Elapsed.Round(time.Millisecond))
	return nil
}

func tagsCommand(c *cli.Context) error {
	ctx := context.Background()

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	vault, err := playvault.NewVault(settings)
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer vault.Close()

	records, err := vault.Collection().Load(ctx)
	if err != nil {
		return err
	}

	report := tags.Analyze(records)
	report.Render(os.Stdout)

	if !c.Bool("suggest") && !settings.AI.Enabled {
		return nil
	}
	return suggestTags(ctx, settings, records)
}

// suggestTags asks the configured model for tags on titles no rule
// matched. Failures here are fatal: a misconfigured or unreachable
// service should be visible, not silently skipped.
func suggestTags(ctx context.Context, settings *config.Settings, records []*core.Record) error {
	suggester, err := openai.NewSuggester(ai.NewConfig(
		ai.WithHost(settings.AI.Host),
		ai.WithModel(settings.AI.Model),
	))
	if err != nil {
		return fmt.Errorf("failed to create tag suggester: %w", err)
	}

	fmt.Println("\n=== SUGGESTIONS ===")
	shown := 0
	for _, record := range records {
		if shown >= suggestLimit {
			break
		}
		if len(tags.Tag(record)) > 0 {
			continue
		}
		if record.Title == "" || record.Title == extract.FallbackTitle {
			continue
		}

		suggestions, err := suggester.SuggestTags(ctx, record.Title, record.Attributes)
		if err != nil {
			return fmt.Errorf("tag suggestion failed: %w", err)
		}
		shown++

		fmt.Printf("  %s\n", record.Title)
		if len(suggestions) == 0 {
			fmt.Println("    (no confident suggestion)")
			continue
		}
		for _, s := range suggestions {
			fmt.Printf("    %s (%d)\n", s.Tag, s.Confidence)
		}
	}
	if shown == 0 {
		fmt.Println("  every titled play already matches a rule")
	}
	return nil
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	vault, err := playvault.NewVault(settings)
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer vault.Close()

	store := vault.Collection()
	records, err := store.Load(ctx)
	if err != nil {
		return err
	}

	index := merge.NewIndex(records)
	added := 0
	for _, record := range samplePlays() {
		if index.Contains(record.Identity) {
			continue
		}
		records = append(records, record)
		index.Add(record.Identity)
		added++
	}
	if added == 0 {
		fmt.Fprintln(os.Stderr, "Collection already seeded")
		return nil
	}

	if err := store.Save(ctx, records); err != nil {
		return fmt.Errorf("failed to save seeded collection: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Seeded %d sample plays into %s\n", added, store.Path())
	return nil
}

// samplePlays is the development fixture: both source families, every
// sort tier, and titles that exercise the tag rules.
func samplePlays() []*core.Record {
	mk := func(identity core.Identity, title, date string, attrs map[string]string, clips int, provenance core.Provenance) *core.Record {
		record := core.NewRecord(identity, title, date)
		record.Attributes = core.NormalizeAttributes(attrs)
		for i := 1; i <= clips; i++ {
			record.MediaSequence = append(record.MediaSequence,
				fmt.Sprintf("media/%s_angle%d.mp4", identity.String(), i))
		}
		record.Provenance = provenance
		return record
	}

	diagrammed := mk(core.NumericIdentity(102),
		"2015 Wk 6 Tunnel Screen vs Cover 3", "2024-04-19",
		map[string]string{
			core.AttrDownAndDistance: "3rd & 4",
			core.AttrPersonnel:       "10p",
			core.AttrFormation:       "Empty Quads",
		},
		3, core.Provenance{Source: core.SourceMail, Reference: "seed-102"})
	diagrammed.AuxiliaryMedia = "media/102_diagram.jpg"

	return []*core.Record{
		mk(core.NumericIdentity(101),
			"2012 Wk 9 Broncos vs Bengals Counter OF Lt", "2024-03-08",
			map[string]string{
				core.AttrDownAndDistance: "1st & 10",
				core.AttrPersonnel:       "12p",
				core.AttrFormation:       "Ace Wing",
			},
			2, core.Provenance{Source: core.SourceMail, Reference: "seed-101"}),
		diagrammed,
		mk(core.NumericIdentity(103),
			"2019 Wk 14 Naked Boot Rt off Split Zone", "2024-05-02",
			map[string]string{
				core.AttrDownAndDistance: "2nd & 6",
				core.AttrPersonnel:       "21p",
				core.AttrFormation:       "I Right",
			},
			1, core.Provenance{Source: core.SourceMail, Reference: "seed-103"}),
		mk(core.ExternalIdentity("x", "1881230000000001"),
			"Film room: RPO glance out of 11 personnel", "2025-01-17",
			nil, 1,
			core.Provenance{Source: core.SourceSocial, Reference: "https://x.com/coach/status/1881230000000001"}),
		mk(core.ExternalIdentity("x", "1881230000000002"),
			"Flea flicker in the two-minute drill", "2025-02-03",
			nil, 1,
			core.Provenance{Source: core.SourceSocial, Reference: "https://x.com/coach/status/1881230000000002"}),
	}
}

func loadSettings(c *cli.Context) (*config.Settings, error) {
	settings, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if v := c.String("collection"); v != "" {
		settings.Collection = v
	}
	if v := c.String("media-dir"); v != "" {
		settings.MediaDir = v
	}
	return settings, nil
}

func printIngestSummary(summary *ingest.Summary) {
	fmt.Fprintf(os.Stderr, "%s ingest: %d processed, %d accepted, %d duplicates, %d incomplete, %d irrelevant, %d failed (%s)\n",
		summary.Family, summary.Processed, summary.Accepted, summary.Duplicates,
		summary.Incomplete, summary.Irrelevant, summary.Failed,
		summary.Elapsed.Round(time.Millisecond))
}

func setup(c *cli.Context) error {
	// Blob-store credentials may live in a local .env file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return setupLogger(c)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
