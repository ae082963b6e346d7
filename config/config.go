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


// Package config provides settings loading for the play vault.
//
// Settings come from a single YAML file. A missing file is not an error:
// Load returns DefaultSettings so the tool works out of the box in a fresh
// directory. Command-line flags override loaded values; blob-store
// credentials (R2_ACCOUNT_ID, R2_API_TOKEN, R2_BUCKET) come from the
// environment, never from the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the master configuration for the play vault.
type Settings struct {
	// Collection is the path of the plays collection document.
	// Default: plays.json
	Collection string `yaml:"collection"`

	// MediaDir is where transferred assets are written.
	// Default: media
	MediaDir string `yaml:"media_dir"`

	// WorkDir is scratch space for transcode output.
	// Default: work
	WorkDir string `yaml:"work_dir"`

	// LedgerDir is the asset ledger database directory.
	// Default: ledger
	LedgerDir string `yaml:"ledger_dir"`

	// Mail configures the mail ingestion source.
	Mail MailSettings `yaml:"mail"`

	// Social configures the social ingestion source.
	Social SocialSettings `yaml:"social"`

	// Refresh configures re-extraction passes.
	Refresh RefreshSettings `yaml:"refresh"`

	// Markup configures the media markup scanner.
	Markup MarkupSettings `yaml:"markup"`

	// Transfer configures asset download and upload.
	Transfer TransferSettings `yaml:"transfer"`

	// Blob configures the public blob store.
	Blob BlobSettings `yaml:"blob"`

	// AI configures the optional tag suggester.
	AI AISettings `yaml:"ai"`
}

// MailSettings configures the mail ingestion source.
type MailSettings struct {
	// Query is the mail search expression for digest threads.
	// Default: from:dan@coachdancasey.com subject:"One Play a Day"
	Query string `yaml:"query"`

	// Label is the mail label for the label-queue workflow. The workflow
	// lists unread threads under the label and marks them read once
	// processed.
	// Default: one-play-a-day
	Label string `yaml:"label"`

	// Max caps how many threads one search returns.
	// Default: 50
	Max int `yaml:"max"`

	// MaxNew caps how many new plays one run may add. Zero means no cap.
	// Default: 0
	MaxNew int `yaml:"max_new"`

	// Delay is the pause between items, as a Go duration string.
	// Default: 1s
	Delay string `yaml:"delay"`
}

// SocialSettings configures the social ingestion source.
type SocialSettings struct {
	// User is the account handle whose timeline is scanned.
	// Default: CoachDanCasey
	User string `yaml:"user"`

	// Count is how many recent posts one run examines.
	// Default: 15
	Count int `yaml:"count"`
}

// RefreshSettings configures re-extraction passes.
type RefreshSettings struct {
	// BatchSize is how many rewritten records accumulate before a save.
	// Default: 25
	BatchSize int `yaml:"batch_size"`

	// ReportInterval is how many records pass between progress reports.
	// Default: 10
	ReportInterval int `yaml:"report_interval"`
}

// MarkupSettings configures the media markup scanner.
type MarkupSettings struct {
	// Denylist drops media URLs containing any of these fragments.
	// Default: Email-Header, TeamWorks
	Denylist []string `yaml:"denylist"`

	// Divider is the marker separating play content from the boilerplate
	// footer. Markup at or after the divider is never scanned.
	// Default: fd-divider
	Divider string `yaml:"divider"`
}

// TransferSettings configures asset download and upload.
type TransferSettings struct {
	// Concurrency is the per-item transfer pool size.
	// Default: 3
	Concurrency int `yaml:"concurrency"`

	// FetchTimeout bounds one asset download, as a Go duration string.
	// Default: 60s
	FetchTimeout string `yaml:"fetch_timeout"`
}

// BlobSettings configures the public blob store.
type BlobSettings struct {
	// PublicBaseURL is where uploaded assets become reachable. Empty
	// disables upload; records then keep local relative paths.
	// Default: ""
	PublicBaseURL string `yaml:"public_base_url"`
}

// AISettings configures the optional tag suggester.
type AISettings struct {
	// Enabled turns the suggester on. Off by default; suggestion only
	// runs when asked for explicitly.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Host is the OpenAI-compatible service base URL.
	// Default: http://localhost:11434/v1
	Host string `yaml:"host"`

	// Model is the suggestion model identifier.
	// Default: qwen2.5:3b
	Model string `yaml:"model"`
}

// DefaultSettings returns the settings used when no file is present.
// Every field has a working value; a fresh directory needs no file at all.
func DefaultSettings() *Settings {
	return &Settings{
		Collection: "plays.json",
		MediaDir:   "media",
		WorkDir:    "work",
		LedgerDir:  "ledger",
		Mail: MailSettings{
			Query:  `from:dan@coachdancasey.com subject:"One Play a Day"`,
			Label:  "one-play-a-day",
			Max:    50,
			MaxNew: 0,
			Delay:  "1s",
		},
		Social: SocialSettings{
			User:  "CoachDanCasey",
			Count: 15,
		},
		Refresh: RefreshSettings{
			BatchSize:      25,
			ReportInterval: 10,
		},
		Markup: MarkupSettings{
			Denylist: []string{"Email-Header", "TeamWorks"},
			Divider:  "fd-divider",
		},
		Transfer: TransferSettings{
			Concurrency:  3,
			FetchTimeout: "60s",
		},
		Blob: BlobSettings{},
		AI: AISettings{
			Enabled: false,
			Host:    "http://localhost:11434/v1",
			Model:   "qwen2.5:3b",
		},
	}
}

// Load reads settings from path, merged over DefaultSettings. An absent
// file returns the defaults; a file that exists but does not parse is an
// error.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	return settings, nil
}

// Validate checks that the settings are complete and internally consistent.
func (s *Settings) Validate() error {
	if s.Collection == "" {
		return errors.New("settings: collection path is required")
	}
	if s.MediaDir == "" {
		return errors.New("settings: media_dir is required")
	}
	if s.LedgerDir == "" {
		return errors.New("settings: ledger_dir is required")
	}
	if s.Mail.Max < 1 {
		return errors.New("settings: mail.max must be at least 1")
	}
	if s.Mail.MaxNew < 0 {
		return errors.New("settings: mail.max_new must not be negative")
	}
	if s.Mail.Delay != "" {
		if _, err := time.ParseDuration(s.Mail.Delay); err != nil {
			return fmt.Errorf("settings: mail.delay: %w", err)
		}
	}
	if s.Social.Count < 1 {
		return errors.New("settings: social.count must be at least 1")
	}
	if s.Refresh.BatchSize < 1 {
		return errors.New("settings: refresh.batch_size must be at least 1")
	}
	if s.Refresh.ReportInterval < 1 {
		return errors.New("settings: refresh.report_interval must be at least 1")
	}
	if s.Transfer.Concurrency < 1 {
		return errors.New("settings: transfer.concurrency must be at least 1")
	}
	if s.Transfer.FetchTimeout != "" {
		if _, err := time.ParseDuration(s.Transfer.FetchTimeout); err != nil {
			return fmt.Errorf("settings: transfer.fetch_timeout: %w", err)
		}
	}
	if s.AI.Enabled {
		if s.AI.Host == "" {
			return errors.New("settings: ai.host is required when ai.enabled is set")
		}
		if s.AI.Model == "" {
			return errors.New("settings: ai.model is required when ai.enabled is set")
		}
	}
	return nil
}

// DelayDuration returns the parsed per-item delay. Validate reports
// unparseable values; this accessor returns zero for them.
func (m MailSettings) DelayDuration() time.Duration {
	d, _ := time.ParseDuration(m.Delay)
	return d
}

// FetchTimeoutDuration returns the parsed download timeout. Validate
// reports unparseable values; this accessor returns zero for them.
func (t TransferSettings) FetchTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(t.FetchTimeout)
	return d
}
