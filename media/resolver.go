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


// Package media resolves raw markup into classified media references:
// an ordered sequence of animated assets (camera angles) and at most one
// static auxiliary asset (the diagram).
package media

import (
	"path"
	"regexp"
	"strings"
)

// Default filter sets match the digest templates seen in production.
var (
	defaultDenylist        = []string{"Email-Header", "TeamWorks"}
	defaultScreenshotHints = []string{"screenshot", "screen_shot", "screen-shot"}
)

// defaultDivider separates play content from the boilerplate footer.
const defaultDivider = "fd-divider"

var urlPattern = regexp.MustCompile(`(?i)https?://[^"'\s<>]+`)

// Refs is the outcome of reference resolution for one item. An empty
// Sequence is a valid result; the merge gate decides what to do with it.
type Refs struct {
	Sequence  []string
	Auxiliary string
}

// Resolver scans markup for media URLs and classifies them by role.
type Resolver struct {
	denylist        []string
	screenshotHints []string
	divider         string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithDenylist replaces the default denylist. Fragments are matched as
// case-insensitive substrings; asset identifiers rotate, full URLs do not
// stay valid long enough to pin.
func WithDenylist(fragments []string) Option {
	return func(r *Resolver) {
		r.denylist = fragments
	}
}

// WithDivider sets the marker that separates content from footer.
// An empty marker disables truncation.
func WithDivider(marker string) Option {
	return func(r *Resolver) {
		r.divider = marker
	}
}

// WithScreenshotHints replaces the fragments that mark a static asset as a
// manually captured screenshot, which wins the auxiliary tie-break.
func WithScreenshotHints(fragments []string) Option {
	return func(r *Resolver) {
		r.screenshotHints = fragments
	}
}

// NewResolver builds a Resolver with production defaults.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		denylist:        defaultDenylist,
		screenshotHints: defaultScreenshotHints,
		divider:         defaultDivider,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve scans markup and returns classified references.
//
// Everything at or after the divider marker is discarded before scanning,
// then URLs are collected by extension, denylisted chrome assets dropped,
// and duplicates removed keeping first-seen order. Animated assets form
// the sequence in document order; the auxiliary slot takes the first
// screenshot-flavored static asset, else the first static asset.
func (r *Resolver) Resolve(markup string) Refs {
	if r.divider != "" {
		if i := strings.Index(markup, r.divider); i >= 0 {
			markup = markup[:i]
		}
	}

	var (
		refs    Refs
		statics []string
		seen    = make(map[string]struct{})
	)

	for _, raw := range urlPattern.FindAllString(markup, -1) {
		u := strings.TrimRight(raw, ".,;:!?)")
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}

		if r.denied(u) {
			continue
		}

		switch classify(u) {
		case classAnimated:
			refs.Sequence = append(refs.Sequence, u)
		case classStatic:
			statics = append(statics, u)
		}
	}

	refs.Auxiliary = r.pickAuxiliary(statics)
	return refs
}

func (r *Resolver) denied(u string) bool {
	lower := strings.ToLower(u)
	for _, fragment := range r.denylist {
		if fragment != "" && strings.Contains(lower, strings.ToLower(fragment)) {
			return true
		}
	}
	return false
}

func (r *Resolver) pickAuxiliary(statics []string) string {
	if len(statics) == 0 {
		return ""
	}
	for _, u := range statics {
		lower := strings.ToLower(u)
		for _, hint := range r.screenshotHints {
			if strings.Contains(lower, hint) {
				return u
			}
		}
	}
	return statics[0]
}

type assetClass int

const (
	classNone assetClass = iota
	classAnimated
	classStatic
)

// classify buckets a URL by its path extension; query strings and
// fragments are ignored.
func classify(u string) assetClass {
	p := u
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	switch strings.ToLower(path.Ext(p)) {
	case ".gif", ".mp4", ".m4v", ".webm":
		return classAnimated
	case ".jpg", ".jpeg", ".png":
		return classStatic
	default:
		return classNone
	}
}
