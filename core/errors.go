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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a Record failed validation.
	ErrInvalidRecord = errors.New("invalid play record")

	// ErrInvalidIdentity indicates an identity could not be parsed or is unset.
	ErrInvalidIdentity = errors.New("invalid identity")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrBadCapturedDate indicates CapturedDate is not a normalized YYYY-MM-DD date.
	ErrBadCapturedDate = errors.New("captured date must be a valid YYYY-MM-DD date")

	// ErrMissingAttributes indicates the attribute map lacks a known key.
	ErrMissingAttributes = errors.New("attribute map missing known keys")

	// ErrInvalidSourceFamily indicates an unrecognized provenance source.
	ErrInvalidSourceFamily = errors.New("invalid source family")
)
