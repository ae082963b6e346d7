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

import (
	"fmt"
	"time"
)

// ValidateRecord validates a Record according to domain rules.
//
// Validation rules:
//   - Identity must be set
//   - Title must not be empty
//   - CapturedDate must be a real calendar date in YYYY-MM-DD form
//   - Attributes must carry every known attribute key
//   - Provenance source, when set, must be a known family
//
// NOT validated (judged elsewhere):
//   - MediaSequence (the merge gate rejects incomplete candidates; a
//     candidate mid-pipeline legitimately has none yet)
//   - AuxiliaryMedia (optional by definition)
func ValidateRecord(record *Record) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.Identity.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrInvalidIdentity)
	}

	if record.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyTitle)
	}

	if !IsValidCapturedDate(record.CapturedDate) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidRecord, ErrBadCapturedDate, record.CapturedDate)
	}

	for _, key := range AttributeKeys {
		if _, ok := record.Attributes[key]; !ok {
			return fmt.Errorf("%w: %w: %q", ErrInvalidRecord, ErrMissingAttributes, key)
		}
	}

	if record.Provenance.Source != "" {
		if err := ValidateSourceFamily(record.Provenance.Source); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
		}
	}

	return nil
}

// ValidateSourceFamily validates that a SourceFamily has a known value.
func ValidateSourceFamily(family SourceFamily) error {
	if family != SourceMail && family != SourceSocial {
		return fmt.Errorf("%w: %q", ErrInvalidSourceFamily, family)
	}
	return nil
}

// IsValidCapturedDate checks that a date string is a real calendar date
// in the normalized YYYY-MM-DD layout.
func IsValidCapturedDate(date string) bool {
	if len(date) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, date)
	return err == nil
}
