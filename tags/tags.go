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


package tags

import (
	"strings"

	"github.com/fieldside/playvault/core"
)

// Tag returns the tags a record announces through its title and its
// formation and personnel attributes, in rule-table order. Tags live in
// analysis output only; the persisted record never carries them.
func Tag(record *core.Record) []string {
	texts := []string{record.Title}
	if record.Attributes != nil {
		texts = append(texts,
			record.Attributes[core.AttrFormation],
			record.Attributes[core.AttrPersonnel])
	}
	return TagText(texts...)
}

// TagText returns the tags announced by any of the given texts, deduped,
// in rule-table order.
func TagText(texts ...string) []string {
	lowered := make([]string, 0, len(texts))
	for _, text := range texts {
		if text != "" {
			lowered = append(lowered, strings.ToLower(text))
		}
	}

	var found []string
	for _, r := range ruleTable {
		for _, text := range lowered {
			if r.pattern.MatchString(text) {
				found = append(found, r.tag)
				break
			}
		}
	}
	return found
}
