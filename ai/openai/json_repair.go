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


package openai

import "regexp"

var (
	// Keys that lost their opening quote: `, tag":` instead of `, "tag":`.
	unquotedKeyPattern = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z_ ]*)":`)

	// Trailing commas before a closing brace or bracket.
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// repairJSON fixes the JSON faults small local models produce most often:
// object keys missing their opening quote and trailing commas. Anything
// it cannot patch still fails in json.Unmarshal and triggers a retry.
func repairJSON(s string) string {
	s = unquotedKeyPattern.ReplaceAllString(s, `$1"$2":`)
	s = trailingCommaPattern.ReplaceAllString(s, `$1`)
	return s
}
