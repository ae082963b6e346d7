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


// Package extract pulls structured play fields out of messy source text.
//
// The digest emails this package reads were produced by several template
// generations, so every extractor is written as an ordered rule cascade:
//   - Titles come from the first of three markup regions that yields text
//     inside the accepted length window.
//   - Dates try a list of header layouts and fall back to the current day.
//   - Attributes try a strict newer-template pattern before a lenient
//     older-template pattern.
//
// Extraction is total: a field that cannot be found degrades to its
// documented fallback instead of failing the item.
package extract
