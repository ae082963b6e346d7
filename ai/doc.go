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


// Package ai provides abstractions for model-assisted tag suggestion.
//
// The rule table in the tags package covers titles that name a known
// concept outright. Titles that slip through can be handed to a Suggester,
// which proposes tags with confidence scores. Suggestions are advisory:
// they are printed for review and never written to the collection.
//
// # Design Principles
//
// The package is designed around a single interface:
//
//   - Suggester: Proposes tags for a play title and its attributes
//
// Business logic depends on this abstraction rather than on a concrete
// model client, so the suggestion backend can be swapped without touching
// callers.
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewSuggester) return the INTERFACE type to
// enforce abstraction and prevent accidental coupling to implementation
// details:
//
//	suggester, err := openai.NewSuggester(config)  // returns ai.Suggester
//
// Test utility constructors (mock.NewMockSuggester) return CONCRETE types
// to enable test assertions and behavior injection via the mock's public
// fields and methods (SuggestTagsFunc, CallCount, Reset):
//
//	mockSuggester := mock.NewMockSuggester()  // returns *mock.MockSuggester
//	mockSuggester.SuggestTagsFunc = ...       // needs concrete type
//	count := mockSuggester.CallCount()        // test assertion
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	suggester, err := openai.NewSuggester(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	suggestions, err := suggester.SuggestTags(ctx,
//	    "2009 Wk 3 Jets vs Patriots Counter Trey Right",
//	    map[string]string{"personnel": "21p"})
//
// Suggestion is off by default; it only runs when a command asks for it
// explicitly and a service host is configured.
package ai
