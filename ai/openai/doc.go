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


// Package openai provides tag suggestion using OpenAI-compatible APIs.
//
// This package implements the ai.Suggester interface using the langchaingo
// library to communicate with OpenAI or OpenAI-compatible services (such as
// Ollama, LocalAI, or vLLM). Requests run in JSON mode at temperature 0;
// responses are fence-stripped and lightly repaired before parsing, with
// up to three attempts for a parseable answer.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"),  // /v1 added automatically
//	    ai.WithModel("qwen2.5:3b"),
//	)
//
//	suggester, err := openai.NewSuggester(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	suggestions, err := suggester.SuggestTags(ctx, title, attributes)
package openai
