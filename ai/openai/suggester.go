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

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"

	"github.com/fieldside/playvault/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Suggester implements ai.Suggester using OpenAI-compatible chat APIs.
type Suggester struct {
	client         llms.Model
	minConfidence  int
	maxSuggestions int
	logger         *slog.Logger
}

// suggestion is an internal type used for JSON unmarshaling.
// It matches the structure expected from the model.
type suggestion struct {
	Tag        string `json:"tag"`
	Confidence int    `json:"confidence"`
}

// proposal is the wrapper structure for the model's JSON response.
type proposal struct {
	Suggestions []suggestion `json:"suggestions"`
}

// newSuggester is an internal constructor that returns the concrete type.
func newSuggester(config *ai.Config) (*Suggester, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Suggester{
		client:         client,
		minConfidence:  config.MinConfidence,
		maxSuggestions: config.MaxSuggestions,
		logger:         slog.Default().With("component", "openai-suggester"),
	}, nil
}

// NewSuggester creates a new tag suggester using the provided configuration.
//
// Returns ai.Suggester interface to enforce abstraction.
func NewSuggester(config *ai.Config) (ai.Suggester, error) {
	return newSuggester(config)
}

// SuggestTags proposes tags for a play title using a chat model.
// It applies confidence filtering and returns at most MaxSuggestions tags,
// strongest first.
func (s *Suggester) SuggestTags(ctx context.Context, title string, attributes map[string]string) ([]ai.Suggestion, error) {
	title = scrubString(title)
	if title == "" {
		return []ai.Suggestion{}, nil
	}

	// Build the system and user prompts
	systemPrompt := buildSystemPrompt()
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSubject(title, attributes)),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result proposal
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			s.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			s.logger.Debug("no choices returned from model")
			return []ai.Suggestion{}, nil
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			s.logger.Warn("error parsing suggester response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		s.logger.Error("failed to parse suggester response after retries", "err", lastErr)
		return nil, lastErr
	}

	// Filter by confidence and convert to ai.Suggestion
	suggested := make([]ai.Suggestion, 0, len(result.Suggestions))
	for _, p := range result.Suggestions {
		tag := normalizeTag(p.Tag)
		if tag == "" || p.Confidence < s.minConfidence {
			continue
		}
		confidence := p.Confidence
		if confidence > 10 {
			confidence = 10
		}
		suggested = append(suggested, ai.Suggestion{
			Tag:        tag,
			Confidence: confidence,
		})
	}

	// Sort by confidence (descending)
	slices.SortFunc(suggested, func(a, b ai.Suggestion) int {
		if a.Confidence == b.Confidence {
			return 0
		}
		if a.Confidence < b.Confidence {
			return 1
		}
		return -1
	})

	s.logger.Debug("suggested tags",
		"total", len(result.Suggestions),
		"kept", len(suggested))

	if len(suggested) > s.maxSuggestions {
		suggested = suggested[:s.maxSuggestions]
	}
	return suggested, nil
}
