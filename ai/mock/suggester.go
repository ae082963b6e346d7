package mock

import (
	"context"
	"strings"

	"github.com/fieldside/playvault/ai"
)

// MockSuggester is a test double for ai.Suggester.
// It allows custom behavior injection via function fields.
type MockSuggester struct {
	// SuggestTagsFunc is called by SuggestTags if set.
	// If nil, uses default simple word-based suggestions.
	SuggestTagsFunc func(ctx context.Context, title string, attributes map[string]string) ([]ai.Suggestion, error)

	callCount int
}

// NewMockSuggester creates a mock suggester with default behavior.
// Note: Returns concrete type to allow test assertions via CallCount.
func NewMockSuggester() *MockSuggester {
	return &MockSuggester{}
}

// SuggestTags proposes simple mock tags from the title.
// Default behavior: splits the title by spaces and turns the first few
// longer words into tags with descending confidence.
func (m *MockSuggester) SuggestTags(ctx context.Context, title string, attributes map[string]string) ([]ai.Suggestion, error) {
	m.callCount++

	if m.SuggestTagsFunc != nil {
		return m.SuggestTagsFunc(ctx, title, attributes)
	}

	words := strings.Fields(strings.ToLower(title))
	suggestions := make([]ai.Suggestion, 0, 3)
	confidence := 8
	for _, word := range words {
		if len(suggestions) >= 3 {
			break
		}

		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if len(word) < 4 {
			// Skip short tokens like "vs" and week abbreviations
			continue
		}

		suggestions = append(suggestions, ai.Suggestion{
			Tag:        word,
			Confidence: confidence,
		})

		if confidence > 1 {
			confidence--
		}
	}

	return suggestions, nil
}

// CallCount returns the number of times SuggestTags was called.
func (m *MockSuggester) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockSuggester) Reset() {
	m.callCount = 0
	m.SuggestTagsFunc = nil
}
