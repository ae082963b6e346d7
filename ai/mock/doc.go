// Package mock provides test double implementations of AI service interfaces.
//
// This package contains a mock implementation of ai.Suggester for use in
// unit tests. The mock allows tests to run without an external model
// service and enables controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockSuggester := mock.NewMockSuggester()
//	suggestions, err := mockSuggester.SuggestTags(ctx, "Tunnel Screen Left", nil)
//
//	// Custom behavior injection
//	mockSuggester.SuggestTagsFunc = func(ctx context.Context, title string, attributes map[string]string) ([]ai.Suggestion, error) {
//	    return []ai.Suggestion{{Tag: "screen:tunnel", Confidence: 9}}, nil
//	}
//
//	// Check call counts
//	count := mockSuggester.CallCount()
//
// # Default Behavior
//
// Without an injected function, MockSuggester turns the first few longer
// words of the title into tags with descending confidence. The output is
// deterministic for a given title.
package mock
