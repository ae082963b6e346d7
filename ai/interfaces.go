package ai

import "context"

// Suggester proposes tags for play titles the rule table left untagged.
// Implementations must be thread-safe for concurrent use.
type Suggester interface {
	// SuggestTags analyzes a play title and its extracted attributes and
	// proposes tags with confidence scores. Attributes may be nil.
	// Returns an empty slice if nothing fits.
	// Returns an error if the suggestion service fails.
	SuggestTags(ctx context.Context, title string, attributes map[string]string) ([]Suggestion, error)
}

// Suggestion is a proposed tag for a single play title.
type Suggestion struct {
	// Tag is the proposed tag in lowercase, either "family:detail" form
	// or a bare family name.
	// Example: "screen:tunnel", "run:counter", "rpo"
	Tag string

	// Confidence is a score from 1-10 indicating how strongly the title
	// supports the tag. Higher scores = more confident.
	Confidence int
}
