package openai

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fieldside/playvault/ai"
)

const suggestionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "suggestions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "tag": {
            "type": "string",
            "pattern": "^[a-z0-9-]+(:[a-z0-9-]+)?$"
          },
          "confidence": {
            "type": "integer",
            "minimum": 1,
            "maximum": 10
          }
        },
        "required": ["tag", "confidence"],
        "additionalProperties": false
      }
    }
  },
  "required": ["suggestions"],
  "additionalProperties": false
}`

const suggestionPromptTemplate = `You label American football plays. Given a play title and any extracted
attributes, suggest scheme tags and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Tags are lowercase and hyphenated, either "family:detail" form or a bare family name.
- The family must match exactly one of the listed values: %s.
- Confidence is an integer from 1 (weak guess) to 10 (certain). Rate based on how directly the title or attributes name the concept.
- Suggest only tags supported by the input. Do not guess from team names, years, or week numbers.
- If nothing fits, return "suggestions": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example (scheme named outright):
Input: "Title: 2012 Wk 4 Bears vs Cowboys Tunnel Screen Left"
Output:
{
  "suggestions": [
    {"tag":"screen:tunnel","confidence":9},
    {"tag":"screen","confidence":8}
  ]
}

Example (attributes carry the signal):
Input: "Title: 2019 Wk 9 Ravens vs Patriots Deep Shot
formation: bunch
personnel: 21p"
Output:
{
  "suggestions": [
    {"tag":"formation:bunch","confidence":9},
    {"tag":"personnel:21","confidence":9}
  ]
}

Example (informal clip caption):
Input: "Title: best flea flicker youll see all year"
Output:
{
  "suggestions": [
    {"tag":"trick:flea-flicker","confidence":10},
    {"tag":"trick","confidence":8}
  ]
}

Example (nothing identifiable):
Input: "Title: wild ending to this one"
Output:
{
  "suggestions": []
}`

// buildSystemPrompt creates the system prompt with the tag families embedded.
func buildSystemPrompt() string {
	return fmt.Sprintf(suggestionPromptTemplate,
		suggestionResponseSchema,
		strings.Join(ai.TagFamilies, ", "))
}

// buildSubject formats the title and extracted attributes as the user
// message. Attribute keys are sorted so the message is stable for a given
// record.
func buildSubject(title string, attributes map[string]string) string {
	var b strings.Builder
	b.WriteString("Title: ")
	b.WriteString(title)

	keys := make([]string, 0, len(attributes))
	for key := range attributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := strings.TrimSpace(attributes[key])
		if value == "" {
			continue
		}
		fmt.Fprintf(&b, "\n%s: %s", key, value)
	}
	return b.String()
}
