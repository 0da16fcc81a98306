package tutor

import (
	"encoding/json"
	"strings"
)

// ExtractObject locates the outermost {...} span in free-form text (first
// opening brace to last closing brace) and parses it as a JSON object.
// Returns (nil, false) when no span exists or the span is not valid JSON.
// It never panics, for any input.
func ExtractObject(text string) (json.RawMessage, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, false
	}

	span := []byte(text[start : end+1])
	var probe map[string]any
	if err := json.Unmarshal(span, &probe); err != nil {
		return nil, false
	}
	return json.RawMessage(span), true
}
