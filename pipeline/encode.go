package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sweetpotato0/questflow/errors"
)

// sanitizeModelJSON strips markdown code fences and surrounding prose so that
// a JSON object embedded in a chat reply can be unmarshaled.
func sanitizeModelJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	end := strings.LastIndexAny(s, "}]")
	if end < start {
		return s
	}
	return s[start : end+1]
}

// decodeModelJSON unmarshals a model reply into v, tolerating code fences.
func decodeModelJSON(raw string, v any) error {
	cleaned := sanitizeModelJSON(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrUnparsableOutput, err)
	}
	return nil
}
