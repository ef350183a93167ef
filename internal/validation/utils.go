package validation

import (
	"encoding/json"
	"fmt"
)

// DecodeJSONBody parses an optional request body into v.
//
// An absent or empty body is treated as "{}". Malformed JSON is returned as a
// plain error, not an *errs.HTTPError, so the router reports it as a 500.
func DecodeJSONBody(body *string, v any) error {
	raw := "{}"
	if body != nil && *body != "" {
		raw = *body
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
