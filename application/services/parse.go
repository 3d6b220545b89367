package services

import (
	"encoding/json"
	"strings"

	pkgerrors "nodal-backend/pkg/errors"
)

// extractJSONObject locates the first balanced {...} span in text and
// unmarshals it into out. Models wrap their JSON in prose or markdown code
// fences often enough that plain unmarshal is not an option.
func extractJSONObject(text string, out interface{}) error {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return pkgerrors.NewInternalError("no JSON object found in model response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := text[start : i+1]
				if err := json.Unmarshal([]byte(candidate), out); err != nil {
					return pkgerrors.NewInternalError("failed to parse JSON from model response").WithCause(err)
				}
				return nil
			}
		}
	}

	return pkgerrors.NewInternalError("unterminated JSON object in model response")
}
