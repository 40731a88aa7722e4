package api

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips all HTML elements and their dangerous content
// (script/style bodies are dropped entirely, not just de-tagged).
// bluemonday policies are safe for concurrent use after creation.
var strictPolicy = bluemonday.StrictPolicy()

var (
	angleBracketPattern = regexp.MustCompile(`[<>]`)
	jsURIPattern        = regexp.MustCompile(`(?i)javascript:`)
	eventAttrPattern    = regexp.MustCompile(`(?i)on\w+=`)
)

// CleanString scrubs a single string of markup and script-injection
// patterns: HTML is stripped via the strict policy, remaining angle
// brackets, javascript: URI prefixes and on<event>= attribute patterns
// are removed, and surrounding whitespace is trimmed.
func CleanString(s string) string {
	if s == "" {
		return s
	}

	cleaned := strictPolicy.Sanitize(s)
	// The policy escapes stray brackets as entities; decode before the
	// character scrub so nothing angle-bracket-shaped survives either way.
	cleaned = html.UnescapeString(cleaned)
	cleaned = angleBracketPattern.ReplaceAllString(cleaned, "")
	cleaned = jsURIPattern.ReplaceAllString(cleaned, "")
	cleaned = eventAttrPattern.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// SanitizeJSON recursively sanitizes a JSON-decoded value. Every string
// is passed through CleanString; arrays and objects are rebuilt
// element-wise; non-string scalars (and anything unrecognized) pass
// through unchanged. Pure function, never fails.
func SanitizeJSON(v any) any {
	switch val := v.(type) {
	case string:
		return CleanString(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = SanitizeJSON(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = SanitizeJSON(item)
		}
		return out
	default:
		return v
	}
}
