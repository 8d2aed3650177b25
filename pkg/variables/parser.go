// Package variables parses loosely-typed variable input into a mapping
// usable for template rendering. Input may be a JSON object or a set of
// key/value lines; parsing is lenient and never fails.
package variables

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Variables is a variable mapping. Values hold only JSON-compatible
// shapes: string, float64, bool, nil, []any, and map[string]any. The
// parser is the only constructor, so the restriction holds everywhere
// downstream.
type Variables map[string]any

// numberPattern matches decimal integer and fraction literals.
var numberPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// Parse converts raw variable input into a Variables mapping.
//
// The whole input is tried as JSON first; a JSON object becomes the
// mapping verbatim. Anything else falls back to line-oriented parsing:
// one key/value pair per line, split at the first '=' or ':'. Blank
// lines, comment lines starting with '#', lines without a separator,
// and lines with an empty key are skipped. When a key appears more than
// once the last occurrence wins.
//
// Line values are coerced: true/false/null become bool/nil, numeric
// literals become float64, values that parse as JSON become the decoded
// value, and everything else stays a string.
func Parse(input string) Variables {
	vars := Variables{}

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return vars
	}

	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
		if obj, ok := decoded.(map[string]any); ok {
			return Variables(obj)
		}
		// JSON, but not an object (scalar or array). Fall through to
		// line parsing like any other non-JSON input.
	}

	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sep := strings.IndexAny(line, "=:")
		if sep < 0 {
			continue
		}
		key := strings.TrimSpace(line[:sep])
		if key == "" {
			continue
		}
		vars[key] = coerceValue(strings.TrimSpace(line[sep+1:]))
	}

	return vars
}

// coerceValue converts a raw line value into its typed form.
func coerceValue(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}

	if numberPattern.MatchString(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}

	return raw
}
