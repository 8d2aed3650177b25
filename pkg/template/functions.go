package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// formatValue converts a resolved value to its textual form. Strings
// render raw (no quotes, no escaping), numbers in plain decimal form,
// booleans and null as JSON literals, and composites as compact JSON.
func formatValue(val any) string {
	switch v := val.(type) {
	case nil:
		return "null"
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case map[string]any, []any:
		b, err := marshalJSON(v)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// funcJSON injects the JSON serialization of a value, verbatim.
// Intended for use outside string quotes.
func (e *Engine) funcJSON(ref string) string {
	val, ok := e.resolveArg(ref)
	if !ok {
		return ""
	}
	b, err := marshalJSON(val)
	if err != nil {
		return ""
	}
	return string(b)
}

// funcJSTR injects the contents of the JSON string form of a value
// with the surrounding double quotes stripped. Embedded quote and
// backslash escapes stay intact, which makes the result safe inside
// an existing quote pair.
func (e *Engine) funcJSTR(ref string) string {
	val, ok := e.resolveArg(ref)
	if !ok {
		return ""
	}
	b, err := marshalJSON(val)
	if err != nil {
		return ""
	}
	return trimQuotes(string(b))
}

// trimQuotes removes one leading and one trailing double quote.
func trimQuotes(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}

// marshalJSON produces compact JSON without HTML escaping, so <, > and
// & survive into message payloads unchanged.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
