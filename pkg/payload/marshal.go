package payload

import (
	"bytes"
	"encoding/json"
)

// Marshal produces the compact JSON wire form of a body. HTML escaping
// is disabled so <, > and & reach the webhook unchanged.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
