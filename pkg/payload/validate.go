// Package payload turns rendered template text into a webhook-ready
// body: JSON validation, optional schema checking, and Lark-style
// request signing.
package payload

import (
	"encoding/json"
	"fmt"
)

// RenderError reports rendered template text that failed JSON
// validation. The message carries the full rendered text verbatim so
// failures are diagnosable from the error alone.
type RenderError struct {
	Cause    error
	Rendered string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendered template is not valid JSON: %v\nrendered text:\n%s", e.Cause, e.Rendered)
}

func (e *RenderError) Unwrap() error { return e.Cause }

// Validate checks that rendered text is a single valid JSON value and
// returns the decoded body.
func Validate(rendered string) (any, error) {
	var body any
	if err := json.Unmarshal([]byte(rendered), &body); err != nil {
		return nil, &RenderError{Cause: err, Rendered: rendered}
	}
	return body, nil
}
