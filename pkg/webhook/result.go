package webhook

import "fmt"

// Result captures the observable outcome of one delivery.
type Result struct {
	// Status is the HTTP status code of the response.
	Status int

	text string
}

// OK reports whether the response status was a 2xx.
func (r *Result) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Text returns the response body, bounded at maxResponseBytes.
func (r *Result) Text() string {
	return r.text
}

// StatusError returns a *StatusError for non-2xx results, nil
// otherwise.
func (r *Result) StatusError() error {
	if r.OK() {
		return nil
	}
	return &StatusError{Status: r.Status, Body: r.text}
}

// TransportError reports a request that never produced an HTTP
// response: connection failures, timeouts, and response read errors.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("webhook request failed: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// StatusError reports a non-2xx webhook response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook returned status %d: %s", e.Status, e.Body)
}
