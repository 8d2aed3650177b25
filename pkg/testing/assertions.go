package testing

import (
	"reflect"
	"strings"
	"testing"
)

// Delivery is one captured webhook POST.
type Delivery struct {
	// Method is the HTTP method the sender used.
	Method string
	// ContentType is the request's Content-Type header value.
	ContentType string
	// Headers are the request headers (first value per key).
	Headers map[string]string
	// Raw is the body exactly as received.
	Raw string
	// Body is the decoded JSON object, nil when the body was not one.
	Body map[string]any
}

// Field extracts a value from the delivery body. Nested fields use
// dot notation ("content.text"). Returns nil when the path does not
// resolve.
func (d Delivery) Field(path string) any {
	var current any = d.Body
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = obj[part]
	}
	return current
}

// AssertField asserts that a body field has the expected value.
// Numbers decode as float64, so expect float64(3) rather than 3.
func (d Delivery) AssertField(t testing.TB, path string, expected any) {
	t.Helper()

	actual := d.Field(path)
	if actual == nil {
		t.Errorf("field %q not found in delivery body: %s", path, d.Raw)
		return
	}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("field %q mismatch\nexpected: %v (%T)\nactual: %v (%T)",
			path, expected, expected, actual, actual)
	}
}

// AssertBodyContains asserts that the raw body contains the substring.
func (d Delivery) AssertBodyContains(t testing.TB, substr string) {
	t.Helper()

	if !strings.Contains(d.Raw, substr) {
		t.Errorf("delivery body does not contain %q\nbody: %s", substr, d.Raw)
	}
}

// AssertContentType asserts the request's Content-Type header.
func (d Delivery) AssertContentType(t testing.TB, expected string) {
	t.Helper()

	if d.ContentType != expected {
		t.Errorf("Content-Type mismatch\nexpected: %q\nactual: %q", expected, d.ContentType)
	}
}

// AssertHeader asserts that the request carried the header with the
// expected value. Header names match case-insensitively.
func (d Delivery) AssertHeader(t testing.TB, key, expected string) {
	t.Helper()

	actual, ok := d.Headers[key]
	if !ok {
		for k, v := range d.Headers {
			if strings.EqualFold(k, key) {
				actual = v
				ok = true
				break
			}
		}
	}

	if !ok {
		t.Errorf("delivery does not have header %q", key)
		return
	}
	if actual != expected {
		t.Errorf("header %q value mismatch\nexpected: %q\nactual: %q", key, expected, actual)
	}
}

// AssertSigned asserts that the delivery carries the Lark signing
// fields: a decimal-string timestamp and a sign value.
func (d Delivery) AssertSigned(t testing.TB) {
	t.Helper()

	if _, ok := d.Body["timestamp"].(string); !ok {
		t.Errorf("delivery has no string timestamp field: %s", d.Raw)
	}
	if sign, ok := d.Body["sign"].(string); !ok || sign == "" {
		t.Errorf("delivery has no sign field: %s", d.Raw)
	}
}

// AssertNotSigned asserts that the delivery has no signing fields.
func (d Delivery) AssertNotSigned(t testing.TB) {
	t.Helper()

	if _, ok := d.Body["timestamp"]; ok {
		t.Errorf("delivery unexpectedly carries a timestamp field: %s", d.Raw)
	}
	if _, ok := d.Body["sign"]; ok {
		t.Errorf("delivery unexpectedly carries a sign field: %s", d.Raw)
	}
}
