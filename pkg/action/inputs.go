package action

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// defaultTimeout applies when request_timeout_ms is absent.
const defaultTimeout = 10 * time.Second

// Inputs are the action's parameters.
type Inputs struct {
	// WebhookURL is the bot webhook endpoint. Required.
	WebhookURL string

	// MessageTemplate is the JSON message template. Required.
	MessageTemplate string

	// WebhookSecret enables payload signing when non-empty.
	WebhookSecret string

	// Variables is the raw variables input: a JSON object or
	// key=value lines.
	Variables string

	// PayloadSchema is an optional JSON Schema the rendered payload
	// must satisfy.
	PayloadSchema string

	// When is an optional boolean expression; false skips the send.
	When string

	// Timeout bounds the webhook request. Zero means no explicit
	// timeout.
	Timeout time.Duration

	// DryRun stops the pipeline before delivery.
	DryRun bool

	// FailOnHTTPError makes a non-2xx response fail the run.
	FailOnHTTPError bool
}

// ReadInputs loads the action inputs from INPUT_* environment
// variables, following the GitHub Actions naming convention.
func ReadInputs() (Inputs, error) {
	in := Inputs{
		WebhookURL:      inputValue("webhook_url"),
		MessageTemplate: inputValue("message_template"),
		WebhookSecret:   inputValue("webhook_secret"),
		Variables:       inputValue("variables"),
		PayloadSchema:   inputValue("payload_schema"),
		When:            inputValue("when"),
	}

	if in.WebhookURL == "" {
		return in, fmt.Errorf("required input %q is missing", "webhook_url")
	}
	if in.MessageTemplate == "" {
		return in, fmt.Errorf("required input %q is missing", "message_template")
	}

	in.Timeout = resolveTimeout(inputValue("request_timeout_ms"))

	var err error
	if in.DryRun, err = parseBool(inputValue("dry_run"), false); err != nil {
		return in, fmt.Errorf("input %q: %w", "dry_run", err)
	}
	if in.FailOnHTTPError, err = parseBool(inputValue("fail_on_http_error"), true); err != nil {
		return in, fmt.Errorf("input %q: %w", "fail_on_http_error", err)
	}

	return in, nil
}

func inputValue(name string) string {
	return strings.TrimSpace(os.Getenv("INPUT_" + strings.ToUpper(name)))
}

// resolveTimeout turns the request_timeout_ms input into a Duration.
// Absent means 10 seconds. A value that does not parse as a
// non-negative integer disables the explicit timeout instead of
// failing the run.
func resolveTimeout(raw string) time.Duration {
	if raw == "" {
		return defaultTimeout
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms < 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

func parseBool(raw string, def bool) (bool, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, fmt.Errorf("cannot parse %q as a boolean", raw)
	}
	return v, nil
}
