package action

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Outputs are the values the action reports back to the workflow.
type Outputs struct {
	// OK is true when the webhook accepted the message, the send was
	// skipped, or the run was a dry run.
	OK bool

	// Status is the HTTP status code. Zero means no request was sent.
	Status int

	// ResponseText is the webhook response body, or the literal
	// "dry_run" / "skipped" markers.
	ResponseText string
}

// Write appends the outputs to the file named by GITHUB_OUTPUT. When
// the variable is unset (running outside Actions) the outputs are
// logged at debug level instead.
func (o Outputs) Write(logger *slog.Logger) error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		logger.Debug("GITHUB_OUTPUT not set, skipping outputs file",
			"ok", o.OK, "status", o.Status, "response_text", o.ResponseText)
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open outputs file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf strings.Builder
	writeOutput(&buf, "ok", strconv.FormatBool(o.OK))
	writeOutput(&buf, "status", strconv.Itoa(o.Status))
	writeOutput(&buf, "response_text", o.ResponseText)

	if _, err := f.WriteString(buf.String()); err != nil {
		return fmt.Errorf("failed to write outputs: %w", err)
	}
	return nil
}

// writeOutput emits one name=value line, switching to the heredoc
// delimiter form for multiline values.
func writeOutput(buf *strings.Builder, name, value string) {
	if !strings.ContainsAny(value, "\r\n") {
		fmt.Fprintf(buf, "%s=%s\n", name, value)
		return
	}
	delim := "ghadelimiter_" + uuid.New().String()
	fmt.Fprintf(buf, "%s<<%s\n%s\n%s\n", name, delim, value, delim)
}
