package action

import (
	"fmt"
	"io"
	"strings"
)

// AnnotateError prints a GitHub Actions error annotation. The message
// is escaped per the workflow-command rules so embedded newlines and
// percent signs survive the round trip through the runner.
func AnnotateError(w io.Writer, msg string) {
	fmt.Fprintf(w, "::error::%s\n", escapeData(msg))
}

func escapeData(s string) string {
	// Percent first, or the other escapes get double-escaped.
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
