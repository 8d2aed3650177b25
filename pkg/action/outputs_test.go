package action

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-setiawan/action-lark-bot/pkg/logging"
)

func TestOutputsWrite_SingleLineValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	t.Setenv("GITHUB_OUTPUT", path)

	out := Outputs{OK: true, Status: 200, ResponseText: `{"code":0}`}
	require.NoError(t, out.Write(logging.Nop()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(data), "ok=true\n")
	assert.Contains(t, string(data), "status=200\n")
	assert.Contains(t, string(data), "response_text={\"code\":0}\n")
}

func TestOutputsWrite_MultilineUsesHeredoc(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	t.Setenv("GITHUB_OUTPUT", path)

	out := Outputs{OK: false, Status: 500, ResponseText: "line one\nline two"}
	require.NoError(t, out.Write(logging.Nop()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(string(data), "\n")
	var start int
	for i, line := range lines {
		if strings.HasPrefix(line, "response_text<<ghadelimiter_") {
			start = i
			break
		}
	}
	require.True(t, strings.HasPrefix(lines[start], "response_text<<ghadelimiter_"),
		"heredoc header not found in:\n%s", string(data))

	delim := strings.TrimPrefix(lines[start], "response_text<<")
	assert.Equal(t, "line one", lines[start+1])
	assert.Equal(t, "line two", lines[start+2])
	assert.Equal(t, delim, lines[start+3], "heredoc must close with the same delimiter")
}

func TestOutputsWrite_AppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	t.Setenv("GITHUB_OUTPUT", path)
	require.NoError(t, os.WriteFile(path, []byte("existing=value\n"), 0o644))

	out := Outputs{OK: true, Status: 200, ResponseText: "ok"}
	require.NoError(t, out.Write(logging.Nop()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(data), "existing=value\n"),
		"existing outputs must be preserved")
	assert.Contains(t, string(data), "ok=true\n")
}

func TestOutputsWrite_NoOutputFile(t *testing.T) {
	t.Setenv("GITHUB_OUTPUT", "")

	out := Outputs{OK: true, Status: 200, ResponseText: "ok"}
	assert.NoError(t, out.Write(logging.Nop()))
}
