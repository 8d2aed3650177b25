package action

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredInputs(t *testing.T) {
	t.Helper()
	t.Setenv("INPUT_WEBHOOK_URL", "https://example.com/hook")
	t.Setenv("INPUT_MESSAGE_TEMPLATE", `{"msg_type":"text"}`)
}

func TestReadInputs_Defaults(t *testing.T) {
	setRequiredInputs(t)

	in, err := ReadInputs()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/hook", in.WebhookURL)
	assert.Equal(t, `{"msg_type":"text"}`, in.MessageTemplate)
	assert.Equal(t, 10*time.Second, in.Timeout)
	assert.False(t, in.DryRun)
	assert.True(t, in.FailOnHTTPError)
	assert.Empty(t, in.WebhookSecret)
	assert.Empty(t, in.Variables)
	assert.Empty(t, in.When)
}

func TestReadInputs_MissingWebhookURL(t *testing.T) {
	t.Setenv("INPUT_MESSAGE_TEMPLATE", `{"msg_type":"text"}`)

	_, err := ReadInputs()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook_url")
}

func TestReadInputs_MissingTemplate(t *testing.T) {
	t.Setenv("INPUT_WEBHOOK_URL", "https://example.com/hook")

	_, err := ReadInputs()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message_template")
}

func TestReadInputs_TrimsWhitespace(t *testing.T) {
	t.Setenv("INPUT_WEBHOOK_URL", "  https://example.com/hook  \n")
	t.Setenv("INPUT_MESSAGE_TEMPLATE", `{"msg_type":"text"}`)

	in, err := ReadInputs()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/hook", in.WebhookURL)
}

func TestReadInputs_AllFields(t *testing.T) {
	setRequiredInputs(t)
	t.Setenv("INPUT_WEBHOOK_SECRET", "topsecret")
	t.Setenv("INPUT_VARIABLES", "name=Bo")
	t.Setenv("INPUT_PAYLOAD_SCHEMA", `{"type":"object"}`)
	t.Setenv("INPUT_WHEN", `severity == "critical"`)
	t.Setenv("INPUT_REQUEST_TIMEOUT_MS", "250")
	t.Setenv("INPUT_DRY_RUN", "true")
	t.Setenv("INPUT_FAIL_ON_HTTP_ERROR", "false")

	in, err := ReadInputs()
	require.NoError(t, err)

	assert.Equal(t, "topsecret", in.WebhookSecret)
	assert.Equal(t, "name=Bo", in.Variables)
	assert.Equal(t, `{"type":"object"}`, in.PayloadSchema)
	assert.Equal(t, `severity == "critical"`, in.When)
	assert.Equal(t, 250*time.Millisecond, in.Timeout)
	assert.True(t, in.DryRun)
	assert.False(t, in.FailOnHTTPError)
}

func TestResolveTimeout(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"", 10 * time.Second},
		{"250", 250 * time.Millisecond},
		{"10000", 10 * time.Second},
		{"0", 0},
		{"-5", 0},
		{"abc", 0},
		{"1.5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveTimeout(tt.raw))
		})
	}
}

func TestReadInputs_BooleanForms(t *testing.T) {
	for _, raw := range []string{"true", "True", "TRUE"} {
		t.Run(raw, func(t *testing.T) {
			setRequiredInputs(t)
			t.Setenv("INPUT_DRY_RUN", raw)

			in, err := ReadInputs()
			require.NoError(t, err)
			assert.True(t, in.DryRun)
		})
	}

	for _, raw := range []string{"false", "False", "FALSE"} {
		t.Run(raw, func(t *testing.T) {
			setRequiredInputs(t)
			t.Setenv("INPUT_FAIL_ON_HTTP_ERROR", raw)

			in, err := ReadInputs()
			require.NoError(t, err)
			assert.False(t, in.FailOnHTTPError)
		})
	}
}

func TestReadInputs_InvalidBoolean(t *testing.T) {
	setRequiredInputs(t)
	t.Setenv("INPUT_DRY_RUN", "banana")

	_, err := ReadInputs()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dry_run")
}
