package action

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-setiawan/action-lark-bot/pkg/logging"
	"github.com/hugo-setiawan/action-lark-bot/pkg/payload"
	larktest "github.com/hugo-setiawan/action-lark-bot/pkg/testing"
	"github.com/hugo-setiawan/action-lark-bot/pkg/webhook"
)

func TestRun_DeliversRenderedPayload(t *testing.T) {
	srv := larktest.New(t)

	in := Inputs{
		WebhookURL:      srv.URL(),
		MessageTemplate: `{"msg_type":"text","content":{"text":"Deploy by {{actor}}"}}`,
		Variables:       "actor=hugo",
		FailOnHTTPError: true,
	}

	out, err := Run(context.Background(), in, logging.Nop())
	require.NoError(t, err)

	assert.True(t, out.OK)
	assert.Equal(t, http.StatusOK, out.Status)
	assert.Equal(t, `{"code":0,"msg":"success"}`, out.ResponseText)

	last := srv.Last()
	last.AssertContentType(t, "application/json; charset=utf-8")
	last.AssertField(t, "msg_type", "text")
	last.AssertField(t, "content.text", "Deploy by hugo")
	last.AssertNotSigned(t)
}

func TestRun_SignsWhenSecretSet(t *testing.T) {
	// The capture server verifies the signature itself; a bad one would
	// come back 401 and fail the run.
	srv := larktest.New(t, larktest.WithSecret("s3cret"))

	in := Inputs{
		WebhookURL:      srv.URL(),
		MessageTemplate: `{"msg_type":"text"}`,
		WebhookSecret:   "s3cret",
		FailOnHTTPError: true,
	}

	out, err := Run(context.Background(), in, logging.Nop())
	require.NoError(t, err)
	assert.True(t, out.OK)

	last := srv.Last()
	last.AssertSigned(t)

	ts, ok := last.Body["timestamp"].(string)
	require.True(t, ok, "timestamp must be a string, got %T", last.Body["timestamp"])
	now, err := strconv.ParseInt(ts, 10, 64)
	require.NoError(t, err)
	assert.Equal(t, payload.Sign("s3cret", now), last.Body["sign"])
}

func TestRun_WhenFalseSkips(t *testing.T) {
	srv := larktest.New(t)

	in := Inputs{
		WebhookURL:      srv.URL(),
		MessageTemplate: `{"msg_type":"text"}`,
		Variables:       `{"severity": "info"}`,
		When:            `severity == "critical"`,
	}

	out, err := Run(context.Background(), in, logging.Nop())
	require.NoError(t, err)

	assert.Equal(t, Outputs{OK: true, Status: 0, ResponseText: "skipped"}, out)
	assert.Equal(t, 0, srv.Count(), "no request may be sent when the condition is false")
}

func TestRun_WhenTrueSends(t *testing.T) {
	srv := larktest.New(t)

	in := Inputs{
		WebhookURL:      srv.URL(),
		MessageTemplate: `{"msg_type":"text"}`,
		Variables:       "attempts=3",
		When:            "attempts > 2",
	}

	out, err := Run(context.Background(), in, logging.Nop())
	require.NoError(t, err)

	assert.True(t, out.OK)
	assert.Equal(t, 1, srv.Count())
}

func TestRun_WhenUndefinedVariableSkips(t *testing.T) {
	srv := larktest.New(t)

	in := Inputs{
		WebhookURL:      srv.URL(),
		MessageTemplate: `{"msg_type":"text"}`,
		When:            `severity == "critical"`,
	}

	out, err := Run(context.Background(), in, logging.Nop())
	require.NoError(t, err)

	assert.Equal(t, "skipped", out.ResponseText)
	assert.Equal(t, 0, srv.Count())
}

func TestRun_WhenCompileFailure(t *testing.T) {
	srv := larktest.New(t)

	in := Inputs{
		WebhookURL:      srv.URL(),
		MessageTemplate: `{"msg_type":"text"}`,
		When:            "severity ==",
	}

	_, err := Run(context.Background(), in, logging.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "when condition")
	assert.Equal(t, 0, srv.Count())
}

func TestRun_WhenNonBoolean(t *testing.T) {
	srv := larktest.New(t)

	in := Inputs{
		WebhookURL:      srv.URL(),
		MessageTemplate: `{"msg_type":"text"}`,
		When:            "1 + 1",
	}

	_, err := Run(context.Background(), in, logging.Nop())
	require.Error(t, err)
	assert.Equal(t, 0, srv.Count())
}

func TestRun_DryRun(t *testing.T) {
	srv := larktest.New(t)

	in := Inputs{
		WebhookURL:      srv.URL(),
		MessageTemplate: `{"msg_type":"text","content":{"text":"Hello {{jstr who}}"}}`,
		Variables:       "who=CI",
		WebhookSecret:   "s3cret",
		DryRun:          true,
	}

	out, err := Run(context.Background(), in, logging.Nop())
	require.NoError(t, err)

	assert.Equal(t, Outputs{OK: true, Status: 0, ResponseText: "dry_run"}, out)
	assert.Equal(t, 0, srv.Count(), "dry run must not send")
}

func TestRun_DryRunSigningPrecondition(t *testing.T) {
	srv := larktest.New(t)

	in := Inputs{
		WebhookURL:      srv.URL(),
		MessageTemplate: `[1, 2, 3]`,
		WebhookSecret:   "s3cret",
		DryRun:          true,
	}

	_, err := Run(context.Background(), in, logging.Nop())

	var signErr *payload.SignError
	require.ErrorAs(t, err, &signErr)
	assert.Equal(t, 0, srv.Count())
}

func TestRun_InvalidRenderedJSON(t *testing.T) {
	srv := larktest.New(t)

	in := Inputs{
		WebhookURL:      srv.URL(),
		MessageTemplate: `{"text": {{message}}}`,
		Variables:       "message=hello",
	}

	_, err := Run(context.Background(), in, logging.Nop())

	var renderErr *payload.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Contains(t, err.Error(), `{"text": hello}`, "error must carry the rendered text")
	assert.Equal(t, 0, srv.Count())
}

func TestRun_SchemaViolation(t *testing.T) {
	srv := larktest.New(t)

	in := Inputs{
		WebhookURL:      srv.URL(),
		MessageTemplate: `{"msg_type": 42}`,
		PayloadSchema:   `{"type":"object","properties":{"msg_type":{"type":"string"}}}`,
	}

	_, err := Run(context.Background(), in, logging.Nop())

	var schemaErr *payload.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, 0, srv.Count())
}

func TestRun_HTTPErrorFails(t *testing.T) {
	srv := larktest.New(t,
		larktest.WithStatus(http.StatusBadGateway),
		larktest.WithResponse("upstream sad"),
	)

	in := Inputs{
		WebhookURL:      srv.URL(),
		MessageTemplate: `{"msg_type":"text"}`,
		FailOnHTTPError: true,
	}

	out, err := Run(context.Background(), in, logging.Nop())

	var statusErr *webhook.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Status)

	// Outputs stay populated so the workflow can still read them.
	assert.False(t, out.OK)
	assert.Equal(t, http.StatusBadGateway, out.Status)
	assert.Equal(t, "upstream sad", out.ResponseText)
}

func TestRun_HTTPErrorTolerated(t *testing.T) {
	srv := larktest.New(t,
		larktest.WithStatus(http.StatusBadGateway),
		larktest.WithResponse("upstream sad"),
	)

	in := Inputs{
		WebhookURL:      srv.URL(),
		MessageTemplate: `{"msg_type":"text"}`,
		FailOnHTTPError: false,
	}

	out, err := Run(context.Background(), in, logging.Nop())
	require.NoError(t, err)

	assert.False(t, out.OK)
	assert.Equal(t, http.StatusBadGateway, out.Status)
	assert.Equal(t, "upstream sad", out.ResponseText)
}

func TestRun_TransportError(t *testing.T) {
	srv := larktest.New(t)
	url := srv.URL()
	srv.Close()

	in := Inputs{
		WebhookURL:      url,
		MessageTemplate: `{"msg_type":"text"}`,
	}

	_, err := Run(context.Background(), in, logging.Nop())

	var transportErr *webhook.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.NotNil(t, transportErr.Cause)
}
