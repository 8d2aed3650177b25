package receiver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-setiawan/action-lark-bot/pkg/logging"
	"github.com/hugo-setiawan/action-lark-bot/pkg/payload"
)

const testNow int64 = 1700000000

func newTestServer(secret string) *Server {
	s := New(Config{Addr: "127.0.0.1:0", Secret: secret}, logging.Nop())
	s.now = func() time.Time { return time.Unix(testNow, 0) }
	return s
}

func signedBody(t *testing.T, secret string, now int64) []byte {
	t.Helper()
	body, err := payload.Augment(map[string]any{"msg_type": "text"}, secret, now)
	require.NoError(t, err)
	raw, err := payload.Marshal(body)
	require.NoError(t, err)
	return raw
}

func postMessage(s *Server, raw []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	s.handleMessage(rec, req)
	return rec
}

func TestHandleMessage_Unsigned(t *testing.T) {
	s := newTestServer("")

	rec := postMessage(s, []byte(`{"msg_type":"text","content":{"text":"hi"}}`))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(0), resp["code"])
	assert.Equal(t, "success", resp["msg"])
}

func TestHandleMessage_ValidSignature(t *testing.T) {
	s := newTestServer("test-secret")

	rec := postMessage(s, signedBody(t, "test-secret", testNow))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleMessage_WrongSecret(t *testing.T) {
	s := newTestServer("test-secret")

	rec := postMessage(s, signedBody(t, "other-secret", testNow))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "signature_mismatch", resp["error"])
}

func TestHandleMessage_TamperedSignature(t *testing.T) {
	s := newTestServer("test-secret")

	var body map[string]any
	require.NoError(t, json.Unmarshal(signedBody(t, "test-secret", testNow), &body))
	body["sign"] = "AAAA" + body["sign"].(string)[4:]
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	rec := postMessage(s, raw)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleMessage_StaleTimestamp(t *testing.T) {
	s := newTestServer("test-secret")

	// Signed correctly, but ten minutes in the past.
	rec := postMessage(s, signedBody(t, "test-secret", testNow-600))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleMessage_DriftWithinWindow(t *testing.T) {
	s := newTestServer("test-secret")

	// Two minutes of drift in either direction stays inside the window.
	for _, ts := range []int64{testNow - 120, testNow + 120} {
		rec := postMessage(s, signedBody(t, "test-secret", ts))
		assert.Equal(t, http.StatusOK, rec.Code, "timestamp %d should be accepted", ts)
	}
}

func TestHandleMessage_MissingSignatureFields(t *testing.T) {
	s := newTestServer("test-secret")

	rec := postMessage(s, []byte(`{"msg_type":"text"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleMessage_NonStringTimestamp(t *testing.T) {
	s := newTestServer("test-secret")

	rec := postMessage(s, []byte(`{"timestamp":1700000000,"sign":"x","msg_type":"text"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleMessage_InvalidJSON(t *testing.T) {
	s := newTestServer("")

	rec := postMessage(s, []byte("not json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_body", resp["error"])
}

func TestHandleMessage_NonObjectBody(t *testing.T) {
	s := newTestServer("")

	rec := postMessage(s, []byte(`[1, 2, 3]`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleMessage_BodyTooLarge(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0", MaxBodySize: 64}, logging.Nop())

	rec := postMessage(s, bytes.Repeat([]byte("a"), 200))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer("")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestRoutes_EndToEnd(t *testing.T) {
	s := newTestServer("")
	srv := httptest.NewServer(s.routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/", "application/json",
		strings.NewReader(`{"msg_type":"text"}`))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	health, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = health.Body.Close() }()
	assert.Equal(t, http.StatusOK, health.StatusCode)

	// Only POST is routed at /.
	get, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer func() { _ = get.Body.Close() }()
	assert.Equal(t, http.StatusMethodNotAllowed, get.StatusCode)
}

func TestStart_GracefulShutdown(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0"}, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("receiver did not shut down")
	}
}

func TestStart_ListenFailure(t *testing.T) {
	s := New(Config{Addr: "this-is-not-a-listen-address"}, logging.Nop())

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "receiver error")
}
