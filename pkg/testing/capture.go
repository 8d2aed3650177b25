package testing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/hugo-setiawan/action-lark-bot/pkg/payload"
)

// defaultAck mirrors the Lark platform's success acknowledgment.
const defaultAck = `{"code":0,"msg":"success"}`

// CaptureServer is a stand-in Lark webhook endpoint for tests. It
// records every delivery it receives and answers like the real bot
// API, so sender code can be exercised end to end without a bot.
type CaptureServer struct {
	t   testing.TB
	srv *httptest.Server

	status   int
	response string
	secret   string
	skew     time.Duration

	mu         sync.Mutex
	deliveries []Delivery
}

// Option configures a CaptureServer.
type Option func(*CaptureServer)

// WithStatus sets the HTTP status returned to the sender.
// The default is 200.
func WithStatus(status int) Option {
	return func(c *CaptureServer) { c.status = status }
}

// WithResponse sets the response body returned to the sender.
// The default is the platform's {"code":0,"msg":"success"} ack.
func WithResponse(body string) Option {
	return func(c *CaptureServer) { c.response = body }
}

// WithSecret enables Lark-style signature verification. Deliveries
// whose timestamp and sign fields do not verify are answered with
// 401 and the platform's sign-mismatch error code. The delivery is
// still recorded.
func WithSecret(secret string) Option {
	return func(c *CaptureServer) { c.secret = secret }
}

// New starts a capture server. It is closed automatically when the
// test finishes.
func New(t testing.TB, opts ...Option) *CaptureServer {
	t.Helper()

	c := &CaptureServer{
		t:        t,
		status:   http.StatusOK,
		response: defaultAck,
		skew:     5 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.srv = httptest.NewServer(http.HandlerFunc(c.handle))
	t.Cleanup(c.srv.Close)

	return c
}

// URL returns the webhook address to point the sender at.
func (c *CaptureServer) URL() string {
	return c.srv.URL
}

// Close shuts the server down before the test's automatic cleanup,
// for tests that need the endpoint to disappear mid-flight.
func (c *CaptureServer) Close() {
	c.srv.Close()
}

func (c *CaptureServer) handle(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusInternalServerError)
		return
	}

	d := Delivery{
		Method:      r.Method,
		ContentType: r.Header.Get("Content-Type"),
		Headers:     make(map[string]string, len(r.Header)),
		Raw:         string(raw),
	}
	for k, v := range r.Header {
		if len(v) > 0 {
			d.Headers[k] = v[0]
		}
	}
	_ = json.Unmarshal(raw, &d.Body)

	c.mu.Lock()
	c.deliveries = append(c.deliveries, d)
	c.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if c.secret != "" {
		if err := c.verify(d.Body); err != nil {
			// 19021 is the platform's code for signature failures.
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprintf(w, `{"code":19021,"msg":%q}`, err.Error())
			return
		}
	}

	w.WriteHeader(c.status)
	_, _ = io.WriteString(w, c.response)
}

// verify checks the timestamp/sign fields the way the platform does.
func (c *CaptureServer) verify(body map[string]any) error {
	ts, ok := body["timestamp"].(string)
	if !ok {
		return errors.New("timestamp field missing or not a string")
	}
	seconds, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("timestamp is not a decimal string: %v", err)
	}

	drift := time.Now().Unix() - seconds
	if drift < 0 {
		drift = -drift
	}
	if time.Duration(drift)*time.Second > c.skew {
		return fmt.Errorf("timestamp outside accepted window by %ds", drift)
	}

	sign, ok := body["sign"].(string)
	if !ok {
		return errors.New("sign field missing or not a string")
	}
	if sign != payload.Sign(c.secret, seconds) {
		return errors.New("sign match fail")
	}
	return nil
}

// Count reports how many deliveries arrived so far.
func (c *CaptureServer) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.deliveries)
}

// Deliveries returns a copy of every recorded delivery, oldest first.
func (c *CaptureServer) Deliveries() []Delivery {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Delivery, len(c.deliveries))
	copy(out, c.deliveries)
	return out
}

// Last returns the most recent delivery. It fails the test when
// nothing has arrived.
func (c *CaptureServer) Last() Delivery {
	c.t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.deliveries) == 0 {
		c.t.Fatal("no deliveries captured")
	}
	return c.deliveries[len(c.deliveries)-1]
}
