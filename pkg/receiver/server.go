// Package receiver implements a local endpoint that mimics a Lark bot
// webhook, for developing message templates without a real bot.
//
// The server accepts POST / with a JSON object body, verifies the
// Lark-style timestamp/sign fields when a secret is configured, logs
// each received payload, and answers with the platform's
// {"code":0,"msg":"success"} acknowledgment.
package receiver

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hugo-setiawan/action-lark-bot/pkg/httputil"
	"github.com/hugo-setiawan/action-lark-bot/pkg/logging"
	"github.com/hugo-setiawan/action-lark-bot/pkg/payload"
	"github.com/hugo-setiawan/action-lark-bot/pkg/util"
)

// DefaultMaxBodySize bounds incoming request bodies.
const DefaultMaxBodySize int64 = 1 << 20

// DefaultSkew is the accepted clock drift for signed timestamps.
const DefaultSkew = 5 * time.Minute

// Config holds receiver settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Secret enables signature verification when non-empty. Incoming
	// messages must then carry valid timestamp and sign fields.
	Secret string

	// MaxBodySize bounds request bodies. Defaults to DefaultMaxBodySize.
	MaxBodySize int64

	// Skew is the accepted timestamp drift. Defaults to DefaultSkew.
	Skew time.Duration
}

// Server is the local webhook receiver.
type Server struct {
	config Config
	logger *slog.Logger
	server *http.Server
	now    func() time.Time
}

// New creates a receiver. A nil logger disables logging.
func New(config Config, logger *slog.Logger) *Server {
	if config.MaxBodySize == 0 {
		config.MaxBodySize = DefaultMaxBodySize
	}
	if config.Skew == 0 {
		config.Skew = DefaultSkew
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// Start runs the receiver until ctx is cancelled (blocking).
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("receiver listening",
		"addr", s.config.Addr,
		"signed", s.config.Secret != "",
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("receiver shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("receiver shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("receiver error: %w", err)
	}
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Post("/", s.handleMessage)
	r.Get("/healthz", s.handleHealth)

	return r
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// handleMessage handles an incoming bot message POST.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	limited := io.LimitReader(r.Body, s.config.MaxBodySize+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		httputil.WriteInternalError(w, "read_failed", "failed to read request body")
		return
	}
	if int64(len(raw)) > s.config.MaxBodySize {
		httputil.WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "payload too large")
		return
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		httputil.WriteBadRequest(w, "invalid_body", "request body is not a JSON object")
		return
	}

	if s.config.Secret != "" {
		if err := s.verifySignature(body); err != nil {
			s.logger.Warn("rejected message", "error", err)
			httputil.WriteUnauthorized(w, "signature_mismatch", "signature verification failed")
			return
		}
	}

	s.logger.Info("message received",
		"msg_type", body["msg_type"],
		"bytes", len(raw),
		"payload", util.TruncateBody(string(raw), 0),
	)

	httputil.WriteOK(w, map[string]any{"code": 0, "msg": "success"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, map[string]string{"status": "ok"})
}

// verifySignature checks the Lark timestamp/sign fields against the
// configured secret, using a constant-time comparison.
func (s *Server) verifySignature(body map[string]any) error {
	ts, ok := body["timestamp"].(string)
	if !ok {
		return errors.New("timestamp field missing or not a string")
	}
	seconds, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("timestamp is not a decimal string: %v", err)
	}

	drift := s.now().Unix() - seconds
	if drift < 0 {
		drift = -drift
	}
	if time.Duration(drift)*time.Second > s.config.Skew {
		return fmt.Errorf("timestamp outside accepted window by %ds", drift)
	}

	sign, ok := body["sign"].(string)
	if !ok {
		return errors.New("sign field missing or not a string")
	}

	expected := payload.Sign(s.config.Secret, seconds)
	if !hmac.Equal([]byte(expected), []byte(sign)) {
		return errors.New("signature mismatch")
	}
	return nil
}
