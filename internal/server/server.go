// Package server provides the HTTP REST API of the interview tracker.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/assistant"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/config"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/email"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/fetch"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/observability"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/scoring"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/server/middleware"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/server/ratelimit"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies. Resume and job description texts are
// the largest payloads.
const maxBodyBytes = 2 << 20

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       Store
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	scoring     *scoring.Service
	assistant   *assistant.Service
	importer    *fetch.Importer
	notifier    *notifier
	addresses   *email.Validator
	otp         *email.OTPIssuer
	metrics     *observability.Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// Config holds server configuration
type Config struct {
	Port int
	// RateLimit defaults to ratelimit.LoadConfig when nil.
	RateLimit *ratelimit.Config
}

// Deps are the services the handlers call. Store, JWT, Passwords and
// Scoring are required; routes whose optional dependency is missing answer
// 503.
type Deps struct {
	Store     Store
	JWT       *config.JWTConfig
	Passwords *config.PasswordConfig
	Scoring   *scoring.Service
	Assistant *assistant.Service
	Importer  *fetch.Importer
	Composer  *email.Composer
	Sender    email.Sender
	Addresses *email.Validator
	OTP       *email.OTPIssuer
	Metrics   *observability.Metrics
	Logger    *zap.Logger
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	switch {
	case deps.Store == nil:
		return nil, fmt.Errorf("server: store is required")
	case deps.JWT == nil:
		return nil, fmt.Errorf("server: JWT config is required")
	case deps.Passwords == nil:
		return nil, fmt.Errorf("server: password config is required")
	case deps.Scoring == nil:
		return nil, fmt.Errorf("server: scoring service is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	addresses := deps.Addresses
	if addresses == nil {
		addresses = email.NewValidator(nil)
	}
	rateConfig := cfg.RateLimit
	if rateConfig == nil {
		rateConfig = ratelimit.LoadConfig()
	}

	s := &Server{
		store:       deps.Store,
		rateLimiter: ratelimit.NewLimiter(rateConfig),
		jwtService:  NewJWTService(deps.JWT),
		userService: NewUserService(deps.Store, deps.Passwords),
		scoring:     deps.Scoring,
		assistant:   deps.Assistant,
		importer:    deps.Importer,
		notifier:    newNotifier(deps.Composer, deps.Sender, logger),
		addresses:   addresses,
		otp:         deps.OTP,
		metrics:     deps.Metrics,
		logger:      logger,
		now:         time.Now,
	}
	s.authHandler = NewAuthHandler(s.userService, s.jwtService, s.notifier, logger)

	mux := http.NewServeMux()
	s.routes(mux)
	s.handler = s.withRateLimit(s.withLogging(s.withMetrics(s.withCORS(mux))))

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      180 * time.Second, // batch scoring and AI generation
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	optional := middleware.OptionalAuth(s.jwtService.AsTokenValidator())
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	// Public
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.HandleFunc("POST /auth/otp/send", s.handleSendOTP)
	mux.HandleFunc("POST /auth/otp/verify", s.handleVerifyOTP)
	mux.HandleFunc("POST /email/validate", s.handleValidateEmail)
	mux.HandleFunc("POST /ats/score", s.handleScoreText)

	// Account
	mux.Handle("PUT /auth/password", protected(s.handleUpdatePassword))
	mux.Handle("GET /me", protected(s.handleGetMe))
	mux.Handle("PUT /me/resume", protected(s.handleUpdateResume))
	mux.Handle("GET /me/digest", protected(s.handleGetDigest))
	mux.Handle("PUT /me/digest", protected(s.handleUpdateDigest))

	// Applications
	mux.Handle("GET /applications", protected(s.handleListApplications))
	mux.Handle("POST /applications", protected(s.handleCreateApplication))
	mux.Handle("POST /applications/ats-score", protected(s.handleScoreAll))
	mux.Handle("GET /applications/{id}", protected(s.handleGetApplication))
	mux.Handle("PUT /applications/{id}", protected(s.handleUpdateApplication))
	mux.Handle("DELETE /applications/{id}", protected(s.handleDeleteApplication))
	mux.Handle("PUT /applications/{id}/status", protected(s.handleUpdateStatus))
	mux.Handle("GET /applications/{id}/history", protected(s.handleStatusHistory))
	mux.Handle("POST /applications/{id}/ats-score", protected(s.handleScoreApplication))

	// Assistant; chat also serves guests.
	mux.Handle("POST /ai/interview-questions", protected(s.handleInterviewQuestions))
	mux.Handle("POST /ai/projects", protected(s.handleProjectIdeas))
	mux.Handle("POST /ai/clean-resume", protected(s.handleCleanResume))
	mux.Handle("POST /ai/chat", optional(http.HandlerFunc(s.handleChat)))

	// Analytics
	mux.Handle("GET /analytics", protected(s.handleAnalytics))
	mux.Handle("GET /analytics/{report}", protected(s.handleAnalyticsReport))

	// Job import
	mux.Handle("POST /jobs/import", protected(s.handleImportJob))
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.rateLimiter.Stop()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	s.notifier.wait()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources without serving. Used when the
// handler is mounted elsewhere, as in tests.
func (s *Server) Close() {
	s.rateLimiter.Stop()
	s.notifier.wait()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging logs one line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("client", s.extractClientID(r)),
		}
		if rec.status >= http.StatusInternalServerError {
			s.logger.Warn("request failed", fields...)
			return
		}
		s.logger.Info("request", fields...)
	})
}

// withMetrics records request counts and latency by route pattern. The mux
// sets r.Pattern on the shared request, so it is read after serving.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTP(r.Method, route, rec.status, time.Since(start))
	})
}

// handleHealth reports whether the database is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data, s.logger)
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to its status and writes it. Server-side failures are
// logged with the request path.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}
	s.errorResponse(w, status, publicMessage(err, status))
}

func writeJSON(w http.ResponseWriter, status int, data any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// extractClientID extracts the client identifier from the request.
// It uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	return remoteIP(r)
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Info("rate limit exceeded",
		zap.String("client", s.extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
		zap.Time("reset", info.ResetTime))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
