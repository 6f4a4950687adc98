package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/PrintfR/HardCode/internal/observability"
	"github.com/PrintfR/HardCode/internal/server/middleware"
	"github.com/PrintfR/HardCode/internal/server/ratelimit"
	"github.com/PrintfR/HardCode/internal/session"
	"github.com/PrintfR/HardCode/internal/voice"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Config holds server configuration.
type Config struct {
	Port               int
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

// Deps are the collaborators the HTTP layer delegates to.
type Deps struct {
	Sessions    *session.Service
	Users       UserStore
	Verifier    GoogleVerifier
	JWT         *JWTService
	Relay       *voice.Relay
	RateLimiter *ratelimit.Limiter
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	// Ping reports backing store health; nil means always healthy.
	Ping func(ctx context.Context) error
}

// Server represents the HTTP server.
type Server struct {
	httpServer      *http.Server
	router          chi.Router
	sessions        *session.Service
	authHandler     *AuthHandler
	jwtService      *JWTService
	relay           *voice.Relay
	assistant       *voice.AssistantConfig
	rateLimiter     *ratelimit.Limiter
	logger          *zap.Logger
	metrics         *observability.Metrics
	ping            func(ctx context.Context) error
	shutdownTimeout time.Duration
}

// New creates a new server instance.
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Sessions == nil || deps.Users == nil || deps.Verifier == nil || deps.JWT == nil {
		return nil, fmt.Errorf("server: sessions, users, verifier and JWT service are required")
	}

	assistant, err := voice.NewAssistantConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build assistant config: %w", err)
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	}
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}

	s := &Server{
		sessions:        deps.Sessions,
		jwtService:      deps.JWT,
		relay:           deps.Relay,
		assistant:       assistant,
		rateLimiter:     limiter,
		logger:          logger.Named("http"),
		metrics:         metrics,
		ping:            deps.Ping,
		shutdownTimeout: shutdownTimeout,
	}
	s.authHandler = NewAuthHandler(NewUserService(deps.Users, logger), deps.Verifier, deps.JWT, logger)
	s.router = s.routes(cfg.CORSAllowedOrigins)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second, // evaluation calls can be slow
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

func (s *Server) routes(allowedOrigins []string) chi.Router {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(s.withLogging)
	r.Use(s.withMetrics)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:         300,
	}))
	r.Use(s.withRateLimit)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		errorResponse(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Post("/auth/google", s.authHandler.GoogleSignIn)

	validator := s.jwtService.AsTokenValidator()
	requireAuth := middleware.AuthMiddleware(validator)

	r.With(requireAuth).Get("/auth/me", s.authHandler.Me)

	r.Route("/interviews", func(r chi.Router) {
		r.With(middleware.AuthMiddleware(validator, middleware.WithQueryToken("token"))).
			Get("/{id}/call", s.handleCall)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", s.handleListSessions)
			r.Post("/new", s.handleCreateInterview)
			r.Get("/discover", s.handleDiscover)
			r.Post("/{id}/start", s.handleStartAttempt)
			r.Get("/{id}/preview", s.handlePreview)
			r.Get("/{id}/assistant", s.handleAssistant)
			r.Post("/{id}/analyze", s.handleAnalyze)
			r.Get("/{id}/results", s.handleResults)
		})
	})

	return r
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.rateLimiter.Stop()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()

	s.logger.Info("server stopped")
	return nil
}

// withLogging logs one line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", statusOf(ww)),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.String("remote", extractClientID(r)))
	})
}

// withMetrics records request count, latency and in-flight requests labelled
// by route pattern.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.metrics.HTTPInFlight.Inc()
		defer s.metrics.HTTPInFlight.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := strconv.Itoa(statusOf(ww))
		s.metrics.HTTPRequests.WithLabelValues(r.Method, route, status).Inc()
		s.metrics.HTTPLatency.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
	})
}

func statusOf(ww chimw.WrapResponseWriter) int {
	if status := ww.Status(); status != 0 {
		return status
	}
	return http.StatusOK
}

// withRateLimit rejects requests over the client's budget with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// errorResponse writes an error JSON response.
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID returns the peer IP. Forwarded headers are not trusted.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error": "Rate limit exceeded. Please try again later.",
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds() + 0.999)
		response["retryAfter"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit))

	jsonResponse(w, http.StatusTooManyRequests, response)
}
