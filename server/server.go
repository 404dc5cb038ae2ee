// Package server exposes the framework and version engine as a JSON HTTP API.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/quic-go/quic-go/http3"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/willibrandon/nugetcompat/frameworks"
	"github.com/willibrandon/nugetcompat/observability"
)

// RequestIDHeader carries the request ID echoed on every response.
const RequestIDHeader = "X-Request-Id"

// Config controls how the API is served.
type Config struct {
	// Addr is the TCP (and, with HTTP3, UDP) listen address.
	Addr string

	// TLSCertFile and TLSKeyFile enable HTTPS. Without them the server
	// speaks cleartext HTTP/1.1 and h2c.
	TLSCertFile string
	TLSKeyFile  string

	// HTTP3 additionally serves HTTP/3 over QUIC. Requires TLS.
	HTTP3 bool

	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// DefaultConfig returns the configuration used by `nugetcompat serve`.
func DefaultConfig() Config {
	return Config{
		Addr:              "127.0.0.1:8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

// Validate reports configuration errors before any listener is opened.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("listen address is required")
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return errors.New("TLS requires both a certificate and a key file")
	}
	if c.HTTP3 && c.TLSCertFile == "" {
		return errors.New("HTTP/3 requires TLS")
	}
	return nil
}

var errRateLimited = errors.New("rate limit exceeded")

// Server serves one engine. It is safe for concurrent use.
type Server struct {
	engine  *frameworks.Engine
	logger  observability.Logger
	health  *observability.HealthChecker
	limiter *clientLimiter
	cache   *responseCache
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit limits each client address to rate requests per second
// with bursts of up to burst. A rate of zero disables limiting.
func WithRateLimit(rate float64, burst int) Option {
	return func(s *Server) {
		if rate > 0 {
			s.limiter = newClientLimiter(rate, burst)
		}
	}
}

// WithResponseCache keeps up to entries successful /v1 responses, and at
// most maxBytes of response bodies when maxBytes is positive. Zero entries
// disables the cache.
func WithResponseCache(entries int, maxBytes int64) Option {
	return func(s *Server) {
		if entries > 0 {
			s.cache = newResponseCache(entries, maxBytes)
		}
	}
}

// New creates a server over engine. A nil logger discards output.
func New(engine *frameworks.Engine, logger observability.Logger, opts ...Option) *Server {
	if engine == nil {
		engine = frameworks.Default()
	}
	if logger == nil {
		logger = observability.NewNullLogger()
	}

	health := observability.NewHealthChecker()
	health.Register(observability.CatalogHealthCheck("profile_catalog", engine.Catalog().Len))

	s := &Server{engine: engine, logger: logger, health: health}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed API handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	routes := []struct {
		pattern   string
		route     string
		handler   http.HandlerFunc
		cacheable bool
	}{
		{"GET /v1/parse", "/v1/parse", s.handleParse, true},
		{"GET /v1/shortname", "/v1/shortname", s.handleShortName, true},
		{"GET /v1/compatible", "/v1/compatible", s.handleCompatible, true},
		{"GET /v1/nearest", "/v1/nearest", s.handleNearest, true},
		{"GET /v1/folder", "/v1/folder", s.handleFolder, true},
		{"GET /v1/range", "/v1/range", s.handleRange, true},
		{"GET /v1/profiles", "/v1/profiles", s.handleProfiles, false},
		{"GET /healthz", "/healthz", s.health.Handler(), false},
	}
	for _, r := range routes {
		var h http.Handler = r.handler
		if r.cacheable && s.cache != nil {
			h = s.cache.middleware(h)
		}
		mux.Handle(r.pattern, observability.HTTPMiddleware(r.route, h))
	}
	mux.Handle("GET /metrics", observability.MetricsHandler())

	var h http.Handler = mux
	if s.limiter != nil {
		h = s.limiter.middleware(h)
	}
	return s.withRequestID(h)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		s.logger.ForContext("RequestId", id).Debug("{Method} {Path}", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	handler := s.Handler()
	var h3 *http3.Server
	if cfg.HTTP3 {
		h3 = &http3.Server{
			Addr:      cfg.Addr,
			Handler:   handler,
			TLSConfig: http3.ConfigureTLSConfig(&tls.Config{MinVersion: tls.VersionTLS13}),
		}
		handler = advertiseHTTP3(h3, handler)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
	tlsEnabled := cfg.TLSCertFile != ""
	if tlsEnabled {
		srv.Handler = handler
		if err := http2.ConfigureServer(srv, &http2.Server{}); err != nil {
			return fmt.Errorf("failed to configure HTTP/2: %w", err)
		}
	} else {
		srv.Handler = h2c.NewHandler(handler, &http2.Server{})
	}

	errs := make(chan error, 2)
	go func() {
		var err error
		if tlsEnabled {
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
	if h3 != nil {
		go func() {
			if err := h3.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- fmt.Errorf("http3: %w", err)
			}
		}()
	}

	s.logger.Info("Serving API on {Addr} (tls={TLS}, http3={HTTP3})", cfg.Addr, tlsEnabled, cfg.HTTP3)

	select {
	case err := <-errs:
		_ = srv.Close()
		if h3 != nil {
			_ = h3.Close()
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down API server")
	if h3 != nil {
		_ = h3.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// advertiseHTTP3 adds the Alt-Svc header so TCP clients can upgrade to QUIC.
func advertiseHTTP3(h3 *http3.Server, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ProtoMajor < 3 {
			_ = h3.SetQUICHeaders(w.Header())
		}
		next.ServeHTTP(w, r)
	})
}
