package mockserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/restkit/auth"
	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/version"
)

// Server replays fixtures over HTTP. Plain listeners speak HTTP/1.1 and
// h2c; with TLS configured the server negotiates HTTP/2 over TLS.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	timer      httpclient.Timer
	validator  auth.TokenValidator
	log        *logger.Logger

	mu       sync.RWMutex
	fixtures map[string]Fixture
	order    []string
	addr     net.Addr
}

// Option configures a Server.
type Option func(*Server)

// WithTimer replaces the wall-clock timer used for fixture delays.
func WithTimer(t httpclient.Timer) Option {
	return func(s *Server) { s.timer = t }
}

// WithValidator guards every fixture with v, taking precedence over the
// configured JWT settings.
func WithValidator(v auth.TokenValidator) Option {
	return func(s *Server) { s.validator = v }
}

// WithLogger sets the server logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New creates a server. cfg is defaulted and validated.
func New(cfg Config, opts ...Option) (*Server, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:   gin.New(),
		config:   cfg,
		timer:    httpclient.SystemTimer{},
		fixtures: make(map[string]Fixture),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.WithComponent("mockserver")
	}
	if s.validator == nil && cfg.Auth != nil {
		s.validator = auth.NewJWTValidator(*cfg.Auth, nil)
	}

	s.engine.Use(recovery(s.log), requestID(), requestLogger(s.log))
	s.engine.GET("/health", s.health)

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	if cfg.TLS.IsEnabled() {
		tlsCfg, err := cfg.TLS.BuildServer()
		if err != nil {
			return nil, fmt.Errorf("mockserver: %w", err)
		}
		s.httpServer.TLSConfig = tlsCfg
		s.httpServer.Handler = s.engine
		if err := http2.ConfigureServer(s.httpServer, h2s); err != nil {
			return nil, fmt.Errorf("mockserver: configure http2: %w", err)
		}
	} else {
		s.httpServer.Handler = h2c.NewHandler(s.engine, h2s)
	}

	return s, nil
}

// ErrStarted is returned by Register once the server is serving.
var ErrStarted = errors.New("mockserver: fixtures must be registered before Start")

// Register serves f. A method and path can be registered once, and only
// before Start: gin's route tree is not safe to change while serving.
func (s *Server) Register(f Fixture) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("mockserver: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr != nil {
		return ErrStarted
	}
	if _, exists := s.fixtures[f.key()]; exists {
		return fmt.Errorf("mockserver: fixture %s already registered", f.key())
	}

	handlers := []gin.HandlerFunc{s.serve(f)}
	if s.validator != nil {
		handlers = append([]gin.HandlerFunc{requireToken(s.validator, s.config.HeaderKey, s.config.HeaderPrefix)}, handlers...)
	}
	if err := s.handle(f, handlers); err != nil {
		return err
	}

	s.fixtures[f.key()] = f
	s.order = append(s.order, f.key())
	s.log.Debug("fixture registered", logger.Fields(
		logger.FieldMethod, f.Method,
		"path", f.Path,
		logger.FieldStatusCode, f.Response.StatusCode,
	))
	return nil
}

// handle adds the route, turning gin's conflict panics into errors.
func (s *Server) handle(f Fixture, handlers []gin.HandlerFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mockserver: fixture %s: %v", f.key(), r)
		}
	}()
	s.engine.Handle(f.Method, f.Path, handlers...)
	return nil
}

// RegisterAll registers fixtures in order, stopping at the first error.
func (s *Server) RegisterAll(fixtures []Fixture) error {
	for _, f := range fixtures {
		if err := s.Register(f); err != nil {
			return err
		}
	}
	return nil
}

// Fixtures returns the registered fixtures in registration order.
func (s *Server) Fixtures() []Fixture {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Fixture, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.fixtures[k])
	}
	return out
}

// serve writes the fixture response after its delay. A client that goes
// away during the delay gets nothing.
func (s *Server) serve(f Fixture) gin.HandlerFunc {
	return func(c *gin.Context) {
		if f.Delay > 0 {
			if err := s.timer.Wait(c.Request.Context(), f.Delay); err != nil {
				c.Abort()
				return
			}
		}

		code := f.Response.StatusCode
		if code == http.StatusNoContent {
			c.Status(code)
			return
		}
		c.JSON(code, f.Response.Body)
	}
}

func (s *Server) health(c *gin.Context) {
	s.mu.RLock()
	n := len(s.fixtures)
	s.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"fixtures": n,
		"version":  version.Get().Version,
	})
}

// Handler returns the root handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("mockserver failed to bind %s: %w", s.httpServer.Addr, err)
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	go func() {
		var err error
		if s.httpServer.TLSConfig != nil {
			err = s.httpServer.ServeTLS(ln, "", "")
		} else {
			err = s.httpServer.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", logger.MergeWithError(nil, err))
		}
	}()

	s.log.Info("Mock server started", logger.Fields(
		"addr", ln.Addr().String(),
		"tls", s.httpServer.TLSConfig != nil,
	))
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("mockserver shutdown error: %w", err)
	}
	s.log.Info("Mock server shut down")
	return nil
}

// Addr returns the bound address once started, else the configured one.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.addr != nil {
		return s.addr.String()
	}
	return s.httpServer.Addr
}

// URL returns the base URL of the started server.
func (s *Server) URL() string {
	scheme := "http"
	if s.httpServer.TLSConfig != nil {
		scheme = "https"
	}
	return scheme + "://" + s.Addr()
}
