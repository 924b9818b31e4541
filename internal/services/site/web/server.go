// Package web assembles the site HTTP surface.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rust-in/site/internal/platform/logging"
	"github.com/rust-in/site/internal/platform/requestctx"
	"github.com/rust-in/site/internal/platform/timeouts"
	"github.com/rust-in/site/internal/services/site/auth"
	"github.com/rust-in/site/internal/services/site/contact"
	"github.com/rust-in/site/internal/services/site/content"
	"github.com/rust-in/site/internal/services/site/media"
	"github.com/rust-in/site/internal/services/site/readiness"
	"github.com/rust-in/site/internal/services/site/storage"
	"github.com/rust-in/site/internal/services/site/web/app"
	"github.com/rust-in/site/internal/services/site/web/module"
	"github.com/rust-in/site/internal/services/site/web/modules/admin"
	"github.com/rust-in/site/internal/services/site/web/modules/api"
	"github.com/rust-in/site/internal/services/site/web/modules/public"
	"github.com/rust-in/site/internal/services/site/web/platform/httpx"
	"github.com/rust-in/site/internal/services/site/web/platform/observability"
	"github.com/rust-in/site/internal/services/site/web/platform/pagerender"
	"github.com/rust-in/site/internal/services/site/web/platform/requestmeta"
	"github.com/rust-in/site/internal/services/site/web/platform/sessioncookie"
	"github.com/rust-in/site/internal/services/site/web/static"
	"go.uber.org/zap"
)

// compressionLevel is the gzip level of text responses.
const compressionLevel = 5

// Config defines the inputs of the site HTTP server.
type Config struct {
	HTTPAddr string
	Store    storage.Store
	Auth     *auth.Service
	Blobs    *media.Blobs
	// AssetsDir holds site.wasm and wasm_exec.js. Empty disables the
	// browser bundle and the loader reveals the page at once.
	AssetsDir string
	Splash    readiness.Options
	Policy    requestmeta.SchemePolicy
	Logger    *zap.Logger
}

// Server hosts the site HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	logger     *zap.Logger
}

// NewHandler builds the composed site handler with its middleware chain.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Auth == nil {
		return nil, errors.New("auth service is required")
	}
	if cfg.Blobs == nil {
		return nil, errors.New("media blobs are required")
	}
	logger := logging.OrNop(cfg.Logger)

	contents := content.NewService(cfg.Store)
	renderer := &pagerender.Renderer{
		Layouts: contents,
		Splash:  cfg.Splash,
		Policy:  cfg.Policy,
		Logger:  logger,
	}
	adminModule := admin.New(admin.Config{
		Auth:     cfg.Auth,
		Docs:     cfg.Store,
		Messages: cfg.Store,
		Media:    media.NewService(cfg.Blobs, cfg.Store, logger),
		Renderer: renderer,
		Policy:   cfg.Policy,
		Logger:   logger,
	})
	publicModule := public.New(public.Config{
		Content:  contents,
		Contact:  contact.NewService(cfg.Store, logger),
		Renderer: renderer,
		Media:    cfg.Blobs.FS(),
		Static:   static.Handler(cfg.AssetsDir),
		Policy:   cfg.Policy,
		Logger:   logger,
	})

	root, err := app.Compose(app.ComposeInput{
		Authenticate:        authenticator(cfg.Auth),
		PublicModules:       []module.Module{publicModule, api.New()},
		ProtectedModules:    []module.Module{adminModule},
		AnonymousPaths:      adminModule.AnonymousPaths(),
		RequestSchemePolicy: cfg.Policy,
	})
	if err != nil {
		return nil, fmt.Errorf("compose modules: %w", err)
	}
	return httpx.Chain(root,
		httpx.RecoverPanic(logger),
		httpx.RequestID(),
		observability.Tracing(),
		observability.RequestLogger(logger),
		middleware.Compress(compressionLevel),
		requestTimeout,
	), nil
}

// authenticator resolves the admin principal from the session cookie.
func authenticator(service *auth.Service) app.Authenticate {
	return func(r *http.Request) (requestctx.Principal, bool) {
		token, ok := sessioncookie.Read(r)
		if !ok {
			return requestctx.Principal{}, false
		}
		principal, err := service.Resolve(r.Context(), token)
		if err != nil {
			return requestctx.Principal{}, false
		}
		return principal, true
	}
}

// requestTimeout bounds the context of every request.
func requestTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Request)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// NewServer builds a configured site server.
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("build handler: %w", err)
	}
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	return &Server{
		httpAddr:   httpAddr,
		httpServer: httpServer,
		logger:     logging.OrNop(cfg.Logger),
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("site server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}
	listener, err := net.Listen("tcp", s.httpAddr)
	if err != nil {
		return fmt.Errorf("listen http: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve runs the HTTP server on listener until the context ends.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if s == nil {
		return errors.New("site server is nil")
	}
	if listener == nil {
		return errors.New("listener is required")
	}

	serveErr := make(chan error, 1)
	s.logger.Info("site listening", zap.String("addr", listener.Addr().String()))
	go func() {
		serveErr <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close stops the HTTP server without draining.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	if err := s.httpServer.Close(); err != nil {
		s.logger.Warn("close http server", zap.Error(err))
	}
}
