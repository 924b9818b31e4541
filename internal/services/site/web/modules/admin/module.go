// Package admin serves the content administration surface.
package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/rust-in/site/internal/services/site/media"
	"github.com/rust-in/site/internal/services/site/storage"
	"github.com/rust-in/site/internal/services/site/web/module"
	"github.com/rust-in/site/internal/services/site/web/platform/pagerender"
	"github.com/rust-in/site/internal/services/site/web/platform/requestmeta"
	"github.com/rust-in/site/internal/services/site/web/routepath"
	"go.uber.org/zap"
)

// Authenticator checks admin credentials and signs sessions.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (storage.User, error)
	IssueToken(user storage.User) (string, time.Time, error)
}

// MediaLibrary stores uploaded images.
type MediaLibrary interface {
	Save(ctx context.Context, upload media.Upload) (storage.Document, error)
	Delete(ctx context.Context, mediaID string) error
}

// Config wires the admin module.
type Config struct {
	Auth     Authenticator
	Docs     storage.DocumentStore
	Messages storage.MessageStore
	Media    MediaLibrary
	Renderer *pagerender.Renderer
	Policy   requestmeta.SchemePolicy
	Logger   *zap.Logger
}

// Module provides the protected admin routes.
type Module struct {
	cfg Config
}

// New returns the admin module.
func New(cfg Config) Module {
	return Module{cfg: cfg}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string {
	return "admin"
}

// AnonymousPaths lists admin paths served without a session.
func (Module) AnonymousPaths() []string {
	return []string{routepath.AdminLogin}
}

// Mount wires admin routes under the admin prefix.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(m.cfg))
	return module.Mount{Prefix: routepath.AdminPrefix, Handler: mux}, nil
}
