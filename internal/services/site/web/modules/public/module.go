// Package public serves the visitor-facing pages of the site.
package public

import (
	"context"
	"net/http"

	"github.com/rust-in/site/internal/services/site/contact"
	"github.com/rust-in/site/internal/services/site/content"
	"github.com/rust-in/site/internal/services/site/storage"
	"github.com/rust-in/site/internal/services/site/web/module"
	"github.com/rust-in/site/internal/services/site/web/platform/pagerender"
	"github.com/rust-in/site/internal/services/site/web/platform/requestmeta"
	"github.com/rust-in/site/internal/services/site/web/routepath"
	"go.uber.org/zap"
)

// ContentSource loads the page data of public routes.
type ContentSource interface {
	Home(ctx context.Context) (content.Home, error)
	Team(ctx context.Context) ([]content.TeamMember, error)
	Shop(ctx context.Context, query content.ShopQuery) (content.Shop, error)
	Bikes(ctx context.Context) ([]content.Product, error)
	Prices(ctx context.Context) ([]content.PriceItem, error)
	PageBySlug(ctx context.Context, slug string) (content.Page, bool, error)
}

// ContactSubmitter stores contact form submissions.
type ContactSubmitter interface {
	Submit(ctx context.Context, form contact.Form) (storage.ContactMessage, error)
}

// Config wires the public module.
type Config struct {
	Content  ContentSource
	Contact  ContactSubmitter
	Renderer *pagerender.Renderer
	// Media serves uploaded blobs under /media/.
	Media http.FileSystem
	// Static serves /static/, including the wasm assets.
	Static http.Handler
	Policy requestmeta.SchemePolicy
	Logger *zap.Logger
}

// Module provides unauthenticated site routes.
type Module struct {
	cfg Config
}

// New returns the public module.
func New(cfg Config) Module {
	return Module{cfg: cfg}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string {
	return "public"
}

// Mount wires public routes under the root prefix.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(m.cfg))
	if m.cfg.Media != nil {
		mux.Handle(http.MethodGet+" "+routepath.Media, http.StripPrefix(routepath.Media, noDirectoryListing(http.FileServer(m.cfg.Media))))
	}
	if m.cfg.Static != nil {
		mux.Handle(http.MethodGet+" "+routepath.Static, m.cfg.Static)
	}
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}

func noDirectoryListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
