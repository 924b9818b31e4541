// Package api serves the JSON endpoints used by the browser bundle.
package api

import (
	"net/http"

	"github.com/rust-in/site/internal/platform/requestctx"
	"github.com/rust-in/site/internal/services/site/web/module"
	"github.com/rust-in/site/internal/services/site/web/platform/httpx"
	"github.com/rust-in/site/internal/services/site/web/routepath"
)

// User is the JSON shape of the signed-in admin.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Module provides the /api/ routes.
type Module struct{}

// New returns the API module.
func New() Module {
	return Module{}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string {
	return "api"
}

// Mount wires API routes under the api prefix.
func (Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	mux.HandleFunc(http.MethodGet+" "+routepath.APIMe, handleMe)
	mux.HandleFunc(routepath.APIPrefix, func(w http.ResponseWriter, _ *http.Request) {
		_ = httpx.WriteJSONError(w, http.StatusNotFound, "not found")
	})
	return module.Mount{Prefix: routepath.APIPrefix, Handler: mux}, nil
}

// handleMe answers the readiness probe of the browser bundle. Anonymous
// visitors get 401, which still counts as a response.
func handleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := requestctx.PrincipalFromContext(r.Context())
	if !ok {
		_ = httpx.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, User{ID: principal.ID, Email: principal.Email, Name: principal.Name})
}
