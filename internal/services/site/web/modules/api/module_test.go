package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rust-in/site/internal/platform/requestctx"
)

func TestMe(t *testing.T) {
	t.Parallel()

	mount, err := New().Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	rr := httptest.NewRecorder()
	mount.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req = req.WithContext(requestctx.WithPrincipal(req.Context(), requestctx.Principal{ID: "u1", Email: "atelier@rust-in.fr", Name: "Camille"}))
	rr = httptest.NewRecorder()
	mount.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var got User
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(User{ID: "u1", Email: "atelier@rust-in.fr", Name: "Camille"}, got); diff != "" {
		t.Fatalf("user mismatch (-want +got):\n%s", diff)
	}
	if got := rr.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("Cache-Control = %q, want no-store", got)
	}
}

func TestUnknownEndpoint(t *testing.T) {
	t.Parallel()

	mount, _ := New().Mount()
	rr := httptest.NewRecorder()
	mount.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}
