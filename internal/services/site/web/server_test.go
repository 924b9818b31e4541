package web

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rust-in/site/internal/services/site/auth"
	"github.com/rust-in/site/internal/services/site/media"
	"github.com/rust-in/site/internal/services/site/sessionmarker"
	"github.com/rust-in/site/internal/services/site/storage/sqlite"
	"github.com/rust-in/site/internal/services/site/web/platform/httpx"
	"github.com/rust-in/site/internal/services/site/web/platform/sessioncookie"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	cfg  Config
	auth *auth.Service
	logs *observer.ObservedLogs
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	store, err := sqlite.Open(filepath.Join(dir, "site.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	authService, err := auth.NewService(store, bytes.Repeat([]byte("s"), 32), nil)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	blobs, err := media.OpenBlobs(filepath.Join(dir, "media"))
	if err != nil {
		t.Fatalf("open blobs: %v", err)
	}
	core, logs := observer.New(zap.InfoLevel)
	return fixture{
		cfg: Config{
			HTTPAddr: "127.0.0.1:0",
			Store:    store,
			Auth:     authService,
			Blobs:    blobs,
			Logger:   zap.New(core),
		},
		auth: authService,
		logs: logs,
	}
}

func (f fixture) handler(t *testing.T) http.Handler {
	t.Helper()
	handler, err := NewHandler(f.cfg)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return handler
}

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestNewHandlerRequiresDependencies(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for name, mutate := range map[string]func(*Config){
		"store": func(c *Config) { c.Store = nil },
		"auth":  func(c *Config) { c.Auth = nil },
		"blobs": func(c *Config) { c.Blobs = nil },
	} {
		cfg := f.cfg
		mutate(&cfg)
		if _, err := NewHandler(cfg); err == nil {
			t.Fatalf("NewHandler() without %s succeeded", name)
		}
	}
}

func TestHomeRendersSplashOnFirstVisit(t *testing.T) {
	t.Parallel()

	handler := newFixture(t).handler(t)
	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), `id="splash"`) {
		t.Fatalf("first visit is missing the splash overlay")
	}
	if rr.Header().Get(httpx.RequestIDHeader) == "" {
		t.Fatalf("missing %s header", httpx.RequestIDHeader)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionmarker.CookieName, Value: "true"})
	rr = serve(handler, req)
	if strings.Contains(rr.Body.String(), `id="splash"`) {
		t.Fatalf("returning visit rendered the splash overlay")
	}
}

func TestRequestsAreLogged(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/up", nil)
	req.Header.Set(httpx.RequestIDHeader, "req-7")
	serve(f.handler(t), req)

	entries := f.logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d requests, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/up" || fields["request_id"] != "req-7" {
		t.Fatalf("fields = %v", fields)
	}
}

func TestStaticFilesAreCompressed(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/static/site.css", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := serve(newFixture(t).handler(t), req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
	reader, err := gzip.NewReader(rr.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), ".splash") {
		t.Fatalf("stylesheet content missing")
	}
}

func TestAdminSessionFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if _, err := f.auth.CreateUser(context.Background(), "atelier@rust-in.fr", "Camille", "velo-rouge-42"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	handler := f.handler(t)

	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/admin/", nil))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/admin/login" {
		t.Fatalf("anonymous admin = %d %q, want 303 /admin/login", rr.Code, rr.Header().Get("Location"))
	}

	rr = serve(handler, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous me status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	form := url.Values{"email": {"atelier@rust-in.fr"}, "password": {"velo-rouge-42"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = serve(handler, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	var session *http.Cookie
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == sessioncookie.Name {
			session = cookie
		}
	}
	if session == nil {
		t.Fatalf("login did not set %s", sessioncookie.Name)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.AddCookie(session)
	rr = serve(handler, req)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"email":"atelier@rust-in.fr"`) {
		t.Fatalf("me = %d %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(session)
	if rr = serve(handler, req); rr.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, want %d", rr.Code, http.StatusOK)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.AddCookie(session)
	if rr = serve(handler, req); rr.Code != http.StatusForbidden {
		t.Fatalf("cross-origin logout status = %d, want %d", rr.Code, http.StatusForbidden)
	}
	req = httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.Header.Set("Origin", "http://example.com")
	req.AddCookie(session)
	if rr = serve(handler, req); rr.Code != http.StatusSeeOther {
		t.Fatalf("same-origin logout status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
}

func TestServerShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	server, err := NewServer(context.Background(), f.cfg)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/up")
	if err != nil {
		t.Fatalf("GET /up: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewServerRequiresAddress(t *testing.T) {
	t.Parallel()

	cfg := newFixture(t).cfg
	cfg.HTTPAddr = " "
	if _, err := NewServer(context.Background(), cfg); err == nil {
		t.Fatal("NewServer() without address succeeded")
	}
}
