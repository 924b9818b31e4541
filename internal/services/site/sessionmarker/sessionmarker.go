// Package sessionmarker provides the session-scoped stores behind the splash
// marker. The marker lives in a session cookie so the server can render the
// revealed page directly on later loads in the same browser session.
package sessionmarker

import (
	"net/http"
	"sync"

	"github.com/rust-in/site/internal/services/site/readiness"
)

// CookieName is the session cookie carrying the splash marker.
const CookieName = readiness.DefaultMarkerKey

var (
	_ readiness.MarkerStore = (*MemoryStore)(nil)
	_ readiness.MarkerStore = (*CookieStore)(nil)
	_ readiness.MarkerStore = (*RequestStore)(nil)
)

// MemoryStore keeps markers in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	return value, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.values[key] = value
}

// CookieJar is the document.cookie surface: Cookies returns the joined
// "name=value; ..." list and SetCookie assigns one Set-Cookie style line.
type CookieJar interface {
	Cookies() string
	SetCookie(line string)
}

// CookieStore reads and writes markers as session cookies through a jar.
type CookieStore struct {
	jar    CookieJar
	secure bool
}

// NewCookieStore wraps jar. secure marks written cookies Secure.
func NewCookieStore(jar CookieJar, secure bool) *CookieStore {
	return &CookieStore{jar: jar, secure: secure}
}

func (s *CookieStore) Get(key string) (string, bool) {
	if s == nil || s.jar == nil {
		return "", false
	}
	return lookup(s.jar.Cookies(), key)
}

func (s *CookieStore) Set(key, value string) {
	if s == nil || s.jar == nil {
		return
	}
	s.jar.SetCookie(sessionCookie(key, value, s.secure).String())
}

// RequestStore reads markers from an incoming request and writes them to
// the response.
type RequestStore struct {
	r      *http.Request
	w      http.ResponseWriter
	secure bool
}

// FromRequest returns a store over r. w may be nil for read-only use.
func FromRequest(w http.ResponseWriter, r *http.Request, secure bool) *RequestStore {
	return &RequestStore{r: r, w: w, secure: secure}
}

func (s *RequestStore) Get(key string) (string, bool) {
	if s == nil || s.r == nil {
		return "", false
	}
	cookie, err := s.r.Cookie(key)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (s *RequestStore) Set(key, value string) {
	if s == nil || s.w == nil {
		return
	}
	http.SetCookie(s.w, sessionCookie(key, value, s.secure))
}

// Visited reports whether r already carries the splash marker.
func Visited(r *http.Request) bool {
	_, ok := FromRequest(nil, r, false).Get(CookieName)
	return ok
}

// sessionCookie has no Expires or MaxAge so it ends with the browser session.
func sessionCookie(key, value string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// lookup reads key from a document.cookie string. Malformed entries set by
// other scripts are skipped instead of failing the whole header.
func lookup(header, key string) (string, bool) {
	req := &http.Request{Header: http.Header{"Cookie": {header}}}
	cookie, err := req.Cookie(key)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
