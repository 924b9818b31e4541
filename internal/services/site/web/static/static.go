// Package static serves the stylesheet, the loader script and the browser
// bundle.
package static

import (
	"embed"
	"net/http"
	"strings"

	"github.com/rust-in/site/internal/services/site/web/routepath"
)

// FS exposes the embedded static files.
//
//go:embed *.css *.js
var FS embed.FS

// Handler serves /static/. Files under /static/assets/ come from assetsDir,
// where the build drops site.wasm and wasm_exec.js; an empty assetsDir
// serves none.
func Handler(assetsDir string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(routepath.Static, http.StripPrefix(routepath.Static, files(http.FileServer(http.FS(FS)))))
	if dir := strings.TrimSpace(assetsDir); dir != "" {
		mux.Handle(routepath.Assets, http.StripPrefix(routepath.Assets, files(http.FileServer(http.Dir(dir)))))
	} else {
		mux.Handle(routepath.Assets, http.NotFoundHandler())
	}
	return mux
}

// files rejects directory listings.
func files(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		if strings.HasSuffix(r.URL.Path, ".wasm") {
			w.Header().Set("Content-Type", "application/wasm")
		}
		next.ServeHTTP(w, r)
	})
}
