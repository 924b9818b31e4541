//go:build js && wasm

// Command site-wasm is the browser bundle of the site.
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/rust-in/site/internal/services/site/browser"
	"github.com/rust-in/site/internal/services/site/sessionmarker"
	"github.com/rust-in/site/internal/services/site/web/routepath"
)

func main() {
	dom := browser.NewDOM()
	opts := browser.Options{
		Page:     dom,
		Markers:  sessionmarker.NewCookieStore(dom, dom.Secure()),
		Viewport: dom,
		Frames:   dom,
		Probe:    browser.HTTPProbe(http.DefaultClient, routepath.APIMe),
		Logf:     log.Printf,
	}
	if view := dom.Carousel(); view != nil {
		opts.Carousel = view
	}
	app := browser.New(opts)
	app.Start(context.Background())
	dom.Listen(app)
	select {}
}
