package public

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/rust-in/site/internal/services/site/contact"
	"github.com/rust-in/site/internal/services/site/content"
	flashnotice "github.com/rust-in/site/internal/services/site/web/platform/flash"
	"github.com/rust-in/site/internal/services/site/web/platform/httpx"
	"github.com/rust-in/site/internal/services/site/web/platform/pagerender"
	"github.com/rust-in/site/internal/services/site/web/platform/weberror"
	"github.com/rust-in/site/internal/services/site/web/routepath"
	"github.com/rust-in/site/internal/services/site/web/templates"
	"go.uber.org/zap"
)

// maxContactFormBytes bounds the urlencoded contact form body.
const maxContactFormBytes = 64 << 10

type handlers struct {
	content  ContentSource
	contact  ContactSubmitter
	renderer *pagerender.Renderer
	cfg      Config
	logger   *zap.Logger
}

func newHandlers(cfg Config) handlers {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = &pagerender.Renderer{Policy: cfg.Policy, Logger: logger}
	}
	return handlers{content: cfg.Content, contact: cfg.Contact, renderer: renderer, cfg: cfg, logger: logger}
}

func (h handlers) handleHome(w http.ResponseWriter, r *http.Request) {
	home, err := h.content.Home(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	chrome := h.renderer.PageContext(w, r, "", "")
	chrome.Layout = home.Layout
	h.write(w, r, chrome, http.StatusOK, templates.Home(chrome, home))
}

func (h handlers) handleAbout(w http.ResponseWriter, r *http.Request) {
	team, err := h.content.Team(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	chrome := h.chrome(w, r, "site.about.title")
	h.write(w, r, chrome, http.StatusOK, templates.About(chrome, team))
}

func (h handlers) handleShop(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	shop, err := h.content.Shop(r.Context(), content.ShopQuery{
		Category: content.ParseCategory(values.Get("category")),
		View:     content.ParseView(values.Get("view")),
		Search:   strings.TrimSpace(values.Get("q")),
		Filter:   strings.TrimSpace(values.Get("filter")),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	chrome := h.chrome(w, r, "site.shop.title")
	h.write(w, r, chrome, http.StatusOK, templates.Shop(chrome, shop))
}

func (h handlers) handleBikes(w http.ResponseWriter, r *http.Request) {
	bikes, err := h.content.Bikes(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	chrome := h.chrome(w, r, "site.bikes.title")
	h.write(w, r, chrome, http.StatusOK, templates.Bikes(chrome, bikes))
}

func (h handlers) handlePrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.content.Prices(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	chrome := h.chrome(w, r, "site.prices.title")
	h.write(w, r, chrome, http.StatusOK, templates.Prices(chrome, prices))
}

func (h handlers) handleContact(w http.ResponseWriter, r *http.Request) {
	chrome := h.chrome(w, r, "site.contact.title")
	h.write(w, r, chrome, http.StatusOK, templates.Contact(chrome, templates.ContactForm{}))
}

func (h handlers) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := contact.FromValues(r.PostForm)
	if _, err := h.contact.Submit(r.Context(), form); err != nil {
		var invalid *contact.ValidationError
		if !errors.As(err, &invalid) {
			h.writeError(w, r, err)
			return
		}
		chrome := h.chrome(w, r, "site.contact.title")
		h.write(w, r, chrome, http.StatusUnprocessableEntity, templates.Contact(chrome, templates.ContactForm{
			Values: form.Normalize(),
			Errors: invalid,
		}))
		return
	}
	flashnotice.Write(w, r, flashnotice.Success("site.contact.success"), h.cfg.Policy)
	httpx.SeeOther(w, r, routepath.Contact)
}

func (h handlers) handleLegal(w http.ResponseWriter, r *http.Request) {
	page, _, err := h.content.PageBySlug(r.Context(), content.LegalSlug)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	chrome := h.chrome(w, r, "site.legal.title")
	h.write(w, r, chrome, http.StatusOK, templates.Legal(chrome, page))
}

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte("ok"))
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httpx.MethodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}
	weberror.WriteAppError(w, r, h.renderer, http.StatusNotFound)
}

func (h handlers) chrome(w http.ResponseWriter, r *http.Request, titleKey string) templates.PageContext {
	title := pagerender.Localizer(r).Sprintf(titleKey)
	return h.renderer.PageContext(w, r, title, "")
}

func (h handlers) write(w http.ResponseWriter, r *http.Request, chrome templates.PageContext, status int, body templ.Component) {
	if err := h.renderer.WriteWithContext(w, r, chrome, status, body); err != nil {
		h.writeError(w, r, err)
	}
}

func (h handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteError(w, r, h.renderer, h.logger, err)
}
