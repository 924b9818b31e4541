// Package pagerender centralizes page rendering for site modules.
package pagerender

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/rust-in/site/internal/platform/i18n/catalog"
	"github.com/rust-in/site/internal/platform/requestctx"
	"github.com/rust-in/site/internal/platform/schedule"
	"github.com/rust-in/site/internal/services/site/content"
	"github.com/rust-in/site/internal/services/site/hours"
	"github.com/rust-in/site/internal/services/site/readiness"
	"github.com/rust-in/site/internal/services/site/sessionmarker"
	flashnotice "github.com/rust-in/site/internal/services/site/web/platform/flash"
	"github.com/rust-in/site/internal/services/site/web/platform/httpx"
	"github.com/rust-in/site/internal/services/site/web/platform/requestmeta"
	"github.com/rust-in/site/internal/services/site/web/templates"
	"go.uber.org/zap"
	"golang.org/x/text/message"
)

// LayoutSource loads the contact details and hours shown on every page.
type LayoutSource interface {
	Layout(ctx context.Context) (content.Layout, error)
}

// Renderer writes full pages.
type Renderer struct {
	Layouts LayoutSource
	// Splash configures the first-visit overlay. Timers are never started
	// server side; only the marker decision is made here.
	Splash readiness.Options
	Policy requestmeta.SchemePolicy
	Logger *zap.Logger
}

// Page describes one public page response.
type Page struct {
	Title       string
	Description string
	StatusCode  int
	Body        templ.Component
}

// AdminPage describes one admin page response.
type AdminPage struct {
	Title      string
	StatusCode int
	Body       templ.Component
}

type emptyComponent struct{}

func (emptyComponent) Render(context.Context, io.Writer) error {
	return nil
}

// Localizer returns the printer for the request language.
func Localizer(r *http.Request) *message.Printer {
	bundle := catalog.Default()
	accept := ""
	if r != nil {
		accept = r.Header.Get("Accept-Language")
	}
	return bundle.Printer(bundle.Match(accept))
}

// PageContext resolves the layout chrome of r without rendering. It consumes
// the pending flash notice.
func (rd *Renderer) PageContext(w http.ResponseWriter, r *http.Request, title, description string) templates.PageContext {
	loc := Localizer(r)
	ctx := httpx.RequestContext(r)
	_, signedIn := requestctx.PrincipalFromContext(ctx)
	return templates.PageContext{
		Lang:          "fr",
		Title:         title,
		Description:   description,
		Path:          requestPath(r),
		Loc:           loc,
		Layout:        rd.layout(ctx),
		Splash:        rd.splash(r),
		Toast:         rd.toast(w, r, loc),
		AdminSignedIn: signedIn,
	}
}

// WritePage renders page inside the public layout.
func (rd *Renderer) WritePage(w http.ResponseWriter, r *http.Request, page Page) error {
	if w == nil {
		return nil
	}
	chrome := rd.PageContext(w, r, page.Title, page.Description)
	return rd.WriteWithContext(w, r, chrome, page.StatusCode, page.Body)
}

// WriteWithContext renders body inside the public layout using a resolved
// chrome, for handlers that need the printer to build the body.
func (rd *Renderer) WriteWithContext(w http.ResponseWriter, r *http.Request, chrome templates.PageContext, statusCode int, body templ.Component) error {
	return write(w, r, statusCode, templates.Layout(chrome), body)
}

// AdminContext resolves the admin chrome of r. It consumes the pending flash
// notice.
func (rd *Renderer) AdminContext(w http.ResponseWriter, r *http.Request, title string) templates.AdminContext {
	loc := Localizer(r)
	admin := templates.AdminContext{
		Title: title,
		Path:  requestPath(r),
		Loc:   loc,
		Toast: rd.toast(w, r, loc),
	}
	if principal, ok := requestctx.PrincipalFromContext(httpx.RequestContext(r)); ok {
		admin.UserName = principal.Name
		if admin.UserName == "" {
			admin.UserName = principal.Email
		}
	}
	return admin
}

// WriteAdmin renders body inside the admin layout.
func (rd *Renderer) WriteAdmin(w http.ResponseWriter, r *http.Request, admin templates.AdminContext, statusCode int, body templ.Component) error {
	if w == nil {
		return nil
	}
	return write(w, r, statusCode, templates.AdminLayout(admin), body)
}

func write(w http.ResponseWriter, r *http.Request, statusCode int, layout, body templ.Component) error {
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	if body == nil {
		body = emptyComponent{}
	}
	var buf bytes.Buffer
	if err := layout.Render(templ.WithChildren(httpx.RequestContext(r), body), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}

func (rd *Renderer) layout(ctx context.Context) content.Layout {
	fallback := content.Layout{Contact: content.DefaultContactInfo(), Hours: hours.Defaults()}
	if rd == nil || rd.Layouts == nil {
		return fallback
	}
	layout, err := rd.Layouts.Layout(ctx)
	if err != nil {
		rd.logger().Warn("load page layout", zap.Error(err))
		return fallback
	}
	return layout
}

// splash runs the readiness check against the request cookies. A visitor
// carrying the session marker gets the revealed page directly.
func (rd *Renderer) splash(r *http.Request) templates.Splash {
	opts := readiness.Options{}
	if rd != nil {
		opts = rd.Splash
	}
	opts.OnChange = nil
	opts.Scheduler = heldScheduler{}
	coordinator := readiness.New(sessionmarker.FromRequest(nil, r, false), opts)
	coordinator.Mount()
	ready := coordinator.IsAppReady()
	coordinator.Close()

	minimum := opts.MinimumSplash
	if minimum <= 0 {
		minimum = readiness.DefaultMinimumSplash
	}
	debounce := opts.RevealDebounce
	if debounce <= 0 {
		debounce = readiness.DefaultRevealDebounce
	}
	return templates.Splash{
		Active:         !ready,
		Minimum:        minimum,
		RevealDebounce: debounce,
		SafetyTimeout:  max(opts.SafetyTimeout, 0),
	}
}

// heldScheduler never fires: the browser runs the splash timers.
type heldScheduler struct{}

func (heldScheduler) AfterFunc(time.Duration, func()) schedule.Timer {
	return heldTimer{}
}

type heldTimer struct{}

func (heldTimer) Stop() bool { return true }

func (rd *Renderer) toast(w http.ResponseWriter, r *http.Request, loc *message.Printer) *templates.Toast {
	policy := requestmeta.SchemePolicy{}
	if rd != nil {
		policy = rd.Policy
	}
	notice, ok := flashnotice.ReadAndClear(w, r, policy)
	if !ok {
		return nil
	}
	text := strings.TrimSpace(loc.Sprintf(notice.Key))
	if text == "" {
		return nil
	}
	return &templates.Toast{Kind: string(notice.Kind), Message: text}
}

func (rd *Renderer) logger() *zap.Logger {
	if rd == nil || rd.Logger == nil {
		return zap.NewNop()
	}
	return rd.Logger
}

func requestPath(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	return r.URL.Path
}
