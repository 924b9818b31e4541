// Package templates renders the site pages as templ components.
package templates

import (
	"context"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/rust-in/site/internal/platform/icons"
	"github.com/rust-in/site/internal/services/site/content"
	"github.com/rust-in/site/internal/services/site/hours"
	"github.com/rust-in/site/internal/services/site/web/routepath"
	"golang.org/x/text/message"
)

// Splash carries the splash overlay state of a full page render.
type Splash struct {
	// Active renders the overlay and hides the content until reveal.
	Active         bool
	Minimum        time.Duration
	RevealDebounce time.Duration
	// SafetyTimeout of zero disables the fallback reveal.
	SafetyTimeout time.Duration
}

// Toast is a one-time notice shown on top of the page.
type Toast struct {
	Kind    string
	Message string
}

// PageContext is the chrome shared by every public page.
type PageContext struct {
	Lang        string
	Title       string
	Description string
	Path        string
	Loc         *message.Printer
	Layout      content.Layout
	Splash      Splash
	Toast       *Toast
	// AdminSignedIn shows the admin link in the header.
	AdminSignedIn bool
}

func (p PageContext) t(key string, args ...any) string {
	if p.Loc == nil {
		return key
	}
	return p.Loc.Sprintf(key, args...)
}

type navLink struct {
	path string
	key  string
}

var navLinks = []navLink{
	{path: routepath.Root, key: "site.nav.home"},
	{path: routepath.About, key: "site.nav.about"},
	{path: routepath.Shop, key: "site.nav.shop"},
	{path: routepath.Prices, key: "site.nav.prices"},
	{path: routepath.Contact, key: "site.nav.contact"},
}

// activeNav reports whether link matches the current path. /bikes belongs
// to the shop section.
func activeNav(link, path string) bool {
	if link == path {
		return true
	}
	return link == routepath.Shop && path == routepath.Bikes
}

// Layout renders the document shell around the children of ctx.
func Layout(page PageContext) templ.Component {
	return component(func(ctx context.Context, o *out) {
		lang := page.Lang
		if lang == "" {
			lang = "fr"
		}
		title := page.t("site.name")
		if page.Title != "" {
			title = page.Title + " | " + title
		}
		description := page.Description
		if description == "" {
			description = page.t("site.meta.description")
		}
		o.raw(`<!DOCTYPE html><html`)
		o.attr("lang", lang)
		o.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		o.text(title)
		o.raw(`</title><meta name="description"`)
		o.attr("content", description)
		o.raw(`><link rel="stylesheet" href="/static/site.css"></head><body>`)
		o.raw(icons.LucideSprite())
		o.raw(`<a class="skip-link" href="#main">`)
		o.text(page.t("site.skip_to_content"))
		o.raw(`</a>`)
		splashOverlay(o, page)
		contentClass := "content"
		if page.Splash.Active {
			contentClass += " content--hidden"
		}
		o.raw(`<div id="content"`)
		o.attr("class", contentClass)
		o.raw(`>`)
		header(o, page)
		if page.Toast != nil {
			o.raw(`<div role="status"`)
			o.attr("class", "toast toast--"+page.Toast.Kind)
			o.raw(`>`)
			o.icon(icons.Check, "toast__icon")
			o.text(page.Toast.Message)
			o.raw(`</div>`)
		}
		o.raw(`<main id="main">`)
		o.render(ctx, templ.GetChildren(ctx))
		o.raw(`</main>`)
		footer(o, page)
		o.raw(`</div><script src="/static/loader.js" defer></script></body></html>`)
	})
}

func splashOverlay(o *out, page PageContext) {
	if !page.Splash.Active {
		return
	}
	o.raw(`<div id="splash" class="splash" role="progressbar" aria-valuemin="0" aria-valuemax="100" aria-valuenow="0"`)
	o.attr("aria-label", page.t("site.splash.loading"))
	o.attr("data-minimum-ms", millis(page.Splash.Minimum))
	o.attr("data-debounce-ms", millis(page.Splash.RevealDebounce))
	o.attr("data-safety-ms", millis(page.Splash.SafetyTimeout))
	o.attr("data-wasm", routepath.Wasm)
	o.raw(`><div class="splash__inner">`)
	o.icon(icons.Bike, "splash__bike")
	o.raw(`<p class="splash__brand">`)
	o.text(page.t("site.name"))
	o.raw(`</p><div class="splash__bar"><div class="splash__fill" style="width:0%"></div></div><p class="splash__percent">0%</p></div></div>`)
}

func millis(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}

func header(o *out, page PageContext) {
	o.raw(`<header class="header"><div class="header__bar"><a class="header__logo" href="/">`)
	o.icon(icons.Bike, "header__logo-icon")
	o.text(page.t("site.name"))
	o.raw(`</a><nav class="nav"`)
	o.attr("aria-label", page.t("site.nav.menu"))
	o.raw(`><ul>`)
	for _, link := range navLinks {
		o.raw(`<li><a`)
		o.href(link.path)
		if activeNav(link.path, page.Path) {
			o.raw(` class="nav__link nav__link--active" aria-current="page"`)
		} else {
			o.raw(` class="nav__link"`)
		}
		o.raw(`>`)
		o.text(page.t(link.key))
		o.raw(`</a></li>`)
	}
	if page.AdminSignedIn {
		o.raw(`<li><a class="nav__link nav__link--admin" href="/admin/">`)
		o.icon(icons.Settings, "nav__icon")
		o.text(page.t("site.nav.admin"))
		o.raw(`</a></li>`)
	}
	o.raw(`</ul></nav></div>`)
	o.raw(`<div class="progress" id="scroll-progress" aria-hidden="true"><div class="progress__track" id="scroll-track"><div class="progress__fill" id="scroll-fill" style="width:0%"></div><span class="progress__marker" id="scroll-marker" style="transform:translateX(0px)">`)
	o.icon(icons.Bike, "progress__bike")
	o.raw(`</span></div></div></header>`)
}

func footer(o *out, page PageContext) {
	info := page.Layout.Contact
	o.raw(`<footer class="footer"><div class="footer__grid"><div class="footer__brand"><a class="footer__logo" href="/">`)
	o.icon(icons.Bike, "footer__logo-icon")
	o.text(page.t("site.name"))
	o.raw(`</a><p>`)
	o.text(page.t("site.tagline"))
	o.raw(`</p></div><nav class="footer__nav"><ul>`)
	for _, link := range navLinks {
		o.raw(`<li><a`)
		o.href(link.path)
		o.raw(`>`)
		o.text(page.t(link.key))
		o.raw(`</a></li>`)
	}
	o.raw(`</ul></nav>`)
	contactBlock(o, info)
	o.raw(`<div class="footer__hours"><h2>`)
	o.text(page.t("site.hours.title"))
	o.raw(`</h2><ul>`)
	for _, r := range hours.Group(page.Layout.Hours) {
		o.raw(`<li><span>`)
		o.text(r.Label)
		o.raw(`</span> <span>`)
		if r.IsClosed {
			o.text(page.t("site.hours.closed"))
		} else {
			o.text(r.Hours)
		}
		o.raw(`</span></li>`)
	}
	o.raw(`</ul></div>`)
	if len(info.Social) > 0 {
		o.raw(`<div class="footer__social"><h2>`)
		o.text(page.t("site.footer.follow"))
		o.raw(`</h2><ul>`)
		for _, link := range info.Social {
			o.raw(`<li><a rel="noopener" target="_blank"`)
			o.href(link.URL)
			o.raw(`>`)
			o.text(link.Name)
			o.raw(`</a></li>`)
		}
		o.raw(`</ul></div>`)
	}
	o.raw(`</div><p class="footer__legal"><a href="/legal">`)
	o.text(page.t("site.footer.legal"))
	o.raw(`</a> · © `)
	o.text(page.t("site.name"))
	o.raw(` `)
	o.text(page.t("site.footer.rights"))
	o.raw(`</p></footer>`)
}

func contactBlock(o *out, info content.ContactInfo) {
	o.raw(`<address class="contact-block"><p>`)
	o.icon(icons.MapPin, "contact-block__icon")
	o.text(info.Address)
	o.raw(`<br>`)
	o.text(info.Locality())
	o.raw(`</p><p>`)
	o.icon(icons.Phone, "contact-block__icon")
	o.raw(`<a`)
	o.href(info.PhoneURL())
	o.raw(`>`)
	o.text(info.Phone)
	o.raw(`</a></p><p>`)
	o.icon(icons.Mail, "contact-block__icon")
	o.raw(`<a`)
	o.href("mailto:" + info.Email)
	o.raw(`>`)
	o.text(info.Email)
	o.raw(`</a></p></address>`)
}
