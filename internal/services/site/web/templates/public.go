package templates

import (
	"context"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/rust-in/site/internal/platform/icons"
	"github.com/rust-in/site/internal/services/site/contact"
	"github.com/rust-in/site/internal/services/site/content"
	"github.com/rust-in/site/internal/services/site/format"
	"github.com/rust-in/site/internal/services/site/hours"
	"github.com/rust-in/site/internal/services/site/richtext"
	"github.com/rust-in/site/internal/services/site/web/routepath"
)

// Home renders the landing page.
func Home(page PageContext, home content.Home) templ.Component {
	return component(func(_ context.Context, o *out) {
		o.raw(`<section class="hero"><h1>`)
		o.text(page.t("site.home.hero.title"))
		o.raw(`</h1><p class="hero__lead">`)
		o.text(page.t("site.home.hero.lead"))
		o.raw(`</p><p class="hero__actions"><a class="button" href="/shop">`)
		o.text(page.t("site.home.hero.cta_shop"))
		o.raw(`</a> <a class="button button--ghost" href="/prices">`)
		o.text(page.t("site.home.hero.cta_prices"))
		o.raw(`</a></p></section>`)

		o.raw(`<section class="stats"><dl>`)
		for _, stat := range []struct{ value, key string }{
			{"10+", "site.home.stats.years"},
			{"2 000", "site.home.stats.repairs"},
			{"4,9/5", "site.home.stats.rating"},
		} {
			o.raw(`<div><dt>`)
			o.text(stat.value)
			o.raw(`</dt><dd>`)
			o.text(page.t(stat.key))
			o.raw(`</dd></div>`)
		}
		o.raw(`</dl></section>`)

		o.raw(`<section class="services"><h2>`)
		o.text(page.t("site.home.services.title"))
		o.raw(`</h2><div class="cards">`)
		for _, service := range []struct {
			icon icons.ID
			key  string
		}{
			{icons.Wrench, "site.home.services.repair"},
			{icons.Settings, "site.home.services.maintenance"},
			{icons.Bike, "site.home.services.sale"},
		} {
			o.raw(`<article class="card">`)
			o.icon(service.icon, "card__icon")
			o.raw(`<h3>`)
			o.text(page.t(service.key + ".title"))
			o.raw(`</h3><p>`)
			o.text(page.t(service.key + ".text"))
			o.raw(`</p></article>`)
		}
		o.raw(`</div></section>`)

		if len(home.Reviews) > 0 {
			reviews(o, page, home.Reviews)
		}
		if len(home.FAQ) > 0 {
			o.raw(`<section class="faq"><h2>`)
			o.text(page.t("site.home.faq.title"))
			o.raw(`</h2>`)
			for _, item := range home.FAQ {
				o.raw(`<details class="faq__item"><summary>`)
				o.text(item.Question)
				o.raw(`</summary><p>`)
				o.text(item.Answer)
				o.raw(`</p></details>`)
			}
			o.raw(`</section>`)
		}

		o.raw(`<section class="visit"><div class="card">`)
		hoursCard(o, page, home.Hours)
		o.raw(`</div><div class="card"><h2>`)
		o.text(page.t("site.contact_card.title"))
		o.raw(`</h2>`)
		contactBlock(o, home.Contact)
		o.raw(`<a class="button button--ghost" rel="noopener" target="_blank"`)
		o.href(home.Contact.MapURL())
		o.raw(`>`)
		o.text(page.t("site.contact_card.map"))
		o.raw(`</a></div></section>`)
	})
}

func reviews(o *out, page PageContext, items []content.Review) {
	o.raw(`<section class="reviews"><h2>`)
	o.text(page.t("site.home.reviews.title"))
	o.raw(`</h2><div class="carousel" id="reviews-carousel"`)
	o.attr("data-count", strconv.Itoa(len(items)))
	o.raw(`><button type="button" class="carousel__control carousel__control--left" data-carousel="left" disabled`)
	o.attr("aria-label", page.t("site.home.reviews.previous"))
	o.raw(`>`)
	o.icon(icons.Left, "")
	o.raw(`</button><div class="carousel__track" id="reviews-track">`)
	for _, review := range items {
		o.raw(`<figure class="review">`)
		if review.ImageURL != "" {
			o.raw(`<img class="review__avatar" loading="lazy" width="64" height="64"`)
			o.attr("src", review.ImageURL)
			o.attr("alt", review.Name)
			o.raw(`>`)
		} else {
			o.raw(`<span class="review__avatar review__avatar--initials">`)
			o.text(format.Initials(review.Name))
			o.raw(`</span>`)
		}
		o.raw(`<p class="review__stars"`)
		o.attr("aria-label", strconv.Itoa(review.Rating)+"/5")
		o.raw(`>`)
		for _, filled := range review.Stars() {
			if filled {
				o.icon(icons.Star, "star star--filled")
			} else {
				o.icon(icons.Star, "star")
			}
		}
		o.raw(`</p><blockquote>`)
		o.text(review.Text)
		o.raw(`</blockquote><figcaption>`)
		o.text(review.Name)
		o.raw(`</figcaption></figure>`)
	}
	o.raw(`</div><button type="button" class="carousel__control carousel__control--right" data-carousel="right"`)
	o.attr("aria-label", page.t("site.home.reviews.next"))
	o.raw(`>`)
	o.icon(icons.Right, "")
	o.raw(`</button></div></section>`)
}

func hoursCard(o *out, page PageContext, entries []hours.Entry) {
	o.raw(`<h2>`)
	o.icon(icons.Clock, "card__icon")
	o.text(page.t("site.hours.title"))
	o.raw(`</h2><table class="hours"><tbody>`)
	for _, entry := range entries {
		o.raw(`<tr`)
		if entry.IsClosed {
			o.raw(` class="hours__closed"`)
		}
		o.raw(`><th scope="row">`)
		o.text(entry.Day)
		o.raw(`</th><td>`)
		if entry.IsClosed {
			o.text(page.t("site.hours.closed"))
		} else {
			o.text(entry.Hours)
		}
		o.raw(`</td></tr>`)
	}
	o.raw(`</tbody></table>`)
}

// About renders the story and team page.
func About(page PageContext, team []content.TeamMember) templ.Component {
	return component(func(_ context.Context, o *out) {
		o.raw(`<section class="page-head"><h1>`)
		o.text(page.t("site.about.title"))
		o.raw(`</h1><p class="lead">`)
		o.text(page.t("site.about.lead"))
		o.raw(`</p><p>`)
		o.text(page.t("site.about.story"))
		o.raw(`</p></section><section class="team"><h2>`)
		o.text(page.t("site.about.team.title"))
		o.raw(`</h2>`)
		if len(team) == 0 {
			o.raw(`<p class="empty">`)
			o.text(page.t("site.about.team.empty"))
			o.raw(`</p></section>`)
			return
		}
		o.raw(`<div class="cards">`)
		for _, member := range team {
			o.raw(`<article class="card team__member">`)
			if member.PhotoURL != "" {
				o.raw(`<img loading="lazy" class="team__photo"`)
				o.attr("src", member.PhotoURL)
				o.attr("alt", member.Name)
				o.raw(`>`)
			}
			o.raw(`<h3>`)
			o.text(member.Name)
			o.raw(`</h3><p class="team__role">`)
			o.text(member.Role)
			o.raw(`</p><p>`)
			o.text(member.Description)
			o.raw(`</p></article>`)
		}
		o.raw(`</div></section>`)
	})
}

var shopCategories = []struct {
	category content.Category
	key      string
}{
	{content.CategoryAll, "site.shop.category.all"},
	{content.CategoryBikes, "site.shop.category.bikes"},
	{content.CategorySkis, "site.shop.category.skis"},
	{content.CategoryScooters, "site.shop.category.scooters"},
}

// Shop renders the catalogue with category tabs and a grid or list view.
func Shop(page PageContext, shop content.Shop) templ.Component {
	return component(func(_ context.Context, o *out) {
		query := shop.Query
		o.raw(`<section class="page-head"><h1>`)
		o.text(page.t("site.shop.title"))
		o.raw(`</h1><p class="lead">`)
		o.text(page.t("site.shop.lead"))
		o.raw(`</p></section>`)

		o.raw(`<form class="shop__search" method="get" action="/shop" role="search">`)
		if query.Category != content.CategoryAll {
			o.raw(`<input type="hidden" name="category"`)
			o.attr("value", string(query.Category))
			o.raw(`>`)
		}
		if query.View == content.ViewList {
			o.raw(`<input type="hidden" name="view" value="list">`)
		}
		o.raw(`<label for="shop-q">`)
		o.text(page.t("site.shop.search.label"))
		o.raw(`</label><input id="shop-q" type="search" name="q"`)
		o.attr("value", query.Search)
		o.attr("placeholder", page.t("site.shop.search.placeholder"))
		o.raw(`><button class="button" type="submit">`)
		o.text(page.t("site.shop.search.submit"))
		o.raw(`</button></form>`)
		if shop.FilterError != "" {
			o.raw(`<p class="notice notice--error" role="alert">`)
			o.text(page.t("site.shop.filter.invalid", shop.FilterError))
			o.raw(`</p>`)
		}

		o.raw(`<div class="shop__toolbar"><nav class="tabs" role="tablist">`)
		for _, tab := range shopCategories {
			o.raw(`<a role="tab"`)
			o.href(routepath.ShopCategory(string(tab.category), string(query.View)))
			if tab.category == query.Category {
				o.raw(` class="tabs__tab tabs__tab--active" aria-selected="true"`)
			} else {
				o.raw(` class="tabs__tab" aria-selected="false"`)
			}
			o.raw(`>`)
			o.text(page.t(tab.key))
			o.raw(` <span class="tabs__count">`)
			o.int(shop.Count(tab.category))
			o.raw(`</span></a>`)
		}
		o.raw(`</nav><div class="views">`)
		for _, view := range []struct {
			view content.View
			icon icons.ID
			key  string
		}{
			{content.ViewGrid, icons.Grid, "site.shop.view.grid"},
			{content.ViewList, icons.List, "site.shop.view.list"},
		} {
			o.raw(`<a`)
			o.href(routepath.ShopCategory(string(query.Category), string(view.view)))
			o.attr("aria-label", page.t(view.key))
			if view.view == query.View {
				o.raw(` class="views__view views__view--active" aria-current="true"`)
			} else {
				o.raw(` class="views__view"`)
			}
			o.raw(`>`)
			o.icon(view.icon, "")
			o.raw(`</a>`)
		}
		o.raw(`</div></div>`)

		visible := shop.Visible()
		o.raw(`<p class="shop__count">`)
		o.text(page.t("site.shop.count", len(visible)))
		o.raw(`</p>`)
		productList(o, page, visible, query.View)
	})
}

// Bikes renders every bike from the cheapest.
func Bikes(page PageContext, bikes []content.Product) templ.Component {
	return component(func(_ context.Context, o *out) {
		o.raw(`<section class="page-head"><h1>`)
		o.text(page.t("site.bikes.title"))
		o.raw(`</h1><p class="lead">`)
		o.text(page.t("site.bikes.lead"))
		o.raw(`</p></section><p class="shop__count">`)
		o.text(page.t("site.shop.count", len(bikes)))
		o.raw(`</p>`)
		productList(o, page, bikes, content.ViewGrid)
	})
}

func productList(o *out, page PageContext, products []content.Product, view content.View) {
	if len(products) == 0 {
		o.raw(`<p class="empty">`)
		o.text(page.t("site.shop.empty"))
		o.raw(`</p>`)
		return
	}
	o.raw(`<ul`)
	o.attr("class", "products products--"+string(view))
	o.raw(`>`)
	for _, product := range products {
		o.raw(`<li class="product"`)
		o.attr("data-category", string(product.Category))
		o.raw(`><div class="product__media">`)
		if product.PhotoURL != "" {
			o.raw(`<img loading="lazy"`)
			o.attr("src", product.PhotoURL)
			o.attr("alt", product.Name)
			o.raw(`>`)
		} else {
			o.icon(categoryIcon(product.Category), "product__placeholder")
		}
		if product.Badge != "" {
			o.raw(`<span class="product__badge">`)
			o.text(product.Badge)
			o.raw(`</span>`)
		}
		o.raw(`</div><div class="product__body"><h3>`)
		o.text(product.Name)
		o.raw(`</h3><p class="product__price">`)
		o.text(format.Price(product.Price))
		o.raw(`</p>`)
		if product.Category == content.CategoryBikes {
			o.raw(`<p class="product__meta">`)
			o.text(page.t("site.shop.kilometers", format.Number(product.Kilometers)))
			o.raw(`</p>`)
		}
		if len(product.Details) > 0 {
			o.raw(`<p class="product__meta">`)
			o.text(strings.Join(product.Details, " · "))
			o.raw(`</p>`)
		}
		if product.Description != "" {
			o.raw(`<p class="product__description">`)
			o.text(format.Truncate(product.Description, 160))
			o.raw(`</p>`)
		}
		o.raw(`</div></li>`)
	}
	o.raw(`</ul>`)
}

func categoryIcon(category content.Category) icons.ID {
	switch category {
	case content.CategorySkis:
		return icons.Ski
	case content.CategoryScooters:
		return icons.Scooter
	}
	return icons.Bike
}

// Prices renders the workshop price list.
func Prices(page PageContext, items []content.PriceItem) templ.Component {
	return component(func(_ context.Context, o *out) {
		o.raw(`<section class="page-head"><h1>`)
		o.text(page.t("site.prices.title"))
		o.raw(`</h1><p class="lead">`)
		o.text(page.t("site.prices.lead"))
		o.raw(`</p></section>`)
		if len(items) == 0 {
			o.raw(`<p class="empty">`)
			o.text(page.t("site.prices.empty"))
			o.raw(`</p>`)
			return
		}
		o.raw(`<table class="prices"><thead><tr><th scope="col">`)
		o.text(page.t("site.prices.service"))
		o.raw(`</th><th scope="col">`)
		o.text(page.t("site.prices.time"))
		o.raw(`</th><th scope="col">`)
		o.text(page.t("site.prices.price"))
		o.raw(`</th></tr></thead><tbody>`)
		for _, item := range items {
			o.raw(`<tr><th scope="row">`)
			o.icon(icons.Wrench, "prices__icon")
			o.text(item.Label)
			o.raw(`</th><td>`)
			o.text(item.Time)
			o.raw(`</td><td class="prices__price">`)
			o.text(format.Price(item.Price))
			o.raw(`</td></tr>`)
		}
		o.raw(`</tbody></table>`)
	})
}

// ContactForm is the state of the contact form after a failed submission.
type ContactForm struct {
	Values contact.Form
	Errors *contact.ValidationError
}

// Contact renders the contact form, opening hours and address.
func Contact(page PageContext, form ContactForm) templ.Component {
	return component(func(_ context.Context, o *out) {
		o.raw(`<section class="page-head"><h1>`)
		o.text(page.t("site.contact.title"))
		o.raw(`</h1><p class="lead">`)
		o.text(page.t("site.contact.lead"))
		o.raw(`</p></section><div class="contact"><form class="form contact__form" method="post" action="/contact" novalidate>`)
		if form.Errors != nil {
			o.raw(`<p class="notice notice--error" role="alert">`)
			o.text(page.t("site.contact.error.form"))
			o.raw(`</p>`)
		}
		o.raw(`<p class="form__hint">`)
		o.text(page.t("site.contact.form.required_hint"))
		o.raw(`</p>`)
		values := form.Values
		contactInput(o, page, form, contact.FieldName, "text", values.Name, true, "name")
		contactInput(o, page, form, contact.FieldEmail, "email", values.Email, true, "email")
		contactInput(o, page, form, contact.FieldPhone, "tel", values.Phone, false, "tel")
		contactInput(o, page, form, contact.FieldBike, "text", values.Bike, false, "off")

		o.raw(`<div class="form__field"><label for="contact-message">`)
		o.text(page.t("site.contact.form.message"))
		o.raw(` *</label><textarea id="contact-message" name="message" rows="6" required`)
		fieldError(o, page, form, contact.FieldMessage, true)
		o.text(values.Message)
		o.raw(`</textarea>`)
		fieldError(o, page, form, contact.FieldMessage, false)
		o.raw(`</div><button class="button" type="submit">`)
		o.text(page.t("site.contact.form.submit"))
		o.raw(`</button></form><aside class="contact__aside"><div class="card">`)
		hoursCard(o, page, page.Layout.Hours)
		o.raw(`</div><div class="card"><h2>`)
		o.text(page.t("site.contact_card.title"))
		o.raw(`</h2>`)
		contactBlock(o, page.Layout.Contact)
		o.raw(`<a class="button button--ghost" rel="noopener" target="_blank"`)
		o.href(page.Layout.Contact.MapURL())
		o.raw(`>`)
		o.text(page.t("site.contact_card.map"))
		o.raw(`</a></div></aside></div>`)
	})
}

func contactInput(o *out, page PageContext, form ContactForm, field, kind, value string, required bool, autocomplete string) {
	id := "contact-" + field
	o.raw(`<div class="form__field"><label`)
	o.attr("for", id)
	o.raw(`>`)
	o.text(page.t("site.contact.form." + field))
	if required {
		o.raw(` *`)
	}
	o.raw(`</label><input`)
	o.attr("id", id)
	o.attr("type", kind)
	o.attr("name", field)
	o.attr("value", value)
	o.attr("autocomplete", autocomplete)
	if required {
		o.raw(` required`)
	}
	fieldError(o, page, form, field, true)
	fieldError(o, page, form, field, false)
	o.raw(`</div>`)
}

// fieldError closes the opening tag of an input when open is true, marking
// it invalid, and otherwise writes the error message element.
func fieldError(o *out, page PageContext, form ContactForm, field string, open bool) {
	key := ""
	if form.Errors != nil {
		key = form.Errors.Key(field)
	}
	if open {
		if key != "" {
			o.raw(` aria-invalid="true"`)
			o.attr("aria-describedby", "contact-"+field+"-error")
		}
		o.raw(`>`)
		return
	}
	if key == "" {
		return
	}
	o.raw(`<p class="form__error"`)
	o.attr("id", "contact-"+field+"-error")
	o.raw(`>`)
	o.text(page.t(key))
	o.raw(`</p>`)
}

// Legal renders the legal notice. An empty body falls back to the built-in
// notice.
func Legal(page PageContext, legal content.Page) templ.Component {
	return component(func(_ context.Context, o *out) {
		title := legal.Title
		if title == "" {
			title = page.t("site.legal.title")
		}
		o.raw(`<article class="legal"><h1>`)
		o.text(title)
		o.raw(`</h1>`)
		if strings.TrimSpace(legal.Body) == "" {
			o.raw(`<p>`)
			o.text(page.t("site.legal.fallback"))
			o.raw(`</p>`)
		} else {
			o.raw(richtext.Sanitize(legal.Body))
		}
		o.raw(`</article>`)
	})
}
