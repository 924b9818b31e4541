package templates

import (
	"context"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	"github.com/rust-in/site/internal/platform/icons"
	"github.com/rust-in/site/internal/services/site/collections"
	"github.com/rust-in/site/internal/services/site/storage"
	"github.com/rust-in/site/internal/services/site/web/routepath"
	"golang.org/x/text/message"
)

// AdminContext is the chrome of admin pages.
type AdminContext struct {
	Title string
	Path  string
	Loc   *message.Printer
	// UserName is empty on the login page.
	UserName string
	Toast    *Toast
}

func (a AdminContext) t(key string, args ...any) string {
	if a.Loc == nil {
		return key
	}
	return a.Loc.Sprintf(key, args...)
}

// AdminLayout renders the admin shell around the children of ctx.
func AdminLayout(admin AdminContext) templ.Component {
	return component(func(ctx context.Context, o *out) {
		o.raw(`<!DOCTYPE html><html lang="fr"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><meta name="robots" content="noindex"><title>`)
		o.text(admin.Title + " | " + admin.t("admin.title"))
		o.raw(`</title><link rel="stylesheet" href="/static/site.css"></head><body class="admin">`)
		o.raw(icons.LucideSprite())
		if admin.UserName != "" {
			o.raw(`<aside class="admin__nav"><a class="admin__brand" href="/admin/">`)
			o.icon(icons.Settings, "")
			o.text(admin.t("admin.title"))
			o.raw(`</a><ul><li>`)
			adminLink(o, admin.Path, routepath.Admin+"/", admin.t("admin.nav.dashboard"))
			o.raw(`</li>`)
			for _, schema := range collections.All() {
				o.raw(`<li>`)
				if schema.Upload {
					adminLink(o, admin.Path, routepath.AdminMedia, schema.Plural)
				} else {
					adminLink(o, admin.Path, routepath.AdminCollection(schema.Slug), schema.Plural)
				}
				o.raw(`</li>`)
			}
			o.raw(`<li>`)
			adminLink(o, admin.Path, routepath.AdminMessages, admin.t("admin.nav.messages"))
			o.raw(`</li><li><a href="/">`)
			o.text(admin.t("admin.nav.site"))
			o.raw(`</a></li></ul><p class="admin__user">`)
			o.text(admin.UserName)
			o.raw(`</p><form method="post" action="/admin/logout"><button class="button button--ghost" type="submit">`)
			o.icon(icons.LogOut, "")
			o.text(admin.t("admin.nav.logout"))
			o.raw(`</button></form></aside>`)
		}
		o.raw(`<main class="admin__main">`)
		if admin.Toast != nil {
			o.raw(`<div role="status"`)
			o.attr("class", "toast toast--"+admin.Toast.Kind)
			o.raw(`>`)
			o.text(admin.Toast.Message)
			o.raw(`</div>`)
		}
		o.raw(`<h1>`)
		o.text(admin.Title)
		o.raw(`</h1>`)
		o.render(ctx, templ.GetChildren(ctx))
		o.raw(`</main></body></html>`)
	})
}

func adminLink(o *out, current, path, label string) {
	o.raw(`<a`)
	o.href(path)
	if current == path {
		o.raw(` class="active" aria-current="page"`)
	}
	o.raw(`>`)
	o.text(label)
	o.raw(`</a>`)
}

// AdminLogin renders the sign-in form.
func AdminLogin(admin AdminContext, email string, failed bool) templ.Component {
	return component(func(_ context.Context, o *out) {
		o.raw(`<form class="form admin__login" method="post" action="/admin/login">`)
		if failed {
			o.raw(`<p class="notice notice--error" role="alert">`)
			o.text(admin.t("admin.login.invalid"))
			o.raw(`</p>`)
		}
		o.raw(`<div class="form__field"><label for="login-email">`)
		o.text(admin.t("admin.login.email"))
		o.raw(`</label><input id="login-email" type="email" name="email" autocomplete="username" required`)
		o.attr("value", email)
		o.raw(`></div><div class="form__field"><label for="login-password">`)
		o.text(admin.t("admin.login.password"))
		o.raw(`</label><input id="login-password" type="password" name="password" autocomplete="current-password" required></div><button class="button" type="submit">`)
		o.text(admin.t("admin.login.submit"))
		o.raw(`</button></form>`)
	})
}

// CollectionCount is one dashboard tile.
type CollectionCount struct {
	Schema collections.Schema
	Count  int
}

// AdminDashboard renders document counts and unread messages.
func AdminDashboard(admin AdminContext, counts []CollectionCount, unread int) templ.Component {
	return component(func(_ context.Context, o *out) {
		o.raw(`<ul class="tiles">`)
		for _, count := range counts {
			path := routepath.AdminCollection(count.Schema.Slug)
			if count.Schema.Upload {
				path = routepath.AdminMedia
			}
			o.raw(`<li class="tile"><a`)
			o.href(path)
			o.raw(`><strong>`)
			o.text(count.Schema.Plural)
			o.raw(`</strong><span>`)
			o.text(admin.t("admin.dashboard.documents", count.Count))
			o.raw(`</span></a></li>`)
		}
		o.raw(`<li class="tile"><a href="/admin/messages"><strong>`)
		o.icon(icons.Mail, "")
		o.text(admin.t("admin.nav.messages"))
		o.raw(`</strong><span>`)
		o.text(admin.t("admin.dashboard.unread", unread))
		o.raw(`</span></a></li></ul>`)
	})
}

// ListRow is one document line of an admin list.
type ListRow struct {
	ID    string
	Cells []string
}

// ListView is the admin list of one collection.
type ListView struct {
	Schema        collections.Schema
	Columns       []string
	Rows          []ListRow
	Search        string
	Filter        string
	FilterError   string
	Total         int
	NextPageToken string
}

// AdminList renders the document list with search, filter and paging.
func AdminList(admin AdminContext, list ListView) templ.Component {
	return component(func(_ context.Context, o *out) {
		base := routepath.AdminCollection(list.Schema.Slug)
		o.raw(`<div class="admin__toolbar"><a class="button"`)
		o.href(routepath.AdminNew(list.Schema.Slug))
		o.raw(`>`)
		o.text(admin.t("admin.list.create"))
		o.raw(`</a><form class="admin__filter" method="get"`)
		o.attr("action", base)
		o.raw(`><input type="search" name="q"`)
		o.attr("value", list.Search)
		o.attr("aria-label", admin.t("admin.list.search"))
		o.attr("placeholder", admin.t("admin.list.search"))
		o.raw(`><input type="text" name="filter" spellcheck="false"`)
		o.attr("value", list.Filter)
		o.attr("aria-label", admin.t("admin.list.filter"))
		o.attr("placeholder", `price < 500 AND isElectric = true`)
		o.raw(`><button class="button button--ghost" type="submit">`)
		o.text(admin.t("admin.list.apply"))
		o.raw(`</button></form></div>`)
		if list.FilterError != "" {
			o.raw(`<p class="notice notice--error" role="alert">`)
			o.text(admin.t("admin.list.filter_invalid", list.FilterError))
			o.raw(`</p>`)
		}
		o.raw(`<p class="admin__total">`)
		o.text(admin.t("admin.list.total", list.Total))
		o.raw(`</p>`)
		if len(list.Rows) == 0 {
			o.raw(`<p class="empty">`)
			o.text(admin.t("admin.list.empty"))
			o.raw(`</p>`)
			return
		}
		o.raw(`<table class="admin__table"><thead><tr>`)
		for _, column := range list.Columns {
			o.raw(`<th scope="col">`)
			o.text(columnLabel(list.Schema, column))
			o.raw(`</th>`)
		}
		o.raw(`</tr></thead><tbody>`)
		for _, row := range list.Rows {
			o.raw(`<tr>`)
			for i, cell := range row.Cells {
				o.raw(`<td>`)
				if i == 0 {
					o.raw(`<a`)
					o.href(routepath.AdminDocument(list.Schema.Slug, row.ID))
					o.raw(`>`)
					o.text(cell)
					o.raw(`</a>`)
				} else {
					o.text(cell)
				}
				o.raw(`</td>`)
			}
			o.raw(`</tr>`)
		}
		o.raw(`</tbody></table>`)
		if list.NextPageToken != "" {
			o.raw(`<a class="button button--ghost"`)
			o.href(base + "?" + pageQuery(list))
			o.raw(`>`)
			o.text(admin.t("admin.list.next"))
			o.raw(`</a>`)
		}
	})
}

func pageQuery(list ListView) string {
	values := url.Values{}
	if list.Search != "" {
		values.Set("q", list.Search)
	}
	if list.Filter != "" {
		values.Set("filter", list.Filter)
	}
	values.Set("page_token", list.NextPageToken)
	return values.Encode()
}

func columnLabel(schema collections.Schema, column string) string {
	switch column {
	case collections.FieldID:
		return "ID"
	case collections.FieldCreatedAt:
		return "Créé le"
	case collections.FieldUpdatedAt:
		return "Modifié le"
	}
	if field, ok := schema.Field(column); ok {
		return field.Label
	}
	return column
}

// MediaOption is one selectable upload for media fields.
type MediaOption struct {
	ID    string
	Label string
}

// FormView is the create or edit form of one document.
type FormView struct {
	Schema collections.Schema
	// ID is empty when creating.
	ID     string
	Values map[string]string
	Errors *collections.ValidationError
	Media  []MediaOption
}

// AdminForm renders the document editor.
func AdminForm(admin AdminContext, form FormView) templ.Component {
	return component(func(_ context.Context, o *out) {
		action := routepath.AdminNew(form.Schema.Slug)
		if form.ID != "" {
			action = routepath.AdminDocument(form.Schema.Slug, form.ID)
		}
		if form.Errors != nil {
			o.raw(`<p class="notice notice--error" role="alert">`)
			o.text(admin.t("admin.edit.errors"))
			o.raw(`</p>`)
		}
		o.raw(`<form class="form admin__form" method="post"`)
		o.attr("action", action)
		o.raw(`>`)
		formFields(o, admin, form, form.Schema.Fields, "")
		o.raw(`<button class="button" type="submit">`)
		o.text(admin.t("admin.edit.save"))
		o.raw(`</button></form>`)
		if form.ID != "" {
			o.raw(`<form method="post" class="admin__delete"`)
			o.attr("action", routepath.AdminDelete(form.Schema.Slug, form.ID))
			o.attr("onsubmit", "return confirm(this.dataset.confirm)")
			o.attr("data-confirm", admin.t("admin.edit.delete_confirm"))
			o.raw(`><button class="button button--danger" type="submit">`)
			o.text(admin.t("admin.edit.delete"))
			o.raw(`</button></form>`)
		}
	})
}

func formFields(o *out, admin AdminContext, form FormView, fields []collections.Field, prefix string) {
	for _, field := range fields {
		name := prefix + field.Name
		if field.Type == collections.Group {
			o.raw(`<fieldset class="form__group"><legend>`)
			o.text(field.Label)
			o.raw(`</legend>`)
			formFields(o, admin, form, field.Fields, name+".")
			o.raw(`</fieldset>`)
			continue
		}
		id := "field-" + name
		value := form.Values[name]
		o.raw(`<div class="form__field">`)
		if field.Type == collections.Checkbox {
			o.raw(`<label class="form__check"><input type="checkbox"`)
			o.attr("id", id)
			o.attr("name", name)
			if value != "" {
				o.raw(` checked`)
			}
			o.raw(`> `)
			o.text(field.Label)
			o.raw(`</label>`)
		} else {
			o.raw(`<label`)
			o.attr("for", id)
			o.raw(`>`)
			o.text(field.Label)
			if field.Required {
				o.raw(` *`)
			}
			o.raw(`</label>`)
			fieldControl(o, admin, form, field, id, name, value)
		}
		if field.Description != "" {
			o.raw(`<p class="form__hint">`)
			o.text(field.Description)
			o.raw(`</p>`)
		}
		if form.Errors != nil {
			if failure, ok := form.Errors.For(name); ok {
				o.raw(`<p class="form__error">`)
				o.text(admin.t(failure.Key, failure.Args...))
				o.raw(`</p>`)
			}
		}
		o.raw(`</div>`)
	}
}

func fieldControl(o *out, admin AdminContext, form FormView, field collections.Field, id, name, value string) {
	switch field.Type {
	case collections.Textarea, collections.RichText:
		o.raw(`<textarea rows="6"`)
		o.attr("id", id)
		o.attr("name", name)
		if field.Type == collections.RichText {
			o.raw(` class="richtext"`)
		}
		o.raw(`>`)
		o.text(value)
		o.raw(`</textarea>`)
	case collections.Select:
		o.raw(`<select`)
		o.attr("id", id)
		o.attr("name", name)
		o.raw(`><option value="">—</option>`)
		for _, option := range field.Options {
			selectOption(o, option.Value, option.Label, value)
		}
		o.raw(`</select>`)
	case collections.Upload:
		o.raw(`<select`)
		o.attr("id", id)
		o.attr("name", name)
		o.raw(`><option value="">`)
		o.text(admin.t("admin.edit.none"))
		o.raw(`</option>`)
		for _, option := range form.Media {
			selectOption(o, option.ID, option.Label, value)
		}
		o.raw(`</select>`)
	default:
		kind := "text"
		switch field.Type {
		case collections.Number:
			kind = "number"
		case collections.Email:
			kind = "email"
		}
		o.raw(`<input`)
		o.attr("id", id)
		o.attr("type", kind)
		o.attr("name", name)
		o.attr("value", value)
		if field.Type == collections.Number {
			o.raw(` step="any"`)
			if field.Min != nil {
				o.attr("min", strconv.FormatFloat(*field.Min, 'f', -1, 64))
			}
			if field.Max != nil {
				o.attr("max", strconv.FormatFloat(*field.Max, 'f', -1, 64))
			}
		}
		o.raw(`>`)
	}
}

func selectOption(o *out, value, label, selected string) {
	o.raw(`<option`)
	o.attr("value", value)
	if value == selected {
		o.raw(` selected`)
	}
	o.raw(`>`)
	o.text(label)
	o.raw(`</option>`)
}

// MediaItem is one uploaded file.
type MediaItem struct {
	ID       string
	URL      string
	Filename string
	Alt      string
}

// AdminMedia renders the upload form and the media library.
func AdminMedia(admin AdminContext, items []MediaItem, errorKey string) templ.Component {
	return component(func(_ context.Context, o *out) {
		if errorKey != "" {
			o.raw(`<p class="notice notice--error" role="alert">`)
			o.text(admin.t(errorKey))
			o.raw(`</p>`)
		}
		o.raw(`<form class="form admin__upload" method="post" action="/admin/media" enctype="multipart/form-data"><div class="form__field"><label for="media-file">`)
		o.text(admin.t("admin.media.file"))
		o.raw(` *</label><input id="media-file" type="file" name="file" accept="image/*" required></div><div class="form__field"><label for="media-alt">`)
		o.text(admin.t("admin.media.alt"))
		o.raw(`</label><input id="media-alt" type="text" name="alt"></div><button class="button" type="submit">`)
		o.text(admin.t("admin.media.upload"))
		o.raw(`</button></form><ul class="media-grid">`)
		for _, item := range items {
			o.raw(`<li><img loading="lazy"`)
			o.attr("src", item.URL)
			o.attr("alt", item.Alt)
			o.raw(`><a`)
			o.href(routepath.AdminDocument(collections.Media, item.ID))
			o.raw(`>`)
			o.text(item.Filename)
			o.raw(`</a></li>`)
		}
		o.raw(`</ul>`)
	})
}

// AdminMessages renders the contact inbox.
func AdminMessages(admin AdminContext, messages []storage.ContactMessage) templ.Component {
	return component(func(_ context.Context, o *out) {
		if len(messages) == 0 {
			o.raw(`<p class="empty">`)
			o.text(admin.t("admin.messages.empty"))
			o.raw(`</p>`)
			return
		}
		o.raw(`<ul class="inbox">`)
		for _, msg := range messages {
			o.raw(`<li`)
			if msg.Read {
				o.raw(` class="inbox__message"`)
			} else {
				o.raw(` class="inbox__message inbox__message--unread"`)
			}
			o.raw(`><header><strong>`)
			o.text(msg.Name)
			o.raw(`</strong> <a`)
			o.href("mailto:" + msg.Email)
			o.raw(`>`)
			o.text(msg.Email)
			o.raw(`</a>`)
			if msg.Phone != "" {
				o.raw(` · `)
				o.text(msg.Phone)
			}
			o.raw(` <time`)
			o.attr("datetime", msg.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"))
			o.raw(`>`)
			o.text(msg.CreatedAt.Format("02/01/2006 15:04"))
			o.raw(`</time></header>`)
			if msg.Bike != "" {
				o.raw(`<p class="inbox__bike">`)
				o.icon(icons.Bike, "")
				o.text(msg.Bike)
				o.raw(`</p>`)
			}
			o.raw(`<p class="inbox__body">`)
			o.text(msg.Message)
			o.raw(`</p>`)
			if !msg.Read {
				o.raw(`<form method="post"`)
				o.attr("action", routepath.AdminMessageRead(msg.ID))
				o.raw(`><button class="button button--ghost" type="submit">`)
				o.text(admin.t("admin.messages.mark_read"))
				o.raw(`</button></form>`)
			}
			o.raw(`</li>`)
		}
		o.raw(`</ul>`)
	})
}
