// Package routepath stores canonical HTTP paths for site modules.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root     = "/"
	About    = "/about"
	Shop     = "/shop"
	Bikes    = "/bikes"
	Prices   = "/prices"
	Contact  = "/contact"
	Legal    = "/legal"
	Health   = "/up"
	Static   = "/static/"
	Assets   = "/static/assets/"
	Media    = "/media/"
	Wasm     = Assets + "site.wasm"
	WasmExec = Assets + "wasm_exec.js"

	APIPrefix = "/api/"
	APIMe     = "/api/users/me"

	AdminPrefix            = "/admin/"
	Admin                  = "/admin"
	AdminLogin             = "/admin/login"
	AdminLogout            = "/admin/logout"
	AdminCollectionsPrefix = "/admin/collections/"
	AdminCollectionPattern = AdminCollectionsPrefix + "{slug}"
	AdminNewPattern        = AdminCollectionsPrefix + "{slug}/new"
	AdminDocumentPattern   = AdminCollectionsPrefix + "{slug}/{id}"
	AdminDeletePattern     = AdminCollectionsPrefix + "{slug}/{id}/delete"
	AdminMedia             = "/admin/media"
	AdminMessages          = "/admin/messages"
	AdminMessageReadPath   = "/admin/messages/{id}/read"
)

// ShopCategory returns the shop route filtered to category.
func ShopCategory(category string, view string) string {
	values := url.Values{}
	if category = strings.TrimSpace(category); category != "" && category != "all" {
		values.Set("category", category)
	}
	if view = strings.TrimSpace(view); view != "" && view != "grid" {
		values.Set("view", view)
	}
	if len(values) == 0 {
		return Shop
	}
	return Shop + "?" + values.Encode()
}

// AdminCollection returns the admin list route of a collection.
func AdminCollection(slug string) string {
	return AdminCollectionsPrefix + escapeSegment(slug)
}

// AdminNew returns the create form route of a collection.
func AdminNew(slug string) string {
	return AdminCollection(slug) + "/new"
}

// AdminDocument returns the edit route of a document.
func AdminDocument(slug, id string) string {
	return AdminCollection(slug) + "/" + escapeSegment(id)
}

// AdminDelete returns the delete action route of a document.
func AdminDelete(slug, id string) string {
	return AdminDocument(slug, id) + "/delete"
}

// AdminMessageRead returns the mark-read action route of a message.
func AdminMessageRead(id string) string {
	return "/admin/messages/" + escapeSegment(id) + "/read"
}

func escapeSegment(value string) string {
	return url.PathEscape(strings.TrimSpace(value))
}
