package admin

import (
	"net/http"

	"github.com/rust-in/site/internal/services/site/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Admin, h.handleDashboard)
	mux.HandleFunc(http.MethodGet+" "+routepath.AdminPrefix+"{$}", h.handleDashboard)
	mux.HandleFunc(http.MethodGet+" "+routepath.AdminLogin, h.handleLogin)
	mux.HandleFunc(http.MethodPost+" "+routepath.AdminLogin, h.handleLoginSubmit)
	mux.HandleFunc(http.MethodPost+" "+routepath.AdminLogout, h.handleLogout)

	mux.HandleFunc(http.MethodGet+" "+routepath.AdminCollectionPattern, h.handleList)
	mux.HandleFunc(http.MethodGet+" "+routepath.AdminNewPattern, h.handleNew)
	mux.HandleFunc(http.MethodPost+" "+routepath.AdminNewPattern, h.handleCreate)
	mux.HandleFunc(http.MethodGet+" "+routepath.AdminDocumentPattern, h.handleEdit)
	mux.HandleFunc(http.MethodPost+" "+routepath.AdminDocumentPattern, h.handleUpdate)
	mux.HandleFunc(http.MethodPost+" "+routepath.AdminDeletePattern, h.handleDelete)

	mux.HandleFunc(http.MethodGet+" "+routepath.AdminMedia, h.handleMedia)
	mux.HandleFunc(http.MethodPost+" "+routepath.AdminMedia, h.handleMediaUpload)

	mux.HandleFunc(http.MethodGet+" "+routepath.AdminMessages, h.handleMessages)
	mux.HandleFunc(http.MethodPost+" "+routepath.AdminMessageReadPath, h.handleMessageRead)

	mux.HandleFunc(routepath.AdminPrefix, h.handleNotFound)
}
