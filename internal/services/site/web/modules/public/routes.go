package public

import (
	"net/http"

	"github.com/rust-in/site/internal/services/site/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleHome)
	mux.HandleFunc(http.MethodGet+" "+routepath.About, h.handleAbout)
	mux.HandleFunc(http.MethodGet+" "+routepath.Shop, h.handleShop)
	mux.HandleFunc(http.MethodGet+" "+routepath.Bikes, h.handleBikes)
	mux.HandleFunc(http.MethodGet+" "+routepath.Prices, h.handlePrices)
	mux.HandleFunc(http.MethodGet+" "+routepath.Contact, h.handleContact)
	mux.HandleFunc(http.MethodPost+" "+routepath.Contact, h.handleContactSubmit)
	mux.HandleFunc(http.MethodGet+" "+routepath.Legal, h.handleLegal)
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, h.handleHealth)
	mux.HandleFunc(routepath.Root, h.handleNotFound)
}
