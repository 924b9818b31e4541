package templates

import (
	"context"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
)

// ErrorKeys returns the catalog keys of the title and message shown for
// statusCode.
func ErrorKeys(statusCode int) (title, message string) {
	switch statusCode {
	case http.StatusNotFound:
		return "errors.not_found.title", "errors.not_found.message"
	case http.StatusUnauthorized:
		return "errors.unauthorized.title", "errors.unauthorized.message"
	case http.StatusForbidden:
		return "errors.forbidden.title", "errors.forbidden.message"
	case http.StatusServiceUnavailable:
		return "errors.unavailable.title", "errors.unavailable.message"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "errors.bad_request.title", "errors.bad_request.message"
	}
	return "errors.internal.title", "errors.internal.message"
}

// ErrorState renders the body of an error page.
func ErrorState(page PageContext, statusCode int) templ.Component {
	return component(func(_ context.Context, o *out) {
		title, message := ErrorKeys(statusCode)
		o.raw(`<section class="error-state"><p class="error-state__code">`)
		o.text(strconv.Itoa(statusCode))
		o.raw(`</p><h1>`)
		o.text(page.t(title))
		o.raw(`</h1><p>`)
		o.text(page.t(message))
		o.raw(`</p><a class="button" href="/">`)
		o.text(page.t("errors.back_home"))
		o.raw(`</a></section>`)
	})
}
