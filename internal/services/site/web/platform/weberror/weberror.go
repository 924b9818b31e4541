// Package weberror renders shared error responses for site modules.
package weberror

import (
	"net/http"
	"strings"

	apperrors "github.com/rust-in/site/internal/services/site/web/platform/errors"
	"github.com/rust-in/site/internal/services/site/web/platform/httpx"
	"github.com/rust-in/site/internal/services/site/web/platform/pagerender"
	"github.com/rust-in/site/internal/services/site/web/templates"
	"go.uber.org/zap"
	"golang.org/x/text/message"
)

// ShouldRenderAppError reports whether status should use the error page.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc *message.Printer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" && localized != key {
				return localized
			}
		}
		statusCode := apperrors.HTTPStatus(err)
		_, messageKey := templates.ErrorKeys(statusCode)
		if localized := strings.TrimSpace(loc.Sprintf(messageKey)); localized != "" && localized != messageKey {
			return localized
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	return http.StatusText(statusCode)
}

// WriteAppError writes the localized error page for statusCode.
func WriteAppError(w http.ResponseWriter, r *http.Request, rd *pagerender.Renderer, statusCode int) {
	if w == nil {
		return
	}
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	titleKey, _ := templates.ErrorKeys(statusCode)
	loc := pagerender.Localizer(r)
	chrome := rd.PageContext(w, r, loc.Sprintf(titleKey), "")
	if err := rd.WriteWithContext(w, r, chrome, statusCode, templates.ErrorState(chrome, statusCode)); err != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// WriteError maps err to a status, logs server faults and writes the error
// page or a plain message.
func WriteError(w http.ResponseWriter, r *http.Request, rd *pagerender.Renderer, logger *zap.Logger, err error) {
	if w == nil || err == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", r.Header.Get(httpx.RequestIDHeader)),
			zap.Error(err),
		)
	}
	if ShouldRenderAppError(statusCode) {
		WriteAppError(w, r, rd, statusCode)
		return
	}
	http.Error(w, PublicMessage(pagerender.Localizer(r), err), statusCode)
}
