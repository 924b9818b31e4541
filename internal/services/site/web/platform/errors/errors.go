// Package errors defines typed web failures and their HTTP status mapping.
package errors

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/rust-in/site/internal/services/site/auth"
	"github.com/rust-in/site/internal/services/site/collections"
	"github.com/rust-in/site/internal/services/site/contact"
	"github.com/rust-in/site/internal/services/site/media"
	"github.com/rust-in/site/internal/services/site/storage"
)

// Kind classifies application failures for consistent HTTP mapping.
type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindUnavailable  Kind = "unavailable"
	KindNotFound     Kind = "not_found"
)

// Error is a typed web application failure.
type Error struct {
	Kind    Kind
	Key     string
	Message string
}

func (e Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// E builds a typed Error.
func E(kind Kind, message string) error {
	return Error{Kind: kind, Message: message}
}

// EK builds a typed Error with a localization key.
func EK(kind Kind, key string, message string) error {
	return Error{Kind: kind, Key: strings.TrimSpace(key), Message: message}
}

// NotFound is the shared missing-resource failure.
func NotFound() error {
	return EK(KindNotFound, "errors.not_found.message", "not found")
}

// LocalizationKey returns the structured localization key when available.
func LocalizationKey(err error) string {
	var appErr Error
	if err == nil || !stderrors.As(err, &appErr) {
		return ""
	}
	return strings.TrimSpace(appErr.Key)
}

// HTTPStatus maps an error to an HTTP status code. Typed errors map by
// kind; domain sentinels map to their natural status.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr Error
	if stderrors.As(err, &appErr) {
		return kindStatus(appErr.Kind)
	}
	var validation *collections.ValidationError
	var contactValidation *contact.ValidationError
	switch {
	case stderrors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, storage.ErrAlreadyExists):
		return http.StatusConflict
	case stderrors.Is(err, auth.ErrInvalidCredentials), stderrors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case stderrors.Is(err, media.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case stderrors.Is(err, media.ErrNotImage):
		return http.StatusUnsupportedMediaType
	case stderrors.As(err, &validation), stderrors.As(err, &contactValidation):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func kindStatus(kind Kind) int {
	switch kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
