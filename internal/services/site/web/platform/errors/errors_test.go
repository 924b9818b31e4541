package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/rust-in/site/internal/services/site/collections"
	"github.com/rust-in/site/internal/services/site/media"
	"github.com/rust-in/site/internal/services/site/storage"
)

func TestHTTPStatusMapsKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want int
	}{
		{kind: KindInvalidInput, want: http.StatusBadRequest},
		{kind: KindUnauthorized, want: http.StatusUnauthorized},
		{kind: KindForbidden, want: http.StatusForbidden},
		{kind: KindUnavailable, want: http.StatusServiceUnavailable},
		{kind: KindNotFound, want: http.StatusNotFound},
		{kind: KindUnknown, want: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := HTTPStatus(E(tc.kind, "x")); got != tc.want {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestHTTPStatusMapsDomainErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{err: nil, want: http.StatusOK},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
		{err: fmt.Errorf("load: %w", storage.ErrNotFound), want: http.StatusNotFound},
		{err: storage.ErrAlreadyExists, want: http.StatusConflict},
		{err: media.ErrTooLarge, want: http.StatusRequestEntityTooLarge},
		{err: media.ErrNotImage, want: http.StatusUnsupportedMediaType},
		{err: &collections.ValidationError{}, want: http.StatusUnprocessableEntity},
	}
	for _, tc := range tests {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestErrorStringFallsBackToKind(t *testing.T) {
	t.Parallel()

	if got := (Error{Kind: KindForbidden}).Error(); got != string(KindForbidden) {
		t.Fatalf("Error() = %q, want %q", got, KindForbidden)
	}
}

func TestLocalizationKey(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("page: %w", NotFound())
	if got := LocalizationKey(wrapped); got != "errors.not_found.message" {
		t.Fatalf("LocalizationKey() = %q", got)
	}
	if got := LocalizationKey(errors.New("plain")); got != "" {
		t.Fatalf("LocalizationKey(plain) = %q, want empty", got)
	}
}
