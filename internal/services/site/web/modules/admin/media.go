package admin

import (
	"errors"
	"net/http"

	"github.com/rust-in/site/internal/services/site/collections"
	"github.com/rust-in/site/internal/services/site/media"
	"github.com/rust-in/site/internal/services/site/storage"
	flashnotice "github.com/rust-in/site/internal/services/site/web/platform/flash"
	"github.com/rust-in/site/internal/services/site/web/platform/httpx"
	"github.com/rust-in/site/internal/services/site/web/routepath"
	"github.com/rust-in/site/internal/services/site/web/templates"
)

// multipartOverhead leaves room for the form fields around the file.
const multipartOverhead = 1 << 20

func (h handlers) handleMedia(w http.ResponseWriter, r *http.Request) {
	h.renderMedia(w, r, "", http.StatusOK)
}

func (h handlers) handleMediaUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(media.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.renderMedia(w, r, "admin.media.too_large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()
	file, header, err := r.FormFile("file")
	if err != nil {
		h.renderMedia(w, r, "admin.validation.required", http.StatusUnprocessableEntity)
		return
	}
	defer file.Close()

	_, err = h.cfg.Media.Save(r.Context(), media.Upload{
		Filename: header.Filename,
		Alt:      r.FormValue("alt"),
		Content:  file,
	})
	switch {
	case errors.Is(err, media.ErrTooLarge):
		h.renderMedia(w, r, "admin.media.too_large", http.StatusRequestEntityTooLarge)
		return
	case errors.Is(err, media.ErrNotImage):
		h.renderMedia(w, r, "admin.media.not_image", http.StatusUnsupportedMediaType)
		return
	case err != nil:
		h.writeError(w, r, err)
		return
	}
	flashnotice.Write(w, r, flashnotice.Success("admin.media.uploaded"), h.cfg.Policy)
	httpx.SeeOther(w, r, routepath.AdminMedia)
}

func (h handlers) renderMedia(w http.ResponseWriter, r *http.Request, errorKey string, status int) {
	page, err := h.cfg.Docs.ListDocuments(r.Context(), storage.ListQuery{
		Collection: collections.Media,
		SortField:  collections.FieldCreatedAt,
		Descending: true,
		PageSize:   storage.MaxPageSize,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items := make([]templates.MediaItem, 0, len(page.Documents))
	for _, doc := range page.Documents {
		filename, _ := doc.Data["filename"].(string)
		alt, _ := doc.Data["alt"].(string)
		items = append(items, templates.MediaItem{ID: doc.ID, URL: media.URL(doc), Filename: filename, Alt: alt})
	}
	schema, _ := collections.Lookup(collections.Media)
	admin := h.renderer.AdminContext(w, r, schema.Plural)
	h.write(w, r, admin, status, templates.AdminMedia(admin, items, errorKey))
}
