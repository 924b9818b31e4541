package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rust-in/site/internal/platform/id"
	"github.com/rust-in/site/internal/services/site/collections"
	"github.com/rust-in/site/internal/services/site/collections/filter"
	"github.com/rust-in/site/internal/services/site/storage"
	flashnotice "github.com/rust-in/site/internal/services/site/web/platform/flash"
	apperrors "github.com/rust-in/site/internal/services/site/web/platform/errors"
	"github.com/rust-in/site/internal/services/site/web/platform/httpx"
	"github.com/rust-in/site/internal/services/site/web/routepath"
	"github.com/rust-in/site/internal/services/site/web/templates"
	"go.uber.org/zap"
)

const listPageSize = storage.DefaultPageSize

func (h handlers) schema(w http.ResponseWriter, r *http.Request) (collections.Schema, bool) {
	schema, ok := collections.Lookup(r.PathValue("slug"))
	if !ok {
		h.writeError(w, r, apperrors.NotFound())
		return collections.Schema{}, false
	}
	return schema, true
}

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	schema, ok := h.schema(w, r)
	if !ok {
		return
	}
	if schema.Upload {
		httpx.SeeOther(w, r, routepath.AdminMedia)
		return
	}
	values := r.URL.Query()
	view := templates.ListView{
		Schema:  schema,
		Columns: schema.ListColumns(),
		Search:  strings.TrimSpace(values.Get("q")),
		Filter:  strings.TrimSpace(values.Get("filter")),
	}
	where, err := filter.Parse(schema, view.Filter)
	if err != nil {
		view.FilterError = err.Error()
		where = filter.SQLCondition{}
	}
	sortField, descending := sortOf(schema)
	page, err := h.cfg.Docs.ListDocuments(r.Context(), storage.ListQuery{
		Collection:   schema.Slug,
		Where:        where,
		Search:       view.Search,
		SearchFields: schema.SearchFields(),
		SortField:    sortField,
		Descending:   descending,
		PageSize:     listPageSize,
		PageToken:    values.Get("page_token"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	view.Total = page.Total
	view.NextPageToken = page.NextPageToken
	for _, doc := range page.Documents {
		view.Rows = append(view.Rows, listRow(schema, view.Columns, doc))
	}
	admin := h.renderer.AdminContext(w, r, schema.Plural)
	h.write(w, r, admin, http.StatusOK, templates.AdminList(admin, view))
}

func sortOf(schema collections.Schema) (string, bool) {
	sort := schema.DefaultSort
	if sort == "" || !schema.Sortable(sort) {
		return collections.FieldUpdatedAt, true
	}
	if strings.HasPrefix(sort, "-") {
		return strings.TrimPrefix(sort, "-"), true
	}
	return sort, false
}

func listRow(schema collections.Schema, columns []string, doc storage.Document) templates.ListRow {
	row := templates.ListRow{ID: doc.ID, Cells: make([]string, 0, len(columns))}
	for i, column := range columns {
		var cell string
		switch column {
		case collections.FieldID:
			cell = doc.ID
		case collections.FieldCreatedAt:
			cell = formatTime(doc.CreatedAt)
		case collections.FieldUpdatedAt:
			cell = formatTime(doc.UpdatedAt)
		default:
			cell = collections.Display(doc.Data[column])
			if field, ok := schema.Field(column); ok && field.Type == collections.Select {
				cell = field.OptionLabel(cell)
			}
		}
		if i == 0 && strings.TrimSpace(cell) == "" {
			cell = schema.Title(doc.ID, doc.Data)
		}
		row.Cells = append(row.Cells, cell)
	}
	return row
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Local().Format("02/01/2006 15:04")
}

func (h handlers) handleNew(w http.ResponseWriter, r *http.Request) {
	schema, ok := h.schema(w, r)
	if !ok {
		return
	}
	if schema.Upload {
		httpx.SeeOther(w, r, routepath.AdminMedia)
		return
	}
	defaults, _ := schema.Validate(map[string]any{})
	h.renderForm(w, r, schema, "", schema.FormValues(defaults), nil, http.StatusOK)
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	schema, ok := h.schema(w, r)
	if !ok {
		return
	}
	if schema.Upload {
		httpx.SeeOther(w, r, routepath.AdminMedia)
		return
	}
	data, ok := h.decode(w, r, schema, "")
	if !ok {
		return
	}
	docID, err := id.NewID()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	err = h.cfg.Docs.CreateDocument(r.Context(), storage.Document{Collection: schema.Slug, ID: docID, Data: data})
	if h.rejectedSave(w, r, schema, "", err) {
		return
	}
	h.logger.Info("document created", zap.String("collection", schema.Slug), zap.String("document_id", docID))
	flashnotice.Write(w, r, flashnotice.Success("admin.edit.saved"), h.cfg.Policy)
	httpx.SeeOther(w, r, routepath.AdminDocument(schema.Slug, docID))
}

func (h handlers) handleEdit(w http.ResponseWriter, r *http.Request) {
	schema, ok := h.schema(w, r)
	if !ok {
		return
	}
	doc, err := h.cfg.Docs.GetDocument(r.Context(), schema.Slug, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.renderForm(w, r, schema, doc.ID, schema.FormValues(doc.Data), nil, http.StatusOK)
}

func (h handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	schema, ok := h.schema(w, r)
	if !ok {
		return
	}
	existing, err := h.cfg.Docs.GetDocument(r.Context(), schema.Slug, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	data, ok := h.decode(w, r, schema, existing.ID)
	if !ok {
		return
	}
	// Keys outside the schema, such as the media blob name, are owned by
	// other services and survive edits.
	for key, value := range existing.Data {
		if _, known := schema.Field(key); !known {
			data[key] = value
		}
	}
	existing.Data = data
	err = h.cfg.Docs.UpdateDocument(r.Context(), existing)
	if h.rejectedSave(w, r, schema, existing.ID, err) {
		return
	}
	h.logger.Info("document updated", zap.String("collection", schema.Slug), zap.String("document_id", existing.ID))
	flashnotice.Write(w, r, flashnotice.Success("admin.edit.saved"), h.cfg.Policy)
	httpx.SeeOther(w, r, routepath.AdminDocument(schema.Slug, existing.ID))
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	schema, ok := h.schema(w, r)
	if !ok {
		return
	}
	docID := r.PathValue("id")
	var err error
	next := routepath.AdminCollection(schema.Slug)
	if schema.Upload {
		err = h.cfg.Media.Delete(r.Context(), docID)
		next = routepath.AdminMedia
	} else {
		err = h.cfg.Docs.DeleteDocument(r.Context(), schema.Slug, docID)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.logger.Info("document deleted", zap.String("collection", schema.Slug), zap.String("document_id", docID))
	flashnotice.Write(w, r, flashnotice.Success("admin.edit.deleted"), h.cfg.Policy)
	httpx.SeeOther(w, r, next)
}

// decode parses and validates the posted form. On invalid input it renders
// the form again and reports false.
func (h handlers) decode(w http.ResponseWriter, r *http.Request, schema collections.Schema, docID string) (map[string]any, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return nil, false
	}
	data, err := schema.Validate(schema.DecodeForm(r.PostForm))
	if err == nil {
		return data, true
	}
	var invalid *collections.ValidationError
	if !errors.As(err, &invalid) {
		h.writeError(w, r, err)
		return nil, false
	}
	h.renderForm(w, r, schema, docID, postedValues(schema, r), invalid, http.StatusUnprocessableEntity)
	return nil, false
}

// rejectedSave handles a failed create or update and reports whether the
// response was written. Uniqueness conflicts are shown on the unique field.
func (h handlers) rejectedSave(w http.ResponseWriter, r *http.Request, schema collections.Schema, docID string, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, storage.ErrAlreadyExists) {
		if field, ok := uniqueField(schema); ok {
			invalid := &collections.ValidationError{Fields: []collections.FieldError{{Field: field, Key: collections.KeyUnique}}}
			h.renderForm(w, r, schema, docID, postedValues(schema, r), invalid, http.StatusConflict)
			return true
		}
	}
	h.writeError(w, r, err)
	return true
}

func uniqueField(schema collections.Schema) (string, bool) {
	for _, field := range schema.Fields {
		if field.Unique {
			return field.Name, true
		}
	}
	return "", false
}

// postedValues keeps what the admin typed, including values that failed
// coercion.
func postedValues(schema collections.Schema, r *http.Request) map[string]string {
	values := schema.FormValues(schema.DecodeForm(r.PostForm))
	for name := range r.PostForm {
		values[name] = r.PostForm.Get(name)
	}
	return values
}

func (h handlers) renderForm(w http.ResponseWriter, r *http.Request, schema collections.Schema, docID string, values map[string]string, invalid *collections.ValidationError, status int) {
	options, err := h.mediaOptions(r.Context(), schema)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var admin templates.AdminContext
	if docID == "" {
		admin = h.adminContext(w, r, "admin.edit.create_title", schema.Singular)
	} else {
		admin = h.adminContext(w, r, "admin.edit.edit_title", schema.Singular)
	}
	h.write(w, r, admin, status, templates.AdminForm(admin, templates.FormView{
		Schema: schema,
		ID:     docID,
		Values: values,
		Errors: invalid,
		Media:  options,
	}))
}

// mediaOptions lists uploads when schema has an upload field.
func (h handlers) mediaOptions(ctx context.Context, schema collections.Schema) ([]templates.MediaOption, error) {
	if !hasUpload(schema.Fields) {
		return nil, nil
	}
	page, err := h.cfg.Docs.ListDocuments(ctx, storage.ListQuery{
		Collection: collections.Media,
		SortField:  collections.FieldCreatedAt,
		Descending: true,
		PageSize:   storage.MaxPageSize,
	})
	if err != nil {
		return nil, err
	}
	mediaSchema, _ := collections.Lookup(collections.Media)
	options := make([]templates.MediaOption, 0, len(page.Documents))
	for _, doc := range page.Documents {
		options = append(options, templates.MediaOption{ID: doc.ID, Label: mediaSchema.Title(doc.ID, doc.Data)})
	}
	return options, nil
}

func hasUpload(fields []collections.Field) bool {
	for _, field := range fields {
		if field.Type == collections.Upload {
			return true
		}
		if field.Type == collections.Group && hasUpload(field.Fields) {
			return true
		}
	}
	return false
}
