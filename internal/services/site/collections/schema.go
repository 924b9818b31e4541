// Package collections declares the content collections of the site and
// validates documents against them.
package collections

import (
	"slices"
	"strings"
)

// Collection slugs.
const (
	Bikes        = "bikes"
	Skis         = "skis"
	Scooters     = "scooters"
	Reviews      = "reviews"
	FAQ          = "faq"
	Team         = "team"
	OpeningHours = "opening-hours"
	Prices       = "prices"
	ContactInfo  = "contact-info"
	Pages        = "pages"
	Media        = "media"
)

// Built-in document attributes usable in columns, sorting and filters.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Schema describes one collection.
type Schema struct {
	Slug           string
	Singular       string
	Plural         string
	UseAsTitle     string
	DefaultColumns []string
	// DefaultSort is a field name, prefixed with "-" for descending order.
	DefaultSort string
	Fields      []Field
	// Upload marks the media collection, whose documents are created by
	// file upload rather than by the generic form.
	Upload bool
}

// Field returns the top-level field called name.
func (s Schema) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// TitleField returns the field used as document title.
func (s Schema) TitleField() string {
	if s.UseAsTitle != "" {
		return s.UseAsTitle
	}
	return FieldID
}

// ListColumns returns the admin list columns.
func (s Schema) ListColumns() []string {
	if len(s.DefaultColumns) > 0 {
		return slices.Clone(s.DefaultColumns)
	}
	return []string{s.TitleField(), FieldUpdatedAt}
}

// SearchFields returns the text fields matched by free-text search.
func (s Schema) SearchFields() []string {
	var out []string
	for _, field := range s.Fields {
		switch field.Type {
		case Text, Textarea, Email, Select:
			out = append(out, field.Name)
		}
	}
	return out
}

// Sortable reports whether name can order a list of this collection.
func (s Schema) Sortable(name string) bool {
	name = strings.TrimPrefix(name, "-")
	switch name {
	case FieldID, FieldCreatedAt, FieldUpdatedAt:
		return true
	}
	field, ok := s.Field(name)
	return ok && field.Type != Group && field.Type != RichText
}

// Title returns the display title of data.
func (s Schema) Title(id string, data map[string]any) string {
	if value, ok := data[s.TitleField()]; ok {
		if text := strings.TrimSpace(Display(value)); text != "" {
			field, _ := s.Field(s.TitleField())
			if field.Type == Select {
				return field.OptionLabel(text)
			}
			return text
		}
	}
	return id
}

// Lookup returns the schema registered under slug.
func Lookup(slug string) (Schema, bool) {
	for _, schema := range registry {
		if schema.Slug == slug {
			return schema, true
		}
	}
	return Schema{}, false
}

// All returns every schema in admin navigation order.
func All() []Schema {
	return slices.Clone(registry)
}
