package collections

import (
	"encoding/json"
	"fmt"
	"math"
	"net/mail"
	"strconv"
	"strings"

	"github.com/rust-in/site/internal/services/site/richtext"
)

// Validation message keys, resolved through the admin catalog.
const (
	KeyRequired = "admin.validation.required"
	KeyNumber   = "admin.validation.number"
	KeyMin      = "admin.validation.min"
	KeyMax      = "admin.validation.max"
	KeyOption   = "admin.validation.option"
	KeyEmail    = "admin.validation.email"
	KeyUnique   = "admin.validation.unique"
	KeyInvalid  = "admin.validation.invalid"
)

// FieldError reports one invalid field. Field uses dotted paths for groups.
type FieldError struct {
	Field string
	Key   string
	Args  []any
}

// ValidationError lists every failing field of a document.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		parts = append(parts, field.Field+": "+strings.TrimPrefix(field.Key, "admin.validation."))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// For returns the first error reported for field.
func (e *ValidationError) For(field string) (FieldError, bool) {
	if e == nil {
		return FieldError{}, false
	}
	for _, candidate := range e.Fields {
		if candidate.Field == field {
			return candidate, true
		}
	}
	return FieldError{}, false
}

// Validate coerces data to the schema. It applies defaults, drops unknown
// keys and fields whose condition is false, and returns a *ValidationError
// naming every failing field.
func (s Schema) Validate(data map[string]any) (map[string]any, error) {
	out := map[string]any{}
	var errs []FieldError
	validateFields(s.Fields, data, out, "", &errs)
	if len(errs) > 0 {
		return out, &ValidationError{Fields: errs}
	}
	return out, nil
}

func validateFields(fields []Field, in, out map[string]any, prefix string, errs *[]FieldError) {
	for _, field := range fields {
		path := prefix + field.Name
		if !field.Visible(out) {
			continue
		}
		if field.Type == Group {
			nested, _ := in[field.Name].(map[string]any)
			group := map[string]any{}
			validateFields(field.Fields, nested, group, path+".", errs)
			if len(group) > 0 {
				out[field.Name] = group
			}
			continue
		}

		raw, present := in[field.Name]
		if !present || isBlank(raw) {
			switch {
			case field.Default != nil:
				out[field.Name] = field.Default
			case field.Required:
				*errs = append(*errs, FieldError{Field: path, Key: KeyRequired})
			}
			continue
		}
		value, fieldErr := coerce(field, raw)
		if fieldErr != nil {
			fieldErr.Field = path
			*errs = append(*errs, *fieldErr)
			continue
		}
		if value == "" && field.Required {
			*errs = append(*errs, FieldError{Field: path, Key: KeyRequired})
			continue
		}
		out[field.Name] = value
	}
}

func coerce(field Field, raw any) (any, *FieldError) {
	switch field.Type {
	case Number:
		number, ok := toNumber(raw)
		if !ok {
			return nil, &FieldError{Key: KeyNumber}
		}
		if field.Min != nil && number < *field.Min {
			return nil, &FieldError{Key: KeyMin, Args: []any{*field.Min}}
		}
		if field.Max != nil && number > *field.Max {
			return nil, &FieldError{Key: KeyMax, Args: []any{*field.Max}}
		}
		return number, nil
	case Checkbox:
		flag, ok := toBool(raw)
		if !ok {
			return nil, &FieldError{Key: KeyInvalid}
		}
		return flag, nil
	case Select:
		value := strings.TrimSpace(Display(raw))
		for _, option := range field.Options {
			if option.Value == value {
				return value, nil
			}
		}
		return nil, &FieldError{Key: KeyOption}
	case Email:
		value := strings.TrimSpace(Display(raw))
		address, err := mail.ParseAddress(value)
		if err != nil || address.Address != value {
			return nil, &FieldError{Key: KeyEmail}
		}
		return value, nil
	case RichText:
		return richtext.Sanitize(Display(raw)), nil
	case Textarea:
		return strings.TrimSpace(strings.ReplaceAll(Display(raw), "\r\n", "\n")), nil
	default:
		return strings.TrimSpace(Display(raw)), nil
	}
}

func isBlank(raw any) bool {
	switch value := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(value) == ""
	}
	return false
}

func toNumber(raw any) (float64, bool) {
	var number float64
	switch value := raw.(type) {
	case float64:
		number = value
	case float32:
		number = float64(value)
	case int:
		number = float64(value)
	case int64:
		number = float64(value)
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return 0, false
		}
		number = parsed
	case string:
		// French input uses a decimal comma and may group thousands with spaces.
		cleaned := strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", ",", ".").Replace(strings.TrimSpace(value))
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		number = parsed
	default:
		return 0, false
	}
	if math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, false
	}
	return number, true
}

func toBool(raw any) (bool, bool) {
	switch value := raw.(type) {
	case bool:
		return value, true
	case string:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "on", "true", "1", "oui", "yes":
			return true, true
		case "off", "false", "0", "non", "no":
			return false, true
		}
	}
	return false, false
}

// Display renders a stored value as plain text.
func Display(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "oui"
		}
		return "non"
	default:
		return fmt.Sprint(v)
	}
}
