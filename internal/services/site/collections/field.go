package collections

// FieldType selects how a field is edited, coerced and stored.
type FieldType int

const (
	Text FieldType = iota
	Textarea
	Number
	Checkbox
	Select
	Email
	// Upload holds the ID of a document in the media collection.
	Upload
	// RichText holds sanitised HTML.
	RichText
	// Group nests Fields under one object key.
	Group
)

func (t FieldType) String() string {
	switch t {
	case Text:
		return "text"
	case Textarea:
		return "textarea"
	case Number:
		return "number"
	case Checkbox:
		return "checkbox"
	case Select:
		return "select"
	case Email:
		return "email"
	case Upload:
		return "upload"
	case RichText:
		return "richtext"
	case Group:
		return "group"
	default:
		return "unknown"
	}
}

// Option is one allowed value of a Select field.
type Option struct {
	Value string
	Label string
}

// Field declares one document attribute.
type Field struct {
	Name        string
	Label       string
	Description string
	Type        FieldType
	Required    bool
	Unique      bool
	Min         *float64
	Max         *float64
	Default     any
	Options     []Option
	Fields      []Field
	// Condition hides the field, and drops its value, when it returns false
	// for the fields validated before it.
	Condition func(data map[string]any) bool
}

// OptionLabel returns the label of value, or value itself when unknown.
func (f Field) OptionLabel(value string) string {
	for _, option := range f.Options {
		if option.Value == value {
			return option.Label
		}
	}
	return value
}

// Visible reports whether the field applies to data.
func (f Field) Visible(data map[string]any) bool {
	return f.Condition == nil || f.Condition(data)
}

func bound(v float64) *float64 {
	return &v
}

func isTrue(name string) func(map[string]any) bool {
	return func(data map[string]any) bool {
		value, _ := data[name].(bool)
		return value
	}
}

func isFalse(name string) func(map[string]any) bool {
	return func(data map[string]any) bool {
		value, _ := data[name].(bool)
		return !value
	}
}
