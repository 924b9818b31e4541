package collections

import (
	"net/url"
	"strconv"
)

// DecodeForm maps an admin form submission to document data. Group fields
// use dotted input names. Unchecked checkboxes decode as false; other absent
// inputs are left out so defaults apply.
func (s Schema) DecodeForm(values url.Values) map[string]any {
	return decodeFields(s.Fields, values, "")
}

func decodeFields(fields []Field, values url.Values, prefix string) map[string]any {
	data := map[string]any{}
	for _, field := range fields {
		name := prefix + field.Name
		switch field.Type {
		case Group:
			if nested := decodeFields(field.Fields, values, name+"."); len(nested) > 0 {
				data[field.Name] = nested
			}
		case Checkbox:
			data[field.Name] = values.Get(name) != ""
		default:
			if _, ok := values[name]; ok {
				data[field.Name] = values.Get(name)
			}
		}
	}
	return data
}

// FormValues flattens document data into input values for the edit form.
func (s Schema) FormValues(data map[string]any) map[string]string {
	out := map[string]string{}
	flattenFields(s.Fields, data, "", out)
	return out
}

func flattenFields(fields []Field, data map[string]any, prefix string, out map[string]string) {
	for _, field := range fields {
		value, ok := data[field.Name]
		if !ok {
			continue
		}
		name := prefix + field.Name
		switch field.Type {
		case Group:
			if nested, ok := value.(map[string]any); ok {
				flattenFields(field.Fields, nested, name+".", out)
			}
		case Checkbox:
			if flag, _ := value.(bool); flag {
				out[name] = "on"
			}
		case Number:
			if number, ok := toNumber(value); ok {
				out[name] = strconv.FormatFloat(number, 'f', -1, 64)
			}
		default:
			out[name] = Display(value)
		}
	}
}
