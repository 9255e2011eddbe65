package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formengine/pkg/model"
)

// ParseValue converts raw text from an HTML form or a prompt into the value
// type the field kind stores: bool for checkboxes, float64 for numbers
// (empty and unparseable input stay strings so validation can report them),
// string otherwise.
func ParseValue(field model.FieldDescriptor, raw string) any {
	switch field.Kind {
	case model.FieldKindCheckbox:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "on", "true", "1", "yes":
			return true
		default:
			return false
		}
	case model.FieldKindNumber:
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return ""
		}
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return n
		}
		return raw
	default:
		return raw
	}
}

// DecodeValues maps url-encoded form input onto the config's fields.
// Unchecked checkboxes are absent from HTML submissions and decode as false.
// Keys outside the config are ignored.
func DecodeValues(cfg model.FormConfig, input map[string][]string) model.Values {
	out := make(model.Values, len(cfg.Fields))
	for _, field := range cfg.Fields {
		raw, ok := input[field.Name]
		if !ok || len(raw) == 0 {
			if field.Kind == model.FieldKindCheckbox {
				out[field.Name] = false
			}
			continue
		}
		out[field.Name] = ParseValue(field, raw[len(raw)-1])
	}
	return out
}

// FormatValue renders a stored value back into input text.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}
