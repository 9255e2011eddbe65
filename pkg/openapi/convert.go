package openapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/goliatone/go-formengine/pkg/model"
)

// ExtensionKey is the vendor extension read from operations and properties.
// On a property it may carry label, kind, group, placeholder, disabledWhen,
// optionsSource, order and checks; on an operation it may carry title,
// submitLabel and showCancelButton.
const ExtensionKey = "x-formengine"

// ErrNoRequestBody is returned for operations without an object request body.
var ErrNoRequestBody = errors.New("openapi: operation has no object request body")

// FormFromOperation derives a FormConfig from the operation's request body.
// Scalar properties become fields; nested objects and arrays are skipped and
// reported in the second return value.
func FormFromOperation(op Operation) (model.FormConfig, []string, error) {
	body := op.RequestBody
	if body.Type != "object" && len(body.Properties) == 0 {
		return model.FormConfig{}, nil, fmt.Errorf("%w: %s", ErrNoRequestBody, op.ID)
	}

	cfg := model.FormConfig{
		ID:    op.ID,
		Title: firstNonEmpty(op.Summary, body.Title, Humanize(op.ID)),
	}
	if ext := extension(op.Extensions); ext != nil {
		cfg.Title = firstNonEmpty(stringExt(ext, "title"), cfg.Title)
		cfg.SubmitLabel = stringExt(ext, "submitLabel")
		cfg.ShowCancelButton, _ = ext["showCancelButton"].(bool)
	}

	var skipped []string
	for _, name := range propertyNames(body) {
		prop := body.Properties[name]
		field, ok := FieldFromSchema(name, prop, body.IsRequired(name))
		if !ok {
			skipped = append(skipped, name)
			continue
		}
		cfg.Fields = append(cfg.Fields, field)
	}
	return cfg, skipped, nil
}

// FieldFromSchema maps one property schema onto a field descriptor. It
// reports false for object and array properties.
func FieldFromSchema(name string, schema Schema, required bool) (model.FieldDescriptor, bool) {
	if schema.Type == "object" || schema.Type == "array" {
		return model.FieldDescriptor{}, false
	}

	field := model.FieldDescriptor{
		Name:        name,
		Label:       firstNonEmpty(schema.Title, Humanize(name)),
		Kind:        kindFor(schema),
		Required:    required,
		Description: schema.Description,
		Default:     schema.Default,
	}
	for _, value := range schema.Enum {
		raw := fmt.Sprint(value)
		field.Options = append(field.Options, model.Option{Value: raw, Label: Humanize(raw)})
	}

	rules := &model.ValidationRules{
		MinLength: schema.MinLength,
		MaxLength: schema.MaxLength,
		Pattern:   schema.Pattern,
	}
	if field.Kind == model.FieldKindEmail {
		rules.Checks = append(rules.Checks, model.Check{Name: "email"})
	}
	if schema.Minimum != nil && (*schema.Minimum > 0 || (*schema.Minimum == 0 && schema.ExclusiveMinimum)) {
		rules.Checks = append(rules.Checks, model.Check{Name: "positive"})
	}

	if ext := extension(schema.Extensions); ext != nil {
		if kind := model.FieldKind(stringExt(ext, "kind")); kind.Valid() {
			field.Kind = kind
		}
		field.Label = firstNonEmpty(stringExt(ext, "label"), field.Label)
		field.Group = stringExt(ext, "group")
		field.Placeholder = stringExt(ext, "placeholder")
		field.DisabledWhen = stringExt(ext, "disabledWhen")
		field.OptionsSource = stringExt(ext, "optionsSource")
		if checks, ok := ext["checks"].([]any); ok {
			for _, c := range checks {
				if name, ok := c.(string); ok && name != "" {
					rules.Checks = append(rules.Checks, model.Check{Name: name})
				}
			}
		}
	}

	if !rules.Empty() {
		field.Validation = rules
	}
	return field, true
}

func kindFor(schema Schema) model.FieldKind {
	switch schema.Type {
	case "boolean":
		return model.FieldKindCheckbox
	case "integer", "number":
		return model.FieldKindNumber
	}
	if len(schema.Enum) > 0 {
		return model.FieldKindSelect
	}
	switch strings.ToLower(schema.Format) {
	case "email":
		return model.FieldKindEmail
	case "password":
		return model.FieldKindPassword
	case "textarea":
		return model.FieldKindTextarea
	case "image":
		return model.FieldKindImage
	}
	if schema.MaxLength != nil && *schema.MaxLength > 255 {
		return model.FieldKindTextarea
	}
	return model.FieldKindText
}

// propertyNames orders properties by x-formengine order, then document order
// when known, then name.
func propertyNames(body Schema) []string {
	position := make(map[string]int, len(body.PropertyOrder))
	for i, name := range body.PropertyOrder {
		position[name] = i
	}
	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, iok := order(body.Properties[names[i]])
		oj, jok := order(body.Properties[names[j]])
		if iok != jok {
			return iok
		}
		if iok && oi != oj {
			return oi < oj
		}
		pi, iok := position[names[i]]
		pj, jok := position[names[j]]
		if iok != jok {
			return iok
		}
		if iok && pi != pj {
			return pi < pj
		}
		return names[i] < names[j]
	})
	return names
}

func order(schema Schema) (float64, bool) {
	ext := extension(schema.Extensions)
	if ext == nil {
		return 0, false
	}
	switch v := ext["order"].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func extension(exts map[string]any) map[string]any {
	if len(exts) == 0 {
		return nil
	}
	ext, _ := exts[ExtensionKey].(map[string]any)
	return ext
}

func stringExt(ext map[string]any, key string) string {
	s, _ := ext[key].(string)
	return strings.TrimSpace(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Humanize turns identifiers such as "requiredBadge", "shop_item" or
// "create-task" into sentence case labels ("Required badge").
func Humanize(id string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}
	runes := []rune(id)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == '.' || r == ' ' || r == ':' || r == '/':
			flush()
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	if len(words) == 0 {
		return ""
	}
	out := strings.Join(words, " ")
	first := []rune(out)
	first[0] = unicode.ToUpper(first[0])
	return string(first)
}
