package render

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/goliatone/go-formengine/pkg/model"
)

// ErrorMapping splits a backend error payload into one message per field and
// a list of form-level messages.
type ErrorMapping struct {
	Fields map[string]string
	Form   []string
}

// Empty reports whether the mapping carries no message at all.
func (m ErrorMapping) Empty() bool {
	return len(m.Fields) == 0 && len(m.Form) == 0
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload matches backend error keys to the config's field names.
// Keys may be JSON pointers ("/body/title"), dotted paths ("data.title"),
// bracketed ("items[0].title") or use another casing ("required_badge" for
// "requiredBadge"). Only the first message per field is kept, since a field
// shows one error at a time. Unknown keys become form-level messages.
func MapErrorPayload(cfg model.FormConfig, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string]string)}

	lookup := make(map[string]string, len(cfg.Fields))
	for _, field := range cfg.Fields {
		lookup[fold(field.Name)] = field.Name
	}

	for _, key := range sortedKeys(payload) {
		messages := normalizeMessages(payload[key])
		if len(messages) == 0 {
			continue
		}
		name, ok := matchField(key, lookup)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if _, seen := mapping.Fields[name]; !seen {
			mapping.Fields[name] = messages[0]
		}
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func matchField(key string, lookup map[string]string) (string, bool) {
	if isFormLevelKey(key) {
		return "", false
	}
	segments := pathSegments(key)
	// the deepest segment that names a field wins: "data/title" -> title
	for i := len(segments) - 1; i >= 0; i-- {
		if name, ok := lookup[fold(segments[i])]; ok {
			return name, true
		}
	}
	return "", false
}

func pathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.NewReplacer("[", ".", "]", "", "#", "", "$", "").Replace(clean)
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, err := strconv.Atoi(part); err == nil {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		out = append(out, part)
	}
	return out
}

// fold lowercases and drops separators so camelCase, snake_case and
// kebab-case spellings of a name compare equal.
func fold(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func sortedKeys(payload map[string][]string) []string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "message", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
