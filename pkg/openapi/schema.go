package openapi

import (
	"fmt"
	"slices"
	"strings"
)

// Operation is an operation with a request body, reduced to what a form
// needs. Extensions holds the operation's x- keys.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	RequestBody Schema
	Extensions  map[string]any
}

// Schema is a request body or property schema with references resolved and
// allOf members merged in. PropertyOrder lists property names in document
// order when the parser can recover it.
type Schema struct {
	Ref              string
	Type             string
	Format           string
	Title            string
	Description      string
	Default          any
	Enum             []any
	Required         []string
	Properties       map[string]Schema
	PropertyOrder    []string
	Items            *Schema
	MinLength        *int
	MaxLength        *int
	Pattern          string
	Minimum          *float64
	ExclusiveMinimum bool
	Extensions       map[string]any
}

func (s Schema) IsRequired(name string) bool {
	return slices.Contains(s.Required, name)
}

// String summarises the schema for error messages.
func (s Schema) String() string {
	parts := []string{"type=" + s.Type}
	if s.Ref != "" {
		parts = append(parts, "ref="+s.Ref)
	}
	if len(s.Properties) > 0 {
		parts = append(parts, fmt.Sprintf("properties=%d", len(s.Properties)))
	}
	if len(s.Required) > 0 {
		parts = append(parts, "required="+strings.Join(s.Required, "|"))
	}
	if s.Items != nil {
		parts = append(parts, "items="+s.Items.Type)
	}
	return strings.Join(parts, ",")
}
