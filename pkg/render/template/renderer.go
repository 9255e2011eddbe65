package template

import (
	"io"
)

// Engine renders named templates or inline template strings with a data
// context. Filters registered through RegisterFilter are available to every
// template the engine renders.
type Engine interface {
	RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error)
	RenderString(content string, data map[string]any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data map[string]any) error
}
