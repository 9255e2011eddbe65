package openapi

import (
	"context"
	"strings"
)

// Parser extracts the operations that carry a request body, keyed by
// operation id. Operations without an id are keyed "<method>:<path>".
type Parser interface {
	Operations(ctx context.Context, doc Document) (map[string]Operation, error)
}

// DefaultMethods are the HTTP methods whose request bodies become forms.
var DefaultMethods = []string{"POST", "PUT", "PATCH"}

// ParserOptions controls document validation and which operations are kept.
type ParserOptions struct {
	// Validate runs kin-openapi validation (examples excluded) before
	// operations are extracted.
	Validate bool
	// ExternalRefs lets $ref point outside the document.
	ExternalRefs bool
	// Methods lists the upper-case methods to extract.
	Methods []string
}

type ParserOption func(*ParserOptions)

// WithoutValidation skips document validation, for drafts that are
// incomplete but still describe usable request bodies.
func WithoutValidation() ParserOption {
	return func(opts *ParserOptions) {
		opts.Validate = false
	}
}

func WithExternalRefs(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ExternalRefs = enabled
	}
}

// WithMethods replaces DefaultMethods.
func WithMethods(methods ...string) ParserOption {
	return func(opts *ParserOptions) {
		opts.Methods = opts.Methods[:0]
		for _, m := range methods {
			if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
				opts.Methods = append(opts.Methods, m)
			}
		}
	}
}

func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		Validate: true,
		Methods:  append([]string(nil), DefaultMethods...),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if len(cfg.Methods) == 0 {
		cfg.Methods = append(cfg.Methods, DefaultMethods...)
	}
	return cfg
}
