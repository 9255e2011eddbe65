package openapi

import "errors"

// SourceKind tells a Loader how to read a Source.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Source names where a document lives.
type Source interface {
	Kind() SourceKind
	Location() string
}

// Document is a raw OpenAPI payload (JSON or YAML) and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument copies raw, which must not be empty.
func NewDocument(src Source, raw []byte) (Document, error) {
	switch {
	case src == nil:
		return Document{}, errors.New("openapi: document source is required")
	case len(raw) == 0:
		return Document{}, errors.New("openapi: document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// MustNewDocument is NewDocument for fixtures.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

func (d Document) Source() Source { return d.source }

// Raw returns a copy of the payload.
func (d Document) Raw() []byte { return append([]byte(nil), d.raw...) }

func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}
