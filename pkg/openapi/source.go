package openapi

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// source is the Source implementation shared by every kind.
type source struct {
	kind     SourceKind
	location string
}

func (s source) Kind() SourceKind { return s.kind }
func (s source) Location() string { return s.location }

// SourceFromFile names a document on disk.
func SourceFromFile(p string) Source {
	return source{kind: SourceKindFile, location: filepath.Clean(p)}
}

// SourceFromFS names a document inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return source{kind: SourceKindFS, location: path.Clean(name)}
}

// SourceFromURL names a remote document. Only absolute http and https URLs
// are accepted.
func SourceFromURL(raw string) (Source, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("openapi: invalid url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("openapi: url %q must be absolute http or https", raw)
	}
	return source{kind: SourceKindURL, location: u.String()}, nil
}

// ParseSource reads a command line argument: http(s) URLs are remote, anything
// else is a file path.
func ParseSource(raw string) (Source, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return nil, fmt.Errorf("openapi: empty source")
	case strings.HasPrefix(trimmed, "http://"), strings.HasPrefix(trimmed, "https://"):
		return SourceFromURL(trimmed)
	default:
		return SourceFromFile(trimmed), nil
	}
}
