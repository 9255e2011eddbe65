// Package loader reads OpenAPI documents from disk, an fs.FS or HTTP.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	pkgopenapi "github.com/goliatone/go-formengine/pkg/openapi"
)

// ErrRemoteDisabled is returned for URL sources when no client is configured.
var ErrRemoteDisabled = errors.New("openapi loader: remote documents are disabled")

// Loader implements pkgopenapi.Loader.
type Loader struct {
	files  fs.FS
	client *http.Client
}

var _ pkgopenapi.Loader = (*Loader)(nil)

// New builds a Loader. An injected client without a timeout inherits
// options.Timeout.
func New(options pkgopenapi.LoaderOptions) *Loader {
	l := &Loader{files: options.FileSystem}
	switch {
	case options.HTTPClient != nil:
		client := *options.HTTPClient
		if client.Timeout == 0 {
			client.Timeout = options.Timeout
		}
		l.client = &client
	case options.Remote:
		l.client = &http.Client{Timeout: options.Timeout}
	}
	return l
}

// Load reads src and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, errors.New("openapi loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Document{}, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case pkgopenapi.SourceKindFile:
		data, err = l.readFile(src.Location())
	case pkgopenapi.SourceKindFS:
		data, err = l.readFS(src.Location())
	case pkgopenapi.SourceKindURL:
		data, err = l.fetch(ctx, src.Location())
	default:
		err = fmt.Errorf("openapi loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return pkgopenapi.Document{}, err
	}
	if len(data) > pkgopenapi.MaxDocumentSize {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: %s exceeds %d bytes", src.Location(), pkgopenapi.MaxDocumentSize)
	}
	return pkgopenapi.NewDocument(src, data)
}

func (l *Loader) readFile(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("openapi loader: file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: %w", err)
	}
	return data, nil
}

func (l *Loader) readFS(name string) ([]byte, error) {
	if l.files == nil {
		return nil, errors.New("openapi loader: no filesystem configured")
	}
	data, err := fs.ReadFile(l.files, name)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: %w", err)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if l.client == nil {
		return nil, ErrRemoteDisabled
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openapi loader: fetch %s: unexpected status %s", url, resp.Status)
	}
	// One byte over the cap is enough to report the document as too large.
	return io.ReadAll(io.LimitReader(resp.Body, pkgopenapi.MaxDocumentSize+1))
}
