package openapi

import (
	"context"
	"io/fs"
	"net/http"
	"time"
)

// Loader reads a Document from a Source.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// MaxDocumentSize caps documents read from any source.
const MaxDocumentSize = 10 << 20

// LoaderOptions configures the built-in loader. Remote sources are refused
// unless a client is injected or remote loading is enabled.
type LoaderOptions struct {
	// FileSystem serves SourceFromFS documents.
	FileSystem fs.FS
	// HTTPClient fetches SourceFromURL documents.
	HTTPClient *http.Client
	// Remote enables a default client when HTTPClient is nil.
	Remote bool
	// Timeout bounds remote fetches. Zero means no limit.
	Timeout time.Duration
}

type LoaderOption func(*LoaderOptions)

func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithRemoteDocuments allows URL sources with a default client bounded by
// timeout.
func WithRemoteDocuments(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.Remote = true
		opts.Timeout = timeout
	}
}

func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	var cfg LoaderOptions
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
