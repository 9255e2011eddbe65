package formengine

import (
	internalLoader "github.com/goliatone/go-formengine/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formengine/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-formengine/pkg/openapi"
)

// NewLoader returns the built-in OpenAPI loader. URL sources need
// pkgopenapi.WithRemoteDocuments or an injected client.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	return internalLoader.New(pkgopenapi.NewLoaderOptions(options...))
}

// NewParser returns the kin-openapi backed parser.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	return internalParser.New(pkgopenapi.NewParserOptions(options...))
}
