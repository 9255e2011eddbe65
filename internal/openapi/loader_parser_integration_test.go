package openapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-formengine"
	"github.com/goliatone/go-formengine/internal/openapi/loader"
	pkgopenapi "github.com/goliatone/go-formengine/pkg/openapi"
)

const badgeAPI = `openapi: 3.0.3
info:
  title: Badges
  version: 1.0.0
paths:
  /badges:
    post:
      operationId: createBadge
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [name, image]
              properties:
                name:
                  type: string
                  minLength: 2
                image:
                  type: string
                  format: image
                points:
                  type: integer
                  minimum: 1
      responses:
        "201":
          description: created
`

func TestLoaderParserIntegration(t *testing.T) {
	ctx := context.Background()
	data := []byte(badgeAPI)

	tmp := t.TempDir()
	filePath := filepath.Join(tmp, "badges.yaml")
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		t.Fatalf("write temp fixture: %v", err)
	}

	parser := formengine.NewParser()
	check := func(name string, doc pkgopenapi.Document) {
		t.Helper()
		operations, err := parser.Operations(ctx, doc)
		if err != nil {
			t.Fatalf("%s: parse document: %v", name, err)
		}
		op, ok := operations["createBadge"]
		if !ok {
			t.Fatalf("%s: createBadge missing from %v", name, operations)
		}
		if !op.RequestBody.IsRequired("image") || op.RequestBody.Properties["points"].Type != "integer" {
			t.Fatalf("%s: unexpected request body %s", name, op.RequestBody)
		}
	}

	docFile, err := formengine.NewLoader().Load(ctx, pkgopenapi.SourceFromFile(filePath))
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	check("file", docFile)

	fsys := fstest.MapFS{"specs/badges.yaml": &fstest.MapFile{Data: data}}
	docFS, err := formengine.NewLoader(pkgopenapi.WithFileSystem(fsys)).Load(ctx, pkgopenapi.SourceFromFS("specs/badges.yaml"))
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	check("fs", docFS)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}))
	defer server.Close()

	remote, err := pkgopenapi.SourceFromURL(server.URL)
	if err != nil {
		t.Fatalf("source from url: %v", err)
	}
	docHTTP, err := formengine.NewLoader(pkgopenapi.WithRemoteDocuments(time.Second)).Load(ctx, remote)
	if err != nil {
		t.Fatalf("load http: %v", err)
	}
	check("http", docHTTP)

	if _, err := formengine.NewLoader().Load(ctx, remote); !errors.Is(err, loader.ErrRemoteDisabled) {
		t.Fatalf("expected remote loading to be disabled by default, got %v", err)
	}
}

func TestLoaderRejectsBadRemoteResponses(t *testing.T) {
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(strings.Repeat("x", pkgopenapi.MaxDocumentSize+1)))
	}))
	defer server.Close()

	l := formengine.NewLoader(pkgopenapi.WithHTTPClient(server.Client()))
	for _, path := range []string{"/missing", "/huge"} {
		src, err := pkgopenapi.SourceFromURL(server.URL + path)
		if err != nil {
			t.Fatalf("source from url: %v", err)
		}
		if _, err := l.Load(ctx, src); err == nil {
			t.Fatalf("%s: expected an error", path)
		}
	}
}

func TestParseSource(t *testing.T) {
	src, err := pkgopenapi.ParseSource(" https://example.com/openapi.yaml ")
	if err != nil || src.Kind() != pkgopenapi.SourceKindURL || src.Location() != "https://example.com/openapi.yaml" {
		t.Fatalf("unexpected url source %v, %v", src, err)
	}
	src, err = pkgopenapi.ParseSource("specs/../api.yaml")
	if err != nil || src.Kind() != pkgopenapi.SourceKindFile || src.Location() != "api.yaml" {
		t.Fatalf("unexpected file source %v, %v", src, err)
	}
	if _, err := pkgopenapi.ParseSource("  "); err == nil {
		t.Fatalf("expected an error for an empty source")
	}
	if _, err := pkgopenapi.SourceFromURL("ftp://example.com/api.yaml"); err == nil {
		t.Fatalf("expected ftp urls to be rejected")
	}
}

func TestImportOpenAPIDerivesForm(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "badges.yaml")
	if err := os.WriteFile(filePath, []byte(badgeAPI), 0o644); err != nil {
		t.Fatalf("write temp fixture: %v", err)
	}

	imported, err := formengine.ImportOpenAPI(context.Background(), pkgopenapi.SourceFromFile(filePath))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(imported) != 1 {
		t.Fatalf("expected one form, got %d", len(imported))
	}
	cfg := imported[0].Form
	image, ok := cfg.Field("image")
	if !ok || image.Kind != "image" || !image.Required {
		t.Fatalf("unexpected image field %+v", image)
	}
	points, _ := cfg.Field("points")
	if points.Validation == nil || len(points.Validation.Checks) != 1 || points.Validation.Checks[0].Name != "positive" {
		t.Fatalf("points should carry the positive check: %+v", points.Validation)
	}
}
