package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/model"
	pkgopenapi "github.com/goliatone/go-formengine/pkg/openapi"
)

const taskAPI = `{
  "openapi": "3.0.3",
  "info": { "title": "Tasks", "version": "1.0.0" },
  "paths": {
    "/tasks": {
      "post": {
        "operationId": "createTask",
        "summary": "Create task",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["title"],
                "properties": {
                  "title": {"type": "string", "minLength": 3},
                  "points": {"type": "number", "minimum": 1},
                  "tags": {"type": "array", "items": {"type": "string"}}
                }
              }
            }
          }
        },
        "responses": { "201": {"description": "created"} }
      }
    }
  }
}`

func TestDefaultsLoadEmbeddedForms(t *testing.T) {
	o := New()
	if err := o.Err(); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	want := []string{"admin", "badge", "login", "shop-item", "task"}
	if diff := cmp.Diff(want, o.Forms().IDs()); diff != "" {
		t.Fatalf("form ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"html", "tui"}, o.Registry().List()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateHTMLWithValidation(t *testing.T) {
	o := New(WithOptionSource(form.StaticOptions{
		"categories": {{Value: "garden", Label: "Garden"}},
		"badges":     {{Value: "helper", Label: "Helper"}},
	}))

	out, err := o.Generate(context.Background(), Request{
		FormID:   "task",
		Validate: true,
		Errors:   map[string]string{"points": "Points rejected by server"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	for _, want := range []string{
		`id="fe-task"`,
		`Title is required`,
		`Points rejected by server`,
		`Garden`,
		`Helper`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestGenerateTextRenderer(t *testing.T) {
	o := New()
	out, err := o.Generate(context.Background(), Request{
		FormID:   "badge",
		Renderer: "tui",
		Values:   model.Values{"name": "Helper"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "Name: Helper\n") {
		t.Fatalf("unexpected text output:\n%s", out)
	}
}

func TestGenerateErrors(t *testing.T) {
	o := New()
	if _, err := o.Generate(context.Background(), Request{}); err == nil {
		t.Fatalf("expected error for missing form id")
	}
	if _, err := o.Generate(context.Background(), Request{FormID: "nope"}); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
	if _, err := o.Generate(context.Background(), Request{FormID: "task", Renderer: "pdf"}); err == nil {
		t.Fatalf("expected error for unknown renderer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := o.Generate(ctx, Request{FormID: "task"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewFormPropagatesOptionSourceError(t *testing.T) {
	failing := form.OptionSourceFunc(func(context.Context, string) ([]model.Option, error) {
		return nil, errors.New("backend down")
	})
	o := New(WithOptionSource(failing))
	if _, err := o.NewForm(context.Background(), "task"); err == nil || !strings.Contains(err.Error(), "backend down") {
		t.Fatalf("expected option source error, got %v", err)
	}
}

func TestImportBuildsAndStoresForms(t *testing.T) {
	o := New()
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("tasks.json"), []byte(taskAPI))

	imported, err := o.Import(context.Background(), ImportRequest{Document: &doc, Store: true})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(imported) != 1 {
		t.Fatalf("expected one form, got %d", len(imported))
	}
	got := imported[0]
	if got.Form.ID != "createTask" || got.Form.Title != "Create task" {
		t.Fatalf("unexpected form header %q/%q", got.Form.ID, got.Form.Title)
	}
	if diff := cmp.Diff([]string{"tags"}, got.Skipped); diff != "" {
		t.Fatalf("skipped mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"title", "points"}, got.Form.FieldNames()); diff != "" {
		t.Fatalf("field names mismatch (-want +got):\n%s", diff)
	}

	if _, ok := o.Forms().Get("createTask"); !ok {
		t.Fatalf("imported form should be stored")
	}
	f, err := o.NewForm(context.Background(), "createTask")
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	f.OnFieldChange("title", "Water plants")
	f.OnFieldChange("points", 0.0)
	if f.Validate() {
		t.Fatalf("zero points should fail the positive check")
	}
	if f.Error("title") != "" {
		t.Fatalf("title should be valid, got %q", f.Error("title"))
	}
}

func TestImportUnknownOperation(t *testing.T) {
	o := New()
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("tasks.json"), []byte(taskAPI))
	if _, err := o.Import(context.Background(), ImportRequest{Document: &doc, OperationID: "deleteTask"}); err == nil {
		t.Fatalf("expected error for unknown operation")
	}
	if _, err := o.Import(context.Background(), ImportRequest{}); err == nil {
		t.Fatalf("expected error without source or document")
	}
}
