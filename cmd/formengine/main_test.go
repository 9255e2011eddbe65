package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const tasksAPI = `{
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

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestLintBuiltinForms(t *testing.T) {
	out, _, err := run(t, "lint")
	if err != nil {
		t.Fatalf("lint: %v\n%s", err, out)
	}
	if !strings.Contains(out, "5 form(s) ok") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLintReportsIssues(t *testing.T) {
	dir := t.TempDir()
	bad := "id: broken\nfields:\n  - name: color\n    kind: select\n  - name: age\n    kind: number\n    disabledWhen: 'color =='\n"
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(bad), 0o600); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "lint", "--forms-dir", dir)
	if err == nil || !strings.Contains(err.Error(), "issue(s) found") {
		t.Fatalf("expected issues error, got %v", err)
	}
	for _, want := range []string{
		"broken.color: select field has no options and no optionsSource",
		"broken.age: disabledWhen:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestRenderHTMLWithValues(t *testing.T) {
	values := filepath.Join(t.TempDir(), "values.json")
	if err := os.WriteFile(values, []byte(`{"title":"Go","frequency":"daily"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "render", "task", "--values", values, "--validate", "--action", "/tasks")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`action="/tasks"`,
		`value="Go"`,
		`Title must be at least 3 characters`,
		`<option value="cat-garden">Garden</option>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderTextAndUnknownForm(t *testing.T) {
	out, _, err := run(t, "render", "badge", "--renderer", "tui")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Badge\n") || !strings.Contains(out, "Icon URL: ") {
		t.Fatalf("unexpected text output\n%s", out)
	}

	if _, _, err := run(t, "render", "nope"); err == nil || !strings.Contains(err.Error(), "form not found") {
		t.Fatalf("expected form not found, got %v", err)
	}
}

func TestImportWritesForms(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "tasks.json")
	if err := os.WriteFile(doc, []byte(tasksAPI), 0o600); err != nil {
		t.Fatal(err)
	}

	out, stderr, err := run(t, "import", doc)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	for _, want := range []string{"id: createTask", "title: Create task", "name: title", "minLength: 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml missing %q\n%s", want, out)
		}
	}
	if !strings.Contains(stderr, "createTask: skipped tags") {
		t.Errorf("expected skipped note, got %q", stderr)
	}

	outDir := t.TempDir()
	if _, _, err := run(t, "import", doc, "--operation", "createTask", "--out", outDir); err != nil {
		t.Fatalf("import to dir: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "createTask.yaml"))
	if err != nil {
		t.Fatalf("read imported form: %v", err)
	}

	// The written file must load back as a lint-clean form.
	out, _, err = run(t, "lint", "--forms-dir", outDir)
	if err != nil {
		t.Fatalf("lint imported form: %v\n%s\n%s", err, out, data)
	}
}

func TestImportFetchesRemoteDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tasksAPI))
	}))
	defer server.Close()

	out, _, err := run(t, "import", server.URL+"/openapi.json", "--timeout", "5s")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "id: createTask") {
		t.Fatalf("unexpected output\n%s", out)
	}

	if _, _, err := run(t, "import", "ftp://example.com/api.json"); err == nil {
		t.Fatalf("expected an error for an ftp url")
	}
}
