package formconfig_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/formconfig"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/validation"
)

func TestDefaultsLoadEveryDashboardForm(t *testing.T) {
	store, err := formconfig.Defaults()
	if err != nil {
		t.Fatalf("Defaults returned error: %v", err)
	}

	want := []string{"admin", "badge", "login", "shop-item", "task"}
	if diff := cmp.Diff(want, store.IDs()); diff != "" {
		t.Fatalf("form ids mismatch (-want +got):\n%s", diff)
	}
	if issues := formconfig.LintStore(store, nil); len(issues) != 0 {
		t.Fatalf("embedded forms should lint clean, got %v", issues)
	}
}

func TestDefaultTaskFormBehaviour(t *testing.T) {
	store, err := formconfig.Defaults()
	if err != nil {
		t.Fatalf("Defaults returned error: %v", err)
	}
	f := form.New(store.MustGet("task"))

	if f.Disabled("deadline") {
		t.Fatalf("deadline should be enabled for the default frequency")
	}
	if err := f.OnFieldChange("frequency", "daily"); err != nil {
		t.Fatalf("OnFieldChange: %v", err)
	}
	if !f.Disabled("deadline") {
		t.Fatalf("deadline should be disabled for daily tasks")
	}

	var groups []string
	for _, row := range f.Rows() {
		if row.Grouped() {
			groups = append(groups, row.Group)
		}
	}
	if diff := cmp.Diff([]string{"reward"}, groups); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultAdminFormResolvesChecks(t *testing.T) {
	store, err := formconfig.Defaults()
	if err != nil {
		t.Fatalf("Defaults returned error: %v", err)
	}
	cfg := store.MustGet("admin")

	values := model.Values{
		"name":            "Ada",
		"email":           "ada@example.com",
		"role":            "admin",
		"password":        "Sup3r$ecret",
		"confirmPassword": "Sup3r$ecreT",
	}
	got := validation.ValidateAll(cfg.Fields, values)
	want := map[string]string{"confirmPassword": "Confirm password must match password"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultAdminFormEnforcesPasswordLength(t *testing.T) {
	store, err := formconfig.Defaults()
	if err != nil {
		t.Fatalf("Defaults returned error: %v", err)
	}
	cfg := store.MustGet("admin")

	values := model.Values{
		"name":            "Ada",
		"email":           "ada@example.com",
		"role":            "admin",
		"password":        "Aa1!",
		"confirmPassword": "Aa1!",
	}
	got := validation.ValidateAll(cfg.Fields, values)
	want := map[string]string{"password": "Password must be at least 8 characters"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	summary := validation.Summarize(cfg.Fields, values)
	if rows := summary.ForField("password"); rows.AllSatisfied() {
		t.Fatalf("summary reports a short password as valid: %+v", rows)
	}
}

func TestLoadFSParsesJSONAndYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"a/login.json": {Data: []byte(`{"title":"Login","fields":[{"name":"email","kind":"email","required":true}]}`)},
		"b/promo.yml": {Data: []byte(`
id: promo
title: Promo
fields:
  - name: code
    kind: text
    validation:
      minLength: 4
      checks:
        - name: uppercase
          message: Codes are upper case
`)},
		"README.md": {Data: []byte("ignored")},
	}

	store, err := formconfig.Load(fsys, nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"login", "promo"}, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	promo := store.MustGet("promo")
	check := promo.Fields[0].Validation.Checks[0]
	if check.Test == nil {
		t.Fatalf("check should be bound after Load")
	}
	if check.Message != "Codes are upper case" {
		t.Fatalf("config message should override the default, got %q", check.Message)
	}
	if got := validation.Validate(promo.Fields[0], "abcd", nil); got != "Codes are upper case" {
		t.Fatalf("unexpected validation message %q", got)
	}
}

func TestLoadFSErrors(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
		want string
	}{
		{
			name: "empty file",
			fsys: fstest.MapFS{"x.yaml": {Data: []byte("  \n")}},
			want: "is empty",
		},
		{
			name: "invalid document",
			fsys: fstest.MapFS{"x.yaml": {Data: []byte("fields: [")}},
			want: "invalid JSON or YAML",
		},
		{
			name: "duplicate id",
			fsys: fstest.MapFS{
				"one.yaml": {Data: []byte("id: task\nfields: []\n")},
				"two.yaml": {Data: []byte("id: task\nfields: []\n")},
			},
			want: `duplicate form "task"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := formconfig.LoadFS(tt.fsys)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadRejectsUnknownCheck(t *testing.T) {
	fsys := fstest.MapFS{"x.yaml": {Data: []byte("id: x\nfields:\n  - name: a\n    kind: text\n    validation:\n      checks:\n        - name: shouty\n")}}
	_, err := formconfig.Load(fsys, nil)
	if !errors.Is(err, validation.ErrUnknownCheck) {
		t.Fatalf("expected ErrUnknownCheck, got %v", err)
	}
}

func TestStoreGetReturnsCopies(t *testing.T) {
	store := formconfig.NewStore()
	store.Put(model.FormConfig{ID: "x", Fields: []model.FieldDescriptor{{Name: "a", Kind: model.FieldKindText}}})

	cfg, _ := store.Get("x")
	cfg.Fields[0].Name = "mutated"

	again, _ := store.Get("x")
	if again.Fields[0].Name != "a" {
		t.Fatalf("store must not share field slices with callers")
	}
	if _, ok := store.Get("missing"); ok {
		t.Fatalf("missing form should not be found")
	}
}
