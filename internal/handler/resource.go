package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/orchestrator"
	"github.com/goliatone/go-formengine/pkg/provider"
)

// NavLink is one entry of the dashboard navigation.
type NavLink struct {
	Title  string
	Href   string
	Active bool
}

// Mountable is a resource the Handler can route.
type Mountable interface {
	Link() NavLink
	MountPages(h *Handler, r chi.Router)
	MountAPI(h *Handler, r chi.Router)
}

// Column is one list table column.
type Column[T any] struct {
	Label string
	Value func(T) string
}

// Resource exposes CRUD pages and a JSON API for one entity type backed by a
// provider. Submissions go through the form named FormID.
type Resource[T provider.Labeled[T]] struct {
	Name     string
	Title    string
	Singular string
	FormID   string
	Provider provider.Provider[T]
	Columns  []Column[T]

	// EditForm adjusts the form config when an existing record is edited.
	EditForm func(cfg model.FormConfig) model.FormConfig
	// Prepare runs on the validated payload before it is decoded into T.
	// existing is nil on create.
	Prepare func(ctx context.Context, values model.Values, existing *T) error
	// Present shapes a record for edit forms and API responses.
	Present func(item T) T
}

func (res *Resource[T]) base() string {
	return "/" + res.Name
}

func (res *Resource[T]) itemURL(id string, suffix string) string {
	return res.base() + "/" + url.PathEscape(id) + suffix
}

// Link implements Mountable.
func (res *Resource[T]) Link() NavLink {
	return NavLink{Title: res.Title, Href: res.base()}
}

// MountPages implements Mountable.
func (res *Resource[T]) MountPages(h *Handler, r chi.Router) {
	r.Get(res.base(), func(w http.ResponseWriter, r *http.Request) { res.listPage(h, w, r) })
	r.Get(res.base()+"/new", func(w http.ResponseWriter, r *http.Request) { res.newPage(h, w, r) })
	r.Post(res.base(), func(w http.ResponseWriter, r *http.Request) { res.submitPage(h, w, r, nil) })
	r.Get(res.base()+"/{id}/edit", func(w http.ResponseWriter, r *http.Request) { res.editPage(h, w, r) })
	r.Post(res.base()+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		existing, err := res.load(r)
		if err != nil {
			h.failPage(w, r, err)
			return
		}
		res.submitPage(h, w, r, &existing)
	})
	r.Get(res.base()+"/{id}/delete", func(w http.ResponseWriter, r *http.Request) { res.confirmPage(h, w, r) })
	r.Post(res.base()+"/{id}/delete", func(w http.ResponseWriter, r *http.Request) { res.deletePage(h, w, r) })
}

// MountAPI implements Mountable.
func (res *Resource[T]) MountAPI(h *Handler, r chi.Router) {
	base := "/api" + res.base()
	r.Get(base, func(w http.ResponseWriter, r *http.Request) { res.apiList(h, w, r) })
	r.Post(base, func(w http.ResponseWriter, r *http.Request) { res.apiCreate(h, w, r) })
	r.Get(base+"/{id}", func(w http.ResponseWriter, r *http.Request) { res.apiGet(h, w, r) })
	r.Patch(base+"/{id}", func(w http.ResponseWriter, r *http.Request) { res.apiPatch(h, w, r) })
	r.Delete(base+"/{id}", func(w http.ResponseWriter, r *http.Request) { res.apiDelete(h, w, r) })
}

func (res *Resource[T]) present(item T) T {
	if res.Present == nil {
		return item
	}
	return res.Present(item)
}

func (res *Resource[T]) load(r *http.Request) (T, error) {
	return res.Provider.Get(r.Context(), chi.URLParam(r, "id"))
}

func (res *Resource[T]) config(h *Handler, editing bool) (model.FormConfig, error) {
	cfg, ok := h.forms.Forms().Get(res.FormID)
	if !ok {
		return model.FormConfig{}, fmt.Errorf("%w: %q", orchestrator.ErrFormNotFound, res.FormID)
	}
	if editing && res.EditForm != nil {
		cfg = res.EditForm(cfg.Clone())
	}
	return cfg, nil
}

// save validates values against the resource form and stores the record.
// The returned form carries validation errors when submitted is false.
func (res *Resource[T]) save(ctx context.Context, h *Handler, cfg model.FormConfig, values model.Values, existing *T) (f *form.Form, saved T, submitted bool, err error) {
	f, err = h.forms.Build(ctx, cfg,
		form.WithInitialValues(values),
		form.WithSubmit(func(ctx context.Context, payload model.Values) error {
			if res.Prepare != nil {
				if err := res.Prepare(ctx, payload, existing); err != nil {
					return err
				}
			}
			item, err := decodeEntity[T](cfg, payload)
			if err != nil {
				return err
			}
			if existing == nil {
				saved, err = res.Provider.Create(ctx, item)
				return err
			}
			id := (*existing).EntityID()
			saved, err = res.Provider.Update(ctx, id, item.WithID(id))
			return err
		}),
	)
	if err != nil {
		return nil, saved, false, err
	}
	submitted, err = f.Submit(ctx)
	return f, saved, submitted, err
}

func (res *Resource[T]) listPage(h *Handler, w http.ResponseWriter, r *http.Request) {
	items, err := res.Provider.List(r.Context())
	if err != nil {
		h.failPage(w, r, err)
		return
	}

	columns := make([]string, 0, len(res.Columns))
	for _, col := range res.Columns {
		columns = append(columns, col.Label)
	}
	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		cells := make([]string, 0, len(res.Columns))
		for _, col := range res.Columns {
			cells = append(cells, col.Value(item))
		}
		id := item.EntityID()
		rows = append(rows, map[string]any{
			"cells":      cells,
			"edit_url":   res.itemURL(id, "/edit"),
			"delete_url": res.itemURL(id, "/delete"),
		})
	}

	data := h.page(r, res.Title)
	data["singular"] = res.Singular
	data["new_url"] = res.base() + "/new"
	data["columns"] = columns
	data["rows"] = rows
	h.render(w, r, http.StatusOK, "list", data)
}

func (res *Resource[T]) newPage(h *Handler, w http.ResponseWriter, r *http.Request) {
	f, err := h.forms.NewForm(r.Context(), res.FormID)
	if err != nil {
		h.failPage(w, r, err)
		return
	}
	h.renderForm(w, r, formPage{
		Title:     "New " + res.Singular,
		Form:      f,
		Action:    res.base(),
		CancelURL: res.base(),
		Live:      true,
	})
}

func (res *Resource[T]) editPage(h *Handler, w http.ResponseWriter, r *http.Request) {
	item, err := res.load(r)
	if err != nil {
		h.failPage(w, r, err)
		return
	}
	cfg, err := res.config(h, true)
	if err != nil {
		h.failPage(w, r, err)
		return
	}
	values, err := entityValues(res.present(item))
	if err != nil {
		h.failPage(w, r, err)
		return
	}
	f, err := h.forms.Build(r.Context(), cfg, form.WithInitialValues(values))
	if err != nil {
		h.failPage(w, r, err)
		return
	}
	h.renderForm(w, r, formPage{
		Title:     "Edit " + res.Singular,
		Form:      f,
		Action:    res.itemURL(item.EntityID(), ""),
		CancelURL: res.base(),
		Live:      true,
	})
}

func (res *Resource[T]) submitPage(h *Handler, w http.ResponseWriter, r *http.Request, existing *T) {
	cfg, err := res.config(h, existing != nil)
	if err != nil {
		h.failPage(w, r, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		h.errorPage(w, r, http.StatusBadRequest, "Bad request", "The submitted form could not be read.")
		return
	}

	values := form.DecodeValues(cfg, r.PostForm)
	f, _, submitted, err := res.save(r.Context(), h, cfg, values, existing)
	if f == nil {
		h.failPage(w, r, err)
		return
	}

	page := formPage{
		Title:     "New " + res.Singular,
		Status:    http.StatusUnprocessableEntity,
		Form:      f,
		Action:    res.base(),
		CancelURL: res.base(),
		Live:      true,
	}
	if existing != nil {
		page.Title = "Edit " + res.Singular
		page.Action = res.itemURL((*existing).EntityID(), "")
	}
	switch {
	case err != nil:
		page.Status, page.FormErrors = h.applyBackendErrors(r, f, err)
	case submitted:
		notice := "created"
		if existing != nil {
			notice = "updated"
		}
		http.Redirect(w, r, res.base()+"?notice="+notice, http.StatusSeeOther)
		return
	}
	h.renderForm(w, r, page)
}

func (res *Resource[T]) confirmPage(h *Handler, w http.ResponseWriter, r *http.Request) {
	item, err := res.load(r)
	if err != nil {
		h.failPage(w, r, err)
		return
	}
	data := h.page(r, "Delete "+res.Singular)
	data["singular"] = res.Singular
	data["name"] = item.DisplayName()
	data["action"] = res.itemURL(item.EntityID(), "/delete")
	data["cancel_url"] = res.base()
	h.render(w, r, http.StatusOK, "confirm", data)
}

func (res *Resource[T]) deletePage(h *Handler, w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := res.Provider.Delete(r.Context(), id); err != nil {
		h.failPage(w, r, err)
		return
	}
	http.Redirect(w, r, res.base()+"?notice=deleted", http.StatusSeeOther)
}

func (res *Resource[T]) apiList(h *Handler, w http.ResponseWriter, r *http.Request) {
	items, err := res.Provider.List(r.Context())
	if err != nil {
		h.providerError(w, r, err)
		return
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, res.present(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (res *Resource[T]) apiGet(h *Handler, w http.ResponseWriter, r *http.Request) {
	item, err := res.load(r)
	if err != nil {
		h.providerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.present(item))
}

func (res *Resource[T]) apiCreate(h *Handler, w http.ResponseWriter, r *http.Request) {
	var values model.Values
	if err := decodeJSON(r, &values); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	res.apiSave(h, w, r, values, nil, http.StatusCreated)
}

// apiPatch applies an RFC 7396 merge patch to the presented record and saves
// the result through the edit form.
func (res *Resource[T]) apiPatch(h *Handler, w http.ResponseWriter, r *http.Request) {
	existing, err := res.load(r)
	if err != nil {
		h.providerError(w, r, err)
		return
	}
	defer r.Body.Close()
	patch, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || len(patch) == 0 {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "request body is required")
		return
	}
	original, err := sonic.ConfigStd.Marshal(res.present(existing))
	if err != nil {
		h.providerError(w, r, err)
		return
	}
	merged, err := jsonpatch.MergePatch(original, patch)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_PATCH", err.Error())
		return
	}
	var values model.Values
	if err := sonic.ConfigStd.Unmarshal(merged, &values); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_PATCH", err.Error())
		return
	}
	res.apiSave(h, w, r, values, &existing, http.StatusOK)
}

func (res *Resource[T]) apiSave(h *Handler, w http.ResponseWriter, r *http.Request, values model.Values, existing *T, status int) {
	cfg, err := res.config(h, existing != nil)
	if err != nil {
		h.providerError(w, r, err)
		return
	}
	f, saved, submitted, err := res.save(r.Context(), h, cfg, values, existing)
	switch {
	case f == nil:
		h.providerError(w, r, err)
	case err != nil:
		var verr *provider.ValidationError
		if errors.As(err, &verr) {
			writeValidation(w, f, verr.Payload())
			return
		}
		h.providerError(w, r, err)
	case !submitted:
		writeValidation(w, f, nil)
	default:
		writeJSON(w, status, res.present(saved))
	}
}

func (res *Resource[T]) apiDelete(h *Handler, w http.ResponseWriter, r *http.Request) {
	if err := res.Provider.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.providerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeEntity turns a submitted payload into T. Blank numbers are dropped
// so they decode as zero; non-numeric input is reported against the field.
func decodeEntity[T any](cfg model.FormConfig, values model.Values) (T, error) {
	var item T
	clean := make(model.Values, len(values))
	for name, value := range values {
		clean[name] = value
	}
	for _, field := range cfg.Fields {
		if field.Kind != model.FieldKindNumber {
			continue
		}
		raw, isString := clean[field.Name].(string)
		if !isString {
			continue
		}
		if strings.TrimSpace(raw) == "" {
			delete(clean, field.Name)
			continue
		}
		if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			clean[field.Name] = n
			continue
		}
		return item, provider.NewValidationError(field.Name, field.DisplayLabel()+" must be a number")
	}

	raw, err := sonic.ConfigStd.Marshal(clean)
	if err != nil {
		return item, fmt.Errorf("handler: encode payload: %w", err)
	}
	if err := sonic.ConfigStd.Unmarshal(raw, &item); err != nil {
		return item, fmt.Errorf("handler: decode payload: %w", err)
	}
	return item, nil
}

// entityValues turns a record into form values keyed by JSON name.
func entityValues(item any) (model.Values, error) {
	raw, err := sonic.ConfigStd.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("handler: encode record: %w", err)
	}
	var values model.Values
	if err := sonic.ConfigStd.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("handler: decode record: %w", err)
	}
	return values, nil
}
