package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/validation"
)

// FormParam is the route parameter naming a form configuration.
const FormParam = "form"

// validateResponse is the body of POST /api/forms/{form}/validate.
type validateResponse struct {
	Valid    bool               `json:"valid"`
	Errors   map[string]string  `json:"errors"`
	Summary  validation.Summary `json:"summary"`
	Disabled map[string]bool    `json:"disabled"`
	Values   model.Values       `json:"values"`
}

// liveChange is one field edit sent by the browser.
type liveChange struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// liveSnapshot is sent after every change. Errors only cover touched fields.
type liveSnapshot struct {
	render.View
	Values   model.Values    `json:"values"`
	Disabled map[string]bool `json:"disabled"`
}

type liveError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ValidateForm validates a JSON value map against a form without submitting
// anything.
func (h *Handler) ValidateForm(w http.ResponseWriter, r *http.Request) {
	var values model.Values
	if err := decodeJSON(r, &values); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	f, err := h.forms.NewForm(r.Context(), chi.URLParam(r, FormParam), form.WithInitialValues(values))
	if err != nil {
		h.providerError(w, r, err)
		return
	}
	valid := f.Validate()
	writeJSON(w, http.StatusOK, validateResponse{
		Valid:    valid,
		Errors:   f.Errors(),
		Summary:  f.Summary(),
		Disabled: f.DisabledMap(),
		Values:   f.Values(),
	})
}

// LiveForm upgrades to a websocket and mirrors field changes. Each change
// goes through the form's change listener, which answers with a snapshot.
func (h *Handler) LiveForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, FormParam)
	if _, ok := h.forms.Forms().Get(id); !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "form not found: "+id)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.Warn("live form: websocket accept", zap.String("form", id), zap.Error(err))
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	touched := make(map[string]bool)
	var (
		f       *form.Form
		sendErr error
	)
	f, err = h.forms.NewForm(ctx, id, form.WithChangeListener(func(model.Values) {
		sendErr = wsjson.Write(ctx, conn, snapshotOf(f, touched))
	}))
	if err != nil {
		h.log.Error("live form: build", zap.String("form", id), zap.Error(err))
		conn.Close(websocket.StatusInternalError, "form unavailable")
		return
	}
	if err := wsjson.Write(ctx, conn, snapshotOf(f, touched)); err != nil {
		return
	}

	for {
		var msg liveChange
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if status := websocket.CloseStatus(err); status == -1 && !errors.Is(err, context.Canceled) {
				h.log.Debug("live form: read", zap.String("form", id), zap.Error(err))
			}
			return
		}
		if _, ok := f.Config().Field(msg.Name); ok {
			touched[msg.Name] = true
		}
		if err := f.OnFieldChange(msg.Name, msg.Value); err != nil {
			if werr := wsjson.Write(ctx, conn, liveError{Error: err.Error(), Code: "UNKNOWN_FIELD"}); werr != nil {
				return
			}
			continue
		}
		if sendErr != nil {
			return
		}
	}
}

func snapshotOf(f *form.Form, touched map[string]bool) liveSnapshot {
	view := render.Snapshot(f)
	view.Errors = make(map[string]string)
	for name := range touched {
		if msg := f.ValidateField(name); msg != "" {
			view.Errors[name] = msg
		}
	}
	values := f.Values()
	for _, field := range f.Config().Fields {
		if field.Kind == model.FieldKindPassword && form.FormatValue(values[field.Name]) != "" {
			values[field.Name] = "********"
		}
	}
	return liveSnapshot{
		View:     view,
		Values:   values,
		Disabled: f.DisabledMap(),
	}
}
