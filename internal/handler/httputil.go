package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/orchestrator"
	"github.com/goliatone/go-formengine/pkg/provider"
	"github.com/goliatone/go-formengine/pkg/provider/rest"
	"github.com/goliatone/go-formengine/pkg/render"
)

const maxBodyBytes = 1 << 20

// apiError is the JSON error body. Fields is set for validation failures.
type apiError struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
	Form   []string          `json:"form,omitempty"`
}

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := sonic.ConfigStd.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"encode failed","code":"INTERNAL_ERROR"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: message, Code: code})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return errors.New("request body too large")
	}
	if len(body) == 0 {
		return errors.New("request body is empty")
	}
	return sonic.ConfigStd.Unmarshal(body, v)
}

// statusFor maps provider and orchestrator errors to a status and code.
func statusFor(err error) (int, string) {
	var validation *provider.ValidationError
	var upstream *rest.StatusError
	switch {
	case errors.Is(err, provider.ErrNotFound), errors.Is(err, orchestrator.ErrFormNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, provider.ErrConflict):
		return http.StatusConflict, "CONFLICT"
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT"
	case errors.As(err, &upstream):
		return http.StatusBadGateway, "UPSTREAM_ERROR"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// providerError writes err as JSON. Internal errors are logged and hidden.
func (h *Handler) providerError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeError(w, status, code, msg)
}

// writeValidation reports the form's field errors, plus any backend messages
// mapped onto its fields, with status 422.
func writeValidation(w http.ResponseWriter, f *form.Form, backend map[string][]string) {
	body := apiError{
		Error:  "validation failed",
		Code:   "VALIDATION_ERROR",
		Fields: f.Errors(),
	}
	if backend != nil {
		mapping := render.MapErrorPayload(f.Config(), backend)
		for name, msg := range mapping.Fields {
			body.Fields[name] = msg
		}
		body.Form = mapping.Form
	}
	if len(body.Fields) == 0 {
		body.Fields = nil
	}
	writeJSON(w, http.StatusUnprocessableEntity, body)
}
