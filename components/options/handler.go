package options

import (
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/provider"
)

type listResponse struct {
	Source string         `json:"source"`
	Data   []model.Option `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type denied struct{ code int }

func (d denied) Error() string   { return http.StatusText(d.code) }
func (d denied) StatusCode() int { return d.code }

// Deny is a guard error answered with code.
func Deny(code int) error {
	return denied{code: code}
}

// ServeHTTP answers GET and HEAD with the filtered list as JSON.
func (c *Component) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", http.StatusText(http.StatusMethodNotAllowed))
		return
	}
	if c.guard != nil {
		if err := c.guard(r); err != nil {
			code := http.StatusForbidden
			var status interface{ StatusCode() int }
			if errors.As(err, &status) && status.StatusCode() > 0 {
				code = status.StatusCode()
			}
			writeError(w, code, "forbidden", http.StatusText(code))
			return
		}
	}

	name := sourceName(r)
	if name == "" || c.source == nil {
		writeError(w, http.StatusNotFound, "unknown_source", "no such option source")
		return
	}
	list, err := c.source.Options(r.Context(), name)
	switch {
	case errors.Is(err, provider.ErrUnknownSource):
		writeError(w, http.StatusNotFound, "unknown_source", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, "source_failed", err.Error())
		return
	}

	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	body, err := sonic.ConfigStd.Marshal(listResponse{Source: name, Data: c.filter(list, query.Get("q"), limit)})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(append(body, '\n'))
	}
}

// sourceName prefers the router's path value and falls back to the last
// segment.
func sourceName(r *http.Request) string {
	if name := strings.TrimSpace(r.PathValue(SourceParam)); name != "" {
		return name
	}
	name := path.Base(strings.TrimRight(r.URL.Path, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	body, _ := sonic.ConfigStd.Marshal(errorResponse{Error: msg, Code: code})
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
