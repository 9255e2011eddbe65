package options

import (
	"strings"

	"github.com/goliatone/go-formengine/pkg/model"
)

// filter keeps options whose label or value contains query, ignoring case.
// Label prefix matches come first; ties keep the source order. The result
// is never nil.
func (c *Component) filter(list []model.Option, query string, limit int) []model.Option {
	out := []model.Option{}
	limit = c.clamp(limit)
	if limit == 0 {
		return out
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		if !c.listAll {
			return out
		}
		return append(out, list[:min(limit, len(list))]...)
	}

	var prefixed, contained []model.Option
	for _, opt := range list {
		label := strings.ToLower(opt.DisplayLabel())
		switch {
		case strings.HasPrefix(label, q):
			prefixed = append(prefixed, opt)
		case strings.Contains(label, q), strings.Contains(strings.ToLower(opt.Value), q):
			contained = append(contained, opt)
		}
	}
	out = append(append(out, prefixed...), contained...)
	return out[:min(limit, len(out))]
}
