package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-formengine/pkg/model"
)

// ErrUnknownSource is returned by Sources for a name with no lister.
var ErrUnknownSource = errors.New("provider: unknown option source")

// Labeled entities expose the text shown in option lists.
type Labeled[T any] interface {
	Entity[T]
	DisplayName() string
}

// Lister fetches one option list.
type Lister func(ctx context.Context) ([]model.Option, error)

// Sources maps OptionsSource names to listers. It implements
// form.OptionSource.
type Sources map[string]Lister

// Options implements form.OptionSource.
func (s Sources) Options(ctx context.Context, source string) ([]model.Option, error) {
	list, ok := s[source]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSource, source)
	}
	return list(ctx)
}

// Names lists the registered sources.
func (s Sources) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListOptions turns every record of p into an option valued by id and
// labeled by DisplayName, sorted by label.
func ListOptions[T Labeled[T]](p Provider[T]) Lister {
	return func(ctx context.Context) ([]model.Option, error) {
		items, err := p.List(ctx)
		if err != nil {
			return nil, err
		}
		opts := make([]model.Option, 0, len(items))
		for _, item := range items {
			opts = append(opts, model.Option{Value: item.EntityID(), Label: item.DisplayName()})
		}
		sort.SliceStable(opts, func(i, j int) bool { return opts[i].Label < opts[j].Label })
		return opts, nil
	}
}
