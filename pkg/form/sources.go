package form

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formengine/pkg/model"
)

// OptionSource supplies option lists for fields that declare OptionsSource,
// for example the category list of a task form.
type OptionSource interface {
	Options(ctx context.Context, source string) ([]model.Option, error)
}

// OptionSourceFunc adapts a function into an OptionSource.
type OptionSourceFunc func(ctx context.Context, source string) ([]model.Option, error)

// Options delegates to the underlying function.
func (fn OptionSourceFunc) Options(ctx context.Context, source string) ([]model.Option, error) {
	return fn(ctx, source)
}

// StaticOptions serves fixed lists keyed by source name.
type StaticOptions map[string][]model.Option

// Options implements OptionSource. Unknown sources yield an empty list.
func (s StaticOptions) Options(_ context.Context, source string) ([]model.Option, error) {
	return append([]model.Option(nil), s[source]...), nil
}

// LoadOptions fetches every distinct OptionsSource once and replaces the
// option lists on the form's config copy. Static options declared in the
// config are overwritten only when the source returns a list. The first
// failing source aborts the load.
func (f *Form) LoadOptions(ctx context.Context, src OptionSource) error {
	if src == nil {
		return nil
	}
	fetched := make(map[string][]model.Option)
	for i, field := range f.config.Fields {
		if field.OptionsSource == "" {
			continue
		}
		opts, seen := fetched[field.OptionsSource]
		if !seen {
			var err error
			opts, err = src.Options(ctx, field.OptionsSource)
			if err != nil {
				return fmt.Errorf("form: load options %q for field %q: %w", field.OptionsSource, field.Name, err)
			}
			fetched[field.OptionsSource] = opts
		}
		if opts != nil {
			f.config.Fields[i].Options = append([]model.Option(nil), opts...)
		}
	}
	return nil
}
