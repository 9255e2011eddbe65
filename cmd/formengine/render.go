package main

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formengine/internal/config"
	"github.com/goliatone/go-formengine/internal/server"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/orchestrator"
	"github.com/goliatone/go-formengine/pkg/render"
)

type renderOptions struct {
	renderer   string
	valuesPath string
	validate   bool
	action     string
	output     string
	theme      string
	variant    string
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render <form-id>",
		Short: "Render a form configuration",
		Long: `Renders a form with the html renderer (default) or the tui renderer,
which prints a text summary. Values are read from a JSON object file.
Option lists are filled from the built-in fixtures.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fixtures, err := server.OpenStores(cmd.Context(), config.ProviderConfig{Kind: config.ProviderMemory, SeedFixtures: true}, nil)
			if err != nil {
				return err
			}
			defer fixtures.Close()
			forms, err := root.orchestrator(orchestrator.WithOptionSource(fixtures.Sources()))
			if err != nil {
				return err
			}
			values, err := readValues(opts.valuesPath)
			if err != nil {
				return err
			}
			out, err := forms.Generate(cmd.Context(), orchestrator.Request{
				FormID:        args[0],
				Renderer:      opts.renderer,
				Values:        values,
				Validate:      opts.validate,
				ThemeName:     opts.theme,
				ThemeVariant:  opts.variant,
				RenderOptions: render.RenderOptions{Action: opts.action},
			})
			if err != nil {
				return err
			}
			if opts.output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(opts.output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "form written to %s\n", opts.output)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.renderer, "renderer", "r", "html", "renderer name (html or tui)")
	f.StringVar(&opts.valuesPath, "values", "", "JSON file with initial values")
	f.BoolVar(&opts.validate, "validate", false, "validate before rendering so errors are shown")
	f.StringVar(&opts.action, "action", "", "form action URL")
	f.StringVarP(&opts.output, "output", "o", "", "output file (stdout when empty)")
	f.StringVar(&opts.theme, "theme", "", "theme name")
	f.StringVar(&opts.variant, "variant", "", "theme variant")
	return cmd
}

func readValues(path string) (model.Values, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	var values model.Values
	if err := sonic.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}
