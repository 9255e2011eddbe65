package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formengine/internal/server"
	"github.com/goliatone/go-formengine/pkg/form"
	"github.com/goliatone/go-formengine/pkg/orchestrator"
	"github.com/goliatone/go-formengine/pkg/renderers/tui"
)

func newFillCmd(root *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "fill <form-id>",
		Short: "Fill a form interactively and print the payload",
		Long: `Prompts for every enabled field, validating each answer, and prints the
submitted payload. Category and badge options come from the configured
provider.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			stores, err := server.OpenStores(cmd.Context(), cfg.Provider, nil)
			if err != nil {
				return err
			}
			defer stores.Close()

			forms, err := root.orchestrator(
				orchestrator.WithOptionSource(stores.Sources()),
				orchestrator.WithDisabledPolicy(form.ParseDisabledPolicy(cfg.Forms.DisabledPolicy)),
			)
			if err != nil {
				return err
			}
			f, err := forms.NewForm(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			r, err := tui.New(
				tui.WithOutput(cmd.ErrOrStderr()),
				tui.WithOutputFormat(tui.OutputFormat(format)),
			)
			if err != nil {
				return err
			}
			payload, err := r.Fill(cmd.Context(), f)
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "aborted")
				return nil
			}
			if err != nil {
				return err
			}
			out, err := r.Serialize(payload)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(tui.OutputFormatJSON), "payload format: json, form or pretty")
	return cmd
}
