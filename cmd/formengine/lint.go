package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formengine/pkg/formconfig"
)

func newLintCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Report authoring mistakes in form configurations",
		Long: `Loads every form under --forms-dir (or the built-in forms) and reports
unknown kinds, checks and fields, bad patterns and disabledWhen expressions
that do not parse. Exits non-zero when any issue is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := formconfig.LoadFS(root.formsFS())
			if err != nil {
				return err
			}
			issues := formconfig.LintStore(store, nil)
			out := cmd.OutOrStdout()
			for _, issue := range issues {
				fmt.Fprintln(out, issue)
			}
			if len(issues) > 0 {
				return fmt.Errorf("%d issue(s) found", len(issues))
			}
			fmt.Fprintf(out, "%d form(s) ok\n", len(store.IDs()))
			return nil
		},
	}
}
