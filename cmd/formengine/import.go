package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formengine"
	pkgopenapi "github.com/goliatone/go-formengine/pkg/openapi"
	"github.com/goliatone/go-formengine/pkg/orchestrator"
)

func newImportCmd(root *rootOptions) *cobra.Command {
	var (
		operation string
		outDir    string
		timeout   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "import <openapi-file-or-url>",
		Short: "Derive form configurations from an OpenAPI document",
		Long: `Builds one form per operation with an object request body, or only the
operation named by --operation. Forms are printed as YAML documents, or
written as <id>.yaml files under --out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := pkgopenapi.ParseSource(args[0])
			if err != nil {
				return err
			}
			forms, err := root.orchestrator(orchestrator.WithLoader(
				formengine.NewLoader(pkgopenapi.WithRemoteDocuments(timeout)),
			))
			if err != nil {
				return err
			}
			imported, err := forms.Import(cmd.Context(), orchestrator.ImportRequest{Source: src, OperationID: operation})
			if err != nil {
				return err
			}
			if len(imported) == 0 {
				return fmt.Errorf("no operation in %s has an object request body", args[0])
			}

			out := cmd.OutOrStdout()
			for i, item := range imported {
				data, err := yaml.Marshal(item.Form)
				if err != nil {
					return fmt.Errorf("encode form %s: %w", item.Form.ID, err)
				}
				for _, name := range item.Skipped {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: skipped %s (nested objects and arrays are not supported)\n", item.Form.ID, name)
				}
				if outDir == "" {
					if i > 0 {
						fmt.Fprintln(out, "---")
					}
					if _, err := out.Write(data); err != nil {
						return err
					}
					continue
				}
				path := filepath.Join(outDir, item.Form.ID+".yaml")
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintf(out, "wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&operation, "operation", "", "operation id to import (all when empty)")
	cmd.Flags().StringVar(&outDir, "out", "", "directory to write <id>.yaml files into")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "timeout for fetching http(s) documents")
	return cmd
}
