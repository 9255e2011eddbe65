// Command formengine serves the dashboard and works with form configurations
// from the terminal.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formengine/internal/config"
	"github.com/goliatone/go-formengine/pkg/formconfig"
	"github.com/goliatone/go-formengine/pkg/orchestrator"
)

type rootOptions struct {
	configPath string
	formsDir   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "formengine",
		Short:         "Schema-driven forms and the admin dashboard built on them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&opts.formsDir, "forms-dir", "", "directory of form configurations (defaults to the built-in forms)")

	root.AddCommand(
		newServeCmd(opts),
		newRenderCmd(opts),
		newFillCmd(opts),
		newLintCmd(opts),
		newImportCmd(opts),
	)
	return root
}

// loadConfig reads the configuration and applies the --forms-dir override.
func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.formsDir != "" {
		cfg.Forms.Dir = o.formsDir
	}
	return cfg, nil
}

func (o *rootOptions) formsFS() fs.FS {
	if o.formsDir == "" {
		return formconfig.EmbeddedFS()
	}
	return os.DirFS(o.formsDir)
}

func (o *rootOptions) orchestrator(extra ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	opts := append([]orchestrator.Option{orchestrator.WithFormsFS(o.formsFS())}, extra...)
	forms := orchestrator.New(opts...)
	if err := forms.Err(); err != nil {
		return nil, err
	}
	return forms, nil
}
