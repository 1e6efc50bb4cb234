// Package commands is the cobra entrypoint: the HTTP server and the
// operator tasks that share its wiring.
package commands

import (
	"context"
	"fmt"
	"os"

	"skillsmatrix/config"
	"skillsmatrix/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type appContextKey struct{}

// appContext is built once in PersistentPreRunE and shared by subcommands.
type appContext struct {
	cfg config.Config
	log *zap.Logger
}

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "skillsmatrix",
		Short:         "Skills matrix assessment aggregation service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config initialization failed: %w", err)
			}
			log, err := logger.New(cfg.Log)
			if err != nil {
				return fmt.Errorf("logger initialization failed: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appContextKey{}, &appContext{cfg: cfg, log: log}))
			return nil
		},
	}

	cmd.AddCommand(
		newServeCmd(),
		newImportCmd(),
		newRecomputeGapsCmd(),
	)
	return cmd
}

func fromContext(ctx context.Context) *appContext {
	app, _ := ctx.Value(appContextKey{}).(*appContext)
	return app
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
