package commands

import (
	"context"

	"github.com/spf13/cobra"
)

func newRecomputeGapsCmd() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "recompute-gaps",
		Short: "Derive gap records from self, manager and baseline data",
		RunE: func(cmd *cobra.Command, args []string) error {
			ac := fromContext(cmd.Context())
			defer ac.log.Sync()

			ctx, cancel := context.WithTimeout(cmd.Context(), ac.cfg.BulkRequestTimeout)
			defer cancel()

			a, err := buildApp(ctx, ac.cfg, ac.log)
			if err != nil {
				return err
			}
			defer a.Close(context.Background(), ac.log)

			result, err := a.assessments.RecomputeGaps(ctx, prefix)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "collection namespace (default DEFAULT_NAMESPACE)")
	return cmd
}
