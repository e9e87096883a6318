package main

import (
	"github.com/spf13/cobra"

	"plexrr/internal/plan"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var execute bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete duplicate movie file versions, keeping the best one",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			p, err := ctx.newPipeline(false)
			if err != nil {
				return err
			}

			groups, err := p.DuplicateGroups(cmd.Context())
			if err != nil {
				return err
			}

			ranking := plan.NewQualityRanking(cfg.Clean.QualityOrder)
			cleanPlan := plan.Clean(groups, ranking)

			out := cmd.OutOrStdout()
			printPlan(out, cleanPlan, execute)
			printSkipped(out, cleanPlan.Skipped)
			if !execute || cleanPlan.Empty() {
				return nil
			}

			printExecuteResult(out, p.Execute(cmd.Context(), cleanPlan))
			return nil
		},
	}

	cmd.Flags().BoolVar(&execute, "execute", false, "Apply the planned deletions")
	return cmd
}
