package main

import (
	"github.com/spf13/cobra"

	"plexrr/internal/filter"
	"plexrr/internal/media"
	"plexrr/internal/plan"
)

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	var flags filterFlags
	var execute bool
	var deleteFiles bool
	var shows bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete entities matching the filters from every source that holds them",
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaType := media.TypeMovie
			if shows {
				mediaType = media.TypeShow
			}
			spec, err := flags.spec(mediaType)
			if err != nil {
				return err
			}

			p, err := ctx.newPipeline(shows)
			if err != nil {
				return err
			}
			result, err := p.Run(cmd.Context(), mediaType)
			if err != nil {
				return err
			}

			entities := filter.Apply(result.Entities, spec)
			deletePlan := plan.Delete(entities, deleteFiles)

			out := cmd.OutOrStdout()
			printPlan(out, deletePlan, execute)
			printRunSummary(out, result, deletePlan.Skipped)
			if !execute || deletePlan.Empty() {
				return nil
			}

			printExecuteResult(out, p.Execute(cmd.Context(), deletePlan))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&execute, "execute", false, "Apply the planned deletions")
	cmd.Flags().BoolVar(&deleteFiles, "delete-files", false, "Also delete the files held by the manager record")
	cmd.Flags().BoolVar(&shows, "shows", false, "Delete shows instead of movies")
	return cmd
}
