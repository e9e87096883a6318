package main

import (
	"github.com/spf13/cobra"

	"plexrr/internal/plan"
)

func newDeleteWatchedCommand(ctx *commandContext) *cobra.Command {
	var showID string
	var days int
	var skipPilots bool
	var execute bool

	cmd := &cobra.Command{
		Use:   "delete-watched",
		Short: "Delete watched episodes from the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.newPipeline(false)
			if err != nil {
				return err
			}

			episodes, err := p.Episodes(cmd.Context(), showID)
			if err != nil {
				return err
			}

			watchedPlan := plan.DeleteWatched(episodes, plan.DeleteWatchedPolicy{
				Days:       days,
				SkipPilots: skipPilots,
			})

			out := cmd.OutOrStdout()
			printPlan(out, watchedPlan, execute)
			printSkipped(out, watchedPlan.Skipped)
			if !execute || watchedPlan.Empty() {
				return nil
			}

			printExecuteResult(out, p.Execute(cmd.Context(), watchedPlan))
			return nil
		},
	}

	cmd.Flags().StringVar(&showID, "show-id", "", "Restrict to one library show key")
	cmd.Flags().IntVar(&days, "days", 0, "Only delete episodes watched at least this many days ago")
	cmd.Flags().BoolVar(&skipPilots, "skip-pilots", false, "Never delete the first episode of a show")
	cmd.Flags().BoolVar(&execute, "execute", false, "Apply the planned deletions")
	return cmd
}
