package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"plexrr/internal/media"
	"plexrr/internal/plan"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var qualityProfile int
	var rootFolder string
	var execute bool
	var shows bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Add library titles missing from the acquisition manager",
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaType := media.TypeMovie
			if shows {
				mediaType = media.TypeShow
			}

			p, err := ctx.newPipeline(shows)
			if err != nil {
				return err
			}
			result, err := p.Run(cmd.Context(), mediaType)
			if err != nil {
				return err
			}

			syncPlan := plan.Sync(result.Entities, plan.SyncPolicy{
				QualityProfileID: qualityProfile,
				RootFolder:       rootFolder,
			})

			out := cmd.OutOrStdout()
			printPlan(out, syncPlan, execute)
			printRunSummary(out, result, syncPlan.Skipped)
			if !execute || syncPlan.Empty() {
				return nil
			}

			if qualityProfile == 0 {
				return fmt.Errorf("--quality-profile is required to execute a sync (see 'plexrr profiles')")
			}
			printExecuteResult(out, p.Execute(cmd.Context(), syncPlan))
			return nil
		},
	}

	cmd.Flags().IntVar(&qualityProfile, "quality-profile", 0, "Quality profile ID for added records")
	cmd.Flags().StringVar(&rootFolder, "root-folder", "", "Root folder for added records (defaults to the manager's first)")
	cmd.Flags().BoolVar(&execute, "execute", false, "Apply the planned additions")
	cmd.Flags().BoolVar(&shows, "shows", false, "Sync shows to Sonarr instead of movies to Radarr")
	return cmd
}
