package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"plexrr/internal/plan"
)

func newDownloadNextCommand(ctx *commandContext) *cobra.Command {
	var showID string
	var showTitle string
	var count int
	var execute bool

	cmd := &cobra.Command{
		Use:   "download-next",
		Short: "Request the next unwatched episodes of in-progress shows",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showID != "" && showTitle != "" {
				return fmt.Errorf("--show-id and --show-title are mutually exclusive")
			}

			p, err := ctx.newPipeline(true)
			if err != nil {
				return err
			}

			if showTitle != "" {
				showID, err = p.ShowKeyByTitle(cmd.Context(), showTitle)
				if err != nil {
					return err
				}
			}

			episodes, err := p.Episodes(cmd.Context(), showID)
			if err != nil {
				return err
			}

			nextPlan := plan.DownloadNext(episodes, plan.DownloadNextPolicy{
				Count:   count,
				ShowKey: showID,
			})

			out := cmd.OutOrStdout()
			printPlan(out, nextPlan, execute)
			printSkipped(out, nextPlan.Skipped)
			if !execute || nextPlan.Empty() {
				return nil
			}

			printExecuteResult(out, p.Execute(cmd.Context(), nextPlan))
			return nil
		},
	}

	cmd.Flags().StringVar(&showID, "show-id", "", "Restrict to one library show key")
	cmd.Flags().StringVar(&showTitle, "show-title", "", "Restrict to the show with this title")
	cmd.Flags().IntVar(&count, "count", 1, "Episodes to request per show")
	cmd.Flags().BoolVar(&execute, "execute", false, "Send the search requests")
	return cmd
}
