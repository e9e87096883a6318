package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"plexrr/internal/filter"
	"plexrr/internal/media"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var flags filterFlags
	var sortFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List movies reconciled across Plex, Radarr, and the watchlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := flags.spec(media.TypeMovie)
			if err != nil {
				return err
			}
			sortKey, err := parseSortFlag(sortFlag)
			if err != nil {
				return err
			}

			p, err := ctx.newPipeline(false)
			if err != nil {
				return err
			}
			result, err := p.Run(cmd.Context(), media.TypeMovie)
			if err != nil {
				return err
			}

			entities := filter.Apply(result.Entities, spec)
			filter.Sort(entities, sortKey)

			if jsonOutput {
				return writeJSON(cmd, entityViews(entities))
			}

			out := cmd.OutOrStdout()
			now := time.Now()
			rows := make([][]string, 0, len(entities))
			for _, entity := range entities {
				rows = append(rows, []string{
					entity.Title,
					formatYear(entity.Year),
					entity.Availability.Label(entity.Type),
					media.FormatSize(entity.FileSizeBytes),
					entity.WatchStatus.String(),
					entity.FormattedDate(now),
					yesNo(entity.OnWatchlist),
				})
			}
			headers := []string{"Title", "Year", "Available", "Size", "Status", "Last Activity", "Watchlist"}
			aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft}
			fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
			fmt.Fprintf(out, "%d movie(s)\n", len(entities))
			printRunSummary(out, result, nil)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&sortFlag, "sort", "title", "Sort order (title or date)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}
