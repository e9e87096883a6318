package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"plexrr/internal/services"
	"plexrr/internal/services/radarr"
	"plexrr/internal/services/sonarr"
)

func newFoldersCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "folders [movie|show]",
		Short:     "List the acquisition manager's root folders",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"movie", "show"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			rows := make([][]string, 0)
			if managerArg(args) == "show" {
				if !cfg.Sonarr.Enabled {
					return services.Wrap(services.ErrConfiguration, "sonarr", "setup",
						"show operations need sonarr.enabled in the config", nil)
				}
				client, err := sonarr.New(cfg.Sonarr)
				if err != nil {
					return err
				}
				folders, err := client.RootFolders(cmd.Context())
				if err != nil {
					return err
				}
				for _, folder := range folders {
					rows = append(rows, []string{
						strconv.FormatInt(folder.ID, 10),
						folder.Path,
						humanize.IBytes(uint64(folder.FreeSpaceBytes)),
					})
				}
			} else {
				client, err := radarr.New(cfg.Radarr)
				if err != nil {
					return err
				}
				folders, err := client.RootFolders(cmd.Context())
				if err != nil {
					return err
				}
				for _, folder := range folders {
					rows = append(rows, []string{
						strconv.FormatInt(folder.ID, 10),
						folder.Path,
						humanize.IBytes(uint64(folder.FreeSpaceBytes)),
					})
				}
			}

			out := cmd.OutOrStdout()
			headers := []string{"ID", "Path", "Free"}
			aligns := []columnAlignment{alignRight, alignLeft, alignRight}
			fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
			return nil
		},
	}
	return cmd
}
