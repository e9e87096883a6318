package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"plexrr/internal/services"
	"plexrr/internal/services/radarr"
	"plexrr/internal/services/sonarr"
)

func newProfilesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "profiles [movie|show]",
		Short:     "List the acquisition manager's quality profiles",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"movie", "show"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
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
				profiles, err := client.QualityProfiles(cmd.Context())
				if err != nil {
					return err
				}
				for _, profile := range profiles {
					rows = append(rows, []string{strconv.FormatInt(profile.ID, 10), profile.Name})
				}
			} else {
				client, err := radarr.New(cfg.Radarr)
				if err != nil {
					return err
				}
				profiles, err := client.QualityProfiles(cmd.Context())
				if err != nil {
					return err
				}
				for _, profile := range profiles {
					rows = append(rows, []string{strconv.FormatInt(profile.ID, 10), profile.Name})
				}
			}

			headers := []string{"ID", "Name"}
			aligns := []columnAlignment{alignRight, alignLeft}
			fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
			return nil
		},
	}
	return cmd
}

func managerArg(args []string) string {
	if len(args) == 0 {
		return "movie"
	}
	return args[0]
}
