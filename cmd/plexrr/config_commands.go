package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"plexrr/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the plexrr configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(ctx))
	cmd.AddCommand(newConfigValidateCommand(ctx))
	cmd.AddCommand(newConfigShowCommand(ctx))
	return cmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			if path == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = defaultPath
			}
			if err := config.WriteSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", path)
			fmt.Fprintln(cmd.OutOrStdout(), "Fill in the Plex token and Radarr API key before running commands.")
			return nil
		},
	}
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Check that the configuration file parses and validates",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolvedPath, exists, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}

			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintf(out, "Configuration valid: %s\n", resolvedPath)
			} else {
				fmt.Fprintf(out, "No configuration file found, defaults are valid (looked for %s)\n", resolvedPath)
			}
			if cfg.Sonarr.Enabled {
				fmt.Fprintln(out, "Sonarr: enabled")
			} else {
				fmt.Fprintln(out, "Sonarr: disabled, show commands unavailable")
			}
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file: %s\n\n", ctx.configPath)
			fmt.Fprintf(out, "plex.url: %s\n", cfg.Plex.URL)
			fmt.Fprintf(out, "plex.token: %s\n", maskSecret(cfg.Plex.Token))
			fmt.Fprintf(out, "plex.watchlist_rss: %s\n", cfg.Plex.WatchlistRSS)
			fmt.Fprintf(out, "radarr.url: %s\n", cfg.Radarr.URL)
			fmt.Fprintf(out, "radarr.api_key: %s\n", maskSecret(cfg.Radarr.APIKey))
			fmt.Fprintf(out, "sonarr.enabled: %t\n", cfg.Sonarr.Enabled)
			if cfg.Sonarr.Enabled {
				fmt.Fprintf(out, "sonarr.url: %s\n", cfg.Sonarr.URL)
				fmt.Fprintf(out, "sonarr.api_key: %s\n", maskSecret(cfg.Sonarr.APIKey))
			}
			fmt.Fprintf(out, "sources.degraded_ok: %t\n", cfg.Sources.DegradedOK)
			fmt.Fprintf(out, "webhooks.bind: %s:%d\n", cfg.Webhooks.Host, cfg.Webhooks.Port)
			fmt.Fprintf(out, "webhooks.events: %d configured\n", len(cfg.Webhooks.Events))
			fmt.Fprintf(out, "logging: %s/%s\n", cfg.Logging.Format, cfg.Logging.Level)
			return nil
		},
	}
}

func maskSecret(value string) string {
	if value == "" {
		return "(unset)"
	}
	if len(value) <= 4 {
		return "****"
	}
	return value[:2] + strings.Repeat("*", len(value)-4) + value[len(value)-2:]
}
