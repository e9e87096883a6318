package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"plexrr/internal/webhook"
)

func newWebhookCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Run and exercise the Plex webhook listener",
	}
	cmd.AddCommand(newWebhookServeCommand(ctx))
	cmd.AddCommand(newWebhookTestCommand(ctx))
	return cmd
}

func newWebhookServeCommand(ctx *commandContext) *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Listen for Plex webhook events and dispatch configured commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			webhookCfg := cfg.Webhooks
			if host != "" {
				webhookCfg.Host = host
			}
			if port != 0 {
				webhookCfg.Port = port
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := webhook.New(webhookCfg, nil, ctx.log())
			if err := server.Start(runCtx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Webhook listener on %s, Ctrl+C to stop\n", server.Addr())

			<-runCtx.Done()
			server.Stop()
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Override the configured bind host")
	cmd.Flags().IntVar(&port, "port", 0, "Override the configured bind port")
	return cmd
}

func newWebhookTestCommand(ctx *commandContext) *cobra.Command {
	var event string
	var title string
	var showTitle string
	var season int
	var episode int
	var year int

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Send a synthetic event to a running webhook listener",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			payload := webhook.Payload{Event: event}
			payload.Account.Title = "plexrr-test"
			payload.Metadata.Title = title
			payload.Metadata.Year = year
			if showTitle != "" {
				payload.Metadata.Type = "episode"
				payload.Metadata.GrandparentTitle = showTitle
				payload.Metadata.ParentIndex = season
				payload.Metadata.Index = episode
			} else {
				payload.Metadata.Type = "movie"
			}

			body, err := json.Marshal(payload)
			if err != nil {
				return err
			}

			host := cfg.Webhooks.Host
			if host == "" || host == "0.0.0.0" {
				host = "127.0.0.1"
			}
			url := fmt.Sprintf("http://%s:%d/", host, cfg.Webhooks.Port)

			client := &http.Client{Timeout: 10 * time.Second}
			resp, err := client.Post(url, "application/json", bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("deliver test event: %w", err)
			}
			defer resp.Body.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Delivered %s to %s: %s\n", event, url, resp.Status)
			if key := payload.EventKey(); key == "" {
				fmt.Fprintf(out, "Note: %s maps to no event key, the listener ignores it\n", event)
			} else if len(cfg.Webhooks.Events[key]) == 0 {
				fmt.Fprintf(out, "Note: no commands configured for %s, the listener ignores it\n", key)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&event, "event", "media.scrobble", "Raw Plex event name to send")
	cmd.Flags().StringVar(&title, "title", "Test Movie", "Media title for the payload")
	cmd.Flags().StringVar(&showTitle, "show-title", "", "Show title, making the payload an episode event")
	cmd.Flags().IntVar(&season, "season", 1, "Season number for episode payloads")
	cmd.Flags().IntVar(&episode, "episode", 1, "Episode number for episode payloads")
	cmd.Flags().IntVar(&year, "year", 0, "Release year for the payload")
	return cmd
}
