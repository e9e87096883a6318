package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlex(); err != nil {
		return err
	}
	if err := c.validateRadarr(); err != nil {
		return err
	}
	if err := c.validateSonarr(); err != nil {
		return err
	}
	if err := c.validateWebhooks(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePlex() error {
	if c.Plex.URL == "" {
		return errors.New("plex.url must be set")
	}
	if c.Plex.Token == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/plexrr/config.yml"
		}
		return fmt.Errorf("plex.token is required. Edit %s (create with 'plexrr config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateRadarr() error {
	if c.Radarr.URL == "" {
		return errors.New("radarr.url must be set")
	}
	if c.Radarr.APIKey == "" {
		return errors.New("radarr.api_key must be set")
	}
	return nil
}

func (c *Config) validateSonarr() error {
	if !c.Sonarr.Enabled {
		return nil
	}
	if c.Sonarr.URL == "" {
		return errors.New("sonarr.url must be set when sonarr.enabled is true")
	}
	if c.Sonarr.APIKey == "" {
		return errors.New("sonarr.api_key must be set when sonarr.enabled is true")
	}
	return nil
}

func (c *Config) validateWebhooks() error {
	if c.Webhooks.Port < 0 || c.Webhooks.Port > 65535 {
		return fmt.Errorf("webhooks.port %d out of range", c.Webhooks.Port)
	}
	for event := range c.Webhooks.Events {
		if !knownWebhookEvent(event) {
			return fmt.Errorf("webhooks.events: unknown event key %q", event)
		}
	}
	return nil
}

// knownWebhookEvent lists the dispatch-table keys the listener maps
// Plex events onto.
func knownWebhookEvent(event string) bool {
	switch event {
	case "on-play", "on-pause", "on-resume", "on-stop", "after-watched", "on-rate", "on-added", "on-deck":
		return true
	default:
		return false
	}
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
