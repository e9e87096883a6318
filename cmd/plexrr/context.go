package main

import (
	"log/slog"
	"strings"
	"sync"

	"plexrr/internal/config"
	"plexrr/internal/logging"
	"plexrr/internal/pipeline"
	"plexrr/internal/services"
	"plexrr/internal/services/plex"
	"plexrr/internal/services/radarr"
	"plexrr/internal/services/sonarr"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolvedPath
	})
	return c.config, c.configErr
}

func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// newPipeline builds the source clients and wires them into a pipeline.
// The show manager is only constructed when Sonarr is enabled;
// requireShows turns its absence into an error up front.
func (c *commandContext) newPipeline(requireShows bool) (*pipeline.Pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	library, err := plex.New(cfg.Plex)
	if err != nil {
		return nil, err
	}
	movies, err := radarr.New(cfg.Radarr)
	if err != nil {
		return nil, err
	}

	var shows pipeline.ShowManager
	if cfg.Sonarr.Enabled {
		client, err := sonarr.New(cfg.Sonarr)
		if err != nil {
			return nil, err
		}
		shows = client
	} else if requireShows {
		return nil, services.Wrap(services.ErrConfiguration, "sonarr", "setup",
			"show operations need sonarr.enabled in the config", nil)
	}

	return pipeline.New(library, movies, shows, pipeline.Options{
		DegradedOK: cfg.Sources.DegradedOK,
		Logger:     c.log(),
	}), nil
}

// newLibraryClient builds just the Plex client for episode-level
// commands that never touch the managers.
func (c *commandContext) newLibraryClient() (*plex.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return plex.New(cfg.Plex)
}
