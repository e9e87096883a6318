package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed sample_config.yml
var sampleConfig string

// Plex contains connection settings for the Plex media server.
type Plex struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
	// WatchlistRSS is the personal watchlist feed URL from plex.tv.
	WatchlistRSS   string `yaml:"watchlist_rss"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Radarr contains connection settings for the movie manager.
type Radarr struct {
	URL            string `yaml:"url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Sonarr contains connection settings for the optional show manager.
type Sonarr struct {
	Enabled        bool   `yaml:"enabled"`
	URL            string `yaml:"url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Sources controls fetch behaviour across all backends.
type Sources struct {
	// DegradedOK lets a run proceed when one backend fails, reporting
	// the failure in the summary instead of aborting.
	DegradedOK bool `yaml:"degraded_ok"`
}

// Clean contains settings for the duplicate-version cleanup action.
type Clean struct {
	// QualityOrder lists quality labels best-first, overriding the
	// built-in ranking.
	QualityOrder []string `yaml:"quality_order"`
}

// Webhooks contains the listener bind address and the event dispatch
// table mapping event keys to plexrr command lines.
type Webhooks struct {
	Host     string              `yaml:"host"`
	Port     int                 `yaml:"port"`
	LockFile string              `yaml:"lock_file"`
	Events   map[string][]string `yaml:"events"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// Config encapsulates all configuration values for plexrr.
type Config struct {
	Plex     Plex     `yaml:"plex"`
	Radarr   Radarr   `yaml:"radarr"`
	Sonarr   Sonarr   `yaml:"sonarr"`
	Sources  Sources  `yaml:"sources"`
	Clean    Clean    `yaml:"clean"`
	Webhooks Webhooks `yaml:"webhooks"`
	Logging  Logging  `yaml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default
// configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/plexrr/config.yml")
}

// Load locates, parses, and validates a configuration file. The
// returned config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("plexrr.yml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	c.Plex.URL = strings.TrimRight(strings.TrimSpace(c.Plex.URL), "/")
	c.Radarr.URL = strings.TrimRight(strings.TrimSpace(c.Radarr.URL), "/")
	c.Sonarr.URL = strings.TrimRight(strings.TrimSpace(c.Sonarr.URL), "/")
	c.Plex.Token = strings.TrimSpace(c.Plex.Token)
	c.Radarr.APIKey = strings.TrimSpace(c.Radarr.APIKey)
	c.Sonarr.APIKey = strings.TrimSpace(c.Sonarr.APIKey)

	if c.Webhooks.LockFile != "" {
		expanded, err := ExpandPath(c.Webhooks.LockFile)
		if err != nil {
			return err
		}
		c.Webhooks.LockFile = expanded
	}
	return nil
}

// WriteSample writes the embedded sample configuration to path,
// creating parent directories as needed. It refuses to overwrite an
// existing file.
func WriteSample(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves a leading ~ to the user's home directory and
// returns an absolute path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if strings.HasPrefix(pathValue, "~/") {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	abs, err := filepath.Abs(pathValue)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", pathValue, err)
	}
	return abs, nil
}
