// Package config loads and validates the plexrr configuration file.
//
// Configuration is YAML, searched at the explicit --config path, then
// ~/.config/plexrr/config.yml, then ./plexrr.yml. Load applies
// defaults, expands ~ in paths, and validates before anything touches
// the network; configuration problems are fatal and surface before any
// fetch.
package config
