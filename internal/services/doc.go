// Package services defines shared utilities consumed by the backend
// clients and the CLI commands.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that keep failure
//     classification uniform across the Plex, Radarr, and Sonarr
//     clients.
//   - Context helpers that stamp source names and correlation
//     identifiers for logging.
package services
