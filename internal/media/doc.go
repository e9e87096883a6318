// Package media defines the shared data model for catalog reconciliation.
//
// RawRecord is the fixed per-item shape every source adapter normalizes
// into; downstream code never branches on a backend's payload shape.
// Entity is the merged, deduplicated representation of one title across
// Plex, Radarr/Sonarr, and the Plex watchlist. Episode carries the
// finer-grained per-episode data used by the delete-watched and
// download-next planners.
package media
