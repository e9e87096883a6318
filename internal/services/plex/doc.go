// Package plex provides a thin client over the Plex server HTTP API and the
// plex.tv watchlist feed. Library items are normalized into media.RawRecord
// and media.Episode values; no Plex payload shapes leak past this package.
package plex
