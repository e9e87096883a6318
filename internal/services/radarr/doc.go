// Package radarr provides a thin client over the Radarr v3 API. Movie
// records are normalized into media.RawRecord values with tag IDs resolved
// to labels; file listings map to media.FileVersion for cleanup planning.
package radarr
