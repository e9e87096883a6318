// Package sonarr provides a thin client over the Sonarr v3 API. Series
// records are normalized into media.RawRecord values; episode lookups and
// search commands back the episode-granularity planners.
package sonarr
