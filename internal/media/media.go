package media

import (
	"sort"
	"time"
)

// SourceKind identifies which backend a record came from.
type SourceKind string

const (
	SourcePlex   SourceKind = "plex"
	SourceRadarr SourceKind = "radarr"
	SourceSonarr SourceKind = "sonarr"
)

// Type distinguishes movie records from show records.
type Type string

const (
	TypeMovie Type = "movie"
	TypeShow  Type = "show"
)

// WatchStatus orders watch progress so merged entities can take the
// maximum across contributing records.
type WatchStatus int

const (
	WatchStatusNotWatched WatchStatus = iota
	WatchStatusInProgress
	WatchStatusWatched
)

func (s WatchStatus) String() string {
	switch s {
	case WatchStatusWatched:
		return "Watched"
	case WatchStatusInProgress:
		return "In Progress"
	default:
		return "Not Watched"
	}
}

// ParseWatchStatus maps CLI filter values to a WatchStatus.
func ParseWatchStatus(value string) (WatchStatus, bool) {
	switch value {
	case "watched":
		return WatchStatusWatched, true
	case "in_progress":
		return WatchStatusInProgress, true
	case "not_watched":
		return WatchStatusNotWatched, true
	default:
		return WatchStatusNotWatched, false
	}
}

// Availability describes which backends hold a title. Watchlist
// membership never counts toward availability.
type Availability int

const (
	AvailabilityNone Availability = iota
	AvailabilityPlex
	AvailabilityManager
	AvailabilityBoth
)

// Label renders the availability for display, naming the concrete
// manager for the media type.
func (a Availability) Label(mediaType Type) string {
	switch a {
	case AvailabilityPlex:
		return "Plex"
	case AvailabilityManager:
		if mediaType == TypeShow {
			return "Sonarr"
		}
		return "Radarr"
	case AvailabilityBoth:
		return "Both"
	default:
		return "None"
	}
}

// ParseAvailability maps CLI filter values to an Availability.
func ParseAvailability(value string) (Availability, bool) {
	switch value {
	case "plex":
		return AvailabilityPlex, true
	case "radarr", "sonarr", "manager":
		return AvailabilityManager, true
	case "both":
		return AvailabilityBoth, true
	case "none":
		return AvailabilityNone, true
	default:
		return AvailabilityNone, false
	}
}

// RawRecord is the normalized per-item shape produced by a source
// adapter. It is immutable once fetched and discarded after the merge.
type RawRecord struct {
	Source     SourceKind
	Type       Type
	ExternalID string
	Title      string
	// Year is zero when the source does not report one.
	Year int
	// FileSizeBytes is zero when no media file is attached.
	FileSizeBytes int64
	AddedAt       time.Time
	LastWatchedAt time.Time
	// WatchProgress is the fractional playback position in [0, 1].
	WatchProgress float64
	// Watched marks the source's completion flag; it outranks progress.
	Watched    bool
	QualityTag string
	Tags       []string

	// Show-only counters, zero for movies.
	EpisodeCount int
	SeasonCount  int
}

// WatchStatus derives the record-level status from the completion flag
// and fractional progress.
func (r RawRecord) WatchStatus() WatchStatus {
	switch {
	case r.Watched:
		return WatchStatusWatched
	case r.WatchProgress > 0:
		return WatchStatusInProgress
	default:
		return WatchStatusNotWatched
	}
}

// LastActivityAt is the most recent of the record's watch and added
// timestamps.
func (r RawRecord) LastActivityAt() time.Time {
	if r.LastWatchedAt.After(r.AddedAt) {
		return r.LastWatchedAt
	}
	return r.AddedAt
}

// WatchlistEntry is a watchlist membership row. It only ever sets the
// OnWatchlist flag on a matching entity; it is never merged as a
// primary record.
type WatchlistEntry struct {
	Title   string
	Year    int
	Type    Type
	AddedAt time.Time
}

// Entity is the reconciled representation of one title across sources.
// It lives only for the duration of a single run.
type Entity struct {
	Title          string
	Year           int
	Type           Type
	Availability   Availability
	FileSizeBytes  int64
	WatchStatus    WatchStatus
	LastActivityAt time.Time
	OnWatchlist    bool
	Tags           []string
	// SourceIDs maps each contributing backend to its native record ID
	// so planners can target the correct backend record.
	SourceIDs map[SourceKind]string

	EpisodeCount int
	SeasonCount  int
}

// ManagerID returns the acquisition-manager record ID for the entity's
// media type, or "" when the entity has no manager-side record.
func (e Entity) ManagerID() string {
	if e.Type == TypeShow {
		return e.SourceIDs[SourceSonarr]
	}
	return e.SourceIDs[SourceRadarr]
}

// ManagerSource returns the acquisition-manager kind matching the
// entity's media type.
func (e Entity) ManagerSource() SourceKind {
	if e.Type == TypeShow {
		return SourceSonarr
	}
	return SourceRadarr
}

// SortedTags returns the entity's tags in a stable order for display.
func (e Entity) SortedTags() []string {
	tags := make([]string, len(e.Tags))
	copy(tags, e.Tags)
	sort.Strings(tags)
	return tags
}

// Episode is a per-episode record from the library server, used by the
// episode-granularity planners.
type Episode struct {
	ShowKey       string
	ShowTitle     string
	Key           string
	Title         string
	Season        int
	Number        int
	Watched       bool
	LastWatchedAt time.Time
	HasFile       bool
	FileSizeBytes int64
	Summary       string
}

// FileVersion is one media file attached to a manager record, used by
// the clean planner to pick the version worth keeping.
type FileVersion struct {
	ID           string
	RelativePath string
	Quality      string
	SizeBytes    int64
}
