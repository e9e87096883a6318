package media

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatSize renders a byte count for table display, or "N/A" when no
// file is attached.
func FormatSize(sizeBytes int64) string {
	if sizeBytes <= 0 {
		return "N/A"
	}
	return humanize.IBytes(uint64(sizeBytes))
}

// FormattedDate renders the entity's most relevant date with a marker
// for what the date represents and a relative-time suffix.
func (e Entity) FormattedDate(now time.Time) string {
	if e.LastActivityAt.IsZero() {
		return "Unknown"
	}
	marker := "added"
	switch e.WatchStatus {
	case WatchStatusWatched:
		marker = "watched"
	case WatchStatusInProgress:
		marker = "in progress"
	}
	return fmt.Sprintf("%s [%s] (%s)", e.LastActivityAt.Format("2006-01-02"), marker, humanize.RelTime(e.LastActivityAt, now, "ago", "from now"))
}

// FormattedEpisodes renders the show's episode and season counters, or
// "N/A" for movies and shows without counts.
func (e Entity) FormattedEpisodes() string {
	if e.EpisodeCount == 0 && e.SeasonCount == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d eps, %d seasons", e.EpisodeCount, e.SeasonCount)
}

// Code renders an episode position in the conventional S01E02 form.
func (ep Episode) Code() string {
	return fmt.Sprintf("S%02dE%02d", ep.Season, ep.Number)
}
