package plan

import (
	"fmt"
	"time"

	"plexrr/internal/media"
)

// DeleteWatchedPolicy controls episode-level cleanup of watched
// episodes.
type DeleteWatchedPolicy struct {
	// Days keeps episodes watched within the last N days. Zero deletes
	// any watched episode regardless of age.
	Days int
	// SkipPilots preserves S01E01 of every show.
	SkipPilots bool
	// Now anchors age computation; the zero value means time.Now().
	Now time.Time
}

// DeleteWatched plans deletion of library episodes that were watched
// more than the configured number of days ago.
func DeleteWatched(episodes []media.Episode, policy DeleteWatchedPolicy) Plan {
	now := policy.Now
	if now.IsZero() {
		now = time.Now()
	}
	cutoff := now.AddDate(0, 0, -policy.Days)

	var p Plan
	for _, episode := range episodes {
		if !episode.Watched {
			continue
		}
		if policy.SkipPilots && episode.Season == 1 && episode.Number == 1 {
			continue
		}
		if policy.Days > 0 {
			if episode.LastWatchedAt.IsZero() || episode.LastWatchedAt.After(cutoff) {
				continue
			}
		}
		if episode.Key == "" {
			p.Skipped = append(p.Skipped, Skipped{
				Title:  fmt.Sprintf("%s %s", episode.ShowTitle, episode.Code()),
				Reason: "no library episode ID",
			})
			continue
		}
		p.Actions = append(p.Actions, Action{
			Kind:        KindDeleteEpisode,
			Source:      media.SourcePlex,
			TargetID:    episode.Key,
			ShowTitle:   episode.ShowTitle,
			Season:      episode.Season,
			Episode:     episode.Number,
			Description: fmt.Sprintf("delete %s %s - %s", episode.ShowTitle, episode.Code(), episode.Title),
		})
	}
	return p
}
