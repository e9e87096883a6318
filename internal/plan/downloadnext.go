package plan

import (
	"fmt"
	"sort"

	"plexrr/internal/media"
)

// DownloadNextPolicy controls how many upcoming episodes to request
// per show.
type DownloadNextPolicy struct {
	// Count is the number of episodes to request after the highest
	// watched episode of each season. Values below one request one.
	Count int
	// ShowKey restricts planning to a single library show when set.
	ShowKey string
}

// DownloadNext plans "request episode" operations for the episodes
// that follow the highest watched episode of each season, skipping
// episodes the library already holds a file for.
func DownloadNext(episodes []media.Episode, policy DownloadNextPolicy) Plan {
	count := policy.Count
	if count < 1 {
		count = 1
	}

	type seasonState struct {
		highestWatched int
		present        map[int]bool
	}
	type showState struct {
		title   string
		seasons map[int]*seasonState
	}

	shows := make(map[string]*showState)
	order := make([]string, 0)
	for _, episode := range episodes {
		if policy.ShowKey != "" && episode.ShowKey != policy.ShowKey {
			continue
		}
		show, ok := shows[episode.ShowKey]
		if !ok {
			show = &showState{title: episode.ShowTitle, seasons: make(map[int]*seasonState)}
			shows[episode.ShowKey] = show
			order = append(order, episode.ShowKey)
		}
		season, ok := show.seasons[episode.Season]
		if !ok {
			season = &seasonState{present: make(map[int]bool)}
			show.seasons[episode.Season] = season
		}
		if episode.HasFile {
			season.present[episode.Number] = true
		}
		if episode.Watched && episode.Number > season.highestWatched {
			season.highestWatched = episode.Number
		}
	}

	var p Plan
	for _, showKey := range order {
		show := shows[showKey]
		seasons := make([]int, 0, len(show.seasons))
		for number := range show.seasons {
			seasons = append(seasons, number)
		}
		sort.Ints(seasons)

		for _, seasonNumber := range seasons {
			season := show.seasons[seasonNumber]
			if season.highestWatched == 0 {
				continue
			}
			requested := 0
			for next := season.highestWatched + 1; requested < count; next++ {
				if next > season.highestWatched+count+len(season.present) {
					break
				}
				if season.present[next] {
					continue
				}
				p.Actions = append(p.Actions, Action{
					Kind:        KindRequestEpisode,
					Source:      media.SourceSonarr,
					TargetID:    showKey,
					ShowTitle:   show.title,
					Season:      seasonNumber,
					Episode:     next,
					Description: fmt.Sprintf("request %s S%02dE%02d", show.title, seasonNumber, next),
				})
				requested++
			}
		}
	}
	return p
}
