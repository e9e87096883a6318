package reconcile

import (
	"sort"

	"plexrr/internal/identity"
	"plexrr/internal/media"
)

// Merge combines each identity group into a single entity and applies
// watchlist membership. Output order is deterministic: by normalized
// title, then year.
func Merge(res identity.Resolution, watchlist []media.WatchlistEntry) []media.Entity {
	entities := make(map[identity.Key]*media.Entity, len(res.Groups))
	for key, group := range res.Groups {
		entity := mergeGroup(group)
		entities[key] = &entity
	}

	var watchlistOnly []media.Entity
	for _, entry := range watchlist {
		if key, ok := res.MatchKey(entry.Title, entry.Year); ok {
			entities[key].OnWatchlist = true
			continue
		}
		if identity.NormalizeTitle(entry.Title) == "" {
			continue
		}
		mediaType := entry.Type
		if mediaType == "" {
			mediaType = media.TypeMovie
		}
		watchlistOnly = append(watchlistOnly, media.Entity{
			Title:          entry.Title,
			Year:           entry.Year,
			Type:           mediaType,
			Availability:   media.AvailabilityNone,
			OnWatchlist:    true,
			LastActivityAt: entry.AddedAt,
			SourceIDs:      map[media.SourceKind]string{},
		})
	}

	merged := make([]media.Entity, 0, len(entities)+len(watchlistOnly))
	for _, entity := range entities {
		merged = append(merged, *entity)
	}
	merged = append(merged, watchlistOnly...)

	sort.SliceStable(merged, func(i, j int) bool {
		left, right := merged[i], merged[j]
		lt, rt := identity.NormalizeTitle(left.Title), identity.NormalizeTitle(right.Title)
		if lt != rt {
			return lt < rt
		}
		return left.Year < right.Year
	})
	return merged
}

// mergeGroup reduces the contributing records for one identity to a
// single entity, partitioned by source kind.
func mergeGroup(group []media.RawRecord) media.Entity {
	var plex, manager []media.RawRecord
	for _, record := range group {
		if record.Source == media.SourcePlex {
			plex = append(plex, record)
		} else {
			manager = append(manager, record)
		}
	}

	entity := media.Entity{
		Type:      groupType(group),
		SourceIDs: make(map[media.SourceKind]string, 2),
	}

	// Title and year come from the most authoritative present source.
	primary := pickPrimary(plex, manager)
	entity.Title = primary.Title
	entity.Year = primary.Year
	if entity.Year == 0 {
		for _, record := range group {
			if record.Year > 0 {
				entity.Year = record.Year
				break
			}
		}
	}

	switch {
	case len(plex) > 0 && len(manager) > 0:
		entity.Availability = media.AvailabilityBoth
	case len(plex) > 0:
		entity.Availability = media.AvailabilityPlex
	default:
		entity.Availability = media.AvailabilityManager
	}

	// The library size wins over manager-reported sizes; duplicates
	// within one source aggregate to the largest file.
	if size := largestSize(plex); size > 0 {
		entity.FileSizeBytes = size
	} else {
		entity.FileSizeBytes = largestSize(manager)
	}

	tags := make(map[string]struct{})
	for _, record := range group {
		if status := record.WatchStatus(); status > entity.WatchStatus {
			entity.WatchStatus = status
		}
		if activity := record.LastActivityAt(); activity.After(entity.LastActivityAt) {
			entity.LastActivityAt = activity
		}
		if record.EpisodeCount > entity.EpisodeCount {
			entity.EpisodeCount = record.EpisodeCount
		}
		if record.SeasonCount > entity.SeasonCount {
			entity.SeasonCount = record.SeasonCount
		}
		// Tags only carry structural meaning on the manager side; the
		// library has none.
		if record.Source != media.SourcePlex {
			for _, tag := range record.Tags {
				tags[tag] = struct{}{}
			}
		}
	}
	if len(tags) > 0 {
		entity.Tags = make([]string, 0, len(tags))
		for tag := range tags {
			entity.Tags = append(entity.Tags, tag)
		}
		sort.Strings(entity.Tags)
	}

	if len(plex) > 0 {
		entity.SourceIDs[media.SourcePlex] = plex[0].ExternalID
	}
	if len(manager) > 0 {
		entity.SourceIDs[manager[0].Source] = bestRecord(manager).ExternalID
	}
	return entity
}

func groupType(group []media.RawRecord) media.Type {
	for _, record := range group {
		if record.Type != "" {
			return record.Type
		}
	}
	return media.TypeMovie
}

// pickPrimary selects the record whose title and year the entity
// adopts: library first, then the manager record with the largest file.
func pickPrimary(plex, manager []media.RawRecord) media.RawRecord {
	if len(plex) > 0 {
		return plex[0]
	}
	return bestRecord(manager)
}

func largestSize(records []media.RawRecord) int64 {
	var largest int64
	for _, record := range records {
		if record.FileSizeBytes > largest {
			largest = record.FileSizeBytes
		}
	}
	return largest
}

// bestRecord prefers the duplicate with the largest attached file so
// the retained manager ID points at the version worth keeping.
func bestRecord(records []media.RawRecord) media.RawRecord {
	best := records[0]
	for _, record := range records[1:] {
		if record.FileSizeBytes > best.FileSizeBytes {
			best = record
		}
	}
	return best
}
