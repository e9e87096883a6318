package plan

import (
	"testing"
	"time"

	"plexrr/internal/media"
)

const gib = int64(1) << 30

func TestSyncPlansPlexOnlyEntities(t *testing.T) {
	entities := []media.Entity{
		{Title: "Heat", Year: 1995, Type: media.TypeMovie, Availability: media.AvailabilityPlex, SourceIDs: map[media.SourceKind]string{media.SourcePlex: "p1"}},
		{Title: "Dune", Year: 2021, Type: media.TypeMovie, Availability: media.AvailabilityBoth, SourceIDs: map[media.SourceKind]string{media.SourcePlex: "p2", media.SourceRadarr: "r1"}},
		{Title: "Tenet", Year: 2020, Type: media.TypeMovie, Availability: media.AvailabilityNone, OnWatchlist: true, SourceIDs: map[media.SourceKind]string{}},
	}
	p := Sync(entities, SyncPolicy{QualityProfileID: 4, RootFolder: "/movies"})

	if len(p.Actions) != 1 {
		t.Fatalf("expected one add action, got %d", len(p.Actions))
	}
	action := p.Actions[0]
	if action.Kind != KindAddToManager || action.Title != "Heat" || action.Source != media.SourceRadarr {
		t.Fatalf("unexpected action: %+v", action)
	}
	if action.QualityProfileID != 4 || action.RootFolder != "/movies" {
		t.Fatalf("policy not carried into action: %+v", action)
	}
}

func TestSyncUsesSonarrForShows(t *testing.T) {
	entities := []media.Entity{
		{Title: "Severance", Type: media.TypeShow, Availability: media.AvailabilityPlex, SourceIDs: map[media.SourceKind]string{media.SourcePlex: "p1"}},
	}
	p := Sync(entities, SyncPolicy{QualityProfileID: 1})
	if len(p.Actions) != 1 || p.Actions[0].Source != media.SourceSonarr {
		t.Fatalf("show sync must target sonarr, got %+v", p.Actions)
	}
}

func TestCleanKeepsBestQualityVersion(t *testing.T) {
	groups := []DuplicateGroup{{
		Title:     "Dune",
		ManagerID: "r1",
		Files: []media.FileVersion{
			{ID: "f1", RelativePath: "Dune.1080p.mkv", Quality: "1080p", SizeBytes: 4 * gib},
			{ID: "f2", RelativePath: "Dune.2160p.mkv", Quality: "2160p", SizeBytes: 12 * gib},
		},
	}}
	p := Clean(groups, NewQualityRanking(nil))

	if len(p.Actions) != 1 {
		t.Fatalf("expected one delete action, got %d", len(p.Actions))
	}
	if p.Actions[0].TargetID != "f1" {
		t.Fatalf("expected 1080p version deleted, got %+v", p.Actions[0])
	}
}

func TestCleanSizeTieBreak(t *testing.T) {
	groups := []DuplicateGroup{{
		Title:     "Heat",
		ManagerID: "r1",
		Files: []media.FileVersion{
			{ID: "small", Quality: "Bluray-1080p", SizeBytes: 5 * gib},
			{ID: "large", Quality: "Bluray-1080p", SizeBytes: 9 * gib},
		},
	}}
	p := Clean(groups, NewQualityRanking(nil))
	if len(p.Actions) != 1 || p.Actions[0].TargetID != "small" {
		t.Fatalf("larger file must win the tie, got %+v", p.Actions)
	}
}

func TestCleanHonorsCustomOrdering(t *testing.T) {
	groups := []DuplicateGroup{{
		Title:     "Alien",
		ManagerID: "r1",
		Files: []media.FileVersion{
			{ID: "f1", Quality: "Remaster", SizeBytes: 1},
			{ID: "f2", Quality: "Theatrical", SizeBytes: 99},
		},
	}}
	p := Clean(groups, NewQualityRanking([]string{"Remaster", "Theatrical"}))
	if len(p.Actions) != 1 || p.Actions[0].TargetID != "f2" {
		t.Fatalf("custom ordering must outrank size, got %+v", p.Actions)
	}
}

func TestCleanIgnoresSingleVersionGroups(t *testing.T) {
	groups := []DuplicateGroup{{
		Title: "Solo",
		Files: []media.FileVersion{{ID: "f1", Quality: "1080p"}},
	}}
	if p := Clean(groups, NewQualityRanking(nil)); !p.Empty() {
		t.Fatalf("single version needs no cleanup, got %+v", p.Actions)
	}
}

func TestDeleteSkipsEntitiesWithoutManagerRecord(t *testing.T) {
	entities := []media.Entity{
		{Title: "Dune", Type: media.TypeMovie, Availability: media.AvailabilityBoth, SourceIDs: map[media.SourceKind]string{media.SourceRadarr: "r1"}},
		{Title: "Watchlist Only", Type: media.TypeMovie, Availability: media.AvailabilityNone, SourceIDs: map[media.SourceKind]string{}},
	}
	p := Delete(entities, true)

	if len(p.Actions) != 1 || p.Actions[0].TargetID != "r1" || !p.Actions[0].DeleteFiles {
		t.Fatalf("unexpected delete actions: %+v", p.Actions)
	}
	if len(p.Skipped) != 1 || p.Skipped[0].Title != "Watchlist Only" {
		t.Fatalf("entity without manager record must be reported, got %+v", p.Skipped)
	}
}

func TestDeleteWatched(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	episodes := []media.Episode{
		{ShowTitle: "Severance", Key: "e1", Season: 1, Number: 1, Watched: true, LastWatchedAt: now.AddDate(0, 0, -60)},
		{ShowTitle: "Severance", Key: "e2", Season: 1, Number: 2, Watched: true, LastWatchedAt: now.AddDate(0, 0, -45)},
		{ShowTitle: "Severance", Key: "e3", Season: 1, Number: 3, Watched: true, LastWatchedAt: now.AddDate(0, 0, -2)},
		{ShowTitle: "Severance", Key: "e4", Season: 1, Number: 4, Watched: false},
	}
	p := DeleteWatched(episodes, DeleteWatchedPolicy{Days: 30, SkipPilots: true, Now: now})

	if len(p.Actions) != 1 {
		t.Fatalf("expected one deletable episode, got %+v", p.Actions)
	}
	if p.Actions[0].TargetID != "e2" {
		t.Fatalf("expected e2 deleted (pilot skipped, recent kept), got %+v", p.Actions[0])
	}
}

func TestDeleteWatchedWithoutAgeLimit(t *testing.T) {
	episodes := []media.Episode{
		{ShowTitle: "Dark", Key: "e1", Season: 2, Number: 1, Watched: true},
	}
	p := DeleteWatched(episodes, DeleteWatchedPolicy{})
	if len(p.Actions) != 1 {
		t.Fatalf("watched episode without watch date must still delete when no age limit, got %+v", p.Actions)
	}
}

func TestDeleteWatchedReportsMissingKey(t *testing.T) {
	episodes := []media.Episode{
		{ShowTitle: "Dark", Season: 2, Number: 3, Watched: true},
	}
	p := DeleteWatched(episodes, DeleteWatchedPolicy{})
	if len(p.Actions) != 0 || len(p.Skipped) != 1 {
		t.Fatalf("episode without ID must be skipped and reported, got %+v / %+v", p.Actions, p.Skipped)
	}
}

func TestDownloadNextRequestsFollowingEpisodes(t *testing.T) {
	episodes := []media.Episode{
		{ShowKey: "s1", ShowTitle: "Severance", Season: 1, Number: 1, Watched: true, HasFile: true},
		{ShowKey: "s1", ShowTitle: "Severance", Season: 1, Number: 2, Watched: true, HasFile: true},
		{ShowKey: "s1", ShowTitle: "Severance", Season: 1, Number: 3, HasFile: true},
	}
	p := DownloadNext(episodes, DownloadNextPolicy{Count: 2})

	if len(p.Actions) != 2 {
		t.Fatalf("expected two requests, got %+v", p.Actions)
	}
	// Episode 3 is already on disk, so 4 and 5 are requested.
	if p.Actions[0].Episode != 4 || p.Actions[1].Episode != 5 {
		t.Fatalf("expected episodes 4 and 5, got %+v", p.Actions)
	}
	if p.Actions[0].Kind != KindRequestEpisode || p.Actions[0].Source != media.SourceSonarr {
		t.Fatalf("unexpected action shape: %+v", p.Actions[0])
	}
}

func TestDownloadNextIgnoresUnwatchedSeasons(t *testing.T) {
	episodes := []media.Episode{
		{ShowKey: "s1", ShowTitle: "Dark", Season: 3, Number: 1, HasFile: true},
	}
	if p := DownloadNext(episodes, DownloadNextPolicy{Count: 1}); !p.Empty() {
		t.Fatalf("season with no watched episodes must produce nothing, got %+v", p.Actions)
	}
}

func TestDownloadNextFiltersByShowKey(t *testing.T) {
	episodes := []media.Episode{
		{ShowKey: "s1", ShowTitle: "Severance", Season: 1, Number: 1, Watched: true},
		{ShowKey: "s2", ShowTitle: "Dark", Season: 1, Number: 1, Watched: true},
	}
	p := DownloadNext(episodes, DownloadNextPolicy{Count: 1, ShowKey: "s2"})
	if len(p.Actions) != 1 || p.Actions[0].ShowTitle != "Dark" {
		t.Fatalf("expected only the selected show, got %+v", p.Actions)
	}
}

func TestQualityRankingFallsBackToResolution(t *testing.T) {
	ranking := NewQualityRanking(nil)
	if ranking.Rank("Custom-2160p-HDR") <= ranking.Rank("Custom-1080p") {
		t.Fatalf("2160p fallback must outrank 1080p fallback")
	}
	if ranking.Rank("Bluray-1080p") <= ranking.Rank("Custom-2160p-HDR") {
		t.Fatalf("table entries must outrank fallbacks")
	}
}
