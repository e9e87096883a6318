package sonarr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"plexrr/internal/media"
)

type series struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Year       int       `json:"year"`
	TvdbID     int64     `json:"tvdbId"`
	Added      time.Time `json:"added"`
	Tags       []int64   `json:"tags"`
	Statistics struct {
		SeasonCount       int   `json:"seasonCount"`
		EpisodeCount      int   `json:"episodeCount"`
		EpisodeFileCount  int   `json:"episodeFileCount"`
		SizeOnDisk        int64 `json:"sizeOnDisk"`
		TotalEpisodeCount int   `json:"totalEpisodeCount"`
	} `json:"statistics"`
}

type episode struct {
	ID            int64  `json:"id"`
	SeriesID      int64  `json:"seriesId"`
	Title         string `json:"title"`
	SeasonNumber  int    `json:"seasonNumber"`
	EpisodeNumber int    `json:"episodeNumber"`
	HasFile       bool   `json:"hasFile"`
}

// QualityProfile is a named download-quality profile.
type QualityProfile struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RootFolder is a configured library root path.
type RootFolder struct {
	ID             int64  `json:"id"`
	Path           string `json:"path"`
	FreeSpaceBytes int64  `json:"freeSpace"`
}

// AddSeriesRequest carries the fields needed to register a new series.
type AddSeriesRequest struct {
	Title            string
	Year             int
	TvdbID           int64
	QualityProfileID int64
	RootFolderPath   string
	SearchNow        bool
}

// ListSeries returns every series Sonarr tracks, with tag IDs resolved
// to their labels.
func (c *Client) ListSeries(ctx context.Context) ([]media.RawRecord, error) {
	var all []series
	if err := c.do(ctx, http.MethodGet, "/series", "list series", nil, &all); err != nil {
		return nil, err
	}

	labels, err := c.tagLabels(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]media.RawRecord, 0, len(all))
	for _, s := range all {
		records = append(records, seriesToRecord(s, labels))
	}
	return records, nil
}

func seriesToRecord(s series, labels map[int64]string) media.RawRecord {
	record := media.RawRecord{
		Source:        media.SourceSonarr,
		Type:          media.TypeShow,
		ExternalID:    strconv.FormatInt(s.ID, 10),
		Title:         s.Title,
		Year:          s.Year,
		AddedAt:       s.Added.UTC(),
		FileSizeBytes: s.Statistics.SizeOnDisk,
		EpisodeCount:  s.Statistics.EpisodeCount,
		SeasonCount:   s.Statistics.SeasonCount,
	}
	for _, id := range s.Tags {
		if label, ok := labels[id]; ok && label != "" {
			record.Tags = append(record.Tags, label)
		}
	}
	return record
}

func (c *Client) tagLabels(ctx context.Context) (map[int64]string, error) {
	var tags []struct {
		ID    int64  `json:"id"`
		Label string `json:"label"`
	}
	if err := c.do(ctx, http.MethodGet, "/tag", "tags", nil, &tags); err != nil {
		return nil, err
	}
	labels := make(map[int64]string, len(tags))
	for _, tag := range tags {
		labels[tag.ID] = tag.Label
	}
	return labels, nil
}

// AddSeries registers a series for monitoring and optionally kicks off
// a search for missing episodes.
func (c *Client) AddSeries(ctx context.Context, req AddSeriesRequest) error {
	body := map[string]any{
		"title":            req.Title,
		"year":             req.Year,
		"tvdbId":           req.TvdbID,
		"qualityProfileId": req.QualityProfileID,
		"rootFolderPath":   req.RootFolderPath,
		"monitored":        true,
		"addOptions": map[string]any{
			"searchForMissingEpisodes": req.SearchNow,
		},
	}
	return c.do(ctx, http.MethodPost, "/series", "add series", body, nil)
}

// DeleteSeries removes a series record, optionally deleting its files.
func (c *Client) DeleteSeries(ctx context.Context, id string, deleteFiles bool) error {
	seriesID, err := parseID(id)
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/series/%d?deleteFiles=%t", seriesID, deleteFiles)
	return c.do(ctx, http.MethodDelete, path, "delete series", nil, nil)
}

// ListEpisodes returns every episode Sonarr knows for a series.
func (c *Client) ListEpisodes(ctx context.Context, seriesID string) ([]media.Episode, error) {
	id, err := parseID(seriesID)
	if err != nil {
		return nil, err
	}

	var all []episode
	path := "/episode?seriesId=" + url.QueryEscape(strconv.FormatInt(id, 10))
	if err := c.do(ctx, http.MethodGet, path, "list episodes", nil, &all); err != nil {
		return nil, err
	}

	episodes := make([]media.Episode, 0, len(all))
	for _, e := range all {
		episodes = append(episodes, media.Episode{
			ShowKey: seriesID,
			Key:     strconv.FormatInt(e.ID, 10),
			Title:   e.Title,
			Season:  e.SeasonNumber,
			Number:  e.EpisodeNumber,
			HasFile: e.HasFile,
		})
	}
	return episodes, nil
}

// RequestEpisode triggers a search for one episode of a series. The
// episode must already exist in Sonarr's listing for the series.
func (c *Client) RequestEpisode(ctx context.Context, seriesID string, season, number int) error {
	id, err := parseID(seriesID)
	if err != nil {
		return err
	}

	var all []episode
	path := "/episode?seriesId=" + url.QueryEscape(strconv.FormatInt(id, 10))
	if err := c.do(ctx, http.MethodGet, path, "request episode", nil, &all); err != nil {
		return err
	}

	var episodeID int64
	for _, e := range all {
		if e.SeasonNumber == season && e.EpisodeNumber == number {
			episodeID = e.ID
			break
		}
	}
	if episodeID == 0 {
		return fmt.Errorf("%s has no S%02dE%02d for series %s", sourceName, season, number, seriesID)
	}

	body := map[string]any{
		"name":       "EpisodeSearch",
		"episodeIds": []int64{episodeID},
	}
	return c.do(ctx, http.MethodPost, "/command", "request episode", body, nil)
}

// SeriesCandidate is one result of a metadata lookup.
type SeriesCandidate struct {
	Title  string `json:"title"`
	Year   int    `json:"year"`
	TvdbID int64  `json:"tvdbId"`
}

// LookupSeries searches Sonarr's metadata provider for a title so new
// records can be added with a TVDB identity.
func (c *Client) LookupSeries(ctx context.Context, term string) ([]SeriesCandidate, error) {
	var candidates []SeriesCandidate
	path := "/series/lookup?term=" + url.QueryEscape(term)
	if err := c.do(ctx, http.MethodGet, path, "lookup series", nil, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// QualityProfiles lists the configured download-quality profiles.
func (c *Client) QualityProfiles(ctx context.Context) ([]QualityProfile, error) {
	var profiles []QualityProfile
	if err := c.do(ctx, http.MethodGet, "/qualityprofile", "quality profiles", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// RootFolders lists the configured library root paths.
func (c *Client) RootFolders(ctx context.Context) ([]RootFolder, error) {
	var folders []RootFolder
	if err := c.do(ctx, http.MethodGet, "/rootfolder", "root folders", nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s record id %q", sourceName, raw)
	}
	return id, nil
}
