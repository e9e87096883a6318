package plex

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"plexrr/internal/media"
)

type mediaContainer struct {
	Directories []directory `xml:"Directory"`
	Videos      []video     `xml:"Video"`
}

type directory struct {
	RatingKey       string `xml:"ratingKey,attr"`
	Key             string `xml:"key,attr"`
	Type            string `xml:"type,attr"`
	Title           string `xml:"title,attr"`
	Year            int    `xml:"year,attr"`
	LeafCount       int    `xml:"leafCount,attr"`
	ViewedLeafCount int    `xml:"viewedLeafCount,attr"`
	ChildCount      int    `xml:"childCount,attr"`
	AddedAt         int64  `xml:"addedAt,attr"`
	LastViewedAt    int64  `xml:"lastViewedAt,attr"`
}

type video struct {
	RatingKey         string      `xml:"ratingKey,attr"`
	Title             string      `xml:"title,attr"`
	GrandparentTitle  string      `xml:"grandparentTitle,attr"`
	GrandparentKey    string      `xml:"grandparentRatingKey,attr"`
	Summary           string      `xml:"summary,attr"`
	Year              int         `xml:"year,attr"`
	Index             int         `xml:"index,attr"`
	ParentIndex       int         `xml:"parentIndex,attr"`
	ViewCount         int         `xml:"viewCount,attr"`
	ViewOffsetMillis  int64       `xml:"viewOffset,attr"`
	DurationMillis    int64       `xml:"duration,attr"`
	AddedAt           int64       `xml:"addedAt,attr"`
	LastViewedAt      int64       `xml:"lastViewedAt,attr"`
	Media             []videoFile `xml:"Media"`
}

type videoFile struct {
	VideoResolution string      `xml:"videoResolution,attr"`
	Parts           []videoPart `xml:"Part"`
}

type videoPart struct {
	Size int64 `xml:"size,attr"`
}

// ListMovies returns every movie across the server's movie sections.
func (c *Client) ListMovies(ctx context.Context) ([]media.RawRecord, error) {
	keys, err := c.sectionKeys(ctx, "movie")
	if err != nil {
		return nil, err
	}

	var records []media.RawRecord
	for _, key := range keys {
		var container mediaContainer
		sectionURL := fmt.Sprintf("%s/library/sections/%s/all", c.baseURL, key)
		if err := c.get(ctx, sectionURL, "list movies", &container); err != nil {
			return nil, err
		}
		for _, v := range container.Videos {
			records = append(records, movieRecord(v))
		}
	}
	return records, nil
}

// ListShows returns every show across the server's show sections.
func (c *Client) ListShows(ctx context.Context) ([]media.RawRecord, error) {
	keys, err := c.sectionKeys(ctx, "show")
	if err != nil {
		return nil, err
	}

	var records []media.RawRecord
	for _, key := range keys {
		var container mediaContainer
		sectionURL := fmt.Sprintf("%s/library/sections/%s/all", c.baseURL, key)
		if err := c.get(ctx, sectionURL, "list shows", &container); err != nil {
			return nil, err
		}
		for _, d := range container.Directories {
			records = append(records, showRecord(d))
		}
	}
	return records, nil
}

// ListEpisodes returns every episode of the show identified by its
// library rating key.
func (c *Client) ListEpisodes(ctx context.Context, showKey string) ([]media.Episode, error) {
	showKey = strings.TrimSpace(showKey)
	if showKey == "" {
		return nil, fmt.Errorf("show key must not be empty")
	}

	var container mediaContainer
	leavesURL := fmt.Sprintf("%s/library/metadata/%s/allLeaves", c.baseURL, showKey)
	if err := c.get(ctx, leavesURL, "list episodes", &container); err != nil {
		return nil, err
	}

	episodes := make([]media.Episode, 0, len(container.Videos))
	for _, v := range container.Videos {
		episodes = append(episodes, episodeRecord(showKey, v))
	}
	return episodes, nil
}

func (c *Client) sectionKeys(ctx context.Context, sectionType string) ([]string, error) {
	var container mediaContainer
	if err := c.get(ctx, c.baseURL+"/library/sections", "list sections", &container); err != nil {
		return nil, err
	}

	var keys []string
	for _, d := range container.Directories {
		if d.Type == sectionType && d.Key != "" {
			keys = append(keys, d.Key)
		}
	}
	return keys, nil
}

func movieRecord(v video) media.RawRecord {
	record := media.RawRecord{
		Source:        media.SourcePlex,
		Type:          media.TypeMovie,
		ExternalID:    v.RatingKey,
		Title:         v.Title,
		Year:          v.Year,
		AddedAt:       unixTime(v.AddedAt),
		LastWatchedAt: unixTime(v.LastViewedAt),
		Watched:       v.ViewCount > 0,
		QualityTag:    resolutionTag(v.Media),
	}
	record.FileSizeBytes = largestPart(v.Media)
	if !record.Watched && v.DurationMillis > 0 && v.ViewOffsetMillis > 0 {
		record.WatchProgress = float64(v.ViewOffsetMillis) / float64(v.DurationMillis)
	}
	return record
}

func showRecord(d directory) media.RawRecord {
	record := media.RawRecord{
		Source:        media.SourcePlex,
		Type:          media.TypeShow,
		ExternalID:    d.RatingKey,
		Title:         d.Title,
		Year:          d.Year,
		AddedAt:       unixTime(d.AddedAt),
		LastWatchedAt: unixTime(d.LastViewedAt),
		EpisodeCount:  d.LeafCount,
		SeasonCount:   d.ChildCount,
	}
	switch {
	case d.LeafCount > 0 && d.ViewedLeafCount >= d.LeafCount:
		record.Watched = true
	case d.ViewedLeafCount > 0:
		record.WatchProgress = float64(d.ViewedLeafCount) / float64(d.LeafCount)
	}
	return record
}

func episodeRecord(showKey string, v video) media.Episode {
	return media.Episode{
		ShowKey:       showKey,
		ShowTitle:     v.GrandparentTitle,
		Key:           v.RatingKey,
		Title:         v.Title,
		Season:        v.ParentIndex,
		Number:        v.Index,
		Watched:       v.ViewCount > 0,
		LastWatchedAt: unixTime(v.LastViewedAt),
		HasFile:       largestPart(v.Media) > 0,
		FileSizeBytes: largestPart(v.Media),
		Summary:       v.Summary,
	}
}

func largestPart(files []videoFile) int64 {
	var largest int64
	for _, f := range files {
		for _, p := range f.Parts {
			if p.Size > largest {
				largest = p.Size
			}
		}
	}
	return largest
}

func resolutionTag(files []videoFile) string {
	for _, f := range files {
		res := strings.TrimSpace(f.VideoResolution)
		if res == "" {
			continue
		}
		if _, err := strconv.Atoi(res); err == nil {
			return res + "p"
		}
		// "4k", "sd" and friends come through as-is.
		return res
	}
	return ""
}

func unixTime(seconds int64) time.Time {
	if seconds <= 0 {
		return time.Time{}
	}
	return time.Unix(seconds, 0).UTC()
}
