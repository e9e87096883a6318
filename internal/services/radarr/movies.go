package radarr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"plexrr/internal/media"
)

type movie struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Year      int        `json:"year"`
	TmdbID    int64      `json:"tmdbId"`
	Added     time.Time  `json:"added"`
	HasFile   bool       `json:"hasFile"`
	Tags      []int64    `json:"tags"`
	MovieFile *movieFile `json:"movieFile"`
}

type movieFile struct {
	ID           int64  `json:"id"`
	MovieID      int64  `json:"movieId"`
	RelativePath string `json:"relativePath"`
	Size         int64  `json:"size"`
	Quality      struct {
		Quality struct {
			Name string `json:"name"`
		} `json:"quality"`
	} `json:"quality"`
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

// Tag is a user-defined record label.
type Tag struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// AddMovieRequest carries the fields needed to register a new movie.
type AddMovieRequest struct {
	Title            string
	Year             int
	TmdbID           int64
	QualityProfileID int64
	RootFolderPath   string
	SearchNow        bool
}

// ListMovies returns every movie Radarr tracks, with tag IDs resolved
// to their labels.
func (c *Client) ListMovies(ctx context.Context) ([]media.RawRecord, error) {
	var movies []movie
	if err := c.do(ctx, http.MethodGet, "/movie", "list movies", nil, &movies); err != nil {
		return nil, err
	}

	labels, err := c.tagLabels(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]media.RawRecord, 0, len(movies))
	for _, m := range movies {
		records = append(records, movieToRecord(m, labels))
	}
	return records, nil
}

func movieToRecord(m movie, labels map[int64]string) media.RawRecord {
	record := media.RawRecord{
		Source:     media.SourceRadarr,
		Type:       media.TypeMovie,
		ExternalID: strconv.FormatInt(m.ID, 10),
		Title:      m.Title,
		Year:       m.Year,
		AddedAt:    m.Added.UTC(),
	}
	if m.MovieFile != nil {
		record.FileSizeBytes = m.MovieFile.Size
		record.QualityTag = m.MovieFile.Quality.Quality.Name
	}
	for _, id := range m.Tags {
		if label, ok := labels[id]; ok && label != "" {
			record.Tags = append(record.Tags, label)
		}
	}
	return record
}

func (c *Client) tagLabels(ctx context.Context) (map[int64]string, error) {
	tags, err := c.Tags(ctx)
	if err != nil {
		return nil, err
	}
	labels := make(map[int64]string, len(tags))
	for _, tag := range tags {
		labels[tag.ID] = tag.Label
	}
	return labels, nil
}

// AddMovie registers a movie for monitoring and optionally kicks off a
// search for it.
func (c *Client) AddMovie(ctx context.Context, req AddMovieRequest) error {
	body := map[string]any{
		"title":            req.Title,
		"year":             req.Year,
		"tmdbId":           req.TmdbID,
		"qualityProfileId": req.QualityProfileID,
		"rootFolderPath":   req.RootFolderPath,
		"monitored":        true,
		"addOptions": map[string]any{
			"searchForMovie": req.SearchNow,
		},
	}
	return c.do(ctx, http.MethodPost, "/movie", "add movie", body, nil)
}

// DeleteMovie removes a movie record, optionally deleting its files.
func (c *Client) DeleteMovie(ctx context.Context, id string, deleteFiles bool) error {
	movieID, err := parseID(id)
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/movie/%d?deleteFiles=%t", movieID, deleteFiles)
	return c.do(ctx, http.MethodDelete, path, "delete movie", nil, nil)
}

// ListMovieFiles returns every file attached to a movie record.
func (c *Client) ListMovieFiles(ctx context.Context, movieID string) ([]media.FileVersion, error) {
	id, err := parseID(movieID)
	if err != nil {
		return nil, err
	}

	var files []movieFile
	path := "/moviefile?movieId=" + url.QueryEscape(strconv.FormatInt(id, 10))
	if err := c.do(ctx, http.MethodGet, path, "list movie files", nil, &files); err != nil {
		return nil, err
	}

	versions := make([]media.FileVersion, 0, len(files))
	for _, f := range files {
		versions = append(versions, media.FileVersion{
			ID:           strconv.FormatInt(f.ID, 10),
			RelativePath: f.RelativePath,
			Quality:      f.Quality.Quality.Name,
			SizeBytes:    f.Size,
		})
	}
	return versions, nil
}

// DeleteMovieFile removes a single media file from disk and from the
// movie record.
func (c *Client) DeleteMovieFile(ctx context.Context, fileID string) error {
	id, err := parseID(fileID)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/moviefile/%d", id), "delete movie file", nil, nil)
}

// MovieCandidate is one result of a metadata lookup.
type MovieCandidate struct {
	Title  string `json:"title"`
	Year   int    `json:"year"`
	TmdbID int64  `json:"tmdbId"`
}

// LookupMovie searches Radarr's metadata provider for a title so new
// records can be added with a TMDB identity.
func (c *Client) LookupMovie(ctx context.Context, term string) ([]MovieCandidate, error) {
	var candidates []MovieCandidate
	path := "/movie/lookup?term=" + url.QueryEscape(term)
	if err := c.do(ctx, http.MethodGet, path, "lookup movie", nil, &candidates); err != nil {
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

// Tags lists the user-defined record labels.
func (c *Client) Tags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if err := c.do(ctx, http.MethodGet, "/tag", "tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s record id %q", sourceName, raw)
	}
	return id, nil
}
