package radarr_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"plexrr/internal/config"
	"plexrr/internal/media"
	"plexrr/internal/services"
	"plexrr/internal/services/radarr"
)

const moviesJSON = `[
  {
    "id": 5,
    "title": "The Matrix",
    "year": 1999,
    "tmdbId": 603,
    "added": "2023-01-02T15:04:05Z",
    "hasFile": true,
    "tags": [1, 9],
    "movieFile": {
      "id": 50,
      "movieId": 5,
      "relativePath": "The Matrix (1999)/matrix.mkv",
      "size": 4294967296,
      "quality": {"quality": {"name": "Bluray-1080p"}}
    }
  },
  {
    "id": 6,
    "title": "Heat",
    "year": 1995,
    "tmdbId": 949,
    "added": "2023-02-01T00:00:00Z",
    "hasFile": false,
    "tags": []
  }
]`

const tagsJSON = `[{"id":1,"label":"keep"},{"id":2,"label":"other"}]`

func newTestClient(t *testing.T, handler http.Handler) *radarr.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := radarr.New(config.Radarr{URL: server.URL, APIKey: "key", TimeoutSeconds: 5})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := radarr.New(config.Radarr{URL: "http://example.com"})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestListMoviesResolvesTags(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "key" {
			t.Fatalf("missing api key header")
		}
		switch r.URL.Path {
		case "/api/v3/movie":
			_, _ = w.Write([]byte(moviesJSON))
		case "/api/v3/tag":
			_, _ = w.Write([]byte(tagsJSON))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	records, err := client.ListMovies(context.Background())
	if err != nil {
		t.Fatalf("list movies: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	matrix := records[0]
	if matrix.Source != media.SourceRadarr || matrix.ExternalID != "5" {
		t.Fatalf("unexpected record: %+v", matrix)
	}
	if matrix.FileSizeBytes != 4294967296 || matrix.QualityTag != "Bluray-1080p" {
		t.Fatalf("unexpected file attributes: %+v", matrix)
	}
	// Tag 9 has no label and is dropped.
	if len(matrix.Tags) != 1 || matrix.Tags[0] != "keep" {
		t.Fatalf("unexpected tags: %v", matrix.Tags)
	}

	heat := records[1]
	if heat.FileSizeBytes != 0 || heat.QualityTag != "" {
		t.Fatalf("fileless movie should have no file attributes: %+v", heat)
	}
}

func TestAddMoviePostsPayload(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v3/movie" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))

	err := client.AddMovie(context.Background(), radarr.AddMovieRequest{
		Title:            "Heat",
		Year:             1995,
		TmdbID:           949,
		QualityProfileID: 4,
		RootFolderPath:   "/movies",
		SearchNow:        true,
	})
	if err != nil {
		t.Fatalf("add movie: %v", err)
	}
	if captured["title"] != "Heat" || captured["qualityProfileId"] != float64(4) {
		t.Fatalf("unexpected payload: %v", captured)
	}
	addOptions, ok := captured["addOptions"].(map[string]any)
	if !ok || addOptions["searchForMovie"] != true {
		t.Fatalf("unexpected addOptions: %v", captured["addOptions"])
	}
	if captured["monitored"] != true {
		t.Fatalf("movie must be monitored: %v", captured)
	}
}

func TestDeleteMoviePassesDeleteFiles(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/v3/movie/5" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("deleteFiles") != "true" {
			t.Fatalf("expected deleteFiles=true, got %q", r.URL.RawQuery)
		}
	}))

	if err := client.DeleteMovie(context.Background(), "5", true); err != nil {
		t.Fatalf("delete movie: %v", err)
	}
}

func TestDeleteMovieRejectsBadID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no request expected")
	}))
	if err := client.DeleteMovie(context.Background(), "abc", false); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
}

func TestListMovieFiles(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/moviefile" || r.URL.Query().Get("movieId") != "5" {
			t.Fatalf("unexpected request %s", r.URL.String())
		}
		_, _ = w.Write([]byte(`[
      {"id":50,"movieId":5,"relativePath":"a.mkv","size":100,"quality":{"quality":{"name":"Bluray-1080p"}}},
      {"id":51,"movieId":5,"relativePath":"b.mkv","size":200,"quality":{"quality":{"name":"WEBDL-720p"}}}
    ]`))
	}))

	files, err := client.ListMovieFiles(context.Background(), "5")
	if err != nil {
		t.Fatalf("list movie files: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[0].ID != "50" || files[0].Quality != "Bluray-1080p" || files[0].SizeBytes != 100 {
		t.Fatalf("unexpected file: %+v", files[0])
	}
}

func TestQualityProfilesAndRootFolders(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/qualityprofile":
			_, _ = w.Write([]byte(`[{"id":4,"name":"HD-1080p"}]`))
		case "/api/v3/rootfolder":
			_, _ = w.Write([]byte(`[{"id":1,"path":"/movies","freeSpace":1000}]`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	profiles, err := client.QualityProfiles(context.Background())
	if err != nil || len(profiles) != 1 || profiles[0].Name != "HD-1080p" {
		t.Fatalf("unexpected profiles: %v %v", profiles, err)
	}
	folders, err := client.RootFolders(context.Background())
	if err != nil || len(folders) != 1 || folders[0].Path != "/movies" {
		t.Fatalf("unexpected folders: %v %v", folders, err)
	}
}

func TestNotFoundMapsSentinel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	if err := client.DeleteMovieFile(context.Background(), "50"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
