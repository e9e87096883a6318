package sonarr_test

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
	"plexrr/internal/services/sonarr"
)

const seriesJSON = `[
  {
    "id": 8,
    "title": "Severance",
    "year": 2022,
    "tvdbId": 371980,
    "added": "2023-03-01T00:00:00Z",
    "tags": [3],
    "statistics": {
      "seasonCount": 2,
      "episodeCount": 18,
      "episodeFileCount": 18,
      "sizeOnDisk": 53687091200
    }
  }
]`

const episodesJSON = `[
  {"id":80,"seriesId":8,"title":"Good News About Hell","seasonNumber":1,"episodeNumber":1,"hasFile":true},
  {"id":81,"seriesId":8,"title":"Half Loop","seasonNumber":1,"episodeNumber":2,"hasFile":false}
]`

func newTestClient(t *testing.T, handler http.Handler) *sonarr.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := sonarr.New(config.Sonarr{Enabled: true, URL: server.URL, APIKey: "key", TimeoutSeconds: 5})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := sonarr.New(config.Sonarr{URL: "http://example.com"})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestListSeriesNormalizesRecords(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/series":
			_, _ = w.Write([]byte(seriesJSON))
		case "/api/v3/tag":
			_, _ = w.Write([]byte(`[{"id":3,"label":"favorite"}]`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	records, err := client.ListSeries(context.Background())
	if err != nil {
		t.Fatalf("list series: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	show := records[0]
	if show.Source != media.SourceSonarr || show.Type != media.TypeShow || show.ExternalID != "8" {
		t.Fatalf("unexpected record: %+v", show)
	}
	if show.FileSizeBytes != 53687091200 || show.EpisodeCount != 18 || show.SeasonCount != 2 {
		t.Fatalf("unexpected statistics: %+v", show)
	}
	if len(show.Tags) != 1 || show.Tags[0] != "favorite" {
		t.Fatalf("unexpected tags: %v", show.Tags)
	}
}

func TestListEpisodes(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/episode" || r.URL.Query().Get("seriesId") != "8" {
			t.Fatalf("unexpected request %s", r.URL.String())
		}
		_, _ = w.Write([]byte(episodesJSON))
	}))

	episodes, err := client.ListEpisodes(context.Background(), "8")
	if err != nil {
		t.Fatalf("list episodes: %v", err)
	}
	if len(episodes) != 2 {
		t.Fatalf("expected 2 episodes, got %d", len(episodes))
	}
	if episodes[0].Code() != "S01E01" || !episodes[0].HasFile {
		t.Fatalf("unexpected episode: %+v", episodes[0])
	}
}

func TestRequestEpisodeIssuesSearchCommand(t *testing.T) {
	var command map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v3/episode":
			_, _ = w.Write([]byte(episodesJSON))
		case r.URL.Path == "/api/v3/command" && r.Method == http.MethodPost:
			if err := json.NewDecoder(r.Body).Decode(&command); err != nil {
				t.Fatalf("decode command: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	if err := client.RequestEpisode(context.Background(), "8", 1, 2); err != nil {
		t.Fatalf("request episode: %v", err)
	}
	if command["name"] != "EpisodeSearch" {
		t.Fatalf("unexpected command: %v", command)
	}
	ids, ok := command["episodeIds"].([]any)
	if !ok || len(ids) != 1 || ids[0] != float64(81) {
		t.Fatalf("unexpected episode ids: %v", command["episodeIds"])
	}
}

func TestRequestEpisodeUnknownEpisode(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(episodesJSON))
	}))

	if err := client.RequestEpisode(context.Background(), "8", 9, 9); err == nil {
		t.Fatalf("expected error for unknown episode")
	}
}

func TestDeleteSeriesPassesDeleteFiles(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/v3/series/8" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("deleteFiles") != "false" {
			t.Fatalf("expected deleteFiles=false, got %q", r.URL.RawQuery)
		}
	}))

	if err := client.DeleteSeries(context.Background(), "8", false); err != nil {
		t.Fatalf("delete series: %v", err)
	}
}

func TestServerErrorMapsUnavailable(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	if _, err := client.ListSeries(context.Background()); !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
}
