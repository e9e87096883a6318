package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the root command with args and returns stdout, stderr,
// and the command error.
func runCLI(t *testing.T, args []string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

// writeTestConfig writes a config file pointing both backends at the
// given URLs and returns its path.
func writeTestConfig(t *testing.T, plexURL, radarrURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	content := fmt.Sprintf(`plex:
  url: %s
  token: test-token
radarr:
  url: %s
  api_key: test-key
`, plexURL, radarrURL)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const testSectionsXML = `<?xml version="1.0"?>
<MediaContainer>
  <Directory key="1" type="movie" title="Movies"/>
</MediaContainer>`

const testMoviesXML = `<?xml version="1.0"?>
<MediaContainer>
  <Video ratingKey="101" title="The Matrix" year="1999" addedAt="1700000000" viewCount="1" lastViewedAt="1700100000" duration="8177000">
    <Media videoResolution="1080">
      <Part size="8589934592"/>
    </Media>
  </Video>
</MediaContainer>`

const testRadarrMoviesJSON = `[
  {
    "id": 5,
    "title": "The Matrix",
    "year": 1999,
    "tmdbId": 603,
    "added": "2023-01-02T15:04:05Z",
    "hasFile": true,
    "tags": [],
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

// newTestBackends starts fake Plex and Radarr servers holding one
// overlapping movie and one Radarr-only movie.
func newTestBackends(t *testing.T) (plexURL, radarrURL string) {
	t.Helper()

	plexServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/library/sections":
			_, _ = w.Write([]byte(testSectionsXML))
		case "/library/sections/1/all":
			_, _ = w.Write([]byte(testMoviesXML))
		default:
			t.Errorf("unexpected plex path %s", r.URL.Path)
		}
	}))
	t.Cleanup(plexServer.Close)

	radarrServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/movie":
			_, _ = w.Write([]byte(testRadarrMoviesJSON))
		case "/api/v3/tag":
			_, _ = w.Write([]byte(`[]`))
		default:
			t.Errorf("unexpected radarr path %s", r.URL.Path)
		}
	}))
	t.Cleanup(radarrServer.Close)

	return plexServer.URL, radarrServer.URL
}
