package webhook

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"plexrr/internal/config"
)

type recordingRunner struct {
	mu   sync.Mutex
	runs [][]string
	done chan struct{}
}

func newRecordingRunner(expected int) *recordingRunner {
	return &recordingRunner{done: make(chan struct{}, expected)}
}

func (r *recordingRunner) Run(ctx context.Context, args []string) error {
	r.mu.Lock()
	r.runs = append(r.runs, args)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func (r *recordingRunner) wait(t *testing.T) [][]string {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for dispatch")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	runs := make([][]string, len(r.runs))
	copy(runs, r.runs)
	return runs
}

const scrobblePayload = `{
  "event": "media.scrobble",
  "Account": {"title": "alice"},
  "Player": {"title": "shield"},
  "Metadata": {
    "type": "episode",
    "title": "Half Loop",
    "grandparentTitle": "Severance",
    "parentIndex": 1,
    "index": 2,
    "ratingKey": "302"
  }
}`

func newServer(events map[string][]string, runner CommandRunner) *Server {
	return New(config.Webhooks{Host: "127.0.0.1", Events: events}, runner, nil)
}

func TestDeliveryDispatchesMappedEvent(t *testing.T) {
	runner := newRecordingRunner(1)
	srv := newServer(map[string][]string{
		"after-watched": {"download-next --show-title ${title} --count 1"},
	}, runner)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(scrobblePayload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.handleDelivery(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	runs := runner.wait(t)
	want := []string{"download-next", "--show-title", "Severance", "--count", "1"}
	if len(runs) != 1 || !reflect.DeepEqual(runs[0], want) {
		t.Fatalf("unexpected runs: %v", runs)
	}
}

func TestDeliveryIgnoresUnmappedEvent(t *testing.T) {
	runner := newRecordingRunner(1)
	srv := newServer(map[string][]string{"after-watched": {"list"}}, runner)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"event":"media.unknown"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.handleDelivery(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(runner.runs) != 0 {
		t.Fatalf("no commands should run")
	}
}

func TestDeliveryRejectsBadPayload(t *testing.T) {
	srv := newServer(nil, newRecordingRunner(1))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.handleDelivery(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestDeliveryRejectsGet(t *testing.T) {
	srv := newServer(nil, newRecordingRunner(1))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	srv.handleDelivery(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestMultipartPayloadField(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("payload", scrobblePayload); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	payload, err := ParseRequest(req)
	if err != nil {
		t.Fatalf("parse request: %v", err)
	}
	if payload.Event != "media.scrobble" || payload.Metadata.GrandparentTitle != "Severance" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestHealthz(t *testing.T) {
	srv := newServer(nil, newRecordingRunner(1))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.handleHealthz(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestEventKeyMapping(t *testing.T) {
	cases := map[string]string{
		"media.play":      "on-play",
		"media.scrobble":  "after-watched",
		"library.new":     "on-added",
		"library.on.deck": "on-deck",
		"media.unknown":   "",
	}
	for event, want := range cases {
		payload := Payload{Event: event}
		if got := payload.EventKey(); got != want {
			t.Fatalf("event %q: expected %q, got %q", event, want, got)
		}
	}
}

func TestExpandCommandKeepsTitlesSingleArgument(t *testing.T) {
	args := ExpandCommand("delete --title ${title} --year ${year}", map[string]string{
		"title": "The Matrix Reloaded",
		"year":  "2003",
	})
	want := []string{"delete", "--title", "The Matrix Reloaded", "--year", "2003"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestExpandCommandUnknownPlaceholderEmpty(t *testing.T) {
	args := ExpandCommand("list ${nope}", nil)
	want := []string{"list", ""}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestMoviePlaceholdersUseMetadataTitle(t *testing.T) {
	var payload Payload
	payload.Event = "media.play"
	payload.Metadata.Type = "movie"
	payload.Metadata.Title = "Heat"
	payload.Metadata.Year = 1995

	values := payload.Placeholders()
	if values["title"] != "Heat" || values["year"] != "1995" {
		t.Fatalf("unexpected values: %v", values)
	}
}

func TestStartStopWithLock(t *testing.T) {
	lockPath := t.TempDir() + "/webhook.lock"
	srv := New(config.Webhooks{Host: "127.0.0.1", Port: 0, LockFile: lockPath}, newRecordingRunner(1), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if srv.Addr() == "" {
		t.Fatalf("expected bound address")
	}

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	srv.Stop()
}

func TestStopIsIdempotent(t *testing.T) {
	lockPath := t.TempDir() + "/webhook.lock"
	srv := New(config.Webhooks{Host: "127.0.0.1", Port: 0, LockFile: lockPath}, newRecordingRunner(1), nil)

	ctx, cancel := context.WithCancel(context.Background())
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Cancelling triggers the shutdown goroutine while the caller also
	// stops explicitly, as the serve command does.
	cancel()
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			srv.Stop()
		}()
	}
	wg.Wait()
	srv.Stop()
}
