package webhook

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// Payload is the subset of a Plex webhook delivery the listener acts on.
type Payload struct {
	Event   string `json:"event"`
	Account struct {
		Title string `json:"title"`
	} `json:"Account"`
	Player struct {
		Title string `json:"title"`
	} `json:"Player"`
	Metadata struct {
		Type             string `json:"type"`
		Title            string `json:"title"`
		GrandparentTitle string `json:"grandparentTitle"`
		ParentIndex      int    `json:"parentIndex"`
		Index            int    `json:"index"`
		Year             int    `json:"year"`
		RatingKey        string `json:"ratingKey"`
	} `json:"Metadata"`
}

// eventKeys maps Plex event names onto the dispatch-table keys used in
// config.
var eventKeys = map[string]string{
	"media.play":      "on-play",
	"media.pause":     "on-pause",
	"media.resume":    "on-resume",
	"media.stop":      "on-stop",
	"media.scrobble":  "after-watched",
	"media.rate":      "on-rate",
	"library.new":     "on-added",
	"library.on.deck": "on-deck",
}

// EventKey returns the dispatch-table key for the payload's event, or
// "" when the event is not one the listener dispatches.
func (p Payload) EventKey() string {
	return eventKeys[p.Event]
}

// Placeholders returns the substitution values available to configured
// command templates.
func (p Payload) Placeholders() map[string]string {
	values := map[string]string{
		"event":      p.Event,
		"title":      p.Metadata.Title,
		"year":       strconv.Itoa(p.Metadata.Year),
		"show_title": p.Metadata.GrandparentTitle,
		"season":     strconv.Itoa(p.Metadata.ParentIndex),
		"episode":    strconv.Itoa(p.Metadata.Index),
		"rating_key": p.Metadata.RatingKey,
		"user":       p.Account.Title,
		"player":     p.Player.Title,
	}
	if p.Metadata.Type == "episode" && p.Metadata.GrandparentTitle != "" {
		values["title"] = p.Metadata.GrandparentTitle
	}
	return values
}

const maxPayloadBytes = 1 << 20

// ParseRequest extracts the webhook payload from a delivery. Plex sends
// multipart form data with a "payload" JSON field; plain JSON bodies are
// accepted for manual testing.
func ParseRequest(r *http.Request) (Payload, error) {
	var payload Payload

	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(maxPayloadBytes); err != nil {
			return payload, fmt.Errorf("parse form: %w", err)
		}
		raw := r.FormValue("payload")
		if raw == "" {
			return payload, fmt.Errorf("missing payload field")
		}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return payload, fmt.Errorf("decode payload: %w", err)
		}
	default:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
		if err != nil {
			return payload, fmt.Errorf("read body: %w", err)
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return payload, fmt.Errorf("decode payload: %w", err)
		}
	}

	if payload.Event == "" {
		return payload, fmt.Errorf("payload has no event")
	}
	return payload, nil
}
