package main

import (
	"encoding/json"
	"testing"
)

func TestListCommandRendersMergedTable(t *testing.T) {
	plexURL, radarrURL := newTestBackends(t)
	configPath := writeTestConfig(t, plexURL, radarrURL)

	out, _, err := runCLI(t, []string{"--config", configPath, "list"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	requireContains(t, out, "The Matrix")
	requireContains(t, out, "Heat")
	requireContains(t, out, "Both")
	requireContains(t, out, "Radarr")
	requireContains(t, out, "2 movie(s)")
}

func TestListCommandJSONOutput(t *testing.T) {
	plexURL, radarrURL := newTestBackends(t)
	configPath := writeTestConfig(t, plexURL, radarrURL)

	out, _, err := runCLI(t, []string{"--config", configPath, "list", "--json", "--sort", "title"})
	if err != nil {
		t.Fatalf("list --json: %v", err)
	}

	var views []entityView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("parse output: %v\n%s", err, out)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(views))
	}
	if views[0].Title != "Heat" || views[0].Availability != "Radarr" {
		t.Fatalf("unexpected first entity %+v", views[0])
	}
	if views[1].Title != "The Matrix" || views[1].Availability != "Both" {
		t.Fatalf("unexpected second entity %+v", views[1])
	}
	if views[1].SourceIDs["plex"] != "101" || views[1].SourceIDs["radarr"] != "5" {
		t.Fatalf("unexpected source IDs %+v", views[1].SourceIDs)
	}
}

func TestListCommandFiltersByAvailability(t *testing.T) {
	plexURL, radarrURL := newTestBackends(t)
	configPath := writeTestConfig(t, plexURL, radarrURL)

	out, _, err := runCLI(t, []string{"--config", configPath, "list", "--availability", "radarr", "--json"})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}

	var views []entityView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(views) != 1 || views[0].Title != "Heat" {
		t.Fatalf("expected only Heat, got %+v", views)
	}
}

func TestListCommandRejectsConflictingFilters(t *testing.T) {
	plexURL, radarrURL := newTestBackends(t)
	configPath := writeTestConfig(t, plexURL, radarrURL)

	_, _, err := runCLI(t, []string{"--config", configPath, "list", "--has-size", "--no-size"})
	if err == nil {
		t.Fatal("expected mutual exclusion error")
	}
	requireContains(t, err.Error(), "mutually exclusive")
}
