package plex

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"plexrr/internal/media"
	"plexrr/internal/services"
)

type watchlistFeed struct {
	Channel struct {
		Items []watchlistItem `xml:"item"`
	} `xml:"channel"`
}

type watchlistItem struct {
	Title    string `xml:"title"`
	Category string `xml:"category"`
	PubDate  string `xml:"pubDate"`
}

var titleYearPattern = regexp.MustCompile(`^(.*)\((\d{4})\)\s*$`)

// ListWatchlist fetches and parses the account watchlist RSS feed. It
// returns an empty slice when no feed URL is configured.
func (c *Client) ListWatchlist(ctx context.Context) ([]media.WatchlistEntry, error) {
	if c.watchlistURL == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.watchlistURL, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, sourceName, "list watchlist", "build request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapTransport("list watchlist", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, services.Wrap(services.ErrSourceUnavailable, sourceName, "list watchlist",
			fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var feed watchlistFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, sourceName, "list watchlist", "decode feed", err)
	}

	entries := make([]media.WatchlistEntry, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		entry := media.WatchlistEntry{Type: media.TypeMovie}
		entry.Title, entry.Year = splitTitleYear(item.Title)
		if entry.Title == "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(item.Category), "show") {
			entry.Type = media.TypeShow
		}
		if ts, err := time.Parse(time.RFC1123Z, strings.TrimSpace(item.PubDate)); err == nil {
			entry.AddedAt = ts.UTC()
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// splitTitleYear parses feed titles of the form "Name (2010)". Titles
// without a trailing year parse with year zero.
func splitTitleYear(raw string) (string, int) {
	raw = strings.TrimSpace(raw)
	if m := titleYearPattern.FindStringSubmatch(raw); m != nil {
		year, _ := strconv.Atoi(m[2])
		return strings.TrimSpace(m[1]), year
	}
	return raw, 0
}
