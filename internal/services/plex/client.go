package plex

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"plexrr/internal/config"
	"plexrr/internal/services"
)

const sourceName = "plex"

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to a Plex media server.
type Client struct {
	baseURL      string
	token        string
	watchlistURL string
	httpClient   HTTPDoer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a Plex client from config.
func New(cfg config.Plex, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, sourceName, "new", "url required", nil)
	}
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, services.Wrap(services.ErrConfiguration, sourceName, "new", "token required", nil)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &Client{
		baseURL:      baseURL,
		token:        token,
		watchlistURL: strings.TrimSpace(cfg.WatchlistRSS),
		httpClient:   &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func (c *Client) get(ctx context.Context, rawURL, operation string, payload any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return services.Wrap(services.ErrTransient, sourceName, operation, "build request", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapTransport(operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return services.Wrap(services.ErrNotFound, sourceName, operation, "", nil)
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(services.ErrSourceUnavailable, sourceName, operation,
			fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	if err := xml.NewDecoder(resp.Body).Decode(payload); err != nil {
		return services.Wrap(services.ErrSourceUnavailable, sourceName, operation, "decode response", err)
	}
	return nil
}

// DeleteItem removes a library item by rating key.
func (c *Client) DeleteItem(ctx context.Context, ratingKey string) error {
	ratingKey = strings.TrimSpace(ratingKey)
	if ratingKey == "" {
		return services.Wrap(services.ErrNotFound, sourceName, "delete item", "empty rating key", nil)
	}

	deleteURL := fmt.Sprintf("%s/library/metadata/%s", c.baseURL, ratingKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, deleteURL, nil)
	if err != nil {
		return services.Wrap(services.ErrTransient, sourceName, "delete item", "build request", err)
	}
	req.Header.Set("X-Plex-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapTransport("delete item", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return services.Wrap(services.ErrNotFound, sourceName, "delete item", "rating key "+ratingKey, nil)
	}
	if resp.StatusCode >= 300 {
		return services.Wrap(services.ErrSourceUnavailable, sourceName, "delete item",
			fmt.Sprintf("status %d", resp.StatusCode), nil)
	}
	return nil
}

func wrapTransport(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, sourceName, operation, "", err)
	}
	return services.Wrap(services.ErrSourceUnavailable, sourceName, operation, "", err)
}
