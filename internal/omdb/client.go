// Package omdb talks to the OMDb movie database on behalf of the proxy.
package omdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Upstream defines the calls the proxy makes against OMDb.
// This interface is implemented by *Client and can be replaced in tests.
type Upstream interface {
	Search(ctx context.Context, title string) ([]byte, error)
	Lookup(ctx context.Context, imdbID string) ([]byte, error)
}

// Ensure Client implements Upstream at compile time.
var _ Upstream = (*Client)(nil)

// Client forwards queries to OMDb with a server-held API key.
type Client struct {
	baseURL   *url.URL
	apiKey    string
	http      *http.Client
	userAgent string
}

const (
	DefaultBaseURL   = "https://omdbapi.com"
	defaultUserAgent = "cinesearch-proxy/0.1"
	requestTimeout   = 10 * time.Second
	maxBodyBytes     = 4 << 20
)

// NewClient builds a Client for baseURL. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL, apiKey string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// SearchURL returns the upstream URL for a title search.
func (c *Client) SearchURL(title string) string {
	return c.buildURL(url.Values{"s": {title}})
}

// LookupURL returns the upstream URL for a single movie lookup.
func (c *Client) LookupURL(imdbID string) string {
	return c.buildURL(url.Values{"i": {imdbID}, "plot": {"full"}})
}

// Search returns the raw upstream body for a title search.
func (c *Client) Search(ctx context.Context, title string) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	return c.get(ctx, c.SearchURL(title))
}

// Lookup returns the raw upstream body for an IMDb id.
func (c *Client) Lookup(ctx context.Context, imdbID string) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(imdbID) == "" {
		return nil, fmt.Errorf("imdb id required")
	}
	return c.get(ctx, c.LookupURL(imdbID))
}

// buildURL yields <base>/?apikey=<key>&<params>. The key always leads.
func (c *Client) buildURL(params url.Values) string {
	u := *c.baseURL
	u.Path = "/"
	query := "apikey=" + url.QueryEscape(c.apiKey)
	if rest := params.Encode(); rest != "" {
		query += "&" + rest
	}
	u.RawQuery = query
	return u.String()
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
