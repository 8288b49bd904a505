package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/cinesearch/internal/omdb"
)

// MovieFetcher defines the proxy calls the client makes.
// This interface is implemented by *Client and can be used for testing.
type MovieFetcher interface {
	SearchMovies(ctx context.Context, title string) (omdb.SearchResponse, error)
	MovieDetail(ctx context.Context, imdbID string) (omdb.DetailedMovie, error)
}

// Ensure Client implements MovieFetcher at compile time.
var _ MovieFetcher = (*Client)(nil)

// Client talks to the cinesearch proxy.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	DefaultProxyURL  = "http://127.0.0.1:3000"
	defaultUserAgent = "cinesearch/0.1"
	requestTimeout   = 10 * time.Second
)

// StatusError reports a non-2xx answer from the proxy.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// NewClient builds a Client for the proxy at proxyURL (host:port or full URL).
func NewClient(proxyURL string) (*Client, error) {
	base, err := parseBaseURL(proxyURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL reports the proxy address requests go to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SearchMovies calls /api/movies for title. The envelope is returned as decoded;
// an application-level failure (Response "False") is not an error here.
func (c *Client) SearchMovies(ctx context.Context, title string) (omdb.SearchResponse, error) {
	if c == nil {
		return omdb.SearchResponse{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("title", title)
	rel := &url.URL{Path: "/api/movies", RawQuery: values.Encode()}
	var payload omdb.SearchResponse
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return omdb.SearchResponse{}, err
	}
	return payload, nil
}

// MovieDetail calls /api/movie for one IMDb id.
func (c *Client) MovieDetail(ctx context.Context, imdbID string) (omdb.DetailedMovie, error) {
	if c == nil {
		return omdb.DetailedMovie{}, fmt.Errorf("client is nil")
	}
	id := strings.TrimSpace(imdbID)
	if id == "" {
		return omdb.DetailedMovie{}, fmt.Errorf("imdb id required")
	}
	values := url.Values{}
	values.Set("id", id)
	rel := &url.URL{Path: "/api/movie", RawQuery: values.Encode()}
	var payload omdb.DetailedMovie
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return omdb.DetailedMovie{}, err
	}
	return payload, nil
}

// Health checks that the proxy answers /healthz.
func (c *Client) Health(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.doURL(ctx, http.MethodGet, &url.URL{Path: "/healthz"}, nil)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Path: rel.Path, Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(proxyURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(proxyURL)
	if trimmed == "" {
		trimmed = DefaultProxyURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse proxy_url %q: %w", proxyURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse proxy_url %q: missing host", proxyURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
