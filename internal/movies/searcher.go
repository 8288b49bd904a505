package movies

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/five82/cinesearch/internal/apiclient"
	"github.com/five82/cinesearch/internal/omdb"
	"github.com/five82/cinesearch/internal/query"
	"github.com/five82/cinesearch/internal/state"
)

// FailureMessage is shown when the proxy could not be reached after the retry.
const FailureMessage = "Request failed. Please try again."

// APIError is an application-level failure reported inside the OMDb envelope.
type APIError struct {
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Options tune the caches behind a Searcher.
type Options struct {
	StaleTime  time.Duration
	RetryDelay time.Duration
	Backend    query.Backend
	Logger     *slog.Logger
	Now        func() time.Time
}

// Searcher turns the committed search text into cached movie results.
type Searcher struct {
	store  *state.Store
	api    apiclient.MovieFetcher
	search *query.Cache[[]omdb.SimpleMovie]
	detail *query.Cache[omdb.DetailedMovie]
	logger *slog.Logger
}

// NewSearcher wires a Searcher to the store it reads from and reports into.
func NewSearcher(store *state.Store, api apiclient.MovieFetcher, opts Options) *Searcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cacheOpts := func(ns string) query.Options {
		return query.Options{
			StaleTime:  opts.StaleTime,
			RetryDelay: opts.RetryDelay,
			Namespace:  ns,
			Backend:    opts.Backend,
			Logger:     logger,
			Now:        opts.Now,
		}
	}
	return &Searcher{
		store:  store,
		api:    api,
		search: query.New[[]omdb.SimpleMovie](cacheOpts("search")),
		detail: query.New[omdb.DetailedMovie](cacheOpts("movie")),
		logger: logger,
	}
}

// Movies returns results for the store's current search text.
func (s *Searcher) Movies(ctx context.Context) ([]omdb.SimpleMovie, error) {
	return s.MoviesFor(ctx, s.store.Snapshot().SearchText)
}

// MoviesFor returns results for text. Blank text yields an empty list without a
// request. Failures update the store message only while text is still committed.
func (s *Searcher) MoviesFor(ctx context.Context, text string) ([]omdb.SimpleMovie, error) {
	if strings.TrimSpace(text) == "" {
		return []omdb.SimpleMovie{}, nil
	}

	found, err := s.search.Fetch(ctx, text, func(ctx context.Context) ([]omdb.SimpleMovie, error) {
		resp, err := s.api.SearchMovies(ctx, text)
		if err != nil {
			return nil, err
		}
		if !resp.OK() {
			apiErr := &APIError{Message: resp.Error}
			s.report(text, apiErr.Message)
			return nil, query.Permanent(apiErr)
		}
		if resp.Search == nil {
			return []omdb.SimpleMovie{}, nil
		}
		return resp.Search, nil
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		s.logger.Warn("movie search failed", "search_text", text, "error", err)
		s.report(text, FailureMessage)
		return nil, fmt.Errorf("search %q: %w", text, err)
	}
	s.logger.Debug("movie search", "search_text", text, "results", len(found))
	return found, nil
}

// IsFetching reports whether a request for text is in flight.
func (s *Searcher) IsFetching(text string) bool {
	return s.search.Status(text) == query.StatusFetching
}

// Cached returns fresh results for text without fetching.
func (s *Searcher) Cached(text string) ([]omdb.SimpleMovie, bool) {
	if s.search.IsStale(text) {
		return nil, false
	}
	e, ok := s.search.Entry(text)
	return e.Data, ok
}

// Movie returns the full record for one IMDb id.
func (s *Searcher) Movie(ctx context.Context, imdbID string) (omdb.DetailedMovie, error) {
	id := strings.TrimSpace(imdbID)
	if id == "" {
		return omdb.DetailedMovie{}, errors.New("imdb id required")
	}
	movie, err := s.detail.Fetch(ctx, id, func(ctx context.Context) (omdb.DetailedMovie, error) {
		m, err := s.api.MovieDetail(ctx, id)
		if err != nil {
			return omdb.DetailedMovie{}, err
		}
		if !m.OK() {
			return omdb.DetailedMovie{}, query.Permanent(&APIError{Message: m.Error})
		}
		return m, nil
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return omdb.DetailedMovie{}, apiErr
		}
		s.logger.Warn("movie lookup failed", "imdb_id", id, "error", err)
		return omdb.DetailedMovie{}, fmt.Errorf("lookup %s: %w", id, err)
	}
	return movie, nil
}

func (s *Searcher) report(text, message string) {
	if s.store.Snapshot().SearchText != text {
		s.logger.Debug("dropping message for superseded search", "search_text", text)
		return
	}
	s.store.SetMessage(message)
}
