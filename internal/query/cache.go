package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultStaleTime  = time.Hour
	DefaultRetry      = 1
	defaultRetryDelay = time.Second
)

// Status is the lifecycle position of one cache key.
type Status int

const (
	StatusIdle Status = iota
	StatusFetching
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusFetching:
		return "fetching"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Entry is the cached state of one key. Data survives a failed refetch.
type Entry[T any] struct {
	Status    Status
	Data      T
	Err       error
	UpdatedAt time.Time
}

// Backend is an optional second-level store shared beyond this process.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Options tune a Cache. Zero values select the defaults.
type Options struct {
	StaleTime  time.Duration
	Retry      int // extra attempts after a retryable failure; negative disables
	RetryDelay time.Duration
	Namespace  string
	Backend    Backend
	Logger     *slog.Logger
	Now        func() time.Time
}

// Cache runs keyed fetches at most once per key at a time and keeps their results
// until they are older than StaleTime.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]*Entry[T]
	group   singleflight.Group

	staleTime  time.Duration
	retry      int
	retryDelay time.Duration
	namespace  string
	backend    Backend
	logger     *slog.Logger
	now        func() time.Time
}

// FetchFunc performs the underlying request for one key.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// New builds a Cache from opts.
func New[T any](opts Options) *Cache[T] {
	c := &Cache[T]{
		entries:    make(map[string]*Entry[T]),
		staleTime:  opts.StaleTime,
		retry:      opts.Retry,
		retryDelay: opts.RetryDelay,
		namespace:  opts.Namespace,
		backend:    opts.Backend,
		logger:     opts.Logger,
		now:        opts.Now,
	}
	if c.staleTime <= 0 {
		c.staleTime = DefaultStaleTime
	}
	if c.retry == 0 {
		c.retry = DefaultRetry
	}
	if c.retry < 0 {
		c.retry = 0
	}
	if c.retryDelay <= 0 {
		c.retryDelay = defaultRetryDelay
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// StaleTime reports the freshness window.
func (c *Cache[T]) StaleTime() time.Duration {
	return c.staleTime
}

// Fetch returns fresh cached data for key, or runs fn. Concurrent callers for the
// same key share a single run; the first caller's context governs it.
func (c *Cache[T]) Fetch(ctx context.Context, key string, fn FetchFunc[T]) (T, error) {
	if data, ok := c.fresh(key); ok {
		return data, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A run that finished between the check above and Do already filled the entry.
		if data, ok := c.fresh(key); ok {
			return data, nil
		}
		c.markFetching(key)

		if data, at, ok := c.load(ctx, key); ok {
			c.markSuccess(key, data, at)
			return data, nil
		}

		data, err := c.run(ctx, fn)
		if err != nil {
			c.markError(key, err)
			return nil, err
		}
		at := c.markSuccess(key, data, c.now())
		c.store(ctx, key, data, at)
		return data, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Entry returns a copy of the entry for key.
func (c *Cache[T]) Entry(key string) (Entry[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Entry[T]{}, false
	}
	return *e, true
}

// Status reports the lifecycle position of key; unknown keys are idle.
func (c *Cache[T]) Status(key string) Status {
	e, ok := c.Entry(key)
	if !ok {
		return StatusIdle
	}
	return e.Status
}

// IsStale reports whether the next Fetch for key would go past the memory cache.
func (c *Cache[T]) IsStale(key string) bool {
	_, ok := c.fresh(key)
	return !ok
}

// Invalidate drops key from memory and from the backend.
func (c *Cache[T]) Invalidate(ctx context.Context, key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	if c.backend != nil {
		if err := c.backend.Delete(ctx, c.backendKey(key)); err != nil {
			c.logger.Warn("cache backend delete failed", "key", key, "error", err)
		}
	}
}

// Clear drops every in-memory entry.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*Entry[T])
	c.mu.Unlock()
}

func (c *Cache[T]) fresh(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.Status != StatusSuccess || c.now().Sub(e.UpdatedAt) >= c.staleTime {
		var zero T
		return zero, false
	}
	return e.Data, true
}

func (c *Cache[T]) run(ctx context.Context, fn FetchFunc[T]) (T, error) {
	var (
		data T
		err  error
	)
	for attempt := 0; attempt <= c.retry; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying fetch", "attempt", attempt, "error", err)
			select {
			case <-ctx.Done():
				return data, fmt.Errorf("retry aborted: %w", ctx.Err())
			case <-time.After(c.retryDelay):
			}
		}
		data, err = fn(ctx)
		if err == nil || IsPermanent(err) {
			return data, err
		}
	}
	return data, err
}

func (c *Cache[T]) entry(key string) *Entry[T] {
	e, ok := c.entries[key]
	if !ok {
		e = &Entry[T]{}
		c.entries[key] = e
	}
	return e
}

func (c *Cache[T]) markFetching(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	e.Status = StatusFetching
	e.Err = nil
}

func (c *Cache[T]) markSuccess(key string, data T, at time.Time) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	e.Status = StatusSuccess
	e.Data = data
	e.Err = nil
	e.UpdatedAt = at
	return at
}

func (c *Cache[T]) markError(key string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	e.Status = StatusError
	e.Err = err
}

// stored is the backend wire form; UpdatedAt keeps the window honest across processes.
type stored[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

func (c *Cache[T]) load(ctx context.Context, key string) (T, time.Time, bool) {
	var zero T
	if c.backend == nil {
		return zero, time.Time{}, false
	}
	raw, ok, err := c.backend.Get(ctx, c.backendKey(key))
	if err != nil {
		c.logger.Warn("cache backend read failed", "key", key, "error", err)
		return zero, time.Time{}, false
	}
	if !ok {
		return zero, time.Time{}, false
	}
	var s stored[T]
	if err := json.Unmarshal(raw, &s); err != nil {
		c.logger.Warn("cache backend entry undecodable", "key", key, "error", err)
		return zero, time.Time{}, false
	}
	if c.now().Sub(s.UpdatedAt) >= c.staleTime {
		return zero, time.Time{}, false
	}
	return s.Data, s.UpdatedAt, true
}

func (c *Cache[T]) store(ctx context.Context, key string, data T, at time.Time) {
	if c.backend == nil {
		return
	}
	raw, err := json.Marshal(stored[T]{UpdatedAt: at, Data: data})
	if err != nil {
		c.logger.Warn("cache backend encode failed", "key", key, "error", err)
		return
	}
	if err := c.backend.Set(ctx, c.backendKey(key), raw, c.staleTime); err != nil {
		c.logger.Warn("cache backend write failed", "key", key, "error", err)
	}
}

func (c *Cache[T]) backendKey(key string) string {
	if c.namespace == "" {
		return key
	}
	return c.namespace + ":" + key
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err so that Fetch surfaces it without retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
