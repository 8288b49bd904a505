package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/cinesearch/internal/apiclient"
	"github.com/five82/cinesearch/internal/config"
	"github.com/five82/cinesearch/internal/logging"
	"github.com/five82/cinesearch/internal/movies"
	"github.com/five82/cinesearch/internal/prefs"
	"github.com/five82/cinesearch/internal/query"
	"github.com/five82/cinesearch/internal/state"
	"github.com/five82/cinesearch/internal/ui"
)

const redisKeyPrefix = "cinesearch"

// Options configure the cinesearch client.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/cinesearch/prefs.toml
	Debug      bool
	PollEvery  time.Duration // proxy health check interval; zero uses default
}

// Run boots the terminal client until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := logging.Init(logging.Options{Debug: opts.Debug, Path: cfg.LogPath})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := apiclient.NewClient(cfg.ProxyURL)
	if err != nil {
		return fmt.Errorf("init proxy client: %w", err)
	}

	backend, closeBackend := openBackend(ctx, cfg.RedisAddr, logger)
	defer closeBackend()

	store := state.New(cfg.InitialMessage)
	searcher := movies.NewSearcher(store, client, movies.Options{
		StaleTime: cfg.StaleTime,
		Backend:   backend,
		Logger:    logger,
	})

	logger.Info("starting cinesearch",
		"proxy", client.BaseURL(),
		"stale_time", cfg.StaleTime,
		"redis", backend != nil,
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := ui.NewProgram(ui.Options{
		Context:   runCtx,
		Store:     store,
		Source:    searcher,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		LogPath:   cfg.LogPath,
		Logger:    logger,
	})

	// Listeners run on the goroutine that changed the store, which may be the
	// program's own event loop; Send must not block it.
	notify := func(state.SearchState) { go program.Send(ui.StoreChangedMsg{}) }
	defer store.Subscribe(state.FieldSearchText, notify)()
	defer store.Subscribe(state.FieldMessage, notify)()

	StartHealthPoller(runCtx, client, opts.PollEvery, logger, func(err error) {
		program.Send(ui.ProxyStatusMsg{Err: err})
	})

	if _, err := program.Run(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// openBackend connects the optional Redis cache. A failed connection is logged
// and the client falls back to the in-memory cache.
func openBackend(ctx context.Context, addr string, logger *slog.Logger) (query.Backend, func()) {
	if addr == "" {
		return nil, func() {}
	}
	rdb, err := query.DialRedis(ctx, addr)
	if err != nil {
		logger.Warn("redis unavailable; caching in memory only", "addr", addr, "error", err)
		return nil, func() {}
	}
	return query.NewRedisBackend(rdb, redisKeyPrefix), func() { _ = rdb.Close() }
}
