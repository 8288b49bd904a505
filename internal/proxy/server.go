package proxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/five82/cinesearch/internal/omdb"
)

const shutdownTimeout = 5 * time.Second

// Handler forwards movie queries to OMDb.
type Handler struct {
	upstream omdb.Upstream
	logger   *slog.Logger
}

// NewHandler builds a Handler over upstream.
func NewHandler(upstream omdb.Upstream, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{upstream: upstream, logger: logger}
}

// errorEnvelope matches the failure shape of OMDb so clients need one decoder.
type errorEnvelope struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

func failure(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorEnvelope{Response: omdb.ResponseFalse, Error: msg})
}

// Movies handles GET /api/movies?title=. The upstream body is passed through
// untouched with 200, whatever its Response flag says.
func (h *Handler) Movies(c echo.Context) error {
	title := c.QueryParam("title")
	body, err := h.upstream.Search(c.Request().Context(), title)
	if err != nil {
		h.logger.Warn("upstream search failed", "title", title, "error", err)
		return failure(c, http.StatusBadGateway, "Upstream request failed.")
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
}

// Movie handles GET /api/movie?id=.
func (h *Handler) Movie(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return failure(c, http.StatusBadRequest, "Missing IMDb id.")
	}
	body, err := h.upstream.Lookup(c.Request().Context(), id)
	if err != nil {
		h.logger.Warn("upstream lookup failed", "imdb_id", id, "error", err)
		return failure(c, http.StatusBadGateway, "Upstream request failed.")
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
}

// Health is the liveness endpoint.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Register maps the proxy routes onto e.
func Register(e *echo.Echo, h *Handler) {
	e.GET("/healthz", Health)
	api := e.Group("/api")
	api.GET("/movies", h.Movies)
	api.GET("/movie", h.Movie)
}

// NewServer returns an echo instance with request logging, recovery and routes.
func NewServer(upstream omdb.Upstream, logger *slog.Logger) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		LogRemoteIP: true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"remote_ip", v.RemoteIP,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				logger.Error("request", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.Info("request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	Register(e, NewHandler(upstream, logger))
	return e
}

// Run serves cfg.Addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIKey == "" {
		logger.Warn("OMDB_API_KEY is not set; forwarding requests with an empty key")
	}
	client, err := omdb.NewClient(cfg.BaseURL, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("create omdb client: %w", err)
	}
	e := NewServer(client, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("proxy listening", "addr", cfg.Addr, "env", cfg.Env, "upstream", cfg.BaseURL)
		errCh <- e.Start(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("proxy stopped")
	return nil
}
