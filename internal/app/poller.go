package app

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// HealthChecker is the proxy call the poller makes.
// *apiclient.Client implements it.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// StartHealthPoller checks the proxy in a background goroutine and hands each
// result to report. Failed checks back off up to maxBackoff. It returns immediately.
func StartHealthPoller(ctx context.Context, checker HealthChecker, interval time.Duration, logger *slog.Logger, report func(error)) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	go func() {
		failures := 0
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			err := checkOnce(ctx, checker, interval)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				if failures == 0 {
					logger.Warn("proxy health check failed", "error", err)
				}
				failures++
			} else {
				if failures > 0 {
					logger.Info("proxy reachable again", "failed_checks", failures)
				}
				failures = 0
			}
			report(err)
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

func checkOnce(ctx context.Context, checker HealthChecker, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return checker.Health(ctx)
}

// calculateBackoff doubles the interval per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
