// Package health gates startup on the service's readiness endpoint and
// keeps observing it once the window is up.
package health

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Config holds probe settings for one readiness endpoint.
type Config struct {
	Port     int
	Path     string
	Interval time.Duration // time between probes, also the per-probe timeout
	Timeout  time.Duration // overall deadline for WaitReady
}

func (c Config) url() string {
	return fmt.Sprintf("http://localhost:%d%s", c.Port, c.Path)
}

// WaitReady blocks until the endpoint answers 200 or the deadline passes.
// Individual probe failures (connection refused, non-200, slow response)
// mean "not ready yet" and are retried on the next tick. Cancelling ctx
// ends the wait early with a not-ready result.
func WaitReady(ctx context.Context, cfg Config, logger *slog.Logger) bool {
	client := &http.Client{Timeout: cfg.Interval}
	deadline := time.Now().Add(cfg.Timeout)

	attempts := 0
	for time.Now().Before(deadline) {
		attempts++
		if err := probe(ctx, client, cfg.url()); err == nil {
			logger.Info("service ready", "attempts", attempts)
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(cfg.Interval):
		}
	}

	logger.Warn("service not ready before deadline", "timeout", cfg.Timeout, "attempts", attempts)
	return false
}

// Check performs a single probe and returns nil when the service answers
// 200. Used by the check subcommand; does not retry.
func Check(ctx context.Context, cfg Config) error {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := &http.Client{Timeout: timeout}
	return probe(ctx, client, cfg.url())
}

func probe(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	// Readiness means exactly 200, not any 2xx.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("not ready: status %d", resp.StatusCode)
	}
	return nil
}
