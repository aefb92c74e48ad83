package health

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Status is the observed health state of the running service.
type Status string

const (
	StatusUnknown   Status = "unknown"
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// defaultUnhealthyThreshold is how many consecutive probe failures it
// takes before the service is reported unhealthy.
const defaultUnhealthyThreshold = 3

// Monitor keeps probing the status endpoint after startup and logs
// transitions between healthy and unhealthy. It never restarts the
// service; it only makes a dying backend visible in the launcher log.
type Monitor struct {
	cfg       Config
	threshold int
	logger    *slog.Logger
	client    *http.Client

	mu     sync.Mutex
	status Status
	fails  int
	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor creates a monitor probing the endpoint every cfg.Interval.
func NewMonitor(cfg Config, logger *slog.Logger) *Monitor {
	return &Monitor{
		cfg:       cfg,
		threshold: defaultUnhealthyThreshold,
		logger:    logger,
		client:    &http.Client{Timeout: cfg.Interval},
		status:    StatusUnknown,
	}
}

// Start begins periodic probing in the background.
func (m *Monitor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	m.done = make(chan struct{})
	m.mu.Unlock()

	go m.run(ctx)
}

// Stop halts probing and waits for the loop to exit. Safe to call when
// the monitor was never started.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	done := m.done
	m.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// CurrentStatus returns the latest observed status.
func (m *Monitor) CurrentStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Monitor) run(ctx context.Context) {
	defer func() {
		m.mu.Lock()
		m.cancel = nil
		close(m.done)
		m.mu.Unlock()
	}()

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.observe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (m *Monitor) observe(ctx context.Context) {
	err := probe(ctx, m.client, m.cfg.url())

	// A probe cut short by shutdown is not a health signal.
	if ctx.Err() != nil {
		return
	}

	m.mu.Lock()
	prev := m.status
	if err == nil {
		m.fails = 0
		m.status = StatusHealthy
	} else {
		m.fails++
		if m.fails >= m.threshold {
			m.status = StatusUnhealthy
		}
	}
	status := m.status
	fails := m.fails
	m.mu.Unlock()

	if err != nil {
		m.logger.Warn("health probe failed", "error", err, "consecutive_fails", fails)
	}

	switch {
	case prev != StatusUnhealthy && status == StatusUnhealthy:
		m.logger.Error("service is unhealthy", "consecutive_fails", fails)
	case prev == StatusUnhealthy && status == StatusHealthy:
		m.logger.Info("service recovered")
	}
}
