package notification

import (
	"context"
	"log/slog"
	"time"
)

// MonitorConfig holds configuration for the failure monitor.
type MonitorConfig struct {
	// Interval is how often the monitor scans for failed dispatches.
	Interval time.Duration

	// Lookback is how far back each scan reaches.
	Lookback time.Duration

	// BatchSize caps how many failed entries are reported per cycle.
	BatchSize int
}

// FailureMonitor periodically surfaces recent Failed entries from the
// notification log. Failed dispatches are terminal in this pipeline, so
// the monitor only reports them for external alerting and manual
// reconciliation; it never re-sends.
type FailureMonitor struct {
	store  NotificationStore
	config MonitorConfig
}

// NewFailureMonitor creates a failure monitor.
func NewFailureMonitor(store NotificationStore, cfg MonitorConfig) *FailureMonitor {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = cfg.Interval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}

	return &FailureMonitor{
		store:  store,
		config: cfg,
	}
}

// Run starts the monitor loop. It blocks until the context is cancelled.
// Should be called in a goroutine.
func (m *FailureMonitor) Run(ctx context.Context) {
	slog.Info("failure monitor started",
		"interval", m.config.Interval,
		"lookback", m.config.Lookback,
	)

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("failure monitor stopped")
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

// sweep performs one cycle: list recent failed dispatches and report them.
func (m *FailureMonitor) sweep(ctx context.Context) {
	since := time.Now().Add(-m.config.Lookback)

	failed, err := m.store.ListFailedSince(ctx, since, m.config.BatchSize)
	if err != nil {
		slog.Error("failure monitor: listing failed dispatches", "error", err)
		return
	}

	if len(failed) == 0 {
		return // The common case.
	}

	for _, entry := range failed {
		slog.Warn("failure monitor: dispatch failed",
			"event_id", entry.EventID,
			"kind", entry.Kind,
			"error_detail", entry.ErrorDetail,
			"at", entry.CreatedAt,
		)
	}

	slog.Warn("failure monitor: sweep complete", "failed", len(failed), "since", since)
}
