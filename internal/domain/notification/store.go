package notification

import (
	"context"
	"time"
)

// NotificationStore defines the contract for the append-only notification log.
// It is the single source of truth for idempotency and cooldown decisions.
// Implementations live in infra/store/ (e.g., Supabase).
type NotificationStore interface {
	// Insert appends a new log entry.
	Insert(ctx context.Context, entry *LogEntry) error

	// FindByEventID retrieves the log entry for an event id, any status.
	// Returns nil, nil if no entry exists.
	FindByEventID(ctx context.Context, eventID string) (*LogEntry, error)

	// FindLatestSentByPhone retrieves the most recent Sent entry for a
	// canonical phone. Returns nil, nil if no such entry exists.
	FindLatestSentByPhone(ctx context.Context, phone string) (*LogEntry, error)

	// List retrieves log entries with pagination and filtering.
	List(ctx context.Context, filter ListFilter) ([]*LogEntry, int, error)

	// ListFailedSince retrieves Failed entries created after the given
	// instant. Used by the failure monitor for reconciliation reporting.
	ListFailedSince(ctx context.Context, since time.Time, limit int) ([]*LogEntry, error)
}
