package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Reason explains why a notification was suppressed.
type Reason string

const (
	// ReasonAlreadyProcessed means the event id already has a log entry
	// (any status) or its reservation is held by another delivery.
	ReasonAlreadyProcessed Reason = "already_processed"

	// ReasonRateLimited means the recipient received a notification
	// within the cooldown window.
	ReasonRateLimited Reason = "rate_limited"
)

// Decision is the outcome of an eligibility check.
type Decision struct {
	Eligible bool
	Reason   Reason
}

// Gate decides whether an event/recipient pair is owed a notification,
// consulting the notification log for event dedup and recipient cooldown.
// The two checks and the later log write are advisory, not transactional:
// concurrent redeliveries can race past them. The optional reserver narrows
// that window with an atomic claim on the event id.
type Gate struct {
	store    NotificationStore
	reserver EventReserver
	window   time.Duration
	now      func() time.Time
}

// NewGate creates an eligibility gate. A nil reserver disables the atomic
// reservation; window defaults to 24h.
func NewGate(store NotificationStore, reserver EventReserver, window time.Duration) *Gate {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &Gate{
		store:    store,
		reserver: reserver,
		window:   window,
		now:      time.Now,
	}
}

// Check runs the event dedup check, then the recipient cooldown check.
// Both must pass for the event to be eligible.
func (g *Gate) Check(ctx context.Context, eventID, phone string) (Decision, error) {
	// Event dedup: any prior entry, regardless of status, blocks. A
	// redelivered webhook must never generate a second attempt.
	existing, err := g.store.FindByEventID(ctx, eventID)
	if err != nil {
		return Decision{}, fmt.Errorf("event dedup lookup: %w", err)
	}
	if existing != nil {
		return Decision{Reason: ReasonAlreadyProcessed}, nil
	}

	if g.reserver != nil {
		ok, err := g.reserver.Reserve(ctx, eventID)
		if err != nil {
			// Fail open — the log-store check above stays authoritative.
			slog.Error("event reservation failed, proceeding without it", "event_id", eventID, "error", err)
		} else if !ok {
			return Decision{Reason: ReasonAlreadyProcessed}, nil
		}
	}

	// Recipient cooldown: only the most recent Sent entry counts. A Failed
	// attempt delivered nothing and must not suppress a later send.
	latest, err := g.store.FindLatestSentByPhone(ctx, phone)
	if err != nil {
		return Decision{}, fmt.Errorf("cooldown lookup: %w", err)
	}
	if latest != nil && latest.Status == StatusSent && !latest.CreatedAt.IsZero() {
		if g.now().Sub(latest.CreatedAt) < g.window {
			return Decision{Reason: ReasonRateLimited}, nil
		}
	}

	return Decision{Eligible: true}, nil
}
