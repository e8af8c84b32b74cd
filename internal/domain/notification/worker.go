package notification

import (
	"context"
	"log/slog"
	"time"

	"orderping/internal/phone"
)

// Worker runs the post-acknowledgment pipeline for one webhook delivery:
// normalize the payload, canonicalize the recipient phone, consult the
// eligibility gate, and dispatch if a notification is owed. The upstream
// sender was already acknowledged, so every outcome here is absorbed —
// surfaced only through logs and the notification log.
type Worker struct {
	gate          *Gate
	dispatcher    *Dispatcher
	defaultRegion string
}

// NewWorker creates a pipeline worker. defaultRegion is the assumed phone
// region for numbers without an explicit country code.
func NewWorker(gate *Gate, dispatcher *Dispatcher, defaultRegion string) *Worker {
	return &Worker{
		gate:          gate,
		dispatcher:    dispatcher,
		defaultRegion: defaultRegion,
	}
}

// ProcessEvent handles a single delivery. It returns an error only for
// faults worth archiving (malformed payloads, store failures); expected
// suppression outcomes return nil.
func (w *Worker) ProcessEvent(ctx context.Context, kind EventKind, body []byte) error {
	start := time.Now()

	ev, err := ParseEvent(kind, body)
	if err != nil {
		slog.Error("event normalization failed", "kind", kind, "error", err)
		return err
	}

	if ev.Completed {
		slog.Info("checkout already completed, skipping", "event_id", ev.ID)
		return nil
	}

	if ev.RawPhone == "" {
		// Expected for guest checkouts without contact details.
		slog.Info("no recipient phone on event, skipping", "event_id", ev.ID, "kind", ev.Kind)
		return nil
	}

	canonical, err := phone.Normalize(ev.RawPhone, w.defaultRegion)
	if err != nil {
		slog.Info("recipient phone failed validation, skipping",
			"event_id", ev.ID,
			"error", err,
		)
		return nil
	}

	decision, err := w.gate.Check(ctx, ev.ID, canonical)
	if err != nil {
		slog.Error("eligibility check failed", "event_id", ev.ID, "error", err)
		return err
	}

	if !decision.Eligible {
		slog.Info("notification suppressed",
			"event_id", ev.ID,
			"reason", decision.Reason,
		)
		return nil
	}

	entry, err := w.dispatcher.Dispatch(ctx, ev, canonical)
	if err != nil {
		slog.Error("dispatch bookkeeping failed", "event_id", ev.ID, "error", err)
		return err
	}

	if entry.Status == StatusFailed {
		slog.Error("notification delivery failed",
			"event_id", ev.ID,
			"kind", ev.Kind,
			"error_detail", entry.ErrorDetail,
			"duration", time.Since(start),
		)
		return nil
	}

	slog.Info("notification sent",
		"event_id", ev.ID,
		"kind", ev.Kind,
		"provider_message_id", entry.ProviderMessageID,
		"duration", time.Since(start),
	)

	return nil
}
