package notification

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(store *memStore, sender *fakeSender) *Worker {
	gate := newTestGate(store, nil)
	dispatcher := newTestDispatcher(store, sender)
	return NewWorker(gate, dispatcher, "IN")
}

func checkoutBody(id int, phone string) []byte {
	return []byte(fmt.Sprintf(
		`{"id":%d,"completed_at":null,"total_price":"149.50","customer":{"first_name":"Asha","last_name":"Rao","phone":"%s"}}`,
		id, phone,
	))
}

func TestProcessEventHappyPath(t *testing.T) {
	store := &memStore{}
	sender := &fakeSender{id: "wamid.abc"}
	w := newTestWorker(store, sender)

	err := w.ProcessEvent(context.Background(), KindCheckoutUpdated, checkoutBody(1, "+919876543210"))
	require.NoError(t, err)

	require.Equal(t, 1, store.count())
	entry := store.entries[0]
	assert.Equal(t, "1", entry.EventID)
	assert.Equal(t, "+919876543210", entry.Recipient)
	assert.Equal(t, StatusSent, entry.Status)
}

func TestProcessEventCompletedCheckoutSkipped(t *testing.T) {
	store := &memStore{}
	sender := &fakeSender{id: "wamid.abc"}
	w := newTestWorker(store, sender)

	body := []byte(`{"id":2,"completed_at":"2026-08-29T10:00:00Z","customer":{"phone":"+919876543210"}}`)
	err := w.ProcessEvent(context.Background(), KindCheckoutUpdated, body)
	require.NoError(t, err)

	assert.Equal(t, 0, sender.calls)
	assert.Equal(t, 0, store.count())
}

func TestProcessEventMissingRecipientSkipped(t *testing.T) {
	store := &memStore{}
	sender := &fakeSender{id: "wamid.abc"}
	w := newTestWorker(store, sender)

	body := []byte(`{"id":3,"customer":{"first_name":"Asha"}}`)
	err := w.ProcessEvent(context.Background(), KindCheckoutUpdated, body)
	require.NoError(t, err)

	assert.Equal(t, 0, sender.calls)
	assert.Equal(t, 0, store.count())
}

func TestProcessEventInvalidPhoneSkipped(t *testing.T) {
	store := &memStore{}
	sender := &fakeSender{id: "wamid.abc"}
	w := newTestWorker(store, sender)

	err := w.ProcessEvent(context.Background(), KindCheckoutUpdated, checkoutBody(4, "12345"))
	require.NoError(t, err)

	assert.Equal(t, 0, sender.calls)
	assert.Equal(t, 0, store.count())
}

func TestProcessEventRedeliveryIdempotent(t *testing.T) {
	store := &memStore{}
	sender := &fakeSender{id: "wamid.abc"}
	w := newTestWorker(store, sender)

	body := checkoutBody(5, "+919876543210")
	require.NoError(t, w.ProcessEvent(context.Background(), KindCheckoutUpdated, body))
	require.NoError(t, w.ProcessEvent(context.Background(), KindCheckoutUpdated, body))

	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, 1, store.count())
}

func TestProcessEventRecipientCooldown(t *testing.T) {
	tests := []struct {
		name        string
		priorAge    time.Duration
		wantEntries int
		wantCalls   int
	}{
		{name: "one hour after prior send", priorAge: time.Hour, wantEntries: 1, wantCalls: 0},
		{name: "day after prior send", priorAge: 25 * time.Hour, wantEntries: 2, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{entries: []*LogEntry{{
				EventID:   "chk_prior",
				Recipient: "+919876543210",
				Status:    StatusSent,
				CreatedAt: fixedNow().Add(-tt.priorAge),
			}}}
			sender := &fakeSender{id: "wamid.abc"}
			w := newTestWorker(store, sender)

			// Different event id, same recipient.
			body := []byte(`{"id":6,"customer":{"first_name":"Asha","phone":"+919876543210"},"total_price":"20.00"}`)
			err := w.ProcessEvent(context.Background(), KindOrderCreated, body)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCalls, sender.calls)
			assert.Equal(t, tt.wantEntries, store.count())
		})
	}
}

func TestProcessEventDispatchFailureAbsorbed(t *testing.T) {
	store := &memStore{}
	sender := &fakeSender{err: errors.New("whatsapp: rate limited")}
	w := newTestWorker(store, sender)

	// Absorbed: the sender was already acknowledged, the failure is recorded.
	err := w.ProcessEvent(context.Background(), KindCheckoutUpdated, checkoutBody(7, "+919876543210"))
	require.NoError(t, err)

	require.Equal(t, 1, store.count())
	assert.Equal(t, StatusFailed, store.entries[0].Status)
	assert.Contains(t, store.entries[0].ErrorDetail, "rate limited")
}

func TestProcessEventUnknownKindRejected(t *testing.T) {
	store := &memStore{}
	sender := &fakeSender{id: "wamid.abc"}
	w := newTestWorker(store, sender)

	err := w.ProcessEvent(context.Background(), EventKind("refund.created"), checkoutBody(9, "+919876543210"))
	require.Error(t, err)

	assert.Equal(t, 0, sender.calls)
	assert.Equal(t, 0, store.count())
}

func TestProcessEventMalformedPayload(t *testing.T) {
	store := &memStore{}
	sender := &fakeSender{id: "wamid.abc"}
	w := newTestWorker(store, sender)

	err := w.ProcessEvent(context.Background(), KindCheckoutUpdated, []byte(`{"id":`))
	require.Error(t, err)
	assert.Equal(t, 0, store.count())
}

func TestProcessEventStoreFault(t *testing.T) {
	store := &memStore{findErr: errors.New("connection refused")}
	sender := &fakeSender{id: "wamid.abc"}
	w := newTestWorker(store, sender)

	err := w.ProcessEvent(context.Background(), KindCheckoutUpdated, checkoutBody(8, "+919876543210"))
	require.Error(t, err)
	assert.Equal(t, 0, sender.calls)
}
