package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPhone = "+919876543210"

func fixedNow() time.Time {
	return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
}

func newTestGate(store *memStore, reserver EventReserver) *Gate {
	g := NewGate(store, reserver, 24*time.Hour)
	g.now = fixedNow
	return g
}

func TestGateEligibleWhenLogEmpty(t *testing.T) {
	gate := newTestGate(&memStore{}, nil)

	decision, err := gate.Check(context.Background(), "chk_1", testPhone)
	require.NoError(t, err)
	assert.True(t, decision.Eligible)
}

func TestGateBlocksProcessedEvent(t *testing.T) {
	// Any prior entry for the event id blocks, regardless of status.
	for _, status := range []Status{StatusSent, StatusFailed} {
		t.Run(string(status), func(t *testing.T) {
			store := &memStore{entries: []*LogEntry{{
				EventID:   "chk_1",
				Recipient: testPhone,
				Status:    status,
				CreatedAt: fixedNow().Add(-48 * time.Hour),
			}}}
			gate := newTestGate(store, nil)

			decision, err := gate.Check(context.Background(), "chk_1", testPhone)
			require.NoError(t, err)
			assert.False(t, decision.Eligible)
			assert.Equal(t, ReasonAlreadyProcessed, decision.Reason)
		})
	}
}

func TestGateCooldown(t *testing.T) {
	tests := []struct {
		name         string
		age          time.Duration
		wantEligible bool
	}{
		{name: "one hour ago", age: time.Hour, wantEligible: false},
		{name: "just inside window", age: 24*time.Hour - time.Minute, wantEligible: false},
		{name: "exactly at window", age: 24 * time.Hour, wantEligible: true},
		{name: "well past window", age: 72 * time.Hour, wantEligible: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{entries: []*LogEntry{{
				EventID:   "chk_prior",
				Recipient: testPhone,
				Status:    StatusSent,
				CreatedAt: fixedNow().Add(-tt.age),
			}}}
			gate := newTestGate(store, nil)

			decision, err := gate.Check(context.Background(), "ord_new", testPhone)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEligible, decision.Eligible)
			if !tt.wantEligible {
				assert.Equal(t, ReasonRateLimited, decision.Reason)
			}
		})
	}
}

func TestGateCooldownIgnoresFailedEntries(t *testing.T) {
	// A Failed attempt delivered nothing; it must not suppress a later send.
	store := &memStore{entries: []*LogEntry{{
		EventID:   "chk_prior",
		Recipient: testPhone,
		Status:    StatusFailed,
		CreatedAt: fixedNow().Add(-time.Hour),
	}}}
	gate := newTestGate(store, nil)

	decision, err := gate.Check(context.Background(), "ord_new", testPhone)
	require.NoError(t, err)
	assert.True(t, decision.Eligible)
}

func TestGateCooldownZeroTimestampDoesNotBlock(t *testing.T) {
	store := &memStore{entries: []*LogEntry{{
		EventID:   "chk_prior",
		Recipient: testPhone,
		Status:    StatusSent,
		// CreatedAt left zero: treated as no prior entry.
	}}}
	gate := newTestGate(store, nil)

	decision, err := gate.Check(context.Background(), "ord_new", testPhone)
	require.NoError(t, err)
	assert.True(t, decision.Eligible)
}

func TestGateReservation(t *testing.T) {
	t.Run("denied reservation blocks", func(t *testing.T) {
		reserver := &fakeReserver{allow: false}
		gate := newTestGate(&memStore{}, reserver)

		decision, err := gate.Check(context.Background(), "chk_1", testPhone)
		require.NoError(t, err)
		assert.False(t, decision.Eligible)
		assert.Equal(t, ReasonAlreadyProcessed, decision.Reason)
		assert.Equal(t, 1, reserver.calls)
	})

	t.Run("reserver failure fails open", func(t *testing.T) {
		reserver := &fakeReserver{err: errors.New("redis down")}
		gate := newTestGate(&memStore{}, reserver)

		decision, err := gate.Check(context.Background(), "chk_1", testPhone)
		require.NoError(t, err)
		assert.True(t, decision.Eligible)
	})
}

func TestGateStoreError(t *testing.T) {
	store := &memStore{findErr: errors.New("connection refused")}
	gate := newTestGate(store, nil)

	_, err := gate.Check(context.Background(), "chk_1", testPhone)
	require.Error(t, err)
}
