package notification

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// memStore is an in-memory NotificationStore for tests.
type memStore struct {
	mu        sync.Mutex
	entries   []*LogEntry
	insertErr error
	findErr   error
}

func (s *memStore) Insert(ctx context.Context, entry *LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	entry.ID = fmt.Sprintf("log_%d", len(s.entries)+1)
	s.entries = append(s.entries, entry)
	return nil
}

func (s *memStore) FindByEventID(ctx context.Context, eventID string) (*LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, e := range s.entries {
		if e.EventID == eventID {
			return e, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindLatestSentByPhone(ctx context.Context, phone string) (*LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	var latest *LogEntry
	for _, e := range s.entries {
		if e.Recipient != phone || e.Status != StatusSent {
			continue
		}
		if latest == nil || e.CreatedAt.After(latest.CreatedAt) {
			latest = e
		}
	}
	return latest, nil
}

func (s *memStore) List(ctx context.Context, filter ListFilter) ([]*LogEntry, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*LogEntry
	for _, e := range s.entries {
		if filter.Status != "" && string(e.Status) != filter.Status {
			continue
		}
		if filter.Recipient != "" && e.Recipient != filter.Recipient {
			continue
		}
		if filter.Kind != "" && e.Kind != filter.Kind {
			continue
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

func (s *memStore) ListFailedSince(ctx context.Context, since time.Time, limit int) ([]*LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*LogEntry
	for _, e := range s.entries {
		if e.Status == StatusFailed && e.CreatedAt.After(since) {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// fakeSender is a MessageSender that records the last message.
type fakeSender struct {
	mu    sync.Mutex
	id    string
	err   error
	calls int
	last  *TemplateMessage
}

func (f *fakeSender) Send(ctx context.Context, msg *TemplateMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = msg
	if f.err != nil {
		return "", f.err
	}
	return f.id, nil
}

// fakeReserver is an EventReserver with canned behavior.
type fakeReserver struct {
	allow bool
	err   error
	calls int
}

func (f *fakeReserver) Reserve(ctx context.Context, eventID string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.allow, nil
}

// testTemplates is the template addressing used across tests.
func testTemplates() map[EventKind]TemplateSpec {
	return map[EventKind]TemplateSpec{
		KindCheckoutUpdated: {
			Name:           "cart_reminder",
			HeaderImageURL: "https://cdn.example.com/cart.png",
			DiscountCode:   "COMEBACK10",
		},
		KindOrderCreated: {
			Name:           "order_confirmation",
			HeaderImageURL: "https://cdn.example.com/order.png",
		},
	}
}
