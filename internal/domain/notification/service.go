package notification

import (
	"context"
	"fmt"

	"orderping/internal/common"
)

// Service exposes read access to the notification log for the ops API.
// Failed entries are never retried automatically; this surface exists so
// they can be found and reconciled manually.
type Service struct {
	store NotificationStore
}

// NewService creates a notification log read service.
func NewService(store NotificationStore) *Service {
	return &Service{store: store}
}

// GetByEventID retrieves the log entry recorded for an event.
func (s *Service) GetByEventID(ctx context.Context, eventID string) (*LogEntry, error) {
	entry, err := s.store.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("fetching log entry: %w", err)
	}
	if entry == nil {
		return nil, common.NewNotFoundError("notification", eventID)
	}
	return entry, nil
}

// List retrieves log entries with pagination and filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	entries, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing log entries: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	return &ListResponse{
		Entries:  entries,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}
