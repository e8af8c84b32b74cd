package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orderping/internal/domain/notification"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

const tableName = "notification_logs"

var _ notification.NotificationStore = (*SupabaseStore)(nil)

// SupabaseStore implements the notification log using the Supabase Go SDK.
// The table is append-only: rows are inserted once and never updated.
type SupabaseStore struct {
	client *supa.Client
}

// NewSupabaseStore creates a new Supabase-backed notification log.
func NewSupabaseStore(supabaseURL, serviceKey string) (*SupabaseStore, error) {
	client, err := supa.NewClient(supabaseURL, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}
	return &SupabaseStore{client: client}, nil
}

// supabaseRow is the internal representation for Supabase PostgREST.
type supabaseRow struct {
	ID                string  `json:"id,omitempty"`
	EventID           string  `json:"event_id"`
	Recipient         string  `json:"recipient"`
	Kind              string  `json:"kind"`
	Status            string  `json:"status"`
	ProviderMessageID *string `json:"provider_message_id,omitempty"`
	ErrorDetail       *string `json:"error_detail,omitempty"`
	CreatedAt         string  `json:"created_at,omitempty"`
}

// Insert appends a new log entry.
func (s *SupabaseStore) Insert(ctx context.Context, entry *notification.LogEntry) error {
	row := supabaseRow{
		EventID:   entry.EventID,
		Recipient: entry.Recipient,
		Kind:      entry.Kind,
		Status:    string(entry.Status),
	}

	if entry.ProviderMessageID != "" {
		row.ProviderMessageID = &entry.ProviderMessageID
	}
	if entry.ErrorDetail != "" {
		row.ErrorDetail = &entry.ErrorDetail
	}
	if !entry.CreatedAt.IsZero() {
		row.CreatedAt = entry.CreatedAt.UTC().Format(time.RFC3339Nano)
	}

	data, _, err := s.client.From(tableName).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting log entry: %w", err)
	}

	var results []supabaseRow
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 {
		entry.ID = results[0].ID
	}

	return nil
}

// FindByEventID retrieves the log entry for an event id, any status.
// Returns nil, nil when no entry exists.
func (s *SupabaseStore) FindByEventID(ctx context.Context, eventID string) (*notification.LogEntry, error) {
	data, _, err := s.client.From(tableName).
		Select("*", "exact", false).
		Eq("event_id", eventID).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching by event id: %w", err)
	}

	var rows []supabaseRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing event id result: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rowToEntry(&rows[0]), nil
}

// FindLatestSentByPhone retrieves the most recent Sent entry for a phone.
// Returns nil, nil when no such entry exists.
func (s *SupabaseStore) FindLatestSentByPhone(ctx context.Context, phone string) (*notification.LogEntry, error) {
	data, _, err := s.client.From(tableName).
		Select("*", "exact", false).
		Eq("recipient", phone).
		Eq("status", string(notification.StatusSent)).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching latest sent by phone: %w", err)
	}

	var rows []supabaseRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing latest sent result: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rowToEntry(&rows[0]), nil
}

// List retrieves log entries with pagination and filtering.
func (s *SupabaseStore) List(ctx context.Context, filter notification.ListFilter) ([]*notification.LogEntry, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	offset := (filter.Page - 1) * filter.PageSize

	query := s.client.From(tableName).Select("*", "exact", false)

	if filter.Status != "" {
		query = query.Eq("status", filter.Status)
	}
	if filter.Recipient != "" {
		query = query.Eq("recipient", filter.Recipient)
	}
	if filter.Kind != "" {
		query = query.Eq("kind", filter.Kind)
	}

	query = query.Order("created_at", &postgrest.OrderOpts{Ascending: false})
	query = query.Range(offset, offset+filter.PageSize-1, "")

	data, count, err := query.Execute()
	if err != nil {
		return nil, 0, fmt.Errorf("listing log entries: %w", err)
	}

	var rows []supabaseRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, 0, fmt.Errorf("parsing log entry list: %w", err)
	}

	entries := make([]*notification.LogEntry, len(rows))
	for i, row := range rows {
		entries[i] = rowToEntry(&row)
	}

	return entries, int(count), nil
}

// ListFailedSince retrieves Failed entries created after the given instant.
func (s *SupabaseStore) ListFailedSince(ctx context.Context, since time.Time, limit int) ([]*notification.LogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	threshold := since.UTC().Format(time.RFC3339Nano)

	data, _, err := s.client.From(tableName).
		Select("*", "exact", false).
		Eq("status", string(notification.StatusFailed)).
		Gt("created_at", threshold).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Range(0, limit-1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing failed entries: %w", err)
	}

	var rows []supabaseRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing failed entries: %w", err)
	}

	entries := make([]*notification.LogEntry, len(rows))
	for i, row := range rows {
		entries[i] = rowToEntry(&row)
	}

	return entries, nil
}

// rowToEntry converts a supabaseRow to a LogEntry.
func rowToEntry(row *supabaseRow) *notification.LogEntry {
	entry := &notification.LogEntry{
		ID:        row.ID,
		EventID:   row.EventID,
		Recipient: row.Recipient,
		Kind:      row.Kind,
		Status:    notification.Status(row.Status),
	}

	if row.ProviderMessageID != nil {
		entry.ProviderMessageID = *row.ProviderMessageID
	}
	if row.ErrorDetail != nil {
		entry.ErrorDetail = *row.ErrorDetail
	}

	if row.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, row.CreatedAt); err == nil {
			entry.CreatedAt = t
		}
	}

	return entry
}
