package notification

import "time"

// Status represents the outcome of a dispatch attempt.
type Status string

const (
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

// LogEntry is one persisted dispatch attempt. Entries are append-only:
// they are written exactly once by the dispatcher and never mutated.
type LogEntry struct {
	ID                string    `json:"id"`
	EventID           string    `json:"event_id"`
	Recipient         string    `json:"recipient"` // canonical E.164
	Kind              string    `json:"kind"`
	Status            Status    `json:"status"`
	ProviderMessageID string    `json:"provider_message_id,omitempty"`
	ErrorDetail       string    `json:"error_detail,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// ListFilter defines pagination and filtering options for listing log entries.
type ListFilter struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	Status    string `form:"status"`
	Recipient string `form:"recipient"`
	Kind      string `form:"kind"`
}

// ListResponse wraps a paginated list of log entries.
type ListResponse struct {
	Entries  []*LogEntry `json:"entries"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}
