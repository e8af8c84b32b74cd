package notification

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TaskTypeProcessEvent is the asynq task type for deferred event processing.
const TaskTypeProcessEvent = "relay:process_event"

// ProcessEventPayload is the serialized payload for a process-event task.
// Body carries the raw webhook bytes untouched so the worker normalizes
// the same bytes the signature covered.
type ProcessEventPayload struct {
	Kind string          `json:"kind"`
	Body json.RawMessage `json:"body"`
}

// NewProcessEventTask creates an asynq task for a verified webhook delivery.
func NewProcessEventTask(kind EventKind, body []byte) (*asynq.Task, error) {
	payload, err := json.Marshal(ProcessEventPayload{Kind: string(kind), Body: body})
	if err != nil {
		return nil, fmt.Errorf("marshaling task payload: %w", err)
	}
	return asynq.NewTask(TaskTypeProcessEvent, payload), nil
}

// ParseProcessEventPayload deserializes the task payload.
func ParseProcessEventPayload(data []byte) (*ProcessEventPayload, error) {
	var p ProcessEventPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshaling task payload: %w", err)
	}
	return &p, nil
}
