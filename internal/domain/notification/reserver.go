package notification

import "context"

// EventReserver defines the contract for an atomic event-id reservation.
// The log-store dedup check and the later insert are a read-then-write pair,
// so two concurrent redeliveries can both pass it; a reservation narrows
// that window with a single conditional write. Implementations live in
// infra/dedup/.
type EventReserver interface {
	// Reserve claims the event id. Returns false if another delivery
	// already holds the claim.
	Reserve(ctx context.Context, eventID string) (bool, error)
}
