package notification

import (
	"encoding/json"
	"strings"

	"orderping/internal/common"
)

// contact is the shared shape of the customer, shipping and billing blocks
// in commerce payloads.
type contact struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// checkoutPayload is the wire shape of a checkout-update delivery.
type checkoutPayload struct {
	ID          json.Number `json:"id"`
	CompletedAt *string     `json:"completed_at"`
	TotalPrice  string      `json:"total_price"`
	Customer    *contact    `json:"customer"`
	Shipping    *contact    `json:"shipping_address"`
	Billing     *contact    `json:"billing_address"`
}

// orderPayload is the wire shape of an order-create delivery.
type orderPayload struct {
	ID         json.Number `json:"id"`
	TotalPrice string      `json:"total_price"`
	Customer   *contact    `json:"customer"`
	Shipping   *contact    `json:"shipping_address"`
	Billing    *contact    `json:"billing_address"`
}

// ParseEvent normalizes a raw webhook body of the given kind into an Event.
// Returns a ValidationError when the kind is unrecognized or the body is
// unparseable or carries no id.
func ParseEvent(kind EventKind, body []byte) (*Event, error) {
	if !IsValidKind(kind) {
		return nil, common.NewValidationError("unsupported event kind: " + string(kind))
	}

	if kind == KindCheckoutUpdated {
		var p checkoutPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, common.NewValidationError("malformed checkout payload: " + err.Error())
		}
		if p.ID.String() == "" {
			return nil, common.NewValidationError("checkout payload missing id")
		}
		return &Event{
			ID:          p.ID.String(),
			Kind:        kind,
			RawPhone:    firstPhone(p.Customer, p.Shipping, p.Billing),
			DisplayName: displayName(p.Customer, p.Shipping, p.Billing),
			Completed:   p.CompletedAt != nil && *p.CompletedAt != "",
			TotalAmount: p.TotalPrice,
		}, nil
	}

	var p orderPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, common.NewValidationError("malformed order payload: " + err.Error())
	}
	if p.ID.String() == "" {
		return nil, common.NewValidationError("order payload missing id")
	}
	return &Event{
		ID:          p.ID.String(),
		Kind:        kind,
		RawPhone:    firstPhone(p.Customer, p.Shipping, p.Billing),
		DisplayName: displayName(p.Customer, p.Shipping, p.Billing),
		TotalAmount: p.TotalPrice,
	}, nil
}

// firstPhone returns the first non-empty phone across the given contacts,
// in priority order.
func firstPhone(contacts ...*contact) string {
	for _, c := range contacts {
		if c == nil {
			continue
		}
		if phone := strings.TrimSpace(c.Phone); phone != "" {
			return phone
		}
	}
	return ""
}

// displayName returns the first contact with a non-empty full name, in
// priority order, falling back to "Unknown User".
func displayName(contacts ...*contact) string {
	for _, c := range contacts {
		if c == nil {
			continue
		}
		name := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
		if name != "" {
			return name
		}
	}
	return "Unknown User"
}
